package execshell

import (
	"context"
	"strings"

	"github.com/kballard/go-shellquote"
)

const (
	commandShaderCompilerStringConstant = "glslc"
	commandGeneratorStringConstant      = "cmake"
	commandBackendStringConstant        = "ninja"
)

// CommandName identifies the executable to invoke, either a bare name resolved on PATH or a path.
type CommandName string

// Default executables used by the build pipeline.
const (
	CommandShaderCompiler CommandName = CommandName(commandShaderCompilerStringConstant)
	CommandGenerator      CommandName = CommandName(commandGeneratorStringConstant)
	CommandBackend        CommandName = CommandName(commandBackendStringConstant)
)

// CommandRole describes what an invocation does within the pipeline.
type CommandRole string

// Supported command roles.
const (
	CommandRoleGeneric             CommandRole = CommandRole("generic")
	CommandRoleShaderCompile       CommandRole = CommandRole("shader-compile")
	CommandRoleConfigure           CommandRole = CommandRole("configure")
	CommandRoleBuild               CommandRole = CommandRole("build")
	CommandRoleDependencyBootstrap CommandRole = CommandRole("dependency-bootstrap")
	CommandRoleDependencyInstall   CommandRole = CommandRole("dependency-install")
)

// CommandDetails describes the arguments and working directory of an invocation.
type CommandDetails struct {
	Arguments        []string
	WorkingDirectory string
}

// ShellCommand is a single external tool invocation. Values are treated as immutable once built.
type ShellCommand struct {
	Name    CommandName
	Role    CommandRole
	Details CommandDetails
}

// NewShellCommand constructs a command, copying the supplied arguments.
func NewShellCommand(name CommandName, role CommandRole, workingDirectory string, arguments ...string) ShellCommand {
	return ShellCommand{
		Name: name,
		Role: role,
		Details: CommandDetails{
			Arguments:        append([]string{}, arguments...),
			WorkingDirectory: workingDirectory,
		},
	}
}

// Argv returns the executable followed by its arguments.
func (command ShellCommand) Argv() []string {
	argv := make([]string, 0, len(command.Details.Arguments)+1)
	argv = append(argv, string(command.Name))
	return append(argv, command.Details.Arguments...)
}

// String renders the command as a shell-quoted line.
func (command ShellCommand) String() string {
	return shellquote.Join(command.Argv()...)
}

// HasArgument reports whether any argument equals value after trimming whitespace.
func (command ShellCommand) HasArgument(value string) bool {
	for _, argument := range command.Details.Arguments {
		if strings.TrimSpace(argument) == value {
			return true
		}
	}
	return false
}

// ExecutionResult captures the output streams and exit status of a terminated process.
type ExecutionResult struct {
	StandardOutput string
	StandardError  string
	ExitCode       int
}

// Succeeded reports whether the process exited with status zero.
func (result ExecutionResult) Succeeded() bool {
	return result.ExitCode == 0
}

// CommandRunner executes a command and blocks until it terminates.
type CommandRunner interface {
	Run(executionContext context.Context, command ShellCommand) (ExecutionResult, error)
}
