package execshell

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
)

const (
	processStateMissingMessageConstant = "process state unavailable after wait"
	processWaitErrorTemplateConstant   = "wait for %s: %w"
)

// OSCommandRunner executes commands using the operating system facilities.
type OSCommandRunner struct{}

// NewOSCommandRunner constructs a runner backed by os/exec.
func NewOSCommandRunner() *OSCommandRunner {
	return &OSCommandRunner{}
}

// Run starts the command, waits for it to terminate with both output streams
// drained, and only then reads the exit status. A non-zero exit status is
// reported through the result, never as an error; errors are reserved for
// processes that could not be started or waited on.
func (runner *OSCommandRunner) Run(executionContext context.Context, command ShellCommand) (ExecutionResult, error) {
	commandArguments := append([]string{}, command.Details.Arguments...)
	executable := exec.CommandContext(executionContext, string(command.Name), commandArguments...)

	if len(command.Details.WorkingDirectory) > 0 {
		executable.Dir = command.Details.WorkingDirectory
	}

	var standardOutputBuffer bytes.Buffer
	var standardErrorBuffer bytes.Buffer
	executable.Stdout = &standardOutputBuffer
	executable.Stderr = &standardErrorBuffer

	if startError := executable.Start(); startError != nil {
		return ExecutionResult{}, startError
	}

	waitError := executable.Wait()
	if executable.ProcessState == nil {
		if waitError != nil {
			return ExecutionResult{}, fmt.Errorf(processWaitErrorTemplateConstant, command.Name, waitError)
		}
		return ExecutionResult{}, fmt.Errorf(processWaitErrorTemplateConstant, command.Name, errProcessStateMissing)
	}

	return ExecutionResult{
		StandardOutput: standardOutputBuffer.String(),
		StandardError:  standardErrorBuffer.String(),
		ExitCode:       executable.ProcessState.ExitCode(),
	}, nil
}
