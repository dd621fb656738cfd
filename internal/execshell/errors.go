package execshell

import (
	"errors"
	"fmt"
	"strings"
)

const (
	loggerNotConfiguredMessageConstant        = "logger not configured"
	commandRunnerNotConfiguredMessageConstant = "command runner not configured"
	commandFailedTemplateConstant             = "%s exited with status %d"
	commandFailedWithErrorTemplateConstant    = "%s exited with status %d: %s"
	commandExecutionFailedTemplateConstant    = "%s could not be executed: %v"
)

var (
	// ErrLoggerNotConfigured indicates the executor was created without a logger.
	ErrLoggerNotConfigured = errors.New(loggerNotConfiguredMessageConstant)
	// ErrCommandRunnerNotConfigured indicates the executor was created without a command runner.
	ErrCommandRunnerNotConfigured = errors.New(commandRunnerNotConfiguredMessageConstant)
	errProcessStateMissing        = errors.New(processStateMissingMessageConstant)
)

// CommandFailedError reports a command that terminated with a non-zero exit status.
type CommandFailedError struct {
	Command ShellCommand
	Result  ExecutionResult
}

// Error describes the failed command.
func (failure CommandFailedError) Error() string {
	trimmedStandardError := strings.TrimSpace(failure.Result.StandardError)
	if len(trimmedStandardError) == 0 {
		return fmt.Sprintf(commandFailedTemplateConstant, failure.Command.String(), failure.Result.ExitCode)
	}
	return fmt.Sprintf(commandFailedWithErrorTemplateConstant, failure.Command.String(), failure.Result.ExitCode, trimmedStandardError)
}

// ExitCode returns the exit status of the failed command.
func (failure CommandFailedError) ExitCode() int {
	return failure.Result.ExitCode
}

// CommandExecutionError reports a command that could not be started or awaited.
type CommandExecutionError struct {
	Command ShellCommand
	Cause   error
}

// Error describes the execution failure.
func (failure CommandExecutionError) Error() string {
	return fmt.Sprintf(commandExecutionFailedTemplateConstant, failure.Command.String(), failure.Cause)
}

// Unwrap exposes the underlying cause.
func (failure CommandExecutionError) Unwrap() error {
	return failure.Cause
}
