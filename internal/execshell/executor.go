package execshell

import (
	"context"

	"go.uber.org/zap"
)

const (
	executingCommandLogMessageConstant       = "executing command"
	commandCompletedLogMessageConstant       = "command completed"
	commandFailedLogMessageConstant          = "command exited with non-zero status"
	commandExecutionFailedLogMessageConstant = "command execution failed"
	logFieldCommandConstant                  = "command"
	logFieldRoleConstant                     = "role"
	logFieldWorkingDirectoryConstant         = "working_directory"
	logFieldExitCodeConstant                 = "exit_code"
	logFieldSummaryConstant                  = "summary"
)

// ShellExecutor runs commands through a CommandRunner, logging and reporting each lifecycle event.
type ShellExecutor struct {
	logger    *zap.Logger
	runner    CommandRunner
	observer  CommandEventObserver
	formatter CommandMessageFormatter
}

// NewShellExecutor constructs a ShellExecutor with the provided logger and runner.
func NewShellExecutor(logger *zap.Logger, runner CommandRunner) (*ShellExecutor, error) {
	if logger == nil {
		return nil, ErrLoggerNotConfigured
	}
	if runner == nil {
		return nil, ErrCommandRunnerNotConfigured
	}
	return &ShellExecutor{
		logger:    logger,
		runner:    runner,
		observer:  noopCommandEventObserver{},
		formatter: CommandMessageFormatter{},
	}, nil
}

// WithObserver attaches an observer notified about every command lifecycle event.
func (executor *ShellExecutor) WithObserver(observer CommandEventObserver) *ShellExecutor {
	if observer == nil {
		executor.observer = noopCommandEventObserver{}
		return executor
	}
	executor.observer = observer
	return executor
}

// Execute runs the command to completion. The full result is returned even when
// the command fails, so callers decide whether a failure stops further work.
// Non-zero exit statuses surface as CommandFailedError and start failures as
// CommandExecutionError.
func (executor *ShellExecutor) Execute(executionContext context.Context, command ShellCommand) (ExecutionResult, error) {
	commandFields := []zap.Field{
		zap.String(logFieldCommandConstant, command.String()),
		zap.String(logFieldRoleConstant, string(command.Role)),
		zap.String(logFieldWorkingDirectoryConstant, command.Details.WorkingDirectory),
	}

	executor.logger.Debug(executingCommandLogMessageConstant, append(commandFields, zap.String(logFieldSummaryConstant, executor.formatter.BuildStartedMessage(command)))...)
	executor.observer.CommandStarted(command)

	executionResult, runError := executor.runner.Run(executionContext, command)
	if runError != nil {
		executor.logger.Warn(commandExecutionFailedLogMessageConstant, append(commandFields, zap.Error(runError))...)
		executor.observer.CommandExecutionFailed(command, runError)
		return ExecutionResult{}, CommandExecutionError{Command: command, Cause: runError}
	}

	executor.observer.CommandCompleted(command, executionResult)

	resultFields := append(commandFields, zap.Int(logFieldExitCodeConstant, executionResult.ExitCode))
	if !executionResult.Succeeded() {
		executor.logger.Warn(commandFailedLogMessageConstant, append(resultFields, zap.String(logFieldSummaryConstant, executor.formatter.BuildFailureMessage(command, executionResult)))...)
		return executionResult, CommandFailedError{Command: command, Result: executionResult}
	}

	executor.logger.Debug(commandCompletedLogMessageConstant, append(resultFields, zap.String(logFieldSummaryConstant, executor.formatter.BuildSuccessMessage(command)))...)
	return executionResult, nil
}
