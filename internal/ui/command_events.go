package ui

import (
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/caengine/caebuild/internal/execshell"
)

const (
	executingCommandTemplateConstant  = "Executing command: %s"
	commandReturnCodeTemplateConstant = "Command execution completed with return code: %d"
	standardOutputSectionTemplate     = "Output:\n%s"
	standardErrorSectionTemplate      = "Error:\n%s"
	trailingNewlineCutsetConstant     = "\r\n"
)

// ConsoleCommandEventLogger renders command lifecycle events using a zap logger configured for human-readable output.
// Each command produces a role-specific summary, the command text, its exit status, and any captured output.
type ConsoleCommandEventLogger struct {
	logger    *zap.Logger
	formatter execshell.CommandMessageFormatter
}

// NewConsoleCommandEventLogger constructs a console event logger backed by the provided zap logger.
func NewConsoleCommandEventLogger(logger *zap.Logger) *ConsoleCommandEventLogger {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ConsoleCommandEventLogger{logger: logger, formatter: execshell.CommandMessageFormatter{}}
}

// CommandStarted implements execshell.CommandEventObserver by logging command start notifications.
func (eventLogger *ConsoleCommandEventLogger) CommandStarted(command execshell.ShellCommand) {
	if eventLogger == nil {
		return
	}
	eventLogger.logger.Info(eventLogger.formatter.BuildStartedMessage(command))
	eventLogger.logger.Info(fmt.Sprintf(executingCommandTemplateConstant, command.String()))
}

// CommandCompleted implements execshell.CommandEventObserver by logging the exit status and captured streams.
func (eventLogger *ConsoleCommandEventLogger) CommandCompleted(command execshell.ShellCommand, result execshell.ExecutionResult) {
	if eventLogger == nil {
		return
	}
	eventLogger.logger.Info(fmt.Sprintf(commandReturnCodeTemplateConstant, result.ExitCode))
	eventLogger.logStream(standardOutputSectionTemplate, result.StandardOutput)
	eventLogger.logStream(standardErrorSectionTemplate, result.StandardError)
	if result.Succeeded() {
		eventLogger.logger.Info(eventLogger.formatter.BuildSuccessMessage(command))
		return
	}
	eventLogger.logger.Warn(eventLogger.formatter.BuildFailureMessage(command, result))
}

// CommandExecutionFailed implements execshell.CommandEventObserver by logging unexpected execution failures.
func (eventLogger *ConsoleCommandEventLogger) CommandExecutionFailed(command execshell.ShellCommand, failure error) {
	if eventLogger == nil {
		return
	}
	eventLogger.logger.Error(eventLogger.formatter.BuildExecutionFailureMessage(command, failure))
}

func (eventLogger *ConsoleCommandEventLogger) logStream(template string, content string) {
	trimmedContent := strings.TrimRight(content, trailingNewlineCutsetConstant)
	if len(strings.TrimSpace(trimmedContent)) == 0 {
		return
	}
	eventLogger.logger.Info(fmt.Sprintf(template, trimmedContent))
}
