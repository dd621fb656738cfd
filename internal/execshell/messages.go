package execshell

import (
	"fmt"
	"strings"
)

type messageStage int

const (
	messageStageStart messageStage = iota
	messageStageSuccess
	messageStageFailure
	messageStageExecutionFailure
)

const (
	genericStartTemplateConstant            = "Running %s"
	genericSuccessTemplateConstant          = "Completed %s"
	genericFailureTemplateConstant          = "%s failed with exit code %d%s"
	genericExecutionFailureTemplateConstant = "%s failed: %s"
	commandLabelTemplateConstant            = "%s%s"
	workingDirectorySuffixTemplateConstant  = " (in %s)"
	standardErrorSuffixTemplateConstant     = ": %s"
	unknownFailureMessageConstant           = "unknown error"
	emptyStringConstant                     = ""
	defaultWorkingDirectoryLabelConstant    = "current directory"
	fallbackUnknownValueLabelConstant       = "unknown"
	packageListSeparatorConstant            = " "
)

const (
	shaderOutputFlagConstant        = "-o"
	configureBuildFlagConstant      = "-B"
	configureSourceFlagConstant     = "-S"
	configurePresetFlagConstant     = "--preset"
	installSubcommandNameConstant   = "install"
	longFlagPrefixConstant          = "--"
	shaderCompileStartTemplate      = "Compiling shader %s into %s"
	shaderCompileSuccessTemplate    = "Compiled shader %s into %s"
	shaderCompileFailureTemplate    = "Failed to compile shader %s (exit code %d%s)"
	shaderCompileExecutionTemplate  = "Unable to compile shader %s: %s"
	configureStartTemplate          = "Configuring build tree %s from %s"
	configureSuccessTemplate        = "Configured build tree %s from %s"
	configureFailureTemplate        = "Failed to configure build tree %s from %s (exit code %d%s)"
	configureExecutionTemplate      = "Unable to configure build tree %s from %s: %s"
	presetConfigureStartTemplate    = "Configuring preset %s"
	presetConfigureSuccessTemplate  = "Configured preset %s"
	presetConfigureFailureTemplate  = "Failed to configure preset %s (exit code %d%s)"
	presetConfigureExecutionFailure = "Unable to configure preset %s: %s"
	buildStartTemplate              = "Building in %s"
	buildSuccessTemplate            = "Built in %s"
	buildFailureTemplate            = "Build failed in %s (exit code %d%s)"
	buildExecutionTemplate          = "Unable to build in %s: %s"
	bootstrapStartTemplate          = "Bootstrapping package manager with %s"
	bootstrapSuccessTemplate        = "Bootstrapped package manager with %s"
	bootstrapFailureTemplate        = "Failed to bootstrap package manager with %s (exit code %d%s)"
	bootstrapExecutionTemplate      = "Unable to bootstrap package manager with %s: %s"
	installStartTemplate            = "Installing packages %s"
	installSuccessTemplate          = "Installed packages %s"
	installFailureTemplate          = "Failed to install packages %s (exit code %d%s)"
	installExecutionTemplate        = "Unable to install packages %s: %s"
)

// CommandMessageFormatter builds human-readable messages for command lifecycle events.
type CommandMessageFormatter struct{}

// BuildStartedMessage formats the message describing a command about to run.
func (formatter CommandMessageFormatter) BuildStartedMessage(command ShellCommand) string {
	return formatter.buildMessage(command, ExecutionResult{}, nil, messageStageStart)
}

// BuildSuccessMessage formats the message describing a completed command with a zero exit code.
func (formatter CommandMessageFormatter) BuildSuccessMessage(command ShellCommand) string {
	return formatter.buildMessage(command, ExecutionResult{}, nil, messageStageSuccess)
}

// BuildFailureMessage formats the message describing a command that returned a non-zero exit code.
func (formatter CommandMessageFormatter) BuildFailureMessage(command ShellCommand, result ExecutionResult) string {
	return formatter.buildMessage(command, result, nil, messageStageFailure)
}

// BuildExecutionFailureMessage formats the message describing an unexpected execution failure.
func (formatter CommandMessageFormatter) BuildExecutionFailureMessage(command ShellCommand, failure error) string {
	return formatter.buildMessage(command, ExecutionResult{}, failure, messageStageExecutionFailure)
}

func (formatter CommandMessageFormatter) buildMessage(command ShellCommand, result ExecutionResult, failure error, stage messageStage) string {
	switch command.Role {
	case CommandRoleShaderCompile:
		source := formatter.firstPositionalArgument(command.Details.Arguments)
		output := formatter.flagValue(command.Details.Arguments, shaderOutputFlagConstant)
		return formatter.selectTemplate(stage, result, failure,
			[]any{source, output}, []any{source},
			shaderCompileStartTemplate, shaderCompileSuccessTemplate, shaderCompileFailureTemplate, shaderCompileExecutionTemplate)
	case CommandRoleConfigure:
		if command.HasArgument(configurePresetFlagConstant) {
			preset := formatter.flagValue(command.Details.Arguments, configurePresetFlagConstant)
			return formatter.selectTemplate(stage, result, failure,
				[]any{preset}, []any{preset},
				presetConfigureStartTemplate, presetConfigureSuccessTemplate, presetConfigureFailureTemplate, presetConfigureExecutionFailure)
		}
		buildTree := formatter.flagValue(command.Details.Arguments, configureBuildFlagConstant)
		sourceTree := formatter.flagValue(command.Details.Arguments, configureSourceFlagConstant)
		return formatter.selectTemplate(stage, result, failure,
			[]any{buildTree, sourceTree}, []any{buildTree, sourceTree},
			configureStartTemplate, configureSuccessTemplate, configureFailureTemplate, configureExecutionTemplate)
	case CommandRoleBuild:
		workingDirectory := formatter.describeWorkingDirectory(command)
		return formatter.selectTemplate(stage, result, failure,
			[]any{workingDirectory}, []any{workingDirectory},
			buildStartTemplate, buildSuccessTemplate, buildFailureTemplate, buildExecutionTemplate)
	case CommandRoleDependencyBootstrap:
		script := string(command.Name)
		return formatter.selectTemplate(stage, result, failure,
			[]any{script}, []any{script},
			bootstrapStartTemplate, bootstrapSuccessTemplate, bootstrapFailureTemplate, bootstrapExecutionTemplate)
	case CommandRoleDependencyInstall:
		packages := formatter.describePackages(command.Details.Arguments)
		return formatter.selectTemplate(stage, result, failure,
			[]any{packages}, []any{packages},
			installStartTemplate, installSuccessTemplate, installFailureTemplate, installExecutionTemplate)
	default:
		return formatter.buildGenericMessage(command, result, failure, stage)
	}
}

// selectTemplate renders the template for the stage. Failure templates receive the
// failure arguments followed by the exit code and the standard error suffix.
func (formatter CommandMessageFormatter) selectTemplate(stage messageStage, result ExecutionResult, failure error, arguments []any, failureArguments []any, startTemplate string, successTemplate string, failureTemplate string, executionFailureTemplate string) string {
	switch stage {
	case messageStageStart:
		return fmt.Sprintf(startTemplate, arguments...)
	case messageStageSuccess:
		return fmt.Sprintf(successTemplate, arguments...)
	case messageStageFailure:
		values := append(append([]any{}, failureArguments...), result.ExitCode, formatter.formatStandardErrorSuffix(result.StandardError))
		return fmt.Sprintf(failureTemplate, values...)
	case messageStageExecutionFailure:
		values := append(append([]any{}, failureArguments...), formatter.describeFailure(failure))
		return fmt.Sprintf(executionFailureTemplate, values...)
	default:
		return emptyStringConstant
	}
}

func (formatter CommandMessageFormatter) buildGenericMessage(command ShellCommand, result ExecutionResult, failure error, stage messageStage) string {
	commandLabel := formatter.formatCommandLabel(command)
	switch stage {
	case messageStageStart:
		return fmt.Sprintf(genericStartTemplateConstant, commandLabel)
	case messageStageSuccess:
		return fmt.Sprintf(genericSuccessTemplateConstant, commandLabel)
	case messageStageFailure:
		return fmt.Sprintf(genericFailureTemplateConstant, commandLabel, result.ExitCode, formatter.formatStandardErrorSuffix(result.StandardError))
	case messageStageExecutionFailure:
		return fmt.Sprintf(genericExecutionFailureTemplateConstant, commandLabel, formatter.describeFailure(failure))
	default:
		return emptyStringConstant
	}
}

func (formatter CommandMessageFormatter) formatCommandLabel(command ShellCommand) string {
	return fmt.Sprintf(commandLabelTemplateConstant, command.String(), formatter.formatWorkingDirectorySuffix(command))
}

func (formatter CommandMessageFormatter) formatWorkingDirectorySuffix(command ShellCommand) string {
	trimmedWorkingDirectory := strings.TrimSpace(command.Details.WorkingDirectory)
	if len(trimmedWorkingDirectory) == 0 {
		return emptyStringConstant
	}
	return fmt.Sprintf(workingDirectorySuffixTemplateConstant, trimmedWorkingDirectory)
}

func (formatter CommandMessageFormatter) formatStandardErrorSuffix(standardError string) string {
	trimmedStandardError := strings.TrimSpace(standardError)
	if len(trimmedStandardError) == 0 {
		return emptyStringConstant
	}
	return fmt.Sprintf(standardErrorSuffixTemplateConstant, trimmedStandardError)
}

func (formatter CommandMessageFormatter) describeWorkingDirectory(command ShellCommand) string {
	trimmedWorkingDirectory := strings.TrimSpace(command.Details.WorkingDirectory)
	if len(trimmedWorkingDirectory) == 0 {
		return defaultWorkingDirectoryLabelConstant
	}
	return trimmedWorkingDirectory
}

func (formatter CommandMessageFormatter) describeFailure(failure error) string {
	if failure == nil {
		return unknownFailureMessageConstant
	}
	return failure.Error()
}

func (formatter CommandMessageFormatter) describePackages(arguments []string) string {
	packages := make([]string, 0, len(arguments))
	for _, argument := range arguments {
		trimmedArgument := strings.TrimSpace(argument)
		if trimmedArgument == installSubcommandNameConstant || strings.HasPrefix(trimmedArgument, longFlagPrefixConstant) || len(trimmedArgument) == 0 {
			continue
		}
		packages = append(packages, trimmedArgument)
	}
	if len(packages) == 0 {
		return fallbackUnknownValueLabelConstant
	}
	return strings.Join(packages, packageListSeparatorConstant)
}

// flagValue returns the argument that follows flag, or the unknown label.
func (formatter CommandMessageFormatter) flagValue(arguments []string, flag string) string {
	for argumentIndex := 0; argumentIndex < len(arguments)-1; argumentIndex++ {
		if strings.TrimSpace(arguments[argumentIndex]) == flag {
			return strings.TrimSpace(arguments[argumentIndex+1])
		}
	}
	return fallbackUnknownValueLabelConstant
}

func (formatter CommandMessageFormatter) firstPositionalArgument(arguments []string) string {
	for _, argument := range arguments {
		trimmedArgument := strings.TrimSpace(argument)
		if len(trimmedArgument) == 0 || strings.HasPrefix(trimmedArgument, "-") {
			continue
		}
		return trimmedArgument
	}
	return fallbackUnknownValueLabelConstant
}
