package build

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/caengine/caebuild/internal/filesystem"
	"github.com/caengine/caebuild/internal/pipeline"
	flagutils "github.com/caengine/caebuild/internal/utils/flags"
	"github.com/caengine/caebuild/internal/workflow"
)

const (
	buildCommandUseConstant               = "build"
	buildCommandShortDescriptionConstant  = "Compile shaders, configure, and build the project"
	buildCommandLongDescriptionConstant   = "build prepares the build directory, compiles each configured shader, configures the build tree with the generator (adding the dependency toolchain file when the dependency root exists), and runs the backend in the build directory."
	presetCommandUseConstant              = "preset <name>"
	presetCommandShortDescriptionConstant = "Configure and build a named preset"
	presetCommandLongDescriptionConstant  = "preset configures the project with the named generator preset and runs the backend in build/<name>. Toolchain details come from the preset definition."
	buildCommandExecutionErrorTemplate    = "build failed: %w"
	presetCommandExecutionErrorTemplate   = "preset build failed: %w"
	unexpectedArgumentsMessageConstant    = "build does not accept positional arguments"
)

var errUnexpectedArguments = errors.New(unexpectedArgumentsMessageConstant)

// LoggerProvider supplies a zap logger instance.
type LoggerProvider func() *zap.Logger

// CommandConfiguration groups the configuration sections the build commands read.
type CommandConfiguration struct {
	Project  ProjectConfiguration
	Tools    ToolsConfiguration
	Pipeline workflow.Configuration
}

// ConfigurationProvider supplies the configuration resolved at startup.
type ConfigurationProvider func() CommandConfiguration

// CommandBuilder assembles the Cobra commands for explicit and preset builds.
type CommandBuilder struct {
	LoggerProvider        LoggerProvider
	ConsoleLoggerProvider LoggerProvider
	ConfigurationProvider ConfigurationProvider
	CommandExecutor       pipeline.CommandExecutor
	FileSystem            filesystem.FileSystem
	RootResolver          RootResolver
}

// Build constructs the build command.
func (builder *CommandBuilder) Build() (*cobra.Command, error) {
	command := &cobra.Command{
		Use:   buildCommandUseConstant,
		Short: buildCommandShortDescriptionConstant,
		Long:  buildCommandLongDescriptionConstant,
	}
	flagValues := flagutils.BindPipelineFlags(command, flagutils.PipelineFlagValues{})
	command.RunE = func(command *cobra.Command, arguments []string) error {
		if len(arguments) > 0 {
			return errUnexpectedArguments
		}
		return builder.run(command, flagValues, buildCommandExecutionErrorTemplate, func(orchestrator *Orchestrator, config BuildConfig) (pipeline.Plan, error) {
			plan, _, planError := orchestrator.PlanExplicit(config)
			return plan, planError
		})
	}
	return command, nil
}

// BuildPreset constructs the preset command.
func (builder *CommandBuilder) BuildPreset() (*cobra.Command, error) {
	command := &cobra.Command{
		Use:   presetCommandUseConstant,
		Short: presetCommandShortDescriptionConstant,
		Long:  presetCommandLongDescriptionConstant,
		Args:  cobra.ExactArgs(1),
	}
	flagValues := flagutils.BindPipelineFlags(command, flagutils.PipelineFlagValues{})
	command.RunE = func(command *cobra.Command, arguments []string) error {
		presetName := arguments[0]
		return builder.run(command, flagValues, presetCommandExecutionErrorTemplate, func(orchestrator *Orchestrator, config BuildConfig) (pipeline.Plan, error) {
			plan, _, planError := orchestrator.PlanPreset(config, presetName)
			return plan, planError
		})
	}
	return command, nil
}

type planFunc func(orchestrator *Orchestrator, config BuildConfig) (pipeline.Plan, error)

func (builder *CommandBuilder) run(command *cobra.Command, flagValues *flagutils.PipelineFlagValues, errorTemplate string, plan planFunc) error {
	configuration := builder.resolveConfiguration()
	logger := resolveLogger(builder.LoggerProvider)

	fileSystem := builder.resolveFileSystem()
	config, configError := configuration.Project.BuildConfig(builder.resolveRootResolver(fileSystem))
	if configError != nil {
		return configError
	}

	orchestrator, orchestratorError := NewOrchestrator(logger, fileSystem, configuration.Tools)
	if orchestratorError != nil {
		return orchestratorError
	}

	buildPlan, planError := plan(orchestrator, config)
	if planError != nil {
		return fmt.Errorf(errorTemplate, planError)
	}

	executor := workflow.NewExecutor(workflow.Dependencies{
		Logger:          logger,
		ConsoleLogger:   resolveLogger(builder.ConsoleLoggerProvider),
		CommandExecutor: builder.CommandExecutor,
		Output:          command.OutOrStdout(),
	})
	configuration.Pipeline.HaltOnFailure = flagutils.ResolveHaltOnFailure(command, flagValues, configuration.Pipeline.HaltOnFailure)
	return executor.Execute(command.Context(), buildPlan, workflow.RuntimeOptions{
		DryRun: flagValues.DryRun,
		Policy: configuration.Pipeline.Policy(),
	})
}

func (builder *CommandBuilder) resolveConfiguration() CommandConfiguration {
	if builder.ConfigurationProvider == nil {
		return CommandConfiguration{Tools: DefaultToolsConfiguration()}
	}
	return builder.ConfigurationProvider()
}

func (builder *CommandBuilder) resolveFileSystem() filesystem.FileSystem {
	if builder.FileSystem == nil {
		return filesystem.NewOSFileSystem()
	}
	return builder.FileSystem
}

func (builder *CommandBuilder) resolveRootResolver(fileSystem filesystem.FileSystem) RootResolver {
	if builder.RootResolver == nil {
		return NewRootResolver(fileSystem)
	}
	return builder.RootResolver
}

func resolveLogger(provider LoggerProvider) *zap.Logger {
	if provider == nil {
		return zap.NewNop()
	}
	logger := provider()
	if logger == nil {
		return zap.NewNop()
	}
	return logger
}
