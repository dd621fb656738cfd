package dependencies

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/caengine/caebuild/internal/build"
	"github.com/caengine/caebuild/internal/filesystem"
	"github.com/caengine/caebuild/internal/pipeline"
	flagutils "github.com/caengine/caebuild/internal/utils/flags"
	"github.com/caengine/caebuild/internal/workflow"
)

const (
	commandUseConstant                    = "deps"
	commandShortDescriptionConstant       = "Bootstrap the package manager and install native dependencies"
	commandLongDescriptionConstant        = "deps runs the package manager bootstrap script under the dependency directory and installs the configured packages for the detected platform."
	commandExecutionErrorTemplateConstant = "dependency install failed: %w"
	unexpectedArgumentsMessageConstant    = "deps does not accept positional arguments"
)

var errUnexpectedArguments = errors.New(unexpectedArgumentsMessageConstant)

// CommandConfiguration groups the configuration sections the deps command reads.
type CommandConfiguration struct {
	Project      build.ProjectConfiguration
	Dependencies Configuration
	Pipeline     workflow.Configuration
}

// CommandBuilder assembles the Cobra command for dependency installation.
type CommandBuilder struct {
	LoggerProvider        build.LoggerProvider
	ConsoleLoggerProvider build.LoggerProvider
	ConfigurationProvider func() CommandConfiguration
	CommandExecutor       pipeline.CommandExecutor
	FileSystem            filesystem.FileSystem
	RootResolver          build.RootResolver
}

// Build constructs the deps command.
func (builder *CommandBuilder) Build() (*cobra.Command, error) {
	command := &cobra.Command{
		Use:   commandUseConstant,
		Short: commandShortDescriptionConstant,
		Long:  commandLongDescriptionConstant,
	}
	flagValues := flagutils.BindPipelineFlags(command, flagutils.PipelineFlagValues{})
	command.RunE = func(command *cobra.Command, arguments []string) error {
		if len(arguments) > 0 {
			return errUnexpectedArguments
		}
		return builder.run(command, flagValues)
	}
	return command, nil
}

func (builder *CommandBuilder) run(command *cobra.Command, flagValues *flagutils.PipelineFlagValues) error {
	configuration := CommandConfiguration{Dependencies: DefaultConfiguration()}
	if builder.ConfigurationProvider != nil {
		configuration = builder.ConfigurationProvider()
	}
	logger := builder.resolveLogger(builder.LoggerProvider)

	var fileSystem filesystem.FileSystem = filesystem.NewOSFileSystem()
	if builder.FileSystem != nil {
		fileSystem = builder.FileSystem
	}
	rootResolver := builder.RootResolver
	if rootResolver == nil {
		rootResolver = build.NewRootResolver(fileSystem)
	}
	config, configError := configuration.Project.BuildConfig(rootResolver)
	if configError != nil {
		return configError
	}

	installer, installerError := NewInstaller(logger, fileSystem, configuration.Dependencies)
	if installerError != nil {
		return installerError
	}

	plan, planError := installer.Plan(command.Context(), config, configuration.Dependencies.PlatformIdentifier())
	if planError != nil {
		return fmt.Errorf(commandExecutionErrorTemplateConstant, planError)
	}

	executor := workflow.NewExecutor(workflow.Dependencies{
		Logger:          logger,
		ConsoleLogger:   builder.resolveLogger(builder.ConsoleLoggerProvider),
		CommandExecutor: builder.CommandExecutor,
		Output:          command.OutOrStdout(),
	})
	configuration.Pipeline.HaltOnFailure = flagutils.ResolveHaltOnFailure(command, flagValues, configuration.Pipeline.HaltOnFailure)
	return executor.Execute(command.Context(), plan, workflow.RuntimeOptions{
		DryRun: flagValues.DryRun,
		Policy: configuration.Pipeline.Policy(),
	})
}

func (builder *CommandBuilder) resolveLogger(provider build.LoggerProvider) *zap.Logger {
	if provider == nil {
		return zap.NewNop()
	}
	logger := provider()
	if logger == nil {
		return zap.NewNop()
	}
	return logger
}
