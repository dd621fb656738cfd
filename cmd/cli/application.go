package cli

import (
	"context"
	"errors"
	"fmt"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"go.uber.org/zap"

	"github.com/caengine/caebuild/internal/build"
	"github.com/caengine/caebuild/internal/dependencies"
	"github.com/caengine/caebuild/internal/preflight"
	"github.com/caengine/caebuild/internal/utils"
	flagutils "github.com/caengine/caebuild/internal/utils/flags"
	"github.com/caengine/caebuild/internal/workflow"
)

const (
	applicationNameConstant                 = "caebuild"
	applicationShortDescriptionConstant     = "Build orchestrator for the engine's shaders, CMake tree, and vcpkg dependencies"
	applicationLongDescriptionConstant      = "caebuild compiles shaders, configures and builds the project with CMake and Ninja, and bootstraps vcpkg dependencies, reporting every external command it runs."
	configFileFlagNameConstant              = "config"
	configFileFlagUsageConstant             = "Optional path to a configuration file (YAML or JSON)."
	logLevelFlagNameConstant                = "log-level"
	logLevelFlagDescriptionConstant         = "Override the configured log level."
	logFormatFlagNameConstant               = "log-format"
	logFormatFlagDescriptionConstant        = "Override the configured log format."
	rootFlagNameConstant                    = "root"
	rootFlagUsageConstant                   = "Project root directory (defaults to the configured root, then the working directory)."
	commonConfigurationKeyConstant          = "common"
	commonLogLevelConfigKeyConstant         = commonConfigurationKeyConstant + ".log_level"
	commonLogFormatConfigKeyConstant        = commonConfigurationKeyConstant + ".log_format"
	projectConfigurationKeyConstant         = "project"
	buildConfigurationKeyConstant           = "build"
	pipelineConfigurationKeyConstant        = "pipeline"
	dependenciesConfigurationKeyConstant    = "dependencies"
	environmentPrefixConstant               = "CAEBUILD"
	configurationNameConstant               = "config"
	configurationTypeConstant               = "yaml"
	configurationInitializedMessageConstant = "configuration initialized"
	configurationLogLevelFieldConstant      = "log_level"
	configurationLogFormatFieldConstant     = "log_format"
	configurationFileFieldConstant          = "config_file"
	configurationRootFieldConstant          = "root"
	configurationLoadErrorTemplateConstant  = "unable to load configuration: %w"
	loggerCreationErrorTemplateConstant     = "unable to create logger: %w"
	loggerSyncErrorTemplateConstant         = "unable to flush logger: %w"
	commandBuildErrorTemplateConstant       = "unable to build %s command: %w"
	defaultConfigurationSearchPathConstant  = "."
)

// ApplicationConfiguration describes the persisted configuration for the CLI entrypoint.
type ApplicationConfiguration struct {
	Common       ApplicationCommonConfiguration `mapstructure:"common"`
	Project      build.ProjectConfiguration     `mapstructure:"project"`
	Build        build.ToolsConfiguration       `mapstructure:"build"`
	Pipeline     workflow.Configuration         `mapstructure:"pipeline"`
	Dependencies dependencies.Configuration     `mapstructure:"dependencies"`
}

// ApplicationCommonConfiguration stores logging configuration shared across commands.
type ApplicationCommonConfiguration struct {
	LogLevel  string `mapstructure:"log_level"`
	LogFormat string `mapstructure:"log_format"`
}

// Application wires the Cobra root command, configuration loader, and structured loggers.
type Application struct {
	rootCommand            *cobra.Command
	configurationLoader    *utils.ConfigurationLoader
	loggerFactory          *utils.LoggerFactory
	logger                 *zap.Logger
	consoleLogger          *zap.Logger
	configuration          ApplicationConfiguration
	configurationMetadata  utils.LoadedConfiguration
	configurationFilePath  string
	logLevelFlagValue      string
	logFormatFlagValue     string
	rootFlagValue          string
	commandContextAccessor utils.CommandContextAccessor
}

// NewApplication assembles a fully wired CLI application instance.
func NewApplication() *Application {
	return newApplicationWithLoggerFactory(utils.NewLoggerFactory())
}

func newApplicationWithLoggerFactory(loggerFactory *utils.LoggerFactory) *Application {
	configurationLoader := utils.NewConfigurationLoader(
		configurationNameConstant,
		configurationTypeConstant,
		environmentPrefixConstant,
		[]string{defaultConfigurationSearchPathConstant},
	)
	configurationLoader.SetEmbeddedConfiguration(EmbeddedDefaultConfiguration())

	application := &Application{
		configurationLoader:    configurationLoader,
		loggerFactory:          loggerFactory,
		logger:                 zap.NewNop(),
		consoleLogger:          zap.NewNop(),
		commandContextAccessor: utils.NewCommandContextAccessor(),
	}

	cobraCommand := &cobra.Command{
		Use:           applicationNameConstant,
		Short:         applicationShortDescriptionConstant,
		Long:          applicationLongDescriptionConstant,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(command *cobra.Command, arguments []string) error {
			return application.initializeConfiguration(command)
		},
		RunE: func(command *cobra.Command, arguments []string) error {
			return command.Help()
		},
	}

	cobraCommand.SetContext(context.Background())
	persistentFlags := cobraCommand.PersistentFlags()
	persistentFlags.StringVar(&application.configurationFilePath, configFileFlagNameConstant, "", configFileFlagUsageConstant)
	flagutils.AddChoiceFlag(persistentFlags, &application.logLevelFlagValue, logLevelFlagNameConstant, string(utils.LogLevelInfo), utils.SupportedLogLevels(), logLevelFlagDescriptionConstant)
	flagutils.AddChoiceFlag(persistentFlags, &application.logFormatFlagValue, logFormatFlagNameConstant, string(utils.LogFormatConsole), utils.SupportedLogFormats(), logFormatFlagDescriptionConstant)
	persistentFlags.StringVar(&application.rootFlagValue, rootFlagNameConstant, "", rootFlagUsageConstant)

	for _, subcommand := range application.buildSubcommands() {
		cobraCommand.AddCommand(subcommand)
	}

	application.rootCommand = cobraCommand
	return application
}

func (application *Application) buildSubcommands() []*cobra.Command {
	loggerProvider := func() *zap.Logger { return application.logger }
	consoleLoggerProvider := func() *zap.Logger { return application.consoleLogger }

	buildBuilder := build.CommandBuilder{
		LoggerProvider:        loggerProvider,
		ConsoleLoggerProvider: consoleLoggerProvider,
		ConfigurationProvider: application.buildCommandConfiguration,
	}
	dependenciesBuilder := dependencies.CommandBuilder{
		LoggerProvider:        loggerProvider,
		ConsoleLoggerProvider: consoleLoggerProvider,
		ConfigurationProvider: application.dependenciesCommandConfiguration,
	}
	doctorBuilder := preflight.CommandBuilder{
		ConfigurationProvider: application.buildCommandConfiguration,
	}

	constructors := []struct {
		name  string
		build func() (*cobra.Command, error)
	}{
		{name: "build", build: buildBuilder.Build},
		{name: "preset", build: buildBuilder.BuildPreset},
		{name: "deps", build: dependenciesBuilder.Build},
		{name: "doctor", build: doctorBuilder.Build},
	}

	subcommands := make([]*cobra.Command, 0, len(constructors))
	for _, constructor := range constructors {
		subcommand, buildError := constructor.build()
		if buildError != nil {
			application.logger.Error(fmt.Errorf(commandBuildErrorTemplateConstant, constructor.name, buildError).Error())
			continue
		}
		subcommands = append(subcommands, subcommand)
	}
	return subcommands
}

// Execute runs the configured Cobra command hierarchy and ensures logger flushing.
func (application *Application) Execute() error {
	executionError := application.rootCommand.Execute()
	if syncError := application.flushLogger(); syncError != nil && executionError == nil {
		return fmt.Errorf(loggerSyncErrorTemplateConstant, syncError)
	}
	return executionError
}

// Execute builds a fresh application instance and executes the root command hierarchy.
func Execute() error {
	return NewApplication().Execute()
}

func (application *Application) buildCommandConfiguration() build.CommandConfiguration {
	return build.CommandConfiguration{
		Project:  application.configuration.Project,
		Tools:    application.configuration.Build,
		Pipeline: application.configuration.Pipeline,
	}
}

func (application *Application) dependenciesCommandConfiguration() dependencies.CommandConfiguration {
	return dependencies.CommandConfiguration{
		Project:      application.configuration.Project,
		Dependencies: application.configuration.Dependencies,
		Pipeline:     application.configuration.Pipeline,
	}
}

func (application *Application) initializeConfiguration(command *cobra.Command) error {
	loadedConfiguration, loadError := application.configurationLoader.LoadConfiguration(application.configurationFilePath, defaultConfigurationValues(), &application.configuration)
	if loadError != nil {
		return fmt.Errorf(configurationLoadErrorTemplateConstant, loadError)
	}
	application.configurationMetadata = loadedConfiguration

	if application.persistentFlagChanged(command, logLevelFlagNameConstant) {
		application.configuration.Common.LogLevel = application.logLevelFlagValue
	}
	if application.persistentFlagChanged(command, logFormatFlagNameConstant) {
		application.configuration.Common.LogFormat = application.logFormatFlagValue
	}
	if application.persistentFlagChanged(command, rootFlagNameConstant) {
		application.configuration.Project.Root = application.rootFlagValue
	}

	loggerOutputs, loggerCreationError := application.loggerFactory.CreateLoggerOutputs(
		utils.LogLevel(application.configuration.Common.LogLevel),
		utils.LogFormat(application.configuration.Common.LogFormat),
	)
	if loggerCreationError != nil {
		return fmt.Errorf(loggerCreationErrorTemplateConstant, loggerCreationError)
	}
	application.logger = loggerOutputs.DiagnosticLogger
	application.consoleLogger = loggerOutputs.ConsoleLogger

	application.logger.Debug(
		configurationInitializedMessageConstant,
		zap.String(configurationLogLevelFieldConstant, application.configuration.Common.LogLevel),
		zap.String(configurationLogFormatFieldConstant, application.configuration.Common.LogFormat),
		zap.String(configurationFileFieldConstant, application.configurationMetadata.ConfigFileUsed),
		zap.String(configurationRootFieldConstant, application.configuration.Project.Root),
	)

	if command != nil {
		updatedContext := application.commandContextAccessor.WithConfigurationFilePath(
			command.Context(),
			application.configurationMetadata.ConfigFileUsed,
		)
		command.SetContext(updatedContext)
		if rootCommand := command.Root(); rootCommand != nil {
			rootCommand.SetContext(updatedContext)
		}
	}

	return nil
}

func defaultConfigurationValues() map[string]any {
	defaultValues := map[string]any{
		commonLogLevelConfigKeyConstant:  string(utils.LogLevelInfo),
		commonLogFormatConfigKeyConstant: string(utils.LogFormatConsole),
	}
	sections := []map[string]any{
		build.DefaultProjectConfigurationValues(projectConfigurationKeyConstant),
		build.DefaultConfigurationValues(buildConfigurationKeyConstant),
		workflow.DefaultConfigurationValues(pipelineConfigurationKeyConstant),
		dependencies.DefaultConfigurationValues(dependenciesConfigurationKeyConstant),
	}
	for _, section := range sections {
		for configurationKey, configurationValue := range section {
			defaultValues[configurationKey] = configurationValue
		}
	}
	return defaultValues
}

func (application *Application) flushLogger() error {
	for _, logger := range []*zap.Logger{application.logger, application.consoleLogger} {
		if syncError := syncLoggerInstance(logger); syncError != nil {
			return syncError
		}
	}
	return nil
}

func syncLoggerInstance(logger *zap.Logger) error {
	if logger == nil {
		return nil
	}

	syncError := logger.Sync()
	switch {
	case syncError == nil:
		return nil
	case errors.Is(syncError, syscall.ENOTSUP):
		return nil
	case errors.Is(syncError, syscall.EINVAL):
		return nil
	case errors.Is(syncError, syscall.ENOTTY):
		return nil
	default:
		return syncError
	}
}

func (application *Application) persistentFlagChanged(command *cobra.Command, flagName string) bool {
	if command == nil {
		return false
	}

	flagSetsToInspect := []*pflag.FlagSet{
		command.PersistentFlags(),
		command.InheritedFlags(),
	}
	if rootCommand := command.Root(); rootCommand != nil {
		flagSetsToInspect = append(flagSetsToInspect, rootCommand.PersistentFlags())
	}

	for _, flagSet := range flagSetsToInspect {
		if flagSet != nil && flagSet.Changed(flagName) {
			return true
		}
	}
	return false
}

// RootCommand exposes the configured Cobra root command.
func (application *Application) RootCommand() *cobra.Command {
	return application.rootCommand
}
