package preflight

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/caengine/caebuild/internal/build"
	"github.com/caengine/caebuild/internal/filesystem"
	"github.com/caengine/caebuild/internal/utils"
)

const (
	commandUseConstant              = "doctor"
	commandShortDescriptionConstant = "Check that build tools and project directories are available"
	commandLongDescriptionConstant  = "doctor looks up the shader compiler, generator, and backend on PATH and checks the source tree, shader sources, and dependency root."
	headerTemplateConstant          = "Preflight checks for %s\n"
	configurationLineTemplate       = "  configuration: %s\n"
	checkOutputLineTemplate         = "%s\n"
	noConfigurationFileConstant     = "embedded defaults"
	preflightFailedMessageConstant  = "preflight checks failed"
	unexpectedArgumentsMessage      = "doctor does not accept positional arguments"
)

// ErrPreflightFailed indicates at least one required check did not pass.
var ErrPreflightFailed = errors.New(preflightFailedMessageConstant)

var errUnexpectedArguments = errors.New(unexpectedArgumentsMessage)

// CommandBuilder assembles the doctor command.
type CommandBuilder struct {
	ConfigurationProvider func() build.CommandConfiguration
	FileSystem            filesystem.FileSystem
	Lookup                LookupFunc
	RootResolver          build.RootResolver
}

// Build constructs the doctor command.
func (builder *CommandBuilder) Build() (*cobra.Command, error) {
	return &cobra.Command{
		Use:   commandUseConstant,
		Short: commandShortDescriptionConstant,
		Long:  commandLongDescriptionConstant,
		RunE:  builder.run,
	}, nil
}

func (builder *CommandBuilder) run(command *cobra.Command, arguments []string) error {
	if len(arguments) > 0 {
		return errUnexpectedArguments
	}

	configuration := build.CommandConfiguration{Tools: build.DefaultToolsConfiguration()}
	if builder.ConfigurationProvider != nil {
		configuration = builder.ConfigurationProvider()
	}

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

	result := NewChecker(fileSystem, builder.Lookup).RunAll(config, configuration.Tools)

	configurationFile, configurationKnown := utils.NewCommandContextAccessor().ConfigurationFilePath(command.Context())
	if !configurationKnown || len(configurationFile) == 0 {
		configurationFile = noConfigurationFileConstant
	}

	output := command.OutOrStdout()
	fmt.Fprintf(output, headerTemplateConstant, config.RootDirectory)
	fmt.Fprintf(output, configurationLineTemplate, configurationFile)
	for _, check := range result.Checks {
		fmt.Fprintf(output, checkOutputLineTemplate, check.String())
	}

	if !result.Passed {
		return ErrPreflightFailed
	}
	return nil
}
