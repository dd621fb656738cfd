package dependencies

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/caengine/caebuild/internal/build"
	"github.com/caengine/caebuild/internal/execshell"
	"github.com/caengine/caebuild/internal/filesystem"
	"github.com/caengine/caebuild/internal/pipeline"
	pathutils "github.com/caengine/caebuild/internal/utils/path"
)

const (
	planNameTemplateConstant          = "dependencies %s"
	bootstrapStepNameConstant         = "bootstrap"
	installStepNameConstant           = "install"
	installSubcommandConstant         = "install"
	recurseFlagConstant               = "--recurse"
	posixBootstrapScriptConstant      = "bootstrap-vcpkg.sh"
	posixManagerExecutableConstant    = "vcpkg"
	windowsBootstrapScriptConstant    = "bootstrap-vcpkg.bat"
	windowsManagerExecutableConstant  = "vcpkg.exe"
	prepareBuildDirectoryErrorMessage = "unable to prepare build directory: %w"
	installPlannedLogMessage          = "dependency install planned"
	logFieldPlatformConstant          = "platform"
	logFieldIdentifierConstant        = "identifier"
	logFieldPackagesConstant          = "packages"
)

// packageManagerLayout names the bootstrap script and manager executable for one platform.
type packageManagerLayout struct {
	bootstrapScript   string
	managerExecutable string
}

// Installer plans package manager commands for a detected platform.
type Installer struct {
	logger        *zap.Logger
	fileSystem    filesystem.FileSystem
	configuration Configuration
	pathResolver  pathutils.BuildPathResolver
}

// NewInstaller constructs an Installer.
func NewInstaller(logger *zap.Logger, fileSystem filesystem.FileSystem, configuration Configuration) (*Installer, error) {
	if fileSystem == nil {
		return nil, filesystem.ErrFileSystemNotConfigured
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Installer{
		logger:        logger,
		fileSystem:    fileSystem,
		configuration: configuration.sanitize(),
		pathResolver:  pathutils.NewBuildPathResolver(),
	}, nil
}

// Plan returns the bootstrap and install commands for the platform named by identifier.
// An unsupported identifier yields an empty plan and an UnsupportedPlatformError before
// any directory is created.
func (installer *Installer) Plan(ctx context.Context, config build.BuildConfig, identifier string) (pipeline.Plan, error) {
	if contextError := ctx.Err(); contextError != nil {
		return pipeline.Plan{}, contextError
	}

	platform := DetectPlatform(identifier)
	var layout packageManagerLayout
	switch platform {
	case PlatformPOSIX:
		layout = packageManagerLayout{bootstrapScript: posixBootstrapScriptConstant, managerExecutable: posixManagerExecutableConstant}
	case PlatformWindows:
		layout = packageManagerLayout{bootstrapScript: windowsBootstrapScriptConstant, managerExecutable: windowsManagerExecutableConstant}
	case PlatformUnsupported:
		unsupportedError := UnsupportedPlatformError{Identifier: identifier}
		installer.logger.Warn(unsupportedError.Error(), zap.String(logFieldIdentifierConstant, identifier))
		return pipeline.Plan{}, unsupportedError
	}

	if ensureError := filesystem.EnsureDirectories(installer.fileSystem, config.BuildDirectory); ensureError != nil {
		return pipeline.Plan{}, fmt.Errorf(prepareBuildDirectoryErrorMessage, ensureError)
	}

	bootstrapCommand := execshell.NewShellCommand(
		execshell.CommandName(installer.pathResolver.Resolve(config.DependencyDirectory, layout.bootstrapScript)),
		execshell.CommandRoleDependencyBootstrap,
		config.RootDirectory,
	)

	installArguments := make([]string, 0, len(installer.configuration.Packages)+2)
	installArguments = append(installArguments, installSubcommandConstant)
	installArguments = append(installArguments, installer.configuration.Packages...)
	installArguments = append(installArguments, recurseFlagConstant)
	installCommand := execshell.NewShellCommand(
		execshell.CommandName(installer.pathResolver.Resolve(config.DependencyDirectory, layout.managerExecutable)),
		execshell.CommandRoleDependencyInstall,
		config.RootDirectory,
		installArguments...,
	)

	installer.logger.Debug(
		installPlannedLogMessage,
		zap.String(logFieldPlatformConstant, platform.String()),
		zap.Strings(logFieldPackagesConstant, installer.configuration.Packages),
	)

	return pipeline.NewPlan(
		fmt.Sprintf(planNameTemplateConstant, platform.String()),
		pipeline.Step{Name: bootstrapStepNameConstant, Command: bootstrapCommand},
		pipeline.Step{Name: installStepNameConstant, Command: installCommand},
	), nil
}
