package build

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/caengine/caebuild/internal/execshell"
	"github.com/caengine/caebuild/internal/filesystem"
	"github.com/caengine/caebuild/internal/pipeline"
	pathutils "github.com/caengine/caebuild/internal/utils/path"
)

const (
	explicitPlanNameConstant              = "build"
	presetPlanNameTemplateConstant        = "build preset %s"
	shaderStepNameTemplateConstant        = "compile shader %s"
	configureStepNameConstant             = "configure"
	buildStepNameConstant                 = "build"
	exportCompileCommandsArgumentConstant = "-DCMAKE_EXPORT_COMPILE_COMMANDS=1"
	toolchainArgumentTemplateConstant     = "-DCMAKE_TOOLCHAIN_FILE=%s"
	buildTreeFlagConstant                 = "-B"
	sourceTreeFlagConstant                = "-S"
	generatorFlagConstant                 = "-G"
	presetFlagConstant                    = "--preset"
	shaderOutputFlagConstant              = "-o"
	dependencyScriptsDirectoryConstant    = "scripts"
	dependencyBuildSystemsDirConstant     = "buildsystems"
	dependencyToolchainFileNameConstant   = "vcpkg.cmake"
	configureArgumentsErrorTemplate       = "invalid configure arguments %q: %w"
	prepareDirectoriesErrorTemplate       = "unable to prepare build directories: %w"
	directoriesPreparedLogMessage         = "build directories prepared"
	toolchainInjectedLogMessage           = "dependency toolchain injected"
	toolchainOmittedLogMessage            = "dependency root absent; configuring without toolchain file"
	logFieldBuildDirectoryConstant        = "build_directory"
	logFieldShaderDirectoryConstant       = "shader_directory"
	logFieldToolchainFileConstant         = "toolchain_file"
	logFieldDependencyDirectoryConstant   = "dependency_directory"
)

// Orchestrator computes ordered command plans for explicit and preset builds.
type Orchestrator struct {
	logger       *zap.Logger
	fileSystem   filesystem.FileSystem
	tools        ToolsConfiguration
	pathResolver pathutils.BuildPathResolver
}

// NewOrchestrator constructs an Orchestrator.
func NewOrchestrator(logger *zap.Logger, fileSystem filesystem.FileSystem, tools ToolsConfiguration) (*Orchestrator, error) {
	if fileSystem == nil {
		return nil, filesystem.ErrFileSystemNotConfigured
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Orchestrator{
		logger:       logger,
		fileSystem:   fileSystem,
		tools:        tools.sanitize(),
		pathResolver: pathutils.NewBuildPathResolver(),
	}, nil
}

// PrepareDirectories ensures the build directory and its shader subdirectory exist.
// Calling it repeatedly is harmless.
func (orchestrator *Orchestrator) PrepareDirectories(config BuildConfig) error {
	if ensureError := filesystem.EnsureDirectories(orchestrator.fileSystem, config.BuildDirectory, config.ShaderDirectory()); ensureError != nil {
		return fmt.Errorf(prepareDirectoriesErrorTemplate, ensureError)
	}
	orchestrator.logger.Debug(
		directoriesPreparedLogMessage,
		zap.String(logFieldBuildDirectoryConstant, config.BuildDirectory),
		zap.String(logFieldShaderDirectoryConstant, config.ShaderDirectory()),
	)
	return nil
}

// ResolveToolchainFile returns the dependency toolchain file when the dependency root exists
// at call time, and an empty string otherwise. A missing dependency root is not an error.
func (orchestrator *Orchestrator) ResolveToolchainFile(config BuildConfig) string {
	if !filesystem.DirectoryExists(orchestrator.fileSystem, config.DependencyDirectory) {
		orchestrator.logger.Debug(toolchainOmittedLogMessage, zap.String(logFieldDependencyDirectoryConstant, config.DependencyDirectory))
		return ""
	}
	toolchainFile := orchestrator.pathResolver.Resolve(config.DependencyDirectory, dependencyScriptsDirectoryConstant, dependencyBuildSystemsDirConstant, dependencyToolchainFileNameConstant)
	orchestrator.logger.Debug(toolchainInjectedLogMessage, zap.String(logFieldToolchainFileConstant, toolchainFile))
	return toolchainFile
}

// PlanExplicit prepares the output directories and returns, in order, the shader
// compiles, the configure command, and the backend build.
func (orchestrator *Orchestrator) PlanExplicit(config BuildConfig) (pipeline.Plan, BuildConfig, error) {
	if validationError := config.validate(); validationError != nil {
		return pipeline.Plan{}, BuildConfig{}, validationError
	}
	if prepareError := orchestrator.PrepareDirectories(config); prepareError != nil {
		return pipeline.Plan{}, BuildConfig{}, prepareError
	}

	resolvedConfig := config
	resolvedConfig.PresetName = ""
	resolvedConfig.ToolchainFile = orchestrator.ResolveToolchainFile(config)

	steps := orchestrator.shaderSteps(resolvedConfig)

	configureCommand, configureError := orchestrator.explicitConfigureCommand(resolvedConfig)
	if configureError != nil {
		return pipeline.Plan{}, BuildConfig{}, configureError
	}
	steps = append(steps,
		pipeline.Step{Name: configureStepNameConstant, Command: configureCommand},
		pipeline.Step{Name: buildStepNameConstant, Command: orchestrator.buildCommand(resolvedConfig)},
	)

	return pipeline.NewPlan(explicitPlanNameConstant, steps...), resolvedConfig, nil
}

// PlanPreset targets root/build/<preset>, prepares its directories, and returns the
// preset configure command followed by the backend build.
func (orchestrator *Orchestrator) PlanPreset(config BuildConfig, presetName string) (pipeline.Plan, BuildConfig, error) {
	if validationError := config.validate(); validationError != nil {
		return pipeline.Plan{}, BuildConfig{}, validationError
	}
	presetConfig, presetError := config.ForPreset(presetName)
	if presetError != nil {
		return pipeline.Plan{}, BuildConfig{}, presetError
	}
	if prepareError := orchestrator.PrepareDirectories(presetConfig); prepareError != nil {
		return pipeline.Plan{}, BuildConfig{}, prepareError
	}

	configureCommand := execshell.NewShellCommand(
		execshell.CommandName(orchestrator.tools.Generator),
		execshell.CommandRoleConfigure,
		presetConfig.RootDirectory,
		presetFlagConstant, presetConfig.PresetName,
	)

	plan := pipeline.NewPlan(
		fmt.Sprintf(presetPlanNameTemplateConstant, presetConfig.PresetName),
		pipeline.Step{Name: configureStepNameConstant, Command: configureCommand},
		pipeline.Step{Name: buildStepNameConstant, Command: orchestrator.buildCommand(presetConfig)},
	)
	return plan, presetConfig, nil
}

func (orchestrator *Orchestrator) shaderSteps(config BuildConfig) []pipeline.Step {
	steps := make([]pipeline.Step, 0, len(orchestrator.tools.Shaders)+2)
	for _, shader := range orchestrator.tools.Shaders {
		sourcePath := orchestrator.pathResolver.Resolve(config.SourceDirectory, shaderDirectoryNameConstant, shader.Source)
		outputPath := orchestrator.pathResolver.Resolve(config.ShaderDirectory(), shader.Output)
		steps = append(steps, pipeline.Step{
			Name: fmt.Sprintf(shaderStepNameTemplateConstant, shader.Source),
			Command: execshell.NewShellCommand(
				execshell.CommandName(orchestrator.tools.ShaderCompiler),
				execshell.CommandRoleShaderCompile,
				"",
				sourcePath, shaderOutputFlagConstant, outputPath,
			),
		})
	}
	return steps
}

func (orchestrator *Orchestrator) explicitConfigureCommand(config BuildConfig) (execshell.ShellCommand, error) {
	arguments := []string{
		exportCompileCommandsArgumentConstant,
		buildTreeFlagConstant, config.BuildDirectory,
		sourceTreeFlagConstant, config.RootDirectory,
	}
	if len(config.ToolchainFile) > 0 {
		arguments = append(arguments, fmt.Sprintf(toolchainArgumentTemplateConstant, config.ToolchainFile))
	}

	extraArguments, splitError := orchestrator.tools.extraConfigureArguments()
	if splitError != nil {
		return execshell.ShellCommand{}, fmt.Errorf(configureArgumentsErrorTemplate, orchestrator.tools.ConfigureArguments, splitError)
	}
	arguments = append(arguments, extraArguments...)
	arguments = append(arguments, generatorFlagConstant, orchestrator.tools.GeneratorName)

	return execshell.NewShellCommand(execshell.CommandName(orchestrator.tools.Generator), execshell.CommandRoleConfigure, "", arguments...), nil
}

// buildCommand runs the backend inside the build directory.
func (orchestrator *Orchestrator) buildCommand(config BuildConfig) execshell.ShellCommand {
	return execshell.NewShellCommand(execshell.CommandName(orchestrator.tools.Backend), execshell.CommandRoleBuild, config.BuildDirectory)
}
