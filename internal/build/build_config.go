package build

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	pathutils "github.com/caengine/caebuild/internal/utils/path"
)

const (
	presetNameRequiredMessageConstant = "preset name must be provided"
	invalidPresetNameTemplateConstant = "invalid preset name %q: must not contain path separators or parent references"
	rootDirectoryRequiredMessage      = "root directory must be provided"
	parentReferenceConstant           = ".."
	forwardSlashConstant              = "/"
	backslashConstant                 = `\`
)

var (
	// ErrPresetNameRequired indicates an empty preset name.
	ErrPresetNameRequired = errors.New(presetNameRequiredMessageConstant)
	// ErrRootDirectoryRequired indicates a configuration without a root directory.
	ErrRootDirectoryRequired = errors.New(rootDirectoryRequiredMessage)
)

// BuildConfig is the per-invocation description of where the project lives and where output goes.
type BuildConfig struct {
	RootDirectory       string
	BuildDirectory      string
	SourceDirectory     string
	DependencyDirectory string
	// ToolchainFile is filled in by explicit planning when the dependency root exists.
	ToolchainFile string
	// PresetName is set only for preset builds.
	PresetName string
}

// NewBuildConfig derives a configuration from a root directory using the conventional layout.
func NewBuildConfig(rootDirectory string) BuildConfig {
	return NewBuildConfigWithLayout(rootDirectory, defaultBuildDirectoryNameConstant, defaultSourceDirectoryNameConstant, defaultDependencyDirectoryNameConstant)
}

// NewBuildConfigWithLayout derives a configuration from a root directory and directory names.
// Relative names are placed under the root; absolute names are used as given.
func NewBuildConfigWithLayout(rootDirectory string, buildDirectoryName string, sourceDirectoryName string, dependencyDirectoryName string) BuildConfig {
	return BuildConfig{
		RootDirectory:       rootDirectory,
		BuildDirectory:      layoutDirectory(rootDirectory, buildDirectoryName, defaultBuildDirectoryNameConstant),
		SourceDirectory:     layoutDirectory(rootDirectory, sourceDirectoryName, defaultSourceDirectoryNameConstant),
		DependencyDirectory: layoutDirectory(rootDirectory, dependencyDirectoryName, defaultDependencyDirectoryNameConstant),
	}
}

func layoutDirectory(rootDirectory string, directoryName string, defaultName string) string {
	directoryName = valueOrDefault(directoryName, defaultName)
	if filepath.IsAbs(directoryName) {
		return directoryName
	}
	return pathutils.NewBuildPathResolver().Resolve(rootDirectory, directoryName)
}

// ShaderDirectory returns the directory receiving compiled shaders.
func (config BuildConfig) ShaderDirectory() string {
	return pathutils.NewBuildPathResolver().Resolve(config.BuildDirectory, shaderDirectoryNameConstant)
}

// ForPreset returns a copy targeting root/build/<preset>.
func (config BuildConfig) ForPreset(presetName string) (BuildConfig, error) {
	trimmedPresetName := strings.TrimSpace(presetName)
	if validationError := ValidatePresetName(trimmedPresetName); validationError != nil {
		return BuildConfig{}, validationError
	}
	presetConfig := config
	presetConfig.PresetName = trimmedPresetName
	presetConfig.ToolchainFile = ""
	presetConfig.BuildDirectory = pathutils.NewBuildPathResolver().Resolve(config.RootDirectory, defaultBuildDirectoryNameConstant, trimmedPresetName)
	return presetConfig, nil
}

func (config BuildConfig) validate() error {
	if len(strings.TrimSpace(config.RootDirectory)) == 0 {
		return ErrRootDirectoryRequired
	}
	return nil
}

// ValidatePresetName rejects empty names and names that would escape the build directory.
func ValidatePresetName(presetName string) error {
	if len(presetName) == 0 {
		return ErrPresetNameRequired
	}
	if presetName == parentReferenceConstant || presetName == "." || strings.Contains(presetName, forwardSlashConstant) || strings.Contains(presetName, backslashConstant) {
		return fmt.Errorf(invalidPresetNameTemplateConstant, presetName)
	}
	return nil
}
