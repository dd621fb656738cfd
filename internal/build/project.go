package build

import (
	"fmt"

	"github.com/caengine/caebuild/internal/filesystem"
	pathutils "github.com/caengine/caebuild/internal/utils/path"
)

const (
	defaultProjectRootConstant          = "."
	rootResolutionErrorTemplate         = "unable to resolve project root %q: %w"
	projectRootKeySuffix                = ".root"
	projectBuildDirectoryKeySuffix      = ".build_directory"
	projectSourceDirectoryKeySuffix     = ".source_directory"
	projectDependencyDirectoryKeySuffix = ".dependency_directory"
)

// RootResolver turns a user-supplied root into an absolute directory.
type RootResolver interface {
	Resolve(candidatePath string) (string, error)
}

// NewRootResolver returns a resolver that expands "~" and makes roots absolute through fileSystem.
func NewRootResolver(fileSystem filesystem.FileSystem) RootResolver {
	return pathutils.NewRootDirectoryResolverWithProviders(nil, fileSystem.Abs)
}

// ProjectConfiguration locates the project and names its directories relative to the root.
type ProjectConfiguration struct {
	Root                string `mapstructure:"root"`
	BuildDirectory      string `mapstructure:"build_directory"`
	SourceDirectory     string `mapstructure:"source_directory"`
	DependencyDirectory string `mapstructure:"dependency_directory"`
}

// DefaultProjectConfigurationValues returns viper defaults for the project section rooted at prefix.
func DefaultProjectConfigurationValues(prefix string) map[string]any {
	return map[string]any{
		prefix + projectRootKeySuffix:                defaultProjectRootConstant,
		prefix + projectBuildDirectoryKeySuffix:      defaultBuildDirectoryNameConstant,
		prefix + projectSourceDirectoryKeySuffix:     defaultSourceDirectoryNameConstant,
		prefix + projectDependencyDirectoryKeySuffix: defaultDependencyDirectoryNameConstant,
	}
}

// BuildConfig resolves the root and derives the per-invocation BuildConfig.
func (configuration ProjectConfiguration) BuildConfig(resolver RootResolver) (BuildConfig, error) {
	rootDirectory, resolveError := resolver.Resolve(configuration.Root)
	if resolveError != nil {
		return BuildConfig{}, fmt.Errorf(rootResolutionErrorTemplate, configuration.Root, resolveError)
	}
	return NewBuildConfigWithLayout(rootDirectory, configuration.BuildDirectory, configuration.SourceDirectory, configuration.DependencyDirectory), nil
}
