package build

import (
	"strings"

	"github.com/kballard/go-shellquote"

	"github.com/caengine/caebuild/internal/execshell"
)

const (
	defaultBuildDirectoryNameConstant      = "build"
	defaultSourceDirectoryNameConstant     = "src"
	defaultDependencyDirectoryNameConstant = "vcpkg"
	defaultGeneratorNameConstant           = "Ninja"
	shaderDirectoryNameConstant            = "shaders"
	vertexShaderSourceConstant             = "first.vert"
	vertexShaderOutputConstant             = "first_vert.spv"
	fragmentShaderSourceConstant           = "first.frag"
	fragmentShaderOutputConstant           = "first_frag.spv"
)

// ShaderConfiguration maps a shader source under the source shader directory to its compiled output name.
type ShaderConfiguration struct {
	Source string `mapstructure:"source"`
	Output string `mapstructure:"output"`
}

// ToolsConfiguration captures the executables and options used by the build pipeline.
type ToolsConfiguration struct {
	ShaderCompiler     string                `mapstructure:"shader_compiler"`
	Generator          string                `mapstructure:"generator"`
	GeneratorName      string                `mapstructure:"generator_name"`
	Backend            string                `mapstructure:"backend"`
	Shaders            []ShaderConfiguration `mapstructure:"shaders"`
	ConfigureArguments string                `mapstructure:"configure_arguments"`
}

// DefaultToolsConfiguration returns the tool set used when nothing is configured.
func DefaultToolsConfiguration() ToolsConfiguration {
	return ToolsConfiguration{
		ShaderCompiler: string(execshell.CommandShaderCompiler),
		Generator:      string(execshell.CommandGenerator),
		GeneratorName:  defaultGeneratorNameConstant,
		Backend:        string(execshell.CommandBackend),
		Shaders: []ShaderConfiguration{
			{Source: vertexShaderSourceConstant, Output: vertexShaderOutputConstant},
			{Source: fragmentShaderSourceConstant, Output: fragmentShaderOutputConstant},
		},
	}
}

// DefaultConfigurationValues returns viper defaults for the tools section rooted at prefix.
func DefaultConfigurationValues(prefix string) map[string]any {
	defaults := DefaultToolsConfiguration()
	shaders := make([]map[string]any, 0, len(defaults.Shaders))
	for _, shader := range defaults.Shaders {
		shaders = append(shaders, map[string]any{"source": shader.Source, "output": shader.Output})
	}
	return map[string]any{
		prefix + ".shader_compiler":     defaults.ShaderCompiler,
		prefix + ".generator":           defaults.Generator,
		prefix + ".generator_name":      defaults.GeneratorName,
		prefix + ".backend":             defaults.Backend,
		prefix + ".shaders":             shaders,
		prefix + ".configure_arguments": "",
	}
}

// WithDefaults returns a copy with values trimmed and blanks filled from DefaultToolsConfiguration.
func (configuration ToolsConfiguration) WithDefaults() ToolsConfiguration {
	return configuration.sanitize()
}

// sanitize trims values and fills blanks with defaults. A nil shader list selects the default shaders.
func (configuration ToolsConfiguration) sanitize() ToolsConfiguration {
	defaults := DefaultToolsConfiguration()
	sanitized := configuration
	sanitized.ShaderCompiler = valueOrDefault(configuration.ShaderCompiler, defaults.ShaderCompiler)
	sanitized.Generator = valueOrDefault(configuration.Generator, defaults.Generator)
	sanitized.GeneratorName = valueOrDefault(configuration.GeneratorName, defaults.GeneratorName)
	sanitized.Backend = valueOrDefault(configuration.Backend, defaults.Backend)
	sanitized.ConfigureArguments = strings.TrimSpace(configuration.ConfigureArguments)

	sanitized.Shaders = make([]ShaderConfiguration, 0, len(configuration.Shaders))
	for _, shader := range configuration.Shaders {
		trimmedSource := strings.TrimSpace(shader.Source)
		trimmedOutput := strings.TrimSpace(shader.Output)
		if len(trimmedSource) == 0 || len(trimmedOutput) == 0 {
			continue
		}
		sanitized.Shaders = append(sanitized.Shaders, ShaderConfiguration{Source: trimmedSource, Output: trimmedOutput})
	}
	if configuration.Shaders == nil {
		sanitized.Shaders = defaults.Shaders
	}
	return sanitized
}

// extraConfigureArguments splits the configured extra arguments using shell quoting rules.
func (configuration ToolsConfiguration) extraConfigureArguments() ([]string, error) {
	if len(configuration.ConfigureArguments) == 0 {
		return nil, nil
	}
	return shellquote.Split(configuration.ConfigureArguments)
}

func valueOrDefault(value string, defaultValue string) string {
	trimmedValue := strings.TrimSpace(value)
	if len(trimmedValue) == 0 {
		return defaultValue
	}
	return trimmedValue
}
