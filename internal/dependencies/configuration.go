package dependencies

import (
	"strings"
)

const (
	packageSDLConstant    = "sdl2[core,vulkan]"
	packageGLMConstant    = "glm"
	packageVulkanConstant = "vulkan"
)

// Configuration captures the packages to install and an optional platform override.
type Configuration struct {
	Packages []string `mapstructure:"packages"`
	// Platform overrides host detection when set.
	Platform string `mapstructure:"platform"`
}

// DefaultPackages returns the package list installed when none is configured.
func DefaultPackages() []string {
	return []string{packageSDLConstant, packageGLMConstant, packageVulkanConstant}
}

// DefaultConfiguration returns the installer defaults.
func DefaultConfiguration() Configuration {
	return Configuration{Packages: DefaultPackages()}
}

// DefaultConfigurationValues returns viper defaults for the dependencies section rooted at prefix.
func DefaultConfigurationValues(prefix string) map[string]any {
	return map[string]any{
		prefix + ".packages": DefaultPackages(),
		prefix + ".platform": "",
	}
}

// PlatformIdentifier returns the override when present and the host identifier otherwise.
func (configuration Configuration) PlatformIdentifier() string {
	trimmedPlatform := strings.TrimSpace(configuration.Platform)
	if len(trimmedPlatform) == 0 {
		return HostPlatformIdentifier()
	}
	return trimmedPlatform
}

func (configuration Configuration) sanitize() Configuration {
	sanitized := Configuration{Platform: strings.TrimSpace(configuration.Platform)}
	for _, packageName := range configuration.Packages {
		trimmedPackageName := strings.TrimSpace(packageName)
		if len(trimmedPackageName) == 0 {
			continue
		}
		sanitized.Packages = append(sanitized.Packages, trimmedPackageName)
	}
	if len(sanitized.Packages) == 0 {
		sanitized.Packages = DefaultPackages()
	}
	return sanitized
}
