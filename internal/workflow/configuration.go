package workflow

import (
	"github.com/caengine/caebuild/internal/pipeline"
)

// Configuration captures pipeline behavior shared by every command that runs a plan.
type Configuration struct {
	HaltOnFailure bool `mapstructure:"halt_on_failure"`
}

// DefaultConfigurationValues returns viper defaults for the pipeline section rooted at prefix.
func DefaultConfigurationValues(prefix string) map[string]any {
	return map[string]any{
		prefix + ".halt_on_failure": false,
	}
}

// Policy converts the configuration into a failure policy.
func (configuration Configuration) Policy() pipeline.FailurePolicy {
	return pipeline.PolicyFromHaltFlag(configuration.HaltOnFailure)
}
