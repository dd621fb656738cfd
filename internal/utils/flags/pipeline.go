package flags

import (
	"github.com/spf13/cobra"
)

const (
	// DryRunFlagName exposes the shared dry-run flag name.
	DryRunFlagName = "dry-run"
	// DryRunFlagUsage describes the shared dry-run flag purpose.
	DryRunFlagUsage = "Print the planned commands without running them"
	// HaltOnFailureFlagName exposes the shared halt-on-failure flag name.
	HaltOnFailureFlagName = "halt-on-failure"
	// HaltOnFailureFlagUsage describes the shared halt-on-failure flag purpose.
	HaltOnFailureFlagUsage = "Skip the remaining commands after the first failure"
)

// PipelineFlagValues stores the pipeline flag values bound to a command.
type PipelineFlagValues struct {
	DryRun        bool
	HaltOnFailure bool
}

// BindPipelineFlags attaches the dry-run and halt-on-failure toggles to the command.
func BindPipelineFlags(command *cobra.Command, defaults PipelineFlagValues) *PipelineFlagValues {
	values := defaults
	if command == nil {
		return &values
	}
	AddToggleFlag(command.Flags(), &values.DryRun, DryRunFlagName, defaults.DryRun, DryRunFlagUsage)
	AddToggleFlag(command.Flags(), &values.HaltOnFailure, HaltOnFailureFlagName, defaults.HaltOnFailure, HaltOnFailureFlagUsage)
	return &values
}

// ResolveHaltOnFailure returns the flag value when it was set on the command line and the configured value otherwise.
func ResolveHaltOnFailure(command *cobra.Command, values *PipelineFlagValues, configuredValue bool) bool {
	if command == nil || values == nil {
		return configuredValue
	}
	haltFlag := command.Flags().Lookup(HaltOnFailureFlagName)
	if haltFlag == nil || !haltFlag.Changed {
		return configuredValue
	}
	return values.HaltOnFailure
}
