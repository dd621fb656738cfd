package pipeline

import (
	"errors"
	"fmt"

	"github.com/caengine/caebuild/internal/execshell"
)

const (
	// LaunchFailureExitCode is reported for a step whose process could not be started.
	LaunchFailureExitCode = 127
	// GenericFailureExitCode is reported for a step terminated without a regular exit status.
	GenericFailureExitCode = 1

	failureErrorTemplateConstant = "%s: %d of %d steps failed (exit code %d)"
)

// StepStatus describes the outcome of a step.
type StepStatus string

// Step outcomes.
const (
	StepStatusSucceeded StepStatus = StepStatus("ok")
	StepStatusFailed    StepStatus = StepStatus("failed")
	StepStatusSkipped   StepStatus = StepStatus("skipped")
)

// StepResult records what happened to one step.
type StepResult struct {
	Step   Step
	Status StepStatus
	Result execshell.ExecutionResult
	Err    error
}

// ExitCode returns the status to attribute to the step.
func (stepResult StepResult) ExitCode() int {
	switch stepResult.Status {
	case StepStatusSucceeded, StepStatusSkipped:
		return 0
	}
	if stepResult.Result.ExitCode > 0 {
		return stepResult.Result.ExitCode
	}
	var launchFailure execshell.CommandExecutionError
	if errors.As(stepResult.Err, &launchFailure) {
		return LaunchFailureExitCode
	}
	return GenericFailureExitCode
}

// Report collects the results of a pipeline run in plan order.
type Report struct {
	PlanName    string
	StepResults []StepResult
}

// Failed reports whether any step failed.
func (report Report) Failed() bool {
	return report.FailedStepCount() > 0
}

// FailedStepCount returns the number of failed steps.
func (report Report) FailedStepCount() int {
	failedSteps := 0
	for _, stepResult := range report.StepResults {
		if stepResult.Status == StepStatusFailed {
			failedSteps++
		}
	}
	return failedSteps
}

// WorstExitCode returns the largest exit status among failed steps, or zero.
func (report Report) WorstExitCode() int {
	worstExitCode := 0
	for _, stepResult := range report.StepResults {
		if exitCode := stepResult.ExitCode(); exitCode > worstExitCode {
			worstExitCode = exitCode
		}
	}
	return worstExitCode
}

// Err returns a FailureError when any step failed and nil otherwise.
func (report Report) Err() error {
	if !report.Failed() {
		return nil
	}
	return &FailureError{
		PlanName:    report.PlanName,
		FailedSteps: report.FailedStepCount(),
		TotalSteps:  len(report.StepResults),
		Code:        report.WorstExitCode(),
	}
}

// FailureError summarizes a pipeline run in which at least one step failed.
type FailureError struct {
	PlanName    string
	FailedSteps int
	TotalSteps  int
	Code        int
}

// Error describes the failed run.
func (failure *FailureError) Error() string {
	return fmt.Sprintf(failureErrorTemplateConstant, failure.PlanName, failure.FailedSteps, failure.TotalSteps, failure.Code)
}

// ExitCode returns the worst exit status of the run.
func (failure *FailureError) ExitCode() int {
	return failure.Code
}
