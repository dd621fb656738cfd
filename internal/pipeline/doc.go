// Package pipeline executes an ordered plan of external commands strictly one
// after another and records a result for every step.
//
// The caller chooses whether a failed step stops the remaining steps through a
// FailurePolicy; the Report exposes each StepResult and the worst exit status
// so the entry point can propagate it as the process exit code.
package pipeline
