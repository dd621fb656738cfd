package pipeline

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/caengine/caebuild/internal/execshell"
)

const (
	commandExecutorNotConfiguredMessageConstant = "pipeline requires a command executor"
	pipelineLoggerNotConfiguredMessageConstant  = "pipeline requires a logger"
	pipelineStartedLogMessageConstant           = "pipeline started"
	pipelineFinishedLogMessageConstant          = "pipeline finished"
	stepFailedLogMessageConstant                = "pipeline step failed"
	stepSkippedLogMessageConstant               = "pipeline step skipped after earlier failure"
	logFieldPlanConstant                        = "plan"
	logFieldStepConstant                        = "step"
	logFieldStepCountConstant                   = "step_count"
	logFieldPolicyConstant                      = "policy"
	logFieldFailedStepsConstant                 = "failed_steps"
	logFieldWorstExitCodeConstant               = "worst_exit_code"
)

var (
	// ErrCommandExecutorNotConfigured indicates the runner was created without an executor.
	ErrCommandExecutorNotConfigured = errors.New(commandExecutorNotConfiguredMessageConstant)
	// ErrLoggerNotConfigured indicates the runner was created without a logger.
	ErrLoggerNotConfigured = errors.New(pipelineLoggerNotConfiguredMessageConstant)
)

// CommandExecutor runs one command to completion.
type CommandExecutor interface {
	Execute(executionContext context.Context, command execshell.ShellCommand) (execshell.ExecutionResult, error)
}

// Runner executes plans sequentially.
type Runner struct {
	logger   *zap.Logger
	executor CommandExecutor
}

// NewRunner constructs a Runner.
func NewRunner(logger *zap.Logger, executor CommandExecutor) (*Runner, error) {
	if logger == nil {
		return nil, ErrLoggerNotConfigured
	}
	if executor == nil {
		return nil, ErrCommandExecutorNotConfigured
	}
	return &Runner{logger: logger, executor: executor}, nil
}

// Run executes every step in order, waiting for each to finish before starting the next.
// With FailurePolicyHalt the steps after the first failure are recorded as skipped.
func (runner *Runner) Run(executionContext context.Context, plan Plan, policy FailurePolicy) Report {
	runner.logger.Info(
		pipelineStartedLogMessageConstant,
		zap.String(logFieldPlanConstant, plan.Name),
		zap.Int(logFieldStepCountConstant, len(plan.Steps)),
		zap.String(logFieldPolicyConstant, string(policy)),
	)

	report := Report{PlanName: plan.Name, StepResults: make([]StepResult, 0, len(plan.Steps))}
	halted := false

	for _, step := range plan.Steps {
		if halted {
			runner.logger.Info(stepSkippedLogMessageConstant, zap.String(logFieldStepConstant, step.Name))
			report.StepResults = append(report.StepResults, StepResult{Step: step, Status: StepStatusSkipped})
			continue
		}

		executionResult, executionError := runner.executor.Execute(executionContext, step.Command)
		stepResult := StepResult{Step: step, Status: StepStatusSucceeded, Result: executionResult, Err: executionError}
		if executionError != nil || !executionResult.Succeeded() {
			stepResult.Status = StepStatusFailed
			runner.logger.Warn(stepFailedLogMessageConstant, zap.String(logFieldStepConstant, step.Name), zap.Int(logFieldWorstExitCodeConstant, stepResult.ExitCode()))
			if policy == FailurePolicyHalt {
				halted = true
			}
		}
		report.StepResults = append(report.StepResults, stepResult)
	}

	runner.logger.Info(
		pipelineFinishedLogMessageConstant,
		zap.String(logFieldPlanConstant, plan.Name),
		zap.Int(logFieldFailedStepsConstant, report.FailedStepCount()),
		zap.Int(logFieldWorstExitCodeConstant, report.WorstExitCode()),
	)

	return report
}
