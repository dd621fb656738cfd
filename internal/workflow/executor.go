package workflow

import (
	"context"
	"fmt"
	"io"

	"go.uber.org/zap"

	"github.com/caengine/caebuild/internal/execshell"
	"github.com/caengine/caebuild/internal/pipeline"
	"github.com/caengine/caebuild/internal/ui"
)

const (
	planRenderErrorTemplateConstant  = "unable to render plan %s: %w"
	planWriteErrorTemplateConstant   = "unable to write plan %s: %w"
	summaryWriteErrorTemplate        = "unable to write summary for %s: %w"
	emptyPlanLogMessageConstant      = "plan has no steps"
	dryRunLogMessageConstant         = "dry run requested; commands not executed"
	summaryLineTemplateConstant      = "%s\n"
	logFieldPlanNameConstant         = "plan"
	logFieldDryRunStepCountConstant  = "step_count"
	workflowExecutorCreationTemplate = "unable to prepare command executor: %w"
)

// Dependencies configures shared collaborators for plan execution.
type Dependencies struct {
	Logger        *zap.Logger
	ConsoleLogger *zap.Logger
	// CommandExecutor overrides the default shell executor.
	CommandExecutor pipeline.CommandExecutor
	Output          io.Writer
}

// RuntimeOptions captures user-provided execution modifiers.
type RuntimeOptions struct {
	DryRun bool
	Policy pipeline.FailurePolicy
}

// Executor coordinates plan execution.
type Executor struct {
	dependencies Dependencies
}

// NewExecutor constructs an Executor, substituting no-op loggers and a discarding writer for missing collaborators.
func NewExecutor(dependencies Dependencies) *Executor {
	if dependencies.Logger == nil {
		dependencies.Logger = zap.NewNop()
	}
	if dependencies.ConsoleLogger == nil {
		dependencies.ConsoleLogger = zap.NewNop()
	}
	if dependencies.Output == nil {
		dependencies.Output = io.Discard
	}
	return &Executor{dependencies: dependencies}
}

// Execute runs the plan under the requested options. In dry-run mode the plan is printed as YAML
// and nothing runs. Otherwise every step runs per the failure policy, a summary is printed, and
// a *pipeline.FailureError carrying the worst exit code is returned when any step failed.
func (executor *Executor) Execute(executionContext context.Context, plan pipeline.Plan, options RuntimeOptions) error {
	if plan.Empty() {
		executor.dependencies.Logger.Debug(emptyPlanLogMessageConstant, zap.String(logFieldPlanNameConstant, plan.Name))
		return nil
	}

	if options.DryRun {
		return executor.renderPlan(plan)
	}

	commandExecutor, executorError := executor.resolveCommandExecutor()
	if executorError != nil {
		return fmt.Errorf(workflowExecutorCreationTemplate, executorError)
	}

	runner, runnerError := pipeline.NewRunner(executor.dependencies.Logger, commandExecutor)
	if runnerError != nil {
		return fmt.Errorf(workflowExecutorCreationTemplate, runnerError)
	}

	report := runner.Run(executionContext, plan, options.Policy)
	if _, writeError := fmt.Fprintf(executor.dependencies.Output, summaryLineTemplateConstant, ui.RenderPipelineSummary(report)); writeError != nil {
		return fmt.Errorf(summaryWriteErrorTemplate, plan.Name, writeError)
	}
	return report.Err()
}

func (executor *Executor) renderPlan(plan pipeline.Plan) error {
	document, renderError := pipeline.RenderPlanYAML(plan)
	if renderError != nil {
		return fmt.Errorf(planRenderErrorTemplateConstant, plan.Name, renderError)
	}
	executor.dependencies.Logger.Info(
		dryRunLogMessageConstant,
		zap.String(logFieldPlanNameConstant, plan.Name),
		zap.Int(logFieldDryRunStepCountConstant, len(plan.Steps)),
	)
	if _, writeError := executor.dependencies.Output.Write(document); writeError != nil {
		return fmt.Errorf(planWriteErrorTemplateConstant, plan.Name, writeError)
	}
	return nil
}

func (executor *Executor) resolveCommandExecutor() (pipeline.CommandExecutor, error) {
	if executor.dependencies.CommandExecutor != nil {
		return executor.dependencies.CommandExecutor, nil
	}

	shellExecutor, creationError := execshell.NewShellExecutor(executor.dependencies.Logger, execshell.NewOSCommandRunner())
	if creationError != nil {
		return nil, creationError
	}
	return shellExecutor.WithObserver(ui.NewConsoleCommandEventLogger(executor.dependencies.ConsoleLogger)), nil
}
