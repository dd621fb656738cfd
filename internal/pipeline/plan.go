package pipeline

import (
	"github.com/caengine/caebuild/internal/execshell"
)

// Step names a single command within a plan.
type Step struct {
	Name    string
	Command execshell.ShellCommand
}

// Plan is an ordered list of steps computed before any of them runs.
type Plan struct {
	Name  string
	Steps []Step
}

// NewPlan constructs a plan, copying the supplied steps.
func NewPlan(name string, steps ...Step) Plan {
	return Plan{Name: name, Steps: append([]Step{}, steps...)}
}

// Commands returns the commands of every step in order.
func (plan Plan) Commands() []execshell.ShellCommand {
	commands := make([]execshell.ShellCommand, 0, len(plan.Steps))
	for _, step := range plan.Steps {
		commands = append(commands, step.Command)
	}
	return commands
}

// Empty reports whether the plan has no steps.
func (plan Plan) Empty() bool {
	return len(plan.Steps) == 0
}
