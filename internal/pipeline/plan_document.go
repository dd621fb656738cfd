package pipeline

import (
	"gopkg.in/yaml.v3"
)

type planDocument struct {
	Plan  string             `yaml:"plan"`
	Steps []planStepDocument `yaml:"steps"`
}

type planStepDocument struct {
	Name             string   `yaml:"name"`
	Role             string   `yaml:"role"`
	Command          string   `yaml:"command"`
	Argv             []string `yaml:"argv"`
	WorkingDirectory string   `yaml:"working_directory,omitempty"`
}

// RenderPlanYAML renders the plan as a YAML document for dry runs.
func RenderPlanYAML(plan Plan) ([]byte, error) {
	document := planDocument{Plan: plan.Name, Steps: make([]planStepDocument, 0, len(plan.Steps))}
	for _, step := range plan.Steps {
		document.Steps = append(document.Steps, planStepDocument{
			Name:             step.Name,
			Role:             string(step.Command.Role),
			Command:          step.Command.String(),
			Argv:             step.Command.Argv(),
			WorkingDirectory: step.Command.Details.WorkingDirectory,
		})
	}
	return yaml.Marshal(document)
}
