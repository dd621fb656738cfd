package ui_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/caengine/caebuild/internal/execshell"
	"github.com/caengine/caebuild/internal/pipeline"
	"github.com/caengine/caebuild/internal/ui"
)

func TestRenderPipelineSummary(testInstance *testing.T) {
	configureStep := pipeline.Step{Name: "configure", Command: execshell.NewShellCommand(execshell.CommandGenerator, execshell.CommandRoleConfigure, "", "--preset", "release")}
	buildStep := pipeline.Step{Name: "build", Command: execshell.NewShellCommand(execshell.CommandBackend, execshell.CommandRoleBuild, "build/release")}

	testCases := []struct {
		name             string
		report           pipeline.Report
		expectedSnippets []string
	}{
		{
			name: "all_steps_succeeded",
			report: pipeline.Report{PlanName: "build preset release", StepResults: []pipeline.StepResult{
				{Step: configureStep, Status: pipeline.StepStatusSucceeded},
				{Step: buildStep, Status: pipeline.StepStatusSucceeded},
			}},
			expectedSnippets: []string{"Pipeline build preset release", "configure", "build", "2 of 2 steps succeeded"},
		},
		{
			name: "failure_then_skip",
			report: pipeline.Report{PlanName: "build", StepResults: []pipeline.StepResult{
				{Step: configureStep, Status: pipeline.StepStatusFailed, Result: execshell.ExecutionResult{ExitCode: 3}, Err: execshell.CommandFailedError{Command: configureStep.Command, Result: execshell.ExecutionResult{ExitCode: 3}}},
				{Step: buildStep, Status: pipeline.StepStatusSkipped},
			}},
			expectedSnippets: []string{"exit 3", "skipped", "1 of 2 steps failed, exit code 3"},
		},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(testInstance *testing.T) {
			rendered := ui.RenderPipelineSummary(testCase.report)
			for _, snippet := range testCase.expectedSnippets {
				require.Contains(testInstance, rendered, snippet)
			}
		})
	}
}
