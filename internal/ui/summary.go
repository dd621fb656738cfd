package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/caengine/caebuild/internal/pipeline"
)

const (
	summaryTitleTemplateConstant   = "Pipeline %s"
	summaryStepLineTemplate        = "%s %-*s  %s"
	summaryFooterSuccessTemplate   = "%d of %d steps succeeded"
	summaryFooterFailureTemplate   = "%d of %d steps failed, exit code %d"
	summarySucceededSymbolConstant = "✓"
	summaryFailedSymbolConstant    = "✗"
	summarySkippedSymbolConstant   = "-"
	exitCodeDetailTemplateConstant = "exit %d"
	skippedDetailConstant          = "skipped"
	okDetailConstant               = "ok"
)

var (
	colorSuccess = lipgloss.Color("#10B981")
	colorError   = lipgloss.Color("#EF4444")
	colorMuted   = lipgloss.Color("#9CA3AF")
	colorTitle   = lipgloss.Color("#7C3AED")
	colorBorder  = lipgloss.Color("#374151")

	summaryTitleStyle   = lipgloss.NewStyle().Foreground(colorTitle).Bold(true)
	summaryOKStyle      = lipgloss.NewStyle().Foreground(colorSuccess).Bold(true)
	summaryErrorStyle   = lipgloss.NewStyle().Foreground(colorError).Bold(true)
	summaryMutedStyle   = lipgloss.NewStyle().Foreground(colorMuted)
	summaryBoxStyle     = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(colorBorder).Padding(0, 1)
	summaryDetailsStyle = lipgloss.NewStyle().Foreground(colorMuted)
)

// RenderPipelineSummary renders a boxed per-step overview of a pipeline report.
func RenderPipelineSummary(report pipeline.Report) string {
	nameWidth := 0
	for _, stepResult := range report.StepResults {
		if width := lipgloss.Width(stepResult.Step.Name); width > nameWidth {
			nameWidth = width
		}
	}

	lines := make([]string, 0, len(report.StepResults)+2)
	lines = append(lines, summaryTitleStyle.Render(fmt.Sprintf(summaryTitleTemplateConstant, report.PlanName)))
	for _, stepResult := range report.StepResults {
		lines = append(lines, renderStepLine(stepResult, nameWidth))
	}
	lines = append(lines, renderFooter(report))

	return summaryBoxStyle.Render(lipgloss.JoinVertical(lipgloss.Left, lines...))
}

func renderStepLine(stepResult pipeline.StepResult, nameWidth int) string {
	switch stepResult.Status {
	case pipeline.StepStatusSucceeded:
		return fmt.Sprintf(summaryStepLineTemplate, summaryOKStyle.Render(summarySucceededSymbolConstant), nameWidth, stepResult.Step.Name, summaryDetailsStyle.Render(okDetailConstant))
	case pipeline.StepStatusSkipped:
		return summaryMutedStyle.Render(fmt.Sprintf(summaryStepLineTemplate, summarySkippedSymbolConstant, nameWidth, stepResult.Step.Name, skippedDetailConstant))
	default:
		detail := fmt.Sprintf(exitCodeDetailTemplateConstant, stepResult.ExitCode())
		if stepResult.Err != nil && stepResult.Result.ExitCode == 0 {
			detail = strings.TrimSpace(stepResult.Err.Error())
		}
		return fmt.Sprintf(summaryStepLineTemplate, summaryErrorStyle.Render(summaryFailedSymbolConstant), nameWidth, stepResult.Step.Name, summaryErrorStyle.Render(detail))
	}
}

func renderFooter(report pipeline.Report) string {
	totalSteps := len(report.StepResults)
	if !report.Failed() {
		return summaryOKStyle.Render(fmt.Sprintf(summaryFooterSuccessTemplate, totalSteps, totalSteps))
	}
	return summaryErrorStyle.Render(fmt.Sprintf(summaryFooterFailureTemplate, report.FailedStepCount(), totalSteps, report.WorstExitCode()))
}
