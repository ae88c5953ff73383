// Package output renders plans, run results, and undo summaries for the
// terminal.
package output

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/caio-ramos/envdoctor/pkg/types"
	"github.com/caio-ramos/envdoctor/pkg/undo"
)

var (
	successStyle  = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "28", Dark: "42"})
	failedStyle   = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "124", Dark: "203"}).Bold(true)
	proposedStyle = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "136", Dark: "221"})
	mutedStyle    = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "243", Dark: "246"})
	titleStyle    = lipgloss.NewStyle().Bold(true)
	badgeStyle    = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "160", Dark: "196"})
)

func styleFor(status types.StepStatus) lipgloss.Style {
	switch status {
	case types.StatusSuccess:
		return successStyle
	case types.StatusFailed:
		return failedStyle
	case types.StatusProposed:
		return proposedStyle
	default:
		return mutedStyle
	}
}

// RenderPlan prints the ordered step list with classification badges.
func RenderPlan(steps []types.Step) string {
	if len(steps) == 0 {
		return mutedStyle.Render("Nothing to do: no applicable steps were found.") + "\n"
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render("Plan") + "\n")
	for i, step := range steps {
		badge := ""
		if step.Destructive {
			badge = " " + badgeStyle.Render("[destructive]")
		}
		b.WriteString(fmt.Sprintf("  %2d. %s%s\n", i+1, step.Title, badge))
		for _, cmd := range step.Commands {
			b.WriteString(mutedStyle.Render("      $ "+cmd) + "\n")
		}
		if step.ProposedReason != "" {
			b.WriteString(proposedStyle.Render("      proposed: "+step.ProposedReason) + "\n")
		}
	}
	return b.String()
}

// RenderResults prints per-step outcomes followed by the summary line.
func RenderResults(r *types.RunReport) string {
	var b strings.Builder
	for _, step := range r.Steps {
		status := styleFor(step.Status).Render(string(step.Status))
		b.WriteString(fmt.Sprintf("  %-10s %s\n", status, step.Title))
		if step.Error != "" {
			b.WriteString(failedStyle.Render("             "+step.Error) + "\n")
		}
		if step.ProposedReason != "" {
			b.WriteString(proposedStyle.Render("             "+step.ProposedReason) + "\n")
		}
	}

	s := r.Summary
	b.WriteString(fmt.Sprintf("\n%s %d steps: %d ok, %d failed, %d proposed, %d skipped\n",
		titleStyle.Render("Run "+r.RunID), s.Total, s.Success, s.Failed, s.Proposed, s.Skipped))
	return b.String()
}

// RenderUndo prints per-step undo outcomes.
func RenderUndo(result undo.Result) string {
	if result.Report == nil {
		return mutedStyle.Render("No run report found: nothing to undo.") + "\n"
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render("Undo of run "+result.Report.RunID) + "\n")
	for _, entry := range result.Entries {
		b.WriteString("  " + entry.StepID + "\n")
		for _, p := range entry.Restored {
			b.WriteString(successStyle.Render("    restored "+p) + "\n")
		}
		for _, p := range entry.MissingSnapshot {
			b.WriteString(mutedStyle.Render("    missing  "+p) + "\n")
		}
		for _, p := range entry.Failed {
			b.WriteString(failedStyle.Render("    failed   "+p) + "\n")
		}
		if entry.Reason != "" {
			b.WriteString(mutedStyle.Render("    skipped: "+entry.Reason) + "\n")
		}
		if entry.NextAction != "" {
			b.WriteString(proposedStyle.Render("    next: "+entry.NextAction) + "\n")
		}
	}
	return b.String()
}
