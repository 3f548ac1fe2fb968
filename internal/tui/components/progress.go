package components

import (
	"fmt"

	"github.com/theirongolddev/loanscope/internal/tui/theme"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/lipgloss"
)

// ProgressBar renders a solid progress bar followed by its percentage.
func ProgressBar(pct float64, width int) string {
	t := theme.Active

	pct = max(0, min(pct, 1))
	bar := progress.New(
		progress.WithSolidFill(string(t.Accent)),
		progress.WithWidth(width),
		progress.WithoutPercentage(),
	)
	bar.EmptyColor = string(t.TextDim)

	pctStyle := lipgloss.NewStyle().Foreground(t.Accent).Background(t.Surface).Bold(true)
	spaceStyle := lipgloss.NewStyle().Background(t.Surface)

	return bar.ViewAs(pct) + spaceStyle.Render(" ") + pctStyle.Render(fmt.Sprintf("%.0f%%", pct*100))
}

// ShareBar renders the approved share of a group as a two-tone bar:
// approved portion in the approved color, the rest in the rejected color.
func ShareBar(approved, total, width int) string {
	t := theme.Active
	if total <= 0 || width <= 0 {
		return ""
	}
	pct := float64(approved) / float64(total)
	bar := progress.New(
		progress.WithSolidFill(string(t.Approved)),
		progress.WithWidth(width),
		progress.WithoutPercentage(),
	)
	bar.EmptyColor = string(t.Rejected)
	return bar.ViewAs(pct)
}
