package components

import (
	"fmt"
	"math"
	"strings"

	"github.com/theirongolddev/loanscope/internal/cli"
	"github.com/theirongolddev/loanscope/internal/tui/theme"

	"github.com/charmbracelet/lipgloss"
)

// GroupedBars renders horizontal bars, one per (group, outcome), with a
// color legend on top. counts[i][j] is the count of outcome j in group i.
func GroupedBars(groups, outcomes []string, counts [][]int, width int) string {
	if len(groups) == 0 || len(outcomes) == 0 {
		return ""
	}
	t := theme.Active

	peak := 0
	for _, row := range counts {
		for _, c := range row {
			peak = max(peak, c)
		}
	}

	labelW := 4
	for _, g := range groups {
		labelW = max(labelW, lipgloss.Width(g))
	}
	valueW := len(cli.FormatNumber(int64(peak)))
	barMax := width - labelW - valueW - 3
	if barMax < 4 {
		barMax = 4
	}

	surface := lipgloss.NewStyle().Background(t.Surface)
	labelStyle := surface.Foreground(t.TextMuted)
	valueStyle := surface.Foreground(t.TextPrimary)

	var b strings.Builder
	b.WriteString(Legend(outcomes))
	b.WriteString("\n")

	for i, g := range groups {
		for j, outcome := range outcomes {
			label := ""
			if j == 0 {
				label = g
			}
			c := 0
			if i < len(counts) && j < len(counts[i]) {
				c = counts[i][j]
			}
			barLen := 0
			if peak > 0 {
				barLen = int(math.Round(float64(c) / float64(peak) * float64(barMax)))
			}
			barStyle := surface.Foreground(t.OutcomeColor(outcome, j))

			b.WriteString(labelStyle.Render(fmt.Sprintf("%-*s ", labelW, label)))
			b.WriteString(barStyle.Render(strings.Repeat("█", barLen)))
			b.WriteString(valueStyle.Render(" " + cli.FormatNumber(int64(c))))
			b.WriteString("\n")
		}
	}
	return strings.TrimRight(b.String(), "\n")
}

// Legend renders "■ Approved  ■ Rejected" for the given outcome codes.
func Legend(outcomes []string) string {
	t := theme.Active
	surface := lipgloss.NewStyle().Background(t.Surface)

	parts := make([]string, len(outcomes))
	for i, o := range outcomes {
		parts[i] = surface.Foreground(t.OutcomeColor(o, i)).Render("■") +
			surface.Foreground(t.TextMuted).Render(" "+cli.FormatOutcome(o))
	}
	return strings.Join(parts, surface.Render("  "))
}

// BoxRow is one labeled box in BoxPlots.
type BoxRow struct {
	Label string
	Code  string // outcome code, for coloring
	Box   cli.BoxGeometry
	Min   float64
	Max   float64
}

// BoxPlots renders one box plot line per row on a shared axis spanning the
// rows' overall min and max, followed by the axis labels.
func BoxPlots(rows []BoxRow, width int) string {
	if len(rows) == 0 {
		return ""
	}
	t := theme.Active

	lo, hi := rows[0].Min, rows[0].Max
	labelW := 4
	for _, r := range rows {
		lo = math.Min(lo, r.Min)
		hi = math.Max(hi, r.Max)
		labelW = max(labelW, lipgloss.Width(r.Label))
	}

	plotW := width - labelW - 1
	if plotW < 10 {
		plotW = 10
	}

	surface := lipgloss.NewStyle().Background(t.Surface)
	labelStyle := surface.Foreground(t.TextMuted)
	axisStyle := surface.Foreground(t.TextDim)

	var b strings.Builder
	for i, r := range rows {
		b.WriteString(labelStyle.Render(fmt.Sprintf("%-*s ", labelW, r.Label)))
		b.WriteString(surface.Foreground(t.OutcomeColor(r.Code, i)).Render(cli.BoxPlotLine(r.Box, lo, hi, plotW)))
		b.WriteString("\n")
	}

	left, right := axisLabel(lo), axisLabel(hi)
	gap := max(1, plotW-len(left)-len(right))
	b.WriteString(axisStyle.Render(strings.Repeat(" ", labelW+1) + left + strings.Repeat(" ", gap) + right))
	return b.String()
}

func axisLabel(v float64) string {
	switch {
	case math.Abs(v) >= 1e6:
		if v == math.Trunc(v/1e6)*1e6 {
			return fmt.Sprintf("%.0fM", v/1e6)
		}
		return fmt.Sprintf("%.1fM", v/1e6)
	case math.Abs(v) >= 1e3:
		if v == math.Trunc(v/1e3)*1e3 {
			return fmt.Sprintf("%.0fk", v/1e3)
		}
		return fmt.Sprintf("%.1fk", v/1e3)
	case v == math.Trunc(v):
		return fmt.Sprintf("%.0f", v)
	default:
		return fmt.Sprintf("%.2f", v)
	}
}
