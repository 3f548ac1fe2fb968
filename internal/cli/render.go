package cli

import (
	"fmt"
	"math"
	"strings"
	"unicode/utf8"

	"github.com/theirongolddev/loanscope/internal/model"

	"github.com/charmbracelet/lipgloss"
)

// Theme colors (Flexoki Dark)
var (
	ColorBorder    = lipgloss.Color("#282726")
	ColorTextDim   = lipgloss.Color("#575653")
	ColorTextMuted = lipgloss.Color("#6F6E69")
	ColorText      = lipgloss.Color("#FFFCF0")
	ColorAccent    = lipgloss.Color("#3AA99F")
	ColorGreen     = lipgloss.Color("#879A39")
	ColorRed       = lipgloss.Color("#D14D41")
	ColorBlue      = lipgloss.Color("#4385BE")
)

// Styles
var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorText).
			Align(lipgloss.Center)

	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorAccent)

	valueStyle = lipgloss.NewStyle().
			Foreground(ColorText)

	mutedStyle = lipgloss.NewStyle().
			Foreground(ColorTextMuted)

	dimStyle = lipgloss.NewStyle().
			Foreground(ColorTextDim)
)

// OutcomeColor is the bar color for a Loan_Status code.
func OutcomeColor(code string) lipgloss.Color {
	switch {
	case model.IsApproved(code):
		return ColorGreen
	case model.IsRejected(code):
		return ColorRed
	}
	return ColorBlue
}

// Table represents a bordered text table for CLI output.
type Table struct {
	Title   string
	Headers []string
	Rows    [][]string
	Widths  []int // optional column widths, auto-calculated if nil
}

// RenderTitle renders a centered title bar in a bordered box.
func RenderTitle(title string) string {
	width := 64
	border := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(ColorBorder).
		Width(width).
		Align(lipgloss.Center).
		Padding(0, 1)

	return border.Render(titleStyle.Render(title))
}

// RenderTable renders a bordered table with headers and rows. The first
// column is left-aligned, the rest right-aligned. A row holding the single
// cell "---" renders as a separator.
func RenderTable(t Table) string {
	if len(t.Rows) == 0 && len(t.Headers) == 0 {
		return ""
	}

	numCols := len(t.Headers)
	if numCols == 0 && len(t.Rows) > 0 {
		numCols = len(t.Rows[0])
	}

	widths := make([]int, numCols)
	if t.Widths != nil {
		copy(widths, t.Widths)
	} else {
		for i, h := range t.Headers {
			widths[i] = max(widths[i], utf8.RuneCountInString(h))
		}
		for _, row := range t.Rows {
			for i, cell := range row {
				if i < numCols {
					widths[i] = max(widths[i], utf8.RuneCountInString(cell))
				}
			}
		}
	}

	rule := func(left, mid, right string) string {
		var b strings.Builder
		b.WriteString(dimStyle.Render(left))
		for i, w := range widths {
			b.WriteString(dimStyle.Render(strings.Repeat("─", w+2)))
			if i < numCols-1 {
				b.WriteString(dimStyle.Render(mid))
			}
		}
		b.WriteString(dimStyle.Render(right))
		b.WriteString("\n")
		return b.String()
	}

	var b strings.Builder

	if t.Title != "" {
		b.WriteString("  ")
		b.WriteString(headerStyle.Render(t.Title))
		b.WriteString("\n")
	}

	b.WriteString(rule("╭", "┬", "╮"))

	if len(t.Headers) > 0 {
		b.WriteString(dimStyle.Render("│"))
		for i, h := range t.Headers {
			b.WriteString(headerStyle.Render(" " + padRight(h, widths[i]) + " "))
			if i < numCols-1 {
				b.WriteString(dimStyle.Render("│"))
			}
		}
		b.WriteString(dimStyle.Render("│"))
		b.WriteString("\n")
		b.WriteString(rule("├", "┼", "┤"))
	}

	for _, row := range t.Rows {
		if len(row) == 1 && row[0] == "---" {
			b.WriteString(rule("├", "┼", "┤"))
			continue
		}

		b.WriteString(dimStyle.Render("│"))
		for i := 0; i < numCols; i++ {
			cell := ""
			if i < len(row) {
				cell = row[i]
			}
			var padded string
			if i == 0 {
				padded = " " + padRight(cell, widths[i]) + " "
			} else {
				padded = " " + padLeft(cell, widths[i]) + " "
			}
			b.WriteString(valueStyle.Render(padded))
			if i < numCols-1 {
				b.WriteString(dimStyle.Render("│"))
			}
		}
		b.WriteString(dimStyle.Render("│"))
		b.WriteString("\n")
	}

	b.WriteString(rule("╰", "┴", "╯"))
	return b.String()
}

func padRight(s string, w int) string {
	if n := utf8.RuneCountInString(s); n < w {
		return s + strings.Repeat(" ", w-n)
	}
	return s
}

func padLeft(s string, w int) string {
	if n := utf8.RuneCountInString(s); n < w {
		return strings.Repeat(" ", w-n) + s
	}
	return s
}

// RenderHorizontalBar renders one labeled bar scaled against maxValue.
func RenderHorizontalBar(label string, value, maxValue float64, labelW, maxWidth int, color lipgloss.Color) string {
	barLen := 0
	if maxValue > 0 {
		barLen = int(math.Round(value / maxValue * float64(maxWidth)))
	}
	barLen = max(0, min(barLen, maxWidth))

	bar := lipgloss.NewStyle().Foreground(color).Render(strings.Repeat("█", barLen))
	return fmt.Sprintf("  %s %s %s",
		mutedStyle.Render(padRight(label, labelW)),
		bar,
		valueStyle.Render(FormatNumber(int64(value))),
	)
}

// BoxGeometry is the shape drawn by BoxPlotLine.
type BoxGeometry struct {
	LowerWhisker, Q1, Median, Q3, UpperWhisker float64
	Outliers                                   []float64
}

// BoxPlotLine draws a one-line box plot of g on a lo..hi axis of width
// columns: ├── whiskers, [ ] quartiles, ┃ median, • outliers.
func BoxPlotLine(g BoxGeometry, lo, hi float64, width int) string {
	if width < 5 {
		width = 5
	}
	line := []rune(strings.Repeat(" ", width))
	span := hi - lo
	col := func(v float64) int {
		if span <= 0 {
			return width / 2
		}
		c := int(math.Round((v - lo) / span * float64(width-1)))
		return max(0, min(c, width-1))
	}

	lw, q1, med, q3, uw := col(g.LowerWhisker), col(g.Q1), col(g.Median), col(g.Q3), col(g.UpperWhisker)
	for i := lw; i <= uw; i++ {
		line[i] = '─'
	}
	for i := q1; i <= q3; i++ {
		line[i] = '═'
	}
	line[lw] = '├'
	line[uw] = '┤'
	line[q1] = '['
	line[q3] = ']'
	line[med] = '┃'
	for _, o := range g.Outliers {
		line[col(o)] = '•'
	}
	return string(line)
}

// RenderBoxPlot renders a labeled box plot row with its five-number legend.
func RenderBoxPlot(label string, g BoxGeometry, lo, hi float64, labelW, width int, color lipgloss.Color) string {
	plot := lipgloss.NewStyle().Foreground(color).Render(BoxPlotLine(g, lo, hi, width))
	return fmt.Sprintf("  %s %s", mutedStyle.Render(padRight(label, labelW)), plot)
}
