package tui

import (
	"fmt"
	"math"
	"strings"

	"github.com/theirongolddev/loanscope/internal/cli"
	"github.com/theirongolddev/loanscope/internal/dataset"
	"github.com/theirongolddev/loanscope/internal/model"
	"github.com/theirongolddev/loanscope/internal/tui/components"
	"github.com/theirongolddev/loanscope/internal/tui/theme"

	"github.com/charmbracelet/lipgloss"
)

const previewRows = 5

func (a App) renderOverviewTab(cw int) string {
	if a.load == nil {
		return ""
	}
	ds := a.load.Dataset
	t := theme.Active
	var b strings.Builder

	// Row 1: Metric cards
	approved, rejected, labeled := outcomeTally(ds)
	medianIncome := "-"
	for _, s := range ds.Describe() {
		if s.Column == model.TotalIncome {
			medianIncome = cli.FormatAmount(s.Median)
		}
	}

	cards := []components.Metric{
		{Label: "Applications", Value: cli.FormatNumber(int64(ds.Len())), Delta: fmt.Sprintf("%d columns", len(ds.Names()))},
		{Label: "Approved", Value: cli.FormatNumber(int64(approved)), Delta: cli.FormatRate(approved, labeled) + " of labeled", Color: t.Approved},
		{Label: "Rejected", Value: cli.FormatNumber(int64(rejected)), Delta: cli.FormatRate(rejected, labeled) + " of labeled", Color: t.Rejected},
		{Label: "Median Total Income", Value: medianIncome, Delta: "applicant + co-applicant"},
	}
	b.WriteString(components.MetricCardRow(cards, cw))
	b.WriteString("\n")

	// Row 2: Column guide + numeric summary
	if a.isCompactLayout() {
		b.WriteString(components.ContentCard("Numeric Summary", renderDescribe(ds, components.CardInnerWidth(cw)), cw))
		b.WriteString("\n")
		b.WriteString(components.ContentCard("Columns", renderColumnGuide(components.CardInnerWidth(cw)), cw))
	} else {
		halves := components.LayoutRow(cw, 2)
		b.WriteString(components.CardRow([]string{
			components.ContentCard("Columns", renderColumnGuide(components.CardInnerWidth(halves[0])), halves[0]),
			components.ContentCard("Numeric Summary", renderDescribe(ds, components.CardInnerWidth(halves[1])), halves[1]),
		}))
	}
	b.WriteString("\n")

	// Row 3: Data preview
	b.WriteString(components.ContentCard(
		fmt.Sprintf("Preview (first %d rows)", previewRows),
		renderPreview(ds, components.CardInnerWidth(cw)),
		cw,
	))
	return b.String()
}

// outcomeTally counts Loan_Status values. labeled excludes missing values.
func outcomeTally(ds *dataset.Dataset) (approved, rejected, labeled int) {
	values, present, err := ds.Text(model.LoanStatus)
	if err != nil {
		return 0, 0, 0
	}
	for i, v := range values {
		if !present[i] {
			continue
		}
		labeled++
		switch {
		case model.IsApproved(v):
			approved++
		case model.IsRejected(v):
			rejected++
		}
	}
	return approved, rejected, labeled
}

func renderColumnGuide(w int) string {
	t := theme.Active
	colStyle := lipgloss.NewStyle().Foreground(t.Accent).Background(t.Surface)
	textStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)

	colW := 0
	for _, c := range model.ColumnDescriptions {
		colW = max(colW, len(c.Column))
	}

	var b strings.Builder
	for _, c := range model.ColumnDescriptions {
		b.WriteString(colStyle.Render(fmt.Sprintf("%-*s ", colW, c.Column)))
		b.WriteString(textStyle.Render(truncStr(c.Meaning, w-colW-1)))
		b.WriteString("\n")
	}
	return strings.TrimRight(b.String(), "\n")
}

func renderDescribe(ds *dataset.Dataset, w int) string {
	t := theme.Active
	headStyle := lipgloss.NewStyle().Foreground(t.TextDim).Background(t.Surface)
	colStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	valStyle := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.Surface)

	summaries := ds.Describe()
	if len(summaries) == 0 {
		return headStyle.Render("No numeric columns")
	}

	nameW := min(18, max(6, w-4*10))
	var b strings.Builder
	b.WriteString(headStyle.Render(fmt.Sprintf("%-*s %9s %9s %9s %9s", nameW, "Column", "Count", "Mean", "Median", "Max")))
	b.WriteString("\n")
	for _, s := range summaries {
		b.WriteString(colStyle.Render(fmt.Sprintf("%-*s ", nameW, truncStr(s.Column, nameW))))
		b.WriteString(valStyle.Render(fmt.Sprintf("%9s %9s %9s %9s",
			cli.FormatNumber(int64(s.Count)),
			summaryValue(s.Mean),
			summaryValue(s.Median),
			summaryValue(s.Max),
		)))
		b.WriteString("\n")
	}
	return strings.TrimRight(b.String(), "\n")
}

func summaryValue(v float64) string {
	if math.IsNaN(v) {
		return "-"
	}
	return cli.FormatFloat(v, 1)
}

func renderPreview(ds *dataset.Dataset, w int) string {
	t := theme.Active
	headStyle := lipgloss.NewStyle().Foreground(t.TextDim).Background(t.Surface).Bold(true)
	cellStyle := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.Surface)

	header, rows := ds.Head(previewRows)
	if len(header) == 0 {
		return ""
	}

	// Show as many columns as fit, each at least 8 wide.
	const minCol = 8
	cols := max(1, min(len(header), w/(minCol+1)))
	colW := w/cols - 1

	line := func(cells []string, style lipgloss.Style) string {
		parts := make([]string, cols)
		for i := 0; i < cols; i++ {
			v := ""
			if i < len(cells) {
				v = cells[i]
			}
			parts[i] = fmt.Sprintf("%-*s", colW, truncStr(v, colW))
		}
		return style.Render(strings.Join(parts, " "))
	}

	var b strings.Builder
	b.WriteString(line(header, headStyle))
	for _, r := range rows {
		b.WriteString("\n")
		b.WriteString(line(r, cellStyle))
	}
	return b.String()
}
