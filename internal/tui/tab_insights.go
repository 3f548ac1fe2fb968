package tui

import (
	"fmt"
	"strings"

	"github.com/theirongolddev/loanscope/internal/cli"
	"github.com/theirongolddev/loanscope/internal/insights"
	"github.com/theirongolddev/loanscope/internal/model"
	"github.com/theirongolddev/loanscope/internal/tui/components"
	"github.com/theirongolddev/loanscope/internal/tui/theme"

	"github.com/charmbracelet/lipgloss"
)

// insightsState tracks the selected question and the recommendations toggle.
type insightsState struct {
	cursor   int
	showRecs bool
}

func (s *insightsState) move(delta int) {
	n := len(insights.Questions())
	s.cursor = max(0, min(s.cursor+delta, n-1))
}

// updateInsightsKey handles tab-local keys and reports whether key was consumed.
func (a *App) updateInsightsKey(key string) bool {
	switch key {
	case "j", "down":
		a.insight.move(1)
	case "k", "up":
		a.insight.move(-1)
	case "g":
		a.insight.cursor = 0
	case "G":
		a.insight.cursor = len(insights.Questions()) - 1
	case "r":
		a.insight.showRecs = !a.insight.showRecs
	default:
		q, err := insights.ParseQuestion(key)
		if err != nil {
			return false
		}
		a.insight.cursor = int(q) - 1
	}
	return true
}

func (a App) renderInsightsTab(cw int) string {
	questions := insights.Questions()
	q := questions[a.insight.cursor]

	listW, chartW := cw, cw
	if !a.isCompactLayout() {
		listW = cw * 2 / 5
		chartW = cw - listW
	}

	list := components.ContentCard("Questions", a.renderQuestionList(listW), listW)
	chart := a.renderQuestionCard(q, chartW)

	var b strings.Builder
	if a.isCompactLayout() {
		b.WriteString(chart)
	} else {
		b.WriteString(components.CardRow([]string{list, chart}))
	}
	b.WriteString("\n")
	b.WriteString(a.renderInsightCard(q, cw))

	if a.insight.showRecs {
		b.WriteString("\n")
		b.WriteString(renderRecommendations(cw))
	}

	// Compact layout puts the chart first and the list last.
	if a.isCompactLayout() {
		b.WriteString("\n")
		b.WriteString(list)
	}
	return b.String()
}

func (a App) renderQuestionList(outerW int) string {
	t := theme.Active
	innerW := components.CardInnerWidth(outerW)

	numStyle := lipgloss.NewStyle().Foreground(t.TextDim).Background(t.Surface)
	rowStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	selStyle := lipgloss.NewStyle().Foreground(t.Accent).Background(t.Surface).Bold(true)
	errStyle := lipgloss.NewStyle().Foreground(t.Warning).Background(t.Surface)

	var b strings.Builder
	for i, q := range insights.Questions() {
		marker := "  "
		style := rowStyle
		if i == a.insight.cursor {
			marker = "▸ "
			style = selStyle
		}
		line := numStyle.Render(fmt.Sprintf("%s%d ", marker, int(q))) +
			style.Render(truncStr(q.Prompt(), innerW-6))
		if v, ok := a.viewFor(q); ok && v.Err != nil {
			line += errStyle.Render(" !")
		}
		b.WriteString(line)
		b.WriteString("\n")
	}
	b.WriteString("\n")
	b.WriteString(numStyle.Render("[j/k] select  [1-7] jump  [r] recommendations"))
	return b.String()
}

func (a App) renderQuestionCard(q insights.Question, outerW int) string {
	t := theme.Active
	innerW := components.CardInnerWidth(outerW)

	v, ok := a.viewFor(q)
	if !ok {
		return components.FocusCard(q.ChartTitle(), "", outerW)
	}
	if v.Err != nil {
		warn := lipgloss.NewStyle().Foreground(t.Warning).Background(t.Surface)
		lines := wrapText(v.Err.Error(), innerW)
		for i, l := range lines {
			lines[i] = warn.Render(l)
		}
		return components.FocusCard(q.ChartTitle(), strings.Join(lines, "\n"), outerW)
	}

	var body string
	switch v.Result.Kind {
	case insights.KindCounts:
		body = renderCounts(v.Result, innerW)
	case insights.KindDistribution:
		body = renderDistribution(v.Result, innerW)
	case insights.KindFacets:
		body = renderFacets(v.Result, innerW)
	}
	return components.FocusCard(q.ChartTitle(), body, outerW)
}

func renderCounts(r insights.Result, w int) string {
	groups := make([]string, len(r.Counts))
	counts := make([][]int, len(r.Counts))
	for i, g := range r.Counts {
		groups[i] = g.Key
		counts[i] = g.Counts
	}

	var b strings.Builder
	b.WriteString(components.GroupedBars(groups, r.Outcomes, counts, w))
	b.WriteString("\n\n")
	b.WriteString(renderApprovalRates(r.Outcomes, r.Counts, "", w))
	return b.String()
}

// renderApprovalRates draws one approved-share bar per group. prefix labels
// the facet when the groups belong to one.
func renderApprovalRates(outcomes []string, groups []insights.Group, prefix string, w int) string {
	t := theme.Active
	approved := model.ApprovedIndex(outcomes)
	if approved < 0 {
		return ""
	}

	labelStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	valueStyle := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.Surface)
	space := lipgloss.NewStyle().Background(t.Surface)

	labelW := 6
	for _, g := range groups {
		labelW = max(labelW, len([]rune(prefix+g.Key)))
	}
	barW := max(8, w-labelW-12)

	var lines []string
	for _, g := range groups {
		total := g.Total()
		line := labelStyle.Render(fmt.Sprintf("%-*s ", labelW, prefix+g.Key)) +
			components.ShareBar(g.Counts[approved], total, barW) +
			space.Render(" ") +
			valueStyle.Render(fmt.Sprintf("%5s", cli.FormatRate(g.Counts[approved], total)))
		lines = append(lines, line)
	}
	return strings.Join(lines, "\n")
}

func renderDistribution(r insights.Result, w int) string {
	rows := make([]components.BoxRow, len(r.Distribution))
	for i, box := range r.Distribution {
		rows[i] = components.BoxRow{
			Label: cli.FormatOutcome(box.Outcome),
			Code:  box.Outcome,
			Min:   box.Min,
			Max:   box.Max,
			Box: cli.BoxGeometry{
				LowerWhisker: box.LowerWhisker,
				Q1:           box.Q1,
				Median:       box.Median,
				Q3:           box.Q3,
				UpperWhisker: box.UpperWhisker,
				Outliers:     box.Outliers,
			},
		}
	}

	t := theme.Active
	dim := lipgloss.NewStyle().Foreground(t.TextDim).Background(t.Surface)

	var b strings.Builder
	b.WriteString(components.BoxPlots(rows, w))
	b.WriteString("\n\n")
	for _, box := range r.Distribution {
		b.WriteString(dim.Render(fmt.Sprintf("%-9s n=%s  median %s  IQR %s-%s",
			cli.FormatOutcome(box.Outcome),
			cli.FormatNumber(int64(box.Count)),
			cli.FormatAmount(box.Median),
			cli.FormatAmount(box.Q1),
			cli.FormatAmount(box.Q3),
		)))
		b.WriteString("\n")
	}
	return strings.TrimRight(b.String(), "\n")
}

func renderFacets(r insights.Result, w int) string {
	t := theme.Active
	head := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.Surface).Bold(true)

	var b strings.Builder
	b.WriteString(components.Legend(r.Outcomes))
	b.WriteString("\n")
	for _, f := range r.Facets {
		b.WriteString("\n")
		b.WriteString(head.Render(fmt.Sprintf("%s = %s", r.Facet, f.Key)))
		b.WriteString("\n")
		b.WriteString(renderApprovalRates(r.Outcomes, f.Groups, r.Dimension+" ", w))
		b.WriteString("\n")
	}
	return strings.TrimRight(b.String(), "\n")
}

func (a App) renderInsightCard(q insights.Question, cw int) string {
	t := theme.Active
	innerW := components.CardInnerWidth(cw)
	bullet := lipgloss.NewStyle().Foreground(t.Accent).Background(t.Surface)
	text := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.Surface)

	var b strings.Builder
	for _, line := range q.Insight() {
		for i, l := range wrapText(line, innerW-2) {
			if i == 0 {
				b.WriteString(bullet.Render("• "))
			} else {
				b.WriteString(bullet.Render("  "))
			}
			b.WriteString(text.Render(l))
			b.WriteString("\n")
		}
	}
	return components.ContentCard("Insight", strings.TrimRight(b.String(), "\n"), cw)
}

func renderRecommendations(cw int) string {
	t := theme.Active
	innerW := components.CardInnerWidth(cw)
	title := lipgloss.NewStyle().Foreground(t.Accent).Background(t.Surface).Bold(true)
	text := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	note := lipgloss.NewStyle().Foreground(t.TextDim).Background(t.Surface).Italic(true)

	var b strings.Builder
	for i, rec := range insights.Recommendations() {
		b.WriteString(title.Render(fmt.Sprintf("%d. %s", i+1, rec.Title)))
		b.WriteString("\n")
		for _, l := range wrapText(rec.Body, innerW-3) {
			b.WriteString(text.Render("   " + l))
			b.WriteString("\n")
		}
	}
	b.WriteString("\n")
	for _, l := range wrapText(insights.Footnote, innerW) {
		b.WriteString(note.Render(l))
		b.WriteString("\n")
	}
	return components.ContentCard("Final Recommendations", strings.TrimRight(b.String(), "\n"), cw)
}
