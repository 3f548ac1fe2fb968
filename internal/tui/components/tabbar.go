package components

import (
	"strings"

	"github.com/theirongolddev/loanscope/internal/tui/theme"

	"github.com/charmbracelet/lipgloss"
)

// Tab represents a single tab in the tab bar.
type Tab struct {
	Name string
	Key  rune // shortcut; always the first letter of Name
}

// Tabs defines all available tabs, in display order.
var Tabs = []Tab{
	{Name: "Overview", Key: 'o'},
	{Name: "Insights", Key: 'i'},
	{Name: "Predict", Key: 'p'},
	{Name: "Settings", Key: 's'},
}

// Tab indexes.
const (
	TabOverview = iota
	TabInsights
	TabPredict
	TabSettings
)

// renderTab draws one tab with one column of padding on each side. Inactive
// tabs show their shortcut in brackets: [I]nsights.
func renderTab(tab Tab, active bool) string {
	t := theme.Active
	base := lipgloss.NewStyle().Background(t.Surface).Padding(0, 1)

	if active {
		return base.Foreground(t.Accent).Bold(true).Render(tab.Name)
	}

	muted := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	key := lipgloss.NewStyle().Foreground(t.Accent).Background(t.Surface).Bold(true)
	dim := lipgloss.NewStyle().Foreground(t.TextDim).Background(t.Surface)

	label := dim.Render("[") + key.Render(tab.Name[:1]) + dim.Render("]") + muted.Render(tab.Name[1:])
	return base.Render(label)
}

// TabVisualWidth returns the rendered width of a tab.
func TabVisualWidth(tab Tab, active bool) int {
	return lipgloss.Width(renderTab(tab, active))
}

// RenderTabBar renders the tab bar with the given active index. Tabs are
// separated by a single column.
func RenderTabBar(activeIdx int, width int) string {
	t := theme.Active

	parts := make([]string, len(Tabs))
	for i, tab := range Tabs {
		parts[i] = renderTab(tab, i == activeIdx)
	}
	sep := lipgloss.NewStyle().Background(t.Surface).Render(" ")

	return lipgloss.NewStyle().Background(t.Surface).Width(width).Render(strings.Join(parts, sep))
}

// TabIdxByKey returns the tab index for a given key press, or -1.
func TabIdxByKey(key rune) int {
	for i, tab := range Tabs {
		if tab.Key == key {
			return i
		}
	}
	return -1
}
