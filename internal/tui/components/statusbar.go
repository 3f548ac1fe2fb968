package components

import (
	"fmt"
	"strings"

	"github.com/theirongolddev/loanscope/internal/cli"
	"github.com/theirongolddev/loanscope/internal/tui/theme"

	"github.com/charmbracelet/lipgloss"
)

// StatusInfo is what the bottom bar reports about the loaded data.
type StatusInfo struct {
	Source   string
	Rows     int
	CacheHit bool
	Model    string // classifier name, empty when none is loaded
}

// RenderStatusBar renders the bottom status bar.
func RenderStatusBar(width int, info StatusInfo) string {
	t := theme.Active

	style := lipgloss.NewStyle().
		Foreground(t.TextMuted).
		Background(t.Surface).
		Width(width)

	left := " [?]help  [q]uit"

	var right []string
	if info.Source != "" {
		src := info.Source
		if info.CacheHit {
			src += " (cached)"
		}
		right = append(right, fmt.Sprintf("%s · %s rows", src, cli.FormatNumber(int64(info.Rows))))
	}
	if info.Model != "" {
		right = append(right, "model "+info.Model)
	}
	rightStr := strings.Join(right, "  │  ") + " "

	padding := width - lipgloss.Width(left) - lipgloss.Width(rightStr)
	if padding < 1 {
		padding = 1
	}

	return style.Render(left + strings.Repeat(" ", padding) + rightStr)
}
