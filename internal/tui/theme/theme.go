// Package theme defines color themes for the loanscope TUI.
package theme

import (
	"github.com/theirongolddev/loanscope/internal/model"

	"github.com/charmbracelet/lipgloss"
)

// Theme defines the color roles used throughout the TUI.
type Theme struct {
	Name         string
	Background   lipgloss.Color // Terminal fill behind cards
	Surface      lipgloss.Color // Card/panel backgrounds
	Border       lipgloss.Color // Subtle borders
	BorderAccent lipgloss.Color // Focused card borders
	TextDim      lipgloss.Color // Hints, disabled
	TextMuted    lipgloss.Color // Labels, metadata
	TextPrimary  lipgloss.Color
	Accent       lipgloss.Color // Active tab, selection
	Approved     lipgloss.Color
	Rejected     lipgloss.Color
	Warning      lipgloss.Color
	// Series colors outcomes other than approved/rejected, in order.
	Series []lipgloss.Color
}

// Active is the currently selected theme.
var Active = FlexokiDark

// FlexokiDark is the default theme - warm, paper-inspired dark theme.
var FlexokiDark = Theme{
	Name:         "flexoki-dark",
	Background:   lipgloss.Color("#100F0F"),
	Surface:      lipgloss.Color("#1C1B1A"),
	Border:       lipgloss.Color("#403E3C"),
	BorderAccent: lipgloss.Color("#3AA99F"),
	TextDim:      lipgloss.Color("#575653"),
	TextMuted:    lipgloss.Color("#878580"),
	TextPrimary:  lipgloss.Color("#FFFCF0"),
	Accent:       lipgloss.Color("#3AA99F"),
	Approved:     lipgloss.Color("#879A39"),
	Rejected:     lipgloss.Color("#D14D41"),
	Warning:      lipgloss.Color("#D0A215"),
	Series:       []lipgloss.Color{"#4385BE", "#CE5D97", "#DA702C"},
}

// CatppuccinMocha is a warm pastel theme with soft, soothing colors.
var CatppuccinMocha = Theme{
	Name:         "catppuccin-mocha",
	Background:   lipgloss.Color("#1E1E2E"),
	Surface:      lipgloss.Color("#313244"),
	Border:       lipgloss.Color("#585B70"),
	BorderAccent: lipgloss.Color("#89B4FA"),
	TextDim:      lipgloss.Color("#6C7086"),
	TextMuted:    lipgloss.Color("#A6ADC8"),
	TextPrimary:  lipgloss.Color("#CDD6F4"),
	Accent:       lipgloss.Color("#89B4FA"),
	Approved:     lipgloss.Color("#A6E3A1"),
	Rejected:     lipgloss.Color("#F38BA8"),
	Warning:      lipgloss.Color("#F9E2AF"),
	Series:       []lipgloss.Color{"#89B4FA", "#F5C2E7", "#FAB387"},
}

// Terminal uses ANSI 16 colors only - maximum compatibility.
var Terminal = Theme{
	Name:         "terminal",
	Background:   lipgloss.Color("0"),
	Surface:      lipgloss.Color("0"),
	Border:       lipgloss.Color("8"),
	BorderAccent: lipgloss.Color("6"),
	TextDim:      lipgloss.Color("8"),
	TextMuted:    lipgloss.Color("7"),
	TextPrimary:  lipgloss.Color("15"),
	Accent:       lipgloss.Color("6"),
	Approved:     lipgloss.Color("2"),
	Rejected:     lipgloss.Color("1"),
	Warning:      lipgloss.Color("3"),
	Series:       []lipgloss.Color{"4", "5", "3"},
}

// All available themes.
var All = []Theme{FlexokiDark, CatppuccinMocha, Terminal}

// ByName returns a theme by its name, defaulting to FlexokiDark.
func ByName(name string) Theme {
	for _, t := range All {
		if t.Name == name {
			return t
		}
	}
	return FlexokiDark
}

// SetActive sets the active theme by name.
func SetActive(name string) {
	Active = ByName(name)
}

// OutcomeColor picks the color for a Loan_Status value. Approved and
// rejected values get their roles; anything else cycles through Series by idx.
func (t Theme) OutcomeColor(outcome string, idx int) lipgloss.Color {
	switch {
	case model.IsApproved(outcome):
		return t.Approved
	case model.IsRejected(outcome):
		return t.Rejected
	}
	if len(t.Series) == 0 {
		return t.Accent
	}
	return t.Series[idx%len(t.Series)]
}
