package tui

import (
	"fmt"
	"strings"

	"github.com/theirongolddev/loanscope/internal/config"
	"github.com/theirongolddev/loanscope/internal/pipeline"
	"github.com/theirongolddev/loanscope/internal/tui/components"
	"github.com/theirongolddev/loanscope/internal/tui/theme"

	"github.com/charmbracelet/lipgloss"
)

// settingsState tracks the settings tab state.
type settingsState struct {
	cursor  int   // index into theme.All
	saved   bool  // flash "saved" message
	saveErr error // non-nil if last save failed
}

// updateSettingsKey handles tab-local keys and reports whether key was consumed.
func (a *App) updateSettingsKey(key string) bool {
	switch key {
	case "j", "down":
		if a.settings.cursor < len(theme.All)-1 {
			a.settings.cursor++
		}
	case "k", "up":
		if a.settings.cursor > 0 {
			a.settings.cursor--
		}
	case "enter":
		a.applyTheme(theme.All[a.settings.cursor].Name)
	default:
		return false
	}
	return true
}

func (a *App) applyTheme(name string) {
	theme.SetActive(name)
	a.spinner.Style = lipgloss.NewStyle().Foreground(theme.Active.Accent).Background(theme.Active.Surface)

	cfg := loadConfigOrDefault()
	cfg.Appearance.Theme = name
	a.settings.saveErr = config.Save(cfg)
	a.settings.saved = a.settings.saveErr == nil
}

func (a App) renderSettingsTab(cw int) string {
	t := theme.Active

	labelStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	valueStyle := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.Surface)
	selectedStyle := lipgloss.NewStyle().Foreground(t.Accent).Background(t.Surface).Bold(true)
	greenStyle := lipgloss.NewStyle().Foreground(t.Approved).Background(t.Surface)
	warnStyle := lipgloss.NewStyle().Foreground(t.Warning).Background(t.Surface)

	var themeBody strings.Builder
	for i, th := range theme.All {
		marker := "  "
		style := labelStyle
		if i == a.settings.cursor {
			marker = "▸ "
			style = selectedStyle
		}
		current := ""
		if th.Name == t.Name {
			current = " (active)"
		}
		themeBody.WriteString(style.Render(marker + th.Name + current))
		themeBody.WriteString(" ")
		themeBody.WriteString(swatch(th))
		themeBody.WriteString("\n")
	}

	if a.settings.saveErr != nil {
		themeBody.WriteString("\n")
		themeBody.WriteString(warnStyle.Render(fmt.Sprintf("Save failed: %s", a.settings.saveErr)))
	} else if a.settings.saved {
		themeBody.WriteString("\n")
		themeBody.WriteString(greenStyle.Render("Saved!"))
	}
	themeBody.WriteString("\n")
	themeBody.WriteString(labelStyle.Render("[j/k] navigate  [Enter] apply"))

	innerW := components.CardInnerWidth(cw)
	field := func(b *strings.Builder, label, value string) {
		b.WriteString(labelStyle.Render(fmt.Sprintf("%-17s", label)))
		b.WriteString(valueStyle.Render(truncStr(value, innerW-17)))
		b.WriteString("\n")
	}

	var info strings.Builder
	field(&info, "Dataset:", a.opts.Dataset)
	if a.load != nil {
		cache := "parsed from source"
		if a.load.CacheHit {
			cache = "served from cache"
		}
		if a.load.CacheErr != nil {
			cache = "cache unavailable: " + a.load.CacheErr.Error()
		}
		field(&info, "Load:", fmt.Sprintf("%s in %.2fs", cache, a.loadTime.Seconds()))
	}
	modelPath := a.opts.Model
	if modelPath == "" {
		modelPath = "(none)"
	}
	field(&info, "Model:", modelPath)
	if a.modelName != "" {
		field(&info, "Model name:", a.modelName)
	}
	field(&info, "Parse cache:", pipeline.CachePath())
	field(&info, "Config file:", config.ConfigPath())
	if a.setupVals != nil && a.setupVals.saveErr != nil {
		info.WriteString(warnStyle.Render("Setup not saved: " + a.setupVals.saveErr.Error()))
		info.WriteString("\n")
	}
	info.WriteString(labelStyle.Render("Run `loanscope setup` to change the dataset or model."))

	var b strings.Builder
	b.WriteString(components.ContentCard("Theme", themeBody.String(), cw))
	b.WriteString("\n")
	b.WriteString(components.ContentCard("General", info.String(), cw))
	return b.String()
}

// swatch previews a theme's outcome and accent colors.
func swatch(th theme.Theme) string {
	block := func(c lipgloss.Color) string {
		return lipgloss.NewStyle().Foreground(c).Background(theme.Active.Surface).Render("██")
	}
	return block(th.Accent) + block(th.Approved) + block(th.Rejected) + block(th.Warning)
}
