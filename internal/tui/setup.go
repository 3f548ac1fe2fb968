package tui

import (
	"errors"
	"strings"

	"github.com/theirongolddev/loanscope/internal/config"
	"github.com/theirongolddev/loanscope/internal/tui/theme"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
)

// setupValues holds the form-bound values for the first-run wizard.
type setupValues struct {
	dataset   string
	modelPath string
	theme     string
	saveErr   error
}

func newSetupForm(opts Options) (*huh.Form, *setupValues) {
	cfg := loadConfigOrDefault()

	v := &setupValues{
		dataset:   opts.Dataset,
		modelPath: opts.Model,
		theme:     cfg.Appearance.Theme,
	}

	themeOpts := make([]huh.Option[string], len(theme.All))
	for i, t := range theme.All {
		themeOpts[i] = huh.NewOption(t.Name, t.Name)
	}

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewNote().
				Title("Welcome to loanscope").
				Description("Explore which applicant attributes drive loan approval,\nand score new applicants with the trained model.\n\nLet's point it at your data."),
		),
		huh.NewGroup(
			huh.NewInput().
				Title("Dataset").
				Description("CSV path, or postgres:// mysql:// sqlite:// URL").
				Value(&v.dataset).
				Validate(func(s string) error {
					if strings.TrimSpace(s) == "" {
						return errors.New("dataset is required")
					}
					return nil
				}),
			huh.NewInput().
				Title("Model artifact").
				Description("Classifier TOML file; leave blank to disable predictions").
				Value(&v.modelPath),
		),
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Color theme").
				Options(themeOpts...).
				Value(&v.theme),
		),
	).WithTheme(huh.ThemeDracula()).WithShowHelp(true)

	return form, v
}

func (a App) updateSetupForm(msg tea.Msg) (tea.Model, tea.Cmd) {
	form, cmd := a.setupForm.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		a.setupForm = f
	}

	switch a.setupForm.State {
	case huh.StateCompleted:
		a.setupForm = nil
		a.needSetup = false
		return a.applySetup()
	case huh.StateAborted:
		a.setupForm = nil
		a.needSetup = false
		return a, nil
	}

	return a, cmd
}

// applySetup persists the wizard's answers. A changed dataset or model path
// triggers a reload.
func (a App) applySetup() (tea.Model, tea.Cmd) {
	v := a.setupVals
	cfg := loadConfigOrDefault()
	cfg.General.Dataset = strings.TrimSpace(v.dataset)
	cfg.General.Model = strings.TrimSpace(v.modelPath)
	cfg.Appearance.Theme = v.theme
	theme.SetActive(v.theme)
	v.saveErr = config.Save(cfg)

	if cfg.General.Dataset == a.opts.Dataset && cfg.General.Model == a.opts.Model {
		return a, nil
	}

	a.opts.Dataset = cfg.General.Dataset
	a.opts.Model = cfg.General.Model
	a.loaded = false
	a.stage, a.progress, a.progressMax = "", 0, 0
	return a, tea.Batch(loadDataCmd(a.opts, a.loadSub), a.spinner.Tick)
}
