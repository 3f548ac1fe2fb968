package cmd

import (
	"errors"
	"fmt"
	"strings"

	"github.com/theirongolddev/loanscope/internal/config"
	"github.com/theirongolddev/loanscope/internal/tui/theme"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"
)

var setupCmd = &cobra.Command{
	Use:   "setup",
	Short: "First-time setup wizard",
	RunE:  runSetup,
}

func init() {
	rootCmd.AddCommand(setupCmd)
}

func runSetup(_ *cobra.Command, _ []string) error {
	// Edit the saved settings, not the flag-resolved view.
	fileCfg, _ := config.Load()

	dataset := fileCfg.General.Dataset
	modelPath := fileCfg.General.Model
	redisAddr := fileCfg.Cache.RedisAddr
	themeName := fileCfg.Appearance.Theme

	themeOpts := make([]huh.Option[string], len(theme.All))
	for i, t := range theme.All {
		themeOpts[i] = huh.NewOption(t.Name, t.Name)
	}

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Dataset").
				Description("CSV path, or postgres:// mysql:// sqlite:// URL").
				Value(&dataset).
				Validate(func(s string) error {
					if strings.TrimSpace(s) == "" {
						return errors.New("dataset is required")
					}
					return nil
				}),
			huh.NewInput().
				Title("Model artifact").
				Description("Classifier TOML file; leave blank to disable predictions").
				Value(&modelPath),
		),
		huh.NewGroup(
			huh.NewInput().
				Title("Redis address").
				Description("Shared result cache for `loanscope serve`; leave blank for in-process").
				Value(&redisAddr),
			huh.NewSelect[string]().
				Title("Color theme").
				Options(themeOpts...).
				Value(&themeName),
		),
	)

	if err := form.Run(); err != nil {
		if errors.Is(err, huh.ErrUserAborted) {
			fmt.Println("  Setup canceled; nothing saved.")
			return nil
		}
		return fmt.Errorf("setup form: %w", err)
	}

	fileCfg.General.Dataset = strings.TrimSpace(dataset)
	fileCfg.General.Model = strings.TrimSpace(modelPath)
	fileCfg.Cache.RedisAddr = strings.TrimSpace(redisAddr)
	fileCfg.Appearance.Theme = themeName

	if err := config.Save(fileCfg); err != nil {
		return fmt.Errorf("saving config: %w", err)
	}

	fmt.Println()
	fmt.Printf("  Saved to %s\n", config.ConfigPath())
	fmt.Println("  Run `loanscope setup` anytime to reconfigure.")
	fmt.Println()
	return nil
}
