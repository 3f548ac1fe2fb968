// Package cmd implements the loanscope CLI commands.
package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/theirongolddev/loanscope/internal/classifier"
	"github.com/theirongolddev/loanscope/internal/cli"
	"github.com/theirongolddev/loanscope/internal/config"
	"github.com/theirongolddev/loanscope/internal/pipeline"

	"github.com/spf13/cobra"
)

var (
	flagDataset string
	flagModel   string
	flagNoCache bool
	flagQuiet   bool
)

// cfg is the effective configuration: flags over environment over the
// config file over defaults. Resolved before any command runs.
var cfg config.Config

var rootCmd = &cobra.Command{
	Use:               "loanscope",
	Short:             "Loan approval insights and predictions",
	Long:              "Explore which applicant attributes drive loan approval, and score new applicants with a trained classifier.",
	PersistentPreRunE: resolveConfig,
	SilenceUsage:      true,
	RunE:              runTUI,
}

// Execute is the main entry point called from main.go.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	defaults := config.DefaultConfig()

	rootCmd.PersistentFlags().StringVarP(&flagDataset, "dataset", "d", defaults.General.Dataset, "Dataset CSV path or SQL URL (postgres://, mysql://, sqlite://)")
	rootCmd.PersistentFlags().StringVarP(&flagModel, "model", "m", defaults.General.Model, "Classifier artifact (TOML)")
	rootCmd.PersistentFlags().BoolVar(&flagNoCache, "no-cache", false, "Skip the SQLite parse cache, reread the dataset")
	rootCmd.PersistentFlags().BoolVarP(&flagQuiet, "quiet", "q", false, "Suppress progress output")
}

func resolveConfig(cmd *cobra.Command, _ []string) error {
	if err := config.LoadEnv(); err != nil {
		return err
	}

	loaded, err := config.Load()
	if err != nil {
		return err
	}
	cfg = loaded

	flags := cmd.Flags()
	if flags.Changed("dataset") {
		cfg.General.Dataset = flagDataset
	}
	if flags.Changed("model") {
		cfg.General.Model = flagModel
	}
	if flags.Changed("no-cache") {
		cfg.Cache.Disabled = flagNoCache
	}
	return nil
}

// loadData is the shared data loading path used by all dataset commands.
// CSV files go through the SQLite parse cache unless it is disabled.
func loadData(ctx context.Context) (*pipeline.LoadResult, error) {
	if !flagQuiet {
		fmt.Fprintf(os.Stderr, "  Loading %s...\n", cfg.General.Dataset)
	}

	result, err := pipeline.LoadDataset(ctx, cfg.General.Dataset, pipeline.LoadOptions{
		UseCache: !cfg.Cache.Disabled,
	})
	if err != nil {
		return nil, err
	}

	if !flagQuiet {
		if result.CacheErr != nil {
			fmt.Fprintf(os.Stderr, "  Cache unavailable (%v), read source directly\n", result.CacheErr)
		}
		from := "parsed"
		if result.CacheHit {
			from = "from cache"
		}
		fmt.Fprintf(os.Stderr, "  Loaded %s rows x %d columns (%s)\n",
			cli.FormatNumber(int64(result.Dataset.Len())),
			len(result.Dataset.Names()),
			from,
		)
	}
	return result, nil
}

// loadClassifier reads the configured model artifact.
func loadClassifier() (*classifier.Linear, error) {
	if cfg.General.Model == "" {
		return nil, fmt.Errorf("%w: no model configured (use --model)", classifier.ErrModelLoad)
	}
	return classifier.Load(cfg.General.Model)
}
