package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/theirongolddev/loanscope/internal/config"
	"github.com/theirongolddev/loanscope/internal/dataset"
	"github.com/theirongolddev/loanscope/internal/pipeline"
	"github.com/theirongolddev/loanscope/internal/store"

	"github.com/spf13/cobra"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show effective configuration",
	RunE:  runConfig,
}

var flagClearCache bool

func init() {
	configCmd.Flags().BoolVar(&flagClearCache, "clear-cache", false, "drop the configured dataset from the parse cache")
	rootCmd.AddCommand(configCmd)
}

func runConfig(_ *cobra.Command, _ []string) error {
	if flagClearCache {
		return clearDatasetCache(cfg.General.Dataset)
	}

	fmt.Printf("  Config file: %s\n", config.ConfigPath())
	if config.Exists() {
		fmt.Println("  Status: loaded")
	} else {
		fmt.Println("  Status: using defaults (no config file)")
	}
	fmt.Println()

	fmt.Println("  [General]")
	fmt.Printf("    Dataset: %s\n", cfg.General.Dataset)
	model := cfg.General.Model
	if model == "" {
		model = "not configured"
	}
	fmt.Printf("    Model:   %s\n", model)
	fmt.Println()

	fmt.Println("  [Cache]")
	fmt.Printf("    Parse cache: %s", pipeline.CachePath())
	if cfg.Cache.Disabled {
		fmt.Print(" (disabled)")
	}
	fmt.Println()
	if _, err := os.Stat(pipeline.CachePath()); err == nil {
		if cache, err := store.Open(pipeline.CachePath()); err == nil {
			if n, err := cache.DatasetCount(); err == nil {
				fmt.Printf("    Cached datasets: %d\n", n)
			}
			_ = cache.Close()
		}
	}
	if cfg.Cache.RedisAddr != "" {
		fmt.Printf("    Redis:       %s (ttl %s)\n", cfg.Cache.RedisAddr, cfg.Cache.TTL())
	} else {
		fmt.Println("    Redis:       not configured (in-process result cache)")
	}
	fmt.Println()

	fmt.Println("  [Server]")
	fmt.Printf("    Address: %s\n", cfg.Server.Addr)
	fmt.Println()

	fmt.Println("  [Appearance]")
	fmt.Printf("    Theme: %s\n", cfg.Appearance.Theme)
	fmt.Println()

	fmt.Printf("  Environment overrides: %s, %s, %s, %s (also read from ./.env)\n",
		config.EnvDataset, config.EnvModel, config.EnvRedisAddr, config.EnvAddr)
	fmt.Println("  Run `loanscope setup` to reconfigure.")
	return nil
}

// clearDatasetCache removes one file-backed dataset from the parse cache so
// the next load re-reads the CSV.
func clearDatasetCache(raw string) error {
	src, err := dataset.ParseSource(raw)
	if err != nil {
		return err
	}
	if !src.IsFile() {
		return fmt.Errorf("%s is not a file dataset; nothing is cached", src)
	}
	key, err := filepath.Abs(src.Path)
	if err != nil {
		key = src.Path
	}

	cache, err := store.Open(pipeline.CachePath())
	if err != nil {
		return fmt.Errorf("opening cache: %w", err)
	}
	defer func() { _ = cache.Close() }()

	if err := cache.Delete(key); err != nil {
		return fmt.Errorf("clearing cache entry: %w", err)
	}
	fmt.Printf("  Cleared cached copy of %s\n", key)
	return nil
}
