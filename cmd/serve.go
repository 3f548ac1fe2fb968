package cmd

import (
	"context"
	"errors"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/theirongolddev/loanscope/internal/classifier"
	"github.com/theirongolddev/loanscope/internal/resultcache"
	"github.com/theirongolddev/loanscope/internal/server"

	"github.com/spf13/cobra"
)

var flagServeAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve insights and predictions over HTTP",
	Args:  cobra.NoArgs,
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().StringVar(&flagServeAddr, "addr", "", "HTTP listen address (default from config)")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	addr := cfg.Server.Addr
	if flagServeAddr != "" {
		addr = flagServeAddr
	}

	result, err := loadData(ctx)
	if err != nil {
		return err
	}

	// A missing model disables /v1/predict; a broken one is fatal.
	var clf classifier.Classifier
	if m, err := loadClassifier(); err == nil {
		clf = m
		log.Printf("loaded model %s %s", m.Name, m.Version)
	} else if errors.Is(err, os.ErrNotExist) || cfg.General.Model == "" {
		log.Printf("no model available, predictions disabled: %v", err)
	} else {
		return err
	}

	cache, closeCache := openResultCache(ctx)
	defer closeCache()

	srv := server.New(server.Config{
		Addr:       addr,
		Dataset:    result.Dataset,
		Classifier: clf,
		Cache:      cache,
	})
	return srv.Run(ctx)
}

// openResultCache connects to Redis when configured and reachable, and
// falls back to an in-process cache otherwise.
func openResultCache(ctx context.Context) (resultcache.Cache, func()) {
	if cfg.Cache.RedisAddr == "" {
		return resultcache.NewMemory(), func() {}
	}

	r := resultcache.NewRedis(cfg.Cache.RedisAddr, cfg.Cache.TTL())
	if err := r.Ping(ctx); err != nil {
		log.Printf("redis unavailable, using in-process result cache: %v", err)
		_ = r.Close()
		return resultcache.NewMemory(), func() {}
	}
	log.Printf("result cache: redis at %s", cfg.Cache.RedisAddr)
	return r, func() { _ = r.Close() }
}
