// Package pipeline orchestrates dataset loading, caching, and insight
// aggregation.
package pipeline

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/theirongolddev/loanscope/internal/dataset"
	"github.com/theirongolddev/loanscope/internal/store"
)

// LoadOptions controls LoadDataset.
type LoadOptions struct {
	// UseCache enables the SQLite parse cache for CSV sources.
	UseCache bool
	// CachePath overrides the cache database location.
	CachePath string
}

// LoadResult holds the loaded dataset plus cache metadata.
type LoadResult struct {
	Dataset  *dataset.Dataset
	Source   dataset.Source
	CacheHit bool
	// CacheErr records a cache failure that was worked around by reading the
	// source directly.
	CacheErr error
}

// LoadDataset resolves raw (a CSV path or SQL URL) and loads it. CSV files
// are served from the parse cache when their mtime and size are unchanged.
// Any cache problem falls back to an uncached load.
func LoadDataset(ctx context.Context, raw string, opts LoadOptions) (*LoadResult, error) {
	src, err := dataset.ParseSource(raw)
	if err != nil {
		return nil, err
	}

	if !src.IsFile() || !opts.UseCache {
		ds, err := dataset.Load(ctx, src)
		if err != nil {
			return nil, err
		}
		return &LoadResult{Dataset: ds, Source: src}, nil
	}

	cachePath := opts.CachePath
	if cachePath == "" {
		cachePath = CachePath()
	}
	return loadWithCache(src, cachePath)
}

func loadWithCache(src dataset.Source, cachePath string) (*LoadResult, error) {
	info, err := os.Stat(src.Path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", dataset.ErrDatasetLoad, err)
	}
	key, err := filepath.Abs(src.Path)
	if err != nil {
		key = src.Path
	}
	mtime, size := info.ModTime().UnixNano(), info.Size()

	result := &LoadResult{Source: src}

	cache, err := store.Open(cachePath)
	if err != nil {
		result.CacheErr = err
		result.Dataset, err = dataset.LoadFile(src.Path)
		if err != nil {
			return nil, err
		}
		return result, nil
	}
	defer func() { _ = cache.Close() }()

	if tracked, ok, err := cache.Lookup(key); err != nil {
		result.CacheErr = err
	} else if ok && tracked.Matches(mtime, size) {
		ds, err := loadCached(cache, key, src.Path)
		if err == nil {
			result.Dataset = ds
			result.CacheHit = true
			return result, nil
		}
		result.CacheErr = fmt.Errorf("reading cached dataset: %w", err)
	}

	ds, err := dataset.LoadFile(src.Path)
	if err != nil {
		return nil, err
	}
	result.Dataset = ds

	if err := cache.SaveDataset(key, mtime, size, ds.Records()); err != nil && result.CacheErr == nil {
		result.CacheErr = fmt.Errorf("saving dataset to cache: %w", err)
	}
	return result, nil
}

func loadCached(cache *store.Cache, key, source string) (*dataset.Dataset, error) {
	records, err := cache.LoadRecords(key)
	if err != nil {
		return nil, err
	}
	return dataset.FromRecords(records, source)
}

// CacheDir returns the platform-appropriate cache directory.
func CacheDir() string {
	if xdg := os.Getenv("XDG_CACHE_HOME"); xdg != "" {
		return filepath.Join(xdg, "loanscope")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".cache", "loanscope")
}

// CachePath returns the full path to the cache database.
func CachePath() string {
	return filepath.Join(CacheDir(), "datasets.db")
}
