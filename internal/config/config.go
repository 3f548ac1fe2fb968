// Package config loads and saves loanscope settings.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
)

// Environment variables that override the config file.
const (
	EnvDataset   = "LOANSCOPE_DATASET"
	EnvModel     = "LOANSCOPE_MODEL"
	EnvRedisAddr = "LOANSCOPE_REDIS_ADDR"
	EnvAddr      = "LOANSCOPE_ADDR"
)

// Config holds all loanscope configuration.
type Config struct {
	General    GeneralConfig    `toml:"general"`
	Cache      CacheConfig      `toml:"cache"`
	Server     ServerConfig     `toml:"server"`
	Appearance AppearanceConfig `toml:"appearance"`
}

// GeneralConfig locates the dataset and the classifier artifact.
type GeneralConfig struct {
	Dataset string `toml:"dataset"`
	Model   string `toml:"model"`
}

// CacheConfig controls the dataset parse cache and the result cache.
type CacheConfig struct {
	Disabled  bool   `toml:"disabled"`
	RedisAddr string `toml:"redis_addr,omitempty"`
	TTLSec    int    `toml:"ttl_sec,omitempty"`
}

// TTL returns the result-cache entry lifetime; zero means no expiry.
func (c CacheConfig) TTL() time.Duration {
	return time.Duration(c.TTLSec) * time.Second
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Addr string `toml:"addr"`
}

// AppearanceConfig holds theme settings.
type AppearanceConfig struct {
	Theme string `toml:"theme"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() Config {
	return Config{
		General: GeneralConfig{
			Dataset: filepath.Join("data", "loans.csv"),
			Model:   filepath.Join("model", "loan_approval.toml"),
		},
		Cache: CacheConfig{
			TTLSec: 3600,
		},
		Server: ServerConfig{
			Addr: "127.0.0.1:8750",
		},
		Appearance: AppearanceConfig{
			Theme: "flexoki-dark",
		},
	}
}

// ConfigDir returns the XDG-compliant config directory.
func ConfigDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "loanscope")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", "loanscope")
}

// ConfigPath returns the full path to the config file.
func ConfigPath() string {
	return filepath.Join(ConfigDir(), "config.toml")
}

// Load reads the config file, returning defaults if it doesn't exist.
// Environment overrides are applied on top.
func Load() (Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(ConfigPath())
	if err != nil {
		if os.IsNotExist(err) {
			ApplyEnv(&cfg)
			return cfg, nil
		}
		return cfg, fmt.Errorf("reading config: %w", err)
	}

	if err := toml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parsing config: %w", err)
	}

	ApplyEnv(&cfg)
	return cfg, nil
}

// LoadEnv loads variables from .env files (default ./.env) without
// overriding ones already set. Missing files are ignored.
func LoadEnv(files ...string) error {
	err := godotenv.Load(files...)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("loading env file: %w", err)
	}
	return nil
}

// ApplyEnv overrides cfg with any LOANSCOPE_* variables that are set.
func ApplyEnv(cfg *Config) {
	if v := os.Getenv(EnvDataset); v != "" {
		cfg.General.Dataset = v
	}
	if v := os.Getenv(EnvModel); v != "" {
		cfg.General.Model = v
	}
	if v := os.Getenv(EnvRedisAddr); v != "" {
		cfg.Cache.RedisAddr = v
	}
	if v := os.Getenv(EnvAddr); v != "" {
		cfg.Server.Addr = v
	}
}

// Save writes the config to disk.
func Save(cfg Config) error {
	dir := ConfigDir()
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating config dir: %w", err)
	}

	f, err := os.OpenFile(ConfigPath(), os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o600)
	if err != nil {
		return fmt.Errorf("creating config file: %w", err)
	}
	defer f.Close()

	enc := toml.NewEncoder(f)
	return enc.Encode(cfg)
}

// Exists returns true if a config file exists on disk.
func Exists() bool {
	_, err := os.Stat(ConfigPath())
	return err == nil
}
