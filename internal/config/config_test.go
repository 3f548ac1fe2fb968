package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func isolate(t *testing.T) {
	t.Helper()
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	for _, k := range []string{EnvDataset, EnvModel, EnvRedisAddr, EnvAddr} {
		t.Setenv(k, "")
	}
}

func TestLoadDefaultsWhenMissing(t *testing.T) {
	isolate(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg != DefaultConfig() {
		t.Errorf("Load = %+v, want defaults", cfg)
	}
	if Exists() {
		t.Error("Exists reported a config that was never written")
	}
}

func TestSaveThenLoad(t *testing.T) {
	isolate(t)

	cfg := DefaultConfig()
	cfg.General.Dataset = "/srv/loans.csv"
	cfg.Cache.Disabled = true
	cfg.Cache.RedisAddr = "redis:6379"
	cfg.Appearance.Theme = "catppuccin-mocha"

	if err := Save(cfg); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if !Exists() {
		t.Fatal("Exists = false after Save")
	}

	got, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got != cfg {
		t.Errorf("Load = %+v, want %+v", got, cfg)
	}
}

func TestPartialFileKeepsDefaults(t *testing.T) {
	isolate(t)

	if err := os.MkdirAll(ConfigDir(), 0o755); err != nil {
		t.Fatal(err)
	}
	data := "[server]\naddr = \":9000\"\n"
	if err := os.WriteFile(ConfigPath(), []byte(data), 0o600); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Server.Addr != ":9000" {
		t.Errorf("Server.Addr = %q, want :9000", cfg.Server.Addr)
	}
	if cfg.General.Model != DefaultConfig().General.Model {
		t.Errorf("General.Model = %q, want default", cfg.General.Model)
	}
}

func TestLoadRejectsBadTOML(t *testing.T) {
	isolate(t)

	if err := os.MkdirAll(ConfigDir(), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(ConfigPath(), []byte("[general\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(); err == nil {
		t.Error("Load accepted malformed TOML")
	}
}

func TestEnvOverridesFile(t *testing.T) {
	isolate(t)

	cfg := DefaultConfig()
	cfg.General.Dataset = "file.csv"
	if err := Save(cfg); err != nil {
		t.Fatalf("Save: %v", err)
	}

	t.Setenv(EnvDataset, "env.csv")
	t.Setenv(EnvRedisAddr, "cache:6379")

	got, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got.General.Dataset != "env.csv" {
		t.Errorf("Dataset = %q, want env.csv", got.General.Dataset)
	}
	if got.Cache.RedisAddr != "cache:6379" {
		t.Errorf("RedisAddr = %q, want cache:6379", got.Cache.RedisAddr)
	}
}

func TestLoadEnvFile(t *testing.T) {
	isolate(t)

	path := filepath.Join(t.TempDir(), ".env")
	if err := os.WriteFile(path, []byte(EnvModel+"=/opt/model.toml\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	// godotenv does not override set variables, so clear the isolate value.
	if err := os.Unsetenv(EnvModel); err != nil {
		t.Fatal(err)
	}

	if err := LoadEnv(path); err != nil {
		t.Fatalf("LoadEnv: %v", err)
	}
	if got := os.Getenv(EnvModel); got != "/opt/model.toml" {
		t.Errorf("%s = %q", EnvModel, got)
	}
	_ = os.Unsetenv(EnvModel)

	if err := LoadEnv(filepath.Join(t.TempDir(), "absent.env")); err != nil {
		t.Errorf("LoadEnv on a missing file: %v", err)
	}
}

func TestCacheTTL(t *testing.T) {
	c := CacheConfig{TTLSec: 90}
	if c.TTL() != 90*time.Second {
		t.Errorf("TTL = %v", c.TTL())
	}
}
