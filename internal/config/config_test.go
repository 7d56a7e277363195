package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoad(t *testing.T) {
	t.Run("uses defaults when nothing is set", func(t *testing.T) {
		t.Setenv("CONFIG_FILE", "")
		t.Setenv("SERVER_PORT", "")
		t.Setenv("DB_PATH", "")

		cfg, err := Load()
		if err != nil {
			t.Fatalf("Load() returned unexpected error: %v", err)
		}

		if cfg.Server.Addr != "localhost:5001" {
			t.Errorf("Expected addr localhost:5001, got %s", cfg.Server.Addr)
		}
		if cfg.Database.Path != "./data/research_inbox.db" {
			t.Errorf("Expected default db path, got %s", cfg.Database.Path)
		}
		if cfg.Prices.Concurrency != 4 {
			t.Errorf("Expected default concurrency 4, got %d", cfg.Prices.Concurrency)
		}
	})

	t.Run("file values are overridden by environment", func(t *testing.T) {
		dir := t.TempDir()
		path := filepath.Join(dir, "inbox.toml")
		content := `
[server]
port = "7000"
host = "0.0.0.0"

[database]
path = "/tmp/from-file.db"

[prices]
schedule = "*/5 * * * *"
concurrency = 8
`
		if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
			t.Fatalf("Failed to write config file: %v", err)
		}

		t.Setenv("CONFIG_FILE", path)
		t.Setenv("SERVER_PORT", "7100")
		t.Setenv("DB_PATH", "")

		cfg, err := Load()
		if err != nil {
			t.Fatalf("Load() returned unexpected error: %v", err)
		}

		if cfg.Server.Addr != "0.0.0.0:7100" {
			t.Errorf("Expected addr 0.0.0.0:7100, got %s", cfg.Server.Addr)
		}
		if cfg.Database.Path != "/tmp/from-file.db" {
			t.Errorf("Expected db path from file, got %s", cfg.Database.Path)
		}
		if cfg.Prices.Schedule != "*/5 * * * *" || cfg.Prices.Concurrency != 8 {
			t.Errorf("Expected price settings from file, got %+v", cfg.Prices)
		}
	})

	t.Run("empty schedule disables price refresh", func(t *testing.T) {
		t.Setenv("CONFIG_FILE", "")
		t.Setenv("PRICE_REFRESH_SCHEDULE", " ")

		cfg, err := Load()
		if err != nil {
			t.Fatalf("Load() returned unexpected error: %v", err)
		}
		if cfg.Prices.Schedule != "" {
			t.Errorf("Expected empty schedule, got %q", cfg.Prices.Schedule)
		}
	})

	t.Run("comma separated origins", func(t *testing.T) {
		t.Setenv("CONFIG_FILE", "")
		t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.example, https://b.example,")

		cfg, err := Load()
		if err != nil {
			t.Fatalf("Load() returned unexpected error: %v", err)
		}
		if len(cfg.CORS.AllowedOrigins) != 2 {
			t.Fatalf("Expected 2 origins, got %v", cfg.CORS.AllowedOrigins)
		}
		if cfg.CORS.AllowedOrigins[1] != "https://b.example" {
			t.Errorf("Unexpected origin %q", cfg.CORS.AllowedOrigins[1])
		}
	})

	t.Run("missing config file is an error", func(t *testing.T) {
		t.Setenv("CONFIG_FILE", filepath.Join(t.TempDir(), "missing.toml"))

		if _, err := Load(); err == nil {
			t.Error("Expected error for missing config file, got nil")
		}
	})
}
