package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/joho/godotenv"
)

func TestLoadDefaultsDBPathUnderHome(t *testing.T) {
	t.Setenv("PINYIN_LSP_DB_PATH", "")
	t.Setenv("PINYIN_LSP_MIGRATIONS_DIR", "")
	t.Setenv("PINYIN_LSP_LOG_LEVEL", "")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	home, _ := os.UserHomeDir()
	want := filepath.Join(home, ".pinyin-lsp", "dict.db")
	if cfg.DBPath != want {
		t.Fatalf("expected default db path %q, got %q", want, cfg.DBPath)
	}
	if cfg.MigrationsDir != "migrations" {
		t.Fatalf("expected default migrations dir 'migrations', got %q", cfg.MigrationsDir)
	}
	if cfg.LogLevel != "info" {
		t.Fatalf("expected default log level 'info', got %q", cfg.LogLevel)
	}
}

func TestLoadReadsEnvOverrides(t *testing.T) {
	t.Setenv("PINYIN_LSP_DB_PATH", "/tmp/custom.db")
	t.Setenv("PINYIN_LSP_MIGRATIONS_DIR", "/tmp/migrations")
	t.Setenv("PINYIN_LSP_LOG_LEVEL", "DEBUG")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.DBPath != "/tmp/custom.db" {
		t.Fatalf("unexpected db path: %q", cfg.DBPath)
	}
	if cfg.MigrationsDir != "/tmp/migrations" {
		t.Fatalf("unexpected migrations dir: %q", cfg.MigrationsDir)
	}
	if cfg.LogLevel != "debug" {
		t.Fatalf("expected log level lowercased to 'debug', got %q", cfg.LogLevel)
	}
}

func TestLoadFromDotenv(t *testing.T) {
	dir := t.TempDir()
	envPath := filepath.Join(dir, ".env")
	if err := os.WriteFile(envPath, []byte("PINYIN_LSP_DB_PATH=/tmp/from-dotenv.db\n"), 0o644); err != nil {
		t.Fatalf("write .env: %v", err)
	}

	t.Setenv("PINYIN_LSP_DB_PATH", "")
	if err := godotenv.Overload(envPath); err != nil {
		t.Fatalf("load dotenv: %v", err)
	}

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.DBPath != "/tmp/from-dotenv.db" {
		t.Fatalf("unexpected db path from dotenv: %q", cfg.DBPath)
	}
}
