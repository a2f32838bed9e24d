// Package config loads process configuration for the pinyin-lsp server
// and dict-builder CLIs from the environment (optionally backed by a
// .env file, loaded by the caller via godotenv).
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Config holds the settings shared by cmd/pinyin-lsp and cmd/dict-builder.
type Config struct {
	DBPath        string
	MigrationsDir string
	LogLevel      string
}

// Load reads configuration from the environment, applying the documented
// defaults for any variable left unset.
func Load() (Config, error) {
	dbPath := envFirstOrDefault([]string{"PINYIN_LSP_DB_PATH"}, defaultDBPath())
	if dbPath == "" {
		return Config{}, fmt.Errorf("could not determine a default db path; set PINYIN_LSP_DB_PATH")
	}

	return Config{
		DBPath:        dbPath,
		MigrationsDir: envOrDefault("PINYIN_LSP_MIGRATIONS_DIR", "migrations"),
		LogLevel:      strings.ToLower(envOrDefault("PINYIN_LSP_LOG_LEVEL", "info")),
	}, nil
}

func defaultDBPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".pinyin-lsp", "dict.db")
}

func envOrDefault(key string, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func envFirstOrDefault(keys []string, fallback string) string {
	for _, key := range keys {
		if value := strings.TrimSpace(os.Getenv(key)); value != "" {
			return value
		}
	}
	return fallback
}
