// Package config loads runtime settings from the environment. A .env file
// in the working directory is read first when present; real environment
// variables win over it.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/joho/godotenv"
)

// Storage backends.
const (
	BackendSQLite = "sqlite"
	BackendRedis  = "redis"
	BackendMemory = "memory"
)

type Config struct {
	Storage StorageConfig
	Menu    MenuConfig
	Export  ExportConfig
	Log     LogConfig
	Metrics MetricsConfig
}

type StorageConfig struct {
	Backend     string
	DBPath      string
	RedisAddr   string
	RedisPrefix string
}

type MenuConfig struct {
	Path string
}

type ExportConfig struct {
	Dir      string
	Currency string

	// FontPath and BoldFontPath point at TrueType fonts for the PDF summary.
	// Empty means the embedded DejaVu Sans.
	FontPath     string
	BoldFontPath string
}

type LogConfig struct {
	Level string
	File  string
}

// MetricsConfig controls the Prometheus textfile written after each command.
// An empty File disables it.
type MetricsConfig struct {
	File string
}

// Load reads .env (if any) and the environment.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}
	return FromEnv()
}

// FromEnv builds a Config from environment variables only.
func FromEnv() (*Config, error) {
	cfg := &Config{
		Storage: StorageConfig{
			Backend:     strings.ToLower(getEnv("STORAGE_BACKEND", BackendSQLite)),
			DBPath:      getEnv("DB_PATH", "./data/grouporder.db"),
			RedisAddr:   getEnv("REDIS_ADDR", "localhost:6379"),
			RedisPrefix: getEnv("REDIS_PREFIX", "grouporder:"),
		},
		Menu: MenuConfig{
			Path: getEnv("MENU_PATH", ""),
		},
		Export: ExportConfig{
			Dir:          getEnv("EXPORT_DIR", "."),
			Currency:     getEnv("CURRENCY_SYMBOL", "Rs."),
			FontPath:     getEnv("PDF_FONT", ""),
			BoldFontPath: getEnv("PDF_FONT_BOLD", ""),
		},
		Log: LogConfig{
			Level: getEnv("LOG_LEVEL", "info"),
			File:  getEnv("LOG_FILE", "grouporder.log"),
		},
		Metrics: MetricsConfig{
			File: getEnv("METRICS_FILE", ""),
		},
	}

	switch cfg.Storage.Backend {
	case BackendSQLite, BackendRedis, BackendMemory:
	default:
		return nil, fmt.Errorf("unknown STORAGE_BACKEND %q (want sqlite, redis or memory)", cfg.Storage.Backend)
	}
	return cfg, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
