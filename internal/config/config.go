// Package config loads fopmanager settings from the environment and builds
// the process logger.
package config

import (
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/caarlos0/env/v11"
)

// Storage drivers accepted by FOP_STORAGE_DRIVER.
const (
	StorageMemory   = "memory"
	StorageJSON     = "json"
	StorageSQLite   = "sqlite"
	StoragePostgres = "postgres"
)

// Blob drivers accepted by FOP_BLOB_DRIVER.
const (
	BlobFS     = "fs"
	BlobMemory = "memory"
	BlobS3     = "s3"
)

// Config is the full runtime configuration.
type Config struct {
	Storage      StorageConfig
	Blob         BlobConfig
	HistoryLimit int    `env:"FOP_HISTORY_LIMIT" envDefault:"0"`
	LogLevel     string `env:"FOP_LOG_LEVEL" envDefault:"info"`
	LogFormat    string `env:"FOP_LOG_FORMAT" envDefault:"text"`
}

// StorageConfig selects and configures the address book store.
type StorageConfig struct {
	Driver      string `env:"FOP_STORAGE_DRIVER" envDefault:"json"`
	JSONPath    string `env:"FOP_JSON_PATH" envDefault:"data/addressbook.json"`
	SQLitePath  string `env:"FOP_SQLITE_PATH" envDefault:"data/fopmanager.db"`
	PostgresDSN string `env:"FOP_POSTGRES_DSN"`
}

// BlobConfig selects and configures the export artifact store.
type BlobConfig struct {
	Driver   string `env:"FOP_BLOB_DRIVER" envDefault:"fs"`
	FSRoot   string `env:"FOP_BLOB_FS_ROOT" envDefault:"exports"`
	Bucket   string `env:"FOP_BLOB_S3_BUCKET"`
	Region   string `env:"FOP_BLOB_S3_REGION" envDefault:"us-east-1"`
	Endpoint string `env:"FOP_BLOB_S3_ENDPOINT"`
	// PathStyle forces path-style addressing, needed by most S3 emulators.
	PathStyle bool `env:"FOP_BLOB_S3_PATH_STYLE" envDefault:"false"`
}

// ParseEnv loads configuration from environment variables into target.
func ParseEnv(target any) error {
	if err := env.Parse(target); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}

// Load parses the environment and validates driver names.
func Load() (Config, error) {
	var cfg Config
	if err := ParseEnv(&cfg); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate rejects unknown drivers and negative limits.
func (c Config) Validate() error {
	switch c.Storage.Driver {
	case StorageMemory, StorageJSON, StorageSQLite, StoragePostgres:
	default:
		return fmt.Errorf("unknown storage driver %q", c.Storage.Driver)
	}
	switch c.Blob.Driver {
	case BlobFS, BlobMemory:
	case BlobS3:
		if c.Blob.Bucket == "" {
			return fmt.Errorf("FOP_BLOB_S3_BUCKET is required for the s3 blob driver")
		}
	default:
		return fmt.Errorf("unknown blob driver %q", c.Blob.Driver)
	}
	if c.HistoryLimit < 0 {
		return fmt.Errorf("history limit must not be negative, got %d", c.HistoryLimit)
	}
	if _, err := parseLevel(c.LogLevel); err != nil {
		return err
	}
	return nil
}

// NewLogger builds a text or JSON slog logger at the configured level.
func (c Config) NewLogger(w io.Writer) *slog.Logger {
	level, err := parseLevel(c.LogLevel)
	if err != nil {
		level = slog.LevelInfo
	}
	opts := &slog.HandlerOptions{Level: level}
	if strings.EqualFold(c.LogFormat, "json") {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

func parseLevel(raw string) (slog.Level, error) {
	var level slog.Level
	if raw == "" {
		return slog.LevelInfo, nil
	}
	if err := level.UnmarshalText([]byte(raw)); err != nil {
		return slog.LevelInfo, fmt.Errorf("invalid log level %q: %w", raw, err)
	}
	return level, nil
}
