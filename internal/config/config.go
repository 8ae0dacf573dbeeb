package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"mediio-admin/internal/persist"
)

type Config struct {
	ListenAddr      string
	StorageDriver   string
	SQLitePath      string
	DatabaseDSN     string
	KVTable         string
	SeedFile        string
	SkipSeed        bool
	EnableMetrics   bool
	LogLevel        string
	LogFormat       string
	ShutdownTimeout time.Duration
}

func Load() *Config {
	config := &Config{
		ListenAddr:      getEnv("LISTEN_ADDR", ":8080"),
		StorageDriver:   getEnv("STORAGE_DRIVER", persist.DriverSQLite),
		SQLitePath:      getEnv("SQLITE_PATH", "data/mediio.db"),
		DatabaseDSN:     os.Getenv("DB_DSN"),
		KVTable:         getEnv("KV_TABLE", "kv_store"),
		SeedFile:        os.Getenv("SEED_FILE"),
		SkipSeed:        os.Getenv("SKIP_SEED") == "true",
		EnableMetrics:   os.Getenv("ENABLE_METRICS") == "true",
		LogLevel:        getEnv("LOG_LEVEL", "info"),
		LogFormat:       getEnv("LOG_FORMAT", "text"),
		ShutdownTimeout: 10 * time.Second,
	}

	// Parse shutdown timeout from environment if provided
	if s := os.Getenv("SHUTDOWN_TIMEOUT"); s != "" {
		if d, err := time.ParseDuration(s); err == nil {
			config.ShutdownTimeout = d
		}
	}

	return config
}

// Validate checks the configuration for values the server cannot start with.
func (c *Config) Validate() error {
	var errs []error
	if strings.TrimSpace(c.ListenAddr) == "" {
		errs = append(errs, errors.New("LISTEN_ADDR must not be empty"))
	}
	switch c.StorageDriver {
	case persist.DriverMemory:
	case persist.DriverSQLite:
		if strings.TrimSpace(c.SQLitePath) == "" {
			errs = append(errs, errors.New("SQLITE_PATH is required for the sqlite driver"))
		}
	case persist.DriverPostgres:
		if c.DatabaseDSN == "" {
			errs = append(errs, errors.New("DB_DSN is required for the postgres driver"))
		}
		if strings.TrimSpace(c.KVTable) == "" {
			errs = append(errs, errors.New("KV_TABLE must not be empty"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown STORAGE_DRIVER %q", c.StorageDriver))
	}
	if _, err := logrus.ParseLevel(c.LogLevel); err != nil {
		errs = append(errs, fmt.Errorf("invalid LOG_LEVEL: %w", err))
	}
	if c.LogFormat != "text" && c.LogFormat != "json" {
		errs = append(errs, fmt.Errorf("LOG_FORMAT must be text or json, got %q", c.LogFormat))
	}
	if c.ShutdownTimeout <= 0 {
		errs = append(errs, errors.New("SHUTDOWN_TIMEOUT must be positive"))
	}
	return errors.Join(errs...)
}

// LoadAndValidate loads the configuration from the environment and validates it.
func LoadAndValidate() (*Config, error) {
	cfg := Load()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// StorageOptions returns the persistence backend settings.
func (c *Config) StorageOptions() persist.Options {
	return persist.Options{
		Driver:      c.StorageDriver,
		SQLitePath:  c.SQLitePath,
		PostgresDSN: c.DatabaseDSN,
		Table:       c.KVTable,
	}
}

// NewLogger builds the process logger from LogLevel and LogFormat.
func (c *Config) NewLogger() *logrus.Logger {
	log := logrus.New()
	if lvl, err := logrus.ParseLevel(c.LogLevel); err == nil {
		log.SetLevel(lvl)
	}
	if c.LogFormat == "json" {
		log.SetFormatter(&logrus.JSONFormatter{TimestampFormat: time.RFC3339})
	} else {
		log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}
	return log
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
