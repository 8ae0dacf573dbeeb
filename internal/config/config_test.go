package config

import (
	"testing"
	"time"

	"github.com/sirupsen/logrus"

	"mediio-admin/internal/persist"
)

var envKeys = []string{
	"LISTEN_ADDR", "STORAGE_DRIVER", "SQLITE_PATH", "DB_DSN", "KV_TABLE",
	"SEED_FILE", "SKIP_SEED", "ENABLE_METRICS", "LOG_LEVEL", "LOG_FORMAT", "SHUTDOWN_TIMEOUT",
}

func clearEnv(t *testing.T) {
	for _, k := range envKeys {
		t.Setenv(k, "")
	}
}

func TestLoad(t *testing.T) {
	clearEnv(t)

	cfg := Load()

	// Check defaults
	if cfg.ListenAddr != ":8080" {
		t.Errorf("Expected default LISTEN_ADDR, got %s", cfg.ListenAddr)
	}
	if cfg.StorageDriver != persist.DriverSQLite {
		t.Errorf("Expected default STORAGE_DRIVER, got %s", cfg.StorageDriver)
	}
	if cfg.SQLitePath != "data/mediio.db" {
		t.Errorf("Expected default SQLITE_PATH, got %s", cfg.SQLitePath)
	}
	if cfg.KVTable != "kv_store" {
		t.Errorf("Expected default KV_TABLE, got %s", cfg.KVTable)
	}
	if cfg.SkipSeed || cfg.EnableMetrics {
		t.Errorf("Expected flags to default to false")
	}
	if cfg.ShutdownTimeout != 10*time.Second {
		t.Errorf("Expected default SHUTDOWN_TIMEOUT, got %v", cfg.ShutdownTimeout)
	}
}

func TestLoadWithEnvironment(t *testing.T) {
	clearEnv(t)
	t.Setenv("LISTEN_ADDR", ":9090")
	t.Setenv("STORAGE_DRIVER", "postgres")
	t.Setenv("DB_DSN", "postgres://u:p@localhost/db")
	t.Setenv("SKIP_SEED", "true")
	t.Setenv("ENABLE_METRICS", "true")
	t.Setenv("LOG_FORMAT", "json")
	t.Setenv("SHUTDOWN_TIMEOUT", "3s")

	cfg := Load()

	if cfg.ListenAddr != ":9090" {
		t.Errorf("Expected LISTEN_ADDR from env, got %s", cfg.ListenAddr)
	}
	if cfg.StorageDriver != persist.DriverPostgres {
		t.Errorf("Expected STORAGE_DRIVER from env, got %s", cfg.StorageDriver)
	}
	if !cfg.SkipSeed || !cfg.EnableMetrics {
		t.Errorf("Expected flags from env")
	}
	if cfg.ShutdownTimeout != 3*time.Second {
		t.Errorf("Expected SHUTDOWN_TIMEOUT from env, got %v", cfg.ShutdownTimeout)
	}
	opts := cfg.StorageOptions()
	if opts.PostgresDSN != "postgres://u:p@localhost/db" || opts.Driver != persist.DriverPostgres {
		t.Errorf("Unexpected storage options %+v", opts)
	}
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		return &Config{
			ListenAddr:      ":8080",
			StorageDriver:   persist.DriverSQLite,
			SQLitePath:      "data/test.db",
			KVTable:         "kv_store",
			LogLevel:        "info",
			LogFormat:       "text",
			ShutdownTimeout: time.Second,
		}
	}
	tests := []struct {
		name        string
		mutate      func(c *Config)
		expectError bool
	}{
		{"valid config", func(c *Config) {}, false},
		{"memory driver", func(c *Config) { c.StorageDriver = persist.DriverMemory; c.SQLitePath = "" }, false},
		{"postgres without dsn", func(c *Config) { c.StorageDriver = persist.DriverPostgres }, true},
		{"postgres with dsn", func(c *Config) { c.StorageDriver = persist.DriverPostgres; c.DatabaseDSN = "postgres://x" }, false},
		{"postgres empty table", func(c *Config) {
			c.StorageDriver = persist.DriverPostgres
			c.DatabaseDSN = "postgres://x"
			c.KVTable = " "
		}, true},
		{"unknown driver", func(c *Config) { c.StorageDriver = "bolt" }, true},
		{"empty sqlite path", func(c *Config) { c.SQLitePath = "" }, true},
		{"empty listen addr", func(c *Config) { c.ListenAddr = "" }, true},
		{"bad log level", func(c *Config) { c.LogLevel = "loud" }, true},
		{"bad log format", func(c *Config) { c.LogFormat = "xml" }, true},
		{"zero shutdown timeout", func(c *Config) { c.ShutdownTimeout = 0 }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(cfg)
			err := cfg.Validate()
			if (err != nil) != tt.expectError {
				t.Errorf("Validate() error = %v, expectError %v", err, tt.expectError)
			}
		})
	}
}

func TestLoadAndValidate(t *testing.T) {
	clearEnv(t)

	cfg, err := LoadAndValidate()
	if err != nil {
		t.Errorf("LoadAndValidate() failed with default config: %v", err)
	}
	if cfg == nil {
		t.Error("LoadAndValidate() returned nil config with valid config")
	}

	t.Setenv("STORAGE_DRIVER", "postgres")
	_, err = LoadAndValidate()
	if err == nil {
		t.Error("LoadAndValidate() should fail without DB_DSN")
	}
}

func TestNewLogger(t *testing.T) {
	cfg := &Config{LogLevel: "debug", LogFormat: "json"}
	log := cfg.NewLogger()
	if log.GetLevel() != logrus.DebugLevel {
		t.Errorf("Expected debug level, got %v", log.GetLevel())
	}
	if _, ok := log.Formatter.(*logrus.JSONFormatter); !ok {
		t.Errorf("Expected JSON formatter, got %T", log.Formatter)
	}
}
