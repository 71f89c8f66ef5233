package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// Config represents the top-level configuration for Sightline.
type Config struct {
	Server      ServerConfig      `koanf:"server"`
	Database    DatabaseConfig    `koanf:"database"`
	Query       QueryConfig       `koanf:"query"`
	ObjectStore ObjectStoreConfig `koanf:"object_store"`
	Aggregation AggregationConfig `koanf:"aggregation"`
}

// ServerConfig holds the HTTP server configuration.
type ServerConfig struct {
	Port          int    `koanf:"port"`
	Host          string `koanf:"host"`
	MaxBodySizeMB int    `koanf:"max_body_size_mb"`
	Mode          string `koanf:"mode"` // "debug" or "release"
}

// DatabaseConfig holds the record store connection settings.
type DatabaseConfig struct {
	DSN          string `koanf:"dsn"`
	MaxOpenConns int    `koanf:"max_open_conns"`
	MaxIdleConns int    `koanf:"max_idle_conns"`
	AutoMigrate  bool   `koanf:"auto_migrate"`
}

// QueryConfig holds settings for the query engine.
type QueryConfig struct {
	// ScanLimit bounds the fleet-wide metrics scan. On a large store the
	// scan is a statistical sample of the population; the limit stays
	// explicit and configurable rather than silently widening to a full
	// scan.
	ScanLimit int `koanf:"scan_limit"`
}

// ObjectStoreConfig holds settings for the snapshot object store.
type ObjectStoreConfig struct {
	Root   string `koanf:"root"`
	Bucket string `koanf:"bucket"`
}

// AggregationConfig holds settings for the periodic snapshot publication.
type AggregationConfig struct {
	Enabled  bool   `koanf:"enabled"`
	Interval string `koanf:"interval"` // parsed as time.Duration in main

	// DispatchBufferSize is the capacity of the trigger queue behind
	// POST /trigger-processing. A full queue fails the dispatch.
	DispatchBufferSize int `koanf:"dispatch_buffer_size"`
}

func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server.port %d (must be 1-65535)", c.Server.Port)
	}
	if strings.TrimSpace(c.Server.Host) == "" {
		return fmt.Errorf("server.host is required")
	}
	if c.Server.MaxBodySizeMB <= 0 {
		return fmt.Errorf("server.max_body_size_mb must be > 0")
	}
	if c.Server.Mode != "debug" && c.Server.Mode != "release" {
		return fmt.Errorf("invalid server.mode %q (must be debug or release)", c.Server.Mode)
	}

	if strings.TrimSpace(c.Database.DSN) == "" {
		return fmt.Errorf("database.dsn is required")
	}
	if c.Database.MaxOpenConns <= 0 {
		return fmt.Errorf("database.max_open_conns must be > 0")
	}
	if c.Database.MaxIdleConns <= 0 {
		return fmt.Errorf("database.max_idle_conns must be > 0")
	}

	if c.Query.ScanLimit <= 0 {
		return fmt.Errorf("query.scan_limit must be > 0")
	}

	if strings.TrimSpace(c.ObjectStore.Root) == "" {
		return fmt.Errorf("object_store.root is required")
	}
	if strings.TrimSpace(c.ObjectStore.Bucket) == "" {
		return fmt.Errorf("object_store.bucket is required")
	}

	interval, err := time.ParseDuration(c.Aggregation.Interval)
	if err != nil {
		return fmt.Errorf("invalid aggregation.interval %q: %w", c.Aggregation.Interval, err)
	}
	if interval <= 0 {
		return fmt.Errorf("aggregation.interval must be > 0")
	}
	if c.Aggregation.DispatchBufferSize <= 0 {
		return fmt.Errorf("aggregation.dispatch_buffer_size must be > 0")
	}

	return nil
}

// Load loads the configuration from the given file path and environment
// variables. Precedence: defaults, then file, then SIGHTLINE_* env vars
// (SIGHTLINE_SERVER__PORT=9090 overrides server.port).
func Load(configPath string) (*Config, error) {
	k := koanf.New(".")

	// 1. Defaults
	defaults := map[string]interface{}{
		"server.port":                      8080,
		"server.host":                      "0.0.0.0",
		"server.max_body_size_mb":          1,
		"server.mode":                      "release",
		"database.dsn":                     "postgres://localhost:5432/sightline?sslmode=disable",
		"database.max_open_conns":          25,
		"database.max_idle_conns":          25,
		"database.auto_migrate":            true,
		"query.scan_limit":                 100,
		"object_store.root":                "./data/objects",
		"object_store.bucket":              "sightline-metrics",
		"aggregation.enabled":              false,
		"aggregation.interval":             "15m",
		"aggregation.dispatch_buffer_size": 16,
	}
	for key, value := range defaults {
		k.Set(key, value)
	}

	// 2. Load from file
	if configPath != "" {
		if err := k.Load(file.Provider(configPath), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file: %w", err)
		}
	}

	// 3. Load from environment variables
	if err := k.Load(env.Provider("SIGHTLINE_", ".", func(s string) string {
		return strings.Replace(strings.ToLower(
			strings.TrimPrefix(s, "SIGHTLINE_")), "__", ".", -1)
	}), nil); err != nil {
		return nil, fmt.Errorf("failed to load env vars: %w", err)
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}
