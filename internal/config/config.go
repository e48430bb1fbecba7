// Feedrank - Personalized Recommendation and Ranking Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/feedrank

package config

import (
	"fmt"
	"time"

	"github.com/tomtom215/feedrank/internal/recommend"
)

// Config holds all application configuration loaded from defaults, an
// optional config file and environment variables.
//
// Example - Load configuration:
//
//	cfg, err := config.Load()
//	if err != nil {
//	    log.Fatal("Failed to load config:", err)
//	}
//	db, err := database.New(&cfg.Database)
type Config struct {
	Database  DatabaseConfig  `koanf:"database"`
	Server    ServerConfig    `koanf:"server"`
	Logging   LoggingConfig   `koanf:"logging"`
	Recommend RecommendConfig `koanf:"recommend"`
}

// Database drivers.
const (
	DriverDuckDB   = "duckdb"
	DriverPostgres = "postgres"
)

// DatabaseConfig holds store connection settings.
type DatabaseConfig struct {
	// Driver is "duckdb" (embedded, default) or "postgres".
	Driver string `koanf:"driver"`

	// Path is the DuckDB file path. ":memory:" opens a private in-memory database.
	Path string `koanf:"path"`

	// DSN is the PostgreSQL connection string. Only used by the postgres driver.
	DSN string `koanf:"dsn"`

	MaxMemory              string `koanf:"max_memory"`
	Threads                int    `koanf:"threads"`                  // Number of DuckDB threads (0 = use NumCPU)
	PreserveInsertionOrder bool   `koanf:"preserve_insertion_order"` // Whether to preserve insertion order (default true)

	MaxOpenConns    int           `koanf:"max_open_conns"`
	MaxIdleConns    int           `koanf:"max_idle_conns"`
	ConnMaxLifetime time.Duration `koanf:"conn_max_lifetime"`

	SkipIndexes bool `koanf:"skip_indexes"` // Skip index creation (fast test setup)

	// CheckpointInterval is how often the server flushes the DuckDB WAL.
	// Zero disables the periodic checkpoint.
	CheckpointInterval time.Duration `koanf:"checkpoint_interval"`

	Breaker BreakerConfig `koanf:"breaker"`
}

// BreakerConfig configures the circuit breaker in front of the store.
type BreakerConfig struct {
	Enabled bool `koanf:"enabled"`

	// MaxRequests is the number of trial requests allowed while half-open.
	MaxRequests uint32 `koanf:"max_requests"`

	// Interval is the cyclic period of the closed state for clearing counts.
	Interval time.Duration `koanf:"interval"`

	// Timeout is how long the breaker stays open before going half-open.
	Timeout time.Duration `koanf:"timeout"`

	// FailureThreshold is the number of consecutive failures that trips the breaker.
	FailureThreshold uint32 `koanf:"failure_threshold"`
}

// ServerConfig holds HTTP server settings
type ServerConfig struct {
	Port            int           `koanf:"port"`
	Host            string        `koanf:"host"`
	Timeout         time.Duration `koanf:"timeout"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout"`

	RateLimitReqs     int           `koanf:"rate_limit_reqs"`
	RateLimitWindow   time.Duration `koanf:"rate_limit_window"`
	RateLimitDisabled bool          `koanf:"rate_limit_disabled"`
	CORSOrigins       []string      `koanf:"cors_origins"`
}

// Addr returns the listen address.
func (s ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	// Level is the minimum log level: trace, debug, info, warn, error.
	// Default: info
	Level string `koanf:"level"`

	// Format is the output format: json or console.
	// Default: json
	Format string `koanf:"format"`

	// Caller includes caller file and line number in logs.
	// Default: false
	Caller bool `koanf:"caller"`
}

// RecommendConfig holds recommendation engine settings.
//
// Environment Variables:
//   - RECOMMEND_DEFAULT_LIMIT: Limit used when a request passes none (default: 20)
//   - RECOMMEND_MAX_LIMIT: Upper bound for any request limit (default: 100)
//   - RECOMMEND_PREFERENCE_WINDOW: Watch history window for tag weights (default: 720h)
//   - RECOMMEND_TRENDING_WINDOW: Publish window for trending (default: 168h)
//   - RECOMMEND_FILLER_WINDOW: Publish window for popularity filler, 0 = unbounded (default: 0)
//   - RECOMMEND_CANDIDATE_MULTIPLIER: Tag-affinity over-fetch factor (default: 2)
//   - RECOMMEND_ERROR_POLICY: "degrade" or "propagate" (default: degrade)
//   - RECOMMEND_SEED: Shuffle seed for related items (default: 42)
//   - RECOMMEND_REQUEST_TIMEOUT: Per-request deadline applied by the API (default: 10s)
type RecommendConfig struct {
	DefaultLimit        int           `koanf:"default_limit"`
	MaxLimit            int           `koanf:"max_limit"`
	PreferenceWindow    time.Duration `koanf:"preference_window"`
	TrendingWindow      time.Duration `koanf:"trending_window"`
	FillerWindow        time.Duration `koanf:"filler_window"`
	CandidateMultiplier int           `koanf:"candidate_multiplier"`
	ErrorPolicy         string        `koanf:"error_policy"`
	Seed                int64         `koanf:"seed"`
	RequestTimeout      time.Duration `koanf:"request_timeout"`
}

// EngineConfig converts the loaded settings into an engine configuration.
func (r *RecommendConfig) EngineConfig() *recommend.Config {
	return &recommend.Config{
		DefaultLimit:          r.DefaultLimit,
		MaxLimit:              r.MaxLimit,
		PreferenceWindow:      r.PreferenceWindow,
		TrendingWindow:        r.TrendingWindow,
		FillerWindow:          r.FillerWindow,
		CandidateMultiplier:   r.CandidateMultiplier,
		GenerationErrorPolicy: recommend.ErrorPolicy(r.ErrorPolicy),
		Seed:                  r.Seed,
	}
}
