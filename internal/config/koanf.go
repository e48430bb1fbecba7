// Feedrank - Personalized Recommendation and Ranking Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/feedrank

package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"

	"github.com/tomtom215/feedrank/internal/recommend"
)

// DefaultConfigPaths lists the paths where config files are searched in order of priority.
// The first file found will be used.
var DefaultConfigPaths = []string{
	"config.yaml",
	"config.yml",
	"/etc/feedrank/config.yaml",
	"/etc/feedrank/config.yml",
}

// ConfigPathEnvVar is the environment variable that can override the config file path.
const ConfigPathEnvVar = "CONFIG_PATH"

// DotEnvFile is the optional dotenv file read before the environment layer.
const DotEnvFile = ".env"

// defaultConfig returns a Config struct with all sensible default values.
// These defaults are applied first, then overridden by config file and env vars.
func defaultConfig() *Config {
	engine := recommend.DefaultConfig()

	return &Config{
		Database: DatabaseConfig{
			Driver:                 DriverDuckDB,
			Path:                   "/data/feedrank.duckdb",
			MaxMemory:              "1GB",
			Threads:                0, // 0 = use runtime.NumCPU()
			PreserveInsertionOrder: true,
			MaxOpenConns:           0, // 0 = driver-specific default
			MaxIdleConns:           0,
			ConnMaxLifetime:        time.Hour,
			CheckpointInterval:     5 * time.Minute,
			Breaker: BreakerConfig{
				Enabled:          true,
				MaxRequests:      3,
				Interval:         time.Minute,
				Timeout:          30 * time.Second,
				FailureThreshold: 5,
			},
		},
		Server: ServerConfig{
			Port:              8080,
			Host:              "0.0.0.0",
			Timeout:           30 * time.Second,
			ShutdownTimeout:   15 * time.Second,
			RateLimitReqs:     100,
			RateLimitWindow:   time.Minute,
			RateLimitDisabled: false,
			CORSOrigins:       []string{"*"},
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
			Caller: false,
		},
		Recommend: RecommendConfig{
			DefaultLimit:        engine.DefaultLimit,
			MaxLimit:            engine.MaxLimit,
			PreferenceWindow:    engine.PreferenceWindow,
			TrendingWindow:      engine.TrendingWindow,
			FillerWindow:        engine.FillerWindow,
			CandidateMultiplier: engine.CandidateMultiplier,
			ErrorPolicy:         string(engine.GenerationErrorPolicy),
			Seed:                engine.Seed,
			RequestTimeout:      10 * time.Second,
		},
	}
}

// Load loads configuration using Koanf v2 with layered sources:
//  1. Defaults: Built-in sensible defaults
//  2. Config File: Optional YAML config file (if exists)
//  3. Environment Variables: Override any setting, including values from .env
func Load() (*Config, error) {
	if err := loadDotEnv(DotEnvFile); err != nil {
		return nil, err
	}

	k := koanf.New(".")

	// Layer 1: Load defaults from struct
	if err := k.Load(structs.Provider(defaultConfig(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	// Layer 2: Load config file (optional)
	if configPath := findConfigFile(); configPath != "" {
		if err := k.Load(file.Provider(configPath), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
		}
	}

	// Layer 3: Load environment variables (highest priority)
	if err := k.Load(env.Provider("", ".", envTransformFunc), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	if err := processSliceFields(k); err != nil {
		return nil, fmt.Errorf("failed to process slice fields: %w", err)
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// loadDotEnv reads path into the process environment without overriding
// variables that are already set. A missing file is not an error.
func loadDotEnv(path string) error {
	if err := godotenv.Load(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("failed to load %s: %w", path, err)
	}
	return nil
}

// findConfigFile searches for a config file in the default paths.
// Returns the path to the first file found, or empty string if none found.
func findConfigFile() string {
	if envPath := os.Getenv(ConfigPathEnvVar); envPath != "" {
		if _, err := os.Stat(envPath); err == nil {
			return envPath
		}
	}

	for _, path := range DefaultConfigPaths {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}

	return ""
}

// sliceConfigPaths defines which config paths should be parsed as comma-separated slices
var sliceConfigPaths = []string{
	"server.cors_origins",
}

// processSliceFields converts comma-separated string values to slices for known slice fields.
// Env vars come in as strings, but the config expects slices.
func processSliceFields(k *koanf.Koanf) error {
	for _, path := range sliceConfigPaths {
		strVal, ok := k.Get(path).(string)
		if !ok || strVal == "" {
			continue
		}

		parts := strings.Split(strVal, ",")
		trimmed := make([]string, 0, len(parts))
		for _, p := range parts {
			if p = strings.TrimSpace(p); p != "" {
				trimmed = append(trimmed, p)
			}
		}
		if len(trimmed) > 0 {
			if err := k.Set(path, trimmed); err != nil {
				return fmt.Errorf("failed to set %s: %w", path, err)
			}
		}
	}
	return nil
}

// envMappings maps lower-cased environment variable names to koanf paths.
var envMappings = map[string]string{
	// Database
	"database_driver":            "database.driver",
	"duckdb_path":                "database.path",
	"database_path":              "database.path",
	"database_dsn":               "database.dsn",
	"duckdb_max_memory":          "database.max_memory",
	"duckdb_threads":             "database.threads",
	"database_max_open_conns":    "database.max_open_conns",
	"database_max_idle_conns":    "database.max_idle_conns",
	"database_conn_max_lifetime": "database.conn_max_lifetime",
	"database_skip_indexes":      "database.skip_indexes",
	"duckdb_checkpoint_interval": "database.checkpoint_interval",

	// Store circuit breaker
	"breaker_enabled":           "database.breaker.enabled",
	"breaker_max_requests":      "database.breaker.max_requests",
	"breaker_interval":          "database.breaker.interval",
	"breaker_timeout":           "database.breaker.timeout",
	"breaker_failure_threshold": "database.breaker.failure_threshold",

	// Server
	"http_host":             "server.host",
	"http_port":             "server.port",
	"http_timeout":          "server.timeout",
	"http_shutdown_timeout": "server.shutdown_timeout",
	"rate_limit_requests":   "server.rate_limit_reqs",
	"rate_limit_window":     "server.rate_limit_window",
	"disable_rate_limit":    "server.rate_limit_disabled",
	"cors_origins":          "server.cors_origins",

	// Logging
	"log_level":  "logging.level",
	"log_format": "logging.format",
	"log_caller": "logging.caller",

	// Recommendation engine
	"recommend_default_limit":        "recommend.default_limit",
	"recommend_max_limit":            "recommend.max_limit",
	"recommend_preference_window":    "recommend.preference_window",
	"recommend_trending_window":      "recommend.trending_window",
	"recommend_filler_window":        "recommend.filler_window",
	"recommend_candidate_multiplier": "recommend.candidate_multiplier",
	"recommend_error_policy":         "recommend.error_policy",
	"recommend_seed":                 "recommend.seed",
	"recommend_request_timeout":      "recommend.request_timeout",
}

// envTransformFunc transforms environment variable names to koanf config paths.
//
// Examples:
//   - DATABASE_DRIVER -> database.driver
//   - HTTP_PORT -> server.port
//   - RECOMMEND_ERROR_POLICY -> recommend.error_policy
func envTransformFunc(key string) string {
	if mapped, ok := envMappings[strings.ToLower(key)]; ok {
		return mapped
	}
	// Unmapped keys are skipped so unrelated variables never pollute config
	return ""
}
