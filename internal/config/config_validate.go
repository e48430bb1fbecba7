// Feedrank - Personalized Recommendation and Ranking Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/feedrank

package config

import (
	"fmt"
	"strings"
)

var validLogLevels = map[string]bool{
	"trace": true,
	"debug": true,
	"info":  true,
	"warn":  true,
	"error": true,
}

var validLogFormats = map[string]bool{
	"json":    true,
	"console": true,
}

// Validate checks that required configuration is present and valid
func (c *Config) Validate() error {
	if err := c.validateDatabase(); err != nil {
		return err
	}

	if err := c.validateServer(); err != nil {
		return err
	}

	if err := c.validateRecommend(); err != nil {
		return err
	}

	return c.validateLogging()
}

// validateDatabase validates driver selection and driver-specific settings
func (c *Config) validateDatabase() error {
	switch c.Database.Driver {
	case DriverDuckDB:
		if strings.TrimSpace(c.Database.Path) == "" {
			return fmt.Errorf("DUCKDB_PATH is required when DATABASE_DRIVER is duckdb")
		}
	case DriverPostgres:
		if strings.TrimSpace(c.Database.DSN) == "" {
			return fmt.Errorf("DATABASE_DSN is required when DATABASE_DRIVER is postgres")
		}
	default:
		return fmt.Errorf("DATABASE_DRIVER must be one of: duckdb, postgres (got %q)", c.Database.Driver)
	}

	if c.Database.MaxOpenConns < 0 || c.Database.MaxIdleConns < 0 {
		return fmt.Errorf("database connection pool sizes must be non-negative")
	}
	if c.Database.CheckpointInterval < 0 {
		return fmt.Errorf("DUCKDB_CHECKPOINT_INTERVAL must be non-negative")
	}

	b := c.Database.Breaker
	if b.Enabled {
		if b.FailureThreshold == 0 {
			return fmt.Errorf("BREAKER_FAILURE_THRESHOLD must be at least 1")
		}
		if b.Timeout <= 0 {
			return fmt.Errorf("BREAKER_TIMEOUT must be positive")
		}
	}
	return nil
}

// validateServer validates server configuration
func (c *Config) validateServer() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("HTTP_PORT must be between 1 and 65535")
	}
	if c.Server.Timeout <= 0 {
		return fmt.Errorf("HTTP_TIMEOUT must be positive")
	}
	if !c.Server.RateLimitDisabled {
		if c.Server.RateLimitReqs < 1 {
			return fmt.Errorf("RATE_LIMIT_REQUESTS must be at least 1")
		}
		if c.Server.RateLimitWindow <= 0 {
			return fmt.Errorf("RATE_LIMIT_WINDOW must be positive")
		}
	}
	return nil
}

// validateRecommend delegates limit and window checks to the engine config
func (c *Config) validateRecommend() error {
	if err := c.Recommend.EngineConfig().Validate(); err != nil {
		return fmt.Errorf("recommend: %w", err)
	}
	if c.Recommend.RequestTimeout < 0 {
		return fmt.Errorf("RECOMMEND_REQUEST_TIMEOUT must be non-negative")
	}
	return nil
}

// validateLogging validates log level and format
func (c *Config) validateLogging() error {
	if !validLogLevels[c.Logging.Level] {
		return fmt.Errorf("LOG_LEVEL must be one of: trace, debug, info, warn, error")
	}
	if c.Logging.Format != "" && !validLogFormats[c.Logging.Format] {
		return fmt.Errorf("LOG_FORMAT must be one of: json, console")
	}
	return nil
}
