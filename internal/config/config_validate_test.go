// Feedrank - Personalized Recommendation and Ranking Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/feedrank

package config

import (
	"testing"
	"time"
)

func TestConfig_Validate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		modify  func(*Config)
		wantErr bool
	}{
		{"defaults", func(c *Config) {}, false},
		{"unknown driver", func(c *Config) { c.Database.Driver = "mysql" }, true},
		{"duckdb without path", func(c *Config) { c.Database.Path = " " }, true},
		{"postgres without dsn", func(c *Config) { c.Database.Driver = DriverPostgres }, true},
		{"postgres with dsn", func(c *Config) {
			c.Database.Driver = DriverPostgres
			c.Database.DSN = "postgres://localhost/feedrank"
		}, false},
		{"negative pool", func(c *Config) { c.Database.MaxOpenConns = -1 }, true},
		{"negative checkpoint interval", func(c *Config) { c.Database.CheckpointInterval = -time.Second }, true},
		{"breaker zero threshold", func(c *Config) { c.Database.Breaker.FailureThreshold = 0 }, true},
		{"breaker disabled ignores threshold", func(c *Config) {
			c.Database.Breaker.Enabled = false
			c.Database.Breaker.FailureThreshold = 0
		}, false},
		{"port out of range", func(c *Config) { c.Server.Port = 70000 }, true},
		{"zero rate limit", func(c *Config) { c.Server.RateLimitReqs = 0 }, true},
		{"rate limit disabled", func(c *Config) {
			c.Server.RateLimitDisabled = true
			c.Server.RateLimitReqs = 0
		}, false},
		{"unknown policy", func(c *Config) { c.Recommend.ErrorPolicy = "ignore" }, true},
		{"max below default", func(c *Config) { c.Recommend.MaxLimit = 1 }, true},
		{"negative request timeout", func(c *Config) { c.Recommend.RequestTimeout = -1 }, true},
		{"bad log level", func(c *Config) { c.Logging.Level = "verbose" }, true},
		{"bad log format", func(c *Config) { c.Logging.Format = "xml" }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			cfg := defaultConfig()
			tt.modify(cfg)
			if err := cfg.Validate(); (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestServerConfig_Addr(t *testing.T) {
	t.Parallel()

	s := ServerConfig{Host: "127.0.0.1", Port: 8080}
	if got := s.Addr(); got != "127.0.0.1:8080" {
		t.Errorf("Addr() = %q", got)
	}
}
