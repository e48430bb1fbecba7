// Feedrank - Personalized Recommendation and Ranking Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/feedrank

package main

import (
	"fmt"
	"os"
	"strings"
	"sync"

	"github.com/tomtom215/feedrank/internal/config"
	"github.com/tomtom215/feedrank/internal/database"
	"github.com/tomtom215/feedrank/internal/logging"
	"github.com/tomtom215/feedrank/internal/recommend"
)

type globalFlags struct {
	configPath string
	dbPath     string
	json       bool
}

// commandContext loads configuration once per invocation.
type commandContext struct {
	flags *globalFlags

	configOnce sync.Once
	config     *config.Config
	configErr  error
}

func newCommandContext(flags *globalFlags) *commandContext {
	return &commandContext{flags: flags}
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		if path := strings.TrimSpace(c.flags.configPath); path != "" {
			if _, err := os.Stat(path); err != nil {
				c.configErr = fmt.Errorf("config file: %w", err)
				return
			}
			if err := os.Setenv(config.ConfigPathEnvVar, path); err != nil {
				c.configErr = err
				return
			}
		}

		cfg, err := config.Load()
		if err != nil {
			c.configErr = err
			return
		}
		if path := strings.TrimSpace(c.flags.dbPath); path != "" {
			cfg.Database.Driver = config.DriverDuckDB
			cfg.Database.Path = path
		}

		// Keep table output readable; only warnings reach stderr.
		level := cfg.Logging.Level
		if level == "info" || level == "debug" || level == "trace" {
			level = "warn"
		}
		logging.Init(logging.Config{Level: level, Format: "console"})

		c.config = cfg
	})
	return c.config, c.configErr
}

// withStore opens the configured database for the duration of fn.
func (c *commandContext) withStore(fn func(*database.DB) error) error {
	cfg, err := c.ensureConfig()
	if err != nil {
		return err
	}
	db, err := database.New(&cfg.Database)
	if err != nil {
		return err
	}
	defer func() {
		if err := db.Close(); err != nil {
			logging.Warn().Err(err).Msg("Error closing database")
		}
	}()
	return fn(db)
}

// withEngine builds an engine over the store, guarded like the server.
func (c *commandContext) withEngine(fn func(*recommend.Engine) error) error {
	return c.withStore(func(db *database.DB) error {
		guarded := database.NewGuardedStore(db, c.config.Database.Breaker)
		engine, err := recommend.NewEngine(c.config.Recommend.EngineConfig(), guarded.Stores(), logging.WithComponent("recommend"))
		if err != nil {
			return err
		}
		return fn(engine)
	})
}
