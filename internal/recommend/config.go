// Feedrank - Personalized Recommendation and Ranking Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/feedrank

package recommend

import (
	"fmt"
	"time"
)

// Config contains all configuration for the recommendation engine.
type Config struct {
	// DefaultLimit is used when a request passes a non-positive limit.
	DefaultLimit int `json:"default_limit"`

	// MaxLimit caps every request limit.
	MaxLimit int `json:"max_limit"`

	// PreferenceWindow bounds the watch history used for tag weights.
	PreferenceWindow time.Duration `json:"preference_window"`

	// TrendingWindow bounds the publish time of trending items.
	TrendingWindow time.Duration `json:"trending_window"`

	// FillerWindow restricts popularity filler to recently published items.
	// Zero disables the window.
	FillerWindow time.Duration `json:"filler_window"`

	// CandidateMultiplier sizes the tag-affinity pool relative to the number
	// of items still needed, leaving room for scoring to trim.
	CandidateMultiplier int `json:"candidate_multiplier"`

	// GenerationErrorPolicy controls failures during personalized generation.
	GenerationErrorPolicy ErrorPolicy `json:"generation_error_policy"`

	// Seed seeds the shuffle of related items. If zero, a fixed default seed is used.
	Seed int64 `json:"seed"`
}

// DefaultConfig returns a configuration with production defaults.
func DefaultConfig() *Config {
	return &Config{
		DefaultLimit:          20,
		MaxLimit:              100,
		PreferenceWindow:      30 * 24 * time.Hour,
		TrendingWindow:        7 * 24 * time.Hour,
		FillerWindow:          0,
		CandidateMultiplier:   2,
		GenerationErrorPolicy: PolicyDegrade,
		Seed:                  42,
	}
}

// Validate checks the configuration for consistency.
func (c *Config) Validate() error {
	if c.DefaultLimit < 1 {
		return fmt.Errorf("default_limit must be positive, got %d", c.DefaultLimit)
	}
	if c.MaxLimit < c.DefaultLimit {
		return fmt.Errorf("max_limit must be >= default_limit, got %d < %d", c.MaxLimit, c.DefaultLimit)
	}
	if c.PreferenceWindow <= 0 {
		return fmt.Errorf("preference_window must be positive, got %v", c.PreferenceWindow)
	}
	if c.TrendingWindow <= 0 {
		return fmt.Errorf("trending_window must be positive, got %v", c.TrendingWindow)
	}
	if c.FillerWindow < 0 {
		return fmt.Errorf("filler_window must be non-negative, got %v", c.FillerWindow)
	}
	if c.CandidateMultiplier < 1 {
		return fmt.Errorf("candidate_multiplier must be positive, got %d", c.CandidateMultiplier)
	}
	if !c.GenerationErrorPolicy.Valid() {
		return fmt.Errorf("generation_error_policy must be %q or %q, got %q",
			PolicyDegrade, PolicyPropagate, c.GenerationErrorPolicy)
	}
	return nil
}

// Clone returns a copy of the configuration.
func (c *Config) Clone() *Config {
	clone := *c
	return &clone
}

// clampLimit maps a requested limit into [1, MaxLimit].
func (c *Config) clampLimit(limit int) int {
	if limit <= 0 {
		limit = c.DefaultLimit
	}
	if limit > c.MaxLimit {
		limit = c.MaxLimit
	}
	return limit
}
