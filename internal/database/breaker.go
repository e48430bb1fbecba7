// Feedrank - Personalized Recommendation and Ranking Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/feedrank

package database

import (
	"context"
	"errors"
	"fmt"
	"time"

	gobreaker "github.com/sony/gobreaker/v2"

	"github.com/tomtom215/feedrank/internal/config"
	"github.com/tomtom215/feedrank/internal/logging"
	"github.com/tomtom215/feedrank/internal/metrics"
	"github.com/tomtom215/feedrank/internal/recommend"
)

// storeBackend is everything the engine reads from and writes to.
type storeBackend interface {
	recommend.ContentStore
	recommend.WatchHistoryStore
	recommend.ViewerStore
	recommend.RecommendationStore
}

// GuardedStore wraps a store backend with circuit breaker protection.
// Missing rows, caller cancellation and request deadlines are not counted as
// failures.
//
// The breaker uses real time for its interval and timeout. Tests drive it by
// failing the wrapped backend, not by mocking the clock.
type GuardedStore struct {
	backend storeBackend
	cb      *gobreaker.CircuitBreaker[interface{}]
	name    string
}

var (
	_ recommend.ContentStore        = (*GuardedStore)(nil)
	_ recommend.WatchHistoryStore   = (*GuardedStore)(nil)
	_ recommend.ViewerStore         = (*GuardedStore)(nil)
	_ recommend.RecommendationStore = (*GuardedStore)(nil)
)

// NewGuardedStore wraps backend. A disabled breaker passes every call through.
func NewGuardedStore(backend storeBackend, cfg config.BreakerConfig) *GuardedStore {
	g := &GuardedStore{backend: backend, name: "store"}
	if !cfg.Enabled {
		return g
	}

	threshold := cfg.FailureThreshold
	if threshold == 0 {
		threshold = 5
	}

	metrics.CircuitBreakerState.WithLabelValues(g.name).Set(0)

	g.cb = gobreaker.NewCircuitBreaker[interface{}](gobreaker.Settings{
		Name:        g.name,
		MaxRequests: cfg.MaxRequests,
		Interval:    cfg.Interval,
		Timeout:     cfg.Timeout,

		ReadyToTrip: func(counts gobreaker.Counts) bool {
			shouldTrip := counts.ConsecutiveFailures >= threshold
			if shouldTrip {
				logging.Warn().Uint32("consecutive_failures", counts.ConsecutiveFailures).Msg("[CIRCUIT BREAKER] Opening circuit")
			}
			return shouldTrip
		},

		IsSuccessful: func(err error) bool {
			return err == nil ||
				errors.Is(err, recommend.ErrNotFound) ||
				errors.Is(err, context.Canceled) ||
				errors.Is(err, context.DeadlineExceeded)
		},

		OnStateChange: func(name string, from, to gobreaker.State) {
			fromStr := stateToString(from)
			toStr := stateToString(to)

			logging.Info().Str("breaker", name).Str("from", fromStr).Str("to", toStr).Msg("[CIRCUIT BREAKER] State transition")

			metrics.CircuitBreakerState.WithLabelValues(name).Set(stateToFloat(to))
			metrics.CircuitBreakerTransitions.WithLabelValues(name, fromStr, toStr).Inc()
		},
	})
	return g
}

// Stores returns the engine collaborators backed by this guarded store.
func (g *GuardedStore) Stores() recommend.Stores {
	return recommend.Stores{
		Content:         g,
		WatchHistory:    g,
		Viewers:         g,
		Recommendations: g,
	}
}

// State reports the breaker state, "disabled" when there is none.
func (g *GuardedStore) State() string {
	if g.cb == nil {
		return "disabled"
	}
	return stateToString(g.cb.State())
}

// guarded runs fn through the breaker and casts its result back to T.
func guarded[T any](g *GuardedStore, fn func() (T, error)) (T, error) {
	if g.cb == nil {
		return fn()
	}

	var zero T
	result, err := g.cb.Execute(func() (interface{}, error) {
		return fn()
	})
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			metrics.CircuitBreakerRequests.WithLabelValues(g.name, "rejected").Inc()
			logging.Warn().Err(err).Msg("[CIRCUIT BREAKER] Request rejected")
			return zero, fmt.Errorf("%w: %w", ErrStoreUnavailable, err)
		}
		metrics.CircuitBreakerRequests.WithLabelValues(g.name, "failure").Inc()
		return zero, err
	}

	metrics.CircuitBreakerRequests.WithLabelValues(g.name, "success").Inc()
	typed, ok := result.(T)
	if !ok && result != nil {
		return zero, fmt.Errorf("circuit breaker: unexpected result type %T", result)
	}
	return typed, nil
}

// stateToFloat converts circuit breaker state to numeric value for metrics
func stateToFloat(state gobreaker.State) float64 {
	switch state {
	case gobreaker.StateClosed:
		return 0
	case gobreaker.StateHalfOpen:
		return 1
	case gobreaker.StateOpen:
		return 2
	default:
		return -1
	}
}

// stateToString converts circuit breaker state to string for logging
func stateToString(state gobreaker.State) string {
	switch state {
	case gobreaker.StateClosed:
		return "closed"
	case gobreaker.StateHalfOpen:
		return "half-open"
	case gobreaker.StateOpen:
		return "open"
	default:
		return "unknown"
	}
}

func (g *GuardedStore) Find(ctx context.Context, q recommend.ContentQuery) ([]recommend.ContentItem, error) {
	return guarded(g, func() ([]recommend.ContentItem, error) {
		return g.backend.Find(ctx, q)
	})
}

func (g *GuardedStore) Get(ctx context.Context, id string) (*recommend.ContentItem, error) {
	return guarded(g, func() (*recommend.ContentItem, error) {
		return g.backend.Get(ctx, id)
	})
}

func (g *GuardedStore) FindSince(ctx context.Context, viewerID string, since time.Time) ([]recommend.WatchHistoryEntry, error) {
	return guarded(g, func() ([]recommend.WatchHistoryEntry, error) {
		return g.backend.FindSince(ctx, viewerID, since)
	})
}

func (g *GuardedStore) WatchedItemIDs(ctx context.Context, viewerID string) ([]string, error) {
	return guarded(g, func() ([]string, error) {
		return g.backend.WatchedItemIDs(ctx, viewerID)
	})
}

func (g *GuardedStore) Exists(ctx context.Context, viewerID string) (bool, error) {
	return guarded(g, func() (bool, error) {
		return g.backend.Exists(ctx, viewerID)
	})
}

func (g *GuardedStore) GetCached(ctx context.Context, viewerID string, limit int) ([]recommend.Record, error) {
	return guarded(g, func() ([]recommend.Record, error) {
		return g.backend.GetCached(ctx, viewerID, limit)
	})
}

func (g *GuardedStore) RecommendedItemIDs(ctx context.Context, viewerID string) ([]string, error) {
	return guarded(g, func() ([]string, error) {
		return g.backend.RecommendedItemIDs(ctx, viewerID)
	})
}

func (g *GuardedStore) PersistBatch(ctx context.Context, records []recommend.Record) ([]recommend.Record, error) {
	return guarded(g, func() ([]recommend.Record, error) {
		return g.backend.PersistBatch(ctx, records)
	})
}

func (g *GuardedStore) MarkClicked(ctx context.Context, viewerID, itemID string) (int64, error) {
	return guarded(g, func() (int64, error) {
		return g.backend.MarkClicked(ctx, viewerID, itemID)
	})
}

func (g *GuardedStore) Stats(ctx context.Context, viewerID string) (*recommend.Stats, error) {
	return guarded(g, func() (*recommend.Stats, error) {
		return g.backend.Stats(ctx, viewerID)
	})
}
