// Feedrank - Personalized Recommendation and Ranking Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/feedrank

package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"github.com/thejerf/suture/v4"

	"github.com/tomtom215/feedrank/internal/logging"
)

// Checkpointer flushes the store's write-ahead log. Satisfied by *database.DB.
type Checkpointer interface {
	Checkpoint(ctx context.Context) error
}

// maxCheckpointFailures is how many consecutive failed checkpoints the
// service tolerates before returning an error so suture restarts it.
const maxCheckpointFailures = 3

// CheckpointService periodically checkpoints the store.
//
// A final checkpoint runs on shutdown so the database file is compact when
// the process exits. A non-positive interval makes Serve return
// suture.ErrDoNotRestart immediately.
type CheckpointService struct {
	store    Checkpointer
	interval time.Duration
	timeout  time.Duration
	logger   zerolog.Logger
	name     string
}

// NewCheckpointService creates a checkpoint service for store.
func NewCheckpointService(store Checkpointer, interval time.Duration) *CheckpointService {
	return &CheckpointService{
		store:    store,
		interval: interval,
		timeout:  30 * time.Second,
		logger:   logging.WithComponent("checkpoint"),
		name:     "store-checkpoint",
	}
}

// Serve implements suture.Service.
func (s *CheckpointService) Serve(ctx context.Context) error {
	if s.interval <= 0 {
		s.logger.Debug().Msg("periodic checkpoint disabled")
		return suture.ErrDoNotRestart
	}

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	failures := 0
	for {
		select {
		case <-ctx.Done():
			// The serve context is already canceled.
			finalCtx, cancel := context.WithTimeout(context.Background(), s.timeout)
			err := s.store.Checkpoint(finalCtx)
			cancel()
			if err != nil {
				s.logger.Warn().Err(err).Msg("final checkpoint failed")
			}
			return ctx.Err()

		case <-ticker.C:
			if err := s.checkpoint(ctx); err != nil {
				if errors.Is(err, context.Canceled) {
					continue
				}
				failures++
				s.logger.Warn().Err(err).Int("consecutive_failures", failures).Msg("checkpoint failed")
				if failures >= maxCheckpointFailures {
					return fmt.Errorf("checkpoint failed %d times: %w", failures, err)
				}
				continue
			}
			failures = 0
		}
	}
}

func (s *CheckpointService) checkpoint(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	start := time.Now()
	if err := s.store.Checkpoint(ctx); err != nil {
		return err
	}
	s.logger.Debug().Dur("duration", time.Since(start)).Msg("checkpoint complete")
	return nil
}

// String implements fmt.Stringer for suture event logs.
func (s *CheckpointService) String() string {
	return s.name
}
