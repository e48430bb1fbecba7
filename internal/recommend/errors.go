// Feedrank - Personalized Recommendation and Ranking Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/feedrank

package recommend

import (
	"context"
	"errors"
	"fmt"
)

// ErrNotFound is returned when a viewer or source item does not exist.
var ErrNotFound = errors.New("not found")

// Generation stages reported by GenerationError.
const (
	StageExclusion   = "exclusion"
	StagePreferences = "preferences"
	StageTagAffinity = "tag_affinity"
	StageBackfill    = "backfill"
	StagePersist     = "persist"
)

// GenerationError wraps a failure inside candidate generation, scoring or
// persistence of a personalized request.
type GenerationError struct {
	Stage string
	Err   error
}

func (e *GenerationError) Error() string {
	return fmt.Sprintf("generation failed at %s: %v", e.Stage, e.Err)
}

func (e *GenerationError) Unwrap() error {
	return e.Err
}

func generationError(stage string, err error) error {
	return &GenerationError{Stage: stage, Err: err}
}

// ErrorPolicy decides what a personalized request does with a GenerationError.
//
// Top-level reads (trending, cached lookup, click marking) always propagate
// store errors. That policy is fixed and is not configurable.
type ErrorPolicy string

const (
	// PolicyDegrade treats a generation failure as zero additional items.
	PolicyDegrade ErrorPolicy = "degrade"
	// PolicyPropagate fails the request on a generation failure.
	PolicyPropagate ErrorPolicy = "propagate"
)

// Valid reports whether p names a known policy.
func (p ErrorPolicy) Valid() bool {
	return p == PolicyDegrade || p == PolicyPropagate
}

// isCancellation reports whether err stems from the caller's context.
// Cancellation is never degraded.
func isCancellation(ctx context.Context, err error) bool {
	if ctx.Err() != nil {
		return true
	}
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}

func errMissingStore(name string) error {
	return fmt.Errorf("%s store is required", name)
}
