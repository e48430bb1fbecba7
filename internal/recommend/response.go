// Feedrank - Personalized Recommendation and Ranking Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/feedrank

package recommend

import (
	"errors"
	"time"
)

// Surfaces served by the engine.
const (
	SurfaceHome         = "home"
	SurfacePersonalized = "personalized"
	SurfaceTrending     = "trending"
	SurfaceRelated      = "related"
)

// Request outcomes reported to the Observer.
const (
	outcomeOK       = "ok"
	outcomeNotFound = "not_found"
	outcomeInvalid  = "invalid"
	outcomeError    = "error"
)

// Response is the result of a recommendation request.
type Response struct {
	Items    []RecommendedItem `json:"items"`
	Metadata ResponseMetadata  `json:"metadata"`
}

// ResponseMetadata describes how a response was assembled.
type ResponseMetadata struct {
	Surface  string `json:"surface"`
	ViewerID string `json:"viewerId,omitempty"`
	SourceID string `json:"sourceId,omitempty"`
	Count    int    `json:"count"`

	// Cached counts items served from stored recommendations.
	Cached int `json:"cached"`

	// Generated counts items produced by this request.
	Generated int `json:"generated"`

	// Degraded is set when a generation failure was absorbed.
	Degraded bool `json:"degraded"`

	// Fallback is set when trending items replaced an empty personalized feed.
	Fallback bool `json:"fallback"`

	GeneratedAt time.Time `json:"generatedAt"`
}

// ToRecommendedItem formats a candidate into the response shape.
func ToRecommendedItem(c *Candidate) RecommendedItem {
	tags := make([]Tag, len(c.Item.Tags))
	copy(tags, c.Item.Tags)

	return RecommendedItem{
		ID:                   c.Item.ID,
		Title:                c.Item.Title,
		Description:          c.Item.Description,
		ThumbnailURL:         c.Item.ThumbnailURL,
		DurationSeconds:      c.Item.DurationSeconds,
		Views:                c.Item.ViewCount,
		Likes:                c.Item.LikeCount,
		PublishedAt:          c.Item.PublishedAt,
		CreatedAt:            c.Item.CreatedAt,
		Creator:              c.Item.Creator,
		Tags:                 tags,
		RecommendationReason: c.Reason,
	}
}

// Observer receives engine events for metrics collection.
type Observer interface {
	ObserveRequest(surface, outcome string, elapsed time.Duration)
	ObserveCache(hit bool)
	ObserveGenerated(reason Reason, count int)
	ObserveGenerationFailure(stage string)
	ObserveClick(matched bool)
}

type nopObserver struct{}

func (nopObserver) ObserveRequest(string, string, time.Duration) {}
func (nopObserver) ObserveCache(bool)                            {}
func (nopObserver) ObserveGenerated(Reason, int)                 {}
func (nopObserver) ObserveGenerationFailure(string)              {}
func (nopObserver) ObserveClick(bool)                            {}

func outcomeFor(err error) string {
	switch {
	case err == nil:
		return outcomeOK
	case errors.Is(err, ErrNotFound):
		return outcomeNotFound
	case errors.Is(err, ErrInvalidRequest):
		return outcomeInvalid
	default:
		return outcomeError
	}
}
