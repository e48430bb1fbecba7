// Feedrank - Personalized Recommendation and Ranking Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/feedrank

package metrics

import (
	"strconv"
	"time"

	"github.com/tomtom215/feedrank/internal/recommend"
)

// Observer records engine events into the package collectors.
type Observer struct{}

var _ recommend.Observer = Observer{}

// NewObserver returns an engine observer backed by the default registry.
func NewObserver() Observer {
	return Observer{}
}

// ObserveRequest records one finished request.
func (Observer) ObserveRequest(surface, outcome string, elapsed time.Duration) {
	RecommendationRequests.WithLabelValues(surface, outcome).Inc()
	RecommendationDuration.WithLabelValues(surface).Observe(elapsed.Seconds())
}

// ObserveCache records whether persisted recommendations filled a request.
func (Observer) ObserveCache(hit bool) {
	result := "miss"
	if hit {
		result = "hit"
	}
	CacheLookups.WithLabelValues(result).Inc()
}

// ObserveGenerated records newly persisted recommendations.
func (Observer) ObserveGenerated(reason recommend.Reason, count int) {
	if count <= 0 {
		return
	}
	RecommendationsGenerated.WithLabelValues(string(reason)).Add(float64(count))
}

// ObserveGenerationFailure records a degraded or propagated generation failure.
func (Observer) ObserveGenerationFailure(stage string) {
	GenerationFailures.WithLabelValues(stage).Inc()
}

// ObserveClick records a click report.
func (Observer) ObserveClick(matched bool) {
	RecommendationClicks.WithLabelValues(strconv.FormatBool(matched)).Inc()
}
