// Feedrank - Personalized Recommendation and Ranking Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/feedrank

package recommend

import (
	"context"
	"fmt"
	"sort"
	"time"
)

// TagPreferenceExtractor derives a viewer's tag weights from recent watches.
type TagPreferenceExtractor struct {
	history WatchHistoryStore
	window  time.Duration
	now     func() time.Time
}

// NewTagPreferenceExtractor creates an extractor reading history inside window.
func NewTagPreferenceExtractor(history WatchHistoryStore, window time.Duration) *TagPreferenceExtractor {
	return &TagPreferenceExtractor{
		history: history,
		window:  window,
		now:     time.Now,
	}
}

// Extract returns the viewer's tag weights sorted by descending weight, with
// ties broken by tag id. Each watch event counts once for every tag of the
// watched item. An empty history yields an empty vector.
func (x *TagPreferenceExtractor) Extract(ctx context.Context, viewerID string) (TagWeights, error) {
	since := x.now().Add(-x.window)

	entries, err := x.history.FindSince(ctx, viewerID, since)
	if err != nil {
		return nil, fmt.Errorf("failed to read watch history: %w", err)
	}

	return BuildTagWeights(entries, since), nil
}

// BuildTagWeights counts tags across entries watched at or after since.
func BuildTagWeights(entries []WatchHistoryEntry, since time.Time) TagWeights {
	counts := make(map[string]int)
	for i := range entries {
		if entries[i].WatchedAt.Before(since) {
			continue
		}
		for _, t := range entries[i].Tags {
			counts[t.ID]++
		}
	}

	weights := make(TagWeights, 0, len(counts))
	for id, n := range counts {
		weights = append(weights, TagWeight{TagID: id, Weight: n})
	}

	sort.Slice(weights, func(i, j int) bool {
		if weights[i].Weight != weights[j].Weight {
			return weights[i].Weight > weights[j].Weight
		}
		return weights[i].TagID < weights[j].TagID
	})

	return weights
}
