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

// TrendingProvider ranks recently published items by raw popularity.
// It is global: no personalization and no exclusion set.
type TrendingProvider struct {
	content ContentStore
	window  time.Duration
	now     func() time.Time
}

// NewTrendingProvider creates a provider over the trailing window.
func NewTrendingProvider(content ContentStore, window time.Duration) *TrendingProvider {
	return &TrendingProvider{
		content: content,
		window:  window,
		now:     time.Now,
	}
}

// Trending returns up to limit items published inside the window, ordered by
// view count then like count, both descending.
func (p *TrendingProvider) Trending(ctx context.Context, limit int) ([]Candidate, error) {
	if limit <= 0 {
		return nil, nil
	}

	items, err := p.content.Find(ctx, TrendingQuery(p.now().Add(-p.window), limit))
	if err != nil {
		return nil, fmt.Errorf("failed to query trending items: %w", err)
	}

	pool := make([]Candidate, 0, len(items))
	for i := range items {
		pool = append(pool, Candidate{Item: items[i], Reason: ReasonTrending})
	}
	pool = Exclude(pool, nil)
	sortByPopularity(pool)

	return truncate(pool, limit), nil
}

// sortByPopularity orders by view count then like count, both descending.
func sortByPopularity(pool []Candidate) {
	sort.SliceStable(pool, func(i, j int) bool {
		a, b := &pool[i].Item, &pool[j].Item
		if a.ViewCount != b.ViewCount {
			return a.ViewCount > b.ViewCount
		}
		return a.LikeCount > b.LikeCount
	})
}
