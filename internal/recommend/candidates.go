// Feedrank - Personalized Recommendation and Ranking Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/feedrank

package recommend

import (
	"context"
	"fmt"
	"time"
)

// CandidateGenerator produces candidate pools from the content store.
// Every pool excludes the given exclusion set, and related pools never
// contain the source item.
type CandidateGenerator struct {
	content    ContentStore
	multiplier int
	now        func() time.Time
}

// NewCandidateGenerator creates a generator. multiplier sizes the tag-affinity
// pool relative to the requested count.
func NewCandidateGenerator(content ContentStore, multiplier int) *CandidateGenerator {
	if multiplier < 1 {
		multiplier = 1
	}
	return &CandidateGenerator{
		content:    content,
		multiplier: multiplier,
		now:        time.Now,
	}
}

// TagAffinity returns unseen items matching any weighted tag, newest first,
// capped at multiplier*requested.
func (g *CandidateGenerator) TagAffinity(ctx context.Context, weights TagWeights, exclude ExclusionSet, requested int) ([]Candidate, error) {
	if len(weights) == 0 || requested <= 0 {
		return nil, nil
	}
	q := TagAffinityQuery(weights.TagIDs(), exclude, requested*g.multiplier)
	return g.find(ctx, q, exclude, ReasonWatchHistory)
}

// Popular returns unseen items by view count then like count. A positive
// window restricts the pool to items published inside it.
func (g *CandidateGenerator) Popular(ctx context.Context, exclude ExclusionSet, window time.Duration, limit int) ([]Candidate, error) {
	if limit <= 0 {
		return nil, nil
	}
	var since *time.Time
	if window > 0 {
		t := g.now().Add(-window)
		since = &t
	}
	return g.find(ctx, PopularityQuery(exclude, since, limit), exclude, ReasonPopular)
}

// SameCreator returns other items by the source item's creator.
func (g *CandidateGenerator) SameCreator(ctx context.Context, source *ContentItem, exclude ExclusionSet, limit int) ([]Candidate, error) {
	if limit <= 0 || source.CreatorID == "" {
		return nil, nil
	}
	return g.find(ctx, SameCreatorQuery(source, exclude, limit), exclude.With(source.ID), ReasonSameCreator)
}

// SimilarTags returns items sharing a tag with the source item from other creators.
func (g *CandidateGenerator) SimilarTags(ctx context.Context, source *ContentItem, exclude ExclusionSet, limit int) ([]Candidate, error) {
	if limit <= 0 || len(source.Tags) == 0 {
		return nil, nil
	}
	pool, err := g.find(ctx, SimilarTagsQuery(source, exclude, limit), exclude.With(source.ID), ReasonSimilarContent)
	if err != nil {
		return nil, err
	}

	out := pool[:0]
	for _, c := range pool {
		if source.CreatorID != "" && c.Item.CreatorID == source.CreatorID {
			continue
		}
		out = append(out, c)
	}
	return out, nil
}

// find runs a query and re-applies the exclusion set to what the store returned.
func (g *CandidateGenerator) find(ctx context.Context, q ContentQuery, exclude ExclusionSet, reason Reason) ([]Candidate, error) {
	if q.Empty() {
		return nil, nil
	}

	items, err := g.content.Find(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("failed to query %s candidates: %w", reason, err)
	}

	pool := make([]Candidate, 0, len(items))
	for i := range items {
		pool = append(pool, Candidate{Item: items[i], Reason: reason})
	}
	return truncate(Exclude(pool, exclude), q.Limit), nil
}
