// Feedrank - Personalized Recommendation and Ranking Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/feedrank

package recommend

import (
	"context"
	"fmt"
)

// RelatedItemComposer blends same-creator, same-tag and popularity items for
// a source item and shuffles the blend for presentation.
type RelatedItemComposer struct {
	generator *CandidateGenerator
	rnd       RandSource
}

// NewRelatedItemComposer creates a composer using rnd for the shuffle.
func NewRelatedItemComposer(generator *CandidateGenerator, rnd RandSource) *RelatedItemComposer {
	return &RelatedItemComposer{
		generator: generator,
		rnd:       rnd,
	}
}

// RelatedResult is the outcome of one composition.
type RelatedResult struct {
	// Items is the shuffled blend of all partitions.
	Items []Candidate

	// Partition sizes before shuffling.
	SameCreator    int
	SimilarContent int
	Filler         int
}

// SimilarContentItems returns the items that came from the same-tag partition.
func (r *RelatedResult) SimilarContentItems() []Candidate {
	out := make([]Candidate, 0, r.SimilarContent)
	for _, c := range r.Items {
		if c.Reason == ReasonSimilarContent {
			out = append(out, c)
		}
	}
	return out
}

// Compose builds up to limit related items for source.
//
// The same-creator and same-tag partitions each take at most limit/3 items.
// Popularity filler takes the remainder. The source item and everything in
// exclude are left out of every partition, and no item lands in two partitions.
func (c *RelatedItemComposer) Compose(ctx context.Context, source *ContentItem, exclude ExclusionSet, limit int) (*RelatedResult, error) {
	if limit <= 0 {
		return &RelatedResult{}, nil
	}

	share := limit / 3
	taken := exclude.With(source.ID)

	sameCreator, err := c.generator.SameCreator(ctx, source, taken, share)
	if err != nil {
		return nil, fmt.Errorf("failed to build same-creator partition: %w", err)
	}
	taken.Add(candidateIDs(sameCreator)...)

	similar, err := c.generator.SimilarTags(ctx, source, taken, share)
	if err != nil {
		return nil, fmt.Errorf("failed to build similar-content partition: %w", err)
	}
	taken.Add(candidateIDs(similar)...)

	remainder := limit - len(sameCreator) - len(similar)
	if remainder < 0 {
		remainder = 0
	}

	filler, err := c.generator.Popular(ctx, taken, 0, remainder)
	if err != nil {
		return nil, fmt.Errorf("failed to build filler partition: %w", err)
	}

	items := make([]Candidate, 0, len(sameCreator)+len(similar)+len(filler))
	items = append(items, sameCreator...)
	items = append(items, similar...)
	items = append(items, filler...)

	shuffle(items, c.rnd)

	return &RelatedResult{
		Items:          items,
		SameCreator:    len(sameCreator),
		SimilarContent: len(similar),
		Filler:         len(filler),
	}, nil
}
