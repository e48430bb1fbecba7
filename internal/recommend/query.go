// Feedrank - Personalized Recommendation and Ranking Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/feedrank

package recommend

import (
	"sort"
	"time"
)

// OrderBy selects the ordering of a content query.
type OrderBy int

const (
	// OrderByPublishedDesc orders by publish time, newest first.
	OrderByPublishedDesc OrderBy = iota
	// OrderByPopularity orders by view count then like count, both descending.
	OrderByPopularity
)

// String returns a human-readable name for the ordering.
func (o OrderBy) String() string {
	switch o {
	case OrderByPublishedDesc:
		return "published_desc"
	case OrderByPopularity:
		return "popularity"
	default:
		return "unknown"
	}
}

// ContentQuery is the typed filter passed to ContentStore.Find.
//
// Every query implicitly restricts results to published, public items.
// Zero-valued fields do not constrain the result.
type ContentQuery struct {
	// IDs restricts results to the given item ids.
	IDs []string

	// TagIDs matches items carrying any of the given tags.
	TagIDs []string

	// CreatorID matches items by one creator.
	CreatorID string

	// ExcludeCreatorID drops items by one creator.
	ExcludeCreatorID string

	// ExcludeIDs drops the given item ids.
	ExcludeIDs []string

	// PublishedSince keeps items published at or after the instant.
	PublishedSince *time.Time

	OrderBy OrderBy
	Limit   int
	Offset  int
}

// TagAffinityQuery selects unseen items matching any weighted tag, newest first.
func TagAffinityQuery(tagIDs []string, exclude ExclusionSet, limit int) ContentQuery {
	return ContentQuery{
		TagIDs:     tagIDs,
		ExcludeIDs: exclude.IDs(),
		OrderBy:    OrderByPublishedDesc,
		Limit:      limit,
	}
}

// PopularityQuery selects unseen items by popularity. A nil since means no
// recency window.
func PopularityQuery(exclude ExclusionSet, since *time.Time, limit int) ContentQuery {
	return ContentQuery{
		ExcludeIDs:     exclude.IDs(),
		PublishedSince: since,
		OrderBy:        OrderByPopularity,
		Limit:          limit,
	}
}

// TrendingQuery selects the most viewed items published since the instant.
func TrendingQuery(since time.Time, limit int) ContentQuery {
	return ContentQuery{
		PublishedSince: &since,
		OrderBy:        OrderByPopularity,
		Limit:          limit,
	}
}

// SameCreatorQuery selects other items by the source item's creator.
func SameCreatorQuery(source *ContentItem, exclude ExclusionSet, limit int) ContentQuery {
	return ContentQuery{
		CreatorID:  source.CreatorID,
		ExcludeIDs: exclude.With(source.ID).IDs(),
		OrderBy:    OrderByPublishedDesc,
		Limit:      limit,
	}
}

// SimilarTagsQuery selects items sharing a tag with the source item from
// other creators.
func SimilarTagsQuery(source *ContentItem, exclude ExclusionSet, limit int) ContentQuery {
	return ContentQuery{
		TagIDs:           source.TagIDs(),
		ExcludeCreatorID: source.CreatorID,
		ExcludeIDs:       exclude.With(source.ID).IDs(),
		OrderBy:          OrderByPopularity,
		Limit:            limit,
	}
}

// ByIDsQuery selects the given items regardless of ordering.
func ByIDsQuery(ids []string) ContentQuery {
	return ContentQuery{
		IDs:     ids,
		OrderBy: OrderByPublishedDesc,
		Limit:   len(ids),
	}
}

// Empty reports whether the query can only match nothing.
// A tag filter with no tags matches no item.
func (q ContentQuery) Empty() bool {
	if q.Limit <= 0 {
		return true
	}
	if q.TagIDs != nil && len(q.TagIDs) == 0 {
		return true
	}
	return q.IDs != nil && len(q.IDs) == 0
}

// sortedIDs returns a sorted copy of ids.
func sortedIDs(ids []string) []string {
	out := make([]string, len(ids))
	copy(out, ids)
	sort.Strings(out)
	return out
}
