// Feedrank - Personalized Recommendation and Ranking Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/feedrank

package recommend

import (
	"context"
	"time"
)

// Note: This package does not import other internal packages. The store
// interfaces below are implemented by the database package.

// ContentStore reads catalog items.
type ContentStore interface {
	// Find returns published, public items matching the query. Each item
	// carries its creator and tags.
	Find(ctx context.Context, q ContentQuery) ([]ContentItem, error)

	// Get returns one item by id, or ErrNotFound.
	Get(ctx context.Context, id string) (*ContentItem, error)
}

// WatchHistoryStore reads viewer watch events.
type WatchHistoryStore interface {
	// FindSince returns the viewer's watch events with WatchedAt >= since,
	// each carrying the tags of the watched item.
	FindSince(ctx context.Context, viewerID string, since time.Time) ([]WatchHistoryEntry, error)

	// WatchedItemIDs returns every item id the viewer has watched.
	WatchedItemIDs(ctx context.Context, viewerID string) ([]string, error)
}

// ViewerStore answers viewer existence checks.
type ViewerStore interface {
	Exists(ctx context.Context, viewerID string) (bool, error)
}

// RecommendationStore is the persistence boundary for recommendation records.
type RecommendationStore interface {
	// GetCached returns up to limit records for the viewer ordered by score desc.
	GetCached(ctx context.Context, viewerID string, limit int) ([]Record, error)

	// RecommendedItemIDs returns every item id already recommended to the viewer.
	RecommendedItemIDs(ctx context.Context, viewerID string) ([]string, error)

	// PersistBatch writes all records or none. Records are keyed on
	// (ViewerID, ItemID); an existing pair keeps its clicked flag.
	PersistBatch(ctx context.Context, records []Record) ([]Record, error)

	// MarkClicked sets clicked on every record matching the pair and reports
	// how many records matched.
	MarkClicked(ctx context.Context, viewerID, itemID string) (int64, error)

	// Stats summarizes click feedback for the viewer.
	Stats(ctx context.Context, viewerID string) (*Stats, error)
}

// Stores bundles the collaborators the engine is constructed with.
type Stores struct {
	Content         ContentStore
	WatchHistory    WatchHistoryStore
	Viewers         ViewerStore
	Recommendations RecommendationStore
}

// validate reports the first missing collaborator.
func (s Stores) validate() error {
	switch {
	case s.Content == nil:
		return errMissingStore("content")
	case s.WatchHistory == nil:
		return errMissingStore("watch history")
	case s.Viewers == nil:
		return errMissingStore("viewer")
	case s.Recommendations == nil:
		return errMissingStore("recommendation")
	default:
		return nil
	}
}
