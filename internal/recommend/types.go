// Feedrank - Personalized Recommendation and Ranking Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/feedrank

package recommend

import (
	"time"
)

// Reason explains why an item was selected. It drives UI labeling only and
// never influences scoring.
type Reason string

const (
	// ReasonWatchHistory marks items chosen by tag affinity with recent watches.
	ReasonWatchHistory Reason = "WATCH_HISTORY"
	// ReasonPopular marks popularity filler.
	ReasonPopular Reason = "POPULAR"
	// ReasonTrending marks items from the trailing trending window.
	ReasonTrending Reason = "TRENDING"
	// ReasonSameCreator marks related items by the source item's creator.
	ReasonSameCreator Reason = "SAME_CREATOR"
	// ReasonSimilarContent marks related items sharing tags with the source item.
	ReasonSimilarContent Reason = "SIMILAR_CONTENT"
)

// Valid reports whether r is one of the known reasons.
func (r Reason) Valid() bool {
	switch r {
	case ReasonWatchHistory, ReasonPopular, ReasonTrending, ReasonSameCreator, ReasonSimilarContent:
		return true
	default:
		return false
	}
}

// String returns the wire representation of the reason.
func (r Reason) String() string {
	return string(r)
}

// Creator is the account that published a content item.
type Creator struct {
	ID        string `json:"id"`
	Username  string `json:"username"`
	AvatarURL string `json:"avatarUrl"`
}

// Tag is a content label. Items reference tags by id.
type Tag struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Content status and visibility values that make an item eligible for any feed.
const (
	StatusPublished  = "published"
	VisibilityPublic = "public"
)

// ContentItem is a read-only view of a catalog item.
type ContentItem struct {
	// ID is the unique content identifier.
	ID string

	Title           string
	Description     string
	ThumbnailURL    string
	DurationSeconds int

	// ViewCount and LikeCount are the popularity signals.
	ViewCount int64
	LikeCount int64

	// PublishedAt is nil for items that were never published.
	PublishedAt *time.Time
	CreatedAt   time.Time

	// CreatorID references the owning creator. Creator carries the
	// denormalized display fields loaded alongside the item.
	CreatorID string
	Creator   Creator

	Tags []Tag

	Status     string
	Visibility string
}

// HasTag reports whether the item carries the given tag id.
func (c *ContentItem) HasTag(tagID string) bool {
	for _, t := range c.Tags {
		if t.ID == tagID {
			return true
		}
	}
	return false
}

// TagIDs returns the ids of the item's tags in declaration order.
func (c *ContentItem) TagIDs() []string {
	ids := make([]string, 0, len(c.Tags))
	for _, t := range c.Tags {
		ids = append(ids, t.ID)
	}
	return ids
}

// referenceTime is the timestamp used for age computations.
func (c *ContentItem) referenceTime() time.Time {
	if c.PublishedAt != nil {
		return *c.PublishedAt
	}
	return c.CreatedAt
}

// WatchHistoryEntry is a single watch event with the tags of the watched item.
type WatchHistoryEntry struct {
	ViewerID  string
	ItemID    string
	WatchedAt time.Time
	Tags      []Tag
}

// TagWeight counts how often a viewer's recent watches touched a tag.
type TagWeight struct {
	TagID  string `json:"tagId"`
	Weight int    `json:"weight"`
}

// TagWeights is a weight vector sorted by descending weight.
type TagWeights []TagWeight

// Lookup returns the weights as a map keyed by tag id.
func (w TagWeights) Lookup() map[string]int {
	m := make(map[string]int, len(w))
	for _, tw := range w {
		m[tw.TagID] = tw.Weight
	}
	return m
}

// TagIDs returns the weighted tag ids in vector order.
func (w TagWeights) TagIDs() []string {
	ids := make([]string, 0, len(w))
	for _, tw := range w {
		ids = append(ids, tw.TagID)
	}
	return ids
}

// Candidate is a content item with the strategy that produced it.
type Candidate struct {
	Item   ContentItem
	Reason Reason
	Score  float64
}

// Record is a persisted recommendation for a viewer.
type Record struct {
	// ID is a UUID assigned at persistence time.
	ID string `json:"id"`

	ViewerID string  `json:"viewerId"`
	ItemID   string  `json:"itemId"`
	Score    float64 `json:"score"`
	Reason   Reason  `json:"reason"`

	// Clicked flips false to true on click feedback and never reverses.
	Clicked bool `json:"clicked"`

	CreatedAt time.Time `json:"createdAt"`
}

// RecommendedItem is one entry of a recommendation response.
type RecommendedItem struct {
	ID                   string     `json:"id"`
	Title                string     `json:"title"`
	Description          string     `json:"description"`
	ThumbnailURL         string     `json:"thumbnailUrl"`
	DurationSeconds      int        `json:"durationSeconds"`
	Views                int64      `json:"views"`
	Likes                int64      `json:"likes"`
	PublishedAt          *time.Time `json:"publishedAt"`
	CreatedAt            time.Time  `json:"createdAt"`
	Creator              Creator    `json:"creator"`
	Tags                 []Tag      `json:"tags"`
	RecommendationReason Reason     `json:"recommendationReason"`
}

// ReasonStats holds click feedback counters for one reason.
type ReasonStats struct {
	Reason  Reason `json:"reason"`
	Total   int64  `json:"total"`
	Clicked int64  `json:"clicked"`
}

// ClickThroughRate returns Clicked/Total, or zero for an empty bucket.
func (s ReasonStats) ClickThroughRate() float64 {
	if s.Total == 0 {
		return 0
	}
	return float64(s.Clicked) / float64(s.Total)
}

// Stats summarizes a viewer's persisted recommendations.
type Stats struct {
	ViewerID string        `json:"viewerId"`
	Total    int64         `json:"total"`
	Clicked  int64         `json:"clicked"`
	ByReason []ReasonStats `json:"byReason"`
}
