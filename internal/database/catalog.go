// Feedrank - Personalized Recommendation and Ranking Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/feedrank

package database

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/tomtom215/feedrank/internal/database/query"
	"github.com/tomtom215/feedrank/internal/logging"
	"github.com/tomtom215/feedrank/internal/recommend"
)

// Catalog is a YAML fixture of viewers, tags, items and watch events.
//
// Times are either absolute (published_at, watched_at) or relative to the
// seeding clock (published_ago, watched_ago, as Go durations like "36h").
type Catalog struct {
	Viewers []CatalogViewer `yaml:"viewers"`
	Tags    []recommend.Tag `yaml:"tags"`
	Items   []CatalogItem   `yaml:"items"`
	Watches []CatalogWatch  `yaml:"watches"`
}

// CatalogViewer is a viewer or creator account.
type CatalogViewer struct {
	ID        string `yaml:"id"`
	Username  string `yaml:"username"`
	AvatarURL string `yaml:"avatar_url"`
}

// CatalogItem is one content item.
type CatalogItem struct {
	ID              string     `yaml:"id"`
	CreatorID       string     `yaml:"creator_id"`
	Title           string     `yaml:"title"`
	Description     string     `yaml:"description"`
	ThumbnailURL    string     `yaml:"thumbnail_url"`
	DurationSeconds int        `yaml:"duration_seconds"`
	Views           int64      `yaml:"views"`
	Likes           int64      `yaml:"likes"`
	Status          string     `yaml:"status"`
	Visibility      string     `yaml:"visibility"`
	PublishedAt     *time.Time `yaml:"published_at"`
	PublishedAgo    string     `yaml:"published_ago"`
	Tags            []string   `yaml:"tags"`
}

// CatalogWatch is one watch event.
type CatalogWatch struct {
	ViewerID   string     `yaml:"viewer_id"`
	ItemID     string     `yaml:"item_id"`
	WatchedAt  *time.Time `yaml:"watched_at"`
	WatchedAgo string     `yaml:"watched_ago"`
}

// SeedResult counts what SeedCatalog wrote.
type SeedResult struct {
	Viewers int
	Tags    int
	Items   int
	Watches int
}

// LoadCatalog decodes and validates a YAML catalog.
func LoadCatalog(r io.Reader) (*Catalog, error) {
	var c Catalog
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&c); err != nil && err != io.EOF {
		return nil, fmt.Errorf("failed to decode catalog: %w", err)
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

// LoadCatalogFile reads a catalog from disk.
func LoadCatalogFile(path string) (*Catalog, error) {
	f, err := os.Open(path) //nolint:gosec // operator-supplied fixture path
	if err != nil {
		return nil, fmt.Errorf("failed to open catalog: %w", err)
	}
	defer closeWithLog(f, "catalog file")
	return LoadCatalog(f)
}

// Validate checks ids, references and time fields.
func (c *Catalog) Validate() error {
	viewers := make(map[string]struct{}, len(c.Viewers))
	for i, v := range c.Viewers {
		if v.ID == "" {
			return fmt.Errorf("viewers[%d]: id is required", i)
		}
		if _, dup := viewers[v.ID]; dup {
			return fmt.Errorf("viewers[%d]: duplicate id %q", i, v.ID)
		}
		viewers[v.ID] = struct{}{}
	}

	tags := make(map[string]struct{}, len(c.Tags))
	for i, t := range c.Tags {
		if t.ID == "" {
			return fmt.Errorf("tags[%d]: id is required", i)
		}
		if _, dup := tags[t.ID]; dup {
			return fmt.Errorf("tags[%d]: duplicate id %q", i, t.ID)
		}
		tags[t.ID] = struct{}{}
	}

	items := make(map[string]struct{}, len(c.Items))
	for i := range c.Items {
		it := &c.Items[i]
		if it.ID == "" || it.Title == "" {
			return fmt.Errorf("items[%d]: id and title are required", i)
		}
		if _, dup := items[it.ID]; dup {
			return fmt.Errorf("items[%d]: duplicate id %q", i, it.ID)
		}
		items[it.ID] = struct{}{}
		if _, ok := viewers[it.CreatorID]; !ok {
			return fmt.Errorf("items[%d]: unknown creator %q", i, it.CreatorID)
		}
		for _, tagID := range it.Tags {
			if _, ok := tags[tagID]; !ok {
				return fmt.Errorf("items[%d]: unknown tag %q", i, tagID)
			}
		}
		if it.PublishedAt != nil && it.PublishedAgo != "" {
			return fmt.Errorf("items[%d]: published_at and published_ago are exclusive", i)
		}
		if _, err := parseAgo(it.PublishedAgo); err != nil {
			return fmt.Errorf("items[%d]: %w", i, err)
		}
	}

	for i, w := range c.Watches {
		if _, ok := viewers[w.ViewerID]; !ok {
			return fmt.Errorf("watches[%d]: unknown viewer %q", i, w.ViewerID)
		}
		if _, ok := items[w.ItemID]; !ok {
			return fmt.Errorf("watches[%d]: unknown item %q", i, w.ItemID)
		}
		if w.WatchedAt != nil && w.WatchedAgo != "" {
			return fmt.Errorf("watches[%d]: watched_at and watched_ago are exclusive", i)
		}
		if _, err := parseAgo(w.WatchedAgo); err != nil {
			return fmt.Errorf("watches[%d]: %w", i, err)
		}
	}
	return nil
}

func parseAgo(s string) (time.Duration, error) {
	if s == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		return 0, fmt.Errorf("invalid duration %q: %w", s, err)
	}
	if d < 0 {
		return 0, fmt.Errorf("duration %q must not be negative", s)
	}
	return d, nil
}

// resolveTime picks the absolute time, the relative one, or nil.
func resolveTime(abs *time.Time, ago string, now time.Time) *time.Time {
	if abs != nil {
		t := abs.UTC()
		return &t
	}
	if ago == "" {
		return nil
	}
	d, _ := parseAgo(ago) //nolint:errcheck // validated by Catalog.Validate
	t := now.Add(-d).UTC()
	return &t
}

// SeedCatalog writes the catalog in one transaction. Re-seeding the same
// catalog updates items in place and appends its watch events again.
func (db *DB) SeedCatalog(ctx context.Context, c *Catalog) (result SeedResult, err error) {
	if err := c.Validate(); err != nil {
		return result, err
	}

	start := time.Now()
	defer observe("seed", "catalog", start, &err)

	ctx, cancel := context.WithTimeout(ctx, 60*time.Second)
	defer cancel()

	tx, err := db.conn.BeginTx(ctx, nil)
	if err != nil {
		return result, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer rollbackQuietly(tx)

	now := db.now()

	for _, v := range c.Viewers {
		if err := db.upsertViewer(ctx, tx, recommend.Creator{ID: v.ID, Username: v.Username, AvatarURL: v.AvatarURL}); err != nil {
			return result, err
		}
		result.Viewers++
	}

	for _, t := range c.Tags {
		name := t.Name
		if name == "" {
			name = t.ID
		}
		if _, err := tx.ExecContext(ctx, db.rebind(`INSERT INTO tags (id, name) VALUES (?, ?)
			ON CONFLICT (id) DO UPDATE SET name = EXCLUDED.name`), t.ID, name); err != nil {
			return result, fmt.Errorf("failed to upsert tag %s: %w", t.ID, err)
		}
		result.Tags++
	}

	for i := range c.Items {
		if err := db.upsertItem(ctx, tx, &c.Items[i], now); err != nil {
			return result, err
		}
		result.Items++
	}

	for _, w := range c.Watches {
		watchedAt := resolveTime(w.WatchedAt, w.WatchedAgo, now)
		if watchedAt == nil {
			watchedAt = &now
		}
		if err := db.recordWatch(ctx, tx, w.ViewerID, w.ItemID, *watchedAt); err != nil {
			return result, err
		}
		result.Watches++
	}

	if err := tx.Commit(); err != nil {
		return result, fmt.Errorf("failed to commit catalog: %w", err)
	}

	logging.Info().
		Int("viewers", result.Viewers).
		Int("tags", result.Tags).
		Int("items", result.Items).
		Int("watches", result.Watches).
		Msg("Catalog seeded")
	return result, nil
}

// upsertItem writes an item and reconciles its tag links. creator_id is
// indexed and so is only set on insert.
func (db *DB) upsertItem(ctx context.Context, ex execer, it *CatalogItem, now time.Time) error {
	status := it.Status
	if status == "" {
		status = recommend.StatusPublished
	}
	visibility := it.Visibility
	if visibility == "" {
		visibility = recommend.VisibilityPublic
	}
	createdAt := now.UTC()
	var publishedAt interface{}
	if t := resolveTime(it.PublishedAt, it.PublishedAgo, now); t != nil {
		publishedAt = *t
		createdAt = *t
	}

	if _, err := ex.ExecContext(ctx, db.rebind(`INSERT INTO content_items
		(id, creator_id, title, description, thumbnail_url, duration_seconds, view_count, like_count, status, visibility, published_at, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (id) DO UPDATE SET
			title = EXCLUDED.title,
			description = EXCLUDED.description,
			thumbnail_url = EXCLUDED.thumbnail_url,
			duration_seconds = EXCLUDED.duration_seconds,
			view_count = EXCLUDED.view_count,
			like_count = EXCLUDED.like_count,
			status = EXCLUDED.status,
			visibility = EXCLUDED.visibility,
			published_at = EXCLUDED.published_at`),
		it.ID, it.CreatorID, it.Title, it.Description, it.ThumbnailURL, it.DurationSeconds,
		it.Views, it.Likes, status, visibility, publishedAt, createdAt); err != nil {
		return fmt.Errorf("failed to upsert item %s: %w", it.ID, err)
	}

	for _, tagID := range it.Tags {
		if _, err := ex.ExecContext(ctx, db.rebind(`INSERT INTO item_tags (item_id, tag_id) VALUES (?, ?)
			ON CONFLICT (item_id, tag_id) DO NOTHING`), it.ID, tagID); err != nil {
			return fmt.Errorf("failed to link tag %s to item %s: %w", tagID, it.ID, err)
		}
	}

	stale := query.NewWhereBuilder()
	stale.AddEquals("item_id", it.ID)
	stale.AddNotIn("tag_id", it.Tags)
	where, args := stale.Build()
	if _, err := ex.ExecContext(ctx, db.rebind(`DELETE FROM item_tags WHERE `+where), args...); err != nil {
		return fmt.Errorf("failed to prune tags of item %s: %w", it.ID, err)
	}
	return nil
}
