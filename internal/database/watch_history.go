// Feedrank - Personalized Recommendation and Ranking Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/feedrank

package database

import (
	"context"
	"fmt"
	"time"

	"github.com/tomtom215/feedrank/internal/recommend"
)

// FindSince returns the viewer's watch events at or after since, oldest
// first, each carrying the tags of the watched item.
func (db *DB) FindSince(ctx context.Context, viewerID string, since time.Time) (entries []recommend.WatchHistoryEntry, err error) {
	start := time.Now()
	defer observe("find_since", "watch_history", start, &err)

	ctx, cancel := ensureContext(ctx)
	defer cancel()

	rows, err := db.conn.QueryContext(ctx, db.rebind(`SELECT viewer_id, item_id, watched_at
		FROM watch_history
		WHERE viewer_id = ? AND watched_at >= ?
		ORDER BY watched_at ASC, id ASC`), viewerID, since.UTC())
	if err != nil {
		return nil, fmt.Errorf("failed to query watch history: %w", err)
	}
	defer closeWithLog(rows, "rows")

	entries = []recommend.WatchHistoryEntry{}
	seen := make(map[string]struct{})
	var itemIDs []string
	for rows.Next() {
		var e recommend.WatchHistoryEntry
		if err := rows.Scan(&e.ViewerID, &e.ItemID, &e.WatchedAt); err != nil {
			return nil, fmt.Errorf("failed to scan watch event: %w", err)
		}
		e.WatchedAt = e.WatchedAt.UTC()
		entries = append(entries, e)
		if _, ok := seen[e.ItemID]; !ok {
			seen[e.ItemID] = struct{}{}
			itemIDs = append(itemIDs, e.ItemID)
		}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate watch history: %w", err)
	}

	tags, err := db.tagsByItem(ctx, itemIDs)
	if err != nil {
		return nil, err
	}
	for i := range entries {
		entries[i].Tags = tags[entries[i].ItemID]
	}
	return entries, nil
}

// WatchedItemIDs returns every distinct item id the viewer has watched.
func (db *DB) WatchedItemIDs(ctx context.Context, viewerID string) (ids []string, err error) {
	start := time.Now()
	defer observe("watched_ids", "watch_history", start, &err)

	return db.queryIDs(ctx, `SELECT DISTINCT item_id FROM watch_history WHERE viewer_id = ? ORDER BY item_id`, viewerID)
}

// RecordWatch appends a watch event.
func (db *DB) RecordWatch(ctx context.Context, viewerID, itemID string, watchedAt time.Time) (err error) {
	start := time.Now()
	defer observe("insert", "watch_history", start, &err)

	ctx, cancel := ensureContext(ctx)
	defer cancel()

	return db.recordWatch(ctx, db.conn, viewerID, itemID, watchedAt)
}

func (db *DB) recordWatch(ctx context.Context, ex execer, viewerID, itemID string, watchedAt time.Time) error {
	if viewerID == "" || itemID == "" {
		return fmt.Errorf("watch event requires viewer and item ids")
	}
	if _, err := ex.ExecContext(ctx, db.rebind(`INSERT INTO watch_history (id, viewer_id, item_id, watched_at) VALUES (?, ?, ?, ?)`),
		db.newID(), viewerID, itemID, watchedAt.UTC()); err != nil {
		return fmt.Errorf("failed to record watch of %s by %s: %w", itemID, viewerID, err)
	}
	return nil
}

// queryIDs runs a single-column string query.
func (db *DB) queryIDs(ctx context.Context, stmt string, args ...interface{}) ([]string, error) {
	ctx, cancel := ensureContext(ctx)
	defer cancel()

	rows, err := db.conn.QueryContext(ctx, db.rebind(stmt), args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query ids: %w", err)
	}
	defer closeWithLog(rows, "rows")

	ids := []string{}
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan id: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate ids: %w", err)
	}
	return ids, nil
}
