// Feedrank - Personalized Recommendation and Ranking Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/feedrank

package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/tomtom215/feedrank/internal/recommend"
)

// execer is satisfied by *sql.DB and *sql.Tx.
type execer interface {
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
}

// Exists reports whether a viewer with the id is registered.
func (db *DB) Exists(ctx context.Context, viewerID string) (exists bool, err error) {
	start := time.Now()
	defer observe("exists", "viewers", start, &err)

	ctx, cancel := ensureContext(ctx)
	defer cancel()

	var one int
	err = db.conn.QueryRowContext(ctx, db.rebind(`SELECT 1 FROM viewers WHERE id = ?`), viewerID).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to look up viewer %s: %w", viewerID, err)
	}
	return true, nil
}

// UpsertViewer creates or renames a viewer.
func (db *DB) UpsertViewer(ctx context.Context, viewer recommend.Creator) (err error) {
	start := time.Now()
	defer observe("upsert", "viewers", start, &err)

	ctx, cancel := ensureContext(ctx)
	defer cancel()

	return db.upsertViewer(ctx, db.conn, viewer)
}

func (db *DB) upsertViewer(ctx context.Context, ex execer, viewer recommend.Creator) error {
	if viewer.ID == "" {
		return fmt.Errorf("viewer id is required")
	}
	username := viewer.Username
	if username == "" {
		username = viewer.ID
	}
	_, err := ex.ExecContext(ctx, db.rebind(`INSERT INTO viewers (id, username, avatar_url, created_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT (id) DO UPDATE SET username = EXCLUDED.username, avatar_url = EXCLUDED.avatar_url`),
		viewer.ID, username, viewer.AvatarURL, db.now().UTC())
	if err != nil {
		return fmt.Errorf("failed to upsert viewer %s: %w", viewer.ID, err)
	}
	return nil
}
