// Feedrank - Personalized Recommendation and Ranking Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/feedrank

/*
database_schema.go - Database Schema Management

Tables:
  - viewers: accounts that watch items and receive recommendations; creators are viewers too
  - tags: catalog labels
  - content_items: the catalog, with publish state and engagement counters
  - item_tags: item/tag association
  - watch_history: one row per watch event
  - recommendations: persisted recommendations, unique per (viewer_id, item_id)

The DDL sticks to types and clauses accepted by both DuckDB and PostgreSQL.

Index Strategy:
DuckDB rejects ON CONFLICT DO UPDATE on columns referenced by an index, so
indexes only cover columns that upserts never rewrite.
*/

//nolint:staticcheck // File documentation, not package doc
package database

import (
	"context"
	"fmt"
	"time"
)

// schemaContext returns a context with timeout for schema operations
func schemaContext() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), 60*time.Second)
}

// createTables creates the core database tables
func (db *DB) createTables() error {
	ctx, cancel := schemaContext()
	defer cancel()

	for _, query := range tableCreationQueries() {
		if _, err := db.conn.ExecContext(ctx, query); err != nil {
			return fmt.Errorf("failed to execute query: %s: %w", query, err)
		}
	}
	return nil
}

// createIndexes creates secondary indexes
func (db *DB) createIndexes() error {
	ctx, cancel := schemaContext()
	defer cancel()

	for _, query := range indexCreationQueries() {
		if _, err := db.conn.ExecContext(ctx, query); err != nil {
			return fmt.Errorf("failed to create index: %s: %w", query, err)
		}
	}
	return nil
}

func tableCreationQueries() []string {
	return []string{
		`CREATE TABLE IF NOT EXISTS viewers (
			id TEXT PRIMARY KEY,
			username TEXT NOT NULL,
			avatar_url TEXT NOT NULL DEFAULT '',
			created_at TIMESTAMP NOT NULL
		)`,

		`CREATE TABLE IF NOT EXISTS tags (
			id TEXT PRIMARY KEY,
			name TEXT NOT NULL
		)`,

		`CREATE TABLE IF NOT EXISTS content_items (
			id TEXT PRIMARY KEY,
			creator_id TEXT NOT NULL,
			title TEXT NOT NULL,
			description TEXT NOT NULL DEFAULT '',
			thumbnail_url TEXT NOT NULL DEFAULT '',
			duration_seconds INTEGER NOT NULL DEFAULT 0,
			view_count BIGINT NOT NULL DEFAULT 0,
			like_count BIGINT NOT NULL DEFAULT 0,
			status TEXT NOT NULL DEFAULT 'draft',
			visibility TEXT NOT NULL DEFAULT 'private',
			published_at TIMESTAMP,
			created_at TIMESTAMP NOT NULL
		)`,

		`CREATE TABLE IF NOT EXISTS item_tags (
			item_id TEXT NOT NULL,
			tag_id TEXT NOT NULL,
			PRIMARY KEY (item_id, tag_id)
		)`,

		`CREATE TABLE IF NOT EXISTS watch_history (
			id TEXT PRIMARY KEY,
			viewer_id TEXT NOT NULL,
			item_id TEXT NOT NULL,
			watched_at TIMESTAMP NOT NULL
		)`,

		`CREATE TABLE IF NOT EXISTS recommendations (
			id TEXT PRIMARY KEY,
			viewer_id TEXT NOT NULL,
			item_id TEXT NOT NULL,
			score FLOAT8 NOT NULL,
			reason TEXT NOT NULL,
			clicked BOOLEAN NOT NULL DEFAULT FALSE,
			created_at TIMESTAMP NOT NULL,
			UNIQUE (viewer_id, item_id)
		)`,
	}
}

func indexCreationQueries() []string {
	return []string{
		`CREATE INDEX IF NOT EXISTS idx_content_items_creator ON content_items(creator_id)`,
		`CREATE INDEX IF NOT EXISTS idx_item_tags_tag ON item_tags(tag_id)`,
		`CREATE INDEX IF NOT EXISTS idx_watch_history_viewer ON watch_history(viewer_id)`,
		`CREATE INDEX IF NOT EXISTS idx_recommendations_viewer ON recommendations(viewer_id)`,
	}
}
