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

	"github.com/tomtom215/feedrank/internal/database/query"
	"github.com/tomtom215/feedrank/internal/recommend"
)

const contentColumns = `c.id, c.creator_id, c.title, c.description, c.thumbnail_url, c.duration_seconds,
		c.view_count, c.like_count, c.status, c.visibility, c.published_at, c.created_at,
		COALESCE(v.username, ''), COALESCE(v.avatar_url, '')`

// buildContentQuery translates a ContentQuery into SQL. Only published,
// public items with a publish time are visible.
func buildContentQuery(q *recommend.ContentQuery) (string, []interface{}) {
	wb := query.NewWhereBuilder()
	wb.AddClause("c.status = ?", recommend.StatusPublished)
	wb.AddClause("c.visibility = ?", recommend.VisibilityPublic)
	wb.AddClause("c.published_at IS NOT NULL")
	wb.AddIn("c.id", q.IDs)
	if len(q.TagIDs) > 0 {
		wb.AddClause(
			fmt.Sprintf("c.id IN (SELECT it.item_id FROM item_tags it WHERE it.tag_id IN (%s))", query.Placeholders(len(q.TagIDs))),
			stringsToArgs(q.TagIDs)...,
		)
	}
	wb.AddEquals("c.creator_id", q.CreatorID)
	wb.AddNotEquals("c.creator_id", q.ExcludeCreatorID)
	wb.AddNotIn("c.id", q.ExcludeIDs)
	wb.AddSince("c.published_at", q.PublishedSince)

	where, args := wb.Build()

	stmt := fmt.Sprintf(`SELECT %s
		FROM content_items c
		LEFT JOIN viewers v ON v.id = c.creator_id
		WHERE %s
		ORDER BY %s
		LIMIT ? OFFSET ?`, contentColumns, where, orderClause(q.OrderBy))

	args = append(args, q.Limit, q.Offset)
	return stmt, args
}

// orderClause returns a total order so pagination is stable.
func orderClause(o recommend.OrderBy) string {
	switch o {
	case recommend.OrderByPopularity:
		return "c.view_count DESC, c.like_count DESC, c.id ASC"
	default:
		return "c.published_at DESC, c.id ASC"
	}
}

// Find returns published, public items matching q with creator and tags.
func (db *DB) Find(ctx context.Context, q recommend.ContentQuery) (items []recommend.ContentItem, err error) {
	if q.Empty() {
		return []recommend.ContentItem{}, nil
	}

	start := time.Now()
	defer observe("find", "content_items", start, &err)

	ctx, cancel := ensureContext(ctx)
	defer cancel()

	stmt, args := buildContentQuery(&q)
	rows, err := db.conn.QueryContext(ctx, db.rebind(stmt), args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query content items: %w", err)
	}
	defer closeWithLog(rows, "rows")

	items = make([]recommend.ContentItem, 0, q.Limit)
	for rows.Next() {
		item, err := scanContentItem(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate content items: %w", err)
	}

	if err := db.attachTags(ctx, items); err != nil {
		return nil, err
	}
	return items, nil
}

// Get returns one item by id regardless of publish state, or recommend.ErrNotFound.
func (db *DB) Get(ctx context.Context, id string) (item *recommend.ContentItem, err error) {
	start := time.Now()
	defer observe("get", "content_items", start, &err)

	ctx, cancel := ensureContext(ctx)
	defer cancel()

	row := db.conn.QueryRowContext(ctx, db.rebind(`SELECT `+contentColumns+`
		FROM content_items c
		LEFT JOIN viewers v ON v.id = c.creator_id
		WHERE c.id = ?`), id)

	found, err := scanContentItem(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("content item %s: %w", id, recommend.ErrNotFound)
	}
	if err != nil {
		return nil, err
	}

	items := []recommend.ContentItem{found}
	if err := db.attachTags(ctx, items); err != nil {
		return nil, err
	}
	return &items[0], nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanContentItem(row rowScanner) (recommend.ContentItem, error) {
	var (
		item        recommend.ContentItem
		publishedAt sql.NullTime
	)
	err := row.Scan(
		&item.ID, &item.CreatorID, &item.Title, &item.Description, &item.ThumbnailURL, &item.DurationSeconds,
		&item.ViewCount, &item.LikeCount, &item.Status, &item.Visibility, &publishedAt, &item.CreatedAt,
		&item.Creator.Username, &item.Creator.AvatarURL,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return item, err
	}
	if err != nil {
		return item, fmt.Errorf("failed to scan content item: %w", err)
	}

	item.Creator.ID = item.CreatorID
	item.CreatedAt = item.CreatedAt.UTC()
	if publishedAt.Valid {
		t := publishedAt.Time.UTC()
		item.PublishedAt = &t
	}
	item.Tags = []recommend.Tag{}
	return item, nil
}

// attachTags loads tags for items in one query.
func (db *DB) attachTags(ctx context.Context, items []recommend.ContentItem) error {
	if len(items) == 0 {
		return nil
	}

	ids := make([]string, len(items))
	for i := range items {
		ids[i] = items[i].ID
	}

	tags, err := db.tagsByItem(ctx, ids)
	if err != nil {
		return err
	}
	for i := range items {
		if t, ok := tags[items[i].ID]; ok {
			items[i].Tags = t
		}
	}
	return nil
}

// tagsByItem returns the tags of each given item ordered by tag id.
func (db *DB) tagsByItem(ctx context.Context, itemIDs []string) (map[string][]recommend.Tag, error) {
	out := make(map[string][]recommend.Tag, len(itemIDs))
	if len(itemIDs) == 0 {
		return out, nil
	}

	stmt := fmt.Sprintf(`SELECT it.item_id, t.id, t.name
		FROM item_tags it
		JOIN tags t ON t.id = it.tag_id
		WHERE it.item_id IN (%s)
		ORDER BY it.item_id, t.id`, query.Placeholders(len(itemIDs)))

	rows, err := db.conn.QueryContext(ctx, db.rebind(stmt), stringsToArgs(itemIDs)...)
	if err != nil {
		return nil, fmt.Errorf("failed to query item tags: %w", err)
	}
	defer closeWithLog(rows, "rows")

	for rows.Next() {
		var (
			itemID string
			tag    recommend.Tag
		)
		if err := rows.Scan(&itemID, &tag.ID, &tag.Name); err != nil {
			return nil, fmt.Errorf("failed to scan item tag: %w", err)
		}
		out[itemID] = append(out[itemID], tag)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate item tags: %w", err)
	}
	return out, nil
}

func stringsToArgs(values []string) []interface{} {
	args := make([]interface{}, len(values))
	for i, v := range values {
		args[i] = v
	}
	return args
}
