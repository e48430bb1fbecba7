// Feedrank - Personalized Recommendation and Ranking Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/feedrank

package database

import (
	"context"
	"fmt"
	"time"

	"github.com/tomtom215/feedrank/internal/database/query"
	"github.com/tomtom215/feedrank/internal/recommend"
)

const recordColumns = `id, viewer_id, item_id, score, reason, clicked, created_at`

// upsertRecommendationSQL keeps the stored id, clicked flag and created_at of
// an existing (viewer_id, item_id) pair.
const upsertRecommendationSQL = `INSERT INTO recommendations (` + recordColumns + `)
	VALUES (?, ?, ?, ?, ?, FALSE, ?)
	ON CONFLICT (viewer_id, item_id) DO UPDATE SET score = EXCLUDED.score, reason = EXCLUDED.reason`

// GetCached returns up to limit records for the viewer, best score first.
func (db *DB) GetCached(ctx context.Context, viewerID string, limit int) (records []recommend.Record, err error) {
	if limit <= 0 {
		return []recommend.Record{}, nil
	}

	start := time.Now()
	defer observe("get_cached", "recommendations", start, &err)

	ctx, cancel := ensureContext(ctx)
	defer cancel()

	return db.queryRecords(ctx, `SELECT `+recordColumns+`
		FROM recommendations
		WHERE viewer_id = ?
		ORDER BY score DESC, created_at ASC, item_id ASC
		LIMIT ?`, viewerID, limit)
}

// RecommendedItemIDs returns every item id already recommended to the viewer.
func (db *DB) RecommendedItemIDs(ctx context.Context, viewerID string) (ids []string, err error) {
	start := time.Now()
	defer observe("recommended_ids", "recommendations", start, &err)

	return db.queryIDs(ctx, `SELECT item_id FROM recommendations WHERE viewer_id = ? ORDER BY item_id`, viewerID)
}

// PersistBatch upserts all records in one transaction and returns the rows as
// stored. Later duplicates of a (viewer, item) pair within the batch win.
func (db *DB) PersistBatch(ctx context.Context, records []recommend.Record) (stored []recommend.Record, err error) {
	if len(records) == 0 {
		return []recommend.Record{}, nil
	}

	batch, err := db.normalizeBatch(records)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	defer observe("persist_batch", "recommendations", start, &err)

	ctx, cancel := ensureContext(ctx)
	defer cancel()

	tx, err := db.conn.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer rollbackQuietly(tx)

	stmt := db.rebind(upsertRecommendationSQL)
	for i := range batch {
		r := &batch[i]
		if _, err := tx.ExecContext(ctx, stmt, r.ID, r.ViewerID, r.ItemID, r.Score, string(r.Reason), r.CreatedAt.UTC()); err != nil {
			return nil, fmt.Errorf("failed to persist recommendation %s/%s: %w", r.ViewerID, r.ItemID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit recommendations: %w", err)
	}

	return db.storedRecords(ctx, batch)
}

// normalizeBatch validates records, fills missing ids and timestamps and drops
// earlier duplicates of a pair.
func (db *DB) normalizeBatch(records []recommend.Record) ([]recommend.Record, error) {
	type key struct{ viewer, item string }

	position := make(map[key]int, len(records))
	out := make([]recommend.Record, 0, len(records))
	for _, r := range records {
		if r.ViewerID == "" || r.ItemID == "" {
			return nil, fmt.Errorf("recommendation requires viewer and item ids")
		}
		if !r.Reason.Valid() {
			return nil, fmt.Errorf("recommendation %s/%s has unknown reason %q", r.ViewerID, r.ItemID, r.Reason)
		}
		if r.ID == "" {
			r.ID = db.newID()
		}
		if r.CreatedAt.IsZero() {
			r.CreatedAt = db.now()
		}
		k := key{r.ViewerID, r.ItemID}
		if i, ok := position[k]; ok {
			out[i] = r
			continue
		}
		position[k] = len(out)
		out = append(out, r)
	}
	return out, nil
}

// storedRecords re-reads a committed batch, grouped per viewer, in batch order.
func (db *DB) storedRecords(ctx context.Context, batch []recommend.Record) ([]recommend.Record, error) {
	itemsByViewer := make(map[string][]string)
	var viewers []string
	for i := range batch {
		v := batch[i].ViewerID
		if _, ok := itemsByViewer[v]; !ok {
			viewers = append(viewers, v)
		}
		itemsByViewer[v] = append(itemsByViewer[v], batch[i].ItemID)
	}

	byPair := make(map[string]recommend.Record, len(batch))
	for _, viewerID := range viewers {
		items := itemsByViewer[viewerID]
		args := append([]interface{}{viewerID}, stringsToArgs(items)...)
		rows, err := db.queryRecords(ctx, fmt.Sprintf(`SELECT %s FROM recommendations WHERE viewer_id = ? AND item_id IN (%s)`,
			recordColumns, query.Placeholders(len(items))), args...)
		if err != nil {
			return nil, err
		}
		for _, r := range rows {
			byPair[r.ViewerID+"\x00"+r.ItemID] = r
		}
	}

	out := make([]recommend.Record, 0, len(batch))
	for i := range batch {
		if r, ok := byPair[batch[i].ViewerID+"\x00"+batch[i].ItemID]; ok {
			out = append(out, r)
		}
	}
	return out, nil
}

// MarkClicked sets clicked on the (viewer, item) record and returns the number
// of matching rows. Repeating the call is harmless.
func (db *DB) MarkClicked(ctx context.Context, viewerID, itemID string) (matched int64, err error) {
	start := time.Now()
	defer observe("mark_clicked", "recommendations", start, &err)

	ctx, cancel := ensureContext(ctx)
	defer cancel()

	res, err := db.conn.ExecContext(ctx, db.rebind(`UPDATE recommendations SET clicked = TRUE WHERE viewer_id = ? AND item_id = ?`),
		viewerID, itemID)
	if err != nil {
		return 0, fmt.Errorf("failed to mark %s clicked for %s: %w", itemID, viewerID, err)
	}
	matched, err = res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to read affected rows: %w", err)
	}
	return matched, nil
}

// Stats summarizes click-through per reason for the viewer.
func (db *DB) Stats(ctx context.Context, viewerID string) (stats *recommend.Stats, err error) {
	start := time.Now()
	defer observe("stats", "recommendations", start, &err)

	ctx, cancel := ensureContext(ctx)
	defer cancel()

	rows, err := db.conn.QueryContext(ctx, db.rebind(`SELECT reason, COUNT(*), COUNT(*) FILTER (WHERE clicked)
		FROM recommendations
		WHERE viewer_id = ?
		GROUP BY reason
		ORDER BY reason`), viewerID)
	if err != nil {
		return nil, fmt.Errorf("failed to query recommendation stats: %w", err)
	}
	defer closeWithLog(rows, "rows")

	stats = &recommend.Stats{ViewerID: viewerID, ByReason: []recommend.ReasonStats{}}
	for rows.Next() {
		var (
			reason string
			rs     recommend.ReasonStats
		)
		if err := rows.Scan(&reason, &rs.Total, &rs.Clicked); err != nil {
			return nil, fmt.Errorf("failed to scan recommendation stats: %w", err)
		}
		rs.Reason = recommend.Reason(reason)
		stats.Total += rs.Total
		stats.Clicked += rs.Clicked
		stats.ByReason = append(stats.ByReason, rs)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate recommendation stats: %w", err)
	}
	return stats, nil
}

func (db *DB) queryRecords(ctx context.Context, stmt string, args ...interface{}) ([]recommend.Record, error) {
	rows, err := db.conn.QueryContext(ctx, db.rebind(stmt), args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query recommendations: %w", err)
	}
	defer closeWithLog(rows, "rows")

	records := []recommend.Record{}
	for rows.Next() {
		var (
			r      recommend.Record
			reason string
		)
		if err := rows.Scan(&r.ID, &r.ViewerID, &r.ItemID, &r.Score, &reason, &r.Clicked, &r.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan recommendation: %w", err)
		}
		r.Reason = recommend.Reason(reason)
		r.CreatedAt = r.CreatedAt.UTC()
		records = append(records, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate recommendations: %w", err)
	}
	return records, nil
}
