// Feedrank - Personalized Recommendation and Ranking Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/feedrank

package recommend

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sort"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"
)

var errStoreDown = errors.New("store unavailable")

// testNow is the fixed clock used across tests.
var testNow = time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)

// mockStore implements every store interface in memory.
type mockStore struct {
	mu sync.Mutex

	items   map[string]ContentItem
	viewers map[string]bool
	watches []WatchHistoryEntry
	records []Record

	findErr        error
	getErr         error
	historyErr     error
	watchedErr     error
	viewerErr      error
	cachedErr      error
	recommendedErr error
	persistErr     error
	clickErr       error

	findCalls    atomic.Int32
	persistCalls atomic.Int32
	queries      []ContentQuery
}

func newMockStore() *mockStore {
	return &mockStore{
		items:   make(map[string]ContentItem),
		viewers: make(map[string]bool),
	}
}

func (m *mockStore) addItem(item ContentItem) {
	if item.Status == "" {
		item.Status = StatusPublished
	}
	if item.Visibility == "" {
		item.Visibility = VisibilityPublic
	}
	if item.Creator.ID == "" {
		item.Creator = Creator{ID: item.CreatorID, Username: "user-" + item.CreatorID}
	}
	m.items[item.ID] = item
}

func (m *mockStore) addWatch(viewerID, itemID string, at time.Time) {
	item := m.items[itemID]
	m.watches = append(m.watches, WatchHistoryEntry{
		ViewerID:  viewerID,
		ItemID:    itemID,
		WatchedAt: at,
		Tags:      item.Tags,
	})
}

func (m *mockStore) Find(_ context.Context, q ContentQuery) ([]ContentItem, error) {
	m.findCalls.Add(1)
	m.mu.Lock()
	defer m.mu.Unlock()
	m.queries = append(m.queries, q)

	if m.findErr != nil {
		return nil, m.findErr
	}

	ids := toSet(q.IDs)
	tags := toSet(q.TagIDs)
	excluded := toSet(q.ExcludeIDs)

	var out []ContentItem
	for _, item := range m.items {
		if item.Status != StatusPublished || item.Visibility != VisibilityPublic || item.PublishedAt == nil {
			continue
		}
		if q.IDs != nil {
			if _, ok := ids[item.ID]; !ok {
				continue
			}
		}
		if q.TagIDs != nil && !anyTag(item, tags) {
			continue
		}
		if q.CreatorID != "" && item.CreatorID != q.CreatorID {
			continue
		}
		if q.ExcludeCreatorID != "" && item.CreatorID == q.ExcludeCreatorID {
			continue
		}
		if _, ok := excluded[item.ID]; ok {
			continue
		}
		if q.PublishedSince != nil && item.PublishedAt.Before(*q.PublishedSince) {
			continue
		}
		out = append(out, item)
	}

	sort.Slice(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if q.OrderBy == OrderByPopularity {
			if a.ViewCount != b.ViewCount {
				return a.ViewCount > b.ViewCount
			}
			if a.LikeCount != b.LikeCount {
				return a.LikeCount > b.LikeCount
			}
			return a.ID < b.ID
		}
		if !a.PublishedAt.Equal(*b.PublishedAt) {
			return a.PublishedAt.After(*b.PublishedAt)
		}
		return a.ID < b.ID
	})

	if q.Offset > 0 {
		if q.Offset >= len(out) {
			return nil, nil
		}
		out = out[q.Offset:]
	}
	if q.Limit > 0 && len(out) > q.Limit {
		out = out[:q.Limit]
	}
	return out, nil
}

func (m *mockStore) Get(_ context.Context, id string) (*ContentItem, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.getErr != nil {
		return nil, m.getErr
	}
	item, ok := m.items[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &item, nil
}

func (m *mockStore) FindSince(_ context.Context, viewerID string, since time.Time) ([]WatchHistoryEntry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.historyErr != nil {
		return nil, m.historyErr
	}
	var out []WatchHistoryEntry
	for _, w := range m.watches {
		if w.ViewerID == viewerID && !w.WatchedAt.Before(since) {
			out = append(out, w)
		}
	}
	return out, nil
}

func (m *mockStore) WatchedItemIDs(_ context.Context, viewerID string) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.watchedErr != nil {
		return nil, m.watchedErr
	}
	var out []string
	for _, w := range m.watches {
		if w.ViewerID == viewerID {
			out = append(out, w.ItemID)
		}
	}
	return out, nil
}

func (m *mockStore) Exists(_ context.Context, viewerID string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.viewerErr != nil {
		return false, m.viewerErr
	}
	return m.viewers[viewerID], nil
}

func (m *mockStore) GetCached(_ context.Context, viewerID string, limit int) ([]Record, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.cachedErr != nil {
		return nil, m.cachedErr
	}
	var out []Record
	for _, r := range m.records {
		if r.ViewerID == viewerID {
			out = append(out, r)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Score > out[j].Score })
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (m *mockStore) RecommendedItemIDs(_ context.Context, viewerID string) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.recommendedErr != nil {
		return nil, m.recommendedErr
	}
	var out []string
	for _, r := range m.records {
		if r.ViewerID == viewerID {
			out = append(out, r.ItemID)
		}
	}
	return out, nil
}

func (m *mockStore) PersistBatch(_ context.Context, records []Record) ([]Record, error) {
	m.persistCalls.Add(1)
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.persistErr != nil {
		return nil, m.persistErr
	}
	for _, rec := range records {
		replaced := false
		for i := range m.records {
			if m.records[i].ViewerID == rec.ViewerID && m.records[i].ItemID == rec.ItemID {
				m.records[i].Score = rec.Score
				m.records[i].Reason = rec.Reason
				replaced = true
			}
		}
		if !replaced {
			m.records = append(m.records, rec)
		}
	}
	return records, nil
}

func (m *mockStore) MarkClicked(_ context.Context, viewerID, itemID string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.clickErr != nil {
		return 0, m.clickErr
	}
	var n int64
	for i := range m.records {
		if m.records[i].ViewerID == viewerID && m.records[i].ItemID == itemID {
			m.records[i].Clicked = true
			n++
		}
	}
	return n, nil
}

func (m *mockStore) Stats(_ context.Context, viewerID string) (*Stats, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	stats := &Stats{ViewerID: viewerID}
	byReason := make(map[Reason]*ReasonStats)
	for _, r := range m.records {
		if r.ViewerID != viewerID {
			continue
		}
		rs, ok := byReason[r.Reason]
		if !ok {
			rs = &ReasonStats{Reason: r.Reason}
			byReason[r.Reason] = rs
		}
		rs.Total++
		stats.Total++
		if r.Clicked {
			rs.Clicked++
			stats.Clicked++
		}
	}
	for _, rs := range byReason {
		stats.ByReason = append(stats.ByReason, *rs)
	}
	return stats, nil
}

func (m *mockStore) recordsFor(viewerID string) []Record {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []Record
	for _, r := range m.records {
		if r.ViewerID == viewerID {
			out = append(out, r)
		}
	}
	return out
}

func (m *mockStore) stores() Stores {
	return Stores{Content: m, WatchHistory: m, Viewers: m, Recommendations: m}
}

func toSet(ids []string) map[string]struct{} {
	set := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		set[id] = struct{}{}
	}
	return set
}

func anyTag(item ContentItem, tags map[string]struct{}) bool {
	for _, t := range item.Tags {
		if _, ok := tags[t.ID]; ok {
			return true
		}
	}
	return false
}

// publishedDaysAgo returns a pointer to testNow minus d days.
func publishedDaysAgo(d int) *time.Time {
	t := testNow.Add(-time.Duration(d) * 24 * time.Hour)
	return &t
}

// testItem builds a published public item.
func testItem(id, creator string, views, likes int64, daysAgo int, tags ...string) ContentItem {
	item := ContentItem{
		ID:          id,
		Title:       "Title " + id,
		CreatorID:   creator,
		Creator:     Creator{ID: creator, Username: "user-" + creator},
		ViewCount:   views,
		LikeCount:   likes,
		PublishedAt: publishedDaysAgo(daysAgo),
		CreatedAt:   *publishedDaysAgo(daysAgo),
	}
	for _, t := range tags {
		item.Tags = append(item.Tags, Tag{ID: t, Name: t})
	}
	return item
}

// sequenceRand returns a fixed sequence of values for deterministic shuffles.
type sequenceRand struct {
	values []int
	pos    int
}

func (s *sequenceRand) Intn(n int) int {
	if len(s.values) == 0 {
		return 0
	}
	v := s.values[s.pos%len(s.values)] % n
	s.pos++
	return v
}

// recordingObserver counts observer callbacks.
type recordingObserver struct {
	mu        sync.Mutex
	requests  map[string]int
	cacheHits int
	misses    int
	generated map[Reason]int
	failures  map[string]int
	clicks    int
}

func newRecordingObserver() *recordingObserver {
	return &recordingObserver{
		requests:  make(map[string]int),
		generated: make(map[Reason]int),
		failures:  make(map[string]int),
	}
}

func (o *recordingObserver) ObserveRequest(surface, outcome string, _ time.Duration) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.requests[surface+"/"+outcome]++
}

func (o *recordingObserver) ObserveCache(hit bool) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if hit {
		o.cacheHits++
	} else {
		o.misses++
	}
}

func (o *recordingObserver) ObserveGenerated(reason Reason, count int) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.generated[reason] += count
}

func (o *recordingObserver) ObserveGenerationFailure(stage string) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.failures[stage]++
}

func (o *recordingObserver) ObserveClick(bool) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.clicks++
}

// newTestEngine builds an engine over store with a fixed clock.
func newTestEngine(t *testing.T, store *mockStore, cfg *Config) *Engine {
	t.Helper()
	engine, err := NewEngine(cfg, store.stores(), zerolog.New(io.Discard))
	if err != nil {
		t.Fatalf("NewEngine() error = %v", err)
	}
	engine.SetClock(func() time.Time { return testNow })
	seq := 0
	engine.newID = func() string {
		seq++
		return fmt.Sprintf("rec-%03d", seq)
	}
	return engine
}

func responseIDs(resp *Response) []string {
	ids := make([]string, 0, len(resp.Items))
	for _, item := range resp.Items {
		ids = append(ids, item.ID)
	}
	return ids
}

func assertUnique(t *testing.T, resp *Response) {
	t.Helper()
	seen := make(map[string]bool)
	for _, item := range resp.Items {
		if seen[item.ID] {
			t.Errorf("duplicate item %s in response", item.ID)
		}
		seen[item.ID] = true
	}
}
