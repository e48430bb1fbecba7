// Feedrank - Personalized Recommendation and Ranking Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/feedrank

package recommend

import (
	"math"
	"testing"
	"time"
)

func floatEquals(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestScore(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		item    ContentItem
		weights map[string]int
		want    float64
	}{
		{
			name:    "tag match with fresh item",
			item:    testItem("a", "c1", 100, 0, 5, "javascript"),
			weights: map[string]int{"javascript": 3},
			want:    3*3 + 100*0.01 + 25*2,
		},
		{
			name:    "likes count double in popularity",
			item:    testItem("b", "c1", 100, 50, 40),
			weights: nil,
			want:    (100 + 2*50) * 0.01,
		},
		{
			name:    "multiple matching tags sum",
			item:    testItem("c", "c1", 0, 0, 60, "go", "db", "web"),
			weights: map[string]int{"go": 2, "db": 1, "rust": 7},
			want:    (2 + 1) * 3,
		},
		{
			name:    "freshness capped at thirty days",
			item:    testItem("d", "c1", 0, 0, 30),
			weights: nil,
			want:    0,
		},
		{
			name:    "published today",
			item:    testItem("e", "c1", 0, 0, 0),
			weights: nil,
			want:    30 * 2,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := Score(&tt.item, tt.weights, testNow)
			if !floatEquals(got, tt.want) {
				t.Errorf("Score() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestScore_Deterministic(t *testing.T) {
	t.Parallel()

	item := testItem("a", "c1", 1234, 56, 3, "go", "web")
	weights := map[string]int{"go": 4, "web": 1}

	first := Score(&item, weights, testNow)
	for i := 0; i < 100; i++ {
		if got := Score(&item, weights, testNow); got != first {
			t.Fatalf("Score() call %d = %v, want %v", i, got, first)
		}
	}
}

func TestFreshnessScore(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		age  time.Duration
		want float64
	}{
		{"just published", 0, 30},
		{"partial day rounds down", 36 * time.Hour, 29},
		{"twenty nine and a half days", 29*24*time.Hour + 12*time.Hour, 1},
		{"exactly thirty days", 30 * 24 * time.Hour, 0},
		{"old item", 400 * 24 * time.Hour, 0},
		{"future publish date", -48 * time.Hour, 30},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			published := testNow.Add(-tt.age)
			item := ContentItem{ID: "x", PublishedAt: &published}
			if got := FreshnessScore(&item, testNow); !floatEquals(got, tt.want) {
				t.Errorf("FreshnessScore() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestFreshnessScore_FallsBackToCreatedAt(t *testing.T) {
	t.Parallel()

	item := ContentItem{ID: "draft", CreatedAt: testNow.Add(-10 * 24 * time.Hour)}
	if got := FreshnessScore(&item, testNow); !floatEquals(got, 20) {
		t.Errorf("FreshnessScore() = %v, want 20", got)
	}
}

func TestPopularityScore(t *testing.T) {
	t.Parallel()

	item := testItem("a", "c1", 500, 10, 2)
	if got := PopularityScore(&item); !floatEquals(got, 5.5) {
		t.Errorf("PopularityScore() = %v, want 5.5", got)
	}
}

// Three javascript watches give the tag weight 3, which outweighs a view
// count advantage of 400.
func TestScore_TagAffinityBeatsRawViews(t *testing.T) {
	t.Parallel()

	weights := map[string]int{"javascript": 3}
	tagged := testItem("js", "c1", 100, 0, 5, "javascript")
	untagged := testItem("plain", "c2", 500, 0, 5)

	taggedScore := Score(&tagged, weights, testNow)
	untaggedScore := Score(&untagged, weights, testNow)
	if taggedScore <= untaggedScore {
		t.Errorf("tagged score %v should exceed untagged score %v", taggedScore, untaggedScore)
	}
	if pop := PopularityScore(&untagged); taggedScore <= pop {
		t.Errorf("tagged score %v should exceed popularity score %v", taggedScore, pop)
	}
}

func TestScoreCandidates_StableOnTies(t *testing.T) {
	t.Parallel()

	pool := []Candidate{
		{Item: testItem("first", "c1", 10, 0, 50)},
		{Item: testItem("best", "c1", 900, 0, 50)},
		{Item: testItem("second", "c1", 10, 0, 50)},
		{Item: testItem("third", "c1", 10, 0, 50)},
	}
	scoreCandidates(pool, nil, testNow)

	want := []string{"best", "first", "second", "third"}
	for i, id := range want {
		if pool[i].Item.ID != id {
			t.Errorf("position %d = %s, want %s", i, pool[i].Item.ID, id)
		}
	}
}

func TestTruncate(t *testing.T) {
	t.Parallel()

	pool := []Candidate{{Item: ContentItem{ID: "a"}}, {Item: ContentItem{ID: "b"}}}

	if got := truncate(pool, 1); len(got) != 1 {
		t.Errorf("truncate(1) len = %d, want 1", len(got))
	}
	if got := truncate(pool, 5); len(got) != 2 {
		t.Errorf("truncate(5) len = %d, want 2", len(got))
	}
	if got := truncate(pool, -1); len(got) != 0 {
		t.Errorf("truncate(-1) len = %d, want 0", len(got))
	}
}
