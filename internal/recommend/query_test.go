// Feedrank - Personalized Recommendation and Ranking Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/feedrank

package recommend

import (
	"reflect"
	"testing"
)

func TestQueryConstructors(t *testing.T) {
	t.Parallel()

	source := testItem("src", "alice", 0, 0, 1, "go", "db")
	exclude := NewExclusionSet([]string{"x", "a"})
	since := testNow

	tests := []struct {
		name string
		got  ContentQuery
		want ContentQuery
	}{
		{
			name: "tag affinity",
			got:  TagAffinityQuery([]string{"go"}, exclude, 10),
			want: ContentQuery{TagIDs: []string{"go"}, ExcludeIDs: []string{"a", "x"}, OrderBy: OrderByPublishedDesc, Limit: 10},
		},
		{
			name: "popularity",
			got:  PopularityQuery(exclude, &since, 4),
			want: ContentQuery{ExcludeIDs: []string{"a", "x"}, PublishedSince: &since, OrderBy: OrderByPopularity, Limit: 4},
		},
		{
			name: "trending",
			got:  TrendingQuery(since, 3),
			want: ContentQuery{PublishedSince: &since, OrderBy: OrderByPopularity, Limit: 3},
		},
		{
			name: "same creator excludes source",
			got:  SameCreatorQuery(&source, exclude, 2),
			want: ContentQuery{CreatorID: "alice", ExcludeIDs: []string{"a", "src", "x"}, OrderBy: OrderByPublishedDesc, Limit: 2},
		},
		{
			name: "similar tags excludes source creator",
			got:  SimilarTagsQuery(&source, nil, 2),
			want: ContentQuery{TagIDs: []string{"go", "db"}, ExcludeCreatorID: "alice", ExcludeIDs: []string{"src"}, OrderBy: OrderByPopularity, Limit: 2},
		},
		{
			name: "by ids",
			got:  ByIDsQuery([]string{"b", "a"}),
			want: ContentQuery{IDs: []string{"b", "a"}, OrderBy: OrderByPublishedDesc, Limit: 2},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if !reflect.DeepEqual(tt.got, tt.want) {
				t.Errorf("got %+v, want %+v", tt.got, tt.want)
			}
		})
	}
}

func TestContentQuery_Empty(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		q    ContentQuery
		want bool
	}{
		{"zero limit", ContentQuery{}, true},
		{"unconstrained", ContentQuery{Limit: 1}, false},
		{"empty tag filter", ContentQuery{TagIDs: []string{}, Limit: 5}, true},
		{"empty id filter", ContentQuery{IDs: []string{}, Limit: 5}, true},
		{"tag filter", ContentQuery{TagIDs: []string{"go"}, Limit: 5}, false},
	}
	for _, tt := range tests {
		if got := tt.q.Empty(); got != tt.want {
			t.Errorf("%s: Empty() = %v, want %v", tt.name, got, tt.want)
		}
	}
}

func TestOrderBy_String(t *testing.T) {
	t.Parallel()

	if OrderByPopularity.String() != "popularity" || OrderByPublishedDesc.String() != "published_desc" {
		t.Error("unexpected OrderBy names")
	}
	if OrderBy(99).String() != "unknown" {
		t.Error("unknown OrderBy should stringify as unknown")
	}
}
