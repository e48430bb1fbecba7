// Feedrank - Personalized Recommendation and Ranking Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/feedrank

package recommend

import (
	"context"
	"errors"
	"reflect"
	"testing"
	"time"
)

func newTestGenerator(store *mockStore, multiplier int) *CandidateGenerator {
	g := NewCandidateGenerator(store, multiplier)
	g.now = func() time.Time { return testNow }
	return g
}

func TestCandidateGenerator_TagAffinity(t *testing.T) {
	t.Parallel()

	store := newMockStore()
	store.addItem(testItem("new-go", "c1", 1, 0, 1, "go"))
	store.addItem(testItem("mid-go", "c2", 1, 0, 3, "go"))
	store.addItem(testItem("old-web", "c3", 1, 0, 9, "web"))
	store.addItem(testItem("seen-go", "c1", 1, 0, 2, "go"))
	store.addItem(testItem("rust", "c1", 1, 0, 1, "rust"))
	store.addItem(testItem("older-go", "c1", 1, 0, 20, "go"))

	gen := newTestGenerator(store, 2)
	weights := TagWeights{{TagID: "go", Weight: 2}, {TagID: "web", Weight: 1}}

	got, err := gen.TagAffinity(context.Background(), weights, NewExclusionSet([]string{"seen-go"}), 2)
	if err != nil {
		t.Fatalf("TagAffinity() error = %v", err)
	}

	want := []string{"new-go", "mid-go", "old-web", "older-go"}
	if ids := candidateIDs(got); !reflect.DeepEqual(ids, want) {
		t.Errorf("TagAffinity() = %v, want %v", ids, want)
	}
	for _, c := range got {
		if c.Reason != ReasonWatchHistory {
			t.Errorf("reason = %s, want %s", c.Reason, ReasonWatchHistory)
		}
	}
	if q := store.queries[0]; q.Limit != 4 || q.OrderBy != OrderByPublishedDesc {
		t.Errorf("query limit/order = %d/%s, want 4/published_desc", q.Limit, q.OrderBy)
	}
}

func TestCandidateGenerator_TagAffinityNoWeights(t *testing.T) {
	t.Parallel()

	store := newMockStore()
	store.addItem(testItem("a", "c1", 1, 0, 1, "go"))

	got, err := newTestGenerator(store, 2).TagAffinity(context.Background(), nil, nil, 5)
	if err != nil {
		t.Fatalf("TagAffinity() error = %v", err)
	}
	if len(got) != 0 {
		t.Errorf("TagAffinity() = %v, want empty", candidateIDs(got))
	}
	if calls := store.findCalls.Load(); calls != 0 {
		t.Errorf("Find calls = %d, want 0", calls)
	}
}

func TestCandidateGenerator_Popular(t *testing.T) {
	t.Parallel()

	store := newMockStore()
	store.addItem(testItem("a", "c1", 100, 5, 1))
	store.addItem(testItem("b", "c1", 300, 1, 20))
	store.addItem(testItem("c", "c1", 100, 9, 2))
	store.addItem(testItem("d", "c1", 50, 0, 3))

	gen := newTestGenerator(store, 2)

	t.Run("no window", func(t *testing.T) {
		got, err := gen.Popular(context.Background(), NewExclusionSet([]string{"d"}), 0, 10)
		if err != nil {
			t.Fatalf("Popular() error = %v", err)
		}
		if ids, want := candidateIDs(got), []string{"b", "c", "a"}; !reflect.DeepEqual(ids, want) {
			t.Errorf("Popular() = %v, want %v", ids, want)
		}
	})

	t.Run("seven day window", func(t *testing.T) {
		got, err := gen.Popular(context.Background(), nil, 7*24*time.Hour, 10)
		if err != nil {
			t.Fatalf("Popular() error = %v", err)
		}
		if ids, want := candidateIDs(got), []string{"c", "a", "d"}; !reflect.DeepEqual(ids, want) {
			t.Errorf("Popular() = %v, want %v", ids, want)
		}
	})
}

func TestCandidateGenerator_SameCreator(t *testing.T) {
	t.Parallel()

	store := newMockStore()
	source := testItem("src", "alice", 1, 0, 1, "go")
	store.addItem(source)
	store.addItem(testItem("a1", "alice", 1, 0, 2))
	store.addItem(testItem("a2", "alice", 1, 0, 3))
	store.addItem(testItem("b1", "bob", 1, 0, 1))

	got, err := newTestGenerator(store, 2).SameCreator(context.Background(), &source, nil, 5)
	if err != nil {
		t.Fatalf("SameCreator() error = %v", err)
	}
	if ids, want := candidateIDs(got), []string{"a1", "a2"}; !reflect.DeepEqual(ids, want) {
		t.Errorf("SameCreator() = %v, want %v", ids, want)
	}
}

func TestCandidateGenerator_SimilarTags(t *testing.T) {
	t.Parallel()

	store := newMockStore()
	source := testItem("src", "alice", 1, 0, 1, "go", "db")
	store.addItem(source)
	store.addItem(testItem("alice-go", "alice", 900, 0, 1, "go"))
	store.addItem(testItem("bob-go", "bob", 200, 0, 1, "go"))
	store.addItem(testItem("carol-db", "carol", 300, 0, 1, "db"))
	store.addItem(testItem("dave-web", "dave", 999, 0, 1, "web"))

	got, err := newTestGenerator(store, 2).SimilarTags(context.Background(), &source, nil, 5)
	if err != nil {
		t.Fatalf("SimilarTags() error = %v", err)
	}
	if ids, want := candidateIDs(got), []string{"carol-db", "bob-go"}; !reflect.DeepEqual(ids, want) {
		t.Errorf("SimilarTags() = %v, want %v", ids, want)
	}
	for _, c := range got {
		if c.Item.CreatorID == source.CreatorID {
			t.Errorf("item %s shares the source creator", c.Item.ID)
		}
	}
}

func TestCandidateGenerator_SimilarTagsUntaggedSource(t *testing.T) {
	t.Parallel()

	store := newMockStore()
	source := testItem("src", "alice", 1, 0, 1)
	store.addItem(source)
	store.addItem(testItem("bob-go", "bob", 1, 0, 1, "go"))

	got, err := newTestGenerator(store, 2).SimilarTags(context.Background(), &source, nil, 5)
	if err != nil {
		t.Fatalf("SimilarTags() error = %v", err)
	}
	if len(got) != 0 {
		t.Errorf("SimilarTags() = %v, want empty", candidateIDs(got))
	}
}

func TestCandidateGenerator_PropagatesStoreErrors(t *testing.T) {
	t.Parallel()

	store := newMockStore()
	store.findErr = errStoreDown

	_, err := newTestGenerator(store, 2).Popular(context.Background(), nil, 0, 3)
	if !errors.Is(err, errStoreDown) {
		t.Errorf("Popular() error = %v, want %v", err, errStoreDown)
	}
}

// excludingIgnoredStore returns every published item regardless of the query,
// to check that the generator filters what the store hands back.
type excludingIgnoredStore struct {
	*mockStore
}

func (s excludingIgnoredStore) Find(ctx context.Context, q ContentQuery) ([]ContentItem, error) {
	q.ExcludeIDs = nil
	return s.mockStore.Find(ctx, q)
}

func TestCandidateGenerator_ReappliesExclusion(t *testing.T) {
	t.Parallel()

	store := newMockStore()
	store.addItem(testItem("seen", "c1", 500, 0, 1))
	store.addItem(testItem("fresh", "c1", 100, 0, 1))

	gen := NewCandidateGenerator(excludingIgnoredStore{store}, 2)
	got, err := gen.Popular(context.Background(), NewExclusionSet([]string{"seen"}), 0, 5)
	if err != nil {
		t.Fatalf("Popular() error = %v", err)
	}
	if ids, want := candidateIDs(got), []string{"fresh"}; !reflect.DeepEqual(ids, want) {
		t.Errorf("Popular() = %v, want %v", ids, want)
	}
}
