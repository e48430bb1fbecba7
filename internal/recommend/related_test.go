// Feedrank - Personalized Recommendation and Ranking Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/feedrank

package recommend

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"sort"
	"testing"
)

// relatedFixture has 5 same-creator, 2 same-tag and 10 popular candidates
// around the source item "src".
func relatedFixture() (*mockStore, ContentItem) {
	store := newMockStore()
	source := testItem("src", "alice", 50, 0, 1, "go")
	store.addItem(source)

	for i := 0; i < 5; i++ {
		store.addItem(testItem(fmt.Sprintf("alice-%d", i), "alice", 1, 0, i+2))
	}
	store.addItem(testItem("bob-go", "bob", 5, 0, 1, "go"))
	store.addItem(testItem("carol-go", "carol", 4, 0, 1, "go"))
	for i := 0; i < 10; i++ {
		store.addItem(testItem(fmt.Sprintf("pop-%d", i), "dave", int64(1000+i), 0, 1))
	}
	return store, source
}

func countReasons(items []Candidate) map[Reason]int {
	counts := make(map[Reason]int)
	for _, c := range items {
		counts[c.Reason]++
	}
	return counts
}

func TestRelatedItemComposer_Partitions(t *testing.T) {
	t.Parallel()

	store, source := relatedFixture()
	composer := NewRelatedItemComposer(newTestGenerator(store, 2), NewRandSource(7))

	result, err := composer.Compose(context.Background(), &source, nil, 9)
	if err != nil {
		t.Fatalf("Compose() error = %v", err)
	}

	if len(result.Items) != 9 {
		t.Fatalf("len(items) = %d, want 9", len(result.Items))
	}
	if result.SameCreator != 3 || result.SimilarContent != 2 || result.Filler != 4 {
		t.Errorf("partitions = %d/%d/%d, want 3/2/4",
			result.SameCreator, result.SimilarContent, result.Filler)
	}

	counts := countReasons(result.Items)
	if counts[ReasonSameCreator] != 3 || counts[ReasonSimilarContent] != 2 || counts[ReasonPopular] != 4 {
		t.Errorf("reason counts = %v", counts)
	}

	seen := make(map[string]bool)
	for _, c := range result.Items {
		if c.Item.ID == source.ID {
			t.Error("source item returned")
		}
		if seen[c.Item.ID] {
			t.Errorf("item %s appears twice", c.Item.ID)
		}
		seen[c.Item.ID] = true
		if c.Reason == ReasonSimilarContent && c.Item.CreatorID == source.CreatorID {
			t.Errorf("similar item %s shares the source creator", c.Item.ID)
		}
	}
	if got := len(result.SimilarContentItems()); got != 2 {
		t.Errorf("SimilarContentItems() len = %d, want 2", got)
	}
}

func TestRelatedItemComposer_Bounds(t *testing.T) {
	t.Parallel()

	for _, limit := range []int{1, 2, 3, 4, 5, 8, 20} {
		t.Run(fmt.Sprintf("limit_%d", limit), func(t *testing.T) {
			t.Parallel()
			store, source := relatedFixture()
			composer := NewRelatedItemComposer(newTestGenerator(store, 2), NewRandSource(1))

			result, err := composer.Compose(context.Background(), &source, nil, limit)
			if err != nil {
				t.Fatalf("Compose() error = %v", err)
			}
			if len(result.Items) > limit {
				t.Errorf("len = %d exceeds limit %d", len(result.Items), limit)
			}
			if result.SameCreator > limit/3 {
				t.Errorf("same creator partition %d exceeds %d", result.SameCreator, limit/3)
			}
			if result.SimilarContent > limit/3 {
				t.Errorf("similar partition %d exceeds %d", result.SimilarContent, limit/3)
			}
		})
	}
}

func TestRelatedItemComposer_HonorsExclusion(t *testing.T) {
	t.Parallel()

	store, source := relatedFixture()
	composer := NewRelatedItemComposer(newTestGenerator(store, 2), NewRandSource(3))
	exclude := NewExclusionSet([]string{"alice-0", "bob-go", "pop-9"})

	result, err := composer.Compose(context.Background(), &source, exclude, 9)
	if err != nil {
		t.Fatalf("Compose() error = %v", err)
	}
	for _, c := range result.Items {
		if exclude.Contains(c.Item.ID) {
			t.Errorf("excluded item %s returned", c.Item.ID)
		}
	}
	if result.SimilarContent != 1 {
		t.Errorf("similar partition = %d, want 1", result.SimilarContent)
	}
	if len(result.Items) != 9 {
		t.Errorf("len = %d, want 9", len(result.Items))
	}
}

func TestRelatedItemComposer_ShuffleIsSeeded(t *testing.T) {
	t.Parallel()

	compose := func(seed int64) []string {
		store, source := relatedFixture()
		composer := NewRelatedItemComposer(newTestGenerator(store, 2), NewRandSource(seed))
		result, err := composer.Compose(context.Background(), &source, nil, 9)
		if err != nil {
			t.Fatalf("Compose() error = %v", err)
		}
		return candidateIDs(result.Items)
	}

	first := compose(99)
	second := compose(99)
	if !reflect.DeepEqual(first, second) {
		t.Errorf("same seed produced %v and %v", first, second)
	}

	sortedFirst := append([]string(nil), first...)
	sort.Strings(sortedFirst)
	sortedOther := compose(12345)
	sort.Strings(sortedOther)
	if !reflect.DeepEqual(sortedFirst, sortedOther) {
		t.Errorf("seed changed item selection: %v vs %v", sortedFirst, sortedOther)
	}
}

func TestShuffle_FisherYates(t *testing.T) {
	t.Parallel()

	pool := []Candidate{
		{Item: ContentItem{ID: "a"}},
		{Item: ContentItem{ID: "b"}},
		{Item: ContentItem{ID: "c"}},
	}
	shuffle(pool, &sequenceRand{values: []int{0}})

	if got, want := candidateIDs(pool), []string{"b", "c", "a"}; !reflect.DeepEqual(got, want) {
		t.Errorf("shuffle() = %v, want %v", got, want)
	}
}

func TestRelatedItemComposer_PropagatesErrors(t *testing.T) {
	t.Parallel()

	store, source := relatedFixture()
	store.findErr = errStoreDown
	composer := NewRelatedItemComposer(newTestGenerator(store, 2), NewRandSource(1))

	_, err := composer.Compose(context.Background(), &source, nil, 9)
	if !errors.Is(err, errStoreDown) {
		t.Errorf("Compose() error = %v, want %v", err, errStoreDown)
	}
}
