// Feedrank - Personalized Recommendation and Ranking Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/feedrank

package recommend

import (
	"math"
	"sort"
	"time"
)

// Scoring weights. Scores are only comparable within one generation batch.
const (
	tagWeightFactor        = 3.0
	popularityFactor       = 0.01
	freshnessFactor        = 2.0
	freshnessHorizonDays   = 30
	pureViewCountFactor    = 0.01
	pureLikeCountFactor    = 0.05
	likeToPopularityFactor = 2
)

// Score computes the composite rank score of an item for a viewer.
//
//	total = 3*tagScore + 0.01*(views + 2*likes) + 2*max(30 - daysOld, 0)
//
// tagScore sums the weights of the item's tags present in weights.
// Score is a pure function of its arguments.
func Score(item *ContentItem, weights map[string]int, now time.Time) float64 {
	tagScore := 0
	for _, t := range item.Tags {
		tagScore += weights[t.ID]
	}

	popularity := float64(item.ViewCount + likeToPopularityFactor*item.LikeCount)

	return float64(tagScore)*tagWeightFactor +
		popularity*popularityFactor +
		FreshnessScore(item, now)*freshnessFactor
}

// FreshnessScore returns max(30 - daysOld, 0) where daysOld counts whole days
// since publication. Items published in the future count as zero days old.
func FreshnessScore(item *ContentItem, now time.Time) float64 {
	age := now.Sub(item.referenceTime())
	if age < 0 {
		age = 0
	}
	daysOld := math.Floor(age.Hours() / 24)
	return math.Max(freshnessHorizonDays-daysOld, 0)
}

// PopularityScore is the score for items seeded without any tag signal.
func PopularityScore(item *ContentItem) float64 {
	return float64(item.ViewCount)*pureViewCountFactor + float64(item.LikeCount)*pureLikeCountFactor
}

// scoreCandidates assigns composite scores and sorts descending. The sort is
// stable so equal scores keep generator order.
func scoreCandidates(candidates []Candidate, weights TagWeights, now time.Time) {
	lookup := weights.Lookup()
	for i := range candidates {
		candidates[i].Score = Score(&candidates[i].Item, lookup, now)
	}
	sortByScore(candidates)
}

// scorePopularity assigns popularity-only scores and sorts descending.
func scorePopularity(candidates []Candidate) {
	for i := range candidates {
		candidates[i].Score = PopularityScore(&candidates[i].Item)
	}
	sortByScore(candidates)
}

func sortByScore(candidates []Candidate) {
	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].Score > candidates[j].Score
	})
}

// truncate caps a pool at n entries.
func truncate(candidates []Candidate, n int) []Candidate {
	if n < 0 {
		n = 0
	}
	if len(candidates) > n {
		return candidates[:n]
	}
	return candidates
}
