// Feedrank - Personalized Recommendation and Ranking Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/feedrank

// Package recommend selects, scores, deduplicates and orders content items
// for a viewer.
//
// # Components
//
//   - TagPreferenceExtractor: tag weights from the last 30 days of watches
//   - CandidateGenerator: tag-affinity, popularity, same-creator and
//     same-tag candidate pools
//   - ExclusionSet / Exclude: drops watched and already recommended items
//   - Score / PopularityScore: pure rank scoring
//   - TrendingProvider: popularity ranking over a trailing 7 day window
//   - RelatedItemComposer: creator / tag / filler blend, shuffled with a
//     seeded source
//   - Engine: the entry point for home, personalized, trending and related
//     feeds and for click feedback
//
// # Personalized Pipeline
//
// A personalized request first serves stored recommendations. When fewer than
// the requested count are stored, the engine computes the exclusion set and
// tag weights concurrently, generates tag-affinity candidates, scores and
// truncates them, backfills with popularity filler, persists each branch as
// one batch and merges the result with the stored records.
//
// # Error Policy
//
// Failures during generation are GenerationErrors. Under PolicyDegrade they
// are logged and the request continues with zero additional items; if nothing
// remains, trending items are served. Under PolicyPropagate they fail the
// request. Store errors on the trending, cached lookup and click paths always
// propagate. Context cancellation always propagates.
//
// # Usage
//
//	engine, err := recommend.NewEngine(recommend.DefaultConfig(), recommend.Stores{
//	    Content:         store,
//	    WatchHistory:    store,
//	    Viewers:         store,
//	    Recommendations: store,
//	}, logger)
//	resp, err := engine.GetHome(ctx, viewerID, 20)
package recommend
