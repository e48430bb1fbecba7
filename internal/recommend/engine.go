// Feedrank - Personalized Recommendation and Ranking Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/feedrank

package recommend

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

// ErrInvalidRequest is returned for requests missing a required identifier.
var ErrInvalidRequest = errors.New("invalid request")

// Engine orchestrates cached, generated and trending recommendations.
// It holds no per-viewer state between requests and is safe for concurrent use.
type Engine struct {
	config *Config
	logger zerolog.Logger
	stores Stores

	preferences *TagPreferenceExtractor
	generator   *CandidateGenerator
	trending    *TrendingProvider
	related     *RelatedItemComposer

	observer Observer
	now      func() time.Time
	newID    func() string

	requestCount  atomic.Int64
	cacheHits     atomic.Int64
	cacheMisses   atomic.Int64
	degradedCount atomic.Int64
	fallbackCount atomic.Int64
	clickCount    atomic.Int64
}

// NewEngine creates an engine over the given stores.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewEngine(cfg *Config, stores Stores, logger zerolog.Logger) (*Engine, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	if err := stores.validate(); err != nil {
		return nil, err
	}

	generator := NewCandidateGenerator(stores.Content, cfg.CandidateMultiplier)

	return &Engine{
		config:      cfg,
		logger:      logger.With().Str("component", "recommend").Logger(),
		stores:      stores,
		preferences: NewTagPreferenceExtractor(stores.WatchHistory, cfg.PreferenceWindow),
		generator:   generator,
		trending:    NewTrendingProvider(stores.Content, cfg.TrendingWindow),
		related:     NewRelatedItemComposer(generator, NewRandSource(cfg.Seed)),
		observer:    nopObserver{},
		now:         time.Now,
		newID:       uuid.NewString,
	}, nil
}

// SetObserver installs a metrics observer.
func (e *Engine) SetObserver(o Observer) {
	if o == nil {
		o = nopObserver{}
	}
	e.observer = o
}

// SetRandSource replaces the shuffle source of the related composer.
func (e *Engine) SetRandSource(rnd RandSource) {
	e.related.rnd = rnd
}

// SetClock replaces the time source of every component.
func (e *Engine) SetClock(now func() time.Time) {
	e.now = now
	e.preferences.now = now
	e.generator.now = now
	e.trending.now = now
}

// Config returns a copy of the engine configuration.
func (e *Engine) Config() *Config {
	return e.config.Clone()
}

// GetHome returns the home feed. Anonymous viewers get trending items.
func (e *Engine) GetHome(ctx context.Context, viewerID string, limit int) (*Response, error) {
	if viewerID == "" {
		return e.trendingResponse(ctx, SurfaceHome, limit)
	}
	return e.personalized(ctx, SurfaceHome, viewerID, limit)
}

// GetPersonalized returns recommendations for a known viewer.
func (e *Engine) GetPersonalized(ctx context.Context, viewerID string, limit int) (*Response, error) {
	if viewerID == "" {
		return nil, fmt.Errorf("viewer id is required: %w", ErrInvalidRequest)
	}
	return e.personalized(ctx, SurfacePersonalized, viewerID, limit)
}

// GetTrending returns the global trending feed. Store errors propagate.
func (e *Engine) GetTrending(ctx context.Context, limit int) (*Response, error) {
	return e.trendingResponse(ctx, SurfaceTrending, limit)
}

// GetRelated returns items related to itemID. When viewerID is set, the
// viewer's watched items are excluded and the similar-content partition is
// persisted as recommendations for the viewer.
func (e *Engine) GetRelated(ctx context.Context, itemID, viewerID string, limit int) (*Response, error) {
	start := e.now()
	e.requestCount.Add(1)

	if itemID == "" {
		return nil, fmt.Errorf("item id is required: %w", ErrInvalidRequest)
	}
	limit = e.config.clampLimit(limit)
	log := e.requestLogger(SurfaceRelated, viewerID)

	source, err := e.stores.Content.Get(ctx, itemID)
	if err != nil {
		e.observer.ObserveRequest(SurfaceRelated, outcomeFor(err), e.now().Sub(start))
		return nil, fmt.Errorf("failed to load source item %s: %w", itemID, err)
	}

	exclude := NewExclusionSet()
	if viewerID != "" {
		if err := e.requireViewer(ctx, viewerID); err != nil {
			e.observer.ObserveRequest(SurfaceRelated, outcomeFor(err), e.now().Sub(start))
			return nil, err
		}
		watched, err := e.stores.WatchHistory.WatchedItemIDs(ctx, viewerID)
		if err != nil {
			e.observer.ObserveRequest(SurfaceRelated, outcomeError, e.now().Sub(start))
			return nil, fmt.Errorf("failed to read watched items: %w", err)
		}
		exclude.Add(watched...)
	}

	result, err := e.related.Compose(ctx, source, exclude, limit)
	if err != nil {
		e.observer.ObserveRequest(SurfaceRelated, outcomeError, e.now().Sub(start))
		return nil, err
	}

	meta := ResponseMetadata{
		Surface:   SurfaceRelated,
		ViewerID:  viewerID,
		SourceID:  source.ID,
		Generated: len(result.Items),
	}

	if viewerID != "" {
		if err := e.persistSimilar(ctx, viewerID, result.SimilarContentItems()); err != nil {
			if herr := e.handleGenerationError(ctx, log, err); herr != nil {
				e.observer.ObserveRequest(SurfaceRelated, outcomeFor(herr), e.now().Sub(start))
				return nil, herr
			}
			meta.Degraded = true
		}
	}

	log.Debug().
		Str("item_id", itemID).
		Int("same_creator", result.SameCreator).
		Int("similar_content", result.SimilarContent).
		Int("filler", result.Filler).
		Msg("composed related items")

	e.observer.ObserveRequest(SurfaceRelated, outcomeOK, e.now().Sub(start))
	return e.buildResponse(result.Items, meta), nil
}

// MarkClicked records click feedback for a served recommendation. It is
// idempotent and reports how many records matched; zero matches is not an error.
func (e *Engine) MarkClicked(ctx context.Context, viewerID, itemID string) (int64, error) {
	if viewerID == "" || itemID == "" {
		return 0, fmt.Errorf("viewer id and item id are required: %w", ErrInvalidRequest)
	}

	matched, err := e.stores.Recommendations.MarkClicked(ctx, viewerID, itemID)
	if err != nil {
		return 0, fmt.Errorf("failed to mark recommendation clicked: %w", err)
	}

	e.clickCount.Add(1)
	e.observer.ObserveClick(matched > 0)
	e.logger.Debug().
		Str("viewer_id", viewerID).
		Str("item_id", itemID).
		Int64("matched", matched).
		Msg("recorded click feedback")

	return matched, nil
}

// Stats returns click feedback statistics for a viewer.
func (e *Engine) Stats(ctx context.Context, viewerID string) (*Stats, error) {
	if viewerID == "" {
		return nil, fmt.Errorf("viewer id is required: %w", ErrInvalidRequest)
	}
	if err := e.requireViewer(ctx, viewerID); err != nil {
		return nil, err
	}
	stats, err := e.stores.Recommendations.Stats(ctx, viewerID)
	if err != nil {
		return nil, fmt.Errorf("failed to load recommendation stats: %w", err)
	}
	return stats, nil
}

// personalized runs the cache, generate, backfill, persist and merge pipeline.
func (e *Engine) personalized(ctx context.Context, surface, viewerID string, limit int) (*Response, error) {
	start := e.now()
	e.requestCount.Add(1)

	limit = e.config.clampLimit(limit)
	log := e.requestLogger(surface, viewerID)

	if err := e.requireViewer(ctx, viewerID); err != nil {
		e.observer.ObserveRequest(surface, outcomeFor(err), e.now().Sub(start))
		return nil, err
	}

	cached, err := e.cachedCandidates(ctx, viewerID, limit)
	if err != nil {
		e.observer.ObserveRequest(surface, outcomeError, e.now().Sub(start))
		return nil, err
	}

	meta := ResponseMetadata{Surface: surface, ViewerID: viewerID}

	if len(cached) >= limit {
		e.cacheHits.Add(1)
		e.observer.ObserveCache(true)
		meta.Cached = limit
		e.observer.ObserveRequest(surface, outcomeOK, e.now().Sub(start))
		return e.buildResponse(cached[:limit], meta), nil
	}
	e.cacheMisses.Add(1)
	e.observer.ObserveCache(false)

	generated, err := e.generate(ctx, viewerID, limit-len(cached), candidateIDs(cached))
	if err != nil {
		if herr := e.handleGenerationError(ctx, log, err); herr != nil {
			e.observer.ObserveRequest(surface, outcomeFor(herr), e.now().Sub(start))
			return nil, herr
		}
		generated = nil
		meta.Degraded = true
	}

	merged := Exclude(append(cached, generated...), nil)
	merged = truncate(merged, limit)
	meta.Cached = len(cached)
	meta.Generated = len(merged) - len(cached)
	if meta.Generated < 0 {
		meta.Generated = 0
	}

	if len(merged) == 0 {
		e.fallbackCount.Add(1)
		fallback, err := e.trending.Trending(ctx, limit)
		if err != nil {
			e.observer.ObserveRequest(surface, outcomeError, e.now().Sub(start))
			return nil, err
		}
		merged = fallback
		meta.Fallback = true
		log.Debug().Int("count", len(merged)).Msg("no personalized items, serving trending")
	}

	log.Debug().
		Int("limit", limit).
		Int("cached", meta.Cached).
		Int("generated", meta.Generated).
		Bool("degraded", meta.Degraded).
		Msg("served personalized recommendations")

	e.observer.ObserveRequest(surface, outcomeOK, e.now().Sub(start))
	return e.buildResponse(merged, meta), nil
}

// cachedCandidates loads the viewer's stored recommendations and hydrates
// them into items. Records whose item is no longer published are skipped.
func (e *Engine) cachedCandidates(ctx context.Context, viewerID string, limit int) ([]Candidate, error) {
	records, err := e.stores.Recommendations.GetCached(ctx, viewerID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to read cached recommendations: %w", err)
	}
	if len(records) == 0 {
		return nil, nil
	}

	ids := make([]string, 0, len(records))
	for i := range records {
		ids = append(ids, records[i].ItemID)
	}

	items, err := e.stores.Content.Find(ctx, ByIDsQuery(ids))
	if err != nil {
		return nil, fmt.Errorf("failed to load cached items: %w", err)
	}

	byID := make(map[string]ContentItem, len(items))
	for i := range items {
		byID[items[i].ID] = items[i]
	}

	out := make([]Candidate, 0, len(records))
	for i := range records {
		item, ok := byID[records[i].ItemID]
		if !ok {
			continue
		}
		out = append(out, Candidate{Item: item, Reason: records[i].Reason, Score: records[i].Score})
	}
	return Exclude(out, nil), nil
}

// generate produces and persists up to needed new recommendations.
// Every error it returns is a *GenerationError.
func (e *Engine) generate(ctx context.Context, viewerID string, needed int, cachedIDs []string) ([]Candidate, error) {
	var (
		watched     []string
		recommended []string
		weights     TagWeights
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		ids, err := e.stores.WatchHistory.WatchedItemIDs(gctx, viewerID)
		if err != nil {
			return generationError(StageExclusion, err)
		}
		watched = ids
		return nil
	})
	g.Go(func() error {
		ids, err := e.stores.Recommendations.RecommendedItemIDs(gctx, viewerID)
		if err != nil {
			return generationError(StageExclusion, err)
		}
		recommended = ids
		return nil
	})
	g.Go(func() error {
		w, err := e.preferences.Extract(gctx, viewerID)
		if err != nil {
			return generationError(StagePreferences, err)
		}
		weights = w
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	exclude := NewExclusionSet(watched, recommended, cachedIDs)
	now := e.now()

	tagPool, err := e.generator.TagAffinity(ctx, weights, exclude, needed)
	if err != nil {
		return nil, generationError(StageTagAffinity, err)
	}
	scoreCandidates(tagPool, weights, now)
	tagPool = truncate(tagPool, needed)

	var filler []Candidate
	if remaining := needed - len(tagPool); remaining > 0 {
		filler, err = e.generator.Popular(ctx, exclude.With(candidateIDs(tagPool)...), e.config.FillerWindow, remaining)
		if err != nil {
			return nil, generationError(StageBackfill, err)
		}
		scorePopularity(filler)
		filler = truncate(filler, remaining)
	}

	// Each branch is persisted as its own batch.
	if err := e.persist(ctx, viewerID, Exclude(tagPool, exclude), now); err != nil {
		return nil, err
	}
	if err := e.persist(ctx, viewerID, Exclude(filler, exclude), now); err != nil {
		return nil, err
	}

	generated := make([]Candidate, 0, len(tagPool)+len(filler))
	generated = append(generated, tagPool...)
	generated = append(generated, filler...)
	return generated, nil
}

// persistSimilar scores the similar-content partition of a related response
// with the viewer's tag weights and stores it as one batch.
func (e *Engine) persistSimilar(ctx context.Context, viewerID string, similar []Candidate) error {
	if len(similar) == 0 {
		return nil
	}
	weights, err := e.preferences.Extract(ctx, viewerID)
	if err != nil {
		return generationError(StagePreferences, err)
	}

	pool := make([]Candidate, len(similar))
	copy(pool, similar)
	now := e.now()
	scoreCandidates(pool, weights, now)

	return e.persist(ctx, viewerID, pool, now)
}

// persist writes one generation batch.
func (e *Engine) persist(ctx context.Context, viewerID string, pool []Candidate, now time.Time) error {
	if len(pool) == 0 {
		return nil
	}

	records := make([]Record, 0, len(pool))
	for _, c := range pool {
		records = append(records, Record{
			ID:        e.newID(),
			ViewerID:  viewerID,
			ItemID:    c.Item.ID,
			Score:     c.Score,
			Reason:    c.Reason,
			CreatedAt: now,
		})
	}

	if _, err := e.stores.Recommendations.PersistBatch(ctx, records); err != nil {
		return generationError(StagePersist, err)
	}
	e.observer.ObserveGenerated(pool[0].Reason, len(records))
	return nil
}

// handleGenerationError applies the configured ErrorPolicy. It returns nil
// when the failure is absorbed.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func (e *Engine) handleGenerationError(ctx context.Context, log zerolog.Logger, err error) error {
	stage := "unknown"
	var genErr *GenerationError
	if errors.As(err, &genErr) {
		stage = genErr.Stage
	}
	e.observer.ObserveGenerationFailure(stage)

	if isCancellation(ctx, err) {
		return fmt.Errorf("recommendation generation aborted: %w", errors.Join(ctx.Err(), err))
	}
	if e.config.GenerationErrorPolicy == PolicyPropagate {
		return err
	}

	e.degradedCount.Add(1)
	log.Warn().Err(err).Str("stage", stage).Msg("recommendation generation failed, continuing without new items")
	return nil
}

func (e *Engine) trendingResponse(ctx context.Context, surface string, limit int) (*Response, error) {
	start := e.now()
	e.requestCount.Add(1)
	limit = e.config.clampLimit(limit)

	pool, err := e.trending.Trending(ctx, limit)
	if err != nil {
		e.observer.ObserveRequest(surface, outcomeError, e.now().Sub(start))
		return nil, err
	}

	e.observer.ObserveRequest(surface, outcomeOK, e.now().Sub(start))
	return e.buildResponse(pool, ResponseMetadata{Surface: surface, Generated: len(pool)}), nil
}

// requireViewer returns ErrNotFound for unknown viewers.
func (e *Engine) requireViewer(ctx context.Context, viewerID string) error {
	exists, err := e.stores.Viewers.Exists(ctx, viewerID)
	if err != nil {
		return fmt.Errorf("failed to look up viewer: %w", err)
	}
	if !exists {
		return fmt.Errorf("viewer %s: %w", viewerID, ErrNotFound)
	}
	return nil
}

func (e *Engine) requestLogger(surface, viewerID string) zerolog.Logger {
	ctx := e.logger.With().Str("surface", surface)
	if viewerID != "" {
		ctx = ctx.Str("viewer_id", viewerID)
	}
	return ctx.Logger()
}

func (e *Engine) buildResponse(pool []Candidate, meta ResponseMetadata) *Response {
	items := make([]RecommendedItem, 0, len(pool))
	for i := range pool {
		items = append(items, ToRecommendedItem(&pool[i]))
	}
	meta.Count = len(items)
	meta.GeneratedAt = e.now()
	return &Response{Items: items, Metadata: meta}
}

// EngineMetrics is a snapshot of engine counters.
type EngineMetrics struct {
	Requests    int64 `json:"requests"`
	CacheHits   int64 `json:"cache_hits"`
	CacheMisses int64 `json:"cache_misses"`
	Degraded    int64 `json:"degraded"`
	Fallbacks   int64 `json:"fallbacks"`
	Clicks      int64 `json:"clicks"`
}

// Metrics returns a snapshot of the engine counters.
func (e *Engine) Metrics() EngineMetrics {
	return EngineMetrics{
		Requests:    e.requestCount.Load(),
		CacheHits:   e.cacheHits.Load(),
		CacheMisses: e.cacheMisses.Load(),
		Degraded:    e.degradedCount.Load(),
		Fallbacks:   e.fallbackCount.Load(),
		Clicks:      e.clickCount.Load(),
	}
}
