// Feedrank - Personalized Recommendation and Ranking Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/feedrank

package api

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/goccy/go-json"

	"github.com/tomtom215/feedrank/internal/logging"
	"github.com/tomtom215/feedrank/internal/recommend"
	"github.com/tomtom215/feedrank/internal/validation"
)

// maxClickBody bounds POST /clicks bodies.
const maxClickBody = 4 << 10

// Recommender is the engine surface the handlers depend on.
type Recommender interface {
	GetHome(ctx context.Context, viewerID string, limit int) (*recommend.Response, error)
	GetPersonalized(ctx context.Context, viewerID string, limit int) (*recommend.Response, error)
	GetTrending(ctx context.Context, limit int) (*recommend.Response, error)
	GetRelated(ctx context.Context, itemID, viewerID string, limit int) (*recommend.Response, error)
	MarkClicked(ctx context.Context, viewerID, itemID string) (int64, error)
	Stats(ctx context.Context, viewerID string) (*recommend.Stats, error)
}

// RecommendHandler handles recommendation API endpoints.
type RecommendHandler struct {
	engine  Recommender
	timeout time.Duration
}

// NewRecommendHandler creates a handler. Each request gets timeout as its
// deadline; zero leaves the request context alone.
func NewRecommendHandler(engine Recommender, timeout time.Duration) *RecommendHandler {
	return &RecommendHandler{engine: engine, timeout: timeout}
}

// requestContext attaches the viewer to the logging context and applies the
// request deadline.
func (h *RecommendHandler) requestContext(r *http.Request, viewerID string) (context.Context, context.CancelFunc) {
	ctx := logging.ContextWithViewerID(r.Context(), viewerID)
	if h.timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, h.timeout)
}

// parseFeedRequest reads limit and validates the ids.
func parseFeedRequest(r *http.Request, viewerID, itemID string) (*FeedRequest, error) {
	limit, err := parseLimit(r)
	if err != nil {
		return nil, err
	}
	req := &FeedRequest{ViewerID: viewerID, ItemID: itemID, Limit: limit}
	if verr := validation.ValidateStruct(req); verr != nil {
		return nil, verr
	}
	return req, nil
}

// Home handles GET /api/v1/recommendations/home.
// Without viewer_id the response is the trending feed.
func (h *RecommendHandler) Home(w http.ResponseWriter, r *http.Request) {
	req, err := parseFeedRequest(r, r.URL.Query().Get("viewer_id"), "")
	if err != nil {
		respondError(w, r, err)
		return
	}

	ctx, cancel := h.requestContext(r, req.ViewerID)
	defer cancel()

	h.respondFeed(w, r, func() (*recommend.Response, error) {
		return h.engine.GetHome(ctx, req.ViewerID, req.Limit)
	})
}

// Personalized handles GET /api/v1/recommendations/personalized/{viewerID}.
func (h *RecommendHandler) Personalized(w http.ResponseWriter, r *http.Request) {
	req, err := parseFeedRequest(r, chi.URLParam(r, "viewerID"), "")
	if err != nil {
		respondError(w, r, err)
		return
	}

	ctx, cancel := h.requestContext(r, req.ViewerID)
	defer cancel()

	h.respondFeed(w, r, func() (*recommend.Response, error) {
		return h.engine.GetPersonalized(ctx, req.ViewerID, req.Limit)
	})
}

// Trending handles GET /api/v1/recommendations/trending.
func (h *RecommendHandler) Trending(w http.ResponseWriter, r *http.Request) {
	req, err := parseFeedRequest(r, "", "")
	if err != nil {
		respondError(w, r, err)
		return
	}

	ctx, cancel := h.requestContext(r, "")
	defer cancel()

	h.respondFeed(w, r, func() (*recommend.Response, error) {
		return h.engine.GetTrending(ctx, req.Limit)
	})
}

// Related handles GET /api/v1/recommendations/related/{itemID}.
func (h *RecommendHandler) Related(w http.ResponseWriter, r *http.Request) {
	req, err := parseFeedRequest(r, r.URL.Query().Get("viewer_id"), chi.URLParam(r, "itemID"))
	if err != nil {
		respondError(w, r, err)
		return
	}

	ctx, cancel := h.requestContext(r, req.ViewerID)
	defer cancel()

	h.respondFeed(w, r, func() (*recommend.Response, error) {
		return h.engine.GetRelated(ctx, req.ItemID, req.ViewerID, req.Limit)
	})
}

// Click handles POST /api/v1/recommendations/clicks.
// A click on an item that was never recommended is accepted with matched=0.
func (h *RecommendHandler) Click(w http.ResponseWriter, r *http.Request) {
	var req ClickRequest
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxClickBody))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		respondError(w, r, fmt.Errorf("malformed click body: %w", recommend.ErrInvalidRequest))
		return
	}
	if verr := validation.ValidateStruct(&req); verr != nil {
		respondError(w, r, verr)
		return
	}

	ctx, cancel := h.requestContext(r, req.ViewerID)
	defer cancel()

	matched, err := h.engine.MarkClicked(ctx, req.ViewerID, req.ItemID)
	if err != nil {
		respondError(w, r, err)
		return
	}

	NewResponseWriter(w, r).Success(ClickResponse{
		ViewerID: req.ViewerID,
		ItemID:   req.ItemID,
		Matched:  matched,
	})
}

// Stats handles GET /api/v1/recommendations/stats/{viewerID}.
func (h *RecommendHandler) Stats(w http.ResponseWriter, r *http.Request) {
	req, err := parseFeedRequest(r, chi.URLParam(r, "viewerID"), "")
	if err != nil {
		respondError(w, r, err)
		return
	}

	ctx, cancel := h.requestContext(r, req.ViewerID)
	defer cancel()

	stats, err := h.engine.Stats(ctx, req.ViewerID)
	if err != nil {
		respondError(w, r, err)
		return
	}
	NewResponseWriter(w, r).Success(stats)
}

func (h *RecommendHandler) respondFeed(w http.ResponseWriter, r *http.Request, fetch func() (*recommend.Response, error)) {
	resp, err := fetch()
	if err != nil {
		respondError(w, r, err)
		return
	}
	NewResponseWriter(w, r).Success(resp)
}
