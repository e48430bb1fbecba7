// Feedrank - Personalized Recommendation and Ranking Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/feedrank

package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/tomtom215/feedrank/internal/middleware"
)

// Router wires handlers and middleware into a chi mux.
type Router struct {
	recommend     *RecommendHandler
	health        *HealthHandler
	chiMiddleware *ChiMiddleware
}

// NewRouter creates a router.
func NewRouter(recommend *RecommendHandler, health *HealthHandler, mw *ChiMiddleware) *Router {
	return &Router{
		recommend:     recommend,
		health:        health,
		chiMiddleware: mw,
	}
}

// SetupChi configures all HTTP routes.
func (router *Router) SetupChi() http.Handler {
	r := chi.NewRouter()

	r.Use(chiMiddleware(middleware.RequestID))
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(router.chiMiddleware.CORS()) // global so OPTIONS preflight is answered

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		NewResponseWriter(w, r).NotFound("route not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		NewResponseWriter(w, r).Error(http.StatusMethodNotAllowed, "METHOD_NOT_ALLOWED", "method not allowed")
	})

	r.Get("/health", router.health.Health)
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api/v1/recommendations", func(r chi.Router) {
		r.Use(router.chiMiddleware.RateLimitByIP())
		r.Use(chiMiddleware(middleware.PrometheusMetrics))
		r.Use(chiMiddleware(middleware.Compression))

		r.Get("/home", router.recommend.Home)
		r.Get("/personalized/{viewerID}", router.recommend.Personalized)
		r.Get("/trending", router.recommend.Trending)
		r.Get("/related/{itemID}", router.recommend.Related)
		r.Post("/clicks", router.recommend.Click)
		r.Get("/stats/{viewerID}", router.recommend.Stats)
	})

	return r
}
