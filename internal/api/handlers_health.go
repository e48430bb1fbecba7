// Feedrank - Personalized Recommendation and Ranking Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/feedrank

package api

import (
	"context"
	"net/http"
	"time"

	"github.com/tomtom215/feedrank/internal/recommend"
)

// Pinger checks store connectivity.
type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthStatus is the /health payload.
type HealthStatus struct {
	Status            string                  `json:"status"`
	DatabaseConnected bool                    `json:"database_connected"`
	Breaker           string                  `json:"breaker,omitempty"`
	Uptime            float64                 `json:"uptime_seconds"`
	Engine            recommend.EngineMetrics `json:"engine"`
}

// HealthHandler serves /health.
type HealthHandler struct {
	db        Pinger
	breaker   func() string
	engine    func() recommend.EngineMetrics
	startTime time.Time
}

// NewHealthHandler creates a health handler. breaker and engine may be nil.
func NewHealthHandler(db Pinger, breaker func() string, engine func() recommend.EngineMetrics) *HealthHandler {
	return &HealthHandler{
		db:        db,
		breaker:   breaker,
		engine:    engine,
		startTime: time.Now(),
	}
}

// Health reports store connectivity. A failed ping answers 503 so load
// balancers drain the instance.
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	status := HealthStatus{
		Status:            "healthy",
		DatabaseConnected: h.db != nil && h.db.Ping(ctx) == nil,
		Uptime:            time.Since(h.startTime).Seconds(),
	}
	if h.breaker != nil {
		status.Breaker = h.breaker()
	}
	if h.engine != nil {
		status.Engine = h.engine()
	}

	rw := NewResponseWriter(w, r)
	if !status.DatabaseConnected || status.Breaker == "open" {
		status.Status = "degraded"
		rw.writeJSON(http.StatusServiceUnavailable, APIResponse{Success: false, Data: status, Meta: rw.meta()})
		return
	}
	rw.Success(status)
}
