// Feedrank - Personalized Recommendation and Ranking Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/feedrank

package api

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/tomtom215/feedrank/internal/config"
	"github.com/tomtom215/feedrank/internal/recommend"
)

func TestHealth(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		pingErr    error
		breaker    string
		wantStatus int
		wantBody   string
	}{
		{"healthy", nil, "closed", http.StatusOK, `"status":"healthy"`},
		{"store down", errors.New("connection refused"), "closed", http.StatusServiceUnavailable, `"database_connected":false`},
		{"breaker open", nil, "open", http.StatusServiceUnavailable, `"status":"degraded"`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			breaker := tt.breaker
			h := NewHealthHandler(fakePinger{err: tt.pingErr}, func() string { return breaker }, func() recommend.EngineMetrics {
				return recommend.EngineMetrics{Requests: 7}
			})
			rec := httptest.NewRecorder()
			h.Health(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

			if rec.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", rec.Code, tt.wantStatus)
			}
			body := rec.Body.String()
			if !strings.Contains(body, tt.wantBody) || !strings.Contains(body, `"requests":7`) {
				t.Errorf("body = %s", body)
			}
		})
	}
}

func TestRouter_MetricsAndCORS(t *testing.T) {
	t.Parallel()

	srv := newTestServer(&fakeEngine{}, time.Second)

	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), "go_goroutines") {
		t.Errorf("/metrics status = %d", rec.Code)
	}

	preflight := httptest.NewRequest(http.MethodOptions, "/api/v1/recommendations/trending", nil)
	preflight.Header.Set("Origin", "https://app.example")
	preflight.Header.Set("Access-Control-Request-Method", http.MethodGet)
	rec = httptest.NewRecorder()
	srv.ServeHTTP(rec, preflight)
	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "https://app.example" {
		t.Errorf("Access-Control-Allow-Origin = %q", got)
	}
}

func TestRouter_RateLimitByIP(t *testing.T) {
	t.Parallel()

	mw := NewChiMiddleware(ChiMiddlewareConfigFromServer(&config.ServerConfig{
		CORSOrigins:     []string{"*"},
		RateLimitReqs:   1,
		RateLimitWindow: time.Minute,
	}))
	srv := NewRouter(
		NewRecommendHandler(&fakeEngine{}, time.Second),
		NewHealthHandler(fakePinger{}, nil, nil),
		mw,
	).SetupChi()

	codes := make([]int, 0, 2)
	for i := 0; i < 2; i++ {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/recommendations/trending", nil)
		req.RemoteAddr = "203.0.113.9:4711"
		rec := httptest.NewRecorder()
		srv.ServeHTTP(rec, req)
		codes = append(codes, rec.Code)
	}
	if codes[0] != http.StatusOK || codes[1] != http.StatusTooManyRequests {
		t.Errorf("status codes = %v, want [200 429]", codes)
	}

	// Health stays outside the API rate limit.
	for i := 0; i < 3; i++ {
		req := httptest.NewRequest(http.MethodGet, "/health", nil)
		req.RemoteAddr = "203.0.113.9:4711"
		rec := httptest.NewRecorder()
		srv.ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			t.Fatalf("/health status = %d", rec.Code)
		}
	}
}

func TestRouter_GzipFeed(t *testing.T) {
	t.Parallel()

	srv := newTestServer(&fakeEngine{}, time.Second)
	req := httptest.NewRequest(http.MethodGet, "/api/v1/recommendations/trending", nil)
	req.Header.Set("Accept-Encoding", "gzip")
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)

	if rec.Header().Get("Content-Encoding") != "gzip" {
		t.Errorf("Content-Encoding = %q, want gzip", rec.Header().Get("Content-Encoding"))
	}
}
