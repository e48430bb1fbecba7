// Feedrank - Personalized Recommendation and Ranking Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/feedrank

/*
Package middleware provides HTTP middleware for the feedrank API.

Middleware here uses the func(http.HandlerFunc) http.HandlerFunc shape; the
api package adapts it for chi's r.Use().

Key Components:

  - RequestID: propagates or generates X-Request-ID and stores it in the
    logging context
  - PrometheusMetrics: request counts, latency and in-flight gauge, labeled by
    chi route pattern
  - Compression: gzip for clients that accept it

Ordering:

RequestID runs first so every later log line and error envelope carries the
request id. PrometheusMetrics wraps the handler so the status code it records
is the one actually written.
*/
package middleware
