// Feedrank - Personalized Recommendation and Ranking Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/feedrank

/*
Package api provides the HTTP layer for feedrank.

Handlers are thin adapters over recommend.Engine: they parse and validate
parameters, attach a request deadline, call the engine and render the result
in the APIResponse envelope.

Endpoints:

	GET  /api/v1/recommendations/home?viewer_id=&limit=
	GET  /api/v1/recommendations/personalized/{viewerID}?limit=
	GET  /api/v1/recommendations/trending?limit=
	GET  /api/v1/recommendations/related/{itemID}?viewer_id=&limit=
	POST /api/v1/recommendations/clicks          {"viewerId": "...", "itemId": "..."}
	GET  /api/v1/recommendations/stats/{viewerID}
	GET  /health
	GET  /metrics

Error Mapping:

	recommend.ErrNotFound          404 NOT_FOUND
	recommend.ErrInvalidRequest    400 BAD_REQUEST
	validation failures            400 VALIDATION_ERROR
	database.ErrStoreUnavailable   503 SERVICE_UNAVAILABLE
	context.DeadlineExceeded       504 TIMEOUT
	anything else                  500 INTERNAL_ERROR

Middleware Stack (outermost first):

	RequestID -> RealIP -> Recoverer -> CORS -> rate limit (per IP) ->
	PrometheusMetrics -> Compression -> handler
*/
package api
