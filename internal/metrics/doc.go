// Feedrank - Personalized Recommendation and Ranking Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/feedrank

/*
Package metrics provides Prometheus metrics collection and export for observability.

Collectors are registered on the default registry through promauto and exposed
at /metrics in Prometheus text format:

	curl http://localhost:8080/metrics

# Available Metrics

Recommendations:
  - feedrank_recommendation_requests_total{surface, outcome}
  - feedrank_recommendation_duration_seconds{surface}
  - feedrank_recommendation_cache_lookups_total{result}
  - feedrank_recommendations_generated_total{reason}
  - feedrank_generation_failures_total{stage}
  - feedrank_recommendation_clicks_total{matched}

Store:
  - feedrank_db_query_duration_seconds{operation, table}
  - feedrank_db_query_errors_total{operation, table}
  - circuit_breaker_state{name}, circuit_breaker_requests_total{name, result}

HTTP:
  - api_requests_total{method, endpoint, status_code}
  - api_request_duration_seconds{method, endpoint}
  - api_active_requests

# Engine Integration

Observer adapts the collectors to the recommendation engine's observer hook:

	engine.SetObserver(metrics.NewObserver())
*/
package metrics
