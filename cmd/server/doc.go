// Feedrank - Personalized Recommendation and Ranking Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/feedrank

/*
Package main is the entry point for the feedrank HTTP server.

The server answers home, personalized, trending and related feed requests
and records click feedback. Process supervision uses suture v4:

	RootSupervisor ("feedrank")
	├── DataSupervisor ("data-layer")
	│   └── CheckpointService (duckdb)
	└── APISupervisor ("api-layer")
	    └── HTTPServerService

Component initialization order:

 1. Configuration: koanf v2 (.env, defaults, config.yaml, environment)
 2. Logging: zerolog global logger
 3. Database: DuckDB (default) or PostgreSQL, schema migrated on open
 4. Store breaker: gobreaker in front of every store call
 5. Engine: recommend.Engine with the Prometheus observer
 6. Router: chi with request id, CORS, rate limiting and metrics
 7. Supervisor tree: started in the background until SIGINT/SIGTERM

# Configuration

Common environment variables:

	DATABASE_DRIVER=duckdb|postgres
	DUCKDB_PATH=/data/feedrank.duckdb
	DATABASE_DSN=postgres://feedrank@db/feedrank?sslmode=disable
	HTTP_PORT=8080
	LOG_LEVEL=info
	RECOMMEND_ERROR_POLICY=degrade

See internal/config for the full list.

# Example

	export DUCKDB_PATH=./feedrank.duckdb
	feedrankctl seed --file catalog.yaml
	./server

	curl 'localhost:8080/api/v1/recommendations/home?viewer_id=carol&limit=10'
*/
package main
