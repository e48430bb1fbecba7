// Feedrank - Personalized Recommendation and Ranking Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/feedrank

// Package database provides the relational store behind the recommendation
// engine.
//
// # Overview
//
// DB owns a *sql.DB opened with one of two drivers:
//
//   - duckdb (default): embedded DuckDB file or ":memory:" via github.com/duckdb/duckdb-go/v2
//   - postgres: a PostgreSQL server via github.com/lib/pq
//
// All SQL is written with ? placeholders and rebound to $n for PostgreSQL.
// The schema is portable across both engines and created idempotently on open.
//
// # Files
//
//   - database.go: lifecycle (open, pool, initialize, checkpoint, close)
//   - database_schema.go: tables and indexes
//   - content_store.go: ContentQuery translation and catalog reads
//   - watch_history.go: watch events and tag preferences input
//   - viewers.go: viewer existence and upserts
//   - recommendations.go: persisted recommendations, clicks and stats
//   - breaker.go: circuit breaker wrapper over all store interfaces
//   - catalog.go: YAML catalog loading and seeding
//
// # Store Interfaces
//
// DB satisfies recommend.ContentStore, recommend.WatchHistoryStore,
// recommend.ViewerStore and recommend.RecommendationStore:
//
//	db, err := database.New(&cfg.Database)
//	stores := database.NewGuardedStore(db, cfg.Database.Breaker).Stores()
//	engine, err := recommend.NewEngine(engineCfg, stores, logger)
//
// # Thread Safety
//
// DB is safe for concurrent use. Each write batch runs in its own transaction.
package database
