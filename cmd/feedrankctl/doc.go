// Feedrank - Personalized Recommendation and Ranking Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/feedrank

// Command feedrankctl is the operator CLI for feedrank.
//
// It works directly against the configured store (DUCKDB_PATH or
// DATABASE_DSN), so it can seed a catalog before the server starts and
// inspect feeds without going through HTTP.
//
//	feedrankctl migrate
//	feedrankctl seed --file catalog.yaml
//	feedrankctl home --viewer carol --limit 10
//	feedrankctl personalized carol
//	feedrankctl trending
//	feedrankctl related v1 --viewer carol
//	feedrankctl click carol v2
//	feedrankctl stats carol
//
// Feed and stats commands print a table; --json prints the raw response.
package main
