// Feedrank - Personalized Recommendation and Ranking Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/feedrank

// Package query provides SQL query building utilities for the database package.
//
// The WhereBuilder is the primary component, providing a fluent interface for
// constructing parameterized WHERE clauses:
//
//	wb := query.NewWhereBuilder()
//	wb.AddEquals("c.creator_id", creatorID)
//	wb.AddIn("t.tag_id", []string{"go", "db"})
//	wb.AddNotIn("c.id", excluded)
//	wb.AddSince("c.published_at", since)
//	whereClause, args := wb.Build()
//	// "c.creator_id = ? AND t.tag_id IN (?, ?) AND c.id NOT IN (?) AND c.published_at >= ?"
//
// All fragments use ? placeholders. Drivers that expect numbered
// placeholders (PostgreSQL) go through Rebind before execution:
//
//	sql = query.Rebind(query.PlaceholderDollar, sql)
//
// # Thread Safety
//
// WhereBuilder instances are not thread-safe. Create a new instance per query.
package query
