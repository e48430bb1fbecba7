// Feedrank - Personalized Recommendation and Ranking Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/feedrank

package query

import (
	"fmt"
	"strings"
	"time"
)

// WhereBuilder constructs SQL WHERE clauses with parameterized arguments.
//
// Example usage:
//
//	wb := query.NewWhereBuilder()
//	wb.AddIn("tag_id", []string{"go", "rust"})
//	whereClause, args := wb.Build()
//	// tag_id IN (?, ?)
type WhereBuilder struct {
	clauses []string
	args    []interface{}
}

// NewWhereBuilder creates a new WhereBuilder instance.
func NewWhereBuilder() *WhereBuilder {
	return &WhereBuilder{
		clauses: []string{},
		args:    []interface{}{},
	}
}

// AddClause adds a raw WHERE clause with its arguments.
// This is useful for custom conditions not covered by helper methods.
//
// Parameters:
//   - clause: SQL condition fragment (e.g., "status = ?")
//   - args: Arguments to bind to placeholders in the clause
func (wb *WhereBuilder) AddClause(clause string, args ...interface{}) *WhereBuilder {
	wb.clauses = append(wb.clauses, clause)
	wb.args = append(wb.args, args...)
	return wb
}

// AddEquals adds "column = ?". Empty values are skipped.
func (wb *WhereBuilder) AddEquals(column, value string) *WhereBuilder {
	if value == "" {
		return wb
	}
	return wb.AddClause(column+" = ?", value)
}

// AddNotEquals adds "column <> ?". Empty values are skipped.
func (wb *WhereBuilder) AddNotEquals(column, value string) *WhereBuilder {
	if value == "" {
		return wb
	}
	return wb.AddClause(column+" <> ?", value)
}

// AddIn adds a membership filter using an IN clause.
// Generates "column IN (?, ?, ...)". An empty slice is skipped; callers that
// need "match nothing" semantics for an empty list must check before building.
func (wb *WhereBuilder) AddIn(column string, values []string) *WhereBuilder {
	if len(values) == 0 {
		return wb
	}
	return wb.AddClause(fmt.Sprintf("%s IN (%s)", column, Placeholders(len(values))), stringArgs(values)...)
}

// AddNotIn adds an exclusion filter using NOT IN. An empty slice is skipped.
func (wb *WhereBuilder) AddNotIn(column string, values []string) *WhereBuilder {
	if len(values) == 0 {
		return wb
	}
	return wb.AddClause(fmt.Sprintf("%s NOT IN (%s)", column, Placeholders(len(values))), stringArgs(values)...)
}

// AddSince adds an inclusive lower time bound. Nil is skipped.
func (wb *WhereBuilder) AddSince(column string, since *time.Time) *WhereBuilder {
	if since == nil {
		return wb
	}
	return wb.AddClause(column+" >= ?", *since)
}

// Build constructs the final WHERE clause and returns it with arguments.
// Clauses are joined with "AND". Returns ("1=1", []) if no clauses were added.
func (wb *WhereBuilder) Build() (string, []interface{}) {
	if len(wb.clauses) == 0 {
		return "1=1", wb.args
	}
	return strings.Join(wb.clauses, " AND "), wb.args
}

// BuildWithPrefix returns the clause prefixed with "WHERE ", or an empty
// string when no clauses were added.
func (wb *WhereBuilder) BuildWithPrefix() (string, []interface{}) {
	if len(wb.clauses) == 0 {
		return "", wb.args
	}
	return "WHERE " + strings.Join(wb.clauses, " AND "), wb.args
}

// Count returns the number of clauses added.
func (wb *WhereBuilder) Count() int {
	return len(wb.clauses)
}

// IsEmpty reports whether no clauses have been added.
func (wb *WhereBuilder) IsEmpty() bool {
	return len(wb.clauses) == 0
}

// Placeholders returns n comma-separated ? markers.
func Placeholders(n int) string {
	if n <= 0 {
		return ""
	}
	return strings.TrimSuffix(strings.Repeat("?, ", n), ", ")
}

func stringArgs(values []string) []interface{} {
	args := make([]interface{}, len(values))
	for i, v := range values {
		args[i] = v
	}
	return args
}
