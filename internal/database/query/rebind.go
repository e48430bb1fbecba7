// Feedrank - Personalized Recommendation and Ranking Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/feedrank

package query

import (
	"strconv"
	"strings"
)

// PlaceholderStyle is the bind parameter syntax a driver expects.
type PlaceholderStyle int

const (
	// PlaceholderQuestion uses ? markers (DuckDB, SQLite, MySQL).
	PlaceholderQuestion PlaceholderStyle = iota
	// PlaceholderDollar uses $1, $2, ... markers (PostgreSQL).
	PlaceholderDollar
)

// Rebind rewrites ? placeholders into the given style. Question marks inside
// single-quoted string literals are left untouched.
func Rebind(style PlaceholderStyle, sql string) string {
	if style != PlaceholderDollar || !strings.Contains(sql, "?") {
		return sql
	}

	var b strings.Builder
	b.Grow(len(sql) + 16)

	n := 0
	inQuote := false
	for i := 0; i < len(sql); i++ {
		ch := sql[i]
		switch {
		case ch == '\'':
			inQuote = !inQuote
			b.WriteByte(ch)
		case ch == '?' && !inQuote:
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
		default:
			b.WriteByte(ch)
		}
	}
	return b.String()
}
