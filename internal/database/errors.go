// Feedrank - Personalized Recommendation and Ranking Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/feedrank

package database

import (
	"database/sql"
	"errors"
	"io"
	"time"

	"github.com/google/uuid"

	"github.com/tomtom215/feedrank/internal/logging"
	"github.com/tomtom215/feedrank/internal/metrics"
)

// ErrStoreUnavailable is returned when the circuit breaker rejects a call.
var ErrStoreUnavailable = errors.New("store unavailable")

// closeWithLog closes a resource and logs any error
func closeWithLog(closer io.Closer, resourceType string) {
	if closer == nil {
		return
	}
	if err := closer.Close(); err != nil {
		logging.Warn().Str("type", resourceType).Err(err).Msg("Failed to close resource")
	}
}

// closeQuietly closes a resource and explicitly ignores any error
func closeQuietly(closer io.Closer) {
	if closer != nil {
		_ = closer.Close() // Explicitly ignore error - cleanup is best-effort
	}
}

// rollbackQuietly rolls back a transaction that may already be committed.
func rollbackQuietly(tx *sql.Tx) {
	if err := tx.Rollback(); err != nil && !errors.Is(err, sql.ErrTxDone) {
		logging.Warn().Err(err).Msg("Failed to roll back transaction")
	}
}

// observe records a store query duration and error. Use with defer and a
// named error result.
func observe(operation, table string, start time.Time, err *error) {
	var qerr error
	if err != nil {
		qerr = *err
	}
	metrics.RecordDBQuery(operation, table, time.Since(start), qerr)
}

func newRecordID() string {
	return uuid.NewString()
}
