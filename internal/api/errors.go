// Feedrank - Personalized Recommendation and Ranking Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/feedrank

package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/tomtom215/feedrank/internal/database"
	"github.com/tomtom215/feedrank/internal/logging"
	"github.com/tomtom215/feedrank/internal/recommend"
	"github.com/tomtom215/feedrank/internal/validation"
)

// errorStatus maps an engine or store error to a status and code.
func errorStatus(err error) (int, string) {
	var validationErr *validation.RequestValidationError
	switch {
	case errors.Is(err, recommend.ErrNotFound):
		return http.StatusNotFound, ErrCodeNotFound
	case errors.As(err, &validationErr):
		return http.StatusBadRequest, validationErr.ToAPIError().Code
	case errors.Is(err, recommend.ErrInvalidRequest):
		return http.StatusBadRequest, ErrCodeBadRequest
	case errors.Is(err, database.ErrStoreUnavailable):
		return http.StatusServiceUnavailable, ErrCodeServiceUnavailable
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout, ErrCodeTimeout
	default:
		return http.StatusInternalServerError, ErrCodeInternalError
	}
}

// respondError renders err. Server-side failures are logged with the request
// context and answered with a generic message.
func respondError(w http.ResponseWriter, r *http.Request, err error) {
	status, code := errorStatus(err)
	rw := NewResponseWriter(w, r)

	var validationErr *validation.RequestValidationError
	if errors.As(err, &validationErr) {
		apiErr := validationErr.ToAPIError()
		rw.ErrorWithDetails(status, code, apiErr.Message, map[string]interface{}{"fields": apiErr.Fields})
		return
	}

	if status < http.StatusInternalServerError {
		rw.Error(status, code, err.Error())
		return
	}

	logging.Ctx(r.Context()).Error().
		Str("path", sanitizeLogValue(r.URL.Path)).
		Int("status", status).
		Err(err).
		Msg("API error")
	rw.Error(status, code, http.StatusText(status))
}

// sanitizeLogValue escapes control characters to prevent log injection.
func sanitizeLogValue(s string) string {
	var result strings.Builder
	result.Grow(len(s))
	for _, r := range s {
		if r < 0x20 || r == 0x7F {
			result.WriteString(fmt.Sprintf("\\x%02x", r))
		} else {
			result.WriteRune(r)
		}
	}
	return result.String()
}
