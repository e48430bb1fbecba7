// Feedrank - Personalized Recommendation and Ranking Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/feedrank

package api

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/tomtom215/feedrank/internal/recommend"
)

// FeedRequest carries the parameters shared by the feed endpoints. Limit is
// clamped by the engine; only its syntax is checked here.
type FeedRequest struct {
	ViewerID string `json:"viewer_id" validate:"omitempty,entityid"`
	ItemID   string `json:"item_id" validate:"omitempty,entityid"`
	Limit    int    `json:"limit"`
}

// ClickRequest is the body of POST /clicks.
type ClickRequest struct {
	ViewerID string `json:"viewerId" validate:"required,entityid"`
	ItemID   string `json:"itemId" validate:"required,entityid"`
}

// ClickResponse reports how many recommendations the click matched.
type ClickResponse struct {
	ViewerID string `json:"viewerId"`
	ItemID   string `json:"itemId"`
	Matched  int64  `json:"matched"`
}

// parseLimit reads the optional limit query parameter. Absent means zero,
// which the engine replaces with its default.
func parseLimit(r *http.Request) (int, error) {
	raw := strings.TrimSpace(r.URL.Query().Get("limit"))
	if raw == "" {
		return 0, nil
	}
	limit, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("limit must be an integer: %w", recommend.ErrInvalidRequest)
	}
	return limit, nil
}
