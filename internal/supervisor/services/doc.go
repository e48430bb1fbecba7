// Feedrank - Personalized Recommendation and Ranking Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/feedrank

// Package services provides suture.Service wrappers for the long-running
// parts of the feedrank server.
//
//   - HTTPServerService: runs the API server and drains it on shutdown
//   - CheckpointService: periodically flushes the DuckDB write-ahead log
//
// Each wrapper implements fmt.Stringer so suture events name the service.
package services
