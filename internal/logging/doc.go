// Feedrank - Personalized Recommendation and Ranking Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/feedrank

// Package logging provides centralized zerolog-based logging for feedrank.
//
// # Quick Start
//
//	logging.Init(logging.Config{Level: "info", Format: "json"})
//
//	logging.Info().Msg("Server starting")
//	logging.Error().Err(err).Msg("Operation failed")
//
//	// Request-scoped fields (request_id, viewer_id) are added by Ctx
//	logging.Ctx(ctx).Info().Int("limit", limit).Msg("Serving home feed")
//
// Components take a zerolog.Logger and derive their own child logger:
//
//	engine, err := recommend.NewEngine(cfg, stores, logging.WithComponent("recommend"))
//
// # slog Interop
//
// Libraries that only accept *slog.Logger (sutureslog) get a zerolog-backed
// logger from NewSlogLogger.
//
// # Best Practices
//
// Always terminate log chains with .Msg() or .Send():
//
//	logging.Info().Str("key", "value").Msg("message")  // Correct
//	logging.Info().Str("key", "value")                 // WRONG - log not emitted
package logging
