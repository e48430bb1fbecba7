// Feedrank - Personalized Recommendation and Ranking Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/feedrank

// Package config provides layered configuration loading for feedrank.
//
// Configuration is assembled with Koanf v2 from three sources, lowest priority
// first:
//
//  1. Defaults: built-in values from defaultConfig()
//  2. Config File: optional YAML file (CONFIG_PATH or config.yaml)
//  3. Environment Variables: explicit names such as DATABASE_DRIVER or HTTP_PORT
//
// A .env file in the working directory is read with godotenv before the
// environment layer, so local development does not need exported variables.
// Variables already present in the process environment win over .env values.
//
// # Environment Variables
//
// Only names present in the envMappings table are consumed; unrelated
// environment variables never leak into the configuration.
//
//	DATABASE_DRIVER=postgres
//	DATABASE_DSN=postgres://feedrank@localhost/feedrank?sslmode=disable
//	HTTP_PORT=8080
//	LOG_LEVEL=debug
//	RECOMMEND_ERROR_POLICY=propagate
//
// # Thread Safety
//
// Config is immutable after Load() and safe for concurrent reads.
package config
