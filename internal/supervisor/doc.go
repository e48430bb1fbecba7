// Feedrank - Personalized Recommendation and Ranking Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/feedrank

/*
Package supervisor provides process supervision for the feedrank server
using suture v4.

The tree isolates store maintenance from request serving:

	RootSupervisor ("feedrank")
	├── DataSupervisor ("data-layer")
	│   └── CheckpointService (duckdb only, DUCKDB_CHECKPOINT_INTERVAL > 0)
	└── APISupervisor ("api-layer")
	    └── HTTPServerService

Crashed services are restarted with suture's backoff. Supervisor events
are logged through sutureslog using the zerolog-backed slog handler from
internal/logging.

Usage:

	tree, err := supervisor.NewSupervisorTree(logging.NewSlogLogger(), supervisor.DefaultTreeConfig())
	if err != nil {
	    return err
	}
	tree.AddDataService(services.NewCheckpointService(db, cfg.Database.CheckpointInterval))
	tree.AddAPIService(services.NewHTTPServerService(srv, cfg.Server.ShutdownTimeout))

	errCh := tree.ServeBackground(ctx)

Services are defined in the services subpackage so they can be tested
without building a tree.
*/
package supervisor
