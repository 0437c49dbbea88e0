// Cocktail Maestro - Cocktail Recipe Store and Recommendation Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cocktailmaestro

/*
Package supervisor provides the suture supervision tree for the server.

# Tree

	cocktailmaestro (root)
	├── data-layer
	│   └── index-warmer   (when recommend.warm_interval > 0)
	└── api-layer
	    └── http-server

Each layer restarts its own children with suture's failure threshold,
decay and backoff. Supervisor events are logged through sutureslog, which
writes to an slog.Logger; cmd/server hands it logging.NewSlogLogger so the
events land in the same zerolog stream as everything else.

# Usage

	tree, err := supervisor.NewSupervisorTree(logging.NewSlogLogger(), supervisor.TreeConfig{
	    ShutdownTimeout: cfg.Server.ShutdownTimeout,
	})
	if err != nil {
	    return err
	}
	tree.AddDataService(services.NewIndexWarmerService(recipes, warmCfg, logger))
	tree.AddAPIService(services.NewHTTPServerService(srv, cfg.Server.ShutdownTimeout, logger))

	if err := tree.Serve(ctx); err != nil && !errors.Is(err, context.Canceled) {
	    return err
	}

See package services for the service implementations.
*/
package supervisor
