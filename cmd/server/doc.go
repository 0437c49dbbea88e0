// Cocktail Maestro - Cocktail Recipe Store and Recommendation Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cocktailmaestro

/*
Package main is the entry point for the Cocktail Maestro server.

Cocktail Maestro stores cocktail recipes and ingredient materials as JSON
index blobs, keeps recipe images in an external script-backed store, and
recommends recipes from a user's tag preference statistics.

# Application Architecture

	RootSupervisor ("cocktailmaestro")
	├── DataSupervisor ("data-layer")
	│   └── Index warmer (RECOMMEND_WARM_INTERVAL > 0)
	└── APISupervisor ("api-layer")
	    └── HTTP Server (chi router)

Component initialization order:

 1. Configuration: Koanf v2 with defaults, optional YAML file, environment
 2. Logging: zerolog with JSON or console output
 3. Object store: BadgerDB holding the recipe and material index blobs
 4. Catalog: recipe and material indexes sharing one TTL cache
 5. Image script client: rate limited, behind a gobreaker circuit breaker
 6. Firestore client (optional): reads a user's latest taste analyses
 7. Recommendation engine: tag similarity scoring over the recipe index
 8. Supervisor tree: suture v4 with sutureslog events
 9. HTTP server: graceful drain on SIGINT or SIGTERM

# Configuration

Priority: environment variables > config file (CONFIG_PATH) > defaults.

	HTTP_PORT=8787
	SECRET_API_KEY=<shared key>      # required by every mutating endpoint
	STORAGE_PATH=/data/badger
	GAS_ENDPOINT=https://script.google.com/macros/s/.../exec
	FIRESTORE_ENABLED=true
	FIREBASE_SERVICE_ACCOUNT=<base64 service account JSON>
	RECOMMEND_LIMIT=20
	LOG_LEVEL=info
	LOG_FORMAT=json

# Example Usage

	export SECRET_API_KEY=$(openssl rand -hex 24)
	export STORAGE_IN_MEMORY=true
	export LOG_FORMAT=console
	./cocktailmaestro
*/
package main
