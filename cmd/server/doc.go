// Coldstart - Cold-Start Movie and TV Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/coldstart

/*
Package main is the entry point of the coldstart recommendation server.

The server captures onboarding answers and liked titles, builds a preference
profile from them, and ranks TMDB discovery and similarity results against
that profile. Users without any watch history get recommendations from the
questionnaire alone.

# Supervision

	RootSupervisor ("coldstart")
	├── DataSupervisor ("data-layer")
	│   └── taxonomy-warmup
	└── APISupervisor ("api-layer")
	    └── http-server

Initialization order:

 1. Configuration: koanf with defaults, optional YAML, .env and environment
 2. Logging: zerolog, JSON or console
 3. Storage: badger (default) or PostgreSQL
 4. Catalog: TMDB client behind a circuit breaker, optional Redis taxonomy cache
 5. Recommendation engine and profile builder
 6. Supervisor tree and HTTP server

A missing TMDB_API_KEY fails configuration validation, so the process exits
before serving.

# Configuration

Common environment variables:

	HTTP_PORT             listen port (default 8080)
	TMDB_API_KEY          catalog credential (required)
	TMDB_LANGUAGE         catalog language (default ru-RU)
	STORAGE_DRIVER        badger or postgres
	BADGER_PATH           badger directory (default /data/coldstart)
	POSTGRES_DSN          PostgreSQL connection string
	REDIS_ADDR            shared taxonomy cache, empty to disable
	LOG_LEVEL, LOG_FORMAT logging

CONFIG_PATH points at an optional YAML file; a .env file in the working
directory is loaded without overriding the environment.

# Shutdown

SIGINT or SIGTERM cancels the root context. The HTTP server drains within
10s and the store is closed after the tree stops.
*/
package main
