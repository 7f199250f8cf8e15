// Coldstart - Cold-Start Movie and TV Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/coldstart

// Package testinfra holds shared fixtures for the integration and handler
// tests.
//
// Behind the integration build tag, StartPostgres and StartRedis run real
// servers through testcontainers-go. Each container is terminated by
// t.Cleanup, and RequireDocker skips the test where no daemon is reachable:
//
//	func TestPostgresStore(t *testing.T) {
//	    testinfra.RequireDocker(t)
//	    pg := testinfra.StartPostgres(ctx, t)
//	    store, err := storage.OpenPostgres(ctx, pg.DSN)
//	    // ...
//	}
//
//	go test -tags integration ./...
//
// MockTMDBServer needs no tag. It serves fixed genre lists and result pages
// for the endpoints the catalog client calls, so handler and engine tests
// run the real client end to end.
package testinfra
