// Coldstart - Cold-Start Movie and TV Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/coldstart

//go:build integration

package testinfra

import (
	"context"
	"fmt"
	"testing"

	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

const (
	// DefaultPostgresImage is the PostgreSQL image used by integration tests.
	DefaultPostgresImage = "postgres:16-alpine"

	postgresPort = "5432/tcp"
	postgresCred = "coldstart" // user, password and database
)

// PostgresContainer is a running PostgreSQL server.
type PostgresContainer struct {
	testcontainers.Container
	DSN string
}

// StartPostgres starts a PostgreSQL container that lives until t ends.
//
//	pg := testinfra.StartPostgres(ctx, t)
//	store, err := storage.OpenPostgres(ctx, pg.DSN)
func StartPostgres(ctx context.Context, t *testing.T, opts ...ContainerOption) *PostgresContainer {
	t.Helper()
	cfg := resolveOptions(DefaultPostgresImage, opts)

	c, addr := start(ctx, t, testcontainers.ContainerRequest{
		Image:        cfg.image,
		ExposedPorts: []string{postgresPort},
		Env: map[string]string{
			"POSTGRES_USER":     postgresCred,
			"POSTGRES_PASSWORD": postgresCred,
			"POSTGRES_DB":       postgresCred,
		},
		// The entrypoint restarts the server once after init.
		WaitingFor: wait.ForAll(
			wait.ForLog("database system is ready to accept connections").WithOccurrence(2),
			wait.ForListeningPort(postgresPort),
		).WithStartupTimeout(cfg.startTimeout),
	}, postgresPort)

	return &PostgresContainer{
		Container: c,
		DSN:       fmt.Sprintf("postgres://%[1]s:%[1]s@%[2]s/%[1]s?sslmode=disable", postgresCred, addr),
	}
}
