// Coldstart - Cold-Start Movie and TV Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/coldstart

//go:build integration

package testinfra

import (
	"context"
	"testing"

	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

// DefaultRedisImage is the Redis image used by integration tests.
const DefaultRedisImage = "redis:7-alpine"

const redisPort = "6379/tcp"

// RedisContainer is a running Redis server.
type RedisContainer struct {
	testcontainers.Container
	// Addr is host:port, ready for redis.Options.Addr.
	Addr string
}

// StartRedis starts a Redis container that lives until t ends.
func StartRedis(ctx context.Context, t *testing.T, opts ...ContainerOption) *RedisContainer {
	t.Helper()
	cfg := resolveOptions(DefaultRedisImage, opts)

	c, addr := start(ctx, t, testcontainers.ContainerRequest{
		Image:        cfg.image,
		ExposedPorts: []string{redisPort},
		WaitingFor: wait.ForAll(
			wait.ForLog("Ready to accept connections"),
			wait.ForListeningPort(redisPort),
		).WithStartupTimeout(cfg.startTimeout),
	}, redisPort)

	return &RedisContainer{Container: c, Addr: addr}
}
