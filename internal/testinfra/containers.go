// Coldstart - Cold-Start Movie and TV Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/coldstart

//go:build integration

package testinfra

import (
	"context"
	"fmt"
	"net"
	"os/exec"
	"sync"
	"testing"
	"time"

	"github.com/docker/go-connections/nat"
	"github.com/testcontainers/testcontainers-go"
)

const defaultStartTimeout = 60 * time.Second

var dockerAvailable = sync.OnceValue(func() bool {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return exec.CommandContext(ctx, "docker", "info").Run() == nil
})

// RequireDocker skips t unless a Docker daemon answers. Short mode also skips.
// The daemon is checked once per test binary.
func RequireDocker(t *testing.T) {
	t.Helper()
	if testing.Short() {
		t.Skip("integration test skipped in short mode")
	}
	if !dockerAvailable() {
		t.Skip("integration test skipped: Docker not available")
	}
}

type containerOptions struct {
	image        string
	startTimeout time.Duration
}

// ContainerOption configures a test container.
type ContainerOption func(*containerOptions)

// WithImage overrides the container image.
func WithImage(image string) ContainerOption {
	return func(c *containerOptions) { c.image = image }
}

// WithStartTimeout bounds the wait for readiness.
func WithStartTimeout(timeout time.Duration) ContainerOption {
	return func(c *containerOptions) { c.startTimeout = timeout }
}

func resolveOptions(image string, opts []ContainerOption) containerOptions {
	cfg := containerOptions{image: image, startTimeout: defaultStartTimeout}
	for _, opt := range opts {
		opt(&cfg)
	}
	return cfg
}

// start runs req, registers termination with t.Cleanup and returns the
// container with the host address of port.
func start(ctx context.Context, t *testing.T, req testcontainers.ContainerRequest, port string) (testcontainers.Container, string) {
	t.Helper()

	c, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	if c != nil {
		t.Cleanup(func() {
			// The test context may already be cancelled.
			if err := c.Terminate(context.Background()); err != nil {
				t.Logf("terminate %s: %v", req.Image, err)
			}
		})
	}
	if err != nil {
		t.Fatalf("start %s: %v", req.Image, err)
	}

	addr, err := hostAddr(ctx, c, port)
	if err != nil {
		t.Fatalf("%s: %v", req.Image, err)
	}
	return c, addr
}

func hostAddr(ctx context.Context, c testcontainers.Container, port string) (string, error) {
	host, err := c.Host(ctx)
	if err != nil {
		return "", fmt.Errorf("container host: %w", err)
	}
	mapped, err := c.MappedPort(ctx, nat.Port(port))
	if err != nil {
		return "", fmt.Errorf("mapped port %s: %w", port, err)
	}
	return net.JoinHostPort(host, mapped.Port()), nil
}
