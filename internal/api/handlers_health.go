// Coldstart - Cold-Start Movie and TV Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/coldstart

package api

import (
	"context"
	"net/http"
	"time"

	"github.com/sony/gobreaker/v2"

	"github.com/tomtom215/coldstart/internal/models"
)

// healthPingTimeout bounds the storage ping of a health check.
const healthPingTimeout = 2 * time.Second

// HealthStatus is the body of the health endpoint.
type HealthStatus struct {
	Status            string  `json:"status"`
	StorageConnected  bool    `json:"storage_connected"`
	CatalogConfigured bool    `json:"catalog_configured"`
	CircuitState      string  `json:"catalog_circuit_state,omitempty"`
	TaxonomyEntries   int     `json:"taxonomy_entries"`
	Uptime            float64 `json:"uptime_seconds"`
}

// breakerState is implemented by catalog.CircuitBreakerSource and
// catalog.FeedCache.
type breakerState interface {
	State() gobreaker.State
}

// Health handles GET /api/v1/health.
//
// The service is healthy when storage answers and a catalog credential is
// configured. An open circuit keeps it degraded until the catalog recovers.
//
// @Summary Service health
// @Tags Core
// @Produce json
// @Success 200 {object} models.APIResponse "Healthy"
// @Failure 503 {object} models.APIResponse "Degraded"
// @Router /health [get]
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), healthPingTimeout)
	defer cancel()

	health := HealthStatus{
		StorageConnected:  h.store != nil && h.store.Ping(ctx) == nil,
		CatalogConfigured: h.cfg.CatalogConfigured,
		TaxonomyEntries:   h.resolver.Len(),
		Uptime:            time.Since(h.startTime).Seconds(),
	}
	if b, ok := h.catalog.(breakerState); ok {
		health.CircuitState = b.State().String()
	}

	health.Status = "healthy"
	if !health.StorageConnected || !health.CatalogConfigured || health.CircuitState == gobreaker.StateOpen.String() {
		health.Status = "degraded"
	}

	status := http.StatusOK
	if !health.StorageConnected {
		status = http.StatusServiceUnavailable
	}

	respondJSON(w, status, &models.APIResponse{
		Status: "success",
		Data:   health,
		Metadata: models.Metadata{
			Timestamp: time.Now(),
		},
	})
}
