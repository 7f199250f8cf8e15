// Coldstart - Cold-Start Movie and TV Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/coldstart

package api

import (
	"context"
	"net/http"
	"time"

	"github.com/tomtom215/coldstart/internal/catalog"
	"github.com/tomtom215/coldstart/internal/preferences"
	"github.com/tomtom215/coldstart/internal/recommend"
	"github.com/tomtom215/coldstart/internal/storage"
)

// defaultRequestTimeout bounds one request when the config leaves it unset.
const defaultRequestTimeout = 30 * time.Second

// HandlerConfig holds handler settings.
type HandlerConfig struct {
	// Language is the catalog response language, e.g. "ru-RU".
	Language string

	// RequestTimeout bounds the work of a single request.
	RequestTimeout time.Duration

	// CatalogConfigured reports whether a catalog credential is set.
	CatalogConfigured bool
}

// Handler contains dependencies for API handlers
//
// Handler methods are split across files:
//   - handlers_onboarding.go: answers, liked titles, profile build
//   - handlers_recommend.go: recommendations
//   - handlers_catalog.go: genres, trending, releases, top rated, browse
//   - handlers_titles.go: title search and details
//   - handlers_health.go: health
type Handler struct {
	store     storage.Store
	builder   *preferences.Builder
	engine    *recommend.Engine
	catalog   catalog.Source
	resolver  *catalog.Resolver
	cfg       HandlerConfig
	startTime time.Time
}

// NewHandler creates a new API handler.
//
// Example:
//
//	handler := api.NewHandler(store, builder, engine, source, resolver, api.HandlerConfig{Language: "ru-RU"})
//	router := api.NewRouter(handler, api.NewChiMiddleware(nil))
//	http.ListenAndServe(":8080", router.SetupChi())
func NewHandler(store storage.Store, builder *preferences.Builder, engine *recommend.Engine, source catalog.Source, resolver *catalog.Resolver, cfg HandlerConfig) *Handler {
	if cfg.RequestTimeout <= 0 {
		cfg.RequestTimeout = defaultRequestTimeout
	}
	return &Handler{
		store:     store,
		builder:   builder,
		engine:    engine,
		catalog:   source,
		resolver:  resolver,
		cfg:       cfg,
		startTime: time.Now(),
	}
}

// requestContext derives the bounded context of one request.
func (h *Handler) requestContext(r *http.Request) (context.Context, context.CancelFunc) {
	return context.WithTimeout(r.Context(), h.cfg.RequestTimeout)
}
