// Coldstart - Cold-Start Movie and TV Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/coldstart

package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger/v2"

	_ "github.com/tomtom215/coldstart/docs" // registers the OpenAPI document
	"github.com/tomtom215/coldstart/internal/middleware"
)

// Router wires handlers to routes.
type Router struct {
	handler       *Handler
	chiMiddleware *ChiMiddleware
}

// NewRouter creates a router. mw may be nil for the default middleware config.
func NewRouter(handler *Handler, mw *ChiMiddleware) *Router {
	if mw == nil {
		mw = NewChiMiddleware(nil)
	}
	return &Router{handler: handler, chiMiddleware: mw}
}

// SetupChi configures all HTTP routes using Chi router.
func (router *Router) SetupChi() http.Handler {
	r := chi.NewRouter()

	// Global middleware, in order
	r.Use(middleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(router.chiMiddleware.CORS()) // must be global to answer OPTIONS preflight
	r.Use(middleware.PrometheusMetrics)

	r.Handle("/metrics", promhttp.Handler())

	// API documentation (Swagger UI)
	r.Get("/swagger/*", httpSwagger.Handler(
		httpSwagger.URL("/swagger/doc.json"),
		httpSwagger.DeepLinking(true),
		httpSwagger.DocExpansion("list"),
		httpSwagger.DomID("swagger-ui"),
	))

	r.Route("/api/v1", func(r chi.Router) {
		r.With(router.chiMiddleware.RateLimitHealth()).Get("/health", router.handler.Health)

		r.Group(func(r chi.Router) {
			r.Use(router.chiMiddleware.RateLimit())
			r.Use(chimiddleware.Compress(5, "application/json"))

			r.Route("/users/{userID}", func(r chi.Router) {
				r.Use(middleware.UserContext)

				r.Put("/answers/{questionKey}", router.handler.PutAnswer)
				r.Get("/answers/{questionKey}", router.handler.GetAnswer)

				r.Post("/titles", router.handler.SaveTitle)
				r.Get("/titles", router.handler.ListTitles)
				r.Delete("/titles/{tmdbID}", router.handler.DeleteTitle)

				r.Post("/profile/finalize", router.handler.FinalizeProfile)
				r.Post("/profile/rebuild", router.handler.RebuildProfile)
				r.Get("/profile", router.handler.GetProfile)

				r.Get("/recommendations", router.handler.GetRecommendations)
			})

			r.Get("/genres/{kind}", router.handler.GetGenres)
			r.Get("/trending", router.handler.GetTrending)
			r.Get("/releases/{kind}", router.handler.GetReleases)
			r.Get("/top/{kind}", router.handler.GetTopRated)
			r.Get("/discover/{kind}", router.handler.BrowseCatalog)
			r.Get("/search", router.handler.SearchTitles)
			r.Get("/titles/{kind}/{tmdbID}", router.handler.GetTitleDetails)
		})
	})

	// Set last: chi propagates these to sub-routers that exist at call time.
	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		respondError(w, http.StatusNotFound, codeNotFound, "Route not found", nil)
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		respondError(w, http.StatusMethodNotAllowed, "METHOD_NOT_ALLOWED", "Method not allowed", nil)
	})

	return r
}
