// Coldstart - Cold-Start Movie and TV Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/coldstart

/*
Package middleware provides HTTP middleware shared by the API router.

  - RequestID: X-Request-ID propagation (UUID v4 when absent) into the
    response header and the logging context
  - PrometheusMetrics: request count, latency, and in-flight gauge, labelled
    by the matched chi route pattern so path parameters such as user IDs do
    not explode label cardinality
  - UserContext: copies the {userID} route parameter into the logging context

All middleware has the func(http.Handler) http.Handler shape expected by
chi's Router.Use:

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.PrometheusMetrics)
*/
package middleware
