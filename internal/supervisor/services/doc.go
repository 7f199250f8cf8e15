// Coldstart - Cold-Start Movie and TV Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/coldstart

/*
Package services adapts application components to suture's
Serve(ctx) error lifecycle.

HTTPServerService wraps *http.Server. ListenAndServe runs in a goroutine;
cancellation calls Shutdown with a fresh timeout context, and a bind failure
is returned so the API layer restarts it with backoff.

TaxonomyWarmupService preloads the genre taxonomies and signal sets for the
configured language. It retries on failure and returns suture.ErrDoNotRestart
once the caches are filled.

	tree.AddDataService(services.NewTaxonomyWarmupService(signals, services.TaxonomyWarmupConfig{
		Language:      cfg.TMDB.Language,
		RetryInterval: cfg.TMDB.WarmupRetry,
	}, logger))
	tree.AddAPIService(services.NewHTTPServerService(srv, srv.Addr, 10*time.Second, logger))
*/
package services
