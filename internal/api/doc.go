// Coldstart - Cold-Start Movie and TV Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/coldstart

/*
Package api exposes onboarding, profile, recommendation, and catalog
endpoints over HTTP using the Chi router.

Routes (all under /api/v1):

	GET    /health
	PUT    /users/{userID}/answers/{questionKey}
	GET    /users/{userID}/answers/{questionKey}
	POST   /users/{userID}/titles
	GET    /users/{userID}/titles
	DELETE /users/{userID}/titles/{tmdbID}
	POST   /users/{userID}/profile/finalize
	POST   /users/{userID}/profile/rebuild
	GET    /users/{userID}/profile
	GET    /users/{userID}/recommendations?limit=&type=
	GET    /genres/{kind}
	GET    /trending?limit=
	GET    /releases/{kind}?limit=
	GET    /top/{kind}?limit=
	GET    /discover/{kind}?page=&genres=&year=&region=&sort=
	GET    /search?q=
	GET    /titles/{kind}/{tmdbID}

Prometheus metrics are served on /metrics. The OpenAPI document registered
by the docs package is served on /swagger/doc.json with Swagger UI under
/swagger/.

Every JSON response uses the models.APIResponse envelope. Errors carry a
stable code (VALIDATION_ERROR, NOT_FOUND, PRECONDITION_FAILED,
SERVICE_UNAVAILABLE, UPSTREAM_ERROR, INTERNAL_ERROR).

Authentication is handled upstream; the user ID in the path is trusted.
*/
package api
