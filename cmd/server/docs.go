// Coldstart - Cold-Start Movie and TV Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/coldstart

// General API annotations for swag. The registered document lives in the
// docs package and is served by the router at /swagger/doc.json.
//
// @title Coldstart API
// @version 1.0
// @description Cold-start movie and TV recommendations from an onboarding questionnaire.
// @description
// @description ## Error Responses
// @description
// @description All error responses follow this format:
// @description ```json
// @description {
// @description   "status": "error",
// @description   "data": null,
// @description   "error": {"code": "ERROR_CODE", "message": "Human-readable error message"},
// @description   "metadata": {"timestamp": "2026-10-14T12:34:56Z"}
// @description }
// @description ```
//
// @contact.name GitHub Repository
// @contact.url https://github.com/tomtom215/coldstart/issues
//
// @license.name AGPL-3.0-or-later
// @license.url https://www.gnu.org/licenses/agpl-3.0.html
//
// @BasePath /api/v1
// @schemes http https
//
// @tag.name Core
// @tag.description Health and metrics
//
// @tag.name Onboarding
// @tag.description Questionnaire answers and saved titles
//
// @tag.name Profile
// @tag.description Preference profile lifecycle
//
// @tag.name Recommendations
// @tag.description Ranked recommendations
//
// @tag.name Catalog
// @tag.description TMDB backed catalog feeds, search and title details
package main
