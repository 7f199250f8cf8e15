// Coldstart - Cold-Start Movie and TV Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/coldstart

// Package docs registers the OpenAPI document served at /swagger/doc.json.
//
// The template follows the layout swag init emits from the handler
// annotations in internal/api and the general info in cmd/server/docs.go.
// Keep it in step with those annotations when routes change.
package docs

import "github.com/swaggo/swag"

const docTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "contact": {
            "name": "GitHub Repository",
            "url": "https://github.com/tomtom215/coldstart/issues"
        },
        "license": {
            "name": "AGPL-3.0-or-later",
            "url": "https://www.gnu.org/licenses/agpl-3.0.html"
        },
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "paths": {
        "/health": {
            "get": {
                "description": "Storage reachability, catalog credential and circuit state",
                "produces": ["application/json"],
                "tags": ["Core"],
                "summary": "Service health",
                "responses": {
                    "200": {"description": "Healthy", "schema": {"$ref": "#/definitions/models.APIResponse"}},
                    "503": {"description": "Degraded", "schema": {"$ref": "#/definitions/models.APIResponse"}}
                }
            }
        },
        "/users/{userID}/answers/{questionKey}": {
            "get": {
                "produces": ["application/json"],
                "tags": ["Onboarding"],
                "summary": "Read one onboarding answer",
                "parameters": [
                    {"type": "string", "description": "User ID", "name": "userID", "in": "path", "required": true},
                    {"type": "string", "description": "Question key", "name": "questionKey", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "Stored answer", "schema": {"$ref": "#/definitions/models.APIResponse"}},
                    "400": {"description": "Invalid user or question", "schema": {"$ref": "#/definitions/models.APIResponse"}},
                    "404": {"description": "No answer stored", "schema": {"$ref": "#/definitions/models.APIResponse"}}
                }
            },
            "put": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["Onboarding"],
                "summary": "Store one onboarding answer",
                "parameters": [
                    {"type": "string", "description": "User ID", "name": "userID", "in": "path", "required": true},
                    {"type": "string", "description": "Question key", "name": "questionKey", "in": "path", "required": true},
                    {"description": "Answer as text or structured envelope", "name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/api.answerRequest"}}
                ],
                "responses": {
                    "200": {"description": "Stored answer", "schema": {"$ref": "#/definitions/models.APIResponse"}},
                    "400": {"description": "Invalid answer", "schema": {"$ref": "#/definitions/models.APIResponse"}}
                }
            }
        },
        "/users/{userID}/titles": {
            "get": {
                "produces": ["application/json"],
                "tags": ["Onboarding"],
                "summary": "List saved titles, newest first",
                "parameters": [
                    {"type": "string", "description": "User ID", "name": "userID", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "Saved titles", "schema": {"$ref": "#/definitions/models.APIResponse"}}
                }
            },
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["Onboarding"],
                "summary": "Save a liked or seen title",
                "parameters": [
                    {"type": "string", "description": "User ID", "name": "userID", "in": "path", "required": true},
                    {"description": "Title to save", "name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/api.saveTitleRequest"}}
                ],
                "responses": {
                    "200": {"description": "Saved", "schema": {"$ref": "#/definitions/models.APIResponse"}},
                    "400": {"description": "Invalid title", "schema": {"$ref": "#/definitions/models.APIResponse"}}
                }
            }
        },
        "/users/{userID}/titles/{tmdbID}": {
            "delete": {
                "produces": ["application/json"],
                "tags": ["Onboarding"],
                "summary": "Remove a saved title",
                "parameters": [
                    {"type": "string", "description": "User ID", "name": "userID", "in": "path", "required": true},
                    {"type": "integer", "description": "TMDB ID", "name": "tmdbID", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "Removed", "schema": {"$ref": "#/definitions/models.APIResponse"}},
                    "404": {"description": "Not saved", "schema": {"$ref": "#/definitions/models.APIResponse"}}
                }
            }
        },
        "/users/{userID}/profile/finalize": {
            "post": {
                "produces": ["application/json"],
                "tags": ["Profile"],
                "summary": "Build the profile after onboarding",
                "parameters": [
                    {"type": "string", "description": "User ID", "name": "userID", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "Profile", "schema": {"$ref": "#/definitions/models.APIResponse"}},
                    "412": {"description": "Onboarding incomplete", "schema": {"$ref": "#/definitions/models.APIResponse"}}
                }
            }
        },
        "/users/{userID}/profile/rebuild": {
            "post": {
                "produces": ["application/json"],
                "tags": ["Profile"],
                "summary": "Rebuild the profile from current answers and titles",
                "parameters": [
                    {"type": "string", "description": "User ID", "name": "userID", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "Profile", "schema": {"$ref": "#/definitions/models.APIResponse"}},
                    "412": {"description": "Onboarding incomplete", "schema": {"$ref": "#/definitions/models.APIResponse"}}
                }
            }
        },
        "/users/{userID}/profile": {
            "get": {
                "produces": ["application/json"],
                "tags": ["Profile"],
                "summary": "Read the stored profile",
                "parameters": [
                    {"type": "string", "description": "User ID", "name": "userID", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "Profile", "schema": {"$ref": "#/definitions/models.APIResponse"}},
                    "404": {"description": "No profile", "schema": {"$ref": "#/definitions/models.APIResponse"}}
                }
            }
        },
        "/users/{userID}/recommendations": {
            "get": {
                "produces": ["application/json"],
                "tags": ["Recommendations"],
                "summary": "Ranked recommendations for a profile",
                "parameters": [
                    {"type": "string", "description": "User ID", "name": "userID", "in": "path", "required": true},
                    {"type": "integer", "default": 20, "description": "Result count, 1 to 60", "name": "limit", "in": "query"},
                    {"enum": ["movie", "tv"], "type": "string", "description": "Media kind filter", "name": "type", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "Recommendations", "schema": {"$ref": "#/definitions/models.APIResponse"}},
                    "400": {"description": "Invalid user or limit", "schema": {"$ref": "#/definitions/models.APIResponse"}},
                    "503": {"description": "Catalog unavailable", "schema": {"$ref": "#/definitions/models.APIResponse"}}
                }
            }
        },
        "/genres/{kind}": {
            "get": {
                "produces": ["application/json"],
                "tags": ["Catalog"],
                "summary": "Genre taxonomy for a media kind",
                "parameters": [
                    {"enum": ["movie", "tv"], "type": "string", "description": "Media kind", "name": "kind", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "Genres", "schema": {"$ref": "#/definitions/models.APIResponse"}}
                }
            }
        },
        "/trending": {
            "get": {
                "produces": ["application/json"],
                "tags": ["Catalog"],
                "summary": "Trending movies and series this week",
                "parameters": [
                    {"type": "integer", "default": 20, "description": "Result count, 1 to 40", "name": "limit", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "Items", "schema": {"$ref": "#/definitions/models.APIResponse"}},
                    "503": {"description": "Catalog unavailable", "schema": {"$ref": "#/definitions/models.APIResponse"}}
                }
            }
        },
        "/releases/{kind}": {
            "get": {
                "produces": ["application/json"],
                "tags": ["Catalog"],
                "summary": "Movies now playing or series on the air",
                "parameters": [
                    {"enum": ["movie", "tv"], "type": "string", "description": "Media kind", "name": "kind", "in": "path", "required": true},
                    {"type": "integer", "default": 10, "description": "Result count, 1 to 20", "name": "limit", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "Items", "schema": {"$ref": "#/definitions/models.APIResponse"}}
                }
            }
        },
        "/top/{kind}": {
            "get": {
                "produces": ["application/json"],
                "tags": ["Catalog"],
                "summary": "Best rated titles",
                "parameters": [
                    {"enum": ["movie", "tv"], "type": "string", "description": "Media kind", "name": "kind", "in": "path", "required": true},
                    {"type": "integer", "default": 30, "description": "Result count, 1 to 60", "name": "limit", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "Items", "schema": {"$ref": "#/definitions/models.APIResponse"}}
                }
            }
        },
        "/discover/{kind}": {
            "get": {
                "produces": ["application/json"],
                "tags": ["Catalog"],
                "summary": "Browse the catalog with filters",
                "parameters": [
                    {"enum": ["movie", "tv"], "type": "string", "description": "Media kind", "name": "kind", "in": "path", "required": true},
                    {"type": "integer", "default": 1, "description": "Page, 1 to 20", "name": "page", "in": "query"},
                    {"type": "string", "description": "Comma separated genre IDs", "name": "genres", "in": "query"},
                    {"type": "string", "description": "Release or first air year", "name": "year", "in": "query"},
                    {"type": "string", "description": "Release region, movies only", "name": "region", "in": "query"},
                    {"type": "string", "default": "popularity.desc", "description": "Sort order, movies only", "name": "sort", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "One page", "schema": {"$ref": "#/definitions/models.APIResponse"}},
                    "400": {"description": "Invalid filter", "schema": {"$ref": "#/definitions/models.APIResponse"}}
                }
            }
        },
        "/search": {
            "get": {
                "produces": ["application/json"],
                "tags": ["Catalog"],
                "summary": "Search movies and series by title",
                "parameters": [
                    {"type": "string", "description": "Query, at least 2 characters", "name": "q", "in": "query", "required": true}
                ],
                "responses": {
                    "200": {"description": "Matches", "schema": {"$ref": "#/definitions/models.APIResponse"}},
                    "503": {"description": "Catalog unavailable", "schema": {"$ref": "#/definitions/models.APIResponse"}}
                }
            }
        },
        "/titles/{kind}/{tmdbID}": {
            "get": {
                "produces": ["application/json"],
                "tags": ["Catalog"],
                "summary": "Full record of one title",
                "parameters": [
                    {"enum": ["movie", "tv"], "type": "string", "description": "Media kind, the other kind is tried when missing", "name": "kind", "in": "path", "required": true},
                    {"type": "integer", "description": "TMDB ID", "name": "tmdbID", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "Details", "schema": {"$ref": "#/definitions/models.APIResponse"}},
                    "404": {"description": "Title not found", "schema": {"$ref": "#/definitions/models.APIResponse"}}
                }
            }
        }
    },
    "definitions": {
        "api.answerRequest": {
            "type": "object",
            "properties": {
                "answer": {"description": "Plain text or an object such as {\"genres\":[...]}"}
            }
        },
        "api.saveTitleRequest": {
            "type": "object",
            "required": ["tmdb_id"],
            "properties": {
                "tmdb_id": {"type": "integer"},
                "media_type": {"type": "string"},
                "title": {"type": "string", "maxLength": 512},
                "liked": {"type": "boolean"}
            }
        },
        "catalog.Item": {
            "type": "object",
            "properties": {
                "tmdb_id": {"type": "integer"},
                "media_type": {"type": "string"},
                "title": {"type": "string"},
                "year": {"type": "string"},
                "poster_url": {"type": "string"},
                "genre_ids": {"type": "array", "items": {"type": "integer"}},
                "original_language": {"type": "string"},
                "vote_average": {"type": "number"},
                "popularity": {"type": "number"},
                "overview": {"type": "string"}
            }
        },
        "models.APIError": {
            "type": "object",
            "properties": {
                "code": {"type": "string"},
                "message": {"type": "string"},
                "details": {"type": "object", "additionalProperties": true}
            }
        },
        "models.APIResponse": {
            "type": "object",
            "properties": {
                "status": {"type": "string"},
                "data": {},
                "metadata": {"$ref": "#/definitions/models.Metadata"},
                "error": {"$ref": "#/definitions/models.APIError"}
            }
        },
        "models.Metadata": {
            "type": "object",
            "properties": {
                "timestamp": {"type": "string"},
                "query_time_ms": {"type": "integer"},
                "count": {"type": "integer"}
            }
        }
    },
    "tags": [
        {"description": "Health and metrics", "name": "Core"},
        {"description": "Questionnaire answers and saved titles", "name": "Onboarding"},
        {"description": "Preference profile lifecycle", "name": "Profile"},
        {"description": "Ranked recommendations", "name": "Recommendations"},
        {"description": "TMDB backed catalog feeds, search and title details", "name": "Catalog"}
    ]
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/api/v1",
	Schemes:          []string{"http", "https"},
	Title:            "Coldstart API",
	Description:      "Cold-start movie and TV recommendations from an onboarding questionnaire.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
