// Coldstart - Cold-Start Movie and TV Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/coldstart

// Package validation provides struct validation using go-playground/validator v10.
//
// A single shared validator carries the custom tags below. Failures come back
// as a RequestValidationError whose FieldError entries name the JSON or query
// field the client sent.
//
// # Custom Tags
//
//   - userid: 1-128 characters from [A-Za-z0-9._@-]
//   - mediakind: movie or tv
//   - questionkey: an onboarding question key, q1..q9
//
// # Usage
//
//	type SaveTitleRequest struct {
//	    TMDBID    int    `json:"tmdb_id" validate:"required,gt=0"`
//	    MediaType string `json:"media_type" validate:"omitempty,mediakind"`
//	}
//
//	if verr := validation.ValidateStruct(&req); verr != nil {
//	    respondErrorDetails(w, http.StatusBadRequest, verr.ToAPIError(), nil)
//	    return
//	}
package validation
