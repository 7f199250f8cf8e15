// Coldstart - Cold-Start Movie and TV Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/coldstart

package models

import "time"

// APIResponse is the envelope of every JSON API response.
//
// Status is "success" or "error". On error, Data is nil and Error is set.
type APIResponse struct {
	Status   string      `json:"status"`
	Data     interface{} `json:"data"`
	Metadata Metadata    `json:"metadata"`
	Error    *APIError   `json:"error,omitempty"`
}

// Metadata carries response timing.
type Metadata struct {
	Timestamp   time.Time `json:"timestamp"`
	QueryTimeMS int64     `json:"query_time_ms,omitempty"`
	Count       *int      `json:"count,omitempty"`
}

// APIError is a machine-readable error.
//
// Codes:
//   - VALIDATION_ERROR: malformed path, query, or body
//   - NOT_FOUND: unknown user record or title
//   - PRECONDITION_FAILED: onboarding incomplete
//   - SERVICE_UNAVAILABLE: catalog not configured or circuit open
//   - UPSTREAM_ERROR: catalog request failed
//   - INTERNAL_ERROR: storage or unexpected failure
type APIError struct {
	Code    string                 `json:"code"`
	Message string                 `json:"message"`
	Details map[string]interface{} `json:"details,omitempty"`
}

// ItemsResponse wraps a list of results.
type ItemsResponse[T any] struct {
	Items []T `json:"items"`
}
