// Coldstart - Cold-Start Movie and TV Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/coldstart

package api

import (
	"context"
	"errors"
	"net/http"

	"github.com/sony/gobreaker/v2"

	"github.com/tomtom215/coldstart/internal/catalog"
	"github.com/tomtom215/coldstart/internal/preferences"
	"github.com/tomtom215/coldstart/internal/storage"
)

// Error codes of the API envelope.
const (
	codeValidation     = "VALIDATION_ERROR"
	codeNotFound       = "NOT_FOUND"
	codePrecondition   = "PRECONDITION_FAILED"
	codeUnavailable    = "SERVICE_UNAVAILABLE"
	codeUpstream       = "UPSTREAM_ERROR"
	codeInternal       = "INTERNAL_ERROR"
	codeRateLimited    = "RATE_LIMITED"
	codeRequestTimeout = "REQUEST_TIMEOUT"
)

// classifyError maps a domain error to an HTTP status, code, and client
// message. Internal details stay in the log.
func classifyError(err error) (status int, code, message string) {
	var apiErr *catalog.APIError
	switch {
	case errors.Is(err, preferences.ErrNotEnoughFavorites):
		return http.StatusPreconditionFailed, codePrecondition, err.Error()
	case errors.Is(err, preferences.ErrProfileNotFound):
		return http.StatusNotFound, codeNotFound, "Preference profile not found"
	case errors.Is(err, storage.ErrAnswerNotFound):
		return http.StatusNotFound, codeNotFound, "Answer not found"
	case errors.Is(err, storage.ErrTitleNotFound):
		return http.StatusNotFound, codeNotFound, "Title not found"
	case errors.Is(err, catalog.ErrCatalogNotConfigured):
		return http.StatusServiceUnavailable, codeUnavailable, "Catalog is not configured"
	case errors.Is(err, gobreaker.ErrOpenState), errors.Is(err, gobreaker.ErrTooManyRequests):
		return http.StatusServiceUnavailable, codeUnavailable, "Catalog is temporarily unavailable"
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout, codeRequestTimeout, "Request timed out"
	case errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusNotFound:
		return http.StatusNotFound, codeNotFound, "Title not found in catalog"
	case errors.As(err, &apiErr):
		return http.StatusBadGateway, codeUpstream, "Catalog request failed"
	default:
		return http.StatusInternalServerError, codeInternal, "Internal server error"
	}
}

// respondDomainError writes err with the status and code from classifyError.
func respondDomainError(w http.ResponseWriter, err error) {
	status, code, message := classifyError(err)
	var logged error
	if status >= http.StatusInternalServerError {
		logged = err
	}
	respondError(w, status, code, message, logged)
}

// respondCatalogError is respondDomainError for handlers whose only
// collaborator is the catalog: unclassified failures (transport, decode) are
// upstream errors rather than internal ones.
func respondCatalogError(w http.ResponseWriter, err error) {
	status, code, message := classifyError(err)
	if code == codeInternal {
		status, code, message = http.StatusBadGateway, codeUpstream, "Catalog request failed"
	}
	respondError(w, status, code, message, err)
}
