// Coldstart - Cold-Start Movie and TV Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/coldstart

package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/sony/gobreaker/v2"

	"github.com/tomtom215/coldstart/internal/catalog"
	"github.com/tomtom215/coldstart/internal/config"
	"github.com/tomtom215/coldstart/internal/preferences"
	"github.com/tomtom215/coldstart/internal/storage"
)

var (
	securityFixture = config.SecurityConfig{
		RateLimitReqs:     7,
		RateLimitWindow:   3 * time.Second,
		RateLimitDisabled: true,
		CORSOrigins:       []string{"https://a.example"},
	}
	securityZero = config.SecurityConfig{}
)

func TestClassifyError(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
		code   string
	}{
		{"not enough favorites", fmt.Errorf("%w: have 1, need 5", preferences.ErrNotEnoughFavorites), http.StatusPreconditionFailed, codePrecondition},
		{"no profile", preferences.ErrProfileNotFound, http.StatusNotFound, codeNotFound},
		{"no answer", fmt.Errorf("get: %w", storage.ErrAnswerNotFound), http.StatusNotFound, codeNotFound},
		{"no title", storage.ErrTitleNotFound, http.StatusNotFound, codeNotFound},
		{"no credential", fmt.Errorf("resolve: %w", catalog.ErrCatalogNotConfigured), http.StatusServiceUnavailable, codeUnavailable},
		{"circuit open", gobreaker.ErrOpenState, http.StatusServiceUnavailable, codeUnavailable},
		{"half-open busy", gobreaker.ErrTooManyRequests, http.StatusServiceUnavailable, codeUnavailable},
		{"deadline", fmt.Errorf("gather: %w", context.DeadlineExceeded), http.StatusGatewayTimeout, codeRequestTimeout},
		{"catalog status", &catalog.APIError{StatusCode: 500, Path: "/x"}, http.StatusBadGateway, codeUpstream},
		{"catalog title missing", fmt.Errorf("details: %w", &catalog.APIError{StatusCode: 404, Path: "/tv/1"}), http.StatusNotFound, codeNotFound},
		{"catalog key rejected", &catalog.APIError{StatusCode: 401, Path: "/x"}, http.StatusBadGateway, codeUpstream},
		{"anything else", errors.New("disk on fire"), http.StatusInternalServerError, codeInternal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, code, msg := classifyError(tt.err)
			if status != tt.status || code != tt.code {
				t.Errorf("classifyError() = %d %s, want %d %s", status, code, tt.status, tt.code)
			}
			if msg == "" {
				t.Error("classifyError() returned an empty message")
			}
		})
	}
}

func TestSanitizeLogValue(t *testing.T) {
	if got := sanitizeLogValue("a\nb\x7f"); got != `a\x0ab\x7f` {
		t.Errorf("sanitizeLogValue() = %q", got)
	}
}
