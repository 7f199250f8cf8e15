// Coldstart - Cold-Start Movie and TV Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/coldstart

package catalog

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	gobreaker "github.com/sony/gobreaker/v2"

	"github.com/tomtom215/coldstart/internal/logging"
	"github.com/tomtom215/coldstart/internal/metrics"
	"github.com/tomtom215/coldstart/internal/models"
)

// BreakerSettings tunes the catalog circuit breaker.
type BreakerSettings struct {
	MaxRequests  uint32        // trial requests allowed in half-open state
	Interval     time.Duration // closed-state count reset period
	Timeout      time.Duration // open-state duration before half-open
	MinRequests  uint32        // requests needed before the ratio is considered
	FailureRatio float64
}

// DefaultBreakerSettings returns the production breaker configuration:
// open after 60% failures over at least 10 requests, retry after 1 minute.
func DefaultBreakerSettings() BreakerSettings {
	return BreakerSettings{
		MaxRequests:  3,
		Interval:     time.Minute,
		Timeout:      time.Minute,
		MinRequests:  10,
		FailureRatio: 0.6,
	}
}

// CircuitBreakerSource wraps a Source with a circuit breaker so a failing
// catalog answers fast instead of holding every request to its timeout.
type CircuitBreakerSource struct {
	source Source
	cb     *gobreaker.CircuitBreaker[any]
	name   string
}

// NewCircuitBreakerSource wraps source.
func NewCircuitBreakerSource(source Source, settings BreakerSettings) *CircuitBreakerSource {
	cbName := "tmdb-api"

	metrics.CircuitBreakerState.WithLabelValues(cbName).Set(0)
	metrics.CircuitBreakerConsecutiveFailures.WithLabelValues(cbName).Set(0)

	cb := gobreaker.NewCircuitBreaker[any](gobreaker.Settings{
		Name:        cbName,
		MaxRequests: settings.MaxRequests,
		Interval:    settings.Interval,
		Timeout:     settings.Timeout,

		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if counts.Requests < settings.MinRequests {
				return false
			}
			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
			shouldTrip := failureRatio >= settings.FailureRatio
			if shouldTrip {
				logging.Warn().Uint32("failures", counts.TotalFailures).Float64("failure_rate", failureRatio*100).Msg("[CIRCUIT BREAKER] Opening circuit")
			}
			return shouldTrip
		},

		OnStateChange: func(name string, from, to gobreaker.State) {
			fromStr := stateToString(from)
			toStr := stateToString(to)

			logging.Info().Str("from", fromStr).Str("to", toStr).Msg("[CIRCUIT BREAKER] State transition")

			metrics.CircuitBreakerState.WithLabelValues(name).Set(stateToFloat(to))
			metrics.CircuitBreakerTransitions.WithLabelValues(name, fromStr, toStr).Inc()
			if to == gobreaker.StateClosed {
				metrics.CircuitBreakerConsecutiveFailures.WithLabelValues(name).Set(0)
			}
		},

		IsSuccessful: isBreakerSuccess,
	})

	return &CircuitBreakerSource{source: source, cb: cb, name: cbName}
}

// isBreakerSuccess decides which errors count against catalog health.
// Missing credentials, caller cancellation, and 4xx answers (for example a
// deleted favorite title) say nothing about upstream availability.
func isBreakerSuccess(err error) bool {
	if err == nil || errors.Is(err, ErrCatalogNotConfigured) || errors.Is(err, context.Canceled) {
		return true
	}
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode < 500 && apiErr.StatusCode != http.StatusTooManyRequests
	}
	return false
}

// State returns the current breaker state.
func (s *CircuitBreakerSource) State() gobreaker.State {
	return s.cb.State()
}

func (s *CircuitBreakerSource) execute(fn func() (any, error)) (any, error) {
	result, err := s.cb.Execute(fn)

	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			metrics.CircuitBreakerRequests.WithLabelValues(s.name, "rejected").Inc()
			logging.Warn().Err(err).Msg("[CIRCUIT BREAKER] Request rejected")
		} else {
			metrics.CircuitBreakerRequests.WithLabelValues(s.name, "failure").Inc()
			counts := s.cb.Counts()
			metrics.CircuitBreakerConsecutiveFailures.WithLabelValues(s.name).Set(float64(counts.ConsecutiveFailures))
		}
		return nil, err
	}

	metrics.CircuitBreakerRequests.WithLabelValues(s.name, "success").Inc()
	metrics.CircuitBreakerConsecutiveFailures.WithLabelValues(s.name).Set(0)
	return result, nil
}

// castResult type-asserts a breaker result.
func castResult[T any](result any, err error) (T, error) {
	var zero T
	if err != nil {
		return zero, err
	}
	if result == nil {
		return zero, nil
	}
	typed, ok := result.(T)
	if !ok {
		return zero, fmt.Errorf("circuit breaker: unexpected result type %T", result)
	}
	return typed, nil
}

func stateToFloat(state gobreaker.State) float64 {
	switch state {
	case gobreaker.StateClosed:
		return 0
	case gobreaker.StateHalfOpen:
		return 1
	case gobreaker.StateOpen:
		return 2
	default:
		return -1
	}
}

func stateToString(state gobreaker.State) string {
	switch state {
	case gobreaker.StateClosed:
		return "closed"
	case gobreaker.StateHalfOpen:
		return "half-open"
	case gobreaker.StateOpen:
		return "open"
	default:
		return "unknown"
	}
}

// Genres implements Source.
func (s *CircuitBreakerSource) Genres(ctx context.Context, kind models.MediaKind, language string) ([]Genre, error) {
	return castResult[[]Genre](s.execute(func() (any, error) {
		return s.source.Genres(ctx, kind, language)
	}))
}

// Discover implements Source.
func (s *CircuitBreakerSource) Discover(ctx context.Context, kind models.MediaKind, q DiscoverQuery) ([]Item, error) {
	return castResult[[]Item](s.execute(func() (any, error) {
		return s.source.Discover(ctx, kind, q)
	}))
}

// Similar implements Source.
func (s *CircuitBreakerSource) Similar(ctx context.Context, kind models.MediaKind, id int, language string) ([]Item, error) {
	return castResult[[]Item](s.execute(func() (any, error) {
		return s.source.Similar(ctx, kind, id, language)
	}))
}

// Trending implements Source.
func (s *CircuitBreakerSource) Trending(ctx context.Context, language string) ([]Item, error) {
	return castResult[[]Item](s.execute(func() (any, error) {
		return s.source.Trending(ctx, language)
	}))
}

// Releases implements Source.
func (s *CircuitBreakerSource) Releases(ctx context.Context, kind models.MediaKind, language string) ([]Item, error) {
	return castResult[[]Item](s.execute(func() (any, error) {
		return s.source.Releases(ctx, kind, language)
	}))
}

// TopRated implements Source.
func (s *CircuitBreakerSource) TopRated(ctx context.Context, kind models.MediaKind, language string, limit int) ([]Item, error) {
	return castResult[[]Item](s.execute(func() (any, error) {
		return s.source.TopRated(ctx, kind, language, limit)
	}))
}

// Search implements Source.
func (s *CircuitBreakerSource) Search(ctx context.Context, query, language string) ([]Item, error) {
	return castResult[[]Item](s.execute(func() (any, error) {
		return s.source.Search(ctx, query, language)
	}))
}

// Details implements Source.
func (s *CircuitBreakerSource) Details(ctx context.Context, kind models.MediaKind, id int, language string) (*Details, error) {
	return castResult[*Details](s.execute(func() (any, error) {
		return s.source.Details(ctx, kind, id, language)
	}))
}
