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
	"testing"
	"time"

	gobreaker "github.com/sony/gobreaker/v2"

	"github.com/tomtom215/coldstart/internal/models"
)

// flakySource fails Trending with err and serves the rest.
type flakySource struct {
	genreSource
	trendingErr error
	trending    []Item
}

func (s *flakySource) Trending(context.Context, string) ([]Item, error) {
	return s.trending, s.trendingErr
}

func (s *flakySource) Details(_ context.Context, kind models.MediaKind, id int, _ string) (*Details, error) {
	return &Details{Item: Item{ID: id, Kind: kind}, Genres: []string{"Драма"}}, nil
}

func testBreakerSettings() BreakerSettings {
	s := DefaultBreakerSettings()
	s.Timeout = time.Hour
	return s
}

func TestCircuitBreaker_OpensAfterFailures(t *testing.T) {
	src := &flakySource{trendingErr: errors.New("connection reset")}
	cbs := NewCircuitBreakerSource(src, testBreakerSettings())

	if cbs.State() != gobreaker.StateClosed {
		t.Fatalf("initial state = %v, want closed", cbs.State())
	}

	for i := 0; i < 10; i++ {
		_, _ = cbs.Trending(context.Background(), "ru-RU")
	}
	// ReadyToTrip runs after each failure; the 10th failure crosses the threshold.
	if cbs.State() != gobreaker.StateOpen {
		t.Fatalf("state after 10 failures = %v, want open", cbs.State())
	}

	src.trendingErr = nil
	if _, err := cbs.Trending(context.Background(), "ru-RU"); !errors.Is(err, gobreaker.ErrOpenState) {
		t.Errorf("Trending() on open circuit error = %v, want ErrOpenState", err)
	}
}

func TestCircuitBreaker_ClientErrorsDoNotTrip(t *testing.T) {
	tests := []struct {
		name string
		err  error
	}{
		{"not found", &APIError{StatusCode: http.StatusNotFound, Path: "/movie/1/recommendations"}},
		{"unauthorized", &APIError{StatusCode: http.StatusUnauthorized}},
		{"missing credential", ErrCatalogNotConfigured},
		{"caller canceled", fmt.Errorf("discover: %w", context.Canceled)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cbs := NewCircuitBreakerSource(&flakySource{trendingErr: tt.err}, testBreakerSettings())
			for i := 0; i < 20; i++ {
				if _, err := cbs.Trending(context.Background(), "ru-RU"); !errors.Is(err, tt.err) {
					t.Fatalf("Trending() error = %v, want %v", err, tt.err)
				}
			}
			if cbs.State() != gobreaker.StateClosed {
				t.Errorf("state = %v, want closed", cbs.State())
			}
		})
	}
}

func TestIsBreakerSuccess(t *testing.T) {
	tests := []struct {
		err  error
		want bool
	}{
		{nil, true},
		{&APIError{StatusCode: 404}, true},
		{&APIError{StatusCode: 429}, false},
		{&APIError{StatusCode: 502}, false},
		{context.DeadlineExceeded, false},
		{errors.New("dial tcp: refused"), false},
	}
	for _, tt := range tests {
		if got := isBreakerSuccess(tt.err); got != tt.want {
			t.Errorf("isBreakerSuccess(%v) = %v, want %v", tt.err, got, tt.want)
		}
	}
}

func TestCircuitBreaker_PassesResultsThrough(t *testing.T) {
	src := &flakySource{
		genreSource: genreSource{genres: map[models.MediaKind][]Genre{models.KindMovie: {{ID: 18, Name: "Драма"}}}},
		trending:    []Item{{ID: 1, Kind: models.KindMovie}},
	}
	cbs := NewCircuitBreakerSource(src, testBreakerSettings())

	genres, err := cbs.Genres(context.Background(), models.KindMovie, "ru-RU")
	if err != nil || len(genres) != 1 || genres[0].ID != 18 {
		t.Errorf("Genres() = %v, %v", genres, err)
	}
	items, err := cbs.Trending(context.Background(), "ru-RU")
	if err != nil || len(items) != 1 {
		t.Errorf("Trending() = %v, %v", items, err)
	}
	// genreSource returns nil slices for Discover.
	found, err := cbs.Discover(context.Background(), models.KindMovie, DiscoverQuery{})
	if err != nil || found != nil {
		t.Errorf("Discover() = %v, %v", found, err)
	}
	d, err := cbs.Details(context.Background(), models.KindTV, 42, "ru-RU")
	if err != nil || d == nil || d.ID != 42 || d.Kind != models.KindTV {
		t.Errorf("Details() = %+v, %v", d, err)
	}
	if _, err := cbs.Search(context.Background(), "matrix", "ru-RU"); err != nil {
		t.Errorf("Search() error = %v", err)
	}
	if _, err := cbs.TopRated(context.Background(), models.KindMovie, "ru-RU", 30); err != nil {
		t.Errorf("TopRated() error = %v", err)
	}
}

func TestStateHelpers(t *testing.T) {
	tests := []struct {
		state gobreaker.State
		f     float64
		s     string
	}{
		{gobreaker.StateClosed, 0, "closed"},
		{gobreaker.StateHalfOpen, 1, "half-open"},
		{gobreaker.StateOpen, 2, "open"},
	}
	for _, tt := range tests {
		if got := stateToFloat(tt.state); got != tt.f {
			t.Errorf("stateToFloat(%v) = %v, want %v", tt.state, got, tt.f)
		}
		if got := stateToString(tt.state); got != tt.s {
			t.Errorf("stateToString(%v) = %q, want %q", tt.state, got, tt.s)
		}
	}
}
