// Coldstart - Cold-Start Movie and TV Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/coldstart

// Package catalog talks to the external movie/TV catalog (TMDB).
//
// Client is the raw HTTP client. CircuitBreakerSource wraps any Source with
// a circuit breaker. Resolver caches genre taxonomies per (kind, language)
// for the life of the process, and SignalBuilder derives the genre sets used
// by the pace, mood, and complexity factors. FeedCache keeps the shared
// browse feeds for a short TTL.
package catalog

import (
	"context"
	"errors"
	"fmt"

	"github.com/tomtom215/coldstart/internal/models"
)

// ErrCatalogNotConfigured is returned when no API credential is configured.
// It is a configuration error and must never be turned into an empty result.
var ErrCatalogNotConfigured = errors.New("TMDB_API_KEY is not set")

// APIError is a non-2xx catalog response.
type APIError struct {
	StatusCode int
	Path       string
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("catalog %s: status %d: %s", e.Path, e.StatusCode, e.Body)
}

// Genre is one entry of a genre list.
type Genre struct {
	ID   int
	Name string
}

// Item is a normalized catalog card.
type Item struct {
	ID               int              `json:"tmdb_id"`
	Kind             models.MediaKind `json:"media_type"`
	Title            string           `json:"title"`
	Year             string           `json:"year"`
	PosterURL        string           `json:"poster_url,omitempty"`
	GenreIDs         []int            `json:"genre_ids"`
	OriginalLanguage string           `json:"original_language"`
	VoteAverage      float64          `json:"vote_average"`
	Popularity       float64          `json:"popularity"`
	Overview         string           `json:"overview"`
}

// Key returns the dedup identity of the item.
func (i *Item) Key() models.ItemKey {
	return models.ItemKey{ID: i.ID, Kind: i.Kind}
}

// Details is the full record of one title, as shown on a title card.
type Details struct {
	Item
	Genres      []string `json:"genres"`
	ReleaseDate string   `json:"release_date"`
}

// MinSearchQueryLen is the shortest query Search sends upstream.
const MinSearchQueryLen = 2

// DiscoverQuery is a filtered discovery request. Zero values are omitted
// from the request except IncludeAdult, which is always sent.
type DiscoverQuery struct {
	Language         string
	WithGenres       []int
	WithoutGenres    []int
	OriginalLanguage string
	IncludeAdult     bool
	MinVoteCount     int
	SortBy           string
	Page             int

	// Year is sent as primary_release_year for movies and
	// first_air_date_year for TV. Region applies to movies only.
	Year   string
	Region string
}

// Source is the catalog surface the recommender depends on. Implementations
// must be safe for concurrent use.
type Source interface {
	// Genres returns the genre list of a media kind in the given language.
	Genres(ctx context.Context, kind models.MediaKind, language string) ([]Genre, error)

	// Discover runs one filtered discovery query (first page only).
	Discover(ctx context.Context, kind models.MediaKind, q DiscoverQuery) ([]Item, error)

	// Similar returns the items the catalog recommends for a title.
	// Returned items carry kind.
	Similar(ctx context.Context, kind models.MediaKind, id int, language string) ([]Item, error)

	// Trending returns this week's trending movies and TV titles.
	Trending(ctx context.Context, language string) ([]Item, error)

	// Releases returns current cinema releases (movie) or airing shows (tv).
	Releases(ctx context.Context, kind models.MediaKind, language string) ([]Item, error)

	// TopRated returns up to limit of the best-rated titles of kind.
	TopRated(ctx context.Context, kind models.MediaKind, language string, limit int) ([]Item, error)

	// Search finds movies and TV titles by name. Other result types are
	// dropped, and queries shorter than MinSearchQueryLen return nothing.
	Search(ctx context.Context, query, language string) ([]Item, error)

	// Details returns one title. When kind has no title with id, the other
	// kind is tried; Details.Kind reports the kind that answered.
	Details(ctx context.Context, kind models.MediaKind, id int, language string) (*Details, error)
}
