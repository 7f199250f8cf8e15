// Coldstart - Cold-Start Movie and TV Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/coldstart

package testinfra

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync"
	"testing"

	"github.com/goccy/go-json"
)

// MockTMDBAPIKey is the key the mock server accepts.
const MockTMDBAPIKey = "test-tmdb-key"

// CatalogCapture represents a captured catalog request.
type CatalogCapture struct {
	Path  string
	Query url.Values
}

// mockResponse is a canned reply.
type mockResponse struct {
	status int
	body   []byte
}

// MockTMDBServer is an httptest server speaking the subset of the TMDB v3
// API the catalog client uses. It answers every known path with a fixture,
// rejects requests without MockTMDBAPIKey, and captures all requests.
type MockTMDBServer struct {
	Server *httptest.Server

	mu        sync.Mutex
	captures  []CatalogCapture
	responses map[string]mockResponse
}

// NewMockTMDBServer creates a mock catalog preloaded with DefaultCatalogFixtures.
// The server is closed with the test.
func NewMockTMDBServer(t *testing.T) *MockTMDBServer {
	t.Helper()

	m := &MockTMDBServer{responses: make(map[string]mockResponse)}
	for path, payload := range DefaultCatalogFixtures() {
		m.Respond(path, http.StatusOK, payload)
	}

	m.Server = httptest.NewServer(http.HandlerFunc(m.serve))
	t.Cleanup(m.Server.Close)
	return m
}

func (m *MockTMDBServer) serve(w http.ResponseWriter, r *http.Request) {
	m.mu.Lock()
	m.captures = append(m.captures, CatalogCapture{Path: r.URL.Path, Query: r.URL.Query()})
	resp, ok := m.responses[r.URL.Path]
	m.mu.Unlock()

	w.Header().Set("Content-Type", "application/json")
	switch {
	case r.URL.Query().Get("api_key") != MockTMDBAPIKey:
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"status_code":7,"status_message":"Invalid API key"}`)) //nolint:errcheck
	case !ok:
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"status_code":34,"status_message":"The resource you requested could not be found."}`)) //nolint:errcheck
	default:
		w.WriteHeader(resp.status)
		w.Write(resp.body) //nolint:errcheck
	}
}

// URL returns the server URL, usable as the catalog base URL.
func (m *MockTMDBServer) URL() string {
	return m.Server.URL
}

// Respond replaces the reply for path. payload is JSON-encoded.
func (m *MockTMDBServer) Respond(path string, status int, payload any) {
	body, err := json.Marshal(payload)
	if err != nil {
		panic(err)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.responses[path] = mockResponse{status: status, body: body}
}

// Captures returns all captured requests.
func (m *MockTMDBServer) Captures() []CatalogCapture {
	m.mu.Lock()
	defer m.mu.Unlock()
	result := make([]CatalogCapture, len(m.captures))
	copy(result, m.captures)
	return result
}

// Count returns how many requests hit path.
func (m *MockTMDBServer) Count(path string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, c := range m.captures {
		if c.Path == path {
			n++
		}
	}
	return n
}

type fixtureGenre struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

type fixtureItem struct {
	ID               int     `json:"id"`
	MediaType        string  `json:"media_type,omitempty"`
	Title            string  `json:"title,omitempty"`
	Name             string  `json:"name,omitempty"`
	ReleaseDate      string  `json:"release_date,omitempty"`
	FirstAirDate     string  `json:"first_air_date,omitempty"`
	PosterPath       string  `json:"poster_path,omitempty"`
	GenreIDs         []int   `json:"genre_ids"`
	OriginalLanguage string  `json:"original_language"`
	VoteAverage      float64 `json:"vote_average"`
	Popularity       float64 `json:"popularity"`
	Overview         string  `json:"overview"`
}

// fixtureDetails is a /{kind}/{id} payload: full genre objects in place
// of genre_ids.
type fixtureDetails struct {
	fixtureItem
	Genres []fixtureGenre `json:"genres"`
}

func page(items ...fixtureItem) map[string]any {
	return map[string]any{"page": 1, "total_pages": 1, "results": items}
}

func details(item fixtureItem, genres ...fixtureGenre) fixtureDetails {
	item.GenreIDs = nil
	return fixtureDetails{fixtureItem: item, Genres: genres}
}

// DefaultCatalogFixtures returns canned payloads by request path. Genre
// names are the Russian catalog names.
//
// Movie fixtures: 101 (action, en), 102 (action+horror, en), 103 (comedy, ru).
// TV fixtures: 201 (drama, ko), 202 (crime, en). Favorite 550 recommends
// 104 (thriller) and 101. Search answers with 101, a person and 202.
// Details exist for movie 101 and TV 201 only.
func DefaultCatalogFixtures() map[string]any {
	movieGenres := []fixtureGenre{
		{28, "Боевик"}, {12, "Приключения"}, {16, "Мультфильм"}, {35, "Комедия"},
		{80, "Криминал"}, {99, "Документальный"}, {18, "Драма"}, {10751, "Семейный"},
		{36, "История"}, {27, "Ужасы"}, {9648, "Детектив"}, {10749, "Мелодрама"},
		{878, "Фантастика"}, {53, "Триллер"},
	}
	tvGenres := []fixtureGenre{
		{10759, "Боевик и Приключения"}, {35, "Комедия"}, {80, "Криминал"},
		{18, "Драма"}, {9648, "Детектив"}, {10765, "НФ и Фэнтези"},
	}

	m101 := fixtureItem{ID: 101, Title: "Fury Road", ReleaseDate: "2015-05-13", PosterPath: "/fury.jpg",
		GenreIDs: []int{28, 12}, OriginalLanguage: "en", VoteAverage: 7.6, Popularity: 120}
	m102 := fixtureItem{ID: 102, Title: "Night Shift", ReleaseDate: "2019-10-01",
		GenreIDs: []int{28, 27}, OriginalLanguage: "en", VoteAverage: 8.9, Popularity: 900}
	m103 := fixtureItem{ID: 103, Title: "Ирония судьбы", ReleaseDate: "1976-01-01",
		GenreIDs: []int{35, 10749}, OriginalLanguage: "ru", VoteAverage: 8.1, Popularity: 30}
	m104 := fixtureItem{ID: 104, Title: "Se7en", ReleaseDate: "1995-09-22",
		GenreIDs: []int{53, 80, 9648}, OriginalLanguage: "en", VoteAverage: 8.4, Popularity: 80}
	t201 := fixtureItem{ID: 201, Name: "Kingdom", FirstAirDate: "2019-01-25",
		GenreIDs: []int{18, 10765}, OriginalLanguage: "ko", VoteAverage: 8.2, Popularity: 60}
	t202 := fixtureItem{ID: 202, Name: "The Wire", FirstAirDate: "2002-06-02",
		GenreIDs: []int{80, 18}, OriginalLanguage: "en", VoteAverage: 8.6, Popularity: 70}

	trendingMovie := m101
	trendingMovie.MediaType = "movie"
	trendingTV := t201
	trendingTV.MediaType = "tv"
	person := fixtureItem{ID: 900, MediaType: "person", Name: "Someone"}
	searchTV := t202
	searchTV.MediaType = "tv"

	return map[string]any{
		"/genre/movie/list":          map[string]any{"genres": movieGenres},
		"/genre/tv/list":             map[string]any{"genres": tvGenres},
		"/discover/movie":            page(m101, m102, m103),
		"/discover/tv":               page(t201, t202),
		"/movie/550/recommendations": page(m104, m101),
		"/trending/all/week":         page(trendingMovie, person, trendingTV),
		"/movie/now_playing":         page(m103, m104),
		"/tv/on_the_air":             page(t202),
		"/movie/top_rated":           page(m102, m104, m103),
		"/tv/top_rated":              page(t202, t201),
		"/search/multi":              page(trendingMovie, person, searchTV),
		"/movie/101":                 details(m101, fixtureGenre{28, "Боевик"}, fixtureGenre{12, "Приключения"}),
		"/tv/201":                    details(t201, fixtureGenre{18, "Драма"}, fixtureGenre{10765, "НФ и Фэнтези"}),
	}
}
