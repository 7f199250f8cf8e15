// Coldstart - Cold-Start Movie and TV Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/coldstart

package api

import (
	"net/http"
	"reflect"
	"testing"

	"github.com/tomtom215/coldstart/internal/catalog"
	"github.com/tomtom215/coldstart/internal/models"
)

func TestSearchTitles(t *testing.T) {
	tests := []struct {
		name      string
		path      string
		want      []int
		wantCalls int
	}{
		{"movies and shows only", "/api/v1/search?q=fury", []int{101, 202}, 1},
		{"query trimmed", "/api/v1/search?q=%20%20fury%20", []int{101, 202}, 1},
		{"one character", "/api/v1/search?q=f", []int{}, 0},
		{"missing query", "/api/v1/search", []int{}, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestEnv(t)

			rec, resp := env.do(t, http.MethodGet, tt.path, nil)
			expect(t, rec, resp, http.StatusOK, "")
			list := decodeData[models.ItemsResponse[catalog.Item]](t, resp)
			if list.Items == nil {
				t.Fatal("items = null, want a list")
			}
			if got := itemIDs(list.Items); !equalInts(got, tt.want) {
				t.Errorf("search ids = %v, want %v", got, tt.want)
			}
			if n := env.tmdb.Count("/search/multi"); n != tt.wantCalls {
				t.Errorf("catalog searched %d times, want %d", n, tt.wantCalls)
			}
			if tt.wantCalls > 0 {
				q := env.lastCapture(t, "/search/multi")
				if q.Get("query") != "fury" || q.Get("language") != testLanguage {
					t.Errorf("search query = %v", q)
				}
			}
		})
	}

	t.Run("not configured", func(t *testing.T) {
		env := newTestEnv(t, withoutCatalogKey())
		rec, resp := env.do(t, http.MethodGet, "/api/v1/search?q=fury", nil)
		expect(t, rec, resp, http.StatusServiceUnavailable, codeUnavailable)
	})

	t.Run("upstream failure", func(t *testing.T) {
		env := newTestEnv(t)
		env.tmdb.Respond("/search/multi", http.StatusInternalServerError, map[string]any{"status_message": "down"})
		rec, resp := env.do(t, http.MethodGet, "/api/v1/search?q=fury", nil)
		expect(t, rec, resp, http.StatusBadGateway, codeUpstream)
	})
}

func TestGetTitleDetails(t *testing.T) {
	tests := []struct {
		name     string
		path     string
		want     catalog.Details
		upstream []string
	}{
		{
			name: "movie",
			path: "/api/v1/titles/movie/101",
			want: catalog.Details{
				Item: catalog.Item{ID: 101, Kind: models.KindMovie, Title: "Fury Road", Year: "2015",
					GenreIDs: []int{28, 12}, OriginalLanguage: "en"},
				Genres:      []string{"Боевик", "Приключения"},
				ReleaseDate: "2015-05-13",
			},
			upstream: []string{"/movie/101"},
		},
		{
			name: "falls back to tv",
			path: "/api/v1/titles/movie/201",
			want: catalog.Details{
				Item: catalog.Item{ID: 201, Kind: models.KindTV, Title: "Kingdom", Year: "2019",
					GenreIDs: []int{18, 10765}, OriginalLanguage: "ko"},
				Genres:      []string{"Драма", "НФ и Фэнтези"},
				ReleaseDate: "2019-01-25",
			},
			upstream: []string{"/movie/201", "/tv/201"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestEnv(t)

			rec, resp := env.do(t, http.MethodGet, tt.path, nil)
			expect(t, rec, resp, http.StatusOK, "")
			got := decodeData[catalog.Details](t, resp)

			if got.ID != tt.want.ID || got.Kind != tt.want.Kind || got.Title != tt.want.Title ||
				got.Year != tt.want.Year || got.OriginalLanguage != tt.want.OriginalLanguage {
				t.Errorf("details = %+v, want %+v", got.Item, tt.want.Item)
			}
			if !equalInts(got.GenreIDs, tt.want.GenreIDs) {
				t.Errorf("genre ids = %v, want %v", got.GenreIDs, tt.want.GenreIDs)
			}
			if !reflect.DeepEqual(got.Genres, tt.want.Genres) {
				t.Errorf("genres = %v, want %v", got.Genres, tt.want.Genres)
			}
			if got.ReleaseDate != tt.want.ReleaseDate {
				t.Errorf("release_date = %q, want %q", got.ReleaseDate, tt.want.ReleaseDate)
			}
			for _, path := range tt.upstream {
				if n := env.tmdb.Count(path); n != 1 {
					t.Errorf("%s requested %d times, want 1", path, n)
				}
			}
		})
	}

	t.Run("missing in both kinds", func(t *testing.T) {
		env := newTestEnv(t)
		rec, resp := env.do(t, http.MethodGet, "/api/v1/titles/tv/999", nil)
		expect(t, rec, resp, http.StatusNotFound, codeNotFound)
		if env.tmdb.Count("/tv/999") != 1 || env.tmdb.Count("/movie/999") != 1 {
			t.Error("lookup did not try both kinds")
		}
	})

	t.Run("invalid path", func(t *testing.T) {
		env := newTestEnv(t)
		for _, path := range []string{
			"/api/v1/titles/book/101",
			"/api/v1/titles/movie/abc",
			"/api/v1/titles/movie/0",
		} {
			rec, resp := env.do(t, http.MethodGet, path, nil)
			expect(t, rec, resp, http.StatusBadRequest, codeValidation)
		}
		if n := len(env.tmdb.Captures()); n != 0 {
			t.Errorf("catalog called %d times for invalid paths", n)
		}
	})
}
