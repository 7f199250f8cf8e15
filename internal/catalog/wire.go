// Coldstart - Cold-Start Movie and TV Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/coldstart

package catalog

import (
	"math"
	"strings"

	"github.com/goccy/go-json"

	"github.com/tomtom215/coldstart/internal/models"
)

// genreListResponse is the /genre/{kind}/list payload.
type genreListResponse struct {
	Genres []struct {
		ID   json.RawMessage `json:"id"`
		Name *string         `json:"name"`
	} `json:"genres"`
}

// pageResponse is the paged result envelope shared by discover,
// recommendations, trending, and release endpoints.
type pageResponse struct {
	Page       int       `json:"page"`
	TotalPages int       `json:"total_pages"`
	Results    []rawItem `json:"results"`
}

// detailsResponse is the /{kind}/{id} payload. It carries full genre
// objects instead of genre_ids.
type detailsResponse struct {
	rawItem
	Genres []struct {
		ID   json.RawMessage `json:"id"`
		Name *string         `json:"name"`
	} `json:"genres"`
}

func (d *detailsResponse) normalize(kind models.MediaKind, imageBaseURL string) *Details {
	out := &Details{Item: d.rawItem.normalize(kind, imageBaseURL), Genres: make([]string, 0, len(d.Genres))}
	for _, g := range d.Genres {
		if id, ok := positiveID(g.ID); ok {
			out.GenreIDs = append(out.GenreIDs, id)
		}
		if g.Name != nil && *g.Name != "" {
			out.Genres = append(out.Genres, *g.Name)
		}
	}
	out.ReleaseDate = d.ReleaseDate
	if out.ReleaseDate == "" {
		out.ReleaseDate = d.FirstAirDate
	}
	return out
}

// rawItem is a catalog result as received. Movies carry title/release_date,
// TV titles carry name/first_air_date.
type rawItem struct {
	ID               int             `json:"id"`
	MediaType        string          `json:"media_type"`
	Title            string          `json:"title"`
	Name             string          `json:"name"`
	ReleaseDate      string          `json:"release_date"`
	FirstAirDate     string          `json:"first_air_date"`
	PosterPath       *string         `json:"poster_path"`
	GenreIDs         []any           `json:"genre_ids"`
	OriginalLanguage *string         `json:"original_language"`
	VoteAverage      json.RawMessage `json:"vote_average"`
	Popularity       json.RawMessage `json:"popularity"`
	Overview         *string         `json:"overview"`
}

// normalize converts a raw result into an Item of the given kind. Missing
// fields default to zero values.
func (r *rawItem) normalize(kind models.MediaKind, imageBaseURL string) Item {
	title := r.Title
	if title == "" {
		title = r.Name
	}

	date := r.ReleaseDate
	if date == "" {
		date = r.FirstAirDate
	}
	year := date
	if len(year) > 4 {
		year = year[:4]
	}

	var poster string
	if r.PosterPath != nil && *r.PosterPath != "" {
		poster = imageBaseURL + *r.PosterPath
	}

	return Item{
		ID:               r.ID,
		Kind:             kind,
		Title:            title,
		Year:             year,
		PosterURL:        poster,
		GenreIDs:         genreIDs(r.GenreIDs),
		OriginalLanguage: deref(r.OriginalLanguage),
		VoteAverage:      number(r.VoteAverage),
		Popularity:       number(r.Popularity),
		Overview:         deref(r.Overview),
	}
}

// genreIDs keeps non-negative integral entries and drops everything else.
func genreIDs(raw []any) []int {
	out := make([]int, 0, len(raw))
	for _, v := range raw {
		switch x := v.(type) {
		case float64:
			if x >= 0 && x == math.Trunc(x) {
				out = append(out, int(x))
			}
		case string:
			if id, ok := digits(x); ok {
				out = append(out, id)
			}
		}
	}
	return out
}

// positiveID decodes a genre id. Only JSON integers count.
func positiveID(raw json.RawMessage) (int, bool) {
	var f float64
	if err := json.Unmarshal(raw, &f); err != nil {
		return 0, false
	}
	if f <= 0 || f != math.Trunc(f) || strings.ContainsAny(string(raw), ".eE") {
		return 0, false
	}
	return int(f), true
}

func digits(s string) (int, bool) {
	if s == "" || len(s) > 9 {
		return 0, false
	}
	n := 0
	for _, c := range s {
		if c < '0' || c > '9' {
			return 0, false
		}
		n = n*10 + int(c-'0')
	}
	return n, true
}

// number decodes a numeric field; null, strings, and garbage become 0.
func number(raw json.RawMessage) float64 {
	if len(raw) == 0 {
		return 0
	}
	var f float64
	if err := json.Unmarshal(raw, &f); err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}
	return f
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
