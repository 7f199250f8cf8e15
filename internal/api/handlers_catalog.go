// Coldstart - Cold-Start Movie and TV Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/coldstart

package api

import (
	"net/http"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/tomtom215/coldstart/internal/catalog"
	"github.com/tomtom215/coldstart/internal/models"
)

// List bounds of the catalog passthroughs.
const (
	defaultTrendingLimit = 20
	maxTrendingLimit     = 40
	defaultReleasesLimit = 10
	maxReleasesLimit     = 20
	defaultTopLimit      = 30
	maxTopLimit          = 60
	maxBrowsePage        = 20
)

// Fixed filters of the browse feed.
const (
	browseDefaultSort  = "popularity.desc"
	browseMinVoteCount = 50
)

// browseSorts lists the sort orders a movie browse may ask for. TV browsing
// is always by popularity.
var browseSorts = map[string]bool{
	"popularity.desc": true, "popularity.asc": true,
	"release_date.desc": true, "release_date.asc": true,
	"vote_average.desc": true, "vote_average.asc": true,
	"vote_count.desc": true, "vote_count.asc": true,
	"revenue.desc": true, "revenue.asc": true,
}

// BrowseResponse is one page of the browse feed.
type BrowseResponse struct {
	Items []catalog.Item `json:"items"`
	Page  int            `json:"page"`
}

type kindPath struct {
	Kind string `json:"kind" validate:"required,mediakind"`
}

// GenreEntry is one taxonomy entry. Name is the normalized (lowercased)
// name that onboarding answers are matched against.
type GenreEntry struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// kindParam validates the {kind} route parameter.
func kindParam(w http.ResponseWriter, r *http.Request) (models.MediaKind, bool) {
	p := kindPath{Kind: chi.URLParam(r, "kind")}
	if apiErr := validateRequest(&p); apiErr != nil {
		respondErrorDetails(w, http.StatusBadRequest, apiErr, nil)
		return "", false
	}
	kind, _ := models.ParseMediaKind(p.Kind)
	return kind, true
}

// boundedLimit reads the limit query parameter and clamps it into [1, max].
func boundedLimit(w http.ResponseWriter, r *http.Request, def, maxLimit int) (int, bool) {
	limit, ok := getIntParam(r, "limit", def)
	if !ok {
		respondError(w, http.StatusBadRequest, codeValidation, "limit must be an integer", nil)
		return 0, false
	}
	return max(1, min(limit, maxLimit)), true
}

// GetGenres handles GET /api/v1/genres/{kind}. The taxonomy comes from the
// process cache.
//
// @Summary Genre taxonomy for a media kind
// @Tags Catalog
// @Produce json
// @Param kind path string true "Media kind" Enums(movie, tv)
// @Success 200 {object} models.APIResponse "Genres"
// @Router /genres/{kind} [get]
func (h *Handler) GetGenres(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	kind, ok := kindParam(w, r)
	if !ok {
		return
	}

	ctx, cancel := h.requestContext(r)
	defer cancel()

	genres, err := h.resolver.Resolve(ctx, kind, h.cfg.Language)
	if err != nil {
		respondCatalogError(w, err)
		return
	}

	entries := make([]GenreEntry, 0, len(genres))
	for name, id := range genres {
		entries = append(entries, GenreEntry{ID: id, Name: name})
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Name < entries[j].Name })

	respondData(w, http.StatusOK, models.ItemsResponse[GenreEntry]{Items: entries}, start)
}

// GetTrending handles GET /api/v1/trending: this week's trending movies and
// TV titles.
//
// @Summary Trending movies and series this week
// @Tags Catalog
// @Produce json
// @Param limit query int false "Result count, 1 to 40" default(20)
// @Success 200 {object} models.APIResponse "Items"
// @Failure 503 {object} models.APIResponse "Catalog unavailable"
// @Router /trending [get]
func (h *Handler) GetTrending(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	limit, ok := boundedLimit(w, r, defaultTrendingLimit, maxTrendingLimit)
	if !ok {
		return
	}

	ctx, cancel := h.requestContext(r)
	defer cancel()

	items, err := h.catalog.Trending(ctx, h.cfg.Language)
	if err != nil {
		respondCatalogError(w, err)
		return
	}

	respondData(w, http.StatusOK, models.ItemsResponse[catalog.Item]{Items: truncate(items, limit)}, start)
}

// GetReleases handles GET /api/v1/releases/{kind}: movies now in cinemas or
// TV shows currently on the air.
//
// @Summary Movies now playing or series on the air
// @Tags Catalog
// @Produce json
// @Param kind path string true "Media kind" Enums(movie, tv)
// @Param limit query int false "Result count, 1 to 20" default(10)
// @Success 200 {object} models.APIResponse "Items"
// @Router /releases/{kind} [get]
func (h *Handler) GetReleases(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	kind, ok := kindParam(w, r)
	if !ok {
		return
	}
	limit, ok := boundedLimit(w, r, defaultReleasesLimit, maxReleasesLimit)
	if !ok {
		return
	}

	ctx, cancel := h.requestContext(r)
	defer cancel()

	items, err := h.catalog.Releases(ctx, kind, h.cfg.Language)
	if err != nil {
		respondCatalogError(w, err)
		return
	}

	respondData(w, http.StatusOK, models.ItemsResponse[catalog.Item]{Items: truncate(items, limit)}, start)
}

// GetTopRated handles GET /api/v1/top/{kind}?limit=: the best-rated titles
// of a kind (limit 1-60, default 30).
//
// @Summary Best rated titles
// @Tags Catalog
// @Produce json
// @Param kind path string true "Media kind" Enums(movie, tv)
// @Param limit query int false "Result count, 1 to 60" default(30)
// @Success 200 {object} models.APIResponse "Items"
// @Router /top/{kind} [get]
func (h *Handler) GetTopRated(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	kind, ok := kindParam(w, r)
	if !ok {
		return
	}
	limit, ok := boundedLimit(w, r, defaultTopLimit, maxTopLimit)
	if !ok {
		return
	}

	ctx, cancel := h.requestContext(r)
	defer cancel()

	items, err := h.catalog.TopRated(ctx, kind, h.cfg.Language, limit)
	if err != nil {
		respondCatalogError(w, err)
		return
	}

	respondData(w, http.StatusOK, models.ItemsResponse[catalog.Item]{Items: truncate(items, limit)}, start)
}

// BrowseCatalog handles GET /api/v1/discover/{kind}: a filtered, paged
// catalog listing. Query parameters:
//   - page: 1-20, default 1
//   - genres: comma-separated genre ids
//   - year: release year (first air year for TV); non-digits are ignored
//   - region: release region, movies only
//   - sort: one of browseSorts, movies only; unknown values fall back to
//     popularity.desc
//
// @Summary Browse the catalog with filters
// @Tags Catalog
// @Produce json
// @Param kind path string true "Media kind" Enums(movie, tv)
// @Param page query int false "Page, 1 to 20" default(1)
// @Param genres query string false "Comma separated genre IDs"
// @Param year query string false "Release or first air year"
// @Param region query string false "Release region, movies only"
// @Param sort query string false "Sort order, movies only" default(popularity.desc)
// @Success 200 {object} models.APIResponse{data=BrowseResponse} "One page"
// @Failure 400 {object} models.APIResponse "Invalid filter"
// @Router /discover/{kind} [get]
func (h *Handler) BrowseCatalog(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	kind, ok := kindParam(w, r)
	if !ok {
		return
	}
	page, ok := getIntParam(r, "page", 1)
	if !ok {
		respondError(w, http.StatusBadRequest, codeValidation, "page must be an integer", nil)
		return
	}
	genres, ok := genreIDsParam(r.URL.Query().Get("genres"))
	if !ok {
		respondError(w, http.StatusBadRequest, codeValidation, "genres must be comma-separated integers", nil)
		return
	}

	q := catalog.DiscoverQuery{
		Language:     h.cfg.Language,
		WithGenres:   genres,
		MinVoteCount: browseMinVoteCount,
		SortBy:       browseDefaultSort,
		Page:         max(1, min(page, maxBrowsePage)),
	}
	if year := strings.TrimSpace(r.URL.Query().Get("year")); isDigits(year) {
		q.Year = year
	}
	if kind == models.KindMovie {
		q.Region = strings.TrimSpace(r.URL.Query().Get("region"))
		if sortBy := strings.TrimSpace(r.URL.Query().Get("sort")); browseSorts[sortBy] {
			q.SortBy = sortBy
		}
	}

	ctx, cancel := h.requestContext(r)
	defer cancel()

	items, err := h.catalog.Discover(ctx, kind, q)
	if err != nil {
		respondCatalogError(w, err)
		return
	}

	respondData(w, http.StatusOK, BrowseResponse{Items: truncate(items, len(items)), Page: q.Page}, start)
}

// genreIDsParam parses "28,12". Empty entries are skipped.
func genreIDsParam(raw string) ([]int, bool) {
	var ids []int
	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		id, err := strconv.Atoi(part)
		if err != nil || id <= 0 {
			return nil, false
		}
		ids = append(ids, id)
	}
	return ids, true
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, c := range s {
		if c < '0' || c > '9' {
			return false
		}
	}
	return true
}

func truncate(items []catalog.Item, limit int) []catalog.Item {
	if items == nil {
		return []catalog.Item{}
	}
	if len(items) > limit {
		return items[:limit]
	}
	return items
}
