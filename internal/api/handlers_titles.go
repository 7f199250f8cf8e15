// Coldstart - Cold-Start Movie and TV Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/coldstart

package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/tomtom215/coldstart/internal/catalog"
	"github.com/tomtom215/coldstart/internal/models"
)

type detailsPath struct {
	Kind   string `json:"kind" validate:"required,mediakind"`
	TMDBID int    `json:"tmdb_id" validate:"gt=0"`
}

// SearchTitles handles GET /api/v1/search?q=. Onboarding uses it to find
// the catalog ids of titles the user likes. Queries shorter than two
// characters return an empty list without a catalog call.
//
// @Summary Search movies and series by title
// @Tags Catalog
// @Produce json
// @Param q query string true "Query, at least 2 characters"
// @Success 200 {object} models.APIResponse "Matches"
// @Failure 503 {object} models.APIResponse "Catalog unavailable"
// @Router /search [get]
func (h *Handler) SearchTitles(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	ctx, cancel := h.requestContext(r)
	defer cancel()

	items, err := h.catalog.Search(ctx, r.URL.Query().Get("q"), h.cfg.Language)
	if err != nil {
		respondCatalogError(w, err)
		return
	}

	respondData(w, http.StatusOK, models.ItemsResponse[catalog.Item]{Items: truncate(items, len(items))}, start)
}

// GetTitleDetails handles GET /api/v1/titles/{kind}/{tmdbID}. A title
// missing under kind is looked up under the other kind; media_type in the
// response names the kind that matched.
//
// @Summary Full record of one title
// @Tags Catalog
// @Produce json
// @Param kind path string true "Media kind, the other kind is tried when missing" Enums(movie, tv)
// @Param tmdbID path int true "TMDB ID"
// @Success 200 {object} models.APIResponse{data=catalog.Details} "Details"
// @Failure 404 {object} models.APIResponse "Title not found"
// @Router /titles/{kind}/{tmdbID} [get]
func (h *Handler) GetTitleDetails(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	id, err := strconv.Atoi(chi.URLParam(r, "tmdbID"))
	if err != nil {
		respondError(w, http.StatusBadRequest, codeValidation, "tmdb_id must be an integer", nil)
		return
	}
	p := detailsPath{Kind: chi.URLParam(r, "kind"), TMDBID: id}
	if apiErr := validateRequest(&p); apiErr != nil {
		respondErrorDetails(w, http.StatusBadRequest, apiErr, nil)
		return
	}
	kind, _ := models.ParseMediaKind(p.Kind)

	ctx, cancel := h.requestContext(r)
	defer cancel()

	details, err := h.catalog.Details(ctx, kind, p.TMDBID, h.cfg.Language)
	if err != nil {
		respondCatalogError(w, err)
		return
	}

	respondData(w, http.StatusOK, details, start)
}
