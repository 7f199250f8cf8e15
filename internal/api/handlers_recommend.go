// Coldstart - Cold-Start Movie and TV Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/coldstart

package api

import (
	"net/http"
	"time"

	"github.com/tomtom215/coldstart/internal/logging"
	"github.com/tomtom215/coldstart/internal/models"
)

// GetRecommendations handles GET /api/v1/users/{userID}/recommendations.
//
// limit is clamped into [1, 60] (default 20). type=movie|tv filters the
// ranked list; any other value returns both kinds. A user who has not
// finished onboarding gets an empty list.
//
// @Summary Ranked recommendations for a profile
// @Tags Recommendations
// @Produce json
// @Param userID path string true "User ID"
// @Param limit query int false "Result count, 1 to 60" default(20)
// @Param type query string false "Media kind filter" Enums(movie, tv)
// @Success 200 {object} models.APIResponse{data=recommend.Result} "Recommendations"
// @Failure 400 {object} models.APIResponse "Invalid user or limit"
// @Failure 503 {object} models.APIResponse "Catalog unavailable"
// @Router /users/{userID}/recommendations [get]
func (h *Handler) GetRecommendations(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	userID, ok := userIDParam(w, r)
	if !ok {
		return
	}

	limit, ok := getIntParam(r, "limit", h.engine.DefaultLimit())
	if !ok {
		respondError(w, http.StatusBadRequest, codeValidation, "limit must be an integer", nil)
		return
	}
	limit = h.engine.ClampLimit(limit)

	kind, ok := models.ParseMediaKind(r.URL.Query().Get("type"))
	if !ok {
		kind = ""
	}

	ctx, cancel := h.requestContext(r)
	defer cancel()

	result, err := h.engine.Recommend(ctx, userID, limit, kind)
	if err != nil {
		respondDomainError(w, err)
		return
	}

	if len(result.FailedKinds) > 0 {
		logging.Ctx(ctx).Warn().
			Interface("failed_kinds", result.FailedKinds).
			Msg("Recommendations served from a partial candidate pool")
	}

	count := len(result.Items)
	respondJSON(w, http.StatusOK, &models.APIResponse{
		Status: "success",
		Data:   result,
		Metadata: models.Metadata{
			Timestamp:   time.Now(),
			QueryTimeMS: time.Since(start).Milliseconds(),
			Count:       &count,
		},
	})
}
