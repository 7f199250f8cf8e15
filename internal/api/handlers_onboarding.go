// Coldstart - Cold-Start Movie and TV Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/coldstart

package api

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/goccy/go-json"

	"github.com/tomtom215/coldstart/internal/logging"
	"github.com/tomtom215/coldstart/internal/metrics"
	"github.com/tomtom215/coldstart/internal/models"
	"github.com/tomtom215/coldstart/internal/preferences"
)

// Onboarding step 4 asks for 3 to 5 genres.
const (
	minLikedGenres = 3
	maxLikedGenres = 5
)

type userPath struct {
	UserID string `json:"user_id" validate:"required,userid"`
}

type answerPath struct {
	UserID      string `json:"user_id" validate:"required,userid"`
	QuestionKey string `json:"question_key" validate:"required,questionkey"`
}

// answerRequest carries either plain text or a structured envelope such as
// {"genres":[...]}.
type answerRequest struct {
	Answer json.RawMessage `json:"answer"`
}

// AnswerResponse is one stored answer.
type AnswerResponse struct {
	QuestionKey preferences.QuestionKey `json:"question_key"`
	Answer      string                  `json:"answer"`
}

type saveTitleRequest struct {
	TMDBID    int    `json:"tmdb_id" validate:"required,gt=0"`
	MediaType string `json:"media_type"`
	Title     string `json:"title" validate:"max=512"`
	Liked     bool   `json:"liked"`
}

type titlePath struct {
	UserID string `json:"user_id" validate:"required,userid"`
	TMDBID int    `json:"tmdb_id" validate:"required,gt=0"`
}

// userIDParam validates the {userID} route parameter. It writes the error
// response and returns false when invalid.
func userIDParam(w http.ResponseWriter, r *http.Request) (string, bool) {
	p := userPath{UserID: chi.URLParam(r, "userID")}
	if apiErr := validateRequest(&p); apiErr != nil {
		respondErrorDetails(w, http.StatusBadRequest, apiErr, nil)
		return "", false
	}
	return p.UserID, true
}

// PutAnswer handles PUT /api/v1/users/{userID}/answers/{questionKey}.
//
// @Summary Store one onboarding answer
// @Tags Onboarding
// @Accept json
// @Produce json
// @Param userID path string true "User ID"
// @Param questionKey path string true "Question key"
// @Param request body answerRequest true "Answer as text or structured envelope"
// @Success 200 {object} models.APIResponse{data=AnswerResponse} "Stored answer"
// @Failure 400 {object} models.APIResponse "Invalid answer"
// @Router /users/{userID}/answers/{questionKey} [put]
func (h *Handler) PutAnswer(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	p := answerPath{UserID: chi.URLParam(r, "userID"), QuestionKey: chi.URLParam(r, "questionKey")}
	if apiErr := validateRequest(&p); apiErr != nil {
		respondErrorDetails(w, http.StatusBadRequest, apiErr, nil)
		return
	}
	key, _ := preferences.ParseQuestionKey(p.QuestionKey)

	var req answerRequest
	if err := decodeJSONBody(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, codeValidation, err.Error(), nil)
		return
	}
	raw, err := answerText(req.Answer)
	if err != nil {
		respondError(w, http.StatusBadRequest, codeValidation, err.Error(), nil)
		return
	}
	if key == preferences.QuestionGenres {
		ans, _ := preferences.DecodeAnswer(key, raw)
		if n := len(ans.(preferences.GenresAnswer).Genres); n < minLikedGenres || n > maxLikedGenres {
			respondError(w, http.StatusBadRequest, codeValidation,
				fmt.Sprintf("genres must contain %d to %d entries, got %d", minLikedGenres, maxLikedGenres, n), nil)
			return
		}
	}

	ctx, cancel := h.requestContext(r)
	defer cancel()

	if err := h.store.SaveAnswer(ctx, p.UserID, key, raw); err != nil {
		respondDomainError(w, err)
		return
	}

	respondData(w, http.StatusOK, AnswerResponse{QuestionKey: key, Answer: raw}, start)
}

// GetAnswer handles GET /api/v1/users/{userID}/answers/{questionKey}.
//
// @Summary Read one onboarding answer
// @Tags Onboarding
// @Produce json
// @Param userID path string true "User ID"
// @Param questionKey path string true "Question key"
// @Success 200 {object} models.APIResponse{data=AnswerResponse} "Stored answer"
// @Failure 404 {object} models.APIResponse "No answer stored"
// @Router /users/{userID}/answers/{questionKey} [get]
func (h *Handler) GetAnswer(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	p := answerPath{UserID: chi.URLParam(r, "userID"), QuestionKey: chi.URLParam(r, "questionKey")}
	if apiErr := validateRequest(&p); apiErr != nil {
		respondErrorDetails(w, http.StatusBadRequest, apiErr, nil)
		return
	}
	key, _ := preferences.ParseQuestionKey(p.QuestionKey)

	ctx, cancel := h.requestContext(r)
	defer cancel()

	raw, err := h.store.Answer(ctx, p.UserID, key)
	if err != nil {
		respondDomainError(w, err)
		return
	}

	respondData(w, http.StatusOK, AnswerResponse{QuestionKey: key, Answer: raw}, start)
}

// answerText converts the JSON answer value to its stored text form. Strings
// are stored unquoted, objects in compact JSON.
func answerText(msg json.RawMessage) (string, error) {
	trimmed := bytes.TrimSpace(msg)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return "", errors.New("answer is required")
	}
	switch trimmed[0] {
	case '"':
		var s string
		if err := json.Unmarshal(trimmed, &s); err != nil {
			return "", fmt.Errorf("invalid answer: %w", err)
		}
		return strings.TrimSpace(s), nil
	case '{':
		var buf bytes.Buffer
		if err := json.Compact(&buf, trimmed); err != nil {
			return "", fmt.Errorf("invalid answer: %w", err)
		}
		return buf.String(), nil
	default:
		return "", errors.New("answer must be a string or an object")
	}
}

// SaveTitle handles POST /api/v1/users/{userID}/titles.
// An unknown media type is stored as movie and an empty title as "tmdb:<id>".
//
// @Summary Save a liked or seen title
// @Tags Onboarding
// @Accept json
// @Produce json
// @Param userID path string true "User ID"
// @Param request body saveTitleRequest true "Title to save"
// @Success 200 {object} models.APIResponse{data=preferences.LikedTitle} "Saved"
// @Failure 400 {object} models.APIResponse "Invalid title"
// @Router /users/{userID}/titles [post]
func (h *Handler) SaveTitle(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	userID, ok := userIDParam(w, r)
	if !ok {
		return
	}

	var req saveTitleRequest
	if err := decodeJSONBody(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, codeValidation, err.Error(), nil)
		return
	}
	req.Title = strings.TrimSpace(req.Title)
	if apiErr := validateRequest(&req); apiErr != nil {
		respondErrorDetails(w, http.StatusBadRequest, apiErr, nil)
		return
	}

	kind, ok := models.ParseMediaKind(req.MediaType)
	if !ok {
		kind = models.KindMovie
	}
	title := req.Title
	if title == "" {
		title = "tmdb:" + strconv.Itoa(req.TMDBID)
	}
	record := preferences.LikedTitle{
		CatalogID: req.TMDBID,
		MediaKind: kind.String(),
		Title:     title,
		Liked:     req.Liked,
	}

	ctx, cancel := h.requestContext(r)
	defer cancel()

	if err := h.store.SaveTitle(ctx, userID, &record); err != nil {
		respondDomainError(w, err)
		return
	}

	respondData(w, http.StatusOK, record, start)
}

// ListTitles handles GET /api/v1/users/{userID}/titles, newest first.
//
// @Summary List saved titles, newest first
// @Tags Onboarding
// @Produce json
// @Param userID path string true "User ID"
// @Success 200 {object} models.APIResponse "Saved titles"
// @Router /users/{userID}/titles [get]
func (h *Handler) ListTitles(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	userID, ok := userIDParam(w, r)
	if !ok {
		return
	}

	ctx, cancel := h.requestContext(r)
	defer cancel()

	titles, err := h.store.ListTitles(ctx, userID)
	if err != nil {
		respondDomainError(w, err)
		return
	}

	respondData(w, http.StatusOK, models.ItemsResponse[preferences.LikedTitle]{Items: titles}, start)
}

// DeleteTitle handles DELETE /api/v1/users/{userID}/titles/{tmdbID}.
//
// @Summary Remove a saved title
// @Tags Onboarding
// @Produce json
// @Param userID path string true "User ID"
// @Param tmdbID path int true "TMDB ID"
// @Success 200 {object} models.APIResponse "Removed"
// @Failure 404 {object} models.APIResponse "Not saved"
// @Router /users/{userID}/titles/{tmdbID} [delete]
func (h *Handler) DeleteTitle(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	id, err := strconv.Atoi(chi.URLParam(r, "tmdbID"))
	if err != nil {
		respondError(w, http.StatusBadRequest, codeValidation, "tmdb_id must be an integer", nil)
		return
	}
	p := titlePath{UserID: chi.URLParam(r, "userID"), TMDBID: id}
	if apiErr := validateRequest(&p); apiErr != nil {
		respondErrorDetails(w, http.StatusBadRequest, apiErr, nil)
		return
	}

	ctx, cancel := h.requestContext(r)
	defer cancel()

	if err := h.store.DeleteTitle(ctx, p.UserID, p.TMDBID); err != nil {
		respondDomainError(w, err)
		return
	}

	respondData(w, http.StatusOK, map[string]int{"deleted": p.TMDBID}, start)
}

// FinalizeProfile handles POST /api/v1/users/{userID}/profile/finalize.
// It fails with 412 until enough titles are liked.
//
// @Summary Build the profile after onboarding
// @Tags Profile
// @Produce json
// @Param userID path string true "User ID"
// @Success 200 {object} models.APIResponse{data=preferences.Profile} "Profile"
// @Failure 412 {object} models.APIResponse "Onboarding incomplete"
// @Router /users/{userID}/profile/finalize [post]
func (h *Handler) FinalizeProfile(w http.ResponseWriter, r *http.Request) {
	h.buildProfile(w, r, "finalize", h.builder.Finalize)
}

// RebuildProfile handles POST /api/v1/users/{userID}/profile/rebuild.
//
// @Summary Rebuild the profile from current answers and titles
// @Tags Profile
// @Produce json
// @Param userID path string true "User ID"
// @Success 200 {object} models.APIResponse{data=preferences.Profile} "Profile"
// @Failure 412 {object} models.APIResponse "Onboarding incomplete"
// @Router /users/{userID}/profile/rebuild [post]
func (h *Handler) RebuildProfile(w http.ResponseWriter, r *http.Request) {
	h.buildProfile(w, r, "rebuild", h.builder.Rebuild)
}

func (h *Handler) buildProfile(w http.ResponseWriter, r *http.Request, trigger string,
	build func(ctx context.Context, userID string) (*preferences.Profile, error)) {
	start := time.Now()
	userID, ok := userIDParam(w, r)
	if !ok {
		return
	}

	ctx, cancel := h.requestContext(r)
	defer cancel()

	profile, err := build(ctx, userID)
	metrics.RecordProfileBuild(trigger, err)
	if err != nil {
		logging.Ctx(ctx).Debug().Err(err).Str("trigger", trigger).Msg("Profile build rejected")
		respondDomainError(w, err)
		return
	}

	respondData(w, http.StatusOK, profile, start)
}

// GetProfile handles GET /api/v1/users/{userID}/profile.
//
// @Summary Read the stored profile
// @Tags Profile
// @Produce json
// @Param userID path string true "User ID"
// @Success 200 {object} models.APIResponse{data=preferences.Profile} "Profile"
// @Failure 404 {object} models.APIResponse "No profile"
// @Router /users/{userID}/profile [get]
func (h *Handler) GetProfile(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	userID, ok := userIDParam(w, r)
	if !ok {
		return
	}

	ctx, cancel := h.requestContext(r)
	defer cancel()

	profile, err := h.store.Profile(ctx, userID)
	if err != nil {
		respondDomainError(w, err)
		return
	}

	respondData(w, http.StatusOK, profile, start)
}
