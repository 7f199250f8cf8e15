// Coldstart - Cold-Start Movie and TV Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/coldstart

package preferences

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"
)

// ErrNotEnoughFavorites is returned by Finalize when the user has liked fewer
// titles than onboarding requires.
var ErrNotEnoughFavorites = errors.New("not enough liked titles")

// LikedTitle is an onboarding title record (step 10).
type LikedTitle struct {
	CatalogID int       `json:"tmdb_id"`
	MediaKind string    `json:"media_type"`
	Title     string    `json:"title"`
	Liked     bool      `json:"liked"`
	CreatedAt time.Time `json:"created_at"`
}

// Answers holds the raw stored answers of one user by question key.
type Answers map[QuestionKey]string

// BuildProfile assembles a profile from raw answers and liked titles.
// liked must contain only liked records, in the order they should seed
// similarity lookups. The function is pure: identical inputs give identical
// profiles.
func BuildProfile(userID string, answers Answers, liked []LikedTitle) Profile {
	p := Profile{
		UserID:         userID,
		ContentType:    ContentBoth,
		Languages:      []string{},
		AudioPref:      AudioAny,
		LikedGenres:    []string{},
		BlockedGenres:  []string{},
		BlockedTopics:  []string{},
		Pace:           PaceMedium,
		Mood:           MoodMixed,
		PlotComplexity: ComplexityMedium,
		AgeLimit:       AgeNone,
		ContentFlags:   []string{},
		FavoriteTitles: make([]FavoriteTitle, 0, len(liked)),
	}

	for _, key := range Questions {
		// Decoding a known key cannot fail.
		ans, _ := DecodeAnswer(key, answers[key])
		switch a := ans.(type) {
		case ContentTypeAnswer:
			p.ContentType = a.Value
		case LanguagesAnswer:
			p.Languages = a.Languages
		case AudioAnswer:
			p.AudioPref = a.Value
		case GenresAnswer:
			p.LikedGenres = a.Genres
		case AvoidAnswer:
			p.BlockedGenres = a.Genres
			p.BlockedTopics = a.Topics
		case PaceAnswer:
			p.Pace = a.Value
		case MoodAnswer:
			p.Mood = a.Value
		case ComplexityAnswer:
			p.PlotComplexity = a.Value
		case AgeAnswer:
			p.AgeLimit = a.Limit
			p.ContentFlags = a.Flags
		}
	}

	for _, t := range liked {
		p.FavoriteTitles = append(p.FavoriteTitles, FavoriteTitle{
			CatalogID: t.CatalogID,
			MediaKind: t.MediaKind,
		})
	}

	return p
}

// Store is the persistence the builder reads from and writes to.
type Store interface {
	// Answers returns every stored answer of the user. Unanswered
	// questions are absent.
	Answers(ctx context.Context, userID string) (Answers, error)

	// LikedTitles returns liked records only, newest first.
	LikedTitles(ctx context.Context, userID string) ([]LikedTitle, error)

	// UpsertProfile replaces the user's profile as a whole.
	UpsertProfile(ctx context.Context, p *Profile) error
}

// Builder runs profile builds against a Store.
type Builder struct {
	store     Store
	minTitles int
	logger    zerolog.Logger
}

// NewBuilder creates a builder. minTitles is the number of liked titles
// Finalize requires.
//
//nolint:gocritic // zerolog.Logger is designed to be passed by value
func NewBuilder(store Store, minTitles int, logger zerolog.Logger) *Builder {
	return &Builder{
		store:     store,
		minTitles: minTitles,
		logger:    logger.With().Str("component", "preferences").Logger(),
	}
}

// Rebuild rebuilds the profile from the currently stored answers and titles
// and upserts it.
func (b *Builder) Rebuild(ctx context.Context, userID string) (*Profile, error) {
	answers, liked, err := b.load(ctx, userID)
	if err != nil {
		return nil, err
	}
	return b.save(ctx, userID, answers, liked)
}

// Finalize completes onboarding. It fails with ErrNotEnoughFavorites when
// fewer than the configured number of titles are liked.
func (b *Builder) Finalize(ctx context.Context, userID string) (*Profile, error) {
	answers, liked, err := b.load(ctx, userID)
	if err != nil {
		return nil, err
	}
	if len(liked) < b.minTitles {
		return nil, fmt.Errorf("%w: have %d, need %d", ErrNotEnoughFavorites, len(liked), b.minTitles)
	}
	return b.save(ctx, userID, answers, liked)
}

func (b *Builder) load(ctx context.Context, userID string) (Answers, []LikedTitle, error) {
	answers, err := b.store.Answers(ctx, userID)
	if err != nil {
		return nil, nil, fmt.Errorf("load answers: %w", err)
	}
	liked, err := b.store.LikedTitles(ctx, userID)
	if err != nil {
		return nil, nil, fmt.Errorf("load liked titles: %w", err)
	}
	return answers, liked, nil
}

func (b *Builder) save(ctx context.Context, userID string, answers Answers, liked []LikedTitle) (*Profile, error) {
	p := BuildProfile(userID, answers, liked)
	if err := b.store.UpsertProfile(ctx, &p); err != nil {
		return nil, fmt.Errorf("upsert profile: %w", err)
	}
	b.logger.Info().
		Str("user_id", userID).
		Str("content_type", string(p.ContentType)).
		Int("liked_genres", len(p.LikedGenres)).
		Int("favorites", len(p.FavoriteTitles)).
		Msg("Preference profile rebuilt")
	return &p, nil
}
