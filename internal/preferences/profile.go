// Coldstart - Cold-Start Movie and TV Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/coldstart

// Package preferences turns onboarding questionnaire answers into a
// normalized preference profile.
//
// Raw answers are stored per question key (q1..q9). Each key decodes into
// its own typed StepAnswer; decoding never fails, it falls back to the step
// default. BuildProfile combines the decoded answers with the user's liked
// titles into one Profile.
package preferences

import (
	"errors"
	"time"
)

// ErrProfileNotFound is returned by stores when a user has no profile yet.
var ErrProfileNotFound = errors.New("preference profile not found")

// ContentType is the preferred media kind mix.
type ContentType string

const (
	ContentMovie ContentType = "movie"
	ContentTV    ContentType = "tv"
	ContentBoth  ContentType = "both"
)

// AudioPref is informational; it does not influence scoring.
type AudioPref string

const (
	AudioDub  AudioPref = "dub"
	AudioSubs AudioPref = "subs"
	AudioAny  AudioPref = "any"
)

// Pace is the preferred storytelling pace.
type Pace string

const (
	PaceFast   Pace = "fast"
	PaceMedium Pace = "medium"
	PaceSlow   Pace = "slow"
)

// Mood is the preferred emotional tone.
type Mood string

const (
	MoodLight     Mood = "light"
	MoodTense     Mood = "tense"
	MoodInspiring Mood = "inspiring"
	MoodDark      Mood = "dark"
	MoodThink     Mood = "think"
	MoodMixed     Mood = "mixed"
)

// Complexity is the preferred plot complexity.
type Complexity string

const (
	ComplexitySimple  Complexity = "simple"
	ComplexityMedium  Complexity = "medium"
	ComplexityComplex Complexity = "complex"
)

// AgeLimit is the highest age rating the user accepts.
type AgeLimit string

const (
	AgeNone AgeLimit = "none"
	Age16   AgeLimit = "16"
	Age18   AgeLimit = "18"
)

// FavoriteTitle is a liked seed title as stored by onboarding.
// MediaKind is kept as stored; the aggregator decides what it accepts.
type FavoriteTitle struct {
	CatalogID int    `json:"tmdb_id"`
	MediaKind string `json:"media_type"`
}

// Profile is the complete preference profile of one user. A rebuild replaces
// the whole document.
type Profile struct {
	UserID string `json:"user_id"`

	ContentType ContentType `json:"content_type"`
	Languages   []string    `json:"languages"`
	AudioPref   AudioPref   `json:"audio_pref"`

	LikedGenres   []string `json:"liked_genres"`
	BlockedGenres []string `json:"blocked_genres"`
	// BlockedTopics is advisory: no taxonomy maps topics to genres.
	BlockedTopics []string `json:"blocked_topics"`

	Pace           Pace       `json:"pace"`
	Mood           Mood       `json:"mood"`
	PlotComplexity Complexity `json:"plot_complexity"`

	AgeLimit AgeLimit `json:"age_limit"`
	// ContentFlags is advisory.
	ContentFlags []string `json:"content_flags"`

	// FavoriteTitles keeps stored order and is not capped here.
	FavoriteTitles []FavoriteTitle `json:"favorite_titles"`

	// UpdatedAt is stamped by the store on upsert, never by BuildProfile.
	UpdatedAt time.Time `json:"updated_at,omitempty"`
}

// AllowsAdult reports whether adult catalog content may be requested.
func (p *Profile) AllowsAdult() bool {
	return p.AgeLimit == Age18
}

// PrimaryLanguage returns the first configured language, or "".
func (p *Profile) PrimaryLanguage() string {
	if len(p.Languages) == 0 {
		return ""
	}
	return p.Languages[0]
}

// HasLanguage reports whether lang is one of the user's languages.
func (p *Profile) HasLanguage(lang string) bool {
	for _, l := range p.Languages {
		if l == lang {
			return true
		}
	}
	return false
}
