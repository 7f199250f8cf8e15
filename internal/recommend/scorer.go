// Coldstart - Cold-Start Movie and TV Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/coldstart

package recommend

import (
	"math"
	"sort"
	"strings"

	"github.com/tomtom215/coldstart/internal/catalog"
	"github.com/tomtom215/coldstart/internal/models"
	"github.com/tomtom215/coldstart/internal/preferences"
)

// Factor weights of the linear score. They are hand-tuned and fixed.
const (
	WeightGenre      = 5.0
	WeightSimilar    = 6.0
	WeightLanguage   = 1.0
	WeightRating     = 2.0
	WeightPopularity = 1.0
	WeightPace       = 0.7
	WeightMood       = 0.7
	WeightComplexity = 0.7
	WeightType       = 0.5
)

const (
	// popularityCeiling is the popularity that maps to P = 1.
	popularityCeiling = 1000.0
	// similarSaturation is the match count that maps to S = 1.
	similarSaturation = 3.0
	// neutralSignal scores the pace, mood, and complexity factors when the
	// user has no preference.
	neutralSignal = 0.5
)

// Factors is the per-candidate score breakdown. Every factor is in [0, 1].
type Factors struct {
	Genre      float64 `json:"genre"`
	Similar    float64 `json:"similar"`
	Language   float64 `json:"language"`
	Rating     float64 `json:"rating"`
	Popularity float64 `json:"popularity"`
	Pace       float64 `json:"pace"`
	Mood       float64 `json:"mood"`
	Complexity float64 `json:"complexity"`
	Type       float64 `json:"type"`
}

// Total returns the weighted sum of the factors.
func (f *Factors) Total() float64 {
	return WeightGenre*f.Genre +
		WeightSimilar*f.Similar +
		WeightLanguage*f.Language +
		WeightRating*f.Rating +
		WeightPopularity*f.Popularity +
		WeightPace*f.Pace +
		WeightMood*f.Mood +
		WeightComplexity*f.Complexity +
		WeightType*f.Type
}

// Scored is a ranked candidate card.
type Scored struct {
	catalog.Item
	Score   float64 `json:"score"`
	Factors Factors `json:"factors"`
}

// KindGenres holds the resolved liked and blocked genre sets of one media kind.
type KindGenres struct {
	Liked   catalog.GenreSet
	Blocked catalog.GenreSet
}

// RankInput is everything the ranker needs. It performs no I/O.
type RankInput struct {
	Profile     *preferences.Profile
	Pool        []catalog.Item
	MatchCounts map[models.ItemKey]int
	Genres      map[models.MediaKind]KindGenres
	Signals     catalog.Signals
}

// Rank drops candidates carrying a blocked genre of their own kind, scores
// the rest, and returns them in descending score order. Ties keep pool
// order. limit <= 0 returns every survivor. The second result is the number
// of candidates removed by the blocked-genre filter.
func Rank(in *RankInput, limit int) ([]Scored, int) {
	scorer := newScorer(in)

	ranked := make([]Scored, 0, len(in.Pool))
	filtered := 0
	for i := range in.Pool {
		item := &in.Pool[i]
		if scorer.blocked(item) {
			filtered++
			continue
		}
		f := scorer.factors(item)
		ranked = append(ranked, Scored{Item: *item, Score: f.Total(), Factors: f})
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Score > ranked[j].Score
	})

	if limit > 0 && len(ranked) > limit {
		ranked = ranked[:limit]
	}
	return ranked, filtered
}

// Score computes the factors of a single candidate without filtering.
func Score(in *RankInput, item *catalog.Item) Factors {
	return newScorer(in).factors(item)
}

// scorer precomputes the per-request parts of the formula.
type scorer struct {
	in         *RankInput
	pace       catalog.GenreSet
	mood       catalog.GenreSet
	complexity catalog.GenreSet
}

func newScorer(in *RankInput) *scorer {
	s := &scorer{in: in}

	switch in.Profile.Pace {
	case preferences.PaceFast:
		s.pace = in.Signals.Set(catalog.SignalFast)
	case preferences.PaceSlow:
		s.pace = in.Signals.Set(catalog.SignalSlow)
	}

	switch in.Profile.Mood {
	case preferences.MoodLight:
		s.mood = in.Signals.Set(catalog.SignalLight)
	case preferences.MoodTense:
		s.mood = in.Signals.Set(catalog.SignalTense)
	case preferences.MoodInspiring:
		s.mood = in.Signals.Set(catalog.SignalInspiring)
	case preferences.MoodDark:
		s.mood = in.Signals.Set(catalog.SignalDark)
	case preferences.MoodThink:
		s.mood = in.Signals.Set(catalog.SignalThink)
	}

	switch in.Profile.PlotComplexity {
	case preferences.ComplexitySimple:
		s.complexity = in.Signals.Set(catalog.SignalSimple)
	case preferences.ComplexityComplex:
		s.complexity = in.Signals.Set(catalog.SignalComplex)
	}
	return s
}

func (s *scorer) blocked(item *catalog.Item) bool {
	g := s.in.Genres[item.Kind]
	return len(g.Blocked) > 0 && intersects(item.GenreIDs, g.Blocked)
}

func (s *scorer) factors(item *catalog.Item) Factors {
	genres := catalog.NewGenreSet(item.GenreIDs...)

	return Factors{
		Genre:      Jaccard(genres, s.in.Genres[item.Kind].Liked),
		Similar:    clamp01(float64(s.in.MatchCounts[item.Key()]) / similarSaturation),
		Language:   s.language(item),
		Rating:     clamp01(item.VoteAverage / 10),
		Popularity: popularity(item.Popularity),
		Pace:       signalFactor(genres, s.pace),
		Mood:       signalFactor(genres, s.mood),
		Complexity: signalFactor(genres, s.complexity),
		Type:       s.typeMatch(item.Kind),
	}
}

func (s *scorer) language(item *catalog.Item) float64 {
	lang := strings.TrimSpace(item.OriginalLanguage)
	if lang != "" && s.in.Profile.HasLanguage(lang) {
		return 1
	}
	return 0
}

func (s *scorer) typeMatch(kind models.MediaKind) float64 {
	switch s.in.Profile.ContentType {
	case preferences.ContentMovie:
		return indicator(kind == models.KindMovie)
	case preferences.ContentTV:
		return indicator(kind == models.KindTV)
	default:
		return neutralSignal
	}
}

// signalFactor is the Jaccard overlap with a signal set, or the neutral
// value when target is nil (no preference).
func signalFactor(genres, target catalog.GenreSet) float64 {
	if target == nil {
		return neutralSignal
	}
	return Jaccard(genres, target)
}

func popularity(pop float64) float64 {
	if pop <= 0 {
		return 0
	}
	return clamp01(math.Log1p(pop) / math.Log1p(popularityCeiling))
}

func indicator(b bool) float64 {
	if b {
		return 1
	}
	return 0
}
