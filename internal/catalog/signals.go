// Coldstart - Cold-Start Movie and TV Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/coldstart

package catalog

import (
	"context"
	"fmt"
	"sync"

	"github.com/tomtom215/coldstart/internal/models"
)

// GenreSet is a set of genre ids.
type GenreSet map[int]struct{}

// NewGenreSet builds a set from ids.
func NewGenreSet(ids ...int) GenreSet {
	s := make(GenreSet, len(ids))
	for _, id := range ids {
		s[id] = struct{}{}
	}
	return s
}

// Has reports whether id is in the set.
func (s GenreSet) Has(id int) bool {
	_, ok := s[id]
	return ok
}

// Signal names a heuristic genre set used by the pace, mood, and complexity
// factors.
type Signal string

const (
	SignalFast      Signal = "fast"
	SignalSlow      Signal = "slow"
	SignalLight     Signal = "light"
	SignalTense     Signal = "tense"
	SignalInspiring Signal = "inspiring"
	SignalDark      Signal = "dark"
	SignalThink     Signal = "think"
	SignalSimple    Signal = "simple"
	SignalComplex   Signal = "complex"
)

// signalSynonyms lists, per signal, the genre names (Russian and English)
// whose ids make up the set.
var signalSynonyms = map[Signal][]string{
	SignalFast:      {"боевик", "action", "триллер", "thriller", "приключения", "adventure", "криминал", "crime"},
	SignalSlow:      {"драма", "drama", "романтика", "romance", "документальный", "documentary"},
	SignalLight:     {"комедия", "comedy", "приключения", "adventure", "анимация", "animation", "семейный", "family"},
	SignalTense:     {"триллер", "thriller", "криминал", "crime", "ужасы", "horror", "детектив", "mystery"},
	SignalInspiring: {"драма", "drama", "история", "history", "документальный", "documentary"},
	SignalDark:      {"ужасы", "horror", "триллер", "thriller", "криминал", "crime"},
	SignalThink:     {"детектив", "mystery", "фантастика", "science fiction", "триллер", "thriller"},
	SignalSimple:    {"комедия", "comedy", "семейный", "family", "анимация", "animation"},
	SignalComplex:   {"детектив", "mystery", "триллер", "thriller", "фантастика", "science fiction"},
}

// Signals maps each signal to its genre set.
type Signals map[Signal]GenreSet

// Set returns the genre set of a signal, or an empty set.
func (s Signals) Set(sig Signal) GenreSet {
	if set, ok := s[sig]; ok {
		return set
	}
	return GenreSet{}
}

// SignalBuilder derives signal sets from the genre taxonomy, once per
// language. Signals always resolve against the movie taxonomy, including for
// TV candidates: TV genre lists use combined names ("Action & Adventure")
// that the synonym lists do not cover.
type SignalBuilder struct {
	resolver *Resolver

	mu    sync.RWMutex
	cache map[string]Signals
}

// NewSignalBuilder creates a builder backed by resolver.
func NewSignalBuilder(resolver *Resolver) *SignalBuilder {
	return &SignalBuilder{resolver: resolver, cache: make(map[string]Signals)}
}

// Build returns the signal sets for language. A signal without any
// resolvable synonym is an empty set.
func (b *SignalBuilder) Build(ctx context.Context, language string) (Signals, error) {
	b.mu.RLock()
	cached, ok := b.cache[language]
	b.mu.RUnlock()
	if ok {
		return cached, nil
	}

	genres, err := b.resolver.Resolve(ctx, models.KindMovie, language)
	if err != nil {
		return nil, fmt.Errorf("build signals: %w", err)
	}

	signals := make(Signals, len(signalSynonyms))
	for sig, names := range signalSynonyms {
		signals[sig] = NewGenreSet(genres.IDs(names)...)
	}

	b.mu.Lock()
	b.cache[language] = signals
	b.mu.Unlock()
	return signals, nil
}

// Warm resolves the taxonomy of every media kind and the signal sets for
// language, so the first recommendation request does not pay for them.
func (b *SignalBuilder) Warm(ctx context.Context, language string) error {
	for _, kind := range models.AllKinds {
		if _, err := b.resolver.Resolve(ctx, kind, language); err != nil {
			return fmt.Errorf("warm %s taxonomy: %w", kind, err)
		}
	}
	_, err := b.Build(ctx, language)
	return err
}
