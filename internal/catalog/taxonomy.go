// Coldstart - Cold-Start Movie and TV Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/coldstart

package catalog

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"golang.org/x/text/unicode/norm"

	"github.com/tomtom215/coldstart/internal/logging"
	"github.com/tomtom215/coldstart/internal/metrics"
	"github.com/tomtom215/coldstart/internal/models"
)

// GenreMap maps a lowercased, trimmed, NFC-normalized genre name to its id.
type GenreMap map[string]int

// TaxonomyStore is an optional second-level cache shared between processes.
// The in-process map stays authoritative once populated.
type TaxonomyStore interface {
	// LoadGenres returns the cached map and whether it was present.
	LoadGenres(ctx context.Context, kind models.MediaKind, language string) (GenreMap, bool, error)
	// StoreGenres saves a freshly fetched map.
	StoreGenres(ctx context.Context, kind models.MediaKind, language string, genres GenreMap) error
}

type taxonomyKey struct {
	kind     models.MediaKind
	language string
}

// Resolver resolves genre names to catalog ids. Each (kind, language) pair is
// fetched once and kept for the life of the process; entries are never
// invalidated. Failed fetches are not cached.
//
// Concurrent first lookups of the same pair may both fetch. The catalog
// answer is the same for both, so the later write simply replaces the earlier.
type Resolver struct {
	source Source
	shared TaxonomyStore

	mu   sync.RWMutex
	maps map[taxonomyKey]GenreMap
}

// NewResolver creates a resolver. shared may be nil.
func NewResolver(source Source, shared TaxonomyStore) *Resolver {
	return &Resolver{
		source: source,
		shared: shared,
		maps:   make(map[taxonomyKey]GenreMap),
	}
}

// Resolve returns the genre map for (kind, language). The returned map is
// shared and must not be modified.
func (r *Resolver) Resolve(ctx context.Context, kind models.MediaKind, language string) (GenreMap, error) {
	key := taxonomyKey{kind: kind, language: language}

	r.mu.RLock()
	m, ok := r.maps[key]
	r.mu.RUnlock()
	if ok {
		metrics.RecordTaxonomyLookup("memory")
		return m, nil
	}

	if m, ok := r.loadShared(ctx, key); ok {
		metrics.RecordTaxonomyLookup("shared")
		r.put(key, m)
		return m, nil
	}

	metrics.RecordTaxonomyLookup("")
	genres, err := r.source.Genres(ctx, kind, language)
	if err != nil {
		return nil, fmt.Errorf("resolve %s genres (%s): %w", kind, language, err)
	}

	m = buildGenreMap(genres)
	r.put(key, m)
	r.storeShared(ctx, key, m)

	logging.Debug().Str("kind", kind.String()).Str("language", language).Int("genres", len(m)).Msg("Genre taxonomy loaded")
	return m, nil
}

// NamesToIDs maps names to unique ids in input order. Empty and unknown
// names are dropped.
func (r *Resolver) NamesToIDs(ctx context.Context, kind models.MediaKind, language string, names []string) ([]int, error) {
	m, err := r.Resolve(ctx, kind, language)
	if err != nil {
		return nil, err
	}
	return m.IDs(names), nil
}

// Len returns the number of cached (kind, language) pairs.
func (r *Resolver) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.maps)
}

// IDs maps names to unique ids in input order.
func (m GenreMap) IDs(names []string) []int {
	out := make([]int, 0, len(names))
	seen := make(map[int]struct{}, len(names))
	for _, name := range names {
		k := normalizeGenreName(name)
		if k == "" {
			continue
		}
		id, ok := m[k]
		if !ok || id <= 0 {
			continue
		}
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

func (r *Resolver) put(key taxonomyKey, m GenreMap) {
	r.mu.Lock()
	r.maps[key] = m
	n := len(r.maps)
	r.mu.Unlock()
	metrics.SetTaxonomyEntries(n)
}

func (r *Resolver) loadShared(ctx context.Context, key taxonomyKey) (GenreMap, bool) {
	if r.shared == nil {
		return nil, false
	}
	m, ok, err := r.shared.LoadGenres(ctx, key.kind, key.language)
	if err != nil {
		logging.Warn().Err(err).Str("kind", key.kind.String()).Msg("Shared taxonomy cache read failed")
		return nil, false
	}
	return m, ok
}

func (r *Resolver) storeShared(ctx context.Context, key taxonomyKey, m GenreMap) {
	if r.shared == nil {
		return
	}
	if err := r.shared.StoreGenres(ctx, key.kind, key.language, m); err != nil {
		logging.Warn().Err(err).Str("kind", key.kind.String()).Msg("Shared taxonomy cache write failed")
	}
}

func buildGenreMap(genres []Genre) GenreMap {
	m := make(GenreMap, len(genres))
	for _, g := range genres {
		name := normalizeGenreName(g.Name)
		if name == "" || g.ID <= 0 {
			continue
		}
		m[name] = g.ID
	}
	return m
}

// normalizeGenreName composes user input first: "й" typed as и + U+0306
// must match the catalog's precomposed form.
func normalizeGenreName(name string) string {
	return strings.ToLower(strings.TrimSpace(norm.NFC.String(name)))
}
