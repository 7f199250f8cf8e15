// Coldstart - Cold-Start Movie and TV Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/coldstart

package recommend

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"

	"github.com/tomtom215/coldstart/internal/catalog"
	"github.com/tomtom215/coldstart/internal/models"
	"github.com/tomtom215/coldstart/internal/preferences"
)

func newTestEngine(src *fakeSource, profiles *fakeProfiles) *Engine {
	resolver := catalog.NewResolver(src, nil)
	return NewEngine(profiles, resolver, catalog.NewSignalBuilder(resolver), testAggregator(src),
		EngineConfig{Language: "ru-RU"}, zerolog.Nop())
}

func TestEngine_ClampLimit(t *testing.T) {
	e := newTestEngine(newFakeSource(), &fakeProfiles{})
	tests := []struct{ in, want int }{
		{0, 1}, {-5, 1}, {1, 1}, {35, 35}, {60, 60}, {61, 60}, {1000, 60},
	}
	for _, tt := range tests {
		if got := e.ClampLimit(tt.in); got != tt.want {
			t.Errorf("ClampLimit(%d) = %d, want %d", tt.in, got, tt.want)
		}
	}
	if got := e.DefaultLimit(); got != DefaultLimit {
		t.Errorf("DefaultLimit() = %d, want %d", got, DefaultLimit)
	}
}

func TestEngine_NoProfile(t *testing.T) {
	src := newFakeSource()
	e := newTestEngine(src, &fakeProfiles{})

	res, err := e.Recommend(context.Background(), "nobody", 10, "")
	if err != nil {
		t.Fatalf("Recommend() error = %v", err)
	}
	if res.Items == nil || len(res.Items) != 0 {
		t.Errorf("Items = %#v, want empty non-nil", res.Items)
	}
	if src.genreCalls.Load() != 0 {
		t.Error("catalog queried for a user without a profile")
	}
}

func TestEngine_ProfileStoreError(t *testing.T) {
	boom := errors.New("disk on fire")
	e := newTestEngine(newFakeSource(), &fakeProfiles{err: boom})

	if _, err := e.Recommend(context.Background(), "u1", 10, ""); !errors.Is(err, boom) {
		t.Errorf("Recommend() error = %v, want wrapped store error", err)
	}
}

func TestEngine_MissingCredential(t *testing.T) {
	src := newFakeSource()
	src.genresErr = catalog.ErrCatalogNotConfigured
	profiles := &fakeProfiles{profiles: map[string]*preferences.Profile{"u1": neutralProfile(preferences.ContentBoth)}}

	res, err := newTestEngine(src, profiles).Recommend(context.Background(), "u1", 10, "")
	if !errors.Is(err, catalog.ErrCatalogNotConfigured) {
		t.Fatalf("Recommend() error = %v, want ErrCatalogNotConfigured", err)
	}
	if res != nil {
		t.Errorf("Recommend() = %+v, want nil result", res)
	}
}

func TestEngine_Recommend(t *testing.T) {
	src := newFakeSource()
	src.discover[models.KindMovie] = []catalog.Item{
		movie(1, 3, 5, genreAction),
		movie(2, 9, 900, genreAction, genreHorror),
		movie(3, 4, 10, genreComedy),
	}
	src.similar[42] = []catalog.Item{movie(2, 9, 900, genreHorror), movie(4, 7, 50, genreAction, genreThriller)}

	p := neutralProfile(preferences.ContentMovie)
	p.LikedGenres = []string{"action"}
	p.BlockedGenres = []string{" Horror "}
	p.Pace = preferences.PaceFast
	p.FavoriteTitles = []preferences.FavoriteTitle{{CatalogID: 42, MediaKind: "movie"}}
	profiles := &fakeProfiles{profiles: map[string]*preferences.Profile{"u1": p}}

	res, err := newTestEngine(src, profiles).Recommend(context.Background(), "u1", 10, "")
	if err != nil {
		t.Fatalf("Recommend() error = %v", err)
	}
	if res.PoolSize != 4 || res.Filtered != 1 {
		t.Errorf("PoolSize = %d, Filtered = %d, want 4 and 1", res.PoolSize, res.Filtered)
	}
	if len(res.Items) != 3 {
		t.Fatalf("len(Items) = %d, want 3", len(res.Items))
	}
	// Favorite similarity dominates for id 4.
	if res.Items[0].ID != 4 {
		t.Errorf("top item = %d, want 4", res.Items[0].ID)
	}
	for i := 1; i < len(res.Items); i++ {
		if res.Items[i].Score > res.Items[i-1].Score {
			t.Errorf("items not in descending score order at %d", i)
		}
	}

	q, _ := src.discoverQuery(models.KindMovie)
	if len(q.WithGenres) != 1 || q.WithGenres[0] != genreAction || len(q.WithoutGenres) != 1 || q.WithoutGenres[0] != genreHorror {
		t.Errorf("discovery filters = %v / %v", q.WithGenres, q.WithoutGenres)
	}
}

func TestEngine_KindFilter(t *testing.T) {
	src := newFakeSource()
	src.discover[models.KindMovie] = []catalog.Item{movie(1, 5, 10), movie(2, 5, 10)}
	src.discover[models.KindTV] = []catalog.Item{show(3, 9, 10), show(4, 8, 10), show(5, 7, 10)}
	profiles := &fakeProfiles{profiles: map[string]*preferences.Profile{"u1": neutralProfile(preferences.ContentBoth)}}

	res, err := newTestEngine(src, profiles).Recommend(context.Background(), "u1", 2, models.KindTV)
	if err != nil {
		t.Fatal(err)
	}
	if len(res.Items) != 2 {
		t.Fatalf("len(Items) = %d, want 2", len(res.Items))
	}
	for _, s := range res.Items {
		if s.Kind != models.KindTV {
			t.Errorf("item %d has kind %s, want tv", s.ID, s.Kind)
		}
	}
	if res.Items[0].ID != 3 || res.Items[1].ID != 4 {
		t.Errorf("items = %d, %d, want 3, 4", res.Items[0].ID, res.Items[1].ID)
	}
}

func TestEngine_FailedKindsReported(t *testing.T) {
	src := newFakeSource()
	src.discover[models.KindMovie] = []catalog.Item{movie(1, 5, 10)}
	src.discoverErr[models.KindTV] = &catalog.APIError{StatusCode: 503}
	profiles := &fakeProfiles{profiles: map[string]*preferences.Profile{"u1": neutralProfile(preferences.ContentBoth)}}

	res, err := newTestEngine(src, profiles).Recommend(context.Background(), "u1", 5, "")
	if err != nil {
		t.Fatal(err)
	}
	if len(res.FailedKinds) != 1 || res.FailedKinds[0] != models.KindTV {
		t.Errorf("FailedKinds = %v, want [tv]", res.FailedKinds)
	}
	if len(res.Items) != 1 {
		t.Errorf("len(Items) = %d, want 1", len(res.Items))
	}
}

func TestEngine_TaxonomyLoadedOncePerKind(t *testing.T) {
	src := newFakeSource()
	profiles := &fakeProfiles{profiles: map[string]*preferences.Profile{"u1": neutralProfile(preferences.ContentBoth)}}
	e := newTestEngine(src, profiles)

	for i := 0; i < 3; i++ {
		if _, err := e.Recommend(context.Background(), "u1", 5, ""); err != nil {
			t.Fatal(err)
		}
	}
	if got := src.genreCalls.Load(); got != 2 {
		t.Errorf("genre lookups = %d, want 2 (movie and tv, once each)", got)
	}
}
