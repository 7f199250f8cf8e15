// Coldstart - Cold-Start Movie and TV Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/coldstart

package recommend

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/tomtom215/coldstart/internal/catalog"
	"github.com/tomtom215/coldstart/internal/models"
	"github.com/tomtom215/coldstart/internal/preferences"
)

// Movie genre ids used across the tests.
const (
	genreAction   = 28
	genreComedy   = 35
	genreDrama    = 18
	genreHorror   = 27
	genreThriller = 53
	genreCrime    = 80
)

func testGenres(kind models.MediaKind) []catalog.Genre {
	if kind == models.KindTV {
		return []catalog.Genre{
			{ID: 10759, Name: "Боевик и Приключения"},
			{ID: 35, Name: "Комедия"},
			{ID: 18, Name: "Драма"},
			{ID: 9648, Name: "Детектив"},
		}
	}
	return []catalog.Genre{
		{ID: genreAction, Name: "Action"},
		{ID: 12, Name: "Adventure"},
		{ID: genreComedy, Name: "Comedy"},
		{ID: genreCrime, Name: "Crime"},
		{ID: genreDrama, Name: "Drama"},
		{ID: genreHorror, Name: "Horror"},
		{ID: genreThriller, Name: "Thriller"},
	}
}

// fakeSource is a scripted catalog.Source.
type fakeSource struct {
	mu sync.Mutex

	genresErr   error
	discover    map[models.MediaKind][]catalog.Item
	discoverErr map[models.MediaKind]error
	similar     map[int][]catalog.Item
	similarErr  map[int]error
	// hang blocks Similar for these ids until the call context ends.
	hang map[int]bool

	queries      map[models.MediaKind]catalog.DiscoverQuery
	similarCalls []int
	genreCalls   atomic.Int32
}

func newFakeSource() *fakeSource {
	return &fakeSource{
		discover:    make(map[models.MediaKind][]catalog.Item),
		discoverErr: make(map[models.MediaKind]error),
		similar:     make(map[int][]catalog.Item),
		similarErr:  make(map[int]error),
		hang:        make(map[int]bool),
		queries:     make(map[models.MediaKind]catalog.DiscoverQuery),
	}
}

func (f *fakeSource) Genres(_ context.Context, kind models.MediaKind, _ string) ([]catalog.Genre, error) {
	f.genreCalls.Add(1)
	if f.genresErr != nil {
		return nil, f.genresErr
	}
	return testGenres(kind), nil
}

func (f *fakeSource) Discover(ctx context.Context, kind models.MediaKind, q catalog.DiscoverQuery) ([]catalog.Item, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.queries[kind] = q
	if err := f.discoverErr[kind]; err != nil {
		return nil, err
	}
	return f.discover[kind], nil
}

func (f *fakeSource) Similar(ctx context.Context, _ models.MediaKind, id int, _ string) ([]catalog.Item, error) {
	f.mu.Lock()
	f.similarCalls = append(f.similarCalls, id)
	hang := f.hang[id]
	items, err := f.similar[id], f.similarErr[id]
	f.mu.Unlock()

	if hang {
		<-ctx.Done()
		return nil, ctx.Err()
	}
	if ctxErr := ctx.Err(); ctxErr != nil {
		return nil, ctxErr
	}
	return items, err
}

func (f *fakeSource) Trending(context.Context, string) ([]catalog.Item, error) {
	return nil, nil
}

func (f *fakeSource) Releases(context.Context, models.MediaKind, string) ([]catalog.Item, error) {
	return nil, nil
}

func (f *fakeSource) TopRated(context.Context, models.MediaKind, string, int) ([]catalog.Item, error) {
	return nil, nil
}

func (f *fakeSource) Search(context.Context, string, string) ([]catalog.Item, error) {
	return nil, nil
}

func (f *fakeSource) Details(context.Context, models.MediaKind, int, string) (*catalog.Details, error) {
	return nil, nil
}

func (f *fakeSource) discoverQuery(kind models.MediaKind) (catalog.DiscoverQuery, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	q, ok := f.queries[kind]
	return q, ok
}

func (f *fakeSource) similarIDs() []int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]int(nil), f.similarCalls...)
}

// fakeProfiles is an in-memory ProfileStore.
type fakeProfiles struct {
	profiles map[string]*preferences.Profile
	err      error
}

func (f *fakeProfiles) Profile(_ context.Context, userID string) (*preferences.Profile, error) {
	if f.err != nil {
		return nil, f.err
	}
	p, ok := f.profiles[userID]
	if !ok {
		return nil, preferences.ErrProfileNotFound
	}
	return p, nil
}

func movie(id int, vote, pop float64, genres ...int) catalog.Item {
	return catalog.Item{ID: id, Kind: models.KindMovie, Title: "movie", GenreIDs: genres, VoteAverage: vote, Popularity: pop}
}

func show(id int, vote, pop float64, genres ...int) catalog.Item {
	return catalog.Item{ID: id, Kind: models.KindTV, Title: "show", GenreIDs: genres, VoteAverage: vote, Popularity: pop}
}

// neutralProfile has no preference beyond the given content type.
func neutralProfile(ct preferences.ContentType) *preferences.Profile {
	p := preferences.BuildProfile("u1", preferences.Answers{}, nil)
	p.ContentType = ct
	return &p
}

func testAggregator(src catalog.Source) *Aggregator {
	return NewAggregator(src, AggregatorConfig{MaxFavorites: 3, MaxConcurrency: 4, CallTimeout: time.Second})
}
