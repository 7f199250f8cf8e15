// Coldstart - Cold-Start Movie and TV Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/coldstart

package recommend

import (
	"context"
	"errors"
	"reflect"
	"sort"
	"testing"
	"time"

	"github.com/tomtom215/coldstart/internal/catalog"
	"github.com/tomtom215/coldstart/internal/models"
	"github.com/tomtom215/coldstart/internal/preferences"
)

func TestKindsFor(t *testing.T) {
	tests := []struct {
		ct   preferences.ContentType
		want []models.MediaKind
	}{
		{preferences.ContentMovie, []models.MediaKind{models.KindMovie}},
		{preferences.ContentTV, []models.MediaKind{models.KindTV}},
		{preferences.ContentBoth, []models.MediaKind{models.KindMovie, models.KindTV}},
		{"unknown", []models.MediaKind{models.KindMovie, models.KindTV}},
	}
	for _, tt := range tests {
		if got := KindsFor(tt.ct); !reflect.DeepEqual(got, tt.want) {
			t.Errorf("KindsFor(%q) = %v, want %v", tt.ct, got, tt.want)
		}
	}
}

func TestNewAggregator_Defaults(t *testing.T) {
	agg := NewAggregator(newFakeSource(), AggregatorConfig{})
	want := AggregatorConfig{MaxFavorites: 3, MaxConcurrency: 4, CallTimeout: DefaultCallTimeout}
	if agg.cfg != want {
		t.Errorf("cfg = %+v, want %+v", agg.cfg, want)
	}

	// A zero config must still let calls complete.
	src := newFakeSource()
	src.discover[models.KindMovie] = []catalog.Item{{ID: 7, Kind: models.KindMovie}}
	pool, report, err := NewAggregator(src, AggregatorConfig{}).Gather(context.Background(), neutralProfile(preferences.ContentMovie), "ru-RU", nil)
	if err != nil {
		t.Fatalf("Gather() error = %v", err)
	}
	if len(pool.Items) != 1 || len(report.FailedKinds) != 0 {
		t.Errorf("pool = %d items, failed kinds = %v", len(pool.Items), report.FailedKinds)
	}
}

func TestGather_DiscoverQuery(t *testing.T) {
	src := newFakeSource()
	p := neutralProfile(preferences.ContentMovie)
	p.Languages = []string{"ko", "en"}
	p.AgeLimit = preferences.Age18

	filters := map[models.MediaKind]GenreFilter{
		models.KindMovie: {Liked: []int{genreAction, genreComedy}, Blocked: []int{genreHorror}},
	}
	if _, _, err := testAggregator(src).Gather(context.Background(), p, "ru-RU", filters); err != nil {
		t.Fatalf("Gather() error = %v", err)
	}

	q, ok := src.discoverQuery(models.KindMovie)
	if !ok {
		t.Fatal("no movie discovery query issued")
	}
	want := catalog.DiscoverQuery{
		Language:         "ru-RU",
		WithGenres:       []int{genreAction, genreComedy},
		WithoutGenres:    []int{genreHorror},
		OriginalLanguage: "ko",
		IncludeAdult:     true,
		MinVoteCount:     50,
		SortBy:           "popularity.desc",
		Page:             1,
	}
	if !reflect.DeepEqual(q, want) {
		t.Errorf("query = %+v, want %+v", q, want)
	}
	if _, ok := src.discoverQuery(models.KindTV); ok {
		t.Error("TV discovery issued for a movie-only profile")
	}
}

func TestGather_AdultOnlyFor18(t *testing.T) {
	for _, age := range []preferences.AgeLimit{preferences.AgeNone, preferences.Age16} {
		src := newFakeSource()
		p := neutralProfile(preferences.ContentTV)
		p.AgeLimit = age
		if _, _, err := testAggregator(src).Gather(context.Background(), p, "ru-RU", nil); err != nil {
			t.Fatal(err)
		}
		if q, _ := src.discoverQuery(models.KindTV); q.IncludeAdult {
			t.Errorf("age %q: IncludeAdult = true", age)
		}
	}
}

func TestGather_OverlappingFavorites(t *testing.T) {
	src := newFakeSource()
	x := movie(500, 7, 100, genreDrama)
	src.similar[1] = []catalog.Item{x, movie(501, 5, 5)}
	src.similar[2] = []catalog.Item{x}
	src.similar[3] = []catalog.Item{movie(502, 5, 5), x}

	p := neutralProfile(preferences.ContentMovie)
	p.FavoriteTitles = []preferences.FavoriteTitle{{CatalogID: 1, MediaKind: "movie"}, {CatalogID: 2}, {CatalogID: 3, MediaKind: "movie"}}

	pool, _, err := testAggregator(src).Gather(context.Background(), p, "ru-RU", nil)
	if err != nil {
		t.Fatal(err)
	}
	key := x.Key()
	if pool.MatchCounts[key] != 3 {
		t.Fatalf("MatchCounts[X] = %d, want 3", pool.MatchCounts[key])
	}
	if len(pool.Items) != 3 {
		t.Errorf("pool size = %d, want 3 (deduplicated)", len(pool.Items))
	}

	ranked, _ := Rank(&RankInput{Profile: p, Pool: pool.Items, MatchCounts: pool.MatchCounts}, 0)
	for _, s := range ranked {
		if s.Key() == key && s.Factors.Similar != 1 {
			t.Errorf("S(X) = %v, want 1", s.Factors.Similar)
		}
	}
}

func TestGather_MergeOrderAndFirstSeen(t *testing.T) {
	src := newFakeSource()
	discovered := movie(10, 6, 50, genreAction)
	discovered.Title = "from discovery"
	similarCopy := discovered
	similarCopy.Title = "from similar"

	src.discover[models.KindMovie] = []catalog.Item{discovered, movie(11, 5, 5)}
	src.discover[models.KindTV] = []catalog.Item{show(10, 5, 5)}
	src.similar[7] = []catalog.Item{movie(12, 5, 5), similarCopy}

	p := neutralProfile(preferences.ContentBoth)
	p.FavoriteTitles = []preferences.FavoriteTitle{{CatalogID: 7, MediaKind: "movie"}}

	pool, _, err := testAggregator(src).Gather(context.Background(), p, "ru-RU", nil)
	if err != nil {
		t.Fatal(err)
	}

	var keys []models.ItemKey
	for i := range pool.Items {
		keys = append(keys, pool.Items[i].Key())
	}
	want := []models.ItemKey{
		{ID: 10, Kind: models.KindMovie},
		{ID: 11, Kind: models.KindMovie},
		{ID: 10, Kind: models.KindTV},
		{ID: 12, Kind: models.KindMovie},
	}
	if !reflect.DeepEqual(keys, want) {
		t.Errorf("pool order = %v, want %v", keys, want)
	}
	if pool.Items[0].Title != "from discovery" {
		t.Errorf("card title = %q, want the discovery card", pool.Items[0].Title)
	}
	if pool.MatchCounts[discovered.Key()] != 1 {
		t.Errorf("MatchCounts = %v, want a count for the discovered card", pool.MatchCounts)
	}
	if pool.MatchCounts[models.ItemKey{ID: 11, Kind: models.KindMovie}] != 0 {
		t.Error("discovery results must not count as favorite matches")
	}
}

func TestGather_FavoriteSlots(t *testing.T) {
	src := newFakeSource()
	p := neutralProfile(preferences.ContentMovie)
	p.FavoriteTitles = []preferences.FavoriteTitle{
		{CatalogID: 1, MediaKind: "book"},
		{CatalogID: 2, MediaKind: "tv"},
		{CatalogID: 3},
		{CatalogID: 4, MediaKind: "movie"},
	}

	if _, _, err := testAggregator(src).Gather(context.Background(), p, "ru-RU", nil); err != nil {
		t.Fatal(err)
	}
	got := src.similarIDs()
	sort.Ints(got)
	if want := []int{2, 3}; !reflect.DeepEqual(got, want) {
		t.Errorf("similar lookups = %v, want %v (unsupported kinds still use a slot)", got, want)
	}
}

func TestGather_FavoriteKindQualifiesResults(t *testing.T) {
	src := newFakeSource()
	// The catalog may omit or misreport media_type on recommendation pages.
	src.similar[9] = []catalog.Item{{ID: 77, Title: "x"}}

	p := neutralProfile(preferences.ContentMovie)
	p.FavoriteTitles = []preferences.FavoriteTitle{{CatalogID: 9, MediaKind: "tv"}}

	pool, _, err := testAggregator(src).Gather(context.Background(), p, "ru-RU", nil)
	if err != nil {
		t.Fatal(err)
	}
	if len(pool.Items) != 1 || pool.Items[0].Kind != models.KindTV {
		t.Errorf("pool = %+v, want one TV card", pool.Items)
	}
}

func TestGather_PartialFailure(t *testing.T) {
	src := newFakeSource()
	upstream := &catalog.APIError{StatusCode: 502, Path: "/discover/tv"}
	src.discover[models.KindMovie] = []catalog.Item{movie(1, 5, 5)}
	src.discoverErr[models.KindTV] = upstream
	src.similarErr[4] = errors.New("connection reset")
	src.similar[5] = []catalog.Item{movie(2, 5, 5)}

	p := neutralProfile(preferences.ContentBoth)
	p.FavoriteTitles = []preferences.FavoriteTitle{{CatalogID: 4}, {CatalogID: 5}}

	pool, report, err := testAggregator(src).Gather(context.Background(), p, "ru-RU", nil)
	if err != nil {
		t.Fatalf("Gather() error = %v, want partial success", err)
	}
	if len(pool.Items) != 2 {
		t.Errorf("pool size = %d, want 2", len(pool.Items))
	}
	if !reflect.DeepEqual(report.FailedKinds, []models.MediaKind{models.KindTV}) {
		t.Errorf("FailedKinds = %v, want [tv]", report.FailedKinds)
	}
	if want := []models.ItemKey{{ID: 4, Kind: models.KindMovie}}; !reflect.DeepEqual(report.FailedFavorites, want) {
		t.Errorf("FailedFavorites = %v, want %v", report.FailedFavorites, want)
	}
	if report.Calls != 4 {
		t.Errorf("Calls = %d, want 4", report.Calls)
	}
}

func TestGather_PerCallTimeout(t *testing.T) {
	src := newFakeSource()
	src.hang[1] = true
	src.similar[2] = []catalog.Item{movie(20, 5, 5)}

	p := neutralProfile(preferences.ContentMovie)
	p.FavoriteTitles = []preferences.FavoriteTitle{{CatalogID: 1}, {CatalogID: 2}}

	agg := NewAggregator(src, AggregatorConfig{MaxFavorites: 3, MaxConcurrency: 4, CallTimeout: 20 * time.Millisecond})
	start := time.Now()
	pool, report, err := agg.Gather(context.Background(), p, "ru-RU", nil)
	if err != nil {
		t.Fatalf("Gather() error = %v", err)
	}
	if elapsed := time.Since(start); elapsed > 2*time.Second {
		t.Errorf("Gather() took %v", elapsed)
	}
	if len(pool.Items) != 1 || len(report.FailedFavorites) != 1 {
		t.Errorf("pool = %d items, failed favorites = %v", len(pool.Items), report.FailedFavorites)
	}
}

func TestGather_MissingCredentialIsFatal(t *testing.T) {
	src := newFakeSource()
	src.discover[models.KindMovie] = []catalog.Item{movie(1, 5, 5)}
	src.discoverErr[models.KindTV] = catalog.ErrCatalogNotConfigured

	_, _, err := testAggregator(src).Gather(context.Background(), neutralProfile(preferences.ContentBoth), "ru-RU", nil)
	if !errors.Is(err, catalog.ErrCatalogNotConfigured) {
		t.Errorf("Gather() error = %v, want ErrCatalogNotConfigured", err)
	}
}

func TestGather_CanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, _, err := testAggregator(newFakeSource()).Gather(ctx, neutralProfile(preferences.ContentBoth), "ru-RU", nil)
	if !errors.Is(err, context.Canceled) {
		t.Errorf("Gather() error = %v, want context.Canceled", err)
	}
}
