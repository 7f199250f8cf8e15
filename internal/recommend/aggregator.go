// Coldstart - Cold-Start Movie and TV Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/coldstart

package recommend

import (
	"context"
	"errors"
	"time"

	"github.com/sourcegraph/conc/pool"

	"github.com/tomtom215/coldstart/internal/catalog"
	"github.com/tomtom215/coldstart/internal/logging"
	"github.com/tomtom215/coldstart/internal/models"
	"github.com/tomtom215/coldstart/internal/preferences"
)

// Discovery query constants.
const (
	discoverSortBy       = "popularity.desc"
	discoverMinVoteCount = 50
)

// GenreFilter is the resolved genre include/exclude list of one media kind.
type GenreFilter struct {
	Liked   []int
	Blocked []int
}

// Pool is the deduplicated candidate pool of one request.
type Pool struct {
	// Items in first-seen order.
	Items []catalog.Item
	// MatchCounts counts, per key, the favorite similarity lookups that
	// returned it.
	MatchCounts map[models.ItemKey]int
}

// GatherReport describes which sub-calls failed.
type GatherReport struct {
	Calls int
	// FailedKinds lists kinds whose discovery call failed. Their pool
	// contribution is empty.
	FailedKinds []models.MediaKind
	// FailedFavorites lists favorites whose similarity lookup failed.
	FailedFavorites []models.ItemKey
}

// DefaultCallTimeout bounds one catalog call when the config leaves it unset.
const DefaultCallTimeout = 8 * time.Second

// AggregatorConfig bounds the work of one gather. Zero fields take defaults.
type AggregatorConfig struct {
	MaxFavorites   int
	MaxConcurrency int
	CallTimeout    time.Duration
}

// Aggregator collects candidates from discovery and favorite-similarity
// queries. Calls run concurrently, each under its own timeout, and are never
// retried. Results are merged in call order so the pool order does not
// depend on scheduling.
type Aggregator struct {
	source catalog.Source
	cfg    AggregatorConfig
}

// NewAggregator creates an aggregator.
func NewAggregator(source catalog.Source, cfg AggregatorConfig) *Aggregator {
	if cfg.MaxFavorites <= 0 {
		cfg.MaxFavorites = 3
	}
	if cfg.MaxConcurrency <= 0 {
		cfg.MaxConcurrency = 4
	}
	if cfg.CallTimeout <= 0 {
		cfg.CallTimeout = DefaultCallTimeout
	}
	return &Aggregator{source: source, cfg: cfg}
}

// gatherCall is one catalog call and its outcome.
type gatherCall struct {
	kind     models.MediaKind
	favorite int // catalog id; 0 for discovery
	items    []catalog.Item
	err      error
}

// KindsFor maps a content type to the kinds to query, in query order.
func KindsFor(ct preferences.ContentType) []models.MediaKind {
	switch ct {
	case preferences.ContentMovie:
		return []models.MediaKind{models.KindMovie}
	case preferences.ContentTV:
		return []models.MediaKind{models.KindTV}
	default:
		return []models.MediaKind{models.KindMovie, models.KindTV}
	}
}

// Gather queries the catalog for the profile. Single call failures are
// absorbed and reported; a missing catalog credential or a canceled ctx is
// returned as an error.
func (a *Aggregator) Gather(ctx context.Context, profile *preferences.Profile, language string, filters map[models.MediaKind]GenreFilter) (*Pool, GatherReport, error) {
	calls := a.plan(profile)

	p := pool.New().WithMaxGoroutines(a.cfg.MaxConcurrency)
	for i := range calls {
		c := &calls[i]
		p.Go(func() {
			callCtx, cancel := context.WithTimeout(ctx, a.cfg.CallTimeout)
			defer cancel()
			if c.favorite == 0 {
				c.items, c.err = a.source.Discover(callCtx, c.kind, discoverQuery(profile, language, filters[c.kind]))
			} else {
				c.items, c.err = a.source.Similar(callCtx, c.kind, c.favorite, language)
			}
		})
	}
	p.Wait()

	report := GatherReport{Calls: len(calls)}
	for i := range calls {
		if errors.Is(calls[i].err, catalog.ErrCatalogNotConfigured) {
			return nil, report, calls[i].err
		}
	}
	if err := ctx.Err(); err != nil {
		return nil, report, err
	}

	return merge(ctx, calls, &report), report, nil
}

// plan lists discovery calls (one per kind) followed by similarity calls
// for the leading favorites. A favorite without a kind is a movie; one with
// an unsupported kind is skipped but still uses up a slot.
func (a *Aggregator) plan(profile *preferences.Profile) []gatherCall {
	kinds := KindsFor(profile.ContentType)
	calls := make([]gatherCall, 0, len(kinds)+a.cfg.MaxFavorites)
	for _, kind := range kinds {
		calls = append(calls, gatherCall{kind: kind})
	}

	favorites := profile.FavoriteTitles
	if len(favorites) > a.cfg.MaxFavorites {
		favorites = favorites[:a.cfg.MaxFavorites]
	}
	for _, fav := range favorites {
		kind := models.KindMovie
		if fav.MediaKind != "" {
			kind = models.MediaKind(fav.MediaKind)
		}
		if !kind.Valid() || fav.CatalogID <= 0 {
			continue
		}
		calls = append(calls, gatherCall{kind: kind, favorite: fav.CatalogID})
	}
	return calls
}

// merge folds call results into a pool. Discovery results replace an
// existing entry in place; similarity results only fill gaps but always
// count a match.
func merge(ctx context.Context, calls []gatherCall, report *GatherReport) *Pool {
	index := make(map[models.ItemKey]int)
	out := &Pool{Items: make([]catalog.Item, 0), MatchCounts: make(map[models.ItemKey]int)}

	logger := logging.Ctx(ctx)
	for i := range calls {
		c := &calls[i]
		if c.err != nil {
			if c.favorite == 0 {
				report.FailedKinds = append(report.FailedKinds, c.kind)
				logger.Warn().Err(c.err).Str("kind", c.kind.String()).Msg("Discovery call failed")
			} else {
				report.FailedFavorites = append(report.FailedFavorites, models.ItemKey{ID: c.favorite, Kind: c.kind})
				logger.Warn().Err(c.err).Str("kind", c.kind.String()).Int("tmdb_id", c.favorite).Msg("Similarity call failed")
			}
			continue
		}

		for j := range c.items {
			item := c.items[j]
			item.Kind = c.kind
			key := item.Key()

			pos, seen := index[key]
			switch {
			case !seen:
				index[key] = len(out.Items)
				out.Items = append(out.Items, item)
			case c.favorite == 0:
				out.Items[pos] = item
			}
			if c.favorite != 0 {
				out.MatchCounts[key]++
			}
		}
	}
	return out
}

func discoverQuery(profile *preferences.Profile, language string, f GenreFilter) catalog.DiscoverQuery {
	return catalog.DiscoverQuery{
		Language:         language,
		WithGenres:       f.Liked,
		WithoutGenres:    f.Blocked,
		OriginalLanguage: profile.PrimaryLanguage(),
		IncludeAdult:     profile.AllowsAdult(),
		MinVoteCount:     discoverMinVoteCount,
		SortBy:           discoverSortBy,
		Page:             1,
	}
}
