// Coldstart - Cold-Start Movie and TV Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/coldstart

package recommend

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/tomtom215/coldstart/internal/catalog"
	"github.com/tomtom215/coldstart/internal/logging"
	"github.com/tomtom215/coldstart/internal/metrics"
	"github.com/tomtom215/coldstart/internal/models"
	"github.com/tomtom215/coldstart/internal/preferences"
)

// Limit bounds of a recommendation request.
const (
	DefaultLimit = 20
	MaxLimit     = 60
)

// ProfileStore loads stored preference profiles. It returns
// preferences.ErrProfileNotFound when the user has none.
type ProfileStore interface {
	Profile(ctx context.Context, userID string) (*preferences.Profile, error)
}

// EngineConfig configures the engine.
type EngineConfig struct {
	// Language is the catalog response language, e.g. "ru-RU".
	Language     string
	DefaultLimit int
	MaxLimit     int
}

// Result is one recommendation response.
type Result struct {
	Items []Scored `json:"items"`
	// FailedKinds lists media kinds whose discovery query failed, so the
	// result may under-represent them.
	FailedKinds []models.MediaKind `json:"failed_kinds,omitempty"`
	PoolSize    int                `json:"pool_size"`
	Filtered    int                `json:"filtered"`
}

// Engine produces ranked recommendations for stored profiles.
type Engine struct {
	profiles   ProfileStore
	resolver   *catalog.Resolver
	signals    *catalog.SignalBuilder
	aggregator *Aggregator
	cfg        EngineConfig
	logger     zerolog.Logger
}

// NewEngine wires an engine.
//
//nolint:gocritic // zerolog.Logger is designed to be passed by value
func NewEngine(profiles ProfileStore, resolver *catalog.Resolver, signals *catalog.SignalBuilder, aggregator *Aggregator, cfg EngineConfig, logger zerolog.Logger) *Engine {
	if cfg.DefaultLimit <= 0 {
		cfg.DefaultLimit = DefaultLimit
	}
	if cfg.MaxLimit <= 0 {
		cfg.MaxLimit = MaxLimit
	}
	return &Engine{
		profiles:   profiles,
		resolver:   resolver,
		signals:    signals,
		aggregator: aggregator,
		cfg:        cfg,
		logger:     logger.With().Str("component", "recommend").Logger(),
	}
}

// DefaultLimit is the limit used when a request names none.
func (e *Engine) DefaultLimit() int {
	return e.cfg.DefaultLimit
}

// ClampLimit maps a requested limit into [1, max].
func (e *Engine) ClampLimit(limit int) int {
	return max(1, min(limit, e.cfg.MaxLimit))
}

// Recommend ranks candidates for userID. kind "" returns both media kinds.
// A user without a profile gets an empty result; a missing catalog
// credential fails with catalog.ErrCatalogNotConfigured.
func (e *Engine) Recommend(ctx context.Context, userID string, limit int, kind models.MediaKind) (res *Result, err error) {
	start := time.Now()
	outcome := "ok"
	defer func() {
		if err != nil {
			outcome = "error"
		}
		if res == nil {
			metrics.RecordRecommendation(outcome, time.Since(start), 0, 0, 0)
			return
		}
		metrics.RecordRecommendation(outcome, time.Since(start), res.PoolSize, len(res.Items), res.Filtered)
	}()

	limit = e.ClampLimit(limit)

	profile, err := e.profiles.Profile(ctx, userID)
	if errors.Is(err, preferences.ErrProfileNotFound) {
		outcome = "no_profile"
		return &Result{Items: []Scored{}}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load profile: %w", err)
	}

	genres, filters, err := e.resolveGenres(ctx, profile)
	if err != nil {
		return nil, err
	}
	signals, err := e.signals.Build(ctx, e.cfg.Language)
	if err != nil {
		return nil, err
	}

	pool, report, err := e.aggregator.Gather(ctx, profile, e.cfg.Language, filters)
	if err != nil {
		return nil, fmt.Errorf("gather candidates: %w", err)
	}

	rankLimit := limit
	if kind != "" {
		rankLimit = limit * 2
	}
	ranked, filtered := Rank(&RankInput{
		Profile:     profile,
		Pool:        pool.Items,
		MatchCounts: pool.MatchCounts,
		Genres:      genres,
		Signals:     signals,
	}, rankLimit)

	if kind != "" {
		ranked = filterKind(ranked, kind)
		if len(ranked) > limit {
			ranked = ranked[:limit]
		}
	}
	if len(report.FailedKinds) > 0 {
		outcome = "partial"
	}

	res = &Result{
		Items:       ranked,
		FailedKinds: report.FailedKinds,
		PoolSize:    len(pool.Items),
		Filtered:    filtered,
	}

	logging.Ctx(ctx).Debug().
		Str("component", "recommend").
		Str("user_id", userID).
		Int("pool", res.PoolSize).
		Int("filtered", filtered).
		Int("returned", len(ranked)).
		Int("failed_calls", len(report.FailedKinds)+len(report.FailedFavorites)).
		Dur("elapsed", time.Since(start)).
		Msg("Recommendations ranked")
	return res, nil
}

// resolveGenres resolves liked and blocked genre names for both kinds. A
// favorite may pull in candidates of a kind the content type excludes, and
// those still need the blocked filter.
func (e *Engine) resolveGenres(ctx context.Context, p *preferences.Profile) (map[models.MediaKind]KindGenres, map[models.MediaKind]GenreFilter, error) {
	genres := make(map[models.MediaKind]KindGenres, len(models.AllKinds))
	filters := make(map[models.MediaKind]GenreFilter, len(models.AllKinds))

	for _, kind := range models.AllKinds {
		m, err := e.resolver.Resolve(ctx, kind, e.cfg.Language)
		if err != nil {
			return nil, nil, err
		}
		liked, blocked := m.IDs(p.LikedGenres), m.IDs(p.BlockedGenres)
		genres[kind] = KindGenres{Liked: catalog.NewGenreSet(liked...), Blocked: catalog.NewGenreSet(blocked...)}
		filters[kind] = GenreFilter{Liked: liked, Blocked: blocked}
	}
	return genres, filters, nil
}

func filterKind(items []Scored, kind models.MediaKind) []Scored {
	out := items[:0]
	for i := range items {
		if items[i].Kind == kind {
			out = append(out, items[i])
		}
	}
	return out
}
