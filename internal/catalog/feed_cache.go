// Coldstart - Cold-Start Movie and TV Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/coldstart

package catalog

import (
	"context"
	"strconv"
	"time"

	"github.com/sony/gobreaker/v2"

	"github.com/tomtom215/coldstart/internal/cache"
	"github.com/tomtom215/coldstart/internal/metrics"
	"github.com/tomtom215/coldstart/internal/models"
)

// FeedCache is a Source that keeps the trending, release and top-rated
// feeds for a short TTL. Every other call passes through, so candidate
// gathering always sees live data. Errors are not cached. Cached slices are
// shared between callers and must not be modified.
type FeedCache struct {
	Source
	feeds *cache.TTL[[]Item]
}

// NewFeedCache wraps source. Call Close to stop the background sweep.
func NewFeedCache(source Source, ttl time.Duration) *FeedCache {
	return &FeedCache{Source: source, feeds: cache.New[[]Item](ttl, 0)}
}

// Trending returns the cached trending feed for language.
func (c *FeedCache) Trending(ctx context.Context, language string) ([]Item, error) {
	return c.load("trending", "trending|"+language, func() ([]Item, error) {
		return c.Source.Trending(ctx, language)
	})
}

// Releases returns the cached release feed for kind and language.
func (c *FeedCache) Releases(ctx context.Context, kind models.MediaKind, language string) ([]Item, error) {
	return c.load("releases", "releases|"+string(kind)+"|"+language, func() ([]Item, error) {
		return c.Source.Releases(ctx, kind, language)
	})
}

// TopRated returns the cached top-rated feed for kind, language and limit.
func (c *FeedCache) TopRated(ctx context.Context, kind models.MediaKind, language string, limit int) ([]Item, error) {
	key := "top|" + string(kind) + "|" + language + "|" + strconv.Itoa(limit)
	return c.load("top_rated", key, func() ([]Item, error) {
		return c.Source.TopRated(ctx, kind, language, limit)
	})
}

// State reports the circuit state of the wrapped source. A source without a
// breaker is always closed.
func (c *FeedCache) State() gobreaker.State {
	if b, ok := c.Source.(interface{ State() gobreaker.State }); ok {
		return b.State()
	}
	return gobreaker.StateClosed
}

// Close stops the cache sweep.
func (c *FeedCache) Close() {
	c.feeds.Close()
}

func (c *FeedCache) load(feed, key string, fetch func() ([]Item, error)) ([]Item, error) {
	if items, ok := c.feeds.Get(key); ok {
		metrics.RecordFeedCacheLookup(feed, true)
		return items, nil
	}
	metrics.RecordFeedCacheLookup(feed, false)

	items, err := fetch()
	if err != nil {
		return nil, err
	}
	c.feeds.Set(key, items)
	return items, nil
}
