// Coldstart - Cold-Start Movie and TV Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/coldstart

package catalog

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/goccy/go-json"
	"github.com/redis/go-redis/v9"

	"github.com/tomtom215/coldstart/internal/config"
	"github.com/tomtom215/coldstart/internal/logging"
	"github.com/tomtom215/coldstart/internal/models"
)

const taxonomyKeyPrefix = "coldstart:taxonomy:"

// RedisTaxonomyStore shares genre maps between instances through Redis.
type RedisTaxonomyStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisTaxonomyStore connects to Redis and verifies the connection.
func NewRedisTaxonomyStore(cfg *config.CacheConfig) (*RedisTaxonomyStore, error) {
	client := redis.NewClient(&redis.Options{
		Addr:         cfg.RedisAddr,
		Password:     cfg.RedisPassword,
		DB:           cfg.RedisDB,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  2 * time.Second,
		WriteTimeout: 2 * time.Second,
		PoolSize:     10,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("connect to redis %s: %w", cfg.RedisAddr, err)
	}

	logging.Info().Str("addr", cfg.RedisAddr).Int("db", cfg.RedisDB).Msg("Redis taxonomy cache connected")

	return &RedisTaxonomyStore{client: client, ttl: cfg.TaxonomyTTL}, nil
}

func taxonomyRedisKey(kind models.MediaKind, language string) string {
	return taxonomyKeyPrefix + kind.String() + ":" + language
}

// LoadGenres implements TaxonomyStore.
func (s *RedisTaxonomyStore) LoadGenres(ctx context.Context, kind models.MediaKind, language string) (GenreMap, bool, error) {
	key := taxonomyRedisKey(kind, language)
	value, err := s.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("redis get %s: %w", key, err)
	}

	var m GenreMap
	if err := json.Unmarshal(value, &m); err != nil {
		return nil, false, fmt.Errorf("redis decode %s: %w", key, err)
	}
	return m, true, nil
}

// StoreGenres implements TaxonomyStore.
func (s *RedisTaxonomyStore) StoreGenres(ctx context.Context, kind models.MediaKind, language string, genres GenreMap) error {
	key := taxonomyRedisKey(kind, language)
	data, err := json.Marshal(genres)
	if err != nil {
		return fmt.Errorf("redis encode %s: %w", key, err)
	}
	if err := s.client.Set(ctx, key, data, s.ttl).Err(); err != nil {
		return fmt.Errorf("redis set %s: %w", key, err)
	}
	return nil
}

// Close releases the connection pool.
func (s *RedisTaxonomyStore) Close() error {
	return s.client.Close()
}
