// Coldstart - Cold-Start Movie and TV Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/coldstart

package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/tomtom215/coldstart/internal/api"
	"github.com/tomtom215/coldstart/internal/catalog"
	"github.com/tomtom215/coldstart/internal/config"
	"github.com/tomtom215/coldstart/internal/logging"
	"github.com/tomtom215/coldstart/internal/preferences"
	"github.com/tomtom215/coldstart/internal/recommend"
	"github.com/tomtom215/coldstart/internal/storage"
	"github.com/tomtom215/coldstart/internal/supervisor"
	"github.com/tomtom215/coldstart/internal/supervisor/services"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to load configuration")
	}

	logging.Init(logging.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Caller: cfg.Logging.Caller,
	})

	logging.Info().
		Str("environment", cfg.Server.Environment).
		Str("storage_driver", cfg.Storage.Driver).
		Str("language", cfg.TMDB.Language).
		Bool("shared_taxonomy_cache", cfg.Cache.RedisAddr != "").
		Msg("Starting coldstart with supervisor tree")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	store, err := storage.Open(ctx, &cfg.Storage)
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to open storage")
	}
	defer func() {
		if err := store.Close(); err != nil {
			logging.Error().Err(err).Msg("Error closing storage")
		}
	}()
	logging.Info().Str("driver", cfg.Storage.Driver).Msg("Storage initialized successfully")

	source := catalog.NewCircuitBreakerSource(catalog.NewClient(&cfg.TMDB), catalog.DefaultBreakerSettings())

	var shared catalog.TaxonomyStore
	if cfg.Cache.RedisAddr != "" {
		redisStore, err := catalog.NewRedisTaxonomyStore(&cfg.Cache)
		if err != nil {
			// The in-process cache still works; only sharing across replicas is lost.
			logging.Warn().Err(err).Msg("Redis taxonomy cache unavailable, using process memory only")
		} else {
			shared = redisStore
			defer func() {
				if err := redisStore.Close(); err != nil {
					logging.Error().Err(err).Msg("Error closing Redis taxonomy cache")
				}
			}()
		}
	}

	resolver := catalog.NewResolver(source, shared)
	signals := catalog.NewSignalBuilder(resolver)
	aggregator := recommend.NewAggregator(source, recommend.AggregatorConfig{
		MaxFavorites:   cfg.Recommend.MaxFavorites,
		MaxConcurrency: cfg.Recommend.MaxConcurrency,
		CallTimeout:    cfg.TMDB.CallTimeout,
	})
	engine := recommend.NewEngine(store, resolver, signals, aggregator, recommend.EngineConfig{
		Language:     cfg.TMDB.Language,
		DefaultLimit: cfg.Recommend.DefaultLimit,
		MaxLimit:     cfg.Recommend.MaxLimit,
	}, logging.WithComponent("recommend"))
	builder := preferences.NewBuilder(store, cfg.Recommend.MinFinalizeTitles, logging.Logger())

	if cfg.Security.RateLimitDisabled {
		logging.Warn().Msg("Rate limiting is DISABLED (DISABLE_RATE_LIMIT=true)")
	}

	// Trending and release feeds are identical for every user.
	var feeds catalog.Source = source
	if cfg.Cache.FeedTTL > 0 {
		feedCache := catalog.NewFeedCache(source, cfg.Cache.FeedTTL)
		defer feedCache.Close()
		feeds = feedCache
	}

	handler := api.NewHandler(store, builder, engine, feeds, resolver, api.HandlerConfig{
		Language:          cfg.TMDB.Language,
		RequestTimeout:    cfg.Server.Timeout,
		CatalogConfigured: cfg.TMDB.APIKey != "",
	})
	router := api.NewRouter(handler, api.NewChiMiddleware(api.ChiMiddlewareConfigFrom(&cfg.Security)))

	server := &http.Server{
		Addr:              fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:           router.SetupChi(),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       cfg.Server.Timeout,
		// Recommendation requests fan out to the catalog before writing.
		WriteTimeout: cfg.Server.Timeout + 5*time.Second,
		IdleTimeout:  60 * time.Second,
	}

	tree, err := supervisor.NewSupervisorTree(logging.NewSlogLogger(), supervisor.DefaultTreeConfig())
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to create supervisor tree")
	}

	tree.AddDataService(services.NewTaxonomyWarmupService(signals, services.TaxonomyWarmupConfig{
		Language:       cfg.TMDB.Language,
		RetryInterval:  cfg.TMDB.WarmupRetry,
		AttemptTimeout: cfg.TMDB.Timeout * 3,
	}, logging.Logger()))
	tree.AddAPIService(services.NewHTTPServerService(server, server.Addr, 10*time.Second, logging.Logger()))

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		logging.Info().Str("signal", sig.String()).Msg("Received shutdown signal")
		cancel()
	}()

	logging.Info().Str("addr", server.Addr).Msg("Starting supervisor tree...")
	errCh := tree.ServeBackground(ctx)

	select {
	case <-ctx.Done():
		logging.Info().Msg("Context canceled, waiting for supervisor to finish...")
	case err := <-errCh:
		if err != nil && !errors.Is(err, context.Canceled) {
			logging.Error().Err(err).Msg("Supervisor tree error")
		}
	}

	for err := range errCh {
		if err != nil && !errors.Is(err, context.Canceled) {
			logging.Error().Err(err).Msg("Supervisor shutdown error")
		}
	}

	unstopped, _ := tree.UnstoppedServiceReport()
	for _, svc := range unstopped {
		logging.Warn().Str("service", svc.Name).Msg("Service failed to stop within timeout")
	}

	logging.Info().Msg("Application stopped gracefully")
}
