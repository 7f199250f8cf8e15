// Coldstart - Cold-Start Movie and TV Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/coldstart

package services

import (
	"context"
	"time"

	"github.com/rs/zerolog"
	"github.com/thejerf/suture/v4"
)

// TaxonomyWarmer preloads genre taxonomies and signal sets.
// Satisfied by *catalog.SignalBuilder.
type TaxonomyWarmer interface {
	Warm(ctx context.Context, language string) error
}

// TaxonomyWarmupConfig configures the warm-up service.
type TaxonomyWarmupConfig struct {
	// Language is the catalog language to preload.
	Language string

	// RetryInterval is the delay between failed attempts. Default: 30s
	RetryInterval time.Duration

	// AttemptTimeout bounds a single attempt. Default: 30s
	AttemptTimeout time.Duration
}

// TaxonomyWarmupService fills the process-lifetime taxonomy cache once at
// start. Until it succeeds, requests resolve taxonomies lazily, so a failed
// attempt only costs latency. Taxonomies are never invalidated, so after the
// first success the service stops and asks suture not to restart it.
type TaxonomyWarmupService struct {
	warmer TaxonomyWarmer
	config TaxonomyWarmupConfig
	logger zerolog.Logger
}

// NewTaxonomyWarmupService creates the service.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewTaxonomyWarmupService(warmer TaxonomyWarmer, cfg TaxonomyWarmupConfig, logger zerolog.Logger) *TaxonomyWarmupService {
	if cfg.RetryInterval <= 0 {
		cfg.RetryInterval = 30 * time.Second
	}
	if cfg.AttemptTimeout <= 0 {
		cfg.AttemptTimeout = 30 * time.Second
	}
	return &TaxonomyWarmupService{
		warmer: warmer,
		config: cfg,
		logger: logger.With().Str("service", "taxonomy-warmup").Logger(),
	}
}

// Serve implements suture.Service.
func (s *TaxonomyWarmupService) Serve(ctx context.Context) error {
	s.logger.Info().
		Str("language", s.config.Language).
		Dur("retry_interval", s.config.RetryInterval).
		Msg("taxonomy warm-up starting")

	ticker := time.NewTicker(s.config.RetryInterval)
	defer ticker.Stop()

	for attempt := 1; ; attempt++ {
		err := s.warm(ctx)
		if err == nil {
			return suture.ErrDoNotRestart
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
		s.logger.Warn().Err(err).Int("attempt", attempt).Msg("taxonomy warm-up failed, will retry")

		select {
		case <-ctx.Done():
			s.logger.Info().Msg("taxonomy warm-up shutting down")
			return ctx.Err()
		case <-ticker.C:
		}
	}
}

func (s *TaxonomyWarmupService) warm(ctx context.Context) error {
	attemptCtx, cancel := context.WithTimeout(ctx, s.config.AttemptTimeout)
	defer cancel()

	start := time.Now()
	if err := s.warmer.Warm(attemptCtx, s.config.Language); err != nil {
		return err
	}
	s.logger.Info().Dur("duration", time.Since(start)).Msg("taxonomy warm-up complete")
	return nil
}

// String returns the service name for logging.
func (s *TaxonomyWarmupService) String() string {
	return "taxonomy-warmup"
}
