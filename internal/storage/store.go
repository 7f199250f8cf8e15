// Coldstart - Cold-Start Movie and TV Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/coldstart

// Package storage persists onboarding answers, liked titles, and preference
// profiles.
//
// Two backends are available: an embedded BadgerDB store (default, also
// usable fully in memory) and a PostgreSQL store. Both satisfy Store and are
// interchangeable.
package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/tomtom215/coldstart/internal/config"
	"github.com/tomtom215/coldstart/internal/preferences"
)

// Backend driver names.
const (
	DriverBadger   = "badger"
	DriverPostgres = "postgres"
)

var (
	// ErrAnswerNotFound is returned when a question has not been answered.
	ErrAnswerNotFound = errors.New("answer not found")

	// ErrTitleNotFound is returned when deleting a title that was never saved.
	ErrTitleNotFound = errors.New("title not found")

	// ErrUnknownDriver is returned by Open for an unsupported driver.
	ErrUnknownDriver = errors.New("unknown storage driver")
)

// Store is the persistence used by onboarding, profile builds, and
// recommendations. Implementations are safe for concurrent use.
type Store interface {
	preferences.Store

	// SaveAnswer stores the raw answer of a question, replacing any
	// previous answer.
	SaveAnswer(ctx context.Context, userID string, key preferences.QuestionKey, raw string) error

	// Answer returns one raw answer or ErrAnswerNotFound.
	Answer(ctx context.Context, userID string, key preferences.QuestionKey) (string, error)

	// SaveTitle upserts a title record keyed by (userID, CatalogID). The
	// creation time of an existing record is kept.
	SaveTitle(ctx context.Context, userID string, t *preferences.LikedTitle) error

	// DeleteTitle removes a title record or returns ErrTitleNotFound.
	DeleteTitle(ctx context.Context, userID string, catalogID int) error

	// ListTitles returns every title record of the user, liked or not,
	// newest first.
	ListTitles(ctx context.Context, userID string) ([]preferences.LikedTitle, error)

	// Profile returns the stored profile or preferences.ErrProfileNotFound.
	Profile(ctx context.Context, userID string) (*preferences.Profile, error)

	// Ping reports whether the backend is reachable.
	Ping(ctx context.Context) error

	Close() error
}

// Open creates the store selected by cfg.Driver. The returned store records
// operation metrics.
func Open(ctx context.Context, cfg *config.StorageConfig) (Store, error) {
	switch cfg.Driver {
	case DriverBadger, "":
		s, err := OpenBadger(cfg.BadgerPath, cfg.InMemory)
		if err != nil {
			return nil, err
		}
		return Instrument(s, DriverBadger), nil
	case DriverPostgres:
		s, err := OpenPostgres(ctx, cfg.PostgresDSN)
		if err != nil {
			return nil, err
		}
		return Instrument(s, DriverPostgres), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownDriver, cfg.Driver)
	}
}

// likedOnly keeps liked records, preserving order.
func likedOnly(titles []preferences.LikedTitle) []preferences.LikedTitle {
	out := make([]preferences.LikedTitle, 0, len(titles))
	for i := range titles {
		if titles[i].Liked {
			out = append(out, titles[i])
		}
	}
	return out
}
