// Coldstart - Cold-Start Movie and TV Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/coldstart

package storage

import (
	"context"
	"errors"
	"time"

	"github.com/tomtom215/coldstart/internal/metrics"
	"github.com/tomtom215/coldstart/internal/preferences"
)

// instrumentedStore records latency and errors of every Store call.
type instrumentedStore struct {
	next   Store
	driver string
}

// Instrument wraps s so each operation is observed under driver.
func Instrument(s Store, driver string) Store {
	return &instrumentedStore{next: s, driver: driver}
}

// observe records an operation. Not-found results are expected outcomes,
// not storage errors.
func (s *instrumentedStore) observe(op string, start time.Time, err error) {
	if errors.Is(err, ErrAnswerNotFound) || errors.Is(err, ErrTitleNotFound) || errors.Is(err, preferences.ErrProfileNotFound) {
		err = nil
	}
	metrics.RecordStorageOperation(s.driver, op, time.Since(start), err)
}

func (s *instrumentedStore) SaveAnswer(ctx context.Context, userID string, key preferences.QuestionKey, raw string) (err error) {
	defer func(start time.Time) { s.observe("save_answer", start, err) }(time.Now())
	return s.next.SaveAnswer(ctx, userID, key, raw)
}

func (s *instrumentedStore) Answer(ctx context.Context, userID string, key preferences.QuestionKey) (raw string, err error) {
	defer func(start time.Time) { s.observe("get_answer", start, err) }(time.Now())
	return s.next.Answer(ctx, userID, key)
}

func (s *instrumentedStore) Answers(ctx context.Context, userID string) (a preferences.Answers, err error) {
	defer func(start time.Time) { s.observe("list_answers", start, err) }(time.Now())
	return s.next.Answers(ctx, userID)
}

func (s *instrumentedStore) SaveTitle(ctx context.Context, userID string, t *preferences.LikedTitle) (err error) {
	defer func(start time.Time) { s.observe("save_title", start, err) }(time.Now())
	return s.next.SaveTitle(ctx, userID, t)
}

func (s *instrumentedStore) DeleteTitle(ctx context.Context, userID string, catalogID int) (err error) {
	defer func(start time.Time) { s.observe("delete_title", start, err) }(time.Now())
	return s.next.DeleteTitle(ctx, userID, catalogID)
}

func (s *instrumentedStore) ListTitles(ctx context.Context, userID string) (t []preferences.LikedTitle, err error) {
	defer func(start time.Time) { s.observe("list_titles", start, err) }(time.Now())
	return s.next.ListTitles(ctx, userID)
}

func (s *instrumentedStore) LikedTitles(ctx context.Context, userID string) (t []preferences.LikedTitle, err error) {
	defer func(start time.Time) { s.observe("liked_titles", start, err) }(time.Now())
	return s.next.LikedTitles(ctx, userID)
}

func (s *instrumentedStore) UpsertProfile(ctx context.Context, p *preferences.Profile) (err error) {
	defer func(start time.Time) { s.observe("upsert_profile", start, err) }(time.Now())
	return s.next.UpsertProfile(ctx, p)
}

func (s *instrumentedStore) Profile(ctx context.Context, userID string) (p *preferences.Profile, err error) {
	defer func(start time.Time) { s.observe("get_profile", start, err) }(time.Now())
	return s.next.Profile(ctx, userID)
}

func (s *instrumentedStore) Ping(ctx context.Context) error {
	return s.next.Ping(ctx)
}

func (s *instrumentedStore) Close() error {
	return s.next.Close()
}
