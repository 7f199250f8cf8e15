// Coldstart - Cold-Start Movie and TV Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/coldstart

package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/goccy/go-json"
	_ "github.com/lib/pq" // PostgreSQL driver

	"github.com/tomtom215/coldstart/internal/logging"
	"github.com/tomtom215/coldstart/internal/preferences"
)

const postgresSchema = `
CREATE TABLE IF NOT EXISTS onboarding_answers (
	user_id      TEXT NOT NULL,
	question_key TEXT NOT NULL,
	answer       TEXT NOT NULL,
	created_at   TIMESTAMPTZ NOT NULL DEFAULT now(),
	PRIMARY KEY (user_id, question_key)
);

CREATE TABLE IF NOT EXISTS onboarding_titles (
	user_id    TEXT NOT NULL,
	tmdb_id    INTEGER NOT NULL,
	media_type TEXT NOT NULL,
	title      TEXT NOT NULL,
	liked      BOOLEAN NOT NULL,
	created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
	PRIMARY KEY (user_id, tmdb_id)
);

CREATE INDEX IF NOT EXISTS idx_onboarding_titles_recent
	ON onboarding_titles (user_id, created_at DESC);

CREATE TABLE IF NOT EXISTS user_preferences (
	user_id         TEXT PRIMARY KEY,
	content_type    TEXT NOT NULL,
	languages       JSONB NOT NULL,
	audio_pref      TEXT NOT NULL,
	liked_genres    JSONB NOT NULL,
	blocked_genres  JSONB NOT NULL,
	blocked_topics  JSONB NOT NULL,
	pace            TEXT NOT NULL,
	mood            TEXT NOT NULL,
	plot_complexity TEXT NOT NULL,
	age_limit       TEXT NOT NULL,
	content_flags   JSONB NOT NULL,
	favorite_titles JSONB NOT NULL,
	created_at      TIMESTAMPTZ NOT NULL DEFAULT now(),
	updated_at      TIMESTAMPTZ NOT NULL DEFAULT now()
);
`

// PostgresStore implements Store on PostgreSQL.
type PostgresStore struct {
	db *sql.DB
}

// OpenPostgres connects to dsn, verifies the connection, and applies the
// schema.
func OpenPostgres(ctx context.Context, dsn string) (*PostgresStore, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}

	s := &PostgresStore{db: db}
	if err := s.migrate(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}

	logging.Info().Str("component", "storage").Msg("PostgreSQL connected")
	return s, nil
}

func (s *PostgresStore) migrate(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, postgresSchema); err != nil {
		return fmt.Errorf("apply schema: %w", err)
	}
	return nil
}

// SaveAnswer stores a raw answer.
func (s *PostgresStore) SaveAnswer(ctx context.Context, userID string, key preferences.QuestionKey, raw string) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO onboarding_answers (user_id, question_key, answer)
		VALUES ($1, $2, $3)
		ON CONFLICT (user_id, question_key) DO UPDATE SET answer = EXCLUDED.answer`,
		userID, string(key), raw)
	if err != nil {
		return fmt.Errorf("save answer: %w", err)
	}
	return nil
}

// Answer returns one raw answer.
func (s *PostgresStore) Answer(ctx context.Context, userID string, key preferences.QuestionKey) (string, error) {
	var raw string
	err := s.db.QueryRowContext(ctx,
		`SELECT answer FROM onboarding_answers WHERE user_id = $1 AND question_key = $2`,
		userID, string(key)).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return "", ErrAnswerNotFound
	}
	if err != nil {
		return "", fmt.Errorf("get answer: %w", err)
	}
	return raw, nil
}

// Answers returns every stored answer of the user.
func (s *PostgresStore) Answers(ctx context.Context, userID string) (preferences.Answers, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT question_key, answer FROM onboarding_answers WHERE user_id = $1`, userID)
	if err != nil {
		return nil, fmt.Errorf("list answers: %w", err)
	}
	defer rows.Close()

	answers := make(preferences.Answers)
	for rows.Next() {
		var key, raw string
		if err := rows.Scan(&key, &raw); err != nil {
			return nil, fmt.Errorf("scan answer: %w", err)
		}
		answers[preferences.QuestionKey(key)] = raw
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list answers: %w", err)
	}
	return answers, nil
}

// SaveTitle upserts a title record.
func (s *PostgresStore) SaveTitle(ctx context.Context, userID string, t *preferences.LikedTitle) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO onboarding_titles (user_id, tmdb_id, media_type, title, liked)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (user_id, tmdb_id) DO UPDATE SET
			liked = EXCLUDED.liked,
			title = EXCLUDED.title,
			media_type = EXCLUDED.media_type`,
		userID, t.CatalogID, t.MediaKind, t.Title, t.Liked)
	if err != nil {
		return fmt.Errorf("save title: %w", err)
	}
	return nil
}

// DeleteTitle removes a title record.
func (s *PostgresStore) DeleteTitle(ctx context.Context, userID string, catalogID int) error {
	res, err := s.db.ExecContext(ctx,
		`DELETE FROM onboarding_titles WHERE user_id = $1 AND tmdb_id = $2`, userID, catalogID)
	if err != nil {
		return fmt.Errorf("delete title: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete title: %w", err)
	}
	if n == 0 {
		return ErrTitleNotFound
	}
	return nil
}

// ListTitles returns every title record, newest first.
func (s *PostgresStore) ListTitles(ctx context.Context, userID string) ([]preferences.LikedTitle, error) {
	return s.titles(ctx, `
		SELECT tmdb_id, media_type, title, liked, created_at
		FROM onboarding_titles
		WHERE user_id = $1
		ORDER BY created_at DESC, tmdb_id DESC`, userID)
}

// LikedTitles returns liked records, newest first.
func (s *PostgresStore) LikedTitles(ctx context.Context, userID string) ([]preferences.LikedTitle, error) {
	return s.titles(ctx, `
		SELECT tmdb_id, media_type, title, liked, created_at
		FROM onboarding_titles
		WHERE user_id = $1 AND liked
		ORDER BY created_at DESC, tmdb_id DESC`, userID)
}

func (s *PostgresStore) titles(ctx context.Context, query, userID string) ([]preferences.LikedTitle, error) {
	rows, err := s.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("list titles: %w", err)
	}
	defer rows.Close()

	titles := make([]preferences.LikedTitle, 0)
	for rows.Next() {
		var t preferences.LikedTitle
		if err := rows.Scan(&t.CatalogID, &t.MediaKind, &t.Title, &t.Liked, &t.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan title: %w", err)
		}
		t.CreatedAt = t.CreatedAt.UTC()
		titles = append(titles, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list titles: %w", err)
	}
	return titles, nil
}

// profileColumns are the JSON-encoded list columns of user_preferences.
// They are bound as strings; lib/pq sends []byte parameters as bytea.
type profileColumns struct {
	languages, liked, blocked, topics, flags, favorites []byte
}

func encodeProfileColumns(p *preferences.Profile) (profileColumns, error) {
	var (
		c   profileColumns
		err error
	)
	fields := []struct {
		dst *[]byte
		v   any
	}{
		{&c.languages, p.Languages},
		{&c.liked, p.LikedGenres},
		{&c.blocked, p.BlockedGenres},
		{&c.topics, p.BlockedTopics},
		{&c.flags, p.ContentFlags},
		{&c.favorites, p.FavoriteTitles},
	}
	for _, f := range fields {
		if *f.dst, err = json.Marshal(f.v); err != nil {
			return c, fmt.Errorf("marshal profile: %w", err)
		}
	}
	return c, nil
}

// UpsertProfile replaces the stored profile as one row.
func (s *PostgresStore) UpsertProfile(ctx context.Context, p *preferences.Profile) error {
	c, err := encodeProfileColumns(p)
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO user_preferences (
			user_id, content_type, languages, audio_pref,
			liked_genres, blocked_genres, blocked_topics,
			pace, mood, plot_complexity, age_limit, content_flags,
			favorite_titles, updated_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, now())
		ON CONFLICT (user_id) DO UPDATE SET
			content_type = EXCLUDED.content_type,
			languages = EXCLUDED.languages,
			audio_pref = EXCLUDED.audio_pref,
			liked_genres = EXCLUDED.liked_genres,
			blocked_genres = EXCLUDED.blocked_genres,
			blocked_topics = EXCLUDED.blocked_topics,
			pace = EXCLUDED.pace,
			mood = EXCLUDED.mood,
			plot_complexity = EXCLUDED.plot_complexity,
			age_limit = EXCLUDED.age_limit,
			content_flags = EXCLUDED.content_flags,
			favorite_titles = EXCLUDED.favorite_titles,
			updated_at = now()`,
		p.UserID, string(p.ContentType), string(c.languages), string(p.AudioPref),
		string(c.liked), string(c.blocked), string(c.topics),
		string(p.Pace), string(p.Mood), string(p.PlotComplexity), string(p.AgeLimit), string(c.flags),
		string(c.favorites))
	if err != nil {
		return fmt.Errorf("upsert profile: %w", err)
	}
	return nil
}

// Profile returns the stored profile.
func (s *PostgresStore) Profile(ctx context.Context, userID string) (*preferences.Profile, error) {
	var (
		p                                         preferences.Profile
		contentType, audio, pace, mood, plot, age string
		c                                         profileColumns
	)
	err := s.db.QueryRowContext(ctx, `
		SELECT user_id, content_type, languages, audio_pref,
			liked_genres, blocked_genres, blocked_topics,
			pace, mood, plot_complexity, age_limit, content_flags,
			favorite_titles, updated_at
		FROM user_preferences WHERE user_id = $1`, userID).Scan(
		&p.UserID, &contentType, &c.languages, &audio,
		&c.liked, &c.blocked, &c.topics,
		&pace, &mood, &plot, &age, &c.flags,
		&c.favorites, &p.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, preferences.ErrProfileNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get profile: %w", err)
	}

	p.ContentType = preferences.ContentType(contentType)
	p.AudioPref = preferences.AudioPref(audio)
	p.Pace = preferences.Pace(pace)
	p.Mood = preferences.Mood(mood)
	p.PlotComplexity = preferences.Complexity(plot)
	p.AgeLimit = preferences.AgeLimit(age)
	p.UpdatedAt = p.UpdatedAt.UTC()

	fields := []struct {
		src []byte
		dst any
	}{
		{c.languages, &p.Languages},
		{c.liked, &p.LikedGenres},
		{c.blocked, &p.BlockedGenres},
		{c.topics, &p.BlockedTopics},
		{c.flags, &p.ContentFlags},
		{c.favorites, &p.FavoriteTitles},
	}
	for _, f := range fields {
		if err := json.Unmarshal(f.src, f.dst); err != nil {
			return nil, fmt.Errorf("decode profile: %w", err)
		}
	}
	return &p, nil
}

// Ping checks the database connection.
func (s *PostgresStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// Close closes the connection pool.
func (s *PostgresStore) Close() error {
	return s.db.Close()
}
