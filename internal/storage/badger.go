// Coldstart - Cold-Start Movie and TV Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/coldstart

package storage

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/goccy/go-json"

	"github.com/tomtom215/coldstart/internal/preferences"
)

// Key prefixes for BadgerDB storage. User ids never contain ':' (enforced
// at the API boundary), so per-user prefix scans cannot overlap.
const (
	answerKeyPrefix  = "answer:"
	titleKeyPrefix   = "title:"
	profileKeyPrefix = "profile:"
)

// BadgerStore implements Store on BadgerDB.
type BadgerStore struct {
	db  *badger.DB
	now func() time.Time
}

// OpenBadger opens a BadgerDB at path, or a purely in-memory database when
// inMemory is set.
func OpenBadger(path string, inMemory bool) (*BadgerStore, error) {
	opts := badger.DefaultOptions(path)
	if inMemory {
		opts = badger.DefaultOptions("").WithInMemory(true)
	} else {
		opts.SyncWrites = true
		// Small records; the 1GB default value log is oversized.
		opts.ValueLogFileSize = 16 << 20
	}
	opts.Logger = nil // Suppress BadgerDB internal logs

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open badger db: %w", err)
	}
	return NewBadgerStoreFromDB(db), nil
}

// NewBadgerStoreFromDB creates a store on an existing BadgerDB connection.
func NewBadgerStoreFromDB(db *badger.DB) *BadgerStore {
	return &BadgerStore{db: db, now: time.Now}
}

func answerKey(userID string, key preferences.QuestionKey) []byte {
	return []byte(answerKeyPrefix + userID + ":" + string(key))
}

func titleKey(userID string, catalogID int) []byte {
	return []byte(titleKeyPrefix + userID + ":" + strconv.Itoa(catalogID))
}

func profileKey(userID string) []byte {
	return []byte(profileKeyPrefix + userID)
}

// SaveAnswer stores a raw answer.
func (s *BadgerStore) SaveAnswer(_ context.Context, userID string, key preferences.QuestionKey, raw string) error {
	return s.db.Update(func(txn *badger.Txn) error {
		if err := txn.Set(answerKey(userID, key), []byte(raw)); err != nil {
			return fmt.Errorf("set answer: %w", err)
		}
		return nil
	})
}

// Answer returns one raw answer.
func (s *BadgerStore) Answer(_ context.Context, userID string, key preferences.QuestionKey) (string, error) {
	var raw string
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(answerKey(userID, key))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return ErrAnswerNotFound
		}
		if err != nil {
			return fmt.Errorf("get answer: %w", err)
		}
		return item.Value(func(val []byte) error {
			raw = string(val)
			return nil
		})
	})
	return raw, err
}

// Answers returns every stored answer of the user.
func (s *BadgerStore) Answers(_ context.Context, userID string) (preferences.Answers, error) {
	answers := make(preferences.Answers)
	prefix := []byte(answerKeyPrefix + userID + ":")

	err := s.db.View(func(txn *badger.Txn) error {
		it := txn.NewIterator(badger.DefaultIteratorOptions)
		defer it.Close()

		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			item := it.Item()
			key := preferences.QuestionKey(item.Key()[len(prefix):])
			err := item.Value(func(val []byte) error {
				answers[key] = string(val)
				return nil
			})
			if err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("list answers: %w", err)
	}
	return answers, nil
}

// SaveTitle upserts a title record.
func (s *BadgerStore) SaveTitle(_ context.Context, userID string, t *preferences.LikedTitle) error {
	return s.db.Update(func(txn *badger.Txn) error {
		key := titleKey(userID, t.CatalogID)
		rec := *t
		rec.CreatedAt = s.now().UTC()

		item, err := txn.Get(key)
		switch {
		case err == nil:
			var existing preferences.LikedTitle
			if err := item.Value(func(val []byte) error { return json.Unmarshal(val, &existing) }); err != nil {
				return fmt.Errorf("decode title: %w", err)
			}
			rec.CreatedAt = existing.CreatedAt
		case !errors.Is(err, badger.ErrKeyNotFound):
			return fmt.Errorf("get title: %w", err)
		}

		data, err := json.Marshal(&rec)
		if err != nil {
			return fmt.Errorf("marshal title: %w", err)
		}
		if err := txn.Set(key, data); err != nil {
			return fmt.Errorf("set title: %w", err)
		}
		return nil
	})
}

// DeleteTitle removes a title record.
func (s *BadgerStore) DeleteTitle(_ context.Context, userID string, catalogID int) error {
	return s.db.Update(func(txn *badger.Txn) error {
		key := titleKey(userID, catalogID)
		if _, err := txn.Get(key); errors.Is(err, badger.ErrKeyNotFound) {
			return ErrTitleNotFound
		} else if err != nil {
			return fmt.Errorf("get title: %w", err)
		}
		if err := txn.Delete(key); err != nil {
			return fmt.Errorf("delete title: %w", err)
		}
		return nil
	})
}

// ListTitles returns every title record, newest first.
func (s *BadgerStore) ListTitles(_ context.Context, userID string) ([]preferences.LikedTitle, error) {
	titles := make([]preferences.LikedTitle, 0)
	prefix := []byte(titleKeyPrefix + userID + ":")

	err := s.db.View(func(txn *badger.Txn) error {
		it := txn.NewIterator(badger.DefaultIteratorOptions)
		defer it.Close()

		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			var t preferences.LikedTitle
			if err := it.Item().Value(func(val []byte) error { return json.Unmarshal(val, &t) }); err != nil {
				return fmt.Errorf("decode title: %w", err)
			}
			titles = append(titles, t)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("list titles: %w", err)
	}

	sort.SliceStable(titles, func(i, j int) bool {
		if !titles[i].CreatedAt.Equal(titles[j].CreatedAt) {
			return titles[i].CreatedAt.After(titles[j].CreatedAt)
		}
		return titles[i].CatalogID > titles[j].CatalogID
	})
	return titles, nil
}

// LikedTitles returns liked records, newest first.
func (s *BadgerStore) LikedTitles(ctx context.Context, userID string) ([]preferences.LikedTitle, error) {
	titles, err := s.ListTitles(ctx, userID)
	if err != nil {
		return nil, err
	}
	return likedOnly(titles), nil
}

// UpsertProfile replaces the stored profile and stamps its update time.
func (s *BadgerStore) UpsertProfile(_ context.Context, p *preferences.Profile) error {
	rec := *p
	rec.UpdatedAt = s.now().UTC()

	data, err := json.Marshal(&rec)
	if err != nil {
		return fmt.Errorf("marshal profile: %w", err)
	}
	return s.db.Update(func(txn *badger.Txn) error {
		if err := txn.Set(profileKey(p.UserID), data); err != nil {
			return fmt.Errorf("set profile: %w", err)
		}
		return nil
	})
}

// Profile returns the stored profile.
func (s *BadgerStore) Profile(_ context.Context, userID string) (*preferences.Profile, error) {
	var p preferences.Profile
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(profileKey(userID))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return preferences.ErrProfileNotFound
		}
		if err != nil {
			return fmt.Errorf("get profile: %w", err)
		}
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, &p)
		})
	})
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// Ping reports an error once the database is closed.
func (s *BadgerStore) Ping(_ context.Context) error {
	if s.db.IsClosed() {
		return errors.New("badger db is closed")
	}
	return nil
}

// Close closes the database. Closing twice is a no-op.
func (s *BadgerStore) Close() error {
	if s.db.IsClosed() {
		return nil
	}
	return s.db.Close()
}
