// Coldstart - Cold-Start Movie and TV Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/coldstart

package storage

import (
	"context"
	"errors"
	"reflect"
	"testing"
	"time"

	"github.com/tomtom215/coldstart/internal/preferences"
)

// runStoreContract exercises behavior every Store backend must share.
// newStore must return an empty store.
func runStoreContract(t *testing.T, newStore func(t *testing.T) Store) {
	t.Helper()
	ctx := context.Background()

	t.Run("answers", func(t *testing.T) {
		s := newStore(t)
		if _, err := s.Answer(ctx, "u1", preferences.QuestionPace); !errors.Is(err, ErrAnswerNotFound) {
			t.Fatalf("Answer(missing) error = %v, want ErrAnswerNotFound", err)
		}

		mustNoErr(t, s.SaveAnswer(ctx, "u1", preferences.QuestionPace, "Средний"))
		mustNoErr(t, s.SaveAnswer(ctx, "u1", preferences.QuestionPace, "Динамичный"))
		mustNoErr(t, s.SaveAnswer(ctx, "u1", preferences.QuestionLanguages, `{"languages":["ru"]}`))
		mustNoErr(t, s.SaveAnswer(ctx, "u2", preferences.QuestionPace, "slow"))

		raw, err := s.Answer(ctx, "u1", preferences.QuestionPace)
		mustNoErr(t, err)
		if raw != "Динамичный" {
			t.Errorf("Answer() = %q, want the latest answer", raw)
		}

		all, err := s.Answers(ctx, "u1")
		mustNoErr(t, err)
		want := preferences.Answers{
			preferences.QuestionPace:      "Динамичный",
			preferences.QuestionLanguages: `{"languages":["ru"]}`,
		}
		if !reflect.DeepEqual(all, want) {
			t.Errorf("Answers() = %v, want %v", all, want)
		}

		none, err := s.Answers(ctx, "nobody")
		mustNoErr(t, err)
		if none == nil || len(none) != 0 {
			t.Errorf("Answers(nobody) = %#v, want empty map", none)
		}
	})

	t.Run("titles", func(t *testing.T) {
		s := newStore(t)
		save := func(id int, liked bool) {
			t.Helper()
			mustNoErr(t, s.SaveTitle(ctx, "u1", &preferences.LikedTitle{CatalogID: id, MediaKind: "movie", Title: "t", Liked: liked}))
			time.Sleep(5 * time.Millisecond)
		}
		save(1, true)
		save(2, false)
		save(3, true)

		list, err := s.ListTitles(ctx, "u1")
		mustNoErr(t, err)
		if got := titleIDs(list); !reflect.DeepEqual(got, []int{3, 2, 1}) {
			t.Errorf("ListTitles() ids = %v, want [3 2 1]", got)
		}

		liked, err := s.LikedTitles(ctx, "u1")
		mustNoErr(t, err)
		if got := titleIDs(liked); !reflect.DeepEqual(got, []int{3, 1}) {
			t.Errorf("LikedTitles() ids = %v, want [3 1]", got)
		}

		// Re-saving keeps the original creation time and updates the fields.
		mustNoErr(t, s.SaveTitle(ctx, "u1", &preferences.LikedTitle{CatalogID: 1, MediaKind: "tv", Title: "renamed", Liked: false}))
		list, err = s.ListTitles(ctx, "u1")
		mustNoErr(t, err)
		if got := titleIDs(list); !reflect.DeepEqual(got, []int{3, 2, 1}) {
			t.Errorf("ListTitles() after upsert = %v, want [3 2 1]", got)
		}
		last := list[2]
		if last.Title != "renamed" || last.MediaKind != "tv" || last.Liked {
			t.Errorf("upserted title = %+v", last)
		}

		mustNoErr(t, s.DeleteTitle(ctx, "u1", 2))
		if err := s.DeleteTitle(ctx, "u1", 2); !errors.Is(err, ErrTitleNotFound) {
			t.Errorf("DeleteTitle(deleted) error = %v, want ErrTitleNotFound", err)
		}

		other, err := s.ListTitles(ctx, "u2")
		mustNoErr(t, err)
		if other == nil || len(other) != 0 {
			t.Errorf("ListTitles(u2) = %#v, want empty", other)
		}
	})

	t.Run("profile", func(t *testing.T) {
		s := newStore(t)
		if _, err := s.Profile(ctx, "u1"); !errors.Is(err, preferences.ErrProfileNotFound) {
			t.Fatalf("Profile(missing) error = %v, want ErrProfileNotFound", err)
		}

		answers := preferences.Answers{
			preferences.QuestionContentType: "Сериалы",
			preferences.QuestionGenres:      `{"genres":["Драма","Комедия","Детектив"]}`,
			preferences.QuestionAgeLimit:    `{"age_limit":"16+","flags":["no_drugs"]}`,
		}
		built := preferences.BuildProfile("u1", answers, []preferences.LikedTitle{{CatalogID: 9, MediaKind: "tv"}})
		before := time.Now().Add(-time.Minute)
		mustNoErr(t, s.UpsertProfile(ctx, &built))

		got, err := s.Profile(ctx, "u1")
		mustNoErr(t, err)
		if got.UpdatedAt.Before(before) {
			t.Errorf("UpdatedAt = %v, want a fresh stamp", got.UpdatedAt)
		}
		stamped := got.UpdatedAt
		got.UpdatedAt = time.Time{}
		if !reflect.DeepEqual(*got, built) {
			t.Errorf("Profile() =\n%#v\nwant\n%#v", *got, built)
		}
		if !built.UpdatedAt.IsZero() {
			t.Error("UpsertProfile modified the caller's profile")
		}

		replaced := preferences.BuildProfile("u1", nil, nil)
		time.Sleep(5 * time.Millisecond)
		mustNoErr(t, s.UpsertProfile(ctx, &replaced))
		got, err = s.Profile(ctx, "u1")
		mustNoErr(t, err)
		if got.ContentType != preferences.ContentBoth || len(got.FavoriteTitles) != 0 {
			t.Errorf("profile not replaced as a whole: %+v", got)
		}
		if !got.UpdatedAt.After(stamped) {
			t.Errorf("UpdatedAt = %v, want after %v", got.UpdatedAt, stamped)
		}
	})

	t.Run("ping", func(t *testing.T) {
		if err := newStore(t).Ping(ctx); err != nil {
			t.Errorf("Ping() error = %v", err)
		}
	})
}

func titleIDs(titles []preferences.LikedTitle) []int {
	ids := make([]int, 0, len(titles))
	for i := range titles {
		ids = append(ids, titles[i].CatalogID)
	}
	return ids
}

func mustNoErr(t *testing.T, err error) {
	t.Helper()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}
