// Coldstart - Cold-Start Movie and TV Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/coldstart

package api

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/goccy/go-json"
	"github.com/rs/zerolog"

	"github.com/tomtom215/coldstart/internal/catalog"
	"github.com/tomtom215/coldstart/internal/config"
	"github.com/tomtom215/coldstart/internal/models"
	"github.com/tomtom215/coldstart/internal/preferences"
	"github.com/tomtom215/coldstart/internal/recommend"
	"github.com/tomtom215/coldstart/internal/storage"
	"github.com/tomtom215/coldstart/internal/testinfra"
)

const testLanguage = "ru-RU"

// testEnv is a fully wired API over an in-memory store and the mock catalog.
type testEnv struct {
	router http.Handler
	store  storage.Store
	tmdb   *testinfra.MockTMDBServer
}

type envOption func(*envSettings)

type envSettings struct {
	apiKey     string
	middleware *ChiMiddlewareConfig
}

func withoutCatalogKey() envOption {
	return func(s *envSettings) { s.apiKey = "" }
}

func withMiddleware(cfg *ChiMiddlewareConfig) envOption {
	return func(s *envSettings) { s.middleware = cfg }
}

func newTestEnv(t *testing.T, opts ...envOption) *testEnv {
	t.Helper()

	mwCfg := DefaultChiMiddlewareConfig()
	mwCfg.RateLimitDisabled = true
	settings := envSettings{apiKey: testinfra.MockTMDBAPIKey, middleware: mwCfg}
	for _, opt := range opts {
		opt(&settings)
	}

	tmdb := testinfra.NewMockTMDBServer(t)

	badgerStore, err := storage.OpenBadger("", true)
	if err != nil {
		t.Fatalf("OpenBadger() error = %v", err)
	}
	store := storage.Instrument(badgerStore, storage.DriverBadger)
	t.Cleanup(func() { _ = store.Close() })

	client := catalog.NewClient(&config.TMDBConfig{
		APIKey:  settings.apiKey,
		BaseURL: tmdb.URL(),
		Timeout: 2 * time.Second,
	})
	source := catalog.NewCircuitBreakerSource(client, catalog.DefaultBreakerSettings())
	resolver := catalog.NewResolver(source, nil)
	aggregator := recommend.NewAggregator(source, recommend.AggregatorConfig{CallTimeout: 2 * time.Second})
	engine := recommend.NewEngine(store, resolver, catalog.NewSignalBuilder(resolver), aggregator,
		recommend.EngineConfig{Language: testLanguage}, zerolog.Nop())
	builder := preferences.NewBuilder(store, 5, zerolog.Nop())

	handler := NewHandler(store, builder, engine, source, resolver, HandlerConfig{
		Language:          testLanguage,
		RequestTimeout:    5 * time.Second,
		CatalogConfigured: settings.apiKey != "",
	})

	return &testEnv{
		router: NewRouter(handler, NewChiMiddleware(settings.middleware)).SetupChi(),
		store:  store,
		tmdb:   tmdb,
	}
}

// envelope is the decoded APIResponse with raw data.
type envelope struct {
	Status   string           `json:"status"`
	Data     json.RawMessage  `json:"data"`
	Metadata models.Metadata  `json:"metadata"`
	Error    *models.APIError `json:"error"`
}

func (e *testEnv) do(t *testing.T, method, path string, body any) (*httptest.ResponseRecorder, envelope) {
	t.Helper()

	var reader *bytes.Reader
	switch b := body.(type) {
	case nil:
		reader = bytes.NewReader(nil)
	case string:
		reader = bytes.NewReader([]byte(b))
	default:
		data, err := json.Marshal(b)
		if err != nil {
			t.Fatal(err)
		}
		reader = bytes.NewReader(data)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	e.router.ServeHTTP(rec, req)

	var env envelope
	if rec.Header().Get("Content-Type") == "application/json" {
		if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
			t.Fatalf("%s %s: decode envelope: %v\n%s", method, path, err, rec.Body.String())
		}
	}
	return rec, env
}

// expect asserts the status and, for errors, the error code.
func expect(t *testing.T, rec *httptest.ResponseRecorder, env envelope, status int, code string) {
	t.Helper()
	if rec.Code != status {
		t.Fatalf("status = %d, want %d\n%s", rec.Code, status, rec.Body.String())
	}
	if code == "" {
		if env.Status != "success" {
			t.Fatalf("envelope status = %q, want success", env.Status)
		}
		return
	}
	if env.Status != "error" || env.Error == nil || env.Error.Code != code {
		t.Fatalf("envelope = %+v, want error code %s", env, code)
	}
}

func decodeData[T any](t *testing.T, env envelope) T {
	t.Helper()
	var out T
	if err := json.Unmarshal(env.Data, &out); err != nil {
		t.Fatalf("decode data: %v\n%s", err, env.Data)
	}
	return out
}

// onboard stores a complete questionnaire and five liked titles, the most
// recent of which (550) has catalog recommendations in the mock.
func (e *testEnv) onboard(t *testing.T, userID string) {
	t.Helper()

	answers := map[string]any{
		"q1": "50–50",
		"q2": map[string]any{"languages": []string{"en"}},
		"q3": "Субтитры",
		"q4": map[string]any{"genres": []string{"Боевик", "Комедия", "Драма"}},
		"q5": map[string]any{"avoid_genres": []string{"Ужасы"}},
		"q6": "Динамичный",
		"q7": "Напряжённый",
		"q8": "Средний",
		"q9": "16+",
	}
	for key, ans := range answers {
		rec, env := e.do(t, http.MethodPut, "/api/v1/users/"+userID+"/answers/"+key, map[string]any{"answer": ans})
		expect(t, rec, env, http.StatusOK, "")
	}

	for _, id := range []int{501, 502, 503, 504, 550} {
		rec, env := e.do(t, http.MethodPost, "/api/v1/users/"+userID+"/titles",
			map[string]any{"tmdb_id": id, "media_type": "movie", "liked": true})
		expect(t, rec, env, http.StatusOK, "")
	}
}
