// Coldstart - Cold-Start Movie and TV Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/coldstart

package catalog

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"golang.org/x/time/rate"

	"github.com/tomtom215/coldstart/internal/config"
	"github.com/tomtom215/coldstart/internal/logging"
	"github.com/tomtom215/coldstart/internal/metrics"
	"github.com/tomtom215/coldstart/internal/models"
)

// maxErrorBodySize limits how much of an error response is kept.
const maxErrorBodySize = 4 * 1024

// Endpoint labels used for metrics and logs.
const (
	endpointGenres   = "genres"
	endpointDiscover = "discover"
	endpointSimilar  = "recommendations"
	endpointTrending = "trending"
	endpointReleases = "releases"
	endpointTopRated = "top_rated"
	endpointSearch   = "search"
	endpointDetails  = "details"
)

// maxTopRatedPages bounds the pages TopRated reads to fill its limit.
const maxTopRatedPages = 5

// Client is the TMDB HTTP API client. It performs no retries; a failed call
// is returned to the caller as is.
//
// Thread Safety: Safe for concurrent use.
type Client struct {
	baseURL      string
	imageBaseURL string
	apiKey       string
	client       *http.Client
	limiter      *rate.Limiter
}

// NewClient creates a client from configuration. A client without an API key
// is valid to construct; every call then fails with ErrCatalogNotConfigured.
func NewClient(cfg *config.TMDBConfig) *Client {
	limit := rate.Inf
	if cfg.RequestsPerSecond > 0 {
		limit = rate.Limit(cfg.RequestsPerSecond)
	}
	burst := cfg.Burst
	if burst < 1 {
		burst = 1
	}

	return &Client{
		baseURL:      strings.TrimRight(cfg.BaseURL, "/"),
		imageBaseURL: cfg.ImageBaseURL,
		apiKey:       cfg.APIKey,
		client:       &http.Client{Timeout: cfg.Timeout},
		limiter:      rate.NewLimiter(limit, burst),
	}
}

// Genres implements Source.
func (c *Client) Genres(ctx context.Context, kind models.MediaKind, language string) ([]Genre, error) {
	params := url.Values{}
	params.Set("language", language)

	var resp genreListResponse
	if err := c.get(ctx, endpointGenres, "/genre/"+kind.String()+"/list", params, &resp); err != nil {
		return nil, err
	}

	genres := make([]Genre, 0, len(resp.Genres))
	for _, g := range resp.Genres {
		id, ok := positiveID(g.ID)
		if !ok || g.Name == nil {
			continue
		}
		genres = append(genres, Genre{ID: id, Name: *g.Name})
	}
	return genres, nil
}

// Discover implements Source.
func (c *Client) Discover(ctx context.Context, kind models.MediaKind, q DiscoverQuery) ([]Item, error) {
	return c.page(ctx, endpointDiscover, "/discover/"+kind.String(), discoverParams(kind, q), kind)
}

// Similar implements Source.
func (c *Client) Similar(ctx context.Context, kind models.MediaKind, id int, language string) ([]Item, error) {
	params := url.Values{}
	params.Set("language", language)
	params.Set("page", "1")
	path := fmt.Sprintf("/%s/%d/recommendations", kind, id)
	return c.page(ctx, endpointSimilar, path, params, kind)
}

// Trending implements Source. Entries other than movies and TV titles
// (people) are dropped.
func (c *Client) Trending(ctx context.Context, language string) ([]Item, error) {
	params := url.Values{}
	params.Set("language", language)
	params.Set("page", "1")

	var resp pageResponse
	if err := c.get(ctx, endpointTrending, "/trending/all/week", params, &resp); err != nil {
		return nil, err
	}
	return c.moviesAndShows(resp.Results), nil
}

// moviesAndShows normalizes mixed-type results, dropping people and any
// other media_type.
func (c *Client) moviesAndShows(results []rawItem) []Item {
	items := make([]Item, 0, len(results))
	for i := range results {
		kind, ok := models.ParseMediaKind(results[i].MediaType)
		if !ok {
			continue
		}
		items = append(items, results[i].normalize(kind, c.imageBaseURL))
	}
	return items
}

// Releases implements Source.
func (c *Client) Releases(ctx context.Context, kind models.MediaKind, language string) ([]Item, error) {
	params := url.Values{}
	params.Set("language", language)
	params.Set("page", "1")

	path := "/movie/now_playing"
	if kind == models.KindTV {
		path = "/tv/on_the_air"
	}
	return c.page(ctx, endpointReleases, path, params, kind)
}

// TopRated implements Source. Pages are read in order until limit items are
// collected, the catalog runs out, or maxTopRatedPages is reached.
func (c *Client) TopRated(ctx context.Context, kind models.MediaKind, language string, limit int) ([]Item, error) {
	path := "/" + kind.String() + "/top_rated"
	items := make([]Item, 0, max(limit, 0))

	for pageNo := 1; pageNo <= maxTopRatedPages && len(items) < limit; pageNo++ {
		params := url.Values{}
		params.Set("language", language)
		params.Set("page", strconv.Itoa(pageNo))

		var resp pageResponse
		if err := c.get(ctx, endpointTopRated, path, params, &resp); err != nil {
			return nil, err
		}
		for i := range resp.Results {
			if len(items) == limit {
				break
			}
			items = append(items, resp.Results[i].normalize(kind, c.imageBaseURL))
		}
		if len(resp.Results) == 0 || pageNo >= resp.TotalPages {
			break
		}
	}
	return items, nil
}

// Search implements Source.
func (c *Client) Search(ctx context.Context, query, language string) ([]Item, error) {
	if c.apiKey == "" {
		return nil, ErrCatalogNotConfigured
	}
	query = strings.TrimSpace(query)
	if len([]rune(query)) < MinSearchQueryLen {
		return []Item{}, nil
	}

	params := url.Values{}
	params.Set("query", query)
	params.Set("language", language)

	var resp pageResponse
	if err := c.get(ctx, endpointSearch, "/search/multi", params, &resp); err != nil {
		return nil, err
	}
	return c.moviesAndShows(resp.Results), nil
}

// Details implements Source. Only a 404 triggers the other-kind lookup.
func (c *Client) Details(ctx context.Context, kind models.MediaKind, id int, language string) (*Details, error) {
	params := url.Values{}
	params.Set("language", language)

	var resp detailsResponse
	err := c.get(ctx, endpointDetails, fmt.Sprintf("/%s/%d", kind, id), params, &resp)

	var apiErr *APIError
	if errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusNotFound {
		kind = otherKind(kind)
		resp = detailsResponse{}
		err = c.get(ctx, endpointDetails, fmt.Sprintf("/%s/%d", kind, id), params, &resp)
	}
	if err != nil {
		return nil, err
	}
	return resp.normalize(kind, c.imageBaseURL), nil
}

func otherKind(kind models.MediaKind) models.MediaKind {
	if kind == models.KindTV {
		return models.KindMovie
	}
	return models.KindTV
}

func (c *Client) page(ctx context.Context, endpoint, path string, params url.Values, kind models.MediaKind) ([]Item, error) {
	var resp pageResponse
	if err := c.get(ctx, endpoint, path, params, &resp); err != nil {
		return nil, err
	}
	items := make([]Item, 0, len(resp.Results))
	for i := range resp.Results {
		items = append(items, resp.Results[i].normalize(kind, c.imageBaseURL))
	}
	return items, nil
}

// discoverParams builds the query string of a discovery request.
func discoverParams(kind models.MediaKind, q DiscoverQuery) url.Values {
	params := url.Values{}
	if q.Language != "" {
		params.Set("language", q.Language)
	}
	if q.SortBy != "" {
		params.Set("sort_by", q.SortBy)
	}
	params.Set("include_adult", strconv.FormatBool(q.IncludeAdult))
	if q.MinVoteCount > 0 {
		params.Set("vote_count.gte", strconv.Itoa(q.MinVoteCount))
	}
	page := q.Page
	if page < 1 {
		page = 1
	}
	params.Set("page", strconv.Itoa(page))
	if len(q.WithGenres) > 0 {
		params.Set("with_genres", joinIDs(q.WithGenres))
	}
	if len(q.WithoutGenres) > 0 {
		params.Set("without_genres", joinIDs(q.WithoutGenres))
	}
	if q.OriginalLanguage != "" {
		params.Set("with_original_language", q.OriginalLanguage)
	}
	if q.Year != "" {
		if kind == models.KindTV {
			params.Set("first_air_date_year", q.Year)
		} else {
			params.Set("primary_release_year", q.Year)
		}
	}
	if q.Region != "" && kind == models.KindMovie {
		params.Set("region", q.Region)
	}
	return params
}

func joinIDs(ids []int) string {
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = strconv.Itoa(id)
	}
	return strings.Join(parts, ",")
}

// get executes one GET request and decodes the JSON body into dst.
func (c *Client) get(ctx context.Context, endpoint, path string, params url.Values, dst any) (err error) {
	if c.apiKey == "" {
		return ErrCatalogNotConfigured
	}

	start := time.Now()
	status := 0
	defer func() {
		metrics.RecordCatalogRequest(endpoint, status, time.Since(start), err)
		if err != nil {
			logging.Ctx(ctx).Debug().Err(err).Str("component", "catalog").Str("endpoint", endpoint).Str("path", path).Msg("Catalog request failed")
		}
	}()

	if err = c.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("catalog %s: rate limit wait: %w", path, err)
	}

	params.Set("api_key", c.apiKey)
	reqURL := c.baseURL + path + "?" + params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, http.NoBody)
	if err != nil {
		return fmt.Errorf("catalog %s: create request: %w", path, err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("catalog %s: %w", path, redactURLError(err))
	}
	defer resp.Body.Close()
	status = resp.StatusCode

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &APIError{StatusCode: resp.StatusCode, Path: path, Body: readBodyForError(resp.Body)}
	}

	if err = json.NewDecoder(resp.Body).Decode(dst); err != nil {
		return fmt.Errorf("catalog %s: decode response: %w", path, err)
	}
	return nil
}

// readBodyForError reads at most maxErrorBodySize bytes of an error body.
func readBodyForError(r io.Reader) string {
	body, err := io.ReadAll(io.LimitReader(r, maxErrorBodySize))
	if err != nil {
		return "(failed to read response body)"
	}
	return strings.TrimSpace(string(body))
}

// redactURLError strips the request URL (which carries the API key) from
// transport errors while keeping the underlying cause for errors.Is.
func redactURLError(err error) error {
	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		return fmt.Errorf("%s: %w", urlErr.Op, urlErr.Err)
	}
	return err
}
