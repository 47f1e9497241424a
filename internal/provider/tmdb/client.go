// Movie Nexus - External Movie Metadata Integration
// Copyright 2026 Darlene-13
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/Darlene-13/movie-nexus

// Package tmdb is the adapter for The Movie Database API v3. TMDB is the
// primary metadata provider: it supplies the genre taxonomy and all
// structural movie fields. Authentication is the api_key query parameter.
package tmdb

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"time"

	"github.com/goccy/go-json"

	"github.com/Darlene-13/movie-nexus/internal/cache"
	"github.com/Darlene-13/movie-nexus/internal/config"
	"github.com/Darlene-13/movie-nexus/internal/provider"
)

// ProviderName labels TMDB in metrics, logs, and cache keys.
const ProviderName = "tmdb"

// fullPageSize is TMDB's fixed listing page size. A page with fewer
// results is the last page of the collection.
const fullPageSize = 20

// Cache TTLs per operation class. Taxonomy and per-movie data are stable
// for a day; listings churn hourly; trending churns faster; free-text
// search is never cached.
const (
	ttlTaxonomy = 24 * time.Hour
	ttlDetails  = 24 * time.Hour
	ttlListing  = 1 * time.Hour
	ttlTrending = 30 * time.Minute
	ttlSearch   = 0
)

// Client is the TMDB provider adapter.
//
// Thread Safety: safe for concurrent use; resilience state lives in the
// underlying provider.Client.
type Client struct {
	rc *provider.Client
}

// New creates a TMDB adapter from provider configuration. The cache is
// the process-wide store shared with other providers.
func New(cfg config.ProviderConfig, store *cache.Cache) *Client {
	return &Client{
		rc: provider.NewClient(provider.Config{
			Name:             ProviderName,
			BaseURL:          cfg.BaseURL,
			Timeout:          cfg.Timeout,
			RateDelay:        cfg.RateDelay,
			DailyQuota:       int64(cfg.DailyQuota),
			FailureThreshold: cfg.FailureThreshold,
			RecoveryTimeout:  cfg.RecoveryTimeout,
			MaxRetries:       cfg.MaxRetries,
			RetryBaseDelay:   cfg.RetryBaseDelay,
			Auth: func(params url.Values) {
				params.Set("api_key", cfg.APIKey)
			},
		}, store),
	}
}

// get fetches and decodes one TMDB endpoint.
func (c *Client) get(ctx context.Context, op, path string, params url.Values, ttl time.Duration, result interface{}) error {
	body, err := c.rc.Get(ctx, op, path, params, ttl)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(body, result); err != nil {
		return &provider.Error{
			Kind:     provider.KindValidation,
			Provider: ProviderName,
			Op:       op,
			Err:      fmt.Errorf("failed to decode response: %w", err),
		}
	}
	return nil
}

// Configuration retrieves the API configuration used for image URLs.
func (c *Client) Configuration(ctx context.Context) (*Configuration, error) {
	var result Configuration
	if err := c.get(ctx, "configuration", "/configuration", nil, ttlTaxonomy, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// Genres retrieves the movie genre taxonomy.
func (c *Client) Genres(ctx context.Context) ([]Genre, error) {
	var result GenreList
	if err := c.get(ctx, "genres", "/genre/movie/list", nil, ttlTaxonomy, &result); err != nil {
		return nil, err
	}
	return result.Genres, nil
}

// PopularMovies retrieves one page of the popularity-ranked listing.
func (c *Client) PopularMovies(ctx context.Context, page int) (*MoviePage, error) {
	return c.listing(ctx, "popular", "/movie/popular", page)
}

// TopRatedMovies retrieves one page of the rating-ranked listing.
func (c *Client) TopRatedMovies(ctx context.Context, page int) (*MoviePage, error) {
	return c.listing(ctx, "top_rated", "/movie/top_rated", page)
}

func (c *Client) listing(ctx context.Context, op, path string, page int) (*MoviePage, error) {
	params := url.Values{}
	params.Set("page", strconv.Itoa(page))

	var result MoviePage
	if err := c.get(ctx, op, path, params, ttlListing, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// TrendingMovies retrieves the trending listing. Window is "day" or
// "week"; anything else defaults to "week".
func (c *Client) TrendingMovies(ctx context.Context, window string, page int) (*MoviePage, error) {
	if window != "day" && window != "week" {
		window = "week"
	}
	params := url.Values{}
	params.Set("page", strconv.Itoa(page))

	var result MoviePage
	if err := c.get(ctx, "trending", "/trending/movie/"+window, params, ttlTrending, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// MovieDetails retrieves full details for one movie. A missing movie
// returns a soft-empty error; use provider.IsNotFound.
func (c *Client) MovieDetails(ctx context.Context, tmdbID int64) (*MovieDetails, error) {
	var result MovieDetails
	path := fmt.Sprintf("/movie/%d", tmdbID)
	if err := c.get(ctx, "details", path, nil, ttlDetails, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// MovieCredits retrieves cast and crew for one movie.
func (c *Client) MovieCredits(ctx context.Context, tmdbID int64) (*Credits, error) {
	var result Credits
	path := fmt.Sprintf("/movie/%d/credits", tmdbID)
	if err := c.get(ctx, "credits", path, nil, ttlDetails, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// SearchMovies performs a free-text title search. Year of 0 means no
// year filter. Search responses are never cached.
func (c *Client) SearchMovies(ctx context.Context, query string, year int, page int) (*MoviePage, error) {
	params := url.Values{}
	params.Set("query", query)
	params.Set("page", strconv.Itoa(page))
	if year > 0 {
		params.Set("year", strconv.Itoa(year))
	}

	var result MoviePage
	if err := c.get(ctx, "search", "/search/movie", params, ttlSearch, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// DiscoverOptions filters a discover query. Zero values are omitted.
type DiscoverOptions struct {
	GenreID  int64
	Year     int
	SortBy   string // e.g. "popularity.desc", "vote_average.desc"
	MinVotes int
	Page     int
}

// DiscoverMovies retrieves one page of filtered discovery results.
func (c *Client) DiscoverMovies(ctx context.Context, opts DiscoverOptions) (*MoviePage, error) {
	params := url.Values{}
	page := opts.Page
	if page < 1 {
		page = 1
	}
	params.Set("page", strconv.Itoa(page))
	if opts.GenreID > 0 {
		params.Set("with_genres", strconv.FormatInt(opts.GenreID, 10))
	}
	if opts.Year > 0 {
		params.Set("primary_release_year", strconv.Itoa(opts.Year))
	}
	if opts.SortBy != "" {
		params.Set("sort_by", opts.SortBy)
	}
	if opts.MinVotes > 0 {
		params.Set("vote_count.gte", strconv.Itoa(opts.MinVotes))
	}

	var result MoviePage
	if err := c.get(ctx, "discover", "/discover/movie", params, ttlListing, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// MoviesByPages collects up to maxPages of a listing, stopping early on a
// short page (end of collection) or a not-found page. fetch is one of the
// paginated listing methods.
func MoviesByPages(ctx context.Context, maxPages int, fetch func(ctx context.Context, page int) (*MoviePage, error)) ([]MovieSummary, error) {
	var movies []MovieSummary
	for page := 1; page <= maxPages; page++ {
		result, err := fetch(ctx, page)
		if err != nil {
			if provider.IsNotFound(err) {
				break
			}
			return movies, err
		}
		movies = append(movies, result.Results...)
		if len(result.Results) < fullPageSize {
			break
		}
	}
	return movies, nil
}

// Ping verifies connectivity and credentials against the configuration
// endpoint.
func (c *Client) Ping(ctx context.Context) error {
	_, err := c.Configuration(ctx)
	return err
}

// BreakerState exposes the circuit breaker state for health checks.
func (c *Client) BreakerState() string { return c.rc.BreakerState() }

// QuotaUsage exposes the daily quota counters for health checks.
func (c *Client) QuotaUsage() (used, limit int64) { return c.rc.QuotaUsage() }

// CacheHitRate exposes this provider's cache hit percentage.
func (c *Client) CacheHitRate() float64 { return c.rc.CacheHitRate() }
