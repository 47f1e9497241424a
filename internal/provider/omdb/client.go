// Movie Nexus - External Movie Metadata Integration
// Copyright 2026 Darlene-13
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/Darlene-13/movie-nexus

// Package omdb is the adapter for the OMDb API. OMDB is the secondary
// metadata provider: it only supplies supplementary ratings (IMDb,
// Rotten Tomatoes, Metacritic) and never overrides TMDB's structural
// fields. Authentication is the apikey query parameter.
//
// OMDB signals not-found inside an HTTP 200 body (Response "False"),
// so the adapter installs a body check that converts those responses
// into soft-empty errors before they reach the cache or the circuit
// breaker's failure count.
package omdb

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

// ProviderName labels OMDB in metrics, logs, and cache keys.
const ProviderName = "omdb"

// Client is the OMDB provider adapter.
type Client struct {
	rc        *provider.Client
	lookupTTL time.Duration
}

// New creates an OMDB adapter from provider configuration.
func New(cfg config.ProviderConfig, store *cache.Cache) *Client {
	return &Client{
		lookupTTL: cfg.DefaultCacheTTL,
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
				params.Set("apikey", cfg.APIKey)
			},
			CheckBody: checkResponseFlag,
		}, store),
	}
}

// responseFlag is the minimal envelope needed to detect body-level
// not-found responses.
type responseFlag struct {
	Response string `json:"Response"`
	Error    string `json:"Error"`
}

// checkResponseFlag converts OMDB's in-band failures into classified
// errors so a "Movie not found!" body never poisons the cache.
func checkResponseFlag(op string, body []byte) error {
	var flag responseFlag
	if err := json.Unmarshal(body, &flag); err != nil {
		return &provider.Error{
			Kind:     provider.KindValidation,
			Provider: ProviderName,
			Op:       op,
			Err:      fmt.Errorf("failed to decode response envelope: %w", err),
		}
	}
	if flag.Response != "False" {
		return nil
	}
	// Invalid keys also arrive as Response "False" with an HTTP 200 on
	// some plans; classify those as fatal rather than empty.
	if flag.Error == "Invalid API key!" {
		return &provider.Error{
			Kind:     provider.KindFatal,
			Provider: ProviderName,
			Op:       op,
			Err:      fmt.Errorf("authentication rejected: %s", flag.Error),
		}
	}
	return &provider.Error{
		Kind:     provider.KindSoftEmpty,
		Provider: ProviderName,
		Op:       op,
		Err:      fmt.Errorf("%s", flag.Error),
	}
}

func (c *Client) get(ctx context.Context, op string, params url.Values, ttl time.Duration, result interface{}) error {
	body, err := c.rc.Get(ctx, op, "/", params, ttl)
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

// ByTitle looks a movie up by exact title. Year of 0 means no year
// filter. A missing movie returns a soft-empty error.
func (c *Client) ByTitle(ctx context.Context, title string, year int) (*MovieResult, error) {
	params := url.Values{}
	params.Set("t", title)
	params.Set("plot", "short")
	if year > 0 {
		params.Set("y", strconv.Itoa(year))
	}

	var result MovieResult
	if err := c.get(ctx, "by_title", params, c.lookupTTL, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// ByIMDBID looks a movie up by IMDb ID (e.g. "tt0133093").
func (c *Client) ByIMDBID(ctx context.Context, imdbID string) (*MovieResult, error) {
	params := url.Values{}
	params.Set("i", imdbID)
	params.Set("plot", "short")

	var result MovieResult
	if err := c.get(ctx, "by_imdb_id", params, c.lookupTTL, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// Search performs a free-text title search. Search responses are never
// cached.
func (c *Client) Search(ctx context.Context, query string, page int) (*SearchResult, error) {
	if page < 1 {
		page = 1
	}
	params := url.Values{}
	params.Set("s", query)
	params.Set("type", "movie")
	params.Set("page", strconv.Itoa(page))

	var result SearchResult
	if err := c.get(ctx, "search", params, 0, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// Ping verifies connectivity and credentials with a known-stable lookup.
// A soft-empty answer still proves the provider is reachable.
func (c *Client) Ping(ctx context.Context) error {
	_, err := c.ByIMDBID(ctx, "tt0111161")
	if err != nil && !provider.IsNotFound(err) {
		return err
	}
	return nil
}

// BreakerState exposes the circuit breaker state for health checks.
func (c *Client) BreakerState() string { return c.rc.BreakerState() }

// QuotaUsage exposes the daily quota counters for health checks.
func (c *Client) QuotaUsage() (used, limit int64) { return c.rc.QuotaUsage() }

// CacheHitRate exposes this provider's cache hit percentage.
func (c *Client) CacheHitRate() float64 { return c.rc.CacheHitRate() }
