// Movie Nexus - External Movie Metadata Integration
// Copyright 2026 Darlene-13
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/Darlene-13/movie-nexus

/*
client.go - Resilient Provider HTTP Client

This file provides the shared HTTP layer used by every metadata provider
adapter. Each adapter owns one Client configured for its provider.

Client Features:
  - HTTP client with configurable per-provider timeout
  - Query parameter authentication injected per provider
  - Minimum request spacing via Pacer
  - Circuit breaker protection around every dispatch
  - Daily quota tracking with UTC rollover
  - Automatic HTTP 429 handling with Retry-After support
  - Exponential backoff retries for transient failures
  - Response caching keyed on provider+operation+path+params

Request Flow (Get):
 1. Cache lookup (cacheable operations only)
 2. Daily quota check - refusals never count against the breaker
 3. Circuit breaker gate
 4. Pacer wait, then dispatch with retry loop
 5. Classification of the outcome
 6. Cache fill on non-empty success

Related Files:
  - errors.go: Failure classification
  - pacer.go: Request spacing
  - breaker.go: Circuit breaker wrapper
  - quota.go: Daily quota tracking
*/

package provider

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"sync/atomic"
	"time"

	"github.com/Darlene-13/movie-nexus/internal/cache"
	"github.com/Darlene-13/movie-nexus/internal/logging"
	"github.com/Darlene-13/movie-nexus/internal/metrics"
)

type ctxKey int

// forceRefreshKey marks a context whose requests must bypass cache reads.
const forceRefreshKey ctxKey = 0

// WithForceRefresh returns a context under which Get skips cache reads and
// always consults the provider. Fresh responses are still cached, so a
// forced run repopulates the cache rather than draining it.
func WithForceRefresh(ctx context.Context) context.Context {
	return context.WithValue(ctx, forceRefreshKey, true)
}

func forceRefresh(ctx context.Context) bool {
	v, _ := ctx.Value(forceRefreshKey).(bool)
	return v
}

// maxErrorBodySize limits how much of an error response body is read for
// diagnostics. Prevents unbounded allocation on large error pages.
const maxErrorBodySize = 64 * 1024 // 64KB

// maxResponseBodySize caps successful response bodies. Provider responses
// are paginated JSON and stay far below this.
const maxResponseBodySize = 8 * 1024 * 1024 // 8MB

// Config describes one provider's resilience and transport settings.
type Config struct {
	Name             string
	BaseURL          string
	Timeout          time.Duration
	RateDelay        time.Duration
	DailyQuota       int64
	FailureThreshold uint32
	RecoveryTimeout  time.Duration
	MaxRetries       int
	RetryBaseDelay   time.Duration

	// Auth injects the provider's credentials into the request
	// parameters. Called after the cache key is computed so API keys
	// never become part of cache keys.
	Auth func(params url.Values)

	// CheckBody inspects a 2xx response body for provider-level errors
	// carried inside an HTTP 200 (some providers signal not-found this
	// way). Optional; a nil return means the body is a usable result.
	CheckBody func(op string, body []byte) error
}

// Client is the resilient HTTP client shared by all provider adapters.
//
// Thread Safety: safe for concurrent use. The pacer serializes dispatch
// timing; the cache and quota tracker are internally locked.
type Client struct {
	cfg     Config
	http    *http.Client
	pacer   *Pacer
	breaker *Breaker
	quota   *quotaTracker
	store   *cache.Cache

	cacheHits   atomic.Int64
	cacheMisses atomic.Int64
}

// NewClient creates a resilient client for one provider. The cache is
// shared across providers; keys are namespaced by provider name.
func NewClient(cfg Config, store *cache.Cache) *Client {
	return &Client{
		cfg:     cfg,
		http:    &http.Client{Timeout: cfg.Timeout},
		pacer:   NewPacer(cfg.RateDelay),
		breaker: NewBreaker(cfg.Name, cfg.FailureThreshold, cfg.RecoveryTimeout),
		quota:   newQuotaTracker(cfg.DailyQuota),
		store:   store,
	}
}

// Get performs a resilient GET against the provider and returns the raw
// response body. A ttl of 0 disables caching for the operation (free-text
// search). Not-found resources return a soft-empty error; use IsNotFound.
func (c *Client) Get(ctx context.Context, op, path string, params url.Values, ttl time.Duration) ([]byte, error) {
	if params == nil {
		params = url.Values{}
	}

	key := cache.GenerateKey(c.cfg.Name, op, path, params)
	if ttl > 0 && !forceRefresh(ctx) {
		if body, ok := c.store.Get(key); ok {
			c.cacheHits.Add(1)
			metrics.CacheHits.WithLabelValues(c.cfg.Name).Inc()
			return body, nil
		}
		c.cacheMisses.Add(1)
		metrics.CacheMisses.WithLabelValues(c.cfg.Name).Inc()
	}

	// Quota refusals happen before the breaker so they are not counted
	// as provider failures.
	if !c.quota.tryAcquire() {
		metrics.ProviderRequests.WithLabelValues(c.cfg.Name, "quota_exhausted").Inc()
		logging.Warn().Str("provider", c.cfg.Name).Str("op", op).Msg("Daily quota exhausted, refusing request")
		return nil, &Error{
			Kind:     KindRetryable,
			Provider: c.cfg.Name,
			Op:       op,
			Err:      fmt.Errorf("daily quota of %d requests exhausted", c.cfg.DailyQuota),
		}
	}
	used, _ := c.quota.usage()
	metrics.ProviderQuotaUsed.WithLabelValues(c.cfg.Name).Set(float64(used))

	start := time.Now()
	body, err := c.breaker.Execute(op, func() ([]byte, error) {
		return c.dispatch(ctx, op, path, params)
	})
	metrics.ProviderRequestDuration.WithLabelValues(c.cfg.Name, op).Observe(time.Since(start).Seconds())

	if err != nil {
		// A circuit rejection never reached the provider; give the
		// quota slot back.
		if IsCircuitRejection(err) {
			c.quota.release()
		}
		metrics.ProviderRequests.WithLabelValues(c.cfg.Name, outcomeLabel(err)).Inc()
		return nil, err
	}
	metrics.ProviderRequests.WithLabelValues(c.cfg.Name, "success").Inc()

	if ttl > 0 && len(body) > 0 {
		c.store.Set(key, body, ttl)
	}
	return body, nil
}

// dispatch waits for a pacer slot, then performs the request with
// exponential backoff retries for transient failures.
func (c *Client) dispatch(ctx context.Context, op, path string, params url.Values) ([]byte, error) {
	if err := c.pacer.Wait(ctx); err != nil {
		return nil, &Error{Kind: KindRetryable, Provider: c.cfg.Name, Op: op, Err: err}
	}

	authed := url.Values{}
	for k, vs := range params {
		authed[k] = vs
	}
	if c.cfg.Auth != nil {
		c.cfg.Auth(authed)
	}
	reqURL := fmt.Sprintf("%s%s?%s", c.cfg.BaseURL, path, authed.Encode())

	var lastErr error
	for attempt := 0; attempt <= c.cfg.MaxRetries; attempt++ {
		if ctx.Err() != nil {
			return nil, &Error{Kind: KindRetryable, Provider: c.cfg.Name, Op: op, Err: ctx.Err()}
		}

		body, retryAfter, err := c.doOnce(ctx, op, reqURL)
		if err == nil {
			return body, nil
		}
		if !IsRetryable(err) {
			return nil, err
		}
		lastErr = err

		if attempt == c.cfg.MaxRetries {
			break
		}

		metrics.ProviderRetries.WithLabelValues(c.cfg.Name).Inc()

		// Exponential backoff: base, 2x, 4x, ... Retry-After wins when
		// the provider supplied one.
		delay := c.cfg.RetryBaseDelay * time.Duration(1<<uint(attempt))
		if retryAfter > 0 {
			delay = retryAfter
		}

		logging.Debug().
			Str("provider", c.cfg.Name).
			Str("op", op).
			Int("attempt", attempt+1).
			Dur("delay", delay).
			Msg("Retrying provider request")

		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return nil, &Error{Kind: KindRetryable, Provider: c.cfg.Name, Op: op, Err: ctx.Err()}
		}
	}

	return nil, lastErr
}

// doOnce performs a single HTTP round trip and classifies the outcome.
// retryAfter is non-zero only when the provider sent a Retry-After header
// on an HTTP 429 response.
func (c *Client) doOnce(ctx context.Context, op, reqURL string) (body []byte, retryAfter time.Duration, err error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, http.NoBody)
	if err != nil {
		return nil, 0, &Error{Kind: KindFatal, Provider: c.cfg.Name, Op: op, Err: fmt.Errorf("failed to create request: %w", err)}
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, 0, &Error{Kind: KindRetryable, Provider: c.cfg.Name, Op: op, Err: fmt.Errorf("HTTP request failed: %w", err)}
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode >= 200 && resp.StatusCode < 300:
		data, readErr := io.ReadAll(io.LimitReader(resp.Body, maxResponseBodySize))
		if readErr != nil {
			return nil, 0, &Error{Kind: KindRetryable, Provider: c.cfg.Name, Op: op, Status: resp.StatusCode, Err: fmt.Errorf("failed to read response body: %w", readErr)}
		}
		if c.cfg.CheckBody != nil {
			if checkErr := c.cfg.CheckBody(op, data); checkErr != nil {
				return nil, 0, checkErr
			}
		}
		return data, 0, nil

	case resp.StatusCode == http.StatusNotFound:
		return nil, 0, &Error{Kind: KindSoftEmpty, Provider: c.cfg.Name, Op: op, Status: resp.StatusCode, Err: fmt.Errorf("resource not found")}

	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		msg := readBodyForError(resp.Body)
		return nil, 0, &Error{Kind: KindFatal, Provider: c.cfg.Name, Op: op, Status: resp.StatusCode, Err: fmt.Errorf("authentication rejected: %s", msg)}

	case resp.StatusCode == http.StatusTooManyRequests:
		return nil, parseRetryAfter(resp.Header.Get("Retry-After")), &Error{Kind: KindRetryable, Provider: c.cfg.Name, Op: op, Status: resp.StatusCode, Err: fmt.Errorf("rate limited by provider")}

	case resp.StatusCode >= 400 && resp.StatusCode < 500:
		msg := readBodyForError(resp.Body)
		return nil, 0, &Error{Kind: KindFatal, Provider: c.cfg.Name, Op: op, Status: resp.StatusCode, Err: fmt.Errorf("request rejected: %s", msg)}

	default:
		msg := readBodyForError(resp.Body)
		return nil, 0, &Error{Kind: KindRetryable, Provider: c.cfg.Name, Op: op, Status: resp.StatusCode, Err: fmt.Errorf("provider error: %s", msg)}
	}
}

// BreakerState returns the circuit breaker state for health reporting.
func (c *Client) BreakerState() string {
	return c.breaker.State()
}

// QuotaUsage returns the daily quota counter and limit (0 = unlimited).
func (c *Client) QuotaUsage() (used, limit int64) {
	return c.quota.usage()
}

// CacheHitRate returns this provider's cache hit percentage.
func (c *Client) CacheHitRate() float64 {
	hits := c.cacheHits.Load()
	misses := c.cacheMisses.Load()
	total := hits + misses
	if total == 0 {
		return 0
	}
	return float64(hits) / float64(total) * 100
}

// Name returns the provider name used in metrics and cache keys.
func (c *Client) Name() string {
	return c.cfg.Name
}

// readBodyForError reads a response body for error reporting (max 64KB).
// Returns a placeholder when reading fails.
func readBodyForError(r io.Reader) []byte {
	body, err := io.ReadAll(io.LimitReader(r, maxErrorBodySize))
	if err != nil {
		return []byte("(failed to read response body)")
	}
	if len(body) == maxErrorBodySize {
		return append(body, []byte("\n... (truncated)")...)
	}
	return body
}

// parseRetryAfter parses a Retry-After header given in seconds (RFC 6585).
// Returns 0 when absent or unparseable.
func parseRetryAfter(header string) time.Duration {
	if header == "" {
		return 0
	}
	seconds, err := strconv.Atoi(header)
	if err != nil || seconds < 0 {
		return 0
	}
	return time.Duration(seconds) * time.Second
}

// outcomeLabel maps a classified error to its metrics label.
func outcomeLabel(err error) string {
	switch {
	case IsNotFound(err):
		return "soft_empty"
	case IsFatal(err):
		return "fatal"
	case IsRetryable(err):
		return "retryable"
	default:
		return "error"
	}
}
