// Movie Nexus - External Movie Metadata Integration
// Copyright 2026 Darlene-13
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/Darlene-13/movie-nexus

// Package metrics exposes Prometheus collectors for provider traffic,
// circuit breaker state, cache efficiency and catalog sync outcomes.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Provider request metrics
	ProviderRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "provider_requests_total",
			Help: "Total provider API requests by outcome",
		},
		[]string{"provider", "outcome"}, // "success", "failure", "rejected", "cached", "empty"
	)

	ProviderRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "provider_request_duration_seconds",
			Help:    "Duration of provider API requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"provider", "operation"},
	)

	ProviderRetries = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "provider_retries_total",
			Help: "Total retry attempts against providers",
		},
		[]string{"provider"},
	)

	ProviderQuotaUsed = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "provider_quota_used",
			Help: "Requests consumed from the provider's daily quota",
		},
		[]string{"provider"},
	)

	// Circuit breaker metrics
	CircuitBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "circuit_breaker_state",
			Help: "Circuit breaker state (0=closed, 1=half-open, 2=open)",
		},
		[]string{"provider"},
	)

	CircuitBreakerTransitions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "circuit_breaker_transitions_total",
			Help: "Total circuit breaker state transitions",
		},
		[]string{"provider", "from", "to"},
	)

	// Cache metrics
	CacheHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "provider_cache_hits_total",
			Help: "Total provider cache hits",
		},
		[]string{"provider"},
	)

	CacheMisses = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "provider_cache_misses_total",
			Help: "Total provider cache misses",
		},
		[]string{"provider"},
	)

	// Sync metrics
	SyncMovies = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "sync_movies_total",
			Help: "Movies processed by batch sync, by result",
		},
		[]string{"result"}, // "created", "updated", "errored"
	)

	SyncGenres = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "sync_genres_total",
			Help: "Genres upserted by taxonomy sync",
		},
	)

	SeedDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "seed_duration_seconds",
			Help:    "Duration of full seed operations in seconds",
			Buckets: []float64{1, 5, 15, 30, 60, 120, 300, 600, 1800},
		},
	)

	// API metrics
	APIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "api_requests_total",
			Help: "Total API requests by endpoint and status",
		},
		[]string{"endpoint", "status"},
	)
)
