// Movie Nexus - External Movie Metadata Integration
// Copyright 2026 Darlene-13
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/Darlene-13/movie-nexus

package models

import "time"

// Health status values reported by the /api/v1/health endpoint.
const (
	HealthHealthy   = "healthy"
	HealthDegraded  = "degraded"
	HealthUnhealthy = "unhealthy"
)

// HealthStatus is the aggregated health report for the service.
// Status is "healthy" when the database and every provider respond,
// "degraded" when at least one provider is down but the database is up,
// and "unhealthy" when the database is unreachable.
type HealthStatus struct {
	Status    string                    `json:"status"`
	Timestamp time.Time                 `json:"timestamp"`
	Database  ComponentHealth           `json:"database"`
	Providers map[string]ProviderHealth `json:"providers"`
}

// ComponentHealth reports reachability of a single internal dependency.
type ComponentHealth struct {
	Healthy bool   `json:"healthy"`
	Error   string `json:"error,omitempty"`
}

// ProviderHealth reports the state of one upstream metadata provider,
// including its circuit breaker state and cache effectiveness.
type ProviderHealth struct {
	Healthy      bool    `json:"healthy"`
	BreakerState string  `json:"breaker_state"`
	QuotaUsed    int64   `json:"quota_used"`
	QuotaLimit   int64   `json:"quota_limit,omitempty"`
	CacheHitRate float64 `json:"cache_hit_rate"`
	Error        string  `json:"error,omitempty"`
}
