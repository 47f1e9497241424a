// Movie Nexus - External Movie Metadata Integration
// Copyright 2026 Darlene-13
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/Darlene-13/movie-nexus

package enrich

import (
	"context"
	"time"

	"github.com/Darlene-13/movie-nexus/internal/models"
	"github.com/Darlene-13/movie-nexus/internal/provider/omdb"
	"github.com/Darlene-13/movie-nexus/internal/provider/tmdb"
)

// healthCheckTimeout bounds each dependency probe so a hung provider
// cannot stall the health endpoint.
const healthCheckTimeout = 10 * time.Second

// Health reports aggregate service health. It never returns an error:
// failures are embedded in the report.
//
//	healthy   - database and both providers respond
//	degraded  - database up, at least one provider down
//	unhealthy - database unreachable
func (s *Service) Health(ctx context.Context) models.HealthStatus {
	ctx, cancel := context.WithTimeout(ctx, healthCheckTimeout)
	defer cancel()

	status := models.HealthStatus{
		Status:    models.HealthHealthy,
		Timestamp: time.Now().UTC(),
		Providers: make(map[string]models.ProviderHealth),
	}

	if err := s.store.Ping(ctx); err != nil {
		status.Database = models.ComponentHealth{Healthy: false, Error: err.Error()}
		status.Status = models.HealthUnhealthy
	} else {
		status.Database = models.ComponentHealth{Healthy: true}
	}

	primary := probeProvider(ctx, s.primary.Ping, s.primary.BreakerState, s.primary.QuotaUsage, s.primary.CacheHitRate)
	secondary := probeProvider(ctx, s.secondary.Ping, s.secondary.BreakerState, s.secondary.QuotaUsage, s.secondary.CacheHitRate)
	status.Providers[tmdb.ProviderName] = primary
	status.Providers[omdb.ProviderName] = secondary

	if status.Status == models.HealthHealthy && (!primary.Healthy || !secondary.Healthy) {
		status.Status = models.HealthDegraded
	}
	return status
}

func probeProvider(
	ctx context.Context,
	ping func(context.Context) error,
	breakerState func() string,
	quotaUsage func() (int64, int64),
	cacheHitRate func() float64,
) models.ProviderHealth {
	used, limit := quotaUsage()
	health := models.ProviderHealth{
		Healthy:      true,
		BreakerState: breakerState(),
		QuotaUsed:    used,
		QuotaLimit:   limit,
		CacheHitRate: cacheHitRate(),
	}
	if err := ping(ctx); err != nil {
		health.Healthy = false
		health.Error = err.Error()
	}
	return health
}
