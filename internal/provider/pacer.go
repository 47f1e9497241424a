// Movie Nexus - External Movie Metadata Integration
// Copyright 2026 Darlene-13
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/Darlene-13/movie-nexus

package provider

import (
	"context"
	"time"

	"golang.org/x/time/rate"
)

// Pacer enforces a minimum delay between consecutive requests to one
// provider. Every outgoing request for a provider goes through the same
// Pacer, so concurrent callers are serialized onto the provider's
// request schedule rather than racing past it.
//
// Thread Safety: the underlying rate.Limiter is internally locked; Pacer
// is safe for concurrent use.
type Pacer struct {
	limiter *rate.Limiter
}

// NewPacer creates a pacer that allows one request per minDelay. A zero
// or negative delay disables pacing.
func NewPacer(minDelay time.Duration) *Pacer {
	if minDelay <= 0 {
		return &Pacer{limiter: rate.NewLimiter(rate.Inf, 1)}
	}
	return &Pacer{limiter: rate.NewLimiter(rate.Every(minDelay), 1)}
}

// Wait blocks until the next request slot is available or the context is
// cancelled. The wait time of the first request is zero.
func (p *Pacer) Wait(ctx context.Context) error {
	return p.limiter.Wait(ctx)
}
