// Movie Nexus - External Movie Metadata Integration
// Copyright 2026 Darlene-13
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/Darlene-13/movie-nexus

package provider

import (
	"sync"
	"time"
)

// quotaTracker counts requests against a daily provider quota. The counter
// resets when the UTC day rolls over. A limit of 0 disables tracking.
//
// Quota is consumed only by requests that actually reach the provider:
// cache hits and breaker rejections never touch the counter.
type quotaTracker struct {
	mu    sync.Mutex
	limit int64
	used  int64
	day   time.Time
}

func newQuotaTracker(limit int64) *quotaTracker {
	return &quotaTracker{
		limit: limit,
		day:   utcDay(time.Now()),
	}
}

// tryAcquire consumes one request slot. Returns false when the daily
// quota is exhausted.
func (q *quotaTracker) tryAcquire() bool {
	q.mu.Lock()
	defer q.mu.Unlock()

	q.rollover()

	if q.limit > 0 && q.used >= q.limit {
		return false
	}
	q.used++
	return true
}

// release returns one slot, for requests acquired but never dispatched
// (circuit rejections). A slot acquired yesterday is not returned.
func (q *quotaTracker) release() {
	q.mu.Lock()
	defer q.mu.Unlock()

	q.rollover()

	if q.used > 0 {
		q.used--
	}
}

// usage returns the current counter and limit.
func (q *quotaTracker) usage() (used, limit int64) {
	q.mu.Lock()
	defer q.mu.Unlock()

	q.rollover()
	return q.used, q.limit
}

// rollover resets the counter on UTC day change. Caller holds q.mu.
func (q *quotaTracker) rollover() {
	today := utcDay(time.Now())
	if !today.Equal(q.day) {
		q.day = today
		q.used = 0
	}
}

func utcDay(t time.Time) time.Time {
	return t.UTC().Truncate(24 * time.Hour)
}
