// Movie Nexus - External Movie Metadata Integration
// Copyright 2026 Darlene-13
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/Darlene-13/movie-nexus

// Package cache provides the shared in-memory TTL store used for
// cache-aside reads against the metadata providers. One store is shared
// by all provider adapters; keys are namespaced per provider+operation
// so entries can never collide across providers.
package cache

import (
	"fmt"
	"net/url"
	"sync"
	"time"

	"github.com/cespare/xxhash/v2"
)

// Entry represents a cached item with expiration.
type Entry struct {
	Data      []byte
	ExpiresAt time.Time
}

// Stats tracks cache performance counters.
type Stats struct {
	Hits      int64
	Misses    int64
	Evictions int64
	TotalKeys int64
}

// Cache is a thread-safe in-memory store with per-entry TTL. Entries are
// expired lazily on read and swept by a background cleanup loop.
type Cache struct {
	mu      sync.RWMutex
	entries map[string]Entry

	statsMu sync.Mutex
	stats   Stats
}

// cleanupInterval is how often the background sweep removes expired entries.
const cleanupInterval = 5 * time.Minute

// New creates a cache and starts its background cleanup goroutine, which
// runs for the cache's lifetime (one cache per process).
func New() *Cache {
	c := &Cache{
		entries: make(map[string]Entry),
	}
	go c.cleanupLoop()
	return c
}

// Get retrieves a value by key. Expired entries are removed and counted
// as misses.
func (c *Cache) Get(key string) ([]byte, bool) {
	c.mu.RLock()
	entry, exists := c.entries[key]
	c.mu.RUnlock()

	if !exists {
		c.recordMiss()
		return nil, false
	}

	if time.Now().After(entry.ExpiresAt) {
		c.mu.Lock()
		delete(c.entries, key)
		c.mu.Unlock()
		c.recordMiss()
		c.recordEviction()
		return nil, false
	}

	c.recordHit()
	return entry.Data, true
}

// Set stores a value with the given TTL. A non-positive TTL is a no-op:
// operations such as free-text search are never cached.
func (c *Cache) Set(key string, value []byte, ttl time.Duration) {
	if ttl <= 0 {
		return
	}

	c.mu.Lock()
	c.entries[key] = Entry{
		Data:      value,
		ExpiresAt: time.Now().Add(ttl),
	}
	total := int64(len(c.entries))
	c.mu.Unlock()

	c.statsMu.Lock()
	c.stats.TotalKeys = total
	c.statsMu.Unlock()
}

// Delete removes a specific entry. Safe to call with an absent key.
func (c *Cache) Delete(key string) {
	c.mu.Lock()
	delete(c.entries, key)
	c.mu.Unlock()
	c.recordEviction()
}

// Clear removes all entries in one atomic swap.
func (c *Cache) Clear() {
	c.mu.Lock()
	evicted := int64(len(c.entries))
	c.entries = make(map[string]Entry)
	c.mu.Unlock()

	c.statsMu.Lock()
	c.stats.Evictions += evicted
	c.stats.TotalKeys = 0
	c.statsMu.Unlock()
}

// GetStats returns a snapshot of the cache counters.
func (c *Cache) GetStats() Stats {
	c.statsMu.Lock()
	defer c.statsMu.Unlock()
	return c.stats
}

// HitRate returns the hit percentage across all lookups.
func (c *Cache) HitRate() float64 {
	c.statsMu.Lock()
	defer c.statsMu.Unlock()

	total := c.stats.Hits + c.stats.Misses
	if total == 0 {
		return 0
	}
	return float64(c.stats.Hits) / float64(total) * 100
}

func (c *Cache) recordHit() {
	c.statsMu.Lock()
	c.stats.Hits++
	c.statsMu.Unlock()
}

func (c *Cache) recordMiss() {
	c.statsMu.Lock()
	c.stats.Misses++
	c.statsMu.Unlock()
}

func (c *Cache) recordEviction() {
	c.statsMu.Lock()
	c.stats.Evictions++
	c.statsMu.Unlock()
}

// cleanupLoop periodically removes expired entries.
func (c *Cache) cleanupLoop() {
	ticker := time.NewTicker(cleanupInterval)
	defer ticker.Stop()

	for range ticker.C {
		now := time.Now()
		var evicted int64

		c.mu.Lock()
		for key, entry := range c.entries {
			if now.After(entry.ExpiresAt) {
				delete(c.entries, key)
				evicted++
			}
		}
		total := int64(len(c.entries))
		c.mu.Unlock()

		c.statsMu.Lock()
		c.stats.Evictions += evicted
		c.stats.TotalKeys = total
		c.statsMu.Unlock()
	}
}

// GenerateKey builds a deterministic cache key from provider, operation,
// request path and parameters. The path must be part of the hash: many
// operations carry their identifier in the path with empty params (movie
// details, credits), and those must never share an entry.
// url.Values.Encode sorts parameters by key, so two calls with the same
// parameters in any order produce the same key. The provider+operation
// prefix keeps the hash namespaced and debuggable.
func GenerateKey(provider, operation, path string, params url.Values) string {
	sum := xxhash.Sum64String(path + "?" + params.Encode())
	return fmt.Sprintf("%s:%s:%016x", provider, operation, sum)
}
