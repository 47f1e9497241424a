// Movie Nexus - External Movie Metadata Integration
// Copyright 2026 Darlene-13
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/Darlene-13/movie-nexus

package cache

import (
	"net/url"
	"testing"
	"time"
)

func TestGetMissingKey(t *testing.T) {
	c := New()

	if _, ok := c.Get("absent"); ok {
		t.Fatal("expected miss for absent key")
	}

	stats := c.GetStats()
	if stats.Misses != 1 {
		t.Errorf("misses = %d, want 1", stats.Misses)
	}
}

func TestSetAndGet(t *testing.T) {
	c := New()

	c.Set("k", []byte(`{"title":"Heat"}`), time.Minute)

	got, ok := c.Get("k")
	if !ok {
		t.Fatal("expected hit after Set")
	}
	if string(got) != `{"title":"Heat"}` {
		t.Errorf("got %q", got)
	}

	stats := c.GetStats()
	if stats.Hits != 1 {
		t.Errorf("hits = %d, want 1", stats.Hits)
	}
	if stats.TotalKeys != 1 {
		t.Errorf("total keys = %d, want 1", stats.TotalKeys)
	}
}

func TestExpiration(t *testing.T) {
	c := New()

	c.Set("k", []byte("v"), 10*time.Millisecond)
	time.Sleep(25 * time.Millisecond)

	if _, ok := c.Get("k"); ok {
		t.Fatal("expected expired entry to miss")
	}

	stats := c.GetStats()
	if stats.Evictions != 1 {
		t.Errorf("evictions = %d, want 1", stats.Evictions)
	}
}

func TestZeroTTLNotStored(t *testing.T) {
	c := New()

	c.Set("k", []byte("v"), 0)

	if _, ok := c.Get("k"); ok {
		t.Fatal("zero TTL entries must not be stored")
	}
}

func TestDelete(t *testing.T) {
	c := New()

	c.Set("k", []byte("v"), time.Minute)
	c.Delete("k")

	if _, ok := c.Get("k"); ok {
		t.Fatal("expected miss after Delete")
	}
}

func TestClear(t *testing.T) {
	c := New()

	c.Set("a", []byte("1"), time.Minute)
	c.Set("b", []byte("2"), time.Minute)
	c.Clear()

	if _, ok := c.Get("a"); ok {
		t.Fatal("expected miss after Clear")
	}

	stats := c.GetStats()
	if stats.TotalKeys != 0 {
		t.Errorf("total keys = %d, want 0", stats.TotalKeys)
	}
	if stats.Evictions != 2 {
		t.Errorf("evictions = %d, want 2", stats.Evictions)
	}
}

func TestHitRate(t *testing.T) {
	c := New()

	if rate := c.HitRate(); rate != 0 {
		t.Errorf("empty cache hit rate = %f, want 0", rate)
	}

	c.Set("k", []byte("v"), time.Minute)
	c.Get("k")
	c.Get("k")
	c.Get("missing")
	c.Get("missing")

	if rate := c.HitRate(); rate != 50 {
		t.Errorf("hit rate = %f, want 50", rate)
	}
}

func TestGenerateKeyDeterministic(t *testing.T) {
	a := url.Values{}
	a.Set("page", "1")
	a.Set("language", "en-US")

	b := url.Values{}
	b.Set("language", "en-US")
	b.Set("page", "1")

	k1 := GenerateKey("tmdb", "popular", "/movie/popular", a)
	k2 := GenerateKey("tmdb", "popular", "/movie/popular", b)
	if k1 != k2 {
		t.Errorf("parameter order changed key: %q vs %q", k1, k2)
	}
}

func TestGenerateKeyNamespaces(t *testing.T) {
	params := url.Values{}
	params.Set("page", "1")

	byProvider := GenerateKey("tmdb", "popular", "/movie/popular", params)
	otherProvider := GenerateKey("omdb", "popular", "/movie/popular", params)
	otherOp := GenerateKey("tmdb", "top_rated", "/movie/top_rated", params)

	if byProvider == otherProvider {
		t.Error("different providers must produce different keys")
	}
	if byProvider == otherOp {
		t.Error("different operations must produce different keys")
	}
}

func TestGenerateKeyDistinguishesParams(t *testing.T) {
	a := url.Values{}
	a.Set("page", "1")
	b := url.Values{}
	b.Set("page", "2")

	if GenerateKey("tmdb", "popular", "/movie/popular", a) == GenerateKey("tmdb", "popular", "/movie/popular", b) {
		t.Error("different params must produce different keys")
	}
}

func TestGenerateKeyDistinguishesPaths(t *testing.T) {
	params := url.Values{}

	if GenerateKey("tmdb", "details", "/movie/603", params) == GenerateKey("tmdb", "details", "/movie/550", params) {
		t.Error("different paths must produce different keys")
	}
}
