// Movie Nexus - External Movie Metadata Integration
// Copyright 2026 Darlene-13
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/Darlene-13/movie-nexus

package models

import "time"

// SeedRequest is the optional body for POST /api/v1/sync/seed. Omitted page
// counts fall back to the configured defaults; both listings and the genre
// refresh run unless explicitly skipped.
type SeedRequest struct {
	PopularPages  int  `json:"popular_pages" validate:"omitempty,min=1,max=500"`
	TopRatedPages int  `json:"top_rated_pages" validate:"omitempty,min=1,max=500"`
	SkipPopular   bool `json:"skip_popular"`
	SkipTopRated  bool `json:"skip_top_rated"`
	SkipGenres    bool `json:"skip_genres"`
	ForceRefresh  bool `json:"force_refresh"`
}

// SeedResult summarizes one catalog seeding run. Created and Updated count
// persisted records; Errored counts records that failed enrichment or
// persistence and were skipped.
type SeedResult struct {
	Created      int           `json:"created"`
	Updated      int           `json:"updated"`
	Errored      int           `json:"errored"`
	GenresSynced int           `json:"genres_synced"`
	Duration     time.Duration `json:"-"`
	DurationMS   int64         `json:"duration_ms"`
}

// GenreSyncResult summarizes a genre taxonomy sync.
type GenreSyncResult struct {
	Synced int `json:"synced"`
}

// MovieSyncResult reports the outcome of syncing a single movie by TMDB ID.
type MovieSyncResult struct {
	TMDBID  int64  `json:"tmdb_id"`
	Title   string `json:"title"`
	Created bool   `json:"created"`
}
