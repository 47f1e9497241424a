// Movie Nexus - External Movie Metadata Integration
// Copyright 2026 Darlene-13
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/Darlene-13/movie-nexus

package enrich

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Darlene-13/movie-nexus/internal/database"
	"github.com/Darlene-13/movie-nexus/internal/logging"
	"github.com/Darlene-13/movie-nexus/internal/metrics"
	"github.com/Darlene-13/movie-nexus/internal/models"
	"github.com/Darlene-13/movie-nexus/internal/provider"
	"github.com/Darlene-13/movie-nexus/internal/provider/tmdb"
)

// ErrSeedSetup marks a seeding run that failed before any movie was
// processed: genre sync failed or the primary provider was wholly
// unreachable. The API maps it to 503.
var ErrSeedSetup = errors.New("seed setup failed")

// SyncGenres fetches the full TMDB taxonomy and upserts it. Returns the
// number of genres synced. Movie syncs depend on the taxonomy rows being
// present, so callers run this first.
func (s *Service) SyncGenres(ctx context.Context) (int, error) {
	genres, err := s.primary.Genres(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to fetch genre taxonomy: %w", err)
	}

	records := make([]database.Genre, 0, len(genres))
	for _, g := range genres {
		records = append(records, database.Genre{
			TMDBID: g.ID,
			Name:   g.Name,
			Slug:   database.Slugify(g.Name),
		})
	}

	n, err := s.store.UpsertGenres(ctx, records)
	if err != nil {
		return 0, err
	}
	metrics.SyncGenres.Add(float64(n))
	logging.Info().Int("genres", n).Msg("Genre taxonomy synced")
	return n, nil
}

// BatchResult tallies one batch run.
type BatchResult struct {
	Created int
	Updated int
	Errored int
}

// SyncBatch enriches and persists each movie in its own transaction. A
// failing record is logged with its identifiers, tallied, and skipped;
// the batch continues. Cancellation is checked between records and stops
// the batch with the partial tally.
func (s *Service) SyncBatch(ctx context.Context, tmdbIDs []int64) (BatchResult, error) {
	var result BatchResult

	for _, id := range tmdbIDs {
		if err := ctx.Err(); err != nil {
			return result, err
		}

		created, title, err := s.syncOne(ctx, id)
		if err != nil {
			result.Errored++
			metrics.SyncMovies.WithLabelValues("errored").Inc()
			logging.Error().Err(err).
				Int64("tmdb_id", id).
				Str("title", title).
				Msg("Failed to sync movie, continuing batch")
			continue
		}
		if created {
			result.Created++
			metrics.SyncMovies.WithLabelValues("created").Inc()
		} else {
			result.Updated++
			metrics.SyncMovies.WithLabelValues("updated").Inc()
		}
	}
	return result, nil
}

// syncOne enriches and persists a single movie. Returns whether the
// record was created and the title when known (for error context).
func (s *Service) syncOne(ctx context.Context, tmdbID int64) (created bool, title string, err error) {
	enriched, err := s.FetchEnriched(ctx, tmdbID)
	if err != nil {
		return false, "", err
	}
	title = enriched.Details.Title

	movie, genreIDs, err := s.buildRecord(enriched)
	if err != nil {
		return false, title, err
	}

	genres, err := s.store.GenresByTMDBIDs(ctx, genreIDs)
	if err != nil {
		return false, title, err
	}

	created, err = s.store.UpsertMovie(ctx, movie, genres)
	return created, title, err
}

// SyncMovie enriches and persists one movie for the single-record API.
func (s *Service) SyncMovie(ctx context.Context, tmdbID int64) (*models.MovieSyncResult, error) {
	created, title, err := s.syncOne(ctx, tmdbID)
	if err != nil {
		return nil, err
	}
	return &models.MovieSyncResult{TMDBID: tmdbID, Title: title, Created: created}, nil
}

// SeedOptions selects which listings a seeding run pulls from and whether
// the genre taxonomy is refreshed before any movie is written.
type SeedOptions struct {
	FetchPopular    bool
	PopularPages    int
	FetchTopRated   bool
	TopRatedPages   int
	SyncGenresFirst bool

	// ForceRefresh bypasses provider cache reads for the whole run, so
	// every record reflects live provider data.
	ForceRefresh bool
}

// Seed performs a full catalog seeding run: genre taxonomy first (a
// failure there aborts with ErrSeedSetup), then the popular and top-rated
// listings, then per-movie enrichment and persistence.
func (s *Service) Seed(ctx context.Context, opts SeedOptions) (*models.SeedResult, error) {
	start := time.Now()

	if opts.ForceRefresh {
		ctx = provider.WithForceRefresh(ctx)
	}

	var genresSynced int
	if opts.SyncGenresFirst {
		var err error
		genresSynced, err = s.SyncGenres(ctx)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrSeedSetup, err)
		}
	}

	ids, err := s.collectListingIDs(ctx, opts)
	if err != nil {
		return nil, err
	}

	logging.Info().
		Int("movies", len(ids)).
		Int("popular_pages", opts.PopularPages).
		Int("top_rated_pages", opts.TopRatedPages).
		Msg("Seeding catalog")

	batch, err := s.SyncBatch(ctx, ids)
	if err != nil {
		return nil, err
	}

	duration := time.Since(start)
	metrics.SeedDuration.Observe(duration.Seconds())

	result := &models.SeedResult{
		Created:      batch.Created,
		Updated:      batch.Updated,
		Errored:      batch.Errored,
		GenresSynced: genresSynced,
		Duration:     duration,
		DurationMS:   duration.Milliseconds(),
	}
	logging.Info().
		Int("created", result.Created).
		Int("updated", result.Updated).
		Int("errored", result.Errored).
		Dur("duration", duration).
		Msg("Seed run complete")
	return result, nil
}

// collectListingIDs pulls the configured listing pages and returns the
// deduplicated TMDB IDs in first-seen order. A listing that fails before
// yielding anything means the primary is unreachable: that is a setup
// failure, not a per-record one.
func (s *Service) collectListingIDs(ctx context.Context, opts SeedOptions) ([]int64, error) {
	var (
		ids  []int64
		seen = make(map[int64]struct{})
	)
	add := func(summaries []tmdb.MovieSummary) {
		for _, m := range summaries {
			if _, ok := seen[m.ID]; ok {
				continue
			}
			seen[m.ID] = struct{}{}
			ids = append(ids, m.ID)
		}
	}

	if opts.FetchPopular && opts.PopularPages > 0 {
		popular, err := tmdb.MoviesByPages(ctx, opts.PopularPages, s.primary.PopularMovies)
		if err != nil && len(popular) == 0 && len(ids) == 0 && !provider.IsNotFound(err) {
			return nil, fmt.Errorf("%w: popular listing unreachable: %v", ErrSeedSetup, err)
		}
		add(popular)
	}
	if opts.FetchTopRated && opts.TopRatedPages > 0 {
		topRated, err := tmdb.MoviesByPages(ctx, opts.TopRatedPages, s.primary.TopRatedMovies)
		if err != nil && len(topRated) == 0 && len(ids) == 0 && !provider.IsNotFound(err) {
			return nil, fmt.Errorf("%w: top rated listing unreachable: %v", ErrSeedSetup, err)
		}
		add(topRated)
	}
	return ids, nil
}
