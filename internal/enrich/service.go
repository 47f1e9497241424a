// Movie Nexus - External Movie Metadata Integration
// Copyright 2026 Darlene-13
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/Darlene-13/movie-nexus

// Package enrich is the aggregation orchestrator. It combines the primary
// provider (TMDB, structural fields and primary rating) with the
// secondary provider (OMDB, supplementary ratings only) and writes
// canonical records into the catalog.
//
// Merge rule: the primary provider wins. Secondary data only fills fields
// the primary does not supply and never overwrites a primary field. A
// failing secondary lookup degrades the record (nil supplementary
// ratings), never the operation.
package enrich

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/goccy/go-json"

	"github.com/Darlene-13/movie-nexus/internal/database"
	"github.com/Darlene-13/movie-nexus/internal/logging"
	"github.com/Darlene-13/movie-nexus/internal/provider"
	"github.com/Darlene-13/movie-nexus/internal/provider/omdb"
	"github.com/Darlene-13/movie-nexus/internal/provider/tmdb"
)

// castPlaceholder is stored when the primary provider has no cast data,
// so downstream consumers always get a non-empty list.
const castPlaceholder = "Cast information unavailable"

// Primary is the structural metadata source (TMDB).
type Primary interface {
	Genres(ctx context.Context) ([]tmdb.Genre, error)
	PopularMovies(ctx context.Context, page int) (*tmdb.MoviePage, error)
	TopRatedMovies(ctx context.Context, page int) (*tmdb.MoviePage, error)
	MovieDetails(ctx context.Context, tmdbID int64) (*tmdb.MovieDetails, error)
	MovieCredits(ctx context.Context, tmdbID int64) (*tmdb.Credits, error)
	Ping(ctx context.Context) error
	BreakerState() string
	QuotaUsage() (used, limit int64)
	CacheHitRate() float64
}

// Secondary is the supplementary ratings source (OMDB).
type Secondary interface {
	ByIMDBID(ctx context.Context, imdbID string) (*omdb.MovieResult, error)
	ByTitle(ctx context.Context, title string, year int) (*omdb.MovieResult, error)
	Ping(ctx context.Context) error
	BreakerState() string
	QuotaUsage() (used, limit int64)
	CacheHitRate() float64
}

// Service orchestrates enrichment and persistence.
type Service struct {
	primary   Primary
	secondary Secondary
	store     *database.Store
	castLimit int
}

// New creates the orchestrator. castLimit caps the stored cast list.
func New(primary Primary, secondary Secondary, store *database.Store, castLimit int) *Service {
	if castLimit <= 0 {
		castLimit = 5
	}
	return &Service{
		primary:   primary,
		secondary: secondary,
		store:     store,
		castLimit: castLimit,
	}
}

// Enriched carries everything known about one movie before persistence.
// Secondary is nil when the lookup failed or found nothing.
type Enriched struct {
	Details   *tmdb.MovieDetails
	Credits   *tmdb.Credits
	Secondary *omdb.MovieResult
}

// FetchEnriched gathers a movie's data from both providers. The primary
// details call must succeed; credits and secondary failures are logged
// and swallowed.
func (s *Service) FetchEnriched(ctx context.Context, tmdbID int64) (*Enriched, error) {
	details, err := s.primary.MovieDetails(ctx, tmdbID)
	if err != nil {
		return nil, err
	}

	enriched := &Enriched{Details: details}

	credits, err := s.primary.MovieCredits(ctx, tmdbID)
	if err != nil {
		logging.Warn().Err(err).Int64("tmdb_id", tmdbID).Msg("Credits lookup failed, continuing without cast")
	} else {
		enriched.Credits = credits
	}

	enriched.Secondary = s.fetchSecondary(ctx, details)
	return enriched, nil
}

// fetchSecondary looks the movie up on the secondary provider, preferring
// the IMDb ID and falling back to title+year when the ID is absent or the
// ID lookup does not resolve. Every failure is swallowed.
func (s *Service) fetchSecondary(ctx context.Context, details *tmdb.MovieDetails) *omdb.MovieResult {
	if details.IMDBID != "" {
		result, err := s.secondary.ByIMDBID(ctx, details.IMDBID)
		if err == nil {
			return result
		}
		logging.Debug().Err(err).
			Int64("tmdb_id", details.ID).
			Str("imdb_id", details.IMDBID).
			Msg("Secondary IMDb ID lookup unresolved, falling back to title search")
	}

	result, err := s.secondary.ByTitle(ctx, details.Title, tmdb.ReleaseYear(details.ReleaseDate))
	if err != nil {
		if !provider.IsNotFound(err) {
			logging.Warn().Err(err).
				Int64("tmdb_id", details.ID).
				Str("title", details.Title).
				Msg("Secondary provider lookup failed, continuing without supplementary ratings")
		}
		return nil
	}
	return result
}

// buildRecord maps enriched provider data onto a catalog record plus the
// taxonomy IDs of its genres.
func (s *Service) buildRecord(enriched *Enriched) (*database.Movie, []int64, error) {
	details := enriched.Details
	if details == nil || details.ID == 0 {
		return nil, nil, fmt.Errorf("record has no primary details")
	}
	if details.Title == "" {
		return nil, nil, fmt.Errorf("movie %d has no title", details.ID)
	}

	movie := &database.Movie{
		TMDBID:           details.ID,
		Title:            details.Title,
		OriginalTitle:    details.OriginalTitle,
		Overview:         details.Overview,
		Tagline:          details.Tagline,
		Runtime:          details.Runtime,
		Director:         tmdb.Director(enriched.Credits),
		PosterURL:        tmdb.PosterURL(details.PosterPath),
		BackdropURL:      tmdb.BackdropURL(details.BackdropPath),
		Rating:           roundRating(details.VoteAverage),
		VoteCount:        details.VoteCount,
		Popularity:       details.Popularity,
		Budget:           details.Budget,
		Revenue:          details.Revenue,
		Status:           details.Status,
		OriginalLanguage: details.OriginalLanguage,
		Adult:            details.Adult,
		LastSyncedAt:     time.Now().UTC(),
	}

	if details.IMDBID != "" {
		id := details.IMDBID
		movie.IMDBID = &id
	}
	if release := tmdb.ParseReleaseDate(details.ReleaseDate); !release.IsZero() {
		movie.ReleaseDate = &release
		movie.ReleaseYear = release.Year()
	}

	cast := tmdb.MainCast(enriched.Credits, s.castLimit)
	if len(cast) == 0 {
		cast = []string{castPlaceholder}
	}
	castJSON, err := json.Marshal(cast)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to encode cast: %w", err)
	}
	movie.MainCast = string(castJSON)

	companiesJSON, err := json.Marshal(orEmpty(tmdb.CompanyNames(details)))
	if err != nil {
		return nil, nil, fmt.Errorf("failed to encode production companies: %w", err)
	}
	movie.ProductionCompanies = string(companiesJSON)

	// Secondary data fills supplementary scores only; the structural
	// fields above stay untouched even when OMDB disagrees.
	if enriched.Secondary != nil {
		ratings := omdb.ExtractRatings(enriched.Secondary)
		movie.IMDBRating = roundRatingPtr(ratings.IMDB)
		movie.RottenTomatoes = roundRatingPtr(ratings.RottenTomatoes)
		movie.MetacriticRating = roundRatingPtr(ratings.Metacritic)
	}

	return movie, tmdb.GenreIDs(details), nil
}

// roundRating rounds onto the catalog's one-decimal rating scale.
func roundRating(v float64) float64 {
	return math.Round(v*10) / 10
}

func roundRatingPtr(v *float64) *float64 {
	if v == nil {
		return nil
	}
	rounded := roundRating(*v)
	return &rounded
}

// orEmpty keeps JSON columns as [] instead of null.
func orEmpty(values []string) []string {
	if values == nil {
		return []string{}
	}
	return values
}
