// Movie Nexus - External Movie Metadata Integration
// Copyright 2026 Darlene-13
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/Darlene-13/movie-nexus

package database

import (
	"context"
	"errors"
	"fmt"
	"math"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ErrMovieNotFound is returned by single-record lookups.
var ErrMovieNotFound = errors.New("movie not found")

// UpsertGenres inserts or updates the genre taxonomy keyed on TMDB ID.
// Re-running with an unchanged taxonomy is a no-op; renamed genres are
// updated in place. Returns the number of genres processed.
func (s *Store) UpsertGenres(ctx context.Context, genres []Genre) (int, error) {
	if len(genres) == 0 {
		return 0, nil
	}

	err := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "tmdb_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"name", "slug", "updated_at"}),
	}).Create(&genres).Error
	if err != nil {
		return 0, fmt.Errorf("failed to upsert genres: %w", err)
	}
	return len(genres), nil
}

// GenresByTMDBIDs loads the genre records for a set of taxonomy IDs.
// Unknown IDs are silently skipped; the result may be shorter than ids.
func (s *Store) GenresByTMDBIDs(ctx context.Context, ids []int64) ([]Genre, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	var genres []Genre
	if err := s.db.WithContext(ctx).Where("tmdb_id IN ?", ids).Find(&genres).Error; err != nil {
		return nil, fmt.Errorf("failed to load genres: %w", err)
	}
	return genres, nil
}

// Genres returns the full taxonomy ordered by name.
func (s *Store) Genres(ctx context.Context) ([]Genre, error) {
	var genres []Genre
	if err := s.db.WithContext(ctx).Order("name").Find(&genres).Error; err != nil {
		return nil, fmt.Errorf("failed to list genres: %w", err)
	}
	return genres, nil
}

// UpsertMovie inserts or updates one movie keyed on TMDB ID, replacing
// its genre associations. The whole operation runs in one transaction so
// a movie is never persisted with half its genres. Returns true when the
// record was created rather than updated.
func (s *Store) UpsertMovie(ctx context.Context, movie *Movie, genres []Genre) (created bool, err error) {
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing Movie
		lookupErr := tx.Where("tmdb_id = ?", movie.TMDBID).First(&existing).Error

		switch {
		case errors.Is(lookupErr, gorm.ErrRecordNotFound):
			created = true
			if err := tx.Omit("Genres").Create(movie).Error; err != nil {
				return fmt.Errorf("failed to create movie: %w", err)
			}
		case lookupErr != nil:
			return fmt.Errorf("failed to look up movie: %w", lookupErr)
		default:
			movie.ID = existing.ID
			movie.CreatedAt = existing.CreatedAt
			if err := tx.Omit("Genres").Save(movie).Error; err != nil {
				return fmt.Errorf("failed to update movie: %w", err)
			}
		}

		if err := tx.Model(movie).Association("Genres").Replace(genres); err != nil {
			return fmt.Errorf("failed to replace genre associations: %w", err)
		}
		return nil
	})
	return created, err
}

// MovieByTMDBID loads one movie with its genres.
func (s *Store) MovieByTMDBID(ctx context.Context, tmdbID int64) (*Movie, error) {
	var movie Movie
	err := s.db.WithContext(ctx).Preload("Genres").Where("tmdb_id = ?", tmdbID).First(&movie).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrMovieNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load movie: %w", err)
	}
	return &movie, nil
}

// MovieFilter narrows and paginates catalog listings. Page is 1-based.
type MovieFilter struct {
	GenreSlug string
	Year      int
	MinRating float64
	SortBy    string // "popularity", "rating", "release_date"; default popularity
	Page      int
	PageSize  int
}

// filtered builds a fresh query with the filter's WHERE clauses applied.
// A new builder per use avoids GORM's statement-reuse pitfalls between
// Count and Find.
func (s *Store) filtered(ctx context.Context, filter MovieFilter) *gorm.DB {
	query := s.db.WithContext(ctx).Model(&Movie{})

	if filter.GenreSlug != "" {
		query = query.
			Joins("JOIN movie_genres ON movie_genres.movie_id = movies.id").
			Joins("JOIN genres ON genres.id = movie_genres.genre_id").
			Where("genres.slug = ?", filter.GenreSlug)
	}
	if filter.Year > 0 {
		query = query.Where("release_year = ?", filter.Year)
	}
	if filter.MinRating > 0 {
		query = query.Where("rating >= ?", filter.MinRating)
	}
	return query
}

// Movies returns one page of the catalog plus the total match count.
func (s *Store) Movies(ctx context.Context, filter MovieFilter) ([]Movie, int64, error) {
	var total int64
	if err := s.filtered(ctx, filter).Distinct("movies.id").Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count movies: %w", err)
	}

	query := s.filtered(ctx, filter)
	switch filter.SortBy {
	case "rating":
		query = query.Order("rating DESC")
	case "release_date":
		query = query.Order("release_date DESC")
	default:
		query = query.Order("popularity DESC")
	}

	page := filter.Page
	if page < 1 {
		page = 1
	}
	pageSize := filter.PageSize
	if pageSize < 1 {
		pageSize = 20
	}

	var movies []Movie
	err := query.
		Preload("Genres").
		Offset((page - 1) * pageSize).
		Limit(pageSize).
		Find(&movies).Error
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list movies: %w", err)
	}
	return movies, total, nil
}

// CountMovies returns the catalog size.
func (s *Store) CountMovies(ctx context.Context) (int64, error) {
	var count int64
	if err := s.db.WithContext(ctx).Model(&Movie{}).Count(&count).Error; err != nil {
		return 0, fmt.Errorf("failed to count movies: %w", err)
	}
	return count, nil
}

// TotalPages converts a match count into a page count.
func TotalPages(total int64, pageSize int) int {
	if pageSize < 1 {
		return 0
	}
	return int(math.Ceil(float64(total) / float64(pageSize)))
}
