// Movie Nexus - External Movie Metadata Integration
// Copyright 2026 Darlene-13
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/Darlene-13/movie-nexus

package database

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Darlene-13/movie-nexus/internal/config"
)

func testStore(t *testing.T) *Store {
	t.Helper()

	store, err := Open(config.DatabaseConfig{
		Driver: "sqlite",
		Path:   filepath.Join(t.TempDir(), "test.db"),
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func testGenres() []Genre {
	return []Genre{
		{TMDBID: 28, Name: "Action", Slug: "action"},
		{TMDBID: 18, Name: "Drama", Slug: "drama"},
		{TMDBID: 878, Name: "Science Fiction", Slug: "science-fiction"},
	}
}

func testMovie(tmdbID int64) *Movie {
	imdbID := "tt0000000"
	release := time.Date(1999, 3, 31, 0, 0, 0, 0, time.UTC)
	return &Movie{
		TMDBID:      tmdbID,
		IMDBID:      &imdbID,
		Title:       "The Matrix",
		Overview:    "A hacker learns the truth.",
		ReleaseDate: &release,
		ReleaseYear: 1999,
		Runtime:     136,
		Director:    "Lana Wachowski",
		MainCast:    `["Keanu Reeves","Laurence Fishburne"]`,
		Rating:      8.2,
		VoteCount:   21000,
		Popularity:  85.5,
	}
}

func TestOpenRejectsUnknownDriver(t *testing.T) {
	_, err := Open(config.DatabaseConfig{Driver: "oracle"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported database driver")
}

func TestPing(t *testing.T) {
	store := testStore(t)
	assert.NoError(t, store.Ping(context.Background()))
}

func TestSlugify(t *testing.T) {
	tests := []struct {
		name string
		want string
	}{
		{"Action", "action"},
		{"Science Fiction", "science-fiction"},
		{"TV Movie", "tv-movie"},
		{"Action & Adventure", "action-adventure"},
		{"  Drama  ", "drama"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, Slugify(tt.name), "Slugify(%q)", tt.name)
	}
}

func TestUpsertGenresIdempotent(t *testing.T) {
	store := testStore(t)
	ctx := context.Background()

	n, err := store.UpsertGenres(ctx, testGenres())
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	// Second run with the same taxonomy must not duplicate.
	_, err = store.UpsertGenres(ctx, testGenres())
	require.NoError(t, err)

	genres, err := store.Genres(ctx)
	require.NoError(t, err)
	assert.Len(t, genres, 3)
}

func TestUpsertGenresRenames(t *testing.T) {
	store := testStore(t)
	ctx := context.Background()

	_, err := store.UpsertGenres(ctx, []Genre{{TMDBID: 878, Name: "Sci-Fi", Slug: "sci-fi"}})
	require.NoError(t, err)

	_, err = store.UpsertGenres(ctx, []Genre{{TMDBID: 878, Name: "Science Fiction", Slug: "science-fiction"}})
	require.NoError(t, err)

	genres, err := store.GenresByTMDBIDs(ctx, []int64{878})
	require.NoError(t, err)
	require.Len(t, genres, 1)
	assert.Equal(t, "Science Fiction", genres[0].Name)
	assert.Equal(t, "science-fiction", genres[0].Slug)
}

func TestGenresByTMDBIDsSkipsUnknown(t *testing.T) {
	store := testStore(t)
	ctx := context.Background()

	_, err := store.UpsertGenres(ctx, testGenres())
	require.NoError(t, err)

	genres, err := store.GenresByTMDBIDs(ctx, []int64{28, 999})
	require.NoError(t, err)
	assert.Len(t, genres, 1)
	assert.Equal(t, "Action", genres[0].Name)
}

func TestUpsertMovieCreateThenUpdate(t *testing.T) {
	store := testStore(t)
	ctx := context.Background()

	_, err := store.UpsertGenres(ctx, testGenres())
	require.NoError(t, err)
	genres, err := store.GenresByTMDBIDs(ctx, []int64{28, 878})
	require.NoError(t, err)

	created, err := store.UpsertMovie(ctx, testMovie(603), genres)
	require.NoError(t, err)
	assert.True(t, created)

	// Same TMDB ID again: update, not a second row.
	updated := testMovie(603)
	updated.Rating = 8.7
	created, err = store.UpsertMovie(ctx, updated, genres)
	require.NoError(t, err)
	assert.False(t, created)

	count, err := store.CountMovies(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)

	got, err := store.MovieByTMDBID(ctx, 603)
	require.NoError(t, err)
	assert.Equal(t, 8.7, got.Rating)
	assert.Len(t, got.Genres, 2)
}

func TestUpsertMovieReplacesGenres(t *testing.T) {
	store := testStore(t)
	ctx := context.Background()

	_, err := store.UpsertGenres(ctx, testGenres())
	require.NoError(t, err)

	action, err := store.GenresByTMDBIDs(ctx, []int64{28})
	require.NoError(t, err)
	drama, err := store.GenresByTMDBIDs(ctx, []int64{18})
	require.NoError(t, err)

	_, err = store.UpsertMovie(ctx, testMovie(603), action)
	require.NoError(t, err)

	_, err = store.UpsertMovie(ctx, testMovie(603), drama)
	require.NoError(t, err)

	got, err := store.MovieByTMDBID(ctx, 603)
	require.NoError(t, err)
	require.Len(t, got.Genres, 1)
	assert.Equal(t, "Drama", got.Genres[0].Name)
}

func TestMovieByTMDBIDNotFound(t *testing.T) {
	store := testStore(t)

	_, err := store.MovieByTMDBID(context.Background(), 12345)
	assert.ErrorIs(t, err, ErrMovieNotFound)
}

func TestMoviesFilterAndPagination(t *testing.T) {
	store := testStore(t)
	ctx := context.Background()

	_, err := store.UpsertGenres(ctx, testGenres())
	require.NoError(t, err)
	action, err := store.GenresByTMDBIDs(ctx, []int64{28})
	require.NoError(t, err)
	drama, err := store.GenresByTMDBIDs(ctx, []int64{18})
	require.NoError(t, err)

	seed := []struct {
		tmdbID     int64
		title      string
		year       int
		rating     float64
		popularity float64
		genres     []Genre
	}{
		{1, "Action High", 2020, 8.5, 90, action},
		{2, "Action Low", 2020, 5.1, 70, action},
		{3, "Drama Old", 1999, 7.8, 50, drama},
		{4, "Drama New", 2021, 9.0, 60, drama},
	}
	for _, m := range seed {
		movie := testMovie(m.tmdbID)
		movie.IMDBID = nil
		movie.Title = m.title
		movie.ReleaseYear = m.year
		movie.Rating = m.rating
		movie.Popularity = m.popularity
		_, err := store.UpsertMovie(ctx, movie, m.genres)
		require.NoError(t, err)
	}

	// Genre filter.
	movies, total, err := store.Movies(ctx, MovieFilter{GenreSlug: "action", PageSize: 10})
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	assert.Len(t, movies, 2)

	// Rating filter with rating sort.
	movies, total, err = store.Movies(ctx, MovieFilter{MinRating: 7.5, SortBy: "rating", PageSize: 10})
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)
	require.Len(t, movies, 3)
	assert.Equal(t, "Drama New", movies[0].Title)

	// Year filter.
	_, total, err = store.Movies(ctx, MovieFilter{Year: 2020, PageSize: 10})
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)

	// Pagination: default sort is popularity DESC.
	movies, total, err = store.Movies(ctx, MovieFilter{Page: 2, PageSize: 2})
	require.NoError(t, err)
	assert.Equal(t, int64(4), total)
	require.Len(t, movies, 2)
	assert.Equal(t, "Drama New", movies[0].Title)
}

func TestTotalPages(t *testing.T) {
	assert.Equal(t, 0, TotalPages(0, 20))
	assert.Equal(t, 1, TotalPages(20, 20))
	assert.Equal(t, 2, TotalPages(21, 20))
	assert.Equal(t, 0, TotalPages(5, 0))
}
