// Movie Nexus - External Movie Metadata Integration
// Copyright 2026 Darlene-13
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/Darlene-13/movie-nexus

package enrich

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/Darlene-13/movie-nexus/internal/config"
	"github.com/Darlene-13/movie-nexus/internal/database"
	"github.com/Darlene-13/movie-nexus/internal/provider"
	"github.com/Darlene-13/movie-nexus/internal/provider/omdb"
	"github.com/Darlene-13/movie-nexus/internal/provider/tmdb"
)

func notFoundErr(op string) error {
	return &provider.Error{Kind: provider.KindSoftEmpty, Provider: "fake", Op: op, Err: errors.New("not found")}
}

func retryableErr(op string) error {
	return &provider.Error{Kind: provider.KindRetryable, Provider: "fake", Op: op, Err: errors.New("timeout")}
}

// fakePrimary is a scriptable in-memory TMDB stand-in.
type fakePrimary struct {
	genres     []tmdb.Genre
	genresErr  error
	details    map[int64]*tmdb.MovieDetails
	detailsErr map[int64]error
	credits    map[int64]*tmdb.Credits
	creditsErr error
	popular    [][]tmdb.MovieSummary
	popularErr error
	topRated   [][]tmdb.MovieSummary
	pingErr    error
}

func (f *fakePrimary) Genres(ctx context.Context) ([]tmdb.Genre, error) {
	return f.genres, f.genresErr
}

func (f *fakePrimary) PopularMovies(ctx context.Context, page int) (*tmdb.MoviePage, error) {
	if f.popularErr != nil {
		return nil, f.popularErr
	}
	return pageOf(f.popular, page), nil
}

func (f *fakePrimary) TopRatedMovies(ctx context.Context, page int) (*tmdb.MoviePage, error) {
	return pageOf(f.topRated, page), nil
}

func pageOf(pages [][]tmdb.MovieSummary, page int) *tmdb.MoviePage {
	if page < 1 || page > len(pages) {
		return &tmdb.MoviePage{Page: page}
	}
	return &tmdb.MoviePage{Page: page, Results: pages[page-1], TotalPages: len(pages)}
}

func (f *fakePrimary) MovieDetails(ctx context.Context, tmdbID int64) (*tmdb.MovieDetails, error) {
	if err, ok := f.detailsErr[tmdbID]; ok {
		return nil, err
	}
	if d, ok := f.details[tmdbID]; ok {
		return d, nil
	}
	return nil, notFoundErr("details")
}

func (f *fakePrimary) MovieCredits(ctx context.Context, tmdbID int64) (*tmdb.Credits, error) {
	if f.creditsErr != nil {
		return nil, f.creditsErr
	}
	if c, ok := f.credits[tmdbID]; ok {
		return c, nil
	}
	return &tmdb.Credits{ID: tmdbID}, nil
}

func (f *fakePrimary) Ping(ctx context.Context) error  { return f.pingErr }
func (f *fakePrimary) BreakerState() string            { return "closed" }
func (f *fakePrimary) QuotaUsage() (used, limit int64) { return 0, 0 }
func (f *fakePrimary) CacheHitRate() float64           { return 0 }

// fakeSecondary is a scriptable in-memory OMDB stand-in.
type fakeSecondary struct {
	byIMDBID map[string]*omdb.MovieResult
	byTitle  map[string]*omdb.MovieResult
	err      error
	pingErr  error
	calls    int
}

func (f *fakeSecondary) ByIMDBID(ctx context.Context, imdbID string) (*omdb.MovieResult, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	if r, ok := f.byIMDBID[imdbID]; ok {
		return r, nil
	}
	return nil, notFoundErr("by_imdb_id")
}

func (f *fakeSecondary) ByTitle(ctx context.Context, title string, year int) (*omdb.MovieResult, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	if r, ok := f.byTitle[title]; ok {
		return r, nil
	}
	return nil, notFoundErr("by_title")
}

func (f *fakeSecondary) Ping(ctx context.Context) error  { return f.pingErr }
func (f *fakeSecondary) BreakerState() string            { return "closed" }
func (f *fakeSecondary) QuotaUsage() (used, limit int64) { return 0, 1000 }
func (f *fakeSecondary) CacheHitRate() float64           { return 0 }

func testStore(t *testing.T) *database.Store {
	t.Helper()

	store, err := database.Open(config.DatabaseConfig{
		Driver: "sqlite",
		Path:   filepath.Join(t.TempDir(), "test.db"),
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func matrixDetails() *tmdb.MovieDetails {
	return &tmdb.MovieDetails{
		ID:          603,
		IMDBID:      "tt0133093",
		Title:       "The Matrix",
		Overview:    "A hacker learns the truth.",
		ReleaseDate: "1999-03-31",
		Runtime:     136,
		PosterPath:  "/matrix.jpg",
		Genres:      []tmdb.Genre{{ID: 28, Name: "Action"}, {ID: 878, Name: "Science Fiction"}},
		VoteAverage: 8.2178,
		VoteCount:   21000,
		Popularity:  85.5,
	}
}

func matrixCredits() *tmdb.Credits {
	return &tmdb.Credits{
		ID: 603,
		Cast: []tmdb.CastMember{
			{Name: "Keanu Reeves", Order: 0},
			{Name: "Laurence Fishburne", Order: 1},
			{Name: "Carrie-Anne Moss", Order: 2},
		},
		Crew: []tmdb.CrewMember{
			{Name: "Lana Wachowski", Job: "Director"},
		},
	}
}

func matrixOMDB() *omdb.MovieResult {
	return &omdb.MovieResult{
		Title:    "The Matrix",
		Year:     "1999",
		Director: "The Wachowskis", // differs from TMDB on purpose
		IMDBID:   "tt0133093",
		Ratings: []omdb.Rating{
			{Source: "Internet Movie Database", Value: "8.7/10"},
			{Source: "Rotten Tomatoes", Value: "83%"},
			{Source: "Metacritic", Value: "73/100"},
		},
		Response: "True",
	}
}
