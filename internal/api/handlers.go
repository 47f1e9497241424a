// Movie Nexus - External Movie Metadata Integration
// Copyright 2026 Darlene-13
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/Darlene-13/movie-nexus

// Package api exposes the sync, catalog, and health endpoints over HTTP.
package api

import (
	"context"
	"errors"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/goccy/go-json"

	"github.com/Darlene-13/movie-nexus/internal/config"
	"github.com/Darlene-13/movie-nexus/internal/database"
	"github.com/Darlene-13/movie-nexus/internal/enrich"
	"github.com/Darlene-13/movie-nexus/internal/logging"
	"github.com/Darlene-13/movie-nexus/internal/models"
)

// Orchestrator is the slice of the enrichment service the handlers need.
type Orchestrator interface {
	Seed(ctx context.Context, opts enrich.SeedOptions) (*models.SeedResult, error)
	SyncGenres(ctx context.Context) (int, error)
	SyncMovie(ctx context.Context, tmdbID int64) (*models.MovieSyncResult, error)
	Health(ctx context.Context) models.HealthStatus
}

// Handler holds dependencies for all HTTP handlers.
type Handler struct {
	orch     Orchestrator
	store    *database.Store
	cfg      *config.Config
	validate *validator.Validate
}

// NewHandler creates a handler backed by the enrichment service and catalog store.
func NewHandler(orch Orchestrator, store *database.Store, cfg *config.Config) *Handler {
	return &Handler{
		orch:     orch,
		store:    store,
		cfg:      cfg,
		validate: validator.New(),
	}
}

// Seed runs a full catalog seed: genre taxonomy first, then popular and
// top-rated listings merged and synced record by record.
//
// Method: POST
// Path: /api/v1/sync/seed
//
// The request body is optional; omitted page counts fall back to the
// configured defaults.
//
// Response:
//   - 200: Seed completed (per-record failures are tallied, not fatal)
//   - 400: Invalid request body
//   - 503: Genre taxonomy or all listings unreachable
func (h *Handler) Seed(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	var req models.SeedRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		respondError(w, http.StatusBadRequest, models.ErrCodeValidation, "Invalid request body", err)
		return
	}
	if err := h.validate.Struct(&req); err != nil {
		respondError(w, http.StatusBadRequest, models.ErrCodeValidation, "Page counts must be between 1 and 500", err)
		return
	}

	opts := enrich.SeedOptions{
		FetchPopular:    !req.SkipPopular,
		PopularPages:    req.PopularPages,
		FetchTopRated:   !req.SkipTopRated,
		TopRatedPages:   req.TopRatedPages,
		SyncGenresFirst: !req.SkipGenres,
		ForceRefresh:    req.ForceRefresh,
	}
	if opts.PopularPages == 0 {
		opts.PopularPages = h.cfg.Sync.PopularPages
	}
	if opts.TopRatedPages == 0 {
		opts.TopRatedPages = h.cfg.Sync.TopRatedPages
	}

	result, err := h.orch.Seed(r.Context(), opts)
	if err != nil {
		respondFailure(w, err)
		return
	}

	logging.Info().
		Int("created", result.Created).
		Int("updated", result.Updated).
		Int("errored", result.Errored).
		Msg("Seed completed")

	respondSuccess(w, http.StatusOK, result, start)
}

// SyncGenres refreshes the genre taxonomy from the primary provider.
//
// Method: POST
// Path: /api/v1/sync/genres
func (h *Handler) SyncGenres(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	synced, err := h.orch.SyncGenres(r.Context())
	if err != nil {
		respondFailure(w, err)
		return
	}

	respondSuccess(w, http.StatusOK, &models.GenreSyncResult{Synced: synced}, start)
}

// SyncMovie fetches, merges, and upserts a single movie by TMDB ID.
//
// Method: POST
// Path: /api/v1/sync/movie/{tmdbID}
//
// Response:
//   - 200: Movie created or updated
//   - 400: Malformed ID
//   - 404: Neither provider knows the record
//   - 502: Provider rejected the request
//   - 503: Provider temporarily unavailable
func (h *Handler) SyncMovie(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	tmdbID, err := strconv.ParseInt(chi.URLParam(r, "tmdbID"), 10, 64)
	if err != nil || tmdbID <= 0 {
		respondError(w, http.StatusBadRequest, models.ErrCodeValidation, "tmdbID must be a positive integer", err)
		return
	}

	result, err := h.orch.SyncMovie(r.Context(), tmdbID)
	if err != nil {
		respondFailure(w, err)
		return
	}

	respondSuccess(w, http.StatusOK, result, start)
}

// ListMovies returns a filtered, sorted, paginated slice of the catalog.
//
// Method: GET
// Path: /api/v1/movies
//
// Query parameters: page, page_size, genre (slug), year, min_rating,
// sort (popularity|rating|release_date).
func (h *Handler) ListMovies(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	page := getIntParam(r, "page", 1)
	if page < 1 {
		page = 1
	}
	pageSize := getIntParam(r, "page_size", h.cfg.API.DefaultPageSize)
	if pageSize < 1 {
		pageSize = h.cfg.API.DefaultPageSize
	}
	if pageSize > h.cfg.API.MaxPageSize {
		pageSize = h.cfg.API.MaxPageSize
	}

	filter := database.MovieFilter{
		GenreSlug: r.URL.Query().Get("genre"),
		Year:      getIntParam(r, "year", 0),
		MinRating: getFloatParam(r, "min_rating", 0),
		SortBy:    r.URL.Query().Get("sort"),
		Page:      page,
		PageSize:  pageSize,
	}

	movies, total, err := h.store.Movies(r.Context(), filter)
	if err != nil {
		respondError(w, http.StatusInternalServerError, models.ErrCodeDatabase, "Failed to query catalog", err)
		return
	}

	respondSuccess(w, http.StatusOK, map[string]interface{}{
		"movies": movies,
		"pagination": models.PaginationInfo{
			Page:       page,
			PageSize:   pageSize,
			TotalCount: total,
			TotalPages: database.TotalPages(total, pageSize),
		},
	}, start)
}

// GetMovie returns one catalog record by TMDB ID, genres included.
//
// Method: GET
// Path: /api/v1/movies/{tmdbID}
func (h *Handler) GetMovie(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	tmdbID, err := strconv.ParseInt(chi.URLParam(r, "tmdbID"), 10, 64)
	if err != nil || tmdbID <= 0 {
		respondError(w, http.StatusBadRequest, models.ErrCodeValidation, "tmdbID must be a positive integer", err)
		return
	}

	movie, err := h.store.MovieByTMDBID(r.Context(), tmdbID)
	if err != nil {
		respondFailure(w, err)
		return
	}

	respondSuccess(w, http.StatusOK, movie, start)
}

// ListGenres returns the stored genre taxonomy ordered by name.
//
// Method: GET
// Path: /api/v1/genres
func (h *Handler) ListGenres(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	genres, err := h.store.Genres(r.Context())
	if err != nil {
		respondError(w, http.StatusInternalServerError, models.ErrCodeDatabase, "Failed to query genres", err)
		return
	}

	respondSuccess(w, http.StatusOK, genres, start)
}

// Health reports database and provider health. Degraded and healthy states
// answer 200 so load balancers keep routing; only a dead database answers 503.
//
// Method: GET
// Path: /api/v1/health
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	status := h.orch.Health(r.Context())

	code := http.StatusOK
	if status.Status == models.HealthUnhealthy {
		code = http.StatusServiceUnavailable
	}

	respondSuccess(w, code, status, start)
}
