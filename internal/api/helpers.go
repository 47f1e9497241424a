// Movie Nexus - External Movie Metadata Integration
// Copyright 2026 Darlene-13
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/Darlene-13/movie-nexus

package api

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/goccy/go-json"

	"github.com/Darlene-13/movie-nexus/internal/database"
	"github.com/Darlene-13/movie-nexus/internal/enrich"
	"github.com/Darlene-13/movie-nexus/internal/logging"
	"github.com/Darlene-13/movie-nexus/internal/models"
	"github.com/Darlene-13/movie-nexus/internal/provider"
)

// respondJSON sends a JSON response with proper headers.
func respondJSON(w http.ResponseWriter, status int, response *models.APIResponse) {
	w.Header().Set("Content-Type", "application/json")

	data, err := json.Marshal(response)
	if err != nil {
		logging.Error().Err(err).Msg("Failed to marshal JSON response")
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	w.WriteHeader(status)
	if _, err := w.Write(data); err != nil {
		logging.Error().Err(err).Msg("Failed to write JSON response")
	}
}

// respondSuccess wraps data in the standard success envelope.
func respondSuccess(w http.ResponseWriter, status int, data interface{}, started time.Time) {
	respondJSON(w, status, &models.APIResponse{
		Status: "success",
		Data:   data,
		Metadata: models.Metadata{
			Timestamp:  time.Now(),
			DurationMS: time.Since(started).Milliseconds(),
		},
	})
}

// respondError sends an error response.
func respondError(w http.ResponseWriter, status int, code, message string, err error) {
	if err != nil {
		logging.Error().Str("code", code).Err(err).Msg("API error")
	}

	respondJSON(w, status, &models.APIResponse{
		Status: "error",
		Metadata: models.Metadata{
			Timestamp: time.Now(),
		},
		Error: &models.APIError{
			Code:    code,
			Message: message,
		},
	})
}

// respondFailure maps domain errors onto HTTP statuses and API error codes.
// Setup failures and open breakers answer 503 so callers know to back off;
// upstream rejections answer 502; missing records answer 404.
func respondFailure(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, enrich.ErrSeedSetup):
		respondError(w, http.StatusServiceUnavailable, models.ErrCodeProviderUnavailable, "Seed setup failed, providers or taxonomy unreachable", err)
	case errors.Is(err, database.ErrMovieNotFound):
		respondError(w, http.StatusNotFound, models.ErrCodeNotFound, "Movie not found", err)
	case provider.IsNotFound(err):
		respondError(w, http.StatusNotFound, models.ErrCodeNotFound, "No provider data for the requested record", err)
	case provider.IsFatal(err):
		respondError(w, http.StatusBadGateway, models.ErrCodeProviderError, "Provider rejected the request", err)
	case provider.IsRetryable(err):
		respondError(w, http.StatusServiceUnavailable, models.ErrCodeProviderUnavailable, "Provider temporarily unavailable", err)
	default:
		respondError(w, http.StatusInternalServerError, models.ErrCodeInternal, "Internal server error", err)
	}
}

// getIntParam extracts an integer query parameter with a default value.
func getIntParam(r *http.Request, key string, defaultValue int) int {
	value := r.URL.Query().Get(key)
	if value == "" {
		return defaultValue
	}

	intValue, err := strconv.Atoi(value)
	if err != nil {
		return defaultValue
	}

	return intValue
}

// getFloatParam extracts a float query parameter with a default value.
func getFloatParam(r *http.Request, key string, defaultValue float64) float64 {
	value := r.URL.Query().Get(key)
	if value == "" {
		return defaultValue
	}

	floatValue, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return defaultValue
	}

	return floatValue
}
