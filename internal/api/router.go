// Movie Nexus - External Movie Metadata Integration
// Copyright 2026 Darlene-13
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/Darlene-13/movie-nexus

package api

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/Darlene-13/movie-nexus/internal/metrics"
)

// NewRouter wires all routes behind the Chi middleware stack.
func NewRouter(h *Handler) http.Handler {
	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(requestMetrics)

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/health", h.Health)

		r.Post("/sync/seed", h.Seed)
		r.Post("/sync/genres", h.SyncGenres)
		r.Post("/sync/movie/{tmdbID}", h.SyncMovie)

		r.Get("/movies", h.ListMovies)
		r.Get("/movies/{tmdbID}", h.GetMovie)
		r.Get("/genres", h.ListGenres)
	})

	r.Handle("/metrics", promhttp.Handler())

	return r
}

// requestMetrics counts requests per route pattern and status class.
func requestMetrics(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := chimiddleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		pattern := chi.RouteContext(r.Context()).RoutePattern()
		if pattern == "" {
			pattern = "unmatched"
		}
		metrics.APIRequestsTotal.WithLabelValues(pattern, strconv.Itoa(ww.Status())).Inc()
	})
}
