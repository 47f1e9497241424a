// Movie Nexus - External Movie Metadata Integration
// Copyright 2026 Darlene-13
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/Darlene-13/movie-nexus

// Command server runs the Movie Nexus HTTP server: provider clients,
// enrichment orchestrator, and catalog API.
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Darlene-13/movie-nexus/internal/api"
	"github.com/Darlene-13/movie-nexus/internal/cache"
	"github.com/Darlene-13/movie-nexus/internal/config"
	"github.com/Darlene-13/movie-nexus/internal/database"
	"github.com/Darlene-13/movie-nexus/internal/enrich"
	"github.com/Darlene-13/movie-nexus/internal/logging"
	"github.com/Darlene-13/movie-nexus/internal/provider/omdb"
	"github.com/Darlene-13/movie-nexus/internal/provider/tmdb"
)

const shutdownTimeout = 10 * time.Second

func main() {
	// Load configuration first to get logging settings
	cfg, err := config.Load()
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to load configuration")
	}

	logging.Init(logging.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Caller: cfg.Logging.Caller,
	})

	logging.Info().
		Str("driver", cfg.Database.Driver).
		Int("popular_pages", cfg.Sync.PopularPages).
		Int("top_rated_pages", cfg.Sync.TopRatedPages).
		Msg("Starting Movie Nexus")

	store, err := database.Open(cfg.Database)
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to open database")
	}
	defer func() {
		if err := store.Close(); err != nil {
			logging.Error().Err(err).Msg("Failed to close database")
		}
	}()

	// Both providers share one response cache; keys are provider-namespaced.
	responseCache := cache.New()

	primary := tmdb.New(cfg.TMDB, responseCache)
	secondary := omdb.New(cfg.OMDB, responseCache)

	orchestrator := enrich.New(primary, secondary, store, cfg.Sync.CastLimit)

	handler := api.NewHandler(orchestrator, store, cfg)
	server := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:      api.NewRouter(handler),
		ReadTimeout:  cfg.Server.Timeout,
		WriteTimeout: cfg.Server.Timeout,
		IdleTimeout:  60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logging.Info().Str("addr", server.Addr).Msg("HTTP server listening")
		errCh <- server.ListenAndServe()
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		logging.Info().Str("signal", sig.String()).Msg("Received shutdown signal")
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logging.Fatal().Err(err).Msg("HTTP server failed")
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		logging.Error().Err(err).Msg("HTTP server shutdown error")
	}

	logging.Info().Msg("Application stopped gracefully")
}
