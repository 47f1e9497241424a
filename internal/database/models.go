// Movie Nexus - External Movie Metadata Integration
// Copyright 2026 Darlene-13
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/Darlene-13/movie-nexus

package database

import (
	"strings"
	"time"
)

// Movie is the canonical catalog record. TMDBID is the natural key used
// for idempotent upserts; IMDBID is unique when present but many records
// lack one. MainCast and ProductionCompanies are stored as JSON arrays
// in text columns so the schema works identically on sqlite and postgres.
type Movie struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	TMDBID int64   `gorm:"uniqueIndex;not null" json:"tmdb_id"`
	IMDBID *string `gorm:"uniqueIndex" json:"imdb_id,omitempty"`

	Title         string     `gorm:"not null;index" json:"title"`
	OriginalTitle string     `json:"original_title,omitempty"`
	Overview      string     `gorm:"type:text" json:"overview"`
	Tagline       string     `json:"tagline,omitempty"`
	ReleaseDate   *time.Time `json:"release_date,omitempty"`
	ReleaseYear   int        `gorm:"index" json:"release_year,omitempty"`
	Runtime       int        `json:"runtime,omitempty"`

	Director            string `json:"director,omitempty"`
	MainCast            string `gorm:"type:text;default:'[]'" json:"main_cast"`
	ProductionCompanies string `gorm:"type:text;default:'[]'" json:"production_companies"`

	PosterURL   string `json:"poster_url,omitempty"`
	BackdropURL string `json:"backdrop_url,omitempty"`

	// Rating is the primary provider's score, rounded to one decimal.
	// The per-source scores are nullable: absence is not a zero.
	Rating           float64  `gorm:"index" json:"rating"`
	IMDBRating       *float64 `json:"imdb_rating,omitempty"`
	RottenTomatoes   *float64 `json:"rotten_tomatoes_rating,omitempty"`
	MetacriticRating *float64 `json:"metacritic_rating,omitempty"`

	VoteCount        int64   `json:"vote_count"`
	Popularity       float64 `gorm:"index" json:"popularity"`
	Budget           int64   `json:"budget,omitempty"`
	Revenue          int64   `json:"revenue,omitempty"`
	Status           string  `json:"status,omitempty"`
	OriginalLanguage string  `json:"original_language,omitempty"`
	Adult            bool    `json:"adult"`

	// LastSyncedAt records when the providers were last consulted for
	// this record, independent of whether any field changed.
	LastSyncedAt time.Time `json:"last_synced_at"`

	Genres []Genre `gorm:"many2many:movie_genres" json:"genres"`
}

// Genre is one taxonomy entry. All three of TMDBID, Name, and Slug are
// unique; the slug is derived from the name at sync time.
type Genre struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `json:"-"`
	UpdatedAt time.Time `json:"-"`

	TMDBID int64  `gorm:"uniqueIndex;not null" json:"tmdb_id"`
	Name   string `gorm:"uniqueIndex;not null" json:"name"`
	Slug   string `gorm:"uniqueIndex;not null" json:"slug"`
}

// Slugify derives a URL-safe genre slug: lowercase, spaces and slashes
// collapsed to single hyphens ("Science Fiction" -> "science-fiction").
func Slugify(name string) string {
	lower := strings.ToLower(strings.TrimSpace(name))
	fields := strings.FieldsFunc(lower, func(r rune) bool {
		return r == ' ' || r == '/' || r == '&'
	})
	return strings.Join(fields, "-")
}
