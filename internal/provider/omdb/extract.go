// Movie Nexus - External Movie Metadata Integration
// Copyright 2026 Darlene-13
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/Darlene-13/movie-nexus

package omdb

import (
	"strconv"
	"strings"
)

// Rating source names as OMDB spells them.
const (
	sourceIMDB       = "Internet Movie Database"
	sourceRotten     = "Rotten Tomatoes"
	sourceMetacritic = "Metacritic"
)

// Ratings holds the supplementary scores normalized onto a 0-10 scale.
// A nil field means the source did not rate the title.
type Ratings struct {
	IMDB           *float64
	RottenTomatoes *float64
	Metacritic     *float64
}

// ExtractRatings normalizes OMDB's heterogeneous rating formats:
//
//	IMDb            "8.8/10"  -> 8.8
//	Rotten Tomatoes "87%"     -> 8.7
//	Metacritic      "74/100"  -> 7.4
//
// Unparseable or missing values are left nil rather than propagated as
// zeros, so a zero never masquerades as a real score.
func ExtractRatings(result *MovieResult) Ratings {
	var ratings Ratings
	if result == nil {
		return ratings
	}

	for _, r := range result.Ratings {
		switch r.Source {
		case sourceIMDB:
			ratings.IMDB = parseScale(r.Value, "/10", 1)
		case sourceRotten:
			ratings.RottenTomatoes = parseScale(r.Value, "%", 10)
		case sourceMetacritic:
			ratings.Metacritic = parseScale(r.Value, "/100", 10)
		}
	}

	// Fall back to the top-level imdbRating field when the Ratings list
	// omits IMDb (some older titles).
	if ratings.IMDB == nil {
		if v, err := strconv.ParseFloat(result.IMDBRating, 64); err == nil && v > 0 {
			ratings.IMDB = &v
		}
	}
	return ratings
}

// parseScale strips suffix, parses the number, and divides by divisor to
// land on a 0-10 scale. Returns nil for "N/A" and malformed values.
func parseScale(value, suffix string, divisor float64) *float64 {
	trimmed := strings.TrimSuffix(strings.TrimSpace(value), suffix)
	v, err := strconv.ParseFloat(trimmed, 64)
	if err != nil || v < 0 {
		return nil
	}
	scaled := v / divisor
	if scaled > 10 {
		return nil
	}
	return &scaled
}

// ReleaseYear parses OMDB's Year field, which may carry ranges for
// series ("1999–2003"). Only the leading year is used.
func ReleaseYear(year string) int {
	if len(year) < 4 {
		return 0
	}
	v, err := strconv.Atoi(year[:4])
	if err != nil {
		return 0
	}
	return v
}
