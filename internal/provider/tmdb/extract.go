// Movie Nexus - External Movie Metadata Integration
// Copyright 2026 Darlene-13
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/Darlene-13/movie-nexus

package tmdb

import (
	"sort"
	"time"
)

// imageBaseURL is TMDB's CDN prefix for poster and backdrop paths. The
// sizes below exist in every account's /configuration response.
const (
	imageBaseURL = "https://image.tmdb.org/t/p/"
	posterSize   = "w500"
	backdropSize = "w1280"
)

// Director returns the name of the first crew member with the Director
// job, or "" when none is credited.
func Director(credits *Credits) string {
	if credits == nil {
		return ""
	}
	for _, member := range credits.Crew {
		if member.Job == "Director" {
			return member.Name
		}
	}
	return ""
}

// MainCast returns up to limit actor names in billing order.
func MainCast(credits *Credits, limit int) []string {
	if credits == nil || limit <= 0 {
		return nil
	}

	cast := make([]CastMember, len(credits.Cast))
	copy(cast, credits.Cast)
	sort.SliceStable(cast, func(i, j int) bool {
		return cast[i].Order < cast[j].Order
	})

	if len(cast) > limit {
		cast = cast[:limit]
	}
	names := make([]string, 0, len(cast))
	for _, member := range cast {
		names = append(names, member.Name)
	}
	return names
}

// GenreIDs returns the taxonomy IDs from a details response.
func GenreIDs(details *MovieDetails) []int64 {
	if details == nil {
		return nil
	}
	ids := make([]int64, 0, len(details.Genres))
	for _, g := range details.Genres {
		ids = append(ids, g.ID)
	}
	return ids
}

// CompanyNames returns the production company names from a details
// response.
func CompanyNames(details *MovieDetails) []string {
	if details == nil {
		return nil
	}
	names := make([]string, 0, len(details.ProductionCompanies))
	for _, company := range details.ProductionCompanies {
		names = append(names, company.Name)
	}
	return names
}

// PosterURL builds the full CDN URL for a poster path, or "" for movies
// without artwork.
func PosterURL(path string) string {
	if path == "" {
		return ""
	}
	return imageBaseURL + posterSize + path
}

// BackdropURL builds the full CDN URL for a backdrop path.
func BackdropURL(path string) string {
	if path == "" {
		return ""
	}
	return imageBaseURL + backdropSize + path
}

// ParseReleaseDate parses TMDB's YYYY-MM-DD release date. Returns the
// zero time for empty or malformed dates; some catalog entries ship
// without one.
func ParseReleaseDate(date string) time.Time {
	if date == "" {
		return time.Time{}
	}
	t, err := time.Parse("2006-01-02", date)
	if err != nil {
		return time.Time{}
	}
	return t
}

// ReleaseYear returns the release year, or 0 when the date is unknown.
func ReleaseYear(date string) int {
	t := ParseReleaseDate(date)
	if t.IsZero() {
		return 0
	}
	return t.Year()
}
