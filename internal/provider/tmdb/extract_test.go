// Movie Nexus - External Movie Metadata Integration
// Copyright 2026 Darlene-13
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/Darlene-13/movie-nexus

package tmdb

import (
	"reflect"
	"testing"
)

func TestDirector(t *testing.T) {
	credits := &Credits{
		Crew: []CrewMember{
			{Name: "Jane Editor", Job: "Editor"},
			{Name: "Christopher Nolan", Job: "Director"},
			{Name: "Second Unit", Job: "Director"},
		},
	}

	if got := Director(credits); got != "Christopher Nolan" {
		t.Errorf("Director = %q", got)
	}
	if got := Director(&Credits{}); got != "" {
		t.Errorf("Director with no crew = %q, want empty", got)
	}
	if got := Director(nil); got != "" {
		t.Errorf("Director(nil) = %q, want empty", got)
	}
}

func TestMainCastBillingOrder(t *testing.T) {
	credits := &Credits{
		Cast: []CastMember{
			{Name: "Third", Order: 2},
			{Name: "First", Order: 0},
			{Name: "Second", Order: 1},
			{Name: "Fourth", Order: 3},
		},
	}

	got := MainCast(credits, 3)
	want := []string{"First", "Second", "Third"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("MainCast = %v, want %v", got, want)
	}
}

func TestMainCastShorterThanLimit(t *testing.T) {
	credits := &Credits{Cast: []CastMember{{Name: "Solo", Order: 0}}}

	got := MainCast(credits, 5)
	if len(got) != 1 || got[0] != "Solo" {
		t.Errorf("MainCast = %v", got)
	}
	if got := MainCast(credits, 0); got != nil {
		t.Errorf("MainCast with limit 0 = %v, want nil", got)
	}
}

func TestImageURLs(t *testing.T) {
	if got := PosterURL("/abc.jpg"); got != "https://image.tmdb.org/t/p/w500/abc.jpg" {
		t.Errorf("PosterURL = %q", got)
	}
	if got := PosterURL(""); got != "" {
		t.Errorf("PosterURL(empty) = %q, want empty", got)
	}
	if got := BackdropURL("/bg.jpg"); got != "https://image.tmdb.org/t/p/w1280/bg.jpg" {
		t.Errorf("BackdropURL = %q", got)
	}
}

func TestReleaseYear(t *testing.T) {
	tests := []struct {
		date string
		want int
	}{
		{"1999-03-31", 1999},
		{"", 0},
		{"not-a-date", 0},
	}

	for _, tt := range tests {
		if got := ReleaseYear(tt.date); got != tt.want {
			t.Errorf("ReleaseYear(%q) = %d, want %d", tt.date, got, tt.want)
		}
	}
}

func TestGenreIDsAndCompanyNames(t *testing.T) {
	details := &MovieDetails{
		Genres: []Genre{{ID: 28, Name: "Action"}, {ID: 878, Name: "Science Fiction"}},
		ProductionCompanies: []ProductionCompany{
			{Name: "Warner Bros."},
			{Name: "Village Roadshow"},
		},
	}

	if got := GenreIDs(details); !reflect.DeepEqual(got, []int64{28, 878}) {
		t.Errorf("GenreIDs = %v", got)
	}
	if got := CompanyNames(details); !reflect.DeepEqual(got, []string{"Warner Bros.", "Village Roadshow"}) {
		t.Errorf("CompanyNames = %v", got)
	}
}
