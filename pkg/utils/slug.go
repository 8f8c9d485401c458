package utils

import (
	"github.com/gosimple/slug"
)

// NormalizeSlug creates a URL-friendly identifier using the gosimple/slug
// library, which handles all Unicode characters properly.
func NormalizeSlug(text string) string {
	if text == "" {
		return ""
	}
	return slug.Make(text)
}

// SportSlug creates a url_identifier for an ingested sport.
func SportSlug(title string) string {
	if title == "" {
		return "sport"
	}
	return NormalizeSlug(title)
}

// EventSlug creates a url_identifier for an ingested event from the two
// team names. The column is globally unique, so collisions across sports
// surface as conflicts at insert time.
func EventSlug(homeTeam, awayTeam string) string {
	if homeTeam == "" {
		homeTeam = "home"
	}
	if awayTeam == "" {
		awayTeam = "away"
	}
	return NormalizeSlug(homeTeam + " vs " + awayTeam)
}
