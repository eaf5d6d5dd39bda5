package feed

import (
	"strings"

	"github.com/PIN-11-07/Turboo/internal/domain"
)

// NormalizeQuery trims and lowercases a search query
func NormalizeQuery(query string) string {
	return strings.ToLower(strings.TrimSpace(query))
}

// Filter keeps the listings whose searchable text contains query.
// An empty query returns listings unchanged. Order is preserved.
func Filter(listings []domain.ListingSummary, query string) []domain.ListingSummary {
	q := NormalizeQuery(query)
	if q == "" {
		return listings
	}

	filtered := make([]domain.ListingSummary, 0, len(listings))
	for _, listing := range listings {
		if strings.Contains(searchableText(listing), q) {
			filtered = append(filtered, listing)
		}
	}
	return filtered
}

// Matches reports whether a single listing passes Filter for query
func Matches(listing domain.ListingSummary, query string) bool {
	q := NormalizeQuery(query)
	return q == "" || strings.Contains(searchableText(listing), q)
}

// searchableText joins the non-empty free-text fields with single spaces
func searchableText(l domain.ListingSummary) string {
	fields := make([]string, 0, 5)
	for _, v := range []string{l.Title, l.Make, l.Model, l.Description, l.Location} {
		if v != "" {
			fields = append(fields, v)
		}
	}
	return strings.ToLower(strings.Join(fields, " "))
}
