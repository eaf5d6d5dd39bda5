package feed

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/PIN-11-07/Turboo/internal/domain"
)

func sampleListings() []domain.ListingSummary {
	return []domain.ListingSummary{
		{ID: "1", Title: "Toyota Corolla", Make: "Toyota", Model: "Corolla", Location: "Madrid"},
		{ID: "2", Title: "BMW 320", Make: "BMW", Model: "320", Location: "Lisbon"},
	}
}

func TestFilterEmptyQueryIsIdentity(t *testing.T) {
	listings := sampleListings()
	for _, q := range []string{"", "   ", "\t\n"} {
		got := Filter(listings, q)
		require.Equal(t, listings, got)
		require.Same(t, &listings[0], &got[0], "identity must return the input set")
	}
	assert.Nil(t, Filter(nil, ""))
}

func TestFilterSubstringMatch(t *testing.T) {
	listings := sampleListings()

	got := Filter(listings, "corolla")
	require.Len(t, got, 1)
	assert.Equal(t, domain.ListingID("1"), got[0].ID)

	got = Filter(listings, "lisbon")
	require.Len(t, got, 1)
	assert.Equal(t, domain.ListingID("2"), got[0].ID)
}

func TestFilterNormalizesQuery(t *testing.T) {
	got := Filter(sampleListings(), "  MADRID ")
	require.Len(t, got, 1)
	assert.Equal(t, domain.ListingID("1"), got[0].ID)
}

func TestFilterMatchesAcrossJoinedFields(t *testing.T) {
	// make and model are joined with a single space
	got := Filter(sampleListings(), "bmw 320 bmw")
	require.Len(t, got, 1)
	assert.Equal(t, domain.ListingID("2"), got[0].ID)

	// empty fields do not leave double spaces behind
	l := []domain.ListingSummary{{ID: "3", Title: "Golf", Description: "", Location: "Porto"}}
	assert.Len(t, Filter(l, "golf porto"), 1)
}

func TestFilterIgnoresDisplayOnlyFields(t *testing.T) {
	l := []domain.ListingSummary{{ID: "1", Title: "Clio", Color: "red", FuelType: "Diesel"}}
	assert.Empty(t, Filter(l, "diesel"))
	assert.Empty(t, Filter(l, "red"))
}

func TestFilterIdempotentAndOrderPreserving(t *testing.T) {
	listings := []domain.ListingSummary{
		{ID: "5", Title: "Seat Ibiza", Location: "Sevilla"},
		{ID: "4", Title: "Fiat Panda"},
		{ID: "3", Title: "Seat Leon", Location: "Madrid"},
		{ID: "2", Title: "Seat Arona"},
	}
	once := Filter(listings, "seat")
	twice := Filter(once, "seat")
	assert.Equal(t, once, twice)
	assert.Equal(t, []string{"5", "3", "2"}, ids(once))
}

func TestMatches(t *testing.T) {
	l := sampleListings()[0]
	assert.True(t, Matches(l, ""))
	assert.True(t, Matches(l, "toyota"))
	assert.False(t, Matches(l, "lisbon"))
}
