package app_test

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"tripweaver/internal/app"
	"tripweaver/internal/domain"
)

func newAggregator(p *fakePlaces) *app.Aggregator {
	return app.NewAggregator(p, 4, time.Second)
}

func TestSnapshot_IsolatedFailureDomains(t *testing.T) {
	provider := &fakePlaces{
		results: parisPlaces(),
		fail: map[domain.Category]error{
			domain.CategoryRestaurants: errors.New("boom"),
		},
	}
	snap, degraded := newAggregator(provider).Snapshot(context.Background(), parisRequest(3))

	if len(snap[domain.CategoryRestaurants]) != 0 {
		t.Fatalf("failed category should be empty: %+v", snap[domain.CategoryRestaurants])
	}
	if len(snap[domain.CategoryHotels]) == 0 || len(snap[domain.CategoryAttractions]) == 0 {
		t.Fatalf("other categories must survive: %+v", snap)
	}
	if len(degraded) != 1 || !strings.Contains(degraded[0], "restaurants") {
		t.Fatalf("unexpected degraded list: %v", degraded)
	}
}

func TestSnapshot_DedupesAcrossQueries(t *testing.T) {
	// the "art" interest issues a second attractions query returning
	// overlapping titles and ids
	provider := &fakePlaces{results: map[domain.Category][]domain.RawPlace{
		domain.CategoryAttractions: {
			{ID: "p1", Title: "Louvre", Rating: 4.8},
			{ID: "p1", Title: "Louvre Museum", Rating: 4.8}, // same provider id
			{Title: " louvre ", Rating: 4.1},                // same title, normalized
			{Title: "Pompidou", Rating: 4.4},
		},
	}}
	snap, _ := newAggregator(provider).Snapshot(context.Background(), parisRequest(3))

	got := snap[domain.CategoryAttractions]
	if len(got) != 2 {
		t.Fatalf("expected 2 after dedup, got %d: %+v", len(got), got)
	}
	if got[0].ID != "p1" || got[0].Title != "Louvre" {
		t.Fatalf("first entry wrong: %+v", got[0])
	}
}

func TestSnapshot_RatingFilterKeepsNonEmpty(t *testing.T) {
	provider := &fakePlaces{results: map[domain.Category][]domain.RawPlace{
		domain.CategoryCafes: {
			{Title: "Meh Cafe", Rating: 2.0},
			{Title: "Fine Cafe", Rating: 2.5},
		},
		domain.CategoryRestaurants: {
			{Title: "Great", Rating: 4.5},
			{Title: "Poor", Rating: 2.0},
		},
	}}
	snap, _ := newAggregator(provider).Snapshot(context.Background(), parisRequest(3))

	// every cafe is below threshold -> unfiltered set kept
	if len(snap[domain.CategoryCafes]) != 2 {
		t.Fatalf("all-low category must keep raw data: %+v", snap[domain.CategoryCafes])
	}
	// mixed category -> low entries dropped
	rs := snap[domain.CategoryRestaurants]
	if len(rs) != 1 || rs[0].Title != "Great" {
		t.Fatalf("rating filter not applied: %+v", rs)
	}
}

func TestSnapshot_TruncatesToLimit(t *testing.T) {
	var many []domain.RawPlace
	for i := 0; i < 40; i++ {
		many = append(many, domain.RawPlace{Title: "Hotel " + strings.Repeat("x", i+1), Rating: 4.5})
	}
	provider := &fakePlaces{results: map[domain.Category][]domain.RawPlace{
		domain.CategoryHotels: many,
	}}
	snap, _ := newAggregator(provider).Snapshot(context.Background(), parisRequest(3))

	want := app.FetchLimit(domain.CategoryHotels, 3)
	if len(snap[domain.CategoryHotels]) != want {
		t.Fatalf("expected %d hotels, got %d", want, len(snap[domain.CategoryHotels]))
	}
}

func TestSnapshot_SyntheticIDs(t *testing.T) {
	provider := &fakePlaces{results: map[domain.Category][]domain.RawPlace{
		domain.CategoryCafes: {
			{Title: "First", Rating: 4.5},
			{ID: "prov-9", Title: "Second", Rating: 4.5},
			{Title: "Third", Rating: 4.5},
		},
	}}
	snap, _ := newAggregator(provider).Snapshot(context.Background(), parisRequest(3))

	cs := snap[domain.CategoryCafes]
	if len(cs) != 3 {
		t.Fatalf("expected 3 cafes: %+v", cs)
	}
	if cs[0].ID != "cafes_001" || cs[2].ID != "cafes_003" {
		t.Fatalf("synthetic ids wrong: %q %q", cs[0].ID, cs[2].ID)
	}
	if cs[1].ID != "prov-9" {
		t.Fatalf("provider id must be kept: %q", cs[1].ID)
	}
	if cs[0].Category != domain.CategoryCafes {
		t.Fatalf("category not stamped: %+v", cs[0])
	}
}
