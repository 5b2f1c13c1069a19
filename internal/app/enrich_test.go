package app_test

import (
	"testing"

	"tripweaver/internal/app"
	"tripweaver/internal/domain"
)

func TestPriceEstimate(t *testing.T) {
	cases := []struct {
		signal string
		want   float64
	}{
		{"", 0},
		{"$25", 25},
		{"$25-40", 32.5},
		{"$25 - 40 per person", 32.5},
		{"$25 to 40", 32.5},
		{"₹100", 100},
		{"₹ 100.50", 100.50},
		{"25", 0},     // no currency marker
		{"cheap", 0},  // no numbers at all
		{"$10 $30", 20}, // two independent tokens averaged
	}
	for _, c := range cases {
		if got := app.PriceEstimate(c.signal); got != c.want {
			t.Errorf("PriceEstimate(%q) = %v, want %v", c.signal, got, c.want)
		}
	}
}

func TestEnrich_OverlaysDisplayFieldsOnly(t *testing.T) {
	snap := domain.CatalogSnapshot{
		domain.CategoryRestaurants: {{
			ID:       "restaurants_001",
			Category: domain.CategoryRestaurants,
			Title:    "Chez Bon",
			Address:  "12 Rue Cler",
			Price:    "$30-50",
		}},
	}
	it := &domain.Itinerary{
		PlaceIDsUsed: []string{"restaurants_001"},
		Days: []domain.DayPlan{{
			Day: 1,
			Meals: []domain.MealSlot{{
				PlaceID:     "restaurants_001",
				Name:        "Some Bistro",
				Description: "Classic lunch spot",
			}},
		}},
	}
	app.Enrich(it, snap)

	m := it.Days[0].Meals[0]
	if m.Name != "Chez Bon" || m.Address != "12 Rue Cler" || m.Price != "$30-50" {
		t.Fatalf("display fields not overlaid: %+v", m)
	}
	if m.Description != "Classic lunch spot" {
		t.Fatalf("description must stay model-authored: %q", m.Description)
	}
}

func TestEnrich_SkipsIDsOutsideUsedSet(t *testing.T) {
	snap := domain.CatalogSnapshot{
		domain.CategoryAttractions: {{
			ID:       "attractions_001",
			Category: domain.CategoryAttractions,
			Title:    "Louvre",
		}},
	}
	it := &domain.Itinerary{
		// id resolves in the catalog but was never recorded as used
		Days: []domain.DayPlan{{
			Day:        1,
			Activities: []domain.ActivitySlot{{PlaceID: "attractions_001", Name: "Museum"}},
		}},
	}
	app.Enrich(it, snap)

	if got := it.Days[0].Activities[0].Name; got != "Museum" {
		t.Fatalf("unused id must not be enriched, name = %q", got)
	}
}

func TestComputeBudget(t *testing.T) {
	it := &domain.Itinerary{
		TotalBudgetEstimate: 9999,
		Accommodation:       []domain.AccommodationSuggestion{{Price: "$100"}},
		Days: []domain.DayPlan{
			{
				Day:        1,
				Activities: []domain.ActivitySlot{{Price: "$20"}, {Price: ""}},
				Meals:      []domain.MealSlot{{Price: "$25-35"}},
				Transport:  []domain.TransportSlot{{Price: "$10"}},
			},
			{
				Day:   2,
				Meals: []domain.MealSlot{{Price: "$40"}},
			},
		},
	}
	b := app.ComputeBudget(it)

	if len(b.Days) != 2 {
		t.Fatalf("expected 2 day budgets, got %d", len(b.Days))
	}
	d1 := b.Days[0]
	if d1.Accommodation != 100 || d1.Activities != 20 || d1.Meals != 30 || d1.Transport != 10 || d1.Total != 160 {
		t.Fatalf("day 1 budget wrong: %+v", d1)
	}
	d2 := b.Days[1]
	if d2.Accommodation != 100 || d2.Meals != 40 || d2.Total != 140 {
		t.Fatalf("day 2 budget wrong: %+v", d2)
	}
	if b.Total != 300 || b.PerDayAverage != 150 {
		t.Fatalf("totals wrong: %+v", b)
	}
	if it.TotalBudgetEstimate != 300 {
		t.Fatalf("positive total must overwrite the estimate, got %v", it.TotalBudgetEstimate)
	}
}

func TestComputeBudget_KeepsModelEstimateWhenUnpriced(t *testing.T) {
	it := &domain.Itinerary{
		TotalBudgetEstimate: 1200,
		Days: []domain.DayPlan{
			{Day: 1, Meals: []domain.MealSlot{{Price: "moderate"}}},
		},
	}
	b := app.ComputeBudget(it)

	if b.Total != 0 {
		t.Fatalf("unpriced plan should total 0, got %v", b.Total)
	}
	if it.TotalBudgetEstimate != 1200 {
		t.Fatalf("model estimate must survive a zero total, got %v", it.TotalBudgetEstimate)
	}
}
