package app_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"tripweaver/internal/app"
	"tripweaver/internal/domain"
)

// ---- fakes ----

type fakePlaces struct {
	mu       sync.Mutex
	results  map[domain.Category][]domain.RawPlace
	fail     map[domain.Category]error
	onSearch func(q domain.PlaceQuery)
	calls    []domain.PlaceQuery
}

func (f *fakePlaces) Search(ctx context.Context, q domain.PlaceQuery) ([]domain.RawPlace, error) {
	f.mu.Lock()
	f.calls = append(f.calls, q)
	hook := f.onSearch
	f.mu.Unlock()
	if hook != nil {
		hook(q)
	}
	if err := f.fail[q.Category]; err != nil {
		return nil, err
	}
	return f.results[q.Category], nil
}

type fakeWeather struct {
	report *domain.WeatherReport
	err    error
	delay  time.Duration
}

func (f *fakeWeather) Current(ctx context.Context, location string) (*domain.WeatherReport, error) {
	if f.delay > 0 {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(f.delay):
		}
	}
	return f.report, f.err
}

type fakeModel struct {
	out    string
	err    error
	called int32
}

func (f *fakeModel) Generate(ctx context.Context, prompt string) (string, error) {
	atomic.AddInt32(&f.called, 1)
	return f.out, f.err
}

func parisPlaces() map[domain.Category][]domain.RawPlace {
	return map[domain.Category][]domain.RawPlace{
		domain.CategoryHotels: {
			{Title: "Grand Hotel", Rating: 4.5, Price: "$150", Address: "1 Rue A"},
			{Title: "Hotel Lux", Rating: 4.2, Price: "$120", Address: "2 Rue B"},
		},
		domain.CategoryRestaurants: {
			{Title: "Chez Bon", Rating: 4.6, Price: "$25-40", Address: "3 Rue C"},
			{Title: "Le Petit", Rating: 4.4, Price: "$20-30", Address: "4 Rue D"},
			{Title: "La Table", Rating: 4.5, Price: "$30", Address: "5 Rue E"},
		},
		domain.CategoryCafes: {
			{Title: "Cafe Noir", Rating: 4.3, Price: "$8", Address: "6 Rue F"},
		},
		domain.CategoryAttractions: {
			{Title: "Louvre", Rating: 4.8, Price: "$18", Address: "7 Rue G"},
			{Title: "Eiffel Tower", Rating: 4.7, Price: "$25", Address: "8 Rue H"},
			{Title: "Musee d'Orsay", Rating: 4.6, Price: "$16", Address: "9 Rue I"},
		},
	}
}

func parisRequest(days int) domain.TripRequest {
	start := time.Date(2026, 9, 10, 0, 0, 0, 0, time.UTC)
	return domain.TripRequest{
		Destination: "Paris",
		StartDate:   start,
		EndDate:     start.AddDate(0, 0, days-1),
		Travelers:   2,
		Budget:      "mid-range",
		Interests:   []string{"art"},
		Pace:        "moderate",
	}
}

// Synthetic ids are deterministic: "{category}_{n:03d}" in fetch order.
const modelItineraryJSON = `{
  "destination": "Paris",
  "days": [
    {
      "day": 1,
      "date": "2026-09-10",
      "activities": [
        {"placeId": "hotels_001", "type": "accommodation", "description": "Check in"},
        {"placeId": "attractions_001", "type": "sightseeing", "description": "Morning at the museum"}
      ],
      "meals": [{"placeId": "restaurants_001", "mealType": "dinner"}],
      "transport": [{"mode": "metro", "priceSignal": "$5"}]
    },
    {
      "day": 2,
      "activities": [{"placeId": "attractions_002", "type": "sightseeing"}],
      "meals": [{"placeId": "restaurants_002", "mealType": "dinner"}],
      "transport": [{"mode": "walk"}]
    },
    {
      "day": 3,
      "activities": [{"placeId": "hotels_001", "type": "check-out"}],
      "meals": [{"placeId": "restaurants_003", "mealType": "lunch"}],
      "transport": []
    }
  ],
  "accommodationSuggestions": [{"placeId": "hotels_001"}, {"placeId": "hotels_002"}]
}`

func newTestPlanner(p *fakePlaces, w *fakeWeather, m *fakeModel, diagDir string) *app.Planner {
	return app.NewPlanner(p, w, m, app.PlannerConfig{
		FetchWorkers:    4,
		FetchTimeout:    time.Second,
		WeatherTimeout:  200 * time.Millisecond,
		GenerateTimeout: time.Second,
		DiagDir:         diagDir,
	})
}

// ---- tests ----

func TestGenerate_EndToEnd(t *testing.T) {
	provider := &fakePlaces{results: parisPlaces()}
	wx := &fakeWeather{report: &domain.WeatherReport{Temperature: 21, Description: "clear"}}
	model := &fakeModel{out: modelItineraryJSON}

	plan, err := newTestPlanner(provider, wx, model, "").Generate(context.Background(), parisRequest(3))
	if err != nil {
		t.Fatalf("err: %v", err)
	}
	if plan.Metadata.Fallback {
		t.Fatalf("unexpected fallback: %+v", plan.Metadata)
	}
	if plan.Weather == nil || plan.Weather.Description != "clear" {
		t.Fatalf("weather not joined: %+v", plan.Weather)
	}
	if len(plan.Itinerary.Days) != 3 {
		t.Fatalf("expected 3 days, got %d", len(plan.Itinerary.Days))
	}
	// hotel id appears twice (check-in + check-out) but is listed once
	if _, ok := plan.PlaceDetails["hotels_001"]; !ok {
		t.Fatalf("hotel missing from placeDetails: %v", plan.Itinerary.PlaceIDsUsed)
	}
	if plan.PlaceDetails["hotels_001"].Title != "Grand Hotel" {
		t.Fatalf("unexpected hotel detail: %+v", plan.PlaceDetails["hotels_001"])
	}
	// enrichment overlays catalog fields onto slots
	if got := plan.Itinerary.Days[0].Meals[0].Name; got != "Chez Bon" {
		t.Fatalf("meal not enriched: %q", got)
	}
	// budget: computed total overwrites the (absent) model estimate
	if plan.Budget.Total <= 0 || plan.Itinerary.TotalBudgetEstimate != plan.Budget.Total {
		t.Fatalf("budget not computed: %+v", plan.Budget)
	}
	// never-referenced places are grouped for the client
	if len(plan.AdditionalPlaces[domain.CategoryCafes]) != 1 {
		t.Fatalf("expected unused cafe in additionalPlaces: %+v", plan.AdditionalPlaces)
	}
	if plan.Metadata.TotalFetched != plan.Metadata.TotalUsed+plan.Metadata.TotalUnused {
		t.Fatalf("inconsistent counts: %+v", plan.Metadata)
	}
}

func TestGenerate_EmptyCategoryIsIsolated(t *testing.T) {
	provider := &fakePlaces{
		results: parisPlaces(),
		fail:    map[domain.Category]error{domain.CategoryCafes: errors.New("quota exceeded")},
	}
	wx := &fakeWeather{report: &domain.WeatherReport{Temperature: 18}}
	model := &fakeModel{out: modelItineraryJSON}

	plan, err := newTestPlanner(provider, wx, model, "").Generate(context.Background(), parisRequest(3))
	if err != nil {
		t.Fatalf("err: %v", err)
	}
	if plan.Metadata.Fallback {
		t.Fatalf("category failure must not trigger fallback")
	}
	for id := range plan.PlaceDetails {
		if strings.HasPrefix(id, "cafes_") {
			t.Fatalf("cafe id leaked into placeDetails: %s", id)
		}
	}
	found := false
	for _, e := range plan.Metadata.Errors {
		if strings.Contains(e, "cafes") {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected cafes error in metadata: %+v", plan.Metadata.Errors)
	}
}

func TestGenerate_WeatherTimeoutDegradesToNil(t *testing.T) {
	provider := &fakePlaces{results: parisPlaces()}
	wx := &fakeWeather{report: &domain.WeatherReport{Temperature: 30}, delay: 5 * time.Second}
	model := &fakeModel{out: modelItineraryJSON}

	start := time.Now()
	plan, err := newTestPlanner(provider, wx, model, "").Generate(context.Background(), parisRequest(3))
	if err != nil {
		t.Fatalf("err: %v", err)
	}
	if elapsed := time.Since(start); elapsed > 3*time.Second {
		t.Fatalf("pipeline blocked on weather: %v", elapsed)
	}
	if plan.Weather != nil {
		t.Fatalf("expected nil weather, got %+v", plan.Weather)
	}
	if plan.Metadata.Fallback {
		t.Fatalf("weather alone must not set fallback")
	}
}

func TestGenerate_CancelledBeforeGeneration(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	provider := &fakePlaces{results: parisPlaces()}
	provider.onSearch = func(domain.PlaceQuery) { cancel() } // fires during prefetch
	model := &fakeModel{out: modelItineraryJSON}

	_, err := newTestPlanner(provider, &fakeWeather{}, model, "").Generate(ctx, parisRequest(3))
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if atomic.LoadInt32(&model.called) != 0 {
		t.Fatalf("generation client invoked after cancellation")
	}
}

func TestGenerate_CancelledUpFront(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	provider := &fakePlaces{results: parisPlaces()}

	_, err := newTestPlanner(provider, &fakeWeather{}, &fakeModel{}, "").Generate(ctx, parisRequest(3))
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if len(provider.calls) != 0 {
		t.Fatalf("prefetch ran after cancellation: %d calls", len(provider.calls))
	}
}

func TestGenerate_GenerationFailureFallsBack(t *testing.T) {
	provider := &fakePlaces{results: parisPlaces()}
	model := &fakeModel{err: errors.New("rate limited")}

	plan, err := newTestPlanner(provider, &fakeWeather{}, model, "").Generate(context.Background(), parisRequest(4))
	if err != nil {
		t.Fatalf("business failure must not surface: %v", err)
	}
	if !plan.Metadata.Fallback {
		t.Fatalf("expected fallback flag")
	}
	if len(plan.Itinerary.Days) != 4 {
		t.Fatalf("skeleton not sized to trip: %d days", len(plan.Itinerary.Days))
	}
	for _, d := range plan.Itinerary.Days {
		if len(d.Activities) != 0 || len(d.Meals) != 0 {
			t.Fatalf("skeleton day not empty: %+v", d)
		}
	}
	if len(plan.Metadata.Errors) == 0 {
		t.Fatalf("expected generation error recorded")
	}
}

func TestGenerate_ParseFailureWritesDiagnostic(t *testing.T) {
	dir := t.TempDir()
	provider := &fakePlaces{results: parisPlaces()}
	model := &fakeModel{out: "I could not produce JSON today, sorry!"}

	plan, err := newTestPlanner(provider, &fakeWeather{}, model, dir).Generate(context.Background(), parisRequest(3))
	if err != nil {
		t.Fatalf("err: %v", err)
	}
	if !plan.Metadata.Fallback {
		t.Fatalf("expected fallback after parse failure")
	}

	ents, err := os.ReadDir(dir)
	if err != nil || len(ents) != 1 {
		t.Fatalf("expected one diagnostic artifact, got %v (%v)", ents, err)
	}
	body, _ := os.ReadFile(filepath.Join(dir, ents[0].Name()))
	if !strings.Contains(string(body), "could not produce JSON") {
		t.Fatalf("artifact missing raw output: %s", body)
	}
}
