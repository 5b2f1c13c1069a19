package domain

import "context"

// PlaceQuery is one category-scoped search against the place provider.
type PlaceQuery struct {
	Category   Category
	Location   string
	Query      string // free-text, e.g. "art galleries in Paris"
	MaxResults int
}

// RawPlace is the provider's view of a place, before the aggregator
// assigns categories and synthetic ids.
type RawPlace struct {
	ID      string
	Title   string
	Rating  float64
	Price   string
	Address string
	Coords  *Coords
	Raw     map[string]any
}

// PlaceSearchProvider is the external place-search collaborator.
// Implementations are injected at construction; any error is treated
// by the aggregator as an empty result for that query only.
type PlaceSearchProvider interface {
	Search(ctx context.Context, q PlaceQuery) ([]RawPlace, error)
}

// WeatherProvider is the external weather collaborator. Errors degrade
// the plan's weather to nil, never the pipeline.
type WeatherProvider interface {
	Current(ctx context.Context, location string) (*WeatherReport, error)
}

// GenerationClient is the boundary to the generative model. The
// returned text carries no JSON-validity guarantee.
type GenerationClient interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

type Cache interface {
	Get(ctx context.Context, key string, dst any) (bool, error)
	Set(ctx context.Context, key string, v any, ttlSec int) error
	Del(ctx context.Context, key string) error
}
