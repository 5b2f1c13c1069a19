package domain

import "strings"

// Category tags every fetched place and prefixes synthetic place ids.
type Category string

const (
	CategoryHotels      Category = "hotels"
	CategoryRestaurants Category = "restaurants"
	CategoryCafes       Category = "cafes"
	CategoryAttractions Category = "attractions"
)

// Categories returns the canonical fetch/traversal order.
func Categories() []Category {
	return []Category{CategoryHotels, CategoryRestaurants, CategoryCafes, CategoryAttractions}
}

// CategoryFromID derives the category from a synthetic id prefix
// (text before the first '_'). Provider-supplied ids without a known
// prefix fall back to attractions.
func CategoryFromID(id string) Category {
	prefix, _, _ := strings.Cut(id, "_")
	switch Category(prefix) {
	case CategoryHotels, CategoryRestaurants, CategoryCafes, CategoryAttractions:
		return Category(prefix)
	}
	return CategoryAttractions
}

type Coords struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// PlaceCandidate is a single point of interest. Immutable once the
// catalog is built.
type PlaceCandidate struct {
	ID       string         `json:"id"`
	Category Category       `json:"category"`
	Title    string         `json:"title"`
	Rating   float64        `json:"rating"`
	Price    string         `json:"priceSignal,omitempty"` // free-form, e.g. "$25-40"
	Address  string         `json:"address,omitempty"`
	Coords   *Coords        `json:"coordinates,omitempty"`
	Raw      map[string]any `json:"metadata,omitempty"`
}

// CatalogSnapshot is the per-request universe of fetched candidates,
// keyed by category with per-category order preserved. Built once,
// read-only afterward.
type CatalogSnapshot map[Category][]PlaceCandidate

func (c CatalogSnapshot) Find(id string) (PlaceCandidate, bool) {
	for _, ps := range c {
		for _, p := range ps {
			if p.ID == id {
				return p, true
			}
		}
	}
	return PlaceCandidate{}, false
}

func (c CatalogSnapshot) Total() int {
	n := 0
	for _, ps := range c {
		n += len(ps)
	}
	return n
}

// FirstUnused returns the first candidate id of cat not present in used.
func (c CatalogSnapshot) FirstUnused(cat Category, used map[string]bool) (string, bool) {
	for _, p := range c[cat] {
		if !used[p.ID] {
			return p.ID, true
		}
	}
	return "", false
}
