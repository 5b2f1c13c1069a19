package app

import "tripweaver/internal/domain"

// Per-category prefetch sizing. Limits grow with trip length so longer
// trips see more variety, but stay bounded so provider quotas and the
// prompt token budget hold.
type sizeRule struct {
	base, growth, cap int
	minRating         float64
}

var sizeRules = map[domain.Category]sizeRule{
	domain.CategoryHotels:      {base: 5, growth: 1, cap: 10, minRating: 3.5},
	domain.CategoryRestaurants: {base: 8, growth: 2, cap: 20, minRating: 4.0},
	domain.CategoryCafes:       {base: 5, growth: 1, cap: 12, minRating: 4.0},
	domain.CategoryAttractions: {base: 10, growth: 2, cap: 25, minRating: 3.5},
}

// FetchLimit returns the per-category fetch limit for a trip of the
// given length: min(base + growth*max(0,(days-4)/2), cap). Monotonic
// non-decreasing in days.
func FetchLimit(cat domain.Category, days int) int {
	r, ok := sizeRules[cat]
	if !ok {
		r = sizeRules[domain.CategoryAttractions]
	}
	extra := 0
	if days > 4 {
		extra = (days - 4) / 2
	}
	n := r.base + r.growth*extra
	if n > r.cap {
		n = r.cap
	}
	return n
}

func minRating(cat domain.Category) float64 {
	r, ok := sizeRules[cat]
	if !ok {
		r = sizeRules[domain.CategoryAttractions]
	}
	return r.minRating
}
