package app

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/semaphore"

	"tripweaver/internal/domain"
)

// Aggregator fans out one provider query per category (plus one per
// interest) and folds the results into a CatalogSnapshot. Every query
// is an isolated failure domain: an error or timeout empties that
// query's contribution only.
type Aggregator struct {
	provider domain.PlaceSearchProvider
	workers  int64
	timeout  time.Duration
}

func NewAggregator(p domain.PlaceSearchProvider, workers int, timeout time.Duration) *Aggregator {
	if workers <= 0 {
		workers = 4
	}
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Aggregator{provider: p, workers: int64(workers), timeout: timeout}
}

type fetchOutcome struct {
	query  domain.PlaceQuery
	places []domain.RawPlace
	err    error
}

// Snapshot runs the fan-out and builds the per-request catalog. The
// returned strings describe degraded queries for response metadata.
func (a *Aggregator) Snapshot(ctx context.Context, req domain.TripRequest) (domain.CatalogSnapshot, []string) {
	specs := fetchSpecs(req)
	outcomes := make([]fetchOutcome, len(specs))

	sem := semaphore.NewWeighted(a.workers)
	var wg sync.WaitGroup
	for i, q := range specs {
		if err := sem.Acquire(ctx, 1); err != nil {
			outcomes[i] = fetchOutcome{query: q, err: err}
			continue
		}
		wg.Add(1)
		go func(i int, q domain.PlaceQuery) {
			defer wg.Done()
			defer sem.Release(1)
			fctx, cancel := context.WithTimeout(ctx, a.timeout)
			defer cancel()
			ps, err := a.provider.Search(fctx, q)
			outcomes[i] = fetchOutcome{query: q, places: ps, err: err}
		}(i, q)
	}
	wg.Wait()

	days := req.Days()
	snap := make(domain.CatalogSnapshot, len(domain.Categories()))
	var degraded []string
	for _, cat := range domain.Categories() {
		var merged []domain.RawPlace
		for _, o := range outcomes {
			if o.query.Category != cat {
				continue
			}
			if o.err != nil {
				log.Warn().Str("category", string(cat)).Str("query", o.query.Query).
					Err(o.err).Msg("place fetch degraded")
				degraded = append(degraded, fmt.Sprintf("%s: %v", cat, o.err))
				continue
			}
			merged = append(merged, o.places...)
		}
		snap[cat] = buildCategory(cat, merged, FetchLimit(cat, days))
	}
	return snap, degraded
}

// fetchSpecs plans the fan-out: one query per core category, one extra
// attractions query per interest.
func fetchSpecs(req domain.TripRequest) []domain.PlaceQuery {
	days := req.Days()
	hotelsQuery := "hotels in " + req.Destination
	if req.AccommodationPrf != "" {
		hotelsQuery = req.AccommodationPrf + " hotels in " + req.Destination
	}
	restaurantsQuery := "restaurants in " + req.Destination
	if len(req.Dietary) > 0 {
		restaurantsQuery = strings.Join(req.Dietary, " ") + " restaurants in " + req.Destination
	}

	specs := []domain.PlaceQuery{
		{Category: domain.CategoryHotels, Location: req.Destination, Query: hotelsQuery, MaxResults: FetchLimit(domain.CategoryHotels, days)},
		{Category: domain.CategoryRestaurants, Location: req.Destination, Query: restaurantsQuery, MaxResults: FetchLimit(domain.CategoryRestaurants, days)},
		{Category: domain.CategoryCafes, Location: req.Destination, Query: "cafes in " + req.Destination, MaxResults: FetchLimit(domain.CategoryCafes, days)},
		{Category: domain.CategoryAttractions, Location: req.Destination, Query: "top attractions in " + req.Destination, MaxResults: FetchLimit(domain.CategoryAttractions, days)},
	}
	seen := map[string]bool{}
	for _, interest := range req.Interests {
		interest = strings.ToLower(strings.TrimSpace(interest))
		if interest == "" || seen[interest] {
			continue
		}
		seen[interest] = true
		specs = append(specs, domain.PlaceQuery{
			Category:   domain.CategoryAttractions,
			Location:   req.Destination,
			Query:      interest + " in " + req.Destination,
			MaxResults: FetchLimit(domain.CategoryAttractions, days),
		})
	}
	return specs
}

// buildCategory dedupes, filters by rating, truncates, and assigns ids.
// The rating filter is skipped when it would empty a category that had
// raw data.
func buildCategory(cat domain.Category, raw []domain.RawPlace, limit int) []domain.PlaceCandidate {
	deduped := dedupe(raw)

	var kept []domain.RawPlace
	min := minRating(cat)
	for _, p := range deduped {
		if p.Rating >= min {
			kept = append(kept, p)
		}
	}
	if len(kept) == 0 {
		kept = deduped
	}

	if len(kept) > limit {
		kept = kept[:limit]
	}

	out := make([]domain.PlaceCandidate, 0, len(kept))
	for i, p := range kept {
		id := p.ID
		if id == "" {
			id = fmt.Sprintf("%s_%03d", cat, i+1)
		}
		out = append(out, domain.PlaceCandidate{
			ID:       id,
			Category: cat,
			Title:    p.Title,
			Rating:   p.Rating,
			Price:    p.Price,
			Address:  p.Address,
			Coords:   p.Coords,
			Raw:      p.Raw,
		})
	}
	return out
}

// dedupe drops repeats by provider id, then by normalized title.
func dedupe(in []domain.RawPlace) []domain.RawPlace {
	seenID := make(map[string]bool, len(in))
	seenTitle := make(map[string]bool, len(in))
	out := make([]domain.RawPlace, 0, len(in))
	for _, p := range in {
		if p.ID != "" {
			if seenID[p.ID] {
				continue
			}
			seenID[p.ID] = true
		}
		title := strings.ToLower(strings.TrimSpace(p.Title))
		if title != "" {
			if seenTitle[title] {
				continue
			}
			seenTitle[title] = true
		}
		out = append(out, p)
	}
	return out
}
