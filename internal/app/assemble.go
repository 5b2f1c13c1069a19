package app

import (
	"github.com/samber/lo"

	"tripweaver/internal/domain"
)

// Assemble joins the reconciled itinerary, the catalog, the budget,
// and the (possibly nil) weather into the final payload. Catalog
// entries never referenced by the plan are grouped per category under
// additionalPlaces.
func Assemble(it domain.Itinerary, snap domain.CatalogSnapshot, budget domain.BudgetBreakdown,
	weather *domain.WeatherReport, meta domain.PlanMetadata) *domain.TripPlan {

	details := make(map[string]domain.PlaceCandidate, len(it.PlaceIDsUsed))
	for _, id := range it.PlaceIDsUsed {
		if p, ok := snap.Find(id); ok {
			details[id] = p
		}
	}

	additional := make(map[domain.Category][]domain.PlaceCandidate, len(snap))
	for _, cat := range domain.Categories() {
		rest := lo.Filter(snap[cat], func(p domain.PlaceCandidate, _ int) bool {
			_, used := details[p.ID]
			return !used
		})
		if len(rest) > 0 {
			additional[cat] = rest
		}
	}

	meta.TotalFetched = snap.Total()
	meta.TotalUsed = len(details)
	meta.TotalUnused = meta.TotalFetched - meta.TotalUsed

	return &domain.TripPlan{
		Itinerary:        it,
		PlaceDetails:     details,
		AdditionalPlaces: additional,
		Budget:           budget,
		Weather:          weather,
		Metadata:         meta,
	}
}
