package app

import (
	"regexp"
	"strconv"

	"tripweaver/internal/domain"
)

// Enrich overlays catalog display fields (name, address, price signal)
// onto every slot whose placeId made it into PlaceIDsUsed. Model-
// authored semantic fields (description, times, types) are left alone.
func Enrich(it *domain.Itinerary, snap domain.CatalogSnapshot) {
	used := make(map[string]bool, len(it.PlaceIDsUsed))
	for _, id := range it.PlaceIDsUsed {
		used[id] = true
	}
	overlay := func(id string, name, address, price *string) {
		if id == "" || !used[id] {
			return
		}
		p, ok := snap.Find(id)
		if !ok {
			return
		}
		*name = p.Title
		*address = p.Address
		*price = p.Price
	}

	for i := range it.Accommodation {
		s := &it.Accommodation[i]
		overlay(s.PlaceID, &s.Name, &s.Address, &s.Price)
	}
	for d := range it.Days {
		day := &it.Days[d]
		for i := range day.Activities {
			a := &day.Activities[i]
			overlay(a.PlaceID, &a.Name, &a.Address, &a.Price)
		}
		for i := range day.Meals {
			m := &day.Meals[i]
			overlay(m.PlaceID, &m.Name, &m.Address, &m.Price)
		}
	}
}

// Numbers following a currency marker; a dash-joined range after one
// marker counts both ends ("$25-40" -> 25 and 40).
var priceToken = regexp.MustCompile(`[$₹]\s*(\d+(?:\.\d+)?)(?:\s*(?:-|–|to)\s*(\d+(?:\.\d+)?))?`)

// PriceEstimate turns a free-form price signal into a point estimate:
// the average of every numeric token following a `$` or `₹` marker.
// Bare numbers without a marker, and empty signals, estimate to 0.
func PriceEstimate(signal string) float64 {
	var sum float64
	n := 0
	for _, m := range priceToken.FindAllStringSubmatch(signal, -1) {
		for _, g := range m[1:] {
			if g == "" {
				continue
			}
			f, err := strconv.ParseFloat(g, 64)
			if err != nil {
				continue
			}
			sum += f
			n++
		}
	}
	if n == 0 {
		return 0
	}
	return sum / float64(n)
}

// ComputeBudget derives per-day and trip-total estimates from the
// enriched plan. Each day carries a constant nightly estimate taken
// from the first accommodation suggestion. The itinerary's top-level
// estimate is overwritten only when the computed total is strictly
// positive; a non-zero model-authored estimate otherwise survives.
func ComputeBudget(it *domain.Itinerary) domain.BudgetBreakdown {
	var nightly float64
	if len(it.Accommodation) > 0 {
		nightly = PriceEstimate(it.Accommodation[0].Price)
	}

	out := domain.BudgetBreakdown{Days: make([]domain.DayBudget, 0, len(it.Days))}
	for _, day := range it.Days {
		db := domain.DayBudget{Day: day.Day, Accommodation: nightly}
		for _, a := range day.Activities {
			db.Activities += PriceEstimate(a.Price)
		}
		for _, m := range day.Meals {
			db.Meals += PriceEstimate(m.Price)
		}
		for _, t := range day.Transport {
			db.Transport += PriceEstimate(t.Price)
		}
		db.Total = db.Activities + db.Meals + db.Transport + db.Accommodation
		out.Total += db.Total
		out.Days = append(out.Days, db)
	}
	if len(out.Days) > 0 {
		out.PerDayAverage = out.Total / float64(len(out.Days))
	}
	if out.Total > 0 {
		it.TotalBudgetEstimate = out.Total
	}
	return out
}
