package app

import (
	"fmt"
	"strings"

	"github.com/samber/lo"

	"tripweaver/internal/domain"
)

// Per-day slot counts the model is instructed to fill.
var paceSlots = map[string]int{
	"relaxed":  2,
	"moderate": 3,
	"packed":   4,
}

// promptCandidates returns K, the per-category candidate count offered
// to the model. The full catalog is never sent; K grows mildly with
// trip length to stay inside the token budget.
func promptCandidates(days int) int {
	k := 4 + days/2
	if k > 8 {
		k = 8
	}
	return k
}

// ComposePrompt renders the generation prompt: a compact per-category
// candidate summary, the trip constraints, and the structural rules the
// reconciler depends on.
func ComposePrompt(req domain.TripRequest, snap domain.CatalogSnapshot) string {
	days := req.Days()
	k := promptCandidates(days)
	activities := paceSlots[strings.ToLower(req.Pace)]
	if activities == 0 {
		activities = paceSlots["moderate"]
	}

	var b strings.Builder
	fmt.Fprintf(&b, "You are a travel planner. Compose a %d-day itinerary for %s, %s to %s, for %d traveler(s).\n",
		days, req.Destination, req.StartDate.Format("2006-01-02"), req.EndDate.Format("2006-01-02"), req.Travelers)
	if req.Budget != "" {
		fmt.Fprintf(&b, "Budget: %s.\n", req.Budget)
	}
	if len(req.Interests) > 0 {
		fmt.Fprintf(&b, "Interests: %s.\n", strings.Join(lo.Uniq(req.Interests), ", "))
	}
	if len(req.Dietary) > 0 {
		fmt.Fprintf(&b, "Dietary preferences: %s.\n", strings.Join(req.Dietary, ", "))
	}
	if req.AccommodationPrf != "" {
		fmt.Fprintf(&b, "Accommodation preference: %s.\n", req.AccommodationPrf)
	}

	b.WriteString("\nUse only places from this catalog, referenced by id:\n")
	for _, cat := range domain.Categories() {
		candidates := lo.Slice(snap[cat], 0, k)
		if len(candidates) == 0 {
			continue
		}
		fmt.Fprintf(&b, "\n%s:\n", strings.ToUpper(string(cat)))
		for _, p := range candidates {
			fmt.Fprintf(&b, "- %s: %s (\u2605%.1f)\n", p.ID, p.Title, p.Rating)
		}
	}

	fmt.Fprintf(&b, `
Rules:
- Respond with a single JSON object only. No prose, no Markdown fences.
- Every activity and meal carries a "placeId" from the catalog above, or "" when none fits.
- Never reuse a placeId, except the chosen hotel id, which may appear exactly twice: once in a check-in activity on day 1 and once in a check-out activity on the last day (both with "type":"accommodation").
- Each day has exactly %d activities, 3 meals (breakfast, lunch, dinner), and 1 transport entry.
- Include 2 accommodationSuggestions drawn from the hotels above; list the chosen hotel first.

JSON shape:
{
  "destination": "...",
  "days": [
    {
      "day": 1,
      "date": "YYYY-MM-DD",
      "theme": "...",
      "activities": [{"placeId":"...","name":"...","type":"sightseeing","description":"...","startTime":"09:00","duration":"2h"}],
      "meals": [{"placeId":"...","name":"...","mealType":"breakfast","time":"08:00"}],
      "transport": [{"mode":"metro","from":"...","to":"...","priceSignal":"$5"}]
    }
  ],
  "accommodationSuggestions": [{"placeId":"...","name":"...","priceSignal":"$120"}],
  "totalBudgetEstimate": 0
}
`, activities)
	return b.String()
}
