package domain

import "time"

// TripRequest carries the trip constraints for one pipeline run.
type TripRequest struct {
	Destination      string
	StartDate        time.Time
	EndDate          time.Time
	Travelers        int
	Budget           string // numeric or qualitative ("mid-range")
	Interests        []string
	Dietary          []string
	AccommodationPrf string
	Pace             string // relaxed|moderate|packed
}

// Days returns the inclusive trip length, never below 1.
func (r TripRequest) Days() int {
	d := int(r.EndDate.Sub(r.StartDate).Hours()/24) + 1
	if d < 1 {
		return 1
	}
	return d
}

// TripPlan is the final payload assembled by the pipeline.
type TripPlan struct {
	Itinerary        Itinerary                    `json:"itinerary"`
	PlaceDetails     map[string]PlaceCandidate    `json:"placeDetails"`
	AdditionalPlaces map[Category][]PlaceCandidate `json:"additionalPlaces"`
	Budget           BudgetBreakdown              `json:"budget"`
	Weather          *WeatherReport               `json:"weather"` // nil when degraded
	Metadata         PlanMetadata                 `json:"metadata"`
}

type PlanMetadata struct {
	RequestID    string    `json:"requestId"`
	GeneratedAt  time.Time `json:"generatedAt"`
	TotalFetched int       `json:"totalFetched"`
	TotalUsed    int       `json:"totalUsed"`
	TotalUnused  int       `json:"totalUnused"`
	Fallback     bool      `json:"fallback"`
	Errors       []string  `json:"errors,omitempty"`
}
