package domain

// Itinerary is the day-by-day plan. The generation model produces it
// as an unvalidated draft; after reconciliation every non-empty
// placeId resolves against the catalog, no non-accommodation id
// appears twice, and the accommodation id appears at most twice.
type Itinerary struct {
	Destination         string                    `json:"destination"`
	Days                []DayPlan                 `json:"days"`
	Accommodation       []AccommodationSuggestion `json:"accommodationSuggestions"`
	TotalBudgetEstimate float64                   `json:"totalBudgetEstimate,omitempty"`
	PlaceIDsUsed        []string                  `json:"placeIdsUsed,omitempty"`
}

type DayPlan struct {
	Day        int             `json:"day"`
	Date       string          `json:"date,omitempty"`
	Theme      string          `json:"theme,omitempty"`
	Activities []ActivitySlot  `json:"activities"`
	Meals      []MealSlot      `json:"meals"`
	Transport  []TransportSlot `json:"transport,omitempty"`
}

type ActivitySlot struct {
	PlaceID     string `json:"placeId"`
	Name        string `json:"name,omitempty"`
	Type        string `json:"type,omitempty"` // sightseeing|accommodation|check-in|check-out|...
	Description string `json:"description,omitempty"`
	StartTime   string `json:"startTime,omitempty"`
	Duration    string `json:"duration,omitempty"`
	Address     string `json:"address,omitempty"`
	Price       string `json:"priceSignal,omitempty"`
}

type MealSlot struct {
	PlaceID     string `json:"placeId"`
	Name        string `json:"name,omitempty"`
	MealType    string `json:"mealType,omitempty"` // breakfast|lunch|dinner
	Time        string `json:"time,omitempty"`
	Description string `json:"description,omitempty"`
	Address     string `json:"address,omitempty"`
	Price       string `json:"priceSignal,omitempty"`
}

// TransportSlot carries no place id and is skipped by reconciliation.
type TransportSlot struct {
	Mode        string `json:"mode,omitempty"`
	From        string `json:"from,omitempty"`
	To          string `json:"to,omitempty"`
	Description string `json:"description,omitempty"`
	Price       string `json:"priceSignal,omitempty"`
}

type AccommodationSuggestion struct {
	PlaceID     string `json:"placeId"`
	Name        string `json:"name,omitempty"`
	Description string `json:"description,omitempty"`
	Address     string `json:"address,omitempty"`
	Price       string `json:"priceSignal,omitempty"` // per-night signal
}

// BudgetBreakdown holds point estimates derived from price signals of
// referenced candidates.
type BudgetBreakdown struct {
	Days          []DayBudget `json:"days"`
	Total         float64     `json:"total"`
	PerDayAverage float64     `json:"perDayAverage"`
}

type DayBudget struct {
	Day           int     `json:"day"`
	Activities    float64 `json:"activities"`
	Meals         float64 `json:"meals"`
	Transport     float64 `json:"transport"`
	Accommodation float64 `json:"accommodation"`
	Total         float64 `json:"total"`
}
