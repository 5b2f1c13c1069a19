package app

import (
	"strings"

	"tripweaver/internal/domain"
)

// ReconcileStats summarizes what reconciliation had to change.
type ReconcileStats struct {
	Substituted int // ids rewired to an unused catalog id
	Dropped     int // ids absent from the catalog, blanked with no replacement
	Gaps        int // duplicates retained because the category was exhausted
}

type reconciler struct {
	snap        domain.CatalogSnapshot
	used        map[string]bool
	order       []string
	hotelOrig   string // accommodation id as authored by the model
	hotelID     string // accommodation id as resolved against the catalog
	hotelPinned bool
	hotelSlots  int // day-slot appearances of the accommodation id
	stats       ReconcileStats
}

// Reconcile rewrites it in place so that every non-empty placeId
// resolves in the catalog and appears at most once, except the chosen
// accommodation id which may appear twice on accommodation slots
// (check-in and check-out). Traversal order is fixed — accommodation
// suggestions, then days in index order, activities before meals — so
// the outcome is reproducible for identical inputs. Transport slots
// carry no place id and are skipped.
func Reconcile(it *domain.Itinerary, snap domain.CatalogSnapshot) ReconcileStats {
	r := &reconciler{snap: snap, used: make(map[string]bool)}

	for i := range it.Accommodation {
		if id := it.Accommodation[i].PlaceID; r.hotelOrig == "" && id != "" {
			r.hotelOrig = id
		}
		it.Accommodation[i].PlaceID = r.resolve(it.Accommodation[i].PlaceID, true, true)
	}
	for d := range it.Days {
		day := &it.Days[d]
		for i := range day.Activities {
			a := &day.Activities[i]
			a.PlaceID = r.resolve(a.PlaceID, isAccommodationSlot(a.Type), false)
		}
		for i := range day.Meals {
			day.Meals[i].PlaceID = r.resolve(day.Meals[i].PlaceID, false, false)
		}
	}

	it.PlaceIDsUsed = r.order
	return r.stats
}

func (r *reconciler) resolve(id string, accommodation, suggestion bool) string {
	if id == "" {
		return ""
	}
	if accommodation {
		if r.hotelOrig == "" {
			r.hotelOrig = id
		}
		if id == r.hotelOrig {
			return r.resolveHotel(id, suggestion)
		}
	}
	return r.resolveOrdinary(id)
}

// resolveHotel handles the accommodation id. The first appearance
// anywhere pins the resolved id, substituting when the model invented
// one. Suggestion entries reuse the pinned id freely; day slots get
// two appearances (check-in and check-out) before counting as
// ordinary duplicates.
func (r *reconciler) resolveHotel(id string, suggestion bool) string {
	if !r.hotelPinned {
		r.hotelPinned = true
		if _, ok := r.snap.Find(id); !ok {
			sub, found := r.snap.FirstUnused(domain.CategoryFromID(id), r.used)
			if !found {
				r.stats.Dropped++
				return ""
			}
			r.stats.Substituted++
			id = sub
		}
		r.hotelID = id
		r.mark(id)
		if !suggestion {
			r.hotelSlots++
		}
		return id
	}
	if r.hotelID == "" {
		return ""
	}
	if suggestion {
		return r.hotelID
	}
	if r.hotelSlots++; r.hotelSlots <= 2 {
		return r.hotelID
	}
	return r.resolveDuplicate(r.hotelID)
}

func (r *reconciler) resolveOrdinary(id string) string {
	if _, ok := r.snap.Find(id); !ok {
		// Hallucinated id: replace from the prefix category, or blank.
		if sub, found := r.snap.FirstUnused(domain.CategoryFromID(id), r.used); found {
			r.mark(sub)
			r.stats.Substituted++
			return sub
		}
		r.stats.Dropped++
		return ""
	}
	if r.used[id] {
		return r.resolveDuplicate(id)
	}
	r.mark(id)
	return id
}

func (r *reconciler) resolveDuplicate(id string) string {
	if sub, found := r.snap.FirstUnused(domain.CategoryFromID(id), r.used); found {
		r.mark(sub)
		r.stats.Substituted++
		return sub
	}
	// Category exhausted: the duplicate stays. Best-effort by contract,
	// not escalated.
	r.stats.Gaps++
	return id
}

func (r *reconciler) mark(id string) {
	if !r.used[id] {
		r.used[id] = true
		r.order = append(r.order, id)
	}
}

func isAccommodationSlot(slotType string) bool {
	t := strings.ToLower(strings.TrimSpace(slotType))
	return t == "accommodation" || strings.HasPrefix(t, "check")
}
