package places

import (
	"strconv"
	"strings"

	"tripweaver/internal/domain"
)

/********** alias registries (single source of truth) **********/

// Provider deployments disagree on field names; each logical field maps
// from the first non-empty alias, dot paths allowed.
var placeAliases = map[string][]string{
	"id":      {"id", "place_id", "placeId", "reference"},
	"title":   {"title", "name", "displayName.text", "display_name"},
	"price":   {"priceSignal", "price_signal", "price", "price_range", "priceRange", "cost"},
	"address": {"address", "formatted_address", "formattedAddress", "vicinity", "location.address"},
}

var ratingAliases = []string{"rating", "score", "rating.value", "user_rating", "stars"}
var coordAliases = map[string][]string{
	"lat": {"lat", "latitude", "coordinates.lat", "geometry.location.lat", "location.latitude"},
	"lon": {"lon", "lng", "longitude", "coordinates.lon", "geometry.location.lng", "location.longitude"},
}

func mapRawPlace(m map[string]any) domain.RawPlace {
	p := domain.RawPlace{
		ID:      firstStrAlias(m, "id"),
		Title:   firstStrAlias(m, "title"),
		Price:   firstStrAlias(m, "price"),
		Address: firstStrAlias(m, "address"),
		Raw:     m,
	}
	if r := getFloatFlexible(m, ratingAliases...); r != nil {
		p.Rating = *r
	}
	lat := getFloatFlexible(m, coordAliases["lat"]...)
	lon := getFloatFlexible(m, coordAliases["lon"]...)
	if lat != nil && lon != nil {
		p.Coords = &domain.Coords{Lat: *lat, Lon: *lon}
	}
	return p
}

/********** tiny helpers **********/

// lookupAny: safe nested lookup with dot paths on maps.
func lookupAny(m map[string]any, path string) any {
	cur := any(m)
	for _, part := range strings.Split(path, ".") {
		obj, ok := cur.(map[string]any)
		if !ok {
			return nil
		}
		v, ok := obj[part]
		if !ok {
			return nil
		}
		cur = v
	}
	return cur
}

func lookupStr(m map[string]any, path string) string {
	if v := lookupAny(m, path); v != nil {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}

// firstStrAlias: first non-empty string for a named alias set.
func firstStrAlias(m map[string]any, key string) string {
	for _, p := range placeAliases[key] {
		if s := lookupStr(m, p); s != "" {
			return s
		}
	}
	return ""
}

// getFloatFlexible: number from several paths (float64/int/string like "4,5").
func getFloatFlexible(m map[string]any, paths ...string) *float64 {
	for _, k := range paths {
		switch v := lookupAny(m, k).(type) {
		case float64:
			f := v
			return &f
		case int:
			f := float64(v)
			return &f
		case string:
			s := strings.TrimSpace(strings.ReplaceAll(v, ",", "."))
			if s == "" {
				continue
			}
			if f, err := strconv.ParseFloat(s, 64); err == nil {
				return &f
			}
		}
	}
	return nil
}
