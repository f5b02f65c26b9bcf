package domain

import (
	"cmp"
	"errors"
	"fmt"
	"regexp"
	"slices"
	"strings"
)

// Nearby search defaults.
const (
	NearbyRadiusM = 5000
	MaxNearby     = 10
)

// Amenity is an OpenStreetMap node with its resolved position and tags.
type Amenity struct {
	Lat  float64
	Lng  float64
	Tags map[string]string
}

// EmergencyService is a nearby amenity ranked by distance from the caller.
type EmergencyService struct {
	ID       int     `json:"id"`
	Name     string  `json:"name"`
	Type     string  `json:"type"`
	Lat      float64 `json:"lat"`
	Lng      float64 `json:"lng"`
	Distance float64 `json:"distance"` // km
	Address  string  `json:"address,omitempty"`
}

// RankEmergencyServices converts amenities to services, sorts them nearest
// first and keeps at most limit. IDs are the amenity's position in the
// input, so they stay stable across the sort.
func RankEmergencyServices(originLat, originLng float64, amenities []Amenity, limit int) []EmergencyService {
	services := make([]EmergencyService, 0, len(amenities))
	for i, a := range amenities {
		amenity := orDefault(a.Tags["amenity"], "unknown")
		services = append(services, EmergencyService{
			ID:       i,
			Name:     orDefault(a.Tags["name"], fmt.Sprintf("Unnamed %s", amenity)),
			Type:     amenity,
			Lat:      a.Lat,
			Lng:      a.Lng,
			Distance: ApproxDistanceKM(originLat, originLng, a.Lat, a.Lng),
			Address:  orDefault(a.Tags["addr:full"], a.Tags["addr:street"]),
		})
	}

	slices.SortStableFunc(services, func(a, b EmergencyService) int {
		return cmp.Compare(a.Distance, b.Distance)
	})

	if limit > 0 && len(services) > limit {
		services = services[:limit]
	}
	return services
}

// DefaultAmenityTypes are searched when the caller names none.
var DefaultAmenityTypes = []string{"hospital", "police", "fire_station"}

// ErrInvalidAmenityType is returned for amenity names that are not plain
// OpenStreetMap tag values.
var ErrInvalidAmenityType = errors.New("invalid amenity type")

var amenityTypePattern = regexp.MustCompile(`^[a-z_]+$`)

// ParseAmenityTypes validates caller supplied amenity types. Names are
// interpolated into an Overpass QL regex, so anything beyond lowercase
// letters and underscores is rejected. An empty list yields the defaults.
func ParseAmenityTypes(types []string) ([]string, error) {
	if len(types) == 0 {
		return slices.Clone(DefaultAmenityTypes), nil
	}
	out := make([]string, 0, len(types))
	for _, t := range types {
		t = strings.TrimSpace(t)
		if !amenityTypePattern.MatchString(t) {
			return nil, fmt.Errorf("%w: %q", ErrInvalidAmenityType, t)
		}
		if !slices.Contains(out, t) {
			out = append(out, t)
		}
	}
	return out, nil
}
