package domain

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// kmPerDegree is the approximate length of one degree of latitude.
const kmPerDegree = 111.0

// Coordinate is a WGS-84 latitude/longitude pair.
type Coordinate struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// BoundingBox is an axis-aligned lat/lng rectangle.
type BoundingBox struct {
	West  float64
	South float64
	East  float64
	North float64
}

// IndiaBounds is the rectangle used to decide whether an event is in India.
var IndiaBounds = BoundingBox{West: 68.1, South: 6.7, East: 97.4, North: 35.5}

// Contains reports whether the point lies in the box, edges included.
func (b BoundingBox) Contains(lat, lng float64) bool {
	return lat >= b.South && lat <= b.North && lng >= b.West && lng <= b.East
}

// String renders the box in the "west,south,east,north" form ParseBBox reads.
func (b BoundingBox) String() string {
	return fmt.Sprintf("%g,%g,%g,%g", b.West, b.South, b.East, b.North)
}

// ErrInvalidCoordinate is returned for latitudes outside [-90, 90],
// longitudes outside [-180, 180] and non-finite values.
var ErrInvalidCoordinate = errors.New("invalid coordinate")

// ValidateCoordinate checks that lat,lng is a real point on the globe.
func ValidateCoordinate(lat, lng float64) error {
	if math.IsNaN(lat) || math.IsNaN(lng) || lat < -90 || lat > 90 || lng < -180 || lng > 180 {
		return fmt.Errorf("%w: %g,%g", ErrInvalidCoordinate, lat, lng)
	}
	return nil
}

// InIndia reports whether the point lies inside IndiaBounds.
func InIndia(lat, lng float64) bool {
	return IndiaBounds.Contains(lat, lng)
}

// ParseBBox parses a "west,south,east,north" string.
func ParseBBox(s string) (BoundingBox, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 4 {
		return BoundingBox{}, fmt.Errorf("bbox %q: want 4 comma-separated values, got %d", s, len(parts))
	}

	var vals [4]float64
	for i, p := range parts {
		v, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
			return BoundingBox{}, fmt.Errorf("bbox %q: invalid number %q", s, p)
		}
		vals[i] = v
	}

	b := BoundingBox{West: vals[0], South: vals[1], East: vals[2], North: vals[3]}
	if b.South > b.North || b.West > b.East {
		return BoundingBox{}, fmt.Errorf("bbox %q: south/west must not exceed north/east", s)
	}
	return b, nil
}

// SampleGrid divides the box into gridSize x gridSize cells and returns the
// south-west corner of every stride-th cell in each direction, row by row.
func SampleGrid(b BoundingBox, gridSize, stride int) []Coordinate {
	if gridSize <= 0 || stride <= 0 {
		return nil
	}

	latStep := (b.North - b.South) / float64(gridSize)
	lngStep := (b.East - b.West) / float64(gridSize)

	perAxis := (gridSize + stride - 1) / stride
	points := make([]Coordinate, 0, perAxis*perAxis)
	for i := 0; i < gridSize; i += stride {
		for j := 0; j < gridSize; j += stride {
			points = append(points, Coordinate{
				Lat: b.South + float64(i)*latStep,
				Lng: b.West + float64(j)*lngStep,
			})
		}
	}
	return points
}

// ApproxDistanceKM returns the equirectangular distance between two points.
// Good enough for ranking places within a few kilometres of each other.
func ApproxDistanceKM(lat1, lng1, lat2, lng2 float64) float64 {
	dy := (lat2 - lat1) * kmPerDegree
	dx := (lng2 - lng1) * kmPerDegree * math.Cos(lat1*math.Pi/180)
	return math.Sqrt(dy*dy + dx*dx)
}
