package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRankEmergencyServices(t *testing.T) {
	amenities := []Amenity{
		{Lat: 28.70, Lng: 77.10, Tags: map[string]string{"amenity": "hospital", "name": "Far Hospital", "addr:street": "Ring Road"}},
		{Lat: 28.61, Lng: 77.20, Tags: map[string]string{"amenity": "police", "addr:full": "1 Janpath, New Delhi", "addr:street": "Janpath"}},
		{Lat: 28.64, Lng: 77.23, Tags: map[string]string{"name": "Mystery"}},
	}

	services := RankEmergencyServices(28.6139, 77.209, amenities, MaxNearby)

	require.Len(t, services, 3)

	assert.Equal(t, 1, services[0].ID, "ids keep the input position")
	assert.Equal(t, "Unnamed police", services[0].Name)
	assert.Equal(t, "police", services[0].Type)
	assert.Equal(t, "1 Janpath, New Delhi", services[0].Address, "addr:full wins over addr:street")

	assert.Equal(t, "Mystery", services[1].Name)
	assert.Equal(t, "unknown", services[1].Type)
	assert.Empty(t, services[1].Address)

	assert.Equal(t, 0, services[2].ID)
	assert.Equal(t, "Ring Road", services[2].Address)

	for i := 1; i < len(services); i++ {
		assert.LessOrEqual(t, services[i-1].Distance, services[i].Distance)
	}
}

func TestRankEmergencyServices_Limit(t *testing.T) {
	amenities := make([]Amenity, 0, 15)
	for i := range 15 {
		amenities = append(amenities, Amenity{Lat: 28 + float64(i)*0.01, Lng: 77, Tags: map[string]string{"amenity": "fire_station"}})
	}

	services := RankEmergencyServices(28, 77, amenities, MaxNearby)

	require.Len(t, services, MaxNearby)
	assert.Equal(t, 0, services[0].ID)
	assert.InDelta(t, 0, services[0].Distance, 1e-9)
	assert.Equal(t, 9, services[9].ID)
}

func TestParseAmenityTypes(t *testing.T) {
	got, err := ParseAmenityTypes(nil)
	require.NoError(t, err)
	assert.Equal(t, DefaultAmenityTypes, got)

	got, err = ParseAmenityTypes([]string{" hospital ", "pharmacy", "hospital"})
	require.NoError(t, err)
	assert.Equal(t, []string{"hospital", "pharmacy"}, got)
}

func TestParseAmenityTypes_RejectsQueryInjection(t *testing.T) {
	for _, bad := range []string{`hospital"];node(1);out;`, "Hospital", "fire-station", "", "a|b"} {
		_, err := ParseAmenityTypes([]string{bad})
		require.ErrorIs(t, err, ErrInvalidAmenityType, bad)
	}
}
