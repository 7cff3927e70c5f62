package geo

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHaversineSymmetry(t *testing.T) {
	tests := []struct {
		name                   string
		lat1, lon1, lat2, lon2 float64
	}{
		{"shanghai to london", 31.2304, 121.4737, 51.509865, -0.118092},
		{"tokyo to dunstable", 35.6895, 139.6917, 51.8821, -0.5057},
		{"across equator", -33.8688, 151.2093, 40.7128, -74.0060},
		{"across date line", 35.6895, 139.6917, 37.7749, -122.4194},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ab := Haversine(tt.lat1, tt.lon1, tt.lat2, tt.lon2)
			ba := Haversine(tt.lat2, tt.lon2, tt.lat1, tt.lon1)
			assert.InDelta(t, ab, ba, 1e-9)
			assert.Greater(t, ab, 0.0)
		})
	}
}

func TestHaversineIdentity(t *testing.T) {
	assert.InDelta(t, 0, Haversine(51.8821, -0.5057, 51.8821, -0.5057), 1e-9)
}

func TestHaversineKnownDistance(t *testing.T) {
	// Shanghai -> London is roughly 9200 km.
	d := Haversine(31.2304, 121.4737, 51.509865, -0.118092)
	assert.InDelta(t, 9200, d, 100)
}

func TestDistanceKMRounding(t *testing.T) {
	d := DistanceKM(OriginHub("China"), UKHub)
	assert.InDelta(t, d, math.Round(d*10)/10, 1e-9) // one decimal place
	assert.Greater(t, d, 6000.0)
}

func TestOriginHubFallback(t *testing.T) {
	h := OriginHub("Atlantis")
	assert.Equal(t, "London", h.City)
	assert.False(t, HasOriginHub("Atlantis"))
	assert.Equal(t, "Unknown", OriginCity("Atlantis"))
	assert.Equal(t, "Shanghai", OriginCity("China"))
}

func TestFulfillmentHubFallback(t *testing.T) {
	assert.Equal(t, "Dunstable", FulfillmentHub("Nowhere").City)
	assert.Equal(t, "Frankfurt", FulfillmentHub("Germany").City)
}
