package geo

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/corey-alix/trip-planner-app/internal/models"
)

func TestNearestPoint(t *testing.T) {
	tests := []struct {
		name     string
		points   []models.LatLng
		bias     models.LatLng
		expected models.LatLng
		index    int
		ok       bool
	}{
		{
			name:     "closer of two",
			points:   []models.LatLng{{Lat: 0, Lng: 0}, {Lat: 10, Lng: 10}},
			bias:     models.LatLng{Lat: 1, Lng: 1},
			expected: models.LatLng{Lat: 0, Lng: 0},
			index:    0,
			ok:       true,
		},
		{
			name:     "later candidate wins when strictly closer",
			points:   []models.LatLng{{Lat: 0, Lng: 0}, {Lat: 10, Lng: 10}},
			bias:     models.LatLng{Lat: 9, Lng: 9},
			expected: models.LatLng{Lat: 10, Lng: 10},
			index:    1,
			ok:       true,
		},
		{
			name:     "tie resolves to first",
			points:   []models.LatLng{{Lat: 0, Lng: 2}, {Lat: 0, Lng: -2}},
			bias:     models.LatLng{},
			expected: models.LatLng{Lat: 0, Lng: 2},
			index:    0,
			ok:       true,
		},
		{
			name:  "empty list",
			bias:  models.LatLng{Lat: 1, Lng: 1},
			index: -1,
			ok:    false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			point, index, ok := NearestPoint(tt.points, tt.bias)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.index, index)
			assert.Equal(t, tt.expected, point)
		})
	}
}

func TestNearestUsesPlanarDistance(t *testing.T) {
	type place struct {
		name string
		at   models.LatLng
	}
	// Near the pole a longitude step is short on the ground but counts in full here.
	places := []place{
		{name: "east", at: models.LatLng{Lat: 80, Lng: 3}},
		{name: "south", at: models.LatLng{Lat: 78, Lng: 0}},
	}

	idx, ok := Nearest(places, func(p place) models.LatLng { return p.at }, models.LatLng{Lat: 80, Lng: 0})
	assert.True(t, ok)
	assert.Equal(t, "south", places[idx].name)
}

func TestPlanarDistance(t *testing.T) {
	assert.InDelta(t, 5.0, PlanarDistance(models.LatLng{Lat: 0, Lng: 0}, models.LatLng{Lat: 4, Lng: 3}), 1e-9)
	assert.Zero(t, PlanarDistance(models.LatLng{Lat: 1, Lng: 1}, models.LatLng{Lat: 1, Lng: 1}))
}
