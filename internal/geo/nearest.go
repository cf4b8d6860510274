// Package geo picks the candidate closest to a bias point.
package geo

import (
	"math"

	"github.com/corey-alix/trip-planner-app/internal/models"
)

// PlanarDistance is the Euclidean distance between two positions treated as
// (lng, lat) pairs. It is not geodesic.
func PlanarDistance(a, b models.LatLng) float64 {
	return math.Hypot(a.Lng-b.Lng, a.Lat-b.Lat)
}

// Nearest returns the index of the item whose coordinate is closest to bias.
// Ties go to the earliest item. ok is false when items is empty.
func Nearest[T any](items []T, coord func(T) models.LatLng, bias models.LatLng) (index int, ok bool) {
	if len(items) == 0 {
		return -1, false
	}

	closestIdx := 0
	minDistance := PlanarDistance(coord(items[0]), bias)

	for i, item := range items[1:] {
		distance := PlanarDistance(coord(item), bias)
		if distance < minDistance {
			minDistance = distance
			closestIdx = i + 1
		}
	}

	return closestIdx, true
}

// NearestPoint is Nearest over bare positions.
func NearestPoint(points []models.LatLng, bias models.LatLng) (models.LatLng, int, bool) {
	idx, ok := Nearest(points, func(p models.LatLng) models.LatLng { return p }, bias)
	if !ok {
		return models.LatLng{}, -1, false
	}
	return points[idx], idx, true
}
