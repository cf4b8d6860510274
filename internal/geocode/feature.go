// Package geocode interprets geocoder results and guards against stale responses.
package geocode

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/corey-alix/trip-planner-app/internal/apperrors"
	"github.com/corey-alix/trip-planner-app/internal/geo"
	"github.com/corey-alix/trip-planner-app/internal/models"
)

const (
	FeatureType = "Feature"
	PointType   = "Point"
)

// Response is a GeoJSON FeatureCollection as returned by the geocoder.
type Response struct {
	Type     string    `json:"type"`
	Features []Feature `json:"features"`
	Query    Query     `json:"query"`
}

type Query struct {
	Text string `json:"text"`
}

type Feature struct {
	Type       string     `json:"type"`
	Properties Properties `json:"properties"`
	Geometry   Geometry   `json:"geometry"`
	// BBox is [minLng, minLat, maxLng, maxLat] when present.
	BBox []float64 `json:"bbox,omitempty"`
}

type Properties struct {
	Formatted    string  `json:"formatted"`
	Name         string  `json:"name,omitempty"`
	AddressLine1 string  `json:"address_line1"`
	AddressLine2 string  `json:"address_line2"`
	Street       string  `json:"street,omitempty"`
	City         string  `json:"city"`
	County       string  `json:"county"`
	State        string  `json:"state"`
	Country      string  `json:"country"`
	CountryCode  string  `json:"country_code"`
	Category     string  `json:"category"`
	ResultType   string  `json:"result_type"`
	PlaceID      string  `json:"place_id"`
	Lat          float64 `json:"lat"`
	Lon          float64 `json:"lon"`
}

// Geometry coordinates are [lng, lat] for points.
type Geometry struct {
	Type        string    `json:"type"`
	Coordinates []float64 `json:"coordinates"`
}

// DecodeResponse parses a geocoder response body.
func DecodeResponse(r io.Reader) (Response, error) {
	var resp Response
	if err := json.NewDecoder(r).Decode(&resp); err != nil {
		return Response{}, fmt.Errorf("%w: geocoder response: %w", apperrors.ParseError, err)
	}
	return resp, nil
}

// FeatureText picks the display text for a feature based on its result type.
func FeatureText(f Feature) string {
	if f.Type != FeatureType {
		return f.Properties.Formatted
	}

	switch f.Properties.ResultType {
	case "building":
		return f.Properties.AddressLine1
	case "city":
		return f.Properties.City
	case "state":
		return f.Properties.State
	case "county":
		return f.Properties.Name
	case "street":
		return f.Properties.Street
	default:
		return f.Properties.Formatted
	}
}

// FeatureLocation returns the point of a Point feature, or the centre of its
// bounding box otherwise.
func FeatureLocation(f Feature) (models.LatLng, bool) {
	if f.Geometry.Type == PointType {
		if len(f.Geometry.Coordinates) < 2 {
			return models.LatLng{}, false
		}
		return models.LatLng{Lat: f.Geometry.Coordinates[1], Lng: f.Geometry.Coordinates[0]}, true
	}
	if len(f.BBox) >= 4 {
		return models.LatLng{
			Lat: (f.BBox[1] + f.BBox[3]) / 2,
			Lng: (f.BBox[0] + f.BBox[2]) / 2,
		}, true
	}
	return models.LatLng{}, false
}

// ClosestFeature returns the Point feature nearest to bias. Other geometries
// are skipped.
func ClosestFeature(resp Response, bias models.LatLng) (Feature, bool) {
	points := make([]Feature, 0, len(resp.Features))
	for _, f := range resp.Features {
		if f.Geometry.Type == PointType && len(f.Geometry.Coordinates) >= 2 {
			points = append(points, f)
		}
	}

	idx, ok := geo.Nearest(points, func(f Feature) models.LatLng {
		at, _ := FeatureLocation(f)
		return at
	}, bias)
	if !ok {
		return Feature{}, false
	}
	return points[idx], true
}
