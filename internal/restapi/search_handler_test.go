package restapi

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/corey-alix/trip-planner-app/internal/geocode"
	"github.com/corey-alix/trip-planner-app/internal/models"
)

func placeFeature(name string, lat, lng float64) geocode.Feature {
	return geocode.Feature{
		Type:       geocode.FeatureType,
		Properties: geocode.Properties{City: name, ResultType: "city", Formatted: name},
		Geometry:   geocode.Geometry{Type: geocode.PointType, Coordinates: []float64{lng, lat}},
	}
}

// townGeocoder answers "nowhere" with nothing and every other query with two towns.
var townGeocoder = geocode.GeocoderFunc(func(ctx context.Context, query string, bias models.LatLng) (geocode.Response, error) {
	if query == "nowhere" {
		return geocode.Response{}, nil
	}
	return geocode.Response{Features: []geocode.Feature{
		placeFeature("Boone", 36.21, -81.67),
		placeFeature("Near", bias.Lat+0.1, bias.Lng+0.1),
	}}, nil
})

func TestSearchHandler(t *testing.T) {
	api := createTestApiWithGeocoder(t, townGeocoder)
	server := newTestServer(t, api)

	resp, model := requestEndpoint(t, server, http.MethodPost, "/api/search.json"+testKey,
		`{"query":"boone","bias":{"lat":36,"lng":-81}}`)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	e := entry(t, model)
	assert.Equal(t, "Boone", e["text"])
	assert.Equal(t, "search: boone", e["about"])
	assert.Equal(t, []string{"Boone"}, routeTexts(api))

	resp, model = requestEndpoint(t, server, http.MethodPost, "/api/search.json"+testKey,
		`{"query":"nowhere","bias":{"lat":36,"lng":-81}}`)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Nil(t, model.Data.(map[string]interface{})["entry"])
	assert.Len(t, api.Planner.Waypoints(), 1)

	tests := []struct {
		name   string
		body   string
		status int
		field  string
	}{
		{"missing query", `{"query":"  ","bias":{"lat":0,"lng":0}}`, http.StatusBadRequest, "query"},
		{"bias out of range", `{"query":"boone","bias":{"lat":0,"lng":300}}`, http.StatusBadRequest, "bias.lng"},
		{"markup in query", `{"query":"<b>boone</b>","bias":{"lat":0,"lng":0}}`, http.StatusBadRequest, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, raw := requestRaw(t, server, http.MethodPost, "/api/search.json"+testKey, tt.body)
			assert.Equal(t, tt.status, resp.StatusCode)
			if tt.field != "" {
				assert.Contains(t, fieldErrors(t, raw), tt.field)
			}
		})
	}
	assert.Len(t, api.Planner.Waypoints(), 1)
}

func TestSearchWithoutGeocoder(t *testing.T) {
	api := createTestApi(t)
	resp, model := requestEndpoint(t, newTestServer(t, api), http.MethodPost, "/api/search.json"+testKey,
		`{"query":"boone","bias":{"lat":0,"lng":0}}`)
	assert.Equal(t, http.StatusBadGateway, resp.StatusCode)
	assert.Equal(t, http.StatusBadGateway, model.Code)
	assert.Empty(t, api.Planner.Waypoints())
}

func TestGeolocateHandler(t *testing.T) {
	api := createTestApiWithGeocoder(t, townGeocoder)
	server := newTestServer(t, api)
	_, err := api.Planner.AddWaypoint(t.Context(), "somewhere", centerAt(35, -80), "")
	require.NoError(t, err)
	_, err = api.Planner.AddWaypoint(t.Context(), "nowhere", centerAt(10, 10), "")
	require.NoError(t, err)

	resp, model := requestEndpoint(t, server, http.MethodPost, "/api/waypoints/1/geolocate"+testKey, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	e := entry(t, model)
	assert.Equal(t, "Near", e["text"])
	center := e["center"].(map[string]interface{})
	assert.InDelta(t, 35.1, center["lat"], 1e-9)
	assert.InDelta(t, -79.9, center["lng"], 1e-9)

	resp, model = requestEndpoint(t, server, http.MethodPost, "/api/waypoints/2/geolocate"+testKey, "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Nil(t, model.Data.(map[string]interface{})["entry"])

	resp, _ = requestEndpoint(t, server, http.MethodPost, "/api/waypoints/404/geolocate"+testKey, "")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}
