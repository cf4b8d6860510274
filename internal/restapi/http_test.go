package restapi

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/julienschmidt/httprouter"
	"github.com/stretchr/testify/require"

	"github.com/corey-alix/trip-planner-app/internal/app"
	"github.com/corey-alix/trip-planner-app/internal/appconf"
	"github.com/corey-alix/trip-planner-app/internal/geocode"
	"github.com/corey-alix/trip-planner-app/internal/idgen"
	"github.com/corey-alix/trip-planner-app/internal/kvstore"
	"github.com/corey-alix/trip-planner-app/internal/logging"
	"github.com/corey-alix/trip-planner-app/internal/models"
	"github.com/corey-alix/trip-planner-app/internal/planner"
	"github.com/corey-alix/trip-planner-app/internal/waypoint"
)

func createTestApi(t *testing.T) *RestAPI {
	t.Helper()
	return createTestApiWithGeocoder(t, nil)
}

// createTestApiWithGeocoder backs search and geolocate with g. A nil g leaves
// the planner without a geocoder.
func createTestApiWithGeocoder(t *testing.T, g geocode.Geocoder) *RestAPI {
	t.Helper()

	ctx := context.Background()
	kv := kvstore.NewMemory()
	require.NoError(t, kvstore.Upgrade(ctx, kv))

	logger := logging.Discard()
	store := waypoint.NewStore(kv, idgen.NewSequence(1), logger)
	p := planner.New(planner.Config{
		Store:    store,
		KV:       kv,
		Searcher: geocode.NewSearcher(g),
		Location: time.UTC,
		Logger:   logger,
	})
	require.NoError(t, p.Load(ctx))

	application := &app.Application{
		Config: appconf.Config{
			Env:       appconf.EnvFlagToEnvironment("test"),
			ApiKeys:   []string{"TEST"},
			RateLimit: 100,
		},
		Logger:  logger,
		Planner: p,
	}

	api := NewRestAPI(application)
	t.Cleanup(api.Close)
	return api
}

func newTestServer(t *testing.T, api *RestAPI) *httptest.Server {
	t.Helper()
	router := httprouter.New()
	api.SetRoutes(router)
	server := httptest.NewServer(router)
	t.Cleanup(server.Close)
	return server
}

// serveApiAndRetrieveEndpoint issues a GET against a fresh server and decodes the envelope.
func serveApiAndRetrieveEndpoint(t *testing.T, api *RestAPI, endpoint string) (*http.Response, models.ResponseModel) {
	return requestEndpoint(t, newTestServer(t, api), http.MethodGet, endpoint, "")
}

func requestEndpoint(t *testing.T, server *httptest.Server, method, endpoint, body string) (*http.Response, models.ResponseModel) {
	t.Helper()

	resp, raw := requestRaw(t, server, method, endpoint, body)

	var response models.ResponseModel
	err := json.Unmarshal(raw, &response)
	require.NoError(t, err)

	return resp, response
}

// requestRaw returns the undecoded body, for exports and validation errors.
func requestRaw(t *testing.T, server *httptest.Server, method, endpoint, body string) (*http.Response, []byte) {
	t.Helper()

	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req, err := http.NewRequest(method, server.URL+endpoint, reader)
	require.NoError(t, err)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer logging.SafeCloseWithLogging(resp.Body,
		slog.Default().With(slog.String("component", "test")),
		"http_response_body")

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	return resp, raw
}

// entry pulls data.entry out of a decoded envelope.
func entry(t *testing.T, response models.ResponseModel) map[string]interface{} {
	t.Helper()
	data, ok := response.Data.(map[string]interface{})
	require.True(t, ok, "data should be an object")
	e, ok := data["entry"].(map[string]interface{})
	require.True(t, ok, "entry should be an object")
	return e
}

func centerAt(lat, lng float64) models.LatLng {
	return models.LatLng{Lat: lat, Lng: lng}
}

// fieldErrors decodes a validation error body.
func fieldErrors(t *testing.T, raw []byte) map[string][]string {
	t.Helper()
	var body struct {
		FieldErrors map[string][]string `json:"fieldErrors"`
	}
	require.NoError(t, json.Unmarshal(raw, &body))
	return body.FieldErrors
}
