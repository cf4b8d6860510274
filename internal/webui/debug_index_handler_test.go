package webui

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/julienschmidt/httprouter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/corey-alix/trip-planner-app/internal/app"
	"github.com/corey-alix/trip-planner-app/internal/idgen"
	"github.com/corey-alix/trip-planner-app/internal/kvstore"
	"github.com/corey-alix/trip-planner-app/internal/logging"
	"github.com/corey-alix/trip-planner-app/internal/models"
	"github.com/corey-alix/trip-planner-app/internal/planner"
	"github.com/corey-alix/trip-planner-app/internal/waypoint"
)

func createTestWebUI(t *testing.T) *WebUI {
	t.Helper()
	ctx := context.Background()

	kv := kvstore.NewMemory()
	require.NoError(t, kvstore.Upgrade(ctx, kv))

	p := planner.New(planner.Config{
		Store:    waypoint.NewStore(kv, idgen.NewSequence(1), logging.Discard()),
		KV:       kv,
		Location: time.UTC,
	})
	require.NoError(t, p.Load(ctx))

	_, err := p.AddWaypoint(ctx, "Lighthouse", models.LatLng{Lat: 44.1, Lng: -68.2}, "")
	require.NoError(t, err)

	return &WebUI{Application: &app.Application{Logger: logging.Discard(), Planner: p}}
}

func getDebugPage(t *testing.T, webUI *WebUI, target string) (int, string) {
	t.Helper()
	router := httprouter.New()
	webUI.SetWebUIRoutes(router)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))

	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)
	assert.Equal(t, "text/html; charset=utf-8", rec.Header().Get("Content-Type"))
	return rec.Code, string(body)
}

func TestDebugIndexHandler(t *testing.T) {
	webUI := createTestWebUI(t)

	tests := []struct {
		dataType string
		title    string
		contains string
	}{
		{"route", "Route - Waypoints and View", "Lighthouse"},
		{"view", "Route - Derived View", "Polyline"},
		{"waypoints", "Route - Waypoints", "Lighthouse"},
		{"mapView", "Map - Saved View", "Zoom"},
		{"", "Choose a data type", "Please use one of the following"},
		{"bogus", "Choose a data type", "Please use one of the following"},
	}

	for _, tt := range tests {
		t.Run(tt.dataType, func(t *testing.T) {
			code, body := getDebugPage(t, webUI, "/debug/?dataType="+tt.dataType)
			assert.Equal(t, http.StatusOK, code)
			assert.Contains(t, body, "<title>"+tt.title+"</title>")
			assert.Contains(t, body, tt.contains)
			assert.Contains(t, body, `href="?dataType=waypoints"`)
		})
	}
}

func TestDebugIndexEscapesContent(t *testing.T) {
	webUI := createTestWebUI(t)
	_, err := webUI.Planner.AddWaypoint(t.Context(), "<script>alert(1)</script>", models.LatLng{}, "")
	require.NoError(t, err)

	_, body := getDebugPage(t, webUI, "/debug/?dataType=waypoints")
	assert.NotContains(t, body, "<script>alert(1)</script>")
	assert.Contains(t, body, "&lt;script&gt;")
}
