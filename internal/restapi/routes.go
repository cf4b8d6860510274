package restapi

import (
	"net/http"
	"net/http/pprof"

	"github.com/julienschmidt/httprouter"
)

type handlerFunc func(w http.ResponseWriter, r *http.Request)

// validateAPIKey applies the per-key rate limit and rejects unknown keys.
func validateAPIKey(api *RestAPI, finalHandler handlerFunc) http.Handler {
	checked := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if api.RequestHasInvalidAPIKey(r) {
			api.invalidAPIKeyResponse(w, r)
			return
		}
		finalHandler(w, r)
	})
	if api.rateLimiter == nil {
		return checked
	}
	return api.rateLimiter.Handler(checked)
}

// RegisterPprofHandlers exposes the runtime profiles under /debug/pprof.
func RegisterPprofHandlers(router *httprouter.Router) {
	router.HandlerFunc(http.MethodGet, "/debug/pprof/", pprof.Index)
	router.HandlerFunc(http.MethodGet, "/debug/pprof/cmdline", pprof.Cmdline)
	router.HandlerFunc(http.MethodGet, "/debug/pprof/profile", pprof.Profile)
	router.HandlerFunc(http.MethodGet, "/debug/pprof/symbol", pprof.Symbol)
	router.HandlerFunc(http.MethodGet, "/debug/pprof/trace", pprof.Trace)
}

func (api *RestAPI) SetRoutes(router *httprouter.Router) {
	router.Handler(http.MethodGet, "/api/route.json", validateAPIKey(api, api.routeHandler))

	router.Handler(http.MethodGet, "/api/waypoints.json", validateAPIKey(api, api.listWaypointsHandler))
	router.Handler(http.MethodPost, "/api/waypoints.json", validateAPIKey(api, api.createWaypointHandler))
	router.Handler(http.MethodPatch, "/api/waypoints/:id", validateAPIKey(api, api.updateWaypointHandler))
	router.Handler(http.MethodDelete, "/api/waypoints/:id", validateAPIKey(api, api.deleteWaypointHandler))
	router.Handler(http.MethodPost, "/api/waypoints/:id/move-backward", validateAPIKey(api, api.moveBackwardHandler))
	router.Handler(http.MethodPost, "/api/waypoints/:id/insert-stop", validateAPIKey(api, api.insertStopHandler))
	router.Handler(http.MethodPost, "/api/waypoints/:id/overnight", validateAPIKey(api, api.overnightHandler))
	router.Handler(http.MethodGet, "/api/waypoints/:id/directions", validateAPIKey(api, api.directionsHandler))
	router.Handler(http.MethodGet, "/api/waypoints/:id/neighbor", validateAPIKey(api, api.neighborHandler))
	router.Handler(http.MethodPost, "/api/waypoints/:id/geolocate", validateAPIKey(api, api.geolocateHandler))

	router.Handler(http.MethodGet, "/api/export.json", validateAPIKey(api, api.exportHandler))
	router.Handler(http.MethodPost, "/api/import.json", validateAPIKey(api, api.importHandler))

	router.Handler(http.MethodGet, "/api/map-view.json", validateAPIKey(api, api.mapViewHandler))
	router.Handler(http.MethodPut, "/api/map-view.json", validateAPIKey(api, api.saveMapViewHandler))

	router.Handler(http.MethodPost, "/api/nearest.json", validateAPIKey(api, api.nearestHandler))
	router.Handler(http.MethodPost, "/api/search.json", validateAPIKey(api, api.searchHandler))

	router.NotFound = http.HandlerFunc(api.sendNotFound)
}
