package restapi

import (
	"net/http"

	"github.com/corey-alix/trip-planner-app/internal/models"
	"github.com/corey-alix/trip-planner-app/internal/planner"
)

func (api *RestAPI) directionsHandler(w http.ResponseWriter, r *http.Request) {
	id, ok := api.waypointID(w, r)
	if !ok {
		return
	}

	url, err := api.Planner.DirectionsURL(id)
	if err != nil {
		api.sendError(w, r, err)
		return
	}
	api.sendResponse(w, r, models.NewEntryResponse(map[string]string{"url": url}))
}

// neighborHandler moves the popup to the next or prior stop. The entry is
// null at either end of the route.
func (api *RestAPI) neighborHandler(w http.ResponseWriter, r *http.Request) {
	id, ok := api.waypointID(w, r)
	if !ok {
		return
	}

	action, err := planner.ParseAction(r.URL.Query().Get("direction"))
	if err != nil {
		api.validationErrorResponse(w, r, map[string][]string{
			"direction": {err.Error()},
		})
		return
	}

	wp, found, err := api.Planner.Navigate(r.Context(), id, action)
	if err != nil {
		api.sendError(w, r, err)
		return
	}
	if !found {
		api.sendResponse(w, r, models.NewEntryResponse(nil))
		return
	}
	api.sendResponse(w, r, models.NewEntryResponse(wp))
}
