package restapi

import (
	"net/http"
	"strings"

	"github.com/corey-alix/trip-planner-app/internal/models"
)

type searchRequest struct {
	Query string        `json:"query"`
	Bias  models.LatLng `json:"bias"`
}

// searchHandler geocodes the query near bias and appends the first result.
// The entry is null when the geocoder found nothing.
func (api *RestAPI) searchHandler(w http.ResponseWriter, r *http.Request) {
	var req searchRequest
	if !api.decodeBody(w, r, &req) {
		return
	}

	fieldErrors := make(map[string][]string)
	if strings.TrimSpace(req.Query) == "" {
		fieldErrors["query"] = append(fieldErrors["query"], "query is required")
	}
	validateLocation("bias", &req.Bias, fieldErrors)
	if len(fieldErrors) > 0 {
		api.validationErrorResponse(w, r, fieldErrors)
		return
	}

	wp, ok, err := api.Planner.AddFromSearch(r.Context(), req.Query, req.Bias)
	if err != nil {
		api.sendError(w, r, err)
		return
	}
	if !ok {
		api.sendResponse(w, r, models.NewEntryResponse(nil))
		return
	}
	api.sendResponse(w, r, models.NewResponse(http.StatusCreated, map[string]interface{}{"entry": wp}, "Created"))
}

// geolocateHandler moves a stop to the closest geocoder match for its text.
// The entry is null when no point result came back.
func (api *RestAPI) geolocateHandler(w http.ResponseWriter, r *http.Request) {
	id, ok := api.waypointID(w, r)
	if !ok {
		return
	}

	wp, found, err := api.Planner.Geolocate(r.Context(), id)
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
