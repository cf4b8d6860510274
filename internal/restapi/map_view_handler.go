package restapi

import (
	"net/http"

	"github.com/corey-alix/trip-planner-app/internal/models"
	"github.com/corey-alix/trip-planner-app/internal/utils"
)

// mapViewHandler returns the saved map position. center and zoom query
// parameters override the saved values.
func (api *RestAPI) mapViewHandler(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	center, hasCenter, fieldErrors := utils.ParseCenterParam(query, "center", nil)
	zoom, fieldErrors := utils.ParseFloatParam(query, "zoom", fieldErrors)
	hasZoom := query.Get("zoom") != "" && len(fieldErrors["zoom"]) == 0
	if hasZoom {
		if err := utils.ValidateZoom(zoom); err != nil {
			fieldErrors["zoom"] = append(fieldErrors["zoom"], err.Error())
		}
	}
	if len(fieldErrors) > 0 {
		api.validationErrorResponse(w, r, fieldErrors)
		return
	}

	view, err := api.Planner.MapView(r.Context())
	if err != nil {
		api.sendError(w, r, err)
		return
	}
	if hasCenter {
		view.Center = &center
	}
	if hasZoom {
		view.Zoom = zoom
	}
	api.sendResponse(w, r, models.NewEntryResponse(view))
}

func (api *RestAPI) saveMapViewHandler(w http.ResponseWriter, r *http.Request) {
	var view models.MapView
	if !api.decodeBody(w, r, &view) {
		return
	}

	fieldErrors := make(map[string][]string)
	validateLocation("center", view.Center, fieldErrors)
	if err := utils.ValidateZoom(view.Zoom); err != nil {
		fieldErrors["zoom"] = append(fieldErrors["zoom"], err.Error())
	}
	if len(fieldErrors) > 0 {
		api.validationErrorResponse(w, r, fieldErrors)
		return
	}

	if err := api.Planner.SaveMapView(r.Context(), view); err != nil {
		api.sendError(w, r, err)
		return
	}
	api.sendResponse(w, r, models.NewEntryResponse(view))
}
