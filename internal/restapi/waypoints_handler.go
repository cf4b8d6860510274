package restapi

import (
	"net/http"

	"github.com/corey-alix/trip-planner-app/internal/models"
	"github.com/corey-alix/trip-planner-app/internal/utils"
	"github.com/corey-alix/trip-planner-app/internal/waypoint"
)

type createWaypointRequest struct {
	AfterID *int64         `json:"afterId"`
	Text    string         `json:"text"`
	About   string         `json:"about"`
	Center  *models.LatLng `json:"center"`
}

type updateWaypointRequest struct {
	Text          *string           `json:"text"`
	About         *string           `json:"about"`
	Center        *models.LatLng    `json:"center"`
	ArrivalDate   *models.Timestamp `json:"arrivalDate"`
	DepartureDate *models.Timestamp `json:"departureDate"`
	Optional      *bool             `json:"optional"`
}

type overnightRequest struct {
	Overnight   bool             `json:"overnight"`
	ArrivalDate models.Timestamp `json:"arrivalDate"`
}

// validateLocation records range errors for a position under name.lat and name.lng.
func validateLocation(name string, position *models.LatLng, fieldErrors map[string][]string) {
	if position == nil {
		return
	}
	for field, errs := range utils.ValidateLocationParams(position.Lat, position.Lng) {
		key := name + "." + field
		fieldErrors[key] = append(fieldErrors[key], errs...)
	}
}

func (api *RestAPI) listWaypointsHandler(w http.ResponseWriter, r *http.Request) {
	api.sendResponse(w, r, models.NewListResponse(api.Planner.Waypoints()))
}

func (api *RestAPI) createWaypointHandler(w http.ResponseWriter, r *http.Request) {
	var req createWaypointRequest
	if !api.decodeBody(w, r, &req) {
		return
	}

	fieldErrors := make(map[string][]string)
	if err := utils.ValidateText(req.Text); err != nil {
		fieldErrors["text"] = append(fieldErrors["text"], err.Error())
	}
	if err := utils.ValidateAbout(req.About); err != nil {
		fieldErrors["about"] = append(fieldErrors["about"], err.Error())
	}
	if req.Center == nil {
		fieldErrors["center"] = append(fieldErrors["center"], "center is required")
	}
	validateLocation("center", req.Center, fieldErrors)
	if len(fieldErrors) > 0 {
		api.validationErrorResponse(w, r, fieldErrors)
		return
	}

	text := utils.SanitizeInput(req.Text)
	about := utils.SanitizeInput(req.About)

	wp, err := api.Planner.InsertAfter(r.Context(), req.AfterID, text, *req.Center, about)
	if err != nil {
		api.sendError(w, r, err)
		return
	}
	api.sendResponse(w, r, models.NewResponse(http.StatusCreated, map[string]interface{}{"entry": wp}, "Created"))
}

func (api *RestAPI) updateWaypointHandler(w http.ResponseWriter, r *http.Request) {
	id, ok := api.waypointID(w, r)
	if !ok {
		return
	}

	var req updateWaypointRequest
	if !api.decodeBody(w, r, &req) {
		return
	}

	fieldErrors := make(map[string][]string)
	if req.Text != nil {
		if err := utils.ValidateText(*req.Text); err != nil {
			fieldErrors["text"] = append(fieldErrors["text"], err.Error())
		} else {
			sanitized := utils.SanitizeInput(*req.Text)
			req.Text = &sanitized
		}
	}
	if req.About != nil {
		if err := utils.ValidateAbout(*req.About); err != nil {
			fieldErrors["about"] = append(fieldErrors["about"], err.Error())
		} else {
			sanitized := utils.SanitizeInput(*req.About)
			req.About = &sanitized
		}
	}
	validateLocation("center", req.Center, fieldErrors)
	if len(fieldErrors) > 0 {
		api.validationErrorResponse(w, r, fieldErrors)
		return
	}

	wp, err := api.Planner.Update(r.Context(), id, waypoint.Fields{
		Text:          req.Text,
		About:         req.About,
		Center:        req.Center,
		ArrivalDate:   req.ArrivalDate,
		DepartureDate: req.DepartureDate,
		Optional:      req.Optional,
	})
	if err != nil {
		api.sendError(w, r, err)
		return
	}
	api.sendResponse(w, r, models.NewEntryResponse(wp))
}

func (api *RestAPI) deleteWaypointHandler(w http.ResponseWriter, r *http.Request) {
	id, ok := api.waypointID(w, r)
	if !ok {
		return
	}

	wp, err := api.Planner.Delete(r.Context(), id)
	if err != nil {
		api.sendError(w, r, err)
		return
	}
	api.sendResponse(w, r, models.NewEntryResponse(wp))
}

func (api *RestAPI) moveBackwardHandler(w http.ResponseWriter, r *http.Request) {
	id, ok := api.waypointID(w, r)
	if !ok {
		return
	}

	moved, err := api.Planner.MoveBackward(r.Context(), id)
	if err != nil {
		api.sendError(w, r, err)
		return
	}
	api.sendResponse(w, r, models.NewEntryResponse(map[string]interface{}{
		"moved": moved,
		"route": api.Planner.View(),
	}))
}

func (api *RestAPI) insertStopHandler(w http.ResponseWriter, r *http.Request) {
	id, ok := api.waypointID(w, r)
	if !ok {
		return
	}

	wp, inserted, err := api.Planner.InsertStop(r.Context(), id)
	if err != nil {
		api.sendError(w, r, err)
		return
	}
	if !inserted {
		api.sendResponse(w, r, models.NewEntryResponse(nil))
		return
	}
	api.sendResponse(w, r, models.NewResponse(http.StatusCreated, map[string]interface{}{"entry": wp}, "Created"))
}

func (api *RestAPI) overnightHandler(w http.ResponseWriter, r *http.Request) {
	id, ok := api.waypointID(w, r)
	if !ok {
		return
	}

	var req overnightRequest
	if !api.decodeBody(w, r, &req) {
		return
	}

	wp, err := api.Planner.SetOvernight(r.Context(), id, req.Overnight, req.ArrivalDate)
	if err != nil {
		api.sendError(w, r, err)
		return
	}
	api.sendResponse(w, r, models.NewEntryResponse(wp))
}

// waypointID validates the :id parameter, answering 400 when it is malformed.
func (api *RestAPI) waypointID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := utils.ExtractWaypointID(r)
	if err != nil {
		api.validationErrorResponse(w, r, map[string][]string{
			"id": {err.Error()},
		})
		return 0, false
	}
	return id, true
}
