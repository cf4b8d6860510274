package restapi

import (
	"net/http"
	"strconv"

	"github.com/corey-alix/trip-planner-app/internal/geo"
	"github.com/corey-alix/trip-planner-app/internal/models"
)

type nearestRequest struct {
	Bias   models.LatLng   `json:"bias"`
	Points []models.LatLng `json:"points"`
}

type nearestEntry struct {
	Index int           `json:"index"`
	Point models.LatLng `json:"point"`
}

// nearestHandler picks the candidate closest to the bias. The entry is null
// when there are no candidates.
func (api *RestAPI) nearestHandler(w http.ResponseWriter, r *http.Request) {
	var req nearestRequest
	if !api.decodeBody(w, r, &req) {
		return
	}

	fieldErrors := make(map[string][]string)
	validateLocation("bias", &req.Bias, fieldErrors)
	for i := range req.Points {
		validateLocation("points."+strconv.Itoa(i), &req.Points[i], fieldErrors)
	}
	if len(fieldErrors) > 0 {
		api.validationErrorResponse(w, r, fieldErrors)
		return
	}

	point, index, ok := geo.NearestPoint(req.Points, req.Bias)
	if !ok {
		api.sendResponse(w, r, models.NewEntryResponse(nil))
		return
	}
	api.sendResponse(w, r, models.NewEntryResponse(nearestEntry{Index: index, Point: point}))
}
