package restapi

import (
	"net/http"

	"github.com/corey-alix/trip-planner-app/internal/models"
)

func (api *RestAPI) routeHandler(w http.ResponseWriter, r *http.Request) {
	api.sendResponse(w, r, models.NewEntryResponse(api.Planner.View()))
}
