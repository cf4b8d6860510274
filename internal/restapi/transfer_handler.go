package restapi

import (
	"io"
	"net/http"

	"github.com/corey-alix/trip-planner-app/internal/models"
)

// exportHandler returns the route in the same form import accepts, not wrapped
// in the response envelope.
func (api *RestAPI) exportHandler(w http.ResponseWriter, r *http.Request) {
	data, err := api.Planner.Export()
	if err != nil {
		api.sendError(w, r, err)
		return
	}

	setJSONResponseType(&w)
	w.Header().Set("Content-Disposition", `attachment; filename="trip.json"`)
	if _, err := w.Write(data); err != nil {
		api.Logger.Error("failed to write export", "error", err, "component", "http_server")
	}
}

func (api *RestAPI) importHandler(w http.ResponseWriter, r *http.Request) {
	data, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		api.validationErrorResponse(w, r, map[string][]string{
			"body": {"Request body too large."},
		})
		return
	}

	if err := api.Planner.Import(r.Context(), data); err != nil {
		api.sendError(w, r, err)
		return
	}
	api.sendResponse(w, r, models.NewEntryResponse(api.Planner.View()))
}
