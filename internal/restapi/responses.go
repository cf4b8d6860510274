package restapi

import (
	"encoding/json"
	"net/http"

	"github.com/corey-alix/trip-planner-app/internal/apperrors"
	"github.com/corey-alix/trip-planner-app/internal/models"
	"github.com/corey-alix/trip-planner-app/internal/planner"
)

// maxBodyBytes bounds request bodies, imports included.
const maxBodyBytes = 1 << 20

func (api *RestAPI) sendResponse(w http.ResponseWriter, r *http.Request, response models.ResponseModel) {
	setJSONResponseType(&w)
	if response.Code != 0 && response.Code != http.StatusOK {
		w.WriteHeader(response.Code)
	}
	err := json.NewEncoder(w).Encode(response)
	if err != nil {
		api.serverErrorResponse(w, r, err)
		return
	}
}

func (api *RestAPI) sendNotFound(w http.ResponseWriter, r *http.Request) {
	api.writeErrorResponse(w, http.StatusNotFound, "resource not found")
}

var statusByKind = map[string]int{
	apperrors.NotFound.Code:       http.StatusNotFound,
	apperrors.ParseError.Code:     http.StatusBadRequest,
	apperrors.Validation.Code:     http.StatusBadRequest,
	apperrors.Conflict.Code:       http.StatusConflict,
	apperrors.GeocodeFailure.Code: http.StatusBadGateway,
}

// sendError maps an application error onto a status code. IOError and
// anything unclassified become a 500 without leaking the cause.
func (api *RestAPI) sendError(w http.ResponseWriter, r *http.Request, err error) {
	if planner.IsStale(err) {
		api.writeErrorResponse(w, http.StatusConflict, err.Error())
		return
	}
	if kind, ok := apperrors.KindOf(err); ok {
		if status, ok := statusByKind[kind.Code]; ok {
			api.writeErrorResponse(w, status, err.Error())
			return
		}
	}
	api.serverErrorResponse(w, r, err)
}

// decodeBody reads a JSON request body into dst. Failures are reported as
// validation errors against the "body" field.
func (api *RestAPI) decodeBody(w http.ResponseWriter, r *http.Request, dst any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		api.validationErrorResponse(w, r, map[string][]string{
			"body": {"Invalid request body."},
		})
		return false
	}
	return true
}

func setJSONResponseType(w *http.ResponseWriter) {
	(*w).Header().Set("Content-Type", "application/json")
}
