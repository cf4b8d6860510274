package utils

import (
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"

	"github.com/corey-alix/trip-planner-app/internal/models"
)

// ParseFloatParam retrieves a float64 value from the provided URL query parameters.
// If the key is not present or the value is invalid, it returns 0 and updates the fieldErrors map.
// - params: URL query parameters.
// - key: The key to look for in the query parameters.
// - fieldErrors: A map to collect validation errors for fields.
// Returns:
// - The parsed float64 value (or 0 if invalid).
// - The updated fieldErrors map containing any validation errors.
func ParseFloatParam(params url.Values, key string, fieldErrors map[string][]string) (float64, map[string][]string) {
	if fieldErrors == nil {
		fieldErrors = make(map[string][]string)
	}

	val := params.Get(key)
	if val == "" {
		return 0, fieldErrors
	}

	f, err := strconv.ParseFloat(val, 64)
	if err != nil {
		fieldErrors[key] = append(fieldErrors[key], fmt.Sprintf("Invalid field value for field %q.", key))
	}
	return f, fieldErrors
}

// ParseCenterParam reads a {"lat":..,"lng":..} JSON object from the query.
// ok is false when the key is absent or invalid; invalid values are recorded in fieldErrors.
func ParseCenterParam(params url.Values, key string, fieldErrors map[string][]string) (models.LatLng, bool, map[string][]string) {
	if fieldErrors == nil {
		fieldErrors = make(map[string][]string)
	}

	val := params.Get(key)
	if val == "" {
		return models.LatLng{}, false, fieldErrors
	}

	var center models.LatLng
	if err := json.Unmarshal([]byte(val), &center); err != nil {
		fieldErrors[key] = append(fieldErrors[key], fmt.Sprintf("Invalid field value for field %q.", key))
		return models.LatLng{}, false, fieldErrors
	}
	for field, errs := range ValidateLocationParams(center.Lat, center.Lng) {
		fieldErrors[key+"."+field] = append(fieldErrors[key+"."+field], errs...)
	}
	if len(fieldErrors) > 0 {
		return models.LatLng{}, false, fieldErrors
	}
	return center, true, fieldErrors
}
