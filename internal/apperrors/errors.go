package apperrors

import "errors"

// Definition is an error kind with a stable code. Callers wrap it with
// fmt.Errorf("%w: ...") and match it with errors.Is.
type Definition struct {
	Code    string
	Message string
}

func (d Definition) Error() string {
	return d.Message
}

var (
	NotFound       = Definition{Code: "NOT_FOUND", Message: "waypoint not found"}
	IOError        = Definition{Code: "IO_ERROR", Message: "persistence failure"}
	GeocodeFailure = Definition{Code: "GEOCODE_FAILURE", Message: "geocoding failed"}
	ParseError     = Definition{Code: "PARSE_ERROR", Message: "malformed waypoint data"}
	Conflict       = Definition{Code: "CONFLICT", Message: "duplicate waypoint identity"}
	Validation     = Definition{Code: "VALIDATION", Message: "invalid input"}
)

// KindOf returns the first Definition found in err's chain.
func KindOf(err error) (Definition, bool) {
	if err == nil {
		return Definition{}, false
	}
	var def Definition
	if errors.As(err, &def) {
		return def, true
	}
	return Definition{}, false
}
