package models

import (
	"encoding/json"
	"fmt"
	"time"
)

// TimestampLayout is the wall-clock form produced by a datetime-local input.
const TimestampLayout = "2006-01-02T15:04:05"

var timestampLayouts = []string{
	TimestampLayout,
	"2006-01-02T15:04",
	"2006-01-02",
}

// Timestamp is an optional local date-time. The zero value means "not set".
type Timestamp struct {
	time.Time
}

func NewTimestamp(t time.Time) Timestamp {
	return Timestamp{Time: t}
}

// ParseTimestamp accepts the wall-clock layouts (interpreted in loc) and RFC 3339.
// RFC 3339 values are moved into loc so the wall clock written back by String
// names the same instant. An empty string yields the zero Timestamp.
func ParseTimestamp(value string, loc *time.Location) (Timestamp, error) {
	if value == "" {
		return Timestamp{}, nil
	}
	for _, layout := range timestampLayouts {
		if t, err := time.ParseInLocation(layout, value, loc); err == nil {
			return Timestamp{Time: t}, nil
		}
	}
	t, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return Timestamp{}, fmt.Errorf("invalid timestamp %q", value)
	}
	return Timestamp{Time: t.In(loc)}, nil
}

func (t Timestamp) String() string {
	if t.IsZero() {
		return ""
	}
	return t.Format(TimestampLayout)
}

func (t Timestamp) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.String())
}

func (t *Timestamp) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*t = Timestamp{}
		return nil
	}
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("timestamp must be a string: %w", err)
	}
	parsed, err := ParseTimestamp(raw, time.Local)
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

// Waypoint is a single stop on the route. ID is assigned once and never changes.
type Waypoint struct {
	ID            int64     `json:"id"`
	About         string    `json:"about"`
	Text          string    `json:"text"`
	Center        LatLng    `json:"center"`
	ArrivalDate   Timestamp `json:"arrivalDate,omitzero"`
	DepartureDate Timestamp `json:"departureDate,omitzero"`
	Optional      bool      `json:"optional,omitempty"`
}

// IsOvernight reports whether the stop carries an arrival date.
func (w Waypoint) IsOvernight() bool {
	return !w.ArrivalDate.IsZero()
}
