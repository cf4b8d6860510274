package models

import "strconv"

// StopView is the derived labelling for one waypoint.
// DayIndex is 0 and Weekday is empty when the stop has no label.
type StopView struct {
	ID        int64  `json:"id"`
	Sequence  int    `json:"sequence"`
	DayIndex  int    `json:"dayIndex,omitempty"`
	Weekday   string `json:"weekday,omitempty"`
	Overnight bool   `json:"overnight"`
	Optional  bool   `json:"optional"`
}

// Label renders the marker label a map renderer shows for the stop.
func (s StopView) Label() string {
	switch {
	case s.DayIndex > 0:
		return "Day " + strconv.Itoa(s.DayIndex)
	case s.Weekday != "":
		return s.Weekday
	default:
		return ""
	}
}

// Leg connects two consecutive stops.
type Leg struct {
	FromID         int64   `json:"fromId"`
	ToID           int64   `json:"toId"`
	DistanceMeters float64 `json:"distanceMeters"`
	Bearing        float64 `json:"bearing"`
	Compass        string  `json:"compass"`
}

// RouteView is recomputed from the route after every mutation and never persisted.
type RouteView struct {
	Stops    []StopView   `json:"stops"`
	Path     [][2]float64 `json:"path"`
	Polyline string       `json:"polyline"`
	Legs     []Leg        `json:"legs"`
	Bounds   *Bounds      `json:"bounds,omitempty"`
}

// RouteEntry pairs the waypoints with their derived view.
type RouteEntry struct {
	Waypoints []Waypoint `json:"waypoints"`
	View      RouteView  `json:"view"`
}
