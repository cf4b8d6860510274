package planner

import (
	"github.com/corey-alix/trip-planner-app/internal/models"
	"github.com/corey-alix/trip-planner-app/internal/waypoint"
)

// Command payloads are published on the bus; the store handlers fill in the
// result fields. A Waypoint with a zero ID is given a fresh one on insert.
// A non-zero SearchToken makes the command fail with geocode.ErrStale once a
// newer search has started.

type InsertCommand struct {
	AfterID     *int64
	Waypoint    models.Waypoint
	SearchToken uint64
	Inserted    models.Waypoint
}

type InsertStopCommand struct {
	ID       int64
	Inserted models.Waypoint
	OK       bool
}

type DeleteCommand struct {
	ID      int64
	Removed models.Waypoint
}

type MoveCommand struct {
	ID    int64
	Moved bool
}

// UpdateCommand merges Fields into a stop. When Overnight is set the dates
// are derived from it instead.
type UpdateCommand struct {
	ID          int64
	Fields      waypoint.Fields
	Overnight   *OvernightChange
	SearchToken uint64
	Updated     models.Waypoint
}

type OvernightChange struct {
	On      bool
	Arrival models.Timestamp
}

type ImportCommand struct {
	Data []byte
}

// PopupEvent asks a renderer to focus a stop.
type PopupEvent struct {
	Waypoint models.Waypoint
}

// RouteChange is published after every successful mutation. Revision grows
// with each change; a subscriber seeing a lower revision than one it already
// handled can drop it.
type RouteChange struct {
	Revision uint64
	Entry    models.RouteEntry
}
