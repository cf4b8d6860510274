package app

import (
	"log/slog"

	"github.com/corey-alix/trip-planner-app/internal/appconf"
	"github.com/corey-alix/trip-planner-app/internal/planner"
)

// Application holds the dependencies shared by the HTTP handlers, the debug
// pages and the middleware.
type Application struct {
	Config  appconf.Config
	Logger  *slog.Logger
	Planner *planner.Planner
}
