package webui

import (
	"embed"
	"html/template"
	"net/http"

	"github.com/davecgh/go-spew/spew"
)

//go:embed debug_index.html
var templateFS embed.FS

var debugTemplate = template.Must(template.ParseFS(templateFS, "debug_index.html"))

var dataTypes = []string{"route", "view", "waypoints", "mapView"}

type debugData struct {
	Title string
	Pre   string
	Links []string
}

func writeDebugData(w http.ResponseWriter, title string, data interface{}) {
	dataStruct := debugData{
		Title: title,
		Pre:   spew.Sdump(data),
		Links: dataTypes,
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := debugTemplate.Execute(w, dataStruct); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func (webUI *WebUI) debugIndexHandler(w http.ResponseWriter, r *http.Request) {
	dataType := r.URL.Query().Get("dataType")

	var data interface{}
	var title string

	switch dataType {
	case "route":
		data = webUI.Planner.View()
		title = "Route - Waypoints and View"
	case "view":
		data = webUI.Planner.View().View
		title = "Route - Derived View"
	case "waypoints":
		data = webUI.Planner.Waypoints()
		title = "Route - Waypoints"
	case "mapView":
		view, err := webUI.Planner.MapView(r.Context())
		if err != nil {
			webUI.Logger.Error("failed to read map view", "error", err, "component", "webui")
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		data = view
		title = "Map - Saved View"
	default:
		data = map[string]string{
			"error": "Please use one of the following: route, view, waypoints, mapView.",
		}
		title = "Choose a data type"
	}

	writeDebugData(w, title, data)
}
