// Package itinerary derives the per-stop labels, path and legs of a route.
package itinerary

import (
	"time"

	"github.com/twpayne/go-polyline"

	"github.com/corey-alix/trip-planner-app/internal/models"
	"github.com/corey-alix/trip-planner-app/internal/utils"
)

const secondsPerDay = 24 * 60 * 60

// Derive computes the view of route in loc. It does not modify route.
func Derive(route []models.Waypoint, loc *time.Location) models.RouteView {
	if loc == nil {
		loc = time.Local
	}

	view := models.RouteView{
		Stops: make([]models.StopView, 0, len(route)),
		Path:  make([][2]float64, 0, len(route)),
		Legs:  make([]models.Leg, 0, max(len(route)-1, 0)),
	}

	anchor, hasAnchor := firstArrival(route)
	var carried models.Timestamp

	for i, wp := range route {
		stop := models.StopView{
			ID:        wp.ID,
			Sequence:  i + 1,
			Overnight: wp.IsOvernight(),
			Optional:  wp.Optional,
		}

		if wp.IsOvernight() && hasAnchor {
			stop.DayIndex = localDayNumber(wp.ArrivalDate.Time, loc) - localDayNumber(anchor, loc) + 1
			carried = wp.DepartureDate
		} else {
			if !carried.IsZero() {
				stop.Weekday = ShortWeekday(carried.Time, loc)
			}
			if !wp.DepartureDate.IsZero() {
				carried = wp.DepartureDate
			}
		}

		view.Stops = append(view.Stops, stop)
		view.Path = append(view.Path, [2]float64{wp.Center.Lat, wp.Center.Lng})

		if i > 0 {
			view.Legs = append(view.Legs, newLeg(route[i-1], wp))
		}
	}

	view.Polyline = encodePath(view.Path)
	view.Bounds = RegionBounds(route)

	return view
}

// ExpectedArrival returns the most recent departure date at or before the
// waypoint with the given id. It is zero when none was seen or id is absent.
func ExpectedArrival(route []models.Waypoint, id int64) models.Timestamp {
	var result models.Timestamp
	for _, wp := range route {
		if !wp.DepartureDate.IsZero() {
			result = wp.DepartureDate
		}
		if wp.ID == id {
			return result
		}
	}
	return models.Timestamp{}
}

// ShortWeekday returns Sun..Sat for t in loc.
func ShortWeekday(t time.Time, loc *time.Location) string {
	return t.In(loc).Weekday().String()[:3]
}

// RegionBounds returns the bounding box of the route, or nil when it is empty.
func RegionBounds(route []models.Waypoint) *models.Bounds {
	if len(route) == 0 {
		return nil
	}

	minLat, maxLat := route[0].Center.Lat, route[0].Center.Lat
	minLng, maxLng := route[0].Center.Lng, route[0].Center.Lng
	for _, wp := range route[1:] {
		minLat = min(minLat, wp.Center.Lat)
		maxLat = max(maxLat, wp.Center.Lat)
		minLng = min(minLng, wp.Center.Lng)
		maxLng = max(maxLng, wp.Center.Lng)
	}

	return &models.Bounds{
		MinLat:  minLat,
		MinLng:  minLng,
		MaxLat:  maxLat,
		MaxLng:  maxLng,
		Center:  models.LatLng{Lat: (minLat + maxLat) / 2, Lng: (minLng + maxLng) / 2},
		LatSpan: maxLat - minLat,
		LngSpan: maxLng - minLng,
	}
}

// firstArrival is the earliest arrival date on the route.
func firstArrival(route []models.Waypoint) (time.Time, bool) {
	var (
		earliest time.Time
		found    bool
	)
	for _, wp := range route {
		if !wp.IsOvernight() {
			continue
		}
		if !found || wp.ArrivalDate.Before(earliest) {
			earliest = wp.ArrivalDate.Time
			found = true
		}
	}
	return earliest, found
}

// localDayNumber counts whole calendar days in loc, ignoring time of day and DST.
func localDayNumber(t time.Time, loc *time.Location) int {
	y, m, d := t.In(loc).Date()
	return int(time.Date(y, m, d, 0, 0, 0, 0, time.UTC).Unix() / secondsPerDay)
}

func newLeg(from, to models.Waypoint) models.Leg {
	bearing := utils.BearingBetweenPoints(from.Center.Lat, from.Center.Lng, to.Center.Lat, to.Center.Lng)
	return models.Leg{
		FromID:         from.ID,
		ToID:           to.ID,
		DistanceMeters: utils.Haversine(from.Center.Lat, from.Center.Lng, to.Center.Lat, to.Center.Lng),
		Bearing:        bearing,
		Compass:        utils.BearingToCompass(bearing),
	}
}

func encodePath(path [][2]float64) string {
	if len(path) == 0 {
		return ""
	}
	coords := make([][]float64, 0, len(path))
	for _, p := range path {
		coords = append(coords, []float64{p[0], p[1]})
	}
	return string(polyline.EncodeCoords(coords))
}
