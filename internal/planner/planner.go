// Package planner connects user actions to the waypoint store through the
// event bus and republishes the derived route after every change.
package planner

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"sync"
	"time"

	"github.com/corey-alix/trip-planner-app/internal/apperrors"
	"github.com/corey-alix/trip-planner-app/internal/eventbus"
	"github.com/corey-alix/trip-planner-app/internal/geocode"
	"github.com/corey-alix/trip-planner-app/internal/itinerary"
	"github.com/corey-alix/trip-planner-app/internal/kvstore"
	"github.com/corey-alix/trip-planner-app/internal/logging"
	"github.com/corey-alix/trip-planner-app/internal/models"
	"github.com/corey-alix/trip-planner-app/internal/utils"
	"github.com/corey-alix/trip-planner-app/internal/waypoint"
)

const (
	insertedStopText  = "inserted stop"
	defaultStayLength = 24 * time.Hour
)

type Config struct {
	Store    *waypoint.Store
	KV       kvstore.Store
	Bus      *eventbus.Bus
	Searcher *geocode.Searcher
	Location *time.Location
	Logger   *slog.Logger
}

// Planner serialises every operation on the route. The lock is never held while
// route-changed or popup is published, so subscribers may call back in.
type Planner struct {
	mu       sync.Mutex
	revision uint64
	store    *waypoint.Store
	kv       kvstore.Store
	bus      *eventbus.Bus
	searcher *geocode.Searcher
	loc      *time.Location
	logger   *slog.Logger
}

func New(cfg Config) *Planner {
	p := &Planner{
		store:    cfg.Store,
		kv:       cfg.KV,
		bus:      cfg.Bus,
		searcher: cfg.Searcher,
		loc:      cfg.Location,
		logger:   cfg.Logger,
	}
	if p.bus == nil {
		p.bus = eventbus.New()
	}
	if p.searcher == nil {
		p.searcher = geocode.NewSearcher(nil)
	}
	if p.loc == nil {
		p.loc = time.Local
	}
	if p.logger == nil {
		p.logger = logging.Discard()
	}

	p.bus.Subscribe(eventbus.AddMarker, p.onAddMarker)
	p.bus.Subscribe(eventbus.InsertStop, p.onInsertStop)
	p.bus.Subscribe(eventbus.DeleteMarker, p.onDeleteMarker)
	p.bus.Subscribe(eventbus.MoveMarkerBackward, p.onMoveMarkerBackward)
	p.bus.Subscribe(eventbus.UpdateMarker, p.onUpdateMarker)
	p.bus.Subscribe(eventbus.ImportWaypoints, p.onImportWaypoints)
	p.bus.Subscribe(eventbus.MapMoved, p.onMapMoved)

	return p
}

// Bus exposes the event bus. Renderers subscribe to route-changed and popup;
// commands published on it go through the same handlers as the Planner methods.
func (p *Planner) Bus() *eventbus.Bus {
	return p.bus
}

func (p *Planner) Location() *time.Location {
	return p.loc
}

// Load reads the persisted route and announces it.
func (p *Planner) Load(ctx context.Context) error {
	return p.mutate(ctx, func() (bool, error) {
		if err := p.store.Load(ctx); err != nil {
			return false, err
		}
		return true, nil
	})
}

// View returns the route and its derived view.
func (p *Planner) View() models.RouteEntry {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.entryLocked()
}

func (p *Planner) Waypoints() []models.Waypoint {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.store.Waypoints()
}

// Get returns a single waypoint.
func (p *Planner) Get(id int64) (models.Waypoint, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	wp, _, ok := p.store.Get(id)
	if !ok {
		return models.Waypoint{}, fmt.Errorf("%w: %d", apperrors.NotFound, id)
	}
	return wp, nil
}

// AddWaypoint appends a new stop.
func (p *Planner) AddWaypoint(ctx context.Context, text string, center models.LatLng, about string) (models.Waypoint, error) {
	return p.InsertAfter(ctx, nil, text, center, about)
}

// InsertAfter creates a stop directly after afterID, or at the end when afterID is nil.
func (p *Planner) InsertAfter(ctx context.Context, afterID *int64, text string, center models.LatLng, about string) (models.Waypoint, error) {
	cmd := &InsertCommand{
		AfterID:  afterID,
		Waypoint: models.Waypoint{Text: text, About: about, Center: center},
	}
	if err := p.bus.Publish(ctx, eventbus.AddMarker, cmd); err != nil {
		return models.Waypoint{}, err
	}
	return cmd.Inserted, nil
}

// InsertStop adds a stop halfway between id and the stop after it. ok is
// false when id is the last stop.
func (p *Planner) InsertStop(ctx context.Context, id int64) (models.Waypoint, bool, error) {
	cmd := &InsertStopCommand{ID: id}
	if err := p.bus.Publish(ctx, eventbus.InsertStop, cmd); err != nil {
		return models.Waypoint{}, false, err
	}
	return cmd.Inserted, cmd.OK, nil
}

func (p *Planner) Delete(ctx context.Context, id int64) (models.Waypoint, error) {
	cmd := &DeleteCommand{ID: id}
	if err := p.bus.Publish(ctx, eventbus.DeleteMarker, cmd); err != nil {
		return models.Waypoint{}, err
	}
	return cmd.Removed, nil
}

// MoveBackward swaps the stop with the one before it.
func (p *Planner) MoveBackward(ctx context.Context, id int64) (bool, error) {
	cmd := &MoveCommand{ID: id}
	if err := p.bus.Publish(ctx, eventbus.MoveMarkerBackward, cmd); err != nil {
		return false, err
	}
	return cmd.Moved, nil
}

func (p *Planner) Update(ctx context.Context, id int64, fields waypoint.Fields) (models.Waypoint, error) {
	return p.update(ctx, &UpdateCommand{ID: id, Fields: fields})
}

// SetOvernight turns a stop into an overnight stay or back into a transit stop.
// Turning it on keeps existing dates; a missing arrival comes from arrival,
// then from the last departure before the stop. A missing departure is one
// day after arrival. Turning it off clears both dates.
func (p *Planner) SetOvernight(ctx context.Context, id int64, overnight bool, arrival models.Timestamp) (models.Waypoint, error) {
	return p.update(ctx, &UpdateCommand{
		ID:        id,
		Overnight: &OvernightChange{On: overnight, Arrival: arrival},
	})
}

// Import replaces the route with exported JSON.
func (p *Planner) Import(ctx context.Context, data []byte) error {
	return p.bus.Publish(ctx, eventbus.ImportWaypoints, &ImportCommand{Data: data})
}

func (p *Planner) Export() ([]byte, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.store.Export()
}

// Navigate publishes a popup for the neighbour of id. ok is false at either end.
func (p *Planner) Navigate(ctx context.Context, id int64, action Action) (models.Waypoint, bool, error) {
	step, err := action.offset()
	if err != nil {
		return models.Waypoint{}, false, err
	}

	neighbour, ok, err := p.neighbour(id, step)
	if err != nil || !ok {
		return models.Waypoint{}, false, err
	}

	if err := p.bus.Publish(ctx, eventbus.Popup, PopupEvent{Waypoint: neighbour}); err != nil {
		logging.LogError(p.logger, "popup handler failed", err,
			slog.String("component", "planner"),
			slog.Int64("waypoint_id", neighbour.ID))
	}
	return neighbour, true, nil
}

func (p *Planner) neighbour(id int64, step int) (models.Waypoint, bool, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	_, index, ok := p.store.Get(id)
	if !ok {
		return models.Waypoint{}, false, fmt.Errorf("%w: %d", apperrors.NotFound, id)
	}

	route := p.store.Waypoints()
	target := index + step
	if target < 0 || target >= len(route) {
		return models.Waypoint{}, false, nil
	}
	return route[target], true, nil
}

// DirectionsURL links to driving directions from the previous stop, or to the
// place itself for the first stop.
func (p *Planner) DirectionsURL(id int64) (string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	to, index, ok := p.store.Get(id)
	if !ok {
		return "", fmt.Errorf("%w: %d", apperrors.NotFound, id)
	}
	if index == 0 {
		return fmt.Sprintf("https://www.google.com/maps/place/%s,%s",
			formatCoord(to.Center.Lat), formatCoord(to.Center.Lng)), nil
	}

	from := p.store.Waypoints()[index-1]
	return fmt.Sprintf("https://www.google.com/maps?saddr=%s,%s&daddr=%s,%s",
		formatCoord(from.Center.Lat), formatCoord(from.Center.Lng),
		formatCoord(to.Center.Lat), formatCoord(to.Center.Lng)), nil
}

// AddFromSearch geocodes query near bias and appends the first result. ok is
// false when the geocoder found nothing. A search overtaken by a newer one
// returns geocode.ErrStale and adds nothing.
func (p *Planner) AddFromSearch(ctx context.Context, query string, bias models.LatLng) (models.Waypoint, bool, error) {
	query, err := utils.ValidateAndSanitizeQuery(query)
	if err != nil {
		return models.Waypoint{}, false, fmt.Errorf("%w: %w", apperrors.Validation, err)
	}

	result, err := p.searcher.Search(ctx, query, bias)
	if err != nil {
		return models.Waypoint{}, false, err
	}
	if len(result.Response.Features) == 0 {
		logging.LogOperation(p.logger, "geocode_no_results",
			slog.String("component", "planner"),
			slog.String("query", query))
		return models.Waypoint{}, false, nil
	}

	feature := result.Response.Features[0]
	center, ok := geocode.FeatureLocation(feature)
	if !ok {
		return models.Waypoint{}, false, nil
	}

	cmd := &InsertCommand{
		Waypoint:    models.Waypoint{Text: geocode.FeatureText(feature), About: "search: " + query, Center: center},
		SearchToken: result.Token,
	}
	if err := p.bus.Publish(ctx, eventbus.AddMarker, cmd); err != nil {
		return models.Waypoint{}, false, err
	}
	return cmd.Inserted, true, nil
}

// Geolocate looks up the stop's text near its current position and moves it
// to the closest point result. ok is false when there was no point result.
func (p *Planner) Geolocate(ctx context.Context, id int64) (models.Waypoint, bool, error) {
	wp, err := p.Get(id)
	if err != nil {
		return models.Waypoint{}, false, err
	}

	result, err := p.searcher.Search(ctx, wp.Text, wp.Center)
	if err != nil {
		return models.Waypoint{}, false, err
	}

	feature, ok := geocode.ClosestFeature(result.Response, wp.Center)
	if !ok {
		return wp, false, nil
	}
	text := geocode.FeatureText(feature)
	center, _ := geocode.FeatureLocation(feature)

	updated, err := p.update(ctx, &UpdateCommand{
		ID:          id,
		Fields:      waypoint.Fields{Text: &text, Center: &center},
		SearchToken: result.Token,
	})
	if err != nil {
		return models.Waypoint{}, false, err
	}
	return updated, true, nil
}

// SaveMapView records the last map position.
func (p *Planner) SaveMapView(ctx context.Context, view models.MapView) error {
	if view.Center != nil {
		if fieldErrors := utils.ValidateLocationParams(view.Center.Lat, view.Center.Lng); len(fieldErrors) > 0 {
			return fmt.Errorf("%w: map center out of range", apperrors.Validation)
		}
	}
	if err := utils.ValidateZoom(view.Zoom); err != nil {
		return fmt.Errorf("%w: %w", apperrors.Validation, err)
	}
	return p.bus.Publish(ctx, eventbus.MapMoved, view)
}

// MapView returns the saved map position. Center is nil when none was saved.
func (p *Planner) MapView(ctx context.Context) (models.MapView, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	var view models.MapView

	raw, ok, err := p.kv.Get(ctx, kvstore.KeyMapCenter)
	if err != nil {
		return view, fmt.Errorf("%w: read %s: %w", apperrors.IOError, kvstore.KeyMapCenter, err)
	}
	if ok && raw != "" && raw != "null" {
		var center models.LatLng
		if err := json.Unmarshal([]byte(raw), &center); err != nil {
			return view, fmt.Errorf("%w: %s: %w", apperrors.ParseError, kvstore.KeyMapCenter, err)
		}
		view.Center = &center
	}

	raw, ok, err = p.kv.Get(ctx, kvstore.KeyMapZoom)
	if err != nil {
		return view, fmt.Errorf("%w: read %s: %w", apperrors.IOError, kvstore.KeyMapZoom, err)
	}
	if ok && raw != "" {
		zoom, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return view, fmt.Errorf("%w: %s: %w", apperrors.ParseError, kvstore.KeyMapZoom, err)
		}
		view.Zoom = zoom
	}

	return view, nil
}

func (p *Planner) update(ctx context.Context, cmd *UpdateCommand) (models.Waypoint, error) {
	if err := p.bus.Publish(ctx, eventbus.UpdateMarker, cmd); err != nil {
		return models.Waypoint{}, err
	}
	return cmd.Updated, nil
}

// overnightFieldsLocked resolves an overnight toggle into concrete dates.
func (p *Planner) overnightFieldsLocked(id int64, change OvernightChange) (waypoint.Fields, error) {
	wp, _, ok := p.store.Get(id)
	if !ok {
		return waypoint.Fields{}, fmt.Errorf("%w: %d", apperrors.NotFound, id)
	}

	if !change.On {
		cleared := models.Timestamp{}
		return waypoint.Fields{ArrivalDate: &cleared, DepartureDate: &cleared}, nil
	}

	arrive := wp.ArrivalDate
	if !change.Arrival.IsZero() {
		arrive = change.Arrival
	}
	if arrive.IsZero() {
		arrive = itinerary.ExpectedArrival(p.store.Waypoints(), id)
	}
	if arrive.IsZero() {
		return waypoint.Fields{}, fmt.Errorf("%w: arrival date required for an overnight stop", apperrors.Validation)
	}

	depart := wp.DepartureDate
	if depart.IsZero() || !depart.After(arrive.Time) {
		depart = models.NewTimestamp(arrive.Add(defaultStayLength))
	}
	return waypoint.Fields{ArrivalDate: &arrive, DepartureDate: &depart}, nil
}

// checkSearchLocked rejects results from a search that has since been superseded.
// A zero token means the command did not come from a search.
func (p *Planner) checkSearchLocked(token uint64) error {
	if token != 0 && !p.searcher.Current(token) {
		return geocode.ErrStale
	}
	return nil
}

// mutate runs fn under the planner lock. When fn reports a change, the new
// route is captured before unlocking and published after.
func (p *Planner) mutate(ctx context.Context, fn func() (changed bool, err error)) error {
	p.mu.Lock()
	changed, err := fn()
	if err != nil || !changed {
		p.mu.Unlock()
		return err
	}
	p.revision++
	change := RouteChange{Revision: p.revision, Entry: p.entryLocked()}
	p.mu.Unlock()

	p.announce(ctx, change)
	return nil
}

// announce publishes route-changed. The mutation is already persisted, so
// subscriber failures are logged rather than returned.
func (p *Planner) announce(ctx context.Context, change RouteChange) {
	if err := p.bus.Publish(ctx, eventbus.RouteChanged, change); err != nil {
		logging.LogError(p.logger, "route-changed handler failed", err,
			slog.String("component", "planner"),
			slog.Uint64("revision", change.Revision))
	}
}

func (p *Planner) entryLocked() models.RouteEntry {
	route := p.store.Waypoints()
	return models.RouteEntry{
		Waypoints: route,
		View:      itinerary.Derive(route, p.loc),
	}
}

func formatCoord(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// IsStale reports whether err came from a superseded geocoder search.
func IsStale(err error) bool {
	return errors.Is(err, geocode.ErrStale)
}
