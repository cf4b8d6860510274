// Package waypoint owns the ordered route and keeps it persisted.
package waypoint

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"slices"
	"time"

	"github.com/corey-alix/trip-planner-app/internal/apperrors"
	"github.com/corey-alix/trip-planner-app/internal/idgen"
	"github.com/corey-alix/trip-planner-app/internal/kvstore"
	"github.com/corey-alix/trip-planner-app/internal/logging"
	"github.com/corey-alix/trip-planner-app/internal/models"
)

// Store holds the route in visit order. Every mutation builds the new route on
// a copy and only replaces the in-memory route once it has been persisted.
//
// Store is not safe for concurrent use; callers serialise access.
type Store struct {
	kv     kvstore.Store
	ids    idgen.Generator
	logger *slog.Logger
	route  []models.Waypoint
}

// Fields selects which waypoint fields Update changes. Nil fields are left alone.
// A zero Timestamp clears the date.
type Fields struct {
	Text          *string
	About         *string
	Center        *models.LatLng
	ArrivalDate   *models.Timestamp
	DepartureDate *models.Timestamp
	Optional      *bool
}

func NewStore(kv kvstore.Store, ids idgen.Generator, logger *slog.Logger) *Store {
	if logger == nil {
		logger = logging.Discard()
	}
	return &Store{
		kv:     kv,
		ids:    ids,
		logger: logger,
		route:  []models.Waypoint{},
	}
}

// Create returns a waypoint with a fresh identity. It is not added to the route.
func (s *Store) Create(text string, center models.LatLng, about string) models.Waypoint {
	return models.Waypoint{
		ID:     s.freshID(s.route),
		Text:   text,
		About:  about,
		Center: center,
	}
}

// Load replaces the route with the persisted one. Waypoints stored without an
// id are given one and the repaired route is written back.
func (s *Store) Load(ctx context.Context) error {
	start := time.Now()

	raw, ok, err := s.kv.Get(ctx, kvstore.KeyMarkers)
	if err != nil {
		return fmt.Errorf("%w: read %s: %w", apperrors.IOError, kvstore.KeyMarkers, err)
	}
	if !ok {
		s.route = []models.Waypoint{}
		return nil
	}

	route, repaired, err := s.decode([]byte(raw))
	if err != nil {
		return err
	}

	if repaired {
		if err := s.persist(ctx, route); err != nil {
			return err
		}
	}
	s.route = route

	logging.LogOperation(s.logger, "route_loaded",
		slog.String("component", "waypoint_store"),
		slog.Int("waypoints", len(route)),
		slog.Bool("repaired", repaired),
		slog.Duration("duration", time.Since(start)))
	return nil
}

// InsertAfter places wp directly after the waypoint afterID, or at the end
// when afterID is nil. A zero wp.ID is replaced with a fresh identity.
func (s *Store) InsertAfter(ctx context.Context, afterID *int64, wp models.Waypoint) (models.Waypoint, error) {
	index := len(s.route)
	if afterID != nil {
		i := s.indexOf(*afterID)
		if i < 0 {
			return models.Waypoint{}, fmt.Errorf("%w: insert after %d", apperrors.NotFound, *afterID)
		}
		index = i + 1
	}
	return s.InsertAt(ctx, index, wp)
}

// InsertAt places wp at index, shifting later waypoints back. index is clamped
// to the route.
func (s *Store) InsertAt(ctx context.Context, index int, wp models.Waypoint) (models.Waypoint, error) {
	if wp.ID == 0 {
		wp.ID = s.freshID(s.route)
	} else if s.indexOf(wp.ID) >= 0 {
		return models.Waypoint{}, fmt.Errorf("%w: waypoint %d already on the route", apperrors.Conflict, wp.ID)
	}
	index = min(max(index, 0), len(s.route))

	next := slices.Insert(slices.Clone(s.route), index, wp)
	if err := s.commit(ctx, next, "insert", wp.ID); err != nil {
		return models.Waypoint{}, err
	}
	return wp, nil
}

// Remove deletes the waypoint with the given id.
func (s *Store) Remove(ctx context.Context, id int64) (models.Waypoint, error) {
	i := s.indexOf(id)
	if i < 0 {
		return models.Waypoint{}, fmt.Errorf("%w: remove %d", apperrors.NotFound, id)
	}
	removed := s.route[i]

	next := slices.Delete(slices.Clone(s.route), i, i+1)
	if err := s.commit(ctx, next, "remove", id); err != nil {
		return models.Waypoint{}, err
	}
	return removed, nil
}

// SwapWithPrevious moves the waypoint one place earlier. It reports false
// without writing when the waypoint is already first.
func (s *Store) SwapWithPrevious(ctx context.Context, id int64) (bool, error) {
	i := s.indexOf(id)
	if i < 0 {
		return false, fmt.Errorf("%w: move %d", apperrors.NotFound, id)
	}
	if i == 0 {
		return false, nil
	}

	next := slices.Clone(s.route)
	next[i-1], next[i] = next[i], next[i-1]
	if err := s.commit(ctx, next, "swap_with_previous", id); err != nil {
		return false, err
	}
	return true, nil
}

// Update merges fields into the waypoint and returns the result.
func (s *Store) Update(ctx context.Context, id int64, fields Fields) (models.Waypoint, error) {
	i := s.indexOf(id)
	if i < 0 {
		return models.Waypoint{}, fmt.Errorf("%w: update %d", apperrors.NotFound, id)
	}

	wp := s.route[i]
	if fields.Text != nil {
		wp.Text = *fields.Text
	}
	if fields.About != nil {
		wp.About = *fields.About
	}
	if fields.Center != nil {
		wp.Center = *fields.Center
	}
	if fields.ArrivalDate != nil {
		wp.ArrivalDate = *fields.ArrivalDate
	}
	if fields.DepartureDate != nil {
		wp.DepartureDate = *fields.DepartureDate
	}
	if fields.Optional != nil {
		wp.Optional = *fields.Optional
	}

	next := slices.Clone(s.route)
	next[i] = wp
	if err := s.commit(ctx, next, "update", id); err != nil {
		return models.Waypoint{}, err
	}
	return wp, nil
}

// Export encodes the route as an indented JSON array.
func (s *Store) Export() ([]byte, error) {
	data, err := json.MarshalIndent(s.route, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encode route: %w", err)
	}
	return data, nil
}

// Import replaces the whole route with the waypoints in data. Nothing changes
// unless all of data decodes.
func (s *Store) Import(ctx context.Context, data []byte) error {
	route, _, err := s.decode(data)
	if err != nil {
		return err
	}
	return s.commit(ctx, route, "import", 0)
}

// Waypoints returns a copy of the route.
func (s *Store) Waypoints() []models.Waypoint {
	return slices.Clone(s.route)
}

// Get returns the waypoint and its index.
func (s *Store) Get(id int64) (models.Waypoint, int, bool) {
	i := s.indexOf(id)
	if i < 0 {
		return models.Waypoint{}, -1, false
	}
	return s.route[i], i, true
}

func (s *Store) Len() int {
	return len(s.route)
}

func (s *Store) indexOf(id int64) int {
	return slices.IndexFunc(s.route, func(wp models.Waypoint) bool { return wp.ID == id })
}

// freshID draws ids until one is unused on route.
func (s *Store) freshID(route []models.Waypoint) int64 {
	for {
		id := s.ids.NextID()
		if id != 0 && !slices.ContainsFunc(route, func(wp models.Waypoint) bool { return wp.ID == id }) {
			return id
		}
	}
}

// decode parses a JSON array of waypoints, assigning ids where missing.
func (s *Store) decode(data []byte) ([]models.Waypoint, bool, error) {
	var route []models.Waypoint
	if err := json.Unmarshal(data, &route); err != nil {
		return nil, false, fmt.Errorf("%w: %w", apperrors.ParseError, err)
	}
	if route == nil {
		route = []models.Waypoint{}
	}

	seen := make(map[int64]bool, len(route))
	for _, wp := range route {
		if wp.ID == 0 {
			continue
		}
		if seen[wp.ID] {
			return nil, false, fmt.Errorf("%w: duplicate waypoint id %d", apperrors.ParseError, wp.ID)
		}
		seen[wp.ID] = true
	}

	repaired := false
	for i := range route {
		if route[i].ID == 0 {
			route[i].ID = s.freshID(route)
			repaired = true
		}
	}
	return route, repaired, nil
}

// commit persists next and, only if that succeeds, makes it the route.
func (s *Store) commit(ctx context.Context, next []models.Waypoint, operation string, id int64) error {
	if err := s.persist(ctx, next); err != nil {
		return err
	}
	s.route = next
	logging.LogRouteMutation(s.logger, operation, id, len(next))
	return nil
}

func (s *Store) persist(ctx context.Context, route []models.Waypoint) error {
	data, err := json.Marshal(route)
	if err != nil {
		return fmt.Errorf("%w: encode route: %w", apperrors.IOError, err)
	}
	if err := s.kv.Set(ctx, kvstore.KeyMarkers, string(data)); err != nil {
		logging.LogError(s.logger, "failed to persist route", err,
			slog.String("component", "waypoint_store"),
			slog.String("key", kvstore.KeyMarkers),
			slog.Int("waypoints", len(route)))
		return fmt.Errorf("%w: write %s: %w", apperrors.IOError, kvstore.KeyMarkers, err)
	}
	return nil
}
