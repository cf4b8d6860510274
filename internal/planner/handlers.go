package planner

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/corey-alix/trip-planner-app/internal/apperrors"
	"github.com/corey-alix/trip-planner-app/internal/eventbus"
	"github.com/corey-alix/trip-planner-app/internal/kvstore"
	"github.com/corey-alix/trip-planner-app/internal/models"
)

// Bus handlers. Each takes the planner lock for its store call and, after a
// successful change, publishes route-changed once the lock is released.

func (p *Planner) onAddMarker(ctx context.Context, ev eventbus.Event) error {
	cmd, err := payload[*InsertCommand](ev)
	if err != nil {
		return err
	}
	return p.mutate(ctx, func() (bool, error) {
		if err := p.checkSearchLocked(cmd.SearchToken); err != nil {
			return false, err
		}
		inserted, err := p.store.InsertAfter(ctx, cmd.AfterID, cmd.Waypoint)
		if err != nil {
			return false, err
		}
		cmd.Inserted = inserted
		return true, nil
	})
}

func (p *Planner) onInsertStop(ctx context.Context, ev eventbus.Event) error {
	cmd, err := payload[*InsertStopCommand](ev)
	if err != nil {
		return err
	}
	return p.mutate(ctx, func() (bool, error) {
		current, index, ok := p.store.Get(cmd.ID)
		if !ok {
			return false, fmt.Errorf("%w: %d", apperrors.NotFound, cmd.ID)
		}
		route := p.store.Waypoints()
		if index+1 >= len(route) {
			return false, nil
		}

		next := route[index+1]
		wp := models.Waypoint{
			Text:   insertedStopText,
			About:  insertedStopText,
			Center: models.Midpoint(current.Center, next.Center),
		}
		inserted, err := p.store.InsertAfter(ctx, &current.ID, wp)
		if err != nil {
			return false, err
		}
		cmd.Inserted = inserted
		cmd.OK = true
		return true, nil
	})
}

func (p *Planner) onDeleteMarker(ctx context.Context, ev eventbus.Event) error {
	cmd, err := payload[*DeleteCommand](ev)
	if err != nil {
		return err
	}
	return p.mutate(ctx, func() (bool, error) {
		removed, err := p.store.Remove(ctx, cmd.ID)
		if err != nil {
			return false, err
		}
		cmd.Removed = removed
		return true, nil
	})
}

func (p *Planner) onMoveMarkerBackward(ctx context.Context, ev eventbus.Event) error {
	cmd, err := payload[*MoveCommand](ev)
	if err != nil {
		return err
	}
	return p.mutate(ctx, func() (bool, error) {
		moved, err := p.store.SwapWithPrevious(ctx, cmd.ID)
		if err != nil {
			return false, err
		}
		cmd.Moved = moved
		return moved, nil
	})
}

func (p *Planner) onUpdateMarker(ctx context.Context, ev eventbus.Event) error {
	cmd, err := payload[*UpdateCommand](ev)
	if err != nil {
		return err
	}
	return p.mutate(ctx, func() (bool, error) {
		if err := p.checkSearchLocked(cmd.SearchToken); err != nil {
			return false, err
		}
		fields := cmd.Fields
		if cmd.Overnight != nil {
			resolved, err := p.overnightFieldsLocked(cmd.ID, *cmd.Overnight)
			if err != nil {
				return false, err
			}
			fields = resolved
		}
		updated, err := p.store.Update(ctx, cmd.ID, fields)
		if err != nil {
			return false, err
		}
		cmd.Updated = updated
		return true, nil
	})
}

func (p *Planner) onImportWaypoints(ctx context.Context, ev eventbus.Event) error {
	cmd, err := payload[*ImportCommand](ev)
	if err != nil {
		return err
	}
	return p.mutate(ctx, func() (bool, error) {
		if err := p.store.Import(ctx, cmd.Data); err != nil {
			return false, err
		}
		return true, nil
	})
}

func (p *Planner) onMapMoved(ctx context.Context, ev eventbus.Event) error {
	view, err := payload[models.MapView](ev)
	if err != nil {
		return err
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if view.Center != nil {
		center, err := json.Marshal(view.Center)
		if err != nil {
			return fmt.Errorf("encode map center: %w", err)
		}
		if err := p.kv.Set(ctx, kvstore.KeyMapCenter, string(center)); err != nil {
			return fmt.Errorf("%w: write %s: %w", apperrors.IOError, kvstore.KeyMapCenter, err)
		}
	}
	zoom := strconv.FormatFloat(view.Zoom, 'f', -1, 64)
	if err := p.kv.Set(ctx, kvstore.KeyMapZoom, zoom); err != nil {
		return fmt.Errorf("%w: write %s: %w", apperrors.IOError, kvstore.KeyMapZoom, err)
	}
	return nil
}

func payload[T any](ev eventbus.Event) (T, error) {
	v, ok := ev.Payload.(T)
	if !ok {
		var zero T
		return zero, fmt.Errorf("%s: unexpected payload %T", ev.Name, ev.Payload)
	}
	return v, nil
}
