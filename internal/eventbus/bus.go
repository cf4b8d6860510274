// Package eventbus is a synchronous in-process publish/subscribe hub.
package eventbus

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"
)

// Name identifies an event.
type Name string

const (
	AddMarker          Name = "add-marker"
	InsertStop         Name = "insert-stop"
	DeleteMarker       Name = "delete-marker"
	MoveMarkerBackward Name = "move-marker-backward"
	UpdateMarker       Name = "update-marker"
	ImportWaypoints    Name = "import-waypoints"
	Popup              Name = "popup"
	RouteChanged       Name = "route-changed"
	MapMoved           Name = "map-moved"
)

// Event is delivered to every handler subscribed to its name.
type Event struct {
	Name      Name
	Payload   any
	Seq       uint64
	Timestamp time.Time
}

// Handler receives an event. A returned error does not stop later handlers.
type Handler func(ctx context.Context, ev Event) error

// Bus dispatches events to handlers in registration order.
// Handlers run on the publishing goroutine.
type Bus struct {
	mu       sync.RWMutex
	handlers map[Name][]Handler
	sequence atomic.Uint64
}

func New() *Bus {
	return &Bus{handlers: make(map[Name][]Handler)}
}

// Subscribe registers h for name. There is no unsubscribe.
func (b *Bus) Subscribe(name Name, h Handler) {
	if h == nil {
		return
	}
	b.mu.Lock()
	b.handlers[name] = append(b.handlers[name], h)
	b.mu.Unlock()
}

// Publish calls every handler registered for name when Publish starts.
// Handlers subscribed while it runs are not called for this event.
func (b *Bus) Publish(ctx context.Context, name Name, payload any) error {
	b.mu.RLock()
	snapshot := append([]Handler(nil), b.handlers[name]...)
	b.mu.RUnlock()

	ev := Event{
		Name:      name,
		Payload:   payload,
		Seq:       b.sequence.Add(1),
		Timestamp: time.Now(),
	}

	var errs []error
	for i, h := range snapshot {
		if err := h(ctx, ev); err != nil {
			errs = append(errs, fmt.Errorf("%s handler %d: %w", name, i, err))
		}
	}
	return errors.Join(errs...)
}

// Subscribers reports how many handlers are registered for name.
func (b *Bus) Subscribers(name Name) int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.handlers[name])
}
