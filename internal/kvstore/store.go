// Package kvstore persists planner state as string values under fixed keys.
package kvstore

import (
	"context"
	"fmt"
	"log/slog"
	"maps"
	"slices"
	"sync"

	"github.com/corey-alix/trip-planner-app/internal/appconf"
)

const (
	KeyMarkers   = "markers"
	KeyMapCenter = "mapCenter"
	KeyMapZoom   = "mapZoom"
	KeyVersion   = "version"

	// SchemaVersion is written on first run.
	SchemaVersion = "1"
)

// Store is a string key-value store. Get reports ok=false for absent keys.
type Store interface {
	Get(ctx context.Context, key string) (value string, ok bool, err error)
	Set(ctx context.Context, key, value string) error
	Close() error
}

// Lister is implemented by stores that can enumerate their keys.
type Lister interface {
	Keys(ctx context.Context) ([]string, error)
}

// Upgrade initialises a store that has never been written: version is set and
// the route starts empty. Stores that already carry a version are untouched.
func Upgrade(ctx context.Context, store Store) error {
	_, ok, err := store.Get(ctx, KeyVersion)
	if err != nil {
		return fmt.Errorf("read version: %w", err)
	}
	if ok {
		return nil
	}
	if err := store.Set(ctx, KeyVersion, SchemaVersion); err != nil {
		return fmt.Errorf("write version: %w", err)
	}
	if err := store.Set(ctx, KeyMarkers, "[]"); err != nil {
		return fmt.Errorf("initialise markers: %w", err)
	}
	return nil
}

// Open builds the backend named by cfg.StoreBackend and runs Upgrade on it.
func Open(ctx context.Context, cfg appconf.Config, logger *slog.Logger) (Store, error) {
	var (
		store Store
		err   error
	)

	switch cfg.StoreBackend {
	case "memory":
		store = NewMemory()
	case "sqlite", "":
		store, err = NewSQLite(NewConfig(cfg.StorePath, cfg.Env), logger)
	case "redis":
		store, err = NewRedis(ctx, RedisConfig{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
			Prefix:   cfg.RedisPrefix,
		})
	default:
		return nil, fmt.Errorf("unknown store backend %q", cfg.StoreBackend)
	}
	if err != nil {
		return nil, err
	}

	if err := Upgrade(ctx, store); err != nil {
		_ = store.Close()
		return nil, err
	}
	return store, nil
}

// Memory keeps values in a map. It is used by tests and the memory backend.
type Memory struct {
	mu     sync.RWMutex
	values map[string]string
}

func NewMemory() *Memory {
	return &Memory{values: make(map[string]string)}
}

func (m *Memory) Get(_ context.Context, key string) (string, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	value, ok := m.values[key]
	return value, ok, nil
}

func (m *Memory) Set(_ context.Context, key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.values[key] = value
	return nil
}

// Keys lists stored keys in name order.
func (m *Memory) Keys(_ context.Context) ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return slices.Sorted(maps.Keys(m.values)), nil
}

func (m *Memory) Close() error {
	return nil
}
