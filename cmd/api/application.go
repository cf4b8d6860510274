package main

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/corey-alix/trip-planner-app/internal/app"
	"github.com/corey-alix/trip-planner-app/internal/appconf"
	"github.com/corey-alix/trip-planner-app/internal/eventbus"
	"github.com/corey-alix/trip-planner-app/internal/idgen"
	"github.com/corey-alix/trip-planner-app/internal/kvstore"
	"github.com/corey-alix/trip-planner-app/internal/logging"
	"github.com/corey-alix/trip-planner-app/internal/planner"
	"github.com/corey-alix/trip-planner-app/internal/waypoint"
)

// buildApplication opens the store and loads the route. The caller closes the
// returned store.
func buildApplication(ctx context.Context, cfg appconf.Config, logger *slog.Logger) (*app.Application, kvstore.Store, error) {
	loc, err := cfg.Location()
	if err != nil {
		return nil, nil, err
	}
	// Timestamps are parsed as wall-clock times in time.Local.
	time.Local = loc

	ids, err := idgen.NewSnowflake(cfg.SnowflakeNode)
	if err != nil {
		return nil, nil, err
	}

	kv, err := kvstore.Open(ctx, cfg, logger)
	if err != nil {
		return nil, nil, fmt.Errorf("open %s store: %w", cfg.StoreBackend, err)
	}

	p := planner.New(planner.Config{
		Store:    waypoint.NewStore(kv, ids, logger),
		KV:       kv,
		Location: loc,
		Logger:   logger,
	})
	p.Bus().Subscribe(eventbus.RouteChanged, func(_ context.Context, ev eventbus.Event) error {
		change, ok := ev.Payload.(planner.RouteChange)
		if !ok {
			return nil
		}
		logger.Debug("route changed",
			slog.String("component", "planner"),
			slog.Uint64("seq", ev.Seq),
			slog.Int("waypoints", len(change.Entry.Waypoints)))
		return nil
	})

	if err := p.Load(ctx); err != nil {
		logging.SafeCloseWithLogging(kv, logger, "kvstore")
		return nil, nil, fmt.Errorf("load route: %w", err)
	}

	logging.LogOperation(logger, "route_loaded",
		slog.String("component", "planner"),
		slog.String("store", cfg.StoreBackend),
		slog.Int("waypoints", len(p.Waypoints())),
		slog.Int("route_subscribers", p.Bus().Subscribers(eventbus.RouteChanged)))

	return &app.Application{
		Config:  cfg,
		Logger:  logger,
		Planner: p,
	}, kv, nil
}
