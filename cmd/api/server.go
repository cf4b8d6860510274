package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/julienschmidt/httprouter"
	"golang.org/x/sync/errgroup"

	"github.com/corey-alix/trip-planner-app/internal/app"
	"github.com/corey-alix/trip-planner-app/internal/appconf"
	"github.com/corey-alix/trip-planner-app/internal/logging"
	"github.com/corey-alix/trip-planner-app/internal/restapi"
	"github.com/corey-alix/trip-planner-app/internal/webui"
)

const shutdownTimeout = 10 * time.Second

func run(ctx context.Context, cfg appconf.Config, logger *slog.Logger) error {
	application, kv, err := buildApplication(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer logging.SafeCloseWithLogging(kv, logger, "kvstore")

	api := restapi.NewRestAPI(application)
	defer api.Close()

	handler, err := newHandler(application, api)
	if err != nil {
		return err
	}

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      handler,
		IdleTimeout:  time.Minute,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
		ErrorLog:     slog.NewLogLogger(logger.Handler(), slog.LevelError),
	}

	logger.Info("starting server", "addr", srv.Addr, "env", cfg.Env.String())
	return serve(ctx, srv, logger)
}

// newHandler mounts the API and debug pages behind the shared middleware.
func newHandler(application *app.Application, api *restapi.RestAPI) (http.Handler, error) {
	compress, err := restapi.NewCompressionMiddleware(restapi.CompressionConfig{
		MinSize: application.Config.CompressionMinSize,
		Level:   application.Config.CompressionLevel,
	})
	if err != nil {
		return nil, err
	}

	router := httprouter.New()
	api.SetRoutes(router)

	webUI := &webui.WebUI{Application: application}
	webUI.SetWebUIRoutes(router)

	if application.Config.Env == appconf.Development {
		restapi.RegisterPprofHandlers(router)
	}

	handler := api.WithSecurityHeaders(router)
	handler = compress(handler)
	return restapi.NewRequestLoggingMiddleware(application.Logger)(handler), nil
}

// serve runs srv until ctx is cancelled, then shuts it down gracefully.
func serve(ctx context.Context, srv *http.Server, logger *slog.Logger) error {
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutting down server", "addr", srv.Addr)

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	return g.Wait()
}
