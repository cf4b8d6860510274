package main

import (
	"bytes"
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/corey-alix/trip-planner-app/internal/appconf"
	"github.com/corey-alix/trip-planner-app/internal/logging"
	"github.com/corey-alix/trip-planner-app/internal/restapi"
)

func testConfig() appconf.Config {
	return appconf.Config{
		Port:          0,
		Env:           appconf.Test,
		ApiKeys:       []string{"test"},
		RateLimit:     100,
		LogLevel:      "info",
		Timezone:      "UTC",
		StoreBackend:  "memory",
		SnowflakeNode: 1,

		CompressionLevel:   6,
		CompressionMinSize: 1024,
	}
}

func TestParseFlags(t *testing.T) {
	base := testConfig()

	cfg, err := parseFlags([]string{
		"-port", "8080",
		"-env", "production",
		"-api-keys", " alpha, beta ,,",
		"-store", "sqlite",
		"-store-path", "/tmp/trip.db",
		"-timezone", "America/Chicago",
	}, base)
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Port)
	assert.Equal(t, appconf.Production, cfg.Env)
	assert.Equal(t, []string{"alpha", "beta"}, cfg.ApiKeys)
	assert.Equal(t, "sqlite", cfg.StoreBackend)
	assert.Equal(t, "/tmp/trip.db", cfg.StorePath)
	assert.Equal(t, "America/Chicago", cfg.Timezone)

	t.Run("defaults come from the environment config", func(t *testing.T) {
		cfg, err := parseFlags(nil, base)
		require.NoError(t, err)
		assert.Equal(t, base, cfg)
	})

	t.Run("unknown flag", func(t *testing.T) {
		_, err := parseFlags([]string{"-nope"}, base)
		assert.Error(t, err)
	})
}

func TestBuildApplication(t *testing.T) {
	var buf bytes.Buffer
	logger := logging.NewStructuredLogger(&buf, slog.LevelInfo)

	application, kv, err := buildApplication(context.Background(), testConfig(), logger)
	require.NoError(t, err)
	t.Cleanup(func() { _ = kv.Close() })

	assert.Empty(t, application.Planner.Waypoints())
	assert.Equal(t, time.UTC, application.Planner.Location())
	assert.Contains(t, buf.String(), `"msg":"route_loaded"`)
	assert.Contains(t, buf.String(), `"route_subscribers":`)

	t.Run("bad time zone", func(t *testing.T) {
		cfg := testConfig()
		cfg.Timezone = "Mars/Olympus_Mons"
		_, _, err := buildApplication(context.Background(), cfg, logger)
		assert.Error(t, err)
	})

	t.Run("unknown backend", func(t *testing.T) {
		cfg := testConfig()
		cfg.StoreBackend = "floppy"
		_, _, err := buildApplication(context.Background(), cfg, logger)
		assert.ErrorContains(t, err, "floppy")
	})
}

func TestHandlerChain(t *testing.T) {
	var buf bytes.Buffer
	logger := logging.NewStructuredLogger(&buf, slog.LevelInfo)

	application, kv, err := buildApplication(context.Background(), testConfig(), logger)
	require.NoError(t, err)
	t.Cleanup(func() { _ = kv.Close() })

	api := restapi.NewRestAPI(application)
	t.Cleanup(api.Close)
	handler, err := newHandler(application, api)
	require.NoError(t, err)
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	resp, err := http.Get(server.URL + "/api/route.json?key=test")
	require.NoError(t, err)
	_ = resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.NotEmpty(t, resp.Header.Get("X-Request-ID"))
	assert.Equal(t, "nosniff", resp.Header.Get("X-Content-Type-Options"))
	assert.Contains(t, buf.String(), `"path":"/api/route.json"`)

	resp, err = http.Get(server.URL + "/debug/?dataType=waypoints")
	require.NoError(t, err)
	_ = resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	// Profiles are only mounted in development.
	resp, err = http.Get(server.URL + "/debug/pprof/")
	require.NoError(t, err)
	_ = resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestServeStopsOnCancel(t *testing.T) {
	srv := &http.Server{
		Addr:    "127.0.0.1:0",
		Handler: http.NotFoundHandler(),
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- serve(ctx, srv, logging.Discard()) }()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("serve did not return after cancel")
	}
}
