package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/corey-alix/trip-planner-app/internal/appconf"
	"github.com/corey-alix/trip-planner-app/internal/logging"
)

func main() {
	cfg, err := appconf.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	cfg, err = parseFlags(os.Args[1:], cfg)
	if err != nil {
		os.Exit(2)
	}

	logger := logging.NewStructuredLogger(os.Stdout, cfg.SlogLevel())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logger); err != nil {
		logging.LogError(logger, "server stopped", err, slog.String("component", "main"))
		os.Exit(1)
	}
}

// parseFlags lets command-line flags override the environment.
func parseFlags(args []string, cfg appconf.Config) (appconf.Config, error) {
	fs := flag.NewFlagSet("api", flag.ContinueOnError)

	var envFlag, apiKeysFlag string
	fs.IntVar(&cfg.Port, "port", cfg.Port, "API server port")
	fs.StringVar(&envFlag, "env", cfg.Env.String(), "Environment (development|test|production)")
	fs.StringVar(&apiKeysFlag, "api-keys", strings.Join(cfg.ApiKeys, ","), "Comma Separated API Keys (test, etc)")
	fs.IntVar(&cfg.RateLimit, "rate-limit", cfg.RateLimit, "Requests per second per API key")
	fs.StringVar(&cfg.StoreBackend, "store", cfg.StoreBackend, "Store backend (memory|sqlite|redis)")
	fs.StringVar(&cfg.StorePath, "store-path", cfg.StorePath, "SQLite database file")
	fs.StringVar(&cfg.RedisAddr, "redis-addr", cfg.RedisAddr, "Redis address")
	fs.StringVar(&cfg.Timezone, "timezone", cfg.Timezone, "IANA time zone for day labels")
	fs.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "Log level (debug|info|warn|error)")
	fs.IntVar(&cfg.CompressionLevel, "gzip-level", cfg.CompressionLevel, "Gzip level for responses (-2..9)")

	if err := fs.Parse(args); err != nil {
		return cfg, err
	}

	cfg.Env = appconf.EnvFlagToEnvironment(envFlag)

	cfg.ApiKeys = nil
	for _, k := range strings.Split(apiKeysFlag, ",") {
		if k = strings.TrimSpace(k); k != "" {
			cfg.ApiKeys = append(cfg.ApiKeys, k)
		}
	}

	return cfg, nil
}
