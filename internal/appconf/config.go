package appconf

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/caarlos0/env/v6"
	"github.com/joho/godotenv"
)

type Environment int

const (
	Development Environment = iota
	Test
	Production
)

func (e Environment) String() string {
	switch e {
	case Test:
		return "test"
	case Production:
		return "production"
	default:
		return "development"
	}
}

// UnmarshalText lets env parse ENV=production directly into an Environment.
func (e *Environment) UnmarshalText(text []byte) error {
	*e = EnvFlagToEnvironment(string(text))
	return nil
}

// EnvFlagToEnvironment maps a flag or variable value to an Environment.
// Unknown values fall back to Development.
func EnvFlagToEnvironment(value string) Environment {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "test":
		return Test
	case "production", "prod":
		return Production
	default:
		return Development
	}
}

// Config holds all the configuration settings for the planner service and CLI.
type Config struct {
	Port      int         `env:"PORT" envDefault:"4000"`
	Env       Environment `env:"ENV" envDefault:"development"`
	ApiKeys   []string    `env:"API_KEYS" envSeparator:"," envDefault:"test"`
	RateLimit int         `env:"RATE_LIMIT" envDefault:"100"`
	LogLevel  string      `env:"LOG_LEVEL" envDefault:"info"`
	Timezone  string      `env:"TRIP_TIMEZONE" envDefault:"Local"`

	// StoreBackend is one of memory, sqlite or redis.
	StoreBackend string `env:"STORE_BACKEND" envDefault:"sqlite"`
	StorePath    string `env:"STORE_PATH" envDefault:"trip.db"`

	RedisAddr     string `env:"REDIS_ADDR" envDefault:"localhost:6379"`
	RedisPassword string `env:"REDIS_PASSWORD"`
	RedisDB       int    `env:"REDIS_DB" envDefault:"0"`
	RedisPrefix   string `env:"REDIS_PREFIX" envDefault:"trip"`

	SnowflakeNode int64 `env:"SNOWFLAKE_NODE" envDefault:"1"`

	// CompressionLevel is a gzip level; -2 (Huffman only) through 9.
	CompressionLevel   int `env:"COMPRESSION_LEVEL" envDefault:"6"`
	CompressionMinSize int `env:"COMPRESSION_MIN_SIZE" envDefault:"1024"`
}

// Load reads an optional .env file and then parses the environment.
func Load() (Config, error) {
	// A missing .env is normal outside local development.
	_ = godotenv.Load()

	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse environment: %w", err)
	}
	return cfg, nil
}

// Location resolves Timezone, treating "" and "Local" as the process zone.
func (c Config) Location() (*time.Location, error) {
	if c.Timezone == "" || c.Timezone == "Local" {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, fmt.Errorf("load timezone %q: %w", c.Timezone, err)
	}
	return loc, nil
}

// SlogLevel converts LogLevel to a slog.Level, defaulting to Info.
func (c Config) SlogLevel() slog.Level {
	switch strings.ToLower(c.LogLevel) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
