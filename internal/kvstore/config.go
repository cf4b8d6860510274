package kvstore

import "github.com/corey-alix/trip-planner-app/internal/appconf"

// Config holds configuration options for the SQLite backend
type Config struct {
	DBPath string // Path to SQLite database file
	Env    appconf.Environment
}

func NewConfig(dbPath string, env appconf.Environment) Config {
	return Config{
		DBPath: dbPath,
		Env:    env,
	}
}
