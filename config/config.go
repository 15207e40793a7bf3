// Package config loads server settings from a .env file, the environment
// and command-line flags, in increasing order of precedence.
package config

import (
	"flag"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds server settings.
type Config struct {
	Port        int
	DBPath      string
	CORSOrigins []string
	SessionTTL  time.Duration
}

// Defaults returns the settings used when nothing is configured.
func Defaults() Config {
	return Config{
		Port:        8080,
		DBPath:      "shiftbook.db",
		CORSOrigins: []string{"http://localhost:5173", "http://localhost:8080"},
		SessionTTL:  12 * time.Hour,
	}
}

// Load reads .env (if present), then SHIFTBOOK_* variables, then flags from args.
func Load(args []string) (Config, error) {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Printf("Warning: failed to read .env: %v", err)
	}

	cfg, err := FromEnv(os.Getenv)
	if err != nil {
		return Config{}, err
	}

	fs := flag.NewFlagSet("shiftbook", flag.ContinueOnError)
	fs.IntVar(&cfg.Port, "port", cfg.Port, "HTTP server port")
	fs.StringVar(&cfg.DBPath, "db", cfg.DBPath, "SQLite database path (\":memory:\" for in-memory)")
	fs.DurationVar(&cfg.SessionTTL, "session-ttl", cfg.SessionTTL, "idle lifetime of navigator sessions")
	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// FromEnv applies SHIFTBOOK_* variables on top of Defaults.
func FromEnv(getenv func(string) string) (Config, error) {
	cfg := Defaults()

	if v := getenv("SHIFTBOOK_PORT"); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil || port <= 0 || port > 65535 {
			return Config{}, fmt.Errorf("invalid SHIFTBOOK_PORT %q", v)
		}
		cfg.Port = port
	}
	if v := getenv("SHIFTBOOK_DB"); v != "" {
		cfg.DBPath = v
	}
	if v := getenv("SHIFTBOOK_CORS_ORIGINS"); v != "" {
		var origins []string
		for _, o := range strings.Split(v, ",") {
			if o = strings.TrimSpace(o); o != "" {
				origins = append(origins, o)
			}
		}
		cfg.CORSOrigins = origins
	}
	if v := getenv("SHIFTBOOK_SESSION_TTL"); v != "" {
		ttl, err := time.ParseDuration(v)
		if err != nil || ttl <= 0 {
			return Config{}, fmt.Errorf("invalid SHIFTBOOK_SESSION_TTL %q", v)
		}
		cfg.SessionTTL = ttl
	}
	return cfg, nil
}
