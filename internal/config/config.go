package config

import (
	"flag"
	"fmt"
	"os"
	"strings"
	"time"
)

// Config is the server configuration. Every flag falls back to an
// environment variable, then to a built-in default.
type Config struct {
	Addr         string
	AllowOrigins string
	DataDir      string
	Persist      bool
	LogLevel     string
	// RoomTTL is how long a room with no connections survives without
	// activity. Zero keeps rooms forever.
	RoomTTL time.Duration
}

func Load(args []string) (Config, error) {
	fs := flag.NewFlagSet("chessduo", flag.ContinueOnError)

	var cfg Config
	fs.StringVar(&cfg.Addr, "addr", getenv("CHESSDUO_ADDR", ":3000"), "listen address")
	fs.StringVar(&cfg.AllowOrigins, "allow-origins", getenv("CHESSDUO_ALLOW_ORIGINS", "http://localhost:5173"), "comma-separated CORS and websocket origins")
	fs.StringVar(&cfg.DataDir, "data-dir", getenv("CHESSDUO_DATA_DIR", "./data/rooms"), "room snapshot directory")
	fs.BoolVar(&cfg.Persist, "persist", getenb("CHESSDUO_PERSIST", true), "persist rooms to -data-dir")
	fs.StringVar(&cfg.LogLevel, "log-level", getenv("CHESSDUO_LOG_LEVEL", "info"), "log level (debug, info, warn, error)")
	ttl, err := getenvDuration("CHESSDUO_ROOM_TTL", 24*time.Hour)
	if err != nil {
		return Config{}, err
	}
	fs.DurationVar(&cfg.RoomTTL, "room-ttl", ttl, "expire idle rooms after this long, 0 to keep them")

	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}
	if cfg.Addr == "" {
		return Config{}, fmt.Errorf("-addr: empty listen address")
	}
	if cfg.Persist && cfg.DataDir == "" {
		return Config{}, fmt.Errorf("-data-dir: required when -persist is set")
	}
	if cfg.RoomTTL < 0 {
		return Config{}, fmt.Errorf("-room-ttl: negative duration %s", cfg.RoomTTL)
	}
	return cfg, nil
}

// Origins splits AllowOrigins into a list.
func (c Config) Origins() []string {
	var out []string
	for _, o := range strings.Split(c.AllowOrigins, ",") {
		if o = strings.TrimSpace(o); o != "" {
			out = append(out, o)
		}
	}
	return out
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getenvDuration(key string, def time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	d, err := time.ParseDuration(strings.TrimSpace(v))
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return d, nil
}

func getenb(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		switch strings.ToLower(strings.TrimSpace(v)) {
		case "1", "true", "t", "yes", "y", "on":
			return true
		case "0", "false", "f", "no", "n", "off":
			return false
		}
	}
	return def
}
