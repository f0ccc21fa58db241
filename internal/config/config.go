// Package config loads application configuration from environment variables.
package config

import (
	"encoding/hex"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/robfig/cron/v3"
)

const envPrefix = "MYDASHBOARD_"

// Config holds the application configuration loaded from environment variables.
type Config struct {
	GitHubToken     string
	GitHubUsername  string
	ListenAddr      string
	DBPath          string
	RefreshSchedule cron.Schedule
	RefreshSpec     string
	HTTPCachePath   string
	// SecretKey is nil when MYDASHBOARD_SECRET_KEY is unset; the credential
	// store then refuses writes.
	SecretKey []byte
	Location  *time.Location
	WeekStart time.Weekday
}

// Load reads configuration from environment variables and returns a validated Config.
// Every variable is optional. Defaults: MYDASHBOARD_LISTEN_ADDR (127.0.0.1:8080),
// MYDASHBOARD_DB_PATH (mydashboard.db), MYDASHBOARD_REFRESH_SCHEDULE (*/5 * * * *),
// MYDASHBOARD_TIMEZONE (Local), MYDASHBOARD_WEEK_START (sunday).
func Load() (*Config, error) {
	cfg := &Config{
		GitHubToken:    os.Getenv(envPrefix + "GITHUB_TOKEN"),
		GitHubUsername: strings.TrimSpace(os.Getenv(envPrefix + "GITHUB_USERNAME")),
		ListenAddr:     lookup("LISTEN_ADDR", "127.0.0.1:8080"),
		DBPath:         lookup("DB_PATH", "mydashboard.db"),
		RefreshSpec:    lookup("REFRESH_SCHEDULE", "*/5 * * * *"),
		HTTPCachePath:  os.Getenv(envPrefix + "HTTP_CACHE_PATH"),
		Location:       time.Local,
		WeekStart:      time.Sunday,
	}

	schedule, err := cron.ParseStandard(cfg.RefreshSpec)
	if err != nil {
		return nil, fmt.Errorf("%sREFRESH_SCHEDULE has invalid cron expression %q: %w", envPrefix, cfg.RefreshSpec, err)
	}
	// robfig/cron accepts dates that never occur, such as February 30th;
	// Next then reports the zero time.
	if schedule.Next(time.Now()).IsZero() {
		return nil, fmt.Errorf("%sREFRESH_SCHEDULE %q never fires", envPrefix, cfg.RefreshSpec)
	}
	cfg.RefreshSchedule = schedule

	if v, ok := os.LookupEnv(envPrefix + "TIMEZONE"); ok && v != "" {
		loc, err := time.LoadLocation(v)
		if err != nil {
			return nil, fmt.Errorf("%sTIMEZONE has unknown zone %q: %w", envPrefix, v, err)
		}
		cfg.Location = loc
	}

	if v, ok := os.LookupEnv(envPrefix + "WEEK_START"); ok && v != "" {
		switch strings.ToLower(v) {
		case "sunday":
			cfg.WeekStart = time.Sunday
		case "monday":
			cfg.WeekStart = time.Monday
		default:
			return nil, fmt.Errorf("%sWEEK_START must be sunday or monday, got %q", envPrefix, v)
		}
	}

	if v, ok := os.LookupEnv(envPrefix + "SECRET_KEY"); ok && v != "" {
		key, err := hex.DecodeString(v)
		if err != nil {
			return nil, fmt.Errorf("%sSECRET_KEY is not valid hex: %w", envPrefix, err)
		}
		if len(key) != 32 {
			return nil, fmt.Errorf("%sSECRET_KEY must be 64 hex characters (32 bytes), got %d bytes", envPrefix, len(key))
		}
		cfg.SecretKey = key
	}

	return cfg, nil
}

func lookup(name, fallback string) string {
	if v, ok := os.LookupEnv(envPrefix + name); ok && v != "" {
		return v
	}
	return fallback
}
