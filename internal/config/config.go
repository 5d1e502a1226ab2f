// Package config loads and validates environment variables at startup.
// Fail-fast: if a required variable is missing, the process exits.
package config

import (
	"fmt"
	"os"
	"strconv"
)

// Config holds all runtime configuration for the mapping service.
type Config struct {
	Port              string
	DatabaseURL       string
	RedisURL          string
	SyncIntervalHours int    // how often the cron sync+mapping cycle fires
	ReviewDir         string // where the manual-review CSV files live

	// Eduson-style LMS: static API token in a request header.
	LmsAPIURL   string
	LmsAPIToken string

	// Coursera-style assessment platform: OAuth refresh-token flow.
	AssessAPIURL       string
	AssessTokenURL     string
	AssessRefreshToken string
	AssessOrgID        string
}

// Load reads environment variables and returns a validated Config.
func Load() (*Config, error) {
	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is required")
	}

	redisURL := os.Getenv("REDIS_URL")
	if redisURL == "" {
		return nil, fmt.Errorf("REDIS_URL is required")
	}

	interval := 12
	if s := os.Getenv("SYNC_INTERVAL_HOURS"); s != "" {
		v, err := strconv.Atoi(s)
		if err != nil || v < 1 {
			return nil, fmt.Errorf("SYNC_INTERVAL_HOURS must be a positive integer, got %q", s)
		}
		interval = v
	}

	reviewDir := os.Getenv("REVIEW_DIR")
	if reviewDir == "" {
		reviewDir = "support"
	}

	port := os.Getenv("MAPPER_PORT")
	if port == "" {
		port = "8083"
	}

	return &Config{
		Port:              port,
		DatabaseURL:       dbURL,
		RedisURL:          redisURL,
		SyncIntervalHours: interval,
		ReviewDir:         reviewDir,

		LmsAPIURL:   os.Getenv("LMS_API_URL"),
		LmsAPIToken: os.Getenv("LMS_API_TOKEN"),

		AssessAPIURL:       os.Getenv("ASSESS_API_URL"),
		AssessTokenURL:     os.Getenv("ASSESS_TOKEN_URL"),
		AssessRefreshToken: os.Getenv("ASSESS_REFRESH_TOKEN"),
		AssessOrgID:        os.Getenv("ASSESS_ORG_ID"),
	}, nil
}
