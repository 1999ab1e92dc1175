package config

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"ticketpulse/internal/repositories/gleap"
	"ticketpulse/internal/service/dashboard"
	"ticketpulse/internal/timewindow"
	"ticketpulse/pkg/logger"
)

// Settings are read once from the environment at startup
type Settings struct {
	Gleap gleap.Config

	FanoutBatchSize int
	OpenLimit       int
	MaxDays         int
	HourlyMaxDays   int
	// Roster restricts the shift view; empty keeps every agent
	Roster []string

	Environment string
	LogLevel    logger.LogLevel
}

// LoadSettings reads the GLEAP_* credentials and the optional tuning knobs.
// The credentials have no default.
func LoadSettings() (Settings, error) {
	s := Settings{
		Gleap: gleap.Config{
			BaseURL:   os.Getenv("GLEAP_BASE_URL"),
			Token:     gleapToken(),
			ProjectID: strings.TrimSpace(os.Getenv("GLEAP_PROJECT_ID")),
			TeamID:    strings.TrimSpace(os.Getenv("GLEAP_TEAM_ID")),
			Timeout:   getEnvAsDuration("GLEAP_TIMEOUT", gleap.DefaultTimeout),
			RPS:       getEnvAsFloat("GLEAP_RPS", 10),
			Burst:     getEnvAsInt("GLEAP_BURST", 10),
			CacheTTL:  getEnvAsDuration("GLEAP_CACHE_TTL", gleap.DefaultCacheTTL),
		},
		FanoutBatchSize: getEnvAsInt("FANOUT_BATCH_SIZE", dashboard.DefaultFanoutBatchSize),
		OpenLimit:       getEnvAsInt("OPEN_TICKETS_LIMIT", gleap.DefaultOpenLimit),
		MaxDays:         getEnvAsInt("MAX_RANGE_DAYS", timewindow.DefaultMaxDays),
		HourlyMaxDays:   getEnvAsInt("HOURLY_MAX_DAYS", timewindow.DefaultHourlyMaxDays),
		Environment:     os.Getenv("ENVIRONMENT_APP"),
		LogLevel:        logger.LogLevel(strings.ToUpper(os.Getenv("LOG_LEVEL"))),
	}
	if s.Environment == "" {
		s.Environment = "development"
	}
	if s.LogLevel == "" {
		s.LogLevel = logger.LevelInfo
	}

	var missing []string
	if s.Gleap.Token == "" {
		missing = append(missing, "GLEAP_TOKEN")
	}
	if s.Gleap.ProjectID == "" {
		missing = append(missing, "GLEAP_PROJECT_ID")
	}
	if s.Gleap.TeamID == "" {
		missing = append(missing, "GLEAP_TEAM_ID")
	}
	if len(missing) > 0 {
		return s, fmt.Errorf("missing required environment variables: %s", strings.Join(missing, ", "))
	}

	if raw := strings.TrimSpace(os.Getenv("SHIFT_ROSTER")); raw != "" {
		if err := json.Unmarshal([]byte(raw), &s.Roster); err != nil {
			return s, fmt.Errorf("SHIFT_ROSTER must be a JSON array of emails or names: %w", err)
		}
	}
	return s, nil
}

// gleapToken takes the first of the accepted token variables and strips a
// "Bearer " prefix
func gleapToken() string {
	for _, name := range []string{"GLEAP_TOKEN", "GLEAP_API_TOKEN", "GLEAP_DASH_TOKEN"} {
		v := strings.TrimSpace(os.Getenv(name))
		if v == "" {
			continue
		}
		if len(v) > 7 && strings.EqualFold(v[:7], "bearer ") {
			v = strings.TrimSpace(v[7:])
		}
		return v
	}
	return ""
}

func getEnvAsInt(name string, defaultValue int) int {
	value, err := strconv.Atoi(os.Getenv(name))
	if err != nil || value <= 0 {
		return defaultValue
	}
	return value
}

func getEnvAsFloat(name string, defaultValue float64) float64 {
	value, err := strconv.ParseFloat(os.Getenv(name), 64)
	if err != nil || value < 0 {
		return defaultValue
	}
	return value
}

// getEnvAsDuration accepts Go durations ("20s") or plain seconds
func getEnvAsDuration(name string, defaultValue time.Duration) time.Duration {
	raw := os.Getenv(name)
	if raw == "" {
		return defaultValue
	}
	if d, err := time.ParseDuration(raw); err == nil && d >= 0 {
		return d
	}
	if secs, err := strconv.Atoi(raw); err == nil && secs >= 0 {
		return time.Duration(secs) * time.Second
	}
	return defaultValue
}
