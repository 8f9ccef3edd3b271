// Package config loads Atlas configuration from the environment.
package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds application configuration.
type Config struct {
	// Application
	AppEnv   string
	LogLevel string

	// Database
	DatabaseURL string

	// Redis (optional; empty disables caching)
	RedisURL string

	// RabbitMQ (optional; empty selects the in-process event bus)
	RabbitMQURL string

	// Store client
	StoreTimeout time.Duration

	// UserID is the identity the CLI acts as.
	UserID string

	// Scheduling
	Scheduling SchedulingConfig
}

// SchedulingConfig carries the policy knobs of the scheduling engine.
// These were ambient defaults in earlier versions; they are explicit
// configuration now so deployments can tune them per tenant.
type SchedulingConfig struct {
	// SlotGranularity is the grid quantum all slot boundaries align to.
	SlotGranularity time.Duration
	// BusinessDays are the weekdays considered for meeting searches.
	BusinessDays []time.Weekday
	// MaxSuggestions caps the number of ranked suggestions returned.
	MaxSuggestions int
	// SearchFanout bounds concurrent per-attendee slot computations.
	SearchFanout int
	// RoomDayStart and RoomDayEnd define the bookable window of rooms,
	// which have no weekly availability records of their own.
	RoomDayStart time.Duration
	RoomDayEnd   time.Duration
	// MaxRecurrenceInstances is a safety cap on series materialization.
	MaxRecurrenceInstances int
}

// DefaultSchedulingConfig returns the reference policy: 30-minute grid,
// Monday through Friday, 8:00-20:00 room hours.
func DefaultSchedulingConfig() SchedulingConfig {
	return SchedulingConfig{
		SlotGranularity: 30 * time.Minute,
		BusinessDays: []time.Weekday{
			time.Monday, time.Tuesday, time.Wednesday, time.Thursday, time.Friday,
		},
		MaxSuggestions:         10,
		SearchFanout:           8,
		RoomDayStart:           8 * time.Hour,
		RoomDayEnd:             20 * time.Hour,
		MaxRecurrenceInstances: 366,
	}
}

// Load loads configuration from environment variables.
func Load() (*Config, error) {
	// Load .env file if it exists (ignore error if not found)
	_ = godotenv.Load()

	cfg := &Config{
		AppEnv:       getEnv("ATLAS_ENV", "development"),
		LogLevel:     getEnv("ATLAS_LOG_LEVEL", "info"),
		DatabaseURL:  getEnv("DATABASE_URL", ""),
		RedisURL:     getEnv("REDIS_URL", ""),
		RabbitMQURL:  getEnv("RABBITMQ_URL", ""),
		StoreTimeout: getDurationEnv("STORE_TIMEOUT", 5*time.Second),
		UserID:       getEnv("ATLAS_USER_ID", ""),
		Scheduling:   DefaultSchedulingConfig(),
	}

	cfg.Scheduling.SlotGranularity = getDurationEnv("SCHED_SLOT_GRANULARITY", cfg.Scheduling.SlotGranularity)
	cfg.Scheduling.BusinessDays = getWeekdaysEnv("SCHED_BUSINESS_DAYS", cfg.Scheduling.BusinessDays)
	cfg.Scheduling.MaxSuggestions = getIntEnv("SCHED_MAX_SUGGESTIONS", cfg.Scheduling.MaxSuggestions)
	cfg.Scheduling.SearchFanout = getIntEnv("SCHED_SEARCH_FANOUT", cfg.Scheduling.SearchFanout)
	cfg.Scheduling.RoomDayStart = getDurationEnv("SCHED_ROOM_DAY_START", cfg.Scheduling.RoomDayStart)
	cfg.Scheduling.RoomDayEnd = getDurationEnv("SCHED_ROOM_DAY_END", cfg.Scheduling.RoomDayEnd)
	cfg.Scheduling.MaxRecurrenceInstances = getIntEnv("SCHED_MAX_RECURRENCE_INSTANCES", cfg.Scheduling.MaxRecurrenceInstances)

	return cfg, nil
}

// IsDevelopment returns true if running in development mode.
func (c *Config) IsDevelopment() bool {
	return c.AppEnv == "development"
}

// IsProduction returns true if running in production mode.
func (c *Config) IsProduction() bool {
	return c.AppEnv == "production"
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getIntEnv(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return defaultValue
}

func getDurationEnv(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}

// getWeekdaysEnv parses a comma-separated list of weekday numbers
// (0=Sunday through 6=Saturday), e.g. "1,2,3,4,5".
func getWeekdaysEnv(key string, defaultValue []time.Weekday) []time.Weekday {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	days := make([]time.Weekday, 0, 7)
	for _, part := range strings.Split(value, ",") {
		n, err := strconv.Atoi(strings.TrimSpace(part))
		if err != nil || n < 0 || n > 6 {
			return defaultValue
		}
		days = append(days, time.Weekday(n))
	}
	if len(days) == 0 {
		return defaultValue
	}
	return days
}
