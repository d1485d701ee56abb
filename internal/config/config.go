package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"time"
)

// Config holds all application configuration
type Config struct {
	// MongoDB Configuration
	MongoURI      string
	MongoDatabase string
	MongoTimeout  time.Duration

	// HTTP Server Configuration
	HTTPPort         string
	HTTPReadTimeout  time.Duration
	HTTPWriteTimeout time.Duration

	// SPARQL Endpoint Configuration
	SPARQLEndpoint  string
	SPARQLTimeout   time.Duration
	SPARQLUserAgent string

	// Batch Retrieval Configuration
	BatchSize   int
	Cooldown    time.Duration
	MaxRounds   int // 0 means unlimited
	RunOnStart  bool
	ExportPath  string

	// Logging Configuration
	LogLevel  string
	LogFormat string

	// Refresh Scheduler Configuration
	RefreshEnabled  bool
	RefreshSchedule string
	RefreshLockTTL  time.Duration

	// Completion Webhook Configuration
	WebhookURL            string
	WebhookTimeout        time.Duration
	WebhookMaxAttempts    int
	WebhookInitialDelayMs int
}

// Load reads configuration from environment variables with sensible defaults
func Load() *Config {
	return &Config{
		// MongoDB
		MongoURI:      getEnv("MONGO_URI", "mongodb://localhost:27017/wikigeo?authSource=admin"),
		MongoDatabase: getEnv("MONGO_DATABASE", "wikigeo"),
		MongoTimeout:  getDurationEnv("MONGO_TIMEOUT_SEC", 10) * time.Second,

		// HTTP Server
		HTTPPort:         getEnv("HTTP_PORT", "8080"),
		HTTPReadTimeout:  getDurationEnv("HTTP_READ_TIMEOUT_SEC", 30) * time.Second,
		HTTPWriteTimeout: getDurationEnv("HTTP_WRITE_TIMEOUT_SEC", 60) * time.Second,

		// SPARQL
		SPARQLEndpoint:  getEnv("SPARQL_ENDPOINT", "https://query.wikidata.org/sparql"),
		SPARQLTimeout:   getDurationEnv("SPARQL_TIMEOUT_SEC", 60) * time.Second,
		SPARQLUserAgent: getEnv("SPARQL_USER_AGENT", "wikigeo/1.0 (https://github.com/dandantas/wikigeo)"),

		// Batch retrieval. The cooldown matches the window in which the
		// WikiData endpoint measures per-client resource usage.
		BatchSize:  getIntEnv("BATCH_SIZE", 250),
		Cooldown:   getDurationEnv("COOLDOWN_SEC", 60) * time.Second,
		MaxRounds:  getIntEnv("MAX_ROUNDS", 0),
		RunOnStart: getBoolEnv("RUN_ON_START", false),
		ExportPath: getEnv("EXPORT_PATH", ""),

		// Logging
		LogLevel:  getEnv("LOG_LEVEL", "info"),
		LogFormat: getEnv("LOG_FORMAT", "json"),

		// Refresh Scheduler
		RefreshEnabled:  getBoolEnv("REFRESH_ENABLED", false),
		RefreshSchedule: getEnv("REFRESH_SCHEDULE", "0 3 * * 0"),
		RefreshLockTTL:  getDurationEnv("REFRESH_LOCK_TTL_SEC", 3600) * time.Second,

		// Completion Webhook
		WebhookURL:            getEnv("WEBHOOK_URL", ""),
		WebhookTimeout:        getDurationEnv("WEBHOOK_TIMEOUT_SEC", 10) * time.Second,
		WebhookMaxAttempts:    getIntEnv("WEBHOOK_MAX_ATTEMPTS", 3),
		WebhookInitialDelayMs: getIntEnv("WEBHOOK_INITIAL_DELAY_MS", 1000),
	}
}

// Validate checks configuration values that would make a run impossible.
func (c *Config) Validate() error {
	if c.BatchSize < 1 {
		return fmt.Errorf("BATCH_SIZE must be a positive integer, got %d", c.BatchSize)
	}
	if c.Cooldown < 0 {
		return fmt.Errorf("COOLDOWN_SEC must be non-negative")
	}
	if c.MaxRounds < 0 {
		return fmt.Errorf("MAX_ROUNDS must be non-negative (0 means unlimited)")
	}
	return nil
}

// Helper functions
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getIntEnv(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
		log.Printf("Warning: Invalid integer value for %s, using default %d", key, defaultValue)
	}
	return defaultValue
}

func getDurationEnv(key string, defaultValue int) time.Duration {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return time.Duration(intVal)
		}
		log.Printf("Warning: Invalid duration value for %s, using default %d", key, defaultValue)
	}
	return time.Duration(defaultValue)
}

func getBoolEnv(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
		log.Printf("Warning: Invalid boolean value for %s, using default %t", key, defaultValue)
	}
	return defaultValue
}
