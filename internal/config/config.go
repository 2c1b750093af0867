package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config holds the application configuration
type Config struct {
	Port        string
	Environment string // development, production
	DBPath      string
	JWTSecret   string

	// HTTP rate limiting, applied per client IP
	RateLimitPerSecond float64
	RateLimitBurst     int

	// Place lookup / enrichment
	PlacesAPIKey         string
	PlacesAPIBaseURL     string
	LookupRatePerSecond  float64
	LookupWorkers        int
	LookupBatchSize      int
	LookupRetryCeiling   int
	LookupTimeoutSeconds int
	CacheMaxAgeHours     int // 0 = cached places stay fresh indefinitely

	// Trip detection thresholds
	HomeRadiusMeters      float64
	ClusterDistanceMeters float64
	ClusterTimeGapHours   float64
}

// Load reads configuration from the environment, after best-effort loading
// a local .env file. Unset options fall back to their defaults.
func Load() *Config {
	// Only sets vars that are not already set; missing file is fine.
	_ = godotenv.Load()

	return &Config{
		Port:        getEnv("PORT", ":8080"),
		Environment: getEnv("ENVIRONMENT", "development"),
		DBPath:      getEnv("DB_PATH", "./data/timeline.db"),
		JWTSecret:   getEnv("JWT_SECRET", "your-secret-key-change-in-production"),

		RateLimitPerSecond: getEnvFloat("RATE_LIMIT_PER_SECOND", 20),
		RateLimitBurst:     getEnvInt("RATE_LIMIT_BURST", 40),

		PlacesAPIKey:         getEnv("PLACES_API_KEY", ""),
		PlacesAPIBaseURL:     getEnv("PLACES_API_BASE_URL", "https://maps.googleapis.com/maps/api/place/details/json"),
		LookupRatePerSecond:  getEnvFloat("LOOKUP_RATE_PER_SECOND", 10),
		LookupWorkers:        getEnvInt("LOOKUP_WORKERS", 4),
		LookupBatchSize:      getEnvInt("LOOKUP_BATCH_SIZE", 50),
		LookupRetryCeiling:   getEnvInt("LOOKUP_RETRY_CEILING", 3),
		LookupTimeoutSeconds: getEnvInt("LOOKUP_TIMEOUT_SECONDS", 60),
		CacheMaxAgeHours:     getEnvInt("CACHE_MAX_AGE_HOURS", 0),

		HomeRadiusMeters:      getEnvFloat("HOME_RADIUS_METERS", 1000),
		ClusterDistanceMeters: getEnvFloat("CLUSTER_DISTANCE_METERS", 50000),
		ClusterTimeGapHours:   getEnvFloat("CLUSTER_TIME_GAP_HOURS", 48),
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func getEnvFloat(key string, fallback float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return fallback
}
