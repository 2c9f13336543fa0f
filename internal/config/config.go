package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	// Environment
	Environment string

	// Database
	DatabaseURL string

	// Redis
	RedisURL string

	// Server
	Port        string
	FrontendURL string

	// Session Settings
	SessionIdleTimeoutMin int
	ReaperIntervalSecs    int
	SessionSnapshotTTLMin int
	GuestRateLimitSeconds int

	// Security
	JWTSecret       string
	TokenTTLMinutes int
}

func Load() *Config {
	// Load .env file if it exists
	godotenv.Load()

	return &Config{
		// Environment
		Environment: getEnv("APP_ENV", "development"),

		// Database
		DatabaseURL: getEnv("DATABASE_URL", "postgres://localhost:5432/playlinks?sslmode=disable"),

		// Redis
		RedisURL: getEnv("REDIS_URL", "redis://localhost:6379/0"),

		// Server
		Port:        getEnv("APP_PORT", "8080"),
		FrontendURL: getEnv("FRONTEND_URL", "http://localhost:5173"),

		// Session Settings
		SessionIdleTimeoutMin: getEnvInt("SESSION_IDLE_TIMEOUT_MINUTES", 60),
		ReaperIntervalSecs:    getEnvInt("REAPER_INTERVAL_SECONDS", 60),
		SessionSnapshotTTLMin: getEnvInt("SESSION_SNAPSHOT_TTL_MINUTES", 120),
		GuestRateLimitSeconds: getEnvInt("GUEST_RATE_LIMIT_SECONDS", 5),

		// Security
		JWTSecret:       getEnv("JWT_SECRET", "change-me-in-production"),
		TokenTTLMinutes: getEnvInt("TOKEN_TTL_MINUTES", 720),
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}
