package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds application configuration
type Config struct {
	ServerPort string

	DatabaseType   string
	DatabasePath   string
	DatabaseURL    string
	MigrationsPath string

	// Path for anonymous (not signed in) progress storage
	LocalProgressPath string

	JWTSecret       string
	AccessTokenTTL  time.Duration
	SessionDuration time.Duration

	GoogleClientID       string
	GoogleClientSecret   string
	OAuthRedirectBaseURL string

	AlphaVantageAPIKey string
	CoinGeckoBaseURL   string

	AWSRegion      string
	SESFromAddress string
	EmailEnabled   bool
	EmailDebug     bool

	// Shared secret the billing provider signs webhook calls with
	BillingWebhookSecret string

	// When true a wrong lesson answer costs a heart immediately.
	// When false hearts are only checked at lesson entry.
	HeartLossPerMistake bool
}

// Load reads configuration from environment variables with sensible defaults.
// A .env file in the working directory is honoured if present.
func Load() *Config {
	_ = godotenv.Load()

	return &Config{
		ServerPort: getEnv("PORT", "8080"),

		DatabaseType:   getEnv("DB_TYPE", "sqlite"),
		DatabasePath:   getEnv("DB_PATH", "./tradeup.db"),
		DatabaseURL:    getEnv("DATABASE_URL", ""),
		MigrationsPath: getEnv("MIGRATIONS_PATH", "./migrations"),

		LocalProgressPath: getEnv("LOCAL_PROGRESS_PATH", "./data/local_progress"),

		JWTSecret:       getEnv("JWT_SECRET", ""),
		AccessTokenTTL:  getEnvDuration("ACCESS_TOKEN_TTL", 15*time.Minute),
		SessionDuration: getEnvDuration("SESSION_DURATION", 30*24*time.Hour),

		GoogleClientID:       getEnv("GOOGLE_CLIENT_ID", ""),
		GoogleClientSecret:   getEnv("GOOGLE_CLIENT_SECRET", ""),
		OAuthRedirectBaseURL: getEnv("OAUTH_REDIRECT_BASE_URL", "http://localhost:8080"),

		AlphaVantageAPIKey: getEnv("ALPHA_VANTAGE_API_KEY", ""),
		CoinGeckoBaseURL:   getEnv("COINGECKO_BASE_URL", "https://api.coingecko.com/api/v3"),

		AWSRegion:      getEnv("AWS_REGION", "eu-west-1"),
		SESFromAddress: getEnv("SES_FROM_ADDRESS", ""),
		EmailEnabled:   getEnvBool("EMAIL_ENABLED", false),
		EmailDebug:     getEnvBool("EMAIL_DEBUG", false),

		BillingWebhookSecret: getEnv("BILLING_WEBHOOK_SECRET", ""),

		HeartLossPerMistake: getEnvBool("HEART_LOSS_PER_MISTAKE", false),
	}
}

// getEnv reads an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvBool reads a boolean environment variable or returns a default value
func getEnvBool(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	parsed, err := strconv.ParseBool(value)
	if err != nil {
		return defaultValue
	}
	return parsed
}

// getEnvDuration reads a duration environment variable or returns a default value
func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	parsed, err := time.ParseDuration(value)
	if err != nil {
		return defaultValue
	}
	return parsed
}
