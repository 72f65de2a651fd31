package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds application configuration
type Config struct {
	Port               string
	Env                string
	LogLevel           string
	PublicBaseURL      string
	CORSAllowedOrigins []string

	// Storage backend for durable (cart) state: "memory", "redis" or "postgres".
	StorageBackend string
	DatabaseURL    string
	RedisAddr      string
	RedisPassword  string
	RedisTLS       bool

	// CartTTL bounds how long an abandoned visitor cart is retained by the
	// redis backend. Zero means no expiry.
	CartTTL time.Duration

	// Page targets used by the checkout gate and post-login routing.
	LoginPage    string
	CheckoutPage string
	ServicesPage string
	HomePage     string

	// AddedLabelResetDelay is the cosmetic delay before an "Added!" button
	// label reverts. Exposed to clients through the catalog endpoint.
	AddedLabelResetDelay time.Duration
}

// Load reads configuration from environment variables
func Load() *Config {
	return &Config{
		Port:                 getEnv("PORT", "8080"),
		Env:                  getEnv("ENV", "development"),
		LogLevel:             getEnv("LOG_LEVEL", "info"),
		PublicBaseURL:        getEnv("PUBLIC_BASE_URL", ""),
		CORSAllowedOrigins:   getEnvAsSlice("CORS_ALLOWED_ORIGINS", nil),
		StorageBackend:       strings.ToLower(strings.TrimSpace(getEnv("STORAGE_BACKEND", "memory"))),
		DatabaseURL:          getEnv("DATABASE_URL", ""),
		RedisAddr:            getEnv("REDIS_ADDR", ""),
		RedisPassword:        getEnv("REDIS_PASSWORD", ""),
		RedisTLS:             getEnvAsBool("REDIS_TLS", false),
		CartTTL:              getEnvAsDuration("CART_TTL", 0),
		LoginPage:            getEnv("LOGIN_PAGE", "login.html"),
		CheckoutPage:         getEnv("CHECKOUT_PAGE", "checkout.html"),
		ServicesPage:         getEnv("SERVICES_PAGE", "services.html"),
		HomePage:             getEnv("HOME_PAGE", "index.html"),
		AddedLabelResetDelay: getEnvAsDuration("ADDED_LABEL_RESET_DELAY", 1500*time.Millisecond),
	}
}

// getEnv reads an environment variable with a fallback default
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvAsBool reads a boolean environment variable with a fallback default
func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.ParseBool(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}

// getEnvAsDuration reads a duration environment variable with a fallback default
func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := time.ParseDuration(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}

// getEnvAsSlice reads a comma-separated environment variable
func getEnvAsSlice(key string, defaultValue []string) []string {
	valueStr := os.Getenv(key)
	if strings.TrimSpace(valueStr) == "" {
		return defaultValue
	}
	parts := strings.Split(valueStr, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
