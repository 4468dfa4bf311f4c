package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/wolfman30/landing-leads/internal/ratelimit"
)

// Config holds application configuration
type Config struct {
	Port     string
	Env      string
	LogLevel string

	// Rate limiting for POST /leads, and the stricter admin throttle.
	RateLimitWindow   time.Duration
	RateLimitMax      int
	AdminRateLimitMax int

	// Admin basic auth. AdminPasswordHash is a bcrypt hash and wins over
	// AdminPassword when both are set.
	AdminUser         string
	AdminPassword     string
	AdminPasswordHash string

	// Lead storage
	LeadStore   string
	LeadsFile   string
	DatabaseURL string

	// Redis (optional, shares rate-limit state across instances)
	RedisAddr     string
	RedisPassword string
	RedisTLS      bool

	// New-lead notifications
	WebhookURL    string
	NotifyTimeout time.Duration
	NotifyEmailTo string
	EmailProvider string
	EmailFrom     string
	EmailFromName string

	SendGridAPIKey string

	AWSRegion           string
	AWSAccessKeyID      string
	AWSSecretAccessKey  string
	AWSEndpointOverride string

	CORSAllowedOrigins []string
}

// Load reads configuration from environment variables
func Load() *Config {
	return &Config{
		Port:     getEnv("PORT", "8080"),
		Env:      getEnv("ENV", "development"),
		LogLevel: getEnv("LOG_LEVEL", "info"),

		RateLimitWindow:   time.Duration(getEnvAsInt("RATE_LIMIT_WINDOW", 60)) * time.Second,
		RateLimitMax:      getEnvAsInt("RATE_LIMIT_MAX", 20),
		AdminRateLimitMax: getEnvAsInt("ADMIN_RATE_LIMIT_MAX", 30),

		AdminUser:         getEnv("ADMIN_USER", ""),
		AdminPassword:     getEnv("ADMIN_PASSWORD", ""),
		AdminPasswordHash: getEnv("ADMIN_PASSWORD_HASH", ""),

		LeadStore:   strings.ToLower(strings.TrimSpace(getEnv("LEAD_STORE", "file"))),
		LeadsFile:   getEnv("LEADS_FILE", "data/leads.json"),
		DatabaseURL: getEnv("DATABASE_URL", ""),

		RedisAddr:     getEnv("REDIS_ADDR", ""),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		RedisTLS:      getEnvAsBool("REDIS_TLS", false),

		WebhookURL:    getEnv("LEAD_WEBHOOK_URL", getEnv("N8N_WEBHOOK_URL", "")),
		NotifyTimeout: getEnvAsDuration("NOTIFY_TIMEOUT", 5*time.Second),
		NotifyEmailTo: getEnv("NOTIFY_EMAIL_TO", ""),
		EmailProvider: strings.ToLower(strings.TrimSpace(getEnv("EMAIL_PROVIDER", "none"))),
		EmailFrom:     getEnv("EMAIL_FROM", ""),
		EmailFromName: getEnv("EMAIL_FROM_NAME", "Landing Leads"),

		SendGridAPIKey: getEnv("SENDGRID_API_KEY", ""),

		AWSRegion:           getEnv("AWS_REGION", "us-east-1"),
		AWSAccessKeyID:      getEnv("AWS_ACCESS_KEY_ID", ""),
		AWSSecretAccessKey:  getEnv("AWS_SECRET_ACCESS_KEY", ""),
		AWSEndpointOverride: getEnv("AWS_ENDPOINT_OVERRIDE", ""),

		CORSAllowedOrigins: getEnvAsList("CORS_ALLOWED_ORIGINS"),
	}
}

// RateLimit returns the limiter settings for lead submissions.
func (c *Config) RateLimit() ratelimit.Config {
	return ratelimit.Config{
		Window: c.RateLimitWindow,
		Max:    c.RateLimitMax,
	}
}

// AdminRateLimit returns the limiter settings for the admin routes.
func (c *Config) AdminRateLimit() ratelimit.Config {
	return ratelimit.Config{
		Window: c.RateLimitWindow,
		Max:    c.AdminRateLimitMax,
	}
}

// AdminConfigured reports whether admin credentials were provided.
func (c *Config) AdminConfigured() bool {
	return c.AdminUser != "" && (c.AdminPassword != "" || c.AdminPasswordHash != "")
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvAsInt retrieves an environment variable as an integer or returns a default value
func getEnvAsInt(key string, defaultValue int) int {
	valueStr := getEnv(key, "")
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return defaultValue
}

// getEnvAsBool retrieves an environment variable as a boolean or returns a default value
func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseBool(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}
	if value, err := time.ParseDuration(valueStr); err == nil {
		return value
	}
	return defaultValue
}

// getEnvAsList splits a comma separated variable, dropping blanks.
func getEnvAsList(key string) []string {
	var out []string
	for _, part := range strings.Split(getEnv(key, ""), ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
