package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Port        string
	ServiceName string
	Environment string
	// Webhook relay (Discord)
	DiscordWebhookURL string
	WebhookTimeout    time.Duration
	// Extra CORS origins for the landing page (comma separated in env)
	AllowedOrigins []string
	// Redis/Upstash Configuration
	UpstashRedisURL      string
	UpstashRedisPassword string
	// Rate Limiting Configuration
	RateLimitWindowSeconds  int
	RateLimitTrialThreshold int
}

func LoadConfig() (*Config, error) {
	// Only effective locally; production injects env directly
	_ = godotenv.Load()

	cfg := &Config{
		Port:              getEnv("PORT", "8080"),
		ServiceName:       getEnv("SERVICE_NAME", "trial-intake-api"),
		Environment:       environmentFromMode(getEnv("GIN_MODE", "")),
		DiscordWebhookURL: strings.TrimSpace(getEnv("DISCORD_WEBHOOK_URL", "")),
		WebhookTimeout:    time.Duration(getEnvInt("WEBHOOK_TIMEOUT_SECONDS", 10)) * time.Second,
		AllowedOrigins:    splitList(getEnv("ALLOWED_ORIGINS", "")),
		// Redis/Upstash Configuration
		UpstashRedisURL:      getEnv("UPSTASH_REDIS_URL", ""),
		UpstashRedisPassword: getEnv("UPSTASH_REDIS_PASSWORD", ""),
		// Rate Limiting Configuration (0 keeps the limiter off)
		RateLimitWindowSeconds:  getEnvInt("RATE_LIMIT_WINDOW_SECONDS", 60),
		RateLimitTrialThreshold: getEnvInt("RATE_LIMIT_TRIAL_THRESHOLD", 0),
	}

	// A missing webhook is allowed: submissions are accepted but not relayed.
	if cfg.DiscordWebhookURL == "" {
		log.Println("WARNING: DISCORD_WEBHOOK_URL is not set. Trial requests will not be relayed.")
	}

	if cfg.RateLimitTrialThreshold > 0 && cfg.UpstashRedisURL == "" {
		log.Println("WARNING: UPSTASH_REDIS_URL not configured. Rate limiting will use in-memory fallback.")
	}

	return cfg, nil
}

// IsProduction reports whether the service runs with GIN_MODE=release.
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

// getEnvInt returns an integer environment variable or fallback if not set/invalid
func getEnvInt(key string, fallback int) int {
	if value, exists := os.LookupEnv(key); exists {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return fallback
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimRight(strings.TrimSpace(part), "/")
		if part != "" {
			out = append(out, part)
		}
	}
	return out
}

func environmentFromMode(mode string) string {
	if mode == "release" {
		return "production"
	}
	return "development"
}
