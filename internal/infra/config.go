package infra

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config represents application configuration loaded from environment variables.
type Config struct {
	AppEnv                 string
	Port                   string
	DatabaseURL            string
	ClerkIssuer            string
	ClerkJWKSURL           string
	ClerkAuthorizedParties []string
	BillingWebhookSecret   string
	GeminiAPIKey           string
	GeminiModel            string
	GeminiBaseURL          string
	RestoreTimeout         time.Duration
	RestoreMaxConcurrent   int
	RestorePromptFile      string
	MaxImageBytes          int64
	CORSAllowedOrigins     []string
	HTTPReadTimeout        time.Duration
	HTTPWriteTimeout       time.Duration
	HTTPIdleTimeout        time.Duration
	RateLimitPerMin        int
}

// LoadConfig loads configuration from environment variables and applies defaults where needed.
func LoadConfig() (*Config, error) {
	cfg := &Config{
		AppEnv:                 getEnv("APP_ENV", "development"),
		Port:                   getEnv("PORT", "8080"),
		DatabaseURL:            strings.TrimSpace(os.Getenv("DATABASE_URL")),
		ClerkIssuer:            strings.TrimRight(strings.TrimSpace(os.Getenv("CLERK_ISSUER")), "/"),
		ClerkJWKSURL:           strings.TrimSpace(os.Getenv("CLERK_JWKS_URL")),
		ClerkAuthorizedParties: getEnvList("CLERK_AUTHORIZED_PARTIES"),
		BillingWebhookSecret:   strings.TrimSpace(os.Getenv("CLERK_BILLING_WEBHOOK_SECRET")),
		GeminiAPIKey:           strings.TrimSpace(os.Getenv("GEMINI_API_KEY")),
		GeminiModel:            getEnv("GEMINI_MODEL", "gemini-3-pro-image-preview"),
		GeminiBaseURL:          os.Getenv("GEMINI_BASE_URL"),
		RestoreTimeout:         time.Second * time.Duration(getEnvInt("RESTORE_TIMEOUT_SECONDS", 120)),
		RestoreMaxConcurrent:   getEnvInt("RESTORE_MAX_CONCURRENT", 4),
		RestorePromptFile:      os.Getenv("RESTORE_PROMPT_FILE"),
		MaxImageBytes:          int64(getEnvInt("MAX_IMAGE_BYTES", 20<<20)),
		CORSAllowedOrigins:     getEnvList("CORS_ALLOWED_ORIGINS"),
		HTTPReadTimeout:        time.Second * time.Duration(getEnvInt("HTTP_READ_TIMEOUT_SECONDS", 30)),
		HTTPWriteTimeout:       time.Second * time.Duration(getEnvInt("HTTP_WRITE_TIMEOUT_SECONDS", 180)),
		HTTPIdleTimeout:        time.Second * time.Duration(getEnvInt("HTTP_IDLE_TIMEOUT_SECONDS", 60)),
		RateLimitPerMin:        getEnvInt("RATE_LIMIT_PER_MINUTE", 10),
	}

	if cfg.ClerkIssuer == "" {
		return nil, fmt.Errorf("CLERK_ISSUER is required")
	}
	if cfg.ClerkJWKSURL == "" {
		cfg.ClerkJWKSURL = cfg.ClerkIssuer + "/.well-known/jwks.json"
	}
	if cfg.RestoreMaxConcurrent <= 0 {
		cfg.RestoreMaxConcurrent = 1
	}
	if cfg.MaxImageBytes <= 0 {
		cfg.MaxImageBytes = 20 << 20
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return fallback
}

func getEnvList(key string) []string {
	var out []string
	for _, item := range strings.Split(os.Getenv(key), ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}
