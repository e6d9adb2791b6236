package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Lookup providers understood by LOOKUP_PROVIDER.
const (
	ProviderOpenFoodFacts = "openfoodfacts"
	ProviderGemini        = "gemini"
	ProviderNone          = "none"
)

// Config holds the configuration for the application.
type Config struct {
	DatabasePath string
	LogLevel     string
	LogFormat    string

	// Product lookup
	LookupProvider string
	LookupURL      string
	LookupTimeout  time.Duration
	LookupPageSize int
	CatalogAPIKey  string
	GeminiAPIKey   string

	RandomSeed uint64

	// Telegram Config
	TelegramBotToken       string
	TelegramWebhookURL     string
	TelegramAllowedUserIDs []int64
	AdminTelegramID        int64
	Port                   string
}

// NewFromEnv creates a new Config object from environment variables.
func NewFromEnv() (*Config, error) {
	cfg := &Config{
		DatabasePath:       getEnv("DATABASE_PATH", "data/grocery.db"),
		LogLevel:           getEnv("LOG_LEVEL", "info"),
		LogFormat:          getEnv("LOG_FORMAT", "console"),
		LookupProvider:     strings.ToLower(getEnv("LOOKUP_PROVIDER", ProviderOpenFoodFacts)),
		LookupURL:          strings.TrimRight(getEnv("LOOKUP_URL", "https://world.openfoodfacts.org"), "/"),
		CatalogAPIKey:      os.Getenv("CATALOG_API_KEY"),
		GeminiAPIKey:       os.Getenv("GEMINI_API_KEY"),
		TelegramBotToken:   os.Getenv("TELEGRAM_BOT_TOKEN"),
		TelegramWebhookURL: os.Getenv("TELEGRAM_WEBHOOK_URL"),
		Port:               getEnv("PORT", "8080"),
	}

	timeout, err := time.ParseDuration(getEnv("LOOKUP_TIMEOUT", "3s"))
	if err != nil || timeout <= 0 {
		return nil, fmt.Errorf("LOOKUP_TIMEOUT must be a positive duration")
	}
	cfg.LookupTimeout = timeout

	pageSize, err := strconv.Atoi(getEnv("LOOKUP_PAGE_SIZE", "8"))
	if err != nil || pageSize <= 0 {
		return nil, fmt.Errorf("LOOKUP_PAGE_SIZE must be a positive integer")
	}
	cfg.LookupPageSize = pageSize

	seed, err := strconv.ParseUint(getEnv("RANDOM_SEED", "0"), 10, 64)
	if err != nil {
		return nil, fmt.Errorf("RANDOM_SEED must be an unsigned integer")
	}
	cfg.RandomSeed = seed

	switch cfg.LookupProvider {
	case ProviderOpenFoodFacts, ProviderNone:
	case ProviderGemini:
		if cfg.GeminiAPIKey == "" {
			return nil, fmt.Errorf("GEMINI_API_KEY environment variable not set")
		}
	default:
		return nil, fmt.Errorf("unknown LOOKUP_PROVIDER %q", cfg.LookupProvider)
	}

	if cfg.CatalogAPIKey != "" && !strings.Contains(cfg.CatalogAPIKey, ":") {
		return nil, fmt.Errorf("CATALOG_API_KEY must have the form id:secret")
	}

	if raw := os.Getenv("TELEGRAM_ALLOWED_USER_IDS"); raw != "" {
		for _, part := range strings.Split(raw, ",") {
			part = strings.TrimSpace(part)
			if part == "" {
				continue
			}
			id, err := strconv.ParseInt(part, 10, 64)
			if err != nil {
				return nil, fmt.Errorf("invalid TELEGRAM_ALLOWED_USER_IDS entry %q", part)
			}
			cfg.TelegramAllowedUserIDs = append(cfg.TelegramAllowedUserIDs, id)
		}
	}

	if raw := os.Getenv("ADMIN_TELEGRAM_ID"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("ADMIN_TELEGRAM_ID must be an integer")
		}
		cfg.AdminTelegramID = id
	}

	return cfg, nil
}

// RequireTelegram checks the settings only the bot binary needs.
func (c *Config) RequireTelegram() error {
	if c.TelegramBotToken == "" {
		return fmt.Errorf("TELEGRAM_BOT_TOKEN environment variable not set")
	}
	if c.TelegramWebhookURL == "" {
		return fmt.Errorf("TELEGRAM_WEBHOOK_URL environment variable not set")
	}
	return nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
