package config

import (
	"testing"
	"time"
)

func TestNewFromEnv(t *testing.T) {
	// Helper function to set environment variables for a test
	setEnv := func(key, value string) {
		t.Helper()
		t.Setenv(key, value)
	}

	t.Run("Defaults", func(t *testing.T) {
		setEnv("LOOKUP_PROVIDER", "")
		setEnv("LOOKUP_TIMEOUT", "")

		cfg, err := NewFromEnv()
		if err != nil {
			t.Fatalf("Expected no error, got %v", err)
		}
		if cfg.DatabasePath != "data/grocery.db" {
			t.Errorf("Expected default DatabasePath, got '%s'", cfg.DatabasePath)
		}
		if cfg.LookupProvider != ProviderOpenFoodFacts {
			t.Errorf("Expected provider '%s', got '%s'", ProviderOpenFoodFacts, cfg.LookupProvider)
		}
		if cfg.LookupTimeout != 3*time.Second {
			t.Errorf("Expected 3s lookup timeout, got %s", cfg.LookupTimeout)
		}
		if cfg.LookupPageSize != 8 {
			t.Errorf("Expected page size 8, got %d", cfg.LookupPageSize)
		}
	})

	t.Run("Overrides", func(t *testing.T) {
		setEnv("LOOKUP_URL", "http://catalog.test/")
		setEnv("LOOKUP_TIMEOUT", "500ms")
		setEnv("RANDOM_SEED", "99")
		setEnv("TELEGRAM_ALLOWED_USER_IDS", "1, 2,3")
		setEnv("ADMIN_TELEGRAM_ID", "7")

		cfg, err := NewFromEnv()
		if err != nil {
			t.Fatalf("Expected no error, got %v", err)
		}
		if cfg.LookupURL != "http://catalog.test" {
			t.Errorf("Expected trailing slash trimmed, got '%s'", cfg.LookupURL)
		}
		if cfg.LookupTimeout != 500*time.Millisecond {
			t.Errorf("Expected 500ms, got %s", cfg.LookupTimeout)
		}
		if cfg.RandomSeed != 99 {
			t.Errorf("Expected seed 99, got %d", cfg.RandomSeed)
		}
		if len(cfg.TelegramAllowedUserIDs) != 3 || cfg.TelegramAllowedUserIDs[2] != 3 {
			t.Errorf("Unexpected allowed ids %v", cfg.TelegramAllowedUserIDs)
		}
		if cfg.AdminTelegramID != 7 {
			t.Errorf("Expected admin 7, got %d", cfg.AdminTelegramID)
		}
	})

	t.Run("GeminiRequiresKey", func(t *testing.T) {
		setEnv("LOOKUP_PROVIDER", "gemini")
		setEnv("GEMINI_API_KEY", "")

		_, err := NewFromEnv()
		if err == nil {
			t.Fatal("Expected an error for missing GEMINI_API_KEY, got nil")
		}
		expectedError := "GEMINI_API_KEY environment variable not set"
		if err.Error() != expectedError {
			t.Errorf("Expected error '%s', got '%s'", expectedError, err.Error())
		}
	})

	t.Run("UnknownProvider", func(t *testing.T) {
		setEnv("LOOKUP_PROVIDER", "carrier-pigeon")
		if _, err := NewFromEnv(); err == nil {
			t.Fatal("Expected an error for unknown provider, got nil")
		}
	})

	t.Run("BadTimeout", func(t *testing.T) {
		setEnv("LOOKUP_TIMEOUT", "soon")
		if _, err := NewFromEnv(); err == nil {
			t.Fatal("Expected an error for invalid LOOKUP_TIMEOUT, got nil")
		}
	})

	t.Run("BadCatalogKey", func(t *testing.T) {
		setEnv("CATALOG_API_KEY", "no-separator")
		if _, err := NewFromEnv(); err == nil {
			t.Fatal("Expected an error for malformed CATALOG_API_KEY, got nil")
		}
	})
}

func TestRequireTelegram(t *testing.T) {
	cfg := &Config{}
	if err := cfg.RequireTelegram(); err == nil || err.Error() != "TELEGRAM_BOT_TOKEN environment variable not set" {
		t.Errorf("Expected missing token error, got %v", err)
	}

	cfg.TelegramBotToken = "token"
	if err := cfg.RequireTelegram(); err == nil || err.Error() != "TELEGRAM_WEBHOOK_URL environment variable not set" {
		t.Errorf("Expected missing webhook error, got %v", err)
	}

	cfg.TelegramWebhookURL = "https://bot.test/webhook"
	if err := cfg.RequireTelegram(); err != nil {
		t.Errorf("Expected no error, got %v", err)
	}
}
