package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Config holds the configuration for the application.
//
// All API credentials are optional: a missing key routes the corresponding
// collaborator to its deterministic stub or mock rather than to an error.
type Config struct {
	GeminiAPIKey  string
	StoreAPIKey   string
	CalendarCreds string // "id:hexsecret" pair used to sign calendar API tokens
	CalendarURL   string

	InventoryFile string
	DatabasePath  string

	TipRate     float64
	DeliveryFee float64

	// Telegram Config (required only for the bot binary)
	TelegramBotToken       string
	TelegramWebhookURL     string
	TelegramAllowedUserIDs []int64
}

// NewFromEnv creates a new Config object from environment variables.
// A .env file in the working directory is loaded first if present.
func NewFromEnv() (*Config, error) {
	// Best effort; running without a .env file is the normal case.
	_ = godotenv.Load()

	cfg := &Config{
		GeminiAPIKey:  os.Getenv("GEMINI_API_KEY"),
		StoreAPIKey:   os.Getenv("STORE_API_KEY"),
		CalendarCreds: os.Getenv("CALENDAR_CREDENTIALS"),
		CalendarURL:   os.Getenv("CALENDAR_API_URL"),

		InventoryFile: envOrDefault("INVENTORY_FILE", "fridge_inventory.json"),
		DatabasePath:  envOrDefault("DATABASE_PATH", "data/concierge.db"),

		TipRate:     0.15,
		DeliveryFee: 5.99,

		TelegramBotToken:   os.Getenv("TELEGRAM_BOT_TOKEN"),
		TelegramWebhookURL: os.Getenv("TELEGRAM_WEBHOOK_URL"),
	}

	if v := os.Getenv("TIP_RATE"); v != "" {
		rate, err := strconv.ParseFloat(v, 64)
		if err != nil || rate < 0 {
			return nil, fmt.Errorf("invalid TIP_RATE %q", v)
		}
		cfg.TipRate = rate
	}

	if v := os.Getenv("DELIVERY_FEE"); v != "" {
		fee, err := strconv.ParseFloat(v, 64)
		if err != nil || fee < 0 {
			return nil, fmt.Errorf("invalid DELIVERY_FEE %q", v)
		}
		cfg.DeliveryFee = fee
	}

	if v := os.Getenv("TELEGRAM_ALLOWED_USER_IDS"); v != "" {
		for _, part := range strings.Split(v, ",") {
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

	return cfg, nil
}

func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
