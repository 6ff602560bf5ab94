package config

import (
	"fmt"
	"os"
)

// Config holds the configuration for the application.
type Config struct {
	DatabasePath string
	CatalogPath  string // optional; empty means the embedded catalog
	HTTPAddr     string
	AuthSecret   string // optional; empty disables API authentication

	// Telegram Config
	TelegramBotToken    string
	TelegramWebhookURL  string
	TelegramAllowUserID int64
}

// NewFromEnv creates a new Config object from environment variables.
func NewFromEnv() (*Config, error) {
	dbPath := os.Getenv("DATABASE_PATH")
	if dbPath == "" {
		dbPath = "data/paw-kitchen.db"
	}

	httpAddr := os.Getenv("HTTP_ADDR")
	if httpAddr == "" {
		httpAddr = ":8080"
	}

	// Telegram config is optional for the CLI, required as a pair for the bot.
	telegramBotToken := os.Getenv("TELEGRAM_BOT_TOKEN")
	telegramWebhookURL := os.Getenv("TELEGRAM_WEBHOOK_URL")
	if telegramBotToken != "" && telegramWebhookURL == "" {
		return nil, fmt.Errorf("TELEGRAM_WEBHOOK_URL environment variable not set")
	}

	var telegramAllowUserID int64
	if s := os.Getenv("TELEGRAM_ALLOW_USER_ID"); s != "" {
		if _, err := fmt.Sscanf(s, "%d", &telegramAllowUserID); err != nil {
			return nil, fmt.Errorf("TELEGRAM_ALLOW_USER_ID is not a number: %w", err)
		}
	}

	return &Config{
		DatabasePath:        dbPath,
		CatalogPath:         os.Getenv("CATALOG_PATH"),
		HTTPAddr:            httpAddr,
		AuthSecret:          os.Getenv("AUTH_SECRET"),
		TelegramBotToken:    telegramBotToken,
		TelegramWebhookURL:  telegramWebhookURL,
		TelegramAllowUserID: telegramAllowUserID,
	}, nil
}
