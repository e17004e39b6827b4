package config

import (
	"fmt"
	"os"
	"strconv"
	"strings" // For LogLevel normalization
	"time"

	"github.com/joho/godotenv"
)

const (
	defaultPollInterval  = 300 * time.Second
	defaultNotifyDelay   = 1 * time.Second
	defaultLocationLabel = "Accra U.S. Embassy/Consulate"
	defaultHTTPAddr      = ":5000"
)

// AppConfig holds all configuration for the application
type AppConfig struct {
	TelegramToken   string
	TelegramChatID  int64
	DatabaseURL     string
	AdminTelegramID int64 // 0 disables admin chat commands
	PollInterval    time.Duration
	CycleCronSpec   string // Overrides PollInterval when set
	NotifyDelay     time.Duration
	LocationLabel   string
	HTTPAddr        string
	LogLevel        string
	Environment     string
}

// Load reads configuration from environment variables and .env file (if present).
func Load() (*AppConfig, error) {
	// godotenv.Load will not override existing env variables.
	_ = godotenv.Load()

	cfg := &AppConfig{}
	var err error

	cfg.TelegramToken = os.Getenv("TELEGRAM_TOKEN")
	if cfg.TelegramToken == "" {
		return nil, fmt.Errorf("TELEGRAM_TOKEN is not set")
	}

	chatIDStr := os.Getenv("TELEGRAM_CHAT_ID")
	if chatIDStr == "" {
		return nil, fmt.Errorf("TELEGRAM_CHAT_ID is not set")
	}
	cfg.TelegramChatID, err = strconv.ParseInt(chatIDStr, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid TELEGRAM_CHAT_ID: %w", err)
	}

	cfg.DatabaseURL = os.Getenv("DATABASE_URL")
	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is not set")
	}

	if adminIDStr := os.Getenv("ADMIN_TELEGRAM_ID"); adminIDStr != "" {
		cfg.AdminTelegramID, err = strconv.ParseInt(adminIDStr, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid ADMIN_TELEGRAM_ID: %w", err)
		}
	}

	cfg.PollInterval, err = secondsFromEnv("POLL_INTERVAL_SECONDS", defaultPollInterval)
	if err != nil {
		return nil, err
	}
	if cfg.PollInterval <= 0 {
		return nil, fmt.Errorf("POLL_INTERVAL_SECONDS must be positive")
	}

	cfg.NotifyDelay, err = secondsFromEnv("NOTIFY_DELAY_SECONDS", defaultNotifyDelay)
	if err != nil {
		return nil, err
	}
	if cfg.NotifyDelay < 0 {
		return nil, fmt.Errorf("NOTIFY_DELAY_SECONDS must not be negative")
	}

	cfg.CycleCronSpec = strings.TrimSpace(os.Getenv("CYCLE_CRON_SPEC"))

	cfg.LocationLabel = os.Getenv("LOCATION_LABEL")
	if cfg.LocationLabel == "" {
		cfg.LocationLabel = defaultLocationLabel
	}

	cfg.HTTPAddr = os.Getenv("HTTP_ADDR")
	if cfg.HTTPAddr == "" {
		cfg.HTTPAddr = defaultHTTPAddr
	}

	cfg.LogLevel = strings.ToLower(os.Getenv("LOG_LEVEL"))
	if cfg.LogLevel == "" {
		cfg.LogLevel = "info" // Default log level
	}

	cfg.Environment = strings.ToLower(os.Getenv("ENVIRONMENT"))
	if cfg.Environment == "" {
		cfg.Environment = "development" // Default environment
	}

	return cfg, nil
}

// secondsFromEnv parses a (possibly fractional) number of seconds.
func secondsFromEnv(key string, def time.Duration) (time.Duration, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return def, nil
	}
	secs, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return time.Duration(secs * float64(time.Second)), nil
}
