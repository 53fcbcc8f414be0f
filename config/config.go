package config

import (
	"os"
	"strconv"
	"time"

	"jvdveen/dealwatch/pkg/errors"
)

// Config represents the application configuration
type Config struct {
	// Record store
	DealsFile string

	// HTTP API
	Port string

	// Fetcher
	UserAgent     string
	FetchTimeout  time.Duration
	RespectRobots bool

	// Refresh pacing and scheduling
	RefreshDelay    time.Duration
	RefreshInterval time.Duration
	StaleAfter      time.Duration

	// Retailer cooldown guard
	RetailerBlockTime time.Duration
	MemcacheAddr      string

	// Redis stream publisher
	RedisAddr            string
	RedisDB              int
	RedisStream          string
	RedisStreamMaxLength int

	// Telegram notifier
	TelegramBotToken string
	TelegramChatID   int64

	// Environment
	Environment string
}

// LoadConfig loads the configuration from environment variables with defaults
func LoadConfig() Config {
	fetchTimeout, _ := strconv.Atoi(getEnv("FETCH_TIMEOUT_SECONDS", "10"))
	refreshDelay, _ := strconv.Atoi(getEnv("REFRESH_DELAY_SECONDS", "1"))
	refreshInterval, _ := strconv.Atoi(getEnv("REFRESH_INTERVAL_SECONDS", "0"))
	staleAfter, _ := strconv.Atoi(getEnv("STALE_AFTER_HOURS", "24"))
	blockTime, _ := strconv.Atoi(getEnv("RETAILER_BLOCK_SECONDS", "300"))
	redisDB, _ := strconv.Atoi(getEnv("REDIS_DB", "0"))
	streamMaxLength, _ := strconv.Atoi(getEnv("REDIS_STREAM_MAX_LENGTH", "500"))
	chatID, _ := strconv.ParseInt(getEnv("TELEGRAM_CHAT_ID", "0"), 10, 64)

	return Config{
		DealsFile:            getEnv("DEALS_FILE", "curated_deals.json"),
		Port:                 getEnv("PORT", "8080"),
		UserAgent:            getEnv("USER_AGENT", "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36"),
		FetchTimeout:         time.Duration(fetchTimeout) * time.Second,
		RespectRobots:        getEnv("RESPECT_ROBOTS", "false") == "true",
		RefreshDelay:         time.Duration(refreshDelay) * time.Second,
		RefreshInterval:      time.Duration(refreshInterval) * time.Second,
		StaleAfter:           time.Duration(staleAfter) * time.Hour,
		RetailerBlockTime:    time.Duration(blockTime) * time.Second,
		MemcacheAddr:         getEnv("MEMCACHE_ADDR", ""),
		RedisAddr:            getEnv("REDIS_ADDR", ""),
		RedisDB:              redisDB,
		RedisStream:          getEnv("REDIS_STREAM", "dealwatch"),
		RedisStreamMaxLength: streamMaxLength,
		TelegramBotToken:     getEnv("TELEGRAM_BOT_TOKEN", ""),
		TelegramChatID:       chatID,
		Environment:          getEnv("DEALWATCH_ENVIRONMENT", "development"),
	}
}

// Validate checks the configuration for invalid combinations
func (c *Config) Validate() error {
	if c.DealsFile == "" {
		return errors.NewConfiguration("DEALS_FILE must not be empty", nil)
	}
	if c.FetchTimeout <= 0 {
		return errors.NewConfiguration("FETCH_TIMEOUT_SECONDS must be positive", nil)
	}
	if c.RefreshDelay < 0 {
		return errors.NewConfiguration("REFRESH_DELAY_SECONDS must not be negative", nil)
	}
	if c.StaleAfter <= 0 {
		return errors.NewConfiguration("STALE_AFTER_HOURS must be positive", nil)
	}
	if c.TelegramBotToken != "" && c.TelegramChatID == 0 {
		return errors.NewConfiguration("TELEGRAM_CHAT_ID is required when TELEGRAM_BOT_TOKEN is set", nil)
	}
	return nil
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}
