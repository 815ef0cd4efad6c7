package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all application configuration
type Config struct {
	// Discord configuration
	DiscordToken     string
	DiscordGuildID   string
	StaffRoleID      string
	BettingChannelID string // optional channel for market close announcements

	// Database configuration
	DatabaseURL string

	// Toto feed configuration
	TotoFeedURL      string
	SyncInterval     time.Duration // how often the sync worker fetches and reconciles
	MinFetchInterval time.Duration // feed fetch throttle, shared with /markets sync

	// Wallet settings
	ActivityRewardAmount   int64 // cents credited per rewarded message
	ActivityRewardCooldown time.Duration
	SystemAccountIDs       []int64 // accounts barred from transfers (the bot itself)

	// Environment
	Environment string // "development", "production" or "test"
}

var (
	instance *Config
	once     sync.Once
)

// Get returns the global configuration instance
func Get() *Config {
	once.Do(func() {
		var err error
		instance, err = load()
		if err != nil {
			panic(fmt.Sprintf("failed to load config: %v", err))
		}
	})
	return instance
}

// load loads configuration from the environment, reading a .env file first
// when one is present
func load() (*Config, error) {
	_ = godotenv.Load()

	config := &Config{
		// Discord
		DiscordToken:     os.Getenv("DISCORD_TOKEN"),
		DiscordGuildID:   os.Getenv("DISCORD_GUILD_ID"),
		StaffRoleID:      os.Getenv("STAFF_ROLE_ID"),
		BettingChannelID: os.Getenv("BETTING_CHANNEL_ID"),

		// Database
		DatabaseURL: os.Getenv("DATABASE_URL"),

		// Feed settings with defaults
		TotoFeedURL:      "https://sport.toto.nl/wedden/sport/4090/formule-1/outrights",
		SyncInterval:     time.Hour,
		MinFetchInterval: 5 * time.Minute,

		// Wallet settings with defaults
		ActivityRewardAmount:   100, // 1 FIT
		ActivityRewardCooldown: 60 * time.Second,

		// Environment
		Environment: os.Getenv("ENVIRONMENT"),
	}

	// Override defaults if environment variables are set
	if url := os.Getenv("TOTO_FEED_URL"); url != "" {
		config.TotoFeedURL = url
	}
	if interval := os.Getenv("SYNC_INTERVAL"); interval != "" {
		if parsed, err := time.ParseDuration(interval); err == nil {
			config.SyncInterval = parsed
		}
	}
	if interval := os.Getenv("MIN_FETCH_INTERVAL"); interval != "" {
		if parsed, err := time.ParseDuration(interval); err == nil {
			config.MinFetchInterval = parsed
		}
	}
	if amount := os.Getenv("ACTIVITY_REWARD_AMOUNT"); amount != "" {
		if parsed, err := strconv.ParseInt(amount, 10, 64); err == nil {
			config.ActivityRewardAmount = parsed
		}
	}
	if cooldown := os.Getenv("ACTIVITY_REWARD_COOLDOWN"); cooldown != "" {
		if parsed, err := time.ParseDuration(cooldown); err == nil {
			config.ActivityRewardCooldown = parsed
		}
	}

	// Parse system account IDs
	if accountIDs := os.Getenv("SYSTEM_ACCOUNT_IDS"); accountIDs != "" {
		idStrings := strings.Split(accountIDs, ",")
		for _, idStr := range idStrings {
			idStr = strings.TrimSpace(idStr)
			if idStr != "" {
				if id, err := strconv.ParseInt(idStr, 10, 64); err == nil {
					config.SystemAccountIDs = append(config.SystemAccountIDs, id)
				}
			}
		}
	}

	// Set default environment if not specified
	if config.Environment == "" {
		config.Environment = "development"
	}

	if config.Environment != "test" {
		// Validate required configuration
		if config.DiscordToken == "" {
			return nil, fmt.Errorf("DISCORD_TOKEN is required")
		}
		if config.DatabaseURL == "" {
			return nil, fmt.Errorf("DATABASE_URL is required")
		}
	}

	return config, nil
}

// IsSystemAccount reports whether the given user id is one of the configured
// system accounts
func (c *Config) IsSystemAccount(userID int64) bool {
	for _, id := range c.SystemAccountIDs {
		if id == userID {
			return true
		}
	}
	return false
}
