package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"huskerbot-go/logging"

	"github.com/joho/godotenv"
)

// Config holds all application configuration
type Config struct {
	// Discord configuration
	Discord DiscordConfig `json:"discord"`

	// Database configuration
	Database DatabaseConfig `json:"database"`

	// HTTP API server configuration
	Server ServerConfig `json:"server"`

	// Logging configuration
	Logging LoggingConfig `json:"logging"`

	// Application configuration
	App AppConfig `json:"app"`
}

// DiscordConfig holds Discord bot configuration
type DiscordConfig struct {
	Token           string `json:"token"`
	GuildID         string `json:"guild_id"`
	PickemChannelID string `json:"pickem_channel_id"`
}

// DatabaseConfig holds MongoDB configuration
type DatabaseConfig struct {
	Host     string        `json:"host"`
	Port     string        `json:"port"`
	Username string        `json:"username"`
	Password string        `json:"password"`
	Database string        `json:"database"`
	Timeout  time.Duration `json:"timeout"`
}

// ServerConfig holds HTTP API server configuration
type ServerConfig struct {
	Enabled bool   `json:"enabled"`
	Host    string `json:"host"`
	Port    string `json:"port"`
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level       string `json:"level"`
	EnableColor bool   `json:"enable_color"`
}

// AppConfig holds application-specific configuration
type AppConfig struct {
	// SeasonOverride forces the season year; 0 means derive from the clock.
	SeasonOverride int    `json:"season_override"`
	Timezone       string `json:"timezone"`
	PickemCron     string `json:"pickem_cron"`
}

// Load loads configuration from environment variables and .env file
func Load() (*Config, error) {
	// Load .env file if it exists
	if err := godotenv.Load(); err != nil {
		logging.Warnf("Could not load .env file: %v", err)
	}

	config := &Config{
		Discord: DiscordConfig{
			Token:           os.Getenv("DISCORD_TOKEN"),
			GuildID:         os.Getenv("DISCORD_GUILD_ID"),
			PickemChannelID: os.Getenv("DISCORD_PICKEM_CHANNEL_ID"),
		},
		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnv("DB_PORT", "27017"),
			Username: getEnv("DB_USERNAME", "huskerbot"),
			Password: getEnv("DB_PASSWORD", ""),
			Database: getEnv("DB_NAME", "huskerbot"),
			Timeout:  getDurationEnv("DB_TIMEOUT", 10*time.Second),
		},
		Server: ServerConfig{
			Enabled: getBoolEnv("API_ENABLED", true),
			Host:    getEnv("API_HOST", "127.0.0.1"),
			Port:    getEnv("API_PORT", "8080"),
		},
		Logging: LoggingConfig{
			Level:       getEnv("LOG_LEVEL", "info"),
			EnableColor: getBoolEnv("LOG_COLOR", true),
		},
		App: AppConfig{
			SeasonOverride: getIntEnv("SEASON_OVERRIDE", 0),
			Timezone:       getEnv("APP_TIMEZONE", "America/Chicago"),
			PickemCron:     getEnv("PICKEM_CRON", "0 2 * * TUE"),
		},
	}

	if err := config.validate(); err != nil {
		return nil, err
	}

	return config, nil
}

// validate checks that required configuration is present
func (c *Config) validate() error {
	if c.Discord.Token == "" {
		return fmt.Errorf("DISCORD_TOKEN environment variable is required")
	}
	if c.Discord.PickemChannelID == "" {
		return fmt.Errorf("DISCORD_PICKEM_CHANNEL_ID environment variable is required")
	}
	if _, err := time.LoadLocation(c.App.Timezone); err != nil {
		return fmt.Errorf("invalid APP_TIMEZONE %q: %w", c.App.Timezone, err)
	}
	return nil
}

// Location returns the configured application timezone
func (c *Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.App.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// getEnv returns environment variable value or default if not set
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getBoolEnv returns a boolean environment variable or default if not set
func getBoolEnv(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	switch strings.ToLower(value) {
	case "1", "true", "yes", "on":
		return true
	case "0", "false", "no", "off":
		return false
	default:
		return defaultValue
	}
}

// getIntEnv returns an integer environment variable or default if not set
func getIntEnv(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		logging.Warnf("Invalid integer for %s: %q", key, value)
		return defaultValue
	}
	return n
}

// getDurationEnv returns a duration environment variable (in seconds) or default if not set
func getDurationEnv(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	seconds, err := strconv.Atoi(value)
	if err != nil {
		logging.Warnf("Invalid duration for %s: %q", key, value)
		return defaultValue
	}
	return time.Duration(seconds) * time.Second
}
