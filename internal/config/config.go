package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/viper"
)

// Config holds all application configuration
type Config struct {
	// Remote store
	APIURL      string        // Spreadsheet web app endpoint
	HTTPTimeout time.Duration // 0 means requests are never timed out
	UserAgent   string

	// Connection monitor
	MonitorSchedule string // cron spec (default: "@every 30s")

	// Server
	ServerPort string

	// Paths
	DatabaseFile string // $CONFIG_DIR/listahan.db

	// Logging
	LogLevel  string
	LogFormat string // "text" or "json"
}

// Load loads configuration from environment variables and .env file
func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigName(".env")
	v.SetConfigType("env")
	v.AddConfigPath(".")
	v.AutomaticEnv()

	// .env is optional
	_ = v.ReadInConfig()

	return fromViper(v)
}

func fromViper(v *viper.Viper) (*Config, error) {
	v.SetDefault("HTTP_TIMEOUT", "0s")
	v.SetDefault("USER_AGENT", "listahan/1.0")
	v.SetDefault("MONITOR_SCHEDULE", "@every 30s")
	v.SetDefault("SERVER_PORT", "8080")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "text")

	configDir := v.GetString("CONFIG_DIR")
	if configDir == "" {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("failed to get home directory: %w", err)
		}
		configDir = filepath.Join(homeDir, ".config", "listahan")
	} else {
		absPath, err := filepath.Abs(configDir)
		if err != nil {
			return nil, fmt.Errorf("failed to get absolute path for CONFIG_DIR: %w", err)
		}
		configDir = absPath
	}

	if err := os.MkdirAll(configDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create config directory: %w", err)
	}

	config := &Config{
		APIURL:          v.GetString("API_URL"),
		HTTPTimeout:     v.GetDuration("HTTP_TIMEOUT"),
		UserAgent:       v.GetString("USER_AGENT"),
		MonitorSchedule: v.GetString("MONITOR_SCHEDULE"),
		ServerPort:      v.GetString("SERVER_PORT"),
		DatabaseFile:    filepath.Join(configDir, "listahan.db"),
		LogLevel:        v.GetString("LOG_LEVEL"),
		LogFormat:       v.GetString("LOG_FORMAT"),
	}

	if config.APIURL == "" {
		return nil, fmt.Errorf("API_URL is required")
	}
	if config.HTTPTimeout < 0 {
		return nil, fmt.Errorf("HTTP_TIMEOUT must not be negative")
	}

	return config, nil
}
