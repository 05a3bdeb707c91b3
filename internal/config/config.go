// Package config provides application configuration management with support for environment variables, command-line flags, and .env files.
package config

import (
	"bufio"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/wishboardapp/wishboard-bot/internal/validation"
)

// Config holds the application configuration.
type Config struct {
	App     AppConfig
	Logger  LoggerConfig
	Discord DiscordConfig
	Data    DataConfig
	Status  StatusConfig
}

// AppConfig holds application-level configuration.
type AppConfig struct {
	Environment string `env:"ENV" validate:"oneof=development staging production"`
}

// LoggerConfig holds logging configuration.
type LoggerConfig struct {
	Level string `env:"LOG_LEVEL" validate:"oneof=debug info warn error"`
}

// DiscordConfig holds the gateway credentials and the channel topology the bot
// operates on. All ids are Discord snowflakes.
type DiscordConfig struct {
	// Token is the bot authentication token.
	Token string `env:"DISCORD_TOKEN" validate:"required"`
	// AppID is the application id used for slash-command registration.
	AppID string `env:"DISCORD_APP_ID" validate:"required,numeric"`
	// GuildID is the single guild this deployment serves.
	GuildID string `env:"GUILD_ID" validate:"required,numeric"`
	// SubmitChannelID is the only channel where /wishlist is accepted.
	SubmitChannelID string `env:"SUBMIT_CHANNEL_ID" validate:"required,numeric"`
	// SingleChannelID receives single-player announcements.
	SingleChannelID string `env:"SINGLE_CHANNEL_ID" validate:"required,numeric"`
	// MultiChannelID receives multiplayer announcements.
	MultiChannelID string `env:"MULTI_CHANNEL_ID" validate:"required,numeric"`
	// VoiceCategoryID is the parent category for provisioned voice channels.
	VoiceCategoryID string `env:"VOICE_CATEGORY_ID" validate:"required,numeric"`
}

// DataConfig holds durable state file configuration.
type DataConfig struct {
	// Path is the directory holding the wishlist and cache JSON files.
	Path string `env:"DATA_PATH" validate:"required"`
}

// StatusConfig holds the read-only status API configuration.
type StatusConfig struct {
	// Enabled allows disabling the status API entirely (default: true).
	Enabled bool
	// Addr is the bind address (default: :8080).
	Addr string `env:"STATUS_ADDR" validate:"required"`
}

// LoadConfig loads configuration from multiple sources with precedence:
// 1. Command-line flags (highest priority).
// 2. Environment variables.
// 3. .env file.
// 4. Default values (lowest priority).
func LoadConfig() (*Config, error) {
	env := flag.String("env", "", "Environment (development, staging, production)")
	logLevel := flag.String("log-level", "", "Log level (debug, info, warn, error)")
	dataPath := flag.String("data-path", "", "Directory for wishlist and cache state files")
	statusAddr := flag.String("status-addr", "", "Bind address for the status API (default: :8080)")
	statusEnabled := flag.String("status-enabled", "", "Enable the status API (default: true)")
	envFile := flag.String("env-file", ".env", "Path to .env file")

	flag.Parse()

	// Load .env file if it exists (silently ignore if not found).
	_ = loadEnvFile(*envFile)

	cfg := &Config{
		App: AppConfig{
			Environment: getConfigValue(*env, "ENV", "development"),
		},
		Logger: LoggerConfig{
			Level: strings.ToLower(getConfigValue(*logLevel, "LOG_LEVEL", "info")),
		},
		Discord: DiscordConfig{
			Token:           getConfigValue("", "DISCORD_TOKEN", ""),
			AppID:           getConfigValue("", "DISCORD_APP_ID", ""),
			GuildID:         getConfigValue("", "GUILD_ID", ""),
			SubmitChannelID: getConfigValue("", "SUBMIT_CHANNEL_ID", ""),
			SingleChannelID: getConfigValue("", "SINGLE_CHANNEL_ID", ""),
			MultiChannelID:  getConfigValue("", "MULTI_CHANNEL_ID", ""),
			VoiceCategoryID: getConfigValue("", "VOICE_CATEGORY_ID", ""),
		},
		Data: DataConfig{
			Path: getConfigValue(*dataPath, "DATA_PATH", ""),
		},
		Status: StatusConfig{
			Enabled: getBoolConfigValue(*statusEnabled, "STATUS_ENABLED", true),
			Addr:    getConfigValue(*statusAddr, "STATUS_ADDR", ":8080"),
		},
	}

	// Expand and validate data path.
	if err := cfg.expandDataPath(); err != nil {
		return nil, fmt.Errorf("invalid data path: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// Validate checks that all required config values are present and valid.
func (c *Config) Validate() error {
	return validation.New().Validate(c)
}

// expandPath expands ~ and makes the path absolute.
// If path is empty and defaultPath is provided, uses the default.
func expandPath(path, defaultPath string) (string, error) {
	if path == "" {
		return defaultPath, nil
	}

	if strings.HasPrefix(path, "~/") {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to get home directory: %w", err)
		}
		path = filepath.Join(homeDir, path[2:])
	}

	if !filepath.IsAbs(path) {
		absPath, err := filepath.Abs(path)
		if err != nil {
			return "", fmt.Errorf("failed to get absolute path: %w", err)
		}
		path = absPath
	}

	return filepath.Clean(path), nil
}

// expandDataPath expands ~ and makes the path absolute.
// Defaults to ~/Wishboard/data if not specified.
func (c *Config) expandDataPath() error {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return fmt.Errorf("failed to get home directory: %w", err)
	}
	defaultPath := filepath.Join(homeDir, "Wishboard", "data")

	expanded, err := expandPath(c.Data.Path, defaultPath)
	if err != nil {
		return err
	}
	c.Data.Path = expanded
	return nil
}

// getConfigValue returns the first non-empty value from flag, env var, or default.
func getConfigValue(flagValue, envKey, defaultValue string) string {
	if flagValue != "" {
		return flagValue
	}
	if envValue := os.Getenv(envKey); envValue != "" {
		return envValue
	}
	return defaultValue
}

// getBoolConfigValue returns a bool from flag, env var, or default.
// Accepts: "true", "1", "yes" (case-insensitive) as true; anything else is false.
func getBoolConfigValue(flagValue, envKey string, defaultValue bool) bool {
	strValue := getConfigValue(flagValue, envKey, "")
	if strValue == "" {
		return defaultValue
	}
	strValue = strings.ToLower(strValue)
	return strValue == "true" || strValue == "1" || strValue == "yes"
}

// loadEnvFile loads environment variables from a .env file.
// Format: KEY=value (one per line, # for comments).
func loadEnvFile(path string) error {
	file, err := os.Open(path) //#nosec G304 -- Config file path from user input is expected
	if err != nil {
		return err
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	lineNum := 0

	for scanner.Scan() {
		lineNum++
		line := strings.TrimSpace(scanner.Text())

		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		parts := strings.SplitN(line, "=", 2)
		if len(parts) != 2 {
			return fmt.Errorf("invalid format at line %d: %s", lineNum, line)
		}

		key := strings.TrimSpace(parts[0])
		value := strings.TrimSpace(parts[1])
		value = strings.Trim(value, `"'`)

		// Env vars take precedence over the .env file.
		if os.Getenv(key) == "" {
			if err := os.Setenv(key, value); err != nil {
				return fmt.Errorf("failed to set env var %s: %w", key, err)
			}
		}
	}

	return scanner.Err()
}
