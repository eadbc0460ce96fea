// Package config loads application configuration from environment
// variables with an optional YAML file overlay.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config holds all application configuration.
type Config struct {
	// database: a postgres:// URL, or empty to use the sqlite file at DBPath
	DatabaseURL string
	DBPath      string

	// server
	HTTPPort int

	// nats, empty disables event publishing
	NatsURL string

	// polling
	PollIntervalSeconds int
	TelegramAPIEndpoint string

	// retention
	RetentionDays   int
	CleanupSchedule string

	// logging
	LogLevel string
	LogFile  string
}

// fileConfig mirrors Config for the optional config.yaml overlay. Only
// keys present in the file override the environment defaults.
type fileConfig struct {
	DatabaseURL         *string `yaml:"database_url"`
	DBPath              *string `yaml:"db_path"`
	HTTPPort            *int    `yaml:"http_port"`
	NatsURL             *string `yaml:"nats_url"`
	PollIntervalSeconds *int    `yaml:"poll_interval_seconds"`
	TelegramAPIEndpoint *string `yaml:"telegram_api_endpoint"`
	RetentionDays       *int    `yaml:"retention_days"`
	CleanupSchedule     *string `yaml:"cleanup_schedule"`
	LogLevel            *string `yaml:"log_level"`
	LogFile             *string `yaml:"log_file"`
}

// Load reads configuration from .env, environment variables, and an
// optional config.yaml in the working directory.
func Load() (*Config, error) {
	// .env is optional
	_ = godotenv.Load()

	cfg := &Config{
		DatabaseURL:         getEnv("DATABASE_URL", ""),
		DBPath:              getEnv("BOT_DB_PATH", "./data/bot-activity.db"),
		HTTPPort:            getEnvInt("HTTP_PORT", 3000),
		NatsURL:             getEnv("NATS_URL", ""),
		PollIntervalSeconds: getEnvInt("POLL_INTERVAL_SECONDS", 3),
		TelegramAPIEndpoint: getEnv("TELEGRAM_API_ENDPOINT", "https://api.telegram.org/bot%s/%s"),
		RetentionDays:       getEnvInt("RETENTION_DAYS", 90),
		CleanupSchedule:     getEnv("CLEANUP_SCHEDULE", "0 3 * * *"),
		LogLevel:            getEnv("LOG_LEVEL", "info"),
		LogFile:             getEnv("LOG_FILE", ""),
	}

	if err := cfg.applyFile("config.yaml"); err != nil {
		return nil, err
	}

	if cfg.PollIntervalSeconds < 1 {
		cfg.PollIntervalSeconds = 1
	}

	return cfg, nil
}

// PollInterval returns the monitor tick interval.
func (c *Config) PollInterval() time.Duration {
	return time.Duration(c.PollIntervalSeconds) * time.Second
}

// PollRequestTimeout returns the per-request timeout for update fetches.
// Always strictly shorter than the tick interval so a hung request cannot
// occupy the monitor's scheduler slot.
func (c *Config) PollRequestTimeout() time.Duration {
	t := c.PollInterval() - time.Second
	if t > 2*time.Second {
		t = 2 * time.Second
	}
	if t < 500*time.Millisecond {
		t = 500 * time.Millisecond
	}
	return t
}

func (c *Config) applyFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("read config file: %w", err)
	}

	var fc fileConfig
	if err := yaml.Unmarshal(data, &fc); err != nil {
		return fmt.Errorf("parse config file: %w", err)
	}

	if fc.DatabaseURL != nil {
		c.DatabaseURL = *fc.DatabaseURL
	}
	if fc.DBPath != nil {
		c.DBPath = *fc.DBPath
	}
	if fc.HTTPPort != nil {
		c.HTTPPort = *fc.HTTPPort
	}
	if fc.NatsURL != nil {
		c.NatsURL = *fc.NatsURL
	}
	if fc.PollIntervalSeconds != nil {
		c.PollIntervalSeconds = *fc.PollIntervalSeconds
	}
	if fc.TelegramAPIEndpoint != nil {
		c.TelegramAPIEndpoint = *fc.TelegramAPIEndpoint
	}
	if fc.RetentionDays != nil {
		c.RetentionDays = *fc.RetentionDays
	}
	if fc.CleanupSchedule != nil {
		c.CleanupSchedule = *fc.CleanupSchedule
	}
	if fc.LogLevel != nil {
		c.LogLevel = *fc.LogLevel
	}
	if fc.LogFile != nil {
		c.LogFile = *fc.LogFile
	}

	return nil
}

// getEnv returns the value of an environment variable or a default value.
func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

// getEnvInt returns the integer value of an environment variable or a default.
func getEnvInt(key string, defaultVal int) int {
	if val := os.Getenv(key); val != "" {
		if i, err := strconv.Atoi(val); err == nil {
			return i
		}
	}
	return defaultVal
}
