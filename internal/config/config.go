package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Telegram struct {
		Token  string `yaml:"token"`
		ChatID int64  `yaml:"chat_id"`
	} `yaml:"telegram"`
	Database struct {
		Path string `yaml:"path"`
	} `yaml:"database"`
	Schedule struct {
		Timezone string `yaml:"timezone"`
		Reminder string `yaml:"reminder"`
		Summary  string `yaml:"summary"`
	} `yaml:"schedule"`
	Log struct {
		Level string `yaml:"level"`
	} `yaml:"log"`
}

// Load reads the optional YAML file named by CONFIG_FILE and then applies
// environment overrides on top of it.
func Load() (*Config, error) {
	cfg := defaults()

	if path := getEnv("CONFIG_FILE", ""); path != "" {
		if err := cfg.readFile(path); err != nil {
			return nil, err
		}
	}

	cfg.Telegram.Token = getEnv("TG_TOKEN", cfg.Telegram.Token)
	if chatIDStr := getEnv("TG_CHAT_ID", ""); chatIDStr != "" {
		chatID, err := strconv.ParseInt(chatIDStr, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid TG_CHAT_ID %q: %w", chatIDStr, err)
		}
		cfg.Telegram.ChatID = chatID
	}
	cfg.Database.Path = getEnv("DB_PATH", cfg.Database.Path)
	cfg.Schedule.Timezone = getEnv("TIMEZONE", cfg.Schedule.Timezone)
	cfg.Schedule.Reminder = getEnv("REMINDER_SCHEDULE", cfg.Schedule.Reminder)
	cfg.Schedule.Summary = getEnv("SUMMARY_SCHEDULE", cfg.Schedule.Summary)
	cfg.Log.Level = getEnv("LOG_LEVEL", cfg.Log.Level)

	if _, err := cfg.Location(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func defaults() *Config {
	cfg := &Config{}
	cfg.Database.Path = "data/daily-check.db"
	cfg.Schedule.Timezone = "Asia/Kolkata"
	cfg.Schedule.Reminder = "0 20 * * *"
	cfg.Schedule.Summary = "0 9 * * 1"
	cfg.Log.Level = "info"
	return cfg
}

func (c *Config) readFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}
	return nil
}

// ValidateTelegram checks the settings the bot cannot start without.
func (c *Config) ValidateTelegram() error {
	if c.Telegram.Token == "" {
		return errors.New("TG_TOKEN is not set")
	}
	if c.Telegram.ChatID == 0 {
		return errors.New("TG_CHAT_ID is not set")
	}
	return nil
}

// Location resolves the configured timezone.
func (c *Config) Location() (*time.Location, error) {
	loc, err := time.LoadLocation(c.Schedule.Timezone)
	if err != nil {
		return nil, fmt.Errorf("invalid timezone %q: %w", c.Schedule.Timezone, err)
	}
	return loc, nil
}

func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}
