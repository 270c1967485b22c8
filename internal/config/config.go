package config

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Port                   string `mapstructure:"PORT"`
	DBPath                 string `mapstructure:"DB_PATH"`
	Timezone               string `mapstructure:"TZ"`
	SessionSecret          string `mapstructure:"SESSION_SECRET"`
	HealthCSV              string `mapstructure:"HEALTH_CSV"`
	SafetyCSV              string `mapstructure:"SAFETY_CSV"`
	ReminderCSV            string `mapstructure:"REMINDER_CSV"`
	ImportBatchSize        int    `mapstructure:"IMPORT_BATCH_SIZE"`
	ImportRateLimitSeconds int    `mapstructure:"IMPORT_RATE_LIMIT_SECONDS"`
	LogLevel               string `mapstructure:"LOG_LEVEL"`
	LogFormat              string `mapstructure:"LOG_FORMAT"`
}

var defaults = map[string]any{
	"PORT":                      "8080",
	"DB_PATH":                   filepath.Join("data", "carewatch.db"),
	"TZ":                        "UTC",
	"SESSION_SECRET":            "",
	"HEALTH_CSV":                filepath.Join("attached_assets", "health_monitoring.csv"),
	"SAFETY_CSV":                filepath.Join("attached_assets", "safety_monitoring.csv"),
	"REMINDER_CSV":              filepath.Join("attached_assets", "daily_reminder.csv"),
	"IMPORT_BATCH_SIZE":         100,
	"IMPORT_RATE_LIMIT_SECONDS": 10,
	"LOG_LEVEL":                 "info",
	"LOG_FORMAT":                "console",
}

// Load reads configuration from the environment, with an optional .env file
// in the working directory underneath it.
func Load() (*Config, error) {
	return LoadFile(".env")
}

func LoadFile(envFile string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(envFile)
	v.SetConfigType("env")
	v.AutomaticEnv()

	for key, value := range defaults {
		v.SetDefault(key, value)
		if err := v.BindEnv(key); err != nil {
			return nil, fmt.Errorf("bind env %s: %w", key, err)
		}
	}

	// A missing .env is fine; the environment alone is a complete configuration.
	_ = v.ReadInConfig()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	cfg.normalize()
	return &cfg, nil
}

func (cfg *Config) normalize() {
	cfg.Port = strings.TrimSpace(cfg.Port)
	if cfg.Port == "" {
		cfg.Port = "8080"
	}
	cfg.SessionSecret = strings.TrimSpace(cfg.SessionSecret)
	if cfg.ImportBatchSize <= 0 {
		cfg.ImportBatchSize = 100
	}
	if cfg.ImportRateLimitSeconds < 0 {
		cfg.ImportRateLimitSeconds = 0
	}
}

// Location resolves TZ, falling back to UTC for unknown zone names.
func (cfg *Config) Location() (*time.Location, error) {
	name := strings.TrimSpace(cfg.Timezone)
	if name == "" {
		return time.UTC, nil
	}
	location, err := time.LoadLocation(name)
	if err != nil {
		return time.UTC, fmt.Errorf("load timezone %q: %w", name, err)
	}
	return location, nil
}

func (cfg *Config) ImportRateLimit() time.Duration {
	return time.Duration(cfg.ImportRateLimitSeconds) * time.Second
}
