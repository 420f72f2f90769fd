package config

import (
	"time"

	"github.com/spf13/viper"
)

// Config holds all runtime configuration loaded from environment variables.
// Every field maps 1:1 to a documented env var.
type Config struct {
	Env string `mapstructure:"APP_ENV"` // development | production

	// Backend REST API
	APIBaseURL        string `mapstructure:"API_BASE_URL"`
	APITimeoutSeconds int    `mapstructure:"API_TIMEOUT_SECONDS"`

	// Session storage. SESSION_REDIS_URL, when set, switches the session
	// store from the local JSON file to redis (shared terminals).
	SessionStoragePath string `mapstructure:"SESSION_STORAGE_PATH"`
	SessionRedisURL    string `mapstructure:"SESSION_REDIS_URL"`

	// Background refresh of cached collections; 0 disables it.
	RefreshIntervalSeconds int `mapstructure:"REFRESH_INTERVAL_SECONDS"`
}

// APITimeout returns the per-request timeout as a duration.
func (c *Config) APITimeout() time.Duration {
	return time.Duration(c.APITimeoutSeconds) * time.Second
}

// RefreshInterval returns the background reload interval; 0 means disabled.
func (c *Config) RefreshInterval() time.Duration {
	return time.Duration(c.RefreshIntervalSeconds) * time.Second
}

// Load reads configuration from environment variables (and optional .env file).
func Load() (*Config, error) {
	viper.SetConfigName(".env")
	viper.SetConfigType("env")
	viper.AddConfigPath(".")
	viper.AutomaticEnv()

	// Sensible defaults for development
	viper.SetDefault("APP_ENV", "development")
	viper.SetDefault("API_BASE_URL", "http://localhost:8000/api")
	viper.SetDefault("API_TIMEOUT_SECONDS", 15)
	viper.SetDefault("SESSION_STORAGE_PATH", "")
	viper.SetDefault("SESSION_REDIS_URL", "")
	viper.SetDefault("REFRESH_INTERVAL_SECONDS", 0)

	// Optional .env file for local development; does not fail if missing
	_ = viper.ReadInConfig()

	cfg := &Config{}
	if err := viper.Unmarshal(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}
