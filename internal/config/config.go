// Package config loads loft's runtime configuration from environment
// variables layered over an optional loft.yaml file.
package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/viper"
)

// Config holds the full runtime configuration.
type Config struct {
	// Completion API
	APIBaseURL string        `mapstructure:"api_base_url"`
	APIKey     string        `mapstructure:"api_key"`
	Model      string        `mapstructure:"model"`
	APITimeout time.Duration `mapstructure:"api_timeout"`

	// Retry budget for the completion client
	RetryAttempts     int           `mapstructure:"retry_attempts"`
	RetryInitialDelay time.Duration `mapstructure:"retry_initial_delay"`

	// HTTP server
	ListenAddr string `mapstructure:"listen_addr"`
	Debug      bool   `mapstructure:"debug"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("api_base_url", "https://api.deepseek.com/v1")
	// api_key must be registered for AutomaticEnv to surface LOFT_API_KEY
	// through Unmarshal.
	v.SetDefault("api_key", "")
	v.SetDefault("model", "deepseek-chat")
	v.SetDefault("api_timeout", 30*time.Second)
	v.SetDefault("retry_attempts", 3)
	v.SetDefault("retry_initial_delay", 1*time.Second)
	v.SetDefault("listen_addr", ":8080")
	v.SetDefault("debug", false)
}

// Load reads configuration from loft.yaml (working directory or $HOME, both
// optional) and LOFT_* environment variables. Env always wins.
func Load() (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetConfigName("loft")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("$HOME")

	v.SetEnvPrefix("LOFT")
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	return &cfg, nil
}

// Validate reports configuration errors that would only surface later as
// confusing API failures.
func (c *Config) Validate() error {
	if c.APIKey == "" {
		return fmt.Errorf("api key is required (set LOFT_API_KEY)")
	}
	if c.RetryAttempts < 1 {
		return fmt.Errorf("retry_attempts must be at least 1, got %d", c.RetryAttempts)
	}
	if c.APITimeout <= 0 {
		return fmt.Errorf("api_timeout must be positive, got %v", c.APITimeout)
	}
	return nil
}
