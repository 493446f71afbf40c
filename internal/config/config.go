package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds CLI configuration.
type Config struct {
	API      APIConfig      `mapstructure:"api"`
	Retry    RetryConfig    `mapstructure:"retry"`
	Debounce DebounceConfig `mapstructure:"debounce"`
}

// APIConfig holds provider connection settings.
type APIConfig struct {
	BaseURL   string        `mapstructure:"base_url"`
	Token     string        `mapstructure:"token"`
	Timeout   time.Duration `mapstructure:"timeout"`
	RateLimit float64       `mapstructure:"rate_limit"`
	Burst     int           `mapstructure:"burst"`
}

// RetryConfig holds backoff settings for important submissions.
type RetryConfig struct {
	Attempts  int           `mapstructure:"attempts"`
	BaseDelay time.Duration `mapstructure:"base_delay"`
}

// DebounceConfig overrides converter debounce windows. Zero keeps each
// converter's own default.
type DebounceConfig struct {
	Value time.Duration `mapstructure:"value"`
	Unit  time.Duration `mapstructure:"unit"`
}

// Load reads configuration from defaults, an optional file and env. Env var
// overrides use prefix GAUGE_, e.g. GAUGE_API_TOKEN.
//
// An explicit path must exist; the default location is optional. bind, when
// non-nil, can attach command-line flags to keys before values are read.
func Load(path string, bind func(*viper.Viper) error) (Config, error) {
	v := viper.New()

	// default values
	v.SetDefault("api.base_url", "http://localhost:8000/")
	v.SetDefault("api.token", "")
	v.SetDefault("api.timeout", 10*time.Second)
	v.SetDefault("api.rate_limit", 0.0)
	v.SetDefault("api.burst", 1)
	v.SetDefault("retry.attempts", 3)
	v.SetDefault("retry.base_delay", time.Second)
	v.SetDefault("debounce.value", time.Duration(0))
	v.SetDefault("debounce.unit", time.Duration(0))

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.AddConfigPath(filepath.Join(os.Getenv("HOME"), ".config", "gauge"))
		v.SetConfigName("config")
		v.SetConfigType("yaml")
	}

	v.SetEnvPrefix("GAUGE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if bind != nil {
		if err := bind(v); err != nil {
			return Config{}, fmt.Errorf("bind flags: %w", err)
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var missing viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &missing) {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	}

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := c.Validate(); err != nil {
		return Config{}, err
	}
	return c, nil
}

// Validate rejects settings no command can run with.
func (c Config) Validate() error {
	switch {
	case c.API.BaseURL == "":
		return errors.New("api.base_url must be set")
	case c.API.Timeout < 0:
		return errors.New("api.timeout must not be negative")
	case c.API.RateLimit < 0:
		return errors.New("api.rate_limit must not be negative")
	case c.Retry.Attempts < 1:
		return errors.New("retry.attempts must be at least 1")
	case c.Debounce.Value < 0 || c.Debounce.Unit < 0:
		return errors.New("debounce windows must not be negative")
	}
	return nil
}
