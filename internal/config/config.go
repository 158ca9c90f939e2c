// Package config loads service configuration from defaults, an optional YAML
// file and environment variables, in that order of precedence.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// DefaultConfigPath is read when CONFIG_PATH is unset and the file exists.
const DefaultConfigPath = "configs/config.yaml"

// Config is the service configuration.
type Config struct {
	App       AppConfig       `yaml:"app"`
	Weather   WeatherConfig   `yaml:"weather"`
	Refresh   RefreshConfig   `yaml:"refresh"`
	Telemetry TelemetryConfig `yaml:"telemetry"`
	PubSub    PubSubConfig    `yaml:"pubsub"`
}

// AppConfig holds HTTP server settings.
type AppConfig struct {
	Port        string `yaml:"port"`
	Environment string `yaml:"environment"`
	RequireTLS  bool   `yaml:"requireTls"`
}

// WeatherConfig holds weather provider settings.
type WeatherConfig struct {
	APIKey      string        `yaml:"apiKey"`
	BaseURL     string        `yaml:"baseUrl"`
	DefaultCity string        `yaml:"defaultCity"`
	Timeout     time.Duration `yaml:"timeout"`
}

// RefreshConfig controls background refreshes.
type RefreshConfig struct {
	// Interval of scheduled refreshes; zero disables them.
	Interval time.Duration `yaml:"interval"`
	Timeout  time.Duration `yaml:"timeout"`
}

// TelemetryConfig holds OpenTelemetry settings.
type TelemetryConfig struct {
	Enabled      bool   `yaml:"enabled"`
	OTLPEndpoint string `yaml:"otlpEndpoint"`
}

// PubSubConfig holds the refresh trigger subscription.
type PubSubConfig struct {
	ProjectID    string `yaml:"projectId"`
	Subscription string `yaml:"subscription"`
}

// Enabled reports whether a subscription is configured.
func (c PubSubConfig) Enabled() bool {
	return c.ProjectID != "" && c.Subscription != ""
}

// Load reads configuration from a YAML file and environment variables.
func Load() (*Config, error) {
	cfg := Default()

	if path := os.Getenv("CONFIG_PATH"); path != "" {
		if err := hydrateFromFile(cfg, path); err != nil {
			return nil, err
		}
	} else if _, err := os.Stat(DefaultConfigPath); err == nil {
		if err := hydrateFromFile(cfg, DefaultConfigPath); err != nil {
			return nil, err
		}
	}

	if err := applyEnvOverrides(cfg); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

func hydrateFromFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse config file: %w", err)
	}
	return nil
}

func applyEnvOverrides(cfg *Config) error {
	if v := os.Getenv("APP_PORT"); v != "" {
		cfg.App.Port = v
	}
	if v := os.Getenv("APP_ENV"); v != "" {
		cfg.App.Environment = v
	}
	if v := os.Getenv("REQUIRE_TLS"); v != "" {
		cfg.App.RequireTLS = parseBool(v)
	}
	if v := os.Getenv("OWM_API_KEY"); v != "" {
		cfg.Weather.APIKey = v
	}
	if v := os.Getenv("OWM_BASE_URL"); v != "" {
		cfg.Weather.BaseURL = v
	}
	if v := os.Getenv("DEFAULT_CITY"); v != "" {
		cfg.Weather.DefaultCity = v
	}
	if v := os.Getenv("PROVIDER_TIMEOUT"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("parse PROVIDER_TIMEOUT: %w", err)
		}
		cfg.Weather.Timeout = d
	}
	if v := os.Getenv("REFRESH_INTERVAL"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("parse REFRESH_INTERVAL: %w", err)
		}
		cfg.Refresh.Interval = d
	}
	if v := os.Getenv("OTEL_ENABLED"); v != "" {
		cfg.Telemetry.Enabled = parseBool(v)
	}
	if v := os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT"); v != "" {
		cfg.Telemetry.OTLPEndpoint = v
	}
	if v := os.Getenv("PUBSUB_PROJECT_ID"); v != "" {
		cfg.PubSub.ProjectID = v
	}
	if v := os.Getenv("PUBSUB_SUBSCRIPTION"); v != "" {
		cfg.PubSub.Subscription = v
	}
	return nil
}

func parseBool(v string) bool {
	b, err := strconv.ParseBool(v)
	return err == nil && b || strings.EqualFold(v, "yes")
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		App: AppConfig{
			Port:        "8080",
			Environment: "development",
		},
		Weather: WeatherConfig{
			BaseURL:     "http://api.openweathermap.org/data/2.5",
			DefaultCity: "London",
			Timeout:     10 * time.Second,
		},
		Refresh: RefreshConfig{
			Interval: 10 * time.Minute,
			Timeout:  30 * time.Second,
		},
		Telemetry: TelemetryConfig{
			OTLPEndpoint: "localhost:4317",
		},
	}
}

// Validate ensures the configuration is safe to use.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.App.Port) == "" {
		return errors.New("app.port cannot be empty")
	}
	if strings.TrimSpace(c.Weather.APIKey) == "" {
		return errors.New("weather.apiKey is required (set OWM_API_KEY)")
	}
	if strings.TrimSpace(c.Weather.BaseURL) == "" {
		return errors.New("weather.baseUrl cannot be empty")
	}
	if strings.TrimSpace(c.Weather.DefaultCity) == "" {
		return errors.New("weather.defaultCity cannot be empty")
	}
	if c.Weather.Timeout <= 0 {
		return errors.New("weather.timeout must be positive")
	}
	if c.Refresh.Interval < 0 {
		return errors.New("refresh.interval cannot be negative")
	}
	if c.Refresh.Timeout <= 0 {
		return errors.New("refresh.timeout must be positive")
	}
	if (c.PubSub.ProjectID == "") != (c.PubSub.Subscription == "") {
		return errors.New("pubsub.projectId and pubsub.subscription must be set together")
	}
	return nil
}
