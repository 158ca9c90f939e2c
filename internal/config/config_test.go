package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/weatherpro/weatherpro/internal/config"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("CONFIG_PATH", "")
	t.Setenv("OWM_API_KEY", "****")

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.App.Port)
	assert.Equal(t, "development", cfg.App.Environment)
	assert.Equal(t, "London", cfg.Weather.DefaultCity)
	assert.Equal(t, "http://api.openweathermap.org/data/2.5", cfg.Weather.BaseURL)
	assert.Equal(t, 10*time.Minute, cfg.Refresh.Interval)
	assert.False(t, cfg.PubSub.Enabled())
	assert.False(t, cfg.Telemetry.Enabled)
}

func TestLoad_MissingAPIKey(t *testing.T) {
	t.Setenv("CONFIG_PATH", "")
	t.Setenv("OWM_API_KEY", "")

	_, err := config.Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "apiKey")
}

func TestLoad_File(t *testing.T) {
	path := writeConfig(t, `
app:
  port: "9090"
  requireTls: true
weather:
  apiKey: from-file
  defaultCity: Tokyo
  timeout: 5s
refresh:
  interval: 0s
pubsub:
  projectId: weather-dev
  subscription: refresh-triggers
`)
	t.Setenv("CONFIG_PATH", path)
	t.Setenv("OWM_API_KEY", "")

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.App.Port)
	assert.True(t, cfg.App.RequireTLS)
	assert.Equal(t, "from-file", cfg.Weather.APIKey)
	assert.Equal(t, "Tokyo", cfg.Weather.DefaultCity)
	assert.Equal(t, 5*time.Second, cfg.Weather.Timeout)
	assert.Equal(t, time.Duration(0), cfg.Refresh.Interval)
	assert.True(t, cfg.PubSub.Enabled())

	// Fields absent from the file keep their defaults
	assert.Equal(t, 30*time.Second, cfg.Refresh.Timeout)
	assert.Equal(t, "development", cfg.App.Environment)
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	path := writeConfig(t, `
weather:
  apiKey: from-file
  defaultCity: Tokyo
`)
	t.Setenv("CONFIG_PATH", path)
	t.Setenv("OWM_API_KEY", "from-env")
	t.Setenv("DEFAULT_CITY", "Paris")
	t.Setenv("REFRESH_INTERVAL", "90s")
	t.Setenv("OTEL_ENABLED", "true")
	t.Setenv("APP_PORT", "7070")

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, "from-env", cfg.Weather.APIKey)
	assert.Equal(t, "Paris", cfg.Weather.DefaultCity)
	assert.Equal(t, 90*time.Second, cfg.Refresh.Interval)
	assert.True(t, cfg.Telemetry.Enabled)
	assert.Equal(t, "7070", cfg.App.Port)
}

func TestLoad_InvalidDuration(t *testing.T) {
	t.Setenv("CONFIG_PATH", "")
	t.Setenv("OWM_API_KEY", "****")
	t.Setenv("REFRESH_INTERVAL", "often")

	_, err := config.Load()
	assert.Error(t, err)
}

func TestLoad_BadFile(t *testing.T) {
	t.Setenv("CONFIG_PATH", writeConfig(t, "weather: [not, a, map"))
	_, err := config.Load()
	assert.Error(t, err)

	t.Setenv("CONFIG_PATH", filepath.Join(t.TempDir(), "missing.yaml"))
	_, err = config.Load()
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*config.Config)
		wantErr bool
	}{
		{"valid", func(*config.Config) {}, false},
		{"blank default city", func(c *config.Config) { c.Weather.DefaultCity = "  " }, true},
		{"negative interval", func(c *config.Config) { c.Refresh.Interval = -time.Second }, true},
		{"zero provider timeout", func(c *config.Config) { c.Weather.Timeout = 0 }, true},
		{"half pubsub config", func(c *config.Config) { c.PubSub.ProjectID = "weather-dev" }, true},
		{"empty port", func(c *config.Config) { c.App.Port = "" }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := config.Default()
			cfg.Weather.APIKey = "****"
			tt.mutate(cfg)

			err := cfg.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
