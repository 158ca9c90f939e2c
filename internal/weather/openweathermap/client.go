// Package openweathermap implements weather.Provider on top of the
// OpenWeatherMap current weather API.
package openweathermap

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/rs/zerolog"

	"github.com/weatherpro/weatherpro/internal/provider/resilience"
	"github.com/weatherpro/weatherpro/internal/telemetry"
	"github.com/weatherpro/weatherpro/internal/weather"
)

const (
	// ProviderName identifies this weather provider.
	ProviderName = "openweathermap"

	// DefaultBaseURL is the OpenWeatherMap API base URL.
	DefaultBaseURL = "http://api.openweathermap.org/data/2.5"

	// defaultVisibilityM is reported by the API when visibility is unlimited;
	// it is also assumed when the field is missing.
	defaultVisibilityM = 10000

	operationCurrent = "current_weather"
)

// ErrMissingField is returned when the response lacks a required field.
var ErrMissingField = errors.New("missing required field")

// ClientConfig holds configuration for the OpenWeatherMap client.
type ClientConfig struct {
	// APIKey is the OpenWeatherMap API key (required).
	APIKey string

	// BaseURL is the API base URL (optional, defaults to OpenWeatherMap API).
	BaseURL string

	// HTTPClient is the HTTP client to use (optional).
	// If nil, uses a resilient client with defaults.
	HTTPClient *resilience.Client

	// Metrics records request duration and outcome (optional).
	Metrics *telemetry.ProviderMetrics

	// Logger for client operations.
	Logger zerolog.Logger
}

// Client is an OpenWeatherMap API client.
type Client struct {
	apiKey     string
	baseURL    string
	httpClient *resilience.Client
	metrics    *telemetry.ProviderMetrics
	logger     zerolog.Logger
}

// NewClient creates a new OpenWeatherMap client.
func NewClient(cfg ClientConfig) *Client {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = resilience.NewClient(resilience.DefaultClientConfig(ProviderName))
	}

	return &Client{
		apiKey:     cfg.APIKey,
		baseURL:    baseURL,
		httpClient: httpClient,
		metrics:    cfg.Metrics,
		logger:     cfg.Logger,
	}
}

// Name returns the provider name.
func (c *Client) Name() string {
	return ProviderName
}

// Fetch fetches current weather for a city. Every failure is returned as a
// *weather.ProviderError.
func (c *Client) Fetch(ctx context.Context, city string) (weather.Snapshot, error) {
	start := time.Now()
	snap, err := c.fetch(ctx, city)
	c.metrics.RecordRequest(ProviderName, operationCurrent, time.Since(start), err)

	if err != nil {
		c.logger.Debug().
			Err(err).
			Str("city", city).
			Dur("duration", time.Since(start)).
			Msg("openweathermap request failed")
		return weather.Snapshot{}, weather.NewProviderError(city, err)
	}

	return snap, nil
}

func (c *Client) fetch(ctx context.Context, city string) (weather.Snapshot, error) {
	query := url.Values{}
	query.Set("q", city)
	query.Set("appid", c.apiKey)
	query.Set("units", "metric")
	reqURL := c.baseURL + "/weather?" + query.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, http.NoBody)
	if err != nil {
		return weather.Snapshot{}, fmt.Errorf("creating request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return weather.Snapshot{}, fmt.Errorf("executing request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return weather.Snapshot{}, statusError(resp)
	}

	var owmResp currentWeatherResponse
	if err := json.NewDecoder(resp.Body).Decode(&owmResp); err != nil {
		return weather.Snapshot{}, fmt.Errorf("decoding response: %w", err)
	}

	snap, err := toSnapshot(&owmResp)
	if err != nil {
		return weather.Snapshot{}, err
	}
	if err := snap.Validate(); err != nil {
		return weather.Snapshot{}, err
	}

	return snap, nil
}

// statusError builds an error from a non-200 response, using the API's
// message when the body carries one.
func statusError(resp *http.Response) error {
	var body errorResponse
	data, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
	_ = json.Unmarshal(data, &body)

	err := fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	if body.Message != "" {
		err = fmt.Errorf("unexpected status code: %d (%s)", resp.StatusCode, body.Message)
	}
	if resp.StatusCode == http.StatusNotFound {
		return fmt.Errorf("%w: %w", weather.ErrCityNotFound, err)
	}
	return err
}

// toSnapshot converts an OpenWeatherMap response to the domain model.
func toSnapshot(resp *currentWeatherResponse) (weather.Snapshot, error) {
	switch {
	case resp.Name == nil:
		return weather.Snapshot{}, fmt.Errorf("%w: name", ErrMissingField)
	case resp.Main == nil:
		return weather.Snapshot{}, fmt.Errorf("%w: main", ErrMissingField)
	case resp.Main.Temp == nil:
		return weather.Snapshot{}, fmt.Errorf("%w: main.temp", ErrMissingField)
	case resp.Main.FeelsLike == nil:
		return weather.Snapshot{}, fmt.Errorf("%w: main.feels_like", ErrMissingField)
	case resp.Main.Humidity == nil:
		return weather.Snapshot{}, fmt.Errorf("%w: main.humidity", ErrMissingField)
	case resp.Main.Pressure == nil:
		return weather.Snapshot{}, fmt.Errorf("%w: main.pressure", ErrMissingField)
	case resp.Wind == nil || resp.Wind.Speed == nil:
		return weather.Snapshot{}, fmt.Errorf("%w: wind.speed", ErrMissingField)
	case len(resp.Weather) == 0:
		return weather.Snapshot{}, fmt.Errorf("%w: weather[0]", ErrMissingField)
	}

	city := *resp.Name
	if resp.Sys.Country != "" {
		city += ", " + resp.Sys.Country
	}

	visibility := defaultVisibilityM
	if resp.Visibility != nil {
		visibility = *resp.Visibility
	}

	snap := weather.Snapshot{
		City:                 city,
		TemperatureC:         *resp.Main.Temp,
		FeelsLikeC:           *resp.Main.FeelsLike,
		HumidityPct:          *resp.Main.Humidity,
		PressureHPa:          *resp.Main.Pressure,
		CloudinessPct:        resp.Clouds.All,
		WindSpeedMs:          *resp.Wind.Speed,
		VisibilityM:          visibility,
		ConditionMain:        resp.Weather[0].Main,
		ConditionDescription: resp.Weather[0].Description,
		ConditionIcon:        resp.Weather[0].Icon,
		FetchedAt:            time.Now(),
	}

	if resp.Sys.Sunrise != nil {
		t := time.Unix(*resp.Sys.Sunrise, 0).Local()
		snap.Sunrise = &t
	}
	if resp.Sys.Sunset != nil {
		t := time.Unix(*resp.Sys.Sunset, 0).Local()
		snap.Sunset = &t
	}

	return snap, nil
}

// OpenWeatherMap API response structures. Required fields are pointers so a
// missing field can be told apart from a zero value.

type currentWeatherResponse struct {
	Name    *string `json:"name"`
	Weather []struct {
		ID          int    `json:"id"`
		Main        string `json:"main"`
		Description string `json:"description"`
		Icon        string `json:"icon"`
	} `json:"weather"`
	Main *struct {
		Temp      *float64 `json:"temp"`
		FeelsLike *float64 `json:"feels_like"`
		Pressure  *int     `json:"pressure"`
		Humidity  *int     `json:"humidity"`
	} `json:"main"`
	Visibility *int `json:"visibility"`
	Wind       *struct {
		Speed *float64 `json:"speed"`
	} `json:"wind"`
	Clouds struct {
		All int `json:"all"`
	} `json:"clouds"`
	Sys struct {
		Country string `json:"country"`
		Sunrise *int64 `json:"sunrise"`
		Sunset  *int64 `json:"sunset"`
	} `json:"sys"`
}

type errorResponse struct {
	Message string `json:"message"`
}
