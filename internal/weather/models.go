// Package weather provides the current-conditions model and the dashboard
// service that holds the latest snapshot for the selected city.
package weather

import (
	"errors"
	"fmt"
	"math"
	"strings"
	"time"
)

// Weather errors.
var (
	ErrNoSnapshot      = errors.New("no weather snapshot loaded")
	ErrEmptyCity       = errors.New("city name is required")
	ErrSuperseded      = errors.New("refresh superseded by a newer request")
	ErrInvalidSnapshot = errors.New("invalid weather snapshot")
	ErrCityNotFound    = errors.New("city not found")
)

// ProviderErrorPrefix starts every message surfaced for a failed fetch.
const ProviderErrorPrefix = "Error fetching weather data"

// ProviderError wraps any failure of a provider fetch: transport errors,
// unexpected status codes, malformed JSON and missing required fields.
type ProviderError struct {
	City string
	Err  error
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("%s: %v", ProviderErrorPrefix, e.Err)
}

func (e *ProviderError) Unwrap() error {
	return e.Err
}

// NewProviderError wraps err for the given city.
func NewProviderError(city string, err error) *ProviderError {
	return &ProviderError{City: city, Err: err}
}

// Snapshot is one fetched observation for a city. It is passed by value and
// replaced wholesale on every refresh.
type Snapshot struct {
	// City is the display name, "Name, CountryCode".
	City string

	// Temperatures in Celsius
	TemperatureC float64
	FeelsLikeC   float64

	HumidityPct   int // 0-100
	PressureHPa   int
	CloudinessPct int // 0-100

	// WindSpeedMs is the wind speed in m/s.
	WindSpeedMs float64

	// VisibilityM is the visibility in meters.
	VisibilityM int

	// Provider condition, e.g. "Rain", "light rain", "10d".
	ConditionMain        string
	ConditionDescription string
	ConditionIcon        string

	// Sunrise and Sunset are in local time, nil when the provider omits them.
	Sunrise *time.Time
	Sunset  *time.Time

	FetchedAt time.Time
}

// Validate checks the numeric invariants of the snapshot.
func (s Snapshot) Validate() error {
	for name, v := range map[string]float64{
		"temperature": s.TemperatureC,
		"feels_like":  s.FeelsLikeC,
		"wind_speed":  s.WindSpeedMs,
	} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("%w: %s is not finite", ErrInvalidSnapshot, name)
		}
	}
	if s.HumidityPct < 0 || s.HumidityPct > 100 {
		return fmt.Errorf("%w: humidity %d out of range", ErrInvalidSnapshot, s.HumidityPct)
	}
	if s.CloudinessPct < 0 || s.CloudinessPct > 100 {
		return fmt.Errorf("%w: cloudiness %d out of range", ErrInvalidSnapshot, s.CloudinessPct)
	}
	return nil
}

// Condition returns the lower-cased condition used for keyword matching.
func (s Snapshot) Condition() string {
	return strings.ToLower(s.ConditionMain)
}

// ConditionHasAny reports whether the condition contains any of the keywords,
// ignoring case.
func (s Snapshot) ConditionHasAny(keywords ...string) bool {
	cond := s.Condition()
	for _, k := range keywords {
		if strings.Contains(cond, strings.ToLower(k)) {
			return true
		}
	}
	return false
}

// IsSunny reports whether the condition mentions clear sky or sun.
func (s Snapshot) IsSunny() bool {
	return s.ConditionHasAny("clear", "sun")
}

// DefaultCity is the city loaded on startup.
const DefaultCity = "London"

// PresetCities returns the cities offered for quick selection.
func PresetCities() []string {
	return []string{
		"London", "New York", "Tokyo", "Paris", "Sydney",
		"Dubai", "Mumbai", "São Paulo", "Cairo", "Moscow",
	}
}

// IconEmoji maps a provider icon code to a display emoji.
func IconEmoji(code string) string {
	switch code {
	case "01d":
		return "☀️"
	case "01n":
		return "🌙"
	case "02d":
		return "⛅"
	case "02n", "03d", "03n", "04d", "04n":
		return "☁️"
	case "09d", "09n":
		return "🌧️"
	case "10d", "10n":
		return "🌦️"
	case "11d", "11n":
		return "⛈️"
	case "13d", "13n":
		return "❄️"
	case "50d", "50n":
		return "🌫️"
	default:
		return "🌤️"
	}
}
