package weather

import (
	"context"
	"errors"
	"strings"
	"sync"

	"github.com/rs/zerolog"
)

// Provider defines the interface for weather data providers.
type Provider interface {
	// Fetch performs one request for the named city. Failures are returned
	// as *ProviderError.
	Fetch(ctx context.Context, city string) (Snapshot, error)

	// Name returns the provider name for logging.
	Name() string
}

// ServiceConfig holds configuration for the dashboard service.
type ServiceConfig struct {
	// Provider is the weather data provider.
	Provider Provider

	// Logger for service operations.
	Logger zerolog.Logger

	// DefaultCity is the city refreshed before any city is selected
	// (default: London).
	DefaultCity string
}

// Service holds the currently selected city and its latest snapshot.
//
// Every refresh replaces the snapshot wholesale. When refreshes overlap, the
// most recently started one wins: starting a refresh cancels the fetch it
// supersedes, and a superseded result is discarded with ErrSuperseded.
type Service struct {
	provider Provider
	logger   zerolog.Logger

	mu       sync.RWMutex
	city     string
	current  *Snapshot
	gen      uint64
	inFlight context.CancelFunc
}

// NewService creates a new dashboard service.
func NewService(cfg ServiceConfig) *Service {
	city := cfg.DefaultCity
	if strings.TrimSpace(city) == "" {
		city = DefaultCity
	}

	return &Service{
		provider: cfg.Provider,
		logger:   cfg.Logger,
		city:     city,
	}
}

// City returns the currently selected city.
func (s *Service) City() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.city
}

// Current returns the latest snapshot, or ErrNoSnapshot before the first
// successful refresh.
func (s *Service) Current() (Snapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.current == nil {
		return Snapshot{}, ErrNoSnapshot
	}
	return *s.current, nil
}

// ProviderName returns the name of the underlying provider.
func (s *Service) ProviderName() string {
	return s.provider.Name()
}

// Refresh fetches the currently selected city and replaces the snapshot.
// On failure the previous snapshot stays in place.
func (s *Service) Refresh(ctx context.Context) (Snapshot, error) {
	return s.refresh(ctx, s.City(), false)
}

// SelectCity fetches the given city and, on success, makes it the current
// city. The city name is passed to the provider verbatim.
func (s *Service) SelectCity(ctx context.Context, city string) (Snapshot, error) {
	if strings.TrimSpace(city) == "" {
		return Snapshot{}, ErrEmptyCity
	}
	return s.refresh(ctx, city, true)
}

// Lookup fetches a city without touching the dashboard state.
func (s *Service) Lookup(ctx context.Context, city string) (Snapshot, error) {
	if strings.TrimSpace(city) == "" {
		return Snapshot{}, ErrEmptyCity
	}

	s.logger.Debug().
		Str("city", city).
		Str("provider", s.provider.Name()).
		Msg("looking up weather")

	return s.provider.Fetch(ctx, city)
}

func (s *Service) refresh(ctx context.Context, city string, selectCity bool) (Snapshot, error) {
	fetchCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	s.mu.Lock()
	if s.inFlight != nil {
		s.inFlight()
	}
	s.gen++
	gen := s.gen
	s.inFlight = cancel
	s.mu.Unlock()

	s.logger.Debug().
		Str("city", city).
		Uint64("generation", gen).
		Str("provider", s.provider.Name()).
		Msg("fetching weather from provider")

	snap, err := s.provider.Fetch(fetchCtx, city)

	s.mu.Lock()
	defer s.mu.Unlock()

	if gen != s.gen {
		s.logger.Debug().
			Str("city", city).
			Uint64("generation", gen).
			Msg("discarding superseded weather refresh")
		return Snapshot{}, ErrSuperseded
	}
	s.inFlight = nil

	if err != nil {
		event := s.logger.Error()
		if errors.Is(err, ErrCityNotFound) {
			event = s.logger.Warn()
		}
		event.Err(err).
			Str("city", city).
			Bool("has_previous", s.current != nil).
			Msg("failed to refresh weather")
		return Snapshot{}, err
	}

	s.current = &snap
	if selectCity {
		s.city = city
	}

	s.logger.Info().
		Str("city", snap.City).
		Float64("temperature", snap.TemperatureC).
		Str("condition", snap.ConditionMain).
		Msg("weather snapshot updated")

	return snap, nil
}
