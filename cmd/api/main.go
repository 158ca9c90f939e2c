// Package main provides the entrypoint for the Weather Pro API server.
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/weatherpro/weatherpro/internal/advisor"
	"github.com/weatherpro/weatherpro/internal/api"
	"github.com/weatherpro/weatherpro/internal/api/middleware"
	"github.com/weatherpro/weatherpro/internal/config"
	"github.com/weatherpro/weatherpro/internal/provider/resilience"
	"github.com/weatherpro/weatherpro/internal/savings"
	"github.com/weatherpro/weatherpro/internal/telemetry"
	"github.com/weatherpro/weatherpro/internal/weather"
	"github.com/weatherpro/weatherpro/internal/weather/openweathermap"
	"github.com/weatherpro/weatherpro/internal/worker"
)

// Version and BuildTime are set at compile time via ldflags.
var (
	Version   = "dev"
	BuildTime = "unknown"
)

func main() {
	const serviceName = "weatherpro-api"

	// Setup structured logging
	log := zerolog.New(os.Stdout).
		With().
		Timestamp().
		Str("service", serviceName).
		Str("version", Version).
		Logger()

	log.Info().
		Str("build_time", BuildTime).
		Msg("starting Weather Pro API")

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Initialize OpenTelemetry
	tp, err := telemetry.Init(ctx, telemetry.Config{
		ServiceName:    serviceName,
		ServiceVersion: Version,
		Environment:    cfg.App.Environment,
		OTLPEndpoint:   cfg.Telemetry.OTLPEndpoint,
		Enabled:        cfg.Telemetry.Enabled,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize telemetry")
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if shutdownErr := tp.Shutdown(shutdownCtx); shutdownErr != nil {
			log.Error().Err(shutdownErr).Msg("failed to shutdown telemetry")
		}
	}()

	if cfg.Telemetry.Enabled {
		log.Info().
			Str("otlp_endpoint", cfg.Telemetry.OTLPEndpoint).
			Msg("OpenTelemetry initialized")
	}

	// Initialize metrics
	httpMetrics, err := middleware.NewMetrics()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize HTTP metrics")
	}
	providerMetrics, err := telemetry.NewProviderMetrics()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize provider metrics")
	}
	refreshMetrics, err := telemetry.NewRefreshMetrics()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize refresh metrics")
	}

	// Weather provider behind a circuit breaker
	registry := resilience.NewRegistry()
	cbConfig := resilience.DefaultCircuitBreakerConfig(openweathermap.ProviderName)
	cbConfig.OnStateChange = resilience.LogStateChanges(log)

	clientConfig := resilience.DefaultClientConfig(openweathermap.ProviderName)
	clientConfig.Timeout = cfg.Weather.Timeout
	clientConfig.CircuitBreaker = &cbConfig
	clientConfig.Registry = registry

	provider := openweathermap.NewClient(openweathermap.ClientConfig{
		APIKey:     cfg.Weather.APIKey,
		BaseURL:    cfg.Weather.BaseURL,
		HTTPClient: resilience.NewClient(clientConfig),
		Metrics:    providerMetrics,
		Logger:     log,
	})

	dashboard := weather.NewService(weather.ServiceConfig{
		Provider:    provider,
		Logger:      log,
		DefaultCity: cfg.Weather.DefaultCity,
	})

	refreshConfig := worker.RefreshConfig{
		Interval: cfg.Refresh.Interval,
		Timeout:  cfg.Refresh.Timeout,
	}
	refreshJob := worker.NewRefreshJob(worker.RefreshJobConfig{
		Config:    refreshConfig,
		Logger:    log,
		Dashboard: dashboard,
		Telemetry: refreshMetrics,
	})

	// Load the default city before serving; a failure leaves the dashboard
	// empty until the next refresh succeeds.
	if result := refreshJob.Run(ctx, worker.Trigger{Source: worker.SourceStartup}); !result.Succeeded() {
		log.Warn().
			Str("city", result.City).
			Msg("initial weather load failed, serving without data")
	}

	// Periodic refresh
	var scheduler *worker.Scheduler
	if refreshConfig.Interval > 0 {
		scheduler, err = worker.NewScheduler(worker.SchedulerConfig{
			Config:     refreshConfig,
			RefreshJob: refreshJob,
			Logger:     log,
		})
		if err != nil {
			log.Fatal().Err(err).Msg("failed to create refresh scheduler")
		}
		if err := scheduler.Start(); err != nil {
			log.Fatal().Err(err).Msg("failed to start refresh scheduler")
		}
	} else {
		log.Info().Msg("periodic refresh disabled")
	}

	// Pub/Sub triggered refresh
	var pubsubHandler *worker.PubSubHandler
	if cfg.PubSub.Enabled() {
		pubsubHandler, err = worker.NewPubSubHandler(ctx, worker.PubSubConfig{
			ProjectID:        cfg.PubSub.ProjectID,
			SubscriptionName: cfg.PubSub.Subscription,
			RefreshJob:       refreshJob,
			Logger:           log,
		})
		if err != nil {
			log.Fatal().Err(err).Msg("failed to create pubsub handler")
		}
		go func() {
			if err := pubsubHandler.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
				log.Error().Err(err).Msg("pubsub handler stopped")
			}
		}()
	}

	router := api.NewRouter(api.RouterConfig{
		Version:      Version,
		BuildTime:    BuildTime,
		Logger:       log,
		Metrics:      httpMetrics,
		RequireTLS:   cfg.App.RequireTLS,
		Dashboard:    dashboard,
		RefreshJob:   refreshJob,
		Registry:     registry,
		Facts:        advisor.NewFactPicker(nil),
		SavingsFacts: savings.NewFactPicker(nil),
		History:      savings.PlaceholderHistory{},
	})

	// Create HTTP server
	server := &http.Server{
		Addr:         ":" + cfg.App.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: cfg.Refresh.Timeout + 5*time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in goroutine
	go func() {
		log.Info().
			Str("addr", server.Addr).
			Str("city", dashboard.City()).
			Msg("server listening")

		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server error")
		}
	}()

	// Wait for interrupt signal
	<-ctx.Done()
	log.Info().Msg("shutting down server")

	// Graceful shutdown with timeout
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("server forced to shutdown")
	}

	if scheduler != nil {
		if err := scheduler.Shutdown(); err != nil {
			log.Error().Err(err).Msg("failed to stop refresh scheduler")
		}
	}
	if pubsubHandler != nil {
		if err := pubsubHandler.Close(); err != nil {
			log.Error().Err(err).Msg("failed to close pubsub client")
		}
	}

	log.Info().Msg("server stopped")
}
