// Package api provides the HTTP API for Weather Pro.
package api

import (
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	"github.com/weatherpro/weatherpro/internal/advisor"
	"github.com/weatherpro/weatherpro/internal/api/handler"
	"github.com/weatherpro/weatherpro/internal/api/middleware"
	"github.com/weatherpro/weatherpro/internal/provider/resilience"
	"github.com/weatherpro/weatherpro/internal/savings"
	"github.com/weatherpro/weatherpro/internal/weather"
	"github.com/weatherpro/weatherpro/internal/worker"
)

// RouterConfig holds configuration for the router.
type RouterConfig struct {
	Version    string
	BuildTime  string
	Logger     zerolog.Logger
	Metrics    *middleware.Metrics
	RequireTLS bool

	Dashboard  *weather.Service
	RefreshJob *worker.RefreshJob
	Registry   *resilience.Registry

	// Optional; nil pickers draw from the global generator and a nil
	// history serves placeholder totals.
	Facts        *advisor.FactPicker
	SavingsFacts *savings.FactPicker
	History      savings.HistoryStore
}

// NewRouter creates a new chi router with all API routes configured.
func NewRouter(cfg RouterConfig) *chi.Mux {
	r := chi.NewRouter()

	// Global middleware - order matters
	r.Use(middleware.RequestID) // Generate/propagate request ID first
	r.Use(middleware.Tracing)   // Distributed tracing
	if cfg.Metrics != nil {
		r.Use(cfg.Metrics.Middleware()) // HTTP metrics
	}
	r.Use(middleware.Logger(cfg.Logger))         // Structured logging
	r.Use(middleware.Recovery(cfg.Logger))       // Panic recovery
	r.Use(chimiddleware.RealIP)                  // Real IP extraction
	r.Use(middleware.SecurityHeaders)            // Security headers (HSTS, CSP, etc.)
	r.Use(middleware.RequireTLS(cfg.RequireTLS)) // TLS enforcement
	r.Use(middleware.ContentTypeJSON)            // JSON content type

	refresher := cfg.RefreshJob
	if refresher == nil {
		refresher = worker.NewRefreshJob(worker.RefreshJobConfig{
			Config:    worker.DefaultRefreshConfig(),
			Logger:    cfg.Logger,
			Dashboard: cfg.Dashboard,
		})
	}

	// Initialize handlers
	opsHandler := handler.NewOpsHandler(handler.OpsHandlerConfig{
		Version:   cfg.Version,
		BuildTime: cfg.BuildTime,
		Dashboard: cfg.Dashboard,
		Registry:  cfg.Registry,
		Refresh:   refresher,
	})
	dashboardHandler := handler.NewDashboardHandler(handler.DashboardHandlerConfig{
		Dashboard:    cfg.Dashboard,
		Refresher:    refresher,
		Facts:        cfg.Facts,
		SavingsFacts: cfg.SavingsFacts,
	})
	weatherHandler := handler.NewWeatherHandler(cfg.Dashboard, cfg.Facts, cfg.SavingsFacts)
	savingsHandler := handler.NewSavingsHandler(cfg.History)

	// Provider-calling endpoints get the stricter limit
	expensiveRateLimit := middleware.RateLimitByIP(middleware.ExpensiveRateLimit) // 30 req/min
	standardRateLimit := middleware.RateLimitByIP(middleware.StandardRateLimit)   // 100 req/min

	r.Route("/v1", func(r chi.Router) {
		r.Route("/ops", func(r chi.Router) {
			r.Get("/health", opsHandler.HealthCheck)
			r.Get("/ready", opsHandler.ReadinessCheck)
			r.Get("/status", opsHandler.SystemStatus)
		})

		r.With(standardRateLimit).Get("/cities", dashboardHandler.ListCities)

		r.Route("/dashboard", func(r chi.Router) {
			r.Group(func(r chi.Router) {
				r.Use(standardRateLimit)
				r.Get("/", dashboardHandler.GetDashboard)
				r.Get("/clothing", dashboardHandler.GetClothing)
				r.Get("/health", dashboardHandler.GetHealth)
				r.Get("/fact", dashboardHandler.GetFact)
				r.Get("/savings", dashboardHandler.GetSavings)
			})
			r.With(expensiveRateLimit, middleware.RequireJSON).Put("/city", dashboardHandler.SelectCity)
			r.With(expensiveRateLimit).Post("/refresh", dashboardHandler.Refresh)
		})

		r.With(expensiveRateLimit).Get("/weather", weatherHandler.GetWeather)

		r.With(standardRateLimit).Get("/savings/monthly", savingsHandler.GetMonthly)
	})

	return r
}
