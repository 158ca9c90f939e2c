package api_test

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math/rand/v2"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/weatherpro/weatherpro/internal/advisor"
	"github.com/weatherpro/weatherpro/internal/api"
	"github.com/weatherpro/weatherpro/internal/api/models"
	"github.com/weatherpro/weatherpro/internal/provider/resilience"
	"github.com/weatherpro/weatherpro/internal/savings"
	"github.com/weatherpro/weatherpro/internal/weather"
	"github.com/weatherpro/weatherpro/internal/worker"
)

// fakeProvider serves fixed snapshots by city. Unknown cities fail the way
// the OpenWeatherMap client reports a 404.
type fakeProvider struct {
	mu        sync.Mutex
	snapshots map[string]weather.Snapshot
	err       error
}

func newFakeProvider() *fakeProvider {
	return &fakeProvider{
		snapshots: map[string]weather.Snapshot{
			"London": {
				City:          "London, GB",
				TemperatureC:  18,
				FeelsLikeC:    17.2,
				HumidityPct:   60,
				PressureHPa:   1012,
				CloudinessPct: 75,
				WindSpeedMs:   3.1,
				VisibilityM:   10000,
				ConditionMain: "Clouds",
				ConditionIcon: "04d",
				FetchedAt:     time.Now(),
			},
			"Tokyo": {
				City:          "Tokyo, JP",
				TemperatureC:  32,
				FeelsLikeC:    35,
				HumidityPct:   50,
				PressureHPa:   1008,
				WindSpeedMs:   8,
				VisibilityM:   10000,
				ConditionMain: "Clear",
				ConditionIcon: "01d",
				FetchedAt:     time.Now(),
			},
		},
	}
}

func (p *fakeProvider) Fetch(_ context.Context, city string) (weather.Snapshot, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.err != nil {
		return weather.Snapshot{}, weather.NewProviderError(city, p.err)
	}
	snap, ok := p.snapshots[city]
	if !ok {
		err := fmt.Errorf("%w: unexpected status code: 404 (city not found)", weather.ErrCityNotFound)
		return weather.Snapshot{}, weather.NewProviderError(city, err)
	}
	return snap, nil
}

func (p *fakeProvider) Name() string { return "fake" }

func (p *fakeProvider) fail(err error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.err = err
}

type testEnv struct {
	router    http.Handler
	provider  *fakeProvider
	dashboard *weather.Service
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	logger := zerolog.New(io.Discard)
	provider := newFakeProvider()

	dashboard := weather.NewService(weather.ServiceConfig{
		Provider: provider,
		Logger:   logger,
	})

	registry := resilience.NewRegistry()
	clientCfg := resilience.DefaultClientConfig("openweathermap")
	clientCfg.Registry = registry
	_ = resilience.NewClient(clientCfg)

	refreshJob := worker.NewRefreshJob(worker.RefreshJobConfig{
		Config:    worker.DefaultRefreshConfig(),
		Logger:    logger,
		Dashboard: dashboard,
	})

	router := api.NewRouter(api.RouterConfig{
		Version:      "test",
		BuildTime:    "2024-01-01T00:00:00Z",
		Logger:       logger,
		Dashboard:    dashboard,
		RefreshJob:   refreshJob,
		Registry:     registry,
		Facts:        advisor.NewFactPicker(rand.New(rand.NewPCG(1, 2))),
		SavingsFacts: savings.NewFactPicker(rand.New(rand.NewPCG(3, 4))),
		History:      savings.PlaceholderHistory{},
	})

	return &testEnv{router: router, provider: provider, dashboard: dashboard}
}

// loaded returns an env whose dashboard already holds the London snapshot.
func loaded(t *testing.T) *testEnv {
	t.Helper()
	env := newTestEnv(t)
	_, err := env.dashboard.Refresh(context.Background())
	require.NoError(t, err)
	return env
}

func (e *testEnv) do(method, path, body string) *httptest.ResponseRecorder {
	var reader io.Reader = http.NoBody
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v))
	return v
}

func TestRouter_HealthCheck(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(http.MethodGet, "/v1/ops/health", "")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))
	assert.NotEmpty(t, w.Header().Get("X-Request-Id"))

	health := decode[models.Health](t, w)
	assert.Equal(t, models.HealthStatusOK, health.Status)
	assert.Equal(t, "test", health.Details["version"])
}

func TestRouter_ReadinessCheck(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(http.MethodGet, "/v1/ops/ready", "")
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	health := decode[models.Health](t, w)
	assert.Equal(t, models.HealthStatusFail, health.Status)
	assert.Equal(t, "London", health.Details["city"])

	_, err := env.dashboard.Refresh(context.Background())
	require.NoError(t, err)

	w = env.do(http.MethodGet, "/v1/ops/ready", "")
	assert.Equal(t, http.StatusOK, w.Code)
	health = decode[models.Health](t, w)
	assert.Equal(t, models.HealthStatusOK, health.Status)
}

func TestRouter_SystemStatus(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(http.MethodGet, "/v1/ops/status", "")
	require.Equal(t, http.StatusOK, w.Code)

	status := decode[models.SystemStatus](t, w)
	assert.Equal(t, models.HealthStatusDegraded, status.Status)
	assert.Equal(t, "London", status.City)
	require.Len(t, status.Subsystems, 1)
	assert.Equal(t, "dashboard", status.Subsystems[0].Name)
	require.Len(t, status.Providers, 1)
	assert.Equal(t, "openweathermap", status.Providers[0].Provider)
	assert.Equal(t, "closed", status.Providers[0].CircuitState)

	env.do(http.MethodPost, "/v1/dashboard/refresh", "")

	w = env.do(http.MethodGet, "/v1/ops/status", "")
	status = decode[models.SystemStatus](t, w)
	assert.Equal(t, models.HealthStatusOK, status.Status)
	assert.EqualValues(t, 1, status.Refresh["total_refreshes"])
	assert.EqualValues(t, 1, status.Refresh["successful_refreshes"])
}

func TestRouter_ListCities(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(http.MethodGet, "/v1/cities", "")
	require.Equal(t, http.StatusOK, w.Code)

	list := decode[models.CityList](t, w)
	assert.Equal(t, "London", list.Current)
	assert.Equal(t, weather.PresetCities(), list.Cities)
}

func TestRouter_Dashboard_NoSnapshot(t *testing.T) {
	env := newTestEnv(t)

	for _, path := range []string{
		"/v1/dashboard",
		"/v1/dashboard/clothing",
		"/v1/dashboard/health",
		"/v1/dashboard/fact",
		"/v1/dashboard/savings",
	} {
		t.Run(path, func(t *testing.T) {
			w := env.do(http.MethodGet, path, "")

			assert.Equal(t, http.StatusServiceUnavailable, w.Code)
			assert.Equal(t, "application/problem+json", w.Header().Get("Content-Type"))

			problem := decode[models.Problem](t, w)
			assert.Equal(t, models.ProblemTypeUnavailable, problem.Type)
			assert.Equal(t, path, problem.Instance)
		})
	}
}

func TestRouter_GetDashboard(t *testing.T) {
	env := loaded(t)

	w := env.do(http.MethodGet, "/v1/dashboard", "")
	require.Equal(t, http.StatusOK, w.Code)

	dash := decode[models.Dashboard](t, w)
	assert.Equal(t, "London, GB", dash.Weather.City)
	assert.Equal(t, 18.0, dash.Weather.TemperatureC)
	assert.Equal(t, "☁️", dash.Weather.Emoji)
	assert.Equal(t, "Mild weather - Comfortable clothing", dash.Clothing.Description)
	assert.Equal(t, "☀️ Ideal Weather Conditions", dash.Health.MainAdvice)
	assert.Contains(t, advisor.FactPool(weather.Snapshot{TemperatureC: 18, ConditionMain: "Clouds"}), dash.Fact)
	assert.NotEmpty(t, dash.Savings.Fact)
	assert.NotNil(t, dash.Savings.Opportunities)
}

func TestRouter_AdvisorEndpoints(t *testing.T) {
	env := loaded(t)

	w := env.do(http.MethodGet, "/v1/dashboard/clothing", "")
	require.Equal(t, http.StatusOK, w.Code)
	clothing := decode[models.ClothingAdvice](t, w)
	assert.Equal(t, "Mild weather - Comfortable clothing", clothing.Description)

	w = env.do(http.MethodGet, "/v1/dashboard/health", "")
	require.Equal(t, http.StatusOK, w.Code)
	health := decode[models.HealthAdvice](t, w)
	assert.Equal(t, "☀️ Ideal Weather Conditions", health.MainAdvice)
	assert.NotNil(t, health.Warnings)

	w = env.do(http.MethodGet, "/v1/dashboard/fact", "")
	require.Equal(t, http.StatusOK, w.Code)
	fact := decode[models.Fact](t, w)
	assert.NotEmpty(t, fact.Fact)

	w = env.do(http.MethodGet, "/v1/dashboard/savings", "")
	require.Equal(t, http.StatusOK, w.Code)
	sv := decode[models.Savings](t, w)
	assert.Contains(t, savings.Facts, sv.Fact)
}

func TestRouter_SelectCity(t *testing.T) {
	env := loaded(t)

	w := env.do(http.MethodPut, "/v1/dashboard/city", `{"city":"Tokyo"}`)
	require.Equal(t, http.StatusOK, w.Code)

	dash := decode[models.Dashboard](t, w)
	assert.Equal(t, "Tokyo, JP", dash.Weather.City)
	assert.Equal(t, "Hot weather - Minimal, breathable clothing", dash.Clothing.Description)
	assert.Len(t, dash.Savings.Opportunities, 6)
	assert.Greater(t, dash.Savings.Summary.TotalMoney, 0.0)

	w = env.do(http.MethodGet, "/v1/cities", "")
	assert.Equal(t, "Tokyo", decode[models.CityList](t, w).Current)

	w = env.do(http.MethodGet, "/v1/dashboard", "")
	assert.Equal(t, "Tokyo, JP", decode[models.Dashboard](t, w).Weather.City)
}

func TestRouter_SelectCity_Validation(t *testing.T) {
	tests := []struct {
		name   string
		body   string
		status int
		detail string
	}{
		{"empty city", `{"city":""}`, http.StatusBadRequest, ""},
		{"missing city", `{}`, http.StatusBadRequest, ""},
		{"invalid json", `{"city":`, http.StatusBadRequest, "invalid JSON body"},
		{
			"oversized body",
			`{"city":"` + strings.Repeat("x", 8<<10) + `"}`,
			http.StatusBadRequest,
			"request body too large",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := loaded(t)

			w := env.do(http.MethodPut, "/v1/dashboard/city", tt.body)

			assert.Equal(t, tt.status, w.Code)
			problem := decode[models.Problem](t, w)
			assert.Equal(t, models.ProblemTypeValidation, problem.Type)
			if tt.detail != "" {
				assert.Equal(t, tt.detail, problem.Detail)
			}
			assert.Equal(t, "London", env.dashboard.City())
		})
	}
}

func TestRouter_SelectCity_WrongContentType(t *testing.T) {
	env := loaded(t)

	req := httptest.NewRequest(http.MethodPut, "/v1/dashboard/city", strings.NewReader("city=Tokyo"))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	w := httptest.NewRecorder()
	env.router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnsupportedMediaType, w.Code)
	assert.Equal(t, "London", env.dashboard.City())
}

func TestRouter_SelectCity_UnknownCity(t *testing.T) {
	env := loaded(t)

	w := env.do(http.MethodPut, "/v1/dashboard/city", `{"city":"Atlantis"}`)

	assert.Equal(t, http.StatusNotFound, w.Code)
	problem := decode[models.Problem](t, w)
	assert.True(t, strings.HasPrefix(problem.Detail, weather.ProviderErrorPrefix+": "))
	assert.Contains(t, problem.Detail, "city not found")

	assert.Equal(t, "London", env.dashboard.City())
	snap, err := env.dashboard.Current()
	require.NoError(t, err)
	assert.Equal(t, "London, GB", snap.City)
}

func TestRouter_Refresh(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(http.MethodPost, "/v1/dashboard/refresh", "")
	require.Equal(t, http.StatusOK, w.Code)

	dash := decode[models.Dashboard](t, w)
	assert.Equal(t, "London, GB", dash.Weather.City)
}

func TestRouter_Refresh_ProviderFailure(t *testing.T) {
	env := loaded(t)
	env.provider.fail(errors.New("unexpected status code: 500"))

	w := env.do(http.MethodPost, "/v1/dashboard/refresh", "")

	assert.Equal(t, http.StatusBadGateway, w.Code)
	problem := decode[models.Problem](t, w)
	assert.Equal(t, models.ProblemTypeBadGateway, problem.Type)
	assert.Equal(t, "Error fetching weather data: unexpected status code: 500", problem.Detail)

	// The previous snapshot is kept
	w = env.do(http.MethodGet, "/v1/dashboard", "")
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRouter_Weather(t *testing.T) {
	env := loaded(t)

	w := env.do(http.MethodGet, "/v1/weather?city=Tokyo", "")
	require.Equal(t, http.StatusOK, w.Code)

	dash := decode[models.Dashboard](t, w)
	assert.Equal(t, "Tokyo, JP", dash.Weather.City)
	assert.Equal(t, "🚨 Heat Warning - High Risk", dash.Health.MainAdvice)

	// A lookup leaves the dashboard alone
	assert.Equal(t, "London", env.dashboard.City())
}

func TestRouter_Weather_Errors(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(http.MethodGet, "/v1/weather", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = env.do(http.MethodGet, "/v1/weather?city=Atlantis", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestRouter_MonthlySavings(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(http.MethodGet, "/v1/savings/monthly", "")
	require.Equal(t, http.StatusOK, w.Code)

	monthly := decode[models.MonthlySummary](t, w)
	assert.Equal(t, 87.50, monthly.TotalMoney)
	assert.Equal(t, 23, monthly.DaysActive)
	assert.Equal(t, 7, monthly.CurrentStreak)
}

func TestRouter_RequestID_Generated(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(http.MethodGet, "/v1/ops/health", "")

	requestID := w.Header().Get("X-Request-Id")
	assert.NotEmpty(t, requestID)
	assert.Contains(t, requestID, "req_")
}

func TestRouter_RequestID_Preserved(t *testing.T) {
	env := newTestEnv(t)

	req := httptest.NewRequest(http.MethodGet, "/v1/ops/health", http.NoBody)
	req.Header.Set("X-Request-Id", "custom_request_id")
	w := httptest.NewRecorder()

	env.router.ServeHTTP(w, req)

	assert.Equal(t, "custom_request_id", w.Header().Get("X-Request-Id"))
}

func TestRouter_NotFound(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(http.MethodGet, "/v1/nonexistent", "")

	assert.Equal(t, http.StatusNotFound, w.Code)
}
