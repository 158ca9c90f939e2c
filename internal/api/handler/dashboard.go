package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/weatherpro/weatherpro/internal/advisor"
	"github.com/weatherpro/weatherpro/internal/api/models"
	"github.com/weatherpro/weatherpro/internal/api/response"
	"github.com/weatherpro/weatherpro/internal/savings"
	"github.com/weatherpro/weatherpro/internal/weather"
	"github.com/weatherpro/weatherpro/internal/worker"
)

// maxSelectCityBody caps the PUT /v1/dashboard/city request body.
const maxSelectCityBody = 4 << 10

// DashboardReader exposes the selected city and its latest snapshot.
type DashboardReader interface {
	City() string
	Current() (weather.Snapshot, error)
}

// Refresher runs refresh triggers. *worker.RefreshJob implements it.
type Refresher interface {
	Run(ctx context.Context, trigger worker.Trigger) *worker.RefreshResult
}

// advice computes every advisor output for a snapshot. Advice is never
// cached; each call recomputes it.
type advice struct {
	facts        *advisor.FactPicker
	savingsFacts *savings.FactPicker
}

func newAdvice(facts *advisor.FactPicker, savingsFacts *savings.FactPicker) advice {
	if facts == nil {
		facts = advisor.NewFactPicker(nil)
	}
	if savingsFacts == nil {
		savingsFacts = savings.NewFactPicker(nil)
	}
	return advice{facts: facts, savingsFacts: savingsFacts}
}

func (a advice) savings(s weather.Snapshot) models.Savings {
	return models.NewSavings(savings.Opportunities(s), a.savingsFacts.Pick())
}

func (a advice) dashboard(s weather.Snapshot) models.Dashboard {
	return models.Dashboard{
		Weather:  models.NewWeather(s),
		Clothing: models.NewClothingAdvice(advisor.Clothing(s)),
		Health:   models.NewHealthAdvice(advisor.Health(s)),
		Fact:     a.facts.Pick(s),
		Savings:  a.savings(s),
	}
}

// DashboardHandlerConfig holds dependencies for DashboardHandler.
type DashboardHandlerConfig struct {
	Dashboard    DashboardReader
	Refresher    Refresher
	Facts        *advisor.FactPicker
	SavingsFacts *savings.FactPicker
}

// DashboardHandler handles the dashboard endpoints.
type DashboardHandler struct {
	dashboard DashboardReader
	refresher Refresher
	advice    advice
}

// NewDashboardHandler creates a new DashboardHandler.
func NewDashboardHandler(cfg DashboardHandlerConfig) *DashboardHandler {
	return &DashboardHandler{
		dashboard: cfg.Dashboard,
		refresher: cfg.Refresher,
		advice:    newAdvice(cfg.Facts, cfg.SavingsFacts),
	}
}

// current writes an error response and returns false when no snapshot is loaded.
func (h *DashboardHandler) current(w http.ResponseWriter, r *http.Request) (weather.Snapshot, bool) {
	snap, err := h.dashboard.Current()
	if err != nil {
		writeWeatherError(w, r, err)
		return weather.Snapshot{}, false
	}
	return snap, true
}

// GetDashboard handles GET /v1/dashboard - current conditions with all advice.
func (h *DashboardHandler) GetDashboard(w http.ResponseWriter, r *http.Request) {
	snap, ok := h.current(w, r)
	if !ok {
		return
	}
	response.JSON(w, r, http.StatusOK, h.advice.dashboard(snap))
}

// SelectCity handles PUT /v1/dashboard/city - switch city and refresh.
func (h *DashboardHandler) SelectCity(w http.ResponseWriter, r *http.Request) {
	var input models.SelectCityRequest
	r.Body = http.MaxBytesReader(w, r.Body, maxSelectCityBody)
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			response.BadRequest(w, r, "request body too large", nil)
			return
		}
		response.BadRequest(w, r, "invalid JSON body", nil)
		return
	}
	if input.City == "" {
		writeWeatherError(w, r, weather.ErrEmptyCity)
		return
	}

	h.run(w, r, worker.Trigger{Source: worker.SourceAPI, City: input.City})
}

// Refresh handles POST /v1/dashboard/refresh - refetch the current city.
func (h *DashboardHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	h.run(w, r, worker.Trigger{Source: worker.SourceAPI})
}

func (h *DashboardHandler) run(w http.ResponseWriter, r *http.Request, trigger worker.Trigger) {
	result := h.refresher.Run(r.Context(), trigger)
	if result.Err != nil {
		writeWeatherError(w, r, result.Err)
		return
	}
	response.JSON(w, r, http.StatusOK, h.advice.dashboard(result.Snapshot))
}

// GetClothing handles GET /v1/dashboard/clothing.
func (h *DashboardHandler) GetClothing(w http.ResponseWriter, r *http.Request) {
	snap, ok := h.current(w, r)
	if !ok {
		return
	}
	response.JSON(w, r, http.StatusOK, models.NewClothingAdvice(advisor.Clothing(snap)))
}

// GetHealth handles GET /v1/dashboard/health.
func (h *DashboardHandler) GetHealth(w http.ResponseWriter, r *http.Request) {
	snap, ok := h.current(w, r)
	if !ok {
		return
	}
	response.JSON(w, r, http.StatusOK, models.NewHealthAdvice(advisor.Health(snap)))
}

// GetFact handles GET /v1/dashboard/fact - a new fact on every call.
func (h *DashboardHandler) GetFact(w http.ResponseWriter, r *http.Request) {
	snap, ok := h.current(w, r)
	if !ok {
		return
	}
	response.JSON(w, r, http.StatusOK, models.Fact{Fact: h.advice.facts.Pick(snap)})
}

// GetSavings handles GET /v1/dashboard/savings.
func (h *DashboardHandler) GetSavings(w http.ResponseWriter, r *http.Request) {
	snap, ok := h.current(w, r)
	if !ok {
		return
	}
	response.JSON(w, r, http.StatusOK, h.advice.savings(snap))
}

// ListCities handles GET /v1/cities - preset cities for quick selection.
func (h *DashboardHandler) ListCities(w http.ResponseWriter, r *http.Request) {
	response.JSON(w, r, http.StatusOK, models.CityList{
		Current: h.dashboard.City(),
		Cities:  weather.PresetCities(),
	})
}
