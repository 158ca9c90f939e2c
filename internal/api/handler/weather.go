package handler

import (
	"context"
	"net/http"

	"github.com/weatherpro/weatherpro/internal/advisor"
	"github.com/weatherpro/weatherpro/internal/api/response"
	"github.com/weatherpro/weatherpro/internal/savings"
	"github.com/weatherpro/weatherpro/internal/weather"
)

// WeatherLookup fetches a city without changing the dashboard.
type WeatherLookup interface {
	Lookup(ctx context.Context, city string) (weather.Snapshot, error)
}

// WeatherHandler handles one-off weather lookups.
type WeatherHandler struct {
	lookup WeatherLookup
	advice advice
}

// NewWeatherHandler creates a new WeatherHandler.
func NewWeatherHandler(lookup WeatherLookup, facts *advisor.FactPicker, savingsFacts *savings.FactPicker) *WeatherHandler {
	return &WeatherHandler{
		lookup: lookup,
		advice: newAdvice(facts, savingsFacts),
	}
}

// GetWeather handles GET /v1/weather?city= - conditions and advice for any city.
func (h *WeatherHandler) GetWeather(w http.ResponseWriter, r *http.Request) {
	snap, err := h.lookup.Lookup(r.Context(), r.URL.Query().Get("city"))
	if err != nil {
		writeWeatherError(w, r, err)
		return
	}
	response.JSON(w, r, http.StatusOK, h.advice.dashboard(snap))
}
