package handler

import (
	"errors"
	"net/http"

	"github.com/weatherpro/weatherpro/internal/api/models"
	"github.com/weatherpro/weatherpro/internal/api/response"
	"github.com/weatherpro/weatherpro/internal/weather"
)

// writeWeatherError maps dashboard and provider errors to Problem responses.
// ErrCityNotFound is checked before ProviderError since the provider wraps it.
func writeWeatherError(w http.ResponseWriter, r *http.Request, err error) {
	var perr *weather.ProviderError
	switch {
	case errors.Is(err, weather.ErrEmptyCity):
		response.BadRequest(w, r, "city is required", []models.FieldError{
			{Field: "city", Message: "must not be empty", Code: "REQUIRED"},
		})
	case errors.Is(err, weather.ErrCityNotFound):
		response.NotFound(w, r, err.Error())
	case errors.Is(err, weather.ErrSuperseded):
		response.Conflict(w, r, err.Error())
	case errors.Is(err, weather.ErrNoSnapshot):
		response.ServiceUnavailable(w, r, "no weather data loaded yet")
	case errors.As(err, &perr):
		response.BadGateway(w, r, err.Error())
	default:
		response.InternalError(w, r, "an unexpected error occurred")
	}
}
