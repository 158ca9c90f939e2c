package response_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/weatherpro/weatherpro/internal/api/middleware"
	"github.com/weatherpro/weatherpro/internal/api/models"
	"github.com/weatherpro/weatherpro/internal/api/response"
)

// serve runs fn behind the RequestID middleware and returns the recording.
func serve(path string, fn func(w http.ResponseWriter, r *http.Request)) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	middleware.RequestID(http.HandlerFunc(fn)).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, http.NoBody))
	return rec
}

func TestJSON(t *testing.T) {
	rec := serve("/v1/cities", func(w http.ResponseWriter, r *http.Request) {
		response.JSON(w, r, http.StatusOK, models.CityList{Current: "London", Cities: []string{"London", "Tokyo"}})
	})

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.NotEmpty(t, rec.Header().Get("X-Request-Id"))
	assert.JSONEq(t, `{"current":"London","cities":["London","Tokyo"]}`, rec.Body.String())
}

func TestJSON_WithoutRequestID(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/v1/cities", http.NoBody)
	rec := httptest.NewRecorder()

	response.JSON(rec, req, http.StatusAccepted, nil)

	assert.Equal(t, http.StatusAccepted, rec.Code)
	assert.Empty(t, rec.Header().Get("X-Request-Id"))
	assert.Empty(t, rec.Body.String())
}

func TestProblemWriters(t *testing.T) {
	tests := []struct {
		name        string
		write       func(w http.ResponseWriter, r *http.Request)
		status      int
		problemType string
		detail      string
	}{
		{
			name: "bad request",
			write: func(w http.ResponseWriter, r *http.Request) {
				response.BadRequest(w, r, "validation failed", []models.FieldError{{Field: "city", Message: "city is required"}})
			},
			status:      http.StatusBadRequest,
			problemType: models.ProblemTypeValidation,
			detail:      "validation failed",
		},
		{
			name:        "not found",
			write:       func(w http.ResponseWriter, r *http.Request) { response.NotFound(w, r, "city not found") },
			status:      http.StatusNotFound,
			problemType: models.ProblemTypeNotFound,
			detail:      "city not found",
		},
		{
			name:        "conflict",
			write:       func(w http.ResponseWriter, r *http.Request) { response.Conflict(w, r, "superseded") },
			status:      http.StatusConflict,
			problemType: models.ProblemTypeConflict,
			detail:      "superseded",
		},
		{
			name:        "internal error",
			write:       func(w http.ResponseWriter, r *http.Request) { response.InternalError(w, r, "boom") },
			status:      http.StatusInternalServerError,
			problemType: models.ProblemTypeInternal,
			detail:      "boom",
		},
		{
			name: "bad gateway",
			write: func(w http.ResponseWriter, r *http.Request) {
				response.BadGateway(w, r, "Error fetching weather data: connection refused")
			},
			status:      http.StatusBadGateway,
			problemType: models.ProblemTypeBadGateway,
			detail:      "Error fetching weather data: connection refused",
		},
		{
			name:        "service unavailable",
			write:       func(w http.ResponseWriter, r *http.Request) { response.ServiceUnavailable(w, r, "no weather loaded") },
			status:      http.StatusServiceUnavailable,
			problemType: models.ProblemTypeUnavailable,
			detail:      "no weather loaded",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := serve("/v1/dashboard", tt.write)

			assert.Equal(t, tt.status, rec.Code)
			assert.Equal(t, "application/problem+json", rec.Header().Get("Content-Type"))

			var problem models.Problem
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &problem))
			assert.Equal(t, tt.problemType, problem.Type)
			assert.Equal(t, tt.status, problem.Status)
			assert.Equal(t, tt.detail, problem.Detail)
			assert.Equal(t, "/v1/dashboard", problem.Instance)
			assert.Equal(t, rec.Header().Get("X-Request-Id"), problem.TraceID)
		})
	}
}

func TestBadRequest_IncludesFieldErrors(t *testing.T) {
	rec := serve("/v1/dashboard/city", func(w http.ResponseWriter, r *http.Request) {
		response.BadRequest(w, r, "validation failed", []models.FieldError{{Field: "city", Message: "city is required"}})
	})

	var problem models.Problem
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &problem))
	require.Len(t, problem.Errors, 1)
	assert.Equal(t, "city", problem.Errors[0].Field)
}
