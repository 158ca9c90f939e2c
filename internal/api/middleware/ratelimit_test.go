package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/weatherpro/weatherpro/internal/api/middleware"
)

func limited(cfg middleware.RateLimitConfig) http.Handler {
	return middleware.RequestID(
		middleware.RateLimitByIP(cfg)(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusOK)
		})),
	)
}

func hit(h http.Handler, ip, path string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, http.NoBody)
	req.RemoteAddr = ip
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestRateLimitByIP_AllowsWithinLimit(t *testing.T) {
	h := limited(middleware.RateLimitConfig{RequestLimit: 5, WindowLength: time.Minute})

	for i := 0; i < 5; i++ {
		rec := hit(h, "192.168.1.1:12345", "/v1/dashboard")
		assert.Equal(t, http.StatusOK, rec.Code, "request %d should be allowed", i+1)
	}
}

func TestRateLimitByIP_BlocksOverLimit(t *testing.T) {
	h := limited(middleware.RateLimitConfig{RequestLimit: 3, WindowLength: time.Minute})

	for i := 0; i < 3; i++ {
		assert.Equal(t, http.StatusOK, hit(h, "10.0.0.1:12345", "/v1/weather").Code)
	}

	rec := hit(h, "10.0.0.1:12345", "/v1/weather")

	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Equal(t, "application/problem+json", rec.Header().Get("Content-Type"))
	assert.Equal(t, "60", rec.Header().Get("Retry-After"))

	body := rec.Body.String()
	assert.Contains(t, body, "too-many-requests")
	assert.Contains(t, body, "Rate limit exceeded")
	assert.Contains(t, body, `"instance":"/v1/weather"`)
	assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))
}

func TestRateLimitByIP_SeparateLimitsPerIP(t *testing.T) {
	h := limited(middleware.RateLimitConfig{RequestLimit: 2, WindowLength: time.Minute})

	hit(h, "172.16.0.1:12345", "/v1/cities")
	hit(h, "172.16.0.1:12345", "/v1/cities")

	assert.Equal(t, http.StatusTooManyRequests, hit(h, "172.16.0.1:12345", "/v1/cities").Code)
	assert.Equal(t, http.StatusOK, hit(h, "172.16.0.2:12345", "/v1/cities").Code)
}

func TestRateLimitByIP_RetryAfterFollowsWindow(t *testing.T) {
	h := limited(middleware.RateLimitConfig{RequestLimit: 1, WindowLength: 1500 * time.Millisecond})

	hit(h, "203.0.113.1:12345", "/v1/dashboard/refresh")
	rec := hit(h, "203.0.113.1:12345", "/v1/dashboard/refresh")

	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Equal(t, "2", rec.Header().Get("Retry-After"))
}

func TestDefaultRateLimitConfigs(t *testing.T) {
	assert.Equal(t, 30, middleware.ExpensiveRateLimit.RequestLimit)
	assert.Equal(t, time.Minute, middleware.ExpensiveRateLimit.WindowLength)

	assert.Equal(t, 100, middleware.StandardRateLimit.RequestLimit)
	assert.Equal(t, time.Minute, middleware.StandardRateLimit.WindowLength)
}
