//go:build unit

package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"storefront-backend/internal/handler/middleware"
	"storefront-backend/internal/pkg/clock"
)

func newLimitedRouter(limiter *middleware.RateLimiter) *gin.Engine {
	gin.SetMode(gin.TestMode)
	engine := gin.New()
	engine.POST("/checkout", middleware.RateLimit(limiter), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})
	return engine
}

func doRequest(engine *gin.Engine, ip string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/checkout", nil)
	req.RemoteAddr = ip + ":1234"
	engine.ServeHTTP(w, req)
	return w
}

func TestRateLimiter(t *testing.T) {
	base := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)

	t.Run("allows up to the limit then rejects", func(t *testing.T) {
		clk := clock.NewMockClock(base)
		engine := newLimitedRouter(middleware.NewRateLimiter(3, time.Minute, clk))

		for i := 0; i < 3; i++ {
			assert.Equal(t, http.StatusOK, doRequest(engine, "10.0.0.1").Code)
		}
		assert.Equal(t, http.StatusTooManyRequests, doRequest(engine, "10.0.0.1").Code)
	})

	t.Run("window elapse refills the bucket", func(t *testing.T) {
		clk := clock.NewMockClock(base)
		engine := newLimitedRouter(middleware.NewRateLimiter(1, time.Minute, clk))

		assert.Equal(t, http.StatusOK, doRequest(engine, "10.0.0.1").Code)
		assert.Equal(t, http.StatusTooManyRequests, doRequest(engine, "10.0.0.1").Code)

		clk.Add(time.Minute)
		assert.Equal(t, http.StatusOK, doRequest(engine, "10.0.0.1").Code)
	})

	t.Run("clients are limited independently", func(t *testing.T) {
		clk := clock.NewMockClock(base)
		engine := newLimitedRouter(middleware.NewRateLimiter(1, time.Minute, clk))

		assert.Equal(t, http.StatusOK, doRequest(engine, "10.0.0.1").Code)
		assert.Equal(t, http.StatusTooManyRequests, doRequest(engine, "10.0.0.1").Code)
		assert.Equal(t, http.StatusOK, doRequest(engine, "10.0.0.2").Code)
	})

	t.Run("advertises remaining budget", func(t *testing.T) {
		clk := clock.NewMockClock(base)
		engine := newLimitedRouter(middleware.NewRateLimiter(5, time.Minute, clk))

		w := doRequest(engine, "10.0.0.1")
		assert.Equal(t, "5", w.Header().Get("X-RateLimit-Limit"))
		assert.Equal(t, "4", w.Header().Get("X-RateLimit-Remaining"))
	})

	t.Run("allow reports directly", func(t *testing.T) {
		clk := clock.NewMockClock(base)
		limiter := middleware.NewRateLimiter(2, time.Minute, clk)

		assert.True(t, limiter.Allow("k"))
		assert.True(t, limiter.Allow("k"))
		assert.False(t, limiter.Allow("k"))

		// Idle buckets are evicted after two windows, forgetting the history.
		clk.Add(3 * time.Minute)
		assert.True(t, limiter.Allow("k"))
	})
}
