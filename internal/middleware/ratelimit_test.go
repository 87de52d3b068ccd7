package middleware

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
)

func TestRateLimitMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)

	current := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	store := newMemoryRateStore(func() time.Time { return current })

	r := gin.New()
	r.Use(RateLimit(store, 2, time.Minute))
	r.GET("/ping", func(c *gin.Context) { c.String(http.StatusOK, "pong") })

	for i := 0; i < 2; i++ {
		w := serve(r, http.MethodGet, "/ping", "")
		require.Equal(t, http.StatusOK, w.Code)
	}

	w := serve(r, http.MethodGet, "/ping", "")
	require.Equal(t, http.StatusTooManyRequests, w.Code)
	require.Equal(t, "0", w.Header().Get("X-RateLimit-Remaining"))
	require.NotEmpty(t, w.Header().Get("Retry-After"))

	current = current.Add(time.Minute + time.Second)

	w = serve(r, http.MethodGet, "/ping", "")
	require.Equal(t, http.StatusOK, w.Code)
	require.Len(t, store.data, 1)
}

func TestRateLimitDisabled(t *testing.T) {
	gin.SetMode(gin.TestMode)

	r := gin.New()
	r.Use(RateLimit(nil, 0, time.Minute))
	r.GET("/ping", func(c *gin.Context) { c.String(http.StatusOK, "pong") })

	for i := 0; i < 5; i++ {
		require.Equal(t, http.StatusOK, serve(r, http.MethodGet, "/ping", "").Code)
	}
}

type brokenRateStore struct{}

func (brokenRateStore) Increment(context.Context, string, time.Duration) (int, time.Duration, error) {
	return 0, 0, errors.New("counter unavailable")
}

func TestRateLimitFailsOpen(t *testing.T) {
	gin.SetMode(gin.TestMode)

	r := gin.New()
	r.Use(RateLimit(brokenRateStore{}, 1, time.Minute))
	r.GET("/ping", func(c *gin.Context) { c.String(http.StatusOK, "pong") })

	for i := 0; i < 3; i++ {
		require.Equal(t, http.StatusOK, serve(r, http.MethodGet, "/ping", "").Code)
	}
}
