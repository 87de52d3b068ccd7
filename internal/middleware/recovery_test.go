package middleware

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/charlesng35/eventboard/pkg/logger"
	"github.com/charlesng35/eventboard/pkg/response"
)

func TestRecoveryLogsCallerAndRendersError(t *testing.T) {
	gin.SetMode(gin.TestMode)
	core, logs := observer.New(zapcore.ErrorLevel)
	t.Cleanup(logger.Replace(zap.New(core)))

	jwtSvc := newTestJWT(t)
	r := gin.New()
	r.Use(Recovery())
	r.PATCH("/api/notifications/:id/read", Auth(jwtSvc), func(c *gin.Context) {
		panic("boom")
	})

	w := serve(r, http.MethodPatch, "/api/notifications/abc/read", issueToken(t, jwtSvc, "9", "user"))

	require.Equal(t, http.StatusInternalServerError, w.Code)
	var payload response.Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &payload))
	require.False(t, payload.Success)
	require.Equal(t, "INTERNAL_SERVER_ERROR", payload.Error.Code)

	entries := logs.FilterMessage("panic recovered").All()
	require.Len(t, entries, 1)
	fields := entries[0].ContextMap()
	require.Equal(t, "/api/notifications/:id/read", fields["route"])
	require.EqualValues(t, 9, fields["recipient_id"])
	require.Equal(t, "boom", fields["error"])
}

func TestRecoveryKeepsWrittenResponse(t *testing.T) {
	gin.SetMode(gin.TestMode)
	t.Cleanup(logger.Replace(zap.NewNop()))

	r := gin.New()
	r.Use(Recovery())
	r.GET("/partial", func(c *gin.Context) {
		c.String(http.StatusAccepted, "started")
		panic("late")
	})

	w := serve(r, http.MethodGet, "/partial", "")
	require.Equal(t, http.StatusAccepted, w.Code)
	require.Equal(t, "started", w.Body.String())
}

func TestNotFoundHandler(t *testing.T) {
	gin.SetMode(gin.TestMode)

	r := gin.New()
	r.NoRoute(NotFoundHandler)

	w := serve(r, http.MethodGet, "/missing", "")

	require.Equal(t, http.StatusNotFound, w.Code)
	var payload response.Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &payload))
	require.False(t, payload.Success)
	require.Equal(t, "NOT_FOUND", payload.Error.Code)
	require.Contains(t, payload.Error.Message, "route /missing not found")
}
