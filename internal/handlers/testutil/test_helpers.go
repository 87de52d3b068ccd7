package testutil

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/charlesng35/eventboard/internal/api"
	"github.com/charlesng35/eventboard/internal/app"
	iauth "github.com/charlesng35/eventboard/internal/auth"
	sharedtestutil "github.com/charlesng35/eventboard/internal/database/testutil"
	"github.com/charlesng35/eventboard/internal/middleware"
	"github.com/charlesng35/eventboard/internal/models"
	"github.com/charlesng35/eventboard/internal/services"
	"github.com/charlesng35/eventboard/pkg/response"
)

// Env encapsulates a fully-wired API instance backed by an in-memory database for handler tests.
type Env struct {
	T      *testing.T
	DB     *gorm.DB
	Router *gin.Engine
	JWT    *iauth.JWTService
	Suite  *services.NotificationSuite
}

// NewEnv provisions a fresh handler test environment with the given users registered.
// Stale-link cleanup runs synchronously so tests observe its effects immediately.
func NewEnv(t *testing.T, users ...models.User) *Env {
	t.Helper()

	gin.SetMode(gin.TestMode)

	db := sharedtestutil.MustOpenTestDB(t, sharedtestutil.WithUsers(users...))

	cfg := &app.Config{
		Auth: app.AuthConfig{
			JWT: app.JWTSettings{
				Secret: "test-suite-super-secret-key-32-bytes!!",
				Issuer: "test-suite",
				TTL:    time.Hour,
			},
		},
		Monitoring: app.MonitoringConfig{
			Prometheus: app.PrometheusConfig{Enabled: true, Endpoint: "/metrics"},
			Health:     app.HealthConfig{Enabled: true},
		},
	}

	jwtSvc, err := iauth.NewJWTService(cfg.Auth.JWTServiceConfig())
	require.NoError(t, err)

	suite, err := services.NewNotificationSuite(db, services.SuiteOptions{
		Reconciler: []services.ReconcilerOption{services.WithSynchronousCleanup()},
	})
	require.NoError(t, err)
	t.Cleanup(suite.Reconciler.Wait)

	router, err := api.NewRouter(db, jwtSvc, cfg, suite, middleware.NewMemoryRateStore())
	require.NoError(t, err)

	return &Env{
		T:      t,
		DB:     db,
		Router: router,
		JWT:    jwtSvc,
		Suite:  suite,
	}
}

// Users builds n directory users with ids 1..n.
func Users(n int) []models.User {
	users := make([]models.User, 0, n)
	for i := 1; i <= n; i++ {
		users = append(users, models.User{
			ID:          int64(i),
			Email:       "member" + strconv.Itoa(i) + "@example.com",
			DisplayName: "Member " + strconv.Itoa(i),
		})
	}
	return users
}

// Token issues an access token for the user id with the given role.
func (e *Env) Token(userID int64, role string) string {
	e.T.Helper()
	token, err := e.JWT.GenerateAccessToken(iauth.AccessTokenInput{
		UserID: strconv.FormatInt(userID, 10),
		Role:   role,
	})
	require.NoError(e.T, err)
	return token
}

// AdminToken issues an access token carrying the admin role.
func (e *Env) AdminToken(userID int64) string {
	return e.Token(userID, iauth.RoleAdmin)
}

// APIResponse represents the canonical API envelope returned by handlers.
type APIResponse struct {
	Success  bool                `json:"success"`
	Data     json.RawMessage     `json:"data"`
	Error    *response.ErrorInfo `json:"error"`
	Warnings []string            `json:"warnings"`
}

// DecodeResponse parses the standard API response object from a recorder.
func DecodeResponse(t *testing.T, w *httptest.ResponseRecorder) APIResponse {
	t.Helper()
	var resp APIResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp), w.Body.String())
	return resp
}

// DecodeInto unmarshals the data payload into the provided destination.
func DecodeInto[T any](t *testing.T, raw json.RawMessage, dest *T) {
	t.Helper()
	if dest == nil {
		t.Fatal("destination must not be nil")
	}
	require.NoError(t, json.Unmarshal(raw, dest))
}

// Request executes an HTTP request against the test router, applying JSON encoding and auth headers automatically.
func (e *Env) Request(method, path string, body any, token string) *httptest.ResponseRecorder {
	e.T.Helper()

	var buf *bytes.Buffer
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(e.T, err)
		buf = bytes.NewBuffer(data)
	} else {
		buf = bytes.NewBuffer(nil)
	}

	req, err := http.NewRequest(method, path, buf)
	require.NoError(e.T, err)

	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	e.Router.ServeHTTP(w, req)
	return w
}
