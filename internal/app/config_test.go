package app

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/charlesng35/eventboard/internal/auth"
)

func TestLoadConfigFromFile(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join("testdata"))
	require.NoError(t, err)

	require.Equal(t, 9090, cfg.Server.Port)
	require.Equal(t, "debug", cfg.Server.LogLevel)
	require.Equal(t, "https://events.example.com", cfg.Server.FrontendURL)
	require.Equal(t, 50, cfg.Server.RateLimit.Requests)
	require.Equal(t, 30*time.Second, cfg.Server.RateLimit.Window)

	require.Equal(t, "postgres", cfg.Database.Driver)
	require.True(t, cfg.Database.Postgres.Enabled)
	require.Equal(t, "db.example.com", cfg.Database.Postgres.Host)
	require.Equal(t, 6432, cfg.Database.Postgres.Port)
	require.Equal(t, "eventboard", cfg.Database.Postgres.Database)
	require.Equal(t, "require", cfg.Database.Postgres.Options["sslmode"])

	require.Equal(t, "jwt-secret", cfg.Auth.JWT.Secret)
	require.Equal(t, "eventboard-test", cfg.Auth.JWT.Issuer)
	require.Equal(t, 30*time.Minute, cfg.Auth.JWT.TTL)

	require.Equal(t, 250, cfg.Notifications.FanoutBatchSize)
	require.Equal(t, 5*time.Second, cfg.Notifications.CleanupTimeout)
	require.Equal(t, "@every 30m", cfg.Notifications.SweepSchedule)
	require.Equal(t, "@daily", cfg.Notifications.OrphanSchedule)
	require.Equal(t, 48*time.Hour, cfg.Notifications.OrphanRetention)

	require.False(t, cfg.Monitoring.Prometheus.Enabled)
	require.Equal(t, "/internal/metrics", cfg.Monitoring.Prometheus.Endpoint)
	require.True(t, cfg.Monitoring.Health.Enabled)
}

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := LoadConfig(t.TempDir())
	require.NoError(t, err)

	require.Equal(t, 8000, cfg.Server.Port)
	require.Equal(t, "info", cfg.Server.LogLevel)
	require.Equal(t, "sqlite", cfg.Database.Driver)
	require.Equal(t, "./data/eventboard.sqlite", cfg.Database.Path)
	require.Equal(t, 15*time.Minute, cfg.Auth.JWT.TTL)
	require.Equal(t, 500, cfg.Notifications.FanoutBatchSize)
	require.Equal(t, 10*time.Second, cfg.Notifications.CleanupTimeout)
	require.Equal(t, "@hourly", cfg.Notifications.SweepSchedule)
	require.Equal(t, 24*time.Hour, cfg.Notifications.OrphanRetention)
	require.True(t, cfg.Monitoring.Prometheus.Enabled)
	require.Equal(t, "/metrics", cfg.Monitoring.Prometheus.Endpoint)
}

func TestLoadConfigEnvironmentOverrides(t *testing.T) {
	t.Setenv("EVENTBOARD_SERVER_PORT", "7070")
	t.Setenv("EVENTBOARD_NOTIFICATIONS_FANOUT_BATCH_SIZE", "64")
	t.Setenv("EVENTBOARD_AUTH_JWT_SECRET", "from-env")

	cfg, err := LoadConfig(t.TempDir())
	require.NoError(t, err)

	require.Equal(t, 7070, cfg.Server.Port)
	require.Equal(t, 64, cfg.Notifications.FanoutBatchSize)
	require.Equal(t, "from-env", cfg.Auth.JWT.Secret)
}

func TestAuthConfigAdapter(t *testing.T) {
	cfg := AuthConfig{JWT: JWTSettings{Secret: "secret", Issuer: "issuer", TTL: 30 * time.Minute}}

	require.Equal(t, auth.JWTConfig{
		Secret:         "secret",
		Issuer:         "issuer",
		AccessTokenTTL: 30 * time.Minute,
	}, cfg.JWTServiceConfig())
}

func TestAuthConfigAdapterFallback(t *testing.T) {
	var cfg AuthConfig
	require.Equal(t, auth.DefaultAccessTokenTTL, cfg.JWTServiceConfig().AccessTokenTTL)
}

func TestNotificationsConfigAdapters(t *testing.T) {
	cfg := NotificationsConfig{
		FanoutBatchSize: 10,
		CleanupTimeout:  time.Second,
		SweepSchedule:   "@every 1m",
		OrphanRetention: time.Hour,
	}

	require.Len(t, cfg.StoreOptions(), 1)
	require.Len(t, cfg.ReconcilerOptions(), 1)
	require.Len(t, cfg.MaintenanceOptions(), 3)
	require.Len(t, NotificationsConfig{}.MaintenanceOptions(), 2)
}
