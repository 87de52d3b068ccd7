package app

import (
	"strings"

	"github.com/charlesng35/eventboard/internal/app/maintenance"
	"github.com/charlesng35/eventboard/internal/auth"
	"github.com/charlesng35/eventboard/internal/services"
)

// JWTServiceConfig converts AuthConfig into token validation parameters.
func (c AuthConfig) JWTServiceConfig() auth.JWTConfig {
	cfg := auth.JWTConfig{
		Secret:         c.JWT.Secret,
		Issuer:         strings.TrimSpace(c.JWT.Issuer),
		AccessTokenTTL: c.JWT.TTL,
	}
	if cfg.AccessTokenTTL <= 0 {
		cfg.AccessTokenTTL = auth.DefaultAccessTokenTTL
	}
	return cfg
}

// StoreOptions converts the fan-out settings into NotificationStore options.
func (c NotificationsConfig) StoreOptions() []services.StoreOption {
	return []services.StoreOption{services.WithFanoutBatchSize(c.FanoutBatchSize)}
}

// ReconcilerOptions converts the cleanup settings into LinkReconciler options.
func (c NotificationsConfig) ReconcilerOptions() []services.ReconcilerOption {
	return []services.ReconcilerOption{services.WithCleanupTimeout(c.CleanupTimeout)}
}

// MaintenanceOptions converts the schedule settings into maintenance Cleaner options.
func (c NotificationsConfig) MaintenanceOptions() []maintenance.Option {
	opts := []maintenance.Option{
		maintenance.WithSweepSchedule(strings.TrimSpace(c.SweepSchedule)),
		maintenance.WithOrphanSchedule(strings.TrimSpace(c.OrphanSchedule)),
	}
	if c.OrphanRetention > 0 {
		opts = append(opts, maintenance.WithOrphanRetention(c.OrphanRetention))
	}
	return opts
}
