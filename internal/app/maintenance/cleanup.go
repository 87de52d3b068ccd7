package maintenance

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/charlesng35/eventboard/internal/services"
	"github.com/charlesng35/eventboard/pkg/logger"
	"github.com/charlesng35/eventboard/pkg/metrics"
)

const (
	defaultOrphanRetention = 24 * time.Hour
	defaultSweepSpec       = "@hourly"
	defaultOrphanSpec      = "@daily"
)

// Cleaner coordinates background maintenance of the notification ledger: sweeping notifications
// whose linked resource was deleted, and pruning notifications no recipient holds.
type Cleaner struct {
	store      *services.NotificationStore
	reconciler *services.LinkReconciler
	cron       *cron.Cron
	now        func() time.Time
	log        *zap.Logger
	enabled    bool
	retention  time.Duration

	sweepSchedule  string
	orphanSchedule string
}

// Option customises the Cleaner.
type Option func(*Cleaner)

// WithCron injects a preconfigured cron instance, primarily for testing.
func WithCron(c *cron.Cron) Option {
	return func(cleaner *Cleaner) {
		if c != nil {
			cleaner.cron = c
		}
	}
}

// WithNow overrides the clock used for scheduling and cleanup comparisons.
func WithNow(now func() time.Time) Option {
	return func(cleaner *Cleaner) {
		if now != nil {
			cleaner.now = now
		}
	}
}

// WithOrphanRetention adjusts how long an undelivered notification is kept before pruning.
func WithOrphanRetention(retention time.Duration) Option {
	return func(cleaner *Cleaner) {
		if retention > 0 {
			cleaner.retention = retention
		}
	}
}

// WithSweepSchedule overrides the cron expression for the stale link sweep.
func WithSweepSchedule(expr string) Option {
	return func(cleaner *Cleaner) {
		if expr != "" {
			cleaner.sweepSchedule = expr
		}
	}
}

// WithOrphanSchedule overrides the cron expression for orphan pruning.
func WithOrphanSchedule(expr string) Option {
	return func(cleaner *Cleaner) {
		if expr != "" {
			cleaner.orphanSchedule = expr
		}
	}
}

// NewCleaner constructs a Cleaner with sensible defaults. Any nil dependency results in
// the corresponding job being skipped.
func NewCleaner(store *services.NotificationStore, reconciler *services.LinkReconciler, opts ...Option) *Cleaner {
	cleaner := &Cleaner{
		store:          store,
		reconciler:     reconciler,
		now:            time.Now,
		retention:      defaultOrphanRetention,
		sweepSchedule:  defaultSweepSpec,
		orphanSchedule: defaultOrphanSpec,
		log:            logger.WithModule("maintenance"),
	}

	for _, opt := range opts {
		opt(cleaner)
	}

	if cleaner.cron == nil {
		cleaner.cron = cron.New(cron.WithLogger(cron.DiscardLogger))
	}

	cleaner.enabled = cleaner.store != nil || cleaner.reconciler != nil

	return cleaner
}

// Start registers the jobs with the cron scheduler and launches it if at least one job is enabled.
func (c *Cleaner) Start() error {
	if !c.enabled {
		return nil
	}

	if c.reconciler != nil {
		if _, err := c.cron.AddFunc(c.sweepSchedule, func() {
			if _, err := c.sweep(context.Background()); err != nil {
				c.log.Warn("stale link sweep failed", zap.Error(err))
			}
		}); err != nil {
			return fmt.Errorf("schedule stale link sweep: %w", err)
		}
	}

	if c.store != nil {
		if _, err := c.cron.AddFunc(c.orphanSchedule, func() {
			if _, err := PruneOrphans(context.Background(), c.store, c.now(), c.retention); err != nil {
				c.log.Warn("orphan notification pruning failed", zap.Error(err))
			}
		}); err != nil {
			return fmt.Errorf("schedule orphan pruning: %w", err)
		}
	}

	c.cron.Start()
	return nil
}

// Stop halts the underlying scheduler, waiting for any running jobs to complete.
func (c *Cleaner) Stop() context.Context {
	if c.cron == nil {
		return context.Background()
	}
	return c.cron.Stop()
}

// RunOnce executes every enabled job sequentially and aggregates their failures.
func (c *Cleaner) RunOnce(ctx context.Context) error {
	if ctx == nil {
		ctx = context.Background()
	}

	var errs error

	if c.reconciler != nil {
		if _, err := c.sweep(ctx); err != nil {
			errs = multierr.Append(errs, err)
		}
	}

	if c.store != nil {
		if _, err := PruneOrphans(ctx, c.store, c.now(), c.retention); err != nil {
			errs = multierr.Append(errs, err)
		}
	}

	return errs
}

func (c *Cleaner) sweep(ctx context.Context) (int64, error) {
	removed, err := c.reconciler.Sweep(ctx)
	if err != nil {
		return 0, fmt.Errorf("stale link sweep: %w", err)
	}
	metrics.MaintenanceRemoved.WithLabelValues("stale_links").Add(float64(removed))
	return removed, nil
}

// PruneOrphans removes notifications older than the retention window that have no ledger rows.
// They are left behind by broadcasts whose fan-out failed or reached nobody.
func PruneOrphans(ctx context.Context, store *services.NotificationStore, now time.Time, retention time.Duration) (int64, error) {
	if store == nil {
		return 0, errors.New("prune orphans: store is required")
	}
	if ctx == nil {
		ctx = context.Background()
	}

	removed, err := store.DeleteOrphanNotifications(ctx, now.Add(-retention))
	if err != nil {
		return 0, fmt.Errorf("prune orphans: %w", err)
	}
	metrics.MaintenanceRemoved.WithLabelValues("orphans").Add(float64(removed))
	return removed, nil
}
