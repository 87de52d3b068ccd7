package services

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/charlesng35/eventboard/pkg/logger"
	"github.com/charlesng35/eventboard/pkg/metrics"
)

// DefaultCleanupTimeout bounds a single background cleanup run.
const DefaultCleanupTimeout = 10 * time.Second

// Reconciliation triggers, used as metric labels.
const (
	TriggerFeed        = "feed"
	TriggerEventDelete = "event_delete"
	TriggerSweep       = "sweep"
)

// ReconcilerOption customises a LinkReconciler.
type ReconcilerOption func(*LinkReconciler)

// WithCleanupTimeout overrides the deadline applied to each background cleanup.
func WithCleanupTimeout(timeout time.Duration) ReconcilerOption {
	return func(r *LinkReconciler) {
		if timeout > 0 {
			r.timeout = timeout
		}
	}
}

// WithSynchronousCleanup makes Schedule delete stale notifications before returning.
func WithSynchronousCleanup() ReconcilerOption {
	return func(r *LinkReconciler) {
		r.async = false
	}
}

// LinkReconciler detects notifications whose deep links point at deleted resources and removes them,
// together with every recipient's ledger row. All deletes are keyed by link and safe to repeat.
type LinkReconciler struct {
	store   *NotificationStore
	checker ResourceChecker
	timeout time.Duration
	async   bool
	log     *zap.Logger

	wg sync.WaitGroup
}

// NewLinkReconciler constructs a LinkReconciler. Cleanup runs in the background unless
// WithSynchronousCleanup is supplied.
func NewLinkReconciler(store *NotificationStore, checker ResourceChecker, opts ...ReconcilerOption) (*LinkReconciler, error) {
	if store == nil {
		return nil, errors.New("link reconciler: store is required")
	}
	if checker == nil {
		return nil, errors.New("link reconciler: resource checker is required")
	}

	r := &LinkReconciler{
		store:   store,
		checker: checker,
		timeout: DefaultCleanupTimeout,
		async:   true,
		log:     logger.WithModule("notifications"),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r, nil
}

// StaleLinks returns the subset of links whose referenced resource no longer exists. Ids are checked
// with one lookup per resource type; links that are not resource links are never stale, and neither
// are links to resource types no checker owns.
func (r *LinkReconciler) StaleLinks(ctx context.Context, links []string) (map[string]struct{}, error) {
	ctx = ensureContext(ctx)
	stale := make(map[string]struct{})

	refs := make(map[string]ResourceRef)
	idsByType := make(map[string][]int64)
	for _, link := range links {
		if _, seen := refs[link]; seen {
			continue
		}
		ref, ok := ParseResourceLink(link)
		if !ok {
			continue
		}
		refs[link] = ref
		idsByType[ref.Type] = append(idsByType[ref.Type], ref.ID)
	}
	if len(refs) == 0 {
		return stale, nil
	}

	existingByType := make(map[string]map[int64]struct{}, len(idsByType))
	for resourceType, ids := range idsByType {
		existing, err := r.checker.ExistingIDs(ctx, resourceType, ids)
		if errors.Is(err, ErrUnknownResourceType) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("link reconciler: check %s: %w", resourceType, err)
		}
		existingByType[resourceType] = existing
	}

	for link, ref := range refs {
		existing, checked := existingByType[ref.Type]
		if !checked {
			continue
		}
		if _, ok := existing[ref.ID]; !ok {
			stale[link] = struct{}{}
		}
	}
	return stale, nil
}

// Purge deletes the notifications carrying the links and all of their ledger rows.
func (r *LinkReconciler) Purge(ctx context.Context, links []string, trigger string) (int64, error) {
	removed, err := r.store.DeleteByLinks(ctx, links)
	if err != nil {
		return 0, fmt.Errorf("link reconciler: %w", err)
	}
	if removed > 0 {
		metrics.StaleLinksReconciled.WithLabelValues(trigger).Add(float64(removed))
		r.log.Info("stale notifications removed",
			zap.String("trigger", trigger),
			zap.Strings("links", links),
			zap.Int64("notifications", removed),
		)
	}
	return removed, nil
}

// Schedule hands stale links to cleanup without blocking the caller. The cleanup runs under its own
// timeout, detached from the caller's cancellation; failures are logged and the links are retried on
// the next read or sweep.
func (r *LinkReconciler) Schedule(ctx context.Context, links []string, trigger string) {
	if len(links) == 0 {
		return
	}
	links = append([]string(nil), links...)
	ctx = context.WithoutCancel(ensureContext(ctx))

	run := func() {
		cleanupCtx, cancel := context.WithTimeout(ctx, r.timeout)
		defer cancel()
		if _, err := r.Purge(cleanupCtx, links, trigger); err != nil {
			r.log.Warn("stale notification cleanup failed",
				zap.String("trigger", trigger),
				zap.Strings("links", links),
				zap.Error(err),
			)
		}
	}

	if !r.async {
		run()
		return
	}

	r.wg.Add(1)
	go func() {
		defer r.wg.Done()
		run()
	}()
}

// Wait blocks until every scheduled cleanup has finished.
func (r *LinkReconciler) Wait() {
	r.wg.Wait()
}

// Sweep reconciles every linked notification in the store.
func (r *LinkReconciler) Sweep(ctx context.Context) (int64, error) {
	ctx = ensureContext(ctx)

	links, err := r.store.DistinctLinks(ctx)
	if err != nil {
		return 0, fmt.Errorf("link reconciler: %w", err)
	}

	stale, err := r.StaleLinks(ctx, links)
	if err != nil {
		return 0, err
	}
	if len(stale) == 0 {
		return 0, nil
	}
	return r.Purge(ctx, sortedKeys(stale), TriggerSweep)
}

func sortedKeys(set map[string]struct{}) []string {
	keys := make([]string, 0, len(set))
	for key := range set {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}
