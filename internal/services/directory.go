package services

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/charlesng35/eventboard/internal/models"
)

// ErrUnknownResourceType is returned by a ResourceChecker asked about a resource type it does not own.
var ErrUnknownResourceType = errors.New("resource checker: unknown resource type")

// RecipientDirectory enumerates everyone a broadcast must reach.
type RecipientDirectory interface {
	ListRecipientIDs(ctx context.Context) ([]int64, error)
}

// ResourceChecker reports which of the referenced resources still exist.
type ResourceChecker interface {
	ExistingIDs(ctx context.Context, resourceType string, ids []int64) (map[int64]struct{}, error)
}

// UserDirectory lists registered users as broadcast recipients.
type UserDirectory struct {
	db *gorm.DB
}

// NewUserDirectory constructs a UserDirectory.
func NewUserDirectory(db *gorm.DB) (*UserDirectory, error) {
	if db == nil {
		return nil, errors.New("user directory: db is required")
	}
	return &UserDirectory{db: db}, nil
}

// ListRecipientIDs snapshots the ids of all registered users.
func (d *UserDirectory) ListRecipientIDs(ctx context.Context) ([]int64, error) {
	var ids []int64
	if err := d.db.WithContext(ensureContext(ctx)).
		Model(&models.User{}).
		Order("id ASC").
		Pluck("id", &ids).Error; err != nil {
		return nil, fmt.Errorf("user directory: list users: %w", err)
	}
	return ids, nil
}

// DefaultLookupChunkSize bounds the ids bound into a single existence query.
const DefaultLookupChunkSize = 500

// EventResourceChecker answers existence checks for the events resource type.
type EventResourceChecker struct {
	db        *gorm.DB
	chunkSize int
}

// NewEventResourceChecker constructs an EventResourceChecker.
func NewEventResourceChecker(db *gorm.DB) (*EventResourceChecker, error) {
	if db == nil {
		return nil, errors.New("event checker: db is required")
	}
	return &EventResourceChecker{db: db, chunkSize: DefaultLookupChunkSize}, nil
}

// ExistingIDs returns the subset of ids that still exist. Up to DefaultLookupChunkSize ids are
// answered by a single query.
func (c *EventResourceChecker) ExistingIDs(ctx context.Context, resourceType string, ids []int64) (map[int64]struct{}, error) {
	if resourceType != models.EventResourceType {
		return nil, fmt.Errorf("%w: %q", ErrUnknownResourceType, resourceType)
	}

	ids = distinctPositive(ids)
	existing := make(map[int64]struct{}, len(ids))
	if len(ids) == 0 {
		return existing, nil
	}

	db := c.db.WithContext(ensureContext(ctx))
	for _, batch := range chunks(ids, c.chunkSize) {
		var found []int64
		if err := db.Model(&models.Event{}).
			Where("event_id IN ?", batch).
			Pluck("event_id", &found).Error; err != nil {
			return nil, fmt.Errorf("event checker: lookup events: %w", err)
		}
		for _, id := range found {
			existing[id] = struct{}{}
		}
	}
	return existing, nil
}
