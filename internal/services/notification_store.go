package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/charlesng35/eventboard/internal/models"
)

// DefaultFanoutBatchSize bounds the rows sent per INSERT statement during fan-out.
const DefaultFanoutBatchSize = 500

// FeedRow is one recipient entry joined with the notification it delivers.
type FeedRow struct {
	EntryID        string
	NotificationID string
	Title          string
	Message        string
	Link           *string
	CreatedAt      time.Time
	IsRead         bool
	SeenAt         *time.Time
}

// StoreOption customises a NotificationStore.
type StoreOption func(*NotificationStore)

// WithFanoutBatchSize overrides the number of ledger rows inserted per statement.
func WithFanoutBatchSize(size int) StoreOption {
	return func(s *NotificationStore) {
		if size > 0 {
			s.batchSize = size
		}
	}
}

// NotificationStore persists notifications and the per-recipient ledger. It carries no business rules.
type NotificationStore struct {
	db        *gorm.DB
	batchSize int
}

// NewNotificationStore constructs a NotificationStore.
func NewNotificationStore(db *gorm.DB, opts ...StoreOption) (*NotificationStore, error) {
	if db == nil {
		return nil, errors.New("notification store: db is required")
	}

	store := &NotificationStore{db: db, batchSize: DefaultFanoutBatchSize}
	for _, opt := range opts {
		opt(store)
	}
	return store, nil
}

// InsertNotification writes the shared notification content.
func (s *NotificationStore) InsertNotification(ctx context.Context, notification *models.Notification) error {
	if notification == nil {
		return errors.New("notification store: notification is required")
	}
	if err := s.db.WithContext(ensureContext(ctx)).Create(notification).Error; err != nil {
		return fmt.Errorf("notification store: insert notification: %w", err)
	}
	return nil
}

// InsertEntries writes all ledger rows in one transaction; either every row is stored or none is.
func (s *NotificationStore) InsertEntries(ctx context.Context, entries []models.RecipientEntry) error {
	if len(entries) == 0 {
		return nil
	}

	err := s.db.WithContext(ensureContext(ctx)).Transaction(func(tx *gorm.DB) error {
		return tx.CreateInBatches(entries, s.batchSize).Error
	})
	if err != nil {
		return fmt.Errorf("notification store: insert entries: %w", err)
	}
	return nil
}

// ListEntriesForRecipient returns the recipient's ledger joined with notification content, newest first.
func (s *NotificationStore) ListEntriesForRecipient(ctx context.Context, recipientID int64) ([]FeedRow, error) {
	var rows []FeedRow
	err := s.db.WithContext(ensureContext(ctx)).
		Table("user_notifications AS un").
		Select("un.id AS entry_id, n.id AS notification_id, n.title, n.message, n.link, n.created_at, un.is_read, un.seen_at").
		Joins("JOIN notifications AS n ON n.id = un.notification_id").
		Where("un.recipient_id = ?", recipientID).
		Order("n.created_at DESC").
		Order("un.id ASC").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("notification store: list entries: %w", err)
	}
	return rows, nil
}

// DeleteByLinks removes every notification carrying one of the links along with all of its ledger rows.
// Links are deleted batchSize at a time inside one transaction. It returns the number of
// notifications removed; removing nothing is not an error.
func (s *NotificationStore) DeleteByLinks(ctx context.Context, links []string) (int64, error) {
	links = distinctKeys(links)
	if len(links) == 0 {
		return 0, nil
	}

	var removed int64
	err := s.db.WithContext(ensureContext(ctx)).Transaction(func(tx *gorm.DB) error {
		for _, batch := range chunks(links, s.batchSize) {
			linked := tx.Model(&models.Notification{}).Select("id").Where("link IN ?", batch)
			if err := tx.Where("notification_id IN (?)", linked).Delete(&models.RecipientEntry{}).Error; err != nil {
				return err
			}

			result := tx.Where("link IN ?", batch).Delete(&models.Notification{})
			if result.Error != nil {
				return result.Error
			}
			removed += result.RowsAffected
		}
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("notification store: delete by links: %w", err)
	}
	return removed, nil
}

// DeleteEntriesByNotificationIDs removes every recipient's ledger row for the given notifications.
func (s *NotificationStore) DeleteEntriesByNotificationIDs(ctx context.Context, notificationIDs []string) (int64, error) {
	notificationIDs = distinctKeys(notificationIDs)
	if len(notificationIDs) == 0 {
		return 0, nil
	}

	var removed int64
	err := s.db.WithContext(ensureContext(ctx)).Transaction(func(tx *gorm.DB) error {
		for _, batch := range chunks(notificationIDs, s.batchSize) {
			result := tx.Where("notification_id IN ?", batch).Delete(&models.RecipientEntry{})
			if result.Error != nil {
				return result.Error
			}
			removed += result.RowsAffected
		}
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("notification store: delete entries: %w", err)
	}
	return removed, nil
}

// DeleteOrphanNotifications removes notifications created before olderThan that no recipient holds.
func (s *NotificationStore) DeleteOrphanNotifications(ctx context.Context, olderThan time.Time) (int64, error) {
	result := s.db.WithContext(ensureContext(ctx)).
		Where("created_at < ?", olderThan).
		Where("NOT EXISTS (SELECT 1 FROM user_notifications un WHERE un.notification_id = notifications.id)").
		Delete(&models.Notification{})
	if result.Error != nil {
		return 0, fmt.Errorf("notification store: delete orphans: %w", result.Error)
	}
	return result.RowsAffected, nil
}

// DistinctLinks lists every non-empty link currently attached to a notification.
func (s *NotificationStore) DistinctLinks(ctx context.Context) ([]string, error) {
	var links []string
	err := s.db.WithContext(ensureContext(ctx)).
		Model(&models.Notification{}).
		Where("link IS NOT NULL AND link <> ''").
		Distinct().
		Order("link").
		Pluck("link", &links).Error
	if err != nil {
		return nil, fmt.Errorf("notification store: list links: %w", err)
	}
	return links, nil
}

// MarkEntryRead flips an unread entry to read. Entries already read keep their original seen_at.
func (s *NotificationStore) MarkEntryRead(ctx context.Context, recipientID int64, notificationID string, now time.Time) (int64, error) {
	result := s.db.WithContext(ensureContext(ctx)).
		Model(&models.RecipientEntry{}).
		Where("recipient_id = ? AND notification_id = ? AND is_read = ?", recipientID, notificationID, false).
		Updates(map[string]any{
			"is_read": true,
			"seen_at": now,
		})
	if result.Error != nil {
		return 0, fmt.Errorf("notification store: mark read: %w", result.Error)
	}
	return result.RowsAffected, nil
}

// MarkAllEntriesRead flips every unread entry of the recipient to read.
func (s *NotificationStore) MarkAllEntriesRead(ctx context.Context, recipientID int64, now time.Time) (int64, error) {
	result := s.db.WithContext(ensureContext(ctx)).
		Model(&models.RecipientEntry{}).
		Where("recipient_id = ? AND is_read = ?", recipientID, false).
		Updates(map[string]any{
			"is_read": true,
			"seen_at": now,
		})
	if result.Error != nil {
		return 0, fmt.Errorf("notification store: mark all read: %w", result.Error)
	}
	return result.RowsAffected, nil
}

// DeleteEntry removes the recipient's own ledger row for a notification.
func (s *NotificationStore) DeleteEntry(ctx context.Context, recipientID int64, notificationID string) (int64, error) {
	result := s.db.WithContext(ensureContext(ctx)).
		Where("recipient_id = ? AND notification_id = ?", recipientID, notificationID).
		Delete(&models.RecipientEntry{})
	if result.Error != nil {
		return 0, fmt.Errorf("notification store: delete entry: %w", result.Error)
	}
	return result.RowsAffected, nil
}
