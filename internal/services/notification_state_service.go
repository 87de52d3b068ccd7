package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	apperrors "github.com/charlesng35/eventboard/pkg/errors"
	"github.com/charlesng35/eventboard/pkg/logger"
)

// ErrNotificationIDRequired rejects state changes without a notification id.
var ErrNotificationIDRequired = apperrors.NewBadRequest("Notification id is required")

// NotificationStateService applies read and dismiss transitions to a recipient's own ledger entries.
type NotificationStateService struct {
	store *NotificationStore
	now   func() time.Time
	log   *zap.Logger
}

// StateOption customises a NotificationStateService.
type StateOption func(*NotificationStateService)

// WithStateClock overrides the clock used to stamp seen_at.
func WithStateClock(now func() time.Time) StateOption {
	return func(s *NotificationStateService) {
		if now != nil {
			s.now = now
		}
	}
}

// NewNotificationStateService constructs a NotificationStateService.
func NewNotificationStateService(store *NotificationStore, opts ...StateOption) (*NotificationStateService, error) {
	if store == nil {
		return nil, errors.New("notification state: store is required")
	}
	svc := &NotificationStateService{
		store: store,
		now:   time.Now,
		log:   logger.WithModule("notifications"),
	}
	for _, opt := range opts {
		opt(svc)
	}
	return svc, nil
}

// MarkRead marks the recipient's entry as read. Repeating the call, or naming a notification the
// recipient does not hold, succeeds without changes.
func (s *NotificationStateService) MarkRead(ctx context.Context, recipientID int64, notificationID string) error {
	notificationID, err := validateStateTarget(recipientID, notificationID)
	if err != nil {
		return err
	}

	updated, err := s.store.MarkEntryRead(ensureContext(ctx), recipientID, notificationID, s.now().UTC())
	if err != nil {
		return fmt.Errorf("notification state: %w", err)
	}
	if updated > 0 {
		s.log.Debug("notification marked read",
			zap.Int64("recipient_id", recipientID),
			zap.String("notification_id", notificationID),
		)
	}
	return nil
}

// MarkAllRead marks every unread entry of the recipient as read and returns how many changed.
func (s *NotificationStateService) MarkAllRead(ctx context.Context, recipientID int64) (int64, error) {
	if recipientID <= 0 {
		return 0, apperrors.ErrUnauthorized
	}

	updated, err := s.store.MarkAllEntriesRead(ensureContext(ctx), recipientID, s.now().UTC())
	if err != nil {
		return 0, fmt.Errorf("notification state: %w", err)
	}
	return updated, nil
}

// Dismiss removes the recipient's entry and reports how many rows were removed (0 or 1). The shared
// notification and other recipients' entries are untouched.
func (s *NotificationStateService) Dismiss(ctx context.Context, recipientID int64, notificationID string) (int64, error) {
	notificationID, err := validateStateTarget(recipientID, notificationID)
	if err != nil {
		return 0, err
	}

	removed, err := s.store.DeleteEntry(ensureContext(ctx), recipientID, notificationID)
	if err != nil {
		return 0, fmt.Errorf("notification state: %w", err)
	}
	return removed, nil
}

func validateStateTarget(recipientID int64, notificationID string) (string, error) {
	if recipientID <= 0 {
		return "", apperrors.ErrUnauthorized
	}
	notificationID = strings.TrimSpace(notificationID)
	if notificationID == "" {
		return "", ErrNotificationIDRequired
	}
	return notificationID, nil
}
