package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/charlesng35/eventboard/internal/models"
	apperrors "github.com/charlesng35/eventboard/pkg/errors"
	"github.com/charlesng35/eventboard/pkg/logger"
	"github.com/charlesng35/eventboard/pkg/metrics"
)

var (
	// ErrNotificationTitleRequired rejects broadcasts without a title.
	ErrNotificationTitleRequired = apperrors.NewBadRequest("Notification title is required")
	// ErrNotificationMessageRequired rejects broadcasts without a message body.
	ErrNotificationMessageRequired = apperrors.NewBadRequest("Notification message is required")
)

// BroadcastInput carries the content of a notification sent to every registered user.
type BroadcastInput struct {
	Title   string
	Message string
	Link    string
}

// NotificationDTO represents the API-friendly view of a broadcast notification.
type NotificationDTO struct {
	ID         string    `json:"notification_id"`
	Title      string    `json:"title"`
	Message    string    `json:"message"`
	Link       *string   `json:"link"`
	CreatedAt  time.Time `json:"created_at"`
	Recipients int       `json:"recipients"`
}

// BroadcastService fans a notification out to every recipient in the directory.
type BroadcastService struct {
	store     *NotificationStore
	directory RecipientDirectory
	log       *zap.Logger
}

// NewBroadcastService constructs a BroadcastService.
func NewBroadcastService(store *NotificationStore, directory RecipientDirectory) (*BroadcastService, error) {
	if store == nil {
		return nil, errors.New("broadcast service: store is required")
	}
	if directory == nil {
		return nil, errors.New("broadcast service: recipient directory is required")
	}
	return &BroadcastService{
		store:     store,
		directory: directory,
		log:       logger.WithModule("notifications"),
	}, nil
}

// Broadcast stores the notification and one unread ledger entry per recipient.
//
// The notification row is written before the recipients are resolved. When resolving recipients or
// writing the ledger fails, the notification remains without entries; it is invisible in every feed
// and removed by the orphan maintenance job. Retrying is left to the caller.
func (s *BroadcastService) Broadcast(ctx context.Context, input BroadcastInput) (*NotificationDTO, error) {
	ctx = ensureContext(ctx)

	title := strings.TrimSpace(input.Title)
	if title == "" {
		metrics.Broadcasts.WithLabelValues("invalid").Inc()
		return nil, ErrNotificationTitleRequired
	}
	message := strings.TrimSpace(input.Message)
	if message == "" {
		metrics.Broadcasts.WithLabelValues("invalid").Inc()
		return nil, ErrNotificationMessageRequired
	}

	notification := models.Notification{
		Title:   title,
		Message: message,
		Link:    trimmedOrNil(input.Link),
	}
	if err := s.store.InsertNotification(ctx, &notification); err != nil {
		metrics.Broadcasts.WithLabelValues("failure").Inc()
		return nil, fmt.Errorf("broadcast service: %w", err)
	}

	recipients, err := s.directory.ListRecipientIDs(ctx)
	if err != nil {
		s.log.Error("recipient snapshot failed; notification left undelivered",
			zap.String("notification_id", notification.ID),
			zap.Error(err),
		)
		metrics.Broadcasts.WithLabelValues("failure").Inc()
		return nil, fmt.Errorf("broadcast service: list recipients: %w", err)
	}

	recipients = distinctPositive(recipients)
	if len(recipients) > 0 {
		entries := make([]models.RecipientEntry, 0, len(recipients))
		for _, recipientID := range recipients {
			entries = append(entries, models.RecipientEntry{
				RecipientID:    recipientID,
				NotificationID: notification.ID,
			})
		}

		if err := s.store.InsertEntries(ctx, entries); err != nil {
			s.log.Error("fan-out failed; notification left undelivered",
				zap.String("notification_id", notification.ID),
				zap.Int("recipients", len(recipients)),
				zap.Error(err),
			)
			metrics.Broadcasts.WithLabelValues("failure").Inc()
			return nil, fmt.Errorf("broadcast service: %w", err)
		}
		metrics.FanoutEntries.Add(float64(len(entries)))
	}

	metrics.Broadcasts.WithLabelValues("success").Inc()
	s.log.Info("notification broadcast",
		zap.String("notification_id", notification.ID),
		zap.String("link", notification.LinkValue()),
		zap.Int("recipients", len(recipients)),
	)

	return &NotificationDTO{
		ID:         notification.ID,
		Title:      notification.Title,
		Message:    notification.Message,
		Link:       notification.Link,
		CreatedAt:  notification.CreatedAt,
		Recipients: len(recipients),
	}, nil
}
