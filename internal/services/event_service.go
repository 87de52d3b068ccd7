package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/charlesng35/eventboard/internal/models"
	apperrors "github.com/charlesng35/eventboard/pkg/errors"
	"github.com/charlesng35/eventboard/pkg/logger"
)

const (
	announcementPrefix       = "New Event: "
	announcementMessageLimit = 160
	// notificationTitleLimit matches the size of models.Notification.Title.
	notificationTitleLimit   = 255
	defaultAnnouncement      = "A new event has been posted."
)

// ErrEventTimesInvalid rejects events whose end precedes their start.
var ErrEventTimesInvalid = apperrors.NewBadRequest("Event end_time must not be before start_time")

// CreateEventInput carries the fields an administrator supplies for a new event.
type CreateEventInput struct {
	Title       string
	Description string
	Location    string
	StartTime   time.Time
	EndTime     time.Time
}

// EventCreated reports a stored event and the outcome of its announcement.
type EventCreated struct {
	Event        *models.Event    `json:"event"`
	Notification *NotificationDTO `json:"notification,omitempty"`
	Warnings     []string         `json:"-"`
}

// EventService triggers notification fan-out and cleanup from the event lifecycle.
type EventService struct {
	db         *gorm.DB
	broadcasts *BroadcastService
	reconciler *LinkReconciler
	log        *zap.Logger
}

// NewEventService constructs an EventService.
func NewEventService(db *gorm.DB, broadcasts *BroadcastService, reconciler *LinkReconciler) (*EventService, error) {
	if db == nil {
		return nil, errors.New("event service: db is required")
	}
	if broadcasts == nil {
		return nil, errors.New("event service: broadcast service is required")
	}
	if reconciler == nil {
		return nil, errors.New("event service: reconciler is required")
	}
	return &EventService{
		db:         db,
		broadcasts: broadcasts,
		reconciler: reconciler,
		log:        logger.WithModule("events"),
	}, nil
}

// Create stores the event and announces it to every user. A failed announcement does not undo the
// event; it is reported through EventCreated.Warnings.
func (s *EventService) Create(ctx context.Context, input CreateEventInput) (*EventCreated, error) {
	ctx = ensureContext(ctx)

	title := strings.TrimSpace(input.Title)
	if title == "" {
		return nil, apperrors.NewBadRequest("Event title is required")
	}
	if input.StartTime.IsZero() || input.EndTime.IsZero() {
		return nil, apperrors.NewBadRequest("Event start_time and end_time are required")
	}
	if input.EndTime.Before(input.StartTime) {
		return nil, ErrEventTimesInvalid
	}

	start := input.StartTime.UTC()
	end := input.EndTime.UTC()
	event := models.Event{
		Title:       title,
		Description: trimmedOrNil(input.Description),
		Location:    trimmedOrNil(input.Location),
		StartTime:   &start,
		EndTime:     &end,
	}
	if err := s.db.WithContext(ctx).Create(&event).Error; err != nil {
		return nil, fmt.Errorf("event service: create event: %w", err)
	}

	result := &EventCreated{Event: &event}
	notification, err := s.broadcasts.Broadcast(ctx, BroadcastInput{
		Title:   truncateRunes(announcementPrefix+event.Title, notificationTitleLimit),
		Message: announcementMessage(event),
		Link:    ResourceLink(models.EventResourceType, event.ID),
	})
	if err != nil {
		s.log.Warn("event stored but announcement failed",
			zap.Int64("event_id", event.ID),
			zap.Error(err),
		)
		result.Warnings = append(result.Warnings, "Event created but the announcement could not be delivered")
		return result, nil
	}

	result.Notification = notification
	return result, nil
}

// Delete removes the event and, in the same call, every notification linking to it.
func (s *EventService) Delete(ctx context.Context, eventID int64) error {
	ctx = ensureContext(ctx)
	if eventID <= 0 {
		return apperrors.NewBadRequest("Invalid event id")
	}

	result := s.db.WithContext(ctx).Delete(&models.Event{}, eventID)
	if result.Error != nil {
		return fmt.Errorf("event service: delete event: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return apperrors.ErrNotFound
	}

	links := resourceLinkVariants(models.EventResourceType, eventID)
	if _, err := s.reconciler.Purge(ctx, links, TriggerEventDelete); err != nil {
		// the feed reader and the sweep job retry these links
		s.log.Warn("event deleted but its notifications were not removed",
			zap.Int64("event_id", eventID),
			zap.Error(err),
		)
	}
	return nil
}

func announcementMessage(event models.Event) string {
	if event.Description != nil {
		if description := strings.TrimSpace(*event.Description); description != "" {
			return truncateRunes(description, announcementMessageLimit)
		}
	}

	var parts []string
	if event.Location != nil && strings.TrimSpace(*event.Location) != "" {
		parts = append(parts, "Location: "+strings.TrimSpace(*event.Location))
	}
	if event.StartTime != nil && !event.StartTime.IsZero() {
		parts = append(parts, "Starts: "+event.StartTime.UTC().Format(time.RFC3339))
	}
	if len(parts) > 0 {
		return strings.Join(parts, " • ")
	}
	return defaultAnnouncement
}

func truncateRunes(value string, limit int) string {
	if utf8.RuneCountInString(value) <= limit {
		return value
	}
	runes := []rune(value)
	return string(runes[:limit])
}
