package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/charlesng35/eventboard/pkg/logger"
)

// FeedItem is one notification as seen by a recipient.
type FeedItem struct {
	ID             string     `json:"id"`
	NotificationID string     `json:"notification_id"`
	EntryID        string     `json:"entry_id"`
	Title          string     `json:"title"`
	Message        string     `json:"message"`
	Link           *string    `json:"link"`
	CreatedAt      time.Time  `json:"created_at"`
	IsRead         bool       `json:"is_read"`
	SeenAt         *time.Time `json:"seen_at"`
}

// Feed is a recipient's notification list with its unread count.
type Feed struct {
	Items       []FeedItem `json:"items"`
	UnreadCount int        `json:"unread_count"`
}

// FeedService serves per-recipient feeds and reconciles entries that point at deleted resources.
type FeedService struct {
	store      *NotificationStore
	reconciler *LinkReconciler
	log        *zap.Logger
}

// NewFeedService constructs a FeedService.
func NewFeedService(store *NotificationStore, reconciler *LinkReconciler) (*FeedService, error) {
	if store == nil {
		return nil, errors.New("feed service: store is required")
	}
	if reconciler == nil {
		return nil, errors.New("feed service: reconciler is required")
	}
	return &FeedService{
		store:      store,
		reconciler: reconciler,
		log:        logger.WithModule("notifications"),
	}, nil
}

// GetFeed returns the recipient's notifications, newest first.
//
// A missing or non-positive recipient yields an empty feed. Items linking to a resource that no
// longer exists are left out and their notifications are scheduled for deletion. If the existence
// check itself fails the feed is served unreconciled. UnreadCount always describes the returned items.
func (s *FeedService) GetFeed(ctx context.Context, recipientID int64) (*Feed, error) {
	if recipientID <= 0 {
		return &Feed{Items: []FeedItem{}}, nil
	}
	ctx = ensureContext(ctx)

	rows, err := s.store.ListEntriesForRecipient(ctx, recipientID)
	if err != nil {
		return nil, fmt.Errorf("feed service: %w", err)
	}

	items := make([]FeedItem, 0, len(rows))
	links := make([]string, 0, len(rows))
	for _, row := range rows {
		items = append(items, mapFeedRow(row))
		if row.Link != nil {
			links = append(links, *row.Link)
		}
	}

	stale, err := s.reconciler.StaleLinks(ctx, links)
	if err != nil {
		s.log.Warn("resource check failed; serving unreconciled feed",
			zap.Int64("recipient_id", recipientID),
			zap.Error(err),
		)
		stale = nil
	}

	if len(stale) > 0 {
		kept := items[:0]
		for _, item := range items {
			if item.Link != nil {
				if _, isStale := stale[*item.Link]; isStale {
					continue
				}
			}
			kept = append(kept, item)
		}
		items = kept
		s.reconciler.Schedule(ctx, sortedKeys(stale), TriggerFeed)
	}

	feed := &Feed{Items: items}
	for _, item := range items {
		if !item.IsRead {
			feed.UnreadCount++
		}
	}
	return feed, nil
}

func mapFeedRow(row FeedRow) FeedItem {
	return FeedItem{
		ID:             row.NotificationID,
		NotificationID: row.NotificationID,
		EntryID:        row.EntryID,
		Title:          row.Title,
		Message:        row.Message,
		Link:           row.Link,
		CreatedAt:      row.CreatedAt,
		IsRead:         row.IsRead,
		SeenAt:         row.SeenAt,
	}
}
