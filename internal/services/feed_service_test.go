package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/charlesng35/eventboard/internal/models"
	"github.com/charlesng35/eventboard/pkg/logger"
)

func TestGetFeedWithoutIdentityIsEmpty(t *testing.T) {
	stack := newNotificationStack(t, 2)
	_, err := stack.broadcasts.Broadcast(context.Background(), BroadcastInput{Title: "Hi", Message: "There"})
	require.NoError(t, err)

	for _, recipientID := range []int64{0, -3} {
		feed, err := stack.feed.GetFeed(context.Background(), recipientID)
		require.NoError(t, err)
		require.NotNil(t, feed.Items)
		require.Empty(t, feed.Items)
		require.Zero(t, feed.UnreadCount)
	}
}

func TestGetFeedScenarios(t *testing.T) {
	stack := newNotificationStack(t, 3, WithSynchronousCleanup())
	ctx := context.Background()
	createEvent(t, stack.db, 42, "Jazz Night")

	dto, err := stack.broadcasts.Broadcast(ctx, BroadcastInput{
		Title:   "New Event: Jazz Night",
		Message: "Starts 8pm",
		Link:    "/events/42",
	})
	require.NoError(t, err)

	// A: every recipient sees one unread item.
	feed, err := stack.feed.GetFeed(ctx, 2)
	require.NoError(t, err)
	require.Len(t, feed.Items, 1)
	require.Equal(t, "New Event: Jazz Night", feed.Items[0].Title)
	require.Equal(t, dto.ID, feed.Items[0].ID)
	require.Equal(t, dto.ID, feed.Items[0].NotificationID)
	require.NotEmpty(t, feed.Items[0].EntryID)
	require.Equal(t, 1, feed.UnreadCount)

	// B: marking read only affects the caller's entry.
	require.NoError(t, stack.state.MarkRead(ctx, 2, dto.ID))

	feed, err = stack.feed.GetFeed(ctx, 2)
	require.NoError(t, err)
	require.Len(t, feed.Items, 1)
	require.True(t, feed.Items[0].IsRead)
	require.NotNil(t, feed.Items[0].SeenAt)
	require.Zero(t, feed.UnreadCount)

	feed, err = stack.feed.GetFeed(ctx, 1)
	require.NoError(t, err)
	require.Equal(t, 1, feed.UnreadCount)

	// C: once the event is gone the item disappears for everyone and the ledger is purged.
	require.NoError(t, stack.db.Delete(&models.Event{}, 42).Error)

	feed, err = stack.feed.GetFeed(ctx, 1)
	require.NoError(t, err)
	require.Empty(t, feed.Items)
	require.Zero(t, feed.UnreadCount)

	require.Zero(t, countEntries(t, stack.db, dto.ID))
	var notifications int64
	require.NoError(t, stack.db.Model(&models.Notification{}).Where("id = ?", dto.ID).Count(&notifications).Error)
	require.Zero(t, notifications)

	feed, err = stack.feed.GetFeed(ctx, 3)
	require.NoError(t, err)
	require.Empty(t, feed.Items)
}

func TestGetFeedUnreadCountExcludesStaleItems(t *testing.T) {
	stack := newNotificationStack(t, 1, WithSynchronousCleanup())
	ctx := context.Background()
	createEvent(t, stack.db, 1, "Still on")

	_, err := stack.broadcasts.Broadcast(ctx, BroadcastInput{Title: "Live", Message: "m", Link: "/events/1"})
	require.NoError(t, err)
	_, err = stack.broadcasts.Broadcast(ctx, BroadcastInput{Title: "Cancelled", Message: "m", Link: "/events/2"})
	require.NoError(t, err)
	read, err := stack.broadcasts.Broadcast(ctx, BroadcastInput{Title: "Welcome", Message: "m", Link: "/welcome"})
	require.NoError(t, err)
	_, err = stack.broadcasts.Broadcast(ctx, BroadcastInput{Title: "External", Message: "m", Link: "https://example.com/events/2"})
	require.NoError(t, err)
	require.NoError(t, stack.state.MarkRead(ctx, 1, read.ID))

	feed, err := stack.feed.GetFeed(ctx, 1)
	require.NoError(t, err)

	titles := make([]string, 0, len(feed.Items))
	unread := 0
	for _, item := range feed.Items {
		titles = append(titles, item.Title)
		if !item.IsRead {
			unread++
		}
	}
	require.ElementsMatch(t, []string{"Live", "Welcome", "External"}, titles)
	require.Equal(t, unread, feed.UnreadCount)
	require.Equal(t, 2, feed.UnreadCount)
}

func TestGetFeedAsyncCleanupPersists(t *testing.T) {
	stack := newNotificationStack(t, 2)
	ctx := context.Background()

	dto, err := stack.broadcasts.Broadcast(ctx, BroadcastInput{Title: "Gone", Message: "m", Link: "/events/9"})
	require.NoError(t, err)

	feed, err := stack.feed.GetFeed(ctx, 1)
	require.NoError(t, err)
	require.Empty(t, feed.Items)

	stack.reconciler.Wait()
	require.Zero(t, countEntries(t, stack.db, dto.ID))

	feed, err = stack.feed.GetFeed(ctx, 2)
	require.NoError(t, err)
	require.Empty(t, feed.Items)
}

func TestGetFeedCleanupOutlivesRequestContext(t *testing.T) {
	stack := newNotificationStack(t, 1)

	dto, err := stack.broadcasts.Broadcast(context.Background(), BroadcastInput{Title: "Gone", Message: "m", Link: "/events/9"})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	feed, err := stack.feed.GetFeed(ctx, 1)
	cancel()
	require.NoError(t, err)
	require.Empty(t, feed.Items)

	stack.reconciler.Wait()
	require.Zero(t, countEntries(t, stack.db, dto.ID))
}

func TestGetFeedServesUnreconciledFeedWhenCheckFails(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)
	t.Cleanup(logger.Replace(zap.New(core)))

	stack := newNotificationStack(t, 1)
	ctx := context.Background()
	dto, err := stack.broadcasts.Broadcast(ctx, BroadcastInput{Title: "Maybe gone", Message: "m", Link: "/events/9"})
	require.NoError(t, err)

	checker := &recordingChecker{err: errors.New("events store unavailable")}
	reconciler, err := NewLinkReconciler(stack.store, checker, WithSynchronousCleanup())
	require.NoError(t, err)
	feed, err := NewFeedService(stack.store, reconciler)
	require.NoError(t, err)

	result, err := feed.GetFeed(ctx, 1)
	require.NoError(t, err)
	require.Len(t, result.Items, 1)
	require.Equal(t, 1, result.UnreadCount)
	require.Equal(t, int64(1), countEntries(t, stack.db, dto.ID))
	require.Equal(t, 1, logs.FilterMessage("resource check failed; serving unreconciled feed").Len())
}

func TestGetFeedChecksEachResourceTypeOnce(t *testing.T) {
	stack := newNotificationStack(t, 1)
	ctx := context.Background()

	for _, link := range []string{"/events/1", "/events/2", "/events/3", "/venues/4", "/venues/5"} {
		_, err := stack.broadcasts.Broadcast(ctx, BroadcastInput{Title: link, Message: "m", Link: link})
		require.NoError(t, err)
	}

	checker := &recordingChecker{existing: map[string]map[int64]struct{}{
		"events": {1: {}, 2: {}, 3: {}},
	}}
	reconciler, err := NewLinkReconciler(stack.store, checker, WithSynchronousCleanup())
	require.NoError(t, err)
	feed, err := NewFeedService(stack.store, reconciler)
	require.NoError(t, err)

	result, err := feed.GetFeed(ctx, 1)
	require.NoError(t, err)
	require.Len(t, result.Items, 5, "unknown resource types are never stale")
	require.ElementsMatch(t, []string{"events", "venues"}, checker.calls)
}

func TestGetFeedPropagatesFetchFailure(t *testing.T) {
	stack := newNotificationStack(t, 1)
	require.NoError(t, stack.db.Migrator().DropTable(&models.RecipientEntry{}))

	_, err := stack.feed.GetFeed(context.Background(), 1)
	require.Error(t, err)
	require.Contains(t, err.Error(), "feed service")
}
