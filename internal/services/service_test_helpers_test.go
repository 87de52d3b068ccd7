package services

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/charlesng35/eventboard/internal/database/testutil"
	"github.com/charlesng35/eventboard/internal/models"
)

type notificationStack struct {
	db         *gorm.DB
	store      *NotificationStore
	reconciler *LinkReconciler
	broadcasts *BroadcastService
	feed       *FeedService
	state      *NotificationStateService
	events     *EventService
}

func newNotificationStack(t *testing.T, recipients int, opts ...ReconcilerOption) *notificationStack {
	t.Helper()

	db := testutil.MustOpenTestDB(t, testutil.WithUsers(testUsers(recipients)...))

	suite, err := NewNotificationSuite(db, SuiteOptions{Reconciler: opts})
	require.NoError(t, err)
	t.Cleanup(suite.Reconciler.Wait)

	return &notificationStack{
		db:         db,
		store:      suite.Store,
		reconciler: suite.Reconciler,
		broadcasts: suite.Broadcasts,
		feed:       suite.Feed,
		state:      suite.State,
		events:     suite.Events,
	}
}

func testUsers(n int) []models.User {
	users := make([]models.User, 0, n)
	for i := 1; i <= n; i++ {
		users = append(users, models.User{
			ID:          int64(i),
			Email:       fmt.Sprintf("member%d@example.com", i),
			DisplayName: fmt.Sprintf("Member %d", i),
		})
	}
	return users
}

func createEvent(t *testing.T, db *gorm.DB, id int64, title string) models.Event {
	t.Helper()
	event := models.Event{ID: id, Title: title}
	require.NoError(t, db.Create(&event).Error)
	return event
}

func countEntries(t *testing.T, db *gorm.DB, notificationID string) int64 {
	t.Helper()
	var count int64
	require.NoError(t, db.Model(&models.RecipientEntry{}).Where("notification_id = ?", notificationID).Count(&count).Error)
	return count
}

func loadEntry(t *testing.T, db *gorm.DB, recipientID int64, notificationID string) models.RecipientEntry {
	t.Helper()
	var entry models.RecipientEntry
	require.NoError(t, db.Where("recipient_id = ? AND notification_id = ?", recipientID, notificationID).First(&entry).Error)
	return entry
}

type staticDirectory struct {
	ids []int64
	err error
}

func (d staticDirectory) ListRecipientIDs(context.Context) ([]int64, error) {
	return d.ids, d.err
}

type recordingChecker struct {
	existing map[string]map[int64]struct{}
	err      error
	calls    []string
}

func (c *recordingChecker) ExistingIDs(_ context.Context, resourceType string, ids []int64) (map[int64]struct{}, error) {
	c.calls = append(c.calls, resourceType)
	if c.err != nil {
		return nil, c.err
	}
	known, ok := c.existing[resourceType]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownResourceType, resourceType)
	}
	out := make(map[int64]struct{})
	for _, id := range ids {
		if _, exists := known[id]; exists {
			out[id] = struct{}{}
		}
	}
	return out, nil
}
