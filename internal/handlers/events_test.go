package handlers_test

import (
	"net/http"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/charlesng35/eventboard/internal/handlers/testutil"
	"github.com/charlesng35/eventboard/internal/models"
	"github.com/charlesng35/eventboard/internal/services"
)

type eventCreatedPayload struct {
	Event        models.Event              `json:"event"`
	Notification *services.NotificationDTO `json:"notification"`
}

func createEvent(t *testing.T, env *testutil.Env, title string) eventCreatedPayload {
	t.Helper()
	start := time.Date(2024, 9, 6, 20, 0, 0, 0, time.UTC)
	resp := env.Request(http.MethodPost, "/api/admin/events", map[string]any{
		"title":       title,
		"description": "Starts 8pm",
		"start_time":  start.Format(time.RFC3339),
		"end_time":    start.Add(3 * time.Hour).Format(time.RFC3339),
	}, env.AdminToken(1))
	require.Equal(t, http.StatusCreated, resp.Code, resp.Body.String())

	var created eventCreatedPayload
	testutil.DecodeInto(t, testutil.DecodeResponse(t, resp).Data, &created)
	return created
}

func TestEventHandlerCreateAnnounces(t *testing.T) {
	env := testutil.NewEnv(t, testutil.Users(3)...)

	created := createEvent(t, env, "Jazz Night")
	require.NotZero(t, created.Event.ID)
	require.NotNil(t, created.Notification)
	require.Equal(t, "New Event: Jazz Night", created.Notification.Title)
	require.Equal(t, "Starts 8pm", created.Notification.Message)
	require.Equal(t, "/events/"+strconv.FormatInt(created.Event.ID, 10), *created.Notification.Link)

	feed := fetchFeed(t, env, env.Token(2, ""))
	require.Len(t, feed.Items, 1)
	require.Equal(t, "New Event: Jazz Night", feed.Items[0].Title)
	require.Equal(t, 1, feed.UnreadCount)
}

func TestEventHandlerCreateValidation(t *testing.T) {
	env := testutil.NewEnv(t, testutil.Users(1)...)
	start := time.Date(2024, 9, 6, 20, 0, 0, 0, time.UTC)

	resp := env.Request(http.MethodPost, "/api/admin/events", map[string]any{
		"title":      "Backwards",
		"start_time": start.Format(time.RFC3339),
		"end_time":   start.Add(-time.Hour).Format(time.RFC3339),
	}, env.AdminToken(1))
	require.Equal(t, http.StatusBadRequest, resp.Code)

	resp = env.Request(http.MethodPost, "/api/admin/events", map[string]any{"title": "No times"}, env.AdminToken(1))
	require.Equal(t, http.StatusBadRequest, resp.Code)

	resp = env.Request(http.MethodPost, "/api/admin/events", map[string]any{"title": "Member"}, env.Token(1, "member"))
	require.Equal(t, http.StatusForbidden, resp.Code)
}

func TestEventHandlerDeleteRemovesAnnouncement(t *testing.T) {
	env := testutil.NewEnv(t, testutil.Users(3)...)
	created := createEvent(t, env, "Jazz Night")
	path := "/api/admin/events/" + strconv.FormatInt(created.Event.ID, 10)

	resp := env.Request(http.MethodDelete, path, nil, env.AdminToken(1))
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())

	require.Empty(t, fetchFeed(t, env, env.Token(1, "")).Items)

	var entries int64
	require.NoError(t, env.DB.Model(&models.RecipientEntry{}).
		Where("notification_id = ?", created.Notification.ID).
		Count(&entries).Error)
	require.Zero(t, entries)

	require.Equal(t, http.StatusNotFound, env.Request(http.MethodDelete, path, nil, env.AdminToken(1)).Code)
	require.Equal(t, http.StatusBadRequest, env.Request(http.MethodDelete, "/api/admin/events/abc", nil, env.AdminToken(1)).Code)
}

func TestFeedReconcilesEventDeletedOutOfBand(t *testing.T) {
	env := testutil.NewEnv(t, testutil.Users(3)...)
	created := createEvent(t, env, "Jazz Night")

	// the event disappears without going through the API
	require.NoError(t, env.DB.Delete(&models.Event{}, created.Event.ID).Error)

	feed := fetchFeed(t, env, env.Token(1, ""))
	require.Empty(t, feed.Items)
	require.Zero(t, feed.UnreadCount)

	env.Suite.Reconciler.Wait()

	var entries int64
	require.NoError(t, env.DB.Model(&models.RecipientEntry{}).
		Where("notification_id = ?", created.Notification.ID).
		Count(&entries).Error)
	require.Zero(t, entries)
}
