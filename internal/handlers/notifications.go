package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/charlesng35/eventboard/internal/services"
	"github.com/charlesng35/eventboard/pkg/response"
)

// NotificationHandler exposes HTTP endpoints for notifications.
type NotificationHandler struct {
	broadcasts *services.BroadcastService
	feed       *services.FeedService
	state      *services.NotificationStateService
}

type broadcastRequest struct {
	Title   string `json:"title" validate:"required,notblank,max=255"`
	Message string `json:"message" validate:"required,notblank,max=2000"`
	Link    string `json:"link" validate:"omitempty,max=512,deeplink"`
}

// NewNotificationHandler constructs a notification handler.
func NewNotificationHandler(broadcasts *services.BroadcastService, feed *services.FeedService, state *services.NotificationStateService) (*NotificationHandler, error) {
	if broadcasts == nil || feed == nil || state == nil {
		return nil, errors.New("notification handler: services are required")
	}
	return &NotificationHandler{
		broadcasts: broadcasts,
		feed:       feed,
		state:      state,
	}, nil
}

// Broadcast sends a notification to every registered user.
func (h *NotificationHandler) Broadcast(c *gin.Context) {
	var payload broadcastRequest
	if !bindAndValidate(c, &payload) {
		return
	}

	dto, err := h.broadcasts.Broadcast(requestContext(c), services.BroadcastInput{
		Title:   payload.Title,
		Message: payload.Message,
		Link:    payload.Link,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusCreated, dto)
}

// List returns the caller's reconciled feed. Anonymous callers receive an empty feed.
func (h *NotificationHandler) List(c *gin.Context) {
	recipientID, err := feedRecipient(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	feed, err := h.feed.GetFeed(requestContext(c), recipientID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, feed)
}

// MarkRead flags a single notification as read for the caller.
func (h *NotificationHandler) MarkRead(c *gin.Context) {
	recipientID := callerRecipient(c)
	if err := h.state.MarkRead(requestContext(c), recipientID, c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"updated": true})
}

// MarkAllRead marks every unread notification of the caller as read.
func (h *NotificationHandler) MarkAllRead(c *gin.Context) {
	recipientID := callerRecipient(c)
	updated, err := h.state.MarkAllRead(requestContext(c), recipientID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"updated": updated})
}

// Dismiss removes a notification from the caller's feed.
func (h *NotificationHandler) Dismiss(c *gin.Context) {
	recipientID := callerRecipient(c)
	removed, err := h.state.Dismiss(requestContext(c), recipientID, c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"removed": removed})
}
