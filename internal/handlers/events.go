package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/charlesng35/eventboard/internal/services"
	apperrors "github.com/charlesng35/eventboard/pkg/errors"
	"github.com/charlesng35/eventboard/pkg/response"
)

// EventHandler exposes the administrative event lifecycle that drives announcements and cleanup.
type EventHandler struct {
	events *services.EventService
}

type createEventRequest struct {
	Title       string    `json:"title" validate:"required,notblank,max=255"`
	Description string    `json:"description" validate:"max=5000"`
	Location    string    `json:"location" validate:"max=255"`
	StartTime   time.Time `json:"start_time"`
	EndTime     time.Time `json:"end_time"`
}

// NewEventHandler constructs an event handler.
func NewEventHandler(events *services.EventService) (*EventHandler, error) {
	if events == nil {
		return nil, errors.New("event handler: event service is required")
	}
	return &EventHandler{events: events}, nil
}

// Create stores an event and announces it. A failed announcement is reported as a warning.
func (h *EventHandler) Create(c *gin.Context) {
	var payload createEventRequest
	if !bindAndValidate(c, &payload) {
		return
	}

	created, err := h.events.Create(requestContext(c), services.CreateEventInput{
		Title:       payload.Title,
		Description: payload.Description,
		Location:    payload.Location,
		StartTime:   payload.StartTime,
		EndTime:     payload.EndTime,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	if len(created.Warnings) > 0 {
		response.SuccessWithWarnings(c, http.StatusCreated, created, created.Warnings...)
		return
	}
	response.Success(c, http.StatusCreated, created)
}

// Delete removes an event together with the notifications linking to it.
func (h *EventHandler) Delete(c *gin.Context) {
	id, err := strconv.ParseInt(strings.TrimSpace(c.Param("id")), 10, 64)
	if err != nil || id <= 0 {
		response.Error(c, apperrors.NewBadRequest("event id must be a positive integer"))
		return
	}

	if err := h.events.Delete(requestContext(c), id); err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"deleted": true})
}
