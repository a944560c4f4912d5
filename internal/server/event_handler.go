package server

import (
	"errors"
	"net/http"

	"github.com/eventkeeper/reminder-service/internal/auth"
	"github.com/eventkeeper/reminder-service/internal/models"
	"github.com/eventkeeper/reminder-service/internal/services"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// EventHandler handles event creation and retrieval for the
// authenticated user.
type EventHandler struct {
	events *services.EventService
	log    *zap.Logger
}

// NewEventHandler creates a new EventHandler.
func NewEventHandler(events *services.EventService, log *zap.Logger) *EventHandler {
	return &EventHandler{
		events: events,
		log:    log,
	}
}

// CreateEvent creates a new event owned by the caller.
func (h *EventHandler) CreateEvent(c *gin.Context) {
	owner := c.GetString(auth.ContextUserKey)

	var req models.EventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	event, err := h.events.Create(owner, req)
	if err != nil {
		var verr *services.ValidationError
		if errors.As(err, &verr) {
			c.JSON(http.StatusBadRequest, gin.H{"error": verr.Error()})
			return
		}
		h.log.Error("Failed to create event", zap.String("user", owner), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create event"})
		return
	}

	c.JSON(http.StatusCreated, event)
}

// ListEvents returns the caller's events, ordered by the sortBy query
// parameter (date, category or reminder; date is the default).
func (h *EventHandler) ListEvents(c *gin.Context) {
	owner := c.GetString(auth.ContextUserKey)
	events := h.events.List(owner, c.Query("sortBy"))
	c.JSON(http.StatusOK, events)
}
