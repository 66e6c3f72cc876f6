package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"invitation-platform/internal/auth"
	"invitation-platform/internal/services"
)

// EventHandler handles event CRUD endpoints
type EventHandler struct {
	eventService *services.EventService
}

// NewEventHandler creates a new EventHandler
func NewEventHandler(eventService *services.EventService) *EventHandler {
	return &EventHandler{eventService: eventService}
}

// CreateEvent creates an event owned by the current user
// POST /api/events
func (h *EventHandler) CreateEvent(c *gin.Context) {
	userID, exists := auth.GetUserID(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	var input services.EventInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	event, err := h.eventService.Create(c.Request.Context(), userID, input)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create event"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"event": event})
}

// ListEvents returns the current user's events
// GET /api/events
func (h *EventHandler) ListEvents(c *gin.Context) {
	userID, exists := auth.GetUserID(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	events, err := h.eventService.ListByOwner(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list events"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"events": events})
}

// GetEvent returns one event owned by the current user
// GET /api/events/:id
func (h *EventHandler) GetEvent(c *gin.Context) {
	_, eventID, ok := h.ownedEvent(c)
	if !ok {
		return
	}

	event, err := h.eventService.GetByID(c.Request.Context(), eventID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "event not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"event": event})
}

// UpdateEvent updates an event owned by the current user
// PUT /api/events/:id
func (h *EventHandler) UpdateEvent(c *gin.Context) {
	_, eventID, ok := h.ownedEvent(c)
	if !ok {
		return
	}

	var input services.EventInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	event, err := h.eventService.Update(c.Request.Context(), eventID, input)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update event"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"event": event})
}

// EnsureSlug assigns a slug to a slugless event
// POST /api/events/:id/slug
func (h *EventHandler) EnsureSlug(c *gin.Context) {
	_, eventID, ok := h.ownedEvent(c)
	if !ok {
		return
	}

	event, err := h.eventService.GetByID(c.Request.Context(), eventID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "event not found"})
		return
	}

	if err := h.eventService.EnsureSlug(c.Request.Context(), event); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to assign slug"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"event": event})
}

// ownedEvent parses the :id parameter and runs the centralized ownership
// check. On failure the response has already been written.
func (h *EventHandler) ownedEvent(c *gin.Context) (uint, uint, bool) {
	userID, exists := auth.GetUserID(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return 0, 0, false
	}

	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid event id"})
		return 0, 0, false
	}
	eventID := uint(id)

	if err := h.eventService.AuthorizeOwner(c.Request.Context(), userID, eventID); err != nil {
		switch err {
		case services.ErrNotFound:
			c.JSON(http.StatusNotFound, gin.H{"error": "event not found"})
		case services.ErrForbidden:
			c.JSON(http.StatusForbidden, gin.H{"error": "not your event"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to verify ownership"})
		}
		return 0, 0, false
	}

	return userID, eventID, true
}
