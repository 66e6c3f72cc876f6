package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"invitation-platform/internal/auth"
	"invitation-platform/internal/services"
)

// GuestHandler handles guest-list endpoints
type GuestHandler struct {
	guestService *services.GuestService
	eventService *services.EventService
}

// NewGuestHandler creates a new GuestHandler
func NewGuestHandler(guestService *services.GuestService, eventService *services.EventService) *GuestHandler {
	return &GuestHandler{
		guestService: guestService,
		eventService: eventService,
	}
}

// CreateGuest adds a guest to an event owned by the current user
// POST /api/events/:id/guests
func (h *GuestHandler) CreateGuest(c *gin.Context) {
	eventID, ok := h.authorizeEventParam(c)
	if !ok {
		return
	}

	var input services.GuestInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	guest, err := h.guestService.Create(c.Request.Context(), eventID, input)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create guest"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"guest": guest})
}

// ListGuests returns the guest list of an owned event
// GET /api/events/:id/guests
func (h *GuestHandler) ListGuests(c *gin.Context) {
	eventID, ok := h.authorizeEventParam(c)
	if !ok {
		return
	}

	guests, err := h.guestService.ListByEvent(c.Request.Context(), eventID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list guests"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"guests": guests})
}

// ImportGuests bulk-creates guests from a pre-parsed JSON array
// POST /api/events/:id/guests/import
func (h *GuestHandler) ImportGuests(c *gin.Context) {
	eventID, ok := h.authorizeEventParam(c)
	if !ok {
		return
	}

	var req struct {
		Guests []services.GuestInput `json:"guests" binding:"required,min=1,max=500,dive"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	created, failures := h.guestService.Import(c.Request.Context(), eventID, req.Guests)

	errs := make([]string, 0, len(failures))
	for _, f := range failures {
		errs = append(errs, f.Error())
	}

	c.JSON(http.StatusOK, gin.H{
		"created": created,
		"errors":  errs,
	})
}

// ExportGuests returns the guest list in an import-compatible shape
// GET /api/events/:id/guests/export
func (h *GuestHandler) ExportGuests(c *gin.Context) {
	eventID, ok := h.authorizeEventParam(c)
	if !ok {
		return
	}

	guests, err := h.guestService.ListByEvent(c.Request.Context(), eventID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to export guests"})
		return
	}

	rows := make([]gin.H, 0, len(guests))
	for _, g := range guests {
		rows = append(rows, gin.H{
			"name":       g.Name,
			"phone":      g.Phone,
			"email":      g.Email,
			"short_code": g.ShortCode,
			"status":     g.Status,
			"plus_ones":  g.PlusOnes,
		})
	}

	c.JSON(http.StatusOK, gin.H{"guests": rows})
}

// DeleteGuest removes a guest after verifying the caller owns its event
// DELETE /api/guests/:id
func (h *GuestHandler) DeleteGuest(c *gin.Context) {
	userID, exists := auth.GetUserID(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid guest id"})
		return
	}

	guest, err := h.guestService.GetByID(c.Request.Context(), uint(id))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "guest not found"})
		return
	}

	if err := h.eventService.AuthorizeOwner(c.Request.Context(), userID, guest.EventID); err != nil {
		c.JSON(http.StatusForbidden, gin.H{"error": "not your event"})
		return
	}

	if err := h.guestService.Delete(c.Request.Context(), guest.ID); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to delete guest"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "guest deleted"})
}

// authorizeEventParam parses :id and runs the centralized ownership check
func (h *GuestHandler) authorizeEventParam(c *gin.Context) (uint, bool) {
	userID, exists := auth.GetUserID(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return 0, false
	}

	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid event id"})
		return 0, false
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
		return 0, false
	}

	return eventID, true
}
