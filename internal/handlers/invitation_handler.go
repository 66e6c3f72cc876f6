package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"invitation-platform/internal/services"
)

// InvitationHandler serves the public invitation routes
type InvitationHandler struct {
	invitationService *services.InvitationService
}

// NewInvitationHandler creates a new InvitationHandler
func NewInvitationHandler(invitationService *services.InvitationService) *InvitationHandler {
	return &InvitationHandler{invitationService: invitationService}
}

// ResolveLegacy serves the single-segment legacy form
// GET /invite/:p1
func (h *InvitationHandler) ResolveLegacy(c *gin.Context) {
	h.resolveSegments(c, []string{c.Param("p1")})
}

// ResolveSlugAndCode serves the current two-segment form
// GET /invite/:p1/:p2
func (h *InvitationHandler) ResolveSlugAndCode(c *gin.Context) {
	h.resolveSegments(c, []string{c.Param("p1"), c.Param("p2")})
}

// ResolvePreview serves the event-id form with the guest token as a query
// parameter. Goes through the same resolver, so the token is cross-checked
// against the event like every other scheme.
// GET /invitation/:id?g=token
func (h *InvitationHandler) ResolvePreview(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		h.notFound(c)
		return
	}

	token := c.Query("g")
	if token == "" {
		h.notFound(c)
		return
	}

	h.resolve(c, services.Locator{
		Kind:    services.LocatorPreview,
		EventID: uint(id),
		Token:   token,
	})
}

// RSVP records a guest's answer through the two-segment form
// POST /invite/:p1/:p2/rsvp
func (h *InvitationHandler) RSVP(c *gin.Context) {
	loc, ok := services.ParseLocator([]string{c.Param("p1"), c.Param("p2")})
	if !ok {
		h.notFound(c)
		return
	}

	var input services.RSVPInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	guest, err := h.invitationService.RSVP(c.Request.Context(), loc, input)
	if err != nil {
		if err == services.ErrNotFound {
			h.notFound(c)
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to record rsvp"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"guest": guest})
}

func (h *InvitationHandler) resolveSegments(c *gin.Context, segments []string) {
	loc, ok := services.ParseLocator(segments)
	if !ok {
		h.notFound(c)
		return
	}
	h.resolve(c, loc)
}

func (h *InvitationHandler) resolve(c *gin.Context, loc services.Locator) {
	event, guest, err := h.invitationService.Resolve(c.Request.Context(), loc)
	if err != nil {
		if err == services.ErrNotFound {
			h.notFound(c)
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to resolve invitation"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"event": event,
		"guest": guest,
	})
}

// notFound is the uniform miss response: it never says which part of the
// address was wrong.
func (h *InvitationHandler) notFound(c *gin.Context) {
	c.JSON(http.StatusNotFound, gin.H{"error": "invitation not found"})
}
