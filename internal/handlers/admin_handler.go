package handlers

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"invitation-platform/internal/auth"
	"invitation-platform/internal/services"
)

// AdminHandler handles the admin surface: templates, assets, users, logs
type AdminHandler struct {
	adminService    *services.AdminService
	templateService *services.TemplateService
}

// NewAdminHandler creates a new AdminHandler
func NewAdminHandler(adminService *services.AdminService, templateService *services.TemplateService) *AdminHandler {
	return &AdminHandler{
		adminService:    adminService,
		templateService: templateService,
	}
}

// AdminMiddleware checks if user is admin
func (h *AdminHandler) AdminMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, exists := auth.GetUserID(c)
		if !exists {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			c.Abort()
			return
		}

		admin, err := h.adminService.GetAdminByUserID(userID)
		if err != nil {
			c.JSON(http.StatusForbidden, gin.H{"error": "Not an admin"})
			c.Abort()
			return
		}

		c.Set("admin_id", admin.ID)
		c.Set("admin_role", admin.Role)
		c.Next()
	}
}

// SuperAdminMiddleware checks if user is super admin
func (h *AdminHandler) SuperAdminMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		role, exists := c.Get("admin_role")
		if !exists || role != "SUPER_ADMIN" {
			c.JSON(http.StatusForbidden, gin.H{"error": "Super admin access required"})
			c.Abort()
			return
		}
		c.Next()
	}
}

// ListAllTemplates returns the full template catalog, inactive included
// GET /api/admin/templates
func (h *AdminHandler) ListAllTemplates(c *gin.Context) {
	templates, err := h.templateService.ListAll(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list templates"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"templates": templates})
}

// CreateTemplate adds a template to the global catalog
// POST /api/admin/templates
func (h *AdminHandler) CreateTemplate(c *gin.Context) {
	var input services.TemplateInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	template, err := h.templateService.Create(c.Request.Context(), input)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create template"})
		return
	}

	h.audit(c, "create_template", "template", template.ID, template.Name)
	c.JSON(http.StatusCreated, gin.H{"template": template})
}

// UpdateTemplate modifies a template
// PUT /api/admin/templates/:id
func (h *AdminHandler) UpdateTemplate(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid template id"})
		return
	}

	var input services.TemplateInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	template, err := h.templateService.Update(c.Request.Context(), uint(id), input)
	if err != nil {
		if err == services.ErrNotFound {
			c.JSON(http.StatusNotFound, gin.H{"error": "template not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update template"})
		return
	}

	h.audit(c, "update_template", "template", template.ID, template.Name)
	c.JSON(http.StatusOK, gin.H{"template": template})
}

// DeactivateTemplate retires a template from pickers
// DELETE /api/admin/templates/:id
func (h *AdminHandler) DeactivateTemplate(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid template id"})
		return
	}

	if err := h.templateService.Deactivate(c.Request.Context(), uint(id)); err != nil {
		if err == services.ErrNotFound {
			c.JSON(http.StatusNotFound, gin.H{"error": "template not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to deactivate template"})
		return
	}

	h.audit(c, "deactivate_template", "template", uint(id), "")
	c.JSON(http.StatusOK, gin.H{"message": "template deactivated"})
}

// RegisterAsset records an uploaded branding or media asset
// POST /api/admin/assets
func (h *AdminHandler) RegisterAsset(c *gin.Context) {
	userID, _ := auth.GetUserID(c)

	var input services.AssetInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	asset, err := h.templateService.RegisterAsset(c.Request.Context(), userID, input)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to register asset"})
		return
	}

	h.audit(c, "register_asset", "asset", asset.ID, asset.Kind)
	c.JSON(http.StatusCreated, gin.H{"asset": asset})
}

// ListAssets returns registered assets, optionally filtered by kind
// GET /api/admin/assets?kind=logo
func (h *AdminHandler) ListAssets(c *gin.Context) {
	assets, err := h.templateService.ListAssets(c.Request.Context(), c.Query("kind"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list assets"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"assets": assets})
}

// GetUsers returns a page of registered users
// GET /api/admin/users?limit=50&offset=0
func (h *AdminHandler) GetUsers(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))
	if limit <= 0 || limit > 200 {
		limit = 50
	}

	users, total, err := h.adminService.ListUsers(c.Request.Context(), limit, offset)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list users"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"users": users,
		"total": total,
	})
}

// PromoteToAdmin grants admin rights to a user
// POST /api/admin/users/promote
func (h *AdminHandler) PromoteToAdmin(c *gin.Context) {
	var req struct {
		UserID uint   `json:"user_id" binding:"required"`
		Role   string `json:"role" binding:"required,oneof=SUPER_ADMIN MODERATOR"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	adminID := h.adminID(c)
	admin, err := h.adminService.PromoteUserToAdmin(c.Request.Context(), req.UserID, req.Role, adminID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"admin": admin})
}

// GetAdminLogs returns the most recent audit entries
// GET /api/admin/logs
func (h *AdminHandler) GetAdminLogs(c *gin.Context) {
	logs, err := h.adminService.GetLogs(c.Request.Context(), 100)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list logs"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"logs": logs})
}

// GetPlatformStats takes and returns a fresh stats snapshot
// GET /api/admin/stats
func (h *AdminHandler) GetPlatformStats(c *gin.Context) {
	stats, err := h.adminService.SnapshotStats(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to collect stats"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"stats": stats})
}

// audit writes an audit entry for the acting admin
func (h *AdminHandler) audit(c *gin.Context, action, targetType string, targetID uint, name string) {
	adminID := h.adminID(c)
	details := ""
	if name != "" {
		details = fmt.Sprintf("name=%s", name)
	}
	h.adminService.LogAction(c.Request.Context(), adminID, action, targetType, targetID, details)
}

// adminID reads the acting admin's id set by AdminMiddleware
func (h *AdminHandler) adminID(c *gin.Context) uint {
	v, exists := c.Get("admin_id")
	if !exists {
		return 0
	}
	id, _ := v.(uint)
	return id
}
