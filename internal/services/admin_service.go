package services

import (
	"context"
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"invitation-platform/internal/models"
)

// AdminService handles administrator records, permissions and audit logs
type AdminService struct {
	db  *gorm.DB
	log zerolog.Logger
}

// NewAdminService creates a new AdminService
func NewAdminService(db *gorm.DB) *AdminService {
	return &AdminService{
		db:  db,
		log: zerolog.New(os.Stdout).With().Timestamp().Str("component", "admin").Logger(),
	}
}

// IsAdmin checks if a user is an admin
func (s *AdminService) IsAdmin(userID uint) bool {
	var admin models.AdminUser
	result := s.db.Where("user_id = ?", userID).First(&admin)
	return result.Error == nil
}

// GetAdminByUserID gets admin by user ID
func (s *AdminService) GetAdminByUserID(userID uint) (*models.AdminUser, error) {
	var admin models.AdminUser
	if err := s.db.Where("user_id = ?", userID).First(&admin).Error; err != nil {
		return nil, err
	}
	return &admin, nil
}

// PromoteUserToAdmin promotes a user to admin with the default permission set
func (s *AdminService) PromoteUserToAdmin(ctx context.Context, userID uint, role string, promotedByAdminID uint) (*models.AdminUser, error) {
	var user models.User
	if err := s.db.WithContext(ctx).First(&user, userID).Error; err != nil {
		return nil, fmt.Errorf("user not found: %w", err)
	}

	var existing models.AdminUser
	if err := s.db.WithContext(ctx).Where("user_id = ?", userID).First(&existing).Error; err == nil {
		return nil, fmt.Errorf("user is already an admin")
	}

	permissions := models.JSONB{
		"manage_templates": true,
		"manage_assets":    true,
		"manage_users":     role == "SUPER_ADMIN",
	}

	admin := models.AdminUser{
		UserID:      userID,
		Role:        role,
		Permissions: permissions,
	}

	if err := s.db.WithContext(ctx).Create(&admin).Error; err != nil {
		return nil, fmt.Errorf("failed to create admin: %w", err)
	}

	s.LogAction(ctx, promotedByAdminID, "promote_admin", "user", userID, fmt.Sprintf("role=%s", role))
	s.log.Info().Uint("user_id", userID).Str("role", role).Msg("user promoted to admin")
	return &admin, nil
}

// HasPermission checks one permission flag of an admin
func (s *AdminService) HasPermission(userID uint, permission string) bool {
	admin, err := s.GetAdminByUserID(userID)
	if err != nil {
		return false
	}
	if admin.Role == "SUPER_ADMIN" {
		return true
	}
	allowed, ok := admin.Permissions[permission].(bool)
	return ok && allowed
}

// ListUsers returns a page of registered users
func (s *AdminService) ListUsers(ctx context.Context, limit, offset int) ([]models.User, int64, error) {
	var total int64
	if err := s.db.WithContext(ctx).Model(&models.User{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var users []models.User
	err := s.db.WithContext(ctx).
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&users).Error
	if err != nil {
		return nil, 0, err
	}
	return users, total, nil
}

// LogAction records an admin mutation in the audit trail. Best-effort: a
// failed audit write never fails the action itself.
func (s *AdminService) LogAction(ctx context.Context, adminID uint, action, targetType string, targetID uint, details string) {
	entry := models.AdminLog{
		AdminID:    adminID,
		Action:     action,
		TargetType: targetType,
		TargetID:   targetID,
		Details:    details,
	}
	if err := s.db.WithContext(ctx).Create(&entry).Error; err != nil {
		s.log.Warn().Err(err).Str("action", action).Msg("failed to write admin log")
	}
}

// GetLogs returns the most recent audit entries
func (s *AdminService) GetLogs(ctx context.Context, limit int) ([]models.AdminLog, error) {
	var logs []models.AdminLog
	err := s.db.WithContext(ctx).
		Preload("Admin").Preload("Admin.User").
		Order("created_at DESC").
		Limit(limit).
		Find(&logs).Error
	if err != nil {
		return nil, err
	}
	return logs, nil
}

// SnapshotStats counts the platform-wide totals and stores them as a new
// PlatformStats row. Called by the periodic stats job and the admin endpoint.
func (s *AdminService) SnapshotStats(ctx context.Context) (*models.PlatformStats, error) {
	var stats models.PlatformStats

	if err := s.db.WithContext(ctx).Model(&models.User{}).Count(&stats.TotalUsers).Error; err != nil {
		return nil, err
	}
	if err := s.db.WithContext(ctx).Model(&models.Event{}).Count(&stats.TotalEvents).Error; err != nil {
		return nil, err
	}
	if err := s.db.WithContext(ctx).Model(&models.Guest{}).Count(&stats.TotalGuests).Error; err != nil {
		return nil, err
	}
	if err := s.db.WithContext(ctx).Model(&models.Guest{}).
		Where("status != ?", models.GuestStatusInvited).
		Count(&stats.OpenedInvitations).Error; err != nil {
		return nil, err
	}

	if err := s.db.WithContext(ctx).Create(&stats).Error; err != nil {
		return nil, fmt.Errorf("failed to store stats snapshot: %w", err)
	}
	return &stats, nil
}
