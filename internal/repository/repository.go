package repository

import (
	"context"
	"time"

	"invitation-platform/internal/models"

	"gorm.io/gorm"
)

// Repository bundles the lookup queries shared by the invitation resolver,
// the identifier allocator and the backfill command.
type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// GetEventByID retrieves an event by its internal id
func (r *Repository) GetEventByID(ctx context.Context, eventID uint) (*models.Event, error) {
	var event models.Event
	err := r.db.WithContext(ctx).Where("id = ?", eventID).First(&event).Error
	if err != nil {
		return nil, err
	}
	return &event, nil
}

// GetEventBySlug retrieves an event by its public slug
func (r *Repository) GetEventBySlug(ctx context.Context, slug string) (*models.Event, error) {
	var event models.Event
	err := r.db.WithContext(ctx).Where("slug = ?", slug).First(&event).Error
	if err != nil {
		return nil, err
	}
	return &event, nil
}

// GetGuestByToken retrieves a guest by their legacy access token
func (r *Repository) GetGuestByToken(ctx context.Context, token string) (*models.Guest, error) {
	var guest models.Guest
	err := r.db.WithContext(ctx).Where("token = ?", token).First(&guest).Error
	if err != nil {
		return nil, err
	}
	return &guest, nil
}

// GetGuestByShortCode retrieves a guest by their short code
func (r *Repository) GetGuestByShortCode(ctx context.Context, code string) (*models.Guest, error) {
	var guest models.Guest
	err := r.db.WithContext(ctx).Where("short_code = ?", code).First(&guest).Error
	if err != nil {
		return nil, err
	}
	return &guest, nil
}

// ShortCodeExists reports whether any guest already holds the given code
func (r *Repository) ShortCodeExists(ctx context.Context, code string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Guest{}).
		Where("short_code = ?", code).
		Count(&count).Error
	return count > 0, err
}

// SlugExists reports whether any event already holds the given slug
func (r *Repository) SlugExists(ctx context.Context, slug string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Event{}).
		Where("slug = ?", slug).
		Count(&count).Error
	return count > 0, err
}

// MarkGuestOpened flips a guest to "opened" the first time their invitation
// is viewed. Later statuses (attending, declined) are never downgraded.
func (r *Repository) MarkGuestOpened(ctx context.Context, guestID uint) error {
	now := time.Now()
	return r.db.WithContext(ctx).Model(&models.Guest{}).
		Where("id = ? AND status = ?", guestID, models.GuestStatusInvited).
		Updates(map[string]interface{}{
			"status":    models.GuestStatusOpened,
			"opened_at": now,
		}).Error
}
