package services

import (
	"context"
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"invitation-platform/internal/identifier"
	"invitation-platform/internal/models"
	"invitation-platform/internal/repository"
)

// GuestInput carries the user-editable guest fields
type GuestInput struct {
	Name  string `json:"name" binding:"required,max=150"`
	Phone string `json:"phone"`
	Email string `json:"email"`
}

// GuestService handles guest creation, import and lifecycle
type GuestService struct {
	db   *gorm.DB
	repo *repository.Repository
	log  zerolog.Logger
}

// NewGuestService creates a new GuestService
func NewGuestService(db *gorm.DB, repo *repository.Repository) *GuestService {
	return &GuestService{
		db:   db,
		repo: repo,
		log:  zerolog.New(os.Stdout).With().Timestamp().Str("component", "guests").Logger(),
	}
}

// Create persists a new guest with a fresh legacy token and a unique short
// code. The caller must have passed the ownership check for the event.
func (s *GuestService) Create(ctx context.Context, eventID uint, input GuestInput) (*models.Guest, error) {
	token, err := identifier.Token()
	if err != nil {
		return nil, err
	}

	code, err := s.allocateShortCode(ctx)
	if err != nil {
		return nil, err
	}

	guest := models.Guest{
		EventID:   eventID,
		Name:      input.Name,
		Phone:     input.Phone,
		Email:     input.Email,
		Token:     token,
		ShortCode: &code,
		Status:    models.GuestStatusInvited,
	}

	if err := s.db.WithContext(ctx).Create(&guest).Error; err != nil {
		// FK violation when the event does not exist; unique violation when a
		// concurrent create won the race on the same code.
		return nil, fmt.Errorf("failed to create guest: %w", err)
	}

	s.log.Info().Uint("guest_id", guest.ID).Uint("event_id", eventID).Str("code", code).Msg("guest created")
	return &guest, nil
}

// Import creates guests in bulk from pre-parsed entries. Individual failures
// are collected, not fatal: the remaining rows are still imported.
func (s *GuestService) Import(ctx context.Context, eventID uint, entries []GuestInput) ([]models.Guest, []error) {
	var created []models.Guest
	var failures []error

	for i, entry := range entries {
		guest, err := s.Create(ctx, eventID, entry)
		if err != nil {
			failures = append(failures, fmt.Errorf("entry %d (%s): %w", i, entry.Name, err))
			continue
		}
		created = append(created, *guest)
	}

	if len(failures) > 0 {
		s.log.Warn().Int("failed", len(failures)).Int("created", len(created)).
			Uint("event_id", eventID).Msg("guest import finished with failures")
	}
	return created, failures
}

// GetByID retrieves a guest
func (s *GuestService) GetByID(ctx context.Context, guestID uint) (*models.Guest, error) {
	var guest models.Guest
	if err := s.db.WithContext(ctx).First(&guest, guestID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &guest, nil
}

// ListByEvent returns all guests of an event, oldest first
func (s *GuestService) ListByEvent(ctx context.Context, eventID uint) ([]models.Guest, error) {
	var guests []models.Guest
	err := s.db.WithContext(ctx).
		Where("event_id = ?", eventID).
		Order("created_at ASC").
		Find(&guests).Error
	if err != nil {
		return nil, err
	}
	return guests, nil
}

// Delete hard-deletes a guest. Ownership of the parent event must have been
// verified by the caller through EventService.AuthorizeOwner.
func (s *GuestService) Delete(ctx context.Context, guestID uint) error {
	result := s.db.WithContext(ctx).Delete(&models.Guest{}, guestID)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// EnsureShortCode assigns a short code to a guest created before the current
// addressing scheme. Idempotent; used by the backfill command.
func (s *GuestService) EnsureShortCode(ctx context.Context, guest *models.Guest) error {
	if guest.ShortCode != nil && *guest.ShortCode != "" {
		return nil
	}

	code, err := s.allocateShortCode(ctx)
	if err != nil {
		return err
	}

	if err := s.db.WithContext(ctx).Model(guest).Update("short_code", code).Error; err != nil {
		return fmt.Errorf("failed to store short code: %w", err)
	}
	guest.ShortCode = &code

	s.log.Info().Uint("guest_id", guest.ID).Str("code", code).Msg("short code backfilled")
	return nil
}

// allocateShortCode runs the bounded generate-check protocol against the
// system-wide short-code population
func (s *GuestService) allocateShortCode(ctx context.Context) (string, error) {
	return identifier.Allocate(
		identifier.ShortCode,
		identifier.ShortCodeLength,
		func(candidate string) (bool, error) {
			return s.repo.ShortCodeExists(ctx, candidate)
		},
	)
}
