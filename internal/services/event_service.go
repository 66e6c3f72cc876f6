package services

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"invitation-platform/internal/identifier"
	"invitation-platform/internal/models"
	"invitation-platform/internal/repository"
)

// EventInput carries the user-editable event fields
type EventInput struct {
	Title        string          `json:"title" binding:"required,max=255"`
	Date         time.Time       `json:"date"`
	Location     string          `json:"location"`
	PartyNameOne string          `json:"party_name_one"`
	PartyNameTwo string          `json:"party_name_two"`
	TemplateID   *uint           `json:"template_id"`
	Schedule     models.Schedule `json:"schedule"`
}

// EventService handles event creation, updates and slug assignment
type EventService struct {
	db   *gorm.DB
	repo *repository.Repository
	log  zerolog.Logger
}

// NewEventService creates a new EventService
func NewEventService(db *gorm.DB, repo *repository.Repository) *EventService {
	return &EventService{
		db:   db,
		repo: repo,
		log:  zerolog.New(os.Stdout).With().Timestamp().Str("component", "events").Logger(),
	}
}

// Create persists a new event for the owner and assigns a slug right away
func (s *EventService) Create(ctx context.Context, ownerID uint, input EventInput) (*models.Event, error) {
	event := models.Event{
		OwnerID:      ownerID,
		Title:        input.Title,
		Date:         input.Date,
		Location:     input.Location,
		PartyNameOne: input.PartyNameOne,
		PartyNameTwo: input.PartyNameTwo,
		TemplateID:   input.TemplateID,
		Schedule:     input.Schedule,
	}

	if err := s.db.WithContext(ctx).Create(&event).Error; err != nil {
		return nil, fmt.Errorf("failed to create event: %w", err)
	}

	if err := s.EnsureSlug(ctx, &event); err != nil {
		// The event is usable without a slug; legacy token links still work.
		s.log.Warn().Err(err).Uint("event_id", event.ID).Msg("slug assignment failed")
	}

	s.log.Info().Uint("event_id", event.ID).Uint("owner_id", ownerID).Msg("event created")
	return &event, nil
}

// Update applies the input to an existing event and re-runs slug assignment
// in case party names arrived for a slugless event
func (s *EventService) Update(ctx context.Context, eventID uint, input EventInput) (*models.Event, error) {
	event, err := s.GetByID(ctx, eventID)
	if err != nil {
		return nil, err
	}

	event.Title = input.Title
	event.Date = input.Date
	event.Location = input.Location
	event.PartyNameOne = input.PartyNameOne
	event.PartyNameTwo = input.PartyNameTwo
	event.TemplateID = input.TemplateID
	event.Schedule = input.Schedule

	if err := s.db.WithContext(ctx).Save(event).Error; err != nil {
		return nil, fmt.Errorf("failed to update event: %w", err)
	}

	if err := s.EnsureSlug(ctx, event); err != nil {
		s.log.Warn().Err(err).Uint("event_id", event.ID).Msg("slug assignment failed")
	}

	return event, nil
}

// EnsureSlug assigns a unique slug to the event if it does not have one yet.
// Idempotent: an already-slugged event is left untouched. Called from
// creation, update and backfill alike.
func (s *EventService) EnsureSlug(ctx context.Context, event *models.Event) error {
	if event.Slug != nil && *event.Slug != "" {
		return nil
	}

	slug, err := identifier.Allocate(
		func(int) (string, error) {
			return identifier.EventSlug(event.PartyNameOne, event.PartyNameTwo, event.Title)
		},
		identifier.ShortCodeLength,
		func(candidate string) (bool, error) {
			return s.repo.SlugExists(ctx, candidate)
		},
	)
	if err != nil {
		return err
	}

	if err := s.db.WithContext(ctx).Model(event).Update("slug", slug).Error; err != nil {
		return fmt.Errorf("failed to store slug: %w", err)
	}
	event.Slug = &slug

	s.log.Info().Uint("event_id", event.ID).Str("slug", slug).Msg("slug assigned")
	return nil
}

// GetByID retrieves an event
func (s *EventService) GetByID(ctx context.Context, eventID uint) (*models.Event, error) {
	event, err := s.repo.GetEventByID(ctx, eventID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return event, nil
}

// ListByOwner returns all events owned by a user, newest first
func (s *EventService) ListByOwner(ctx context.Context, ownerID uint) ([]models.Event, error) {
	var events []models.Event
	err := s.db.WithContext(ctx).
		Where("owner_id = ?", ownerID).
		Order("created_at DESC").
		Find(&events).Error
	if err != nil {
		return nil, err
	}
	return events, nil
}

// AuthorizeOwner is the single ownership gate for event and guest mutations.
// Every mutating call site goes through here rather than re-implementing the
// check ad hoc.
func (s *EventService) AuthorizeOwner(ctx context.Context, userID, eventID uint) error {
	event, err := s.GetByID(ctx, eventID)
	if err != nil {
		return err
	}
	if event.OwnerID != userID {
		return ErrForbidden
	}
	return nil
}
