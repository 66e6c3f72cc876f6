package services

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"invitation-platform/internal/models"
	"invitation-platform/internal/repository"
)

// LocatorKind discriminates the supported invitation addressing schemes
type LocatorKind int

const (
	// LocatorLegacyToken is the original single-segment form: /invite/{token}
	LocatorLegacyToken LocatorKind = iota
	// LocatorSlugAndCode is the current form: /invite/{slug}/{code}
	LocatorSlugAndCode
	// LocatorPreview addresses the event by id with the guest token in a
	// query parameter: /invitation/{eventId}?g={token}
	LocatorPreview
)

// Locator is the tagged union of every way an invitation URL can address a
// (event, guest) pair. All variants go through the same Resolve procedure so
// validation cannot drift between them.
type Locator struct {
	Kind    LocatorKind
	Token   string
	Slug    string
	Code    string
	EventID uint
}

// ParseLocator maps invitation path segments onto a Locator. One segment is
// the legacy token form, two segments are slug+code; anything else is not a
// valid invitation address.
func ParseLocator(segments []string) (Locator, bool) {
	switch len(segments) {
	case 1:
		if segments[0] == "" {
			return Locator{}, false
		}
		return Locator{Kind: LocatorLegacyToken, Token: segments[0]}, true
	case 2:
		if segments[0] == "" || segments[1] == "" {
			return Locator{}, false
		}
		return Locator{Kind: LocatorSlugAndCode, Slug: segments[0], Code: segments[1]}, true
	default:
		return Locator{}, false
	}
}

// InvitationService resolves invitation locators to verified (event, guest)
// pairs. It consumes the stores read-only apart from the best-effort
// opened-status side effect.
type InvitationService struct {
	db   *gorm.DB
	repo *repository.Repository
	log  zerolog.Logger
}

// NewInvitationService creates a new InvitationService
func NewInvitationService(db *gorm.DB, repo *repository.Repository) *InvitationService {
	return &InvitationService{
		db:   db,
		repo: repo,
		log:  zerolog.New(os.Stdout).With().Timestamp().Str("component", "invitations").Logger(),
	}
}

// Resolve maps a locator to exactly one (event, guest) pair or ErrNotFound.
// Every miss — unknown slug, unknown code, unknown token, or a guest that
// belongs to a different event than the one addressed — yields the same
// ErrNotFound, so the response never reveals which lookup failed.
//
// On success the guest is marked opened. That write is best-effort: viewing
// an invitation never fails because the status update did.
func (s *InvitationService) Resolve(ctx context.Context, loc Locator) (*models.Event, *models.Guest, error) {
	event, guest, err := s.lookup(ctx, loc)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil, ErrNotFound
		}
		return nil, nil, err
	}

	if guest.EventID != event.ID {
		return nil, nil, ErrNotFound
	}

	if err := s.repo.MarkGuestOpened(ctx, guest.ID); err != nil {
		s.log.Warn().Err(err).Uint("guest_id", guest.ID).Msg("failed to mark invitation opened")
	}

	return event, guest, nil
}

// lookup runs the scheme-specific fetches. Exhaustive over LocatorKind.
func (s *InvitationService) lookup(ctx context.Context, loc Locator) (*models.Event, *models.Guest, error) {
	switch loc.Kind {
	case LocatorLegacyToken:
		guest, err := s.repo.GetGuestByToken(ctx, loc.Token)
		if err != nil {
			return nil, nil, err
		}
		event, err := s.repo.GetEventByID(ctx, guest.EventID)
		if err != nil {
			return nil, nil, err
		}
		return event, guest, nil

	case LocatorSlugAndCode:
		event, err := s.repo.GetEventBySlug(ctx, loc.Slug)
		if err != nil {
			return nil, nil, err
		}
		guest, err := s.repo.GetGuestByShortCode(ctx, loc.Code)
		if err != nil {
			return nil, nil, err
		}
		return event, guest, nil

	case LocatorPreview:
		event, err := s.repo.GetEventByID(ctx, loc.EventID)
		if err != nil {
			return nil, nil, err
		}
		guest, err := s.repo.GetGuestByToken(ctx, loc.Token)
		if err != nil {
			return nil, nil, err
		}
		return event, guest, nil

	default:
		return nil, nil, ErrNotFound
	}
}

// RSVPInput carries a guest's answer to an invitation
type RSVPInput struct {
	Attending bool   `json:"attending"`
	PlusOnes  int    `json:"plus_ones" binding:"min=0,max=10"`
	Note      string `json:"note" binding:"max=1000"`
}

// RSVP records a guest's answer for a resolvable invitation. The locator is
// resolved with the same procedure as viewing, so an RSVP cannot be recorded
// against a mismatched (event, guest) pair.
func (s *InvitationService) RSVP(ctx context.Context, loc Locator, input RSVPInput) (*models.Guest, error) {
	_, guest, err := s.Resolve(ctx, loc)
	if err != nil {
		return nil, err
	}

	status := models.GuestStatusAttending
	if !input.Attending {
		status = models.GuestStatusDeclined
	}

	now := time.Now()
	updates := map[string]interface{}{
		"status":       status,
		"plus_ones":    input.PlusOnes,
		"note":         input.Note,
		"responded_at": now,
	}
	if err := s.db.WithContext(ctx).Model(guest).Updates(updates).Error; err != nil {
		return nil, fmt.Errorf("failed to record rsvp: %w", err)
	}

	s.log.Info().Uint("guest_id", guest.ID).Str("status", string(status)).Msg("rsvp recorded")
	return guest, nil
}
