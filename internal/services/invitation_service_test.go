package services

import (
	"context"
	"fmt"
	"testing"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"invitation-platform/internal/models"
	"invitation-platform/internal/repository"
)

func setupTestDB(t *testing.T) *gorm.DB {
	// A named shared-cache memory DB keeps every connection of one test on
	// the same database while isolating tests from each other.
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to connect database: %v", err)
	}

	err = db.AutoMigrate(
		&models.User{},
		&models.Template{},
		&models.Event{},
		&models.Guest{},
		&models.AdminUser{},
		&models.AdminLog{},
		&models.Asset{},
		&models.PlatformStats{},
	)
	if err != nil {
		t.Fatalf("failed to migrate database: %v", err)
	}

	return db
}

// fixture creates an owner, an event with a slug, and one guest of it
func fixture(t *testing.T, db *gorm.DB, slug string) (*models.Event, *models.Guest) {
	t.Helper()
	ctx := context.Background()

	repo := repository.NewRepository(db)
	eventService := NewEventService(db, repo)
	guestService := NewGuestService(db, repo)

	owner := models.User{Email: fmt.Sprintf("%s@example.com", slug), PasswordHash: "x"}
	if err := db.Create(&owner).Error; err != nil {
		t.Fatalf("failed to create owner: %v", err)
	}

	event, err := eventService.Create(ctx, owner.ID, EventInput{
		Title:        "Wedding",
		PartyNameOne: "Smith",
		PartyNameTwo: "Jones",
	})
	if err != nil {
		t.Fatalf("failed to create event: %v", err)
	}

	guest, err := guestService.Create(ctx, event.ID, GuestInput{Name: "Ada"})
	if err != nil {
		t.Fatalf("failed to create guest: %v", err)
	}

	return event, guest
}

func TestParseLocatorSegmentCounts(t *testing.T) {
	if _, ok := ParseLocator(nil); ok {
		t.Error("0 segments should not parse")
	}
	if _, ok := ParseLocator([]string{"a", "b", "c"}); ok {
		t.Error("3 segments should not parse")
	}
	if _, ok := ParseLocator([]string{""}); ok {
		t.Error("empty segment should not parse")
	}

	loc, ok := ParseLocator([]string{"sometoken"})
	if !ok || loc.Kind != LocatorLegacyToken || loc.Token != "sometoken" {
		t.Errorf("unexpected locator %+v", loc)
	}

	loc, ok = ParseLocator([]string{"smith-jones-ab12c", "7F3KQ"})
	if !ok || loc.Kind != LocatorSlugAndCode || loc.Slug != "smith-jones-ab12c" || loc.Code != "7F3KQ" {
		t.Errorf("unexpected locator %+v", loc)
	}
}

func TestResolveLegacyToken(t *testing.T) {
	db := setupTestDB(t)
	event, guest := fixture(t, db, "legacy")
	svc := NewInvitationService(db, repository.NewRepository(db))

	gotEvent, gotGuest, err := svc.Resolve(context.Background(), Locator{
		Kind:  LocatorLegacyToken,
		Token: guest.Token,
	})
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	if gotEvent.ID != event.ID {
		t.Errorf("expected event %d, got %d", event.ID, gotEvent.ID)
	}
	if gotGuest.ID != guest.ID {
		t.Errorf("expected guest %d, got %d", guest.ID, gotGuest.ID)
	}
}

func TestResolveSlugAndCode(t *testing.T) {
	db := setupTestDB(t)
	event, guest := fixture(t, db, "slugcode")
	svc := NewInvitationService(db, repository.NewRepository(db))

	gotEvent, gotGuest, err := svc.Resolve(context.Background(), Locator{
		Kind: LocatorSlugAndCode,
		Slug: *event.Slug,
		Code: *guest.ShortCode,
	})
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	if gotEvent.ID != event.ID || gotGuest.ID != guest.ID {
		t.Errorf("resolved wrong pair: event %d guest %d", gotEvent.ID, gotGuest.ID)
	}
}

func TestResolveRejectsCrossEventPairing(t *testing.T) {
	db := setupTestDB(t)
	eventA, _ := fixture(t, db, "eventa")
	_, guestB := fixture(t, db, "eventb")
	svc := NewInvitationService(db, repository.NewRepository(db))

	// Event A's slug with event B's guest code: both exist, pairing does not.
	_, _, err := svc.Resolve(context.Background(), Locator{
		Kind: LocatorSlugAndCode,
		Slug: *eventA.Slug,
		Code: *guestB.ShortCode,
	})
	if err != ErrNotFound {
		t.Fatalf("expected ErrNotFound for mismatched pairing, got %v", err)
	}

	// The rejected view must not have marked the guest opened.
	var fresh models.Guest
	if err := db.First(&fresh, guestB.ID).Error; err != nil {
		t.Fatalf("failed to reload guest: %v", err)
	}
	if fresh.Status != models.GuestStatusInvited {
		t.Errorf("guest status changed to %s by a rejected resolve", fresh.Status)
	}
}

func TestResolveUnknownIdentifiers(t *testing.T) {
	db := setupTestDB(t)
	event, guest := fixture(t, db, "unknown")
	svc := NewInvitationService(db, repository.NewRepository(db))
	ctx := context.Background()

	cases := []Locator{
		{Kind: LocatorLegacyToken, Token: "nosuchtoken"},
		{Kind: LocatorSlugAndCode, Slug: "nosuchslug", Code: *guest.ShortCode},
		{Kind: LocatorSlugAndCode, Slug: *event.Slug, Code: "ZZZZZ"},
		{Kind: LocatorPreview, EventID: event.ID + 1000, Token: guest.Token},
	}

	for i, loc := range cases {
		if _, _, err := svc.Resolve(ctx, loc); err != ErrNotFound {
			t.Errorf("case %d: expected ErrNotFound, got %v", i, err)
		}
	}
}

func TestResolveIdempotentAndMarksOpened(t *testing.T) {
	db := setupTestDB(t)
	event, guest := fixture(t, db, "idem")
	svc := NewInvitationService(db, repository.NewRepository(db))
	ctx := context.Background()

	loc := Locator{Kind: LocatorSlugAndCode, Slug: *event.Slug, Code: *guest.ShortCode}

	firstEvent, firstGuest, err := svc.Resolve(ctx, loc)
	if err != nil {
		t.Fatalf("first resolve failed: %v", err)
	}

	secondEvent, secondGuest, err := svc.Resolve(ctx, loc)
	if err != nil {
		t.Fatalf("second resolve failed: %v", err)
	}

	if firstEvent.ID != secondEvent.ID || firstGuest.ID != secondGuest.ID {
		t.Error("repeated resolve returned a different pair")
	}

	// The second call observes the first call's side effect.
	if secondGuest.Status != models.GuestStatusOpened {
		t.Errorf("expected status opened on second resolve, got %s", secondGuest.Status)
	}
	if secondGuest.OpenedAt == nil {
		t.Error("expected opened_at to be set")
	}
}

func TestResolvePreviewCrossChecksToken(t *testing.T) {
	db := setupTestDB(t)
	eventA, guestA := fixture(t, db, "previewa")
	_, guestB := fixture(t, db, "previewb")
	svc := NewInvitationService(db, repository.NewRepository(db))
	ctx := context.Background()

	// Matching pair resolves.
	gotEvent, gotGuest, err := svc.Resolve(ctx, Locator{
		Kind:    LocatorPreview,
		EventID: eventA.ID,
		Token:   guestA.Token,
	})
	if err != nil {
		t.Fatalf("preview resolve failed: %v", err)
	}
	if gotEvent.ID != eventA.ID || gotGuest.ID != guestA.ID {
		t.Error("preview resolved wrong pair")
	}

	// A valid token of another event's guest must not unlock this event.
	if _, _, err := svc.Resolve(ctx, Locator{
		Kind:    LocatorPreview,
		EventID: eventA.ID,
		Token:   guestB.Token,
	}); err != ErrNotFound {
		t.Fatalf("expected ErrNotFound for foreign token, got %v", err)
	}
}

func TestBackfilledGuestResolves(t *testing.T) {
	db := setupTestDB(t)
	event, _ := fixture(t, db, "backfill")
	repo := repository.NewRepository(db)
	guestService := NewGuestService(db, repo)
	svc := NewInvitationService(db, repo)
	ctx := context.Background()

	// A guest from before the short-code scheme: token only.
	legacy := models.Guest{
		EventID: event.ID,
		Name:    "Old Guest",
		Token:   "legacy-token-xyz",
		Status:  models.GuestStatusInvited,
	}
	if err := db.Create(&legacy).Error; err != nil {
		t.Fatalf("failed to create legacy guest: %v", err)
	}

	if err := guestService.EnsureShortCode(ctx, &legacy); err != nil {
		t.Fatalf("EnsureShortCode failed: %v", err)
	}
	if legacy.ShortCode == nil {
		t.Fatal("short code not assigned")
	}

	// EnsureShortCode is idempotent.
	before := *legacy.ShortCode
	if err := guestService.EnsureShortCode(ctx, &legacy); err != nil {
		t.Fatalf("second EnsureShortCode failed: %v", err)
	}
	if *legacy.ShortCode != before {
		t.Error("EnsureShortCode replaced an existing code")
	}

	// The backfilled guest now resolves through the current scheme.
	_, gotGuest, err := svc.Resolve(ctx, Locator{
		Kind: LocatorSlugAndCode,
		Slug: *event.Slug,
		Code: *legacy.ShortCode,
	})
	if err != nil {
		t.Fatalf("resolve after backfill failed: %v", err)
	}
	if gotGuest.ID != legacy.ID {
		t.Errorf("expected guest %d, got %d", legacy.ID, gotGuest.ID)
	}
}

func TestRSVPUpdatesStatus(t *testing.T) {
	db := setupTestDB(t)
	event, guest := fixture(t, db, "rsvp")
	svc := NewInvitationService(db, repository.NewRepository(db))
	ctx := context.Background()

	loc := Locator{Kind: LocatorSlugAndCode, Slug: *event.Slug, Code: *guest.ShortCode}

	updated, err := svc.RSVP(ctx, loc, RSVPInput{Attending: true, PlusOnes: 2, Note: "see you there"})
	if err != nil {
		t.Fatalf("RSVP failed: %v", err)
	}

	var fresh models.Guest
	if err := db.First(&fresh, updated.ID).Error; err != nil {
		t.Fatalf("failed to reload guest: %v", err)
	}
	if fresh.Status != models.GuestStatusAttending {
		t.Errorf("expected status attending, got %s", fresh.Status)
	}
	if fresh.PlusOnes != 2 {
		t.Errorf("expected 2 plus ones, got %d", fresh.PlusOnes)
	}
	if fresh.RespondedAt == nil {
		t.Error("expected responded_at to be set")
	}

	// RSVP through a mismatched pairing is rejected.
	_, guestB := fixture(t, db, "rsvpb")
	if _, err := svc.RSVP(ctx, Locator{
		Kind: LocatorSlugAndCode,
		Slug: *event.Slug,
		Code: *guestB.ShortCode,
	}, RSVPInput{Attending: false}); err != ErrNotFound {
		t.Fatalf("expected ErrNotFound for mismatched rsvp, got %v", err)
	}
}
