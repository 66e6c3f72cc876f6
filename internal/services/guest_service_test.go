package services

import (
	"context"
	"fmt"
	"regexp"
	"testing"

	"invitation-platform/internal/models"
	"invitation-platform/internal/repository"
)

func TestCreateGuestShortCodeFormatAndUniqueness(t *testing.T) {
	db := setupTestDB(t)
	event, _ := fixture(t, db, "codes")
	svc := NewGuestService(db, repository.NewRepository(db))
	ctx := context.Background()

	pattern := regexp.MustCompile(`^[A-Z0-9]{5}$`)
	seen := make(map[string]bool)

	for i := 0; i < 25; i++ {
		guest, err := svc.Create(ctx, event.ID, GuestInput{Name: fmt.Sprintf("Guest %d", i)})
		if err != nil {
			t.Fatalf("Create failed: %v", err)
		}
		if guest.ShortCode == nil {
			t.Fatal("guest created without short code")
		}
		code := *guest.ShortCode
		if !pattern.MatchString(code) {
			t.Errorf("short code %q does not match ^[A-Z0-9]{5}$", code)
		}
		if seen[code] {
			t.Errorf("duplicate short code %q", code)
		}
		seen[code] = true

		if guest.Token == "" {
			t.Error("guest created without legacy token")
		}
		if guest.Status != models.GuestStatusInvited {
			t.Errorf("expected status invited, got %s", guest.Status)
		}
	}
}

func TestShortCodeUniqueAcrossEvents(t *testing.T) {
	db := setupTestDB(t)
	_, guestA := fixture(t, db, "globala")
	_, guestB := fixture(t, db, "globalb")

	// Uniqueness is system-wide, not per event.
	if *guestA.ShortCode == *guestB.ShortCode {
		t.Errorf("guests of different events share short code %q", *guestA.ShortCode)
	}

	repo := repository.NewRepository(db)
	exists, err := repo.ShortCodeExists(context.Background(), *guestA.ShortCode)
	if err != nil {
		t.Fatalf("ShortCodeExists failed: %v", err)
	}
	if !exists {
		t.Error("existing short code reported as free")
	}
}

func TestDeleteGuest(t *testing.T) {
	db := setupTestDB(t)
	_, guest := fixture(t, db, "delete")
	svc := NewGuestService(db, repository.NewRepository(db))
	ctx := context.Background()

	if err := svc.Delete(ctx, guest.ID); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}

	if _, err := svc.GetByID(ctx, guest.ID); err != ErrNotFound {
		t.Errorf("expected ErrNotFound after delete, got %v", err)
	}

	// Deleting again reports the miss.
	if err := svc.Delete(ctx, guest.ID); err != ErrNotFound {
		t.Errorf("expected ErrNotFound on double delete, got %v", err)
	}
}

func TestImportGuests(t *testing.T) {
	db := setupTestDB(t)
	event, _ := fixture(t, db, "import")
	svc := NewGuestService(db, repository.NewRepository(db))
	ctx := context.Background()

	entries := []GuestInput{
		{Name: "Alice", Phone: "+100"},
		{Name: "Bob", Email: "bob@example.com"},
		{Name: "Carol"},
	}

	created, failures := svc.Import(ctx, event.ID, entries)
	if len(failures) != 0 {
		t.Fatalf("unexpected import failures: %v", failures)
	}
	if len(created) != 3 {
		t.Fatalf("expected 3 guests, got %d", len(created))
	}

	guests, err := svc.ListByEvent(ctx, event.ID)
	if err != nil {
		t.Fatalf("ListByEvent failed: %v", err)
	}
	// fixture created one guest before the import
	if len(guests) != 4 {
		t.Errorf("expected 4 guests on the event, got %d", len(guests))
	}

	for _, g := range created {
		if g.ShortCode == nil || g.Token == "" {
			t.Errorf("imported guest %q missing identifiers", g.Name)
		}
	}
}
