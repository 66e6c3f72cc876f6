package services

import (
	"context"
	"regexp"
	"testing"

	"invitation-platform/internal/models"
	"invitation-platform/internal/repository"
)

func TestCreateEventAssignsSlug(t *testing.T) {
	db := setupTestDB(t)
	repo := repository.NewRepository(db)
	svc := NewEventService(db, repo)
	ctx := context.Background()

	owner := models.User{Email: "owner@example.com", PasswordHash: "x"}
	if err := db.Create(&owner).Error; err != nil {
		t.Fatalf("failed to create owner: %v", err)
	}

	event, err := svc.Create(ctx, owner.ID, EventInput{
		Title:        "Our Wedding",
		PartyNameOne: "Smith",
		PartyNameTwo: "Jones",
	})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	if event.Slug == nil {
		t.Fatal("slug not assigned at creation")
	}
	if !regexp.MustCompile(`^smithjones-[a-z0-9]{5}$`).MatchString(*event.Slug) {
		t.Errorf("unexpected slug %q", *event.Slug)
	}
}

func TestEnsureSlugIdempotent(t *testing.T) {
	db := setupTestDB(t)
	event, _ := fixture(t, db, "ensureslug")
	svc := NewEventService(db, repository.NewRepository(db))
	ctx := context.Background()

	before := *event.Slug
	if err := svc.EnsureSlug(ctx, event); err != nil {
		t.Fatalf("EnsureSlug failed: %v", err)
	}
	if *event.Slug != before {
		t.Errorf("EnsureSlug replaced existing slug %q with %q", before, *event.Slug)
	}
}

func TestEnsureSlugBackfillsSluglessEvent(t *testing.T) {
	db := setupTestDB(t)
	repo := repository.NewRepository(db)
	svc := NewEventService(db, repo)
	ctx := context.Background()

	owner := models.User{Email: "backfill@example.com", PasswordHash: "x"}
	if err := db.Create(&owner).Error; err != nil {
		t.Fatalf("failed to create owner: %v", err)
	}

	// A pre-scheme row persisted without going through Create
	event := models.Event{OwnerID: owner.ID, Title: "Garden Party"}
	if err := db.Create(&event).Error; err != nil {
		t.Fatalf("failed to create event: %v", err)
	}

	if err := svc.EnsureSlug(ctx, &event); err != nil {
		t.Fatalf("EnsureSlug failed: %v", err)
	}
	if event.Slug == nil {
		t.Fatal("slug not assigned")
	}
	if !regexp.MustCompile(`^gardenparty-[a-z0-9]{5}$`).MatchString(*event.Slug) {
		t.Errorf("unexpected slug %q", *event.Slug)
	}

	// The stored row carries the slug too
	fresh, err := repo.GetEventBySlug(ctx, *event.Slug)
	if err != nil {
		t.Fatalf("GetEventBySlug failed: %v", err)
	}
	if fresh.ID != event.ID {
		t.Errorf("slug lookup returned event %d, want %d", fresh.ID, event.ID)
	}
}

func TestSlugsUniqueForIdenticalNames(t *testing.T) {
	db := setupTestDB(t)
	repo := repository.NewRepository(db)
	svc := NewEventService(db, repo)
	ctx := context.Background()

	owner := models.User{Email: "twins@example.com", PasswordHash: "x"}
	if err := db.Create(&owner).Error; err != nil {
		t.Fatalf("failed to create owner: %v", err)
	}

	seen := make(map[string]bool)
	for i := 0; i < 10; i++ {
		event, err := svc.Create(ctx, owner.ID, EventInput{
			Title:        "Wedding",
			PartyNameOne: "Lee",
			PartyNameTwo: "Kim",
		})
		if err != nil {
			t.Fatalf("Create failed: %v", err)
		}
		if event.Slug == nil {
			t.Fatal("slug not assigned")
		}
		if seen[*event.Slug] {
			t.Fatalf("duplicate slug %q for identical party names", *event.Slug)
		}
		seen[*event.Slug] = true
	}
}

func TestAuthorizeOwner(t *testing.T) {
	db := setupTestDB(t)
	event, _ := fixture(t, db, "authz")
	svc := NewEventService(db, repository.NewRepository(db))
	ctx := context.Background()

	intruder := models.User{Email: "intruder@example.com", PasswordHash: "x"}
	if err := db.Create(&intruder).Error; err != nil {
		t.Fatalf("failed to create user: %v", err)
	}

	if err := svc.AuthorizeOwner(ctx, event.OwnerID, event.ID); err != nil {
		t.Errorf("owner rejected: %v", err)
	}
	if err := svc.AuthorizeOwner(ctx, intruder.ID, event.ID); err != ErrForbidden {
		t.Errorf("expected ErrForbidden for non-owner, got %v", err)
	}
	if err := svc.AuthorizeOwner(ctx, event.OwnerID, event.ID+1000); err != ErrNotFound {
		t.Errorf("expected ErrNotFound for missing event, got %v", err)
	}
}

func TestUpdateEventKeepsSlugAndAppliesFields(t *testing.T) {
	db := setupTestDB(t)
	event, _ := fixture(t, db, "update")
	svc := NewEventService(db, repository.NewRepository(db))
	ctx := context.Background()

	before := *event.Slug

	updated, err := svc.Update(ctx, event.ID, EventInput{
		Title:        "Renamed",
		Location:     "Lisbon",
		PartyNameOne: "Garcia",
		PartyNameTwo: "Silva",
		Schedule: models.Schedule{
			{Day: "Saturday", Activities: []string{"Ceremony", "Dinner"}},
		},
	})
	if err != nil {
		t.Fatalf("Update failed: %v", err)
	}

	if updated.Title != "Renamed" || updated.Location != "Lisbon" {
		t.Error("update did not apply fields")
	}
	if updated.Slug == nil || *updated.Slug != before {
		t.Error("update replaced an already-assigned slug")
	}
	if len(updated.Schedule) != 1 || updated.Schedule[0].Day != "Saturday" {
		t.Error("schedule not stored")
	}

	// Schedule survives a round trip through the JSON column
	fresh, err := svc.GetByID(ctx, event.ID)
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if len(fresh.Schedule) != 1 || len(fresh.Schedule[0].Activities) != 2 {
		t.Error("schedule did not survive reload")
	}
}
