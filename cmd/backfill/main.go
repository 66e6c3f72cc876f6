package main

import (
	"context"
	"os"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"invitation-platform/internal/config"
	"invitation-platform/internal/database"
	"invitation-platform/internal/models"
	"invitation-platform/internal/repository"
	"invitation-platform/internal/services"
)

// Backfills identifiers for rows created before the current addressing
// scheme: events get slugs, guests get short codes. Uses the same allocation
// paths as the live service, so the backfilled rows resolve through
// /invite/{slug}/{code} exactly like new ones.
func main() {
	log.Logger = zerolog.New(os.Stdout).With().Timestamp().Logger()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	if err := database.Connect(cfg.GetDSN()); err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}

	db := database.GetDB()
	repo := repository.NewRepository(db)
	eventService := services.NewEventService(db, repo)
	guestService := services.NewGuestService(db, repo)

	ctx := context.Background()

	var events []models.Event
	if err := db.Where("slug IS NULL").Find(&events).Error; err != nil {
		log.Fatal().Err(err).Msg("failed to list slugless events")
	}

	slugged := 0
	for i := range events {
		if err := eventService.EnsureSlug(ctx, &events[i]); err != nil {
			log.Warn().Err(err).Uint("event_id", events[i].ID).Msg("slug backfill failed")
			continue
		}
		slugged++
	}

	var guests []models.Guest
	if err := db.Where("short_code IS NULL").Find(&guests).Error; err != nil {
		log.Fatal().Err(err).Msg("failed to list codeless guests")
	}

	coded := 0
	for i := range guests {
		if err := guestService.EnsureShortCode(ctx, &guests[i]); err != nil {
			log.Warn().Err(err).Uint("guest_id", guests[i].ID).Msg("short code backfill failed")
			continue
		}
		coded++
	}

	log.Info().Int("events", slugged).Int("guests", coded).Msg("backfill completed")
}
