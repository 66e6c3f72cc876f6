package jobs

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"invitation-platform/internal/services"
)

// StatsJob periodically snapshots platform-wide counters
type StatsJob struct {
	service *services.AdminService
}

func NewStatsJob(db *gorm.DB) *StatsJob {
	return &StatsJob{
		service: services.NewAdminService(db),
	}
}

// Start begins the periodic stats snapshot job
func (j *StatsJob) Start(interval time.Duration) {
	go func() {
		// Run immediately on start
		ctx := context.Background()
		if _, err := j.service.SnapshotStats(ctx); err != nil {
			log.Warn().Err(err).Msg("initial stats snapshot failed")
		}

		// Then run periodically
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for range ticker.C {
			if _, err := j.service.SnapshotStats(ctx); err != nil {
				log.Warn().Err(err).Msg("stats snapshot failed")
			}
		}
	}()
}
