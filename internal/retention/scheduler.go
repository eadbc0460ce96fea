// Package retention runs the scheduled sweep that trims old activity.
package retention

import (
	"context"
	"fmt"

	"github.com/robfig/cron/v3"

	"github.com/blockedby/botpulse/internal/logger"
)

// Cleaner removes activity older than the retention window.
type Cleaner interface {
	CleanupOldActivity(ctx context.Context, daysToKeep int) (int64, error)
}

// Scheduler fires the retention sweep on a cron schedule.
type Scheduler struct {
	cron *cron.Cron
}

// New creates a scheduler running cleaner on the given cron schedule,
// keeping daysToKeep days of activity.
func New(cleaner Cleaner, schedule string, daysToKeep int, log *logger.Logger) (*Scheduler, error) {
	c := cron.New()
	_, err := c.AddFunc(schedule, func() {
		removed, err := cleaner.CleanupOldActivity(context.Background(), daysToKeep)
		if err != nil {
			log.Error().Err(err).Msg("retention sweep failed")
			return
		}
		log.Info().Int64("removed", removed).Msg("retention sweep complete")
	})
	if err != nil {
		return nil, fmt.Errorf("invalid cleanup schedule %q: %w", schedule, err)
	}
	return &Scheduler{cron: c}, nil
}

// Start begins the cron ticker.
func (s *Scheduler) Start() {
	s.cron.Start()
}

// Stop halts the cron ticker. A running sweep finishes.
func (s *Scheduler) Stop() {
	s.cron.Stop()
}
