// Command cleanup deletes activity rows older than the retention window
// and exits. Meant for cron or manual runs next to the dashboard.
package main

import (
	"context"
	"flag"
	"time"

	"github.com/blockedby/botpulse/internal/config"
	"github.com/blockedby/botpulse/internal/database"
	"github.com/blockedby/botpulse/internal/logger"
	"github.com/blockedby/botpulse/internal/repository"
	"github.com/blockedby/botpulse/internal/tracker"
)

func main() {
	days := flag.Int("days", 0, "days of activity to keep (default: RETENTION_DAYS)")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	log, err := logger.New(cfg.LogLevel, cfg.LogFile)
	if err != nil {
		panic("failed to init logger: " + err.Error())
	}

	keep := cfg.RetentionDays
	if *days > 0 {
		keep = *days
	}

	db, err := database.New(cfg.DatabaseURL, cfg.DBPath)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer db.Close()

	svc := tracker.NewService(
		repository.NewActivityRepository(db.Gorm),
		repository.NewStatsCacheRepository(db.Gorm),
		nil,
		nil,
		log,
	)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	removed, err := svc.CleanupOldActivity(ctx, keep)
	if err != nil {
		log.Fatal().Err(err).Msg("cleanup failed")
	}
	log.Info().Int64("removed", removed).Int("daysKept", keep).Msg("cleanup complete")
}
