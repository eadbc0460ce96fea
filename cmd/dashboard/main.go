package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/nats-io/nats.go"

	"github.com/blockedby/botpulse/internal/config"
	"github.com/blockedby/botpulse/internal/database"
	"github.com/blockedby/botpulse/internal/logger"
	"github.com/blockedby/botpulse/internal/monitor"
	"github.com/blockedby/botpulse/internal/publisher"
	"github.com/blockedby/botpulse/internal/repository"
	"github.com/blockedby/botpulse/internal/retention"
	"github.com/blockedby/botpulse/internal/tracker"
	"github.com/blockedby/botpulse/internal/web"
	"github.com/blockedby/botpulse/internal/web/handlers"
)

func main() {
	// 1. Load config
	cfg, err := config.Load()
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	// 2. Initialize logger
	log, err := logger.New(cfg.LogLevel, cfg.LogFile)
	if err != nil {
		panic("failed to init logger: " + err.Error())
	}
	log.Info().Msg("starting bot activity dashboard")

	// 3. Setup context with graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-sigChan
		log.Info().Msg("received shutdown signal")
		cancel()
	}()

	// 4. Connect to database
	db, err := database.New(cfg.DatabaseURL, cfg.DBPath)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer db.Close()
	log.Info().Msg("connected to database")

	// 5. Connect to NATS
	var pub tracker.EventPublisher
	if cfg.NatsURL != "" {
		nc, err := nats.Connect(cfg.NatsURL)
		if err != nil {
			log.Warn().Err(err).Msg("failed to connect to nats, publishing disabled")
		} else {
			defer nc.Close()
			pub = publisher.NewNATSPublisher(nc)
			log.Info().Msg("connected to nats")
		}
	}

	// 6. Initialize repositories
	activityRepo := repository.NewActivityRepository(db.Gorm)
	cacheRepo := repository.NewStatsCacheRepository(db.Gorm)
	botsRepo := repository.NewBotsRepository(db.Gorm)

	// 7. Initialize WebSocket hub
	hub := web.NewHub()
	go hub.Run()

	// 8. Initialize tracker service
	svc := tracker.NewService(activityRepo, cacheRepo, pub, hub, log)

	// 9. Initialize monitor registry
	newFetcher := monitor.NewBotAPIFetcher(cfg.TelegramAPIEndpoint, cfg.PollRequestTimeout())
	registry := monitor.NewRegistry(svc, newFetcher, cfg.PollInterval(), log)

	// 10. Initialize retention scheduler
	sweeper, err := retention.New(svc, cfg.CleanupSchedule, cfg.RetentionDays, log)
	if err != nil {
		log.Fatal().Err(err).Msg("invalid cleanup schedule")
	}
	sweeper.Start()

	// 11. Initialize web handlers
	trackHandler := handlers.NewTrackHandler(svc)
	botsHandler := handlers.NewBotsHandler(botsRepo)
	statsHandler := handlers.NewStatsHandler(svc)
	monitorHandler := handlers.NewMonitorHandler(registry, botsRepo)

	// 12. Initialize server and register handlers
	server := web.NewServer(&web.Config{Port: cfg.HTTPPort}, hub)
	server.RegisterTrackHandler(trackHandler)
	server.RegisterBotsHandler(botsHandler)
	server.RegisterStatsHandler(statsHandler)
	server.RegisterMonitorHandler(monitorHandler)

	// 13. Start server
	log.Info().Int("port", cfg.HTTPPort).Msg("starting web server")
	go func() {
		if err := server.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server error")
		}
	}()

	// 14. Wait for shutdown
	<-ctx.Done()
	log.Info().Msg("shutting down services...")

	registry.Shutdown()
	sweeper.Stop()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := server.Stop(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("server shutdown error")
	}

	log.Info().Msg("shutdown complete")
}
