package handlers

import (
	"context"

	"github.com/blockedby/botpulse/internal/models"
	"github.com/blockedby/botpulse/internal/monitor"
	"github.com/blockedby/botpulse/internal/tracker"
)

// TrackerService defines the activity tracking surface the handlers use.
type TrackerService interface {
	LogActivity(ctx context.Context, botID string, activityType models.ActivityType, fields tracker.Fields) error
	GetStats(ctx context.Context, botID string, rangeMillis *int64) (*tracker.BotStats, error)
	GetActivityByPeriod(ctx context.Context, botID, period string) (*tracker.BotStats, error)
}

// MonitorRegistry defines the monitor lifecycle surface.
type MonitorRegistry interface {
	Start(token, botID string) error
	Stop(botID string) bool
	Active() []monitor.Status
}

// BotsRepository defines the bot registry data access.
type BotsRepository interface {
	Create(ctx context.Context, bot *models.RegisteredBot) error
	List(ctx context.Context) ([]models.RegisteredBot, error)
	GetByBotID(ctx context.Context, botID string) (*models.RegisteredBot, error)
	Delete(ctx context.Context, botID string) (bool, error)
}
