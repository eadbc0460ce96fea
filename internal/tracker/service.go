// Package tracker implements the activity aggregation engine: the
// append-only activity log, the derived stats cache, and the classifier
// that normalizes remote updates into activity records.
package tracker

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/blockedby/botpulse/internal/logger"
	"github.com/blockedby/botpulse/internal/models"
	"github.com/blockedby/botpulse/internal/repository"
)

// periodSpans maps period tokens to their millisecond spans. Unknown
// tokens fall back to 24h.
var periodSpans = map[string]int64{
	"1h":  int64(time.Hour / time.Millisecond),
	"24h": int64(24 * time.Hour / time.Millisecond),
	"7d":  int64(7 * 24 * time.Hour / time.Millisecond),
	"30d": int64(30 * 24 * time.Hour / time.Millisecond),
}

// EventPublisher publishes logged activity to an external bus.
type EventPublisher interface {
	PublishActivity(ctx context.Context, event ActivityLogged) error
}

// Broadcaster pushes logged activity to connected dashboard clients.
type Broadcaster interface {
	BroadcastActivity(event ActivityLogged)
}

// ActivityLogged is the event emitted after a successful append.
type ActivityLogged struct {
	BotID          string `json:"botId"`
	ActivityType   string `json:"activityType"`
	ChatID         string `json:"chatId,omitempty"`
	UserID         string `json:"userId,omitempty"`
	MessageType    string `json:"messageType,omitempty"`
	ContentPreview string `json:"contentPreview,omitempty"`
	Timestamp      int64  `json:"timestamp"`
}

// ActivityView is one recent-activity entry in a stats payload.
type ActivityView struct {
	ActivityType   string  `json:"activityType"`
	ChatID         *string `json:"chatId"`
	UserID         *string `json:"userId"`
	MessageType    *string `json:"messageType"`
	ContentPreview *string `json:"contentPreview"`
	Timestamp      int64   `json:"timestamp"`
}

// BotStats is the externally reported statistics shape.
type BotStats struct {
	TotalMessagesSent     int64          `json:"totalMessagesSent"`
	TotalMessagesReceived int64          `json:"totalMessagesReceived"`
	TotalChannelPosts     int64          `json:"totalChannelPosts"`
	TotalFilesSent        int64          `json:"totalFilesSent"`
	TotalUsers            int64          `json:"totalUsers"`
	RecentActivity        []ActivityView `json:"recentActivity"`
	OldestActivity        *int64         `json:"oldestActivity"`
	NewestActivity        *int64         `json:"newestActivity"`
	HasData               bool           `json:"hasData"`
}

// Service ties the activity log, the stats cache, and the optional event
// sinks together. The cache is write-through: every append triggers a
// full recompute of that bot's rollup row.
type Service struct {
	activity    *repository.ActivityRepository
	cache       *repository.StatsCacheRepository
	publisher   EventPublisher
	broadcaster Broadcaster
	log         *logger.Logger
}

// NewService creates the tracker service. publisher and broadcaster may
// be nil, which disables the respective sink.
func NewService(
	activity *repository.ActivityRepository,
	cache *repository.StatsCacheRepository,
	publisher EventPublisher,
	broadcaster Broadcaster,
	log *logger.Logger,
) *Service {
	return &Service{
		activity:    activity,
		cache:       cache,
		publisher:   publisher,
		broadcaster: broadcaster,
		log:         log,
	}
}

// LogActivity appends one activity record and refreshes the bot's stats
// cache. Cache and sink failures are logged, never returned: only the
// append itself decides success.
func (s *Service) LogActivity(ctx context.Context, botID string, activityType models.ActivityType, fields Fields) error {
	row := &models.BotActivity{
		BotID:          botID,
		ActivityType:   string(activityType),
		ChatID:         nilIfEmpty(fields.ChatID),
		UserID:         nilIfEmpty(fields.UserID),
		MessageType:    nilIfEmpty(string(fields.MessageType)),
		ContentPreview: nilIfEmpty(truncate(fields.ContentPreview, previewLimit)),
		Metadata:       marshalMetadata(fields.Metadata),
	}

	if err := s.activity.Append(ctx, row); err != nil {
		return fmt.Errorf("log activity: %w", err)
	}

	s.refreshCache(ctx, botID)

	event := ActivityLogged{
		BotID:          botID,
		ActivityType:   string(activityType),
		ChatID:         fields.ChatID,
		UserID:         fields.UserID,
		MessageType:    string(fields.MessageType),
		ContentPreview: fields.ContentPreview,
		Timestamp:      row.Timestamp,
	}
	if s.publisher != nil {
		if err := s.publisher.PublishActivity(ctx, event); err != nil {
			s.log.Warn().Err(err).Str("bot_id", botID).Msg("failed to publish activity event")
		}
	}
	if s.broadcaster != nil {
		s.broadcaster.BroadcastActivity(event)
	}

	return nil
}

// refreshCache recomputes the rollup row from the full log. The previous
// cache value is only overwritten when the recompute succeeds.
func (s *Service) refreshCache(ctx context.Context, botID string) {
	stats, err := s.activity.QueryWindow(ctx, botID, nil)
	if err != nil {
		s.log.Warn().Err(err).Str("bot_id", botID).Msg("stats recompute failed, cache left as-is")
		return
	}

	row := &models.BotStatsCache{
		BotID:                 botID,
		TotalMessagesSent:     stats.MessagesSent,
		TotalMessagesReceived: stats.MessagesReceived,
		TotalChannelPosts:     stats.ChannelPosts,
		TotalFilesSent:        stats.FilesSent,
		TotalUsers:            stats.TotalUsers,
		LastUpdated:           time.Now().UnixMilli(),
	}
	if err := s.cache.Upsert(ctx, row); err != nil {
		s.log.Warn().Err(err).Str("bot_id", botID).Msg("failed to update stats cache")
	}
}

// GetStats returns the reported statistics for botID. A non-nil
// rangeMillis restricts the counts to the trailing window of that length.
func (s *Service) GetStats(ctx context.Context, botID string, rangeMillis *int64) (*BotStats, error) {
	var since *int64
	if rangeMillis != nil {
		start := time.Now().UnixMilli() - *rangeMillis
		since = &start
	}

	w, err := s.activity.QueryWindow(ctx, botID, since)
	if err != nil {
		return nil, fmt.Errorf("get stats: %w", err)
	}

	stats := &BotStats{
		TotalMessagesSent:     w.MessagesSent,
		TotalMessagesReceived: w.MessagesReceived,
		TotalChannelPosts:     w.ChannelPosts,
		TotalFilesSent:        w.FilesSent,
		TotalUsers:            w.TotalUsers,
		RecentActivity:        make([]ActivityView, 0, len(w.Recent)),
		OldestActivity:        w.Oldest,
		NewestActivity:        w.Newest,
		HasData:               w.MessagesSent > 0 || w.MessagesReceived > 0,
	}
	for _, row := range w.Recent {
		stats.RecentActivity = append(stats.RecentActivity, ActivityView{
			ActivityType:   row.ActivityType,
			ChatID:         row.ChatID,
			UserID:         row.UserID,
			MessageType:    row.MessageType,
			ContentPreview: row.ContentPreview,
			Timestamp:      row.Timestamp,
		})
	}
	return stats, nil
}

// GetActivityByPeriod returns stats for a period token (1h, 24h, 7d,
// 30d). Unknown tokens fall back to 24h.
func (s *Service) GetActivityByPeriod(ctx context.Context, botID, period string) (*BotStats, error) {
	span := PeriodSpan(period)
	return s.GetStats(ctx, botID, &span)
}

// PeriodSpan maps a period token to its millisecond span.
func PeriodSpan(period string) int64 {
	if span, ok := periodSpans[period]; ok {
		return span
	}
	return periodSpans["24h"]
}

// CleanupOldActivity deletes activity older than daysToKeep days and
// returns the number of rows removed.
func (s *Service) CleanupOldActivity(ctx context.Context, daysToKeep int) (int64, error) {
	cutoff := time.Now().UnixMilli() - int64(daysToKeep)*24*int64(time.Hour/time.Millisecond)
	removed, err := s.activity.PurgeOlderThan(ctx, cutoff)
	if err != nil {
		return 0, fmt.Errorf("cleanup activity: %w", err)
	}
	s.log.Info().Int64("removed", removed).Int("days_kept", daysToKeep).Msg("cleaned up old activity")
	return removed, nil
}

func nilIfEmpty(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func marshalMetadata(meta map[string]any) string {
	if len(meta) == 0 {
		return "{}"
	}
	data, err := json.Marshal(meta)
	if err != nil {
		return "{}"
	}
	return string(data)
}
