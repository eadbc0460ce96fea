package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/blockedby/botpulse/internal/models"
)

// recentLimit bounds the recent-activity slice returned with every window.
const recentLimit = 20

// ErrEmptyActivityType is returned by Append when no activity type is given.
var ErrEmptyActivityType = errors.New("activity type is required")

// WindowStats holds the aggregate counts for one bot over a time window.
// Oldest and Newest cover the bot's whole log, not just the window.
type WindowStats struct {
	MessagesSent     int64
	MessagesReceived int64
	ChannelPosts     int64
	FilesSent        int64
	TotalUsers       int64
	Recent           []models.BotActivity
	Oldest           *int64
	Newest           *int64
}

// ActivityRepository handles the append-only bot_activity table.
type ActivityRepository struct {
	db *gorm.DB
}

// NewActivityRepository creates an activity repository.
func NewActivityRepository(db *gorm.DB) *ActivityRepository {
	return &ActivityRepository{db: db}
}

// Append writes one activity row. The timestamp is assigned here, at
// write time, so the log reflects local ingestion order.
func (r *ActivityRepository) Append(ctx context.Context, row *models.BotActivity) error {
	if row.ActivityType == "" {
		return ErrEmptyActivityType
	}
	if row.Metadata == "" {
		row.Metadata = "{}"
	}
	row.Timestamp = time.Now().UnixMilli()

	if err := r.db.WithContext(ctx).Create(row).Error; err != nil {
		return fmt.Errorf("append activity: %w", err)
	}
	return nil
}

// QueryWindow returns aggregate counts for botID. A non-nil since bounds
// the counts and the recent slice to timestamp >= since; the oldest/newest
// pair always spans the bot's entire log. Pure read, never mutates.
func (r *ActivityRepository) QueryWindow(ctx context.Context, botID string, since *int64) (*WindowStats, error) {
	stats := &WindowStats{}

	scope := func() *gorm.DB {
		q := r.db.WithContext(ctx).Model(&models.BotActivity{}).Where("bot_id = ?", botID)
		if since != nil {
			q = q.Where("timestamp >= ?", *since)
		}
		return q
	}

	if err := scope().Where("activity_type IN ?", models.SentLikeTypes).Count(&stats.MessagesSent).Error; err != nil {
		return nil, fmt.Errorf("count sent: %w", err)
	}
	if err := scope().Where("activity_type = ?", string(models.ActivityMessageReceived)).Count(&stats.MessagesReceived).Error; err != nil {
		return nil, fmt.Errorf("count received: %w", err)
	}
	if err := scope().Where("activity_type = ?", string(models.ActivityChannelPost)).Count(&stats.ChannelPosts).Error; err != nil {
		return nil, fmt.Errorf("count channel posts: %w", err)
	}
	if err := scope().Where("activity_type = ?", string(models.ActivityFileSent)).Count(&stats.FilesSent).Error; err != nil {
		return nil, fmt.Errorf("count files: %w", err)
	}
	if err := scope().Where("user_id IS NOT NULL").Distinct("user_id").Count(&stats.TotalUsers).Error; err != nil {
		return nil, fmt.Errorf("count users: %w", err)
	}

	if err := scope().Order("timestamp DESC, id DESC").Limit(recentLimit).Find(&stats.Recent).Error; err != nil {
		return nil, fmt.Errorf("recent activity: %w", err)
	}

	var bounds struct {
		Oldest sql.NullInt64
		Newest sql.NullInt64
	}
	err := r.db.WithContext(ctx).Model(&models.BotActivity{}).
		Select("MIN(timestamp) AS oldest, MAX(timestamp) AS newest").
		Where("bot_id = ?", botID).
		Scan(&bounds).Error
	if err != nil {
		return nil, fmt.Errorf("activity bounds: %w", err)
	}
	if bounds.Oldest.Valid {
		stats.Oldest = &bounds.Oldest.Int64
	}
	if bounds.Newest.Valid {
		stats.Newest = &bounds.Newest.Int64
	}

	return stats, nil
}

// PurgeOlderThan deletes all rows with timestamp < cutoff, across every
// bot, and returns the number removed. Idempotent: a second run with the
// same cutoff removes nothing.
func (r *ActivityRepository) PurgeOlderThan(ctx context.Context, cutoff int64) (int64, error) {
	res := r.db.WithContext(ctx).Where("timestamp < ?", cutoff).Delete(&models.BotActivity{})
	if res.Error != nil {
		return 0, fmt.Errorf("purge activity: %w", res.Error)
	}
	return res.RowsAffected, nil
}
