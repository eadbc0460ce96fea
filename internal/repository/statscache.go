package repository

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/blockedby/botpulse/internal/models"
)

// StatsCacheRepository handles the bot_stats_cache rollup table.
type StatsCacheRepository struct {
	db *gorm.DB
}

// NewStatsCacheRepository creates a stats cache repository.
func NewStatsCacheRepository(db *gorm.DB) *StatsCacheRepository {
	return &StatsCacheRepository{db: db}
}

// Upsert overwrites the cache row for row.BotID, creating it if absent.
func (r *StatsCacheRepository) Upsert(ctx context.Context, row *models.BotStatsCache) error {
	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "bot_id"}},
		UpdateAll: true,
	}).Create(row).Error
	if err != nil {
		return fmt.Errorf("upsert stats cache: %w", err)
	}
	return nil
}

// Get returns the cache row for botID, or nil when none exists.
func (r *StatsCacheRepository) Get(ctx context.Context, botID string) (*models.BotStatsCache, error) {
	var row models.BotStatsCache
	err := r.db.WithContext(ctx).Where("bot_id = ?", botID).First(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("get stats cache: %w", err)
	}
	return &row, nil
}
