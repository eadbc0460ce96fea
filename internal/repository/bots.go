package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/blockedby/botpulse/internal/models"
)

// ErrBotExists is returned when registering a bot id that is already known.
var ErrBotExists = errors.New("bot is already registered")

// BotsRepository handles the registered_bots table.
type BotsRepository struct {
	db *gorm.DB
}

// NewBotsRepository creates a bots repository.
func NewBotsRepository(db *gorm.DB) *BotsRepository {
	return &BotsRepository{db: db}
}

// Create registers a bot. The row's BotID must already be set from its token.
func (r *BotsRepository) Create(ctx context.Context, bot *models.RegisteredBot) error {
	existing, err := r.GetByBotID(ctx, bot.BotID)
	if err != nil {
		return err
	}
	if existing != nil {
		return ErrBotExists
	}

	if bot.ID == uuid.Nil {
		bot.ID = uuid.New()
	}
	if bot.AddedAt.IsZero() {
		bot.AddedAt = time.Now()
	}

	if err := r.db.WithContext(ctx).Create(bot).Error; err != nil {
		return fmt.Errorf("create bot: %w", err)
	}
	return nil
}

// List returns all registered bots, newest first.
func (r *BotsRepository) List(ctx context.Context) ([]models.RegisteredBot, error) {
	var bots []models.RegisteredBot
	if err := r.db.WithContext(ctx).Order("added_at DESC").Find(&bots).Error; err != nil {
		return nil, fmt.Errorf("list bots: %w", err)
	}
	return bots, nil
}

// GetByBotID returns a bot by its stable id, or nil when unknown.
func (r *BotsRepository) GetByBotID(ctx context.Context, botID string) (*models.RegisteredBot, error) {
	var bot models.RegisteredBot
	err := r.db.WithContext(ctx).Where("bot_id = ?", botID).First(&bot).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("get bot: %w", err)
	}
	return &bot, nil
}

// Delete removes a bot by its stable id and reports whether a row existed.
func (r *BotsRepository) Delete(ctx context.Context, botID string) (bool, error) {
	res := r.db.WithContext(ctx).Where("bot_id = ?", botID).Delete(&models.RegisteredBot{})
	if res.Error != nil {
		return false, fmt.Errorf("delete bot: %w", res.Error)
	}
	return res.RowsAffected > 0, nil
}
