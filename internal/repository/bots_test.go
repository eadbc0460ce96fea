package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/blockedby/botpulse/internal/models"
)

func TestBotsRepository_CreateAndGet(t *testing.T) {
	db := newTestDB(t)
	repo := NewBotsRepository(db)
	ctx := context.Background()

	bot := &models.RegisteredBot{
		BotID:    "123456",
		Name:     "Orders Bot",
		Username: "orders_bot",
		Token:    "123456:AAHdqTcvCH1vGWJxfSeofSAs0K5PALDsaw1",
	}
	require.NoError(t, repo.Create(ctx, bot))
	assert.NotZero(t, bot.ID)
	assert.False(t, bot.AddedAt.IsZero())

	got, err := repo.GetByBotID(ctx, "123456")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "orders_bot", got.Username)
}

func TestBotsRepository_CreateDuplicate(t *testing.T) {
	db := newTestDB(t)
	repo := NewBotsRepository(db)
	ctx := context.Background()

	bot := &models.RegisteredBot{BotID: "123456", Name: "A", Username: "a_bot", Token: "t"}
	require.NoError(t, repo.Create(ctx, bot))

	err := repo.Create(ctx, &models.RegisteredBot{BotID: "123456", Name: "B", Username: "b_bot", Token: "t"})
	assert.ErrorIs(t, err, ErrBotExists)
}

func TestBotsRepository_GetUnknownReturnsNil(t *testing.T) {
	db := newTestDB(t)
	repo := NewBotsRepository(db)

	got, err := repo.GetByBotID(context.Background(), "999")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestBotsRepository_ListNewestFirst(t *testing.T) {
	db := newTestDB(t)
	repo := NewBotsRepository(db)
	ctx := context.Background()

	old := &models.RegisteredBot{BotID: "1", Name: "Old", Username: "old_bot", Token: "t1", AddedAt: time.Now().Add(-time.Hour)}
	require.NoError(t, repo.Create(ctx, old))
	recent := &models.RegisteredBot{BotID: "2", Name: "New", Username: "new_bot", Token: "t2"}
	require.NoError(t, repo.Create(ctx, recent))

	bots, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, bots, 2)
	assert.Equal(t, "2", bots[0].BotID)
	assert.Equal(t, "1", bots[1].BotID)
}

func TestBotsRepository_Delete(t *testing.T) {
	db := newTestDB(t)
	repo := NewBotsRepository(db)
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, &models.RegisteredBot{BotID: "1", Name: "A", Username: "a_bot", Token: "t"}))

	removed, err := repo.Delete(ctx, "1")
	require.NoError(t, err)
	assert.True(t, removed)

	removed, err = repo.Delete(ctx, "1")
	require.NoError(t, err)
	assert.False(t, removed)
}
