package repository

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/blockedby/botpulse/internal/models"
)

func seedActivity(t *testing.T, db *gorm.DB, botID string, activityType models.ActivityType, userID string, ts int64) {
	t.Helper()
	row := &models.BotActivity{
		BotID:        botID,
		ActivityType: string(activityType),
		Timestamp:    ts,
		Metadata:     "{}",
	}
	if userID != "" {
		row.UserID = &userID
	}
	require.NoError(t, db.Create(row).Error)
}

func TestAppend_AssignsTimestampAndDefaults(t *testing.T) {
	db := newTestDB(t)
	repo := NewActivityRepository(db)
	ctx := context.Background()

	row := &models.BotActivity{
		BotID:        "111",
		ActivityType: string(models.ActivityMessageReceived),
	}
	require.NoError(t, repo.Append(ctx, row))

	assert.Greater(t, row.Timestamp, int64(0))
	assert.Equal(t, "{}", row.Metadata)
	assert.NotZero(t, row.ID)
}

func TestAppend_RejectsEmptyActivityType(t *testing.T) {
	db := newTestDB(t)
	repo := NewActivityRepository(db)

	err := repo.Append(context.Background(), &models.BotActivity{BotID: "111"})
	assert.ErrorIs(t, err, ErrEmptyActivityType)
}

func TestQueryWindow_Counts(t *testing.T) {
	db := newTestDB(t)
	repo := NewActivityRepository(db)
	ctx := context.Background()

	// All sent-like types count toward MessagesSent.
	seedActivity(t, db, "111", models.ActivityMessageSent, "u1", 1000)
	seedActivity(t, db, "111", models.ActivityChannelPost, "u1", 2000)
	seedActivity(t, db, "111", models.ActivityFileSent, "u2", 3000)
	seedActivity(t, db, "111", models.ActivityMessageReceived, "u2", 4000)
	seedActivity(t, db, "111", models.ActivityMessageReceived, "u3", 5000)
	seedActivity(t, db, "111", models.ActivityCommandUsed, "u3", 6000)
	// Another bot's rows never leak in.
	seedActivity(t, db, "222", models.ActivityMessageReceived, "u9", 1500)
	// Rows without a user do not inflate the distinct user count.
	seedActivity(t, db, "111", models.ActivityMessageSent, "", 7000)

	stats, err := repo.QueryWindow(ctx, "111", nil)
	require.NoError(t, err)

	assert.Equal(t, int64(4), stats.MessagesSent)
	assert.Equal(t, int64(2), stats.MessagesReceived)
	assert.Equal(t, int64(1), stats.ChannelPosts)
	assert.Equal(t, int64(1), stats.FilesSent)
	assert.Equal(t, int64(3), stats.TotalUsers)
}

func TestQueryWindow_SinceRestrictsCountsButNotBounds(t *testing.T) {
	db := newTestDB(t)
	repo := NewActivityRepository(db)
	ctx := context.Background()

	seedActivity(t, db, "111", models.ActivityMessageReceived, "u1", 1000)
	seedActivity(t, db, "111", models.ActivityMessageReceived, "u2", 2000)
	seedActivity(t, db, "111", models.ActivityMessageSent, "u2", 3000)

	since := int64(2500)
	stats, err := repo.QueryWindow(ctx, "111", &since)
	require.NoError(t, err)

	assert.Equal(t, int64(1), stats.MessagesSent)
	assert.Equal(t, int64(0), stats.MessagesReceived)
	require.Len(t, stats.Recent, 1)

	// Oldest and newest span the whole log regardless of the window.
	require.NotNil(t, stats.Oldest)
	require.NotNil(t, stats.Newest)
	assert.Equal(t, int64(1000), *stats.Oldest)
	assert.Equal(t, int64(3000), *stats.Newest)
}

func TestQueryWindow_RecentIsNewestFirstAndCapped(t *testing.T) {
	db := newTestDB(t)
	repo := NewActivityRepository(db)
	ctx := context.Background()

	for i := 0; i < 25; i++ {
		seedActivity(t, db, "111", models.ActivityMessageReceived, fmt.Sprintf("u%d", i), int64(1000+i))
	}

	stats, err := repo.QueryWindow(ctx, "111", nil)
	require.NoError(t, err)

	require.Len(t, stats.Recent, recentLimit)
	assert.Equal(t, int64(1024), stats.Recent[0].Timestamp)
	for i := 1; i < len(stats.Recent); i++ {
		assert.GreaterOrEqual(t, stats.Recent[i-1].Timestamp, stats.Recent[i].Timestamp)
	}
}

func TestQueryWindow_EmptyLog(t *testing.T) {
	db := newTestDB(t)
	repo := NewActivityRepository(db)

	stats, err := repo.QueryWindow(context.Background(), "nobody", nil)
	require.NoError(t, err)

	assert.Zero(t, stats.MessagesSent)
	assert.Zero(t, stats.MessagesReceived)
	assert.Empty(t, stats.Recent)
	assert.Nil(t, stats.Oldest)
	assert.Nil(t, stats.Newest)
}

func TestPurgeOlderThan_Idempotent(t *testing.T) {
	db := newTestDB(t)
	repo := NewActivityRepository(db)
	ctx := context.Background()

	seedActivity(t, db, "111", models.ActivityMessageReceived, "u1", 1000)
	seedActivity(t, db, "111", models.ActivityMessageReceived, "u1", 2000)
	seedActivity(t, db, "222", models.ActivityMessageSent, "u2", 1500)
	seedActivity(t, db, "111", models.ActivityMessageReceived, "u1", 9000)

	removed, err := repo.PurgeOlderThan(ctx, 5000)
	require.NoError(t, err)
	assert.Equal(t, int64(3), removed)

	removed, err = repo.PurgeOlderThan(ctx, 5000)
	require.NoError(t, err)
	assert.Equal(t, int64(0), removed)

	stats, err := repo.QueryWindow(ctx, "111", nil)
	require.NoError(t, err)
	assert.Equal(t, int64(1), stats.MessagesReceived)
}
