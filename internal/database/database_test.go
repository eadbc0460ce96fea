package database

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/blockedby/botpulse/internal/models"
)

func TestNew_InMemorySQLiteMigrates(t *testing.T) {
	db, err := New("", ":memory:")
	require.NoError(t, err)
	defer db.Close()

	require.NoError(t, db.Ping())

	for _, model := range []any{
		&models.BotActivity{},
		&models.BotStatsCache{},
		&models.RegisteredBot{},
	} {
		assert.True(t, db.Gorm.Migrator().HasTable(model))
	}
}

func TestNew_SQLiteFile(t *testing.T) {
	path := t.TempDir() + "/activity.db"

	db, err := New("", path)
	require.NoError(t, err)
	defer db.Close()

	require.NoError(t, db.Gorm.Create(&models.BotActivity{
		BotID:        "111",
		ActivityType: string(models.ActivityMessageReceived),
		Timestamp:    1000,
		Metadata:     "{}",
	}).Error)

	var count int64
	require.NoError(t, db.Gorm.Model(&models.BotActivity{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}
