// Package database provides the gorm connection for the activity store.
package database

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/glebarez/sqlite"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/blockedby/botpulse/internal/models"
)

// DB wraps the gorm instance backing the activity store.
type DB struct {
	Gorm *gorm.DB
}

// New opens the database and migrates the schema. A postgres:// or
// postgresql:// DatabaseURL selects postgres; otherwise the sqlite file
// at dbPath is used (":memory:" for an in-memory database).
func New(databaseURL, dbPath string) (*DB, error) {
	var dialector gorm.Dialector

	switch {
	case strings.HasPrefix(databaseURL, "postgres://"), strings.HasPrefix(databaseURL, "postgresql://"):
		dialector = postgres.Open(databaseURL)
	default:
		dsn := dbPath
		if dbPath != ":memory:" {
			if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
				return nil, fmt.Errorf("create database directory: %w", err)
			}
			// busy_timeout keeps concurrent monitor appends from failing
			// with SQLITE_BUSY; WAL lets stats reads proceed alongside writes.
			dsn += "?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)"
		}
		dialector = sqlite.Open(dsn)
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	if err := db.AutoMigrate(
		&models.BotActivity{},
		&models.BotStatsCache{},
		&models.RegisteredBot{},
	); err != nil {
		return nil, fmt.Errorf("migrate schema: %w", err)
	}

	return &DB{Gorm: db}, nil
}

// Close closes the underlying connection pool.
func (db *DB) Close() error {
	sqlDB, err := db.Gorm.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// Ping checks if the database is reachable.
func (db *DB) Ping() error {
	sqlDB, err := db.Gorm.DB()
	if err != nil {
		return err
	}
	return sqlDB.Ping()
}
