package models

import (
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
)

// tokenPattern matches a Bot API token: numeric bot id, colon, 35-char secret.
var tokenPattern = regexp.MustCompile(`^\d+:[A-Za-z0-9_-]{35}$`)

// RegisteredBot is one bot tied to the dashboard, keyed by the numeric
// bot id embedded in its token.
type RegisteredBot struct {
	ID       uuid.UUID `gorm:"type:text;primaryKey" json:"-"`
	BotID    string    `gorm:"column:bot_id;uniqueIndex;not null" json:"id"`
	Name     string    `gorm:"not null" json:"name"`
	Username string    `gorm:"not null" json:"username"`
	Token    string    `gorm:"not null" json:"-"`
	AddedAt  time.Time `json:"addedAt"`
}

// TableName returns the table name for RegisteredBot.
func (RegisteredBot) TableName() string { return "registered_bots" }

// ValidToken reports whether token has the Bot API token shape.
func ValidToken(token string) bool {
	return tokenPattern.MatchString(token)
}

// BotIDFromToken extracts the stable bot identifier, the numeric part of
// the token before the colon.
func BotIDFromToken(token string) string {
	id, _, _ := strings.Cut(token, ":")
	return id
}
