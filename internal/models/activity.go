package models

// ActivityType classifies one normalized record of bot traffic.
type ActivityType string

// ActivityType constants define the recognized activity kinds.
const (
	ActivityMessageReceived ActivityType = "message_received"
	ActivityMessageSent     ActivityType = "message_sent"
	ActivityChannelPost     ActivityType = "channel_post"
	ActivityCommandUsed     ActivityType = "command_used"
	ActivityFileSent        ActivityType = "file_sent"
)

// SentLikeTypes are the activity types counted as outbound traffic.
var SentLikeTypes = []string{
	string(ActivityMessageSent),
	string(ActivityChannelPost),
	string(ActivityFileSent),
}

// MessageType describes the content shape of a tracked message.
type MessageType string

// MessageType constants.
const (
	MessageText     MessageType = "text"
	MessageDocument MessageType = "document"
	MessagePhoto    MessageType = "photo"
	MessageVideo    MessageType = "video"
	MessageAudio    MessageType = "audio"
	MessageVoice    MessageType = "voice"
	MessageSticker  MessageType = "sticker"
	MessageCallback MessageType = "callback"
	MessageOther    MessageType = "other"
)

// BotActivity is one row of the append-only activity log. Rows are never
// updated; the retention sweep is the only delete path.
type BotActivity struct {
	ID             uint    `gorm:"primaryKey;autoIncrement" json:"id"`
	BotID          string  `gorm:"column:bot_id;not null;index:idx_bot_timestamp,priority:1;index:idx_bot_chat,priority:1" json:"botId"`
	ActivityType   string  `gorm:"not null;index:idx_activity_type" json:"activityType"`
	ChatID         *string `gorm:"column:chat_id;index:idx_bot_chat,priority:2" json:"chatId,omitempty"`
	UserID         *string `gorm:"column:user_id" json:"userId,omitempty"`
	MessageType    *string `json:"messageType,omitempty"`
	ContentPreview *string `json:"contentPreview,omitempty"`

	// Milliseconds since epoch, assigned at write time. Local ingestion
	// order, not the remote-reported time.
	Timestamp int64 `gorm:"not null;index:idx_bot_timestamp,priority:2" json:"timestamp"`

	// Serialized JSON object, "{}" when no metadata was supplied.
	Metadata string `json:"metadata"`
}

// TableName returns the table name for BotActivity.
func (BotActivity) TableName() string { return "bot_activity" }

// BotStatsCache is the derived rollup row, one per bot. It is overwritten
// wholesale on every refresh and is always recomputable from bot_activity.
type BotStatsCache struct {
	BotID                 string `gorm:"column:bot_id;primaryKey" json:"botId"`
	TotalMessagesSent     int64  `json:"totalMessagesSent"`
	TotalMessagesReceived int64  `json:"totalMessagesReceived"`
	TotalChannelPosts     int64  `json:"totalChannelPosts"`
	TotalFilesSent        int64  `json:"totalFilesSent"`
	TotalUsers            int64  `json:"totalUsers"`
	LastUpdated           int64  `gorm:"not null" json:"lastUpdated"`
}

// TableName returns the table name for BotStatsCache.
func (BotStatsCache) TableName() string { return "bot_stats_cache" }
