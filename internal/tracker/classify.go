package tracker

import (
	"strconv"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/blockedby/botpulse/internal/models"
)

// previewLimit caps content previews stored with an activity.
const previewLimit = 100

// Fields carries the optional attributes of one activity record. Empty
// strings mean "not supplied" and are stored as NULL.
type Fields struct {
	ChatID         string
	UserID         string
	MessageType    models.MessageType
	ContentPreview string
	Metadata       map[string]any
}

// Classified is the normalized shape of one recognized remote update,
// before timestamp and id assignment.
type Classified struct {
	Type   models.ActivityType
	Fields Fields
}

// ClassifyUpdate maps one raw update to zero or one activity payload.
// Unrecognized update shapes return ok=false and are dropped; the caller
// still advances its offset past them.
func ClassifyUpdate(botID string, u tgbotapi.Update) (Classified, bool) {
	switch {
	case u.Message != nil:
		msg := u.Message
		f := Fields{
			MessageType:    messageTypeOf(msg),
			ContentPreview: contentPreviewOf(msg),
		}
		if msg.Chat != nil {
			f.ChatID = strconv.FormatInt(msg.Chat.ID, 10)
		}
		if msg.From != nil {
			f.UserID = strconv.FormatInt(msg.From.ID, 10)
		}
		return Classified{Type: models.ActivityMessageReceived, Fields: f}, true

	case u.CallbackQuery != nil:
		cb := u.CallbackQuery
		f := Fields{
			MessageType:    models.MessageCallback,
			ContentPreview: truncate(cb.Data, previewLimit),
		}
		if cb.Message != nil && cb.Message.Chat != nil {
			f.ChatID = strconv.FormatInt(cb.Message.Chat.ID, 10)
		}
		if cb.From != nil {
			f.UserID = strconv.FormatInt(cb.From.ID, 10)
		}
		return Classified{Type: models.ActivityCommandUsed, Fields: f}, true

	case u.ChannelPost != nil:
		return Classified{Type: models.ActivityChannelPost, Fields: channelPostFields(botID, u.ChannelPost, false)}, true

	case u.EditedChannelPost != nil:
		return Classified{Type: models.ActivityChannelPost, Fields: channelPostFields(botID, u.EditedChannelPost, true)}, true
	}

	return Classified{}, false
}

func channelPostFields(botID string, post *tgbotapi.Message, edited bool) Fields {
	f := Fields{
		// Channel posts usually carry no sender; attribute them to the bot.
		UserID:         botID,
		MessageType:    messageTypeOf(post),
		ContentPreview: contentPreviewOf(post),
		Metadata:       map[string]any{},
	}
	if post.From != nil {
		f.UserID = strconv.FormatInt(post.From.ID, 10)
	}
	if post.Chat != nil {
		f.ChatID = strconv.FormatInt(post.Chat.ID, 10)
		f.Metadata["channelTitle"] = post.Chat.Title
		f.Metadata["channelUsername"] = post.Chat.UserName
	}
	if edited {
		f.Metadata["edited"] = true
	}
	return f
}

// messageTypeOf resolves the content shape with a fixed precedence:
// document > photo > video > audio > voice > sticker > text.
func messageTypeOf(msg *tgbotapi.Message) models.MessageType {
	switch {
	case msg.Document != nil:
		return models.MessageDocument
	case len(msg.Photo) > 0:
		return models.MessagePhoto
	case msg.Video != nil:
		return models.MessageVideo
	case msg.Audio != nil:
		return models.MessageAudio
	case msg.Voice != nil:
		return models.MessageVoice
	case msg.Sticker != nil:
		return models.MessageSticker
	case msg.Text != "":
		return models.MessageText
	}
	return models.MessageOther
}

// contentPreviewOf derives a short preview: message text, else caption,
// else a type-specific label, else "Media".
func contentPreviewOf(msg *tgbotapi.Message) string {
	if msg.Text != "" {
		return truncate(msg.Text, previewLimit)
	}
	if msg.Caption != "" {
		return truncate(msg.Caption, previewLimit)
	}
	switch {
	case msg.Document != nil:
		if msg.Document.FileName != "" {
			return truncate(msg.Document.FileName, previewLimit)
		}
		return "Document"
	case len(msg.Photo) > 0:
		return "Photo"
	case msg.Video != nil:
		return "Video"
	case msg.Audio != nil:
		return "Audio"
	case msg.Voice != nil:
		return "Voice"
	case msg.Sticker != nil:
		return "Sticker"
	}
	return "Media"
}

// truncate caps s at limit characters, never splitting a rune.
func truncate(s string, limit int) string {
	if len(s) <= limit {
		return s
	}
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit])
}
