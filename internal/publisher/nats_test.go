package publisher

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/blockedby/botpulse/internal/tracker"
)

type fakeConn struct {
	subject string
	data    []byte
	err     error
}

func (f *fakeConn) Publish(subject string, data []byte) error {
	f.subject = subject
	f.data = data
	return f.err
}

func TestPublishActivity(t *testing.T) {
	conn := &fakeConn{}
	pub := &NATSPublisher{conn: conn}

	err := pub.PublishActivity(context.Background(), tracker.ActivityLogged{
		BotID:        "111",
		ActivityType: "message_received",
		ChatID:       "42",
		Timestamp:    1234,
	})
	require.NoError(t, err)

	assert.Equal(t, SubjectActivityLogged, conn.subject)

	var event tracker.ActivityLogged
	require.NoError(t, json.Unmarshal(conn.data, &event))
	assert.Equal(t, "111", event.BotID)
	assert.Equal(t, "42", event.ChatID)
	assert.Equal(t, int64(1234), event.Timestamp)
}

func TestPublishActivity_ConnError(t *testing.T) {
	pub := &NATSPublisher{conn: &fakeConn{err: errors.New("connection closed")}}

	err := pub.PublishActivity(context.Background(), tracker.ActivityLogged{BotID: "111"})
	assert.Error(t, err)
}
