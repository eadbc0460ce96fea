// Package publisher emits logged activity onto NATS for downstream
// consumers. Publishing is best-effort; the tracking path never blocks
// on it.
package publisher

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/nats-io/nats.go"

	"github.com/blockedby/botpulse/internal/tracker"
)

// SubjectActivityLogged is the subject activity events are published on.
const SubjectActivityLogged = "activity.logged"

// NATSConn is the connection surface used, narrowed to allow mocking.
type NATSConn interface {
	Publish(subject string, data []byte) error
}

// NATSPublisher implements tracker.EventPublisher over a NATS connection.
type NATSPublisher struct {
	conn NATSConn
}

// NewNATSPublisher creates a publisher over an established connection.
func NewNATSPublisher(conn *nats.Conn) *NATSPublisher {
	return &NATSPublisher{conn: conn}
}

// PublishActivity publishes one activity event.
func (p *NATSPublisher) PublishActivity(_ context.Context, event tracker.ActivityLogged) error {
	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}
	if err := p.conn.Publish(SubjectActivityLogged, data); err != nil {
		return fmt.Errorf("publish event: %w", err)
	}
	return nil
}
