package web

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/blockedby/botpulse/internal/tracker"
)

func TestHub_Broadcast(t *testing.T) {
	hub := NewHub()
	go hub.Run()

	client1 := &Client{hub: hub, send: make(chan []byte, 256)}
	hub.register <- client1

	client2 := &Client{hub: hub, send: make(chan []byte, 256)}
	hub.register <- client2

	// Wait for registration
	time.Sleep(10 * time.Millisecond)

	msg := []byte(`{"type":"ping"}`)
	hub.broadcast <- msg

	select {
	case received := <-client1.send:
		assert.Equal(t, msg, received)
	case <-time.After(100 * time.Millisecond):
		t.Fatal("Client 1 did not receive message")
	}

	select {
	case received := <-client2.send:
		assert.Equal(t, msg, received)
	case <-time.After(100 * time.Millisecond):
		t.Fatal("Client 2 did not receive message")
	}

	// Unregister client 1
	hub.unregister <- client1
	time.Sleep(10 * time.Millisecond)

	msg2 := []byte("second message")
	hub.broadcast <- msg2

	select {
	case m, ok := <-client1.send:
		if ok {
			t.Fatalf("Client 1 received message after unregister: %s", m)
		}
		// closed channel is the expected outcome
	case <-time.After(50 * time.Millisecond):
	}

	select {
	case received := <-client2.send:
		assert.Equal(t, msg2, received)
	case <-time.After(100 * time.Millisecond):
		t.Fatal("Client 2 did not receive second message")
	}
}

func TestHub_BroadcastActivity(t *testing.T) {
	hub := NewHub()
	go hub.Run()

	client := &Client{hub: hub, send: make(chan []byte, 256)}
	hub.register <- client
	time.Sleep(10 * time.Millisecond)

	hub.BroadcastActivity(tracker.ActivityLogged{
		BotID:        "111",
		ActivityType: "message_received",
		Timestamp:    1234,
	})

	select {
	case raw := <-client.send:
		var event WSEvent
		require.NoError(t, json.Unmarshal(raw, &event))
		assert.Equal(t, EventActivityLogged, event.Type)

		payload := event.Payload.(map[string]any)
		assert.Equal(t, "111", payload["botId"])
		assert.Equal(t, "message_received", payload["activityType"])
		assert.Equal(t, float64(1234), payload["timestamp"])
	case <-time.After(100 * time.Millisecond):
		t.Fatal("client did not receive activity event")
	}
}

func TestHub_SlowClientDropped(t *testing.T) {
	hub := NewHub()
	go hub.Run()

	// Zero-capacity send channel that is never read.
	slow := &Client{hub: hub, send: make(chan []byte)}
	hub.register <- slow
	time.Sleep(10 * time.Millisecond)

	hub.broadcast <- []byte("one")
	time.Sleep(10 * time.Millisecond)

	// The hub closes a dropped client's channel.
	select {
	case _, ok := <-slow.send:
		assert.False(t, ok)
	case <-time.After(100 * time.Millisecond):
		t.Fatal("slow client was not dropped")
	}
}
