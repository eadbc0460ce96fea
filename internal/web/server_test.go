package web

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockStatsAPIHandler struct {
	statsCalls    int
	activityCalls int
}

func (m *mockStatsAPIHandler) GetStats(w http.ResponseWriter, _ *http.Request) {
	m.statsCalls++
	w.WriteHeader(http.StatusOK)
}

func (m *mockStatsAPIHandler) GetActivity(w http.ResponseWriter, _ *http.Request) {
	m.activityCalls++
	w.WriteHeader(http.StatusOK)
}

func TestServer_Starts(t *testing.T) {
	cfg := &Config{Port: 0} // random port
	srv := NewServer(cfg, nil)

	go func() { _ = srv.Start() }()
	defer func() { _ = srv.Stop(context.Background()) }()

	// wait for server to be ready
	require.Eventually(t, func() bool {
		resp, err := http.Get(srv.BaseURL() + "/health")
		if err != nil {
			return false
		}
		defer resp.Body.Close()
		return resp.StatusCode == 200
	}, 2*time.Second, 100*time.Millisecond)
}

func TestServer_HealthEndpoint(t *testing.T) {
	cfg := &Config{Port: 0}
	srv := NewServer(cfg, nil)

	go srv.Start()
	defer srv.Stop(context.Background())

	time.Sleep(50 * time.Millisecond)

	resp, err := http.Get(srv.BaseURL() + "/health")
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var health struct {
		Status string `json:"status"`
		Time   string `json:"time"`
	}
	err = json.NewDecoder(resp.Body).Decode(&health)
	require.NoError(t, err)
	assert.Equal(t, "ok", health.Status)
	assert.NotEmpty(t, health.Time)
}

func TestServer_WebSocket(t *testing.T) {
	cfg := &Config{Port: 0}

	hub := NewHub()
	go hub.Run()

	srv := NewServer(cfg, hub)
	go srv.Start()
	defer srv.Stop(context.Background())

	// Wait for server to start
	time.Sleep(50 * time.Millisecond)

	u := url.URL{Scheme: "ws", Host: srv.listener.Addr().String(), Path: "/ws"}

	c, wsResp, err := websocket.DefaultDialer.Dial(u.String(), nil)
	require.NoError(t, err)
	defer c.Close()
	if wsResp != nil && wsResp.Body != nil {
		defer wsResp.Body.Close()
	}
}

func TestServer_RegisterStatsHandler(t *testing.T) {
	cfg := &Config{Port: 0}
	srv := NewServer(cfg, nil)

	handler := &mockStatsAPIHandler{}
	srv.RegisterStatsHandler(handler)

	go srv.Start()
	defer srv.Stop(context.Background())
	time.Sleep(50 * time.Millisecond)

	resp, err := http.Get(srv.BaseURL() + "/api/bots/111/stats")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, 1, handler.statsCalls)

	resp, err = http.Get(srv.BaseURL() + "/api/bots/111/activity")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, 1, handler.activityCalls)
}

func TestServer_NoWebSocketWithoutHub(t *testing.T) {
	cfg := &Config{Port: 0}
	srv := NewServer(cfg, nil)

	go srv.Start()
	defer srv.Stop(context.Background())
	time.Sleep(50 * time.Millisecond)

	resp, err := http.Get(srv.BaseURL() + "/ws")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}
