// Package monitor runs one polling loop per tracked bot, converting the
// remote update stream into activity log writes.
package monitor

import (
	"context"
	"sync"
	"time"

	"github.com/blockedby/botpulse/internal/logger"
	"github.com/blockedby/botpulse/internal/models"
	"github.com/blockedby/botpulse/internal/tracker"
)

// ActivityLogger is the tracker surface a monitor writes through.
type ActivityLogger interface {
	LogActivity(ctx context.Context, botID string, activityType models.ActivityType, fields tracker.Fields) error
}

// Status is a point-in-time snapshot of one monitor.
type Status struct {
	BotID     string `json:"botId"`
	LastCheck int64  `json:"lastCheck"`
	Offset    int    `json:"offset"`
	IsRunning bool   `json:"isRunning"`
}

// Monitor polls updates for a single bot. Ticks of one monitor never
// overlap: each tick completes, including its appends, before the next
// fires. Held in memory only; the offset does not survive a restart.
type Monitor struct {
	botID    string
	fetcher  UpdatesFetcher
	trk      ActivityLogger
	interval time.Duration
	log      *logger.Logger

	cancel context.CancelFunc
	done   chan struct{}

	mu        sync.Mutex
	offset    int
	lastCheck int64
}

func newMonitor(botID string, fetcher UpdatesFetcher, trk ActivityLogger, interval time.Duration, log *logger.Logger) *Monitor {
	return &Monitor{
		botID:     botID,
		fetcher:   fetcher,
		trk:       trk,
		interval:  interval,
		log:       log,
		done:      make(chan struct{}),
		lastCheck: time.Now().UnixMilli(),
	}
}

// run is the monitor goroutine. The context is derived from Background,
// not from any request: the loop outlives the HTTP call that started it.
func (m *Monitor) run(ctx context.Context) {
	defer close(m.done)

	ticker := time.NewTicker(m.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			m.tick(ctx)
		}
	}
}

// tick performs one poll cycle. On fetch failure the offset is left
// unchanged so the next tick retries from the same point.
func (m *Monitor) tick(ctx context.Context) {
	// A stop racing the ticker can leave one spurious wakeup behind.
	if ctx.Err() != nil {
		return
	}

	updates, err := m.fetcher.FetchUpdates(ctx, m.Offset())
	if err != nil {
		if ctx.Err() != nil {
			return
		}
		m.log.Warn().Err(err).Str("bot_id", m.botID).Msg("poll failed, will retry")
		return
	}

	for _, u := range updates {
		if cls, ok := tracker.ClassifyUpdate(m.botID, u); ok {
			if err := m.trk.LogActivity(ctx, m.botID, cls.Type, cls.Fields); err != nil {
				m.log.Error().Err(err).Str("bot_id", m.botID).Int("update_id", u.UpdateID).Msg("failed to log activity")
			}
		}
		// Advance past the update even when it classified to nothing or
		// failed to store; re-fetching it forever would stall the stream.
		m.setOffset(u.UpdateID + 1)
	}

	m.touch()
}

// stop cancels the loop and waits for it to exit. An in-progress tick may
// complete, but no tick starts after stop returns.
func (m *Monitor) stop() {
	m.cancel()
	<-m.done
}

// Offset returns the next update id the monitor will request.
func (m *Monitor) Offset() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.offset
}

func (m *Monitor) setOffset(offset int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.offset = offset
}

func (m *Monitor) touch() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.lastCheck = time.Now().UnixMilli()
}

func (m *Monitor) status() Status {
	m.mu.Lock()
	defer m.mu.Unlock()
	return Status{
		BotID:     m.botID,
		LastCheck: m.lastCheck,
		Offset:    m.offset,
		IsRunning: true,
	}
}
