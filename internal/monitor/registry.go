package monitor

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/blockedby/botpulse/internal/logger"
)

// Registry owns all live monitors for this process, at most one per bot.
// Thread-safe.
type Registry struct {
	mu         sync.Mutex
	monitors   map[string]*Monitor
	newFetcher FetcherFactory
	trk        ActivityLogger
	interval   time.Duration
	log        *logger.Logger
}

// NewRegistry creates a monitor registry.
func NewRegistry(trk ActivityLogger, newFetcher FetcherFactory, interval time.Duration, log *logger.Logger) *Registry {
	return &Registry{
		monitors:   make(map[string]*Monitor),
		newFetcher: newFetcher,
		trk:        trk,
		interval:   interval,
		log:        log,
	}
}

// Start begins monitoring botID with the given token. Starting a bot that
// is already monitored is a no-op.
func (r *Registry) Start(token, botID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.monitors[botID]; ok {
		r.log.Debug().Str("bot_id", botID).Msg("monitor already running")
		return nil
	}

	fetcher, err := r.newFetcher(token)
	if err != nil {
		return fmt.Errorf("start monitor: %w", err)
	}

	m := newMonitor(botID, fetcher, r.trk, r.interval, r.log)

	ctx, cancel := context.WithCancel(context.Background())
	m.cancel = cancel
	r.monitors[botID] = m
	go m.run(ctx)

	r.log.Info().Str("bot_id", botID).Dur("interval", r.interval).Msg("monitor started")
	return nil
}

// Stop halts the monitor for botID and reports whether one was running.
// After Stop returns no further tick will start; an in-flight tick may
// finish first. Safe to call for unknown bots.
func (r *Registry) Stop(botID string) bool {
	r.mu.Lock()
	m, ok := r.monitors[botID]
	if ok {
		delete(r.monitors, botID)
	}
	r.mu.Unlock()

	if !ok {
		return false
	}

	m.stop()
	r.log.Info().Str("bot_id", botID).Msg("monitor stopped")
	return true
}

// Active returns a snapshot of all running monitors, ordered by bot id.
func (r *Registry) Active() []Status {
	r.mu.Lock()
	statuses := make([]Status, 0, len(r.monitors))
	for _, m := range r.monitors {
		statuses = append(statuses, m.status())
	}
	r.mu.Unlock()

	sort.Slice(statuses, func(i, j int) bool { return statuses[i].BotID < statuses[j].BotID })
	return statuses
}

// Shutdown stops every monitor. Called on process exit.
func (r *Registry) Shutdown() {
	r.mu.Lock()
	monitors := make([]*Monitor, 0, len(r.monitors))
	for _, m := range r.monitors {
		monitors = append(monitors, m)
	}
	r.monitors = make(map[string]*Monitor)
	r.mu.Unlock()

	for _, m := range monitors {
		m.stop()
	}
}
