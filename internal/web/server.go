// Package web exposes the dashboard's HTTP surface: JSON routes for
// tracking, stats, the bot registry and monitor control, plus the
// websocket feed.
package web

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

// Config holds server configuration.
type Config struct {
	Port int
}

// Server is the HTTP server.
type Server struct {
	router     *chi.Mux
	httpServer *http.Server
	config     *Config
	listener   net.Listener
	hub        *Hub
}

// NewServer creates the HTTP server. hub may be nil to disable the
// websocket feed.
func NewServer(cfg *Config, hub *Hub) *Server {
	srv := &Server{
		router: chi.NewRouter(),
		config: cfg,
		hub:    hub,
	}

	srv.setupMiddleware()
	srv.setupRoutes()

	return srv
}

func (s *Server) setupMiddleware() {
	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.RealIP)
	s.router.Use(middleware.Logger)
	s.router.Use(middleware.Recoverer)
	s.router.Use(middleware.Timeout(30 * time.Second))
	s.router.Use(middleware.Compress(5))
	s.router.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
	}))
}

func (s *Server) setupRoutes() {
	if s.hub != nil {
		s.router.Get("/ws", func(w http.ResponseWriter, r *http.Request) {
			ServeWs(s.hub, w, r)
		})
	}

	s.router.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		body := fmt.Sprintf(`{"status":"ok","time":%q}`, time.Now().Format(time.RFC3339))
		_, _ = w.Write([]byte(body))
	})
}

// RegisterTrackHandler registers the activity tracking routes.
func (s *Server) RegisterTrackHandler(handler interface{}) {
	type trackHandler interface {
		Track(w http.ResponseWriter, r *http.Request)
		TrackBatch(w http.ResponseWriter, r *http.Request)
	}

	if h, ok := handler.(trackHandler); ok {
		s.router.Post("/api/track/{botToken}", h.Track)
		s.router.Post("/api/track-batch/{botToken}", h.TrackBatch)
	}
}

// RegisterBotsHandler registers the bot registry routes.
func (s *Server) RegisterBotsHandler(handler interface{}) {
	type botsHandler interface {
		List(w http.ResponseWriter, r *http.Request)
		Create(w http.ResponseWriter, r *http.Request)
		GetByID(w http.ResponseWriter, r *http.Request)
		Delete(w http.ResponseWriter, r *http.Request)
	}

	if h, ok := handler.(botsHandler); ok {
		s.router.Route("/api/bots", func(r chi.Router) {
			r.Get("/", h.List)
			r.Post("/", h.Create)
			r.Get("/{botID}", h.GetByID)
			r.Delete("/{botID}", h.Delete)
		})
	}
}

// RegisterStatsHandler registers the statistics routes.
func (s *Server) RegisterStatsHandler(handler interface{}) {
	type statsHandler interface {
		GetStats(w http.ResponseWriter, r *http.Request)
		GetActivity(w http.ResponseWriter, r *http.Request)
	}

	if h, ok := handler.(statsHandler); ok {
		s.router.Get("/api/bots/{botID}/stats", h.GetStats)
		s.router.Get("/api/bots/{botID}/activity", h.GetActivity)
	}
}

// RegisterMonitorHandler registers the monitor control routes.
func (s *Server) RegisterMonitorHandler(handler interface{}) {
	type monitorHandler interface {
		Start(w http.ResponseWriter, r *http.Request)
		Stop(w http.ResponseWriter, r *http.Request)
		Status(w http.ResponseWriter, r *http.Request)
	}

	if h, ok := handler.(monitorHandler); ok {
		s.router.Post("/api/bots/{botID}/monitor/start", h.Start)
		s.router.Post("/api/bots/{botID}/monitor/stop", h.Stop)
		s.router.Get("/api/monitor/status", h.Status)
	}
}

// Start starts the HTTP server.
func (s *Server) Start() error {
	addr := fmt.Sprintf(":%d", s.config.Port)
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return err
	}
	s.listener = listener

	s.httpServer = &http.Server{
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	return s.httpServer.Serve(listener)
}

// Stop gracefully stops the server.
func (s *Server) Stop(ctx context.Context) error {
	if s.httpServer != nil {
		return s.httpServer.Shutdown(ctx)
	}
	return nil
}

// BaseURL returns the server's base URL.
func (s *Server) BaseURL() string {
	if s.listener != nil {
		return fmt.Sprintf("http://%s", s.listener.Addr().String())
	}
	return fmt.Sprintf("http://localhost:%d", s.config.Port)
}
