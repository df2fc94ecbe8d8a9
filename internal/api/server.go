package api

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/pasjesplank/plank/internal/logger"
)

// Server wraps the HTTP server for the web frontend.
type Server struct {
	httpServer  *http.Server
	watcher     *FileWatcher
	wsHub       *WebSocketHub
	unsubscribe func()
}

// NewServer creates a server for app on the given port. File watching is
// enabled when app.WatchDir is set.
func NewServer(app *AppContext, port int) *Server {
	mux := http.NewServeMux()

	wsHub := NewWebSocketHub(app)
	mux.HandleFunc("GET /api/v1/ws", wsHub.ServeWS)

	handler := NewHandler(app)
	handler.RegisterRoutes(mux)

	// Writes made through this process redraw every open session.
	unsubscribe := app.Cards.Subscribe(wsHub.Refresh)

	// Writes made by other processes, like the CLI, arrive through the watcher.
	var watcher *FileWatcher
	if app.WatchDir != "" {
		var err error
		watcher, err = NewFileWatcher(app.WatchDir, app.Slot)
		if err != nil {
			logger.Get().Warnw("failed to create file watcher", "error", err)
		} else {
			watcher.Subscribe(wsHub)
		}
	}

	wrapped := Logging(app.Metrics, Cors(mux))

	return &Server{
		httpServer: &http.Server{
			Addr:         fmt.Sprintf(":%d", port),
			Handler:      wrapped,
			ReadTimeout:  15 * time.Second,
			WriteTimeout: 15 * time.Second,
		},
		watcher:     watcher,
		wsHub:       wsHub,
		unsubscribe: unsubscribe,
	}
}

// Start begins listening for HTTP requests. Blocks until shutdown.
func (s *Server) Start() error {
	if s.watcher != nil {
		if err := s.watcher.Start(); err != nil {
			logger.Get().Warnw("failed to start file watcher", "error", err)
		}
	}

	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully stops the server.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.watcher != nil {
		if err := s.watcher.Stop(); err != nil {
			logger.Get().Warnw("failed to stop file watcher", "error", err)
		}
	}
	if s.unsubscribe != nil {
		s.unsubscribe()
	}

	return s.httpServer.Shutdown(ctx)
}

// Addr returns the address the server is listening on.
func (s *Server) Addr() string {
	return s.httpServer.Addr
}

// Hub returns the WebSocket hub.
func (s *Server) Hub() *WebSocketHub {
	return s.wsHub
}
