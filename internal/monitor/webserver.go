// Package monitor serves a loaded replay over HTTP: a JSON API for frames
// and stepping, websocket playback, and debug views of the tile map.
package monitor

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/banshee-data/tilemap/internal/grid"
	"github.com/banshee-data/tilemap/internal/monitoring"
	"github.com/banshee-data/tilemap/internal/replay"
)

// WebServer exposes one dataset. The shared Player behind /api/player is
// separate from the per-connection players used for websocket playback.
type WebServer struct {
	address string
	dataset *replay.Dataset
	player  *replay.Player
	mapSize grid.MapSize
	fps     float64
	plotter *MapPlotter
	server  *http.Server

	sessionsMu sync.Mutex
	sessions   map[string]time.Time
}

// WebServerConfig contains configuration options for the web server.
type WebServerConfig struct {
	Address string
	Dataset *replay.Dataset
	MapSize grid.MapSize
	FPS     float64
}

// NewWebServer creates a web server for cfg.Dataset. The dataset must
// contain at least one frame.
func NewWebServer(cfg WebServerConfig) (*WebServer, error) {
	if cfg.Dataset == nil {
		return nil, fmt.Errorf("monitor: no dataset")
	}
	player, err := replay.NewPlayer(cfg.Dataset.Sequence())
	if err != nil {
		return nil, fmt.Errorf("monitor: %w", err)
	}
	if cfg.FPS == 0 {
		cfg.FPS = 10
	}
	if err := replay.ValidateFPS(cfg.FPS); err != nil {
		return nil, fmt.Errorf("monitor: %w", err)
	}

	ws := &WebServer{
		address:  cfg.Address,
		dataset:  cfg.Dataset,
		player:   player,
		mapSize:  cfg.MapSize,
		fps:      cfg.FPS,
		plotter:  NewMapPlotter(cfg.Dataset.Sequence(), cfg.MapSize),
		sessions: make(map[string]time.Time),
	}
	ws.server = &http.Server{
		Addr:              ws.address,
		Handler:           ws.setupRoutes(),
		ReadHeaderTimeout: 5 * time.Second,
	}
	return ws, nil
}

// Handler returns the server's routes.
func (ws *WebServer) Handler() http.Handler {
	return ws.server.Handler
}

// Start serves until ctx is cancelled, then shuts down.
func (ws *WebServer) Start(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		monitoring.Logf("Starting HTTP server on %s", ws.address)
		if err := ws.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err, ok := <-errCh:
		if ok {
			return fmt.Errorf("failed to start server: %w", err)
		}
		return nil
	case <-ctx.Done():
	}
	monitoring.Logf("shutting down HTTP server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	if err := ws.server.Shutdown(shutdownCtx); err != nil {
		monitoring.Logf("HTTP server shutdown error: %v", err)
		if err := ws.server.Close(); err != nil {
			monitoring.Logf("HTTP server force close error: %v", err)
		}
	}

	monitoring.Logf("HTTP server routine stopped")
	return nil
}

// setupRoutes configures the HTTP routes and handlers.
func (ws *WebServer) setupRoutes() *http.ServeMux {
	mux := http.NewServeMux()

	mux.HandleFunc("/health", ws.handleHealth)
	mux.HandleFunc("/api/summary", ws.handleSummary)
	mux.HandleFunc("/api/frames", ws.handleFrames)
	mux.HandleFunc("/api/frames/{index}", ws.handleFrame)
	mux.HandleFunc("/api/player", ws.handlePlayer)
	mux.HandleFunc("/api/player/step", ws.handlePlayerStep)
	mux.HandleFunc("/api/player/reset", ws.handlePlayerReset)
	mux.HandleFunc("/ws/playback", ws.handlePlaybackWS)

	ws.AttachAdminRoutes(mux)
	return mux
}

// handleHealth handles the health check endpoint.
func (ws *WebServer) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	fmt.Fprintf(w, `{"status": "ok", "service": "tilemap", "dataset": %q, "timestamp": "%s"}`,
		ws.dataset.ID, time.Now().UTC().Format(time.RFC3339))
}

func (ws *WebServer) addSession(id string) {
	ws.sessionsMu.Lock()
	defer ws.sessionsMu.Unlock()
	ws.sessions[id] = time.Now()
}

func (ws *WebServer) removeSession(id string) {
	ws.sessionsMu.Lock()
	defer ws.sessionsMu.Unlock()
	delete(ws.sessions, id)
}

// ActiveSessions returns the number of open websocket playback sessions.
func (ws *WebServer) ActiveSessions() int {
	ws.sessionsMu.Lock()
	defer ws.sessionsMu.Unlock()
	return len(ws.sessions)
}

// Close shuts down the web server.
func (ws *WebServer) Close() error {
	if ws.server != nil {
		return ws.server.Close()
	}
	return nil
}
