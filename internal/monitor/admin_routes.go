package monitor

import (
	"net/http"

	"tailscale.com/tsweb"

	"github.com/banshee-data/tilemap/internal/version"
)

// AttachAdminRoutes mounts the debug pages under /debug/. Access is limited
// to loopback and tailnet clients by tsweb.
func (ws *WebServer) AttachAdminRoutes(mux *http.ServeMux) {
	debug := tsweb.Debugger(mux)

	debug.KV("Version", version.String())
	debug.KV("Dataset", ws.dataset.ID)
	debug.KV("Log", ws.dataset.Path)
	debug.KV("Scans", ws.dataset.Len())
	debug.KVFunc("Player step", func() any { return ws.player.Step() })
	debug.KVFunc("Playback sessions", func() any { return ws.ActiveSessions() })

	debug.HandleFunc("map", "Tile map scatter (?upto=N)", ws.handleMapScatter)
	debug.HandleFunc("map.png", "Tile map PNG (?upto=N)", ws.handleMapPNG)
	debug.HandleFunc("summary", "Dataset summary", ws.handleSummary)
}
