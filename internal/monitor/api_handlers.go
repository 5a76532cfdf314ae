package monitor

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/banshee-data/tilemap/internal/grid"
	"github.com/banshee-data/tilemap/internal/httputil"
	"github.com/banshee-data/tilemap/internal/replay"
)

const (
	defaultFramesLimit = 100
	maxFramesLimit     = 1000
)

// FramesPage is one page of /api/frames.
type FramesPage struct {
	Total  int          `json:"total"`
	Offset int          `json:"offset"`
	Limit  int          `json:"limit"`
	Frames []grid.Frame `json:"frames"`
}

// PlayerResponse is the body returned by the /api/player endpoints.
type PlayerResponse struct {
	View   replay.View `json:"view"`
	Status []string    `json:"status"`
}

// handleSummary returns the dataset summary.
func (ws *WebServer) handleSummary(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		httputil.MethodNotAllowed(w, http.MethodGet)
		return
	}
	httputil.WriteJSONOK(w, ws.dataset.Summary())
}

// handleFrames returns a page of frames.
// Query params:
//
//	offset (optional, default 0)
//	limit  (optional, default 100, max 1000)
func (ws *WebServer) handleFrames(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		httputil.MethodNotAllowed(w, http.MethodGet)
		return
	}
	offset, err := httputil.QueryInt(r, "offset", 0, 0)
	if err != nil {
		httputil.BadRequest(w, err.Error())
		return
	}
	limit, err := httputil.QueryInt(r, "limit", defaultFramesLimit, 1)
	if err != nil {
		httputil.BadRequest(w, err.Error())
		return
	}
	if limit > maxFramesLimit {
		limit = maxFramesLimit
	}

	seq := ws.dataset.Sequence()
	page := FramesPage{Total: seq.Len(), Offset: offset, Limit: limit, Frames: []grid.Frame{}}
	for i := offset; i < seq.Len() && i < offset+limit; i++ {
		f, err := seq.Frame(i)
		if err != nil {
			httputil.InternalServerError(w, err.Error())
			return
		}
		page.Frames = append(page.Frames, f)
	}
	httputil.WriteJSONOK(w, page)
}

// handleFrame returns the frame named by the {index} path segment.
func (ws *WebServer) handleFrame(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		httputil.MethodNotAllowed(w, http.MethodGet)
		return
	}
	index, err := strconv.Atoi(r.PathValue("index"))
	if err != nil {
		httputil.BadRequest(w, fmt.Sprintf("invalid frame index %q", r.PathValue("index")))
		return
	}
	f, err := ws.dataset.Sequence().Frame(index)
	if errors.Is(err, grid.ErrFrameOutOfRange) {
		httputil.NotFound(w, err.Error())
		return
	} else if err != nil {
		httputil.InternalServerError(w, err.Error())
		return
	}
	httputil.WriteJSONOK(w, f)
}

// handlePlayer returns the shared player's current view.
func (ws *WebServer) handlePlayer(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		httputil.MethodNotAllowed(w, http.MethodGet)
		return
	}
	ws.writePlayer(w, ws.player.View())
}

// handlePlayerStep moves the shared player.
// Form values (one of):
//
//	direction=forward|backward
//	index=N
func (ws *WebServer) handlePlayerStep(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		httputil.MethodNotAllowed(w, http.MethodPost)
		return
	}

	if r.FormValue("index") != "" {
		index, err := httputil.QueryInt(r, "index", 0, 0)
		if err != nil {
			httputil.BadRequest(w, err.Error())
			return
		}
		v, err := ws.player.Seek(index)
		if err != nil {
			httputil.NotFound(w, err.Error())
			return
		}
		ws.writePlayer(w, v)
		return
	}

	switch dir := r.FormValue("direction"); dir {
	case "", "forward":
		ws.writePlayer(w, ws.player.StepForward())
	case "backward":
		ws.writePlayer(w, ws.player.StepBackward())
	default:
		httputil.BadRequest(w, fmt.Sprintf("direction must be forward or backward, got %q", dir))
	}
}

// handlePlayerReset clears the shared player's history.
func (ws *WebServer) handlePlayerReset(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		httputil.MethodNotAllowed(w, http.MethodPost)
		return
	}
	ws.writePlayer(w, ws.player.Reset())
}

func (ws *WebServer) writePlayer(w http.ResponseWriter, v replay.View) {
	httputil.WriteJSONOK(w, PlayerResponse{View: v, Status: v.StatusLines()})
}
