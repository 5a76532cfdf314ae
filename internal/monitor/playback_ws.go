package monitor

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"golang.org/x/sync/errgroup"

	"github.com/banshee-data/tilemap/internal/httputil"
	"github.com/banshee-data/tilemap/internal/monitoring"
	"github.com/banshee-data/tilemap/internal/replay"
)

const (
	// Time allowed to write a message to the peer.
	writeWait = 1 * time.Second
	// Maximum message size allowed from peer.
	maxMessageSize = 4096
	// Pings are sent at pingPeriod; a peer silent for pongWait is gone.
	pingPeriod = 5 * time.Second
	pongWait   = 3 * pingPeriod
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 16 * 1024,
}

// errPlaybackComplete stops a session's routines once the last scan is sent.
var errPlaybackComplete = errors.New("playback complete")

// PlaybackMessage is one websocket update.
type PlaybackMessage struct {
	Session string      `json:"session"`
	View    replay.View `json:"view"`
	Status  []string    `json:"status"`
}

// handlePlaybackWS streams the replay to a websocket client, one message
// per scan, at `fps` scans per second. Each connection gets its own player.
// Query params:
//   - fps (optional; defaults to the configured rate)
//   - from (optional; first scan, default 0; history starts there)
func (ws *WebServer) handlePlaybackWS(w http.ResponseWriter, r *http.Request) {
	fps, err := httputil.QueryFloat(r, "fps", ws.fps)
	if err == nil {
		err = replay.ValidateFPS(fps)
	}
	if err != nil {
		httputil.BadRequest(w, err.Error())
		return
	}
	from, err := httputil.QueryInt(r, "from", 0, 0)
	if err != nil {
		httputil.BadRequest(w, err.Error())
		return
	}

	player, err := replay.NewPlayer(ws.dataset.Sequence())
	if err != nil {
		httputil.InternalServerError(w, err.Error())
		return
	}
	if _, err := player.ResetTo(from); err != nil {
		httputil.NotFound(w, err.Error())
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		// The upgrader has already replied.
		monitoring.Logf("playback: upgrade failed: %v", err)
		return
	}

	sess := &playbackSession{id: uuid.NewString(), conn: conn, player: player, fps: fps}
	ws.addSession(sess.id)
	defer ws.removeSession(sess.id)

	monitoring.Logf("playback: session %s started at scan %d, %.1f fps", sess.id[:8], from, fps)
	if err := sess.run(r.Context()); err != nil {
		monitoring.Logf("playback: session %s ended: %v", sess.id[:8], err)
		return
	}
	monitoring.Logf("playback: session %s finished", sess.id[:8])
}

type playbackSession struct {
	id     string
	conn   *websocket.Conn
	player *replay.Player
	fps    float64
}

// run publishes views until playback completes, the client goes away or
// ctx ends. Ordinary endings return nil.
func (s *playbackSession) run(ctx context.Context) error {
	defer s.conn.Close()

	group, groupCtx := errgroup.WithContext(ctx)
	group.Go(func() error {
		return s.readMessages()
	})
	group.Go(func() error {
		return s.pingPong(groupCtx)
	})
	group.Go(func() error {
		return s.publish(groupCtx)
	})
	group.Go(func() error {
		// Unblocks readMessages once any routine has finished.
		<-groupCtx.Done()
		_ = s.conn.SetReadDeadline(time.Now())
		return nil
	})

	err := group.Wait()
	switch {
	case errors.Is(err, errPlaybackComplete),
		errors.Is(err, context.Canceled),
		isClosure(err):
		return nil
	}
	return err
}

// readMessages drains client messages so that pong and close frames are
// processed. Client payloads are ignored.
func (s *playbackSession) readMessages() error {
	s.conn.SetReadLimit(maxMessageSize)
	_ = s.conn.SetReadDeadline(time.Now().Add(pongWait))
	s.conn.SetPongHandler(func(string) error {
		return s.conn.SetReadDeadline(time.Now().Add(pongWait))
	})
	for {
		if _, _, err := s.conn.ReadMessage(); err != nil {
			return err
		}
	}
}

func (s *playbackSession) pingPong(ctx context.Context) error {
	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			if err := s.conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeWait)); err != nil {
				return fmt.Errorf("ping failed: %w", err)
			}
		}
	}
}

func (s *playbackSession) publish(ctx context.Context) error {
	err := s.player.Play(ctx, s.fps, func(v replay.View) error {
		if err := s.conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
			return fmt.Errorf("failed to set deadline: %w", err)
		}
		msg := PlaybackMessage{Session: s.id, View: v, Status: v.StatusLines()}
		if err := s.conn.WriteJSON(msg); err != nil {
			return fmt.Errorf("publish failed: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	closeMsg := websocket.FormatCloseMessage(websocket.CloseNormalClosure, errPlaybackComplete.Error())
	if err := s.conn.WriteControl(websocket.CloseMessage, closeMsg, time.Now().Add(writeWait)); err != nil && !isClosure(err) {
		return fmt.Errorf("close failed: %w", err)
	}
	return errPlaybackComplete
}

func isClosure(err error) bool {
	return err != nil && websocket.IsCloseError(
		err,
		websocket.CloseNormalClosure,
		websocket.CloseGoingAway)
}
