package replay

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/banshee-data/tilemap/internal/grid"
	"github.com/banshee-data/tilemap/internal/timeutil"
)

// ErrNoFrames is returned when a Player is built over an empty sequence.
var ErrNoFrames = errors.New("dataset has no frames")

// MaxFPS is the fastest playback rate Play accepts.
const MaxFPS = 1000.0

// ErrInvalidFPS is returned for playback rates outside (0, MaxFPS].
var ErrInvalidFPS = errors.New("invalid playback rate")

// ValidateFPS reports whether fps is a usable playback rate.
func ValidateFPS(fps float64) error {
	if !(fps > 0) || fps > MaxFPS {
		return fmt.Errorf("%w: fps must be in (0, %v], got %v", ErrInvalidFPS, MaxFPS, fps)
	}
	return nil
}

// View is the state a renderer needs to draw one step.
type View struct {
	Step       int         `json:"step"`
	Scans      int         `json:"scans"`
	Pose       grid.Pose   `json:"pose"`
	Obstacles  []grid.Tile `json:"obstacles"`  // current scan
	Trajectory []grid.Tile `json:"trajectory"` // visited poses, first-visit order
	Map        []grid.Tile `json:"map"`        // every obstacle seen so far
	Origin     grid.Tile   `json:"origin"`
	AtEnd      bool        `json:"at_end"`
}

// Player steps through a sequence and accumulates what it has visited.
// The step counter is always within [0, Len()-1]. Trajectory and map only
// grow until Reset; they follow the visited path, so stepping back and
// forward again does not remove anything.
type Player struct {
	seq   *grid.Sequence
	clock timeutil.Clock

	mu         sync.RWMutex
	step       int
	trajectory *grid.TileSet
	seen       *grid.TileSet
}

// NewPlayer returns a Player positioned on the first frame.
func NewPlayer(seq *grid.Sequence) (*Player, error) {
	if seq == nil || seq.Len() == 0 {
		return nil, ErrNoFrames
	}
	p := &Player{seq: seq, clock: timeutil.RealClock{}}
	p.resetLocked(0)
	return p, nil
}

// SetClock replaces the clock that paces Play. It must be called before Play.
func (p *Player) SetClock(c timeutil.Clock) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.clock = c
}

// Len returns the number of frames.
func (p *Player) Len() int {
	return p.seq.Len()
}

// Step returns the current step.
func (p *Player) Step() int {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.step
}

// StepForward advances one scan, staying on the last scan at the end.
func (p *Player) StepForward() View {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.step < p.seq.Len()-1 {
		p.step++
	}
	p.visitLocked()
	return p.viewLocked()
}

// StepBackward goes back one scan, staying on the first scan at the start.
func (p *Player) StepBackward() View {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.step > 0 {
		p.step--
	}
	p.visitLocked()
	return p.viewLocked()
}

// Seek jumps to scan i.
func (p *Player) Seek(i int) (View, error) {
	if i < 0 || i >= p.seq.Len() {
		return View{}, fmt.Errorf("seek: %w: %d not in [0, %d)", grid.ErrFrameOutOfRange, i, p.seq.Len())
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.step = i
	p.visitLocked()
	return p.viewLocked(), nil
}

// Reset clears the accumulated history and returns to the first scan.
func (p *Player) Reset() View {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.resetLocked(0)
	return p.viewLocked()
}

// ResetTo clears the accumulated history and starts again at scan i, so
// the trajectory and map hold only scan i.
func (p *Player) ResetTo(i int) (View, error) {
	if i < 0 || i >= p.seq.Len() {
		return View{}, fmt.Errorf("reset: %w: %d not in [0, %d)", grid.ErrFrameOutOfRange, i, p.seq.Len())
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.resetLocked(i)
	return p.viewLocked(), nil
}

// View returns the current state.
func (p *Player) View() View {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.viewLocked()
}

// Status returns the overlay lines for the current view.
func (p *Player) Status() []string {
	return p.View().StatusLines()
}

// StatusLines returns the overlay lines shown next to the map.
func (v View) StatusLines() []string {
	return []string{
		fmt.Sprintf("Robot_x: %d", v.Pose.TileX),
		fmt.Sprintf("Robot_y: %d", v.Pose.TileY),
		fmt.Sprintf("Robot direction: %v", v.Pose.HeadingDeg),
		fmt.Sprintf("Step: %d", v.Step),
	}
}

// Play steps forward fps times per second, calling fn with the current view
// before the first step and after each one. It returns nil once the last
// scan has been delivered, the error from fn, or the context's error.
func (p *Player) Play(ctx context.Context, fps float64, fn func(View) error) error {
	if err := ValidateFPS(fps); err != nil {
		return fmt.Errorf("play: %w", err)
	}

	v := p.View()
	if err := fn(v); err != nil {
		return err
	}
	if v.AtEnd {
		return nil
	}

	p.mu.RLock()
	clock := p.clock
	p.mu.RUnlock()

	ticker := clock.NewTicker(time.Duration(float64(time.Second) / fps))
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C():
		}
		v = p.StepForward()
		if err := fn(v); err != nil {
			return err
		}
		if v.AtEnd {
			return nil
		}
	}
}

func (p *Player) resetLocked(step int) {
	p.step = step
	p.trajectory = grid.NewTileSet(p.seq.Len())
	p.seen = grid.NewTileSet(0)
	p.visitLocked()
}

// visitLocked records the current frame's pose and obstacles.
func (p *Player) visitLocked() {
	f, err := p.seq.Frame(p.step)
	if err != nil {
		return
	}
	p.seen.AddAll(f.Obstacles...)
	p.trajectory.Add(f.Pose.Tile())
}

func (p *Player) viewLocked() View {
	f, _ := p.seq.Frame(p.step)
	return View{
		Step:       p.step,
		Scans:      p.seq.Len(),
		Pose:       f.Pose,
		Obstacles:  f.Obstacles,
		Trajectory: p.trajectory.Tiles(),
		Map:        p.seen.Tiles(),
		Origin:     p.seq.Params().Origin.Tile(),
		AtEnd:      p.step == p.seq.Len()-1,
	}
}
