package grid

import (
	"errors"
	"fmt"
)

// ErrFrameOutOfRange is returned for indices outside [0, Len()-1].
var ErrFrameOutOfRange = errors.New("frame index out of range")

// Sequence is the immutable, index-ordered output of a Builder. Accessors
// return copies, so callers cannot alter the frames other readers see.
type Sequence struct {
	frames   []Frame
	warnings []EmptyScanWarning
	params   Params
}

func newSequence(frames []Frame, warnings []EmptyScanWarning, p Params) *Sequence {
	return &Sequence{frames: frames, warnings: warnings, params: p}
}

// Len returns the number of frames, which equals the scan count.
func (s *Sequence) Len() int {
	return len(s.frames)
}

// Params returns the parameters the frames were built with.
func (s *Sequence) Params() Params {
	return s.params
}

// Frame returns frame i.
func (s *Sequence) Frame(i int) (Frame, error) {
	if err := s.checkIndex(i); err != nil {
		return Frame{}, err
	}
	return s.frames[i].clone(), nil
}

// Frames returns a copy of every frame in index order.
func (s *Sequence) Frames() []Frame {
	out := make([]Frame, len(s.frames))
	for i, f := range s.frames {
		out[i] = f.clone()
	}
	return out
}

// Warnings returns the empty-scan warnings raised while building.
func (s *Sequence) Warnings() []EmptyScanWarning {
	out := make([]EmptyScanWarning, len(s.warnings))
	copy(out, s.warnings)
	return out
}

// Trajectory returns the distinct pose tiles of frames 0..upTo, in the
// order they were first reached.
func (s *Sequence) Trajectory(upTo int) (*TileSet, error) {
	if err := s.checkIndex(upTo); err != nil {
		return nil, err
	}
	path := NewTileSet(upTo + 1)
	for _, f := range s.frames[:upTo+1] {
		path.Add(f.Pose.Tile())
	}
	return path, nil
}

// CumulativeObstacles returns the union of obstacles of frames 0..upTo, in
// first-detection order.
func (s *Sequence) CumulativeObstacles(upTo int) (*TileSet, error) {
	if err := s.checkIndex(upTo); err != nil {
		return nil, err
	}
	seen := NewTileSet(0)
	for _, f := range s.frames[:upTo+1] {
		seen.AddAll(f.Obstacles...)
	}
	return seen, nil
}

// Bounds returns the bounding box of every pose and obstacle tile.
func (s *Sequence) Bounds() Rect {
	r := EmptyRect()
	for _, f := range s.frames {
		r = r.Extend(f.Pose.Tile())
		for _, t := range f.Obstacles {
			r = r.Extend(t)
		}
	}
	return r
}

func (s *Sequence) checkIndex(i int) error {
	if i < 0 || i >= len(s.frames) {
		return fmt.Errorf("%w: %d not in [0, %d)", ErrFrameOutOfRange, i, len(s.frames))
	}
	return nil
}
