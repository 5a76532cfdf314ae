package grid

import (
	"errors"
	"fmt"
	"math"
)

// Defaults match the recording rig the replay tool was written for: a 10 cm
// grid with the logged origin at tile (25,25) and a 240° lidar sweep.
const (
	DefaultOriginX        = 25
	DefaultOriginY        = 25
	DefaultTileSizeCm     = 10.0
	DefaultFieldOfViewDeg = 240.0

	// Readings outside (DefaultMinRangeM, DefaultMaxRangeM) are treated as no
	// obstacle: too close is self-detection noise, too far is unreliable.
	DefaultMinRangeM = 0.5
	DefaultMaxRangeM = 5.0
)

// ErrInvalidParams is wrapped by every Params validation failure.
var ErrInvalidParams = errors.New("invalid grid parameters")

// Params are the run-wide constants for converting records into frames.
type Params struct {
	Origin         Origin  // tile of the logged (0,0)
	TileSizeCm     float64 // centimeters per tile edge
	FieldOfViewDeg float64 // total angular width of one scan
	MinRangeM      float64 // exclusive lower bound of a trusted reading
	MaxRangeM      float64 // exclusive upper bound of a trusted reading
	Workers        int     // frames built concurrently; <= 1 is sequential
}

// DefaultParams returns the default run parameters.
func DefaultParams() Params {
	return Params{
		Origin:         Origin{X: DefaultOriginX, Y: DefaultOriginY},
		TileSizeCm:     DefaultTileSizeCm,
		FieldOfViewDeg: DefaultFieldOfViewDeg,
		MinRangeM:      DefaultMinRangeM,
		MaxRangeM:      DefaultMaxRangeM,
		Workers:        1,
	}
}

// Validate checks that the parameters describe a usable grid.
func (p Params) Validate() error {
	if !(p.TileSizeCm > 0) || math.IsInf(p.TileSizeCm, 0) {
		return fmt.Errorf("%w: tile size must be positive, got %v", ErrInvalidParams, p.TileSizeCm)
	}
	if !(p.FieldOfViewDeg > 0) || math.IsInf(p.FieldOfViewDeg, 0) {
		return fmt.Errorf("%w: field of view must be positive, got %v", ErrInvalidParams, p.FieldOfViewDeg)
	}
	if math.IsNaN(p.MinRangeM) || math.IsNaN(p.MaxRangeM) || p.MinRangeM >= p.MaxRangeM {
		return fmt.Errorf("%w: range window (%v, %v) is empty", ErrInvalidParams, p.MinRangeM, p.MaxRangeM)
	}
	if p.Workers < 0 {
		return fmt.Errorf("%w: workers must not be negative, got %d", ErrInvalidParams, p.Workers)
	}
	return nil
}

// InRange reports whether a reading falls strictly inside the trusted window.
func (p Params) InRange(d float64) bool {
	return d > p.MinRangeM && d < p.MaxRangeM
}
