package grid

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/banshee-data/tilemap/internal/monitoring"
	"github.com/banshee-data/tilemap/internal/tilelog"
)

// EmptyScanWarning marks a record whose range list had no readings. The
// frame is still produced, with an empty obstacle set.
type EmptyScanWarning struct {
	Index int `json:"index"` // frame index
	Line  int `json:"line"`  // source log line
}

func (w EmptyScanWarning) String() string {
	return fmt.Sprintf("scan %d (line %d) has no readings", w.Index, w.Line)
}

// Builder converts parsed records into frames using fixed run parameters.
type Builder struct {
	params Params
}

// NewBuilder returns a Builder for p. Parameters are validated by Build.
func NewBuilder(p Params) *Builder {
	return &Builder{params: p}
}

// Params returns the builder's run parameters.
func (b *Builder) Params() Params {
	return b.params
}

// BuildFrame converts one record into the frame at index. The second return
// value is non-nil when the record's scan was empty.
func (b *Builder) BuildFrame(index int, rec tilelog.Record) (Frame, *EmptyScanWarning) {
	pose := ToDiscretePose(rec.Pose, b.params.Origin, b.params.TileSizeCm)
	obstacles := ToObstacleTiles(rec.Ranges, pose, b.params)

	frame := Frame{Index: index, Pose: pose, Obstacles: obstacles.Tiles()}
	debugf("frame %d: pose=(%d,%d,%.3f°) readings=%d obstacles=%d",
		index, pose.TileX, pose.TileY, pose.HeadingDeg, len(rec.Ranges), obstacles.Len())

	if len(rec.Ranges) == 0 {
		return frame, &EmptyScanWarning{Index: index, Line: rec.Line}
	}
	return frame, nil
}

// Build converts every record into its frame. Frame i always comes from
// records[i], whether frames are built sequentially or by Params.Workers
// goroutines. Either every frame is built or an error is returned.
func (b *Builder) Build(ctx context.Context, records []tilelog.Record) (*Sequence, error) {
	if err := b.params.Validate(); err != nil {
		return nil, err
	}

	frames := make([]Frame, len(records))
	warned := make([]*EmptyScanWarning, len(records))

	if b.params.Workers <= 1 {
		for i, rec := range records {
			if err := ctx.Err(); err != nil {
				return nil, fmt.Errorf("build frames: %w", err)
			}
			frames[i], warned[i] = b.BuildFrame(i, rec)
		}
	} else {
		g, gctx := errgroup.WithContext(ctx)
		g.SetLimit(b.params.Workers)
		for i := range records {
			g.Go(func() error {
				if err := gctx.Err(); err != nil {
					return err
				}
				frames[i], warned[i] = b.BuildFrame(i, records[i])
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			return nil, fmt.Errorf("build frames: %w", err)
		}
	}

	var warnings []EmptyScanWarning
	for _, w := range warned {
		if w != nil {
			monitoring.Warnf("grid: %s", w)
			warnings = append(warnings, *w)
		}
	}

	return newSequence(frames, warnings, b.params), nil
}
