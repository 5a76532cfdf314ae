package replay

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/banshee-data/tilemap/internal/fsutil"
	"github.com/banshee-data/tilemap/internal/grid"
	"github.com/banshee-data/tilemap/internal/monitoring"
	"github.com/banshee-data/tilemap/internal/tilelog"
)

// Dataset is a fully loaded log together with its frames.
type Dataset struct {
	ID       string
	Path     string
	LoadedAt time.Time

	records  []tilelog.Record
	sequence *grid.Sequence
}

// Load parses the log at path and builds every frame. Nothing is returned
// unless the whole log parsed and every frame was built.
func Load(ctx context.Context, fsys fsutil.FileSystem, path string, params grid.Params) (*Dataset, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}

	start := time.Now()
	records, err := tilelog.ParseFile(fsys, path)
	if err != nil {
		return nil, err
	}

	seq, err := grid.NewBuilder(params).Build(ctx, records)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", path, err)
	}

	ds := &Dataset{
		ID:       uuid.New().String(),
		Path:     path,
		LoadedAt: time.Now(),
		records:  records,
		sequence: seq,
	}
	monitoring.Logf("replay: dataset %s loaded %d frames from %s in %v",
		ds.ID[:8], seq.Len(), path, time.Since(start).Round(time.Millisecond))
	return ds, nil
}

// NewDataset wraps records that were already parsed. It is the in-memory
// counterpart of Load.
func NewDataset(ctx context.Context, records []tilelog.Record, params grid.Params) (*Dataset, error) {
	seq, err := grid.NewBuilder(params).Build(ctx, records)
	if err != nil {
		return nil, err
	}
	return &Dataset{
		ID:       uuid.New().String(),
		LoadedAt: time.Now(),
		records:  records,
		sequence: seq,
	}, nil
}

// Sequence returns the dataset's frames.
func (d *Dataset) Sequence() *grid.Sequence {
	return d.sequence
}

// Len returns the scan count.
func (d *Dataset) Len() int {
	return d.sequence.Len()
}

// Params returns the parameters the frames were built with.
func (d *Dataset) Params() grid.Params {
	return d.sequence.Params()
}

// Record returns a copy of parsed record i.
func (d *Dataset) Record(i int) (tilelog.Record, error) {
	if i < 0 || i >= len(d.records) {
		return tilelog.Record{}, fmt.Errorf("%w: %d not in [0, %d)", grid.ErrFrameOutOfRange, i, len(d.records))
	}
	rec := d.records[i]
	rec.Ranges = rec.RangesCopy()
	return rec, nil
}

// Summary describes the dataset as a whole.
func (d *Dataset) Summary() Summary {
	s := Summarize(d.records, d.sequence)
	s.DatasetID = d.ID
	s.Path = d.Path
	return s
}
