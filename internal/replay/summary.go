package replay

import (
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/banshee-data/tilemap/internal/grid"
	"github.com/banshee-data/tilemap/internal/tilelog"
)

// Summary holds dataset-wide counts and range statistics. Range statistics
// cover accepted readings only and are zero when there are none.
type Summary struct {
	DatasetID        string    `json:"dataset_id"`
	Path             string    `json:"path,omitempty"`
	Scans            int       `json:"scans"`
	EmptyScans       int       `json:"empty_scans"`
	Readings         int       `json:"readings"`
	AcceptedReadings int       `json:"accepted_readings"`
	RangeMinM        float64   `json:"range_min_m"`
	RangeMaxM        float64   `json:"range_max_m"`
	RangeMeanM       float64   `json:"range_mean_m"`
	RangeStdDevM     float64   `json:"range_stddev_m"`
	TrajectoryTiles  int       `json:"trajectory_tiles"`
	MapTiles         int       `json:"map_tiles"`
	Bounds           grid.Rect `json:"bounds"`
	Origin           grid.Tile `json:"origin"`
	TileSizeCm       float64   `json:"tile_size_cm"`
	FieldOfViewDeg   float64   `json:"field_of_view_deg"`
}

// Summarize computes the summary of records and the sequence built from
// them. The trajectory and map counts cover every frame.
func Summarize(records []tilelog.Record, seq *grid.Sequence) Summary {
	p := seq.Params()
	s := Summary{
		Scans:          seq.Len(),
		EmptyScans:     len(seq.Warnings()),
		Bounds:         seq.Bounds(),
		Origin:         p.Origin.Tile(),
		TileSizeCm:     p.TileSizeCm,
		FieldOfViewDeg: p.FieldOfViewDeg,
	}

	var accepted []float64
	for _, rec := range records {
		s.Readings += len(rec.Ranges)
		for _, d := range rec.Ranges {
			if p.InRange(d) {
				accepted = append(accepted, d)
			}
		}
	}
	s.AcceptedReadings = len(accepted)
	if len(accepted) > 0 {
		s.RangeMinM = floats.Min(accepted)
		s.RangeMaxM = floats.Max(accepted)
		s.RangeMeanM, s.RangeStdDevM = stat.MeanStdDev(accepted, nil)
		if math.IsNaN(s.RangeStdDevM) {
			s.RangeStdDevM = 0
		}
	}

	if seq.Len() > 0 {
		last := seq.Len() - 1
		if path, err := seq.Trajectory(last); err == nil {
			s.TrajectoryTiles = path.Len()
		}
		if seen, err := seq.CumulativeObstacles(last); err == nil {
			s.MapTiles = seen.Len()
		}
	}
	return s
}
