package tilelog

// RawPose is the robot pose as logged, in meters and radians.
type RawPose struct {
	XMeters    float64 `json:"x_m"`
	YMeters    float64 `json:"y_m"`
	HeadingRad float64 `json:"heading_rad"`
}

// Record is one parsed log line. Records are produced once per load and are
// not mutated afterwards; use RangesCopy when handing ranges to code that may
// modify them.
type Record struct {
	Pose   RawPose   // odometry pose
	Ranges []float64 // range readings in meters, ordered by scan angle
	Line   int       // 1-based line number in the source log
}

// ScanLen returns the number of range readings in the record.
func (r Record) ScanLen() int {
	return len(r.Ranges)
}

// RangesCopy returns a copy of the range readings.
func (r Record) RangesCopy() []float64 {
	out := make([]float64, len(r.Ranges))
	copy(out, r.Ranges)
	return out
}
