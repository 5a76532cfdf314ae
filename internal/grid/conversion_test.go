package grid

import (
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/banshee-data/tilemap/internal/tilelog"
)

func TestRoundAwayFromZero(t *testing.T) {
	tests := []struct {
		name     string
		in       float64
		expected int
	}{
		{"zero", 0, 0},
		{"negative zero", math.Copysign(0, -1), 0},
		{"small positive rounds up", 0.49, 1},
		{"small negative rounds down", -0.49, -1},
		{"tiny positive", 1e-12, 1},
		{"tiny negative", -1e-12, -1},
		{"integer positive", 3, 3},
		{"integer negative", -3, -3},
		{"just above integer", 16.000001, 17},
		{"half", 2.5, 3},
		{"negative half", -2.5, -3},
		{"fraction", 16.33974596215561, 17},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, RoundAwayFromZero(tt.in))
		})
	}
}

func TestToDiscretePose_RoundsAwayFromOrigin(t *testing.T) {
	origin := Origin{}
	tests := []struct {
		name  string
		raw   tilelog.RawPose
		tileX int
		tileY int
	}{
		{"x just inside first tile", tilelog.RawPose{XMeters: 0.049}, 1, 0},
		{"negative x", tilelog.RawPose{XMeters: -0.049}, -1, 0},
		{"y is inverted", tilelog.RawPose{YMeters: 0.049}, 0, -1},
		{"negative y is inverted", tilelog.RawPose{YMeters: -0.049}, 0, 1},
		{"exact tile boundary", tilelog.RawPose{XMeters: 0.2, YMeters: -0.3}, 2, 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pose := ToDiscretePose(tt.raw, origin, 10)
			assert.Equal(t, tt.tileX, pose.TileX)
			assert.Equal(t, tt.tileY, pose.TileY)
		})
	}
}

func TestToDiscretePose_OriginOffset(t *testing.T) {
	origin := Origin{X: 25, Y: 25}

	pose := ToDiscretePose(tilelog.RawPose{XMeters: 1, YMeters: 1}, origin, 10)
	assert.Equal(t, Pose{TileX: 35, TileY: 15}, pose)

	pose = ToDiscretePose(tilelog.RawPose{XMeters: -3.01, YMeters: -0.01}, origin, 10)
	// 25 - 30.1 = -5.1 -> -6 ; 25 + 0.1 = 25.1 -> 26
	assert.Equal(t, -6, pose.TileX)
	assert.Equal(t, 26, pose.TileY)

	pose = ToDiscretePose(tilelog.RawPose{XMeters: 0.5}, origin, 5)
	assert.Equal(t, 35, pose.TileX, "tile size scales the offset")
}

func TestNormalizeHeading(t *testing.T) {
	tests := []struct {
		name     string
		rad      float64
		expected float64
	}{
		{"zero", 0, 0},
		{"quarter", math.Pi / 2, 90},
		{"half", math.Pi, 180},
		{"negative quarter", -math.Pi / 2, 270},
		{"negative half", -math.Pi, 180},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.expected, NormalizeHeading(tt.rad), 1e-9)
		})
	}
}

func TestNormalizeHeading_RangeForInputsWithinOneTurn(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	const span = 2*math.Pi - 1e-6
	for i := 0; i < 10000; i++ {
		rad := (rng.Float64()*2 - 1) * span
		deg := NormalizeHeading(rad)
		require.GreaterOrEqual(t, deg, 0.0, "heading for %v rad", rad)
		require.Less(t, deg, 360.0, "heading for %v rad", rad)
	}
}

// Only negative inputs are folded; headings at or past a full turn are kept
// as logged so downstream consumers can see them.
func TestNormalizeHeading_NotWrappedPastFullTurn(t *testing.T) {
	assert.InDelta(t, 360.0, NormalizeHeading(2*math.Pi), 1e-9)
	assert.InDelta(t, 540.0, NormalizeHeading(3*math.Pi), 1e-9)
	assert.InDelta(t, -90.0+360.0, NormalizeHeading(-math.Pi/2), 1e-9)
	assert.InDelta(t, -90.0, NormalizeHeading(-2.5*math.Pi), 1e-9,
		"inputs below -2π still only get one +360")
}

func TestNormalizeHeading_TinyNegativeReachesFullTurn(t *testing.T) {
	assert.Equal(t, 360.0, NormalizeHeading(-1e-18))
}

func TestToDiscretePose_HeadingNotRounded(t *testing.T) {
	pose := ToDiscretePose(tilelog.RawPose{HeadingRad: 0.1}, Origin{}, 10)
	assert.InDelta(t, 5.729577951308232, pose.HeadingDeg, 1e-12)
}

func TestScanResolution(t *testing.T) {
	assert.Equal(t, 240.0, ScanResolution(240, 1))
	assert.Equal(t, 1.0, ScanResolution(240, 240))
	assert.Equal(t, 0.0, ScanResolution(240, 0))
}

func TestReadingAngleDeg(t *testing.T) {
	res := ScanResolution(240, 4) // 60
	assert.Equal(t, -120.0, ReadingAngleDeg(0, res, 0, 240))
	assert.Equal(t, 60.0, ReadingAngleDeg(0, res, 3, 240), "last reading sits at fov/2 - resolution")
	assert.Equal(t, -210.0, ReadingAngleDeg(90, res, 0, 240), "heading is subtracted")
}

func TestToObstacleTiles_SingleReadingEndToEnd(t *testing.T) {
	p := DefaultParams()
	rec, err := tilelog.ParseLine("0,0,0;1.0")
	require.NoError(t, err)

	pose := ToDiscretePose(rec.Pose, p.Origin, p.TileSizeCm)
	assert.Equal(t, Pose{TileX: 25, TileY: 25, HeadingDeg: 0}, pose)

	obstacles := ToObstacleTiles(rec.Ranges, pose, p)
	// angle = -120°: x = 25 + cos*10 = 20.0 -> 20 ; y = 25 + sin*10 = 16.34 -> 17
	assert.Equal(t, []Tile{{X: 20, Y: 17}}, obstacles.Tiles())
}

func TestToObstacleTiles_RangeWindowIsExclusive(t *testing.T) {
	p := DefaultParams()
	pose := Pose{TileX: 25, TileY: 25}

	tests := []struct {
		name string
		d    float64
		kept bool
	}{
		{"lower bound", 0.5, false},
		{"upper bound", 5.0, false},
		{"just above lower", 0.51, true},
		{"just below upper", 4.99, true},
		{"too near", 0.1, false},
		{"too far", 12, false},
		{"zero", 0, false},
		{"negative", -1, false},
		{"nan", math.NaN(), false},
		{"inf", math.Inf(1), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ToObstacleTiles([]float64{tt.d}, pose, p)
			if tt.kept {
				assert.Equal(t, 1, got.Len())
			} else {
				assert.Equal(t, 0, got.Len())
			}
		})
	}
}

func TestToObstacleTiles_EmptyScan(t *testing.T) {
	got := ToObstacleTiles(nil, Pose{TileX: 3, TileY: 4}, DefaultParams())
	require.NotNil(t, got)
	assert.Equal(t, 0, got.Len())
	assert.Equal(t, []Tile{}, got.Tiles())
}

func TestToObstacleTiles_DuplicatesCollapse(t *testing.T) {
	p := DefaultParams()
	p.Origin = Origin{}
	p.FieldOfViewDeg = 1

	ranges := make([]float64, 10)
	for i := range ranges {
		ranges[i] = 1.0
	}
	got := ToObstacleTiles(ranges, Pose{}, p)

	// Readings sweep -0.5°..0.4°: negative angles land in row -1, the
	// reading at exactly 0° in row 0, positive angles in row 1.
	assert.Equal(t, []Tile{{X: 10, Y: -1}, {X: 10, Y: 0}, {X: 10, Y: 1}}, got.Tiles())
}

func TestToObstacleTiles_HeadingRotatesScan(t *testing.T) {
	p := DefaultParams()
	p.Origin = Origin{}
	p.FieldOfViewDeg = 360

	// A single reading of a 360° scan sits at -180° - heading.
	east := ToObstacleTiles([]float64{2}, Pose{HeadingDeg: 180}, p)
	require.Equal(t, 1, east.Len())
	assert.Equal(t, 20, east.Tiles()[0].X)

	north := ToObstacleTiles([]float64{2}, Pose{HeadingDeg: 90}, p)
	require.Equal(t, 1, north.Len())
	assert.Equal(t, 20, north.Tiles()[0].Y)

	west := ToObstacleTiles([]float64{2}, Pose{HeadingDeg: 0}, p)
	require.Equal(t, 1, west.Len())
	assert.Equal(t, -20, west.Tiles()[0].X)
}

func TestToObstacleTiles_CountNeverExceedsReadings(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	p := DefaultParams()
	for trial := 0; trial < 200; trial++ {
		n := rng.Intn(400)
		ranges := make([]float64, n)
		for i := range ranges {
			ranges[i] = rng.Float64() * 7
		}
		pose := Pose{TileX: rng.Intn(100) - 50, TileY: rng.Intn(100) - 50, HeadingDeg: rng.Float64() * 360}
		got := ToObstacleTiles(ranges, pose, p)
		require.LessOrEqual(t, got.Len(), n)
	}
}

func TestToObstacleTiles_Deterministic(t *testing.T) {
	p := DefaultParams()
	ranges := []float64{0.7, 1.2, 2.5, 3.3, 4.1, 0.9, 1.1, 2.2}
	pose := Pose{TileX: 40, TileY: 12, HeadingDeg: 33.3}

	first := ToObstacleTiles(ranges, pose, p).Tiles()
	for i := 0; i < 20; i++ {
		assert.Equal(t, first, ToObstacleTiles(ranges, pose, p).Tiles())
	}
}
