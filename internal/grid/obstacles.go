package grid

import (
	"math"

	"github.com/banshee-data/tilemap/internal/units"
)

// ScanResolution returns the angular step in degrees between consecutive
// readings of an n-reading scan. It returns 0 for an empty scan.
func ScanResolution(fovDeg float64, n int) float64 {
	if n == 0 {
		return 0
	}
	return fovDeg / float64(n)
}

// ReadingAngleDeg returns the world angle in degrees of reading i.
//
// Reading 0 sits at -fov/2 and reading n-1 at fov/2 - resolution relative
// to the heading. The heading is negated because the sensor's index grows
// clockwise while world angles grow counter-clockwise.
func ReadingAngleDeg(headingDeg, resolution float64, i int, fovDeg float64) float64 {
	return -headingDeg + resolution*float64(i) - fovDeg/2
}

// ToObstacleTiles projects a scan taken at pose into obstacle tiles.
// Readings outside the params' trusted window are skipped and duplicate
// tiles collapse. An empty scan yields an empty set.
func ToObstacleTiles(ranges []float64, pose Pose, p Params) *TileSet {
	n := len(ranges)
	obstacles := NewTileSet(n)
	if n == 0 {
		return obstacles
	}

	resolution := ScanResolution(p.FieldOfViewDeg, n)
	for i, d := range ranges {
		if !p.InRange(d) {
			continue
		}
		angle := units.DegreesToRadians(ReadingAngleDeg(pose.HeadingDeg, resolution, i, p.FieldOfViewDeg))

		x := float64(pose.TileX) + units.MetersToTiles(math.Cos(angle)*d, p.TileSizeCm)
		y := float64(pose.TileY) + units.MetersToTiles(math.Sin(angle)*d, p.TileSizeCm)
		obstacles.Add(Tile{X: RoundAwayFromZero(x), Y: RoundAwayFromZero(y)})
	}
	return obstacles
}
