package grid

import (
	"github.com/banshee-data/tilemap/internal/tilelog"
	"github.com/banshee-data/tilemap/internal/units"
)

// ToDiscretePose converts a logged pose into a grid pose.
//
// x grows with tile column; y is inverted because grid rows grow downward
// while logged y grows upward. Both are rounded with RoundAwayFromZero.
// The heading is converted to degrees by NormalizeHeading and left
// unrounded.
func ToDiscretePose(raw tilelog.RawPose, origin Origin, tileSizeCm float64) Pose {
	x := float64(origin.X) + units.MetersToTiles(raw.XMeters, tileSizeCm)
	y := float64(origin.Y) - units.MetersToTiles(raw.YMeters, tileSizeCm)
	return Pose{
		TileX:      RoundAwayFromZero(x),
		TileY:      RoundAwayFromZero(y),
		HeadingDeg: NormalizeHeading(raw.HeadingRad),
	}
}

// NormalizeHeading converts radians to degrees, adding 360 to negative
// inputs. Only the negative half is folded: inputs at or beyond 2π come out
// at or beyond 360 degrees, and a tiny negative input can come out as
// exactly 360.
func NormalizeHeading(rad float64) float64 {
	deg := units.RadiansToDegrees(rad)
	if rad < 0 {
		return deg + 360
	}
	return deg
}
