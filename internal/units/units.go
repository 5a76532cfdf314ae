// Package units provides the length and angle conversions used when mapping
// logged odometry and lidar ranges onto the tile grid.
package units

import "math"

// Length constants
const (
	CentimetersPerMeter = 100.0
)

// pi is held in a variable so the conversion factors below are computed with
// IEEE float64 division at init rather than as exact constant expressions.
var pi = math.Pi

var (
	radToDeg = 180.0 / pi
	degToRad = pi / 180.0
)

// RadiansToDegrees converts an angle in radians to degrees.
func RadiansToDegrees(rad float64) float64 {
	return rad * radToDeg
}

// DegreesToRadians converts an angle in degrees to radians.
func DegreesToRadians(deg float64) float64 {
	return deg * degToRad
}

// MetersToTiles converts a length in meters to a (fractional) number of tiles
// of the given edge size in centimeters. The product is formed before the
// division: m*100/tileSizeCm.
func MetersToTiles(m, tileSizeCm float64) float64 {
	return m * CentimetersPerMeter / tileSizeCm
}
