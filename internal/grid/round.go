package grid

import "math"

// RoundAwayFromZero maps a fractional tile coordinate to an integer tile.
// Values greater than zero round up (ceil); zero and negative values round
// down (floor). A coordinate of 0.49 lands in tile 1 and -0.49 in tile -1,
// so boundary-straddling points bias outward from the origin rather than
// toward the nearest tile.
func RoundAwayFromZero(v float64) int {
	if v > 0 {
		return int(math.Ceil(v))
	}
	return int(math.Floor(v))
}
