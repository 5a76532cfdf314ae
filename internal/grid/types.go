package grid

import "fmt"

// Origin is the tile holding the physical origin (0,0) of the logged frame.
type Origin struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// Tile addresses one grid cell. Tiles compare by value and are used as map keys.
type Tile struct {
	X int `json:"x"`
	Y int `json:"y"`
}

func (t Tile) String() string {
	return fmt.Sprintf("(%d,%d)", t.X, t.Y)
}

// Tile returns the origin as a tile.
func (o Origin) Tile() Tile {
	return Tile{X: o.X, Y: o.Y}
}

// Pose is a robot pose on the grid. HeadingDeg is not rounded.
type Pose struct {
	TileX      int     `json:"tile_x"`
	TileY      int     `json:"tile_y"`
	HeadingDeg float64 `json:"heading_deg"`
}

// Tile returns the tile the robot occupies.
func (p Pose) Tile() Tile {
	return Tile{X: p.TileX, Y: p.TileY}
}

// Frame is the derived pose and obstacle set for one logged scan.
// Obstacles holds each detected tile once, in detection order.
type Frame struct {
	Index     int    `json:"index"`
	Pose      Pose   `json:"pose"`
	Obstacles []Tile `json:"obstacles"`
}

// ObstacleSet returns the frame's obstacles as a new TileSet.
func (f Frame) ObstacleSet() *TileSet {
	s := NewTileSet(len(f.Obstacles))
	s.AddAll(f.Obstacles...)
	return s
}

func (f Frame) clone() Frame {
	out := f
	out.Obstacles = make([]Tile, len(f.Obstacles))
	copy(out.Obstacles, f.Obstacles)
	return out
}

// Rect is an inclusive tile bounding box. Empty is true when nothing has
// been added yet, in which case the Min/Max fields are meaningless.
type Rect struct {
	MinX  int  `json:"min_x"`
	MinY  int  `json:"min_y"`
	MaxX  int  `json:"max_x"`
	MaxY  int  `json:"max_y"`
	Empty bool `json:"empty"`
}

// EmptyRect returns a Rect that contains nothing.
func EmptyRect() Rect {
	return Rect{Empty: true}
}

// Extend grows r to include t.
func (r Rect) Extend(t Tile) Rect {
	if r.Empty {
		return Rect{MinX: t.X, MinY: t.Y, MaxX: t.X, MaxY: t.Y}
	}
	if t.X < r.MinX {
		r.MinX = t.X
	}
	if t.Y < r.MinY {
		r.MinY = t.Y
	}
	if t.X > r.MaxX {
		r.MaxX = t.X
	}
	if t.Y > r.MaxY {
		r.MaxY = t.Y
	}
	return r
}

// Union returns the smallest Rect covering both r and o.
func (r Rect) Union(o Rect) Rect {
	if o.Empty {
		return r
	}
	r = r.Extend(Tile{X: o.MinX, Y: o.MinY})
	return r.Extend(Tile{X: o.MaxX, Y: o.MaxY})
}

// MapSize is the displayed map extent in tiles. Tiles outside it are still
// valid frame output; a renderer simply cannot show them.
type MapSize struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}

// Contains reports whether t lies on the displayed map.
func (m MapSize) Contains(t Tile) bool {
	return t.X >= 0 && t.Y >= 0 && t.X < m.Width && t.Y < m.Height
}

// Resolution returns the pixel size of the map when each tile is drawn
// tilePixels wide.
func (m MapSize) Resolution(tilePixels int) (width, height int) {
	return m.Width * tilePixels, m.Height * tilePixels
}
