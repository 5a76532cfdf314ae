package grid

import "encoding/json"

// TileSet is an insertion-ordered set of tiles. Membership is a map lookup;
// iteration follows first-insertion order so identical input always yields
// identical output. The zero value is an empty set ready to use.
type TileSet struct {
	index map[Tile]struct{}
	order []Tile
}

// NewTileSet returns an empty set with room for capacity tiles.
func NewTileSet(capacity int) *TileSet {
	if capacity < 0 {
		capacity = 0
	}
	return &TileSet{
		index: make(map[Tile]struct{}, capacity),
		order: make([]Tile, 0, capacity),
	}
}

// Add inserts t and reports whether it was new.
func (s *TileSet) Add(t Tile) bool {
	if s.index == nil {
		s.index = make(map[Tile]struct{})
	}
	if _, ok := s.index[t]; ok {
		return false
	}
	s.index[t] = struct{}{}
	s.order = append(s.order, t)
	return true
}

// AddAll inserts every tile and returns how many were new.
func (s *TileSet) AddAll(tiles ...Tile) int {
	added := 0
	for _, t := range tiles {
		if s.Add(t) {
			added++
		}
	}
	return added
}

// Merge inserts every tile of o, in o's order, and returns how many were new.
func (s *TileSet) Merge(o *TileSet) int {
	if o == nil {
		return 0
	}
	return s.AddAll(o.order...)
}

// Contains reports whether t is in the set.
func (s *TileSet) Contains(t Tile) bool {
	if s == nil {
		return false
	}
	_, ok := s.index[t]
	return ok
}

// Len returns the number of distinct tiles.
func (s *TileSet) Len() int {
	if s == nil {
		return 0
	}
	return len(s.order)
}

// Tiles returns a copy of the tiles in insertion order.
func (s *TileSet) Tiles() []Tile {
	if s == nil {
		return []Tile{}
	}
	out := make([]Tile, len(s.order))
	copy(out, s.order)
	return out
}

// Bounds returns the bounding box of the set.
func (s *TileSet) Bounds() Rect {
	r := EmptyRect()
	if s == nil {
		return r
	}
	for _, t := range s.order {
		r = r.Extend(t)
	}
	return r
}

// MarshalJSON encodes the set as an ordered array of tiles.
func (s *TileSet) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.Tiles())
}
