// Package grid owns Layer 2 (Frames) of the replay data model.
//
// Responsibilities: converting logged poses from meters/radians into
// discrete tile poses, projecting range scans into obstacle tiles, and
// assembling the immutable, index-ordered frame sequence handed to the
// presentation layer.
// Key types: Tile, TileSet, Pose, Frame, Params, Builder, Sequence.
//
// All tile coordinates are produced with RoundAwayFromZero: positive values
// round up, everything else rounds down. The grid's y axis grows downward,
// so logged y is subtracted from the origin row.
//
// Dependency rule: grid may depend on tilelog, but never on replay or above.
package grid
