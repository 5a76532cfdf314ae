// Package replay owns a loaded tile-map dataset and the state of stepping
// through it.
//
// A Dataset is produced once by Load: the log is parsed, every frame is
// built, and either the whole sequence is available or an error is
// returned. Frames are never modified after that. A Player is constructed
// from a Dataset and keeps the step counter together with the trajectory
// and obstacle map accumulated from the scans it has visited.
//
// Dependency rule: replay may import tilelog, grid, fsutil and monitoring.
// It must not import the HTTP layer.
package replay
