// Package tilelog owns Layer 1 (Records) of the replay data model.
//
// Responsibilities: reading an odometry + range-scan text log and turning
// each line into an immutable Record in physical units (meters, radians).
// No unit conversion happens here.
// Key types: Record, RawPose, MalformedLogError, FileAccessError.
//
// Line format:
//
//	x,y,heading;d0,d1,...,dn
//
// x and y are meters, heading is radians, and each d is a range in meters
// ordered by increasing scan angle. The range list may be empty.
//
// Dependency rule: tilelog depends on nothing above internal/fsutil.
package tilelog
