// Package monitoring holds the process-wide diagnostic logger shared by the
// log parser, frame builder, player and web server.
package monitoring

import "log"

// Logf is the package-level diagnostic logger. It defaults to log.Printf but may
// be replaced by SetLogger. Tests mute it with SetLogger(nil).
var Logf func(format string, v ...interface{}) = log.Printf

// SetLogger replaces the package logger. Passing nil installs a no-op logger.
func SetLogger(f func(format string, v ...interface{})) {
	if f == nil {
		Logf = func(string, ...interface{}) {}
		return
	}
	Logf = f
}

// Warnf logs a non-fatal condition with a "warning:" prefix so it can be
// grepped out of replay logs.
func Warnf(format string, v ...interface{}) {
	Logf("warning: "+format, v...)
}
