package tilelog

import "fmt"

// MalformedLogError reports a log line that does not match the
// "x,y,heading;d0,...,dn" structure or carries a non-numeric field.
// It aborts the whole load.
type MalformedLogError struct {
	Path   string // source path, empty when parsing a bare reader
	Line   int    // 1-based line number
	Text   string // offending line with surrounding whitespace trimmed
	Reason string // short human-readable cause
	Err    error  // underlying parse error, if any
}

func (e *MalformedLogError) Error() string {
	where := fmt.Sprintf("line %d", e.Line)
	if e.Path != "" {
		where = fmt.Sprintf("%s:%d", e.Path, e.Line)
	}
	if e.Err != nil {
		return fmt.Sprintf("malformed log %s: %s: %v", where, e.Reason, e.Err)
	}
	return fmt.Sprintf("malformed log %s: %s", where, e.Reason)
}

func (e *MalformedLogError) Unwrap() error { return e.Err }

// FileAccessError reports a log file that is missing or unreadable.
type FileAccessError struct {
	Path string
	Op   string // "open" or "read"
	Err  error
}

func (e *FileAccessError) Error() string {
	return fmt.Sprintf("log file %s %s: %v", e.Op, e.Path, e.Err)
}

func (e *FileAccessError) Unwrap() error { return e.Err }
