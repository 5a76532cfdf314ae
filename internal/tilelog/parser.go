package tilelog

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/banshee-data/tilemap/internal/fsutil"
	"github.com/banshee-data/tilemap/internal/monitoring"
)

const (
	// PoseFieldCount is the number of comma-separated pose fields before ';'.
	PoseFieldCount = 3

	// MaxLineBytes bounds a single log line. A 2000-reading scan at ~10 bytes
	// per reading is ~20 KiB, so this leaves ample headroom.
	MaxLineBytes = 4 * 1024 * 1024

	fieldSeparator = ";"
	valueSeparator = ","
)

// Parse reads the log at path from the local filesystem.
func Parse(path string) ([]Record, error) {
	return ParseFile(fsutil.OSFileSystem{}, path)
}

// ParseFile reads the log at path through fsys. The file is opened read-only
// and fully consumed. Any malformed line fails the whole load; no partial
// record slice is ever returned alongside an error.
func ParseFile(fsys fsutil.FileSystem, path string) ([]Record, error) {
	f, err := fsys.Open(path)
	if err != nil {
		return nil, &FileAccessError{Path: path, Op: "open", Err: err}
	}
	defer f.Close()

	records, err := parse(f, path)
	if err != nil {
		return nil, err
	}
	monitoring.Logf("tilelog: parsed %d records from %s", len(records), path)
	return records, nil
}

// ParseReader parses a log from r. Errors carry no path.
func ParseReader(r io.Reader) ([]Record, error) {
	return parse(r, "")
}

func parse(r io.Reader, path string) ([]Record, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), MaxLineBytes)

	var records []Record
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		text := strings.TrimSpace(scanner.Text())
		if text == "" {
			continue
		}
		rec, err := ParseLine(text)
		if err != nil {
			var mErr *MalformedLogError
			if errors.As(err, &mErr) {
				mErr.Path = path
				mErr.Line = lineNo
			}
			return nil, err
		}
		rec.Line = lineNo
		records = append(records, rec)
	}
	if err := scanner.Err(); err != nil {
		if errors.Is(err, bufio.ErrTooLong) {
			return nil, &MalformedLogError{Path: path, Line: lineNo + 1, Reason: fmt.Sprintf("line exceeds %d bytes", MaxLineBytes), Err: err}
		}
		return nil, &FileAccessError{Path: path, Op: "read", Err: err}
	}
	return records, nil
}

// ParseLine parses a single log line. Leading and trailing whitespace is
// ignored. The returned error, if any, is a *MalformedLogError without
// path or line information.
func ParseLine(line string) (Record, error) {
	text := strings.TrimSpace(line)
	malformed := func(reason string, err error) (Record, error) {
		return Record{}, &MalformedLogError{Text: text, Reason: reason, Err: err}
	}

	parts := strings.Split(text, fieldSeparator)
	if len(parts) != 2 {
		return malformed(fmt.Sprintf("expected 2 ';'-separated fields, got %d", len(parts)), nil)
	}

	poseFields := strings.Split(parts[0], valueSeparator)
	if len(poseFields) != PoseFieldCount {
		return malformed(fmt.Sprintf("expected %d pose fields, got %d", PoseFieldCount, len(poseFields)), nil)
	}
	var pose [PoseFieldCount]float64
	for i, tok := range poseFields {
		v, err := parseFloat(tok)
		if err != nil {
			return malformed(fmt.Sprintf("pose field %d", i), err)
		}
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return malformed(fmt.Sprintf("pose field %d is not finite", i), nil)
		}
		pose[i] = v
	}

	ranges := []float64{}
	if scan := strings.TrimSpace(parts[1]); scan != "" {
		tokens := strings.Split(scan, valueSeparator)
		ranges = make([]float64, 0, len(tokens))
		for i, tok := range tokens {
			v, err := parseFloat(tok)
			if err != nil {
				return malformed(fmt.Sprintf("range %d", i), err)
			}
			ranges = append(ranges, v)
		}
	}

	return Record{
		Pose:   RawPose{XMeters: pose[0], YMeters: pose[1], HeadingRad: pose[2]},
		Ranges: ranges,
	}, nil
}

func parseFloat(tok string) (float64, error) {
	tok = strings.TrimSpace(tok)
	if tok == "" {
		return 0, fmt.Errorf("empty value")
	}
	return strconv.ParseFloat(tok, 64)
}
