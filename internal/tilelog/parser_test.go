package tilelog

import (
	"errors"
	"io/fs"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/banshee-data/tilemap/internal/fsutil"
	"github.com/banshee-data/tilemap/internal/monitoring"
)

func TestMain(m *testing.M) {
	monitoring.SetLogger(nil)
	os.Exit(m.Run())
}

func TestParseLine(t *testing.T) {
	tests := []struct {
		name   string
		line   string
		pose   RawPose
		ranges []float64
	}{
		{
			name:   "single reading",
			line:   "0,0,0;1.0",
			pose:   RawPose{},
			ranges: []float64{1.0},
		},
		{
			name:   "trailing newline and spaces",
			line:   "1.5,-2.25,0.785398 ; 0.4, 0.6 ,5.0\r\n",
			pose:   RawPose{XMeters: 1.5, YMeters: -2.25, HeadingRad: 0.785398},
			ranges: []float64{0.4, 0.6, 5.0},
		},
		{
			name:   "negative heading",
			line:   "-0.049,0.049,-1.5707963;2,3",
			pose:   RawPose{XMeters: -0.049, YMeters: 0.049, HeadingRad: -1.5707963},
			ranges: []float64{2, 3},
		},
		{
			name:   "empty scan",
			line:   "3,4,0;",
			pose:   RawPose{XMeters: 3, YMeters: 4},
			ranges: []float64{},
		},
		{
			name:   "exponent notation",
			line:   "1e-3,2E1,0;4.99e0",
			pose:   RawPose{XMeters: 0.001, YMeters: 20},
			ranges: []float64{4.99},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec, err := ParseLine(tt.line)
			require.NoError(t, err)
			assert.Equal(t, tt.pose, rec.Pose)
			assert.Equal(t, tt.ranges, rec.Ranges)
			assert.Equal(t, len(tt.ranges), rec.ScanLen())
		})
	}
}

func TestParseLine_Malformed(t *testing.T) {
	tests := []struct {
		name   string
		line   string
		reason string
	}{
		{"missing separator", "0,0,0 1.0", "expected 2 ';'-separated fields, got 1"},
		{"two separators", "0,0,0;1.0;2.0", "expected 2 ';'-separated fields, got 3"},
		{"two pose fields", "0,0;1.0", "expected 3 pose fields, got 2"},
		{"four pose fields", "0,0,0,0;1.0", "expected 3 pose fields, got 4"},
		{"non numeric pose", "a,0,0;1.0", "pose field 0"},
		{"empty pose field", "0,,0;1.0", "pose field 1"},
		{"nan heading", "0,0,NaN;1.0", "pose field 2 is not finite"},
		{"inf x", "Inf,0,0;1.0", "pose field 0 is not finite"},
		{"non numeric range", "0,0,0;1.0,x", "range 1"},
		{"empty range token", "0,0,0;1.0,,2.0", "range 1"},
		{"trailing comma", "0,0,0;1.0,", "range 1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseLine(tt.line)
			require.Error(t, err)
			var mErr *MalformedLogError
			require.True(t, errors.As(err, &mErr), "want *MalformedLogError, got %T", err)
			assert.Equal(t, tt.reason, mErr.Reason)
			assert.Equal(t, strings.TrimSpace(tt.line), mErr.Text)
		})
	}
}

func TestParseReader(t *testing.T) {
	input := "0,0,0;1.0,2.0\n" +
		"\n" +
		"   \n" +
		"0.1,0.2,3.14;0.7\n" +
		"0.2,0.4,-3.14;\n"

	records, err := ParseReader(strings.NewReader(input))
	require.NoError(t, err)
	require.Len(t, records, 3, "blank lines do not produce records")

	assert.Equal(t, 1, records[0].Line)
	assert.Equal(t, 4, records[1].Line)
	assert.Equal(t, 5, records[2].Line)
	assert.Equal(t, []float64{1.0, 2.0}, records[0].Ranges)
	assert.Equal(t, RawPose{XMeters: 0.1, YMeters: 0.2, HeadingRad: 3.14}, records[1].Pose)
	assert.Empty(t, records[2].Ranges)
}

func TestParseReader_NoTrailingNewline(t *testing.T) {
	records, err := ParseReader(strings.NewReader("0,0,0;1.0\n1,1,1;2.0"))
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, []float64{2.0}, records[1].Ranges)
}

func TestParseReader_Empty(t *testing.T) {
	records, err := ParseReader(strings.NewReader(""))
	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestParseReader_AbortsOnMalformedLine(t *testing.T) {
	input := "0,0,0;1.0\n0,0,0;2.0\nbroken\n0,0,0;3.0\n"

	records, err := ParseReader(strings.NewReader(input))
	require.Error(t, err)
	assert.Nil(t, records, "no partial result on failure")

	var mErr *MalformedLogError
	require.True(t, errors.As(err, &mErr))
	assert.Equal(t, 3, mErr.Line)
	assert.Equal(t, "broken", mErr.Text)
	assert.Equal(t, "malformed log line 3: expected 2 ';'-separated fields, got 1", mErr.Error())
}

func TestParseReader_LineNumbersCountBlankLines(t *testing.T) {
	_, err := ParseReader(strings.NewReader("\n\n0,0,0;oops\n"))
	var mErr *MalformedLogError
	require.True(t, errors.As(err, &mErr))
	assert.Equal(t, 3, mErr.Line)
	assert.ErrorContains(t, err, "invalid syntax")
}

func TestParseReader_LongLine(t *testing.T) {
	readings := make([]string, 5000)
	for i := range readings {
		readings[i] = "1.2345"
	}
	line := "0,0,0;" + strings.Join(readings, ",")

	records, err := ParseReader(strings.NewReader(line))
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Len(t, records[0].Ranges, 5000)
}

func TestParseFile_Memory(t *testing.T) {
	m := fsutil.NewMemoryFileSystem()
	m.WriteFile("runs/examp5.txt", []byte("0,0,0;1.0\n0.5,0.5,0.5;0.6,0.7\n"))

	records, err := ParseFile(m, "runs/examp5.txt")
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, RawPose{XMeters: 0.5, YMeters: 0.5, HeadingRad: 0.5}, records[1].Pose)
}

func TestParseFile_MalformedCarriesPath(t *testing.T) {
	m := fsutil.NewMemoryFileSystem()
	m.WriteFile("bad.txt", []byte("0,0,0;1.0\n0,0;1.0\n"))

	_, err := ParseFile(m, "bad.txt")
	var mErr *MalformedLogError
	require.True(t, errors.As(err, &mErr))
	assert.Equal(t, "bad.txt", mErr.Path)
	assert.Equal(t, 2, mErr.Line)
	assert.Equal(t, "malformed log bad.txt:2: expected 3 pose fields, got 2", err.Error())
}

func TestParseFile_Missing(t *testing.T) {
	_, err := ParseFile(fsutil.NewMemoryFileSystem(), "missing.txt")
	require.Error(t, err)

	var faErr *FileAccessError
	require.True(t, errors.As(err, &faErr))
	assert.Equal(t, "missing.txt", faErr.Path)
	assert.Equal(t, "open", faErr.Op)
	assert.True(t, errors.Is(err, fs.ErrNotExist))
}

func TestParseFile_Unreadable(t *testing.T) {
	m := fsutil.NewMemoryFileSystem()
	m.WriteFile("locked.txt", []byte("0,0,0;1.0\n"))
	m.SetUnreadable("locked.txt")

	_, err := ParseFile(m, "locked.txt")
	var faErr *FileAccessError
	require.True(t, errors.As(err, &faErr))
	assert.True(t, errors.Is(err, fs.ErrPermission))
}

func TestParse_OSFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "log.txt")
	require.NoError(t, os.WriteFile(path, []byte("1,2,0.5;1,2,3\n"), 0o644))

	records, err := Parse(path)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, RawPose{XMeters: 1, YMeters: 2, HeadingRad: 0.5}, records[0].Pose)
}

func TestParse_Idempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "log.txt")
	require.NoError(t, os.WriteFile(path, []byte("1,2,0.5;1,2,3\n-1,-2,-0.5;0.6\n"), 0o644))

	first, err := Parse(path)
	require.NoError(t, err)
	second, err := Parse(path)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestRecord_RangesCopy(t *testing.T) {
	rec := Record{Ranges: []float64{1, 2}}
	cp := rec.RangesCopy()
	cp[0] = 99
	assert.Equal(t, 1.0, rec.Ranges[0])
}

func TestParseLine_SpecialRangeValues(t *testing.T) {
	// Non-finite ranges are accepted at parse time; the obstacle filter
	// rejects them downstream.
	rec, err := ParseLine("0,0,0;NaN,+Inf,1")
	require.NoError(t, err)
	require.Len(t, rec.Ranges, 3)
	assert.True(t, math.IsNaN(rec.Ranges[0]))
	assert.True(t, math.IsInf(rec.Ranges[1], 1))
}
