// Package testutil provides shared test utilities and log fixtures.
package testutil

import (
	"fmt"
	"math/rand"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"
)

// WalkLog is a three-scan log: the robot starts at the logged origin, stays
// put for a scan, then moves one metre east. Range 0.2 and 7.0 fall outside
// the default trusted window.
const WalkLog = "0,0,0;1.0,0.2\n0,0,0;2.0\n1,0,0;1.0,7.0\n"

// AssertStatusCode checks that the response status code matches expected.
func AssertStatusCode(t testing.TB, got, want int) {
	t.Helper()
	if got != want {
		t.Errorf("status code = %d, want %d", got, want)
	}
}

// AssertNoError fails the test if err is not nil.
func AssertNoError(t testing.TB, err error) {
	t.Helper()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

// AssertError fails the test if err is nil.
func AssertError(t testing.TB, err error) {
	t.Helper()
	if err == nil {
		t.Fatal("expected error, got nil")
	}
}

// LogLine formats one log line for the given pose and ranges.
func LogLine(xM, yM, headingRad float64, ranges ...float64) string {
	parts := make([]string, len(ranges))
	for i, d := range ranges {
		parts[i] = strconv.FormatFloat(d, 'g', -1, 64)
	}
	return fmt.Sprintf("%s,%s,%s;%s",
		strconv.FormatFloat(xM, 'g', -1, 64),
		strconv.FormatFloat(yM, 'g', -1, 64),
		strconv.FormatFloat(headingRad, 'g', -1, 64),
		strings.Join(parts, ","))
}

// SyntheticLog returns a deterministic n-line log with readingsPerScan
// readings per scan. Poses stay within two metres of the origin and ranges
// within six metres, so some readings fall outside the default window.
func SyntheticLog(n, readingsPerScan int, seed int64) string {
	rng := rand.New(rand.NewSource(seed))
	var b strings.Builder
	ranges := make([]float64, readingsPerScan)
	for i := 0; i < n; i++ {
		for j := range ranges {
			ranges[j] = float64(int(rng.Float64()*6000)) / 1000
		}
		x := float64(int(rng.Float64()*4000)-2000) / 1000
		y := float64(int(rng.Float64()*4000)-2000) / 1000
		h := float64(int(rng.Float64()*62000)-31000) / 10000
		b.WriteString(LogLine(x, y, h, ranges...))
		b.WriteByte('\n')
	}
	return b.String()
}

// WriteLogFile writes content to name inside a fresh temp directory and
// returns its path.
func WriteLogFile(t testing.TB, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write %s: %v", path, err)
	}
	return path
}
