package testsupport

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"testing"
)

// WriteFile fills the target path with the requested number of bytes using a
// simple repeating pattern. A size <= 0 writes a single byte.
func WriteFile(t testing.TB, path string, size int64) {
	t.Helper()

	if size <= 0 {
		size = 1
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir for %s: %v", path, err)
	}
	buf := make([]byte, size)
	for i := range buf {
		buf[i] = 0x42
	}
	if err := os.WriteFile(path, buf, 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

// WriteFFprobeStub writes an ffprobe stand-in into dir and returns its path.
// The stub answers with a 48 kHz audio stream of the mapped duration for each
// known base name and exits non-zero for anything else.
func WriteFFprobeStub(t testing.TB, dir string, durations map[string]float64) string {
	t.Helper()

	names := make([]string, 0, len(durations))
	for name := range durations {
		names = append(names, name)
	}
	sort.Strings(names)

	var script strings.Builder
	script.WriteString("#!/bin/sh\nfor last; do :; done\ncase \"$(basename \"$last\")\" in\n")
	for _, name := range names {
		fmt.Fprintf(&script,
			"  '%s') echo '{\"streams\":[{\"codec_type\":\"audio\",\"sample_rate\":\"48000\"}],\"format\":{\"duration\":\"%g\"}}' ;;\n",
			name, durations[name])
	}
	script.WriteString("  *) echo \"$last: Invalid data found when processing input\" >&2; exit 1 ;;\nesac\n")

	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("mkdir stub dir: %v", err)
	}
	target := filepath.Join(dir, "ffprobe")
	if err := os.WriteFile(target, []byte(script.String()), 0o755); err != nil {
		t.Fatalf("write ffprobe stub: %v", err)
	}
	return target
}
