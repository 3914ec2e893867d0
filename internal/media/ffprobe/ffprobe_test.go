package ffprobe

import (
	"context"
	"errors"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"fadebatch/internal/services"
)

func TestResultHelpers(t *testing.T) {
	result := Result{
		Streams: []Stream{
			{CodecType: "video"},
			{CodecType: "audio", SampleRate: "44100"},
			{CodecType: "audio", SampleRate: "48000"},
		},
		Format: Format{Duration: "2.5"},
	}
	if result.AudioStreamCount() != 2 {
		t.Fatalf("expected 2 audio streams, got %d", result.AudioStreamCount())
	}
	if result.DurationSeconds() != 2.5 {
		t.Fatalf("unexpected duration: %v", result.DurationSeconds())
	}
	if got := result.SampleRate(8000); got != 44100 {
		t.Fatalf("SampleRate = %d, want 44100", got)
	}
	if got := result.LengthSamples(8000); got != 110250 {
		t.Fatalf("LengthSamples = %d, want 110250", got)
	}
}

func TestResultFallsBackToStreamDurationAndDefaultRate(t *testing.T) {
	result := Result{Streams: []Stream{{CodecType: "audio", Duration: "3"}}}
	if got := result.LengthSamples(48000); got != 144000 {
		t.Fatalf("LengthSamples = %d, want 144000", got)
	}
}

func TestResultHelpersHandleInvalidNumbers(t *testing.T) {
	result := Result{
		Streams: []Stream{{CodecType: "audio", SampleRate: "fast"}},
		Format:  Format{Duration: "bad"},
	}
	if !math.IsNaN(result.DurationSeconds()) {
		t.Fatalf("expected duration NaN, got %v", result.DurationSeconds())
	}
	if got := result.SampleRate(22050); got != 22050 {
		t.Fatalf("SampleRate = %d, want fallback 22050", got)
	}
	if got := result.LengthSamples(22050); got != 0 {
		t.Fatalf("LengthSamples = %d, want 0", got)
	}
}

func TestInspectParsesStubOutput(t *testing.T) {
	dir := t.TempDir()
	stub := filepath.Join(dir, "ffprobe")
	script := "#!/bin/sh\necho '{\"streams\":[{\"codec_type\":\"audio\",\"sample_rate\":\"8000\"}],\"format\":{\"duration\":\"1.5\"}}'\n"
	if err := os.WriteFile(stub, []byte(script), 0o755); err != nil {
		t.Fatalf("write stub: %v", err)
	}

	result, err := Inspect(context.Background(), stub, "/media/a.wav")
	if err != nil {
		t.Fatalf("Inspect returned error: %v", err)
	}
	if got := result.LengthSamples(48000); got != 12000 {
		t.Fatalf("LengthSamples = %d, want 12000", got)
	}
}

func TestInspectReportsFailure(t *testing.T) {
	dir := t.TempDir()
	stub := filepath.Join(dir, "ffprobe")
	if err := os.WriteFile(stub, []byte("#!/bin/sh\necho 'Invalid data' >&2\nexit 1\n"), 0o755); err != nil {
		t.Fatalf("write stub: %v", err)
	}
	_, err := Inspect(context.Background(), stub, "/media/a.wav")
	if !errors.Is(err, services.ErrExternalTool) {
		t.Fatalf("expected external tool error, got %v", err)
	}
	if !strings.Contains(err.Error(), "Invalid data") {
		t.Fatalf("expected stderr in error, got %q", err.Error())
	}
	if _, err := Inspect(context.Background(), stub, "  "); err == nil {
		t.Fatal("expected error for empty path")
	}
}
