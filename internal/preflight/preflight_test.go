package preflight

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"fadebatch/internal/host/hosttest"
	"fadebatch/internal/testsupport"
)

func TestCheckDirectoryAccess_OK(t *testing.T) {
	dir := t.TempDir()
	result := CheckDirectoryAccess("test", dir)
	if !result.Passed {
		t.Fatalf("expected pass for temp dir, got: %s", result.Detail)
	}
}

func TestCheckDirectoryAccess_NotExist(t *testing.T) {
	result := CheckDirectoryAccess("test", filepath.Join(t.TempDir(), "nope"))
	if result.Passed {
		t.Fatal("expected failure for missing dir")
	}
	if !strings.Contains(result.Detail, "does not exist") {
		t.Fatalf("unexpected detail %q", result.Detail)
	}
}

func TestCheckDirectoryAccess_NotDir(t *testing.T) {
	f := filepath.Join(t.TempDir(), "file.txt")
	if err := os.WriteFile(f, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	result := CheckDirectoryAccess("test", f)
	if result.Passed {
		t.Fatal("expected failure for file path")
	}
}

func TestCheckEffect(t *testing.T) {
	h := hosttest.New()
	h.AddEffect("Graphic Fade", "Fade in", "Fade out")
	h.AddEffect("Empty")

	tests := []struct {
		name   string
		effect string
		pass   bool
		detail string
	}{
		{"found", "graphic fade", true, "2 presets"},
		{"missing", "Volume", false, "not found"},
		{"no presets", "Empty", false, "no presets"},
		{"blank", " ", false, "not configured"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := CheckEffect(context.Background(), h, tt.effect)
			if result.Passed != tt.pass {
				t.Fatalf("Passed = %v, want %v (%s)", result.Passed, tt.pass, result.Detail)
			}
			if !strings.Contains(result.Detail, tt.detail) {
				t.Fatalf("detail %q does not mention %q", result.Detail, tt.detail)
			}
		})
	}
}

func TestCheckEffectHostError(t *testing.T) {
	h := hosttest.New()
	h.FindEffectErr = errors.New("host offline")
	result := CheckEffect(context.Background(), h, "Graphic Fade")
	if result.Passed || !strings.Contains(result.Detail, "host offline") {
		t.Fatalf("unexpected result %+v", result)
	}
}

func TestRunAll_NilConfig(t *testing.T) {
	results := RunAll(context.Background(), nil, nil)
	if results != nil {
		t.Fatal("expected nil results for nil config")
	}
}

func TestRunAll_ReadyConfig(t *testing.T) {
	cfg := testsupport.NewConfig(t, testsupport.WithFFprobeStub(nil))
	if err := cfg.EnsureDirectories(); err != nil {
		t.Fatalf("EnsureDirectories: %v", err)
	}
	h := hosttest.New()
	h.AddEffect(cfg.Fade.EffectName, "Fade in")

	results := RunAll(context.Background(), cfg, h)
	if len(results) != 4 {
		t.Fatalf("expected 4 results, got %d: %+v", len(results), results)
	}
	if failed := Failed(results); len(failed) != 0 {
		t.Fatalf("unexpected failures: %+v", failed)
	}
}

func TestRunAll_ReportsMissingPieces(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	cfg.Host.FFprobeBinary = "clearly-not-present-ffprobe"

	results := RunAll(context.Background(), cfg, hosttest.New())
	failed := Failed(results)
	names := make([]string, 0, len(failed))
	for _, r := range failed {
		names = append(names, r.Name)
	}
	want := []string{"State directory", "Log directory", "FFprobe", "Fade effect"}
	if strings.Join(names, ",") != strings.Join(want, ",") {
		t.Fatalf("failed checks = %v, want %v", names, want)
	}
}
