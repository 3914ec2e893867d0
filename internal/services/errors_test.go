package services_test

import (
	"errors"
	"strings"
	"testing"

	"fadebatch/internal/services"
)

func TestWrapIncludesContext(t *testing.T) {
	base := errors.New("boom")
	err := services.Wrap(services.ErrExternalTool, "rehearsal", "ffprobe", "failed", base)
	if err == nil {
		t.Fatal("expected error")
	}
	if !errors.Is(err, services.ErrExternalTool) {
		t.Fatalf("expected marker to be retained, got %v", err)
	}
	if !errors.Is(err, base) {
		t.Fatalf("expected wrapped error to contain base error, got %v", err)
	}
	msg := err.Error()
	for _, fragment := range []string{"rehearsal", "ffprobe", "failed"} {
		if !strings.Contains(msg, fragment) {
			t.Fatalf("expected %q in error string %q", fragment, msg)
		}
	}
}

func TestWrapDefaultsMarkerAndDetail(t *testing.T) {
	err := services.Wrap(nil, "", "", "", nil)
	if !errors.Is(err, services.ErrHostFault) {
		t.Fatalf("expected host fault marker, got %v", err)
	}
	if !strings.Contains(err.Error(), "service failure") {
		t.Fatalf("expected placeholder detail, got %q", err.Error())
	}
}

func TestIsConfiguration(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want bool
	}{
		{"configuration", services.Wrap(services.ErrConfiguration, "driver", "preflight", "preset missing", nil), true},
		{"not found", services.Wrap(services.ErrNotFound, "catalog", "refresh", "effect missing", nil), true},
		{"timeout", services.Wrap(services.ErrTimeout, "driver", "wait", "", nil), false},
		{"nil", nil, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := services.IsConfiguration(tc.err); got != tc.want {
				t.Fatalf("IsConfiguration = %v, want %v", got, tc.want)
			}
		})
	}
}
