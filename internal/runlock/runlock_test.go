package runlock

import (
	"errors"
	"path/filepath"
	"testing"
)

func TestAcquireIsExclusive(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state", "fadebatch.lock")

	first, err := Acquire(path)
	if err != nil {
		t.Fatalf("first Acquire returned error: %v", err)
	}
	if first.Path() != path {
		t.Fatalf("Path = %q, want %q", first.Path(), path)
	}

	if _, err := Acquire(path); !errors.Is(err, ErrLocked) {
		t.Fatalf("second Acquire error = %v, want ErrLocked", err)
	}

	if err := first.Release(); err != nil {
		t.Fatalf("Release returned error: %v", err)
	}
	if err := first.Release(); err != nil {
		t.Fatalf("second Release returned error: %v", err)
	}

	again, err := Acquire(path)
	if err != nil {
		t.Fatalf("Acquire after release returned error: %v", err)
	}
	defer again.Release()
}

func TestReleaseNilLock(t *testing.T) {
	var lock *Lock
	if err := lock.Release(); err != nil {
		t.Fatalf("Release on nil lock returned error: %v", err)
	}
}
