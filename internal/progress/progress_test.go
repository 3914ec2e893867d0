package progress

import (
	"sync"
	"testing"
)

func TestTickCapsAtTotal(t *testing.T) {
	var c Channel
	c.SetTotal(2)
	c.Tick()
	c.Tick()
	c.Tick()

	snap := c.Snapshot()
	if snap.Completed != 2 || snap.Total != 2 {
		t.Fatalf("snapshot = %+v, want 2/2", snap)
	}
	if snap.Percent() != 100 {
		t.Fatalf("Percent() = %v, want 100", snap.Percent())
	}
}

func TestTickWithoutTotalIsIgnored(t *testing.T) {
	var c Channel
	c.Tick()
	if got := c.Snapshot().Completed; got != 0 {
		t.Fatalf("Completed = %d, want 0", got)
	}
	if got := c.Snapshot().Percent(); got != 0 {
		t.Fatalf("Percent() = %v, want 0", got)
	}
}

func TestRequestCancelIsIdempotent(t *testing.T) {
	var c Channel
	fired := 0
	c.OnCancel(func() { fired++ })

	if !c.RequestCancel() {
		t.Fatal("first RequestCancel should return true")
	}
	if c.RequestCancel() {
		t.Fatal("second RequestCancel should return false")
	}
	if fired != 1 {
		t.Fatalf("cancel hook fired %d times, want 1", fired)
	}
	if !c.CancelRequested() {
		t.Fatal("expected cancel flag set")
	}
}

func TestResetClearsState(t *testing.T) {
	var c Channel
	fired := 0
	c.OnCancel(func() { fired++ })
	c.SetTotal(3)
	c.Tick()
	c.RequestCancel()

	c.Reset()

	snap := c.Snapshot()
	if snap.Completed != 0 || snap.Total != 0 || snap.CancelRequested {
		t.Fatalf("snapshot after reset = %+v", snap)
	}
	if !c.RequestCancel() {
		t.Fatal("RequestCancel after reset should return true")
	}
	if fired != 1 {
		t.Fatalf("hook should be disarmed by reset, fired %d times", fired)
	}
}

func TestSubscribeReceivesUpdates(t *testing.T) {
	var c Channel
	var seen []Snapshot
	c.Subscribe(func(s Snapshot) { seen = append(seen, s) })

	c.SetTotal(2)
	c.Tick()
	c.Tick()

	if len(seen) != 3 {
		t.Fatalf("got %d updates, want 3", len(seen))
	}
	if last := seen[len(seen)-1]; last.Completed != 2 || last.Total != 2 {
		t.Fatalf("last update = %+v", last)
	}
}

func TestConcurrentTicks(t *testing.T) {
	var c Channel
	c.SetTotal(50)

	var wg sync.WaitGroup
	for range 100 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			c.Tick()
		}()
	}
	wg.Wait()

	if got := c.Snapshot().Completed; got != 50 {
		t.Fatalf("Completed = %d, want 50", got)
	}
}
