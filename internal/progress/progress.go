// Package progress tracks count-based batch progress and carries the
// cooperative cancel request between the caller and the batch driver.
package progress

import "sync"

// Snapshot is a point-in-time copy of the channel state.
type Snapshot struct {
	Completed       int
	Total           int
	CancelRequested bool
}

// Percent returns completion in the range [0, 100]. A zero total reports 0.
func (s Snapshot) Percent() float64 {
	if s.Total <= 0 {
		return 0
	}
	return float64(s.Completed) / float64(s.Total) * 100
}

// Channel is safe for concurrent use. The zero value is ready to use.
type Channel struct {
	mu              sync.Mutex
	completed       int
	total           int
	cancelRequested bool
	onCancel        func()
	subscribers     []func(Snapshot)
}

// SetTotal starts a new count. It is called once per run.
func (c *Channel) SetTotal(n int) {
	if n < 0 {
		n = 0
	}
	c.mu.Lock()
	c.total = n
	c.completed = 0
	snap := c.snapshotLocked()
	subs := c.subscribersLocked()
	c.mu.Unlock()
	notify(subs, snap)
}

// Tick advances the completed count by one without exceeding the total.
func (c *Channel) Tick() {
	c.mu.Lock()
	if c.completed >= c.total {
		c.mu.Unlock()
		return
	}
	c.completed++
	snap := c.snapshotLocked()
	subs := c.subscribersLocked()
	c.mu.Unlock()
	notify(subs, snap)
}

// RequestCancel marks the run as cancelled. Only the first call after a
// Reset returns true and fires the cancel hook.
func (c *Channel) RequestCancel() bool {
	c.mu.Lock()
	if c.cancelRequested {
		c.mu.Unlock()
		return false
	}
	c.cancelRequested = true
	hook := c.onCancel
	snap := c.snapshotLocked()
	subs := c.subscribersLocked()
	c.mu.Unlock()

	if hook != nil {
		hook()
	}
	notify(subs, snap)
	return true
}

// CancelRequested reports whether a cancel is pending.
func (c *Channel) CancelRequested() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.cancelRequested
}

// OnCancel arms fn to run on the first RequestCancel. Passing nil disarms it.
func (c *Channel) OnCancel(fn func()) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.onCancel = fn
}

// Reset clears progress and the cancel flag and disarms the cancel hook.
func (c *Channel) Reset() {
	c.mu.Lock()
	c.completed = 0
	c.total = 0
	c.cancelRequested = false
	c.onCancel = nil
	snap := c.snapshotLocked()
	subs := c.subscribersLocked()
	c.mu.Unlock()
	notify(subs, snap)
}

// Snapshot returns the current state.
func (c *Channel) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snapshotLocked()
}

// Subscribe registers fn to receive every state change. Callbacks run on the
// goroutine that caused the change and must not call back into the channel
// synchronously with blocking work.
func (c *Channel) Subscribe(fn func(Snapshot)) {
	if fn == nil {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.subscribers = append(c.subscribers, fn)
}

func (c *Channel) snapshotLocked() Snapshot {
	return Snapshot{Completed: c.completed, Total: c.total, CancelRequested: c.cancelRequested}
}

func (c *Channel) subscribersLocked() []func(Snapshot) {
	if len(c.subscribers) == 0 {
		return nil
	}
	return append(([]func(Snapshot))(nil), c.subscribers...)
}

func notify(subs []func(Snapshot), snap Snapshot) {
	for _, fn := range subs {
		fn(snap)
	}
}
