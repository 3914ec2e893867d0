package queue

import (
	"path/filepath"
	"slices"
	"strings"
	"sync"
	"time"
)

// Queue is an ordered, duplicate-free list of media files. It is safe for
// concurrent use.
type Queue struct {
	mu    sync.RWMutex
	allow AllowList
	items []Item
}

// New returns an empty queue filtered by allow.
func New(allow AllowList) *Queue {
	return &Queue{allow: allow}
}

// Allow returns the queue's extension allow-list.
func (q *Queue) Allow() AllowList {
	return q.allow
}

// Add appends path unless its extension is not allowed or it is already
// queued. It reports whether the path was added.
func (q *Queue) Add(path string) bool {
	full, ok := identity(path)
	if !ok || !q.allow.Allows(full) {
		return false
	}

	q.mu.Lock()
	defer q.mu.Unlock()
	if q.indexLocked(full) >= 0 {
		return false
	}
	q.items = append(q.items, Item{
		FileName:  filepath.Base(full),
		Directory: filepath.Dir(full),
		CreatedAt: time.Now().UTC(),
	})
	return true
}

// AddMany adds each path in order, skipping rejects, and returns how many
// were added.
func (q *Queue) AddMany(paths []string) int {
	added := 0
	for _, path := range paths {
		if q.Add(path) {
			added++
		}
	}
	return added
}

// Remove drops the given paths. Paths that are not queued are ignored. It
// returns how many items were removed.
func (q *Queue) Remove(paths ...string) int {
	targets := make(map[string]struct{}, len(paths))
	for _, path := range paths {
		if full, ok := identity(path); ok {
			targets[full] = struct{}{}
		}
	}

	q.mu.Lock()
	defer q.mu.Unlock()
	before := len(q.items)
	q.items = slices.DeleteFunc(q.items, func(item Item) bool {
		_, drop := targets[item.Path()]
		return drop
	})
	return before - len(q.items)
}

// Active returns a snapshot of the queue in order.
func (q *Queue) Active() []Item {
	q.mu.RLock()
	defer q.mu.RUnlock()
	return slices.Clone(q.items)
}

// Len returns the number of queued items.
func (q *Queue) Len() int {
	q.mu.RLock()
	defer q.mu.RUnlock()
	return len(q.items)
}

// Contains reports whether path is queued.
func (q *Queue) Contains(path string) bool {
	full, ok := identity(path)
	if !ok {
		return false
	}
	q.mu.RLock()
	defer q.mu.RUnlock()
	return q.indexLocked(full) >= 0
}

// Clear empties the queue.
func (q *Queue) Clear() {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.items = nil
}

// Annotate records an outcome against the queued path. It reports whether
// the path was found.
func (q *Queue) Annotate(path string, outcome Outcome) bool {
	full, ok := identity(path)
	if !ok {
		return false
	}
	q.mu.Lock()
	defer q.mu.Unlock()
	idx := q.indexLocked(full)
	if idx < 0 {
		return false
	}
	q.items[idx].setOutcome(outcome)
	return true
}

// ClearOutcomes resets every item's outcome and last error.
func (q *Queue) ClearOutcomes() {
	q.mu.Lock()
	defer q.mu.Unlock()
	for i := range q.items {
		q.items[i].setOutcome(Outcome{})
	}
}

// restore appends persisted items without filtering so items whose extension
// has since been disallowed stay visible.
func (q *Queue) restore(items []Item) {
	q.mu.Lock()
	defer q.mu.Unlock()
	for _, item := range items {
		if q.indexLocked(item.Path()) >= 0 {
			continue
		}
		q.items = append(q.items, item)
	}
}

func (q *Queue) indexLocked(full string) int {
	return slices.IndexFunc(q.items, func(item Item) bool {
		return item.Path() == full
	})
}

func identity(path string) (string, bool) {
	path = strings.TrimSpace(path)
	if path == "" {
		return "", false
	}
	full, err := filepath.Abs(path)
	if err != nil {
		return "", false
	}
	return filepath.Clean(full), true
}

// Identity returns the normalized full path used to compare queue entries.
func Identity(path string) (string, bool) {
	return identity(path)
}
