// Package progress tracks per-worker status text and renders it.
package progress

import "sync"

// Board holds one status string per worker index. Slot i is written only by
// worker i; readers take a snapshot and may interleave arbitrarily with
// writers, so the view is eventually consistent rather than exactly-once.
type Board struct {
	mu    sync.RWMutex
	slots []string
}

// NewBoard creates a board with n fixed slots.
func NewBoard(n int) *Board {
	if n < 1 {
		n = 1
	}
	return &Board{slots: make([]string, n)}
}

// Size returns the number of slots.
func (b *Board) Size() int {
	return len(b.slots)
}

// Set replaces the status block for the given worker index. Out-of-range
// indexes are ignored.
func (b *Board) Set(i int, status string) {
	if i < 0 || i >= len(b.slots) {
		return
	}
	b.mu.Lock()
	b.slots[i] = status
	b.mu.Unlock()
}

// Snapshot returns a copy of all slots in worker-index order.
func (b *Board) Snapshot() []string {
	b.mu.RLock()
	defer b.mu.RUnlock()
	out := make([]string, len(b.slots))
	copy(out, b.slots)
	return out
}

// Reporter renders the board. Repaint may be called concurrently from any
// worker; implementations serialize internally.
type Reporter interface {
	Repaint()
}

// Nop is a Reporter that does nothing, for tests and quiet runs.
type Nop struct{}

func (Nop) Repaint() {}
