package batch

import (
	"fmt"

	"go.uber.org/atomic"
)

// Progress is one observation of a batch
type Progress struct {
	Completed int `json:"completed"`
	Total     int `json:"total"`
}

// Done reports whether every job of the batch has finished
func (p Progress) Done() bool {
	return p.Completed >= p.Total
}

func (p Progress) String() string {
	return fmt.Sprintf("%d/%d", p.Completed, p.Total)
}

// Tracker counts finished jobs against a known total. Total sits in the
// high and completed in the low 32 bits of one word, so Snapshot is a
// single atomic load.
type Tracker struct {
	v atomic.Uint64
}

func pack(completed, total uint32) uint64 {
	return uint64(total)<<32 | uint64(completed)
}

func unpack(v uint64) (completed, total uint32) {
	return uint32(v), uint32(v >> 32)
}

// Reset starts a batch of total jobs, it must happen before any Increment
// of that batch
func (t *Tracker) Reset(total int) {
	if total < 0 {
		total = 0
	}
	t.v.Store(pack(0, uint32(total)))
}

// Increment records one finished job, it never passes the total
func (t *Tracker) Increment() {
	for {
		old := t.v.Load()
		c, n := unpack(old)
		if c >= n {
			return
		}
		if t.v.CAS(old, pack(c+1, n)) {
			return
		}
	}
}

// Snapshot ...
func (t *Tracker) Snapshot() Progress {
	c, n := unpack(t.v.Load())
	return Progress{Completed: int(c), Total: int(n)}
}
