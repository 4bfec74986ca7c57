package batch

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTracker(t *testing.T) {
	var tr Tracker
	assert.Equal(t, Progress{}, tr.Snapshot())
	assert.True(t, tr.Snapshot().Done())

	tr.Reset(3)
	assert.Equal(t, Progress{Completed: 0, Total: 3}, tr.Snapshot())
	assert.False(t, tr.Snapshot().Done())

	for i := 0; i < 5; i++ {
		tr.Increment()
	}
	assert.Equal(t, Progress{Completed: 3, Total: 3}, tr.Snapshot())
	assert.Equal(t, "3/3", tr.Snapshot().String())

	tr.Reset(2)
	assert.Equal(t, Progress{Completed: 0, Total: 2}, tr.Snapshot())
}

func TestTrackerConcurrent(t *testing.T) {
	const n = 1000
	var tr Tracker
	tr.Reset(n)

	var wg sync.WaitGroup
	done := make(chan struct{})
	go func() {
		// the reader never sees completed above total
		for {
			select {
			case <-done:
				return
			default:
				p := tr.Snapshot()
				if p.Completed > p.Total {
					t.Errorf("snapshot %s", p)
				}
			}
		}
	}()
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			tr.Increment()
		}()
	}
	wg.Wait()
	close(done)
	assert.Equal(t, Progress{Completed: n, Total: n}, tr.Snapshot())
}
