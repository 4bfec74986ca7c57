package pool

import (
	"errors"
	"runtime"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/atomic"
)

func TestPoolBoundedConcurrency(t *testing.T) {
	const size, n = 3, 30
	p := New(size)

	var active, peak, done atomic.Int32
	for i := 0; i < n; i++ {
		err := p.Submit(func() error {
			cur := active.Inc()
			for {
				old := peak.Load()
				if cur <= old || peak.CAS(old, cur) {
					break
				}
			}
			time.Sleep(5 * time.Millisecond)
			active.Dec()
			done.Inc()
			return nil
		})
		require.NoError(t, err)
	}
	p.Close()

	assert.Equal(t, int32(n), done.Load())
	assert.LessOrEqual(t, peak.Load(), int32(size))
	assert.GreaterOrEqual(t, peak.Load(), int32(1))
	assert.Equal(t, int64(n), p.Stats()["completed"])
}

func TestPoolFailureIsolation(t *testing.T) {
	var (
		mu   sync.Mutex
		errs []error
	)
	p := New(1, WithErrorHandler(func(err error) {
		mu.Lock()
		errs = append(errs, err)
		mu.Unlock()
	}))

	var ran atomic.Int32
	require.NoError(t, p.Submit(func() error { panic("boom") }))
	require.NoError(t, p.Submit(func() error { return errors.New("bad file") }))
	require.NoError(t, p.Submit(func() error { ran.Inc(); return nil }))
	p.Close()

	assert.Equal(t, int32(1), ran.Load())
	require.Len(t, errs, 2)
	var pe *PanicError
	require.True(t, errors.As(errs[0], &pe))
	assert.Equal(t, "boom", pe.Value)
	assert.NotEmpty(t, pe.Stack)
	assert.EqualError(t, errs[1], "bad file")
	assert.Equal(t, int64(2), p.Stats()["failed"])
}

func TestPoolFIFO(t *testing.T) {
	p := New(1)
	var (
		mu    sync.Mutex
		order []int
	)
	for i := 0; i < 10; i++ {
		i := i
		require.NoError(t, p.Submit(func() error {
			mu.Lock()
			order = append(order, i)
			mu.Unlock()
			return nil
		}))
	}
	p.Close()
	assert.Equal(t, []int{0, 1, 2, 3, 4, 5, 6, 7, 8, 9}, order)
}

func TestPoolSubmitAfterClose(t *testing.T) {
	p := New(2)
	p.Close()
	assert.ErrorIs(t, p.Submit(func() error { return nil }), ErrClosed)
	assert.Error(t, New(1).Submit(nil))
	// second shutdown only waits
	assert.Equal(t, 0, p.Shutdown(false))
}

func TestPoolShutdownDiscard(t *testing.T) {
	p := New(1)
	started := make(chan struct{})
	release := make(chan struct{})
	var ran atomic.Int32

	require.NoError(t, p.Submit(func() error {
		close(started)
		<-release
		ran.Inc()
		return nil
	}))
	for i := 0; i < 5; i++ {
		require.NoError(t, p.Submit(func() error { ran.Inc(); return nil }))
	}
	<-started
	assert.Equal(t, 1, p.Running())
	assert.Equal(t, 5, p.Pending())

	dropped := make(chan int, 1)
	go func() { dropped <- p.Shutdown(false) }()
	assert.Eventually(t, func() bool { return p.Pending() == 0 }, time.Second, time.Millisecond)
	close(release)

	assert.Equal(t, 5, <-dropped)
	assert.Equal(t, int32(1), ran.Load())
	assert.Equal(t, 0, p.Running())
}

func TestPoolShutdownDrain(t *testing.T) {
	p := New(2)
	var ran atomic.Int32
	for i := 0; i < 20; i++ {
		require.NoError(t, p.Submit(func() error {
			time.Sleep(time.Millisecond)
			ran.Inc()
			return nil
		}))
	}
	assert.Equal(t, 0, p.Shutdown(true))
	assert.Equal(t, int32(20), ran.Load())
}

func TestPoolDefaultSize(t *testing.T) {
	p := New(0)
	defer p.Close()
	assert.Equal(t, runtime.NumCPU(), p.Size())
}
