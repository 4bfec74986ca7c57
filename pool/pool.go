// Package pool runs submitted tasks on a fixed set of long-lived worker
// goroutines fed from one unbounded FIFO queue.
package pool

import (
	"errors"
	"fmt"
	"runtime"
	"runtime/debug"
	"sync"

	"github.com/eapache/queue"
	"go.uber.org/atomic"
)

// ErrClosed is returned by Submit once Shutdown has begun
var ErrClosed = errors.New("pool: closed")

// Task is a unit of work. A returned error or a panic is passed to the
// pool's ErrorHandler, the worker keeps running.
type Task func() error

// ErrorHandler receives task failures, it is called from worker goroutines
type ErrorHandler func(err error)

// PanicError wraps a value recovered from a task
type PanicError struct {
	Value any
	Stack []byte
}

func (e *PanicError) Error() string {
	return fmt.Sprintf("pool: task panic: %v", e.Value)
}

// Option ...
type Option func(*Pool)

// WithErrorHandler ...
func WithErrorHandler(fn ErrorHandler) Option {
	return func(p *Pool) {
		p.onError = fn
	}
}

// Pool is a fixed size worker pool
type Pool struct {
	size    int
	onError ErrorHandler

	mu      sync.Mutex
	cond    *sync.Cond
	q       *queue.Queue
	closed  bool
	running int
	wg      sync.WaitGroup

	submitted atomic.Int64
	completed atomic.Int64
	failed    atomic.Int64
}

// New starts size workers, size < 1 means runtime.NumCPU()
func New(size int, opts ...Option) *Pool {
	if size < 1 {
		size = runtime.NumCPU()
	}
	p := &Pool{size: size, q: queue.New()}
	p.cond = sync.NewCond(&p.mu)
	for _, opt := range opts {
		opt(p)
	}
	p.wg.Add(size)
	for i := 0; i < size; i++ {
		go p.worker()
	}
	return p
}

// Submit enqueues task and returns at once
func (p *Pool) Submit(task Task) error {
	if task == nil {
		return errors.New("pool: nil task")
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return ErrClosed
	}
	p.q.Add(task)
	p.submitted.Inc()
	p.cond.Signal()
	return nil
}

func (p *Pool) worker() {
	defer p.wg.Done()
	for {
		p.mu.Lock()
		for p.q.Length() == 0 && !p.closed {
			p.cond.Wait()
		}
		if p.q.Length() == 0 {
			p.mu.Unlock()
			return
		}
		task := p.q.Remove().(Task)
		p.running++
		p.mu.Unlock()

		p.execute(task)

		p.mu.Lock()
		p.running--
		p.mu.Unlock()
	}
}

func (p *Pool) execute(task Task) {
	var err error
	defer func() {
		if r := recover(); r != nil {
			err = &PanicError{Value: r, Stack: debug.Stack()}
		}
		p.completed.Inc()
		if err != nil {
			p.failed.Inc()
			if p.onError != nil {
				p.onError(err)
			}
		}
	}()
	err = task()
}

// Shutdown stops accepting tasks and waits for the workers to exit. With
// drain the queued tasks run first, otherwise tasks not yet started are
// dropped and their count returned. Later calls only wait.
func (p *Pool) Shutdown(drain bool) int {
	var dropped int
	p.mu.Lock()
	if !p.closed {
		p.closed = true
		if !drain {
			for p.q.Length() > 0 {
				p.q.Remove()
				dropped++
			}
		}
		p.cond.Broadcast()
	}
	p.mu.Unlock()

	p.wg.Wait()
	return dropped
}

// Close drains the queue and waits for the workers
func (p *Pool) Close() {
	p.Shutdown(true)
}

// Size is the number of workers
func (p *Pool) Size() int {
	return p.size
}

// Pending is the number of queued tasks not yet started
func (p *Pool) Pending() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.q.Length()
}

// Running is the number of tasks executing now
func (p *Pool) Running() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.running
}

// Stats returns basic counters
func (p *Pool) Stats() map[string]int64 {
	return map[string]int64{
		"workers":   int64(p.size),
		"submitted": p.submitted.Load(),
		"completed": p.completed.Load(),
		"failed":    p.failed.Load(),
		"pending":   int64(p.Pending()),
	}
}
