// Package batch turns a directory into resize jobs, feeds them to a worker
// pool and tracks their completion.
package batch

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/multierr"

	"github.com/go-imsto/smol/image"
	"github.com/go-imsto/smol/pool"
	"github.com/go-imsto/smol/utils"
)

// errors of Dispatcher
var (
	ErrBusy        = errors.New("batch: a batch is running")
	ErrNoDirectory = errors.New("batch: no directory selected")
)

// State of a Dispatcher
type State uint8

// states
const (
	Idle State = iota
	Selected
	Running
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Selected:
		return "selected"
	case Running:
		return "running"
	}
	return fmt.Sprintf("State(%d)", uint8(s))
}

// MarshalText ...
func (s State) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText ...
func (s *State) UnmarshalText(b []byte) error {
	for _, v := range []State{Idle, Selected, Running} {
		if v.String() == string(b) {
			*s = v
			return nil
		}
	}
	return fmt.Errorf("unknown state %q", b)
}

// Submitter accepts tasks, *pool.Pool is one
type Submitter interface {
	Submit(task pool.Task) error
}

// Resizer processes one file, *image.Resizer is one
type Resizer interface {
	ResizeFile(ctx context.Context, src string) (*image.Result, error)
}

// Display consumes the status on every tick
type Display interface {
	Show(st Status)
}

// DisplayFunc ...
type DisplayFunc func(st Status)

// Show ...
func (fn DisplayFunc) Show(st Status) {
	fn(st)
}

// Event is sent by a worker when its job is finished
type Event struct {
	Path   string
	Result *image.Result
	Err    error
}

// Summary is a copy of the state of one batch
type Summary struct {
	ID         string    `json:"id"`
	Dir        string    `json:"dir"`
	Files      int       `json:"files"`
	Succeeded  int       `json:"succeeded"`
	Failures   []Failure `json:"failures,omitempty"`
	StartedAt  time.Time `json:"startedAt"`
	FinishedAt time.Time `json:"finishedAt"`
}

// Err combines the errors of all failures
func (s Summary) Err() error {
	var err error
	for _, f := range s.Failures {
		err = multierr.Append(err, f.Err)
	}
	return err
}

// Status is what the display layer sees
type Status struct {
	State State  `json:"state"`
	Dir   string `json:"dir,omitempty"`
	Progress
	Batch *Summary `json:"batch,omitempty"`
}

// owned by the Dispatcher, workers only see the events channel
type run struct {
	id         string
	dir        string
	files      []string
	succeeded  int
	failures   []Failure
	startedAt  time.Time
	finishedAt time.Time
	events     chan Event
}

func (r *run) summary() *Summary {
	s := &Summary{
		ID:         r.id,
		Dir:        r.dir,
		Files:      len(r.files),
		Succeeded:  r.succeeded,
		StartedAt:  r.startedAt,
		FinishedAt: r.finishedAt,
	}
	if len(r.failures) > 0 {
		s.Failures = make([]Failure, len(r.failures))
		copy(s.Failures, r.failures)
	}
	return s
}

// Option ...
type Option func(*Dispatcher)

// WithPattern sets the file name pattern, see Enumerate
func WithPattern(pattern string) Option {
	return func(d *Dispatcher) {
		if pattern != "" {
			d.pattern = pattern
		}
	}
}

// WithDisplay ...
func WithDisplay(display Display) Option {
	return func(d *Dispatcher) {
		d.display = display
	}
}

// WithReporter ...
func WithReporter(r Reporter) Option {
	return func(d *Dispatcher) {
		d.reporter = r
	}
}

// WithContext sets the context handed to every job
func WithContext(ctx context.Context) Option {
	return func(d *Dispatcher) {
		d.ctx = ctx
	}
}

// Dispatcher reacts to directory selection, start requests and ticks.
// Its methods may be called from any goroutine.
type Dispatcher struct {
	pool     Submitter
	resizer  Resizer
	pattern  string
	display  Display
	reporter Reporter
	ctx      context.Context

	tracker Tracker

	mu    sync.Mutex
	state State
	dir   string
	cur   *run
}

// NewDispatcher ...
func NewDispatcher(p Submitter, r Resizer, opts ...Option) *Dispatcher {
	d := &Dispatcher{
		pool:     p,
		resizer:  r,
		pattern:  DefaultPattern,
		reporter: LogReporter{},
		ctx:      context.Background(),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// SelectDirectory stores the directory of the next batch
func (d *Dispatcher) SelectDirectory(dir string) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.state == Running {
		return ErrBusy
	}
	if err := utils.CheckDir(dir); err != nil {
		return image.NewError(image.DirectoryRead, dir, err)
	}
	d.dir = dir
	d.state = Selected
	logger().Infow("directory selected", "dir", dir)
	return nil
}

// Start enumerates the selected directory and submits one job per file.
// It fails with ErrBusy while a batch is running.
func (d *Dispatcher) Start() (*Summary, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.state == Running {
		return nil, ErrBusy
	}
	if d.dir == "" {
		return nil, ErrNoDirectory
	}

	files, err := Enumerate(d.dir, d.pattern)
	if err != nil {
		logger().Warnw("enumerate fail", "dir", d.dir, "err", err)
		return nil, err
	}

	r := &run{
		id:        uuid.NewString(),
		dir:       d.dir,
		files:     files,
		startedAt: time.Now(),
		events:    make(chan Event, len(files)),
	}
	d.tracker.Reset(len(files))
	d.cur = r
	d.state = Running
	logger().Infow("batch start", "batch", r.id, "dir", r.dir, "files", len(files))

	for _, name := range files {
		name := name
		if err := d.pool.Submit(func() error { return d.job(r, name) }); err != nil {
			// never started, still counts as finished
			r.events <- Event{Path: name, Err: err}
			d.tracker.Increment()
		}
	}

	return r.summary(), nil
}

// job runs on a worker. The event is sent before the increment, so once
// the tracker shows a finished batch every event is in the channel.
func (d *Dispatcher) job(r *run, name string) (err error) {
	ev := Event{Path: name}
	defer func() {
		if p := recover(); p != nil {
			err = fmt.Errorf("resize %s: panic: %v", name, p)
		}
		ev.Err = err
		r.events <- ev
		d.tracker.Increment()
	}()
	ev.Result, err = d.resizer.ResizeFile(d.ctx, name)
	return err
}

// Tick updates the batch from finished jobs and forwards the status to
// the display
func (d *Dispatcher) Tick() Status {
	st := d.Status()
	if d.display != nil {
		d.display.Show(st)
	}
	return st
}

// Status is Tick without the display
func (d *Dispatcher) Status() Status {
	d.mu.Lock()
	defer d.mu.Unlock()

	p := d.tracker.Snapshot()
	st := Status{Dir: d.dir, Progress: p}
	if r := d.cur; r != nil {
		d.drain(r)
		if d.state == Running && p.Done() {
			r.finishedAt = time.Now()
			d.state = Idle
			logger().Infow("batch done", "batch", r.id, "files", len(r.files),
				"failed", len(r.failures), "elapsed", r.finishedAt.Sub(r.startedAt))
		}
		st.Batch = r.summary()
	}
	st.State = d.state
	return st
}

func (d *Dispatcher) drain(r *run) {
	for {
		select {
		case ev := <-r.events:
			d.apply(r, ev)
		default:
			return
		}
	}
}

func (d *Dispatcher) apply(r *run, ev Event) {
	if ev.Err == nil {
		r.succeeded++
		return
	}
	f := NewFailure(ev.Path, ev.Err)
	r.failures = append(r.failures, f)
	if d.reporter != nil {
		d.reporter.Report(r.id, f)
	}
}

// Progress reads the tracker without touching the batch
func (d *Dispatcher) Progress() Progress {
	return d.tracker.Snapshot()
}
