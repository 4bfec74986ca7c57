package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-imsto/smol/batch"
	"github.com/go-imsto/smol/config"
	"github.com/go-imsto/smol/pool"
)

var cmdResize = &Command{
	UsageLine: "resize [-workers n] [-max 2048] [-q 85] [-pattern *.jpg] [-tick 500ms] dir",
	Short:     "resize all jpeg files of a directory",
	Long: `
resize every *.jpg of dir so that its longest edge is at most -max pixels,
writing the results to dir/smol/
`,
}

var (
	rDir     string
	rWorkers int
	rMax     uint
	rQuality int
	rFilter  string
	rPattern string
	rTick    time.Duration
)

func init() {
	cmdResize.Run = runResize
	cmdResize.Flag.StringVar(&rDir, "dir", "", "source directory")
	cmdResize.Flag.IntVar(&rWorkers, "workers", config.Current.Workers, "worker count, 0 means all CPUs")
	cmdResize.Flag.UintVar(&rMax, "max", config.Current.MaxSize, "longest edge in pixels")
	cmdResize.Flag.IntVar(&rQuality, "q", config.Current.Quality, "jpeg quality")
	cmdResize.Flag.StringVar(&rFilter, "filter", config.Current.Filter, "resampling filter: nearest, bilinear, bicubic, mitchell, lanczos2, lanczos3")
	cmdResize.Flag.StringVar(&rPattern, "pattern", config.Current.Pattern, "file name pattern, case sensitive")
	cmdResize.Flag.DurationVar(&rTick, "tick", config.Current.Tick, "progress interval")
}

type progressBar struct {
	w io.Writer
}

func (pb progressBar) Show(st batch.Status) {
	fmt.Fprintf(pb.w, "\r%s [%d/%d]", st.Dir, st.Completed, st.Total)
}

func runResize(args []string) bool {
	if rDir == "" && len(args) > 0 {
		rDir = args[0]
	}
	if rDir == "" {
		return false
	}
	if rTick <= 0 {
		rTick = config.Current.Tick
	}

	resizer, err := newResizer(rMax, rQuality, rFilter)
	if err != nil {
		errorf("%s", err)
		setExitStatus(2)
		return true
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	p := pool.New(rWorkers, pool.WithErrorHandler(onTaskError))
	d := batch.NewDispatcher(p, resizer,
		batch.WithPattern(rPattern),
		batch.WithContext(ctx),
		batch.WithReporter(newReporter()),
		batch.WithDisplay(progressBar{w: os.Stderr}),
	)

	if err = d.SelectDirectory(rDir); err != nil {
		p.Close()
		errorf("%s", err)
		setExitStatus(2)
		return true
	}
	if _, err = d.Start(); err != nil {
		p.Close()
		errorf("%s", err)
		setExitStatus(2)
		return true
	}

	st := waitBatch(ctx, d, rTick)
	fmt.Fprintln(os.Stderr)

	if ctx.Err() != nil {
		dropped := p.Shutdown(false)
		errorf("interrupted, %d queued files skipped", dropped)
		setExitStatus(1)
		return true
	}
	p.Close()

	if st.Batch != nil {
		for _, f := range st.Batch.Failures {
			errorf("%s: %s", f.Kind, f.Message)
		}
		fmt.Printf("%d resized, %d failed\n", st.Batch.Succeeded, len(st.Batch.Failures))
		if len(st.Batch.Failures) > 0 {
			setExitStatus(1)
		}
	}
	return true
}

// waitBatch ticks until the batch is done or ctx is cancelled
func waitBatch(ctx context.Context, d *batch.Dispatcher, interval time.Duration) batch.Status {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	st := d.Tick()
	for st.State == batch.Running {
		select {
		case <-ctx.Done():
			return st
		case <-ticker.C:
			st = d.Tick()
		}
	}
	return st
}
