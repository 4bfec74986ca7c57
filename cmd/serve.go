package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/go-imsto/smol/batch"
	"github.com/go-imsto/smol/config"
	"github.com/go-imsto/smol/pool"
	"github.com/go-imsto/smol/web"
)

var cmdServe = &Command{
	UsageLine: "serve -l :8970",
	Short:     "serve the http shell",
	Long: `
serve the http shell:

    POST /smol/dir       dir=/path/to/photos
    POST /smol/start
    GET  /smol/progress
`,
}

var (
	sAddr    string
	sWorkers int
)

func init() {
	cmdServe.Run = runServe
	cmdServe.Flag.StringVar(&sAddr, "l", config.Current.Listen, "tcp listen addr")
	cmdServe.Flag.IntVar(&sWorkers, "workers", config.Current.Workers, "worker count, 0 means all CPUs")
}

type tickLogger struct{}

func (tickLogger) Show(st batch.Status) {
	if st.State == batch.Running {
		logger().Debugw("progress", "dir", st.Dir, "completed", st.Completed, "total", st.Total)
	}
}

func runServe(args []string) bool {
	cfg := config.Current
	resizer, err := newResizer(cfg.MaxSize, cfg.Quality, cfg.Filter)
	if err != nil {
		errorf("%s", err)
		setExitStatus(2)
		return true
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	p := pool.New(sWorkers, pool.WithErrorHandler(onTaskError))
	d := batch.NewDispatcher(p, resizer,
		batch.WithPattern(cfg.Pattern),
		batch.WithContext(ctx),
		batch.WithReporter(newReporter()),
		batch.WithDisplay(tickLogger{}),
	)

	str := fmt.Sprintf("Start smol service %s at addr %s", config.Version, sAddr)
	fmt.Println(str)
	logger().Infow("listen", "addr", sAddr, "workers", p.Size())
	srv := &http.Server{
		Addr: sAddr,
		Handler: web.Handler(d,
			web.WithWhiteList(cfg.WhiteList),
			web.WithAPIKey(cfg.APIKey),
		),
		ReadTimeout: cfg.ReadTimeout,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		interval := cfg.Tick
		if interval <= 0 {
			interval = 500 * time.Millisecond
		}
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-gctx.Done():
				sctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				return srv.Shutdown(sctx)
			case <-ticker.C:
				d.Tick()
			}
		}
	})

	err = g.Wait()
	dropped := p.Shutdown(false)
	logger().Infow("stopped", "dropped", dropped, "stats", p.Stats())
	if err != nil {
		errorf("Fail to serve: %s", err)
		setExitStatus(1)
	}
	return true
}
