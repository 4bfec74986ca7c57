package batch

import (
	"github.com/getsentry/raven-go"

	"github.com/go-imsto/smol/image"
	zlog "github.com/go-imsto/smol/log"
)

var (
	packagePrefixes = []string{"github.com/go-imsto"}
)

func logger() zlog.Logger {
	return zlog.Get()
}

// Failure is one job that did not produce an output file
type Failure struct {
	Path    string     `json:"path"`
	Kind    image.Kind `json:"kind"`
	Message string     `json:"message"`
	Err     error      `json:"-"`
}

// NewFailure ...
func NewFailure(path string, err error) Failure {
	return Failure{Path: path, Kind: image.KindOf(err), Message: err.Error(), Err: err}
}

// Reporter receives every failed job of a batch
type Reporter interface {
	Report(batchID string, f Failure)
}

// ReporterFunc ...
type ReporterFunc func(batchID string, f Failure)

// Report ...
func (fn ReporterFunc) Report(batchID string, f Failure) {
	fn(batchID, f)
}

// Reporters fans a failure out to each of its members
type Reporters []Reporter

// Report ...
func (rs Reporters) Report(batchID string, f Failure) {
	for _, r := range rs {
		if r != nil {
			r.Report(batchID, f)
		}
	}
}

// LogReporter writes failures as warnings
type LogReporter struct{}

// Report ...
func (LogReporter) Report(batchID string, f Failure) {
	logger().Warnw("job fail", "batch", batchID, "path", f.Path, "kind", f.Kind, "err", f.Err)
}

// SentryReporter sends failures to sentry
type SentryReporter struct {
	client *raven.Client
}

// NewSentryReporter ...
func NewSentryReporter(dsn string, tags map[string]string) (*SentryReporter, error) {
	client, err := raven.New(dsn)
	if err != nil {
		return nil, err
	}
	client.SetTagsContext(tags)
	return &SentryReporter{client: client}, nil
}

// Report ...
func (s *SentryReporter) Report(batchID string, f Failure) {
	err := f.Err
	if err == nil {
		return
	}
	packet := raven.NewPacket(err.Error(),
		raven.NewException(err, raven.NewStacktrace(1, 3, packagePrefixes)))
	s.client.Capture(packet, map[string]string{
		"batch": batchID,
		"kind":  f.Kind.String(),
		"path":  f.Path,
	})
}

// Close waits for pending events and releases the client
func (s *SentryReporter) Close() {
	s.client.Wait()
	s.client.Close()
}
