package web

import (
	"errors"
	"net"
	"net/http"

	"github.com/bmizerany/pat"

	"github.com/go-imsto/smol/batch"
	"github.com/go-imsto/smol/image"
	zlog "github.com/go-imsto/smol/log"
)

func logger() zlog.Logger {
	return zlog.Get()
}

// Controller is the part of *batch.Dispatcher the http shell drives
type Controller interface {
	SelectDirectory(dir string) error
	Start() (*batch.Summary, error)
	Status() batch.Status
}

// Option ...
type Option func(*server)

// WithWhiteList limits the write endpoints to the given ips or cidrs
func WithWhiteList(list []string) Option {
	return func(s *server) {
		nets, err := parseWhiteList(list)
		if err != nil {
			logger().Warnw("bad white list", "list", list, "err", err)
			return
		}
		s.whiteList = nets
	}
}

// WithAPIKey requires the key on the write endpoints
func WithAPIKey(key string) Option {
	return func(s *server) {
		s.apiKey = key
	}
}

type server struct {
	c         Controller
	whiteList []*net.IPNet
	apiKey    string
}

// Handler ...
func Handler(c Controller, opts ...Option) http.Handler {
	s := &server{c: c}
	for _, opt := range opts {
		opt(s)
	}

	mux := pat.New()
	mux.Post("/smol/dir", checkAPIKey(s.apiKey, secure(s.whiteList, s.dirHandler)))
	mux.Post("/smol/start", checkAPIKey(s.apiKey, secure(s.whiteList, s.startHandler)))
	mux.Get("/smol/progress", http.HandlerFunc(s.progressHandler))

	return mux
}

func statusCode(err error) int {
	switch {
	case errors.Is(err, batch.ErrBusy):
		return http.StatusConflict
	case errors.Is(err, batch.ErrNoDirectory), errors.Is(err, image.ErrDirectoryRead):
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

func (s *server) dirHandler(w http.ResponseWriter, r *http.Request) {
	var param dirSchema
	if err := Bind(r, &param); err != nil {
		writeJSONError(w, r, http.StatusBadRequest, err)
		return
	}
	if param.Dir == "" {
		writeJSONError(w, r, http.StatusBadRequest, errors.New("dir is required"))
		return
	}
	if err := s.c.SelectDirectory(param.Dir); err != nil {
		logger().Infow("select dir fail", "dir", param.Dir, "err", err)
		writeJSONError(w, r, statusCode(err), err)
		return
	}
	writeJSONQuiet(w, r, newAPIRes(newAPIMeta(true), s.c.Status()))
}

func (s *server) startHandler(w http.ResponseWriter, r *http.Request) {
	sum, err := s.c.Start()
	if err != nil {
		logger().Infow("start fail", "err", err)
		writeJSONError(w, r, statusCode(err), err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusAccepted)
	writeJSONQuiet(w, r, newAPIRes(newAPIMeta(true), sum))
}

func (s *server) progressHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Cache-Control", "no-store")
	writeJSONQuiet(w, r, newAPIRes(newAPIMeta(true), s.c.Status()))
}
