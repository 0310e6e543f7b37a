// Package server serves scene matrices, rendered frames and live matrix
// streams over HTTP.
package server

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/Pallinder/go-randomdata"
	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"
	"github.com/pkg/errors"

	"github.com/gogpu/affine"
	"github.com/gogpu/affine/scene"
)

const (
	defaultWidth  = 800
	defaultHeight = 600
	maxDimension  = 4096

	defaultFPS = 30
	maxFPS     = 120

	defaultPingInterval = 30 * time.Second
	writeWait           = 10 * time.Second
)

// Server is the preview HTTP server.
type Server struct {
	reg          *scene.Registry
	log          *slog.Logger
	accessLog    io.Writer
	pingInterval time.Duration
	upgrader     websocket.Upgrader

	namesMu sync.Mutex
	names   map[string]struct{}
}

// Option configures a Server.
type Option func(*Server)

// WithAccessLog writes Apache combined access logs to w.
func WithAccessLog(w io.Writer) Option {
	return func(s *Server) { s.accessLog = w }
}

// WithPingInterval sets the websocket keepalive interval.
func WithPingInterval(d time.Duration) Option {
	return func(s *Server) { s.pingInterval = d }
}

// WithLogger overrides the module logger.
func WithLogger(l *slog.Logger) Option {
	return func(s *Server) { s.log = l }
}

// New creates a server for the scenes in reg.
func New(reg *scene.Registry, opts ...Option) *Server {
	s := &Server{
		reg:          reg,
		log:          affine.Logger(),
		pingInterval: defaultPingInterval,
		names:        make(map[string]struct{}),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Handler returns the routed handler with panic recovery and, if
// configured, access logging.
func (s *Server) Handler() http.Handler {
	r := mux.NewRouter()
	api := r.PathPrefix("/api").Subrouter()
	api.HandleFunc("/scenes", s.handleScenes).Methods(http.MethodGet)
	api.HandleFunc("/scenes/{name}/matrix", s.handleMatrix).Methods(http.MethodGet)
	api.HandleFunc("/scenes/{name}/frame.png", s.handleFrame).Methods(http.MethodGet)
	api.HandleFunc("/scenes/{name}/stream", s.handleStream).Methods(http.MethodGet)
	r.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusNotFound, errors.New("no such route"))
	})

	var h http.Handler = r
	h = handlers.RecoveryHandler(handlers.RecoveryLogger(recoveryLogger{s.log}))(h)
	if s.accessLog != nil {
		h = handlers.LoggingHandler(s.accessLog, h)
	}
	return h
}

// ListenAndServe serves on addr until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	errc := make(chan error, 1)
	go func() {
		s.log.Info("server: listening", "addr", addr, "scenes", s.reg.Len())
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		return errors.Wrap(err, "server: listen")
	case <-ctx.Done():
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return errors.Wrap(err, "server: shutdown")
	}
	if err := <-errc; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return errors.Wrap(err, "server: listen")
	}
	return nil
}

// clientID returns a readable name unique among this server's clients.
func (s *Server) clientID() string {
	s.namesMu.Lock()
	defer s.namesMu.Unlock()
	for {
		name := randomdata.SillyName()
		if _, taken := s.names[name]; !taken {
			s.names[name] = struct{}{}
			return name
		}
		if len(s.names) > 1<<16 {
			name = fmt.Sprintf("%s-%d", name, len(s.names))
			s.names[name] = struct{}{}
			return name
		}
	}
}

func (s *Server) releaseClientID(name string) {
	s.namesMu.Lock()
	delete(s.names, name)
	s.namesMu.Unlock()
}

type recoveryLogger struct{ log *slog.Logger }

func (l recoveryLogger) Println(v ...any) {
	l.log.Error("server: handler panic", "panic", fmt.Sprint(v...))
}
