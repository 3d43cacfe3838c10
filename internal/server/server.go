// Package server exposes the plate simulator over HTTP: an HTML form,
// a submit endpoint returning the rendered GIF and a download endpoint for
// stored plots.
package server

import (
	"context"
	"embed"
	"errors"
	"net/http"
	"time"

	"github.com/san-kum/chromasim/internal/blob"
	"github.com/san-kum/chromasim/internal/experiment"
	"github.com/san-kum/chromasim/internal/render"
)

//go:embed static/index.html
var static embed.FS

const (
	// FormSlots is the number of compound pairs the submit form carries.
	FormSlots    = 5
	maxFormBytes = 1 << 20

	shutdownTimeout = 10 * time.Second
)

type Server struct {
	store      blob.Store
	logger     Logger
	frameCount int
	jitter     float64
	renderOpts []render.Option
	metrics    *metrics
	mux        *http.ServeMux
}

type Option func(*Server)

func WithLogger(l Logger) Option {
	return func(s *Server) {
		if l != nil {
			s.logger = l
		}
	}
}

func WithFrameCount(n int) Option {
	return func(s *Server) {
		if n > 0 {
			s.frameCount = n
		}
	}
}

func WithJitter(halfWidth float64) Option {
	return func(s *Server) { s.jitter = halfWidth }
}

// WithRenderOptions configures the renderer built for every request.
func WithRenderOptions(opts ...render.Option) Option {
	return func(s *Server) { s.renderOpts = append(s.renderOpts, opts...) }
}

func New(store blob.Store, opts ...Option) *Server {
	s := &Server{
		store:      store,
		logger:     NewStdLogger(nil),
		frameCount: experiment.DefaultFrameCount,
		metrics:    newMetrics(),
		mux:        http.NewServeMux(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.routes()
	return s
}

func (s *Server) routes() {
	s.mux.Handle("GET /{$}", s.metrics.instrument("index", s.handleIndex))
	s.mux.Handle("POST /submit", s.metrics.instrument("submit", s.handleSubmit))
	s.mux.Handle("GET /download/{plot_id}", s.metrics.instrument("download", s.handleDownload))
	s.mux.Handle("GET /healthz", s.metrics.instrument("healthz", s.handleHealth))
	s.mux.Handle("GET /metrics", s.metrics.handler())
}

func (s *Server) Handler() http.Handler { return s.mux }

// ListenAndServe serves on addr until ctx is canceled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Infof("listening on %s (blob driver %s)", addr, s.store.Driver())
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errCh; !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	s.logger.Infof("server stopped")
	return nil
}
