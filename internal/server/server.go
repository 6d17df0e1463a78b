package server

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/adaudit/adaudit/internal/config"
	"github.com/adaudit/adaudit/internal/moderation"
	"github.com/adaudit/adaudit/internal/pipeline"
)

// PipelineFactory builds a fresh pipeline for one scan. Pipelines carry
// per-scan state (the duplicate corpus), so they must not be shared
// between requests.
type PipelineFactory func() *pipeline.Pipeline

// Server serves the audit API over HTTP.
type Server struct {
	addr        string
	factory     PipelineFactory
	moderation  *moderation.Adapter
	logger      *slog.Logger
	scanTimeout time.Duration
	router      *chi.Mux
	httpServer  *http.Server
}

// Option configures a Server.
type Option func(*Server)

// WithAddr sets the listen address. Defaults to config.DefaultServerAddr.
func WithAddr(addr string) Option {
	return func(s *Server) {
		s.addr = addr
	}
}

// WithServerLogger sets the logger used for request and lifecycle logging.
func WithServerLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithScanTimeout bounds the time a single scan request may run.
func WithScanTimeout(d time.Duration) Option {
	return func(s *Server) {
		if d > 0 {
			s.scanTimeout = d
		}
	}
}

// New creates a Server. The factory is invoked once per scan request;
// mod may carry a nil classifier, in which case the health endpoint
// reports moderation as unavailable and scans run rule-only.
func New(factory PipelineFactory, mod *moderation.Adapter, opts ...Option) *Server {
	s := &Server{
		addr:        config.DefaultServerAddr,
		factory:     factory,
		moderation:  mod,
		logger:      slog.Default(),
		scanTimeout: 5 * time.Minute,
	}

	for _, opt := range opts {
		opt(s)
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(s.requestLogger)

	r.Post("/api/scan", s.handleScan)
	r.Get("/api/health", s.handleHealth)

	s.router = r
	s.httpServer = &http.Server{
		Addr:              s.addr,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	return s
}

// Handler returns the server's HTTP handler, for tests and embedding.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Start listens on the configured address until ctx is cancelled, then
// shuts down gracefully. It blocks until shutdown completes.
func (s *Server) Start(ctx context.Context) error {
	errCh := make(chan error, 1)

	go func() {
		s.logger.Info("server listening", "addr", s.addr)
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
			return
		}
		errCh <- nil
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	s.logger.Info("server shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
		return err
	}
	return <-errCh
}

// requestLogger logs one line per request with method, path, status,
// duration, and the chi request ID.
func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()

		next.ServeHTTP(ww, r)

		s.logger.Info("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"duration", time.Since(start),
			"request_id", middleware.GetReqID(r.Context()),
		)
	})
}
