package web

import (
	"context"
	"embed"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/san-kum/sortviz/internal/session"
)

//go:embed static
var staticFS embed.FS

const shutdownTimeout = 5 * time.Second

// Server exposes one session controller over HTTP.
type Server struct {
	ctrl   *session.Controller
	hub    *Hub
	logger *slog.Logger
	router chi.Router
	base   context.Context
}

type Option func(*Server)

func WithLogger(l *slog.Logger) Option { return func(s *Server) { s.logger = l } }

// WithBaseContext sets the parent context of runs started over HTTP.
func WithBaseContext(ctx context.Context) Option { return func(s *Server) { s.base = ctx } }

func New(ctrl *session.Controller, opts ...Option) *Server {
	s := &Server{
		ctrl:   ctrl,
		logger: slog.Default(),
		base:   context.Background(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.hub = NewHub(s.logger)
	ctrl.AddRenderer(s.hub)
	s.router = s.routes()
	return s
}

func (s *Server) Hub() *Hub { return s.hub }

func (s *Server) Handler() http.Handler { return s.router }

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)

	r.Get("/", s.handleIndex)
	r.Get("/events", s.handleEvents)

	r.Route("/api", func(r chi.Router) {
		r.Get("/state", s.handleState)
		r.Get("/algorithms", s.handleAlgorithms)
		r.Post("/array", s.handleArray)
		r.Post("/start/{algorithm}", s.handleStart)
		r.Post("/pause", s.handlePause)
		r.Post("/resume", s.handleResume)
		r.Post("/cancel", s.handleCancel)
		r.Post("/voice", s.handleVoice)
		r.Put("/speed", s.handleSpeed)
	})
	return r
}

// ListenAndServe serves until ctx is done, then shuts down gracefully and
// cancels any active run.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		s.logger.Info("web server listening", "addr", addr)
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}

	s.logger.Info("shutting down", "addr", addr)
	s.ctrl.Cancel()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errc; !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
