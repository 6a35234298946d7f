package server

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/me/scoop/internal/config"
	"github.com/me/scoop/internal/retention"
	"github.com/me/scoop/internal/store"
	"golang.org/x/time/rate"
)

// Server is the scoop REST API server.
type Server struct {
	router    chi.Router
	logger    *slog.Logger
	config    config.ServerConfig
	startTime time.Time
	store     store.Store
	limiter   *rate.Limiter     // nil when rate limiting is disabled
	pruner    *retention.Pruner // optional; nil when no retention rule is set
}

// Option configures optional Server dependencies.
type Option func(*Server)

// WithLimiter replaces the simulation rate limiter. A nil limiter disables
// limiting.
func WithLimiter(l *rate.Limiter) Option {
	return func(s *Server) {
		s.limiter = l
	}
}

// WithPruner sets the run history pruner started by StartPruner.
func WithPruner(p *retention.Pruner) Option {
	return func(s *Server) {
		s.pruner = p
	}
}

// New creates a new Server with all routes registered.
func New(cfg config.ServerConfig, st store.Store, logger *slog.Logger, opts ...Option) *Server {
	s := &Server{
		router:    chi.NewRouter(),
		logger:    logger.With("component", "server"),
		config:    cfg,
		startTime: time.Now(),
		store:     st,
	}
	if cfg.RatePerSecond > 0 {
		burst := cfg.RateBurst
		if burst < 1 {
			burst = 1
		}
		s.limiter = rate.NewLimiter(rate.Limit(cfg.RatePerSecond), burst)
	}
	for _, opt := range opts {
		opt(s)
	}

	s.routes()
	return s
}

// StartPruner begins applying retention rules in a background goroutine.
func (s *Server) StartPruner(ctx context.Context) {
	if s.pruner == nil {
		return
	}
	go func() {
		if err := s.pruner.Start(ctx); err != nil && err != context.Canceled {
			s.logger.Error("retention stopped", "error", err)
		}
	}()
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// Handler returns the http.Handler for this server.
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) routes() {
	r := s.router

	// Global middleware
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(requestIDMiddleware)
	r.Use(loggingMiddleware(s.logger))

	r.Route("/api/v1", func(r chi.Router) {
		// Discovery
		r.Get("/", s.handleDiscovery)

		// Health
		r.Get("/health", s.handleHealth)

		// Simulations
		r.Route("/simulations", func(r chi.Router) {
			r.Get("/", s.handleListSimulations)
			r.With(rateLimitMiddleware(s.limiter)).Post("/", s.handleCreateSimulation)
			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", s.handleGetSimulation)
				r.Delete("/", s.handleDeleteSimulation)
				r.Get("/events", s.handleListSimulationEvents)
			})
		})
	})
}
