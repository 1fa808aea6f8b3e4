package server

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog/log"
	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"

	"github.com/vigenere-search/internal/auth"
	"github.com/vigenere-search/internal/config"
	"github.com/vigenere-search/internal/dao"
	"github.com/vigenere-search/internal/search"
)

// Server exposes scan progress and stored candidates over HTTP
type Server struct {
	cfg        *config.Config
	router     *chi.Mux
	httpServer *http.Server
	progress   *search.Progress
	candidates *dao.CandidateDAO
	runs       *dao.RunDAO
	auth       *auth.JWTAuth
}

// New creates a new status server. candidates and runs may be nil when
// results are not persisted.
func New(cfg *config.Config, progress *search.Progress, candidates *dao.CandidateDAO, runs *dao.RunDAO) *Server {
	s := &Server{
		cfg:        cfg,
		router:     chi.NewRouter(),
		progress:   progress,
		candidates: candidates,
		runs:       runs,
	}
	if cfg.IsAuthEnabled() {
		s.auth = auth.NewJWTAuth(cfg.Status.JWTSecret, time.Duration(cfg.Status.JWTExpire)*time.Hour)
	}

	s.setupRoutes()
	s.httpServer = &http.Server{
		Addr:              cfg.GetStatusAddr(),
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       120 * time.Second,
	}
	return s
}

func (s *Server) setupRoutes() {
	r := s.router

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(LoggerMiddleware)
	r.Use(middleware.Recoverer)

	r.Get("/health", s.handleHealth)
	r.Get("/ready", s.handleReady)

	r.Route("/api", func(r chi.Router) {
		if s.auth != nil {
			r.Use(AuthMiddleware(s.auth))
		}
		r.Get("/progress", s.handleProgress)
		r.Get("/candidates", s.handleListCandidates)
		r.Get("/candidates/{identity}", s.handleGetCandidate)
		r.Get("/runs", s.handleListRuns)
	})
}

// Handler returns the HTTP handler, wrapped for h2c when enabled
func (s *Server) Handler() http.Handler {
	var h http.Handler = s.router

	// Enable h2c (HTTP/2 cleartext) if configured
	if s.cfg.Status.EnableH2C {
		h2s := &http2.Server{
			MaxConcurrentStreams: 250,
			IdleTimeout:          120 * time.Second,
		}
		h = h2c.NewHandler(s.router, h2s)
	}
	return h
}

// Start serves until Shutdown is called. Calling Shutdown first makes
// Start return immediately.
func (s *Server) Start() error {
	log.Info().
		Str("addr", s.httpServer.Addr).
		Bool("h2c", s.cfg.Status.EnableH2C).
		Bool("auth", s.auth != nil).
		Msg("Starting status server")

	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	log.Info().Msg("Shutting down status server...")
	return s.httpServer.Shutdown(ctx)
}
