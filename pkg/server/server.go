// Package server exposes one in-memory roster over a local JSON API.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/mchmarny/gradebook/pkg/roster"
	"golang.org/x/sync/errgroup"
)

const (
	shutdownWait   = 5 * time.Second
	requestTimeout = 30 * time.Second
	maxHeaderBytes = 1 << 20
)

// Server serves a roster. The roster assumes exclusive access during a
// mutation, so every request holds mu for its whole duration.
type Server struct {
	mu     sync.Mutex
	roster *roster.Roster
	logger *slog.Logger
}

// New creates a server for r.
func New(r *roster.Roster, logger *slog.Logger) (*Server, error) {
	if r == nil {
		return nil, errors.New("roster required")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Server{roster: r, logger: logger.WithGroup("server")}, nil
}

// Handler returns the routed API.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID, middleware.Recoverer, s.logRequest)
	r.Use(middleware.Timeout(requestTimeout))

	r.Route("/students", func(sr chi.Router) {
		sr.Get("/", s.listStudents)
		sr.Post("/", s.addStudent)
		sr.Get("/{id}", s.getStudent)
		sr.Get("/{id}/rank", s.getRank)
		sr.Patch("/{id}/scores", s.updateScores)
	})
	r.Get("/distribution", s.getDistribution)
	r.Get("/weights", s.getWeights)
	r.Put("/weights", s.updateWeights)
	r.Get("/filter", s.filter)

	return r
}

// Run serves on addr until ctx is canceled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context, addr string) error {
	hs := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: requestTimeout,
		WriteTimeout:      requestTimeout,
		MaxHeaderBytes:    maxHeaderBytes,
	}

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		s.logger.Info("listening", "address", fmt.Sprintf("http://%s", addr))
		if err := hs.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("serving on %s: %w", addr, err)
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		sctx, cancel := context.WithTimeout(context.Background(), shutdownWait)
		defer cancel()
		if err := hs.Shutdown(sctx); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("shutting down server: %w", err)
		}
		s.logger.Info("stopped")
		return nil
	})

	return g.Wait()
}

func (s *Server) logRequest(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		s.logger.Debug("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"duration", time.Since(start).String(),
		)
	})
}
