package api

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"catcharena/internal/server"
)

// Server is the HTTP front-end: POST /join, POST /connect_webrtc, and
// static asset serving (spec.md §6). It never touches Game state
// directly — every join request crosses the runner's JoinCh channel
// and back (spec.md §5).
type Server struct {
	router      *chi.Mux
	rateLimiter *IPRateLimiter
	httpServer  *http.Server
}

// NewServer constructs the HTTP server. Background workers (the rate
// limiter's cleanup goroutine aside) do not start until Start is
// called.
func NewServer(joinCh chan<- server.JoinMessage, clntDir string) *Server {
	rl := NewIPRateLimiter(DefaultRateLimitConfig)
	router := NewRouter(RouterConfig{
		JoinCh:      joinCh,
		ClntDir:     clntDir,
		RateLimiter: rl,
	})
	return &Server{router: router, rateLimiter: rl}
}

// Router exposes the underlying chi.Mux for tests that want to drive
// it directly with httptest.NewServer.
func (s *Server) Router() *chi.Mux { return s.router }

// Start begins serving HTTP on addr. It blocks until the server stops
// (Shutdown is called or ListenAndServe errors).
func (s *Server) Start(addr string) error {
	s.httpServer = &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 5 * time.Second,
	}
	log.Printf("api: listening on %s", addr)
	err := s.httpServer.ListenAndServe()
	if err == http.ErrServerClosed {
		return nil
	}
	return err
}

// Shutdown stops the rate limiter's background worker and gracefully
// closes the HTTP listener.
func (s *Server) Shutdown(ctx context.Context) error {
	s.rateLimiter.Stop()
	if s.httpServer == nil {
		return nil
	}
	return s.httpServer.Shutdown(ctx)
}
