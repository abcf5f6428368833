// Package api implements the HTTP front-end spec.md §6 describes: the
// join handshake, the WebRTC session-establishment stub, and static
// asset serving. It is one of the two I/O front-ends (the other is
// internal/transport's UDP listener) that talk to the tick-loop
// goroutine only through internal/server's JoinMessage/RecvMessage/
// SendMessage channels — never by touching a Game value directly
// (spec.md §5).
package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"catcharena/internal/server"
)

// RouterConfig contains all dependencies needed to construct the HTTP
// router. Designed for dependency injection and testability: NewRouter
// opens no listeners and starts no goroutines of its own, so it is
// safe to use with httptest.NewServer.
type RouterConfig struct {
	// JoinCh is the runner's join channel (required). The HTTP layer
	// never reaches into a Game directly; it only ever posts a
	// JoinMessage and waits on its reply channel (spec.md §5).
	JoinCh chan<- server.JoinMessage

	// ClntDir is the directory static assets are served from
	// (spec.md §6's --clnt_dir).
	ClntDir string

	// RateLimiter is an optional pre-configured rate limiter guarding
	// POST /join. If nil, a new one is created from RateLimitConfig.
	RateLimiter *IPRateLimiter

	// RateLimitConfig configures the rate limiter when RateLimiter is
	// nil. Defaults to DefaultRateLimitConfig if both are nil.
	RateLimitConfig *RateLimitConfig

	// CORSOrigins is the allowed CORS origin list. Defaults to "*"
	// (spec.md §6: /connect_webrtc must answer with
	// Access-Control-Allow-Origin: *).
	CORSOrigins []string

	// JoinTimeout bounds how long the HTTP handler waits for the
	// runner's reply before giving up.
	JoinTimeout time.Duration

	// DisableLogging disables the request logger middleware (useful
	// for benchmarks and quiet test output).
	DisableLogging bool
}

// NewRouter constructs the HTTP router with all middleware and routes.
// It has no side effects: no goroutines started, no listeners opened.
func NewRouter(cfg RouterConfig) *chi.Mux {
	if cfg.ClntDir == "" {
		cfg.ClntDir = "clnt"
	}
	if cfg.JoinTimeout == 0 {
		cfg.JoinTimeout = 2 * time.Second
	}
	if cfg.RateLimiter == nil {
		rlCfg := DefaultRateLimitConfig
		if cfg.RateLimitConfig != nil {
			rlCfg = *cfg.RateLimitConfig
		}
		cfg.RateLimiter = NewIPRateLimiter(rlCfg)
	}
	origins := cfg.CORSOrigins
	if origins == nil {
		origins = []string{"*"}
	}

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	if !cfg.DisableLogging {
		r.Use(middleware.Logger)
	}
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"*"},
	}))

	h := &routerHandlers{joinCh: cfg.JoinCh, joinTimeout: cfg.JoinTimeout}

	r.With(cfg.RateLimiter.Middleware).Post("/join", h.handleJoin)
	r.Post("/connect_webrtc", h.handleConnectWebRTC)

	fileServer(r, cfg.ClntDir)

	return r
}

// fileServer mounts the client asset directory at "/", serving
// index.html at "/" and "/index.html" and falling back to a gzip
// variant (path+".gz") with Content-Encoding: gzip when the browser
// accepts it and a plain variant isn't requested explicitly
// (spec.md §6).
func fileServer(r chi.Router, dir string) {
	fs := http.Dir(dir)
	handler := gzipAwareFileHandler(fs)

	r.Get("/", handler)
	r.Get("/index.html", handler)
	r.Get("/clnt.js", handler)
	r.Get("/clnt_bg.wasm", handler)
	r.Get("/*", handler)
}
