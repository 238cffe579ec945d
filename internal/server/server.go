package server

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/Snuffy2/hass-favicon/internal/branding"
	"github.com/Snuffy2/hass-favicon/internal/config"
	"github.com/Snuffy2/hass-favicon/internal/entry"
	"github.com/Snuffy2/hass-favicon/internal/frontend"
)

// EntryStore persists the active branding entry across restarts.
type EntryStore interface {
	Load() (*entry.Entry, error)
	Save(*entry.Entry) error
	Delete() error
}

// Server is the HTTP front for the rebranded dashboard: it serves the
// rewritten index and manifest, the /local/ asset tree, and the settings
// API that reconfigures branding at runtime.
type Server struct {
	cfg      *config.Config
	fe       *frontend.Frontend
	hook     *branding.Hook
	entries  EntryStore
	events   *eventHub
	http     *http.Server
	sessions *sessionStore

	// settingsMu serializes settings mutations; the host lifecycle only
	// guarantees serial setup/unload, not serial API calls.
	settingsMu sync.Mutex
}

// Option configures the server.
type Option func(*Server)

// New creates a new Server around an existing frontend and hook.
func New(cfg *config.Config, fe *frontend.Frontend, hook *branding.Hook, entries EntryStore, opts ...Option) *Server {
	s := &Server{
		cfg:      cfg,
		fe:       fe,
		hook:     hook,
		entries:  entries,
		events:   newEventHub(),
		sessions: newSessionStore(),
	}
	for _, opt := range opts {
		opt(s)
	}

	mux := http.NewServeMux()

	mux.HandleFunc("GET /api/health", s.handleHealth)
	mux.HandleFunc("GET /api/settings", s.handleGetSettings)
	mux.HandleFunc("PUT /api/settings", s.withAuth(s.handleUpdateSettings))
	mux.HandleFunc("POST /api/settings/reset", s.withAuth(s.handleResetSettings))
	mux.HandleFunc("GET /api/events", s.handleEvents)

	if cfg.Auth.Mode == config.AuthModePassword {
		mux.HandleFunc("POST /api/auth/login", s.handleLogin)
		mux.HandleFunc("POST /api/auth/logout", s.handleLogout)
		mux.HandleFunc("GET /api/auth/check", s.handleAuthCheck)
	}

	mux.HandleFunc("GET /manifest.json", s.handleManifest)
	mux.HandleFunc("GET /local/{path...}", s.handleLocal)

	// Every other GET falls through to the index, so client-side routes
	// like /lovelace/0 render the dashboard shell.
	mux.HandleFunc("GET /", s.handleIndex)

	var handler http.Handler = mux
	handler = maxBodyMiddleware(handler, 1<<20) // 1 MB limit for API requests
	handler = logMiddleware(handler)

	s.http = &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Service.BindAddress, cfg.Service.Port),
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return s
}

// ListenAndServe starts the HTTP server.
func (s *Server) ListenAndServe() error {
	return s.http.ListenAndServe()
}

// Shutdown gracefully stops the server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.events.closeAll()
	return s.http.Shutdown(ctx)
}

// Addr returns the configured listen address.
func (s *Server) Addr() string {
	return s.http.Addr
}

func maxBodyMiddleware(next http.Handler, maxBytes int64) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Only limit request body for API mutations, not WebSocket upgrades.
		if r.Body != nil && strings.HasPrefix(r.URL.Path, "/api/") && r.Method != "GET" &&
			!strings.Contains(r.Header.Get("Upgrade"), "websocket") {
			r.Body = http.MaxBytesReader(w, r.Body, maxBytes)
		}
		next.ServeHTTP(w, r)
	})
}

func logMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		fmt.Printf("[%s] %s %s %s\n", time.Now().Format("15:04:05"), r.Method, r.URL.Path, time.Since(start).Round(time.Millisecond))
	})
}
