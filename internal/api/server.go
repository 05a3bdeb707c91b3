// Package api provides the read-only status HTTP server: a health probe
// and a board dump for dashboards and manual inspection.
package api

import (
	"encoding/json/v2"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/wishboardapp/wishboard-bot/internal/wishlist"
)

// Server serves the status API.
type Server struct {
	store   *wishlist.Store
	router  *chi.Mux
	logger  *slog.Logger
	started time.Time
}

// NewServer creates a status server with all routes configured.
func NewServer(store *wishlist.Store, logger *slog.Logger) *Server {
	s := &Server{
		store:   store,
		router:  chi.NewRouter(),
		logger:  logger,
		started: time.Now(),
	}

	s.setupMiddleware()
	s.setupRoutes()

	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) setupMiddleware() {
	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.RealIP)
	s.router.Use(middleware.Recoverer)
	s.router.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{http.MethodGet},
	}))
}

func (s *Server) setupRoutes() {
	s.router.Get("/health", s.handleHealth)

	s.router.Route("/api/v1", func(r chi.Router) {
		r.Get("/wishlist", s.handleGetWishlist)
	})
}

// Envelope is the JSON response wrapper shared by all endpoints.
type Envelope struct {
	Data    any    `json:"data,omitempty"`
	Error   string `json:"error,omitempty"`
	Success bool   `json:"success"`
}

// respond writes data wrapped in an envelope using json/v2.
func (s *Server) respond(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)

	if err := json.MarshalWrite(w, Envelope{Success: status < 400, Data: data}); err != nil {
		s.logger.Error("encode status response failed", "error", err)
	}
}
