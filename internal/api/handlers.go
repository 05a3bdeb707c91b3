package api

import (
	"net/http"
	"time"

	"github.com/wishboardapp/wishboard-bot/internal/wishlist"
)

// healthResponse reports process liveness.
type healthResponse struct {
	Status string `json:"status"`
	Uptime string `json:"uptime"`
}

// wishlistResponse is the full board snapshot.
type wishlistResponse struct {
	Single []wishlist.Entry `json:"single"`
	Multi  []wishlist.Entry `json:"multi"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.respond(w, http.StatusOK, healthResponse{
		Status: "ok",
		Uptime: time.Since(s.started).Round(time.Second).String(),
	})
}

func (s *Server) handleGetWishlist(w http.ResponseWriter, r *http.Request) {
	single, multi := s.store.Snapshot()
	s.respond(w, http.StatusOK, wishlistResponse{Single: single, Multi: multi})
}
