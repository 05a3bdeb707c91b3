package providers

import (
	"context"
	"net/http"
	"time"

	"github.com/samber/do/v2"

	"github.com/wishboardapp/wishboard-bot/internal/api"
	"github.com/wishboardapp/wishboard-bot/internal/config"
	"github.com/wishboardapp/wishboard-bot/internal/logger"
)

// StatusServerHandle wraps http.Server with Shutdownable. A nil Server
// means the status API is disabled by configuration.
type StatusServerHandle struct {
	*http.Server
}

// Shutdown implements do.Shutdownable.
func (h *StatusServerHandle) Shutdown() error {
	if h.Server == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return h.Server.Shutdown(ctx)
}

// ProvideStatusServer provides the read-only status HTTP server.
func ProvideStatusServer(i do.Injector) (*StatusServerHandle, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)

	if !cfg.Status.Enabled {
		log.Info("Status API disabled by configuration")
		return &StatusServerHandle{Server: nil}, nil
	}

	storeHandle := do.MustInvoke[*StoreHandle](i)
	handler := api.NewServer(storeHandle.Store, log.Logger)

	srv := &http.Server{
		Addr:         cfg.Status.Addr,
		Handler:      handler,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start in background
	go func() {
		log.Info("Status API starting", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.WithError(err).Error("Status API error")
		}
	}()

	return &StatusServerHandle{Server: srv}, nil
}
