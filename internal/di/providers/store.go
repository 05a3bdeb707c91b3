package providers

import (
	"github.com/samber/do/v2"

	"github.com/wishboardapp/wishboard-bot/internal/config"
	"github.com/wishboardapp/wishboard-bot/internal/logger"
	"github.com/wishboardapp/wishboard-bot/internal/wishlist"
)

// StoreHandle wraps the wishlist store for lifecycle management.
type StoreHandle struct {
	*wishlist.Store
}

// ProvideStore provides the persistent wishlist store.
func ProvideStore(i do.Injector) (*StoreHandle, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)

	store, err := wishlist.Open(cfg.Data.Path, log.Logger)
	if err != nil {
		return nil, err
	}

	single, multi := store.Snapshot()
	log.Info("Wishlist loaded",
		"single_entries", len(single),
		"multi_entries", len(multi),
	)

	return &StoreHandle{Store: store}, nil
}

// StoreWatcherHandle wraps the file watcher with Shutdownable.
type StoreWatcherHandle struct {
	*wishlist.Watcher
}

// Shutdown implements do.Shutdownable.
func (h *StoreWatcherHandle) Shutdown() error {
	return h.Close()
}

// ProvideStoreWatcher provides the watcher that reloads the store after
// manual edits to the board files.
func ProvideStoreWatcher(i do.Injector) (*StoreWatcherHandle, error) {
	storeHandle := do.MustInvoke[*StoreHandle](i)
	log := do.MustInvoke[*logger.Logger](i)

	watcher, err := wishlist.NewWatcher(storeHandle.Store, log.Logger)
	if err != nil {
		return nil, err
	}

	return &StoreWatcherHandle{Watcher: watcher}, nil
}
