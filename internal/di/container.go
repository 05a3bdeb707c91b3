// Package di provides dependency injection configuration for the Wishboard bot.
package di

import (
	"github.com/samber/do/v2"

	"github.com/wishboardapp/wishboard-bot/internal/catalog"
	"github.com/wishboardapp/wishboard-bot/internal/config"
	"github.com/wishboardapp/wishboard-bot/internal/di/providers"
	"github.com/wishboardapp/wishboard-bot/internal/logger"
	"github.com/wishboardapp/wishboard-bot/internal/service"
)

// NewContainer creates and configures the DI container with all providers.
func NewContainer() *do.RootScope {
	injector := do.New()

	// Core infrastructure
	do.Provide(injector, providers.ProvideConfig)
	do.Provide(injector, providers.ProvideLogger)

	// Catalog layer
	do.Provide(injector, providers.ProvideCatalogClient)
	do.Provide(injector, providers.ProvideCatalogCache)
	do.Provide(injector, providers.ProvideResolver)

	// Wishlist state
	do.Provide(injector, providers.ProvideStore)
	do.Provide(injector, providers.ProvideStoreWatcher)

	// Gateway layer
	do.Provide(injector, providers.ProvideSession)
	do.Provide(injector, providers.ProvideGateway)

	// Business services
	do.Provide(injector, providers.ProvideSubmissionService)
	do.Provide(injector, providers.ProvideCompletionService)

	// Frontends
	do.Provide(injector, providers.ProvideBot)
	do.Provide(injector, providers.ProvideStatusServer)

	return injector
}

// Bootstrap initializes all services and returns once the bot is connected.
// This triggers lazy initialization of the whole dependency graph.
func Bootstrap(injector *do.RootScope) error {
	_ = do.MustInvoke[*config.Config](injector)
	_ = do.MustInvoke[*logger.Logger](injector)
	_ = do.MustInvoke[*catalog.Resolver](injector)
	_ = do.MustInvoke[*providers.StoreHandle](injector)
	_ = do.MustInvoke[*providers.StoreWatcherHandle](injector)
	_ = do.MustInvoke[*service.SubmissionService](injector)
	_ = do.MustInvoke[*service.CompletionService](injector)

	if _, err := do.Invoke[*providers.BotHandle](injector); err != nil {
		return err
	}
	if _, err := do.Invoke[*providers.StatusServerHandle](injector); err != nil {
		return err
	}

	return nil
}
