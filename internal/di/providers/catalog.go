package providers

import (
	"path/filepath"

	"github.com/samber/do/v2"

	"github.com/wishboardapp/wishboard-bot/internal/catalog"
	"github.com/wishboardapp/wishboard-bot/internal/config"
	"github.com/wishboardapp/wishboard-bot/internal/logger"
)

// cacheFile is the search cache filename under the data directory.
const cacheFile = "search-cache.json"

// ProvideCatalogClient provides the storefront HTTP client.
func ProvideCatalogClient(i do.Injector) (*catalog.Client, error) {
	log := do.MustInvoke[*logger.Logger](i)
	return catalog.New(log.Logger), nil
}

// ProvideCatalogCache provides the persistent search cache.
func ProvideCatalogCache(i do.Injector) (*catalog.Cache, error) {
	cfg := do.MustInvoke[*config.Config](i)

	cache, err := catalog.OpenCache(filepath.Join(cfg.Data.Path, cacheFile))
	if err != nil {
		return nil, err
	}

	log := do.MustInvoke[*logger.Logger](i)
	log.Info("Search cache loaded", "entries", cache.Len())

	return cache, nil
}

// ProvideResolver provides the cache-backed catalog resolver.
func ProvideResolver(i do.Injector) (*catalog.Resolver, error) {
	client := do.MustInvoke[*catalog.Client](i)
	cache := do.MustInvoke[*catalog.Cache](i)
	log := do.MustInvoke[*logger.Logger](i)

	return catalog.NewResolver(client, cache, log.Logger), nil
}
