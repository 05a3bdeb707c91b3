package catalog

import (
	"context"
	"log/slog"
)

// Searcher is the storefront surface the resolver composes over.
type Searcher interface {
	Search(ctx context.Context, term string) ([]SearchResult, error)
	FetchDetails(ctx context.Context, appID int) (*Detail, error)
}

// Resolver answers searches from the durable cache before going to the
// storefront. Only successful lookups populate the cache; a transport
// failure returns no candidates and leaves the cache untouched so the
// query is retried on the next submission.
type Resolver struct {
	client Searcher
	cache  *Cache
	logger *slog.Logger
}

// NewResolver creates a resolver over a storefront client and cache.
func NewResolver(client Searcher, cache *Cache, logger *slog.Logger) *Resolver {
	return &Resolver{
		client: client,
		cache:  cache,
		logger: logger,
	}
}

// Search resolves a free-text query to candidate titles.
// Cache hits are returned verbatim, including cached empty results.
func (r *Resolver) Search(ctx context.Context, query string) ([]SearchResult, error) {
	key := NormalizeQuery(query)

	if results, ok := r.cache.Get(key); ok {
		r.logger.Debug("catalog cache hit",
			"query", key,
			"count", len(results),
		)
		return results, nil
	}

	results, err := r.client.Search(ctx, key)
	if err != nil {
		r.logger.Warn("catalog search failed",
			"query", key,
			"error", err,
		)
		return nil, err
	}

	if err := r.cache.Put(key, results); err != nil {
		// The lookup itself succeeded; a persist failure only costs a
		// repeat external call next time.
		r.logger.Warn("catalog cache persist failed",
			"query", key,
			"error", err,
		)
	}

	return results, nil
}

// FetchDetails retrieves the canonical record for one app, uncached.
func (r *Resolver) FetchDetails(ctx context.Context, appID int) (*Detail, error) {
	return r.client.FetchDetails(ctx, appID)
}
