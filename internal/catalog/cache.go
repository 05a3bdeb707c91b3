package catalog

import (
	"encoding/json/v2"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

// Cache is a durable mapping from normalized search query to the results
// the storefront returned for it. Entries are written on first successful
// lookup and never expired or invalidated; an empty successful result is
// cached too, making a prior "not found" permanent.
type Cache struct {
	mu      sync.Mutex
	path    string
	entries map[string][]SearchResult
}

// NormalizeQuery produces the cache key for a free-text query.
func NormalizeQuery(query string) string {
	return strings.ToLower(strings.TrimSpace(query))
}

// OpenCache loads the cache file at path, creating an empty cache when the
// file does not exist yet.
func OpenCache(path string) (*Cache, error) {
	c := &Cache{
		path:    path,
		entries: make(map[string][]SearchResult),
	}

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return c, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read cache file: %w", err)
	}

	if err := json.Unmarshal(data, &c.entries); err != nil {
		return nil, fmt.Errorf("parse cache file: %w", err)
	}

	return c, nil
}

// Get returns the cached results for a normalized query.
// The second return distinguishes a cached empty result from a miss.
func (c *Cache) Get(key string) ([]SearchResult, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	results, ok := c.entries[key]
	if !ok {
		return nil, false
	}
	out := make([]SearchResult, len(results))
	copy(out, results)
	return out, true
}

// Put stores results for a normalized query and persists the whole cache.
func (c *Cache) Put(key string, results []SearchResult) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	stored := make([]SearchResult, len(results))
	copy(stored, results)
	c.entries[key] = stored

	return c.persistLocked()
}

// Len returns the number of cached queries.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// persistLocked rewrites the full cache file. Caller holds c.mu.
func (c *Cache) persistLocked() error {
	data, err := json.Marshal(c.entries, json.Deterministic(true))
	if err != nil {
		return fmt.Errorf("encode cache: %w", err)
	}

	tmp := c.path + ".tmp"
	if err := os.MkdirAll(filepath.Dir(c.path), 0o750); err != nil {
		return fmt.Errorf("create cache dir: %w", err)
	}
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return fmt.Errorf("write cache file: %w", err)
	}
	if err := os.Rename(tmp, c.path); err != nil {
		return fmt.Errorf("replace cache file: %w", err)
	}

	return nil
}
