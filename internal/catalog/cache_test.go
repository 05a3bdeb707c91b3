package catalog

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeQuery(t *testing.T) {
	assert.Equal(t, "portal 2", NormalizeQuery("  Portal 2 "))
	assert.Equal(t, "deep rock galactic", NormalizeQuery("DEEP ROCK GALACTIC"))
}

func TestCache_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cache.json")

	cache, err := OpenCache(path)
	require.NoError(t, err)

	results := []SearchResult{{Name: "Portal 2", AppID: 620, URL: "https://store.steampowered.com/app/620"}}
	require.NoError(t, cache.Put("portal 2", results))

	// Reopen from disk.
	reopened, err := OpenCache(path)
	require.NoError(t, err)

	got, ok := reopened.Get("portal 2")
	require.True(t, ok)
	assert.Equal(t, results, got)
}

func TestCache_EmptyResultIsCached(t *testing.T) {
	cache, err := OpenCache(filepath.Join(t.TempDir(), "cache.json"))
	require.NoError(t, err)

	require.NoError(t, cache.Put("no such game", []SearchResult{}))

	got, ok := cache.Get("no such game")
	assert.True(t, ok, "an empty successful result must be a cache hit")
	assert.Empty(t, got)
}

func TestCache_MissingFileStartsEmpty(t *testing.T) {
	cache, err := OpenCache(filepath.Join(t.TempDir(), "never-written.json"))
	require.NoError(t, err)
	assert.Equal(t, 0, cache.Len())
}

func TestCache_GetReturnsCopy(t *testing.T) {
	cache, err := OpenCache(filepath.Join(t.TempDir(), "cache.json"))
	require.NoError(t, err)

	require.NoError(t, cache.Put("portal", []SearchResult{{Name: "Portal", AppID: 400}}))

	got, _ := cache.Get("portal")
	got[0].Name = "mutated"

	fresh, _ := cache.Get("portal")
	assert.Equal(t, "Portal", fresh[0].Name)
}

// countingSearcher fakes the storefront and counts external calls.
type countingSearcher struct {
	searchCalls int
	results     []SearchResult
	err         error
}

func (s *countingSearcher) Search(context.Context, string) ([]SearchResult, error) {
	s.searchCalls++
	if s.err != nil {
		return nil, s.err
	}
	return s.results, nil
}

func (s *countingSearcher) FetchDetails(context.Context, int) (*Detail, error) {
	return nil, ErrNotFound
}

func TestResolver_CacheHitSkipsExternalCall(t *testing.T) {
	cache, err := OpenCache(filepath.Join(t.TempDir(), "cache.json"))
	require.NoError(t, err)

	searcher := &countingSearcher{results: []SearchResult{{Name: "Portal 2", AppID: 620}}}
	resolver := NewResolver(searcher, cache, testLogger())

	first, err := resolver.Search(context.Background(), "Portal 2")
	require.NoError(t, err)
	second, err := resolver.Search(context.Background(), "  portal 2 ")
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, 1, searcher.searchCalls, "normalized repeat query must be served from cache")
}

func TestResolver_EmptySuccessIsCachedPermanently(t *testing.T) {
	cache, err := OpenCache(filepath.Join(t.TempDir(), "cache.json"))
	require.NoError(t, err)

	searcher := &countingSearcher{results: []SearchResult{}}
	resolver := NewResolver(searcher, cache, testLogger())

	results, err := resolver.Search(context.Background(), "vaporware title")
	require.NoError(t, err)
	assert.Empty(t, results)

	results, err = resolver.Search(context.Background(), "vaporware title")
	require.NoError(t, err)
	assert.Empty(t, results)
	assert.Equal(t, 1, searcher.searchCalls)
}

func TestResolver_FailureIsNeverCached(t *testing.T) {
	cache, err := OpenCache(filepath.Join(t.TempDir(), "cache.json"))
	require.NoError(t, err)

	searcher := &countingSearcher{err: errors.New("connection reset")}
	resolver := NewResolver(searcher, cache, testLogger())

	_, err = resolver.Search(context.Background(), "portal")
	assert.Error(t, err)
	assert.Equal(t, 0, cache.Len(), "failures must not populate the cache")

	// Recovers once the storefront does.
	searcher.err = nil
	searcher.results = []SearchResult{{Name: "Portal", AppID: 400}}

	results, err := resolver.Search(context.Background(), "portal")
	require.NoError(t, err)
	assert.Len(t, results, 1)
	assert.Equal(t, 2, searcher.searchCalls)
}
