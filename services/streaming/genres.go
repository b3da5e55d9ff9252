package streaming

import (
	"context"
	"fmt"
	"log"
	"strings"
	"sync"
)

// genreSource fetches the provider's genre catalog. Satisfied by *Client.
type genreSource interface {
	FetchGenres(ctx context.Context) ([]Genre, error)
}

// GenreCache maps lowercase genre names to provider genre ids. It is
// populated by Refresh and read on every discover request. Refresh builds a
// complete replacement map and swaps it in under the lock, so readers see
// either the old generation or the new one, never a mix.
type GenreCache struct {
	source genreSource

	mu     sync.RWMutex
	byName map[string]string
}

// NewGenreCache creates an empty cache. Lookups before the first successful
// Refresh resolve nothing.
func NewGenreCache(source genreSource) *GenreCache {
	return &GenreCache{
		source: source,
		byName: map[string]string{},
	}
}

// Refresh fetches the full genre list and replaces the cache contents.
// On failure the previous contents stay intact.
func (c *GenreCache) Refresh(ctx context.Context) error {
	genres, err := c.source.FetchGenres(ctx)
	if err != nil {
		return fmt.Errorf("refresh genre cache: %w", err)
	}

	next := make(map[string]string, len(genres))
	for _, g := range genres {
		next[strings.ToLower(g.Name)] = g.ID
	}

	c.mu.Lock()
	c.byName = next
	c.mu.Unlock()

	log.Printf("[genres] cached %d genres", len(next))
	return nil
}

// Lookup resolves a genre name to its provider id, case-insensitively.
func (c *GenreCache) Lookup(name string) (string, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	id, ok := c.byName[strings.ToLower(name)]
	return id, ok
}

// ResolveAll maps genre names to ids, preserving order and silently dropping
// names the cache does not know.
func (c *GenreCache) ResolveAll(names []string) []string {
	c.mu.RLock()
	snapshot := c.byName
	c.mu.RUnlock()

	ids := make([]string, 0, len(names))
	for _, name := range names {
		if id, ok := snapshot[strings.ToLower(name)]; ok {
			ids = append(ids, id)
		}
	}
	return ids
}

// Size returns the number of cached genres. Zero means the startup refresh
// has not succeeded yet.
func (c *GenreCache) Size() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.byName)
}
