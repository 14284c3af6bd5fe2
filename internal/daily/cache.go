package daily

import (
	"context"
	"fmt"
	"sync"

	"github.com/debiasdaily/debias/internal/catalog"
)

// Cache remembers which bias was chosen for a date key.
type Cache interface {
	// Get returns the cached bias id for dateKey, or ok=false if none.
	Get(ctx context.Context, dateKey string) (biasID string, ok bool, err error)

	// Put stores the bias id chosen for dateKey.
	Put(ctx context.Context, dateKey, biasID string) error
}

// GetOrCompute returns the cached bias for dateKey when it still exists in
// biases; otherwise it calls compute and caches the result.
func GetOrCompute(ctx context.Context, cache Cache, biases []catalog.Bias, dateKey string, compute func() (catalog.Bias, error)) (catalog.Bias, error) {
	id, ok, err := cache.Get(ctx, dateKey)
	if err != nil {
		return catalog.Bias{}, fmt.Errorf("read daily cache: %w", err)
	}
	if ok {
		if b, found := catalog.Find(biases, id); found {
			return b, nil
		}
	}

	b, err := compute()
	if err != nil {
		return catalog.Bias{}, err
	}
	if err := cache.Put(ctx, dateKey, b.ID); err != nil {
		return b, fmt.Errorf("write daily cache: %w", err)
	}
	return b, nil
}

// MemoryCache is an in-process Cache.
type MemoryCache struct {
	mu      sync.Mutex
	entries map[string]string
}

// NewMemoryCache creates an empty MemoryCache.
func NewMemoryCache() *MemoryCache {
	return &MemoryCache{entries: make(map[string]string)}
}

func (c *MemoryCache) Get(_ context.Context, dateKey string) (string, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	id, ok := c.entries[dateKey]
	return id, ok, nil
}

func (c *MemoryCache) Put(_ context.Context, dateKey, biasID string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[dateKey] = biasID
	return nil
}
