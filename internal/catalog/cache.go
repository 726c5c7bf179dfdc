package catalog

import (
	"context"
	"strings"
	"sync"

	"github.com/asaskevich/EventBus"
	"github.com/talkincode/gopos/internal/domain"
	"go.uber.org/zap"
)

// TopicUpdated is published on the application bus after every
// successful cache replacement. The payload is the product count.
const TopicUpdated = "catalog.updated"

// shortListLimit caps the result of an empty-term search.
const shortListLimit = 8

// Fetcher is the remote product source contract.
type Fetcher interface {
	FetchAll(ctx context.Context) ([]domain.Product, error)
}

// Cache is the local mirror of the product list: a single shared
// latest-value cell. A refresh replaces the whole list; overlapping
// refreshes resolve as last-response-wins, which means a stale
// in-flight fetch that lands late overwrites newer data. That matches
// the observed frontend behavior and is deliberately not gated here.
type Cache struct {
	mu       sync.RWMutex
	products []domain.Product
	loaded   bool

	fetcher Fetcher
	bus     EventBus.Bus
}

func NewCache(fetcher Fetcher, bus EventBus.Bus) *Cache {
	return &Cache{fetcher: fetcher, bus: bus}
}

// Refresh fetches the full product list and replaces the cached one.
// On failure the stale cache stays in place and the error is returned
// to the caller.
func (c *Cache) Refresh(ctx context.Context) error {
	products, err := c.fetcher.FetchAll(ctx)
	if err != nil {
		zap.L().Warn("catalog: refresh failed, keeping stale cache", zap.Error(err))
		return err
	}
	c.Replace(products)
	return nil
}

// Replace swaps in a new product list and notifies subscribers.
func (c *Cache) Replace(products []domain.Product) {
	c.mu.Lock()
	c.products = products
	c.loaded = true
	count := len(products)
	c.mu.Unlock()

	if c.bus != nil {
		c.bus.Publish(TopicUpdated, count)
	}
	zap.L().Debug("catalog: cache replaced", zap.Int("count", count))
}

// Loaded reports whether at least one refresh has completed. An empty
// catalog and a never-loaded one are different states.
func (c *Cache) Loaded() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.loaded
}

// Snapshot returns a copy of the cached list and the loaded flag.
func (c *Cache) Snapshot() ([]domain.Product, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]domain.Product, len(c.products))
	copy(out, c.products)
	return out, c.loaded
}

// Search answers name queries against the cache. A blank term returns
// the first products in cache order, capped; a non-blank term returns
// every product whose name contains it case-insensitively, in cache
// order, uncapped. Lower-casing is the only Unicode handling applied:
// accented names match as typed, no normalization.
func (c *Cache) Search(term string) []domain.Product {
	c.mu.RLock()
	defer c.mu.RUnlock()

	term = strings.TrimSpace(term)
	if term == "" {
		n := len(c.products)
		if n > shortListLimit {
			n = shortListLimit
		}
		out := make([]domain.Product, n)
		copy(out, c.products[:n])
		return out
	}

	needle := strings.ToLower(term)
	out := make([]domain.Product, 0, 8)
	for _, p := range c.products {
		if strings.Contains(strings.ToLower(p.Name), needle) {
			out = append(out, p)
		}
	}
	return out
}

// FindByName resolves a product by exact case-insensitive name match.
// Used by the cart engine's add-item validation, not by free search.
func (c *Cache) FindByName(name string) (domain.Product, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	for _, p := range c.products {
		if strings.EqualFold(p.Name, name) {
			return p, true
		}
	}
	return domain.Product{}, false
}
