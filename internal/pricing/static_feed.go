package pricing

import (
	"context"
	"sync"

	"github.com/skincraft/tradeupbot/internal/domain"
)

// StaticFeed is an in-memory listing-name -> price map. It backs one-shot
// CLI runs that load a price snapshot from disk, and tests.
type StaticFeed struct {
	mu     sync.RWMutex
	prices map[string]float64
}

// NewStaticFeed creates a StaticFeed seeded with the given prices. The map
// is copied; the caller keeps ownership of its argument.
func NewStaticFeed(prices map[string]float64) *StaticFeed {
	copied := make(map[string]float64, len(prices))
	for k, v := range prices {
		copied[k] = v
	}
	return &StaticFeed{prices: copied}
}

// Lookup implements domain.PriceFeed.
func (f *StaticFeed) Lookup(_ context.Context, listing string) (float64, bool, error) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	price, ok := f.prices[listing]
	return price, ok, nil
}

// Set stores or replaces one listing price.
func (f *StaticFeed) Set(_ context.Context, listing string, price float64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.prices[listing] = price
	return nil
}

// SetBatch stores or replaces many listing prices.
func (f *StaticFeed) SetBatch(_ context.Context, prices map[string]float64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for k, v := range prices {
		f.prices[k] = v
	}
	return nil
}

// Len returns the number of listings in the feed.
func (f *StaticFeed) Len(_ context.Context) (int64, error) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return int64(len(f.prices)), nil
}

// Compile-time interface check.
var _ domain.ListingCache = (*StaticFeed)(nil)
