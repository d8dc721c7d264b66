package service

import (
	"context"
	"fmt"
	"time"

	gocache "github.com/patrickmn/go-cache"

	"github.com/skincraft/tradeupbot/internal/domain"
	"github.com/skincraft/tradeupbot/internal/engine"
)

// MemoPriceSource wraps a PriceSource with an in-process TTL cache. Price
// resolution walks a fallback chain of feed lookups per call; the optimizer
// re-prices the same entries hundreds of times per search, so memoizing the
// resolved result cuts feed round-trips by orders of magnitude. Resolution
// semantics are unchanged; only the result is cached.
type MemoPriceSource struct {
	src  engine.PriceSource
	memo *gocache.Cache
}

// NewMemoPriceSource wraps src with a memo cache holding entries for ttl.
func NewMemoPriceSource(src engine.PriceSource, ttl time.Duration) *MemoPriceSource {
	return &MemoPriceSource{
		src:  src,
		memo: gocache.New(ttl, 2*ttl),
	}
}

var _ engine.PriceSource = (*MemoPriceSource)(nil)

// Base resolves the neutral sale price, memoized per (entry, wear, variant).
func (m *MemoPriceSource) Base(ctx context.Context, entry domain.CatalogEntry, float float64, statTrak bool) (float64, error) {
	key := memoKey("base", entry.ID, float, statTrak)
	if v, found := m.memo.Get(key); found {
		return v.(float64), nil
	}
	price, err := m.src.Base(ctx, entry, float, statTrak)
	if err != nil {
		return 0, err
	}
	m.memo.SetDefault(key, price)
	return price, nil
}

// WithPremium resolves the premium-aware price, memoized like Base. The
// position within the wear tier shifts the premium, so the exact condition
// value is part of the key.
func (m *MemoPriceSource) WithPremium(ctx context.Context, entry domain.CatalogEntry, float float64, statTrak bool) (float64, error) {
	key := memoKey("premium", entry.ID, float, statTrak)
	if v, found := m.memo.Get(key); found {
		return v.(float64), nil
	}
	price, err := m.src.WithPremium(ctx, entry, float, statTrak)
	if err != nil {
		return 0, err
	}
	m.memo.SetDefault(key, price)
	return price, nil
}

func memoKey(kind, entryID string, float float64, statTrak bool) string {
	return fmt.Sprintf("%s|%s|%.9f|%t", kind, entryID, float, statTrak)
}
