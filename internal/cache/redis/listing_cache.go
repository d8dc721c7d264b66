package redis

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/redis/go-redis/v9"

	"github.com/skincraft/tradeupbot/internal/domain"
)

// listingHashKey is the single hash holding every listing-name -> price
// mapping. The whole feed fits comfortably in one hash and a flat namespace
// matches the feed's own flat contract.
const listingHashKey = "listing:prices"

// ListingCache implements domain.ListingCache on a Redis hash. The bootstrap
// loader fills it from a snapshot and the websocket ticker keeps individual
// fields fresh; the engine only ever reads.
type ListingCache struct {
	rdb *redis.Client
}

// NewListingCache creates a ListingCache backed by the given Client.
func NewListingCache(c *Client) *ListingCache {
	return &ListingCache{rdb: c.Underlying()}
}

// Lookup returns the price for a rendered listing name. A missing listing is
// reported via ok=false, never as an error.
func (lc *ListingCache) Lookup(ctx context.Context, listing string) (float64, bool, error) {
	val, err := lc.rdb.HGet(ctx, listingHashKey, listing).Result()
	if errors.Is(err, redis.Nil) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, fmt.Errorf("redis: lookup listing %q: %w", listing, err)
	}
	price, err := strconv.ParseFloat(val, 64)
	if err != nil {
		return 0, false, fmt.Errorf("redis: parse listing price %q: %w", listing, err)
	}
	return price, true, nil
}

// Set stores or replaces one listing price.
func (lc *ListingCache) Set(ctx context.Context, listing string, price float64) error {
	val := strconv.FormatFloat(price, 'f', -1, 64)
	if err := lc.rdb.HSet(ctx, listingHashKey, listing, val).Err(); err != nil {
		return fmt.Errorf("redis: set listing %q: %w", listing, err)
	}
	return nil
}

// SetBatch stores many listing prices in chunks through a pipeline. Used by
// the snapshot loader, which writes tens of thousands of listings at once.
func (lc *ListingCache) SetBatch(ctx context.Context, prices map[string]float64) error {
	if len(prices) == 0 {
		return nil
	}

	const chunkSize = 5000
	pipe := lc.rdb.Pipeline()
	fields := make(map[string]interface{}, chunkSize)
	flush := func() error {
		if len(fields) == 0 {
			return nil
		}
		pipe.HSet(ctx, listingHashKey, fields)
		if _, err := pipe.Exec(ctx); err != nil {
			return fmt.Errorf("redis: set listing batch: %w", err)
		}
		fields = make(map[string]interface{}, chunkSize)
		return nil
	}

	for name, price := range prices {
		fields[name] = strconv.FormatFloat(price, 'f', -1, 64)
		if len(fields) >= chunkSize {
			if err := flush(); err != nil {
				return err
			}
		}
	}
	return flush()
}

// Len returns the number of listings currently cached.
func (lc *ListingCache) Len(ctx context.Context) (int64, error) {
	n, err := lc.rdb.HLen(ctx, listingHashKey).Result()
	if err != nil {
		return 0, fmt.Errorf("redis: listing count: %w", err)
	}
	return n, nil
}

// Compile-time interface check.
var _ domain.ListingCache = (*ListingCache)(nil)
