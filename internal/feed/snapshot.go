// Package feed loads listing prices into the cache: a one-shot snapshot
// bootstrap at startup and a live websocket ticker for incremental updates.
package feed

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/skincraft/tradeupbot/internal/domain"
)

const snapshotTimeout = 30 * time.Second

// SnapshotLoader bulk-loads the full listing-name -> price map into the
// listing cache, either from an HTTP endpoint or a local file.
type SnapshotLoader struct {
	cache  domain.ListingCache
	client *http.Client
	logger *slog.Logger
}

// NewSnapshotLoader creates a loader writing into the given cache.
func NewSnapshotLoader(cache domain.ListingCache, logger *slog.Logger) *SnapshotLoader {
	return &SnapshotLoader{
		cache:  cache,
		client: &http.Client{Timeout: snapshotTimeout},
		logger: logger.With(slog.String("component", "snapshot_loader")),
	}
}

// LoadURL fetches the snapshot from an HTTP endpoint serving a JSON object of
// listing name to price, and writes it into the cache in one batch.
func (l *SnapshotLoader) LoadURL(ctx context.Context, url string) (int, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return 0, fmt.Errorf("feed: snapshot request: %w", err)
	}

	resp, err := l.client.Do(req)
	if err != nil {
		return 0, fmt.Errorf("feed: fetch snapshot: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return 0, fmt.Errorf("feed: fetch snapshot: unexpected status %d", resp.StatusCode)
	}

	var prices map[string]float64
	if err := json.NewDecoder(resp.Body).Decode(&prices); err != nil {
		return 0, fmt.Errorf("feed: decode snapshot: %w", err)
	}

	return l.store(ctx, prices, url)
}

// LoadFile reads the snapshot from a local JSON file. Used by one-shot CLI
// runs that have no feed endpoint.
func (l *SnapshotLoader) LoadFile(ctx context.Context, path string) (int, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return 0, fmt.Errorf("feed: read snapshot file: %w", err)
	}

	var prices map[string]float64
	if err := json.Unmarshal(data, &prices); err != nil {
		return 0, fmt.Errorf("feed: decode snapshot file %s: %w", path, err)
	}

	return l.store(ctx, prices, path)
}

func (l *SnapshotLoader) store(ctx context.Context, prices map[string]float64, source string) (int, error) {
	if err := l.cache.SetBatch(ctx, prices); err != nil {
		return 0, fmt.Errorf("feed: store snapshot: %w", err)
	}
	l.logger.Info("price snapshot loaded",
		slog.String("source", source),
		slog.Int("listings", len(prices)),
	)
	return len(prices), nil
}
