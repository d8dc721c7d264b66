package service

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/skincraft/tradeupbot/internal/domain"
	"github.com/skincraft/tradeupbot/internal/inventory"
)

// InventoryService holds the imported trade items and keeps their condition
// values current as refinement results arrive. Items are treated as
// immutable values; every mutation replaces the slice.
type InventoryService struct {
	catalog domain.Catalog
	refine  domain.RefineQueue
	logger  *slog.Logger

	mu    sync.RWMutex
	items []domain.TradeItem
}

// NewInventoryService creates an InventoryService. The refine queue is
// optional; without it inspect links are ignored.
func NewInventoryService(catalog domain.Catalog, refine domain.RefineQueue, logger *slog.Logger) *InventoryService {
	return &InventoryService{
		catalog: catalog,
		refine:  refine,
		logger:  logger.With(slog.String("component", "inventory_service")),
	}
}

// ImportPayload validates and decodes a raw inventory JSON payload, matches
// its assets against the catalog, and adds the resulting items. Items
// carrying an inspect link are queued for asynchronous float refinement.
// Returns the number of imported and skipped assets.
func (s *InventoryService) ImportPayload(ctx context.Context, payload []byte) (added, skipped int, err error) {
	assets, err := inventory.DecodePayload(payload)
	if err != nil {
		return 0, 0, fmt.Errorf("inventory_service: decode payload: %w", err)
	}
	return s.importAssets(ctx, assets)
}

// ImportAssets matches already-decoded assets against the catalog and adds
// the resulting items.
func (s *InventoryService) ImportAssets(ctx context.Context, assets []inventory.RawAsset) (added, skipped int, err error) {
	return s.importAssets(ctx, assets)
}

func (s *InventoryService) importAssets(ctx context.Context, assets []inventory.RawAsset) (added, skipped int, err error) {
	items, skipped := inventory.Import(assets, s.catalog)

	s.mu.Lock()
	s.items = append(s.items, items...)
	s.mu.Unlock()

	if s.refine != nil {
		for _, it := range items {
			if it.InspectLink == "" {
				continue
			}
			req := domain.RefineRequest{ItemID: it.ID, InspectLink: it.InspectLink}
			if err := s.refine.Enqueue(ctx, req); err != nil {
				s.logger.WarnContext(ctx, "refine enqueue failed",
					slog.String("item_id", it.ID),
					slog.String("error", err.Error()),
				)
			}
		}
	}

	s.logger.InfoContext(ctx, "inventory imported",
		slog.Int("added", len(items)),
		slog.Int("skipped", skipped),
	)
	return len(items), skipped, nil
}

// Items returns a copy of the current inventory.
func (s *InventoryService) Items() []domain.TradeItem {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.TradeItem, len(s.items))
	copy(out, s.items)
	return out
}

// Split partitions the inventory into a primary pool (items of the given
// entry ids) and a filler pool (everything else).
func (s *InventoryService) Split(primaryEntryIDs []string) (primary, filler []domain.TradeItem) {
	primarySet := make(map[string]struct{}, len(primaryEntryIDs))
	for _, id := range primaryEntryIDs {
		primarySet[id] = struct{}{}
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, it := range s.items {
		if _, ok := primarySet[it.EntryID]; ok {
			primary = append(primary, it)
		} else {
			filler = append(filler, it)
		}
	}
	return primary, filler
}

// ConsumeRefinements applies completed float lookups to the inventory until
// ctx is cancelled. Results for items no longer in the inventory are dropped.
func (s *InventoryService) ConsumeRefinements(ctx context.Context) error {
	if s.refine == nil {
		<-ctx.Done()
		return ctx.Err()
	}

	results, err := s.refine.Results(ctx)
	if err != nil {
		return fmt.Errorf("inventory_service: refine results: %w", err)
	}

	for res := range results {
		s.mu.Lock()
		patched, replaced := inventory.PatchFloat(s.items, res.ItemID, res.Float)
		if replaced {
			s.items = patched
		}
		s.mu.Unlock()

		if replaced {
			s.logger.DebugContext(ctx, "item float refined",
				slog.String("item_id", res.ItemID),
				slog.Float64("float", res.Float),
			)
		} else {
			s.logger.DebugContext(ctx, "refinement for unknown item dropped",
				slog.String("item_id", res.ItemID),
			)
		}
	}
	return ctx.Err()
}
