package engine

import (
	"context"
	"fmt"

	"github.com/skincraft/tradeupbot/internal/catalog"
	"github.com/skincraft/tradeupbot/internal/domain"
)

// newTestCatalog builds a small three-tier catalog spanning two productive
// collections plus one dead-end collection with no entries above tier 0.
func newTestCatalog() *catalog.Index {
	return catalog.NewIndex([]domain.CatalogEntry{
		{ID: "b0a", Name: "Glock-18 | Sand Dune", Tier: 0, MinFloat: 0.06, MaxFloat: 0.80, Collections: []string{"The Breakout Collection"}},
		{ID: "b0b", Name: "MP7 | Army Recon", Tier: 0, MinFloat: 0.00, MaxFloat: 1.00, Collections: []string{"The Breakout Collection"}},
		{ID: "b1a", Name: "Desert Eagle | Night", Tier: 1, MinFloat: 0.00, MaxFloat: 0.50, Collections: []string{"The Breakout Collection"}},
		{ID: "b1b", Name: "P90 | Teardown", Tier: 1, MinFloat: 0.06, MaxFloat: 0.80, Collections: []string{"The Breakout Collection"}},
		{ID: "b2a", Name: "AWP | Asiimov", Tier: 2, MinFloat: 0.18, MaxFloat: 1.00, Collections: []string{"The Breakout Collection"}},
		{ID: "m0a", Name: "Nova | Predator", Tier: 0, MinFloat: 0.00, MaxFloat: 1.00, Collections: []string{"The Mirage Collection"}},
		{ID: "m1a", Name: "AK-47 | Redline", Tier: 1, MinFloat: 0.10, MaxFloat: 0.40, Collections: []string{"The Mirage Collection"}},
		{ID: "d0a", Name: "P250 | Sand Dune", Tier: 0, MinFloat: 0.00, MaxFloat: 1.00, Collections: []string{"The Dust Collection"}},
	})
}

// makeItems builds n items of one entry at a fixed condition value.
func makeItems(entryID string, float float64, n int) []domain.TradeItem {
	items := make([]domain.TradeItem, n)
	for i := range items {
		items[i] = domain.TradeItem{
			ID:      fmt.Sprintf("%s-%d", entryID, i),
			EntryID: entryID,
			Float:   float,
		}
	}
	return items
}

// mapPriceSource serves fixed prices keyed by entry id. A missing key is a
// missing listing and resolves to 0.
type mapPriceSource struct {
	base    map[string]float64
	premium map[string]float64
	err     error
}

func (m *mapPriceSource) Base(_ context.Context, entry domain.CatalogEntry, _ float64, _ bool) (float64, error) {
	if m.err != nil {
		return 0, m.err
	}
	return m.base[entry.ID], nil
}

func (m *mapPriceSource) WithPremium(_ context.Context, entry domain.CatalogEntry, _ float64, _ bool) (float64, error) {
	if m.err != nil {
		return 0, m.err
	}
	if p, ok := m.premium[entry.ID]; ok {
		return p, nil
	}
	return m.base[entry.ID], nil
}

func closeTo(a, b, tol float64) bool {
	d := a - b
	if d < 0 {
		d = -d
	}
	return d <= tol
}
