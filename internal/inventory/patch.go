package inventory

import "github.com/skincraft/tradeupbot/internal/domain"

// PatchFloat returns a new item slice with the item identified by id carrying
// the refined condition value. The input slice is never mutated, so readers
// holding the old slice keep a consistent view; replaced reports whether the
// id was found.
func PatchFloat(items []domain.TradeItem, id string, float float64) (patched []domain.TradeItem, replaced bool) {
	patched = make([]domain.TradeItem, len(items))
	for i, it := range items {
		if it.ID == id {
			patched[i] = it.WithFloat(float)
			replaced = true
			continue
		}
		patched[i] = it
	}
	return patched, replaced
}
