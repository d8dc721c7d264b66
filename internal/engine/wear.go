// Package engine implements the trade-up core: the wear transform, the
// outcome probability model, the recipe simulator, and the allocation
// optimizer. Everything in this package is pure computation over values
// passed in; catalog and price sources are read-only collaborators.
package engine

import (
	"math"

	"github.com/skincraft/tradeupbot/internal/domain"
)

// round9 rounds to 9 decimal digits. The price feed keys listings on
// condition-tier boundaries at this granularity, so the rounding policy must
// match exactly or boundary lookups mismatch.
func round9(f float64) float64 {
	return math.Round(f*1e9) / 1e9
}

// OutputFloat maps the recipe's aggregate deformation factor onto an output
// entry's allowed condition range. Total function, no side effects.
func OutputFloat(avgDeform, outMin, outMax float64) float64 {
	return round9(avgDeform*(outMax-outMin) + outMin)
}

// AvgDeformation computes the mean normalized deformation of the inputs:
// each item's position within its own entry's float range, clamped to [0,1].
// Items whose entry has a zero-width range contribute 0.
func AvgDeformation(items []domain.TradeItem, catalog domain.Catalog) (float64, error) {
	if len(items) == 0 {
		return 0, nil
	}
	var sum float64
	for _, it := range items {
		entry, err := catalog.ByID(it.EntryID)
		if err != nil {
			return 0, &domain.ValidationError{Constraint: domain.ConstraintUnknownEntry, EntryID: it.EntryID}
		}
		width := entry.FloatRange()
		if width <= 0 {
			continue
		}
		d := (it.Float - entry.MinFloat) / width
		if d < 0 {
			d = 0
		} else if d > 1 {
			d = 1
		}
		sum += d
	}
	return sum / float64(len(items)), nil
}
