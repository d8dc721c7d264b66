package pricing

import (
	"context"

	"github.com/skincraft/tradeupbot/internal/domain"
)

// premiumCap bounds any interpolated price below the next-better tier's
// price: an item can approach but never match a listing one tier up.
const premiumCap = 0.95

// flatPremiumFactor scales the fallback premium applied when no better-tier
// listing is resolvable.
const flatPremiumFactor = 0.05

// anchorRatios give the per-tier blend weight toward the next-better tier's
// price. They mirror observed market premiums: the jump out of Well-Worn is
// steep, the one out of Minimal Wear modest. These constants are part of the
// pricing contract and are asserted by tests.
var anchorRatios = map[domain.Wear]float64{
	domain.WearFactoryNew:    0.00, // no better tier exists
	domain.WearMinimalWear:   0.35,
	domain.WearFieldTested:   0.30,
	domain.WearWellWorn:      0.55,
	domain.WearBattleScarred: 0.40,
}

// Base resolves the neutral expected sale price for the entry at the given
// condition value. It implements the base half of engine.PriceSource.
func (r *Resolver) Base(ctx context.Context, entry domain.CatalogEntry, float float64, statTrak bool) (float64, error) {
	return r.Resolve(ctx, entry, float, statTrak)
}

// WithPremium resolves the price a buyer actually pays: the base tier price
// blended toward the next-better tier proportionally to the item's position
// within its own tier. Items near a tier boundary trade at a premium because
// they present like the better tier.
func (r *Resolver) WithPremium(ctx context.Context, entry domain.CatalogEntry, float float64, statTrak bool) (float64, error) {
	wear := domain.WearFromFloat(float)
	base, err := r.resolveAtWear(ctx, entry, wear, statTrak)
	if err != nil {
		return 0, err
	}
	if base == 0 {
		return 0, nil
	}

	t := positionInTier(float, wear)

	better := wear.Better()
	if better != wear {
		betterPrice, err := r.resolveAtWear(ctx, entry, better, statTrak)
		if err != nil {
			return 0, err
		}
		if betterPrice > base {
			blended := base + (betterPrice-base)*t*anchorRatios[wear]
			if cap := betterPrice * premiumCap; blended > cap {
				blended = cap
			}
			return blended, nil
		}
	}

	// No better-tier listing: a small flat premium scaled by position.
	return base * (1 + flatPremiumFactor*t), nil
}

// positionInTier returns how close the condition value sits to its tier's
// better edge: 0 at the worst boundary, approaching 1 at the best.
func positionInTier(float float64, wear domain.Wear) float64 {
	lo, hi := wear.Bounds()
	if hi <= lo {
		return 0
	}
	t := (hi - float) / (hi - lo)
	if t < 0 {
		return 0
	}
	if t > 1 {
		return 1
	}
	return t
}
