package domain

// RecipeSize is the fixed number of input items a trade-up consumes.
const RecipeSize = 10

// Recipe is a fixed set of ten trade items destined for one trade-up. All
// inputs must share the same quality tier and StatTrak flag, and that tier
// must lie below the catalog's top tier. Recipes hold no external resources
// and live only for the duration of one simulation or allocation call.
type Recipe struct {
	Items    []TradeItem
	Tier     int
	StatTrak bool
}

// NewRecipe builds a Recipe from items, deriving tier and StatTrak flag from
// the catalog. It returns a *ValidationError if the inputs violate any recipe
// invariant; a violated recipe is rejected, never coerced.
func NewRecipe(items []TradeItem, catalog Catalog) (Recipe, error) {
	if len(items) != RecipeSize {
		return Recipe{}, &ValidationError{
			Constraint: ConstraintInputCount,
			Detail:     map[string]int{"required": RecipeSize, "actual": len(items)},
		}
	}

	first, err := catalog.ByID(items[0].EntryID)
	if err != nil {
		return Recipe{}, &ValidationError{Constraint: ConstraintUnknownEntry, EntryID: items[0].EntryID}
	}
	tier := first.Tier
	statTrak := items[0].StatTrak

	for _, it := range items[1:] {
		entry, err := catalog.ByID(it.EntryID)
		if err != nil {
			return Recipe{}, &ValidationError{Constraint: ConstraintUnknownEntry, EntryID: it.EntryID}
		}
		if entry.Tier != tier {
			return Recipe{}, &ValidationError{
				Constraint: ConstraintMixedTier,
				Detail:     map[string]int{"tier": tier, "other": entry.Tier},
			}
		}
		if it.StatTrak != statTrak {
			return Recipe{}, &ValidationError{Constraint: ConstraintMixedStatTrak}
		}
	}

	if tier >= catalog.MaxTier() {
		return Recipe{}, &ValidationError{
			Constraint: ConstraintCeilingTier,
			Detail:     map[string]int{"tier": tier, "max_tier": catalog.MaxTier()},
		}
	}

	return Recipe{Items: items, Tier: tier, StatTrak: statTrak}, nil
}
