package engine

import (
	"sort"

	"github.com/skincraft/tradeupbot/internal/domain"
)

// perItemMass is the probability mass each of the ten inputs contributes.
// Mass is allocated per input item, not per input collection: an output
// reachable via two items of the same collection receives double the weight
// of one reachable via a single item. Each material rolls independently.
const perItemMass = 1.0 / domain.RecipeSize

// Outcomes computes the full discrete probability distribution over possible
// output entries for the given inputs. It validates the recipe invariants
// first and performs no partial computation on failure. A structurally valid
// recipe whose collections reach no next-tier entries yields a
// *domain.NoOutcomesError.
func Outcomes(items []domain.TradeItem, catalog domain.Catalog) (domain.OutcomeDistribution, error) {
	recipe, err := domain.NewRecipe(items, catalog)
	if err != nil {
		return nil, err
	}
	return outcomesFor(recipe, catalog)
}

// outcomesFor assumes recipe invariants already hold.
func outcomesFor(recipe domain.Recipe, catalog domain.Catalog) (domain.OutcomeDistribution, error) {
	avgDeform, err := AvgDeformation(recipe.Items, catalog)
	if err != nil {
		return nil, err
	}

	mass := make(map[string]float64)
	entries := make(map[string]domain.CatalogEntry)
	var sourceCollections []string
	seenCollection := make(map[string]bool)

	for _, it := range recipe.Items {
		entry, err := catalog.ByID(it.EntryID)
		if err != nil {
			return nil, &domain.ValidationError{Constraint: domain.ConstraintUnknownEntry, EntryID: it.EntryID}
		}

		// Reachable outputs: next-tier entries across every collection the
		// input belongs to. An output listed in more than one of the item's
		// collections counts once, so each reachable entry gets an equal
		// slice of the item's mass.
		var reachable []domain.CatalogEntry
		seenOutput := make(map[string]bool)
		for _, coll := range entry.Collections {
			if !seenCollection[coll] {
				seenCollection[coll] = true
				sourceCollections = append(sourceCollections, coll)
			}
			for _, out := range catalog.ByTierAndCollection(coll, recipe.Tier+1) {
				if seenOutput[out.ID] {
					continue
				}
				seenOutput[out.ID] = true
				reachable = append(reachable, out)
			}
		}
		// A collection with no next-tier entries contributes nothing; the
		// item is simply dead weight, not an error.
		if len(reachable) == 0 {
			continue
		}

		share := perItemMass / float64(len(reachable))
		for _, out := range reachable {
			mass[out.ID] += share
			entries[out.ID] = out
		}
	}

	if len(mass) == 0 {
		return nil, &domain.NoOutcomesError{Tier: recipe.Tier, Collections: sourceCollections}
	}

	dist := make(domain.OutcomeDistribution, 0, len(mass))
	for id, p := range mass {
		out := entries[id]
		dist = append(dist, domain.Outcome{
			Entry:       out,
			Probability: p,
			Float:       OutputFloat(avgDeform, out.MinFloat, out.MaxFloat),
		})
	}
	// Deterministic order: highest probability first, id as tiebreak.
	sort.Slice(dist, func(i, j int) bool {
		if dist[i].Probability != dist[j].Probability {
			return dist[i].Probability > dist[j].Probability
		}
		return dist[i].Entry.ID < dist[j].Entry.ID
	})
	return dist, nil
}
