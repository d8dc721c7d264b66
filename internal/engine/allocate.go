package engine

import (
	"context"
	"log/slog"
	"math/rand"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/skincraft/tradeupbot/internal/domain"
)

const (
	// defaultMaxSwaps bounds the number of attempted swaps per search.
	defaultMaxSwaps = 500
	// swapEpsilon is the minimum summed-EV improvement (in currency units)
	// for a swap to be accepted. Equal or worse states are never accepted.
	swapEpsilon = 0.01
	// passSize groups swap attempts into passes; cancellation is checked
	// and stagnation detected at pass boundaries.
	passSize = 50
)

// Allocator partitions a primary and a filler pool into fixed-size recipes
// and improves the partition by randomized pairwise hill-climbing on filler
// slots. Full combinatorial optimization over partitions is intractable at
// meaningful pool sizes; a bounded random search yields a near-optimal plan
// in predictable time.
type Allocator struct {
	sim      *Simulator
	rng      *rand.Rand
	maxSwaps int
	logger   *slog.Logger
}

// NewAllocator creates an Allocator. The rng is injected so tests can
// reproduce exact swap sequences; pass a time-seeded source in production.
func NewAllocator(sim *Simulator, rng *rand.Rand, logger *slog.Logger) *Allocator {
	return &Allocator{
		sim:      sim,
		rng:      rng,
		maxSwaps: defaultMaxSwaps,
		logger:   logger.With(slog.String("component", "allocator")),
	}
}

// candidate is one recipe under search together with its cached evaluation.
// Items are laid out primaries first, fillers after, so filler slots are the
// indexes in [primaries, RecipeSize).
type candidate struct {
	items     []domain.TradeItem
	primaries int
	result    domain.RecipeResult
}

// Allocate builds recipeCount recipes of primariesPerRecipe primary items
// plus fillers, seeded by ascending condition value and refined by local
// search. Recipes are returned ranked by descending EV. Cancelling ctx is
// not an error: the search stops at the next pass boundary and returns the
// best plan found so far.
func (a *Allocator) Allocate(ctx context.Context, primary, filler []domain.TradeItem, recipeCount, primariesPerRecipe int) (domain.AllocationPlan, error) {
	needPrimary := recipeCount * primariesPerRecipe
	needFiller := recipeCount * (domain.RecipeSize - primariesPerRecipe)
	if len(primary) < needPrimary {
		return domain.AllocationPlan{}, &domain.InsufficientInventoryError{
			Pool: "primary", Required: needPrimary, Actual: len(primary),
		}
	}
	if len(filler) < needFiller {
		return domain.AllocationPlan{}, &domain.InsufficientInventoryError{
			Pool: "filler", Required: needFiller, Actual: len(filler),
		}
	}

	cands, err := a.seed(ctx, primary, filler, recipeCount, primariesPerRecipe)
	if err != nil {
		return domain.AllocationPlan{}, err
	}

	accepted := a.climb(ctx, cands)

	sort.Slice(cands, func(i, j int) bool { return cands[i].result.EV > cands[j].result.EV })

	plan := domain.AllocationPlan{
		ID:        uuid.NewString(),
		Recipes:   make([]domain.PlannedRecipe, 0, len(cands)),
		Swaps:     accepted,
		CreatedAt: time.Now().UTC(),
	}
	for _, c := range cands {
		recipe, err := domain.NewRecipe(c.items, a.sim.catalog)
		if err != nil {
			return domain.AllocationPlan{}, err
		}
		plan.Recipes = append(plan.Recipes, domain.PlannedRecipe{Recipe: recipe, Result: c.result})
		plan.TotalEV += c.result.EV
		plan.TotalCost += c.result.Cost
	}
	return plan, nil
}

// seed builds the initial partition: both pools sorted by condition value
// ascending, required prefixes taken, and dealt as contiguous chunks into
// recipeCount recipes.
func (a *Allocator) seed(ctx context.Context, primary, filler []domain.TradeItem, recipeCount, primariesPerRecipe int) ([]*candidate, error) {
	byFloat := func(pool []domain.TradeItem) []domain.TradeItem {
		sorted := append([]domain.TradeItem(nil), pool...)
		sort.Slice(sorted, func(i, j int) bool { return sorted[i].Float < sorted[j].Float })
		return sorted
	}
	primary = byFloat(primary)
	filler = byFloat(filler)

	fillersPerRecipe := domain.RecipeSize - primariesPerRecipe
	cands := make([]*candidate, recipeCount)
	for i := 0; i < recipeCount; i++ {
		items := make([]domain.TradeItem, 0, domain.RecipeSize)
		items = append(items, primary[i*primariesPerRecipe:(i+1)*primariesPerRecipe]...)
		items = append(items, filler[i*fillersPerRecipe:(i+1)*fillersPerRecipe]...)

		result, err := a.sim.Evaluate(ctx, items)
		if err != nil {
			return nil, err
		}
		cands[i] = &candidate{items: items, primaries: primariesPerRecipe, result: result}
	}
	return cands, nil
}

// climb runs the bounded hill-climbing search, mutating cands in place, and
// returns the number of accepted swaps. Only filler slots are exchanged;
// primary slots never move between recipes.
func (a *Allocator) climb(ctx context.Context, cands []*candidate) int {
	if len(cands) < 2 {
		return 0
	}
	fillerSlots := domain.RecipeSize - cands[0].primaries
	if fillerSlots == 0 {
		return 0
	}

	accepted := 0
	attempts := 0
	for attempts < a.maxSwaps {
		if ctx.Err() != nil {
			a.logger.Info("allocation search cancelled",
				slog.Int("attempts", attempts),
				slog.Int("accepted", accepted),
			)
			return accepted
		}

		acceptedInPass := 0
		for i := 0; i < passSize && attempts < a.maxSwaps; i++ {
			attempts++
			if a.trySwap(ctx, cands) {
				accepted++
				acceptedInPass++
			}
		}
		// A full pass without a single improvement means the neighborhood
		// is exhausted for this seed.
		if acceptedInPass == 0 {
			break
		}
	}

	a.logger.Debug("allocation search finished",
		slog.Int("attempts", attempts),
		slog.Int("accepted", accepted),
	)
	return accepted
}

// trySwap exchanges one random filler slot between two random distinct
// recipes and keeps the swap only if the pair's summed EV strictly improves
// by more than swapEpsilon.
func (a *Allocator) trySwap(ctx context.Context, cands []*candidate) bool {
	ri := a.rng.Intn(len(cands))
	rj := a.rng.Intn(len(cands) - 1)
	if rj >= ri {
		rj++
	}
	ci, cj := cands[ri], cands[rj]

	si := ci.primaries + a.rng.Intn(len(ci.items)-ci.primaries)
	sj := cj.primaries + a.rng.Intn(len(cj.items)-cj.primaries)

	ci.items[si], cj.items[sj] = cj.items[sj], ci.items[si]

	resI, errI := a.sim.Evaluate(ctx, ci.items)
	resJ, errJ := a.sim.Evaluate(ctx, cj.items)
	if errI != nil || errJ != nil {
		ci.items[si], cj.items[sj] = cj.items[sj], ci.items[si]
		return false
	}

	before := ci.result.EV + cj.result.EV
	after := resI.EV + resJ.EV
	if after-before <= swapEpsilon {
		ci.items[si], cj.items[sj] = cj.items[sj], ci.items[si]
		return false
	}

	ci.result, cj.result = resI, resJ
	return true
}
