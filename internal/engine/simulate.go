package engine

import (
	"context"
	"fmt"

	"github.com/skincraft/tradeupbot/internal/domain"
)

// PriceSource resolves market prices for the simulator. Base is the neutral
// expected sale price; WithPremium reflects what a buyer actually pays for an
// item near a wear-tier boundary. Both return 0 for "no listing", which is a
// normal value, not an error; errors are reserved for feed transport
// failures.
type PriceSource interface {
	Base(ctx context.Context, entry domain.CatalogEntry, float float64, statTrak bool) (float64, error)
	WithPremium(ctx context.Context, entry domain.CatalogEntry, float float64, statTrak bool) (float64, error)
}

// Simulator evaluates the economics of a single fixed recipe. It is
// stateless and safe for concurrent use.
type Simulator struct {
	catalog domain.Catalog
	prices  PriceSource
}

// NewSimulator creates a Simulator over the given read-only collaborators.
func NewSimulator(catalog domain.Catalog, prices PriceSource) *Simulator {
	return &Simulator{catalog: catalog, prices: prices}
}

// Evaluate computes the outcome distribution, expected value, cost, and ROI
// for one recipe. EV uses base output prices; cost uses premium-aware input
// prices. Validation failures surface as *domain.ValidationError, catalog
// data gaps as *domain.NoOutcomesError.
func (s *Simulator) Evaluate(ctx context.Context, items []domain.TradeItem) (domain.RecipeResult, error) {
	recipe, err := domain.NewRecipe(items, s.catalog)
	if err != nil {
		return domain.RecipeResult{}, err
	}
	return s.evaluate(ctx, recipe)
}

func (s *Simulator) evaluate(ctx context.Context, recipe domain.Recipe) (domain.RecipeResult, error) {
	dist, err := outcomesFor(recipe, s.catalog)
	if err != nil {
		return domain.RecipeResult{}, err
	}

	var ev float64
	for _, out := range dist {
		price, err := s.prices.Base(ctx, out.Entry, out.Float, recipe.StatTrak)
		if err != nil {
			return domain.RecipeResult{}, fmt.Errorf("engine: price output %q: %w", out.Entry.Name, err)
		}
		ev += out.Probability * price
	}

	var cost float64
	for _, it := range recipe.Items {
		entry, err := s.catalog.ByID(it.EntryID)
		if err != nil {
			return domain.RecipeResult{}, &domain.ValidationError{Constraint: domain.ConstraintUnknownEntry, EntryID: it.EntryID}
		}
		price, err := s.prices.WithPremium(ctx, entry, it.Float, it.StatTrak)
		if err != nil {
			return domain.RecipeResult{}, fmt.Errorf("engine: price input %q: %w", entry.Name, err)
		}
		cost += price
	}

	// An unresolved (zero) cost means ROI is unknowable; report 0 rather
	// than dividing by it.
	var roi float64
	if cost > 0 {
		roi = (ev - cost) / cost
	}

	return domain.RecipeResult{EV: ev, Cost: cost, ROI: roi, Outcomes: dist}, nil
}
