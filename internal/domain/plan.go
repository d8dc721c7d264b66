package domain

import "time"

// PlannedRecipe is one recipe inside an allocation plan together with its
// cached evaluation.
type PlannedRecipe struct {
	Recipe Recipe
	Result RecipeResult
}

// AllocationPlan is the result of partitioning an inventory into recipes.
// Recipes are ordered by descending EV. The plan is handed to callers as an
// immutable value; the optimizer owns it only during the search.
type AllocationPlan struct {
	ID        string
	Recipes   []PlannedRecipe
	TotalEV   float64
	TotalCost float64
	Swaps     int // accepted swap count during local search
	CreatedAt time.Time
}

// TotalROI returns the aggregate return on investment across all recipes,
// or 0 when the plan has no resolvable cost.
func (p AllocationPlan) TotalROI() float64 {
	if p.TotalCost <= 0 {
		return 0
	}
	return (p.TotalEV - p.TotalCost) / p.TotalCost
}
