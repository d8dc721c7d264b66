package domain

// Outcome is one possible trade-up result: the output entry, the probability
// of rolling it, and the condition value it would be produced at. Probability
// is accumulated per distinct output entry; an entry reachable from several
// inputs appears exactly once.
type Outcome struct {
	Entry       CatalogEntry
	Probability float64
	Float       float64
}

// OutcomeDistribution is the full discrete distribution over possible outputs
// of a single recipe. Probabilities sum to 1 for any valid recipe.
type OutcomeDistribution []Outcome

// RecipeResult carries the economic evaluation of one recipe.
type RecipeResult struct {
	EV       float64 // probability-weighted sum of output base prices
	Cost     float64 // premium-aware sum of input prices
	ROI      float64 // (EV-Cost)/Cost, 0 when Cost is 0
	Outcomes OutcomeDistribution
}
