package engine

import (
	"errors"
	"testing"

	"github.com/skincraft/tradeupbot/internal/catalog"
	"github.com/skincraft/tradeupbot/internal/domain"
)

func TestOutcomesSingleCollection(t *testing.T) {
	cat := newTestCatalog()
	// Ten tier-0 Breakout items at the middle of b0a's range. Both tier-1
	// Breakout entries are reachable from every input.
	dist, err := Outcomes(makeItems("b0a", 0.43, 10), cat)
	if err != nil {
		t.Fatalf("Outcomes: %v", err)
	}
	if len(dist) != 2 {
		t.Fatalf("got %d outcomes, want 2", len(dist))
	}

	var sum float64
	for _, out := range dist {
		sum += out.Probability
		if !closeTo(out.Probability, 0.5, 1e-9) {
			t.Fatalf("outcome %s probability = %v, want 0.5", out.Entry.ID, out.Probability)
		}
	}
	if !closeTo(sum, 1.0, 1e-9) {
		t.Fatalf("probabilities sum to %v, want 1", sum)
	}

	// Equal probabilities fall back to id order.
	if dist[0].Entry.ID != "b1a" || dist[1].Entry.ID != "b1b" {
		t.Fatalf("outcome order = [%s %s], want [b1a b1b]", dist[0].Entry.ID, dist[1].Entry.ID)
	}

	// All inputs sit at deformation 0.5, so each output float is its range
	// midpoint, rounded.
	if dist[0].Float != 0.25 {
		t.Fatalf("b1a output float = %v, want 0.25", dist[0].Float)
	}
	if dist[1].Float != 0.43 {
		t.Fatalf("b1b output float = %v, want 0.43", dist[1].Float)
	}
}

func TestOutcomesPerItemMass(t *testing.T) {
	cat := newTestCatalog()
	// Nine Breakout items and one Mirage item. The Breakout outputs split
	// nine items' mass two ways; the single Mirage item funnels its full
	// tenth into the lone Mirage tier-1 entry.
	items := append(makeItems("b0b", 0.50, 9), makeItems("m0a", 0.50, 1)...)
	dist, err := Outcomes(items, cat)
	if err != nil {
		t.Fatalf("Outcomes: %v", err)
	}
	want := map[string]float64{"b1a": 0.45, "b1b": 0.45, "m1a": 0.10}
	if len(dist) != len(want) {
		t.Fatalf("got %d outcomes, want %d", len(dist), len(want))
	}
	for _, out := range dist {
		if !closeTo(out.Probability, want[out.Entry.ID], 1e-9) {
			t.Fatalf("outcome %s probability = %v, want %v", out.Entry.ID, out.Probability, want[out.Entry.ID])
		}
	}
	// Sorted by probability descending, then id.
	if dist[0].Entry.ID != "b1a" || dist[1].Entry.ID != "b1b" || dist[2].Entry.ID != "m1a" {
		t.Fatalf("outcome order = [%s %s %s], want [b1a b1b m1a]",
			dist[0].Entry.ID, dist[1].Entry.ID, dist[2].Entry.ID)
	}
}

func TestOutcomesDeadWeightItem(t *testing.T) {
	cat := newTestCatalog()
	// Tier-1 recipe: Breakout inputs reach the tier-2 AWP, the Mirage input
	// reaches nothing above tier 1 and contributes no mass.
	items := append(makeItems("b1a", 0.25, 9), makeItems("m1a", 0.20, 1)...)
	dist, err := Outcomes(items, cat)
	if err != nil {
		t.Fatalf("Outcomes: %v", err)
	}
	if len(dist) != 1 || dist[0].Entry.ID != "b2a" {
		t.Fatalf("got outcomes %+v, want single b2a", dist)
	}
	if !closeTo(dist[0].Probability, 0.9, 1e-9) {
		t.Fatalf("b2a probability = %v, want 0.9", dist[0].Probability)
	}
}

func TestOutcomesSharedOutputCountsOnce(t *testing.T) {
	// The input sits in two collections that both carry the same tier-1
	// entry, plus one entry unique to the first collection. The shared
	// output must not draw a double share of the item's mass.
	cat := catalog.NewIndex([]domain.CatalogEntry{
		{ID: "x0a", Name: "MAC-10 | Twin Stripe", Tier: 0, MinFloat: 0, MaxFloat: 1, Collections: []string{"The Alpha Collection", "The Beta Collection"}},
		{ID: "x1s", Name: "M4A4 | Shared Fate", Tier: 1, MinFloat: 0, MaxFloat: 1, Collections: []string{"The Alpha Collection", "The Beta Collection"}},
		{ID: "x1a", Name: "AUG | Alpha Only", Tier: 1, MinFloat: 0, MaxFloat: 1, Collections: []string{"The Alpha Collection"}},
	})
	dist, err := Outcomes(makeItems("x0a", 0.50, 10), cat)
	if err != nil {
		t.Fatalf("Outcomes: %v", err)
	}
	want := map[string]float64{"x1s": 0.5, "x1a": 0.5}
	if len(dist) != len(want) {
		t.Fatalf("got %d outcomes, want %d", len(dist), len(want))
	}
	for _, out := range dist {
		if !closeTo(out.Probability, want[out.Entry.ID], 1e-9) {
			t.Fatalf("outcome %s probability = %v, want %v", out.Entry.ID, out.Probability, want[out.Entry.ID])
		}
	}
}

func TestOutcomesNoneReachable(t *testing.T) {
	cat := newTestCatalog()
	// All ten inputs are the lone Mirage tier-1 entry: structurally a legal
	// recipe, but no collection reaches tier 2.
	_, err := Outcomes(makeItems("m1a", 0.20, 10), cat)
	var ne *domain.NoOutcomesError
	if !errors.As(err, &ne) {
		t.Fatalf("err = %v, want *NoOutcomesError", err)
	}
	if ne.Tier != 1 {
		t.Fatalf("NoOutcomesError.Tier = %d, want 1", ne.Tier)
	}
}

func TestOutcomesValidation(t *testing.T) {
	cat := newTestCatalog()
	mixedTier := append(makeItems("b0a", 0.40, 9), makeItems("b1a", 0.25, 1)...)
	mixedVariant := makeItems("b0b", 0.50, 10)
	mixedVariant[3].StatTrak = true

	tests := []struct {
		name  string
		items []domain.TradeItem
		want  domain.Constraint
	}{
		{"too few items", makeItems("b0a", 0.40, 9), domain.ConstraintInputCount},
		{"too many items", makeItems("b0a", 0.40, 11), domain.ConstraintInputCount},
		{"mixed tiers", mixedTier, domain.ConstraintMixedTier},
		{"mixed variant flags", mixedVariant, domain.ConstraintMixedStatTrak},
		{"top tier has no outputs", makeItems("b2a", 0.30, 10), domain.ConstraintCeilingTier},
		{"unknown entry", makeItems("ghost", 0.50, 10), domain.ConstraintUnknownEntry},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Outcomes(tt.items, cat)
			var ve *domain.ValidationError
			if !errors.As(err, &ve) {
				t.Fatalf("err = %v, want *ValidationError", err)
			}
			if ve.Constraint != tt.want {
				t.Fatalf("constraint = %s, want %s", ve.Constraint, tt.want)
			}
		})
	}
}
