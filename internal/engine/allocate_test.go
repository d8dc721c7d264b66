package engine

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"math/rand"
	"sort"
	"testing"

	"github.com/skincraft/tradeupbot/internal/domain"
)

// wearStepPriceSource prices outputs on the wear band of their condition
// value, so shuffling inputs between recipes genuinely moves expected value.
type wearStepPriceSource struct{}

func (wearStepPriceSource) Base(_ context.Context, _ domain.CatalogEntry, float float64, _ bool) (float64, error) {
	switch domain.WearFromFloat(float) {
	case domain.WearFactoryNew:
		return 100, nil
	case domain.WearMinimalWear:
		return 60, nil
	case domain.WearFieldTested:
		return 25, nil
	default:
		return 10, nil
	}
}

func (wearStepPriceSource) WithPremium(_ context.Context, _ domain.CatalogEntry, _ float64, _ bool) (float64, error) {
	return 1, nil
}

func testPools() (primary, filler []domain.TradeItem) {
	// Primaries come from one Breakout entry, fillers interleave both tier-0
	// collections across the full condition scale.
	floats := []float64{0.07, 0.11, 0.19, 0.26, 0.33, 0.41, 0.55, 0.68}
	for i, f := range floats {
		primary = append(primary, domain.TradeItem{ID: itemID("p", i), EntryID: "b0a", Float: f})
	}
	fillerFloats := []float64{
		0.02, 0.05, 0.09, 0.13, 0.17, 0.22, 0.28, 0.35,
		0.42, 0.48, 0.54, 0.61, 0.70, 0.78, 0.85, 0.93,
	}
	for i, f := range fillerFloats {
		entry := "b0b"
		if i%2 == 1 {
			entry = "m0a"
		}
		filler = append(filler, domain.TradeItem{ID: itemID("f", i), EntryID: entry, Float: f})
	}
	return primary, filler
}

func itemID(prefix string, i int) string {
	return prefix + string(rune('a'+i))
}

func newTestAllocator(seed int64) *Allocator {
	sim := NewSimulator(newTestCatalog(), wearStepPriceSource{})
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewAllocator(sim, rand.New(rand.NewSource(seed)), logger)
}

func TestAllocateInsufficientPools(t *testing.T) {
	alloc := newTestAllocator(1)
	primary, filler := testPools()

	t.Run("primary short", func(t *testing.T) {
		_, err := alloc.Allocate(context.Background(), primary[:3], filler, 2, 3)
		var ie *domain.InsufficientInventoryError
		if !errors.As(err, &ie) {
			t.Fatalf("err = %v, want *InsufficientInventoryError", err)
		}
		if ie.Pool != "primary" || ie.Required != 6 || ie.Actual != 3 {
			t.Fatalf("got %+v, want primary pool 6 required 3 actual", ie)
		}
	})

	t.Run("filler short", func(t *testing.T) {
		_, err := alloc.Allocate(context.Background(), primary, filler[:10], 2, 3)
		var ie *domain.InsufficientInventoryError
		if !errors.As(err, &ie) {
			t.Fatalf("err = %v, want *InsufficientInventoryError", err)
		}
		if ie.Pool != "filler" || ie.Required != 14 || ie.Actual != 10 {
			t.Fatalf("got %+v, want filler pool 14 required 10 actual", ie)
		}
	})
}

func TestAllocatePlanShape(t *testing.T) {
	alloc := newTestAllocator(7)
	primary, filler := testPools()

	plan, err := alloc.Allocate(context.Background(), primary, filler, 2, 3)
	if err != nil {
		t.Fatalf("Allocate: %v", err)
	}
	if plan.ID == "" {
		t.Fatal("plan has no id")
	}
	if plan.CreatedAt.IsZero() {
		t.Fatal("plan has no timestamp")
	}
	if len(plan.Recipes) != 2 {
		t.Fatalf("got %d recipes, want 2", len(plan.Recipes))
	}

	var ev, cost float64
	seen := make(map[string]bool)
	for i, pr := range plan.Recipes {
		if len(pr.Recipe.Items) != domain.RecipeSize {
			t.Fatalf("recipe %d has %d items", i, len(pr.Recipe.Items))
		}
		for _, it := range pr.Recipe.Items {
			if seen[it.ID] {
				t.Fatalf("item %s appears in more than one recipe", it.ID)
			}
			seen[it.ID] = true
		}
		ev += pr.Result.EV
		cost += pr.Result.Cost
	}
	if !closeTo(plan.TotalEV, ev, 1e-9) || !closeTo(plan.TotalCost, cost, 1e-9) {
		t.Fatalf("plan totals %v/%v do not match recipe sums %v/%v",
			plan.TotalEV, plan.TotalCost, ev, cost)
	}
	if !sort.SliceIsSorted(plan.Recipes, func(i, j int) bool {
		return plan.Recipes[i].Result.EV > plan.Recipes[j].Result.EV
	}) {
		t.Fatal("recipes not ordered by descending EV")
	}
}

func TestAllocateImprovesOnSeedPartition(t *testing.T) {
	primary, filler := testPools()
	alloc := newTestAllocator(42)

	// Reproduce the seed partition by hand: pools sorted by float ascending,
	// dealt as contiguous chunks, and summed without any search.
	sim := NewSimulator(newTestCatalog(), wearStepPriceSource{})
	sortedPrimary := append([]domain.TradeItem(nil), primary...)
	sortedFiller := append([]domain.TradeItem(nil), filler...)
	sort.Slice(sortedPrimary, func(i, j int) bool { return sortedPrimary[i].Float < sortedPrimary[j].Float })
	sort.Slice(sortedFiller, func(i, j int) bool { return sortedFiller[i].Float < sortedFiller[j].Float })

	var seedEV float64
	for i := 0; i < 2; i++ {
		items := append([]domain.TradeItem(nil), sortedPrimary[i*3:(i+1)*3]...)
		items = append(items, sortedFiller[i*7:(i+1)*7]...)
		res, err := sim.Evaluate(context.Background(), items)
		if err != nil {
			t.Fatalf("Evaluate seed recipe %d: %v", i, err)
		}
		seedEV += res.EV
	}

	plan, err := alloc.Allocate(context.Background(), primary, filler, 2, 3)
	if err != nil {
		t.Fatalf("Allocate: %v", err)
	}
	if plan.TotalEV < seedEV-1e-9 {
		t.Fatalf("plan EV %v below seed partition EV %v", plan.TotalEV, seedEV)
	}
	if plan.Swaps < 0 {
		t.Fatalf("negative swap count %d", plan.Swaps)
	}
}

func TestAllocateDeterministicForSeed(t *testing.T) {
	primary, filler := testPools()

	run := func() domain.AllocationPlan {
		plan, err := newTestAllocator(99).Allocate(context.Background(), primary, filler, 2, 3)
		if err != nil {
			t.Fatalf("Allocate: %v", err)
		}
		return plan
	}
	a, b := run(), run()

	if a.Swaps != b.Swaps {
		t.Fatalf("swap counts differ: %d vs %d", a.Swaps, b.Swaps)
	}
	if !closeTo(a.TotalEV, b.TotalEV, 1e-12) {
		t.Fatalf("total EV differs: %v vs %v", a.TotalEV, b.TotalEV)
	}
	for i := range a.Recipes {
		ai, bi := a.Recipes[i].Recipe.Items, b.Recipes[i].Recipe.Items
		for j := range ai {
			if ai[j].ID != bi[j].ID {
				t.Fatalf("recipe %d slot %d differs: %s vs %s", i, j, ai[j].ID, bi[j].ID)
			}
		}
	}
}

func TestAllocateCancelledContext(t *testing.T) {
	primary, filler := testPools()
	alloc := newTestAllocator(5)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	plan, err := alloc.Allocate(ctx, primary, filler, 2, 3)
	if err != nil {
		t.Fatalf("Allocate on cancelled ctx: %v", err)
	}
	if len(plan.Recipes) != 2 {
		t.Fatalf("got %d recipes, want the seeded 2", len(plan.Recipes))
	}
	if plan.Swaps != 0 {
		t.Fatalf("swaps = %d, want 0 on immediate cancellation", plan.Swaps)
	}
}
