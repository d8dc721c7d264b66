package engine

import (
	"context"
	"errors"
	"testing"
)

func TestSimulatorEvaluate(t *testing.T) {
	cat := newTestCatalog()
	prices := &mapPriceSource{
		base:    map[string]float64{"b1a": 10.0, "b1b": 4.0},
		premium: map[string]float64{"b0a": 0.50},
	}
	sim := NewSimulator(cat, prices)

	res, err := sim.Evaluate(context.Background(), makeItems("b0a", 0.43, 10))
	if err != nil {
		t.Fatalf("Evaluate: %v", err)
	}
	// Two equally likely outputs at 10 and 4, ten inputs at 0.50 each.
	if !closeTo(res.EV, 7.0, 1e-9) {
		t.Fatalf("EV = %v, want 7.0", res.EV)
	}
	if !closeTo(res.Cost, 5.0, 1e-9) {
		t.Fatalf("Cost = %v, want 5.0", res.Cost)
	}
	if !closeTo(res.ROI, 0.4, 1e-9) {
		t.Fatalf("ROI = %v, want 0.4", res.ROI)
	}
	if len(res.Outcomes) != 2 {
		t.Fatalf("got %d outcomes, want 2", len(res.Outcomes))
	}
}

func TestSimulatorUnresolvedPrices(t *testing.T) {
	cat := newTestCatalog()
	// No listings at all: every price resolves to 0. EV and cost are 0 and
	// ROI is reported as 0 rather than a division blowing up.
	sim := NewSimulator(cat, &mapPriceSource{})

	res, err := sim.Evaluate(context.Background(), makeItems("b0a", 0.43, 10))
	if err != nil {
		t.Fatalf("Evaluate: %v", err)
	}
	if res.EV != 0 || res.Cost != 0 || res.ROI != 0 {
		t.Fatalf("EV/Cost/ROI = %v/%v/%v, want all 0", res.EV, res.Cost, res.ROI)
	}
}

func TestSimulatorFeedFailure(t *testing.T) {
	cat := newTestCatalog()
	feedErr := errors.New("feed down")
	sim := NewSimulator(cat, &mapPriceSource{err: feedErr})

	_, err := sim.Evaluate(context.Background(), makeItems("b0a", 0.43, 10))
	if !errors.Is(err, feedErr) {
		t.Fatalf("Evaluate err = %v, want wrapped feed error", err)
	}
}

func TestSimulatorPropagatesValidation(t *testing.T) {
	cat := newTestCatalog()
	sim := NewSimulator(cat, &mapPriceSource{})

	_, err := sim.Evaluate(context.Background(), makeItems("b0a", 0.43, 7))
	if err == nil {
		t.Fatal("Evaluate accepted a short recipe")
	}
}
