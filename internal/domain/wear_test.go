package domain

import "testing"

func TestWearFromFloat(t *testing.T) {
	tests := []struct {
		float float64
		want  Wear
	}{
		{0.00, WearFactoryNew},
		{0.069999, WearFactoryNew},
		{0.07, WearMinimalWear},
		{0.15, WearFieldTested},
		{0.379999, WearFieldTested},
		{0.38, WearWellWorn},
		{0.45, WearBattleScarred},
		{0.999999, WearBattleScarred},
		{1.00, WearBattleScarred}, // upper boundary is closed
		{-0.5, WearFactoryNew},    // out of range falls back
		{1.5, WearFactoryNew},
	}
	for _, tt := range tests {
		if got := WearFromFloat(tt.float); got != tt.want {
			t.Fatalf("WearFromFloat(%v) = %s, want %s", tt.float, got, tt.want)
		}
	}
}

func TestWearBetter(t *testing.T) {
	tests := []struct {
		wear Wear
		want Wear
	}{
		{WearFactoryNew, WearFactoryNew}, // already at the top
		{WearMinimalWear, WearFactoryNew},
		{WearFieldTested, WearMinimalWear},
		{WearWellWorn, WearFieldTested},
		{WearBattleScarred, WearWellWorn},
	}
	for _, tt := range tests {
		if got := tt.wear.Better(); got != tt.want {
			t.Fatalf("%s.Better() = %s, want %s", tt.wear, got, tt.want)
		}
	}
}

func TestWearMid(t *testing.T) {
	if got := WearMinimalWear.Mid(); got != 0.11 {
		t.Fatalf("Minimal Wear midpoint = %v, want 0.11", got)
	}
	lo, hi := WearBattleScarred.Bounds()
	if lo != 0.45 || hi != 1.0 {
		t.Fatalf("Battle-Scarred bounds = [%v,%v], want [0.45,1.0]", lo, hi)
	}
}

func TestAllWearsOrdered(t *testing.T) {
	wears := AllWears()
	if len(wears) != 5 {
		t.Fatalf("got %d wear labels, want 5", len(wears))
	}
	if wears[0] != WearFactoryNew || wears[4] != WearBattleScarred {
		t.Fatalf("label order = %v", wears)
	}
}
