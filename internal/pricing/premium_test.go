package pricing

import (
	"context"
	"testing"

	"github.com/skincraft/tradeupbot/internal/domain"
)

func closeTo(a, b, tol float64) bool {
	d := a - b
	if d < 0 {
		d = -d
	}
	return d <= tol
}

func TestWithPremiumBlendsTowardBetterTier(t *testing.T) {
	feed := NewStaticFeed(map[string]float64{
		listing("AK-47 | Redline", domain.WearFactoryNew):  100,
		listing("AK-47 | Redline", domain.WearMinimalWear): 60,
	})
	r := NewResolver(feed)
	e := entry("AK-47 | Redline")

	// At the best edge of Minimal Wear the full anchor ratio applies:
	// 60 + (100-60)*1.0*0.35 = 74.
	price, err := r.WithPremium(context.Background(), e, 0.07, false)
	if err != nil {
		t.Fatalf("WithPremium: %v", err)
	}
	if !closeTo(price, 74.0, 1e-9) {
		t.Fatalf("price at best edge = %v, want 74.0", price)
	}

	// Halfway through the band the blend halves: 60 + 40*0.5*0.35 = 67.
	price, err = r.WithPremium(context.Background(), e, 0.11, false)
	if err != nil {
		t.Fatalf("WithPremium: %v", err)
	}
	if !closeTo(price, 67.0, 1e-9) {
		t.Fatalf("price mid band = %v, want 67.0", price)
	}
}

func TestWithPremiumCapsBelowBetterTier(t *testing.T) {
	// Well-Worn carries the steepest anchor ratio; a base price close to the
	// better tier blends above the cap and must be clipped to 95% of it.
	feed := NewStaticFeed(map[string]float64{
		listing("AK-47 | Redline", domain.WearFieldTested): 100,
		listing("AK-47 | Redline", domain.WearWellWorn):    95,
	})
	r := NewResolver(feed)

	// t=1 at the band's best edge: 95 + 5*0.55 = 97.75, capped at 95.
	price, err := r.WithPremium(context.Background(), entry("AK-47 | Redline"), 0.38, false)
	if err != nil {
		t.Fatalf("WithPremium: %v", err)
	}
	if !closeTo(price, 95.0, 1e-9) {
		t.Fatalf("price = %v, want cap of 95.0", price)
	}
}

func TestWithPremiumFlatWhenNoBetterListing(t *testing.T) {
	feed := NewStaticFeed(map[string]float64{
		listing("AK-47 | Redline", domain.WearMinimalWear): 60,
	})
	r := NewResolver(feed)

	// No Factory New listing resolvable: flat premium 60*(1+0.05*t), t=0.5.
	price, err := r.WithPremium(context.Background(), entry("AK-47 | Redline"), 0.11, false)
	if err != nil {
		t.Fatalf("WithPremium: %v", err)
	}
	if !closeTo(price, 61.5, 1e-9) {
		t.Fatalf("price = %v, want flat premium 61.5", price)
	}
}

func TestWithPremiumFlatWhenBetterIsCheaper(t *testing.T) {
	// A better-tier listing priced below the base tier is market noise; the
	// flat premium applies instead of a negative blend.
	feed := NewStaticFeed(map[string]float64{
		listing("AK-47 | Redline", domain.WearFactoryNew):  50,
		listing("AK-47 | Redline", domain.WearMinimalWear): 60,
	})
	r := NewResolver(feed)

	price, err := r.WithPremium(context.Background(), entry("AK-47 | Redline"), 0.07, false)
	if err != nil {
		t.Fatalf("WithPremium: %v", err)
	}
	if !closeTo(price, 63.0, 1e-9) {
		t.Fatalf("price = %v, want flat premium 63.0", price)
	}
}

func TestWithPremiumFactoryNew(t *testing.T) {
	// Factory New has no better tier; only the flat premium applies.
	feed := NewStaticFeed(map[string]float64{
		listing("AK-47 | Redline", domain.WearFactoryNew): 100,
	})
	r := NewResolver(feed)

	price, err := r.WithPremium(context.Background(), entry("AK-47 | Redline"), 0.0, false)
	if err != nil {
		t.Fatalf("WithPremium: %v", err)
	}
	if !closeTo(price, 105.0, 1e-9) {
		t.Fatalf("price = %v, want 105.0", price)
	}
}

func TestWithPremiumUnpricedBase(t *testing.T) {
	r := NewResolver(NewStaticFeed(nil))
	price, err := r.WithPremium(context.Background(), entry("AK-47 | Redline"), 0.11, false)
	if err != nil {
		t.Fatalf("WithPremium: %v", err)
	}
	if price != 0 {
		t.Fatalf("price = %v, want 0 when the base tier is unpriced", price)
	}
}

func TestPositionInTier(t *testing.T) {
	tests := []struct {
		float float64
		wear  domain.Wear
		want  float64
	}{
		{0.07, domain.WearMinimalWear, 1.0},
		{0.11, domain.WearMinimalWear, 0.5},
		{0.15, domain.WearFieldTested, 1.0},
		{0.38, domain.WearWellWorn, 1.0},
		{0.445, domain.WearWellWorn, 1.0 / 14.0},
		{1.00, domain.WearBattleScarred, 0.0},
	}
	for _, tt := range tests {
		got := positionInTier(tt.float, tt.wear)
		if !closeTo(got, tt.want, 1e-9) {
			t.Fatalf("positionInTier(%v, %s) = %v, want %v", tt.float, tt.wear, got, tt.want)
		}
	}
}
