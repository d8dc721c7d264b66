package engine

import (
	"errors"
	"testing"

	"github.com/skincraft/tradeupbot/internal/domain"
)

func TestOutputFloat(t *testing.T) {
	tests := []struct {
		name      string
		avgDeform float64
		outMin    float64
		outMax    float64
		want      float64
	}{
		{"mid deform onto half range", 0.40, 0.00, 0.50, 0.20},
		{"zero deform hits range floor", 0.00, 0.18, 1.00, 0.18},
		{"full deform hits range ceiling", 1.00, 0.18, 1.00, 1.00},
		{"offset range", 0.50, 0.10, 0.40, 0.25},
		{"zero width range collapses", 0.75, 0.25, 0.25, 0.25},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := OutputFloat(tt.avgDeform, tt.outMin, tt.outMax)
			if got != tt.want {
				t.Fatalf("OutputFloat(%v, %v, %v) = %v, want %v",
					tt.avgDeform, tt.outMin, tt.outMax, got, tt.want)
			}
		})
	}
}

func TestOutputFloatRounding(t *testing.T) {
	// 1/3 of a unit range must come back truncated to nine decimal digits.
	got := OutputFloat(1.0/3.0, 0, 1)
	if got != 0.333333333 {
		t.Fatalf("OutputFloat(1/3, 0, 1) = %.12f, want 0.333333333", got)
	}
}

func TestAvgDeformation(t *testing.T) {
	cat := newTestCatalog()

	t.Run("positions within entry ranges", func(t *testing.T) {
		// b0a spans [0.06,0.80]; 0.43 is exactly halfway. b0b spans [0,1].
		items := []domain.TradeItem{
			{EntryID: "b0a", Float: 0.43},
			{EntryID: "b0b", Float: 0.30},
		}
		got, err := AvgDeformation(items, cat)
		if err != nil {
			t.Fatalf("AvgDeformation: %v", err)
		}
		if !closeTo(got, 0.40, 1e-9) {
			t.Fatalf("AvgDeformation = %v, want 0.40", got)
		}
	})

	t.Run("out of range values clamp", func(t *testing.T) {
		items := []domain.TradeItem{
			{EntryID: "b0a", Float: 0.01}, // below entry min
			{EntryID: "b0a", Float: 0.99}, // above entry max
		}
		got, err := AvgDeformation(items, cat)
		if err != nil {
			t.Fatalf("AvgDeformation: %v", err)
		}
		if !closeTo(got, 0.5, 1e-9) {
			t.Fatalf("AvgDeformation = %v, want 0.5 from clamped 0 and 1", got)
		}
	})

	t.Run("empty input", func(t *testing.T) {
		got, err := AvgDeformation(nil, cat)
		if err != nil || got != 0 {
			t.Fatalf("AvgDeformation(nil) = %v, %v, want 0, nil", got, err)
		}
	})

	t.Run("unknown entry", func(t *testing.T) {
		_, err := AvgDeformation([]domain.TradeItem{{EntryID: "nope", Float: 0.5}}, cat)
		var ve *domain.ValidationError
		if !errors.As(err, &ve) || ve.Constraint != domain.ConstraintUnknownEntry {
			t.Fatalf("AvgDeformation unknown entry error = %v, want unknown_entry validation", err)
		}
	})
}
