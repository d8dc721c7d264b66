package domain

// Wear is one of the five discrete condition labels partitioning [0,1].
type Wear string

const (
	WearFactoryNew    Wear = "Factory New"
	WearMinimalWear   Wear = "Minimal Wear"
	WearFieldTested   Wear = "Field-Tested"
	WearWellWorn      Wear = "Well-Worn"
	WearBattleScarred Wear = "Battle-Scarred"
)

// wearBand is one labeled sub-range of the condition scale.
type wearBand struct {
	Wear     Wear
	Min, Max float64 // [Min,Max)
}

// wearBands lists the label boundaries best-to-worst. Battle-Scarred owns the
// highest numeric range and is closed at 1.0.
var wearBands = []wearBand{
	{WearFactoryNew, 0.00, 0.07},
	{WearMinimalWear, 0.07, 0.15},
	{WearFieldTested, 0.15, 0.38},
	{WearWellWorn, 0.38, 0.45},
	{WearBattleScarred, 0.45, 1.0},
}

// WearFromFloat maps a raw condition value to its label by range membership.
// Values outside [0,1] fall back to Factory New; valid inputs never hit the
// fallback.
func WearFromFloat(f float64) Wear {
	for _, b := range wearBands {
		if f >= b.Min && f < b.Max {
			return b.Wear
		}
	}
	if f == 1.0 {
		return WearBattleScarred
	}
	return WearFactoryNew
}

// Bounds returns the [min,max) range of the label on the condition scale.
func (w Wear) Bounds() (float64, float64) {
	for _, b := range wearBands {
		if b.Wear == w {
			return b.Min, b.Max
		}
	}
	return 0, 0.07
}

// Mid returns the midpoint of the label's range, used to simulate a condition
// value when an imported item carries a label but no precise float.
func (w Wear) Mid() float64 {
	lo, hi := w.Bounds()
	return (lo + hi) / 2
}

// Better returns the next-better wear label, or the receiver when already at
// Factory New.
func (w Wear) Better() Wear {
	for i, b := range wearBands {
		if b.Wear == w {
			if i == 0 {
				return w
			}
			return wearBands[i-1].Wear
		}
	}
	return WearFactoryNew
}

// AllWears returns the five labels ordered best to worst.
func AllWears() []Wear {
	out := make([]Wear, len(wearBands))
	for i, b := range wearBands {
		out[i] = b.Wear
	}
	return out
}
