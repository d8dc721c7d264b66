package domain

import "math"

// FloatTolerance is the tolerance used when comparing condition values of two
// trade items for structural equality.
const FloatTolerance = 1e-7

// TradeItem is one concrete unit of a catalog entry: the entry reference, the
// unit's condition value, and its variant flag. TradeItems are cheap value
// objects; equality is structural, never by identity.
type TradeItem struct {
	ID          string // uuid, assigned at import/creation
	EntryID     string
	Float       float64 // condition value within the entry's [MinFloat,MaxFloat]
	StatTrak    bool
	InspectLink string // optional provenance link for async float refinement
}

// Equal reports structural equality: same entry, same StatTrak flag, and
// condition values within FloatTolerance.
func (t TradeItem) Equal(o TradeItem) bool {
	return t.EntryID == o.EntryID &&
		t.StatTrak == o.StatTrak &&
		math.Abs(t.Float-o.Float) <= FloatTolerance
}

// WithFloat returns a copy of the item carrying a refined condition value.
func (t TradeItem) WithFloat(f float64) TradeItem {
	t.Float = f
	return t
}
