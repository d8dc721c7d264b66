package domain

import "context"

// CatalogEntry describes one tradable item type in the game's catalog. Entries
// are loaded once at startup and are read-only afterwards; they are shared
// freely across concurrent engine calls.
type CatalogEntry struct {
	ID          string
	Name        string
	Tier        int // ordered rarity level, 0 = lowest
	MinFloat    float64
	MaxFloat    float64
	Collections []string // display names of every collection the entry belongs to
	StatTrak    bool     // eligible for the StatTrak variant
}

// FloatRange returns the width of the entry's allowed condition range.
func (e CatalogEntry) FloatRange() float64 {
	return e.MaxFloat - e.MinFloat
}

// Collection is a named grouping of catalog entries. Trade-up outputs for an
// input item are the next-tier entries of the input's collection.
type Collection struct {
	Key     string // normalized lookup key
	Name    string // original display name
	Entries []string
}

// Catalog is the read-only catalog lookup contract the engine depends on.
// Implementations must be safe for concurrent use.
type Catalog interface {
	// All returns every entry in the catalog.
	All() []CatalogEntry
	// ByID returns the entry with the given id, or ErrNotFound.
	ByID(id string) (CatalogEntry, error)
	// ByName returns the entry with the given display name, or ErrNotFound.
	ByName(name string) (CatalogEntry, error)
	// ByTierAndCollection returns all entries at the given tier that belong
	// to the collection identified by its normalized key. A missing
	// collection or an empty tier returns an empty slice, not an error.
	ByTierAndCollection(collectionKey string, tier int) []CatalogEntry
	// MaxTier returns the highest tier present in the catalog.
	MaxTier() int
}

// PriceFeed is the flat listing-name -> price lookup the resolver queries.
// The feed is assumed fully loaded before any engine call; a missing listing
// is reported via the ok flag, not an error.
type PriceFeed interface {
	Lookup(ctx context.Context, listing string) (price float64, ok bool, err error)
}
