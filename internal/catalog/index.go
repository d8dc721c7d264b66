// Package catalog provides the read-only item catalog the engine queries:
// an in-memory index built once at startup from a YAML file or the catalog
// store, plus the collection-key normalization that makes differently
// decorated collection names comparable.
package catalog

import (
	"strings"

	"github.com/skincraft/tradeupbot/internal/domain"
)

// noiseTokens are words stripped from collection names before keying. Feeds
// and catalogs disagree on whether a collection is called "The Safehouse
// Collection", "Safehouse Case", or just "Safehouse".
var noiseTokens = map[string]bool{
	"the":        true,
	"collection": true,
	"case":       true,
	"capsule":    true,
	"eu":         true,
	"europe":     true,
	"asia":       true,
	"americas":   true,
}

// NormalizeCollectionKey reduces a collection display name to a stable
// lookup key: lowercase, noise tokens dropped, all non-alphanumerics
// removed.
func NormalizeCollectionKey(name string) string {
	var b strings.Builder
	for _, field := range strings.Fields(strings.ToLower(name)) {
		cleaned := keepAlnum(field)
		if cleaned == "" || noiseTokens[cleaned] {
			continue
		}
		b.WriteString(cleaned)
	}
	return b.String()
}

func keepAlnum(s string) string {
	var b strings.Builder
	for _, r := range s {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// Index is an immutable catalog lookup structure. Build it once with
// NewIndex; it is safe for concurrent readers thereafter.
type Index struct {
	entries    []domain.CatalogEntry
	byID       map[string]domain.CatalogEntry
	byName     map[string]domain.CatalogEntry
	byCollTier map[string]map[int][]domain.CatalogEntry
	maxTier    int
}

// NewIndex builds an Index over the given entries. Collection membership is
// keyed by normalized collection name.
func NewIndex(entries []domain.CatalogEntry) *Index {
	idx := &Index{
		entries:    append([]domain.CatalogEntry(nil), entries...),
		byID:       make(map[string]domain.CatalogEntry, len(entries)),
		byName:     make(map[string]domain.CatalogEntry, len(entries)),
		byCollTier: make(map[string]map[int][]domain.CatalogEntry),
	}
	for _, e := range idx.entries {
		idx.byID[e.ID] = e
		idx.byName[e.Name] = e
		if e.Tier > idx.maxTier {
			idx.maxTier = e.Tier
		}
		for _, coll := range e.Collections {
			key := NormalizeCollectionKey(coll)
			if key == "" {
				continue
			}
			tiers, ok := idx.byCollTier[key]
			if !ok {
				tiers = make(map[int][]domain.CatalogEntry)
				idx.byCollTier[key] = tiers
			}
			tiers[e.Tier] = append(tiers[e.Tier], e)
		}
	}
	return idx
}

// All returns every entry in the catalog.
func (idx *Index) All() []domain.CatalogEntry {
	return idx.entries
}

// ByID returns the entry with the given id, or domain.ErrNotFound.
func (idx *Index) ByID(id string) (domain.CatalogEntry, error) {
	e, ok := idx.byID[id]
	if !ok {
		return domain.CatalogEntry{}, domain.ErrNotFound
	}
	return e, nil
}

// ByName returns the entry with the given display name, or domain.ErrNotFound.
func (idx *Index) ByName(name string) (domain.CatalogEntry, error) {
	e, ok := idx.byName[name]
	if !ok {
		return domain.CatalogEntry{}, domain.ErrNotFound
	}
	return e, nil
}

// ByTierAndCollection returns the entries at the given tier in the named
// collection. The collection name is normalized before lookup, so callers
// may pass either a display name or an already-normalized key. Unknown
// collections and empty tiers return an empty slice.
func (idx *Index) ByTierAndCollection(collection string, tier int) []domain.CatalogEntry {
	tiers, ok := idx.byCollTier[NormalizeCollectionKey(collection)]
	if !ok {
		return nil
	}
	return tiers[tier]
}

// MaxTier returns the highest tier present in the catalog.
func (idx *Index) MaxTier() int {
	return idx.maxTier
}

// Compile-time interface check.
var _ domain.Catalog = (*Index)(nil)
