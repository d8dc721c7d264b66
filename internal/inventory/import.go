// Package inventory turns raw remote asset listings into TradeItems the
// engine can use. Display names embed the wear label and variant marker;
// condition values may be missing until the asynchronous float lookup
// completes, in which case a simulated mid-tier value stands in.
package inventory

import (
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/skincraft/tradeupbot/internal/domain"
)

// RawAsset is one record from the remote inventory listing.
type RawAsset struct {
	DisplayName string   `json:"display_name"`
	Float       *float64 `json:"float,omitempty"`
	StatTrak    bool     `json:"stattrak"`
	InspectLink string   `json:"inspect_link,omitempty"`
}

// ParsedName is the decomposition of an asset display name.
type ParsedName struct {
	Base     string
	Wear     domain.Wear
	HasWear  bool
	StatTrak bool
}

const statTrakMarker = "StatTrak™"

// ParseDisplayName splits an asset display name into its base name, embedded
// wear label, and variant marker. Names without a wear suffix are legal;
// HasWear reports whether one was present.
func ParseDisplayName(name string) ParsedName {
	p := ParsedName{Base: strings.TrimSpace(name)}
	if strings.HasPrefix(p.Base, statTrakMarker+" ") {
		p.StatTrak = true
		p.Base = strings.TrimPrefix(p.Base, statTrakMarker+" ")
	}
	if strings.HasSuffix(p.Base, " "+statTrakMarker) {
		p.StatTrak = true
		p.Base = strings.TrimSuffix(p.Base, " "+statTrakMarker)
	}
	for _, w := range domain.AllWears() {
		suffix := fmt.Sprintf(" (%s)", w)
		if strings.HasSuffix(p.Base, suffix) {
			p.Wear = w
			p.HasWear = true
			p.Base = strings.TrimSuffix(p.Base, suffix)
			break
		}
	}
	p.Base = strings.TrimSpace(p.Base)
	return p
}

// Import matches raw assets against the catalog and builds TradeItems.
// Assets with no precise float receive a simulated value: the midpoint of
// the embedded wear label's range clamped into the entry's own float range,
// or the range midpoint when the name carries no label. Assets whose names
// match no catalog entry are skipped and reported in the returned count,
// not treated as fatal; remote inventories routinely contain non-tradable
// clutter.
func Import(assets []RawAsset, catalog domain.Catalog) (items []domain.TradeItem, skipped int) {
	for _, a := range assets {
		parsed := ParseDisplayName(a.DisplayName)
		entry, err := catalog.ByName(parsed.Base)
		if err != nil {
			skipped++
			continue
		}

		f := simulatedFloat(entry, parsed)
		if a.Float != nil {
			f = *a.Float
		}

		items = append(items, domain.TradeItem{
			ID:          uuid.NewString(),
			EntryID:     entry.ID,
			Float:       f,
			StatTrak:    a.StatTrak || parsed.StatTrak,
			InspectLink: a.InspectLink,
		})
	}
	return items, skipped
}

// simulatedFloat infers a stand-in condition value from the parsed name.
func simulatedFloat(entry domain.CatalogEntry, parsed ParsedName) float64 {
	if parsed.HasWear {
		return clamp(parsed.Wear.Mid(), entry.MinFloat, entry.MaxFloat)
	}
	return (entry.MinFloat + entry.MaxFloat) / 2
}

func clamp(f, lo, hi float64) float64 {
	if f < lo {
		return lo
	}
	if f > hi {
		return hi
	}
	return f
}

// GroupByListing groups items by their catalog entry and StatTrak flag.
// Remote listings repeat ambiguous display names; grouping keeps duplicates
// together for presentation and pool building.
func GroupByListing(items []domain.TradeItem) map[string][]domain.TradeItem {
	groups := make(map[string][]domain.TradeItem)
	for _, it := range items {
		key := it.EntryID
		if it.StatTrak {
			key += "|st"
		}
		groups[key] = append(groups[key], it)
	}
	return groups
}
