// Package pricing resolves market prices for catalog entries against a price
// feed that keys listings by loosely-structured display strings. Weapon names
// are inconsistently spaced, abbreviated, and romanized between the catalog
// and the feed, so resolution walks an ordered chain of name-construction
// strategies and falls back to wear-tier interpolation when an exact listing
// is absent.
package pricing

import (
	"context"
	"fmt"
	"strings"

	"github.com/skincraft/tradeupbot/internal/domain"
)

// statTrakMarker is the fixed marker string of the tracked variant as it
// appears in feed listings.
const statTrakMarker = "StatTrak™"

// segmentDelimiter splits a listing base name into weapon and decoration
// segments.
const segmentDelimiter = " | "

// Resolver resolves prices through a read-only price feed. It is stateless
// and safe for concurrent use.
type Resolver struct {
	feed    domain.PriceFeed
	aliases []KeywordAlias
}

// NewResolver creates a Resolver using the default keyword substitution
// table.
func NewResolver(feed domain.PriceFeed) *Resolver {
	return &Resolver{feed: feed, aliases: DefaultKeywordAliases}
}

// NewResolverWithAliases creates a Resolver with a custom substitution table,
// ordered; earlier aliases win.
func NewResolverWithAliases(feed domain.PriceFeed, aliases []KeywordAlias) *Resolver {
	return &Resolver{feed: feed, aliases: aliases}
}

// Resolve returns the feed price for the entry at the given condition value
// and variant flag. It returns 0 when no listing is found anywhere in the
// fallback chain; 0 means "unpriced", not a real zero price, and callers must
// not divide by it. Errors are reserved for feed transport failures.
func (r *Resolver) Resolve(ctx context.Context, entry domain.CatalogEntry, float float64, statTrak bool) (float64, error) {
	return r.resolveAtWear(ctx, entry, domain.WearFromFloat(float), statTrak)
}

// resolveAtWear runs the fallback chain for one wear label. The chain is
// strictly ordered and stops at the first hit:
//
//  1. canonical name (marker appended to the base name)
//  2. marker as prefix (tracked variant only)
//  3. weapon segment with internal spaces removed
//  4. keyword substitution table, decoration segment unchanged
//  5. last resort: generic category suffix stripped from the weapon segment
func (r *Resolver) resolveAtWear(ctx context.Context, entry domain.CatalogEntry, wear domain.Wear, statTrak bool) (float64, error) {
	base := BaseName(entry.Name)
	for _, candidate := range r.candidates(base, wear, statTrak) {
		price, ok, err := r.feed.Lookup(ctx, candidate)
		if err != nil {
			return 0, fmt.Errorf("pricing: lookup %q: %w", candidate, err)
		}
		if ok && price > 0 {
			return price, nil
		}
	}
	return 0, nil
}

// candidates builds the ordered listing-name attempts for one base name.
func (r *Resolver) candidates(base string, wear domain.Wear, statTrak bool) []string {
	var names []string
	add := func(b string) {
		names = append(names, renderListing(b, wear, statTrak, false))
		if statTrak {
			names = append(names, renderListing(b, wear, statTrak, true))
		}
	}

	// 1+2: canonical base.
	add(base)

	// 3: feeds sometimes collapse spaces inside the weapon segment.
	if squeezed := squeezeWeaponSegment(base); squeezed != base {
		add(squeezed)
	}

	// 4: known alternate renderings of weapon-name fragments.
	weapon, decoration, hasDecoration := splitSegments(base)
	if hasDecoration {
		for _, alias := range r.aliases {
			if !strings.Contains(weapon, alias.Fragment) {
				continue
			}
			for _, alt := range alias.Alternates {
				substituted := strings.Replace(weapon, alias.Fragment, alt, 1)
				add(substituted + segmentDelimiter + decoration)
			}
		}
	}

	// 5: some feeds drop the generic category token ("Knife", "Gloves").
	if stripped := stripCategoryToken(base); stripped != base {
		add(stripped)
	}

	return names
}

// renderListing builds one concrete listing name. The canonical form appends
// the marker to the base name; the prefix form mirrors feeds that lead with
// it.
func renderListing(base string, wear domain.Wear, statTrak, prefixMarker bool) string {
	name := base
	if statTrak {
		if prefixMarker {
			name = statTrakMarker + " " + base
		} else {
			name = base + " " + statTrakMarker
		}
	}
	return fmt.Sprintf("%s (%s)", name, wear)
}

// BaseName strips known variant and condition suffixes from a catalog display
// name, leaving the bare weapon/decoration name feeds key on.
func BaseName(name string) string {
	s := strings.TrimSpace(name)
	s = strings.TrimPrefix(s, statTrakMarker+" ")
	s = strings.TrimSuffix(s, " "+statTrakMarker)
	for _, w := range domain.AllWears() {
		s = strings.TrimSuffix(s, fmt.Sprintf(" (%s)", w))
	}
	return strings.TrimSpace(s)
}

// splitSegments splits a base name at the weapon/decoration delimiter.
func splitSegments(base string) (weapon, decoration string, ok bool) {
	idx := strings.Index(base, segmentDelimiter)
	if idx < 0 {
		return base, "", false
	}
	return base[:idx], base[idx+len(segmentDelimiter):], true
}

// squeezeWeaponSegment removes all internal spaces from the weapon segment,
// leaving the decoration segment untouched.
func squeezeWeaponSegment(base string) string {
	weapon, decoration, ok := splitSegments(base)
	squeezed := strings.ReplaceAll(weapon, " ", "")
	if !ok {
		return squeezed
	}
	return squeezed + segmentDelimiter + decoration
}

// categoryTokens are generic trailing category words some feeds omit from
// the weapon segment.
var categoryTokens = []string{"Knife", "Gloves", "Pistol", "Rifle"}

// stripCategoryToken drops a trailing generic category token from the weapon
// segment.
func stripCategoryToken(base string) string {
	weapon, decoration, ok := splitSegments(base)
	for _, tok := range categoryTokens {
		if strings.HasSuffix(weapon, " "+tok) {
			weapon = strings.TrimSuffix(weapon, " "+tok)
			break
		}
	}
	if !ok {
		return weapon
	}
	return weapon + segmentDelimiter + decoration
}
