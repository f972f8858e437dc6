// Package histogram projects a deduplicated face-match set into the three
// cardinality breakdowns the UI's chip bar renders (spec §4.5): color
// identity, mana value, and card type.
package histogram

import (
	"strings"

	"github.com/jimbojw/franticsearch/bitset"
	"github.com/jimbojw/franticsearch/catalog"
)

// ColorIdentityBuckets are the seven fixed bucket keys: colorless, then
// WUBRG, then multicolor.
var ColorIdentityBuckets = []string{"colorless", "W", "U", "B", "R", "G", "multicolor"}

// ManaValueBuckets are the eight fixed bucket keys, "7" meaning "7 or more".
var ManaValueBuckets = []string{"0", "1", "2", "3", "4", "5", "6", "7"}

// CardTypeBuckets are the eight fixed bucket keys, matched by lowercase
// substring on the type line.
var CardTypeBuckets = []string{"Legendary", "Creature", "Instant", "Sorcery", "Artifact", "Enchantment", "Planeswalker", "Land"}

// Deduplicate collapses faces to one row per canonical card, preserving
// first-seen order (thin wrapper over catalog.CardIndex.DeduplicateMatches
// so callers only need to import this package for histogram work).
func Deduplicate(idx *catalog.CardIndex, faces *bitset.Set) []int32 {
	return idx.DeduplicateMatches(faces.ToSlice())
}

// ColorIdentity buckets canonical faces by color-identity bit. A card
// contributes to each WUBRG bucket it has a bit set for (so a two-color
// card counts in two single-color buckets), plus a multicolor bucket when
// two or more bits are set, or the colorless bucket when none are.
func ColorIdentity(idx *catalog.CardIndex, canonicalFaces []int32) map[string]int {
	out := make(map[string]int, len(ColorIdentityBuckets))
	for _, b := range ColorIdentityBuckets {
		out[b] = 0
	}
	for _, f := range canonicalFaces {
		mask := idx.Cat.ColorIdentity[f]
		if mask == 0 {
			out["colorless"]++
			continue
		}
		n := 0
		if mask&catalog.ColorW != 0 {
			out["W"]++
			n++
		}
		if mask&catalog.ColorU != 0 {
			out["U"]++
			n++
		}
		if mask&catalog.ColorB != 0 {
			out["B"]++
			n++
		}
		if mask&catalog.ColorR != 0 {
			out["R"]++
			n++
		}
		if mask&catalog.ColorG != 0 {
			out["G"]++
			n++
		}
		if n >= 2 {
			out["multicolor"]++
		}
	}
	return out
}

// ManaValue buckets canonical faces by mana value, clamped to 7+.
func ManaValue(idx *catalog.CardIndex, canonicalFaces []int32) map[string]int {
	out := make(map[string]int, len(ManaValueBuckets))
	for _, b := range ManaValueBuckets {
		out[b] = 0
	}
	for _, f := range canonicalFaces {
		mv := idx.Cat.ManaValue[f]
		if mv > 7 {
			mv = 7
		}
		out[ManaValueBuckets[mv]]++
	}
	return out
}

// CardType buckets canonical faces by lowercase type-line substring; a
// card can land in multiple buckets (e.g. "Legendary Creature").
func CardType(idx *catalog.CardIndex, canonicalFaces []int32) map[string]int {
	out := make(map[string]int, len(CardTypeBuckets))
	for _, b := range CardTypeBuckets {
		out[b] = 0
	}
	for _, f := range canonicalFaces {
		lower := idx.LowerType[f]
		for _, bucket := range CardTypeBuckets {
			if strings.Contains(lower, strings.ToLower(bucket)) {
				out[bucket]++
			}
		}
	}
	return out
}
