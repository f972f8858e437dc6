package catalog

import "strings"

// CardIndex wraps a Catalog with face-level derived tables built once at
// load time: lowercased strings for substring search, normalized names for
// prefix-tier ordering, and tokenized mana costs for multiset comparisons
// (spec §4.3). It is immutable after construction.
type CardIndex struct {
	Cat *Catalog

	LowerName         []string
	LowerType         []string
	LowerOracle       []string
	LowerCombined     []string
	NormalizedCombined []string
	ManaSymbols       [][]string

	// canonicalFaces maps a canonical face index to the ordered face
	// indices of every face belonging to that card (front first).
	canonicalFaces map[int32][]int32
}

// NewCardIndex builds all derived tables for cat. Called once per loaded
// Catalog (by franticsearch.LoadCatalog and the demo CLI); catalogio.Load
// itself returns only the Catalog.
func NewCardIndex(cat *Catalog) *CardIndex {
	n := cat.NumFaces
	idx := &CardIndex{
		Cat:                cat,
		LowerName:          make([]string, n),
		LowerType:          make([]string, n),
		LowerOracle:        make([]string, n),
		LowerCombined:      make([]string, n),
		NormalizedCombined: make([]string, n),
		ManaSymbols:        make([][]string, n),
		canonicalFaces:     make(map[int32][]int32),
	}
	for f := 0; f < n; f++ {
		idx.LowerName[f] = strings.ToLower(cat.Name[f])
		idx.LowerType[f] = strings.ToLower(cat.TypeLine[f])
		idx.LowerOracle[f] = strings.ToLower(cat.OracleText[f])
		idx.LowerCombined[f] = strings.ToLower(cat.CombinedName[f])
		idx.NormalizedCombined[f] = normalize(cat.CombinedName[f])
		idx.ManaSymbols[f] = tokenizeMana(cat.ManaCost[f])

		canon := cat.CanonicalFace[f]
		idx.canonicalFaces[canon] = append(idx.canonicalFaces[canon], int32(f))
	}
	return idx
}

// normalize lowercases s and strips everything but ASCII letters/digits,
// used for prefix-tier ordering (spec §4.6) so punctuation and casing in
// card names never affect the comparison.
func normalize(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
		case r >= 'A' && r <= 'Z':
			b.WriteRune(r + 32)
		}
	}
	return b.String()
}

// tokenizeMana splits a brace-tagged mana cost string like "{1}{R}" into
// its symbol sequence ["1", "R"]. Malformed costs degrade gracefully: a
// run of text outside braces is skipped.
func tokenizeMana(cost string) []string {
	var out []string
	i := 0
	for i < len(cost) {
		if cost[i] != '{' {
			i++
			continue
		}
		j := i + 1
		for j < len(cost) && cost[j] != '}' {
			j++
		}
		if j < len(cost) {
			out = append(out, cost[i+1:j])
			i = j + 1
		} else {
			break
		}
	}
	return out
}

// FacesOf returns the ordered face indices belonging to the card whose
// canonical face is canon (front face first).
func (idx *CardIndex) FacesOf(canon int32) []int32 {
	return idx.canonicalFaces[canon]
}

// DeduplicateMatches collapses a set of face indices to one row per
// canonical card: each card's canonical face index appears once, in the
// order in which the card's first face appears in the input (spec §4.3).
func (idx *CardIndex) DeduplicateMatches(faces []int32) []int32 {
	seen := make(map[int32]bool, len(faces))
	out := make([]int32, 0, len(faces))
	for _, f := range faces {
		canon := idx.Cat.CanonicalFace[f]
		if seen[canon] {
			continue
		}
		seen[canon] = true
		out = append(out, canon)
	}
	return out
}
