package eval

import (
	"github.com/jimbojw/franticsearch/ast"
	"github.com/jimbojw/franticsearch/bitset"
)

// parseManaSymbols tokenizes a compact mana value like "3R" or "2WW" into
// its symbol sequence ["3", "R"] / ["2", "W", "W"], or a brace-tagged
// value like "{1}{R}" the same way catalog.tokenizeMana does. A run of
// digits is one multi-digit symbol; any other rune is its own symbol.
func parseManaSymbols(s string) []string {
	if len(s) > 0 && s[0] == '{' {
		return braceTokenize(s)
	}
	var out []string
	i := 0
	for i < len(s) {
		if s[i] >= '0' && s[i] <= '9' {
			j := i
			for j < len(s) && s[j] >= '0' && s[j] <= '9' {
				j++
			}
			out = append(out, s[i:j])
			i = j
			continue
		}
		out = append(out, string(s[i]))
		i++
	}
	return out
}

func braceTokenize(s string) []string {
	var out []string
	i := 0
	for i < len(s) {
		if s[i] != '{' {
			i++
			continue
		}
		j := i + 1
		for j < len(s) && s[j] != '}' {
			j++
		}
		if j >= len(s) {
			break
		}
		out = append(out, s[i+1:j])
		i = j + 1
	}
	return out
}

func counts(symbols []string) map[string]int {
	m := make(map[string]int, len(symbols))
	for _, s := range symbols {
		m[s]++
	}
	return m
}

// compareMultiset implements the mana-cost multiset semantics of spec
// §4.4: `:`/`>=` is superset-with-multiplicity, `=` is exact equality,
// `<=` is subset, `!=` negates equality.
func compareMultiset(op ast.Operator, query, card map[string]int) bool {
	superset := func(big, small map[string]int) bool {
		for sym, n := range small {
			if big[sym] < n {
				return false
			}
		}
		return true
	}
	equal := func(a, b map[string]int) bool {
		if len(a) != len(b) {
			return false
		}
		for sym, n := range a {
			if b[sym] != n {
				return false
			}
		}
		return true
	}
	switch op {
	case ast.OpColon, ast.OpGte:
		return superset(card, query)
	case ast.OpEq:
		return equal(card, query)
	case ast.OpNeq:
		return !equal(card, query)
	case ast.OpLte:
		return superset(query, card)
	default:
		return superset(card, query)
	}
}

func (e *env) evalManaField(label string, op ast.Operator, value string) *NodeResult {
	query := counts(parseManaSymbols(value))
	faces := bitset.New(e.idx.Cat.NumFaces)
	for f := 0; f < e.idx.Cat.NumFaces; f++ {
		card := counts(e.idx.ManaSymbols[f])
		if compareMultiset(op, query, card) {
			faces.Set(f)
		}
	}
	return &NodeResult{Label: label, Faces: faces, MatchCount: faces.Count()}
}
