package eval

import "github.com/jimbojw/franticsearch/ast"

// UniqueMode reports whether a parsed query requests `unique:cards`
// (default, one row per canonical face) or `unique:prints` (one row per
// printing). With both present, the last one in source order wins (spec
// §9 Open Questions).
type UniqueMode uint8

const (
	UniqueCards UniqueMode = iota
	UniquePrints
)

// ResolveUniqueMode scans node for `unique:` markers left-to-right and
// returns the mode of the last one encountered, or UniqueCards if none.
func ResolveUniqueMode(node ast.Node) UniqueMode {
	mode := UniqueCards
	var walk func(n ast.Node)
	walk = func(n ast.Node) {
		switch v := n.(type) {
		case *ast.And:
			for _, c := range v.Children {
				walk(c)
			}
		case *ast.Or:
			for _, c := range v.Children {
				walk(c)
			}
		case *ast.Not:
			walk(v.Child)
		case *ast.Field:
			if v.FieldName == "unique" {
				switch v.Value {
				case "prints":
					mode = UniquePrints
				case "cards":
					mode = UniqueCards
				}
			}
		}
	}
	walk(node)
	return mode
}

// HasPrintingCondition reports whether node contains any printing-domain
// field (set/rarity/finish/usd) anywhere in its tree, independent of
// whether a PrintingIndex is actually loaded.
func HasPrintingCondition(node ast.Node) bool {
	found := false
	var walk func(n ast.Node)
	walk = func(n ast.Node) {
		if found {
			return
		}
		switch v := n.(type) {
		case *ast.And:
			for _, c := range v.Children {
				walk(c)
			}
		case *ast.Or:
			for _, c := range v.Children {
				walk(c)
			}
		case *ast.Not:
			walk(v.Child)
		case *ast.Field:
			if k, ok := fieldAliases[v.FieldName]; ok {
				switch k {
				case fieldSet, fieldRarity, fieldFinish, fieldUSD:
					found = true
				}
			}
		}
	}
	walk(node)
	return found
}
