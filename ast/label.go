package ast

import (
	"strconv"
	"strings"
)

// Label returns the node's breakdown label: stable text the query editor
// recognizes to splice a node back out of the source query (spec §6, §4.7).
// Internal nodes (And/Or) label as "AND"/"OR"; Not prefixes its child's
// label with "-"; leaves reconstruct their canonical `field op value` form.
func Label(n Node) string {
	switch v := n.(type) {
	case *And:
		return "AND"
	case *Or:
		return "OR"
	case *Not:
		return "-" + Label(v.Child)
	case *Field:
		return v.FieldName + v.Op.String() + v.Value
	case *RegexField:
		return v.FieldName + v.Op.String() + "/" + v.Pattern + "/"
	case *Bare:
		if v.Quoted {
			return `"` + v.Value + `"`
		}
		return v.Value
	case *Exact:
		return `!"` + v.Value + `"`
	case *Nop:
		return "NOP"
	default:
		return "?"
	}
}

// CacheKey returns a canonical, recursive stringification of the node
// suitable as a node-cache key: deterministic and insensitive to
// whitespace or parenthesization that doesn't change meaning (spec §4.4,
// §9). Unlike Label, And/Or keys include their children.
func CacheKey(n Node) string {
	var b strings.Builder
	writeCacheKey(&b, n)
	return b.String()
}

func writeCacheKey(b *strings.Builder, n Node) {
	switch v := n.(type) {
	case *And:
		b.WriteString("AND(")
		for i, c := range v.Children {
			if i > 0 {
				b.WriteByte(',')
			}
			writeCacheKey(b, c)
		}
		b.WriteByte(')')
	case *Or:
		b.WriteString("OR(")
		for i, c := range v.Children {
			if i > 0 {
				b.WriteByte(',')
			}
			writeCacheKey(b, c)
		}
		b.WriteByte(')')
	case *Not:
		b.WriteString("NOT(")
		writeCacheKey(b, v.Child)
		b.WriteByte(')')
	case *Field:
		b.WriteString("F:")
		b.WriteString(v.FieldName)
		b.WriteString(v.Op.String())
		b.WriteString(v.Value)
	case *RegexField:
		b.WriteString("RF:")
		b.WriteString(v.FieldName)
		b.WriteString(v.Op.String())
		b.WriteString("/")
		b.WriteString(v.Pattern)
		b.WriteString("/")
	case *Bare:
		b.WriteString("B:")
		b.WriteString(v.Value)
	case *Exact:
		b.WriteString("E:")
		b.WriteString(v.Value)
	case *Nop:
		b.WriteString("NOP@")
		sp := v.Span()
		b.WriteString(strconv.Itoa(sp.Start))
		b.WriteByte(':')
		b.WriteString(strconv.Itoa(sp.End))
	}
}
