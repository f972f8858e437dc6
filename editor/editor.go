// Package editor rewrites a query's source string in response to UI chip
// clicks, by splicing spans of the parsed AST (spec §4.7). Every operation
// is a pure function from the source string to a new source string; some
// take an already-parsed AST alongside it, the rest parse the source
// themselves. None of them re-evaluate the query.
package editor

import (
	"strings"

	"github.com/jimbojw/franticsearch/ast"
	"github.com/jimbojw/franticsearch/catalog"
	"github.com/jimbojw/franticsearch/lexer"
	"github.com/jimbojw/franticsearch/parser"
)

// identityAliases names every field alias that resolves to color identity,
// used by the color-bar operations.
var identityAliases = map[string]bool{"identity": true, "id": true, "ci": true, "commander": true, "cmd": true}

func splice(source string, sp lexer.Span, replacement string) string {
	return source[:sp.Start] + replacement + source[sp.End:]
}

func collapseSpaces(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// Seal appends a closing quote/regex delimiter if the last token is
// unclosed, and appends any missing `)` to balance parentheses. Idempotent
// (spec §4.7, §8).
func Seal(query string) string {
	tokens := lexer.Tokenize(query)
	result := query
	if len(tokens) >= 2 {
		last := tokens[len(tokens)-2]
		closer := ""
		switch last.Kind {
		case lexer.QUOTED:
			if !last.Closed && len(last.Value) > 0 {
				closer = string(last.Value[0])
			}
		case lexer.REGEX:
			if !last.Closed {
				closer = "/"
			}
		}
		if closer != "" {
			// An odd run of trailing backslashes would escape the appended
			// delimiter, so pair the last backslash off first.
			backslashes := 0
			for i := len(last.Value) - 1; i > 0 && last.Value[i] == '\\'; i-- {
				backslashes++
			}
			if backslashes%2 == 1 {
				result += `\`
			}
			result += closer
		}
	}
	depth := 0
	for _, t := range lexer.Tokenize(result) {
		switch t.Kind {
		case lexer.LPAREN:
			depth++
		case lexer.RPAREN:
			if depth > 0 {
				depth--
			}
		}
	}
	if depth > 0 {
		result += strings.Repeat(")", depth)
	}
	return result
}

// FindFieldNode performs a left-to-right DFS for a FIELD node (optionally
// wrapped in a NOT, when negated is true) whose field name is one of
// aliases, whose operator is op, and whose value satisfies valuePred (if
// given). Returns the matched node — the NOT wrapper when negated, else
// the FIELD itself — or nil.
func FindFieldNode(root ast.Node, aliases map[string]bool, op ast.Operator, negated bool, valuePred func(string) bool) ast.Node {
	var result ast.Node
	var walk func(n ast.Node, neg bool, wrapper ast.Node)
	walk = func(n ast.Node, neg bool, wrapper ast.Node) {
		if result != nil {
			return
		}
		switch v := n.(type) {
		case *ast.And:
			for _, c := range v.Children {
				walk(c, false, nil)
			}
		case *ast.Or:
			for _, c := range v.Children {
				walk(c, false, nil)
			}
		case *ast.Not:
			walk(v.Child, true, v)
		case *ast.Field:
			if neg != negated {
				return
			}
			if !aliases[v.FieldName] || v.Op != op {
				return
			}
			if valuePred != nil && !valuePred(v.Value) {
				return
			}
			if neg {
				result = wrapper
			} else {
				result = v
			}
		}
	}
	walk(root, false, nil)
	return result
}

// RemoveNode splices target out of source. If target is the root itself,
// the whole query becomes empty.
func RemoveNode(source string, root, target ast.Node) string {
	if target == root {
		return ""
	}
	return collapseSpaces(splice(source, target.Span(), ""))
}

// appendTerm appends term to source, wrapping the existing source in
// parentheses first when root is an OR (so the appended term conjoins
// with the whole disjunction rather than just its last operand).
func appendTerm(source string, root ast.Node, term string) string {
	wrapped := source
	if _, ok := root.(*ast.Or); ok {
		wrapped = "(" + source + ")"
	}
	if strings.TrimSpace(wrapped) != "" {
		wrapped += " "
	}
	return collapseSpaces(wrapped + term)
}

// ToggleSimple removes a matching field node if present — checking both
// the positive and negated form of (field, op, value), so clicking a chip
// that's active in either polarity deactivates it — otherwise appends
// appendTermStr (spec §4.7).
func ToggleSimple(source string, root ast.Node, aliases map[string]bool, op ast.Operator, negated bool, value, appendTermStr string) string {
	valuePred := func(v string) bool { return v == value }
	if node := FindFieldNode(root, aliases, op, negated, valuePred); node != nil {
		return RemoveNode(source, root, node)
	}
	if node := FindFieldNode(root, aliases, op, !negated, valuePred); node != nil {
		return RemoveNode(source, root, node)
	}
	return appendTerm(source, root, appendTermStr)
}

// CycleChip tri-states a field/value chip: absent -> positive -> negative
// -> absent (spec §4.7).
func CycleChip(query, field, value string) string {
	root := parser.Parse(query)
	aliases := map[string]bool{field: true}
	if neg := FindFieldNode(root, aliases, ast.OpColon, true, func(v string) bool { return v == value }); neg != nil {
		return RemoveNode(query, root, neg)
	}
	if pos := FindFieldNode(root, aliases, ast.OpColon, false, func(v string) bool { return v == value }); pos != nil {
		return collapseSpaces(splice(query, pos.Span(), "-"+ast.Label(pos)))
	}
	return appendTerm(query, root, field+":"+value)
}

// canonicalWUBRG renders a color mask in canonical W,U,B,R,G order.
func canonicalWUBRG(mask uint8) string {
	var b strings.Builder
	if mask&catalog.ColorW != 0 {
		b.WriteByte('w')
	}
	if mask&catalog.ColorU != 0 {
		b.WriteByte('u')
	}
	if mask&catalog.ColorB != 0 {
		b.WriteByte('b')
	}
	if mask&catalog.ColorR != 0 {
		b.WriteByte('r')
	}
	if mask&catalog.ColorG != 0 {
		b.WriteByte('g')
	}
	return b.String()
}

func bitForLetter(letter byte) uint8 {
	switch letter {
	case 'w', 'W':
		return catalog.ColorW
	case 'u', 'U':
		return catalog.ColorU
	case 'b', 'B':
		return catalog.ColorB
	case 'r', 'R':
		return catalog.ColorR
	case 'g', 'G':
		return catalog.ColorG
	}
	return 0
}

func parseWUBRG(value string) uint8 {
	var m uint8
	for i := 0; i < len(value); i++ {
		m |= bitForLetter(value[i])
	}
	return m
}

// toggleColorField is the shared implementation of ToggleColorDrill
// (op = >=) and ToggleColorExclude (op = :): flip a single color bit in
// the matched node's value, removing the node if the result is empty, or
// appending a fresh node if none exists yet.
func toggleColorField(query string, op ast.Operator, colorLetter byte) string {
	root := parser.Parse(query)
	node := FindFieldNode(root, identityAliases, op, false, nil)
	if node == nil {
		return appendTerm(query, root, "ci"+op.String()+string(colorLetter))
	}
	field := node.(*ast.Field)
	mask := parseWUBRG(field.Value)
	bit := bitForLetter(colorLetter)
	if mask&bit != 0 {
		mask &^= bit
	} else {
		mask |= bit
	}
	if mask == 0 {
		return RemoveNode(query, root, node)
	}
	return collapseSpaces(splice(query, field.ValueSp, canonicalWUBRG(mask)))
}

// ToggleColorDrill toggles colorLetter in a `ci>=` node's value, adding
// the node if absent, removing it if the toggle empties the mask.
func ToggleColorDrill(query string, colorLetter byte) string {
	return toggleColorField(query, ast.OpGte, colorLetter)
}

// ToggleColorExclude is the dual of ToggleColorDrill, operating on a `ci:`
// node.
func ToggleColorExclude(query string, colorLetter byte) string {
	return toggleColorField(query, ast.OpColon, colorLetter)
}

// strengthOf returns a `ci` node operator's position on the >=,:,=
// strengthening ladder.
func strengthOf(op ast.Operator) int {
	switch op {
	case ast.OpGte:
		return 0
	case ast.OpColon:
		return 1
	case ast.OpEq:
		return 2
	default:
		return 0
	}
}

var strengthOps = [...]ast.Operator{ast.OpGte, ast.OpColon, ast.OpEq}

func findAnyColorNode(root ast.Node) *ast.Field {
	for _, op := range strengthOps {
		if n := FindFieldNode(root, identityAliases, op, false, nil); n != nil {
			return n.(*ast.Field)
		}
	}
	return nil
}

// GraduatedColorBar adds color to the query's color-identity filter,
// cycling operator strength `ci>=X` -> `ci:X` -> `ci=X` when color is
// already present; stops at `ci=X`. The node is removed instead of
// strengthened past `=` once its mask covers all five colors, since a
// stronger comparison could only narrow further via the mask itself, not
// the operator (spec §4.7).
func GraduatedColorBar(query string, colorLetter byte) string {
	root := parser.Parse(query)
	node := findAnyColorNode(root)
	bit := bitForLetter(colorLetter)
	if node == nil {
		return appendTerm(query, root, "ci>="+string(colorLetter))
	}
	mask := parseWUBRG(node.Value)
	if mask&bit == 0 {
		newMask := mask | bit
		return collapseSpaces(splice(query, node.ValueSp, canonicalWUBRG(newMask)))
	}
	strength := strengthOf(node.Op)
	if strength >= len(strengthOps)-1 {
		if mask == catalog.ColorMaskAll {
			return RemoveNode(query, root, node)
		}
		return query
	}
	nextOp := strengthOps[strength+1]
	fieldName := node.FieldName
	return collapseSpaces(splice(query, node.Sp, fieldName+nextOp.String()+node.Value))
}

// GraduatedColorX is the reverse of GraduatedColorBar: weaken `ci=X` ->
// `ci:X` -> `ci>=X` -> removed. When the query has no color-identity node,
// it appends an excluding `ci:` subset instead; when the node exists but
// does not contain colorLetter, the query is returned unchanged.
func GraduatedColorX(query string, colorLetter byte) string {
	root := parser.Parse(query)
	node := findAnyColorNode(root)
	bit := bitForLetter(colorLetter)
	if node == nil {
		rest := catalog.ColorMaskAll &^ bit
		return appendTerm(query, root, "ci:"+canonicalWUBRG(rest))
	}
	mask := parseWUBRG(node.Value)
	if mask&bit == 0 {
		return query
	}
	strength := strengthOf(node.Op)
	if strength == 0 {
		return RemoveNode(query, root, node)
	}
	prevOp := strengthOps[strength-1]
	fieldName := node.FieldName
	return collapseSpaces(splice(query, node.Sp, fieldName+prevOp.String()+node.Value))
}

// ColorlessBar toggles a `ci=c` (colorless) filter on, the colorless-bucket
// analogue of GraduatedColorBar.
func ColorlessBar(query string) string {
	root := parser.Parse(query)
	node := FindFieldNode(root, identityAliases, ast.OpEq, false, func(v string) bool {
		return strings.EqualFold(v, "c") || strings.EqualFold(v, "colorless")
	})
	if node != nil {
		return query
	}
	return appendTerm(query, root, "ci=c")
}

// ColorlessX removes an existing colorless filter, the dual of ColorlessBar.
func ColorlessX(query string) string {
	root := parser.Parse(query)
	node := FindFieldNode(root, identityAliases, ast.OpEq, false, func(v string) bool {
		return strings.EqualFold(v, "c") || strings.EqualFold(v, "colorless")
	})
	if node == nil {
		return query
	}
	return RemoveNode(query, root, node)
}
