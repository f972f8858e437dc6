// Package ast defines the Frantic Search query AST. Every node carries the
// source span it was parsed from; node kinds are a closed sum type over a
// marker interface, in the teacher's style (private marker method per
// variant, a Span accessor).
package ast

import "github.com/jimbojw/franticsearch/lexer"

// Operator is a field comparison operator.
type Operator uint8

const (
	OpColon Operator = iota // :
	OpEq                    // =
	OpNeq                   // !=
	OpLt                    // <
	OpLte                   // <=
	OpGt                    // >
	OpGte                   // >=
)

func (o Operator) String() string {
	switch o {
	case OpColon:
		return ":"
	case OpEq:
		return "="
	case OpNeq:
		return "!="
	case OpLt:
		return "<"
	case OpLte:
		return "<="
	case OpGt:
		return ">"
	case OpGte:
		return ">="
	default:
		return "?"
	}
}

// OperatorFromToken maps a lexer comparison token to an Operator. ok is
// false if kind is not a comparison operator.
func OperatorFromToken(kind lexer.Kind) (Operator, bool) {
	switch kind {
	case lexer.COLON:
		return OpColon, true
	case lexer.EQ:
		return OpEq, true
	case lexer.NEQ:
		return OpNeq, true
	case lexer.LT:
		return OpLt, true
	case lexer.LTE:
		return OpLte, true
	case lexer.GT:
		return OpGt, true
	case lexer.GTE:
		return OpGte, true
	default:
		return 0, false
	}
}

// Node is implemented by every AST node kind.
type Node interface {
	node()
	Span() lexer.Span
}

func (n *And) node()        {}
func (n *Or) node()         {}
func (n *Not) node()        {}
func (n *Field) node()      {}
func (n *RegexField) node() {}
func (n *Bare) node()       {}
func (n *Exact) node()      {}
func (n *Nop) node()        {}

// And is a conjunction of children, either implicit (adjacent terms) or
// produced by grouping.
type And struct {
	Children []Node
	Sp       lexer.Span
}

func (n *And) Span() lexer.Span { return n.Sp }

// Or is a disjunction of children, from the bare OR keyword.
type Or struct {
	Children []Node
	Sp       lexer.Span
}

func (n *Or) Span() lexer.Span { return n.Sp }

// Not is a prefix negation (-term or !term) of a single child.
type Not struct {
	Child Node
	Sp    lexer.Span
}

func (n *Not) Span() lexer.Span { return n.Sp }

// Field is `name op value`, e.g. `t:creature`, `pow>=4`.
type Field struct {
	FieldName string // normalized to lowercase
	Op        Operator
	Value     string
	Quoted    bool // Value came from a QUOTED token (delimiters stripped)
	Sp        lexer.Span
	ValueSp   lexer.Span
}

func (n *Field) Span() lexer.Span { return n.Sp }

// RegexField is `name op /pattern/`.
type RegexField struct {
	FieldName string
	Op        Operator
	Pattern   string // delimiters stripped
	Sp        lexer.Span
	ValueSp   lexer.Span
}

func (n *RegexField) Span() lexer.Span { return n.Sp }

// Bare is a standalone word or quoted phrase not attached to an operator.
type Bare struct {
	Value  string
	Quoted bool
	Sp     lexer.Span
}

func (n *Bare) Span() lexer.Span { return n.Sp }

// Exact is `!"name"`, an exact-name match.
type Exact struct {
	Value string
	Sp    lexer.Span
}

func (n *Exact) Span() lexer.Span { return n.Sp }

// Nop marks a malformed fragment that survives parsing so the breakdown
// display can still render something for it.
type Nop struct {
	Sp lexer.Span
}

func (n *Nop) Span() lexer.Span { return n.Sp }
