// Package parser builds the Frantic Search AST from a token stream. It
// never fails: malformed fragments become ast.Nop nodes that carry the
// offending span, matching the teacher's total-parser philosophy (cf.
// oarkflow-sqlparser/parser, which instead returns *ParseError — here the
// spec requires the parser to always produce a tree).
package parser

import (
	"strings"

	"github.com/jimbojw/franticsearch/ast"
	"github.com/jimbojw/franticsearch/lexer"
)

// Parser holds one token of lookahead over a lexer, in the teacher's shape.
type Parser struct {
	lex  *lexer.Lexer
	tok  lexer.Token
	peek lexer.Token
	has  bool
}

// Parse parses a complete query string into an AST. It always succeeds;
// unparseable fragments are represented by ast.Nop nodes in place.
func Parse(query string) ast.Node {
	p := &Parser{lex: lexer.New(query)}
	p.tok = p.lex.Next()
	node := p.parseOr()
	if p.tok.Kind != lexer.EOF {
		nop := &ast.Nop{Sp: lexer.Span{Start: p.tok.Span.Start, End: len(query)}}
		node = combine(node, nop)
	}
	if node == nil {
		return &ast.Nop{Sp: lexer.Span{Start: 0, End: len(query)}}
	}
	return node
}

func (p *Parser) advance() lexer.Token {
	prev := p.tok
	if p.has {
		p.tok = p.peek
		p.has = false
	} else {
		p.tok = p.lex.Next()
	}
	return prev
}

func (p *Parser) peekToken() lexer.Token {
	if !p.has {
		p.peek = p.lex.Next()
		p.has = true
	}
	return p.peek
}

// combine merges two sibling nodes into an implicit AND, in source order.
// A nil operand is dropped.
func combine(a, b ast.Node) ast.Node {
	if a == nil {
		return b
	}
	if b == nil {
		return a
	}
	children := []ast.Node{a, b}
	if and, ok := a.(*ast.And); ok {
		children = append(append([]ast.Node{}, and.Children...), b)
	}
	return &ast.And{Children: children, Sp: lexer.Span{Start: a.Span().Start, End: b.Span().End}}
}

// withSpan rewrites a node's span in place, used when parentheses widen a
// node's source coverage to include the grouping punctuation.
func withSpan(n ast.Node, sp lexer.Span) ast.Node {
	switch v := n.(type) {
	case *ast.And:
		v.Sp = sp
	case *ast.Or:
		v.Sp = sp
	case *ast.Not:
		v.Sp = sp
	case *ast.Field:
		v.Sp = sp
	case *ast.RegexField:
		v.Sp = sp
	case *ast.Bare:
		v.Sp = sp
	case *ast.Exact:
		v.Sp = sp
	case *ast.Nop:
		v.Sp = sp
	}
	return n
}

// parseOr parses `andExpr (OR andExpr)*`: OR binds weaker than implicit AND.
func (p *Parser) parseOr() ast.Node {
	first := p.parseAnd()
	if p.tok.Kind != lexer.OR {
		return first
	}
	children := []ast.Node{}
	if first != nil {
		children = append(children, first)
	}
	start := 0
	if first != nil {
		start = first.Span().Start
	} else {
		start = p.tok.Span.Start
	}
	end := start
	if first != nil {
		end = first.Span().End
	}
	for p.tok.Kind == lexer.OR {
		p.advance()
		next := p.parseAnd()
		if next != nil {
			children = append(children, next)
			end = next.Span().End
		}
	}
	if len(children) <= 1 {
		if len(children) == 1 {
			return children[0]
		}
		return nil
	}
	return &ast.Or{Children: children, Sp: lexer.Span{Start: start, End: end}}
}

// parseAnd parses a maximal run of adjacent notExpr terms as an implicit
// conjunction in source order.
func (p *Parser) parseAnd() ast.Node {
	var children []ast.Node
	for p.startsPrimary() {
		n := p.parseNot()
		if n != nil {
			children = append(children, n)
		}
	}
	switch len(children) {
	case 0:
		return nil
	case 1:
		return children[0]
	default:
		return &ast.And{Children: children, Sp: lexer.Span{Start: children[0].Span().Start, End: children[len(children)-1].Span().End}}
	}
}

func (p *Parser) startsPrimary() bool {
	switch p.tok.Kind {
	case lexer.EOF, lexer.RPAREN, lexer.OR:
		return false
	default:
		return true
	}
}

// parseNot parses a prefix negation or, when a BANG is immediately
// followed by a QUOTED token with no gap, an EXACT node instead.
func (p *Parser) parseNot() ast.Node {
	if p.tok.Kind == lexer.BANG && p.peekToken().Kind == lexer.QUOTED && p.tok.Span.End == p.peekToken().Span.Start {
		bang := p.advance()
		q := p.advance()
		return &ast.Exact{Value: unquote(q.Value), Sp: lexer.Span{Start: bang.Span.Start, End: q.Span.End}}
	}
	if p.tok.Kind == lexer.DASH || p.tok.Kind == lexer.BANG {
		op := p.advance()
		child := p.parseNot()
		if child == nil {
			return &ast.Nop{Sp: op.Span}
		}
		return &ast.Not{Child: child, Sp: lexer.Span{Start: op.Span.Start, End: child.Span().End}}
	}
	return p.parsePrimary()
}

// parsePrimary parses a parenthesized group, a field/regex-field term, a
// bare regex, or a bare word/quoted term.
func (p *Parser) parsePrimary() ast.Node {
	switch p.tok.Kind {
	case lexer.LPAREN:
		open := p.advance()
		inner := p.parseOr()
		if p.tok.Kind == lexer.RPAREN {
			close := p.advance()
			if inner == nil {
				return &ast.Nop{Sp: lexer.Span{Start: open.Span.Start, End: close.Span.End}}
			}
			return withSpan(inner, lexer.Span{Start: open.Span.Start, End: close.Span.End})
		}
		// Unclosed paren: seal is a query-editor concern; the parser just
		// treats the group as extending to whatever was parsed.
		if inner == nil {
			return &ast.Nop{Sp: open.Span}
		}
		return withSpan(inner, lexer.Span{Start: open.Span.Start, End: inner.Span().End})

	case lexer.REGEX:
		tok := p.advance()
		return &ast.RegexField{FieldName: "", Op: ast.OpColon, Pattern: unregex(tok), Sp: tok.Span, ValueSp: tok.Span}

	case lexer.WORD:
		if op, ok := ast.OperatorFromToken(p.peekToken().Kind); ok && p.tok.Span.End == p.peekToken().Span.Start {
			return p.parseField(op)
		}
		tok := p.advance()
		return &ast.Bare{Value: tok.Value, Quoted: false, Sp: tok.Span}

	case lexer.QUOTED:
		tok := p.advance()
		return &ast.Bare{Value: unquote(tok.Value), Quoted: true, Sp: tok.Span}

	case lexer.OR:
		// A bare "or" that didn't get consumed as an infix operator (e.g.
		// leading the query) is treated as a literal bare word.
		tok := p.advance()
		return &ast.Bare{Value: tok.Value, Quoted: false, Sp: tok.Span}

	default:
		tok := p.advance()
		return &ast.Nop{Sp: tok.Span}
	}
}

// parseField consumes `name op value` once the name/operator adjacency has
// already been confirmed by the caller.
func (p *Parser) parseField(op ast.Operator) ast.Node {
	name := p.advance()
	opTok := p.advance()
	fieldName := strings.ToLower(name.Value)

	switch p.tok.Kind {
	case lexer.REGEX:
		val := p.advance()
		return &ast.RegexField{
			FieldName: fieldName,
			Op:        op,
			Pattern:   unregex(val),
			Sp:        lexer.Span{Start: name.Span.Start, End: val.Span.End},
			ValueSp:   val.Span,
		}
	case lexer.WORD, lexer.OR:
		val := p.advance()
		return &ast.Field{
			FieldName: fieldName,
			Op:        op,
			Value:     val.Value,
			Quoted:    false,
			Sp:        lexer.Span{Start: name.Span.Start, End: val.Span.End},
			ValueSp:   val.Span,
		}
	case lexer.QUOTED:
		val := p.advance()
		return &ast.Field{
			FieldName: fieldName,
			Op:        op,
			Value:     unquote(val.Value),
			Quoted:    true,
			Sp:        lexer.Span{Start: name.Span.Start, End: val.Span.End},
			ValueSp:   val.Span,
		}
	default:
		// `name op` with nothing usable after it: malformed fragment.
		return &ast.Nop{Sp: lexer.Span{Start: name.Span.Start, End: opTok.Span.End}}
	}
}

// unquote strips a QUOTED token's delimiters (which may be absent on the
// closing side) and resolves backslash escapes: as in the lexer, a
// backslash makes the byte after it literal.
func unquote(raw string) string {
	if len(raw) == 0 {
		return raw
	}
	delim := raw[0]
	body := raw[1:]
	if len(body) > 0 && body[len(body)-1] == delim {
		// Only strip the trailing delimiter if it isn't the escaped one:
		// after an odd run of backslashes the lexer left the token open.
		backslashes := 0
		for i := len(body) - 2; i >= 0 && body[i] == '\\'; i-- {
			backslashes++
		}
		if backslashes%2 == 0 {
			body = body[:len(body)-1]
		}
	}
	var b strings.Builder
	for i := 0; i < len(body); i++ {
		if body[i] == '\\' && i+1 < len(body) {
			b.WriteByte(body[i+1])
			i++
			continue
		}
		b.WriteByte(body[i])
	}
	return b.String()
}

// unregex strips a REGEX token's slash delimiters (the closing slash may
// be absent at end-of-input).
func unregex(tok lexer.Token) string {
	raw := tok.Value
	if len(raw) == 0 {
		return raw
	}
	body := raw[1:]
	if tok.Closed && len(body) > 0 {
		body = body[:len(body)-1]
	}
	return body
}
