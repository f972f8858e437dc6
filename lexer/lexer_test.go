package lexer_test

import (
	"testing"

	"github.com/jimbojw/franticsearch/lexer"
)

func kinds(toks []lexer.Token) []lexer.Kind {
	out := make([]lexer.Kind, len(toks))
	for i, t := range toks {
		out[i] = t.Kind
	}
	return out
}

func TestWordWithEmbeddedSlash(t *testing.T) {
	toks := lexer.Tokenize("foo/bar")
	if len(toks) != 2 || toks[0].Kind != lexer.WORD || toks[0].Value != "foo/bar" {
		t.Fatalf("got %#v", toks)
	}
}

func TestBareRegex(t *testing.T) {
	toks := lexer.Tokenize("/foo/")
	if toks[0].Kind != lexer.REGEX || toks[0].Value != "/foo/" || !toks[0].Closed {
		t.Fatalf("got %#v", toks[0])
	}
}

func TestUnclosedRegexAtEOF(t *testing.T) {
	toks := lexer.Tokenize("/foo")
	if toks[0].Kind != lexer.REGEX || toks[0].Closed {
		t.Fatalf("expected unclosed regex, got %#v", toks[0])
	}
}

func TestUnclosedQuote(t *testing.T) {
	toks := lexer.Tokenize(`"Lightning Bolt`)
	if toks[0].Kind != lexer.QUOTED || toks[0].Closed {
		t.Fatalf("expected unclosed quote, got %#v", toks[0])
	}
}

func TestOperatorGreediness(t *testing.T) {
	toks := lexer.Tokenize("pow>=4")
	want := []lexer.Kind{lexer.WORD, lexer.GTE, lexer.WORD, lexer.EOF}
	got := kinds(toks)
	if len(got) != len(want) {
		t.Fatalf("got %v want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("got %v want %v", got, want)
		}
	}
	if toks[1].Kind != lexer.GTE {
		t.Fatalf("expected >= to be tokenized greedily, got %v", toks[1].Kind)
	}
}

func TestBangThenQuoteIsNotNotQuoted(t *testing.T) {
	toks := lexer.Tokenize(`!"Lightning Bolt"`)
	if toks[0].Kind != lexer.BANG {
		t.Fatalf("expected BANG, got %v", toks[0].Kind)
	}
	if toks[1].Kind != lexer.QUOTED {
		t.Fatalf("expected QUOTED, got %v", toks[1].Kind)
	}
}

func TestBareOrCaseInsensitive(t *testing.T) {
	for _, s := range []string{"or", "OR", "Or"} {
		toks := lexer.Tokenize("t:creature " + s + " t:land")
		found := false
		for _, tok := range toks {
			if tok.Kind == lexer.OR {
				found = true
			}
		}
		if !found {
			t.Fatalf("expected OR token for %q", s)
		}
	}
}

func TestSpansAreByteIndexed(t *testing.T) {
	toks := lexer.Tokenize("c:green")
	if toks[0].Span.Start != 0 || toks[0].Span.End != 1 {
		t.Fatalf("got span %#v", toks[0].Span)
	}
}
