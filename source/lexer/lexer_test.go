package lexer

import (
	"testing"

	"github.com/kelp-lang/kelp/source/token"
)

func collect(src string) []token.Token {
	l := New(src)
	var toks []token.Token
	for {
		t := l.Next()
		toks = append(toks, t)
		if t.Type == token.EOF {
			return toks
		}
	}
}

func TestPunctuationAndOperators(t *testing.T) {
	tests := []struct {
		src  string
		want []token.Type
	}{
		{"(+ 1 2)", []token.Type{token.LPAREN, token.PLUS, token.NUMBER, token.NUMBER, token.RPAREN, token.EOF}},
		{"+= -= *= /= //= %=", []token.Type{token.PLUS_EQ, token.MINUS_EQ, token.STAR_EQ, token.SLASH_EQ, token.FSLASH_EQ, token.PERCENT_EQ, token.EOF}},
		{"!= == <= >= || &&", []token.Type{token.NOT_EQ, token.EQ, token.LT_EQ, token.GT_EQ, token.BAR_BAR, token.AMP_AMP, token.EOF}},
		{"// /", []token.Type{token.FSLASH, token.SLASH, token.EOF}},
	}
	for _, tt := range tests {
		toks := collect(tt.src)
		if len(toks) != len(tt.want) {
			t.Fatalf("%q: got %d tokens, want %d (%v)", tt.src, len(toks), len(tt.want), toks)
		}
		for i, want := range tt.want {
			if toks[i].Type != want {
				t.Fatalf("%q: token %d = %v, want %v", tt.src, i, toks[i].Type, want)
			}
		}
	}
}

func TestKeywordsAndIdentifiers(t *testing.T) {
	toks := collect("let x fun y while true false undefined")
	want := []token.Type{token.KW_LET, token.IDENT, token.KW_FUN, token.IDENT, token.KW_WHILE, token.KW_TRUE, token.KW_FALSE, token.KW_UNDEFINED, token.EOF}
	if len(toks) != len(want) {
		t.Fatalf("got %d tokens, want %d: %v", len(toks), len(want), toks)
	}
	for i, w := range want {
		if toks[i].Type != w {
			t.Fatalf("token %d = %v, want %v", i, toks[i].Type, w)
		}
	}
}

func TestNumberBases(t *testing.T) {
	tests := []struct {
		src  string
		want float64
	}{
		{"42", 42},
		{"0x2A", 42},
		{"0o52", 42},
		{"0b101010", 42},
		{"3.5", 3.5},
	}
	for _, tt := range tests {
		toks := collect(tt.src)
		if toks[0].Type != token.NUMBER {
			t.Fatalf("%q: got %v, want NUMBER", tt.src, toks[0].Type)
		}
		if toks[0].Num != tt.want {
			t.Fatalf("%q: got %v, want %v", tt.src, toks[0].Num, tt.want)
		}
	}
}

func TestInvalidDigitUnderBase(t *testing.T) {
	toks := collect("0b102")
	if toks[0].Type != token.ERROR {
		t.Fatalf("got %v, want ERROR", toks[0].Type)
	}
}

func TestStringEscapes(t *testing.T) {
	toks := collect(`"a\nb\tc\\\"d"`)
	if toks[0].Type != token.STRING {
		t.Fatalf("got %v, want STRING", toks[0].Type)
	}
	want := "a\nb\tc\\\"d"
	if toks[0].Str != want {
		t.Fatalf("got %q, want %q", toks[0].Str, want)
	}
}

func TestUnclosedString(t *testing.T) {
	toks := collect(`"abc`)
	if toks[0].Type != token.ERROR {
		t.Fatalf("got %v, want ERROR", toks[0].Type)
	}
	if toks[0].Str != "unclosed string" {
		t.Fatalf("got %q", toks[0].Str)
	}
}

func TestCommentsAndWhitespaceSkipped(t *testing.T) {
	toks := collect("# a comment\n  42 # trailing\n")
	if toks[0].Type != token.NUMBER || toks[0].Num != 42 {
		t.Fatalf("got %v", toks[0])
	}
	if toks[1].Type != token.EOF {
		t.Fatalf("got %v, want EOF", toks[1].Type)
	}
}

func TestLineColumnTracking(t *testing.T) {
	toks := collect("1\n  2")
	if toks[0].Pos.Line != 1 || toks[0].Pos.Column != 1 {
		t.Fatalf("got %v", toks[0].Pos)
	}
	if toks[1].Pos.Line != 2 || toks[1].Pos.Column != 3 {
		t.Fatalf("got %v", toks[1].Pos)
	}
}

func TestPeekDoesNotConsume(t *testing.T) {
	l := New("1 2")
	p := l.Peek()
	if p.Num != 1 {
		t.Fatalf("peek got %v", p)
	}
	n := l.Next()
	if n.Num != 1 {
		t.Fatalf("next got %v", n)
	}
	n2 := l.Next()
	if n2.Num != 2 {
		t.Fatalf("next got %v", n2)
	}
}

func TestEOFIsIdempotent(t *testing.T) {
	l := New("")
	a := l.Next()
	b := l.Next()
	if a.Type != token.EOF || b.Type != token.EOF {
		t.Fatalf("got %v, %v", a.Type, b.Type)
	}
}
