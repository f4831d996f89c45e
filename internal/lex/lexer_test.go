package lex

import "testing"

func tokenize(t *testing.T, input string) []Token {
	t.Helper()
	l := New(input)
	var toks []Token
	for {
		tok, err := l.Next()
		if err != nil {
			t.Fatalf("tokenize(%q): %s", input, err)
		}
		toks = append(toks, tok)
		if tok.Kind == End {
			return toks
		}
	}
}

func TestLexerTokenKinds(t *testing.T) {
	tests := []struct {
		summary string
		input   string
		kinds   []Kind
	}{
		{"identifier", "City", []Kind{Identifier, End}},
		{"sigils", "$ ^ ~", []Kind{Identifier, Identifier, Identifier, End}},
		{"positional param", "@0", []Kind{Identifier, End}},
		{"binary expr", "City = @0", []Kind{Identifier, Equal, Identifier, End}},
		{"and or not", "a and b or not c", []Kind{Identifier, Identifier, Identifier, Identifier, Identifier, Identifier, End}},
		{"operators", "!= && <= <> == >= || >> << = < >", []Kind{
			BangEqual, AmpAmp, LessEqual, NotEqual, EqualEqual, GreaterEqual,
			PipePipe, GreaterGreater, LessLess, Equal, Less, Greater, End,
		}},
		{"member chain", "Orders.Count", []Kind{Identifier, Dot, Identifier, End}},
		{"integer", "42", []Kind{IntegerLiteral, End}},
		{"real", "3.14", []Kind{RealLiteral, End}},
		{"real exponent", "1e10", []Kind{RealLiteral, End}},
		{"real exponent signed", "1E-10", []Kind{RealLiteral, End}},
		{"int then dot member", "0.ToString", []Kind{IntegerLiteral, Dot, Identifier, End}},
		{"suffixed literal", "10L", []Kind{IntegerLiteral, End}},
		{"suffixed real", "1.5F", []Kind{RealLiteral, End}},
		{"string literal", `"hi"`, []Kind{StringLiteral, End}},
		{"single quoted", `'x'`, []Kind{StringLiteral, End}},
		{"paren list", "(1,2,3)", []Kind{LParen, IntegerLiteral, Comma, IntegerLiteral, Comma, IntegerLiteral, RParen, End}},
	}

	for _, tc := range tests {
		t.Run(tc.summary, func(t *testing.T) {
			toks := tokenize(t, tc.input)
			if len(toks) != len(tc.kinds) {
				t.Fatalf("got %d tokens, want %d: %v", len(toks), len(tc.kinds), toks)
			}
			for i, tok := range toks {
				if tok.Kind != tc.kinds[i] {
					t.Errorf("token %d: got %s, want %s", i, tok.Kind, tc.kinds[i])
				}
			}
		})
	}
}

func TestLexerDoubledQuoteEscape(t *testing.T) {
	toks := tokenize(t, `"a""b"`)
	if toks[0].Text != `a"b` {
		t.Fatalf("got %q, want %q", toks[0].Text, `a"b`)
	}
}

func TestLexerUnterminatedString(t *testing.T) {
	l := New(`"abc`)
	if _, err := l.Next(); err == nil {
		t.Fatalf("expected error for unterminated string")
	}
}

func TestLexerBadCharacterLiteral(t *testing.T) {
	l := New(`'ab'`)
	if _, err := l.Next(); err == nil {
		t.Fatalf("expected error for multi-char literal")
	}
}

func TestLexerUnexpectedCharacter(t *testing.T) {
	l := New("§")
	if _, err := l.Next(); err == nil {
		t.Fatalf("expected error for unexpected character")
	}
}

func TestLexerPositions(t *testing.T) {
	toks := tokenize(t, "a = b")
	want := []int{0, 2, 4, 5}
	for i, tok := range toks {
		if tok.Pos != want[i] {
			t.Errorf("token %d: got pos %d, want %d", i, tok.Pos, want[i])
		}
	}
}
