package lexer

import (
	"testing"

	"github.com/schwa-lang/schwa/internal/token"
)

func kinds(toks []token.Token) []token.Kind {
	out := make([]token.Kind, len(toks))
	for i, t := range toks {
		out[i] = t.Kind
	}
	return out
}

func TestLexSimpleFunction(t *testing.T) {
	src := "int f(int a, int b)\n    return a + b\n"
	toks, errs := Lex(src)
	if len(errs) != 0 {
		t.Fatalf("unexpected lex errors: %v", errs)
	}
	got := kinds(toks)
	want := []token.Kind{
		token.KwInt, token.IDENT, token.LPAREN, token.KwInt, token.IDENT, token.COMMA,
		token.KwInt, token.IDENT, token.RPAREN, token.NEWLINE,
		token.INDENT, token.KwReturn, token.IDENT, token.PLUS, token.IDENT, token.NEWLINE,
		token.DEDENT, token.EOF,
	}
	if len(got) != len(want) {
		t.Fatalf("token count mismatch: got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("token %d: got %s, want %s", i, got[i], want[i])
		}
	}
}

func TestLexNestedIndentation(t *testing.T) {
	src := "struct Point\n    int x\n    int y\nvoid main()\n    p.x = 7\n"
	toks, errs := Lex(src)
	if len(errs) != 0 {
		t.Fatalf("unexpected lex errors: %v", errs)
	}
	var indents, dedents int
	for _, tk := range toks {
		switch tk.Kind {
		case token.INDENT:
			indents++
		case token.DEDENT:
			dedents++
		}
	}
	if indents != 2 || dedents != 2 {
		t.Fatalf("expected 2 INDENT/DEDENT pairs, got %d/%d", indents, dedents)
	}
}

func TestLexRotationOperators(t *testing.T) {
	toks, errs := Lex("a <| b |> c\n")
	if len(errs) != 0 {
		t.Fatalf("unexpected lex errors: %v", errs)
	}
	got := kinds(toks)
	want := []token.Kind{token.IDENT, token.ROTL, token.IDENT, token.ROTR, token.IDENT, token.NEWLINE, token.EOF}
	if len(got) != len(want) {
		t.Fatalf("token count mismatch: got %v", got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("token %d: got %s, want %s", i, got[i], want[i])
		}
	}
}

func TestLexCastKeywords(t *testing.T) {
	toks, _ := Lex("x as int\ny to float\n")
	got := kinds(toks)
	if got[1] != token.KwAs {
		t.Errorf("expected KwAs, got %s", got[1])
	}
	if got[5] != token.KwTo {
		t.Errorf("expected KwTo, got %s", got[5])
	}
}

func TestLexBlankLinesDoNotAffectIndentStack(t *testing.T) {
	src := "int f()\n\n    return 1\n"
	toks, errs := Lex(src)
	if len(errs) != 0 {
		t.Fatalf("unexpected lex errors: %v", errs)
	}
	indentCount := 0
	for _, tk := range toks {
		if tk.Kind == token.INDENT {
			indentCount++
		}
	}
	if indentCount != 1 {
		t.Fatalf("expected exactly one INDENT, got %d", indentCount)
	}
}

func TestLexUnexpectedCharacterRecovers(t *testing.T) {
	toks, errs := Lex("a $ b\n")
	if len(errs) != 1 {
		t.Fatalf("expected exactly one lex error, got %d: %v", len(errs), errs)
	}
	got := kinds(toks)
	want := []token.Kind{token.IDENT, token.IDENT, token.NEWLINE, token.EOF}
	if len(got) != len(want) {
		t.Fatalf("token count mismatch: got %v", got)
	}
}
