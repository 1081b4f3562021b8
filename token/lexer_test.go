package token

import (
	"testing"

	"github.com/halvorsen/tacc"
)

func contents(toks []tacc.Token) []string {
	out := make([]string, len(toks))
	for i, t := range toks {
		out[i] = t.Content
	}
	return out
}

func assertContents(t *testing.T, toks []tacc.Token, want []string) {
	t.Helper()
	got := contents(toks)
	if len(got) != len(want) {
		t.Fatalf("got %d tokens %v, want %d %v", len(got), got, len(want), want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("token %d: got %q, want %q", i, got[i], want[i])
		}
	}
}

func TestLexKeywordsIdentifiersAndPunctuation(t *testing.T) {
	toks, err := Lex("int f(int x) { return x; }")
	if err != nil {
		t.Fatalf("Lex: %v", err)
	}
	assertContents(t, toks, []string{
		"int", "f", "(", "int", "x", ")", "{", "return", "x", ";", "}", "$",
	})
	if toks[0].Kind != tacc.Kind("int") {
		t.Errorf("kind of 'int' = %q, want %q", toks[0].Kind, "int")
	}
	if toks[1].Kind != Identifier {
		t.Errorf("kind of 'f' = %q, want Identifier", toks[1].Kind)
	}
	if toks[len(toks)-1].Kind != tacc.EndOfInput {
		t.Errorf("last token kind = %q, want EndOfInput", toks[len(toks)-1].Kind)
	}
}

func TestLexMultiCharacterOperatorsPreferLongestMatch(t *testing.T) {
	toks, err := Lex("x == y != z += 1")
	if err != nil {
		t.Fatalf("Lex: %v", err)
	}
	assertContents(t, toks, []string{"x", "==", "y", "!=", "z", "+=", "1", "$"})
}

func TestLexNumber(t *testing.T) {
	toks, err := Lex("42")
	if err != nil {
		t.Fatalf("Lex: %v", err)
	}
	if len(toks) != 2 || toks[0].Kind != Number || toks[0].Content != "42" {
		t.Fatalf("tokens = %v", toks)
	}
}

func TestLexQuotedString(t *testing.T) {
	toks, err := Lex(`x = "hello world";`)
	if err != nil {
		t.Fatalf("Lex: %v", err)
	}
	assertContents(t, toks, []string{"x", "=", "hello world", ";", "$"})
	if toks[2].Kind != String {
		t.Errorf("kind of string literal = %q, want String", toks[2].Kind)
	}
}

func TestLexCharacterLiteral(t *testing.T) {
	toks, err := Lex(`char c = 'a';`)
	if err != nil {
		t.Fatalf("Lex: %v", err)
	}
	assertContents(t, toks, []string{"char", "c", "=", "a", ";", "$"})
	if toks[3].Kind != Character {
		t.Errorf("kind of char literal = %q, want Character", toks[3].Kind)
	}
}

func TestLexUnterminatedQuoteIsAnError(t *testing.T) {
	_, err := Lex(`x = "oops;`)
	if err == nil {
		t.Fatal("expected an error for an unterminated string literal")
	}
	if _, ok := err.(*Error); !ok {
		t.Fatalf("error type = %T, want *Error", err)
	}
}

func TestLexLineComment(t *testing.T) {
	toks, err := Lex("x = 1; // trailing comment\ny = 2;")
	if err != nil {
		t.Fatalf("Lex: %v", err)
	}
	assertContents(t, toks, []string{"x", "=", "1", ";", "y", "=", "2", ";", "$"})
}

func TestLexBlockCommentSpansMultipleLines(t *testing.T) {
	toks, err := Lex("x = 1; /* this\nspans several\nlines */ y = 2;")
	if err != nil {
		t.Fatalf("Lex: %v", err)
	}
	assertContents(t, toks, []string{"x", "=", "1", ";", "y", "=", "2", ";", "$"})
}

func TestLexUnrecognizedChunkIsAnErrorWithLineNumber(t *testing.T) {
	_, err := Lex("x = 1;\ny = @;")
	if err == nil {
		t.Fatal("expected an error for an unrecognized chunk")
	}
	le, ok := err.(*Error)
	if !ok {
		t.Fatalf("error type = %T, want *Error", err)
	}
	if le.Line != 2 {
		t.Errorf("Line = %d, want 2", le.Line)
	}
}

func TestLexEmptySourceStillEmitsEndOfInput(t *testing.T) {
	toks, err := Lex("")
	if err != nil {
		t.Fatalf("Lex: %v", err)
	}
	if len(toks) != 1 || toks[0].Kind != tacc.EndOfInput {
		t.Fatalf("tokens = %v, want just EndOfInput", toks)
	}
}
