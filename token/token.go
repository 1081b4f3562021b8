/*
Package token defines the token-stream contract between a lexer and
the parser (spec.md §3, §6), and a line-based lexer for this module's
source language.
*/
package token

import (
	"fmt"

	"github.com/npillmayer/schuko/tracing"

	"github.com/halvorsen/tacc"
)

// tracer traces with key 'tacc.token'.
func tracer() tracing.Trace {
	return tracing.Select("tacc.token")
}

// Typed kinds the parser matches by kind name rather than by literal
// content (spec.md §4.3 "Terminal selection rule").
const (
	Identifier tacc.Kind = "identifier"
	Number     tacc.Kind = "constNum"
	String     tacc.Kind = "string"
	Character  tacc.Kind = "character"
	FileName   tacc.Kind = "fileName"
)

// Keywords maps a reserved word to its own kind (the kind name equals
// the word itself, per spec.md §6 "one per keyword"). `int`/`char`/
// `void` are ordinary keywords here; the grammar's `typeSpecifier` is a
// non-terminal reducing to one of them, not a lexical kind of its own.
var Keywords = map[string]bool{
	"if": true, "else": true, "while": true, "return": true,
	"break": true, "int": true, "void": true, "char": true,
}

// Punctuation lists the literal punctuation symbols recognized as
// terminals, longest first so the lexer's greedy symbol match prefers
// multi-character operators over their single-character prefixes.
var Punctuation = []string{
	"==", "!=", "<=", ">=", "+=", "-=", "++", "--", "&&", "||",
	"(", ")", "{", "}", "[", "]", ";", ",", ":", "=", "+", "-", "*", "/", "%",
	"<", ">", "!",
}

// Error is the LexError of spec.md §7: an unrecognized chunk or an
// unterminated quoted literal.
type Error struct {
	Line    int
	Text    string
	Message string
}

func (e *Error) Error() string {
	return fmt.Sprintf("token: line %d: %s: %q", e.Line, e.Message, e.Text)
}

func keywordKind(word string) tacc.Kind {
	return tacc.Kind(word)
}
