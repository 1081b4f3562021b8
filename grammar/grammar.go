/*
Package grammar parses a plain-text BNF-like grammar file into a rule
set, and partitions the symbols that appear in it into terminals and
non-terminals (spec.md §3, §4.1).
*/
package grammar

import (
	"fmt"
	"strings"

	"github.com/npillmayer/schuko/tracing"
)

// tracer traces with key 'tacc.grammar'.
func tracer() tracing.Trace {
	return tracing.Select("tacc.grammar")
}

// AugmentedStart is the left-hand side of the prepended augmenting rule
// "ACC -> program", always present in a loaded Grammar.
const AugmentedStart = "ACC"

// EndOfInput is the lookahead of the augmented start item.
const EndOfInput = "$"

// Error is the GrammarError of spec.md §7: a malformed grammar line
// (missing "->").
type Error struct {
	Line    int
	Text    string
	Message string
}

func (e *Error) Error() string {
	return fmt.Sprintf("grammar: line %d: %s: %q", e.Line, e.Message, e.Text)
}

// Grammar is a loaded rule set, partitioned into terminals and
// non-terminals per spec.md §3.
type Grammar struct {
	// Rules maps a left-hand non-terminal to its ordered list of
	// right-hand alternatives. Alternative order is significant: it
	// becomes the reduction index embedded in the ACTION table.
	Rules map[string][][]string

	// NonTerminals is the set of symbols appearing on some LHS, in
	// first-appearance order.
	NonTerminals []string

	// Terminals is the set of symbols appearing on some RHS that are
	// not non-terminals, in first-appearance order.
	Terminals []string

	nonTerminalSet map[string]bool
	terminalSet    map[string]bool
}

// IsNonTerminal reports whether sym is a left-hand-side symbol.
func (g *Grammar) IsNonTerminal(sym string) bool {
	return g.nonTerminalSet[sym]
}

// IsTerminal reports whether sym is a terminal (appears on some RHS and
// is not a non-terminal).
func (g *Grammar) IsTerminal(sym string) bool {
	return g.terminalSet[sym]
}

// Alternatives returns the ordered RHS alternatives for a non-terminal,
// or nil if lhs is unknown.
func (g *Grammar) Alternatives(lhs string) [][]string {
	return g.Rules[lhs]
}

// AlternativeIndex returns the position of rhs within rules[lhs], or -1
// if no such alternative exists. rhs is compared element-wise.
func (g *Grammar) AlternativeIndex(lhs string, rhs []string) int {
	for i, alt := range g.Rules[lhs] {
		if sameSymbols(alt, rhs) {
			return i
		}
	}
	return -1
}

func sameSymbols(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// Load parses a textual grammar: one rule per line, format
// "LHS -> a1 a2 … | b1 b2 … | …". Blank lines and lines beginning with
// "#" are ignored. Tokens are split on single spaces. The augmenting
// rule "ACC -> program" is always prepended.
func Load(text string) (*Grammar, error) {
	g := &Grammar{
		Rules:          map[string][][]string{AugmentedStart: {{"program"}}},
		nonTerminalSet: map[string]bool{},
		terminalSet:    map[string]bool{},
	}
	g.NonTerminals = append(g.NonTerminals, AugmentedStart)
	g.nonTerminalSet[AugmentedStart] = true

	for lineNum, line := range strings.Split(text, "\n") {
		line = strings.TrimRight(line, "\r")
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		tokens := strings.Split(line, " ")
		if len(tokens) < 2 || tokens[1] != "->" {
			tracer().Errorf("malformed grammar line %d (missing '->'): %q", lineNum+1, line)
			return nil, &Error{Line: lineNum + 1, Text: line, Message: "expected 'LHS -> ...'"}
		}
		lhs := tokens[0]
		rest := tokens[2:]

		var alt []string
		var alts [][]string
		for _, tok := range rest {
			if tok == "|" {
				alts = append(alts, alt)
				alt = nil
				continue
			}
			alt = append(alt, tok)
		}
		alts = append(alts, alt)

		if !g.nonTerminalSet[lhs] {
			g.NonTerminals = append(g.NonTerminals, lhs)
			g.nonTerminalSet[lhs] = true
		}
		g.Rules[lhs] = append(g.Rules[lhs], alts...)
	}

	// Any symbol appearing on a LHS is a non-terminal; this may
	// reclassify symbols already seen on a RHS as terminals, so we
	// collect terminal candidates only after every LHS is known.
	var termCandidates []string
	seen := map[string]bool{}
	for _, lhs := range g.NonTerminals {
		for _, alt := range g.Rules[lhs] {
			for _, sym := range alt {
				if g.nonTerminalSet[sym] || seen[sym] {
					continue
				}
				seen[sym] = true
				termCandidates = append(termCandidates, sym)
			}
		}
	}
	for _, sym := range termCandidates {
		if !g.nonTerminalSet[sym] {
			g.Terminals = append(g.Terminals, sym)
			g.terminalSet[sym] = true
		}
	}
	return g, nil
}
