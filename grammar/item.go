package grammar

import (
	"fmt"
	"strings"
)

// Item is an LR(1) item: (L, α, dot-position k, lookahead-terminal t).
// RHS is stored as the space-joined concatenation of the chosen RHS
// alternative, which makes Item a plain comparable value (usable as a
// map key and directly in an iteratable.Set), the same representation
// the original compiler used internally (Item.rhs = " ".join(rule)).
//
// Two items are equal iff all four fields match (spec.md §3); since
// Item is a comparable struct of strings and an int, Go's built-in `==`
// already implements that equality.
type Item struct {
	LHS       string
	RHS       string
	Dot       int
	Lookahead string
}

// NewItem builds an Item from an RHS symbol slice.
func NewItem(lhs string, rhs []string, dot int, lookahead string) Item {
	return Item{LHS: lhs, RHS: strings.Join(rhs, " "), Dot: dot, Lookahead: lookahead}
}

// Symbols returns the RHS as a slice of symbols.
func (it Item) Symbols() []string {
	if it.RHS == "" {
		return nil
	}
	return strings.Split(it.RHS, " ")
}

// PendingSymbol returns the symbol directly after the dot, or "" if the
// dot is at or past the end of the RHS (the original's getRightAfter).
func (it Item) PendingSymbol() string {
	rhs := it.Symbols()
	if it.Dot >= len(rhs) {
		return ""
	}
	return rhs[it.Dot]
}

// Tail returns every symbol after the one directly following the dot
// (the original's getAfter).
func (it Item) Tail() []string {
	rhs := it.Symbols()
	if it.Dot+1 >= len(rhs) {
		return nil
	}
	return rhs[it.Dot+1:]
}

// PrecedingSymbol returns the symbol directly before the dot, or "" if
// the dot is at the start (the original's getRightBefore).
func (it Item) PrecedingSymbol() string {
	rhs := it.Symbols()
	if it.Dot-1 < 0 || it.Dot-1 >= len(rhs) {
		return ""
	}
	return rhs[it.Dot-1]
}

// AtEnd reports whether the dot has consumed the entire RHS.
func (it Item) AtEnd() bool {
	return it.Dot >= len(it.Symbols())
}

// Advance returns a copy of it with the dot moved one position right.
func (it Item) Advance() Item {
	return Item{LHS: it.LHS, RHS: it.RHS, Dot: it.Dot + 1, Lookahead: it.Lookahead}
}

// WithLookahead returns a copy of it with a different lookahead.
func (it Item) WithLookahead(look string) Item {
	return Item{LHS: it.LHS, RHS: it.RHS, Dot: it.Dot, Lookahead: look}
}

func (it Item) String() string {
	rhs := it.Symbols()
	consumed := strings.Join(rhs[:min(it.Dot, len(rhs))], " ")
	pending := strings.Join(rhs[min(it.Dot, len(rhs)):], " ")
	return fmt.Sprintf("[%s -> %s.%s, %s]", it.LHS, consumed, pending, it.Lookahead)
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}
