package parser

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/npillmayer/schuko/tracing"

	"github.com/halvorsen/tacc"
	"github.com/halvorsen/tacc/grammar"
	"github.com/halvorsen/tacc/lr"
)

// tracer traces with key 'tacc.parser'.
func tracer() tracing.Trace {
	return tracing.Select("tacc.parser")
}

// Error is the ParseError of spec.md §7: an empty ACTION cell, or a
// reduce whose top-of-stack symbols don't match the rule RHS. There is
// no recovery; the location is the lookahead index and parser state at
// the point of failure.
type Error struct {
	State     int
	Lookahead int
	Message   string
}

func (e *Error) Error() string {
	return fmt.Sprintf("parser: state %d, token %d: %s", e.State, e.Lookahead, e.Message)
}

// stackItem is one parallel entry across the three stacks of spec.md
// §4.3: a CFSM state, the grammar symbol it was pushed for, and the
// parse-tree fragment that symbol owns.
type stackItem struct {
	state  int
	symbol string
	node   Node
}

// Parse drives tables over tokens (terminated by a tacc.EndOfInput
// token) and returns the finished top-level node on success: the node
// "program" reduced to, which (program being pass-through) is the
// declarationList General.
func Parse(g *grammar.Grammar, tables *lr.Tables, tokens []tacc.Token) (Node, error) {
	stack := []stackItem{{state: 0}}
	pos := 0

	terminalKey := func(tok tacc.Token) string {
		if g.IsTerminal(string(tok.Kind)) {
			return string(tok.Kind)
		}
		return tok.Content
	}

	for {
		tok := tokens[pos]
		key := terminalKey(tok)
		top := stack[len(stack)-1]
		cell, ok := tables.Action[top.state][key]
		if !ok {
			return nil, &Error{State: top.state, Lookahead: pos, Message: fmt.Sprintf("no action for terminal %q", key)}
		}
		tracer().Debugf("state %d, lookahead %q -> %s", top.state, key, cell)

		switch {
		case strings.HasPrefix(cell, "s "):
			next, err := strconv.Atoi(strings.TrimPrefix(cell, "s "))
			if err != nil {
				return nil, &Error{State: top.state, Lookahead: pos, Message: "malformed shift cell"}
			}
			node := &Terminal{KindName: tok.Kind, Content: tok.Content, Span: tok.Span}
			stack = append(stack, stackItem{state: next, symbol: key, node: node})
			pos++

		case strings.HasPrefix(cell, "r "):
			lhs, alt, err := parseReduceCell(cell)
			if err != nil {
				return nil, &Error{State: top.state, Lookahead: pos, Message: err.Error()}
			}
			rhs := g.Alternatives(lhs)[alt]
			if len(stack)-1 < len(rhs) {
				return nil, &Error{State: top.state, Lookahead: pos, Message: "stack underflow on reduce"}
			}
			base := len(stack) - len(rhs)
			for i, sym := range rhs {
				if stack[base+i].symbol != sym {
					return nil, &Error{State: top.state, Lookahead: pos, Message: fmt.Sprintf(
						"reduce %s(%d): expected %q on stack, found %q", lhs, alt, sym, stack[base+i].symbol)}
				}
			}
			children := make([]Node, len(rhs))
			for i := range rhs {
				children[i] = stack[base+i].node
			}
			stack = stack[:base]

			if lhs == grammar.AugmentedStart {
				return children[0], nil
			}
			node := construct(lhs, alt, children)
			gotoState, ok := tables.Goto[stack[len(stack)-1].state][lhs]
			if !ok {
				return nil, &Error{State: top.state, Lookahead: pos, Message: fmt.Sprintf("no goto for %s", lhs)}
			}
			stack = append(stack, stackItem{state: gotoState, symbol: lhs, node: node})

		default:
			return nil, &Error{State: top.state, Lookahead: pos, Message: fmt.Sprintf("malformed action cell %q", cell)}
		}
	}
}

// parseReduceCell splits a "r <L> <k>" ACTION cell into its rule name
// and alternative index.
func parseReduceCell(cell string) (string, int, error) {
	fields := strings.Fields(cell)
	if len(fields) != 3 || fields[0] != "r" {
		return "", 0, fmt.Errorf("malformed reduce cell %q", cell)
	}
	k, err := strconv.Atoi(fields[2])
	if err != nil {
		return "", 0, fmt.Errorf("malformed reduce cell %q: %w", cell, err)
	}
	return fields[1], k, nil
}
