/*
Package lr constructs the canonical LR(1) automaton for a grammar and
emits ACTION/GOTO tables (spec.md §4.2), following the textbook
algorithm the original compiler implements: closure, lookahead
"cleaning" (expanding a non-terminal lookahead into the first symbols of
its alternatives), successor construction, and merging of equivalent
item sets.
*/
package lr

import (
	"sort"

	"github.com/emirpasic/gods/lists/arraylist"
	"github.com/emirpasic/gods/sets/treeset"
	"github.com/emirpasic/gods/utils"
	"github.com/npillmayer/schuko/tracing"

	"github.com/halvorsen/tacc/grammar"
	"github.com/halvorsen/tacc/lr/iteratable"
)

// tracer traces with key 'tacc.lr'.
func tracer() tracing.Trace {
	return tracing.Select("tacc.lr")
}

// TableConflict records a shift/reduce or reduce/reduce conflict: a
// second write to an already-occupied ACTION cell. spec.md §4.2 says
// conflicts SHOULD be reported; the builder does not change parsing
// behavior because of one (the later write still silently wins), it
// only makes conflicts observable via Builder.Conflicts().
type TableConflict struct {
	State    int
	Terminal string
	Previous string
	New      string
}

type stateRec struct {
	items *iteratable.Set
	done  bool
}

type edge struct {
	from  int
	label string
	to    int
}

// Builder constructs the canonical collection of LR(1) item sets for a
// Grammar and emits ACTION/GOTO tables from it.
type Builder struct {
	g           *grammar.Grammar
	states      map[int]*stateRec
	order       *treeset.Set // live state IDs, ascending
	transitions map[int]map[string]int
	edges       *arraylist.List // for debugging/export only
	nextID      int
	conflicts   []TableConflict
}

// NewBuilder creates a Builder for g. State 0 is seeded with the single
// item (ACC, program, 0, $).
func NewBuilder(g *grammar.Grammar) *Builder {
	b := &Builder{
		g:           g,
		states:      map[int]*stateRec{},
		order:       treeset.NewWith(utils.IntComparator),
		transitions: map[int]map[string]int{},
		edges:       arraylist.New(),
		nextID:      1,
	}
	start := grammar.NewItem(grammar.AugmentedStart, []string{"program"}, 0, grammar.EndOfInput)
	b.states[0] = &stateRec{items: iteratable.NewSet(start)}
	b.order.Add(0)
	return b
}

// Conflicts returns every TableConflict observed while building the
// ACTION table.
func (b *Builder) Conflicts() []TableConflict {
	return b.conflicts
}

// Tables is the pair of ACTION/GOTO tables produced by Build, in the
// exact cell shapes spec.md §4.2/§6 persists to the cache file.
type Tables struct {
	// Action[state][terminal] is "s <j>" (shift to state j),
	// "r <L> <k>" (reduce by rules[L][k]), or absent (parse error).
	Action map[int]map[string]string
	// Goto[state][nonTerminal] = target state.
	Goto map[int]map[string]int
}

// Build runs the full canonical-LR(1) construction and returns the
// emitted ACTION/GOTO tables.
func (b *Builder) Build() *Tables {
	for {
		next := b.nextUnprocessed()
		if next == -1 {
			break
		}
		rec := b.states[next]
		rec.done = true
		b.closure(next)
		b.clean(next)
		// A closed state equal to an earlier one is merged away before it
		// spawns successors of its own; only pairs involving it can be
		// equal here, so it keeps its ID unless it was the one deleted.
		for b.mergeOnce() {
		}
		if b.states[next] != rec {
			continue
		}
		b.createSuccessors(next)
		for b.mergeOnce() {
		}
	}
	return b.buildActionGoto()
}

func (b *Builder) nextUnprocessed() int {
	for _, v := range b.order.Values() {
		id := v.(int)
		if !b.states[id].done {
			return id
		}
	}
	return -1
}

// closure repeatedly extends state i: for every item whose pending
// symbol A is a non-terminal, for every alternative β of A, add the
// item (A, β, 0, look) where look is the first symbol after A in the
// current item's pending tail, falling back to the current item's own
// lookahead if none. A growing step-wise iteration over the set
// achieves the same fixed point as the spec's "repeat full passes until
// one adds nothing".
func (b *Builder) closure(i int) {
	set := b.states[i].items
	set.IterateOnce()
	for set.Next() {
		cur := set.Item().(grammar.Item)
		a := cur.PendingSymbol()
		if a == "" || !b.g.IsNonTerminal(a) {
			continue
		}
		following := cur.Lookahead
		if tail := cur.Tail(); len(tail) > 0 {
			following = tail[0]
		}
		for _, alt := range b.g.Alternatives(a) {
			set.Add(grammar.NewItem(a, alt, 0, following))
		}
	}
}

// clean expands every item whose lookahead is itself a non-terminal L
// into one copy per alternative of L, with lookahead set to that
// alternative's first symbol, until every item's lookahead is a
// terminal.
func (b *Builder) clean(i int) {
	set := b.states[i].items
	for {
		changed := false
		for _, v := range set.Values() {
			it := v.(grammar.Item)
			if !b.g.IsNonTerminal(it.Lookahead) {
				continue
			}
			set.Remove(it)
			for _, alt := range b.g.Alternatives(it.Lookahead) {
				first := ""
				if len(alt) > 0 {
					first = alt[0]
				}
				set.Add(it.WithLookahead(first))
			}
			changed = true
			break
		}
		if !changed {
			return
		}
	}
}

// createSuccessors creates, for each distinct symbol X appearing
// immediately after the dot in state i, a successor state containing
// every such item with the dot advanced by one, and records
// transitions[i][X].
func (b *Builder) createSuccessors(i int) {
	set := b.states[i].items
	if b.transitions[i] == nil {
		b.transitions[i] = map[string]int{}
	}
	for _, v := range set.Values() {
		it := v.(grammar.Item)
		sym := it.PendingSymbol()
		if sym == "" {
			continue
		}
		advanced := it.Advance()
		target, exists := b.transitions[i][sym]
		if !exists {
			target = b.nextID
			b.nextID++
			b.transitions[i][sym] = target
			b.edges.Add(edge{from: i, label: sym, to: target})
		}
		if _, ok := b.states[target]; !ok {
			b.states[target] = &stateRec{items: iteratable.NewSet()}
			b.order.Add(target)
		}
		b.states[target].items.Add(advanced)
	}
}

// mergeOnce finds one pair of distinct states with exactly equal item
// sets, deletes the higher-indexed one, renumbers every transition
// reference, and compacts state indices above it by one. Returns false
// once no two states are equal.
func (b *Builder) mergeOnce() bool {
	ids := b.sortedIDs()
	for a := len(ids) - 1; a >= 0; a-- {
		i := ids[a]
		for k := a - 1; k >= 0; k-- {
			j := ids[k]
			if b.states[i].items.Equals(b.states[j].items) {
				tracer().Debugf("merging state %d into %d", i, j)
				b.mergeInto(i, j)
				return true
			}
		}
	}
	return false
}

func (b *Builder) sortedIDs() []int {
	ids := make([]int, 0, len(b.states))
	for id := range b.states {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	return ids
}

// mergeInto deletes state i (i > j) and retargets every transition
// pointing at i to point at j instead, then compacts every surviving
// state index above i down by one so state indices stay contiguous.
func (b *Builder) mergeInto(i, j int) {
	delete(b.states, i)
	b.order.Remove(i)
	for from, row := range b.transitions {
		for sym, to := range row {
			if to == i {
				row[sym] = j
			}
		}
		_ = from
	}
	delete(b.transitions, i)
	b.compactAbove(i)
}

// compactAbove renumbers every state index greater than removed down by
// one, preserving item sets and transition structure.
func (b *Builder) compactAbove(removed int) {
	ids := b.sortedIDs()
	for _, id := range ids {
		if id <= removed {
			continue
		}
		newID := id - 1
		b.states[newID] = b.states[id]
		delete(b.states, id)
		b.order.Remove(id)
		b.order.Add(newID)
		if row, ok := b.transitions[id]; ok {
			b.transitions[newID] = row
			delete(b.transitions, id)
		}
	}
	for _, row := range b.transitions {
		for sym, to := range row {
			if to > removed {
				row[sym] = to - 1
			}
		}
	}
	if b.nextID > removed {
		b.nextID--
	}
}

// buildActionGoto emits ACTION/GOTO from the final item sets and
// transition table (spec.md §4.2 "Table emission").
func (b *Builder) buildActionGoto() *Tables {
	t := &Tables{Action: map[int]map[string]string{}, Goto: map[int]map[string]int{}}
	for _, stateID := range b.sortedIDs() {
		rec := b.states[stateID]
		for _, v := range rec.items.Values() {
			it := v.(grammar.Item)
			if !it.AtEnd() {
				continue
			}
			idx := b.g.AlternativeIndex(it.LHS, it.Symbols())
			if idx < 0 {
				continue
			}
			b.writeAction(t, stateID, it.Lookahead, reduceCell(it.LHS, idx))
		}
	}
	for from, row := range b.transitions {
		for sym, to := range row {
			if b.g.IsNonTerminal(sym) {
				if t.Goto[from] == nil {
					t.Goto[from] = map[string]int{}
				}
				t.Goto[from][sym] = to
			} else {
				b.writeAction(t, from, sym, shiftCell(to))
			}
		}
	}
	return t
}

func (b *Builder) writeAction(t *Tables, state int, terminal, cell string) {
	if t.Action[state] == nil {
		t.Action[state] = map[string]string{}
	}
	if old, ok := t.Action[state][terminal]; ok && old != cell {
		conflict := TableConflict{State: state, Terminal: terminal, Previous: old, New: cell}
		b.conflicts = append(b.conflicts, conflict)
		tracer().Errorf("table conflict at state %d, terminal %q: %s overwritten by %s",
			state, terminal, old, cell)
	}
	t.Action[state][terminal] = cell
}
