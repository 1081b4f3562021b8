/*
Package symtable implements the symbol-table contract the IR builder
queries while lowering a function declaration (spec.md §4.7, §6):
"variables(functionName) → count", the number of locally declared
variables.
*/
package symtable

import "fmt"

// Table maps a function name to its flat list of declared local names,
// in declaration order. Re-declaring a name within the same function is
// permitted by the source language and simply appends a second entry:
// this module counts declarations, it does not reject shadowing.
type Table struct {
	locals map[string][]string
}

// New creates an empty Table.
func New() *Table {
	return &Table{locals: map[string][]string{}}
}

// Declare records name as a local of function.
func (t *Table) Declare(function, name string) {
	t.locals[function] = append(t.locals[function], name)
}

// Variables returns the number of locally declared variables in
// function. An unknown function has zero variables, not an error:
// spec.md §4.7 treats it as the empty declaration list, the natural
// state for a function with no var declarations.
func (t *Table) Variables(function string) (int, error) {
	return len(t.locals[function]), nil
}

// MustVariables is a convenience wrapper for call sites (the IR
// builder's pre-order function-declaration step) that treat a symbol
// table lookup failure as an internal invariant violation rather than a
// recoverable error.
func MustVariables(t *Table, function string) int {
	n, err := t.Variables(function)
	if err != nil {
		panic(fmt.Sprintf("symtable: %s", err))
	}
	return n
}
