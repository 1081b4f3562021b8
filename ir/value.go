package ir

import "github.com/halvorsen/tacc/parser"

// value returns the string an expression-shaped node evaluates to,
// lowering any nested binary expression into a fresh temporary first.
// Terminals (identifiers, numeric constants) and any other ValueNode
// already carry their value directly.
func (b *Builder) value(n parser.Node) string {
	switch v := n.(type) {
	case *parser.BinaryExpr:
		left := b.value(v.Left)
		right := b.value(v.Right)
		t := b.counters.Unique("")
		b.emit(Instruction{t, "=", left, v.Op, right})
		v.SetValue(t)
		return t
	case *parser.NestedExpr:
		return b.value(v.Inner)
	case parser.ValueNode:
		return v.Value()
	default:
		panic("ir: node carries no computable value")
	}
}
