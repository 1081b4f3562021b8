/*
Package ir builds the three-address intermediate representation from a
parsed program (spec.md §4.5): one pre-order/post-order walk over the
parse tree, carving emitted instructions into labeled basic blocks per
function.

Forward control-flow targets (the then/else/join arms of an if, the
body/after labels of a while) are resolved by reserving the label name
*before* the referencing jump is emitted and handing that exact name to
the arm's own block close, rather than by the source compiler's
`peek("_L")+N` offset arithmetic. spec.md §9 flags that arithmetic as
fragile and names this as the preferable alternative; DESIGN.md records
the decision to adopt it. The same reasoning replaces the `REPLACEME`
break-target sentinel with a simple stack of enclosing loop break
labels, known at the point a `break` is lowered.
*/
package ir

import (
	"fmt"
	"strings"

	"github.com/npillmayer/schuko/tracing"

	"github.com/halvorsen/tacc/counter"
	"github.com/halvorsen/tacc/parser"
	"github.com/halvorsen/tacc/symtable"
)

// tracer traces with key 'tacc.ir'.
func tracer() tracing.Trace {
	return tracing.Select("tacc.ir")
}

// Instruction is a flat ordered tuple of operator and operands
// (spec.md §3): e.g. (t = x + y), (if cond GOTO Lt else GOTO Lf).
type Instruction []string

// BasicBlock is a label and the instructions it owns, the first of
// which is always the pseudo (label, L) entry.
type BasicBlock struct {
	Label        string
	Instructions []Instruction
}

// Function is one lowered function: its declared-argument string, its
// locally declared variable count (from the symbol table), and its
// basic blocks in emission order.
type Function struct {
	Name      string
	Arguments string
	Locals    int
	Blocks    []*BasicBlock
}

// Program is the IR for a whole compilation: every lowered function,
// keyed by name, in declaration order.
type Program struct {
	Order     []string
	Functions map[string]*Function
}

// CollectSymbols walks tree once, before lowering, to build the symbol
// table the builder's function-declaration step queries
// (symtable.Variables). Only variables declared directly or nested
// inside a function's own body count as that function's locals;
// top-level variable declarations outside any function are not tracked
// (this language has no global-variable IR lowering: spec.md's worked
// scenarios are all function-local).
func CollectSymbols(tree parser.Node) *symtable.Table {
	t := symtable.New()
	top, ok := tree.(*parser.General)
	if !ok {
		return t
	}
	for _, decl := range top.Kids {
		if fd, ok := decl.(*parser.FunctionDeclaration); ok {
			collectLocals(t, fd.Name, fd.Body)
		}
	}
	return t
}

func collectLocals(t *symtable.Table, fn string, n parser.Node) {
	if n == nil {
		return
	}
	if vd, ok := n.(*parser.VarDec); ok {
		t.Declare(fn, vd.Name)
	}
	for _, c := range n.Children() {
		collectLocals(t, fn, c)
	}
}

// Builder carries the state of one IR-lowering pass: the counter
// registry shared by temporaries and labels, the symbol table queried
// for declared-local counts, the function currently being lowered, the
// not-yet-committed instruction stack for its current block, a label
// reserved for the next closeBlock (for a forward-referenced arm), and
// the stack of enclosing loop break targets.
type Builder struct {
	counters     *counter.Registry
	symtab       *symtable.Table
	program      *Program
	current      *Function
	stack        []Instruction
	pendingLabel string
	loopBreak    []string
}

// NewBuilder creates a Builder over a pre-populated symbol table
// (CollectSymbols) with a fresh counter registry.
func NewBuilder(symtab *symtable.Table) *Builder {
	return &Builder{
		counters: counter.New(),
		symtab:   symtab,
		program:  &Program{Functions: map[string]*Function{}},
	}
}

// Build lowers every function declaration in tree (the declarationList
// root parse-tree node) and returns the finished program.
func (b *Builder) Build(tree parser.Node) *Program {
	top, ok := tree.(*parser.General)
	if !ok {
		return b.program
	}
	for _, decl := range top.Kids {
		if fd, ok := decl.(*parser.FunctionDeclaration); ok {
			b.visitFunction(fd)
		}
	}
	return b.program
}

func (b *Builder) visitFunction(fd *parser.FunctionDeclaration) {
	tracer().Debugf("lowering function %s", fd.Name)
	fn := &Function{Name: fd.Name, Locals: symtable.MustVariables(b.symtab, fd.Name)}
	b.program.Functions[fd.Name] = fn
	b.program.Order = append(b.program.Order, fd.Name)

	b.current = fn
	b.stack = nil
	b.pendingLabel = ""

	b.lowerBlock(fd.Body)

	fn.Arguments = formatArguments(fd.Args)
	b.closeBlock()
}

func formatArguments(al *parser.ArgList) string {
	if al == nil || len(al.Args) == 0 {
		return "void"
	}
	parts := make([]string, len(al.Args))
	for i, a := range al.Args {
		parts[i] = a.Type + " " + a.Name
	}
	return strings.Join(parts, ", ")
}

// closeBlock is the block closure primitive of spec.md §4.5: if a
// label was reserved for this close (pendingLabel), the block is
// always committed, even if empty, so a forward jump to that label
// lands somewhere; otherwise a block is only committed if the stack
// has pending instructions, under a freshly allocated label. Returns
// the label used, or "" if nothing was committed.
func (b *Builder) closeBlock() string {
	label := b.pendingLabel
	b.pendingLabel = ""
	if label == "" {
		if len(b.stack) == 0 {
			return ""
		}
		label = b.counters.Unique("_L")
	}
	instructions := make([]Instruction, 0, len(b.stack)+1)
	instructions = append(instructions, Instruction{"label", label})
	instructions = append(instructions, b.stack...)
	b.current.Blocks = append(b.current.Blocks, &BasicBlock{Label: label, Instructions: instructions})
	b.stack = nil
	return label
}

// reserveLabel allocates a label name for a forward reference: a jump
// target whose owning block hasn't been lowered yet.
func (b *Builder) reserveLabel() string {
	return b.counters.Unique("_L")
}

func (b *Builder) emit(i Instruction) {
	b.stack = append(b.stack, i)
}

// lowerBlock visits a statementList node's statements in order. A
// function body is always a statementList (the grammar requires at
// least one statement); ifBody/elseStatement/while bodies call this
// too, on either a statementList or (for ifBody/elseStatement) a bare
// single statement.
func (b *Builder) lowerBlock(n parser.Node) {
	if n == nil {
		return
	}
	if gl, ok := n.(*parser.General); ok && gl.Cat == "statementList" {
		for _, s := range gl.Kids {
			b.visitStatement(s)
		}
		return
	}
	b.visitStatement(n)
}

func (b *Builder) visitStatement(n parser.Node) {
	switch v := n.(type) {
	case *parser.VarDec:
		b.lowerVarDec(v)
	case *parser.Assignment:
		b.lowerAssignment(v)
	case *parser.IncDecAssignment:
		b.lowerIncDec(v)
	case *parser.IncDecEqualAssignment:
		b.lowerIncDecEqual(v)
	case *parser.ReturnStatement:
		b.lowerReturn(v)
	case *parser.CallStatement:
		b.emit(b.callInstruction(v))
	case *parser.IfStatement:
		b.lowerIf(v)
	case *parser.WhileStatement:
		b.lowerWhile(v)
	case *parser.LabelDeclaration:
		b.lowerLabel(v)
	case *parser.General:
		if v.Cat == "breakStatement" {
			b.lowerBreak()
			return
		}
		panic(fmt.Sprintf("ir: unhandled statement category %q", v.Cat))
	default:
		panic(fmt.Sprintf("ir: unhandled statement node %T", n))
	}
}

func (b *Builder) lowerVarDec(n *parser.VarDec) {
	init := "null"
	if n.Init != nil {
		init = b.value(n.Init)
	}
	b.emit(Instruction{n.Name, "=", init})
}

func (b *Builder) lowerAssignment(n *parser.Assignment) {
	switch n.Kind {
	case parser.PlainAssignment:
		rhs := n.RHS.(*parser.Terminal)
		b.emit(Instruction{n.Name, "=", rhs.Content})
	case parser.ExprAssignment:
		v := b.value(n.RHS)
		b.emit(Instruction{n.Name, "=", v})
	case parser.CallAssignment:
		call := n.RHS.(*parser.CallStatement)
		result := b.callResult(call)
		b.emit(Instruction{n.Name, "=", result})
	default:
		panic(fmt.Sprintf("ir: unhandled assignment kind %q", n.Kind))
	}
}

func (b *Builder) lowerIncDec(n *parser.IncDecAssignment) {
	op := "+"
	if n.Decrement {
		op = "-"
	}
	t := b.counters.Unique("")
	b.emit(Instruction{t, "=", n.Name, op, "1"})
	b.emit(Instruction{n.Name, "=", t})
}

func (b *Builder) lowerIncDecEqual(n *parser.IncDecEqualAssignment) {
	op := "+"
	if n.Decrement {
		op = "-"
	}
	rhs := b.value(n.Expr)
	t := b.counters.Unique("")
	b.emit(Instruction{t, "=", n.Name, op, rhs})
	b.emit(Instruction{n.Name, "=", t})
}

func (b *Builder) lowerReturn(n *parser.ReturnStatement) {
	v := b.value(n.Expr)
	b.emit(Instruction{"ret", v})
	b.closeBlock()
}

// callInstruction lowers a call's arguments and returns its (call,
// callee, (args)) instruction without allocating a result temporary;
// used when the call's value is discarded (a bare call statement).
func (b *Builder) callInstruction(n *parser.CallStatement) Instruction {
	args := make([]string, len(n.Params.Params))
	for i, p := range n.Params.Params {
		args[i] = b.value(p)
	}
	return Instruction{"call", n.Callee, "(" + strings.Join(args, ", ") + ")"}
}

// callResult lowers a call used as a value (the RHS of a
// callAssignment): the call instruction itself carries no destination
// operand, so the fresh temporary it implicitly produces is allocated
// here and returned for the caller to assign out of.
func (b *Builder) callResult(n *parser.CallStatement) string {
	b.emit(b.callInstruction(n))
	return b.counters.Unique("")
}

func (b *Builder) lowerIf(n *parser.IfStatement) {
	b.closeBlock()
	cond := n.Cond.(*parser.Condition)

	// Reserve labels in reading order (cond, then, else, join) purely
	// so the emitted block labels sort the way the control flow reads;
	// nothing depends on the numbering itself.
	condLabel := b.reserveLabel()
	thenLabel := b.reserveLabel()
	hasElse := n.Else != nil
	var elseLabel, joinLabel string
	if hasElse {
		elseLabel = b.reserveLabel()
		joinLabel = b.reserveLabel()
	} else {
		elseLabel = b.reserveLabel()
		joinLabel = elseLabel
	}

	condVal := b.value(cond.Expr)
	b.emit(Instruction{"if", condVal, "GOTO", thenLabel, "else", "GOTO", elseLabel})
	b.pendingLabel = condLabel
	b.closeBlock()

	b.pendingLabel = thenLabel
	b.lowerBody(n.Then)
	// A pending label still set means the arm ran off its end without
	// an unconditional jump of its own (e.g. a return); only then does
	// it need the forward jump to join.
	if b.pendingLabel != "" {
		b.emit(Instruction{"goto", joinLabel})
		b.closeBlock()
	}

	if hasElse {
		b.pendingLabel = elseLabel
		b.lowerBody(n.Else)
		if b.pendingLabel != "" {
			b.closeBlock()
		}
	}

	b.pendingLabel = joinLabel
}

func (b *Builder) lowerBody(n parser.Node) {
	switch v := n.(type) {
	case *parser.IfBody:
		b.lowerBlock(v.Body)
	case *parser.ElseStatement:
		b.lowerBlock(v.Body)
	default:
		panic(fmt.Sprintf("ir: unhandled if/else body %T", n))
	}
}

func (b *Builder) lowerWhile(n *parser.WhileStatement) {
	b.closeBlock()
	condLabel := b.reserveLabel()
	bodyLabel := b.reserveLabel()
	afterLabel := b.reserveLabel()
	b.loopBreak = append(b.loopBreak, afterLabel)

	cond := n.Cond.(*parser.WhileCondition)
	condVal := b.value(cond.Cond)
	b.emit(Instruction{"if", condVal, "GOTO", bodyLabel, "else", "GOTO", afterLabel})
	b.pendingLabel = condLabel
	b.closeBlock()

	b.pendingLabel = bodyLabel
	b.lowerBlock(n.Body)
	// As with the if/else arms: a body that already self-terminated
	// (e.g. an internal return) leaves no pending label and needs no
	// back-edge of its own.
	if b.pendingLabel != "" {
		b.emit(Instruction{"goto", condLabel})
		b.closeBlock()
	}

	b.loopBreak = b.loopBreak[:len(b.loopBreak)-1]
	b.pendingLabel = afterLabel
}

func (b *Builder) lowerBreak() {
	if len(b.loopBreak) == 0 {
		panic("ir: break statement outside any loop")
	}
	target := b.loopBreak[len(b.loopBreak)-1]
	b.emit(Instruction{"goto", target})
}

func (b *Builder) lowerLabel(n *parser.LabelDeclaration) {
	b.closeBlock()
	// Reserve the declared name itself as the pending label, the same
	// way an if/while arm's forward target is reserved, so whichever
	// closeBlock fires first for the body (its own, e.g. on a return,
	// or ours below) is the one that carries this name.
	b.pendingLabel = n.Name
	b.visitStatement(n.Body)
	if b.pendingLabel != "" {
		b.closeBlock()
	}
}
