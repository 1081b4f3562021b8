/*
Package parser implements the shift-reduce parser driver and the
parse-tree node model it builds (spec.md §4.3, §4.4).

Node is a tagged variant: the parser only ever constructs one of the
concrete types below, selected by reduction category through the
registry in construct. Single-child program, declaration, statement,
expression and typeSpecifier reductions forward their child unchanged;
declarationList and statementList become flattened General nodes; and
anything the grammar defines that the registry doesn't recognize falls
back to General, so the grammar can grow new productions without
changing the parser driver.
*/
package parser

import "github.com/halvorsen/tacc"

// Node is any parse-tree node: a Terminal, a General interior node, or
// one of the typed interior nodes in §4.4.
type Node interface {
	Category() string
	Children() []Node
}

// ValueNode is a Node that carries a computed IR-builder value: the
// name of the temporary or constant a lowered expression evaluates to.
// Terminals, BinaryExpr, NestedExpr and Assignment implement it.
type ValueNode interface {
	Node
	Value() string
	SetValue(string)
}

// Terminal carries the (kind, content) pair a shift action consumes.
type Terminal struct {
	KindName tacc.Kind
	Content  string
	Span     tacc.Span
}

func (t *Terminal) Category() string  { return string(t.KindName) }
func (t *Terminal) Children() []Node  { return nil }
func (t *Terminal) Value() string     { return t.Content }
func (t *Terminal) SetValue(v string) { t.Content = v }

// General is the fallback interior node: a grammar category recognized
// by no typed case simply owns its children in order.
type General struct {
	Cat  string
	Kids []Node
}

func (n *General) Category() string { return n.Cat }
func (n *General) Children() []Node { return n.Kids }

// FunctionDeclaration is "typeSpecifier identifier ( argList ) { statementList }".
type FunctionDeclaration struct {
	Type      string
	Name      string
	Args      *ArgList
	Body      Node
	Arguments string // not set by the parser or the IR builder; ir.Function.Arguments holds the formatted list
}

func (n *FunctionDeclaration) Category() string { return "functionDeclaration" }
func (n *FunctionDeclaration) Children() []Node { return []Node{n.Args, n.Body} }

// ArgList is a (possibly empty, "void") comma-separated argument list.
type ArgList struct {
	Args []*Arg
}

func (n *ArgList) Category() string { return "argList" }
func (n *ArgList) Children() []Node {
	kids := make([]Node, len(n.Args))
	for i, a := range n.Args {
		kids[i] = a
	}
	return kids
}

// Arg is a single (type, name) declared argument. A "void" argument
// list produces no Arg at all: it reduces to an empty ArgList.
type Arg struct {
	Type string
	Name string
}

func (n *Arg) Category() string { return "arg" }
func (n *Arg) Children() []Node { return nil }

// ParamList is a comma-separated list of call-site value expressions.
type ParamList struct {
	Params []Node
}

func (n *ParamList) Category() string { return "paramList" }
func (n *ParamList) Children() []Node { return n.Params }

// VarDec is "typeSpecifier identifier [ = expression ] ;".
type VarDec struct {
	Type string
	Name string
	Init Node // nil if no initializer
}

func (n *VarDec) Category() string { return "varDec" }
func (n *VarDec) Children() []Node {
	if n.Init == nil {
		return nil
	}
	return []Node{n.Init}
}

// AssignmentKind distinguishes the three assignment categories of
// spec.md §4.4, which share the same (target name, rhs) shape.
type AssignmentKind string

const (
	PlainAssignment AssignmentKind = "assignment"
	ExprAssignment  AssignmentKind = "exprAssignment"
	CallAssignment  AssignmentKind = "callAssignment"
)

// Assignment is "identifier = rhs ;" in its three flavors.
type Assignment struct {
	Kind AssignmentKind
	Name string
	RHS  Node
	val  string
}

func (n *Assignment) Category() string  { return string(n.Kind) }
func (n *Assignment) Children() []Node  { return []Node{n.RHS} }
func (n *Assignment) Value() string     { return n.val }
func (n *Assignment) SetValue(v string) { n.val = v }

// IncDecAssignment is "identifier ++ ;" or "identifier -- ;".
type IncDecAssignment struct {
	Decrement bool
	Name      string
}

func (n *IncDecAssignment) Category() string {
	if n.Decrement {
		return "decAssignment"
	}
	return "incAssignment"
}
func (n *IncDecAssignment) Children() []Node { return nil }

// IncDecEqualAssignment is "identifier += expression ;" or "-= ".
type IncDecEqualAssignment struct {
	Decrement bool
	Name      string
	Expr      Node
}

func (n *IncDecEqualAssignment) Category() string {
	if n.Decrement {
		return "decEqualAssignment"
	}
	return "incEqualAssignment"
}
func (n *IncDecEqualAssignment) Children() []Node { return []Node{n.Expr} }

// ReturnStatement is "return expression ;".
type ReturnStatement struct {
	Expr Node
}

func (n *ReturnStatement) Category() string { return "returnStatement" }
func (n *ReturnStatement) Children() []Node { return []Node{n.Expr} }

// BinaryExpr covers addExpr, subExpr, multExpr, divExpr, modExpr: a left
// and a right operand joined by Op.
type BinaryExpr struct {
	Cat   string
	Op    string
	Left  Node
	Right Node
	val   string
}

func (n *BinaryExpr) Category() string  { return n.Cat }
func (n *BinaryExpr) Children() []Node  { return []Node{n.Left, n.Right} }
func (n *BinaryExpr) Value() string     { return n.val }
func (n *BinaryExpr) SetValue(v string) { n.val = v }

// NestedExpr is a parenthesized "( expression )", transparent to value.
type NestedExpr struct {
	Inner Node
}

func (n *NestedExpr) Category() string { return "nestedExpr" }
func (n *NestedExpr) Children() []Node { return []Node{n.Inner} }
func (n *NestedExpr) Value() string {
	if v, ok := n.Inner.(ValueNode); ok {
		return v.Value()
	}
	return ""
}
func (n *NestedExpr) SetValue(v string) {
	if vn, ok := n.Inner.(ValueNode); ok {
		vn.SetValue(v)
	}
}

// CallStatement is "identifier ( paramList ) ;".
type CallStatement struct {
	Callee string
	Params *ParamList
}

func (n *CallStatement) Category() string { return "callStatement" }
func (n *CallStatement) Children() []Node { return []Node{n.Params} }

// IfStatement, ElseStatement, IfBody, WhileStatement, WhileCondition,
// Condition, and LabelDeclaration are structural anchors the IR builder
// keys its pre/post-order actions on (spec.md §4.4, §4.5); none of them
// carry a computed value of their own.

type IfStatement struct {
	Cond Node
	Then Node
	Else Node // nil if no else arm
}

func (n *IfStatement) Category() string { return "ifStatement" }
func (n *IfStatement) Children() []Node {
	if n.Else == nil {
		return []Node{n.Cond, n.Then}
	}
	return []Node{n.Cond, n.Then, n.Else}
}

type ElseStatement struct {
	Body Node
}

func (n *ElseStatement) Category() string { return "elseStatement" }
func (n *ElseStatement) Children() []Node { return []Node{n.Body} }

type IfBody struct {
	Body Node
}

func (n *IfBody) Category() string { return "ifBody" }
func (n *IfBody) Children() []Node { return []Node{n.Body} }

type WhileStatement struct {
	Cond Node
	Body Node
}

func (n *WhileStatement) Category() string { return "whileStatement" }
func (n *WhileStatement) Children() []Node { return []Node{n.Cond, n.Body} }

type WhileCondition struct {
	Cond Node
}

func (n *WhileCondition) Category() string { return "whileCondition" }
func (n *WhileCondition) Children() []Node { return []Node{n.Cond} }

type Condition struct {
	Expr Node
}

func (n *Condition) Category() string { return "condition" }
func (n *Condition) Children() []Node { return []Node{n.Expr} }
func (n *Condition) Value() string {
	if v, ok := n.Expr.(ValueNode); ok {
		return v.Value()
	}
	return ""
}

type LabelDeclaration struct {
	Name string
	Body Node
}

func (n *LabelDeclaration) Category() string { return "labelDeclaration" }
func (n *LabelDeclaration) Children() []Node { return []Node{n.Body} }
