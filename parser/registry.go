package parser

import "github.com/halvorsen/tacc"

// passThrough is the set of categories spec.md §4.4 calls "pass-through
// interior": a production with exactly one child forwards that child
// unchanged instead of wrapping it in a node of its own.
var passThrough = map[string]bool{
	"program": true, "declaration": true, "statement": true, "expression": true,
	"typeSpecifier": true,
}

// typeKinds are the three terminals a collapsed typeSpecifier node can
// be: the Terminal's KindName after pass-through, not "typeSpecifier"
// itself.
var typeKinds = map[tacc.Kind]bool{"int": true, "char": true, "void": true}

// listCategories are the left-recursive "list -> list item | item"
// productions; construct flattens them into a single General node
// rather than nesting one wrapper per list element.
var listCategories = map[string]bool{
	"declarationList": true, "statementList": true,
}

// construct builds the parse-tree node for a reduction of lhs (using
// alternative index alt) over the already-built children, in the
// registry spec.md §4.3 describes ("Node construction goes through a
// registry keyed by category name. Unknown categories produce a
// general node.").
func construct(lhs string, alt int, children []Node) Node {
	if passThrough[lhs] && len(children) == 1 {
		return children[0]
	}
	if listCategories[lhs] {
		return buildList(lhs, children)
	}
	switch lhs {
	case "functionDeclaration":
		return buildFunctionDeclaration(children)
	case "argList":
		if len(children) == 1 {
			if t, ok := children[0].(*Terminal); ok && t.Content == "void" {
				return &ArgList{}
			}
			return children[0]
		}
	case "argListNE":
		return buildArgList(children)
	case "arg":
		return buildArg(children)
	case "paramList":
		return buildParamList(children)
	case "varDec":
		return buildVarDec(children)
	case "assignment":
		return buildAssignment(PlainAssignment, children)
	case "exprAssignment":
		return buildAssignment(ExprAssignment, children)
	case "callAssignment":
		return buildCallAssignment(children)
	case "incAssignment":
		return &IncDecAssignment{Name: firstTerminal(children, tacc.Kind("identifier")).Content}
	case "decAssignment":
		return &IncDecAssignment{Decrement: true, Name: firstTerminal(children, tacc.Kind("identifier")).Content}
	case "incEqualAssignment":
		return buildIncDecEqual(false, children)
	case "decEqualAssignment":
		return buildIncDecEqual(true, children)
	case "returnStatement":
		return &ReturnStatement{Expr: onlyNonTerminalOrTerminalExpr(children)}
	case "breakStatement":
		return &General{Cat: "breakStatement"}
	case "callStatement":
		return buildCallStatement(children)
	case "addExpr":
		return buildBinary("addExpr", "+", children)
	case "subExpr":
		return buildBinary("subExpr", "-", children)
	case "multExpr":
		return buildBinary("multExpr", "*", children)
	case "divExpr":
		return buildBinary("divExpr", "/", children)
	case "modExpr":
		return buildBinary("modExpr", "%", children)
	case "nestedExpr":
		return &NestedExpr{Inner: onlyNonTerminalOrTerminalExpr(children)}
	case "ifStatement":
		return buildIfStatement(children)
	case "elseStatement":
		return &ElseStatement{Body: singleBody(children)}
	case "ifBody":
		return &IfBody{Body: singleBody(children)}
	case "condition":
		return &Condition{Expr: onlyNonTerminalOrTerminalExpr(children)}
	case "whileStatement":
		return buildWhileStatement(children)
	case "whileCondition":
		return &WhileCondition{Cond: onlyNonTerminalOrTerminalExpr(children)}
	case "labelDeclaration":
		return buildLabelDeclaration(children)
	}
	return &General{Cat: lhs, Kids: children}
}

func buildList(lhs string, children []Node) Node {
	if len(children) == 1 {
		return &General{Cat: lhs, Kids: []Node{children[0]}}
	}
	if g, ok := children[0].(*General); ok && g.Cat == lhs {
		g.Kids = append(g.Kids, children[1])
		return g
	}
	return &General{Cat: lhs, Kids: []Node{children[0], children[1]}}
}

func buildFunctionDeclaration(children []Node) Node {
	fd := &FunctionDeclaration{
		Type: firstTypeSpecifier(children).Content,
		Name: firstTerminal(children, "identifier").Content,
	}
	for _, c := range children {
		switch n := c.(type) {
		case *ArgList:
			fd.Args = n
		case *General:
			if n.Cat == "statementList" {
				fd.Body = n
			}
		}
	}
	if fd.Args == nil {
		fd.Args = &ArgList{}
	}
	return fd
}

func buildArgList(children []Node) Node {
	if len(children) == 1 {
		return &ArgList{Args: []*Arg{children[0].(*Arg)}}
	}
	list := children[0].(*ArgList)
	list.Args = append(list.Args, children[len(children)-1].(*Arg))
	return list
}

func buildArg(children []Node) Node {
	return &Arg{
		Type: firstTypeSpecifier(children).Content,
		Name: firstTerminal(children, "identifier").Content,
	}
}

func buildParamList(children []Node) Node {
	if len(children) == 1 {
		return &ParamList{Params: []Node{children[0]}}
	}
	list := children[0].(*ParamList)
	list.Params = append(list.Params, children[len(children)-1])
	return list
}

func buildVarDec(children []Node) Node {
	vd := &VarDec{
		Type: firstTypeSpecifier(children).Content,
		Name: firstTerminal(children, "identifier").Content,
	}
	if e := exprAfterEquals(children); e != nil {
		vd.Init = e
	}
	return vd
}

func buildAssignment(kind AssignmentKind, children []Node) Node {
	idents := terminalsOf(children, "identifier")
	a := &Assignment{Kind: kind, Name: idents[0].Content}
	if kind == PlainAssignment {
		a.RHS = idents[1]
		return a
	}
	a.RHS = exprAfterEquals(children)
	return a
}

func buildCallAssignment(children []Node) Node {
	target := firstTerminal(children, "identifier")
	var call *CallStatement
	for _, c := range children {
		if cs, ok := c.(*CallStatement); ok {
			call = cs
		}
	}
	return &Assignment{Kind: CallAssignment, Name: target.Content, RHS: call}
}

func buildIncDecEqual(decrement bool, children []Node) Node {
	return &IncDecEqualAssignment{
		Decrement: decrement,
		Name:      firstTerminal(children, "identifier").Content,
		Expr:      exprAfterOp(children),
	}
}

func buildCallStatement(children []Node) Node {
	cs := &CallStatement{Callee: firstTerminal(children, "identifier").Content}
	for _, c := range children {
		if pl, ok := c.(*ParamList); ok {
			cs.Params = pl
		}
	}
	if cs.Params == nil {
		cs.Params = &ParamList{}
	}
	return cs
}

func buildBinary(cat, op string, children []Node) Node {
	return &BinaryExpr{Cat: cat, Op: op, Left: children[0], Right: children[2]}
}

func buildIfStatement(children []Node) Node {
	ifs := &IfStatement{Cond: children[2], Then: children[4]}
	if len(children) > 5 {
		ifs.Else = children[6]
	}
	return ifs
}

func buildWhileStatement(children []Node) Node {
	return &WhileStatement{Cond: children[2], Body: children[5]}
}

func buildLabelDeclaration(children []Node) Node {
	return &LabelDeclaration{Name: firstTerminal(children, "identifier").Content, Body: children[2]}
}

func singleBody(children []Node) Node {
	for _, c := range children {
		if _, ok := c.(*Terminal); ok {
			continue
		}
		return c
	}
	return nil
}

// firstTypeSpecifier returns the collapsed typeSpecifier terminal among
// children (one of "int", "char", "void"; see typeKinds).
func firstTypeSpecifier(children []Node) *Terminal {
	for _, c := range children {
		if t, ok := c.(*Terminal); ok && typeKinds[t.KindName] {
			return t
		}
	}
	return nil
}

func firstTerminal(children []Node, kind tacc.Kind) *Terminal {
	for _, c := range children {
		if t, ok := c.(*Terminal); ok && t.KindName == kind {
			return t
		}
	}
	return nil
}

func terminalsOf(children []Node, kind tacc.Kind) []*Terminal {
	var out []*Terminal
	for _, c := range children {
		if t, ok := c.(*Terminal); ok && t.KindName == kind {
			out = append(out, t)
		}
	}
	return out
}

// exprAfterEquals returns the expression-shaped child that follows the
// "=" terminal in a varDec/exprAssignment production.
func exprAfterEquals(children []Node) Node {
	return exprAfterPunct(children, "=")
}

func exprAfterOp(children []Node) Node {
	if e := exprAfterPunct(children, "+="); e != nil {
		return e
	}
	return exprAfterPunct(children, "-=")
}

func exprAfterPunct(children []Node, punct string) Node {
	seen := false
	for _, c := range children {
		if t, ok := c.(*Terminal); ok {
			if seen && (t.KindName == "identifier" || t.KindName == "constNum") {
				return t
			}
			if t.Content == punct {
				seen = true
			}
			continue
		}
		if seen {
			return c
		}
	}
	return nil
}

// onlyNonTerminalOrTerminalExpr returns the single expression-shaped
// child of a production that wraps exactly one expression between
// punctuation (return/condition/nestedExpr/whileCondition).
func onlyNonTerminalOrTerminalExpr(children []Node) Node {
	for _, c := range children {
		if t, ok := c.(*Terminal); ok {
			switch t.KindName {
			case "identifier", "constNum":
				return t
			}
			continue
		}
		return c
	}
	return nil
}
