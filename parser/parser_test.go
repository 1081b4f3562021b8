package parser

import (
	"os"
	"testing"

	"github.com/halvorsen/tacc/grammar"
	"github.com/halvorsen/tacc/lr"
	"github.com/halvorsen/tacc/token"
)

const grammarFile = "../testdata/grammar.txt"

func parse(t *testing.T, src string) Node {
	t.Helper()
	raw, err := os.ReadFile(grammarFile)
	if err != nil {
		t.Fatalf("reading grammar file: %v", err)
	}
	g, err := grammar.Load(string(raw))
	if err != nil {
		t.Fatalf("grammar.Load: %v", err)
	}
	tables, conflicts, err := lr.Compile(grammarFile)
	if err != nil {
		t.Fatalf("lr.Compile: %v", err)
	}
	if len(conflicts) != 0 {
		t.Fatalf("unexpected grammar conflicts: %v", conflicts)
	}
	toks, err := token.Lex(src)
	if err != nil {
		t.Fatalf("token.Lex: %v", err)
	}
	tree, err := Parse(g, tables, toks)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	return tree
}

func firstFunction(t *testing.T, tree Node) *FunctionDeclaration {
	t.Helper()
	top, ok := tree.(*General)
	if !ok {
		t.Fatalf("root node = %T, want *General (declarationList)", tree)
	}
	if len(top.Kids) == 0 {
		t.Fatal("declarationList has no declarations")
	}
	fd, ok := top.Kids[0].(*FunctionDeclaration)
	if !ok {
		t.Fatalf("first declaration = %T, want *FunctionDeclaration", top.Kids[0])
	}
	return fd
}

func bodyStatements(t *testing.T, fd *FunctionDeclaration) []Node {
	t.Helper()
	body, ok := fd.Body.(*General)
	if !ok || body.Cat != "statementList" {
		t.Fatalf("body = %#v, want a statementList General", fd.Body)
	}
	return body.Kids
}

func TestParseFunctionDeclarationShape(t *testing.T) {
	tree := parse(t, "int f(int x, char y) { return x; }")
	fd := firstFunction(t, tree)

	if fd.Name != "f" {
		t.Errorf("Name = %q, want %q", fd.Name, "f")
	}
	if fd.Type != "int" {
		t.Errorf("Type = %q, want %q", fd.Type, "int")
	}
	if fd.Args == nil || len(fd.Args.Args) != 2 {
		t.Fatalf("Args = %#v, want 2 arguments", fd.Args)
	}
	if fd.Args.Args[0].Type != "int" || fd.Args.Args[0].Name != "x" {
		t.Errorf("arg 0 = %+v", fd.Args.Args[0])
	}
	if fd.Args.Args[1].Type != "char" || fd.Args.Args[1].Name != "y" {
		t.Errorf("arg 1 = %+v", fd.Args.Args[1])
	}
}

func TestParseVoidArgList(t *testing.T) {
	tree := parse(t, "int f() { return 0; }")
	fd := firstFunction(t, tree)
	if fd.Args == nil || len(fd.Args.Args) != 0 {
		t.Fatalf("Args = %#v, want empty", fd.Args)
	}
}

func TestParseVarDecWithInitializer(t *testing.T) {
	tree := parse(t, "int f() { int x = 1 + 2; return x; }")
	fd := firstFunction(t, tree)
	stmts := bodyStatements(t, fd)

	vd, ok := stmts[0].(*VarDec)
	if !ok {
		t.Fatalf("statement 0 = %T, want *VarDec", stmts[0])
	}
	if vd.Name != "x" || vd.Type != "int" {
		t.Errorf("VarDec = %+v", vd)
	}
	add, ok := vd.Init.(*BinaryExpr)
	if !ok || add.Cat != "addExpr" || add.Op != "+" {
		t.Fatalf("Init = %#v, want an addExpr BinaryExpr", vd.Init)
	}
}

func TestParseAssignmentVariants(t *testing.T) {
	tree := parse(t, "int f() { int x = 0; int y = 0; x = y; y = x + 1; return y; }")
	fd := firstFunction(t, tree)
	stmts := bodyStatements(t, fd)

	plain, ok := stmts[2].(*Assignment)
	if !ok || plain.Kind != PlainAssignment || plain.Name != "x" {
		t.Fatalf("statement 2 = %#v, want a plain Assignment to x", stmts[2])
	}
	exprAssign, ok := stmts[3].(*Assignment)
	if !ok || exprAssign.Kind != ExprAssignment || exprAssign.Name != "y" {
		t.Fatalf("statement 3 = %#v, want an exprAssignment to y", stmts[3])
	}
	if _, ok := exprAssign.RHS.(*BinaryExpr); !ok {
		t.Errorf("exprAssignment RHS = %T, want *BinaryExpr", exprAssign.RHS)
	}
}

func TestParseCallAssignmentAndCallStatement(t *testing.T) {
	// callAssignment ("identifier = callStatement") has no type specifier
	// of its own, so the variable must be declared (without initializer)
	// in its own varDec first.
	tree := parse(t, "int f() { int x; x = g(1, 2); g(); return x; }")
	fd := firstFunction(t, tree)
	stmts := bodyStatements(t, fd)

	vd, ok := stmts[0].(*VarDec)
	if !ok || vd.Init != nil {
		t.Fatalf("statement 0 = %#v, want an uninitialized *VarDec", stmts[0])
	}

	assign, ok := stmts[1].(*Assignment)
	if !ok || assign.Kind != CallAssignment || assign.Name != "x" {
		t.Fatalf("statement 1 = %#v, want a callAssignment to x", stmts[1])
	}
	call, ok := assign.RHS.(*CallStatement)
	if !ok || call.Callee != "g" || len(call.Params.Params) != 2 {
		t.Fatalf("call = %#v", assign.RHS)
	}

	bare, ok := stmts[2].(*CallStatement)
	if !ok || bare.Callee != "g" || len(bare.Params.Params) != 0 {
		t.Fatalf("statement 2 = %#v, want a bare call to g with no params", stmts[2])
	}
}

func TestParseIncDecAndIncDecEqual(t *testing.T) {
	tree := parse(t, "int f() { int x = 0; x++; x--; x += 2; x -= 3; return x; }")
	fd := firstFunction(t, tree)
	stmts := bodyStatements(t, fd)

	inc, ok := stmts[1].(*IncDecAssignment)
	if !ok || inc.Decrement || inc.Name != "x" {
		t.Fatalf("statement 1 = %#v, want x++", stmts[1])
	}
	dec, ok := stmts[2].(*IncDecAssignment)
	if !ok || !dec.Decrement || dec.Name != "x" {
		t.Fatalf("statement 2 = %#v, want x--", stmts[2])
	}
	incEq, ok := stmts[3].(*IncDecEqualAssignment)
	if !ok || incEq.Decrement || incEq.Name != "x" {
		t.Fatalf("statement 3 = %#v, want x += 2", stmts[3])
	}
	decEq, ok := stmts[4].(*IncDecEqualAssignment)
	if !ok || !decEq.Decrement || decEq.Name != "x" {
		t.Fatalf("statement 4 = %#v, want x -= 3", stmts[4])
	}
}

func TestParseIfElseAndNestedExpr(t *testing.T) {
	tree := parse(t, "int f() { if ((1)) return 1; else return 0; }")
	fd := firstFunction(t, tree)
	stmts := bodyStatements(t, fd)

	ifs, ok := stmts[0].(*IfStatement)
	if !ok {
		t.Fatalf("statement 0 = %T, want *IfStatement", stmts[0])
	}
	cond, ok := ifs.Cond.(*Condition)
	if !ok {
		t.Fatalf("Cond = %T, want *Condition", ifs.Cond)
	}
	if _, ok := cond.Expr.(*NestedExpr); !ok {
		t.Errorf("Condition.Expr = %T, want *NestedExpr", cond.Expr)
	}
	thenBody, ok := ifs.Then.(*IfBody)
	if !ok {
		t.Fatalf("Then = %T, want *IfBody", ifs.Then)
	}
	if _, ok := thenBody.Body.(*ReturnStatement); !ok {
		t.Errorf("IfBody.Body = %T, want *ReturnStatement", thenBody.Body)
	}
	if ifs.Else == nil {
		t.Fatal("Else is nil, want an ElseStatement")
	}
	elseBody, ok := ifs.Else.(*ElseStatement)
	if !ok {
		t.Fatalf("Else = %T, want *ElseStatement", ifs.Else)
	}
	if _, ok := elseBody.Body.(*ReturnStatement); !ok {
		t.Errorf("ElseStatement.Body = %T, want *ReturnStatement", elseBody.Body)
	}
}

func TestParseWhileAndBreak(t *testing.T) {
	tree := parse(t, "int f() { while (1) { break; } return 0; }")
	fd := firstFunction(t, tree)
	stmts := bodyStatements(t, fd)

	ws, ok := stmts[0].(*WhileStatement)
	if !ok {
		t.Fatalf("statement 0 = %T, want *WhileStatement", stmts[0])
	}
	if _, ok := ws.Cond.(*WhileCondition); !ok {
		t.Errorf("Cond = %T, want *WhileCondition", ws.Cond)
	}
	body, ok := ws.Body.(*General)
	if !ok || body.Cat != "statementList" {
		t.Fatalf("Body = %#v, want a statementList General", ws.Body)
	}
	brk, ok := body.Kids[0].(*General)
	if !ok || brk.Cat != "breakStatement" {
		t.Fatalf("while body statement 0 = %#v, want breakStatement", body.Kids[0])
	}
}

func TestParseLabelDeclaration(t *testing.T) {
	tree := parse(t, "int f() { loop: return 0; }")
	fd := firstFunction(t, tree)
	stmts := bodyStatements(t, fd)

	lbl, ok := stmts[0].(*LabelDeclaration)
	if !ok || lbl.Name != "loop" {
		t.Fatalf("statement 0 = %#v, want a labelDeclaration named loop", stmts[0])
	}
	if _, ok := lbl.Body.(*ReturnStatement); !ok {
		t.Errorf("LabelDeclaration.Body = %T, want *ReturnStatement", lbl.Body)
	}
}

func TestParseRejectsUnexpectedToken(t *testing.T) {
	raw, err := os.ReadFile(grammarFile)
	if err != nil {
		t.Fatalf("reading grammar file: %v", err)
	}
	g, err := grammar.Load(string(raw))
	if err != nil {
		t.Fatalf("grammar.Load: %v", err)
	}
	tables, _, err := lr.Compile(grammarFile)
	if err != nil {
		t.Fatalf("lr.Compile: %v", err)
	}
	toks, err := token.Lex("int f() { return ; }")
	if err != nil {
		t.Fatalf("token.Lex: %v", err)
	}
	_, err = Parse(g, tables, toks)
	if err == nil {
		t.Fatal("expected a parse error for a missing return expression")
	}
	if _, ok := err.(*Error); !ok {
		t.Fatalf("error type = %T, want *Error", err)
	}
}
