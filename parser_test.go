// parser_test.go
package minipl

import (
	"strings"
	"testing"
)

func parse(t *testing.T, src string) *Program {
	t.Helper()
	prog, err := Parse(src)
	if err != nil {
		t.Fatalf("Parse error: %v", err)
	}
	return prog
}

func wantParseError(t *testing.T, src, msgPart string) *ParseError {
	t.Helper()
	_, err := Parse(src)
	if err == nil {
		t.Fatalf("expected parse error for %q, got none", src)
	}
	pe, ok := err.(*ParseError)
	if !ok {
		t.Fatalf("expected *ParseError, got %T: %v", err, err)
	}
	if !strings.Contains(pe.Msg, msgPart) {
		t.Fatalf("error %q does not mention %q", pe.Msg, msgPart)
	}
	return pe
}

func Test_Parser_Statements(t *testing.T) {
	prog := parse(t, `var x : int := 1; x := x + 1; read x; print x; assert (x = 2)`)
	if len(prog.Stmts) != 5 {
		t.Fatalf("statement count = %d, want 5", len(prog.Stmts))
	}
	if _, ok := prog.Stmts[0].(*VarDecl); !ok {
		t.Fatalf("stmt 0 is %T, want *VarDecl", prog.Stmts[0])
	}
	if _, ok := prog.Stmts[1].(*AssignStmt); !ok {
		t.Fatalf("stmt 1 is %T, want *AssignStmt", prog.Stmts[1])
	}
	if _, ok := prog.Stmts[4].(*AssertStmt); !ok {
		t.Fatalf("stmt 4 is %T, want *AssertStmt", prog.Stmts[4])
	}
}

func Test_Parser_TrailingSemicolon(t *testing.T) {
	prog := parse(t, `print 1;`)
	if len(prog.Stmts) != 1 {
		t.Fatalf("statement count = %d, want 1", len(prog.Stmts))
	}
}

func Test_Parser_DeclWithoutInit(t *testing.T) {
	prog := parse(t, `var s : string`)
	decl := prog.Stmts[0].(*VarDecl)
	if decl.Name != "s" || decl.DeclType != TypeStr || decl.Init != nil {
		t.Fatalf("decl = %+v", decl)
	}
}

// 2 + 3 * 4 must parse as 2 + (3 * 4): multiplicative binds tighter.
func Test_Parser_Precedence_MulOverAdd(t *testing.T) {
	prog := parse(t, `print 2 + 3 * 4`)
	e := prog.Stmts[0].(*PrintStmt).Expr.(*BinaryExpr)
	if e.Op != PLUS {
		t.Fatalf("root operator = %v, want '+'", e.Op)
	}
	right, ok := e.Right.(*BinaryExpr)
	if !ok || right.Op != MULT {
		t.Fatalf("right subtree = %#v, want a '*' node", e.Right)
	}
}

func Test_Parser_Precedence_Parens(t *testing.T) {
	prog := parse(t, `print (2 + 3) * 4`)
	e := prog.Stmts[0].(*PrintStmt).Expr.(*BinaryExpr)
	if e.Op != MULT {
		t.Fatalf("root operator = %v, want '*'", e.Op)
	}
	left, ok := e.Left.(*BinaryExpr)
	if !ok || left.Op != PLUS {
		t.Fatalf("left subtree = %#v, want a '+' node", e.Left)
	}
}

// -2 * 3 must parse as (-2) * 3: unary binds tighter than multiplicative.
func Test_Parser_Precedence_UnaryOverMul(t *testing.T) {
	prog := parse(t, `print -2 * 3`)
	e := prog.Stmts[0].(*PrintStmt).Expr.(*BinaryExpr)
	if e.Op != MULT {
		t.Fatalf("root operator = %v, want '*'", e.Op)
	}
	if _, ok := e.Left.(*UnaryExpr); !ok {
		t.Fatalf("left subtree = %#v, want a unary node", e.Left)
	}
}

// relational is lowest among the arithmetic levels, '&' lower still
func Test_Parser_Precedence_RelationalAndBool(t *testing.T) {
	prog := parse(t, `print 1 + 1 < 3 & 2 = 2`)
	e := prog.Stmts[0].(*PrintStmt).Expr.(*BinaryExpr)
	if e.Op != AND {
		t.Fatalf("root operator = %v, want '&'", e.Op)
	}
	l := e.Left.(*BinaryExpr)
	if l.Op != LESS {
		t.Fatalf("left of '&' = %v, want '<'", l.Op)
	}
	r := e.Right.(*BinaryExpr)
	if r.Op != EQ {
		t.Fatalf("right of '&' = %v, want '='", r.Op)
	}
}

func Test_Parser_ForLoop(t *testing.T) {
	prog := parse(t, `for i in 1..3 do print i; print i end for`)
	f := prog.Stmts[0].(*ForStmt)
	if f.Var != "i" || len(f.Body) != 2 {
		t.Fatalf("for = %+v", f)
	}
}

func Test_Parser_IfElse(t *testing.T) {
	prog := parse(t, `if 1 < 2 do print 1 else print 2; print 3 end if`)
	n := prog.Stmts[0].(*IfStmt)
	if len(n.Then) != 1 || len(n.Else) != 2 {
		t.Fatalf("then/else lengths = %d/%d, want 1/2", len(n.Then), len(n.Else))
	}
}

func Test_Parser_IfWithoutElse(t *testing.T) {
	prog := parse(t, `if 1 < 2 do print 1 end if`)
	n := prog.Stmts[0].(*IfStmt)
	if len(n.Then) != 1 || len(n.Else) != 0 {
		t.Fatalf("then/else lengths = %d/%d, want 1/0", len(n.Then), len(n.Else))
	}
}

func Test_Parser_FirstErrorWins(t *testing.T) {
	// the parser must stop on the first violation, which is the missing ':='
	pe := wantParseError(t, "var x : int;\nx + 1;\nvar y :", "':='")
	if pe.Line != 2 {
		t.Fatalf("error line = %d, want 2", pe.Line)
	}
}

func Test_Parser_ErrorMessages(t *testing.T) {
	wantParseError(t, `var 1 : int`, "identifier")
	wantParseError(t, `var x int`, "':'")
	wantParseError(t, `var x : float`, "type name")
	wantParseError(t, `assert 1 = 1`, "'('")
	wantParseError(t, `for i in 1..3 print i end for`, "'do'")
	wantParseError(t, `do`, "a statement")
}

func Test_Parser_UndeclaredIsNotASyntaxError(t *testing.T) {
	// an unknown name is fine at parse time; only analysis rejects it
	parse(t, `print nowhere`)
}

func Test_Parser_IncompleteAtEOF(t *testing.T) {
	for _, src := range []string{
		`for i in 1..3 do print i`,
		`if 1 < 2 do`,
		`print (1 + 2`,
		`var x :`,
	} {
		_, err := Parse(src)
		if err == nil {
			t.Fatalf("expected parse error for %q", src)
		}
		if !IsIncomplete(err) {
			t.Fatalf("error for %q should be incomplete-at-EOF, got %v", src, err)
		}
	}
	if IsIncomplete(wantParseError(t, `var x int`, "':'")) {
		t.Fatalf("mid-source error must not count as incomplete")
	}
}

func Test_Parser_PositionsOnNodes(t *testing.T) {
	prog := parse(t, "print 1;\nprint 2")
	second := prog.Stmts[1].(*PrintStmt)
	if second.Pos().Line != 2 || second.Pos().Col != 0 {
		t.Fatalf("second print position = %+v", second.Pos())
	}
}
