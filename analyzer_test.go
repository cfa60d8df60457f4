// analyzer_test.go
package minipl

import (
	"strings"
	"testing"
)

func analyze(t *testing.T, src string) *Info {
	t.Helper()
	info, err := Analyze(parse(t, src))
	if err != nil {
		t.Fatalf("Analyze error: %v", err)
	}
	return info
}

func wantSemanticError(t *testing.T, src string, kind SemanticKind) *SemanticError {
	t.Helper()
	_, err := Analyze(parse(t, src))
	if err == nil {
		t.Fatalf("expected semantic error for %q, got none", src)
	}
	se, ok := err.(*SemanticError)
	if !ok {
		t.Fatalf("expected *SemanticError, got %T: %v", err, err)
	}
	if se.Kind != kind {
		t.Fatalf("error kind = %v, want %v (%v)", se.Kind, kind, se)
	}
	return se
}

func Test_Analyzer_AcceptsValidProgram(t *testing.T) {
	analyze(t, `
		var n : int := 3;
		var s : string := "x";
		var ok : bool;
		ok := n < 4;
		for i in 1..n do
			s := s + "y";
			print i
		end for;
		if ok & !(n = 0) do print s else print "none" end if;
		assert (n = 3)
	`)
}

func Test_Analyzer_Redeclaration(t *testing.T) {
	se := wantSemanticError(t, `var x : int; var x : string`, Redeclaration)
	if !strings.Contains(se.Msg, `"x"`) {
		t.Fatalf("message %q does not name the variable", se.Msg)
	}
}

func Test_Analyzer_ShadowingInLoopBodyIsAllowed(t *testing.T) {
	analyze(t, `var x : int; for i in 1..2 do var x : string; x := "a" end for`)
}

func Test_Analyzer_Undeclared(t *testing.T) {
	wantSemanticError(t, `print nowhere`, UndeclaredVariable)
	wantSemanticError(t, `x := 1`, UndeclaredVariable)
	wantSemanticError(t, `read x`, UndeclaredVariable)
	// declaration must precede use in program order
	wantSemanticError(t, `x := 1; var x : int`, UndeclaredVariable)
	// an initializer cannot reference the variable being declared
	wantSemanticError(t, `var x : int := x`, UndeclaredVariable)
}

func Test_Analyzer_LoopVariableScope(t *testing.T) {
	// the control variable does not exist outside its loop body
	wantSemanticError(t, `for i in 1..3 do print i end for; print i`, UndeclaredVariable)
}

func Test_Analyzer_TypeMismatch(t *testing.T) {
	wantSemanticError(t, `var s : string; s := 5`, TypeMismatch)
	wantSemanticError(t, `var n : int := "x"`, TypeMismatch)
	wantSemanticError(t, `var n : int; n := 1 < 2`, TypeMismatch)
	wantSemanticError(t, `print 1 + "x"`, TypeMismatch)
	wantSemanticError(t, `print "a" - "b"`, TypeMismatch)
	wantSemanticError(t, `print -"a"`, TypeMismatch)
	wantSemanticError(t, `print !1`, TypeMismatch)
	wantSemanticError(t, `print 1 & 2`, TypeMismatch)
	wantSemanticError(t, `print 1 = "a"`, TypeMismatch)
}

func Test_Analyzer_LessOrdering(t *testing.T) {
	// '<' orders ints and strings but not bools
	analyze(t, `print 1 < 2; print "a" < "b"`)
	wantSemanticError(t, `print (1 = 1) < (2 = 2)`, TypeMismatch)
}

func Test_Analyzer_ForLoop(t *testing.T) {
	wantSemanticError(t, `for i in "a".."b" do print i end for`, TypeMismatch)
	wantSemanticError(t, `var b : bool; for i in 1..b do print i end for`, TypeMismatch)
	// the control variable is Int inside the body
	wantSemanticError(t, `for i in 1..3 do print i + "x" end for`, TypeMismatch)
}

func Test_Analyzer_LoopControlMutation(t *testing.T) {
	wantSemanticError(t, `for i in 1..3 do i := 5 end for`, LoopControlMutation)
	wantSemanticError(t, `for i in 1..3 do read i end for`, LoopControlMutation)
	// also through a nested loop body
	wantSemanticError(t, `for i in 1..3 do for j in 1..3 do i := 0 end for end for`, LoopControlMutation)
}

func Test_Analyzer_ReadTargets(t *testing.T) {
	analyze(t, `var n : int; read n`)
	analyze(t, `var s : string; read s`)
	wantSemanticError(t, `var b : bool; read b`, TypeMismatch)
}

func Test_Analyzer_AssertType(t *testing.T) {
	wantSemanticError(t, `assert (1 + 1)`, InvalidAssertType)
	wantSemanticError(t, `assert ("yes")`, InvalidAssertType)
	analyze(t, `assert (1 = 1)`)
}

func Test_Analyzer_IfCondition(t *testing.T) {
	wantSemanticError(t, `if 1 do print 1 end if`, TypeMismatch)
}

func Test_Analyzer_FirstErrorWins(t *testing.T) {
	se := wantSemanticError(t, "print nowhere;\nvar s : string;\ns := 5", UndeclaredVariable)
	if se.Line != 1 {
		t.Fatalf("error line = %d, want 1", se.Line)
	}
}

func Test_Analyzer_Annotations(t *testing.T) {
	prog := parse(t, `var n : int := 1; print n + 2; print n < 3`)
	info, err := Analyze(prog)
	if err != nil {
		t.Fatalf("Analyze error: %v", err)
	}
	sum := prog.Stmts[1].(*PrintStmt).Expr
	if ty, ok := info.TypeOf(sum); !ok || ty != TypeInt {
		t.Fatalf("type of n+2 = %v, %v; want int", ty, ok)
	}
	cmp := prog.Stmts[2].(*PrintStmt).Expr
	if ty, ok := info.TypeOf(cmp); !ok || ty != TypeBool {
		t.Fatalf("type of n<3 = %v, %v; want bool", ty, ok)
	}
	// subexpressions are annotated too
	left := sum.(*BinaryExpr).Left
	if ty, ok := info.TypeOf(left); !ok || ty != TypeInt {
		t.Fatalf("type of n = %v, %v; want int", ty, ok)
	}
}

func Test_Analyzer_PersistentScope(t *testing.T) {
	a := NewAnalyzer()
	if err := a.Check(parse(t, `var n : int := 1`)); err != nil {
		t.Fatalf("first snippet: %v", err)
	}
	if err := a.Check(parse(t, `n := n + 1; print n`)); err != nil {
		t.Fatalf("second snippet should see n: %v", err)
	}
	if err := a.Check(parse(t, `var n : int`)); err == nil {
		t.Fatalf("redeclaring n across snippets should fail")
	}
}
