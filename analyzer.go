// analyzer.go — single-pass static checker for miniPL.
//
// The analyzer walks the parse tree once, left to right and depth first,
// keeping a stack of scope frames (global plus one per loop/if body). It never
// mutates the tree: inferred expression types land in a sidecar Info map that
// the interpreter and tests query. The first violation aborts the pass.
//
// Scope discipline mirrors the interpreter exactly, so a name the analyzer
// resolves is the same binding the interpreter will hit at run time.
package minipl

import "fmt"

// SemanticKind discriminates the static error classes.
type SemanticKind int

const (
	Redeclaration SemanticKind = iota
	UndeclaredVariable
	TypeMismatch
	LoopControlMutation
	InvalidAssertType
)

func (k SemanticKind) String() string {
	switch k {
	case Redeclaration:
		return "Redeclaration"
	case UndeclaredVariable:
		return "UndeclaredVariable"
	case TypeMismatch:
		return "TypeMismatch"
	case LoopControlMutation:
		return "LoopControlMutation"
	case InvalidAssertType:
		return "InvalidAssertType"
	default:
		return "SemanticError"
	}
}

// SemanticError is a static violation at a source position.
type SemanticError struct {
	Kind SemanticKind
	Line int
	Col  int
	Msg  string
}

func (e *SemanticError) Error() string {
	return fmt.Sprintf("SEMANTIC ERROR at %d:%d: %s", e.Line, e.Col+1, e.Msg)
}

// Info is the annotation produced by analysis: the inferred type of every
// expression node. It is read-only after the pass.
type Info struct {
	types map[Expr]Type
}

// TypeOf returns the inferred type of e, if e was analyzed.
func (in *Info) TypeOf(e Expr) (Type, bool) {
	t, ok := in.types[e]
	return t, ok
}

// Analyze checks a program in a fresh global scope and returns its annotations.
func Analyze(prog *Program) (*Info, error) {
	a := NewAnalyzer()
	if err := a.Check(prog); err != nil {
		return nil, err
	}
	return a.Info(), nil
}

// symbol is one declared name.
type symbol struct {
	typ         Type
	loopControl bool
}

type scope map[string]*symbol

// Analyzer holds the scope stack across Check calls, so a REPL can feed it
// successive snippets against a persistent global scope.
type Analyzer struct {
	scopes []scope
	info   *Info
}

// NewAnalyzer returns an analyzer with an empty global scope.
func NewAnalyzer() *Analyzer {
	return &Analyzer{
		scopes: []scope{{}},
		info:   &Info{types: map[Expr]Type{}},
	}
}

// Info exposes the annotations accumulated so far.
func (a *Analyzer) Info() *Info { return a.info }

// Check analyzes prog against the analyzer's current scope state. On error no
// further statements are examined.
func (a *Analyzer) Check(prog *Program) error {
	return a.checkStmts(prog.Stmts)
}

// ─────────────────────────────── scope stack ────────────────────────────────

func (a *Analyzer) push() { a.scopes = append(a.scopes, scope{}) }
func (a *Analyzer) pop()  { a.scopes = a.scopes[:len(a.scopes)-1] }

// lookup walks frames innermost to outermost.
func (a *Analyzer) lookup(name string) (*symbol, bool) {
	for i := len(a.scopes) - 1; i >= 0; i-- {
		if sym, ok := a.scopes[i][name]; ok {
			return sym, true
		}
	}
	return nil, false
}

func (a *Analyzer) declare(name string, sym *symbol, at Pos) error {
	top := a.scopes[len(a.scopes)-1]
	if _, ok := top[name]; ok {
		return &SemanticError{
			Kind: Redeclaration, Line: at.Line, Col: at.Col,
			Msg: fmt.Sprintf("variable %q is already declared in this scope", name),
		}
	}
	top[name] = sym
	return nil
}

// ─────────────────────────────── statements ─────────────────────────────────

func (a *Analyzer) checkStmts(stmts []Stmt) error {
	for _, s := range stmts {
		if err := a.checkStmt(s); err != nil {
			return err
		}
	}
	return nil
}

func (a *Analyzer) checkStmt(s Stmt) error {
	switch n := s.(type) {
	case *VarDecl:
		if n.Init != nil {
			t, err := a.checkExpr(n.Init)
			if err != nil {
				return err
			}
			if t != n.DeclType {
				return a.mismatch(n.Init.Pos(),
					"cannot initialize %s variable %q with a %s value", n.DeclType, n.Name, t)
			}
		}
		return a.declare(n.Name, &symbol{typ: n.DeclType}, n.Pos())

	case *AssignStmt:
		sym, ok := a.lookup(n.Name)
		if !ok {
			return a.undeclared(n.Name, n.Pos())
		}
		if sym.loopControl {
			return &SemanticError{
				Kind: LoopControlMutation, Line: n.Pos().Line, Col: n.Pos().Col,
				Msg: fmt.Sprintf("cannot assign to loop control variable %q inside its loop", n.Name),
			}
		}
		t, err := a.checkExpr(n.Value)
		if err != nil {
			return err
		}
		if t != sym.typ {
			return a.mismatch(n.Value.Pos(),
				"cannot assign a %s value to %s variable %q", t, sym.typ, n.Name)
		}
		return nil

	case *ForStmt:
		for _, bound := range []Expr{n.From, n.To} {
			t, err := a.checkExpr(bound)
			if err != nil {
				return err
			}
			if t != TypeInt {
				return a.mismatch(bound.Pos(), "for-loop range bound must be int, got %s", t)
			}
		}
		a.push()
		defer a.pop()
		// The control variable is implicitly declared in the body scope and
		// is read-only for the whole loop.
		if err := a.declare(n.Var, &symbol{typ: TypeInt, loopControl: true}, n.Pos()); err != nil {
			return err
		}
		return a.checkStmts(n.Body)

	case *IfStmt:
		t, err := a.checkExpr(n.Cond)
		if err != nil {
			return err
		}
		if t != TypeBool {
			return a.mismatch(n.Cond.Pos(), "if condition must be bool, got %s", t)
		}
		a.push()
		err = a.checkStmts(n.Then)
		a.pop()
		if err != nil {
			return err
		}
		a.push()
		err = a.checkStmts(n.Else)
		a.pop()
		return err

	case *ReadStmt:
		sym, ok := a.lookup(n.Name)
		if !ok {
			return a.undeclared(n.Name, n.Pos())
		}
		if sym.loopControl {
			return &SemanticError{
				Kind: LoopControlMutation, Line: n.Pos().Line, Col: n.Pos().Col,
				Msg: fmt.Sprintf("cannot read into loop control variable %q inside its loop", n.Name),
			}
		}
		if sym.typ == TypeBool {
			return a.mismatch(n.Pos(), "cannot read into bool variable %q", n.Name)
		}
		return nil

	case *PrintStmt:
		_, err := a.checkExpr(n.Expr)
		return err

	case *AssertStmt:
		t, err := a.checkExpr(n.Expr)
		if err != nil {
			return err
		}
		if t != TypeBool {
			return &SemanticError{
				Kind: InvalidAssertType, Line: n.Expr.Pos().Line, Col: n.Expr.Pos().Col,
				Msg: fmt.Sprintf("assert expression must be bool, got %s", t),
			}
		}
		return nil

	default:
		return fmt.Errorf("internal: unknown statement %T", s)
	}
}

// ─────────────────────────────── expressions ────────────────────────────────

func (a *Analyzer) checkExpr(e Expr) (Type, error) {
	t, err := a.inferExpr(e)
	if err != nil {
		return 0, err
	}
	a.info.types[e] = t
	return t, nil
}

func (a *Analyzer) inferExpr(e Expr) (Type, error) {
	switch n := e.(type) {
	case *Literal:
		return n.Val.Type(), nil

	case *VarRef:
		sym, ok := a.lookup(n.Name)
		if !ok {
			return 0, a.undeclared(n.Name, n.Pos())
		}
		return sym.typ, nil

	case *UnaryExpr:
		t, err := a.checkExpr(n.Operand)
		if err != nil {
			return 0, err
		}
		switch n.Op {
		case MINUS:
			if t != TypeInt {
				return 0, a.mismatch(n.Pos(), "operator '-' requires an int operand, got %s", t)
			}
			return TypeInt, nil
		case BANG:
			if t != TypeBool {
				return 0, a.mismatch(n.Pos(), "operator '!' requires a bool operand, got %s", t)
			}
			return TypeBool, nil
		}
		return 0, fmt.Errorf("internal: unknown unary operator %s", n.Op)

	case *BinaryExpr:
		lt, err := a.checkExpr(n.Left)
		if err != nil {
			return 0, err
		}
		rt, err := a.checkExpr(n.Right)
		if err != nil {
			return 0, err
		}
		switch n.Op {
		case PLUS:
			// '+' is int addition or string concatenation, never mixed.
			if lt == TypeInt && rt == TypeInt {
				return TypeInt, nil
			}
			if lt == TypeStr && rt == TypeStr {
				return TypeStr, nil
			}
			return 0, a.mismatch(n.Pos(),
				"operator '+' requires two ints or two strings, got %s and %s", lt, rt)
		case MINUS, MULT, DIV:
			if lt != TypeInt || rt != TypeInt {
				return 0, a.mismatch(n.Pos(),
					"operator %s requires int operands, got %s and %s", n.Op, lt, rt)
			}
			return TypeInt, nil
		case AND:
			if lt != TypeBool || rt != TypeBool {
				return 0, a.mismatch(n.Pos(),
					"operator '&' requires bool operands, got %s and %s", lt, rt)
			}
			return TypeBool, nil
		case EQ:
			if lt != rt {
				return 0, a.mismatch(n.Pos(),
					"operator '=' requires operands of the same type, got %s and %s", lt, rt)
			}
			return TypeBool, nil
		case LESS:
			// '<' orders ints and strings; bool has no ordering.
			if lt != rt {
				return 0, a.mismatch(n.Pos(),
					"operator '<' requires operands of the same type, got %s and %s", lt, rt)
			}
			if lt == TypeBool {
				return 0, a.mismatch(n.Pos(), "operator '<' is not defined for bool")
			}
			return TypeBool, nil
		}
		return 0, fmt.Errorf("internal: unknown binary operator %s", n.Op)

	default:
		return 0, fmt.Errorf("internal: unknown expression %T", e)
	}
}

// ─────────────────────────────── error helpers ──────────────────────────────

func (a *Analyzer) mismatch(at Pos, format string, args ...interface{}) error {
	return &SemanticError{
		Kind: TypeMismatch, Line: at.Line, Col: at.Col,
		Msg: fmt.Sprintf(format, args...),
	}
}

func (a *Analyzer) undeclared(name string, at Pos) error {
	return &SemanticError{
		Kind: UndeclaredVariable, Line: at.Line, Col: at.Col,
		Msg: fmt.Sprintf("variable %q is used before declaration", name),
	}
}
