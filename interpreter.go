// interpreter.go — tree-walking executor for analyzed miniPL programs.
//
// Execution is strictly sequential and single-threaded. The interpreter owns
// a stack of scope frames (global plus one per active block); lookups walk
// the stack from the innermost frame outward, the same discipline the
// analyzer used, so every name the analyzer accepted resolves here too.
//
// The host supplies the I/O boundary: an io.Reader consumed one line per
// `read`, and an io.Writer receiving one line per `print`, written as soon as
// the statement executes. The `read` wait is a plain synchronous call with no
// timeout.
package minipl

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// FaultKind discriminates the runtime fault classes.
type FaultKind int

const (
	DivisionByZero FaultKind = iota
	AssertionFailed
	InvalidInputFormat
	UnexpectedEndOfInput
)

func (k FaultKind) String() string {
	switch k {
	case DivisionByZero:
		return "DivisionByZero"
	case AssertionFailed:
		return "AssertionFailed"
	case InvalidInputFormat:
		return "InvalidInputFormat"
	case UnexpectedEndOfInput:
		return "UnexpectedEndOfInput"
	default:
		return "RuntimeFault"
	}
}

// RuntimeError is an execution-time fault carrying the source position of the
// statement or expression that raised it. Output printed before the fault is
// already with the host and is not retracted.
type RuntimeError struct {
	Kind FaultKind
	Line int
	Col  int
	Msg  string
}

func (e *RuntimeError) Error() string {
	return fmt.Sprintf("RUNTIME ERROR at %d:%d: %s", e.Line, e.Col+1, e.Msg)
}

// frame is one scope level of name → value bindings.
type frame map[string]Value

// Interp executes analyzed programs. It keeps its global frame across Execute
// calls, so a REPL can feed it successive snippets.
type Interp struct {
	scopes []frame
	info   *Info
	in     *bufio.Reader
	out    io.Writer
}

// NewInterp builds an interpreter over the given annotations and I/O streams.
// The Info must come from the analyzer run that accepted the programs passed
// to Execute.
func NewInterp(info *Info, in io.Reader, out io.Writer) *Interp {
	return &Interp{
		scopes: []frame{{}},
		info:   info,
		in:     bufio.NewReader(in),
		out:    out,
	}
}

// Run drives the whole pipeline on one source: lex, parse, analyze, execute.
// Any stage error is returned wrapped with a caret snippet of src.
func Run(src string, in io.Reader, out io.Writer) error {
	prog, err := Parse(src)
	if err != nil {
		return WrapErrorWithSource(err, src)
	}
	info, err := Analyze(prog)
	if err != nil {
		return WrapErrorWithSource(err, src)
	}
	if err := NewInterp(info, in, out).Execute(prog); err != nil {
		return WrapErrorWithSource(err, src)
	}
	return nil
}

// Execute runs the program's statements in order, stopping at the first fault.
func (ip *Interp) Execute(prog *Program) error {
	return ip.execStmts(prog.Stmts)
}

// ─────────────────────────────── scope stack ────────────────────────────────

func (ip *Interp) push() { ip.scopes = append(ip.scopes, frame{}) }
func (ip *Interp) pop()  { ip.scopes = ip.scopes[:len(ip.scopes)-1] }

func (ip *Interp) define(name string, v Value) {
	ip.scopes[len(ip.scopes)-1][name] = v
}

func (ip *Interp) lookup(name string) (Value, bool) {
	for i := len(ip.scopes) - 1; i >= 0; i-- {
		if v, ok := ip.scopes[i][name]; ok {
			return v, true
		}
	}
	return Value{}, false
}

// set overwrites the nearest existing binding. The analyzer guarantees one
// exists.
func (ip *Interp) set(name string, v Value) {
	for i := len(ip.scopes) - 1; i >= 0; i-- {
		if _, ok := ip.scopes[i][name]; ok {
			ip.scopes[i][name] = v
			return
		}
	}
	ip.scopes[0][name] = v
}

// ─────────────────────────────── statements ─────────────────────────────────

func (ip *Interp) execStmts(stmts []Stmt) error {
	for _, s := range stmts {
		if err := ip.execStmt(s); err != nil {
			return err
		}
	}
	return nil
}

func (ip *Interp) execStmt(s Stmt) error {
	switch n := s.(type) {
	case *VarDecl:
		v := zeroValue(n.DeclType)
		if n.Init != nil {
			ev, err := ip.eval(n.Init)
			if err != nil {
				return err
			}
			v = ev
		}
		ip.define(n.Name, v)
		return nil

	case *AssignStmt:
		v, err := ip.eval(n.Value)
		if err != nil {
			return err
		}
		ip.set(n.Name, v)
		return nil

	case *ForStmt:
		// Both bounds are fixed before the first iteration; later mutation of
		// variables used in the bound expressions does not affect the range.
		from, err := ip.evalInt(n.From)
		if err != nil {
			return err
		}
		to, err := ip.evalInt(n.To)
		if err != nil {
			return err
		}
		for i := from; i <= to; i++ {
			ip.push()
			ip.define(n.Var, Int(i))
			err := ip.execStmts(n.Body)
			ip.pop()
			if err != nil {
				return err
			}
		}
		return nil

	case *IfStmt:
		cond, err := ip.eval(n.Cond)
		if err != nil {
			return err
		}
		branch := n.Then
		if !cond.Data.(bool) {
			branch = n.Else
		}
		ip.push()
		err = ip.execStmts(branch)
		ip.pop()
		return err

	case *ReadStmt:
		return ip.execRead(n)

	case *PrintStmt:
		v, err := ip.eval(n.Expr)
		if err != nil {
			return err
		}
		_, werr := fmt.Fprintln(ip.out, v.String())
		return werr

	case *AssertStmt:
		v, err := ip.eval(n.Expr)
		if err != nil {
			return err
		}
		if !v.Data.(bool) {
			return &RuntimeError{
				Kind: AssertionFailed, Line: n.Pos().Line, Col: n.Pos().Col,
				Msg: "assertion failed",
			}
		}
		return nil

	default:
		return fmt.Errorf("internal: unknown statement %T", s)
	}
}

func (ip *Interp) execRead(n *ReadStmt) error {
	line, ok := ip.readLine()
	if !ok {
		return &RuntimeError{
			Kind: UnexpectedEndOfInput, Line: n.Pos().Line, Col: n.Pos().Col,
			Msg: fmt.Sprintf("input ended while reading into %q", n.Name),
		}
	}
	cur, _ := ip.lookup(n.Name)
	switch cur.Tag {
	case VTInt:
		v, err := strconv.ParseInt(strings.TrimSpace(line), 10, 64)
		if err != nil {
			return &RuntimeError{
				Kind: InvalidInputFormat, Line: n.Pos().Line, Col: n.Pos().Col,
				Msg: fmt.Sprintf("cannot read %q into int variable %q", line, n.Name),
			}
		}
		ip.set(n.Name, Int(v))
	default:
		ip.set(n.Name, Str(line))
	}
	return nil
}

// readLine blocks for one line of host input. The final line may lack a
// newline. Returns false once the stream is exhausted.
func (ip *Interp) readLine() (string, bool) {
	line, err := ip.in.ReadString('\n')
	if err != nil && line == "" {
		return "", false
	}
	line = strings.TrimSuffix(line, "\n")
	line = strings.TrimSuffix(line, "\r")
	return line, true
}

// ─────────────────────────────── expressions ────────────────────────────────

func (ip *Interp) evalInt(e Expr) (int64, error) {
	v, err := ip.eval(e)
	if err != nil {
		return 0, err
	}
	return v.Data.(int64), nil
}

func (ip *Interp) eval(e Expr) (Value, error) {
	switch n := e.(type) {
	case *Literal:
		return n.Val, nil

	case *VarRef:
		v, ok := ip.lookup(n.Name)
		if !ok {
			return Value{}, fmt.Errorf("internal: unbound variable %q", n.Name)
		}
		return v, nil

	case *UnaryExpr:
		v, err := ip.eval(n.Operand)
		if err != nil {
			return Value{}, err
		}
		if n.Op == MINUS {
			return Int(-v.Data.(int64)), nil
		}
		return Bool(!v.Data.(bool)), nil

	case *BinaryExpr:
		l, err := ip.eval(n.Left)
		if err != nil {
			return Value{}, err
		}
		r, err := ip.eval(n.Right)
		if err != nil {
			return Value{}, err
		}
		switch n.Op {
		case PLUS:
			if l.Tag == VTStr {
				return Str(l.Data.(string) + r.Data.(string)), nil
			}
			return Int(l.Data.(int64) + r.Data.(int64)), nil
		case MINUS:
			return Int(l.Data.(int64) - r.Data.(int64)), nil
		case MULT:
			return Int(l.Data.(int64) * r.Data.(int64)), nil
		case DIV:
			d := r.Data.(int64)
			if d == 0 {
				return Value{}, &RuntimeError{
					Kind: DivisionByZero, Line: n.Pos().Line, Col: n.Pos().Col,
					Msg: "integer division by zero",
				}
			}
			return Int(l.Data.(int64) / d), nil
		case AND:
			return Bool(l.Data.(bool) && r.Data.(bool)), nil
		case EQ:
			return Bool(l.Data == r.Data), nil
		case LESS:
			if l.Tag == VTStr {
				return Bool(l.Data.(string) < r.Data.(string)), nil
			}
			return Bool(l.Data.(int64) < r.Data.(int64)), nil
		}
		return Value{}, fmt.Errorf("internal: unknown binary operator %s", n.Op)

	default:
		return Value{}, fmt.Errorf("internal: unknown expression %T", e)
	}
}
