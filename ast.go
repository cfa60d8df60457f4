// ast.go — syntax tree, static types and the runtime value model.
//
// The AST is a closed sum: Stmt and Expr are sealed interfaces whose variants
// are the structs below. Consumers (analyzer, interpreter) switch exhaustively
// over them. Each node owns its children and carries the source position of
// the token that introduced it.
package minipl

import "strconv"

// Pos is a source position. Line is 1-based, Col is 0-based (rendered 1-based
// in diagnostics).
type Pos struct {
	Line int
	Col  int
}

func tokenPos(t Token) Pos { return Pos{Line: t.Line, Col: t.Col} }

// Node is the common interface of all syntax tree nodes.
type Node interface {
	Pos() Pos
}

// Stmt is a statement node.
type Stmt interface {
	Node
	stmtNode()
}

// Expr is an expression node.
type Expr interface {
	Node
	exprNode()
}

// Program is the root of a parsed source: an ordered statement list.
type Program struct {
	Stmts []Stmt
}

// ----- statements -----

// VarDecl is `var name : type` with an optional `:= init`.
type VarDecl struct {
	pos      Pos
	Name     string
	DeclType Type
	Init     Expr // nil when absent
}

// AssignStmt is `name := value`.
type AssignStmt struct {
	pos   Pos
	Name  string
	Value Expr
}

// ForStmt is `for v in from .. to do body end for`. The control variable is
// implicitly declared Int in the body scope and is read-only there.
type ForStmt struct {
	pos      Pos
	Var      string
	From, To Expr
	Body     []Stmt
}

// IfStmt is `if cond do then else other end if`; Else may be empty.
type IfStmt struct {
	pos  Pos
	Cond Expr
	Then []Stmt
	Else []Stmt
}

// ReadStmt is `read name`.
type ReadStmt struct {
	pos  Pos
	Name string
}

// PrintStmt is `print expr`.
type PrintStmt struct {
	pos  Pos
	Expr Expr
}

// AssertStmt is `assert ( expr )`.
type AssertStmt struct {
	pos  Pos
	Expr Expr
}

func (s *VarDecl) Pos() Pos    { return s.pos }
func (s *AssignStmt) Pos() Pos { return s.pos }
func (s *ForStmt) Pos() Pos    { return s.pos }
func (s *IfStmt) Pos() Pos     { return s.pos }
func (s *ReadStmt) Pos() Pos   { return s.pos }
func (s *PrintStmt) Pos() Pos  { return s.pos }
func (s *AssertStmt) Pos() Pos { return s.pos }

func (*VarDecl) stmtNode()    {}
func (*AssignStmt) stmtNode() {}
func (*ForStmt) stmtNode()    {}
func (*IfStmt) stmtNode()     {}
func (*ReadStmt) stmtNode()   {}
func (*PrintStmt) stmtNode()  {}
func (*AssertStmt) stmtNode() {}

// ----- expressions -----

// BinaryExpr applies Op to Left and Right. Op is one of PLUS, MINUS, MULT,
// DIV, EQ, LESS, AND.
type BinaryExpr struct {
	pos         Pos
	Op          TokenType
	Left, Right Expr
}

// UnaryExpr applies Op (MINUS or BANG) to Operand.
type UnaryExpr struct {
	pos     Pos
	Op      TokenType
	Operand Expr
}

// Literal holds an integer or string constant. miniPL has no bool literals;
// Bool values arise only from operators.
type Literal struct {
	pos Pos
	Val Value
}

// VarRef is a use of a declared variable.
type VarRef struct {
	pos  Pos
	Name string
}

func (e *BinaryExpr) Pos() Pos { return e.pos }
func (e *UnaryExpr) Pos() Pos  { return e.pos }
func (e *Literal) Pos() Pos    { return e.pos }
func (e *VarRef) Pos() Pos     { return e.pos }

func (*BinaryExpr) exprNode() {}
func (*UnaryExpr) exprNode()  {}
func (*Literal) exprNode()    {}
func (*VarRef) exprNode()     {}

// ----- static types -----

// Type enumerates the miniPL types.
type Type int

const (
	TypeInt Type = iota
	TypeStr
	TypeBool
)

func (t Type) String() string {
	switch t {
	case TypeInt:
		return "int"
	case TypeStr:
		return "string"
	case TypeBool:
		return "bool"
	default:
		return "unknown"
	}
}

// typeNames maps declared type keywords to Types.
var typeNames = map[string]Type{
	"int":    TypeInt,
	"string": TypeStr,
	"bool":   TypeBool,
}

// ----- runtime values -----

// ValueTag enumerates the runtime kinds a Value may hold.
type ValueTag int

const (
	VTInt  ValueTag = iota // int64
	VTStr                  // string
	VTBool                 // bool
)

// Value is the tagged runtime carrier. Integers are host int64: the language
// range is a 64-bit signed integer, [-2^63, 2^63-1], with wrap-around on
// overflow. Values are copied on assignment; no two variables alias.
type Value struct {
	Tag  ValueTag
	Data interface{}
}

func Int(n int64) Value  { return Value{Tag: VTInt, Data: n} }
func Str(s string) Value { return Value{Tag: VTStr, Data: s} }
func Bool(b bool) Value  { return Value{Tag: VTBool, Data: b} }

// Type reports the static type of the value.
func (v Value) Type() Type {
	switch v.Tag {
	case VTStr:
		return TypeStr
	case VTBool:
		return TypeBool
	default:
		return TypeInt
	}
}

// String renders the value the way `print` emits it: integers in decimal,
// booleans as true/false, strings verbatim.
func (v Value) String() string {
	switch v.Tag {
	case VTInt:
		return strconv.FormatInt(v.Data.(int64), 10)
	case VTStr:
		return v.Data.(string)
	case VTBool:
		return strconv.FormatBool(v.Data.(bool))
	default:
		return "<unknown>"
	}
}

// zeroValue is the default for an uninitialized declaration.
func zeroValue(t Type) Value {
	switch t {
	case TypeStr:
		return Str("")
	case TypeBool:
		return Bool(false)
	default:
		return Int(0)
	}
}
