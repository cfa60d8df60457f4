// parser.go — LL(1) recursive descent parser for miniPL.
//
// Each parse function consumes exactly the tokens of its production and looks
// at most one token ahead, so no backtracking is ever needed. Precedence is
// encoded in the grammar shape:
//
//	program    := statement (';' statement)* ';'?
//	statement  := varDecl | assignStmt | forStmt | ifStmt
//	            | readStmt | printStmt | assertStmt
//	varDecl    := 'var' ident ':' typeName (':=' expr)?
//	assignStmt := ident ':=' expr
//	forStmt    := 'for' ident 'in' expr '..' expr 'do' stmtList 'end' 'for'
//	ifStmt     := 'if' expr 'do' stmtList ('else' stmtList)? 'end' 'if'
//	readStmt   := 'read' ident
//	printStmt  := 'print' expr
//	assertStmt := 'assert' '(' expr ')'
//	expr       := relExpr ('&' relExpr)*
//	relExpr    := simpleExpr (('=' | '<') simpleExpr)?
//	simpleExpr := term (('+' | '-') term)*
//	term       := factor (('*' | '/') factor)*
//	factor     := intLit | strLit | ident | '(' expr ')' | ('-' | '!') factor
//
// Parsing halts at the first mismatch; there is no error recovery.
package minipl

import "fmt"

// ParseError is a grammar violation at a source position. AtEOF is set when
// the offending token is end-of-input, which lets interactive hosts treat the
// input as incomplete rather than wrong.
type ParseError struct {
	Line  int
	Col   int
	Msg   string
	AtEOF bool
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("SYNTAX ERROR at %d:%d: %s", e.Line, e.Col+1, e.Msg)
}

// IsIncomplete reports whether err is a parse error caused by the source
// ending mid-construct (REPL continuation probe).
func IsIncomplete(err error) bool {
	pe, ok := err.(*ParseError)
	return ok && pe.AtEOF
}

// Parse lexes and parses a complete miniPL source.
func Parse(src string) (*Program, error) {
	toks, err := NewLexer(src).Scan()
	if err != nil {
		return nil, err
	}
	p := &parser{toks: toks}
	return p.program()
}

type parser struct {
	toks []Token
	i    int
}

// ─────────────────────────── token basics & helpers ─────────────────────────

func (p *parser) atEnd() bool { return p.peek().Type == EOF }

func (p *parser) peek() Token {
	if p.i >= len(p.toks) {
		return p.toks[len(p.toks)-1]
	}
	return p.toks[p.i]
}

func (p *parser) prev() Token { return p.toks[p.i-1] }

func (p *parser) match(tt ...TokenType) bool {
	if p.atEnd() {
		return false
	}
	for _, t := range tt {
		if p.peek().Type == t {
			p.i++
			return true
		}
	}
	return false
}

func (p *parser) need(t TokenType) (Token, error) {
	if p.match(t) {
		return p.prev(), nil
	}
	return Token{}, p.errExpected(t.String())
}

// errExpected builds the first-mismatch error at the current token.
func (p *parser) errExpected(what string) error {
	g := p.peek()
	return &ParseError{
		Line:  g.Line,
		Col:   g.Col,
		Msg:   fmt.Sprintf("expected %s, found %s", what, g.Type),
		AtEOF: g.Type == EOF,
	}
}

// ─────────────────────────────── statements ─────────────────────────────────

func (p *parser) program() (*Program, error) {
	stmts, err := p.stmtList(EOF)
	if err != nil {
		return nil, err
	}
	if !p.atEnd() {
		return nil, p.errExpected("';'")
	}
	return &Program{Stmts: stmts}, nil
}

// stmtList parses statement (';' statement)* ';'? up to (not through) any of
// the stop token types.
func (p *parser) stmtList(stop ...TokenType) ([]Stmt, error) {
	stopped := func() bool {
		t := p.peek().Type
		for _, s := range stop {
			if t == s {
				return true
			}
		}
		return false
	}

	var out []Stmt
	for {
		s, err := p.statement()
		if err != nil {
			return nil, err
		}
		out = append(out, s)
		if !p.match(SEMI) {
			break
		}
		if stopped() {
			break // trailing semicolon
		}
	}
	return out, nil
}

func (p *parser) statement() (Stmt, error) {
	switch p.peek().Type {
	case VAR:
		return p.varDecl()
	case ID:
		return p.assignStmt()
	case FOR:
		return p.forStmt()
	case IF:
		return p.ifStmt()
	case READ:
		return p.readStmt()
	case PRINT:
		return p.printStmt()
	case ASSERT:
		return p.assertStmt()
	}
	return nil, p.errExpected("a statement ('var', identifier, 'for', 'if', 'read', 'print' or 'assert')")
}

func (p *parser) varDecl() (Stmt, error) {
	kw, _ := p.need(VAR)
	name, err := p.need(ID)
	if err != nil {
		return nil, err
	}
	if _, err := p.need(COLON); err != nil {
		return nil, err
	}
	tn, err := p.need(TYPE)
	if err != nil {
		return nil, err
	}
	decl := &VarDecl{pos: tokenPos(kw), Name: name.Lexeme, DeclType: typeNames[tn.Lexeme]}
	if p.match(ASSIGN) {
		init, err := p.expr()
		if err != nil {
			return nil, err
		}
		decl.Init = init
	}
	return decl, nil
}

func (p *parser) assignStmt() (Stmt, error) {
	name, _ := p.need(ID)
	if _, err := p.need(ASSIGN); err != nil {
		return nil, err
	}
	val, err := p.expr()
	if err != nil {
		return nil, err
	}
	return &AssignStmt{pos: tokenPos(name), Name: name.Lexeme, Value: val}, nil
}

func (p *parser) forStmt() (Stmt, error) {
	kw, _ := p.need(FOR)
	ctrl, err := p.need(ID)
	if err != nil {
		return nil, err
	}
	if _, err := p.need(IN); err != nil {
		return nil, err
	}
	from, err := p.expr()
	if err != nil {
		return nil, err
	}
	if _, err := p.need(RANGE); err != nil {
		return nil, err
	}
	to, err := p.expr()
	if err != nil {
		return nil, err
	}
	if _, err := p.need(DO); err != nil {
		return nil, err
	}
	body, err := p.stmtList(END)
	if err != nil {
		return nil, err
	}
	if _, err := p.need(END); err != nil {
		return nil, err
	}
	if _, err := p.need(FOR); err != nil {
		return nil, err
	}
	return &ForStmt{pos: tokenPos(kw), Var: ctrl.Lexeme, From: from, To: to, Body: body}, nil
}

func (p *parser) ifStmt() (Stmt, error) {
	kw, _ := p.need(IF)
	cond, err := p.expr()
	if err != nil {
		return nil, err
	}
	if _, err := p.need(DO); err != nil {
		return nil, err
	}
	then, err := p.stmtList(ELSE, END)
	if err != nil {
		return nil, err
	}
	var other []Stmt
	if p.match(ELSE) {
		other, err = p.stmtList(END)
		if err != nil {
			return nil, err
		}
	}
	if _, err := p.need(END); err != nil {
		return nil, err
	}
	if _, err := p.need(IF); err != nil {
		return nil, err
	}
	return &IfStmt{pos: tokenPos(kw), Cond: cond, Then: then, Else: other}, nil
}

func (p *parser) readStmt() (Stmt, error) {
	kw, _ := p.need(READ)
	name, err := p.need(ID)
	if err != nil {
		return nil, err
	}
	return &ReadStmt{pos: tokenPos(kw), Name: name.Lexeme}, nil
}

func (p *parser) printStmt() (Stmt, error) {
	kw, _ := p.need(PRINT)
	e, err := p.expr()
	if err != nil {
		return nil, err
	}
	return &PrintStmt{pos: tokenPos(kw), Expr: e}, nil
}

func (p *parser) assertStmt() (Stmt, error) {
	kw, _ := p.need(ASSERT)
	if _, err := p.need(LROUND); err != nil {
		return nil, err
	}
	e, err := p.expr()
	if err != nil {
		return nil, err
	}
	if _, err := p.need(RROUND); err != nil {
		return nil, err
	}
	return &AssertStmt{pos: tokenPos(kw), Expr: e}, nil
}

// ─────────────────────────────── expressions ────────────────────────────────

func (p *parser) expr() (Expr, error) {
	left, err := p.relExpr()
	if err != nil {
		return nil, err
	}
	for p.match(AND) {
		op := p.prev()
		right, err := p.relExpr()
		if err != nil {
			return nil, err
		}
		left = &BinaryExpr{pos: tokenPos(op), Op: op.Type, Left: left, Right: right}
	}
	return left, nil
}

func (p *parser) relExpr() (Expr, error) {
	left, err := p.simpleExpr()
	if err != nil {
		return nil, err
	}
	// at most one relational operator: a = b = c is a syntax error downstream
	if p.match(EQ, LESS) {
		op := p.prev()
		right, err := p.simpleExpr()
		if err != nil {
			return nil, err
		}
		return &BinaryExpr{pos: tokenPos(op), Op: op.Type, Left: left, Right: right}, nil
	}
	return left, nil
}

func (p *parser) simpleExpr() (Expr, error) {
	left, err := p.term()
	if err != nil {
		return nil, err
	}
	for p.match(PLUS, MINUS) {
		op := p.prev()
		right, err := p.term()
		if err != nil {
			return nil, err
		}
		left = &BinaryExpr{pos: tokenPos(op), Op: op.Type, Left: left, Right: right}
	}
	return left, nil
}

func (p *parser) term() (Expr, error) {
	left, err := p.factor()
	if err != nil {
		return nil, err
	}
	for p.match(MULT, DIV) {
		op := p.prev()
		right, err := p.factor()
		if err != nil {
			return nil, err
		}
		left = &BinaryExpr{pos: tokenPos(op), Op: op.Type, Left: left, Right: right}
	}
	return left, nil
}

func (p *parser) factor() (Expr, error) {
	switch {
	case p.match(INTEGER):
		t := p.prev()
		return &Literal{pos: tokenPos(t), Val: Int(t.Literal.(int64))}, nil
	case p.match(STRING):
		t := p.prev()
		return &Literal{pos: tokenPos(t), Val: Str(t.Literal.(string))}, nil
	case p.match(ID):
		t := p.prev()
		return &VarRef{pos: tokenPos(t), Name: t.Lexeme}, nil
	case p.match(LROUND):
		e, err := p.expr()
		if err != nil {
			return nil, err
		}
		if _, err := p.need(RROUND); err != nil {
			return nil, err
		}
		return e, nil
	case p.match(MINUS, BANG):
		op := p.prev()
		operand, err := p.factor()
		if err != nil {
			return nil, err
		}
		return &UnaryExpr{pos: tokenPos(op), Op: op.Type, Operand: operand}, nil
	}
	return nil, p.errExpected("an expression (literal, identifier, '(', '-' or '!')")
}
