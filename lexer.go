// lexer.go
package minipl

import (
	"fmt"
	"strconv"
)

// TokenType represents the kind of token.
type TokenType int

const (
	// Special
	EOF TokenType = iota

	// Punctuation
	LROUND // "("
	RROUND // ")"
	COLON  // ":"
	SEMI   // ";"
	COMMA  // ","

	// Operators
	PLUS   // "+"
	MINUS  // "-"
	MULT   // "*"
	DIV    // "/"
	EQ     // "="
	LESS   // "<"
	ASSIGN // ":="
	RANGE  // ".."
	AND    // "&"
	BANG   // "!"

	// Literals & identifiers
	ID
	INTEGER
	STRING

	// Keywords
	VAR
	FOR
	IN
	DO
	END
	READ
	PRINT
	ASSERT
	IF
	ELSE
	TYPE // "int", "string" or "bool"; the name is the lexeme
)

// Token is a lexical token with optional literal value.
type Token struct {
	Type    TokenType
	Lexeme  string      // raw text slice
	Literal interface{} // parsed value for literals (int64 / decoded string)
	Line    int
	Col     int
}

// keywords map
var keywords = map[string]TokenType{
	"var":    VAR,
	"for":    FOR,
	"in":     IN,
	"do":     DO,
	"end":    END,
	"read":   READ,
	"print":  PRINT,
	"assert": ASSERT,
	"if":     IF,
	"else":   ELSE,
	"int":    TYPE,
	"string": TYPE,
	"bool":   TYPE,
}

var tokenNames = map[TokenType]string{
	EOF:    "end of input",
	LROUND: "'('",
	RROUND: "')'",
	COLON:  "':'",
	SEMI:   "';'",
	COMMA:  "','",
	PLUS:   "'+'",
	MINUS:  "'-'",
	MULT:   "'*'",
	DIV:    "'/'",
	EQ:     "'='",
	LESS:   "'<'",
	ASSIGN: "':='",
	RANGE:  "'..'",
	AND:    "'&'",
	BANG:   "'!'",
	ID:     "identifier",
	INTEGER: "integer literal",
	STRING:  "string literal",
	VAR:     "'var'",
	FOR:     "'for'",
	IN:      "'in'",
	DO:      "'do'",
	END:     "'end'",
	READ:    "'read'",
	PRINT:   "'print'",
	ASSERT:  "'assert'",
	IF:      "'if'",
	ELSE:    "'else'",
	TYPE:    "type name",
}

func (tt TokenType) String() string {
	if s, ok := tokenNames[tt]; ok {
		return s
	}
	return fmt.Sprintf("token(%d)", int(tt))
}

// Lexer scans a miniPL source string into tokens.
type Lexer struct {
	src   string
	start int // start index of current token
	cur   int // current index
	line  int // 1-based
	col   int // 0-based column within line
	done  bool
	last  Token // EOF token, returned forever once produced

	// precise token start position
	tokStartLine int
	tokStartCol  int
}

// NewLexer creates a new lexer for the given source.
func NewLexer(src string) *Lexer {
	return &Lexer{
		src:  src,
		line: 1,
		col:  0,
	}
}

func (l *Lexer) isAtEnd() bool { return l.cur >= len(l.src) }

func (l *Lexer) peek() (byte, bool) {
	if l.isAtEnd() {
		return 0, false
	}
	return l.src[l.cur], true
}

func (l *Lexer) peekN(n int) (byte, bool) {
	idx := l.cur + n
	if idx >= len(l.src) {
		return 0, false
	}
	return l.src[idx], true
}

func (l *Lexer) advance() (byte, bool) {
	if l.isAtEnd() {
		return 0, false
	}
	ch := l.src[l.cur]
	l.cur++
	if ch == '\n' {
		l.line++
		l.col = 0
	} else {
		l.col++
	}
	return ch, true
}

func (l *Lexer) makeToken(tt TokenType, lit interface{}) Token {
	return Token{
		Type:    tt,
		Lexeme:  l.src[l.start:l.cur],
		Literal: lit,
		Line:    l.tokStartLine,
		Col:     l.tokStartCol,
	}
}

func isDigit(b byte) bool { return b >= '0' && b <= '9' }
func isAlpha(b byte) bool { return (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z') }
func isAlphaNum(b byte) bool {
	return isAlpha(b) || isDigit(b) || b == '_'
}

// ----- errors -----

type LexError struct {
	Line int
	Col  int
	Msg  string
}

func (e *LexError) Error() string {
	return fmt.Sprintf("LEXICAL ERROR at %d:%d: %s", e.Line, e.Col+1, e.Msg)
}

func (l *Lexer) err(msg string) error {
	return &LexError{Line: l.line, Col: l.col, Msg: msg}
}

func (l *Lexer) errAtStart(msg string) error {
	return &LexError{Line: l.tokStartLine, Col: l.tokStartCol, Msg: msg}
}

// ----- scanners -----

// scanString parses a double-quoted string literal with the escapes
// \" \\ \n \t. The literal must close on the same physical line.
func (l *Lexer) scanString() (string, error) {
	// opening quote already consumed
	var out []byte
	for {
		ch, ok := l.peek()
		if !ok || ch == '\n' {
			return "", l.errAtStart("string was not terminated")
		}
		l.advance()
		if ch == '"' {
			return string(out), nil
		}
		if ch == '\\' {
			esc, ok := l.peek()
			if !ok {
				return "", l.errAtStart("string was not terminated")
			}
			l.advance()
			switch esc {
			case '"':
				out = append(out, '"')
			case '\\':
				out = append(out, '\\')
			case 'n':
				out = append(out, '\n')
			case 't':
				out = append(out, '\t')
			default:
				return "", l.err(fmt.Sprintf("invalid escape sequence: \\%c", esc))
			}
			continue
		}
		out = append(out, ch)
	}
}

// scanIdentifier parses [A-Za-z][A-Za-z0-9_]*; the first letter was already
// checked by the caller.
func (l *Lexer) scanIdentifier() string {
	for {
		b, ok := l.peek()
		if !ok || !isAlphaNum(b) {
			break
		}
		l.advance()
	}
	return l.src[l.start:l.cur]
}

// scanInteger parses a decimal digit run into an int64.
func (l *Lexer) scanInteger() (int64, error) {
	for {
		b, ok := l.peek()
		if !ok || !isDigit(b) {
			break
		}
		l.advance()
	}
	lex := l.src[l.start:l.cur]
	v, err := strconv.ParseInt(lex, 10, 64)
	if err != nil {
		return 0, l.errAtStart("integer literal out of range")
	}
	return v, nil
}

// skipLineComment eats "//" until '\n' or EOF. The two slashes were consumed.
func (l *Lexer) skipLineComment() {
	for {
		b, ok := l.peek()
		if !ok || b == '\n' {
			return
		}
		l.advance()
	}
}

// skipBlockComment eats a "/* */" comment, counting nested openers.
// The opening "/*" was consumed.
func (l *Lexer) skipBlockComment() error {
	depth := 1
	for depth > 0 {
		ch, ok := l.advance()
		if !ok {
			return l.errAtStart("block comment was not terminated")
		}
		switch ch {
		case '/':
			if b, ok := l.peek(); ok && b == '*' {
				l.advance()
				depth++
			}
		case '*':
			if b, ok := l.peek(); ok && b == '/' {
				l.advance()
				depth--
			}
		}
	}
	return nil
}

// ----- main scanner -----

func (l *Lexer) scanToken() (Token, error) {
	for {
		// skip whitespace
		for {
			b, ok := l.peek()
			if !ok || (b != ' ' && b != '\t' && b != '\r' && b != '\n') {
				break
			}
			l.advance()
		}
		l.tokStartLine = l.line
		l.tokStartCol = l.col
		l.start = l.cur

		if l.isAtEnd() {
			return l.makeToken(EOF, nil), nil
		}

		ch, _ := l.advance()

		switch ch {
		case '(':
			return l.makeToken(LROUND, nil), nil
		case ')':
			return l.makeToken(RROUND, nil), nil
		case ';':
			return l.makeToken(SEMI, nil), nil
		case ',':
			return l.makeToken(COMMA, nil), nil
		case '+':
			return l.makeToken(PLUS, nil), nil
		case '-':
			return l.makeToken(MINUS, nil), nil
		case '*':
			return l.makeToken(MULT, nil), nil
		case '=':
			return l.makeToken(EQ, nil), nil
		case '<':
			return l.makeToken(LESS, nil), nil
		case '&':
			return l.makeToken(AND, nil), nil
		case '!':
			return l.makeToken(BANG, nil), nil
		case ':':
			// ':=' wins over ':' (maximal munch)
			if b, ok := l.peek(); ok && b == '=' {
				l.advance()
				return l.makeToken(ASSIGN, nil), nil
			}
			return l.makeToken(COLON, nil), nil
		case '.':
			if b, ok := l.peek(); ok && b == '.' {
				l.advance()
				return l.makeToken(RANGE, nil), nil
			}
			return Token{}, l.errAtStart("unexpected character: '.'")
		case '/':
			if b, ok := l.peek(); ok && b == '/' {
				l.advance()
				l.skipLineComment()
				continue
			}
			if b, ok := l.peek(); ok && b == '*' {
				l.advance()
				if err := l.skipBlockComment(); err != nil {
					return Token{}, err
				}
				continue
			}
			return l.makeToken(DIV, nil), nil
		case '"':
			text, err := l.scanString()
			if err != nil {
				return Token{}, err
			}
			return l.makeToken(STRING, text), nil
		}

		if isDigit(ch) {
			v, err := l.scanInteger()
			if err != nil {
				return Token{}, err
			}
			return l.makeToken(INTEGER, v), nil
		}

		if isAlpha(ch) {
			lex := l.scanIdentifier()
			if tt, ok := keywords[lex]; ok {
				return l.makeToken(tt, lex), nil
			}
			return l.makeToken(ID, lex), nil
		}

		return Token{}, l.errAtStart(fmt.Sprintf("unexpected character: %q", ch))
	}
}

// Next returns the next token. Once the end-of-input token has been produced,
// every further call returns it again.
func (l *Lexer) Next() (Token, error) {
	if l.done {
		return l.last, nil
	}
	tok, err := l.scanToken()
	if err != nil {
		return Token{}, err
	}
	if tok.Type == EOF {
		l.done = true
		l.last = tok
	}
	return tok, nil
}

// Scan tokenizes the entire source and returns tokens (EOF included).
func (l *Lexer) Scan() ([]Token, error) {
	var tokens []Token
	for {
		tok, err := l.Next()
		if err != nil {
			return nil, err
		}
		tokens = append(tokens, tok)
		if tok.Type == EOF {
			return tokens, nil
		}
	}
}
