// Package lexer tokenizes .avo sources: Go code with embedded @html templates.
package lexer

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"
)

// TemplateMarker introduces a template inside Go code.
const TemplateMarker = "@html"

// Lexer tokenizes an .avo source file, or a bare template body.
type Lexer struct {
	input  string
	pos    int // current position in input
	line   int // current line number (1-indexed)
	column int // current column number (1-indexed)

	// Mode tracking
	inTemplate bool // are we inside a template?
	bodyOnly   bool // input is a bare template body with no Go code around it
	depth      int  // brace depth inside the template
}

// New creates a new Lexer for a full .avo source.
func New(input string) *Lexer {
	return &Lexer{
		input:  input,
		line:   1,
		column: 1,
	}
}

// NewTemplate creates a Lexer for a bare template body, such as the text
// between the braces of an @html block.
func NewTemplate(input string) *Lexer {
	l := New(input)
	l.inTemplate = true
	l.bodyOnly = true
	return l
}

// NextToken returns the next token from the input.
func (l *Lexer) NextToken() Token {
	if l.inTemplate {
		return l.lexTemplate()
	}

	if l.pos >= len(l.input) {
		return l.makeToken(TOKEN_EOF, l.pos, l.line, l.column)
	}

	return l.lexGoCode()
}

// lexGoCode lexes Go code until we find a template marker.
func (l *Lexer) lexGoCode() Token {
	start := l.pos
	startLine := l.line
	startColumn := l.column

	for l.pos < len(l.input) {
		if l.isTemplateStart() {
			// Found a template, return accumulated Go code first
			if l.pos > start {
				return l.makeToken(TOKEN_GO_CODE, start, startLine, startColumn)
			}
			return l.lexTemplateMarker()
		}

		// Handle strings and comments to avoid false template detection
		ch := l.peek()
		if ch == '"' {
			l.skipGoString()
		} else if ch == '\'' {
			l.skipGoRune()
		} else if ch == '`' {
			l.skipGoRawString()
		} else if ch == '/' && l.peekNext() == '/' {
			l.skipLineComment()
		} else if ch == '/' && l.peekNext() == '*' {
			l.skipBlockComment()
		} else {
			l.advance()
		}
	}

	return l.makeToken(TOKEN_GO_CODE, start, startLine, startColumn)
}

// isTemplateStart checks if we're at @html followed by a non-identifier rune.
func (l *Lexer) isTemplateStart() bool {
	if !strings.HasPrefix(l.input[l.pos:], TemplateMarker) {
		return false
	}
	next, _ := utf8.DecodeRuneInString(l.input[l.pos+len(TemplateMarker):])
	return !isIdentChar(next)
}

func (l *Lexer) lexTemplateMarker() Token {
	start, line, col := l.pos, l.line, l.column
	for range TemplateMarker {
		l.advance()
	}
	l.inTemplate = true
	l.depth = 0
	return l.makeToken(TOKEN_TEMPLATE, start, line, col)
}

// lexTemplate handles lexing within a template.
func (l *Lexer) lexTemplate() Token {
	if tok, ok := l.skipSpaceAndComments(); !ok {
		return tok
	}

	start, line, col := l.pos, l.line, l.column
	if l.pos >= len(l.input) {
		return l.makeToken(TOKEN_EOF, start, line, col)
	}

	ch := l.peek()
	switch {
	case isIdentStart(ch):
		for l.pos < len(l.input) && isIdentChar(l.peek()) {
			l.advance()
		}
		return l.makeToken(TOKEN_IDENT, start, line, col)
	case isDigit(ch) || (ch == '.' && isDigit(l.peekNext())):
		l.lexNumber()
		return l.makeToken(TOKEN_NUMBER, start, line, col)
	}

	switch ch {
	case '"':
		if msg := l.lexString(); msg != "" {
			return l.errorToken(msg, start, line, col)
		}
		return l.makeToken(TOKEN_STRING, start, line, col)
	case '`':
		if msg := l.lexRawString(); msg != "" {
			return l.errorToken(msg, start, line, col)
		}
		return l.makeToken(TOKEN_STRING, start, line, col)
	case '\'':
		if msg := l.lexRune(); msg != "" {
			return l.errorToken(msg, start, line, col)
		}
		return l.makeToken(TOKEN_CHAR, start, line, col)
	case '@':
		l.advance()
		return l.makeToken(TOKEN_AT, start, line, col)
	case '{':
		l.advance()
		l.depth++
		return l.makeToken(TOKEN_LBRACE, start, line, col)
	case '}':
		l.advance()
		l.depth--
		if l.depth == 0 && !l.bodyOnly {
			l.inTemplate = false
		}
		return l.makeToken(TOKEN_RBRACE, start, line, col)
	case '[':
		l.advance()
		return l.makeToken(TOKEN_LBRACK, start, line, col)
	case ']':
		l.advance()
		return l.makeToken(TOKEN_RBRACK, start, line, col)
	case '(':
		l.advance()
		return l.makeToken(TOKEN_LPAREN, start, line, col)
	case ')':
		l.advance()
		return l.makeToken(TOKEN_RPAREN, start, line, col)
	case ';':
		l.advance()
		return l.makeToken(TOKEN_SEMI, start, line, col)
	case ',':
		l.advance()
		return l.makeToken(TOKEN_COMMA, start, line, col)
	case '=':
		l.advance()
		switch l.peek() {
		case '=':
			l.advance()
			return l.makeToken(TOKEN_OP, start, line, col)
		case '>':
			l.advance()
			return l.makeToken(TOKEN_FAT_ARROW, start, line, col)
		}
		return l.makeToken(TOKEN_ASSIGN, start, line, col)
	}

	for _, op := range operators {
		if strings.HasPrefix(l.input[l.pos:], op) {
			for range op {
				l.advance()
			}
			return l.makeToken(TOKEN_OP, start, line, col)
		}
	}

	l.advance()
	return l.errorToken(fmt.Sprintf("unexpected character %q", ch), start, line, col)
}

// operators lists Go operators, longest first. '=' and '=>' are handled
// separately.
var operators = []string{
	"<<=", ">>=", "&^=", "...",
	"&&", "||", "<-", "++", "--", "!=", "<=", ">=", ":=", "<<", ">>", "&^",
	"+=", "-=", "*=", "/=", "%=", "&=", "|=", "^=",
	"+", "-", "*", "/", "%", "&", "|", "^", "<", ">", "!", ".", ":", "~",
}

// lexNumber consumes a Go numeric literal, including exponent signs.
func (l *Lexer) lexNumber() {
	hex := strings.HasPrefix(l.input[l.pos:], "0x") || strings.HasPrefix(l.input[l.pos:], "0X")
	var prev rune
	for l.pos < len(l.input) {
		ch := l.peek()
		switch {
		case isIdentChar(ch) || ch == '.':
		case (ch == '+' || ch == '-') && (prev == 'p' || prev == 'P' || (!hex && (prev == 'e' || prev == 'E'))):
		default:
			return
		}
		prev = ch
		l.advance()
	}
}

// lexString consumes an interpreted string literal and returns an error
// message if it is malformed.
func (l *Lexer) lexString() string {
	l.advance() // consume opening "
	for l.pos < len(l.input) {
		switch l.peek() {
		case '"':
			l.advance()
			return ""
		case '\n':
			return "newline in string literal"
		case '\\':
			l.advance()
		}
		l.advance()
	}
	return "unterminated string literal"
}

// lexRawString consumes a raw string literal.
func (l *Lexer) lexRawString() string {
	l.advance() // consume opening `
	for l.pos < len(l.input) {
		if l.peek() == '`' {
			l.advance()
			return ""
		}
		l.advance()
	}
	return "unterminated raw string literal"
}

// lexRune consumes a rune literal.
func (l *Lexer) lexRune() string {
	l.advance() // consume opening '
	for l.pos < len(l.input) {
		switch l.peek() {
		case '\'':
			l.advance()
			return ""
		case '\n':
			return "newline in rune literal"
		case '\\':
			l.advance()
		}
		l.advance()
	}
	return "unterminated rune literal"
}

// skipSpaceAndComments skips whitespace and Go comments inside a template.
// It returns false with an error token for an unterminated block comment.
func (l *Lexer) skipSpaceAndComments() (Token, bool) {
	for l.pos < len(l.input) {
		ch := l.peek()
		switch {
		case unicode.IsSpace(ch):
			l.advance()
		case ch == '/' && l.peekNext() == '/':
			l.skipLineComment()
		case ch == '/' && l.peekNext() == '*':
			start, line, col := l.pos, l.line, l.column
			if !l.skipBlockComment() {
				return l.errorToken("unterminated comment", start, line, col), false
			}
		default:
			return Token{}, true
		}
	}
	return Token{}, true
}

// Helper functions

func (l *Lexer) peek() rune {
	if l.pos >= len(l.input) {
		return 0
	}
	r, _ := utf8.DecodeRuneInString(l.input[l.pos:])
	return r
}

func (l *Lexer) peekNext() rune {
	if l.pos+1 >= len(l.input) {
		return 0
	}
	_, size := utf8.DecodeRuneInString(l.input[l.pos:])
	r, _ := utf8.DecodeRuneInString(l.input[l.pos+size:])
	return r
}

func (l *Lexer) advance() {
	if l.pos >= len(l.input) {
		return
	}

	r, size := utf8.DecodeRuneInString(l.input[l.pos:])
	if r == '\n' {
		l.line++
		l.column = 1
	} else {
		l.column++
	}
	l.pos += size
}

func (l *Lexer) makeToken(typ TokenType, start, line, column int) Token {
	return Token{
		Type:   typ,
		Value:  l.input[start:l.pos],
		Offset: start,
		Line:   line,
		Column: column,
	}
}

func (l *Lexer) errorToken(msg string, start, line, column int) Token {
	return Token{
		Type:   TOKEN_ERROR,
		Value:  msg,
		Offset: start,
		Line:   line,
		Column: column,
	}
}

// skipGoString skips over a Go string literal.
func (l *Lexer) skipGoString() {
	l.advance() // consume opening "
	for l.pos < len(l.input) {
		ch := l.peek()
		if ch == '"' || ch == '\n' {
			l.advance()
			break
		}
		if ch == '\\' {
			l.advance()
		}
		l.advance()
	}
}

// skipGoRune skips over a Go rune literal.
func (l *Lexer) skipGoRune() {
	l.advance() // consume opening '
	for l.pos < len(l.input) {
		ch := l.peek()
		if ch == '\'' || ch == '\n' {
			l.advance()
			break
		}
		if ch == '\\' {
			l.advance()
		}
		l.advance()
	}
}

// skipGoRawString skips over a Go raw string literal.
func (l *Lexer) skipGoRawString() {
	l.advance() // consume opening `
	for l.pos < len(l.input) {
		if l.peek() == '`' {
			l.advance()
			break
		}
		l.advance()
	}
}

// skipLineComment skips over a line comment, leaving the newline.
func (l *Lexer) skipLineComment() {
	for l.pos < len(l.input) && l.peek() != '\n' {
		l.advance()
	}
}

// skipBlockComment skips over a block comment and reports whether it was
// terminated.
func (l *Lexer) skipBlockComment() bool {
	l.advance() // consume /
	l.advance() // consume *
	for l.pos < len(l.input) {
		if l.peek() == '*' && l.peekNext() == '/' {
			l.advance()
			l.advance()
			return true
		}
		l.advance()
	}
	return false
}

func isIdentStart(r rune) bool {
	return unicode.IsLetter(r) || r == '_'
}

func isIdentChar(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_'
}

func isDigit(r rune) bool {
	return r >= '0' && r <= '9'
}
