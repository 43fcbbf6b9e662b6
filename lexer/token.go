package lexer

import "fmt"

// TokenType represents the type of a lexical token.
type TokenType int

const (
	TOKEN_EOF TokenType = iota
	TOKEN_ERROR

	// Go code (pass-through)
	TOKEN_GO_CODE
	TOKEN_TEMPLATE // @html

	// Template tokens
	TOKEN_IDENT     // div, x, if
	TOKEN_STRING    // "text" or `text`
	TOKEN_NUMBER    // 42, 1.5e3
	TOKEN_CHAR      // 'a'
	TOKEN_AT        // @
	TOKEN_LBRACE    // {
	TOKEN_RBRACE    // }
	TOKEN_LBRACK    // [
	TOKEN_RBRACK    // ]
	TOKEN_LPAREN    // (
	TOKEN_RPAREN    // )
	TOKEN_SEMI      // ;
	TOKEN_COMMA     // ,
	TOKEN_ASSIGN    // =
	TOKEN_FAT_ARROW // =>
	TOKEN_OP        // any other Go operator
)

// String returns a string representation of the token type.
func (t TokenType) String() string {
	switch t {
	case TOKEN_EOF:
		return "EOF"
	case TOKEN_ERROR:
		return "ERROR"
	case TOKEN_GO_CODE:
		return "GO_CODE"
	case TOKEN_TEMPLATE:
		return "TEMPLATE"
	case TOKEN_IDENT:
		return "IDENT"
	case TOKEN_STRING:
		return "STRING"
	case TOKEN_NUMBER:
		return "NUMBER"
	case TOKEN_CHAR:
		return "CHAR"
	case TOKEN_AT:
		return "AT"
	case TOKEN_LBRACE:
		return "LBRACE"
	case TOKEN_RBRACE:
		return "RBRACE"
	case TOKEN_LBRACK:
		return "LBRACK"
	case TOKEN_RBRACK:
		return "RBRACK"
	case TOKEN_LPAREN:
		return "LPAREN"
	case TOKEN_RPAREN:
		return "RPAREN"
	case TOKEN_SEMI:
		return "SEMI"
	case TOKEN_COMMA:
		return "COMMA"
	case TOKEN_ASSIGN:
		return "ASSIGN"
	case TOKEN_FAT_ARROW:
		return "FAT_ARROW"
	case TOKEN_OP:
		return "OP"
	default:
		return fmt.Sprintf("TOKEN(%d)", t)
	}
}

// Token represents a lexical token. Value holds the source text of the
// token, except for TOKEN_ERROR where it holds the error message.
type Token struct {
	Type   TokenType
	Value  string
	Offset int
	Line   int
	Column int
}

// End returns the byte offset just past the token.
func (t Token) End() int {
	if t.Type == TOKEN_ERROR {
		return t.Offset
	}
	return t.Offset + len(t.Value)
}

// Describe returns the token as it appears in diagnostics.
func (t Token) Describe() string {
	switch t.Type {
	case TOKEN_EOF:
		return "end of input"
	case TOKEN_ERROR:
		return t.Value
	case TOKEN_STRING:
		if len(t.Value) > 20 {
			return "string literal " + t.Value[:20] + "..."
		}
		return "string literal " + t.Value
	case TOKEN_IDENT:
		return "identifier `" + t.Value + "`"
	case TOKEN_GO_CODE:
		return "Go code"
	}
	return "`" + t.Value + "`"
}

// String returns a string representation of the token.
func (t Token) String() string {
	if len(t.Value) > 20 {
		return fmt.Sprintf("%s(%q...)", t.Type, t.Value[:20])
	}
	return fmt.Sprintf("%s(%q)", t.Type, t.Value)
}
