package parser

import (
	"strings"

	"github.com/gerardmtb/avo/ast"
	"github.com/gerardmtb/avo/lexer"
)

// Host expressions are opaque Go source. The parser only finds where one
// ends; the text between is carried verbatim into the generated code.

// exprUntil consumes a balanced token run up to, but not including, the
// first depth-0 token accepted by stop or an unmatched closing bracket.
func (p *Parser) exprUntil(stop func(lexer.Token) bool) (ast.Expr, error) {
	var toks []lexer.Token
	depth := 0

loop:
	for {
		tok := p.tok()
		switch tok.Type {
		case lexer.TOKEN_EOF, lexer.TOKEN_GO_CODE, lexer.TOKEN_TEMPLATE:
			break loop
		case lexer.TOKEN_ERROR:
			return ast.Expr{}, p.unexpected()
		}
		if depth == 0 && stop(tok) {
			break loop
		}

		switch tok.Type {
		case lexer.TOKEN_LPAREN, lexer.TOKEN_LBRACK, lexer.TOKEN_LBRACE:
			depth++
		case lexer.TOKEN_RPAREN, lexer.TOKEN_RBRACK, lexer.TOKEN_RBRACE:
			if depth == 0 {
				break loop
			}
			depth--
		}
		toks = append(toks, p.next())
	}

	if len(toks) == 0 {
		return ast.Expr{}, p.unexpected("expression")
	}
	return p.makeExpr(toks), nil
}

// parseOperandExpr consumes the expression following a bare '@'. Unlike
// attribute values it has no terminator, so its extent follows Go's operand
// grammar: unary operators, an operand with selectors, indexes, calls and
// composite literal bodies, joined by binary operators.
func (p *Parser) parseOperandExpr() (ast.Expr, error) {
	s := &operandScanner{p: p}
	if err := s.binary(); err != nil {
		return ast.Expr{}, err
	}
	return p.makeExpr(s.toks), nil
}

// makeExpr slices the source covered by toks. An expression written as a
// single { ... } block stands for its parenthesised contents.
func (p *Parser) makeExpr(toks []lexer.Token) ast.Expr {
	first, last := toks[0], toks[len(toks)-1]
	expr := ast.Expr{
		Src:   p.src[first.Offset:last.End()],
		Range: ast.Range{Start: position(first), End: endPosition(last)},
	}

	if first.Type == lexer.TOKEN_LBRACE && closingIndex(toks) == len(toks)-1 {
		if inner := strings.TrimSpace(p.src[first.End():last.Offset]); inner != "" {
			expr.Src = "(" + inner + ")"
		}
	}
	return expr
}

// closingIndex returns the index of the token closing toks[0].
func closingIndex(toks []lexer.Token) int {
	depth := 0
	for i, tok := range toks {
		switch tok.Type {
		case lexer.TOKEN_LPAREN, lexer.TOKEN_LBRACK, lexer.TOKEN_LBRACE:
			depth++
		case lexer.TOKEN_RPAREN, lexer.TOKEN_RBRACK, lexer.TOKEN_RBRACE:
			depth--
			if depth == 0 {
				return i
			}
		}
	}
	return -1
}

var binaryOps = map[string]bool{
	"+": true, "-": true, "*": true, "/": true, "%": true,
	"&": true, "|": true, "^": true, "<<": true, ">>": true, "&^": true,
	"&&": true, "||": true,
	"==": true, "!=": true, "<": true, "<=": true, ">": true, ">=": true,
}

var unaryOps = map[string]bool{
	"+": true, "-": true, "!": true, "^": true, "*": true, "&": true, "<-": true,
}

// operandScanner collects the tokens of one @ expression.
type operandScanner struct {
	p    *Parser
	toks []lexer.Token
}

func (s *operandScanner) take() {
	s.toks = append(s.toks, s.p.next())
}

func (s *operandScanner) isOp(value string) bool {
	tok := s.p.tok()
	return tok.Type == lexer.TOKEN_OP && tok.Value == value
}

func (s *operandScanner) binary() error {
	for {
		if err := s.unary(); err != nil {
			return err
		}
		tok := s.p.tok()
		if tok.Type != lexer.TOKEN_OP || !binaryOps[tok.Value] {
			return nil
		}
		s.take()
	}
}

func (s *operandScanner) unary() error {
	for tok := s.p.tok(); tok.Type == lexer.TOKEN_OP && unaryOps[tok.Value]; tok = s.p.tok() {
		s.take()
	}
	return s.primary()
}

func (s *operandScanner) primary() error {
	if err := s.operand(); err != nil {
		return err
	}

	for {
		switch tok := s.p.tok(); {
		case tok.Type == lexer.TOKEN_OP && tok.Value == ".":
			s.take()
			switch s.p.tok().Type {
			case lexer.TOKEN_IDENT:
				s.take()
			case lexer.TOKEN_LPAREN: // type assertion
				if err := s.balanced(); err != nil {
					return err
				}
			default:
				return s.p.unexpected("identifier", "`(`")
			}
		case tok.Type == lexer.TOKEN_LBRACK, tok.Type == lexer.TOKEN_LPAREN, tok.Type == lexer.TOKEN_LBRACE:
			if err := s.balanced(); err != nil {
				return err
			}
		default:
			return nil
		}
	}
}

func (s *operandScanner) operand() error {
	tok := s.p.tok()
	switch tok.Type {
	case lexer.TOKEN_IDENT:
		switch {
		case tok.Value == "func":
			return s.funcLit()
		case tok.Value == "map" && s.p.peekAt(1).Type == lexer.TOKEN_LBRACK:
			return s.typ()
		}
		s.take()
		return nil
	case lexer.TOKEN_NUMBER, lexer.TOKEN_STRING, lexer.TOKEN_CHAR:
		s.take()
		return nil
	case lexer.TOKEN_LPAREN, lexer.TOKEN_LBRACE:
		return s.balanced()
	case lexer.TOKEN_LBRACK:
		return s.typ()
	}
	return s.p.unexpected("expression")
}

// funcLit consumes func(params) results { body }.
func (s *operandScanner) funcLit() error {
	s.take() // func
	if s.p.tok().Type != lexer.TOKEN_LPAREN {
		return s.p.unexpected("`(`")
	}
	if err := s.balanced(); err != nil {
		return err
	}

	for s.p.tok().Type != lexer.TOKEN_LBRACE {
		switch s.p.tok().Type {
		case lexer.TOKEN_LPAREN, lexer.TOKEN_LBRACK:
			if err := s.balanced(); err != nil {
				return err
			}
		case lexer.TOKEN_IDENT, lexer.TOKEN_OP:
			s.take()
		default:
			return s.p.unexpected("`{`")
		}
	}
	return s.balanced()
}

// typ consumes a slice, array, map or pointer type such as []*pkg.T, as
// written before a composite literal body.
func (s *operandScanner) typ() error {
	for {
		tok := s.p.tok()
		switch {
		case tok.Type == lexer.TOKEN_OP && tok.Value == "*":
			s.take()
		case tok.Type == lexer.TOKEN_LBRACK:
			if err := s.balanced(); err != nil {
				return err
			}
		case tok.Type == lexer.TOKEN_IDENT && tok.Value == "map":
			s.take()
			if s.p.tok().Type != lexer.TOKEN_LBRACK {
				return s.p.unexpected("`[`")
			}
		case tok.Type == lexer.TOKEN_IDENT:
			s.take()
			if s.isOp(".") && s.p.peekAt(1).Type == lexer.TOKEN_IDENT {
				s.take()
				s.take()
			}
			return nil
		default:
			return s.p.unexpected("type")
		}
	}
}

// balanced consumes a bracketed run starting at the current opening token.
func (s *operandScanner) balanced() error {
	var stack []lexer.TokenType
	for {
		tok := s.p.tok()
		switch tok.Type {
		case lexer.TOKEN_LPAREN:
			stack = append(stack, lexer.TOKEN_RPAREN)
		case lexer.TOKEN_LBRACK:
			stack = append(stack, lexer.TOKEN_RBRACK)
		case lexer.TOKEN_LBRACE:
			stack = append(stack, lexer.TOKEN_RBRACE)
		case lexer.TOKEN_RPAREN, lexer.TOKEN_RBRACK, lexer.TOKEN_RBRACE:
			if len(stack) == 0 || stack[len(stack)-1] != tok.Type {
				return s.p.unexpected(closerName(stack))
			}
			stack = stack[:len(stack)-1]
		case lexer.TOKEN_EOF, lexer.TOKEN_ERROR, lexer.TOKEN_GO_CODE, lexer.TOKEN_TEMPLATE:
			return s.p.unexpected(closerName(stack))
		}
		s.take()
		if len(stack) == 0 {
			return nil
		}
	}
}

func closerName(stack []lexer.TokenType) string {
	if len(stack) == 0 {
		return "expression"
	}
	switch stack[len(stack)-1] {
	case lexer.TOKEN_RPAREN:
		return "`)`"
	case lexer.TOKEN_RBRACK:
		return "`]`"
	}
	return "`}`"
}
