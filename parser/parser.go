// Package parser parses avo templates into an AST.
package parser

import (
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/gerardmtb/avo/ast"
	"github.com/gerardmtb/avo/lexer"
)

// Parser parses avo source files and template bodies.
type Parser struct {
	lex      *lexer.Lexer
	src      string
	filename string

	queue []lexer.Token // lookahead; queue[0] is the current token
	prev  lexer.Token   // last consumed token
}

// New creates a new Parser for a complete .avo file.
func New(filename string, src []byte) *Parser {
	s := string(src)
	return &Parser{
		lex:      lexer.New(s),
		src:      s,
		filename: filename,
	}
}

// Parse parses an .avo file: Go code with embedded @html templates.
func Parse(filename string, src []byte) (*ast.File, error) {
	return New(filename, src).Parse()
}

// ParseTemplate parses a bare template body, as written between the braces
// of an @html block.
func ParseTemplate(filename, body string) (ast.Group, error) {
	p := &Parser{
		lex:      lexer.NewTemplate(body),
		src:      body,
		filename: filename,
	}
	group, err := p.parseGroup(lexer.TOKEN_EOF)
	if err != nil {
		return ast.Group{}, err
	}
	return group, nil
}

// Parse parses the source and returns a File AST.
func (p *Parser) Parse() (*ast.File, error) {
	file := &ast.File{Path: p.filename}

	for {
		tok := p.tok()
		switch tok.Type {
		case lexer.TOKEN_EOF:
			return file, nil
		case lexer.TOKEN_GO_CODE:
			p.next()
			file.Segments = append(file.Segments, &ast.GoCode{
				Value: tok.Value,
				Range: p.tokenRange(tok),
			})
		case lexer.TOKEN_TEMPLATE:
			tmpl, err := p.parseTemplate()
			if err != nil {
				return nil, err
			}
			file.Segments = append(file.Segments, tmpl)
		default:
			return nil, p.unexpected("Go code", "`"+lexer.TemplateMarker+"`")
		}
	}
}

// parseTemplate parses @html { Group }.
func (p *Parser) parseTemplate() (*ast.Template, error) {
	start := p.next() // @html
	if _, err := p.expect(lexer.TOKEN_LBRACE, "`{`"); err != nil {
		return nil, err
	}
	body, err := p.parseGroup(lexer.TOKEN_RBRACE)
	if err != nil {
		return nil, err
	}
	p.next() // }
	return &ast.Template{Body: body, Range: p.rangeFrom(start)}, nil
}

// parseGroup parses nodes until the closing token, which is left unconsumed.
func (p *Parser) parseGroup(closer lexer.TokenType) (ast.Group, error) {
	var group ast.Group
	for p.tok().Type != closer {
		node, err := p.parseNode(closer)
		if err != nil {
			return ast.Group{}, err
		}
		group.Nodes = append(group.Nodes, node)
	}
	return group, nil
}

func (p *Parser) parseNode(closer lexer.TokenType) (ast.Node, error) {
	switch p.tok().Type {
	case lexer.TOKEN_IDENT, lexer.TOKEN_STRING:
		if p.elementAhead() {
			return p.parseElement()
		}
		return p.parseLiteral()
	case lexer.TOKEN_AT:
		return p.parseInterp()
	}

	end := "`}`"
	if closer == lexer.TOKEN_EOF {
		end = "end of input"
	}
	return nil, p.unexpected("identifier", "string literal", "`@`", end)
}

// elementAhead reports whether the Name at the current token starts an
// element. It does when followed by '{' or ';', or by an attribute list,
// since a bracket can never follow literal text.
func (p *Parser) elementAhead() bool {
	switch p.peekAt(1).Type {
	case lexer.TOKEN_LBRACE, lexer.TOKEN_SEMI, lexer.TOKEN_LBRACK:
		return true
	}
	return false
}

// parseElement parses Name Attrs? ( '{' Group '}' | ';' ).
func (p *Parser) parseElement() (ast.Node, error) {
	start := p.tok()
	name, err := p.parseName("tag name")
	if err != nil {
		return nil, err
	}

	var attrs *ast.Attrs
	if p.tok().Type == lexer.TOKEN_LBRACK {
		if attrs, err = p.parseAttrs(); err != nil {
			return nil, err
		}
	}

	switch p.tok().Type {
	case lexer.TOKEN_SEMI:
		p.next()
		return &ast.Void{Name: name, Attrs: attrs, Range: p.rangeFrom(start)}, nil
	case lexer.TOKEN_LBRACE:
		p.next()
		children, err := p.parseGroup(lexer.TOKEN_RBRACE)
		if err != nil {
			return nil, err
		}
		p.next() // }
		elem := &ast.Normal{Name: name, Attrs: attrs, Range: p.rangeFrom(start)}
		if children.Len() > 0 {
			elem.Children = &children
		}
		return elem, nil
	}
	return nil, p.unexpected("`{`", "`;`")
}

// parseName parses an identifier or string literal used as a tag or
// attribute name.
func (p *Parser) parseName(what string) (ast.Name, error) {
	tok := p.tok()
	switch tok.Type {
	case lexer.TOKEN_IDENT:
		p.next()
		return ast.Name{Value: tok.Value, Src: tok.Value, Range: p.tokenRange(tok)}, nil
	case lexer.TOKEN_STRING:
		value, err := p.unquote(tok)
		if err != nil {
			return ast.Name{}, err
		}
		p.next()
		return ast.Name{Value: value, Quoted: true, Src: tok.Value, Range: p.tokenRange(tok)}, nil
	}
	return ast.Name{}, p.unexpected(what)
}

// parseAttrs parses '[' (Attr (',' Attr)* ','?)? ']'.
func (p *Parser) parseAttrs() (*ast.Attrs, error) {
	start := p.next() // [
	attrs := &ast.Attrs{}

	for p.tok().Type != lexer.TOKEN_RBRACK {
		attr, err := p.parseAttr()
		if err != nil {
			return nil, err
		}
		attrs.List = append(attrs.List, attr)

		switch p.tok().Type {
		case lexer.TOKEN_COMMA:
			p.next()
		case lexer.TOKEN_RBRACK:
		default:
			return nil, p.unexpected("`,`", "`]`")
		}
	}

	p.next() // ]
	attrs.Range = p.rangeFrom(start)
	return attrs, nil
}

// parseAttr parses Name ('=' Expr)?.
func (p *Parser) parseAttr() (ast.Attr, error) {
	start := p.tok()
	if start.Type != lexer.TOKEN_IDENT && start.Type != lexer.TOKEN_STRING {
		return ast.Attr{}, p.unexpected("attribute name", "`]`")
	}
	name, err := p.parseName("attribute name")
	if err != nil {
		return ast.Attr{}, err
	}

	attr := ast.Attr{Name: name}
	if p.tok().Type == lexer.TOKEN_ASSIGN {
		p.next()
		value, err := p.exprUntil(func(tok lexer.Token) bool {
			return tok.Type == lexer.TOKEN_COMMA || tok.Type == lexer.TOKEN_RBRACK
		})
		if err != nil {
			return ast.Attr{}, err
		}
		attr.Value = &value
	}
	attr.Range = p.rangeFrom(start)
	return attr, nil
}

// parseLiteral parses a bare identifier or string literal as text.
func (p *Parser) parseLiteral() (ast.Node, error) {
	tok := p.tok()
	value := tok.Value
	if tok.Type == lexer.TOKEN_STRING {
		var err error
		if value, err = p.unquote(tok); err != nil {
			return nil, err
		}
	}
	p.next()
	return &ast.Literal{Value: value, Src: tok.Value, Range: p.tokenRange(tok)}, nil
}

// parseInterp parses '@' (IfExpr | MatchExpr | ForExpr | Expr).
func (p *Parser) parseInterp() (ast.Node, error) {
	at := p.next() // @

	if tok := p.tok(); tok.Type == lexer.TOKEN_IDENT {
		switch tok.Value {
		case "if":
			return p.parseIf(at)
		case "match":
			return p.parseMatch(at)
		case "for":
			return p.parseFor(at)
		}
	}

	expr, err := p.parseOperandExpr()
	if err != nil {
		return nil, err
	}
	return &ast.InterpExpr{Expr: expr, Range: p.rangeFrom(at)}, nil
}

// parseIf parses if Expr { Group } (else if Expr { Group })* (else { Group })?.
func (p *Parser) parseIf(at lexer.Token) (ast.Node, error) {
	p.next() // if
	cond, err := p.headerExpr()
	if err != nil {
		return nil, err
	}
	then, err := p.parseBlock()
	if err != nil {
		return nil, err
	}

	node := &ast.InterpIf{Cond: cond, Then: then}
	for p.isKeyword("else") {
		elseTok := p.next()
		if !p.isKeyword("if") {
			body, err := p.parseBlock()
			if err != nil {
				return nil, err
			}
			node.Else = &body
			break
		}

		p.next() // if
		cond, err := p.headerExpr()
		if err != nil {
			return nil, err
		}
		body, err := p.parseBlock()
		if err != nil {
			return nil, err
		}
		node.ElseIfs = append(node.ElseIfs, ast.ElseIf{Cond: cond, Body: body, Range: p.rangeFrom(elseTok)})
	}

	node.Range = p.rangeFrom(at)
	return node, nil
}

// parseMatch parses match Expr { (Pattern => (Literal | { Group }) ,?)* }.
func (p *Parser) parseMatch(at lexer.Token) (ast.Node, error) {
	p.next() // match
	scrutinee, err := p.headerExpr()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(lexer.TOKEN_LBRACE, "`{`"); err != nil {
		return nil, err
	}

	node := &ast.InterpMatch{Scrutinee: scrutinee}
	for p.tok().Type != lexer.TOKEN_RBRACE {
		start := p.tok()
		pattern, err := p.exprUntil(func(tok lexer.Token) bool {
			return tok.Type == lexer.TOKEN_FAT_ARROW
		})
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(lexer.TOKEN_FAT_ARROW, "`=>`"); err != nil {
			return nil, err
		}

		arm := ast.Arm{Pattern: pattern}
		switch p.tok().Type {
		case lexer.TOKEN_STRING:
			lit, err := p.parseLiteral()
			if err != nil {
				return nil, err
			}
			arm.Text = lit.(*ast.Literal)
		case lexer.TOKEN_LBRACE:
			body, err := p.parseBlock()
			if err != nil {
				return nil, err
			}
			arm.Body = &body
		default:
			return nil, p.unexpected("string literal", "`{`")
		}
		arm.Range = p.rangeFrom(start)
		node.Arms = append(node.Arms, arm)

		if p.tok().Type == lexer.TOKEN_COMMA {
			p.next()
		}
	}

	p.next() // }
	node.Range = p.rangeFrom(at)
	return node, nil
}

// parseFor parses for Pattern in Expr { Group }.
func (p *Parser) parseFor(at lexer.Token) (ast.Node, error) {
	p.next() // for
	pattern, err := p.exprUntil(func(tok lexer.Token) bool {
		return tok.Type == lexer.TOKEN_IDENT && tok.Value == "in"
	})
	if err != nil {
		return nil, err
	}
	if !p.isKeyword("in") {
		return nil, p.unexpected("`in`")
	}
	p.next()

	iter, err := p.headerExpr()
	if err != nil {
		return nil, err
	}
	body, err := p.parseBlock()
	if err != nil {
		return nil, err
	}
	return &ast.InterpFor{Pattern: pattern, Iter: iter, Body: body, Range: p.rangeFrom(at)}, nil
}

// parseBlock parses '{' Group '}'.
func (p *Parser) parseBlock() (ast.Group, error) {
	if _, err := p.expect(lexer.TOKEN_LBRACE, "`{`"); err != nil {
		return ast.Group{}, err
	}
	group, err := p.parseGroup(lexer.TOKEN_RBRACE)
	if err != nil {
		return ast.Group{}, err
	}
	p.next() // }
	return group, nil
}

// headerExpr parses a control-flow header expression, which runs up to the
// '{' of the body. As in Go, composite literals there need parentheses.
func (p *Parser) headerExpr() (ast.Expr, error) {
	return p.exprUntil(func(tok lexer.Token) bool {
		return tok.Type == lexer.TOKEN_LBRACE
	})
}

// Helper methods

// tok returns the current token.
func (p *Parser) tok() lexer.Token {
	return p.peekAt(0)
}

// peekAt returns the token n positions ahead of the current one.
func (p *Parser) peekAt(n int) lexer.Token {
	for len(p.queue) <= n {
		if k := len(p.queue); k > 0 && p.queue[k-1].Type == lexer.TOKEN_EOF {
			return p.queue[k-1]
		}
		p.queue = append(p.queue, p.lex.NextToken())
	}
	return p.queue[n]
}

// next consumes and returns the current token.
func (p *Parser) next() lexer.Token {
	tok := p.tok()
	if tok.Type != lexer.TOKEN_EOF {
		p.queue = p.queue[1:]
	}
	p.prev = tok
	return tok
}

func (p *Parser) expect(typ lexer.TokenType, what string) (lexer.Token, error) {
	if p.tok().Type != typ {
		return lexer.Token{}, p.unexpected(what)
	}
	return p.next(), nil
}

func (p *Parser) isKeyword(word string) bool {
	tok := p.tok()
	return tok.Type == lexer.TOKEN_IDENT && tok.Value == word
}

// unexpected builds a SyntaxError at the current token.
func (p *Parser) unexpected(expected ...string) error {
	tok := p.tok()
	err := &SyntaxError{
		Filename: p.filename,
		Pos:      position(tok),
	}
	if tok.Type == lexer.TOKEN_ERROR {
		err.Msg = tok.Value
		return err
	}
	err.Expected = expected
	err.Found = tok.Describe()
	return err
}

func (p *Parser) unquote(tok lexer.Token) (string, error) {
	value, err := strconv.Unquote(tok.Value)
	if err != nil {
		return "", &SyntaxError{
			Filename: p.filename,
			Pos:      position(tok),
			Msg:      "invalid string literal " + tok.Value,
		}
	}
	return value, nil
}

func (p *Parser) tokenRange(tok lexer.Token) ast.Range {
	return ast.Range{Start: position(tok), End: endPosition(tok)}
}

// rangeFrom spans from the start of tok to the end of the last consumed token.
func (p *Parser) rangeFrom(tok lexer.Token) ast.Range {
	return ast.Range{Start: position(tok), End: endPosition(p.prev)}
}

func position(tok lexer.Token) ast.Position {
	return ast.Position{Offset: tok.Offset, Line: tok.Line, Column: tok.Column}
}

func endPosition(tok lexer.Token) ast.Position {
	pos := ast.Position{Offset: tok.End(), Line: tok.Line, Column: tok.Column}
	if tok.Type == lexer.TOKEN_ERROR {
		return pos
	}
	if i := strings.LastIndexByte(tok.Value, '\n'); i >= 0 {
		pos.Line += strings.Count(tok.Value, "\n")
		pos.Column = utf8.RuneCountInString(tok.Value[i+1:]) + 1
		return pos
	}
	pos.Column += utf8.RuneCountInString(tok.Value)
	return pos
}
