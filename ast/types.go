// Package ast defines the syntax tree of avo templates.
//
// A tree is built once by the parser for a single template, consumed once by
// the generator and then discarded. Nodes are never shared between parents.
package ast

import (
	"strconv"
	"strings"
)

// File represents a complete .avo file: Go code with embedded templates.
type File struct {
	Path     string
	Segments []Segment
}

// Segment is a top-level piece of an .avo file.
type Segment interface {
	segment()
	GetRange() Range
}

// GoCode represents pass-through Go code.
type GoCode struct {
	Value string
	Range Range
}

func (*GoCode) segment()          {}
func (c *GoCode) GetRange() Range { return c.Range }

// Template represents one @html { ... } block.
type Template struct {
	Body  Group
	Range Range
}

func (*Template) segment()          {}
func (t *Template) GetRange() Range { return t.Range }

// Group is an ordered sequence of template content. It may be empty.
type Group struct {
	Nodes []Node
}

// Len returns the number of nodes in the group.
func (g Group) Len() int { return len(g.Nodes) }

// Node is one unit of template content: an element, an interpolation or
// literal text.
type Node interface {
	node()
	GetRange() Range
}

// Element is a Normal or Void tag.
type Element interface {
	Node
	element()
	TagName() Name
	Attributes() *Attrs
}

// Interp is an @-prefixed interpolation.
type Interp interface {
	Node
	interp()
}

// Name is a tag or attribute name, written either as an identifier or as a
// string literal.
type Name struct {
	Value  string // resolved text
	Quoted bool   // written as a string literal
	Src    string // source text as written
	Range  Range
}

// Normal represents name[attrs] { children }.
type Normal struct {
	Name     Name
	Attrs    *Attrs
	Children *Group // nil when the body is empty
	Range    Range
}

func (*Normal) node()                {}
func (*Normal) element()             {}
func (e *Normal) GetRange() Range    { return e.Range }
func (e *Normal) TagName() Name      { return e.Name }
func (e *Normal) Attributes() *Attrs { return e.Attrs }

// Void represents name[attrs]; which has no children slot at all.
type Void struct {
	Name  Name
	Attrs *Attrs
	Range Range
}

func (*Void) node()                {}
func (*Void) element()             {}
func (e *Void) GetRange() Range    { return e.Range }
func (e *Void) TagName() Name      { return e.Name }
func (e *Void) Attributes() *Attrs { return e.Attrs }

// Attrs is a bracketed attribute list. Names need not be unique.
type Attrs struct {
	List  []Attr
	Range Range
}

// Attr is a single attribute. A nil Value is shorthand for true.
type Attr struct {
	Name  Name
	Value *Expr
	Range Range
}

// Literal is a static piece of text.
type Literal struct {
	Value string // unescaped text
	Src   string // source text as written
	Range Range
}

func (*Literal) node()             {}
func (l *Literal) GetRange() Range { return l.Range }

// Expr is an opaque host-language expression carried verbatim into the
// generated code.
type Expr struct {
	Src   string
	Range Range
}

// StringLit reports whether the expression is a single Go string literal
// and returns its value.
func (e Expr) StringLit() (string, bool) {
	src := strings.TrimSpace(e.Src)
	if len(src) < 2 || (src[0] != '"' && src[0] != '`') {
		return "", false
	}
	// Unquote rejects anything that is not exactly one literal, such as
	// "a" + "b".
	v, err := strconv.Unquote(src)
	if err != nil {
		return "", false
	}
	return v, true
}

// BoolLit reports whether the expression is the bare identifier true or false.
func (e Expr) BoolLit() (value, ok bool) {
	switch strings.TrimSpace(e.Src) {
	case "true":
		return true, true
	case "false":
		return false, true
	}
	return false, false
}

// InterpExpr represents @expr.
type InterpExpr struct {
	Expr  Expr
	Range Range
}

func (*InterpExpr) node()             {}
func (*InterpExpr) interp()           {}
func (i *InterpExpr) GetRange() Range { return i.Range }

// InterpIf represents @if cond { } else if cond { } else { }.
type InterpIf struct {
	Cond    Expr
	Then    Group
	ElseIfs []ElseIf
	Else    *Group
	Range   Range
}

func (*InterpIf) node()             {}
func (*InterpIf) interp()           {}
func (i *InterpIf) GetRange() Range { return i.Range }

// ElseIf is one else-if branch of an InterpIf.
type ElseIf struct {
	Cond  Expr
	Body  Group
	Range Range
}

// InterpMatch represents @match scrutinee { pattern => body, ... }.
type InterpMatch struct {
	Scrutinee Expr
	Arms      []Arm
	Range     Range
}

func (*InterpMatch) node()             {}
func (*InterpMatch) interp()           {}
func (i *InterpMatch) GetRange() Range { return i.Range }

// Arm is one match arm. Exactly one of Body and Text is set.
type Arm struct {
	Pattern Expr
	Body    *Group
	Text    *Literal
	Range   Range
}

// InterpFor represents @for pattern in iter { body }.
type InterpFor struct {
	Pattern Expr
	Iter    Expr
	Body    Group
	Range   Range
}

func (*InterpFor) node()             {}
func (*InterpFor) interp()           {}
func (i *InterpFor) GetRange() Range { return i.Range }
