package generator

import (
	"github.com/gerardmtb/avo/ast"
)

// Build compiles a template body into a Program. Static content is folded
// into as few flushes as possible: a body with no dynamic parts yields a
// single Flush. Every control-flow body gets its own stream.
func Build(g ast.Group) *Program {
	s := NewStream()
	buildGroup(s, g)
	return s.Finish()
}

func buildGroup(s *Stream, g ast.Group) {
	for _, n := range g.Nodes {
		buildNode(s, n)
	}
}

func buildNode(s *Stream, n ast.Node) {
	switch n := n.(type) {
	case *ast.Literal:
		s.PushEscaped(n.Value)

	case *ast.Normal:
		openTag(s, n.Name, n.Attrs)
		if n.Children != nil {
			buildGroup(s, *n.Children)
		}
		s.PushRaw("</")
		s.PushEscaped(n.Name.Value)
		s.PushRaw(">")

	case *ast.Void:
		openTag(s, n.Name, n.Attrs)

	case *ast.InterpExpr:
		if text, ok := n.Expr.StringLit(); ok {
			s.PushEscaped(text)
			return
		}
		s.PushWrite(n.Expr)

	case *ast.InterpIf:
		cond := n.Cond
		in := &If{Branches: []Branch{{Cond: &cond, Body: Build(n.Then)}}}
		for _, ei := range n.ElseIfs {
			cond := ei.Cond
			in.Branches = append(in.Branches, Branch{Cond: &cond, Body: Build(ei.Body)})
		}
		if n.Else != nil {
			in.Branches = append(in.Branches, Branch{Body: Build(*n.Else)})
		}
		s.PushBlock(in)

	case *ast.InterpMatch:
		in := &Switch{Scrutinee: n.Scrutinee}
		for _, arm := range n.Arms {
			in.Cases = append(in.Cases, Case{Pattern: arm.Pattern, Body: buildArm(arm)})
		}
		s.PushBlock(in)

	case *ast.InterpFor:
		s.PushBlock(&Range{Pattern: n.Pattern, Iter: n.Iter, Body: Build(n.Body)})
	}
}

func buildArm(arm ast.Arm) *Program {
	if arm.Text != nil {
		s := NewStream()
		s.PushEscaped(arm.Text.Value)
		return s.Finish()
	}
	if arm.Body != nil {
		return Build(*arm.Body)
	}
	return &Program{}
}

// openTag writes <name followed by the attributes and >.
func openTag(s *Stream, name ast.Name, attrs *ast.Attrs) {
	s.PushRaw("<")
	s.PushEscaped(name.Value)
	if attrs != nil {
		for _, a := range attrs.List {
			buildAttr(s, a)
		}
	}
	s.PushRaw(">")
}

// buildAttr writes a static attribute directly. Dynamic ones pass the
// unescaped name on to avo.WriteAttr, which escapes it at render time.
func buildAttr(s *Stream, a ast.Attr) {
	name := a.Name.Value

	if a.Value == nil {
		s.PushRaw(" ")
		s.PushEscaped(name)
		return
	}
	if on, ok := a.Value.BoolLit(); ok {
		if on {
			s.PushRaw(" ")
			s.PushEscaped(name)
		}
		return
	}
	if text, ok := a.Value.StringLit(); ok {
		s.PushRaw(" ")
		s.PushEscaped(name)
		s.PushRaw(`="`)
		s.PushEscaped(text)
		s.PushRaw(`"`)
		return
	}
	s.PushAttr(name, *a.Value)
}
