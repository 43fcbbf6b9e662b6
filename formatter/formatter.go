// Package formatter provides formatting for .avo files.
package formatter

import (
	"bytes"
	"strings"

	"github.com/gerardmtb/avo/ast"
	"github.com/gerardmtb/avo/parser"
)

// Options configures the formatter.
type Options struct {
	// TabWidth is the number of spaces per level when UseTabs is false.
	TabWidth int
	// UseTabs uses tabs instead of spaces.
	UseTabs bool
	// MaxInlineWidth is the widest element printed on a single line.
	MaxInlineWidth int
}

// DefaultOptions returns sensible defaults.
func DefaultOptions() *Options {
	return &Options{
		TabWidth:       4,
		UseTabs:        true,
		MaxInlineWidth: 80,
	}
}

// Formatter formats .avo files.
type Formatter struct {
	opts   *Options
	buf    bytes.Buffer
	base   string // indentation of the line holding @html
	indent int
}

// New creates a new Formatter.
func New(opts *Options) *Formatter {
	if opts == nil {
		opts = DefaultOptions()
	}
	return &Formatter{opts: opts}
}

// Format formats a parsed .avo file.
func Format(file *ast.File, opts *Options) ([]byte, error) {
	return New(opts).Format(file)
}

// Source parses and formats an .avo file.
func Source(filename string, src []byte, opts *Options) ([]byte, error) {
	file, err := parser.Parse(filename, src)
	if err != nil {
		return nil, err
	}
	return Format(file, opts)
}

// Format prints Go code unchanged and each template in canonical form.
func (f *Formatter) Format(file *ast.File) ([]byte, error) {
	f.buf.Reset()
	f.base = ""

	for _, seg := range file.Segments {
		switch seg := seg.(type) {
		case *ast.GoCode:
			f.buf.WriteString(seg.Value)
			f.base = lineIndent(seg.Value)
		case *ast.Template:
			f.template(seg)
		}
	}
	return bytes.Clone(f.buf.Bytes()), nil
}

func (f *Formatter) template(t *ast.Template) {
	f.indent = 0
	f.buf.WriteString("@html ")
	f.block(t.Body)
}

// block writes { nodes } with the closing brace on its own line, or {} when
// the group is empty.
func (f *Formatter) block(g ast.Group) {
	if g.Len() == 0 {
		f.buf.WriteString("{}")
		return
	}
	f.buf.WriteString("{\n")
	f.indent++
	for _, node := range g.Nodes {
		f.writeIndent()
		f.node(node)
		f.buf.WriteByte('\n')
	}
	f.indent--
	f.writeIndent()
	f.buf.WriteByte('}')
}

func (f *Formatter) node(node ast.Node) {
	switch n := node.(type) {
	case *ast.Normal:
		f.openTag(n.Name, n.Attrs)
		f.buf.WriteByte(' ')
		switch {
		case n.Children == nil:
			f.buf.WriteString("{}")
		case f.shouldInline(n):
			f.buf.WriteString("{ ")
			for i, child := range n.Children.Nodes {
				if i > 0 {
					f.buf.WriteByte(' ')
				}
				f.node(child)
			}
			f.buf.WriteString(" }")
		default:
			f.block(*n.Children)
		}
	case *ast.Void:
		f.openTag(n.Name, n.Attrs)
		f.buf.WriteByte(';')
	case *ast.Literal:
		f.buf.WriteString(n.Src)
	case *ast.InterpExpr:
		f.buf.WriteByte('@')
		f.buf.WriteString(n.Expr.Src)
	case *ast.InterpIf:
		f.buf.WriteString("@if ")
		f.buf.WriteString(n.Cond.Src)
		f.buf.WriteByte(' ')
		f.block(n.Then)
		for _, branch := range n.ElseIfs {
			f.buf.WriteString(" else if ")
			f.buf.WriteString(branch.Cond.Src)
			f.buf.WriteByte(' ')
			f.block(branch.Body)
		}
		if n.Else != nil {
			f.buf.WriteString(" else ")
			f.block(*n.Else)
		}
	case *ast.InterpMatch:
		f.match(n)
	case *ast.InterpFor:
		f.buf.WriteString("@for ")
		f.buf.WriteString(n.Pattern.Src)
		f.buf.WriteString(" in ")
		f.buf.WriteString(n.Iter.Src)
		f.buf.WriteByte(' ')
		f.block(n.Body)
	}
}

func (f *Formatter) match(n *ast.InterpMatch) {
	f.buf.WriteString("@match ")
	f.buf.WriteString(n.Scrutinee.Src)
	if len(n.Arms) == 0 {
		f.buf.WriteString(" {}")
		return
	}
	f.buf.WriteString(" {\n")
	f.indent++
	for _, arm := range n.Arms {
		f.writeIndent()
		f.buf.WriteString(arm.Pattern.Src)
		f.buf.WriteString(" => ")
		if arm.Text != nil {
			f.buf.WriteString(arm.Text.Src)
		} else {
			f.block(*arm.Body)
		}
		f.buf.WriteString(",\n")
	}
	f.indent--
	f.writeIndent()
	f.buf.WriteByte('}')
}

// openTag writes name[attr, attr=value].
func (f *Formatter) openTag(name ast.Name, attrs *ast.Attrs) {
	f.buf.WriteString(name.Src)
	if attrs == nil {
		return
	}
	f.buf.WriteByte('[')
	for i, attr := range attrs.List {
		if i > 0 {
			f.buf.WriteString(", ")
		}
		f.buf.WriteString(attr.Name.Src)
		if attr.Value != nil {
			f.buf.WriteByte('=')
			f.buf.WriteString(attr.Value.Src)
		}
	}
	f.buf.WriteByte(']')
}

// shouldInline reports whether an element's children fit on its own line:
// only literal text and single-line expressions, within the width limit.
func (f *Formatter) shouldInline(elem *ast.Normal) bool {
	width := len(elem.Name.Src)
	if elem.Attrs != nil {
		for _, attr := range elem.Attrs.List {
			width += len(attr.Name.Src) + 2
			if attr.Value != nil {
				width += len(attr.Value.Src) + 1
			}
		}
	}

	for _, child := range elem.Children.Nodes {
		var text string
		switch c := child.(type) {
		case *ast.Literal:
			text = c.Src
		case *ast.InterpExpr:
			text = "@" + c.Expr.Src
		default:
			return false
		}
		if strings.Contains(text, "\n") {
			return false
		}
		width += len(text) + 1
	}
	return width+4 <= f.opts.MaxInlineWidth
}

// writeIndent writes the current indentation.
func (f *Formatter) writeIndent() {
	f.buf.WriteString(f.base)
	if f.opts.UseTabs {
		for i := 0; i < f.indent; i++ {
			f.buf.WriteByte('\t')
		}
	} else {
		for i := 0; i < f.indent*f.opts.TabWidth; i++ {
			f.buf.WriteByte(' ')
		}
	}
}

// lineIndent returns the leading whitespace of the last line of code.
func lineIndent(code string) string {
	line := code[strings.LastIndex(code, "\n")+1:]
	return line[:len(line)-len(strings.TrimLeft(line, " \t"))]
}
