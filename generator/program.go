package generator

import (
	"strconv"
	"strings"

	"github.com/gerardmtb/avo/ast"
)

// Program is the compiled form of a template body: an ordered list of
// instructions that append HTML to a buffer.
type Program struct {
	Instrs []Instruction
}

// Instruction is one step of a Program.
type Instruction interface {
	instr()
}

// Flush writes pre-escaped text verbatim.
type Flush struct {
	Text string
}

// Write writes a dynamic value, escaped at render time.
type Write struct {
	Expr ast.Expr
}

// WriteAttr writes an attribute whose value is only known at render time.
type WriteAttr struct {
	Name  string
	Value ast.Expr
}

// If runs the body of the first branch whose condition holds. A branch with
// a nil Cond is the final else.
type If struct {
	Branches []Branch
}

// Branch is one arm of an If.
type Branch struct {
	Cond *ast.Expr
	Body *Program
}

// Switch runs the body of the case matching the scrutinee.
type Switch struct {
	Scrutinee ast.Expr
	Cases     []Case
}

// Case is one arm of a Switch. The pattern _ matches anything.
type Case struct {
	Pattern ast.Expr
	Body    *Program
}

// Range runs its body once per element of Iter, binding Pattern. Binding
// follows Go's range clause: @for item in items binds the index of a slice,
// not the element. Write @for _, item in items to bind the element.
type Range struct {
	Pattern ast.Expr
	Iter    ast.Expr
	Body    *Program
}

func (*Flush) instr()     {}
func (*Write) instr()     {}
func (*WriteAttr) instr() {}
func (*If) instr()        {}
func (*Switch) instr()    {}
func (*Range) instr()     {}

// IsDefault reports whether the case is the catch-all pattern _.
func (c Case) IsDefault() bool {
	return strings.TrimSpace(c.Pattern.Src) == "_"
}

// Walker visits the instructions of a program.
type Walker interface {
	// Walk is called for each instruction. Return false to skip the
	// instruction's nested bodies.
	Walk(in Instruction, depth int) bool
}

// WalkFunc is a function type that implements Walker.
type WalkFunc func(Instruction, int) bool

// Walk implements the Walker interface.
func (f WalkFunc) Walk(in Instruction, depth int) bool {
	return f(in, depth)
}

// Walk traverses p depth-first, visiting nested bodies after the
// instruction that owns them.
func Walk(p *Program, w Walker) {
	walkProgram(p, w, 0)
}

func walkProgram(p *Program, w Walker, depth int) {
	if p == nil {
		return
	}
	for _, in := range p.Instrs {
		if !w.Walk(in, depth) {
			continue
		}
		for _, body := range bodies(in) {
			walkProgram(body, w, depth+1)
		}
	}
}

// bodies returns the nested programs of a control-flow instruction.
func bodies(in Instruction) []*Program {
	switch in := in.(type) {
	case *If:
		out := make([]*Program, len(in.Branches))
		for i, b := range in.Branches {
			out[i] = b.Body
		}
		return out
	case *Switch:
		out := make([]*Program, len(in.Cases))
		for i, c := range in.Cases {
			out[i] = c.Body
		}
		return out
	case *Range:
		return []*Program{in.Body}
	}
	return nil
}

// Stats counts instructions by kind across a program and its nested bodies.
type Stats struct {
	Flushes int
	Writes  int
	Attrs   int
	Blocks  int
	Bytes   int // static bytes written by flushes
}

// Stats returns instruction counts for p.
func (p *Program) Stats() Stats {
	var st Stats
	Walk(p, WalkFunc(func(in Instruction, _ int) bool {
		switch in := in.(type) {
		case *Flush:
			st.Flushes++
			st.Bytes += len(in.Text)
		case *Write:
			st.Writes++
		case *WriteAttr:
			st.Attrs++
		default:
			st.Blocks++
		}
		return true
	}))
	return st
}

// String returns a readable listing of the program, one instruction per
// line, with nested bodies indented.
func (p *Program) String() string {
	var b strings.Builder
	dump(&b, p, 0)
	return b.String()
}

func dump(b *strings.Builder, p *Program, depth int) {
	if p == nil {
		return
	}
	line := func(depth int, parts ...string) {
		b.WriteString(strings.Repeat("  ", depth))
		b.WriteString(strings.Join(parts, " "))
		b.WriteByte('\n')
	}

	for _, in := range p.Instrs {
		switch in := in.(type) {
		case *Flush:
			line(depth, "flush", strconv.Quote(in.Text))
		case *Write:
			line(depth, "write", in.Expr.Src)
		case *WriteAttr:
			line(depth, "attr", strconv.Quote(in.Name), in.Value.Src)
		case *If:
			for i, br := range in.Branches {
				switch {
				case i == 0:
					line(depth, "if", br.Cond.Src)
				case br.Cond != nil:
					line(depth, "else if", br.Cond.Src)
				default:
					line(depth, "else")
				}
				dump(b, br.Body, depth+1)
			}
			line(depth, "end")
		case *Switch:
			line(depth, "switch", in.Scrutinee.Src)
			for _, c := range in.Cases {
				line(depth, "case", c.Pattern.Src)
				dump(b, c.Body, depth+1)
			}
			line(depth, "end")
		case *Range:
			line(depth, "for", in.Pattern.Src, "in", in.Iter.Src)
			dump(b, in.Body, depth+1)
			line(depth, "end")
		}
	}
}
