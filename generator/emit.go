package generator

import (
	"bytes"
	"go/token"
	"strconv"
	"strings"
)

// bufferVar names the buffer parameter of generated render functions.
const bufferVar = "__s"

// emitter writes Go source for compiled programs.
type emitter struct {
	buf    bytes.Buffer
	indent int
	qual   string // "avo." or "" inside the rendering package itself
}

// template writes a program as an HtmlFunc literal.
func (e *emitter) template(p *Program) {
	e.write(e.qual + "HtmlFunc(func(" + bufferVar + " *" + e.qual + "Buffer) {\n")
	e.indent++
	e.program(p)
	e.indent--
	e.writeIndent()
	e.write("})")
}

func (e *emitter) program(p *Program) {
	for _, in := range p.Instrs {
		e.instruction(in)
	}
}

func (e *emitter) instruction(in Instruction) {
	switch in := in.(type) {
	case *Flush:
		e.writeLine(bufferVar + ".WriteString(" + strconv.Quote(in.Text) + ")")

	case *Write:
		e.writeLine(e.qual + "Write(" + bufferVar + ", " + in.Expr.Src + ")")

	case *WriteAttr:
		e.writeLine(e.qual + "WriteAttr(" + bufferVar + ", " + strconv.Quote(in.Name) + ", " + in.Value.Src + ")")

	case *If:
		for i, br := range in.Branches {
			switch {
			case i == 0:
				e.writeLine("if " + br.Cond.Src + " {")
			case br.Cond != nil:
				e.writeLine("} else if " + br.Cond.Src + " {")
			default:
				e.writeLine("} else {")
			}
			e.body(br.Body)
		}
		e.writeLine("}")

	case *Switch:
		e.writeLine("switch " + in.Scrutinee.Src + " {")
		for _, c := range in.Cases {
			if c.IsDefault() {
				e.writeLine("default:")
			} else {
				e.writeLine("case " + c.Pattern.Src + ":")
			}
			e.body(c.Body)
		}
		e.writeLine("}")

	case *Range:
		if strings.TrimSpace(in.Pattern.Src) == "_" {
			e.writeLine("for range " + in.Iter.Src + " {")
		} else {
			e.writeLine("for " + in.Pattern.Src + " := range " + in.Iter.Src + " {")
		}
		// A body that ignores its bindings must still compile.
		e.indent++
		for _, name := range boundNames(in.Pattern.Src) {
			e.writeLine("_ = " + name)
		}
		e.indent--
		e.body(in.Body)
		e.writeLine("}")
	}
}

// boundNames returns the identifiers a range pattern declares, skipping _.
func boundNames(pattern string) []string {
	var names []string
	for _, part := range strings.Split(pattern, ",") {
		name := strings.TrimSpace(part)
		if name != "_" && token.IsIdentifier(name) {
			names = append(names, name)
		}
	}
	return names
}

func (e *emitter) body(p *Program) {
	e.indent++
	e.program(p)
	e.indent--
}

func (e *emitter) write(s string) {
	e.buf.WriteString(s)
}

func (e *emitter) writeIndent() {
	for i := 0; i < e.indent; i++ {
		e.write("\t")
	}
}

func (e *emitter) writeLine(s string) {
	e.writeIndent()
	e.write(s)
	e.write("\n")
}
