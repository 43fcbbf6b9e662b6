package generator

import (
	"strings"

	"github.com/gerardmtb/avo"
	"github.com/gerardmtb/avo/ast"
)

// Stream accumulates the output of one template body. Static text collects
// in a pending buffer that is flushed as a single instruction whenever a
// dynamic instruction has to be emitted, and once more at the end.
type Stream struct {
	buf    strings.Builder // pending literal text, already escaped
	instrs []Instruction
}

// NewStream returns an empty stream.
func NewStream() *Stream {
	return &Stream{}
}

// PushRaw appends text that needs no escaping, such as tag punctuation.
func (s *Stream) PushRaw(text string) {
	s.buf.WriteString(text)
}

// PushEscaped escapes text now and appends it.
func (s *Stream) PushEscaped(text string) {
	avo.WriteEscaped(&s.buf, text)
}

// PushWrite emits a runtime write of a dynamic value.
func (s *Stream) PushWrite(expr ast.Expr) {
	s.emit(&Write{Expr: expr})
}

// PushAttr emits a runtime write of an attribute with a dynamic value.
func (s *Stream) PushAttr(name string, value ast.Expr) {
	s.emit(&WriteAttr{Name: name, Value: value})
}

// PushBlock emits a control-flow instruction whose bodies were built by
// their own streams.
func (s *Stream) PushBlock(in Instruction) {
	s.emit(in)
}

// Finish flushes any pending text and returns the program.
func (s *Stream) Finish() *Program {
	s.flush()
	return &Program{Instrs: s.instrs}
}

func (s *Stream) emit(in Instruction) {
	s.flush()
	s.instrs = append(s.instrs, in)
}

func (s *Stream) flush() {
	if s.buf.Len() == 0 {
		return
	}
	s.instrs = append(s.instrs, &Flush{Text: s.buf.String()})
	s.buf.Reset()
}
