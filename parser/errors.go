package parser

import (
	"fmt"
	"strings"

	"github.com/gerardmtb/avo/ast"
)

// SyntaxError reports the first place where a template does not match the
// grammar. Parsing stops at the first error; no partial tree is returned.
type SyntaxError struct {
	Filename string
	Pos      ast.Position
	Expected []string // acceptable tokens, in grammar order
	Found    string   // description of the offending token
	Msg      string   // set instead of Expected/Found for lexical errors
}

func (e *SyntaxError) Error() string {
	var b strings.Builder
	if e.Filename != "" {
		b.WriteString(e.Filename)
		b.WriteByte(':')
	}
	b.WriteString(e.Pos.String())
	b.WriteString(": ")

	switch {
	case e.Msg != "":
		b.WriteString(e.Msg)
	case len(e.Expected) == 1:
		fmt.Fprintf(&b, "expected %s, found %s", e.Expected[0], e.Found)
	default:
		fmt.Fprintf(&b, "expected one of {%s}, found %s", strings.Join(e.Expected, ", "), e.Found)
	}
	return b.String()
}
