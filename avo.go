// Package avo is the rendering library used by code generated from avo
// templates. A value renders by appending its HTML form to a Buffer.
//
// Generated code appends static text the compiler has already escaped
// straight to the buffer and calls Write and WriteAttr for dynamic values.
// Buffers are owned by the caller for the duration of a render and must not
// be shared between goroutines.
package avo

import (
	"io"
	"strings"
)

// Buffer is the output buffer a template appends to.
type Buffer = strings.Builder

// Html is implemented by values that know how to append their HTML
// representation to a buffer.
type Html interface {
	WriteHTML(b *Buffer)
}

// HtmlFunc adapts a function to the Html interface. Compiled templates are
// HtmlFunc values.
type HtmlFunc func(b *Buffer)

// WriteHTML implements Html.
func (f HtmlFunc) WriteHTML(b *Buffer) {
	if f != nil {
		f(b)
	}
}

// Raw is pre-escaped HTML written verbatim.
type Raw string

// WriteHTML implements Html.
func (r Raw) WriteHTML(b *Buffer) {
	b.WriteString(string(r))
}

// Render renders h to a string.
func Render(h Html) string {
	if h == nil {
		return ""
	}
	var b Buffer
	h.WriteHTML(&b)
	return b.String()
}

// WriteTo renders h and writes the result to w.
func WriteTo(w io.Writer, h Html) (int64, error) {
	n, err := io.WriteString(w, Render(h))
	return int64(n), err
}
