// Package content provides avo.Html values for rich text: Markdown rendered
// to HTML and untrusted HTML cleaned by a sanitizer.
package content

import (
	"bytes"

	"github.com/yuin/goldmark"

	"github.com/gerardmtb/avo"
)

// Markdown is CommonMark source, rendered to HTML when written. Raw HTML in
// the source is omitted.
type Markdown string

// WriteHTML implements avo.Html. If conversion fails the source is written
// as escaped text.
func (m Markdown) WriteHTML(b *avo.Buffer) {
	var out bytes.Buffer
	if err := goldmark.Convert([]byte(m), &out); err != nil {
		avo.WriteEscaped(b, string(m))
		return
	}
	b.Write(out.Bytes())
}
