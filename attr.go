package avo

// WriteAttr appends one attribute, including its leading space. A true
// value renders the bare name and false omits the attribute entirely. An
// Option is unwrapped: absent omits the attribute, present renders as if
// its value were given directly. Any other value renders as name="value",
// escaped as by Write. The name is always escaped.
func WriteAttr(b *Buffer, name string, v any) {
	switch v := v.(type) {
	case nil:
		return
	case bool:
		if v {
			b.WriteByte(' ')
			WriteEscaped(b, name)
		}
		return
	case optional:
		if x, ok := v.option(); ok {
			WriteAttr(b, name, x)
		}
		return
	}

	b.WriteByte(' ')
	WriteEscaped(b, name)
	b.WriteString(`="`)
	Write(b, v)
	b.WriteByte('"')
}

// Attr is a single attribute that renders itself with WriteAttr.
type Attr struct {
	Name  string
	Value any
}

// WriteHTML implements Html.
func (a Attr) WriteHTML(b *Buffer) {
	WriteAttr(b, a.Name, a.Value)
}
