package avo

import (
	"fmt"
	"strconv"
)

// Write appends the HTML form of a dynamic value to b. Html values write
// themselves; strings, byte slices, Stringers and errors are escaped;
// booleans and numbers use their Go literal form. A rune renders as its
// integer value, so use string(r) to print a character. Absent options and
// nil write nothing.
func Write(b *Buffer, v any) {
	switch v := v.(type) {
	case nil:
	case Html:
		v.WriteHTML(b)
	case string:
		WriteEscaped(b, v)
	case []byte:
		WriteEscaped(b, string(v))
	case bool:
		b.WriteString(strconv.FormatBool(v))
	case int:
		b.WriteString(strconv.Itoa(v))
	case int8:
		b.WriteString(strconv.FormatInt(int64(v), 10))
	case int16:
		b.WriteString(strconv.FormatInt(int64(v), 10))
	case int32:
		b.WriteString(strconv.FormatInt(int64(v), 10))
	case int64:
		b.WriteString(strconv.FormatInt(v, 10))
	case uint:
		b.WriteString(strconv.FormatUint(uint64(v), 10))
	case uint8:
		b.WriteString(strconv.FormatUint(uint64(v), 10))
	case uint16:
		b.WriteString(strconv.FormatUint(uint64(v), 10))
	case uint32:
		b.WriteString(strconv.FormatUint(uint64(v), 10))
	case uint64:
		b.WriteString(strconv.FormatUint(v, 10))
	case float32:
		b.WriteString(strconv.FormatFloat(float64(v), 'g', -1, 32))
	case float64:
		b.WriteString(strconv.FormatFloat(v, 'g', -1, 64))
	case optional:
		if x, ok := v.option(); ok {
			Write(b, x)
		}
	case fmt.Stringer:
		WriteEscaped(b, v.String())
	case error:
		WriteEscaped(b, v.Error())
	default:
		WriteEscaped(b, fmt.Sprint(v))
	}
}

// Text is plain text, escaped when rendered.
type Text string

// WriteHTML implements Html.
func (t Text) WriteHTML(b *Buffer) {
	WriteEscaped(b, string(t))
}

// Option is a value that may be absent. An absent option renders nothing
// and, as an attribute value, omits the attribute.
type Option[T any] struct {
	value T
	ok    bool
}

// Some returns a present option holding v.
func Some[T any](v T) Option[T] {
	return Option[T]{value: v, ok: true}
}

// None returns an absent option.
func None[T any]() Option[T] {
	return Option[T]{}
}

// Get returns the value and whether it is present.
func (o Option[T]) Get() (T, bool) {
	return o.value, o.ok
}

func (o Option[T]) option() (any, bool) {
	return o.value, o.ok
}

type optional interface {
	option() (any, bool)
}

// Join concatenates several values.
func Join(parts ...Html) Html {
	return HtmlFunc(func(b *Buffer) {
		for _, p := range parts {
			if p != nil {
				p.WriteHTML(b)
			}
		}
	})
}

// When returns h if cond is true, else nothing.
func When(cond bool, h Html) Html {
	if cond {
		return h
	}
	return nil
}

// Map renders each item with fn, in order.
func Map[T any](items []T, fn func(T) Html) Html {
	return HtmlFunc(func(b *Buffer) {
		for _, item := range items {
			if h := fn(item); h != nil {
				h.WriteHTML(b)
			}
		}
	})
}
