package generator

import (
	"fmt"
	goast "go/ast"
	goparser "go/parser"
	"go/token"
	"go/types"
	"testing"
)

// runtimeStub declares the part of the rendering library that generated
// code refers to, with the same signatures.
const runtimeStub = `package avo

type Buffer struct{ text []byte }

func (b *Buffer) WriteString(s string) (int, error) {
	b.text = append(b.text, s...)
	return len(s), nil
}

type Html interface {
	WriteHTML(b *Buffer)
}

type HtmlFunc func(b *Buffer)

func (f HtmlFunc) WriteHTML(b *Buffer) { f(b) }

type Raw string

func (r Raw) WriteHTML(b *Buffer) { b.WriteString(string(r)) }

func Write(b *Buffer, v any) {}

func WriteAttr(b *Buffer, name string, v any) {}
`

type runtimeImporter struct {
	pkg *types.Package
}

func (r runtimeImporter) Import(path string) (*types.Package, error) {
	if path == DefaultRuntime {
		return r.pkg, nil
	}
	return nil, fmt.Errorf("unexpected import %q", path)
}

func newRuntimeImporter(t *testing.T) runtimeImporter {
	t.Helper()
	fset := token.NewFileSet()
	f, err := goparser.ParseFile(fset, "avo.go", runtimeStub, 0)
	if err != nil {
		t.Fatalf("parse runtime: %v", err)
	}
	pkg, err := new(types.Config).Check(DefaultRuntime, fset, []*goast.File{f}, nil)
	if err != nil {
		t.Fatalf("check runtime: %v", err)
	}
	return runtimeImporter{pkg: pkg}
}

func TestGeneratedCodeTypeChecks(t *testing.T) {
	tests := []struct {
		name string
		src  string
	}{
		{
			name: "elements and dynamic attributes",
			src: `package views

type Link struct {
	URL    string
	Title  string
	Active bool
}

func Anchor(l Link, class string) avo.Html {
	return @html {
		a[href=l.URL, class=class, "aria-current"=l.Active, "data-x"="1"] { @l.Title }
		input[type="checkbox", checked=l.Active, disabled];
	}
}
`,
		},
		{
			name: "if chain",
			src: `package views

func Badge(n int, admin bool) avo.Html {
	return @html {
		@if admin { b { "admin" } } else if n > 1 { @n " items" } else { "none" }
		@if n == 0 { br; }
	}
}
`,
		},
		{
			name: "match arms",
			src: `package views

func Status(code int, label string) avo.Html {
	return @html {
		@match code {
			200, 204 => "ok",
			404 => { p[class=label] { "missing " @code } },
			_ => {},
		}
	}
}
`,
		},
		{
			name: "loops with unused bindings",
			src: `package views

func List(items []string, n int, m map[string]int) avo.Html {
	return @html {
		ul {
			@for item in items { li { "x" } }
			@for i, item in items { li { "y" } }
			@for _, item in items { li[title=item] { @item } }
			@for k, v in m { dt { @k } dd { @v } }
			@for _ in n { hr; }
		}
	}
}
`,
		},
		{
			name: "runtime imported under another name",
			src: `package views

import h "github.com/gerardmtb/avo"

var Divider h.Html = h.Raw("<hr>")

func Page(title string) h.Html {
	return @html { h1 { @title } @Divider }
}
`,
		},
		{
			name: "templates as values",
			src: `package views

func Shell(body avo.Html, items []avo.Html) avo.Html {
	return @html {
		main { @body }
		@for _, it in items { section { @it } }
		@if len(items) == 0 { p { "empty" } }
	}
}

var Empty = @html {}
`,
		},
	}

	imp := newRuntimeImporter(t)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			output, err := CompileFile("views.avo", []byte(tt.src), defaultOpts)
			if err != nil {
				t.Fatalf("CompileFile error: %v", err)
			}

			fset := token.NewFileSet()
			f, err := goparser.ParseFile(fset, "views.go", output, 0)
			if err != nil {
				t.Fatalf("generated code does not parse: %v\n%s", err, output)
			}
			conf := types.Config{Importer: imp}
			if _, err := conf.Check("views", fset, []*goast.File{f}, nil); err != nil {
				t.Errorf("generated code does not type-check: %v\n%s", err, output)
			}
		})
	}
}
