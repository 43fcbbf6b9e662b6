package generator

import (
	"bytes"
	"errors"
	"log"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gerardmtb/avo/parser"
)

var defaultOpts = &Options{RuntimePackage: DefaultRuntime}

func TestGenerateSimpleTemplate(t *testing.T) {
	src := `package views

func Greet(name string) avo.Html {
	return @html { p { "Hello, " @name } }
}
`

	output, err := CompileFile("greet.avo", []byte(src), defaultOpts)
	if err != nil {
		t.Fatalf("CompileFile error: %v", err)
	}

	code := string(output)

	if !strings.HasPrefix(code, Header) {
		t.Errorf("Expected generated-code header, got:\n%s", code)
	}

	// Check that the avo import was added
	if !strings.Contains(code, `import "github.com/gerardmtb/avo"`) {
		t.Errorf("Expected avo import, got:\n%s", code)
	}

	for _, want := range []string{
		`return avo.HtmlFunc(func(__s *avo.Buffer) {`,
		`__s.WriteString("<p>Hello, ")`,
		`avo.Write(__s, name)`,
		`__s.WriteString("</p>")`,
	} {
		if !strings.Contains(code, want) {
			t.Errorf("Expected %q, got:\n%s", want, code)
		}
	}
}

func TestGenerateKeepsExistingImport(t *testing.T) {
	src := `package views

import "github.com/gerardmtb/avo"

var Rule avo.Html = @html { hr; }
`

	output, err := CompileFile("rule.avo", []byte(src), defaultOpts)
	if err != nil {
		t.Fatalf("CompileFile error: %v", err)
	}

	if n := strings.Count(string(output), `"github.com/gerardmtb/avo"`); n != 1 {
		t.Errorf("Expected exactly one avo import, found %d:\n%s", n, output)
	}
}

func TestGenerateAliasedRuntimeImport(t *testing.T) {
	src := `package views

import h "github.com/gerardmtb/avo"

var Plain = h.Raw("<hr>")

var Rule = @html { hr; }
`

	output, err := CompileFile("rule.avo", []byte(src), defaultOpts)
	if err != nil {
		t.Fatalf("CompileFile error: %v", err)
	}

	code := string(output)
	for _, want := range []string{
		`h "github.com/gerardmtb/avo"`,
		`avo "github.com/gerardmtb/avo"`,
		`avo.HtmlFunc(`,
	} {
		if !strings.Contains(code, want) {
			t.Errorf("Expected %q, got:\n%s", want, code)
		}
	}
}

func TestGenerateNamedImport(t *testing.T) {
	src := "package views\n\nvar Rule = @html { hr; }\n"

	output, err := CompileFile("rule.avo", []byte(src), &Options{RuntimePackage: "example.com/fork/avohtml"})
	if err != nil {
		t.Fatalf("CompileFile error: %v", err)
	}

	if !strings.Contains(string(output), `avo "example.com/fork/avohtml"`) {
		t.Errorf("Expected named import, got:\n%s", output)
	}
}

func TestGenerateControlFlow(t *testing.T) {
	src := `package views

func List(x int, kind int, url string, items []string, n int) avo.Html {
	return @html {
		@if x > 8 { h1 { "Hi" } } else { h2 { "Lo" } }
		@match kind { 1, 2 => "small", _ => "big" }
		ul { @for _, item in items { li { @item } } }
		@for _ in n { br; }
		a[href=url] { "link" }
	}
}
`

	output, err := CompileFile("list.avo", []byte(src), defaultOpts)
	if err != nil {
		t.Fatalf("CompileFile error: %v", err)
	}

	code := string(output)
	for _, want := range []string{
		`if x > 8 {`,
		`} else {`,
		`switch kind {`,
		`case 1, 2:`,
		`default:`,
		`for _, item := range items {`,
		`for range n {`,
		`avo.WriteAttr(__s, "href", url)`,
	} {
		if !strings.Contains(code, want) {
			t.Errorf("Expected %q, got:\n%s", want, code)
		}
	}
}

func TestGenerateWithoutTemplates(t *testing.T) {
	src := "package views\n\nconst Title = \"home\"\n"

	output, err := CompileFile("plain.avo", []byte(src), defaultOpts)
	if err != nil {
		t.Fatalf("CompileFile error: %v", err)
	}

	if want := Header + src; string(output) != want {
		t.Errorf("Generate() =\n%s\nwant\n%s", output, want)
	}
}

func TestGenerateUnparsableGoCode(t *testing.T) {
	src := "package views\n\nfunc Broken( {\n\treturn @html { br; }\n}\n"

	var logs bytes.Buffer
	opts := &Options{RuntimePackage: DefaultRuntime, Logger: log.New(&logs, "", 0)}

	output, err := CompileFile("broken.avo", []byte(src), opts)
	if err != nil {
		t.Fatalf("CompileFile error: %v", err)
	}

	code := string(output)
	if !strings.HasPrefix(code, Header) {
		t.Errorf("Expected header, got:\n%s", code)
	}
	if !strings.Contains(code, `import "github.com/gerardmtb/avo"`) {
		t.Errorf("Expected textual import, got:\n%s", code)
	}
	if !strings.Contains(code, `__s.WriteString("<br>")`) {
		t.Errorf("Expected template code, got:\n%s", code)
	}
	if !strings.Contains(logs.String(), "leaving output unformatted") {
		t.Errorf("Expected a warning, got %q", logs.String())
	}
}

func TestGenerateInsideRuntimePackage(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "go.mod"), []byte("module github.com/gerardmtb/avo\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	src := "package avo\n\nvar Hello = @html { p { @name } }\n"
	output, err := CompileFile(filepath.Join(dir, "hello.avo"), []byte(src), defaultOpts)
	if err != nil {
		t.Fatalf("CompileFile error: %v", err)
	}

	code := string(output)
	if !strings.Contains(code, `HtmlFunc(func(__s *Buffer) {`) || !strings.Contains(code, `Write(__s, name)`) {
		t.Errorf("Expected unqualified calls, got:\n%s", code)
	}
	if strings.Contains(code, "avo.HtmlFunc") || strings.Contains(code, "import") {
		t.Errorf("Expected no self import, got:\n%s", code)
	}
}

func TestCompileFileSyntaxError(t *testing.T) {
	src := "package views\n\nvar X = @html { br { }\n"

	_, err := CompileFile("bad.avo", []byte(src), defaultOpts)
	if err == nil {
		t.Fatal("Expected error, got nil")
	}

	var syntaxErr *parser.SyntaxError
	if !errors.As(err, &syntaxErr) {
		t.Fatalf("Expected *parser.SyntaxError, got %T: %v", err, err)
	}
	if syntaxErr.Pos.Line != 4 {
		t.Errorf("Expected error on line 4, got %s", syntaxErr.Pos)
	}
}
