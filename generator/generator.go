// Package generator compiles avo templates into Go source code.
//
// A template body is first built into a Program, a list of flush, write and
// control-flow instructions with static text already merged and escaped.
// The Program is then emitted as an avo.HtmlFunc literal in place of the
// @html block that produced it.
//
// @for loops become Go range clauses with the pattern as written, so a
// single name binds the first iteration value. Over a slice that is the
// index:
//
//	@for i in items { ... }        // i is the index
//	@for _, item in items { ... }  // item is the element
package generator

import (
	"bytes"
	"fmt"
	goast "go/ast"
	"go/format"
	goparser "go/parser"
	"go/token"
	"io"
	"log"
	"path/filepath"
	"strings"

	"golang.org/x/tools/go/ast/astutil"

	"github.com/gerardmtb/avo/ast"
	"github.com/gerardmtb/avo/parser"
)

// Header marks generated files.
const Header = "// Code generated by avo. DO NOT EDIT.\n\n"

// Options configures the generator.
type Options struct {
	// RuntimePackage is the import path of the rendering library.
	// Default: RuntimePath().
	RuntimePackage string

	// Logger receives non-fatal warnings. Nil discards them.
	Logger *log.Logger
}

// Generator transforms an .avo file AST into Go source code.
type Generator struct {
	runtimePkg string
	log        *log.Logger
}

// New creates a new Generator.
func New(opts *Options) *Generator {
	g := &Generator{log: log.New(io.Discard, "", 0)}
	if opts != nil {
		g.runtimePkg = opts.RuntimePackage
		if opts.Logger != nil {
			g.log = opts.Logger
		}
	}
	if g.runtimePkg == "" {
		g.runtimePkg = RuntimePath()
	}
	return g
}

// Generate transforms a File AST into Go source code.
func Generate(file *ast.File, opts *Options) ([]byte, error) {
	return New(opts).Generate(file)
}

// CompileFile parses an .avo file and generates its Go source.
func CompileFile(filename string, src []byte, opts *Options) ([]byte, error) {
	file, err := parser.Parse(filename, src)
	if err != nil {
		return nil, err
	}
	return Generate(file, opts)
}

// Compile parses a bare template body and builds its Program.
func Compile(filename, body string) (*Program, error) {
	group, err := parser.ParseTemplate(filename, body)
	if err != nil {
		return nil, err
	}
	return Build(group), nil
}

// Generate generates Go code from the AST. The host Go code is the Go
// compiler's to check: if it does not parse, the output is returned
// unformatted and a warning is logged.
func (g *Generator) Generate(file *ast.File) ([]byte, error) {
	self := g.isSelf(file)

	e := &emitter{}
	if !self {
		e.qual = "avo."
	}
	needsImport := false
	for _, seg := range file.Segments {
		switch seg := seg.(type) {
		case *ast.GoCode:
			e.write(seg.Value)
		case *ast.Template:
			e.template(Build(seg.Body))
			needsImport = !self
		}
	}
	src := e.buf.Bytes()

	fset := token.NewFileSet()
	f, err := goparser.ParseFile(fset, file.Path, src, goparser.ParseComments)
	if err != nil {
		g.log.Printf("%s: leaving output unformatted: %v", file.Path, err)
		if needsImport {
			src = g.insertRuntimeImport(src)
		}
		return append([]byte(Header), src...), nil
	}

	if needsImport {
		g.addImport(fset, f)
	}

	var out bytes.Buffer
	out.WriteString(Header)
	if err := format.Node(&out, fset, f); err != nil {
		return nil, fmt.Errorf("format %s: %w", file.Path, err)
	}
	return out.Bytes(), nil
}

// isSelf reports whether the file belongs to the rendering library's own
// root package, whose identifiers are used unqualified.
func (g *Generator) isSelf(file *ast.File) bool {
	if file.Path == "" || importName(g.runtimePkg) != packageName(file) {
		return false
	}
	return isRuntimeRoot(filepath.Dir(file.Path), g.runtimePkg)
}

// addImport makes the rendering library visible as avo. An existing import
// under another name is kept and a second one named avo is added beside it.
func (g *Generator) addImport(fset *token.FileSet, f *goast.File) {
	aliased := false
	for _, imp := range f.Imports {
		if imp.Path.Value != `"`+g.runtimePkg+`"` {
			continue
		}
		name := importName(g.runtimePkg)
		if imp.Name != nil {
			name = imp.Name.Name
		}
		if name == "avo" {
			return
		}
		aliased = true
	}
	if importName(g.runtimePkg) == "avo" && !aliased {
		astutil.AddImport(fset, f, g.runtimePkg)
	} else {
		astutil.AddNamedImport(fset, f, "avo", g.runtimePkg)
	}
}

// insertRuntimeImport adds the runtime import after the package declaration
// when the source cannot be parsed.
func (g *Generator) insertRuntimeImport(src []byte) []byte {
	code := string(src)

	if strings.Contains(code, `"`+g.runtimePkg+`"`) {
		return src
	}

	pkgIdx := strings.Index(code, "package ")
	if pkgIdx == -1 {
		return src
	}
	newlineIdx := strings.Index(code[pkgIdx:], "\n")
	if newlineIdx == -1 {
		return src
	}
	insertPos := pkgIdx + newlineIdx + 1

	spec := fmt.Sprintf("%q", g.runtimePkg)
	if importName(g.runtimePkg) != "avo" {
		spec = "avo " + spec
	}
	return []byte(code[:insertPos] + "\nimport " + spec + "\n" + code[insertPos:])
}

// packageName returns the package clause of the file's Go code, or "" when
// there is none.
func packageName(file *ast.File) string {
	var b strings.Builder
	for _, seg := range file.Segments {
		switch seg := seg.(type) {
		case *ast.GoCode:
			b.WriteString(seg.Value)
		case *ast.Template:
			b.WriteString("nil")
		}
	}

	f, err := goparser.ParseFile(token.NewFileSet(), "", b.String(), goparser.PackageClauseOnly)
	if err != nil || f.Name == nil {
		return ""
	}
	return f.Name.Name
}
