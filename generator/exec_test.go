package generator

import (
	"fmt"
	goast "go/ast"
	goparser "go/parser"
	"go/token"
	"strconv"
	"strings"
	"testing"

	"github.com/gerardmtb/avo"
)

// execute renders p the way its generated Go code would, evaluating host
// expressions against env. It understands identifiers, int and string
// literals, parentheses, unary ! and -, and binary operators on ints,
// strings and bools, which is enough to check rendering without compiling
// generated code.
func execute(t *testing.T, p *Program, env map[string]any) string {
	t.Helper()
	var b avo.Buffer
	x := &executor{t: t, env: env}
	x.run(&b, p)
	return b.String()
}

type executor struct {
	t   *testing.T
	env map[string]any
}

func (x *executor) run(b *avo.Buffer, p *Program) {
	for _, in := range p.Instrs {
		switch in := in.(type) {
		case *Flush:
			b.WriteString(in.Text)
		case *Write:
			avo.Write(b, x.eval(in.Expr.Src))
		case *WriteAttr:
			avo.WriteAttr(b, in.Name, x.eval(in.Value.Src))
		case *If:
			for _, br := range in.Branches {
				if br.Cond == nil || x.eval(br.Cond.Src).(bool) {
					x.run(b, br.Body)
					break
				}
			}
		case *Switch:
			v := x.eval(in.Scrutinee.Src)
			x.runSwitch(b, v, in.Cases)
		case *Range:
			x.runRange(b, in)
		}
	}
}

func (x *executor) runSwitch(b *avo.Buffer, v any, cases []Case) {
	var def *Program
	for _, c := range cases {
		if c.IsDefault() {
			def = c.Body
			continue
		}
		for _, pat := range x.evalList(c.Pattern.Src) {
			if pat == v {
				x.run(b, c.Body)
				return
			}
		}
	}
	if def != nil {
		x.run(b, def)
	}
}

func (x *executor) runRange(b *avo.Buffer, in *Range) {
	items, ok := x.eval(in.Iter.Src).([]any)
	if !ok {
		x.t.Fatalf("range over %s: not a []any", in.Iter.Src)
	}
	names := strings.Split(in.Pattern.Src, ",")
	for i, item := range items {
		scope := &executor{t: x.t, env: map[string]any{}}
		for k, v := range x.env {
			scope.env[k] = v
		}
		switch len(names) {
		case 1:
			scope.env[strings.TrimSpace(names[0])] = i
		case 2:
			scope.env[strings.TrimSpace(names[0])] = i
			scope.env[strings.TrimSpace(names[1])] = item
		}
		scope.run(b, in.Body)
	}
}

func (x *executor) eval(src string) any {
	e, err := goparser.ParseExpr(src)
	if err != nil {
		x.t.Fatalf("parse %q: %v", src, err)
	}
	return x.evalNode(e)
}

func (x *executor) evalList(src string) []any {
	e, err := goparser.ParseExpr("[]any{" + src + "}")
	if err != nil {
		x.t.Fatalf("parse %q: %v", src, err)
	}
	var out []any
	for _, elt := range e.(*goast.CompositeLit).Elts {
		out = append(out, x.evalNode(elt))
	}
	return out
}

func (x *executor) evalNode(e goast.Expr) any {
	switch e := e.(type) {
	case *goast.ParenExpr:
		return x.evalNode(e.X)
	case *goast.Ident:
		switch e.Name {
		case "true":
			return true
		case "false":
			return false
		case "nil":
			return nil
		}
		v, ok := x.env[e.Name]
		if !ok {
			x.t.Fatalf("undefined: %s", e.Name)
		}
		return v
	case *goast.BasicLit:
		switch e.Kind {
		case token.INT:
			n, _ := strconv.Atoi(e.Value)
			return n
		case token.STRING:
			s, _ := strconv.Unquote(e.Value)
			return s
		}
	case *goast.UnaryExpr:
		v := x.evalNode(e.X)
		switch e.Op {
		case token.NOT:
			return !v.(bool)
		case token.SUB:
			return -v.(int)
		}
	case *goast.BinaryExpr:
		return binary(e.Op, x.evalNode(e.X), x.evalNode(e.Y))
	}
	x.t.Fatalf("unsupported expression %T", e)
	return nil
}

func binary(op token.Token, l, r any) any {
	switch op {
	case token.EQL:
		return l == r
	case token.NEQ:
		return l != r
	case token.LAND:
		return l.(bool) && r.(bool)
	case token.LOR:
		return l.(bool) || r.(bool)
	}

	switch l := l.(type) {
	case int:
		r := r.(int)
		switch op {
		case token.ADD:
			return l + r
		case token.SUB:
			return l - r
		case token.MUL:
			return l * r
		case token.GTR:
			return l > r
		case token.LSS:
			return l < r
		case token.GEQ:
			return l >= r
		case token.LEQ:
			return l <= r
		}
	case string:
		if op == token.ADD {
			return l + r.(string)
		}
	}
	panic(fmt.Sprintf("unsupported operation %v %s %v", l, op, r))
}
