package ast

import "testing"

func TestPositionIsValid(t *testing.T) {
	tests := []struct {
		name     string
		pos      Position
		expected bool
	}{
		{"zero position", Position{}, false},
		{"valid position", Position{Offset: 0, Line: 1, Column: 1}, true},
		{"zero line", Position{Offset: 10, Line: 0, Column: 5}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.pos.IsValid(); got != tt.expected {
				t.Errorf("Position.IsValid() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestPositionString(t *testing.T) {
	if got := (Position{Line: 3, Column: 7}).String(); got != "3:7" {
		t.Errorf("String() = %q, want %q", got, "3:7")
	}
	if got := (Position{}).String(); got != "-" {
		t.Errorf("String() = %q, want %q", got, "-")
	}
}

func TestRangeTo(t *testing.T) {
	a := Range{Start: Position{Offset: 0, Line: 1, Column: 1}, End: Position{Offset: 3, Line: 1, Column: 4}}
	b := Range{Start: Position{Offset: 10, Line: 2, Column: 1}, End: Position{Offset: 12, Line: 2, Column: 3}}

	r := a.To(b)
	if r.Start != a.Start || r.End != b.End {
		t.Errorf("To() = %+v, want start of a and end of b", r)
	}
}

func TestExprStringLit(t *testing.T) {
	tests := []struct {
		src   string
		want  string
		isLit bool
	}{
		{`"UTF-8"`, "UTF-8", true},
		{`"a\"b"`, `a"b`, true},
		{"`raw <b>`", "raw <b>", true},
		{`  "padded"  `, "padded", true},
		{`"a" + "b"`, "", false},
		{`'a'`, "", false},
		{`name`, "", false},
		{`f("x")`, "", false},
		{``, "", false},
	}

	for _, tt := range tests {
		t.Run(tt.src, func(t *testing.T) {
			got, ok := Expr{Src: tt.src}.StringLit()
			if ok != tt.isLit || got != tt.want {
				t.Errorf("StringLit() = (%q, %v), want (%q, %v)", got, ok, tt.want, tt.isLit)
			}
		})
	}
}

func TestExprBoolLit(t *testing.T) {
	tests := []struct {
		src    string
		value  bool
		isBool bool
	}{
		{"true", true, true},
		{"false", false, true},
		{" true ", true, true},
		{"!true", false, false},
		{"enabled", false, false},
	}

	for _, tt := range tests {
		t.Run(tt.src, func(t *testing.T) {
			v, ok := Expr{Src: tt.src}.BoolLit()
			if v != tt.value || ok != tt.isBool {
				t.Errorf("BoolLit() = (%v, %v), want (%v, %v)", v, ok, tt.value, tt.isBool)
			}
		})
	}
}

func TestElementTypes(t *testing.T) {
	var _ Element = &Normal{}
	var _ Element = &Void{}

	n := &Normal{Name: Name{Value: "div"}, Attrs: &Attrs{}}
	if n.TagName().Value != "div" || n.Attributes() == nil {
		t.Errorf("Normal accessors returned %+v, %+v", n.TagName(), n.Attributes())
	}
}

func TestInterpTypes(t *testing.T) {
	var _ Interp = &InterpExpr{}
	var _ Interp = &InterpIf{}
	var _ Interp = &InterpMatch{}
	var _ Interp = &InterpFor{}
	var _ Node = &Literal{}
}

func TestSegmentTypes(t *testing.T) {
	var _ Segment = &GoCode{Value: "package main"}
	var _ Segment = &Template{}
}
