package pyast

import (
	"reflect"
	"testing"
)

func name(id string) *Name { return &Name{NodeBase: At(1, 0), Ident: id} }

func attr(v Node, a string) *Attribute { return &Attribute{NodeBase: At(1, 0), Value: v, Attr: a} }

func TestNameString(t *testing.T) {
	tests := []struct {
		name string
		node Node
		want string
	}{
		{"name", name("ValueError"), "ValueError"},
		{"attribute", attr(attr(name("pkg"), "mod"), "error"), "pkg.mod.error"},
		{"call", &Call{Func: attr(name("socket"), "error")}, "socket.error"},
		{"call in chain", attr(&Call{Func: name("f")}, "x"), "f.x"},
		{"subscript in chain", attr(&Subscript{Value: name("a"), Slice: name("b")}, "c"), ""},
		{"constant", &Constant{ConstKind: ConstInt, Value: "1"}, ""},
		{"nil", nil, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NameString(tt.node); got != tt.want {
				t.Errorf("NameString() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestDottedPath(t *testing.T) {
	n := attr(attr(&Subscript{Value: name("a"), Slice: name("i")}, "b"), "c")
	if got := DottedPath(n); got != "b.c" {
		t.Errorf("DottedPath() = %q, want %q", got, "b.c")
	}
	if got := DottedPath(&Constant{}); got != "" {
		t.Errorf("DottedPath(constant) = %q, want empty", got)
	}
}

func TestIsName(t *testing.T) {
	groupby := attr(name("itertools"), "groupby")
	if !IsName(groupby, "itertools.groupby") {
		t.Error("expected itertools.groupby to match")
	}
	if IsName(groupby, "groupby") {
		t.Error("bare name must not match an attribute")
	}
	if !IsName(name("groupby"), "groupby") {
		t.Error("expected groupby to match")
	}
	if IsName(attr(name("other"), "groupby"), "itertools.groupby") {
		t.Error("wrong receiver must not match")
	}
}

func TestAssignedNames(t *testing.T) {
	target := &Tuple{Elts: []Node{
		name("a"),
		&Starred{Value: name("rest")},
		&List{Elts: []Node{name("b"), &Subscript{Value: name("d"), Slice: name("k")}}},
		attr(name("self"), "x"),
	}}
	want := []string{"a", "rest", "b"}
	if got := AssignedNames(target); !reflect.DeepEqual(got, want) {
		t.Errorf("AssignedNames() = %v, want %v", got, want)
	}
}

func TestNewTreeAssignsPreorderIDs(t *testing.T) {
	x := name("x")
	call := &Call{NodeBase: At(2, 0), Func: name("f"), Args: []Node{x}}
	stmt := &ExprStmt{NodeBase: At(2, 0), Value: call}
	root := &Module{Body: []Node{stmt}}

	tree := NewTree("t.py", []byte("import f\nf(x)\n"), root)

	if tree.Len() != 5 {
		t.Fatalf("Len() = %d, want 5", tree.Len())
	}
	order := []Node{root, stmt, call, call.Func, x}
	for i, n := range order {
		want := NodeID(i + 1)
		if n.ID() != want {
			t.Errorf("node %d (%s) has ID %d, want %d", i, n.Kind(), n.ID(), want)
		}
		if tree.Node(want) != n {
			t.Errorf("Node(%d) did not return %s", want, n.Kind())
		}
	}
	if tree.Node(NoNode) != nil {
		t.Error("Node(NoNode) should be nil")
	}
	if got := tree.Line(2); got != "f(x)" {
		t.Errorf("Line(2) = %q", got)
	}
	if got := tree.Line(99); got != "" {
		t.Errorf("Line(99) = %q, want empty", got)
	}
}

func TestInspectInScopeStopsAtFunctions(t *testing.T) {
	inner := name("inner")
	lambda := &Lambda{Body: inner}
	def := &FunctionDef{Name: "g", Body: []Node{&Return{Value: name("hidden")}}}
	loop := &For{
		Target: &Name{Ident: "i", Ctx: Store},
		Iter:   name("xs"),
		Body:   []Node{def, &ExprStmt{Value: lambda}},
	}

	var seen []Kind
	InspectInScope(loop, func(n Node) bool {
		seen = append(seen, n.Kind())
		if n == inner {
			t.Error("descended into lambda body")
		}
		return true
	})
	want := []Kind{KindFor, KindName, KindName, KindFunctionDef, KindExprStmt, KindLambda}
	if !reflect.DeepEqual(seen, want) {
		t.Errorf("visited %v, want %v", seen, want)
	}
}

func TestChildrenSkipsNil(t *testing.T) {
	r := &Raise{}
	if got := Children(r); len(got) != 0 {
		t.Errorf("Children(bare raise) = %v, want none", got)
	}
	d := &Dict{Keys: []Node{nil, name("k")}, Values: []Node{name("spread"), name("v")}}
	got := Children(d)
	if len(got) != 3 {
		t.Fatalf("Children(dict) has %d entries, want 3", len(got))
	}
	if got[0].(*Name).Ident != "spread" || got[1].(*Name).Ident != "k" {
		t.Errorf("unexpected dict child order: %v", got)
	}
}

func TestKind(t *testing.T) {
	for _, k := range []Kind{KindModule, KindClassDef, KindFunctionDef, KindLambda,
		KindListComp, KindSetComp, KindDictComp, KindGeneratorExp} {
		if !k.IsScope() {
			t.Errorf("%s should open a scope", k)
		}
	}
	for _, k := range []Kind{KindFor, KindWhile, KindTry, KindExceptHandler, KindComprehension} {
		if k.IsScope() {
			t.Errorf("%s should not open a scope", k)
		}
	}
	if !KindWhile.IsLoop() || !KindDictComp.IsLoop() || KindIf.IsLoop() {
		t.Error("IsLoop classification is wrong")
	}
	if KindExprStmt.String() != "Expr" || Kind(250).String() != "Kind(?)" {
		t.Error("unexpected Kind.String()")
	}
}
