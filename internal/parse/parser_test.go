//go:build cgo

package parse

import (
	"context"
	"testing"

	"bugbear/internal/errors"
	"bugbear/internal/pyast"
)

func mustParse(t *testing.T, src string) *pyast.Tree {
	t.Helper()
	tree, err := Parse(context.Background(), "t.py", []byte(src))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	return tree
}

func TestParseRejectsSyntaxErrors(t *testing.T) {
	_, err := Parse(context.Background(), "bad.py", []byte("def f(:\n    pass\n"))
	if err == nil {
		t.Fatal("expected a parse error")
	}
	if !errors.Is(err, errors.ParseFailed) {
		t.Errorf("error code = %q, want %q", errors.CodeOf(err), errors.ParseFailed)
	}
}

func TestParseAssignments(t *testing.T) {
	tree := mustParse(t, "a = b = 1\nx: int = 2\nn += 1\n")
	body := tree.Root.Body
	if len(body) != 3 {
		t.Fatalf("got %d statements, want 3", len(body))
	}

	assign, ok := body[0].(*pyast.Assign)
	if !ok {
		t.Fatalf("stmt 0 is %s, want Assign", body[0].Kind())
	}
	if len(assign.Targets) != 2 {
		t.Errorf("chained assignment has %d targets, want 2", len(assign.Targets))
	}
	for _, target := range assign.Targets {
		if name, ok := target.(*pyast.Name); !ok || name.Ctx != pyast.Store {
			t.Errorf("target %v is not a stored name", target)
		}
	}

	if _, ok := body[1].(*pyast.AnnAssign); !ok {
		t.Errorf("stmt 1 is %s, want AnnAssign", body[1].Kind())
	}
	aug, ok := body[2].(*pyast.AugAssign)
	if !ok {
		t.Fatalf("stmt 2 is %s, want AugAssign", body[2].Kind())
	}
	if aug.Op != "+" {
		t.Errorf("AugAssign.Op = %q, want +", aug.Op)
	}
}

func TestParseTryStar(t *testing.T) {
	src := `try:
    pass
except* (ValueError, TypeError) as err:
    raise
`
	tree := mustParse(t, src)
	try, ok := tree.Root.Body[0].(*pyast.Try)
	if !ok {
		t.Fatalf("stmt is %s, want Try", tree.Root.Body[0].Kind())
	}
	if !try.Star {
		t.Error("Try.Star = false, want true")
	}
	if len(try.Handlers) != 1 {
		t.Fatalf("got %d handlers, want 1", len(try.Handlers))
	}
	h := try.Handlers[0]
	if h.Name != "err" {
		t.Errorf("handler name = %q, want err", h.Name)
	}
	tuple, ok := h.Type.(*pyast.Tuple)
	if !ok || len(tuple.Elts) != 2 {
		t.Errorf("handler type = %v, want a 2-tuple", h.Type)
	}
	if h.Pos() != (pyast.Pos{Line: 3, Col: 0}) {
		t.Errorf("handler pos = %+v, want 3:0", h.Pos())
	}
}

func TestParseExceptForms(t *testing.T) {
	src := `try:
    pass
except ValueError as e:
    pass
except (KeyError):
    pass
except:
    pass
`
	tree := mustParse(t, src)
	try := tree.Root.Body[0].(*pyast.Try)
	if try.Star {
		t.Error("Try.Star = true, want false")
	}
	if len(try.Handlers) != 3 {
		t.Fatalf("got %d handlers, want 3", len(try.Handlers))
	}
	if name := pyast.NameString(try.Handlers[0].Type); name != "ValueError" || try.Handlers[0].Name != "e" {
		t.Errorf("handler 0 = %q as %q", name, try.Handlers[0].Name)
	}
	if _, ok := try.Handlers[1].Type.(*pyast.Name); !ok {
		t.Errorf("parenthesized handler type should unwrap to a Name, got %v", try.Handlers[1].Type)
	}
	if try.Handlers[2].Type != nil {
		t.Errorf("bare except has type %v", try.Handlers[2].Type)
	}
}

func TestParseLoopsAndFunctions(t *testing.T) {
	src := `@decorator
async def f(a, *args, key=None, **kw):
    async for x in y:
        pass
    for i, v in enumerate(items):
        fns.append(lambda: v)
`
	tree := mustParse(t, src)
	fn, ok := tree.Root.Body[0].(*pyast.FunctionDef)
	if !ok {
		t.Fatalf("stmt is %s, want FunctionDef", tree.Root.Body[0].Kind())
	}
	if !fn.Async || fn.Name != "f" {
		t.Errorf("FunctionDef = %q async=%v", fn.Name, fn.Async)
	}
	if fn.Pos().Line != 2 {
		t.Errorf("FunctionDef line = %d, want 2", fn.Pos().Line)
	}
	if len(fn.Decorators) != 1 {
		t.Errorf("got %d decorators, want 1", len(fn.Decorators))
	}
	if got := pyast.ParamNames(fn.Params); len(got) != 4 {
		t.Errorf("params = %v, want 4", got)
	}
	wantKinds := []pyast.ParamKind{pyast.ParamPositional, pyast.ParamVarArgs, pyast.ParamKwOnly, pyast.ParamKwArgs}
	for i, p := range fn.Params {
		if i < len(wantKinds) && p.ParamKind != wantKinds[i] {
			t.Errorf("param %q kind = %d, want %d", p.Name, p.ParamKind, wantKinds[i])
		}
	}

	asyncFor := fn.Body[0].(*pyast.For)
	if !asyncFor.Async {
		t.Error("async for not marked Async")
	}
	loop := fn.Body[1].(*pyast.For)
	if got := pyast.AssignedNames(loop.Target); len(got) != 2 || got[0] != "i" || got[1] != "v" {
		t.Errorf("loop target names = %v, want [i v]", got)
	}
	stmt := loop.Body[0].(*pyast.ExprStmt)
	call := stmt.Value.(*pyast.Call)
	if _, ok := call.Args[0].(*pyast.Lambda); !ok {
		t.Errorf("call argument is %s, want Lambda", call.Args[0].Kind())
	}
}

func TestParseComprehensionsAndCalls(t *testing.T) {
	tree := mustParse(t, "f(*a, k=1, **kw)\n[x for x in y if x]\n{k: v for k, v in d}\n")
	call := tree.Root.Body[0].(*pyast.ExprStmt).Value.(*pyast.Call)
	if len(call.Args) != 1 || call.Args[0].Kind() != pyast.KindStarred {
		t.Errorf("call args = %v, want one Starred", call.Args)
	}
	if len(call.Keywords) != 2 || call.Keywords[0].Arg != "k" || call.Keywords[1].Arg != "" {
		t.Errorf("call keywords = %+v", call.Keywords)
	}

	lc := tree.Root.Body[1].(*pyast.ExprStmt).Value.(*pyast.ListComp)
	if len(lc.Generators) != 1 || len(lc.Generators[0].Ifs) != 1 {
		t.Errorf("list comprehension generators = %+v", lc.Generators)
	}
	dc := tree.Root.Body[2].(*pyast.ExprStmt).Value.(*pyast.DictComp)
	if dc.Key == nil || dc.Value == nil {
		t.Error("dict comprehension lost its key or value")
	}
}

func TestParseConstants(t *testing.T) {
	tests := []struct {
		src  string
		want pyast.ConstKind
	}{
		{"1\n", pyast.ConstInt},
		{"1.5\n", pyast.ConstFloat},
		{"2j\n", pyast.ConstComplex},
		{"'s'\n", pyast.ConstStr},
		{"b'raw'\n", pyast.ConstBytes},
		{"True\n", pyast.ConstBool},
		{"None\n", pyast.ConstNone},
		{"...\n", pyast.ConstEllipsis},
	}
	for _, tt := range tests {
		tree := mustParse(t, tt.src)
		c, ok := tree.Root.Body[0].(*pyast.ExprStmt).Value.(*pyast.Constant)
		if !ok {
			t.Errorf("%q did not parse to a Constant", tt.src)
			continue
		}
		if c.ConstKind != tt.want {
			t.Errorf("%q kind = %d, want %d", tt.src, c.ConstKind, tt.want)
		}
	}
}

func TestParseUnknownStatementsKeepChildren(t *testing.T) {
	src := `match command:
    case "go":
        f(lambda: x)
`
	tree := mustParse(t, src)
	found := false
	pyast.Inspect(tree.Root, func(n pyast.Node) bool {
		if n.Kind() == pyast.KindLambda {
			found = true
		}
		return true
	})
	if !found {
		t.Error("lambda nested in a match statement was not reached")
	}
}
