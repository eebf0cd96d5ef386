package engine

import (
	"reflect"
	"testing"

	"bugbear/internal/errors"
	"bugbear/internal/pyast"
)

// recorder logs enter/leave events and the context it observed.
type recorder struct {
	events    *[]string
	ancestors *[][]pyast.Kind
	scopes    *[]int
}

func (r recorder) Enter(c *Context, n pyast.Node) {
	*r.events = append(*r.events, "enter "+n.Kind().String())
	var kinds []pyast.Kind
	for _, id := range c.Ancestors() {
		kinds = append(kinds, c.Tree().Node(id).Kind())
	}
	*r.ancestors = append(*r.ancestors, kinds)
	*r.scopes = append(*r.scopes, len(c.Scopes()))
}

func (r recorder) Leave(c *Context, n pyast.Node) {
	*r.events = append(*r.events, "leave "+n.Kind().String())
}

func allKinds() []pyast.Kind {
	var ks []pyast.Kind
	for k := pyast.KindModule; int(k) < pyast.NumKinds; k++ {
		ks = append(ks, k)
	}
	return ks
}

// lambdaTree is `f(lambda: x)`.
func lambdaTree() *pyast.Tree {
	x := &pyast.Name{NodeBase: pyast.At(1, 10), Ident: "x"}
	lambda := &pyast.Lambda{NodeBase: pyast.At(1, 2), Body: x}
	call := &pyast.Call{NodeBase: pyast.At(1, 0), Func: &pyast.Name{NodeBase: pyast.At(1, 0), Ident: "f"}, Args: []pyast.Node{lambda}}
	return pyast.NewTree("t.py", nil, &pyast.Module{Body: []pyast.Node{&pyast.ExprStmt{NodeBase: pyast.At(1, 0), Value: call}}})
}

func TestRunVisitsInOrderWithScopedAncestors(t *testing.T) {
	var events []string
	var ancestors [][]pyast.Kind
	var scopes []int
	reg := NewRegistry(Rule{
		Name:  "recorder",
		Kinds: allKinds(),
		New: func() Checker {
			return recorder{events: &events, ancestors: &ancestors, scopes: &scopes}
		},
	})

	New(reg).Run(lambdaTree())

	wantEvents := []string{
		"enter Module", "enter Expr", "enter Call", "enter Name", "leave Name",
		"enter Lambda", "enter Name", "leave Name", "leave Lambda",
		"leave Call", "leave Expr", "leave Module",
	}
	if !reflect.DeepEqual(events, wantEvents) {
		t.Errorf("events = %v\nwant %v", events, wantEvents)
	}

	wantAncestors := [][]pyast.Kind{
		{pyast.KindModule},
		{pyast.KindModule, pyast.KindExprStmt},
		{pyast.KindModule, pyast.KindExprStmt, pyast.KindCall},
		{pyast.KindModule, pyast.KindExprStmt, pyast.KindCall, pyast.KindName},
		{pyast.KindLambda},
		{pyast.KindLambda, pyast.KindName},
	}
	if !reflect.DeepEqual(ancestors, wantAncestors) {
		t.Errorf("ancestors = %v\nwant %v", ancestors, wantAncestors)
	}
	if want := []int{1, 1, 1, 1, 2, 2}; !reflect.DeepEqual(scopes, want) {
		t.Errorf("scope depths = %v, want %v", scopes, want)
	}
}

func TestRunCreatesCheckersPerPass(t *testing.T) {
	created := 0
	reg := NewRegistry(Rule{
		Name:  "counter",
		Codes: []Code{"X001"},
		Kinds: []pyast.Kind{pyast.KindName},
		New: func() Checker {
			created++
			seen := 0
			return CheckerFunc(func(c *Context, n pyast.Node) {
				seen++
				if seen == 2 {
					c.Report("X001", n, n.(*pyast.Name).Ident)
				}
			})
		},
	})
	e := New(reg)

	for i := 0; i < 2; i++ {
		got := e.Run(lambdaTree())
		want := []Diagnostic{{Code: "X001", Line: 1, Column: 10, Args: []string{"x"}}}
		if !reflect.DeepEqual(got, want) {
			t.Errorf("run %d: got %v, want %v", i, got, want)
		}
	}
	if created != 2 {
		t.Errorf("checker factory called %d times, want 2", created)
	}
}

func TestParentAndWindow(t *testing.T) {
	var parents []string
	var windows [][]pyast.NodeID
	reg := NewRegistry(Rule{
		Name:  "probe",
		Kinds: []pyast.Kind{pyast.KindName},
		New: func() Checker {
			return CheckerFunc(func(c *Context, n pyast.Node) {
				p := "<nil>"
				if parent := c.Parent(); parent != nil {
					p = parent.Kind().String()
				}
				parents = append(parents, p)
				windows = append(windows, c.Window().IDs())
				if c.Recent(0) != n {
					t.Errorf("Recent(0) is not the node being entered")
				}
			})
		},
	})

	New(reg).Run(lambdaTree())

	// x sits in the lambda's own scope, whose first entry is the lambda
	if want := []string{"Call", "Lambda"}; !reflect.DeepEqual(parents, want) {
		t.Errorf("parents = %v, want %v", parents, want)
	}
	// IDs: Module 1, Expr 2, Call 3, f 4, Lambda 5, x 6
	want := [][]pyast.NodeID{{1, 2, 3, 4}, {3, 4, 5, 6}}
	if !reflect.DeepEqual(windows, want) {
		t.Errorf("windows = %v, want %v", windows, want)
	}
}

func TestWindowRecent(t *testing.T) {
	var w Window
	if w.Recent(0) != pyast.NoNode || w.Len() != 0 {
		t.Fatal("empty window should hold nothing")
	}
	for id := pyast.NodeID(1); id <= 6; id++ {
		w.push(id)
	}
	if w.Len() != WindowSize {
		t.Errorf("Len() = %d, want %d", w.Len(), WindowSize)
	}
	for i, want := range []pyast.NodeID{6, 5, 4, 3} {
		if got := w.Recent(i); got != want {
			t.Errorf("Recent(%d) = %d, want %d", i, got, want)
		}
	}
	if w.Recent(4) != pyast.NoNode {
		t.Error("Recent past the window should be NoNode")
	}
}

func TestCaughtCell(t *testing.T) {
	var c CaughtCell
	outer := &CaughtException{Name: "e"}
	c.Push(outer)
	c.Push(nil)
	if c.Current() != nil {
		t.Error("nested push of nil should hide the outer state")
	}
	c.Set(&CaughtException{Name: "f"})
	c.Pop()
	if c.Current() != outer {
		t.Error("pop should restore the outer state")
	}
	c.Clear()
	c.Pop()
	if c.Current() != nil || c.Depth() != 0 {
		t.Error("cell should be empty after balanced pops")
	}
}

func TestCaughtCellUnderflowPanics(t *testing.T) {
	defer func() {
		r := recover()
		if r == nil {
			t.Fatal("expected panic on underflow")
		}
		err, ok := r.(error)
		if !ok || !errors.Is(err, errors.InternalError) {
			t.Errorf("panic value = %v, want an INTERNAL_ERROR", r)
		}
	}()
	var c CaughtCell
	c.Pop()
}

func TestUnbalancedCheckerPanics(t *testing.T) {
	reg := NewRegistry(Rule{
		Name:  "leaky",
		Kinds: []pyast.Kind{pyast.KindCall},
		New: func() Checker {
			return CheckerFunc(func(c *Context, n pyast.Node) {
				c.Caught().Push(nil)
			})
		},
	})
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic for an unbalanced caught-exception cell")
		}
	}()
	New(reg).Run(lambdaTree())
}

func TestRegistryRegister(t *testing.T) {
	newNop := func() Checker { return CheckerFunc(func(*Context, pyast.Node) {}) }
	tests := []struct {
		name    string
		rule    Rule
		wantErr bool
	}{
		{"valid", Rule{Name: "ok", Codes: []Code{"B001"}, Kinds: []pyast.Kind{pyast.KindName}, New: newNop}, false},
		{"no name", Rule{Kinds: []pyast.Kind{pyast.KindName}, New: newNop}, true},
		{"no factory", Rule{Name: "a", Kinds: []pyast.Kind{pyast.KindName}}, true},
		{"no kinds", Rule{Name: "b", New: newNop}, true},
		{"invalid kind", Rule{Name: "c", Kinds: []pyast.Kind{pyast.KindInvalid}, New: newNop}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := NewRegistry()
			if err := r.Register(tt.rule); (err != nil) != tt.wantErr {
				t.Errorf("Register() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}

	r := NewRegistry()
	rule := Rule{Name: "dup", Codes: []Code{"B002", "B001"}, Kinds: []pyast.Kind{pyast.KindName}, New: newNop}
	if err := r.Register(rule); err != nil {
		t.Fatal(err)
	}
	if err := r.Register(rule); err == nil {
		t.Error("expected duplicate registration to fail")
	}
	if got := r.Codes(); !reflect.DeepEqual(got, []Code{"B001", "B002"}) {
		t.Errorf("Codes() = %v", got)
	}
}

func TestSort(t *testing.T) {
	ds := []Diagnostic{
		{Code: "B023", Line: 3, Column: 4},
		{Code: "B014", Line: 1, Column: 0},
		{Code: "B013", Line: 3, Column: 4},
		{Code: "B023", Line: 3, Column: 1},
	}
	Sort(ds)
	want := []Code{"B014", "B023", "B013", "B023"}
	for i, d := range ds {
		if d.Code != want[i] {
			t.Errorf("position %d: got %s, want %s", i, d.Code, want[i])
		}
	}
}
