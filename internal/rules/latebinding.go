package rules

import (
	"slices"
	"strings"

	"bugbear/internal/engine"
	"bugbear/internal/pyast"
)

// higherOrderCalls consume their function arguments immediately, so a
// lambda passed to them cannot outlive the loop iteration.
var higherOrderCalls = []string{"filter", "reduce", "map", "functools.reduce"}

var lateBindingRule = engine.Rule{
	Name:  "late-binding-closure",
	Codes: []engine.Code{LoopVariableCapture},
	Kinds: []pyast.Kind{
		pyast.KindFor, pyast.KindWhile,
		pyast.KindListComp, pyast.KindSetComp, pyast.KindDictComp, pyast.KindGeneratorExp,
	},
	New: func() engine.Checker {
		return &lateBinding{seen: make(map[pyast.NodeID]struct{})}
	},
}

// lateBinding reports functions defined in a loop body that read a variable
// the loop rebinds on every iteration.
type lateBinding struct {
	// seen holds name references already reported, so nested loops do not
	// report the same reference twice.
	seen map[pyast.NodeID]struct{}
}

func (r *lateBinding) Enter(c *engine.Context, loop pyast.Node) {
	safe := make(map[pyast.NodeID]bool)
	var suspicious []*pyast.Name

	pyast.Inspect(loop, func(n pyast.Node) bool {
		switch n := n.(type) {
		case *pyast.Call:
			if isHigherOrderCall(n.Func) {
				for _, arg := range n.Args {
					if isFunctionLiteral(arg) {
						safe[arg.ID()] = true
					}
				}
			}
			for _, kw := range n.Keywords {
				if kw.Arg == "key" && isFunctionLiteral(kw.Value) {
					safe[kw.Value.ID()] = true
				}
			}
		case *pyast.Return:
			if isFunctionLiteral(n.Value) {
				safe[n.Value.ID()] = true
			}
		}
		if isFunctionLiteral(n) && !safe[n.ID()] {
			suspicious = append(suspicious, r.freeLoads(n)...)
		}
		return true
	})
	if len(suspicious) == 0 {
		return
	}

	reassigned := loopAssignedNames(loop)
	slices.SortStableFunc(suspicious, func(a, b *pyast.Name) int {
		return strings.Compare(a.Ident, b.Ident)
	})
	for _, name := range suspicious {
		if reassigned[name.Ident] {
			c.Report(LoopVariableCapture, name, name.Ident)
		}
	}
}

// freeLoads returns the unreported loads in fn's body of names that are
// neither parameters nor assigned anywhere in the body.
func (r *lateBinding) freeLoads(fn pyast.Node) []*pyast.Name {
	locals := make(map[string]bool)
	var body []pyast.Node
	switch fn := fn.(type) {
	case *pyast.Lambda:
		for _, p := range fn.Params {
			locals[p.Name] = true
		}
		body = []pyast.Node{fn.Body}
	case *pyast.FunctionDef:
		for _, p := range fn.Params {
			locals[p.Name] = true
		}
		body = fn.Body
	}

	var loads []*pyast.Name
	pyast.InspectList(body, func(n pyast.Node) bool {
		name, ok := n.(*pyast.Name)
		if !ok || locals[name.Ident] {
			return true
		}
		switch name.Ctx {
		case pyast.Load:
			loads = append(loads, name)
		case pyast.Store:
			locals[name.Ident] = true
		}
		return true
	})

	var out []*pyast.Name
	for _, name := range loads {
		if locals[name.Ident] {
			continue
		}
		if _, dup := r.seen[name.ID()]; dup {
			continue
		}
		r.seen[name.ID()] = struct{}{}
		out = append(out, name)
	}
	return out
}

func isHigherOrderCall(fn pyast.Node) bool {
	for _, name := range higherOrderCalls {
		if pyast.IsName(fn, name) {
			return true
		}
	}
	return false
}

// loopAssignedNames collects the names bound inside loop without entering
// nested functions: assignment targets and loop/comprehension targets.
func loopAssignedNames(loop pyast.Node) map[string]bool {
	out := make(map[string]bool)
	add := func(target pyast.Node) {
		for _, name := range pyast.AssignedNames(target) {
			out[name] = true
		}
	}
	pyast.InspectInScope(loop, func(n pyast.Node) bool {
		switch n := n.(type) {
		case *pyast.Assign:
			for _, t := range n.Targets {
				add(t)
			}
		case *pyast.AugAssign:
			add(n.Target)
		case *pyast.AnnAssign:
			add(n.Target)
		case *pyast.For:
			add(n.Target)
		case *pyast.Comprehension:
			add(n.Target)
		}
		return true
	})
	return out
}
