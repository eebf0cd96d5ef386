package rules

import (
	"slices"
	"strings"

	"bugbear/internal/engine"
	"bugbear/internal/pyast"
)

var exceptHandlerRule = engine.Rule{
	Name: "except-handler-types",
	Codes: []engine.Code{
		RedundantOneTuple, RedundantExceptTypes, EmptyExceptTuple,
		NonClassExceptHandler, BaseExceptionSwallowed,
	},
	Kinds: []pyast.Kind{pyast.KindExceptHandler},
	New:   func() engine.Checker { return engine.CheckerFunc(checkExceptHandler) },
}

var duplicateHandlerRule = engine.Rule{
	Name:  "duplicate-except-handler",
	Codes: []engine.Code{DuplicateExceptName},
	Kinds: []pyast.Kind{pyast.KindTry},
	New:   func() engine.Checker { return engine.CheckerFunc(checkDuplicateHandlers) },
}

// HandlerTypes is an except clause's type expression split into resolved
// class names, entries that cannot be judged statically (calls, starred
// expressions, unresolvable attributes) and entries that cannot name a class.
type HandlerTypes struct {
	Names   []string
	Ignored []pyast.Node
	Bad     []pyast.Node
}

// ClassifyHandlerType flattens typ: a tuple contributes its elements and a
// starred tuple or list literal is spliced in.
func ClassifyHandlerType(typ pyast.Node) HandlerTypes {
	var ht HandlerTypes
	for _, expr := range flattenHandlerType(typ) {
		switch expr.(type) {
		case *pyast.Name, *pyast.Attribute:
			if name := pyast.NameString(expr); name != "" {
				ht.Names = append(ht.Names, name)
			} else {
				ht.Ignored = append(ht.Ignored, expr)
			}
		case *pyast.Call, *pyast.Starred:
			ht.Ignored = append(ht.Ignored, expr)
		default:
			ht.Bad = append(ht.Bad, expr)
		}
	}
	return ht
}

func flattenHandlerType(typ pyast.Node) []pyast.Node {
	tuple, ok := typ.(*pyast.Tuple)
	if !ok {
		return []pyast.Node{typ}
	}
	queue := slices.Clone(tuple.Elts)
	var out []pyast.Node
	for len(queue) > 0 {
		expr := queue[0]
		queue = queue[1:]
		if star, ok := expr.(*pyast.Starred); ok {
			switch v := star.Value.(type) {
			case *pyast.Tuple:
				queue = append(queue, v.Elts...)
				continue
			case *pyast.List:
				queue = append(queue, v.Elts...)
				continue
			}
		}
		out = append(out, expr)
	}
	return out
}

func checkExceptHandler(c *engine.Context, n pyast.Node) {
	h := n.(*pyast.ExceptHandler)
	if h.Type == nil {
		return
	}
	try, _ := c.Parent().(*pyast.Try)
	star := trystar(try)

	ht := ClassifyHandlerType(h.Type)
	_, isTuple := h.Type.(*pyast.Tuple)
	if len(ht.Bad) > 0 {
		c.Report(NonClassExceptHandler, h)
	}
	switch {
	case len(ht.Names) == 0 && len(ht.Bad) == 0 && len(ht.Ignored) == 0:
		c.Report(EmptyExceptTuple, h, star)
	case len(ht.Names) == 1 && len(ht.Bad) == 0 && len(ht.Ignored) == 0 && isTuple:
		c.Report(RedundantOneTuple, h, ht.Names[0], star)
	default:
		reduced := ReduceExceptions(ht.Names)
		if !slices.Equal(reduced, ht.Names) {
			as := ""
			if h.Name != "" {
				as = " as " + h.Name
			}
			desc := "(" + strings.Join(reduced, ", ") + ")"
			if len(reduced) == 1 {
				desc = reduced[0]
			}
			c.Report(RedundantExceptTypes, h, strings.Join(ht.Names, ", "), as, desc, star)
		}
	}

	if slices.Contains(ht.Names, "BaseException") && !reraises(h) {
		c.Report(BaseExceptionSwallowed, h)
	}
}

// reraises reports whether the handler body contains a bare `raise` or a
// `raise` of the bound name. Nested except clauses are not searched.
func reraises(h *pyast.ExceptHandler) bool {
	found := false
	pyast.InspectList(h.Body, func(n pyast.Node) bool {
		if found {
			return false
		}
		switch n := n.(type) {
		case *pyast.ExceptHandler:
			return false
		case *pyast.Raise:
			if n.Exc == nil {
				found = true
			} else if name, ok := n.Exc.(*pyast.Name); ok && h.Name != "" && name.Ident == h.Name {
				found = true
			}
		}
		return !found
	})
	return found
}

func checkDuplicateHandlers(c *engine.Context, n pyast.Node) {
	try := n.(*pyast.Try)
	counts := make(map[string]int)
	for _, h := range try.Handlers {
		switch typ := h.Type.(type) {
		case *pyast.Name, *pyast.Attribute:
			counts[pyast.DottedPath(typ)]++
		case *pyast.Tuple:
			unique := make(map[string]bool)
			for _, e := range typ.Elts {
				unique[pyast.DottedPath(e)] = true
			}
			for name := range unique {
				counts[name]++
			}
		}
	}
	var dups []string
	for name, count := range counts {
		if count > 1 {
			dups = append(dups, name)
		}
	}
	slices.Sort(dups)
	for _, name := range dups {
		c.Report(DuplicateExceptName, try, name, trystar(try))
	}
}
