package rules

import (
	"slices"

	"bugbear/internal/engine"
	"bugbear/internal/pyast"
)

// mutatingMethods are the list, dict and set methods that change the receiver.
var mutatingMethods = []string{
	"append", "sort", "reverse", "remove", "clear", "extend", "insert", "pop",
	"popitem", "setdefault", "update", "intersection_update", "difference_update",
	"symmetric_difference_update", "add", "discard",
}

var iterationMutationRule = engine.Rule{
	Name:  "loop-iterable-mutation",
	Codes: []engine.Code{LoopIterableMutation},
	Kinds: []pyast.Kind{pyast.KindFor},
	New:   func() engine.Checker { return engine.CheckerFunc(checkIterableMutation) },
}

var groupbyRule = engine.Rule{
	Name:  "groupby-reuse",
	Codes: []engine.Code{GroupbyReuse},
	Kinds: []pyast.Kind{pyast.KindFor},
	New:   func() engine.Checker { return engine.CheckerFunc(checkGroupbyReuse) },
}

func checkIterableMutation(c *engine.Context, n pyast.Node) {
	loop := n.(*pyast.For)
	if loop.Async {
		return
	}
	switch loop.Iter.(type) {
	case *pyast.Name, *pyast.Attribute:
	default:
		return
	}
	iterable := pyast.NameString(loop.Iter)
	if iterable == "" {
		return
	}
	ledger := newMutationLedger(iterable, pyast.NameString(loop.Target))
	ledger.scanList(loop.Body)
	for _, site := range ledger.sites() {
		c.Report(LoopIterableMutation, site)
	}
}

// MutationLedger collects the statements of a loop body that modify the
// iterable, grouped by conditional block. Block 0 is the unconditional body;
// every `if` opens a new block for its body and another for what follows it.
type MutationLedger struct {
	iterable string
	key      string
	block    int
	order    []int
	byBlock  map[int][]pyast.Node
}

func newMutationLedger(iterable, key string) *MutationLedger {
	return &MutationLedger{
		iterable: iterable,
		key:      key,
		byBlock:  make(map[int][]pyast.Node),
	}
}

func (l *MutationLedger) record(n pyast.Node) {
	if _, ok := l.byBlock[l.block]; !ok {
		l.order = append(l.order, l.block)
	}
	l.byBlock[l.block] = append(l.byBlock[l.block], n)
}

// scanList walks a statement list. A `break` directly in the list discards
// the mutations recorded so far in the current block, since the loop never
// observes them.
func (l *MutationLedger) scanList(stmts []pyast.Node) {
	for _, stmt := range stmts {
		if _, ok := stmt.(*pyast.Break); ok {
			if _, seen := l.byBlock[l.block]; seen {
				l.byBlock[l.block] = l.byBlock[l.block][:0]
			}
		}
		l.scan(stmt)
	}
}

func (l *MutationLedger) scan(n pyast.Node) {
	pyast.Inspect(n, func(m pyast.Node) bool {
		switch m := m.(type) {
		case *pyast.If:
			l.block++
			l.scanList(m.Body)
			l.block++
			return false
		case *pyast.Assign:
			for _, t := range m.Targets {
				sub, ok := t.(*pyast.Subscript)
				if ok && pyast.NameString(sub.Value) == l.iterable && pyast.NameString(sub.Slice) != l.key {
					l.record(m)
				}
			}
		case *pyast.AugAssign:
			if pyast.NameString(m.Target) == l.iterable {
				l.record(m)
			}
		case *pyast.Delete:
			for _, t := range m.Targets {
				if sub, ok := t.(*pyast.Subscript); ok && pyast.NameString(sub.Value) == l.iterable {
					l.record(m)
				}
			}
			return false
		case *pyast.Call:
			if attr, ok := m.Func.(*pyast.Attribute); ok &&
				pyast.NameString(attr.Value) == l.iterable && slices.Contains(mutatingMethods, attr.Attr) {
				l.record(m)
			}
		}
		return true
	})
}

// sites returns the surviving mutations in block order.
func (l *MutationLedger) sites() []pyast.Node {
	var out []pyast.Node
	for _, b := range l.order {
		out = append(out, l.byBlock[b]...)
	}
	return out
}

func checkGroupbyReuse(c *engine.Context, n pyast.Node) {
	loop := n.(*pyast.For)
	if loop.Async {
		return
	}
	call, ok := loop.Iter.(*pyast.Call)
	if !ok || !(pyast.IsName(call.Func, "groupby") || pyast.IsName(call.Func, "itertools.groupby")) {
		return
	}
	target, ok := loop.Target.(*pyast.Tuple)
	if !ok || len(target.Elts) < 2 {
		return
	}
	group, ok := target.Elts[1].(*pyast.Name)
	if !ok {
		return
	}

	reported := make(map[pyast.NodeID]bool)
	report := func(name *pyast.Name) {
		if !reported[name.ID()] {
			reported[name.ID()] = true
			c.Report(GroupbyReuse, name, name.Ident)
		}
	}
	isGroup := func(m pyast.Node) (*pyast.Name, bool) {
		name, ok := m.(*pyast.Name)
		return name, ok && name.Ident == group.Ident
	}

	uses := 0
	pyast.InspectList(loop.Body, func(m pyast.Node) bool {
		if name, ok := isGroup(m); ok {
			uses++
			if uses > 1 {
				report(name)
			}
		}
		var nested []pyast.Node
		switch inner := m.(type) {
		case *pyast.For:
			nested = inner.Body
		case *pyast.While:
			nested = inner.Body
		}
		pyast.InspectList(nested, func(k pyast.Node) bool {
			if name, ok := isGroup(k); ok {
				report(name)
			}
			return true
		})
		return true
	})
}
