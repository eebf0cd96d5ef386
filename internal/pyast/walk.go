package pyast

// Children returns the direct children of n in source order. Nil fields are
// skipped.
func Children(n Node) []Node {
	var c children
	switch n := n.(type) {
	case *Module:
		c.list(n.Body)
	case *ClassDef:
		c.list(n.Decorators)
		c.list(n.Bases)
		for _, k := range n.Keywords {
			c.add(k)
		}
		c.list(n.Body)
	case *FunctionDef:
		c.list(n.Decorators)
		c.args(n.Params)
		c.add(n.Returns)
		c.list(n.Body)
	case *Lambda:
		c.args(n.Params)
		c.add(n.Body)
	case *Arg:
		c.add(n.Annotation)
		c.add(n.Default)
	case *ListComp:
		c.add(n.Elt)
		c.comps(n.Generators)
	case *SetComp:
		c.add(n.Elt)
		c.comps(n.Generators)
	case *DictComp:
		c.add(n.Key)
		c.add(n.Value)
		c.comps(n.Generators)
	case *GeneratorExp:
		c.add(n.Elt)
		c.comps(n.Generators)
	case *Comprehension:
		c.add(n.Target)
		c.add(n.Iter)
		c.list(n.Ifs)
	case *ExprStmt:
		c.add(n.Value)
	case *Assign:
		c.list(n.Targets)
		c.add(n.Value)
	case *AugAssign:
		c.add(n.Target)
		c.add(n.Value)
	case *AnnAssign:
		c.add(n.Target)
		c.add(n.Annotation)
		c.add(n.Value)
	case *Return:
		c.add(n.Value)
	case *Delete:
		c.list(n.Targets)
	case *Raise:
		c.add(n.Exc)
		c.add(n.Cause)
	case *If:
		c.add(n.Test)
		c.list(n.Body)
		c.list(n.Orelse)
	case *For:
		c.add(n.Target)
		c.add(n.Iter)
		c.list(n.Body)
		c.list(n.Orelse)
	case *While:
		c.add(n.Test)
		c.list(n.Body)
		c.list(n.Orelse)
	case *Try:
		c.list(n.Body)
		for _, h := range n.Handlers {
			c.add(h)
		}
		c.list(n.Orelse)
		c.list(n.Finalbody)
	case *ExceptHandler:
		c.add(n.Type)
		c.list(n.Body)
	case *With:
		for _, it := range n.Items {
			c.add(it)
		}
		c.list(n.Body)
	case *WithItem:
		c.add(n.Context)
		c.add(n.Vars)
	case *Assert:
		c.add(n.Test)
		c.add(n.Msg)
	case *OtherStmt:
		c.list(n.Children)
	case *Attribute:
		c.add(n.Value)
	case *Subscript:
		c.add(n.Value)
		c.add(n.Slice)
	case *Slice:
		c.add(n.Lower)
		c.add(n.Upper)
		c.add(n.Step)
	case *Starred:
		c.add(n.Value)
	case *Call:
		c.add(n.Func)
		c.list(n.Args)
		for _, k := range n.Keywords {
			c.add(k)
		}
	case *Keyword:
		c.add(n.Value)
	case *Tuple:
		c.list(n.Elts)
	case *List:
		c.list(n.Elts)
	case *Set:
		c.list(n.Elts)
	case *Dict:
		for i := range n.Values {
			if i < len(n.Keys) {
				c.add(n.Keys[i])
			}
			c.add(n.Values[i])
		}
	case *JoinedStr:
		c.list(n.Values)
	case *UnaryOp:
		c.add(n.Operand)
	case *BinOp:
		c.add(n.Left)
		c.add(n.Right)
	case *BoolOp:
		c.list(n.Values)
	case *Compare:
		c.add(n.Left)
		c.list(n.Comparators)
	case *IfExp:
		c.add(n.Test)
		c.add(n.Body)
		c.add(n.Orelse)
	case *NamedExpr:
		c.add(n.Target)
		c.add(n.Value)
	case *Await:
		c.add(n.Value)
	case *Yield:
		c.add(n.Value)
	case *YieldFrom:
		c.add(n.Value)
	case *OtherExpr:
		c.list(n.Children)
	}
	return c.out
}

type children struct {
	out []Node
}

func (c *children) add(n Node) {
	if n != nil {
		c.out = append(c.out, n)
	}
}

func (c *children) list(ns []Node) {
	for _, n := range ns {
		c.add(n)
	}
}

func (c *children) args(as []*Arg) {
	for _, a := range as {
		c.add(a)
	}
}

func (c *children) comps(cs []*Comprehension) {
	for _, g := range cs {
		c.add(g)
	}
}

// Inspect walks the subtree rooted at n in pre-order. If fn returns false the
// children of that node are skipped.
func Inspect(n Node, fn func(Node) bool) {
	if n == nil || !fn(n) {
		return
	}
	for _, ch := range Children(n) {
		Inspect(ch, fn)
	}
}

// InspectList walks every node of a statement or expression list.
func InspectList(ns []Node, fn func(Node) bool) {
	for _, n := range ns {
		Inspect(n, fn)
	}
}

// InspectInScope is like Inspect but does not descend into nested function
// definitions and lambdas. The function node itself is still visited.
func InspectInScope(n Node, fn func(Node) bool) {
	Inspect(n, func(m Node) bool {
		if !fn(m) {
			return false
		}
		return m == n || !m.Kind().IsFunction()
	})
}
