//go:build cgo

package parse

import (
	"strings"

	sitter "github.com/smacker/go-tree-sitter"

	"bugbear/internal/pyast"
)

// converter maps tree-sitter python nodes onto pyast nodes.
type converter struct {
	src []byte
}

func (c *converter) text(n *sitter.Node) string {
	return n.Content(c.src)
}

func at(n *sitter.Node) pyast.NodeBase {
	pt := n.StartPoint()
	return pyast.At(pt.Row+1, pt.Column)
}

// named returns the named children of n without comments.
func named(n *sitter.Node) []*sitter.Node {
	if n == nil {
		return nil
	}
	out := make([]*sitter.Node, 0, n.NamedChildCount())
	for i := 0; i < int(n.NamedChildCount()); i++ {
		child := n.NamedChild(i)
		if child.Type() != "comment" {
			out = append(out, child)
		}
	}
	return out
}

func all(n *sitter.Node) []*sitter.Node {
	out := make([]*sitter.Node, 0, n.ChildCount())
	for i := 0; i < int(n.ChildCount()); i++ {
		if child := n.Child(i); child.Type() != "comment" {
			out = append(out, child)
		}
	}
	return out
}

func hasToken(n *sitter.Node, token string) bool {
	for _, child := range all(n) {
		if !child.IsNamed() && child.Type() == token {
			return true
		}
	}
	return false
}

func isStatement(t string) bool {
	switch t {
	case "block", "function_definition", "class_definition", "decorated_definition", "case_clause":
		return true
	}
	return strings.HasSuffix(t, "_statement")
}

// --- statements ---

func (c *converter) stmts(n *sitter.Node) []pyast.Node {
	var out []pyast.Node
	for _, child := range named(n) {
		if s := c.stmt(child); s != nil {
			out = append(out, s)
		}
	}
	return out
}

func (c *converter) stmt(n *sitter.Node) pyast.Node {
	switch n.Type() {
	case "expression_statement":
		return c.exprStatement(n)
	case "return_statement":
		r := &pyast.Return{NodeBase: at(n)}
		if kids := named(n); len(kids) > 0 {
			r.Value = c.expr(kids[0], pyast.Load)
		}
		return r
	case "delete_statement":
		d := &pyast.Delete{NodeBase: at(n)}
		for _, kid := range named(n) {
			if kid.Type() == "expression_list" {
				d.Targets = append(d.Targets, c.exprs(named(kid), pyast.Del)...)
			} else {
				d.Targets = append(d.Targets, c.expr(kid, pyast.Del))
			}
		}
		return d
	case "raise_statement":
		return c.raise(n)
	case "pass_statement":
		return &pyast.Pass{NodeBase: at(n)}
	case "break_statement":
		return &pyast.Break{NodeBase: at(n)}
	case "continue_statement":
		return &pyast.Continue{NodeBase: at(n)}
	case "if_statement":
		return c.ifStatement(n)
	case "for_statement":
		return &pyast.For{
			NodeBase: at(n),
			Async:    hasToken(n, "async"),
			Target:   c.expr(n.ChildByFieldName("left"), pyast.Store),
			Iter:     c.expr(n.ChildByFieldName("right"), pyast.Load),
			Body:     c.stmts(n.ChildByFieldName("body")),
			Orelse:   c.elseBody(n.ChildByFieldName("alternative")),
		}
	case "while_statement":
		return &pyast.While{
			NodeBase: at(n),
			Test:     c.expr(n.ChildByFieldName("condition"), pyast.Load),
			Body:     c.stmts(n.ChildByFieldName("body")),
			Orelse:   c.elseBody(n.ChildByFieldName("alternative")),
		}
	case "try_statement":
		return c.try(n)
	case "with_statement":
		return c.with(n)
	case "function_definition":
		return c.functionDef(n, nil)
	case "class_definition":
		return c.classDef(n, nil)
	case "decorated_definition":
		var decorators []pyast.Node
		for _, kid := range named(n) {
			if kid.Type() == "decorator" {
				if expr := named(kid); len(expr) > 0 {
					decorators = append(decorators, c.expr(expr[0], pyast.Load))
				}
			}
		}
		def := n.ChildByFieldName("definition")
		if def == nil {
			return &pyast.OtherStmt{NodeBase: at(n), Type: n.Type(), Children: decorators}
		}
		if def.Type() == "class_definition" {
			return c.classDef(def, decorators)
		}
		return c.functionDef(def, decorators)
	case "assert_statement":
		a := &pyast.Assert{NodeBase: at(n)}
		if kids := named(n); len(kids) > 0 {
			a.Test = c.expr(kids[0], pyast.Load)
			if len(kids) > 1 {
				a.Msg = c.expr(kids[1], pyast.Load)
			}
		}
		return a
	case "import_statement":
		imp := &pyast.Import{NodeBase: at(n)}
		for _, kid := range named(n) {
			imp.Names = append(imp.Names, c.importName(kid))
		}
		return imp
	case "import_from_statement", "future_import_statement":
		imp := &pyast.ImportFrom{NodeBase: at(n), Module: "__future__"}
		module := n.ChildByFieldName("module_name")
		if module != nil {
			imp.Module = c.text(module)
		}
		for _, kid := range named(n) {
			if module != nil && kid.StartByte() == module.StartByte() {
				continue
			}
			imp.Names = append(imp.Names, c.importName(kid))
		}
		return imp
	case "global_statement":
		return &pyast.Global{NodeBase: at(n), Names: c.identifiers(n)}
	case "nonlocal_statement":
		return &pyast.Nonlocal{NodeBase: at(n), Names: c.identifiers(n)}
	case "block":
		return &pyast.OtherStmt{NodeBase: at(n), Type: n.Type(), Children: c.stmts(n)}
	}
	return &pyast.OtherStmt{NodeBase: at(n), Type: n.Type(), Children: c.generic(n)}
}

func (c *converter) importName(n *sitter.Node) string {
	switch n.Type() {
	case "aliased_import":
		if name := n.ChildByFieldName("name"); name != nil {
			return c.text(name)
		}
	case "wildcard_import":
		return "*"
	}
	return c.text(n)
}

func (c *converter) identifiers(n *sitter.Node) []string {
	var out []string
	for _, kid := range named(n) {
		out = append(out, c.text(kid))
	}
	return out
}

// generic converts the named children of a node without a dedicated mapping,
// so traversal still reaches the constructs nested inside it.
func (c *converter) generic(n *sitter.Node) []pyast.Node {
	var out []pyast.Node
	for _, kid := range named(n) {
		if isStatement(kid.Type()) {
			out = append(out, c.stmt(kid))
		} else {
			out = append(out, c.expr(kid, pyast.Load))
		}
	}
	return out
}

func (c *converter) exprStatement(n *sitter.Node) pyast.Node {
	kids := named(n)
	if len(kids) == 1 {
		switch kids[0].Type() {
		case "assignment":
			return c.assignment(kids[0])
		case "augmented_assignment":
			op := strings.TrimSuffix(c.text(kids[0].ChildByFieldName("operator")), "=")
			return &pyast.AugAssign{
				NodeBase: at(n),
				Target:   c.expr(kids[0].ChildByFieldName("left"), pyast.Store),
				Op:       op,
				Value:    c.expr(kids[0].ChildByFieldName("right"), pyast.Load),
			}
		}
	}
	stmt := &pyast.ExprStmt{NodeBase: at(n)}
	if len(kids) == 1 {
		stmt.Value = c.expr(kids[0], pyast.Load)
	} else {
		stmt.Value = &pyast.Tuple{NodeBase: at(n), Elts: c.exprs(kids, pyast.Load)}
	}
	return stmt
}

// assignment flattens `a = b = value` into one Assign with several targets.
func (c *converter) assignment(n *sitter.Node) pyast.Node {
	if typ := n.ChildByFieldName("type"); typ != nil {
		ann := &pyast.AnnAssign{
			NodeBase:   at(n),
			Target:     c.expr(n.ChildByFieldName("left"), pyast.Store),
			Annotation: c.expr(typ, pyast.Load),
		}
		if right := n.ChildByFieldName("right"); right != nil {
			ann.Value = c.expr(right, pyast.Load)
		}
		return ann
	}
	assign := &pyast.Assign{NodeBase: at(n)}
	for {
		assign.Targets = append(assign.Targets, c.expr(n.ChildByFieldName("left"), pyast.Store))
		right := n.ChildByFieldName("right")
		if right != nil && right.Type() == "assignment" && right.ChildByFieldName("type") == nil {
			n = right
			continue
		}
		assign.Value = c.expr(right, pyast.Load)
		return assign
	}
}

func (c *converter) raise(n *sitter.Node) pyast.Node {
	r := &pyast.Raise{NodeBase: at(n)}
	afterFrom := false
	for _, kid := range all(n) {
		if !kid.IsNamed() {
			afterFrom = afterFrom || kid.Type() == "from"
			continue
		}
		if afterFrom {
			r.Cause = c.expr(kid, pyast.Load)
		} else if r.Exc == nil {
			r.Exc = c.expr(kid, pyast.Load)
		}
	}
	return r
}

func (c *converter) ifStatement(n *sitter.Node) pyast.Node {
	root := &pyast.If{
		NodeBase: at(n),
		Test:     c.expr(n.ChildByFieldName("condition"), pyast.Load),
		Body:     c.stmts(n.ChildByFieldName("consequence")),
	}
	tail := root
	for _, kid := range named(n) {
		switch kid.Type() {
		case "elif_clause":
			elif := &pyast.If{
				NodeBase: at(kid),
				Test:     c.expr(kid.ChildByFieldName("condition"), pyast.Load),
				Body:     c.stmts(kid.ChildByFieldName("consequence")),
			}
			tail.Orelse = []pyast.Node{elif}
			tail = elif
		case "else_clause":
			tail.Orelse = c.elseBody(kid)
		}
	}
	return root
}

func (c *converter) elseBody(n *sitter.Node) []pyast.Node {
	if n == nil {
		return nil
	}
	if body := n.ChildByFieldName("body"); body != nil {
		return c.stmts(body)
	}
	for _, kid := range named(n) {
		if kid.Type() == "block" {
			return c.stmts(kid)
		}
	}
	return nil
}

func (c *converter) try(n *sitter.Node) pyast.Node {
	t := &pyast.Try{
		NodeBase: at(n),
		Body:     c.stmts(n.ChildByFieldName("body")),
	}
	for _, kid := range named(n) {
		switch kid.Type() {
		case "except_group_clause":
			t.Star = true
			t.Handlers = append(t.Handlers, c.exceptClause(kid))
		case "except_clause":
			t.Handlers = append(t.Handlers, c.exceptClause(kid))
		case "else_clause":
			t.Orelse = c.elseBody(kid)
		case "finally_clause":
			t.Finalbody = c.elseBody(kid)
		}
	}
	return t
}

// exceptClause accepts both grammar shapes for the bound name: an as_pattern
// wrapping the type, or the alias as a sibling after `as`.
func (c *converter) exceptClause(n *sitter.Node) *pyast.ExceptHandler {
	h := &pyast.ExceptHandler{NodeBase: at(n)}
	alias := false
	for _, kid := range all(n) {
		if !kid.IsNamed() {
			alias = alias || kid.Type() == "as" || kid.Type() == ","
			continue
		}
		switch {
		case kid.Type() == "block":
			h.Body = c.stmts(kid)
		case alias:
			h.Name = c.text(unwrapTarget(kid))
		case kid.Type() == "as_pattern":
			if inner := named(kid); len(inner) > 0 {
				h.Type = c.expr(inner[0], pyast.Load)
			}
			if target := kid.ChildByFieldName("alias"); target != nil {
				h.Name = c.text(unwrapTarget(target))
			}
		case h.Type == nil:
			h.Type = c.expr(kid, pyast.Load)
		}
	}
	return h
}

func unwrapTarget(n *sitter.Node) *sitter.Node {
	if n.Type() == "as_pattern_target" {
		if inner := named(n); len(inner) > 0 {
			return inner[0]
		}
	}
	return n
}

func (c *converter) with(n *sitter.Node) pyast.Node {
	w := &pyast.With{
		NodeBase: at(n),
		Async:    hasToken(n, "async"),
		Body:     c.stmts(n.ChildByFieldName("body")),
	}
	for _, clause := range named(n) {
		if clause.Type() != "with_clause" {
			continue
		}
		for _, item := range named(clause) {
			if item.Type() == "with_item" {
				w.Items = append(w.Items, c.withItem(item))
			}
		}
	}
	return w
}

func (c *converter) withItem(n *sitter.Node) *pyast.WithItem {
	item := &pyast.WithItem{NodeBase: at(n)}
	value := n.ChildByFieldName("value")
	if value == nil {
		if kids := named(n); len(kids) > 0 {
			value = kids[0]
		}
	}
	if value == nil {
		return item
	}
	if value.Type() == "as_pattern" {
		if inner := named(value); len(inner) > 0 {
			item.Context = c.expr(inner[0], pyast.Load)
		}
		if target := value.ChildByFieldName("alias"); target != nil {
			item.Vars = c.expr(unwrapTarget(target), pyast.Store)
		}
		return item
	}
	item.Context = c.expr(value, pyast.Load)
	if alias := n.ChildByFieldName("alias"); alias != nil {
		item.Vars = c.expr(unwrapTarget(alias), pyast.Store)
	}
	return item
}

func (c *converter) functionDef(n *sitter.Node, decorators []pyast.Node) pyast.Node {
	fn := &pyast.FunctionDef{
		NodeBase:   at(n),
		Name:       c.text(n.ChildByFieldName("name")),
		Async:      hasToken(n, "async"),
		Decorators: decorators,
		Params:     c.params(n.ChildByFieldName("parameters")),
		Body:       c.stmts(n.ChildByFieldName("body")),
	}
	if ret := n.ChildByFieldName("return_type"); ret != nil {
		fn.Returns = c.expr(ret, pyast.Load)
	}
	return fn
}

func (c *converter) classDef(n *sitter.Node, decorators []pyast.Node) pyast.Node {
	cls := &pyast.ClassDef{
		NodeBase:   at(n),
		Name:       c.text(n.ChildByFieldName("name")),
		Decorators: decorators,
		Body:       c.stmts(n.ChildByFieldName("body")),
	}
	if supers := n.ChildByFieldName("superclasses"); supers != nil {
		cls.Bases, cls.Keywords = c.arguments(supers)
	}
	return cls
}

func (c *converter) params(n *sitter.Node) []*pyast.Arg {
	var out []*pyast.Arg
	kind := pyast.ParamPositional
	for _, p := range named(n) {
		arg := &pyast.Arg{NodeBase: at(p), ParamKind: kind}
		switch p.Type() {
		case "identifier":
			arg.Name = c.text(p)
		case "default_parameter", "typed_default_parameter":
			arg.Name = c.text(p.ChildByFieldName("name"))
			if typ := p.ChildByFieldName("type"); typ != nil {
				arg.Annotation = c.expr(typ, pyast.Load)
			}
			arg.Default = c.expr(p.ChildByFieldName("value"), pyast.Load)
		case "typed_parameter":
			inner := named(p)
			if len(inner) > 0 {
				c.splatParam(arg, inner[0])
			}
			if typ := p.ChildByFieldName("type"); typ != nil {
				arg.Annotation = c.expr(typ, pyast.Load)
			}
		case "list_splat_pattern", "dictionary_splat_pattern":
			c.splatParam(arg, p)
		case "keyword_separator":
			kind = pyast.ParamKwOnly
			continue
		case "positional_separator":
			continue
		default:
			arg.Name = c.text(p)
		}
		if arg.ParamKind == pyast.ParamVarArgs {
			kind = pyast.ParamKwOnly
		}
		out = append(out, arg)
	}
	return out
}

func (c *converter) splatParam(arg *pyast.Arg, p *sitter.Node) {
	name := p
	switch p.Type() {
	case "list_splat_pattern":
		arg.ParamKind = pyast.ParamVarArgs
	case "dictionary_splat_pattern":
		arg.ParamKind = pyast.ParamKwArgs
	}
	if arg.ParamKind != pyast.ParamPositional && arg.ParamKind != pyast.ParamKwOnly {
		if inner := named(p); len(inner) > 0 {
			name = inner[0]
		}
	}
	arg.Name = c.text(name)
}

// arguments converts an argument_list into positional arguments and keywords.
func (c *converter) arguments(n *sitter.Node) ([]pyast.Node, []*pyast.Keyword) {
	var args []pyast.Node
	var keywords []*pyast.Keyword
	for _, kid := range named(n) {
		switch kid.Type() {
		case "keyword_argument":
			keywords = append(keywords, &pyast.Keyword{
				NodeBase: at(kid),
				Arg:      c.text(kid.ChildByFieldName("name")),
				Value:    c.expr(kid.ChildByFieldName("value"), pyast.Load),
			})
		case "dictionary_splat":
			kw := &pyast.Keyword{NodeBase: at(kid)}
			if inner := named(kid); len(inner) > 0 {
				kw.Value = c.expr(inner[0], pyast.Load)
			}
			keywords = append(keywords, kw)
		default:
			args = append(args, c.expr(kid, pyast.Load))
		}
	}
	return args, keywords
}

// --- expressions ---

func (c *converter) exprs(nodes []*sitter.Node, ctx pyast.Ctx) []pyast.Node {
	out := make([]pyast.Node, 0, len(nodes))
	for _, n := range nodes {
		out = append(out, c.expr(n, ctx))
	}
	return out
}

func (c *converter) expr(n *sitter.Node, ctx pyast.Ctx) pyast.Node {
	if n == nil {
		return nil
	}
	switch n.Type() {
	case "identifier", "keyword_identifier":
		return &pyast.Name{NodeBase: at(n), Ident: c.text(n), Ctx: ctx}
	case "attribute":
		return &pyast.Attribute{
			NodeBase: at(n),
			Value:    c.expr(n.ChildByFieldName("object"), pyast.Load),
			Attr:     c.text(n.ChildByFieldName("attribute")),
			Ctx:      ctx,
		}
	case "subscript":
		return c.subscript(n, ctx)
	case "slice":
		return c.slice(n)
	case "call":
		call := &pyast.Call{NodeBase: at(n), Func: c.expr(n.ChildByFieldName("function"), pyast.Load)}
		if args := n.ChildByFieldName("arguments"); args != nil {
			if args.Type() == "generator_expression" {
				call.Args = []pyast.Node{c.expr(args, pyast.Load)}
			} else {
				call.Args, call.Keywords = c.arguments(args)
			}
		}
		return call
	case "parenthesized_expression", "type", "as_pattern_target":
		if inner := named(n); len(inner) > 0 {
			return c.expr(inner[0], ctx)
		}
	case "tuple", "tuple_pattern":
		return &pyast.Tuple{NodeBase: at(n), Elts: c.exprs(named(n), ctx), Ctx: ctx, Parenthesized: true}
	case "expression_list", "pattern_list":
		return &pyast.Tuple{NodeBase: at(n), Elts: c.exprs(named(n), ctx), Ctx: ctx}
	case "list", "list_pattern":
		return &pyast.List{NodeBase: at(n), Elts: c.exprs(named(n), ctx), Ctx: ctx}
	case "list_splat", "list_splat_pattern":
		s := &pyast.Starred{NodeBase: at(n), Ctx: ctx}
		if inner := named(n); len(inner) > 0 {
			s.Value = c.expr(inner[0], ctx)
		}
		return s
	case "set":
		return &pyast.Set{NodeBase: at(n), Elts: c.exprs(named(n), pyast.Load)}
	case "dictionary":
		return c.dict(n)
	case "list_comprehension":
		return &pyast.ListComp{NodeBase: at(n), Elt: c.expr(n.ChildByFieldName("body"), pyast.Load), Generators: c.generators(n)}
	case "set_comprehension":
		return &pyast.SetComp{NodeBase: at(n), Elt: c.expr(n.ChildByFieldName("body"), pyast.Load), Generators: c.generators(n)}
	case "generator_expression":
		return &pyast.GeneratorExp{NodeBase: at(n), Elt: c.expr(n.ChildByFieldName("body"), pyast.Load), Generators: c.generators(n)}
	case "dictionary_comprehension":
		dc := &pyast.DictComp{NodeBase: at(n), Generators: c.generators(n)}
		if pair := n.ChildByFieldName("body"); pair != nil {
			dc.Key = c.expr(pair.ChildByFieldName("key"), pyast.Load)
			dc.Value = c.expr(pair.ChildByFieldName("value"), pyast.Load)
		}
		return dc
	case "integer", "float":
		kind := pyast.ConstInt
		text := c.text(n)
		switch {
		case strings.HasSuffix(text, "j"), strings.HasSuffix(text, "J"):
			kind = pyast.ConstComplex
		case n.Type() == "float":
			kind = pyast.ConstFloat
		}
		return &pyast.Constant{NodeBase: at(n), ConstKind: kind, Value: text}
	case "string", "concatenated_string":
		return c.str(n)
	case "true", "false":
		return &pyast.Constant{NodeBase: at(n), ConstKind: pyast.ConstBool, Value: c.text(n)}
	case "none":
		return &pyast.Constant{NodeBase: at(n), ConstKind: pyast.ConstNone, Value: "None"}
	case "ellipsis":
		return &pyast.Constant{NodeBase: at(n), ConstKind: pyast.ConstEllipsis, Value: "..."}
	case "unary_operator":
		return &pyast.UnaryOp{
			NodeBase: at(n),
			Op:       c.text(n.ChildByFieldName("operator")),
			Operand:  c.expr(n.ChildByFieldName("argument"), pyast.Load),
		}
	case "not_operator":
		return &pyast.UnaryOp{NodeBase: at(n), Op: "not", Operand: c.expr(n.ChildByFieldName("argument"), pyast.Load)}
	case "binary_operator":
		return &pyast.BinOp{
			NodeBase: at(n),
			Left:     c.expr(n.ChildByFieldName("left"), pyast.Load),
			Op:       c.text(n.ChildByFieldName("operator")),
			Right:    c.expr(n.ChildByFieldName("right"), pyast.Load),
		}
	case "boolean_operator":
		return c.boolOp(n)
	case "comparison_operator":
		return c.compare(n)
	case "conditional_expression":
		if kids := named(n); len(kids) == 3 {
			return &pyast.IfExp{
				NodeBase: at(n),
				Body:     c.expr(kids[0], pyast.Load),
				Test:     c.expr(kids[1], pyast.Load),
				Orelse:   c.expr(kids[2], pyast.Load),
			}
		}
	case "named_expression":
		return &pyast.NamedExpr{
			NodeBase: at(n),
			Target:   c.expr(n.ChildByFieldName("name"), pyast.Store),
			Value:    c.expr(n.ChildByFieldName("value"), pyast.Load),
		}
	case "lambda":
		return &pyast.Lambda{
			NodeBase: at(n),
			Params:   c.params(n.ChildByFieldName("parameters")),
			Body:     c.expr(n.ChildByFieldName("body"), pyast.Load),
		}
	case "await":
		a := &pyast.Await{NodeBase: at(n)}
		if inner := named(n); len(inner) > 0 {
			a.Value = c.expr(inner[0], pyast.Load)
		}
		return a
	case "yield":
		var value pyast.Node
		if inner := named(n); len(inner) > 0 {
			value = c.expr(inner[0], pyast.Load)
		}
		if hasToken(n, "from") {
			return &pyast.YieldFrom{NodeBase: at(n), Value: value}
		}
		return &pyast.Yield{NodeBase: at(n), Value: value}
	}
	return &pyast.OtherExpr{NodeBase: at(n), Type: n.Type(), Children: c.generic(n)}
}

func (c *converter) subscript(n *sitter.Node, ctx pyast.Ctx) pyast.Node {
	value := n.ChildByFieldName("value")
	var slices []*sitter.Node
	for _, kid := range named(n) {
		if value != nil && kid.StartByte() == value.StartByte() && kid.EndByte() == value.EndByte() {
			continue
		}
		slices = append(slices, kid)
	}
	sub := &pyast.Subscript{NodeBase: at(n), Value: c.expr(value, pyast.Load), Ctx: ctx}
	switch len(slices) {
	case 0:
	case 1:
		sub.Slice = c.expr(slices[0], pyast.Load)
	default:
		sub.Slice = &pyast.Tuple{NodeBase: at(slices[0]), Elts: c.exprs(slices, pyast.Load)}
	}
	return sub
}

func (c *converter) slice(n *sitter.Node) pyast.Node {
	s := &pyast.Slice{NodeBase: at(n)}
	colons := 0
	for _, kid := range all(n) {
		if !kid.IsNamed() {
			if kid.Type() == ":" {
				colons++
			}
			continue
		}
		switch colons {
		case 0:
			s.Lower = c.expr(kid, pyast.Load)
		case 1:
			s.Upper = c.expr(kid, pyast.Load)
		default:
			s.Step = c.expr(kid, pyast.Load)
		}
	}
	return s
}

func (c *converter) dict(n *sitter.Node) pyast.Node {
	d := &pyast.Dict{NodeBase: at(n)}
	for _, kid := range named(n) {
		switch kid.Type() {
		case "pair":
			d.Keys = append(d.Keys, c.expr(kid.ChildByFieldName("key"), pyast.Load))
			d.Values = append(d.Values, c.expr(kid.ChildByFieldName("value"), pyast.Load))
		case "dictionary_splat":
			d.Keys = append(d.Keys, nil)
			var value pyast.Node
			if inner := named(kid); len(inner) > 0 {
				value = c.expr(inner[0], pyast.Load)
			}
			d.Values = append(d.Values, value)
		}
	}
	return d
}

// generators converts the for/if clauses of a comprehension. An if clause
// filters the for clause before it.
func (c *converter) generators(n *sitter.Node) []*pyast.Comprehension {
	var out []*pyast.Comprehension
	for _, kid := range named(n) {
		switch kid.Type() {
		case "for_in_clause":
			gen := &pyast.Comprehension{
				NodeBase: at(kid),
				Async:    hasToken(kid, "async"),
				Target:   c.expr(kid.ChildByFieldName("left"), pyast.Store),
			}
			var iters []*sitter.Node
			afterIn := false
			for _, part := range all(kid) {
				if !part.IsNamed() {
					afterIn = afterIn || part.Type() == "in"
					continue
				}
				if afterIn {
					iters = append(iters, part)
				}
			}
			if len(iters) == 1 {
				gen.Iter = c.expr(iters[0], pyast.Load)
			} else if len(iters) > 1 {
				gen.Iter = &pyast.Tuple{NodeBase: at(iters[0]), Elts: c.exprs(iters, pyast.Load)}
			}
			out = append(out, gen)
		case "if_clause":
			if len(out) == 0 {
				continue
			}
			last := out[len(out)-1]
			for _, cond := range named(kid) {
				last.Ifs = append(last.Ifs, c.expr(cond, pyast.Load))
			}
		}
	}
	return out
}

func (c *converter) str(n *sitter.Node) pyast.Node {
	parts := []*sitter.Node{n}
	if n.Type() == "concatenated_string" {
		parts = named(n)
	}
	var prefixes string
	for _, part := range parts {
		prefixes += stringPrefix(c.text(part))
	}
	prefixes = strings.ToLower(prefixes)
	switch {
	case strings.Contains(prefixes, "f"):
		js := &pyast.JoinedStr{NodeBase: at(n)}
		for _, part := range parts {
			for _, kid := range named(part) {
				if kid.Type() != "interpolation" {
					continue
				}
				if inner := kid.ChildByFieldName("expression"); inner != nil {
					js.Values = append(js.Values, c.expr(inner, pyast.Load))
				} else if inner := named(kid); len(inner) > 0 {
					js.Values = append(js.Values, c.expr(inner[0], pyast.Load))
				}
			}
		}
		return js
	case strings.Contains(prefixes, "b"):
		return &pyast.Constant{NodeBase: at(n), ConstKind: pyast.ConstBytes, Value: c.text(n)}
	}
	return &pyast.Constant{NodeBase: at(n), ConstKind: pyast.ConstStr, Value: c.text(n)}
}

func stringPrefix(s string) string {
	if i := strings.IndexAny(s, `'"`); i >= 0 {
		return s[:i]
	}
	return ""
}

func (c *converter) boolOp(n *sitter.Node) pyast.Node {
	op := c.text(n.ChildByFieldName("operator"))
	b := &pyast.BoolOp{NodeBase: at(n), Op: op}
	left := n.ChildByFieldName("left")
	if left != nil && left.Type() == "boolean_operator" && c.text(left.ChildByFieldName("operator")) == op {
		b.Values = c.boolOp(left).(*pyast.BoolOp).Values
	} else {
		b.Values = []pyast.Node{c.expr(left, pyast.Load)}
	}
	b.Values = append(b.Values, c.expr(n.ChildByFieldName("right"), pyast.Load))
	return b
}

// compare rebuilds the operator list from the tokens between operands, so
// `not in` and `is not` come out as one operator each.
func (c *converter) compare(n *sitter.Node) pyast.Node {
	cmp := &pyast.Compare{NodeBase: at(n)}
	var op []string
	for _, kid := range all(n) {
		if !kid.IsNamed() {
			op = append(op, kid.Type())
			continue
		}
		operand := c.expr(kid, pyast.Load)
		if cmp.Left == nil {
			cmp.Left = operand
			continue
		}
		cmp.Ops = append(cmp.Ops, strings.Join(op, " "))
		cmp.Comparators = append(cmp.Comparators, operand)
		op = op[:0]
	}
	return cmp
}
