// Package engine drives rules over a pyast.Tree in a single depth-first pass.
//
// For every node the engine pushes a scope context when the node opens one,
// pushes the node onto the current scope's ancestor stack, records it in the
// recent-nodes window and calls every checker subscribed to the node's kind.
// After the children have been visited the leave callbacks run and both
// stacks are popped again.
package engine

import (
	"log/slog"
	"time"

	"bugbear/internal/errors"
	"bugbear/internal/pyast"
	"bugbear/internal/slogutil"
)

// Settings are host options exposed to rules through Context.Settings.
type Settings struct {
	ExtendImmutableCalls  []string
	ClassmethodDecorators []string
}

// Option configures an Engine.
type Option func(*Engine)

// WithLogger sets the logger used for pass summaries.
func WithLogger(l *slog.Logger) Option {
	return func(e *Engine) {
		if l != nil {
			e.logger = l
		}
	}
}

// WithSettings sets the options rules can read.
func WithSettings(s Settings) Option {
	return func(e *Engine) { e.settings = s }
}

// Engine runs a fixed set of rules. It holds no per-pass state and may be
// shared by concurrent Run calls.
type Engine struct {
	registry *Registry
	logger   *slog.Logger
	settings Settings
}

// New creates an engine for the rules in reg.
func New(reg *Registry, opts ...Option) *Engine {
	e := &Engine{
		registry: reg,
		logger:   slogutil.NewDiscardLogger(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Registry returns the rules the engine runs.
func (e *Engine) Registry() *Registry { return e.registry }

// Run traverses tree once and returns the diagnostics in emission order.
func (e *Engine) Run(tree *pyast.Tree) []Diagnostic {
	if tree == nil || tree.Root == nil {
		return nil
	}
	start := time.Now()
	p := &pass{
		dispatch: e.registry.instantiate(),
		ctx: Context{
			tree:     tree,
			settings: &e.settings,
		},
	}
	p.visit(tree.Root)
	if len(p.ctx.scopes) != 0 {
		panic(errors.Internal("scope stack not empty after pass: %d left", len(p.ctx.scopes)))
	}
	if d := p.ctx.caught.Depth(); d != 0 {
		panic(errors.Internal("caught-exception cell not balanced after pass: depth %d", d))
	}

	e.logger.Debug("Engine pass complete",
		"path", tree.Path,
		"nodes", tree.Len(),
		"diagnostics", len(p.ctx.diags),
		"duration", time.Since(start),
	)
	return p.ctx.diags
}

type pass struct {
	dispatch *dispatch
	ctx      Context
}

func (p *pass) visit(n pyast.Node) {
	c := &p.ctx
	kind := n.Kind()

	var scope *Scope
	if kind.IsScope() {
		scope = &Scope{Node: n}
		c.scopes = append(c.scopes, scope)
	}
	if len(c.scopes) == 0 {
		panic(errors.Internal("%s entered outside any scope", kind))
	}
	cur := c.scopes[len(c.scopes)-1]
	cur.stack = append(cur.stack, n.ID())
	c.window.push(n.ID())

	for _, ch := range p.dispatch.enter[kind] {
		ch.Enter(c, n)
	}
	for _, child := range pyast.Children(n) {
		p.visit(child)
	}
	for _, ch := range p.dispatch.leave[kind] {
		ch.Leave(c, n)
	}

	if top := c.scopes[len(c.scopes)-1]; top != cur {
		panic(errors.Internal("scope stack corrupted while leaving %s", kind))
	}
	cur.stack = cur.stack[:len(cur.stack)-1]
	if scope != nil {
		c.scopes = c.scopes[:len(c.scopes)-1]
	}
}

// Context is the read view a checker gets of the running pass.
type Context struct {
	tree     *pyast.Tree
	settings *Settings
	scopes   []*Scope
	window   Window
	caught   CaughtCell
	diags    []Diagnostic
}

// Tree returns the tree being traversed.
func (c *Context) Tree() *pyast.Tree { return c.tree }

// Settings returns the host options.
func (c *Context) Settings() *Settings { return c.settings }

// Scope returns the innermost scope context.
func (c *Context) Scope() *Scope {
	if len(c.scopes) == 0 {
		return nil
	}
	return c.scopes[len(c.scopes)-1]
}

// Scopes returns the scope chain, innermost last.
func (c *Context) Scopes() []*Scope { return c.scopes }

// Ancestors returns the current scope's ancestor stack. The last entry is the
// node being visited.
func (c *Context) Ancestors() []pyast.NodeID {
	if s := c.Scope(); s != nil {
		return s.stack
	}
	return nil
}

// Ancestor returns the node depth levels above the current one within the
// current scope: Ancestor(0) is the current node, Ancestor(1) its parent.
// It returns nil past the scope-opening node.
func (c *Context) Ancestor(depth int) pyast.Node {
	stack := c.Ancestors()
	i := len(stack) - 1 - depth
	if depth < 0 || i < 0 {
		return nil
	}
	return c.tree.Node(stack[i])
}

// Parent returns the parent of the current node within the current scope.
func (c *Context) Parent() pyast.Node { return c.Ancestor(1) }

// Window returns the recent-nodes window.
func (c *Context) Window() *Window { return &c.window }

// Recent resolves Window().Recent(i) to a node.
func (c *Context) Recent(i int) pyast.Node {
	return c.tree.Node(c.window.Recent(i))
}

// Caught returns the engine-owned caught-exception cell.
func (c *Context) Caught() *CaughtCell { return &c.caught }

// Report records a diagnostic at n's position.
func (c *Context) Report(code Code, n pyast.Node, args ...string) {
	pos := n.Pos()
	c.diags = append(c.diags, Diagnostic{
		Code:   code,
		Line:   pos.Line,
		Column: pos.Col,
		Args:   args,
	})
}
