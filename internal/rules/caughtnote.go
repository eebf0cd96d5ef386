package rules

import (
	"bugbear/internal/engine"
	"bugbear/internal/pyast"
)

// The B040 checks coordinate through the engine's caught-exception cell:
// the scope checker installs a state per except clause, the note checker
// marks it when add_note is called on the bound name, and the usage checkers
// clear it once the exception is raised or handed on.

var caughtScopeRule = engine.Rule{
	Name:  "caught-exception-scope",
	Codes: []engine.Code{UnusedNotedException},
	Kinds: []pyast.Kind{pyast.KindExceptHandler},
	New:   func() engine.Checker { return caughtScope{} },
}

var noteCallRule = engine.Rule{
	Name:  "caught-exception-add-note",
	Kinds: []pyast.Kind{pyast.KindCall},
	New:   func() engine.Checker { return &noteCall{} },
}

var noteUsageRule = engine.Rule{
	Name:  "caught-exception-usage",
	Kinds: []pyast.Kind{pyast.KindName},
	New:   func() engine.Checker { return engine.CheckerFunc(checkNoteUsage) },
}

var bareRaiseRule = engine.Rule{
	Name:  "caught-exception-reraise",
	Kinds: []pyast.Kind{pyast.KindRaise},
	New:   func() engine.Checker { return engine.CheckerFunc(checkBareRaise) },
}

type caughtScope struct{}

func (caughtScope) Enter(c *engine.Context, n pyast.Node) {
	h := n.(*pyast.ExceptHandler)
	var state *engine.CaughtException
	if h.Name != "" {
		state = &engine.CaughtException{Name: h.Name}
	}
	c.Caught().Push(state)
}

func (caughtScope) Leave(c *engine.Context, n pyast.Node) {
	if s := c.Caught().Current(); s != nil && s.HasNote {
		c.Report(UnusedNotedException, n)
	}
	c.Caught().Pop()
}

// noteCall marks the live state when `<name>.add_note(...)` is called on the
// bound name. Uses of the name inside the call's own arguments do not count:
// the state in effect when the call was entered is put back on leave.
type noteCall struct {
	pending []savedNote
}

type savedNote struct {
	call  pyast.NodeID
	state *engine.CaughtException
}

func (r *noteCall) Enter(c *engine.Context, n pyast.Node) {
	call := n.(*pyast.Call)
	state := c.Caught().Current()
	if !isAddNoteOn(call, state) {
		return
	}
	state.HasNote = true
	r.pending = append(r.pending, savedNote{call: call.ID(), state: state})
}

func (r *noteCall) Leave(c *engine.Context, n pyast.Node) {
	last := len(r.pending) - 1
	if last < 0 || r.pending[last].call != n.ID() {
		return
	}
	c.Caught().Set(r.pending[last].state)
	r.pending = r.pending[:last]
}

func isAddNoteOn(call *pyast.Call, state *engine.CaughtException) bool {
	if state == nil {
		return false
	}
	attr, ok := call.Func.(*pyast.Attribute)
	if !ok || attr.Attr != "add_note" {
		return false
	}
	recv, ok := attr.Value.(*pyast.Name)
	return ok && recv.Ident == state.Name
}

// checkNoteUsage clears the state on any read or rebinding of the bound name
// other than as the receiver of add_note.
func checkNoteUsage(c *engine.Context, n pyast.Node) {
	state := c.Caught().Current()
	name := n.(*pyast.Name)
	if state == nil || name.Ident != state.Name {
		return
	}
	if name.Ctx == pyast.Load {
		if attr, ok := c.Parent().(*pyast.Attribute); ok && attr.Value == n {
			if call, ok := c.Ancestor(2).(*pyast.Call); ok && call.Func == attr && isAddNoteOn(call, state) {
				return
			}
		}
	}
	c.Caught().Clear()
}

func checkBareRaise(c *engine.Context, n pyast.Node) {
	if n.(*pyast.Raise).Exc == nil {
		c.Caught().Clear()
	}
}
