package engine

import (
	"bugbear/internal/errors"
	"bugbear/internal/pyast"
)

// WindowSize is the number of most recently entered nodes kept by Window.
const WindowSize = 4

// Window is a ring of the most recently entered nodes, including the node
// currently being entered.
type Window struct {
	ids   [WindowSize]pyast.NodeID
	next  int
	count int
}

func (w *Window) push(id pyast.NodeID) {
	w.ids[w.next] = id
	w.next = (w.next + 1) % WindowSize
	if w.count < WindowSize {
		w.count++
	}
}

// Len is the number of entries held, at most WindowSize.
func (w *Window) Len() int { return w.count }

// Recent returns the i-th most recent entry. Recent(0) is the node being
// entered, Recent(1) the one entered before it. Out of range yields NoNode.
func (w *Window) Recent(i int) pyast.NodeID {
	if i < 0 || i >= w.count {
		return pyast.NoNode
	}
	return w.ids[(w.next-1-i+2*WindowSize)%WindowSize]
}

// IDs returns the entries oldest first.
func (w *Window) IDs() []pyast.NodeID {
	out := make([]pyast.NodeID, 0, w.count)
	for i := w.count - 1; i >= 0; i-- {
		out = append(out, w.Recent(i))
	}
	return out
}

// Scope is one scope context: the node that opened it and the ancestor stack
// of nodes entered inside it. The opening node is the first stack entry.
type Scope struct {
	Node  pyast.Node
	stack []pyast.NodeID
}

// Ancestors returns the scope's stack, outermost first. The slice must not be
// modified.
func (s *Scope) Ancestors() []pyast.NodeID { return s.stack }

// CaughtException tracks the name bound by the innermost active except
// clause and whether a note has been attached to it.
type CaughtException struct {
	Name    string
	HasNote bool
}

// CaughtCell is the single caught-exception slot shared by the note-tracking
// checkers. Entering an except clause pushes a state, leaving it pops and
// restores the enclosing one.
type CaughtCell struct {
	cur   *CaughtException
	saved []*CaughtException
}

// Current returns the live state, or nil.
func (c *CaughtCell) Current() *CaughtException { return c.cur }

// Set replaces the live state without touching the save stack.
func (c *CaughtCell) Set(s *CaughtException) { c.cur = s }

// Clear drops the live state.
func (c *CaughtCell) Clear() { c.cur = nil }

// Push suspends the live state and installs s (which may be nil).
func (c *CaughtCell) Push(s *CaughtException) {
	c.saved = append(c.saved, c.cur)
	c.cur = s
}

// Pop restores the state suspended by the matching Push. Popping an empty
// cell is an engine bug and panics.
func (c *CaughtCell) Pop() {
	if len(c.saved) == 0 {
		panic(errors.Internal("caught-exception cell popped without a matching push"))
	}
	last := len(c.saved) - 1
	c.cur = c.saved[last]
	c.saved = c.saved[:last]
}

// Depth is the number of suspended states.
func (c *CaughtCell) Depth() int { return len(c.saved) }
