package pyast

import (
	"fmt"
	"strings"

	"fortio.org/safecast"
)

// Arena stores values under 1-based uint32 indices; index 0 means "none".
type Arena[T any] struct {
	data []T
}

// NewArena returns an arena with room for capHint values.
func NewArena[T any](capHint int) *Arena[T] {
	return &Arena[T]{data: make([]T, 0, capHint)}
}

// Allocate appends value and returns its index.
func (a *Arena[T]) Allocate(value T) uint32 {
	a.data = append(a.data, value)
	idx, err := safecast.Conv[uint32](len(a.data))
	if err != nil {
		panic(fmt.Errorf("arena overflow: %w", err))
	}
	return idx
}

// Get returns the value at index, or the zero value for index 0 or out of range.
func (a *Arena[T]) Get(index uint32) T {
	var zero T
	if index == 0 || int(index) > len(a.data) {
		return zero
	}
	return a.data[index-1]
}

func (a *Arena[T]) Len() int {
	return len(a.data)
}

// Tree is a frozen syntax tree for one source file.
type Tree struct {
	Path  string
	Root  *Module
	lines []string
	nodes *Arena[Node]
}

// NewTree assigns NodeIDs to every node reachable from root in pre-order and
// returns the frozen tree. The nodes must not be shared with another tree.
func NewTree(path string, source []byte, root *Module) *Tree {
	t := &Tree{
		Path:  path,
		Root:  root,
		nodes: NewArena[Node](256),
	}
	if len(source) > 0 {
		t.lines = strings.Split(strings.ReplaceAll(string(source), "\r\n", "\n"), "\n")
	}
	Inspect(root, func(n Node) bool {
		n.setID(NodeID(t.nodes.Allocate(n)))
		return true
	})
	return t
}

// Node returns the node with the given ID, or nil.
func (t *Tree) Node(id NodeID) Node {
	return t.nodes.Get(uint32(id))
}

// Len is the number of nodes in the tree.
func (t *Tree) Len() int {
	return t.nodes.Len()
}

// Line returns the 1-based source line, or "" when the tree has no source.
func (t *Tree) Line(n uint32) string {
	if n == 0 || int(n) > len(t.lines) {
		return ""
	}
	return t.lines[n-1]
}

// Lines returns the source split into lines.
func (t *Tree) Lines() []string {
	return t.lines
}
