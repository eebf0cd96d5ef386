//go:build cgo

// Package parse turns Python source into a pyast.Tree using tree-sitter.
package parse

import (
	"context"
	"fmt"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/python"

	"bugbear/internal/errors"
	"bugbear/internal/pyast"
)

// Parser wraps a tree-sitter parser set to the Python grammar.
// A Parser is not safe for concurrent use.
type Parser struct {
	parser *sitter.Parser
}

// NewParser creates a new Python parser.
func NewParser() *Parser {
	p := sitter.NewParser()
	p.SetLanguage(python.GetLanguage())
	return &Parser{parser: p}
}

// Parse parses source and converts the concrete syntax tree. Sources with
// syntax errors are rejected with a PARSE_FAILED error pointing at the first
// broken node.
func (p *Parser) Parse(ctx context.Context, path string, source []byte) (*pyast.Tree, error) {
	tree, err := p.parser.ParseCtx(ctx, nil, source)
	if err != nil {
		return nil, errors.New(errors.ParseFailed, "parse error", err).WithPath(path)
	}
	root := tree.RootNode()
	if root.HasError() {
		bad := firstError(root)
		if bad == nil {
			bad = root
		}
		pt := bad.StartPoint()
		msg := "invalid syntax"
		if bad.IsMissing() {
			msg = fmt.Sprintf("missing %q", bad.Type())
		}
		return nil, errors.New(errors.ParseFailed, msg, nil).WithPath(path).WithPosition(pt.Row+1, pt.Column)
	}

	c := &converter{src: source}
	module := &pyast.Module{NodeBase: pyast.At(1, 0), Body: c.stmts(root)}
	return pyast.NewTree(path, source, module), nil
}

// Parse is a convenience wrapper creating a fresh Parser.
func Parse(ctx context.Context, path string, source []byte) (*pyast.Tree, error) {
	return NewParser().Parse(ctx, path, source)
}

// IsAvailable reports whether parsing is supported by this build.
func IsAvailable() bool {
	return true
}

// firstError returns the first ERROR or missing node in document order.
func firstError(n *sitter.Node) *sitter.Node {
	if n.IsError() || n.IsMissing() {
		return n
	}
	if !n.HasError() {
		return nil
	}
	for i := 0; i < int(n.ChildCount()); i++ {
		if bad := firstError(n.Child(i)); bad != nil {
			return bad
		}
	}
	return nil
}
