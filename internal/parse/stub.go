//go:build !cgo

// Package parse turns Python source into a pyast.Tree using tree-sitter.
// This is a stub implementation for non-CGO builds.
package parse

import (
	"context"

	"bugbear/internal/errors"
	"bugbear/internal/pyast"
)

// Parser is unavailable without CGO.
type Parser struct{}

// NewParser returns a parser whose Parse always fails.
func NewParser() *Parser {
	return &Parser{}
}

// Parse returns a PARSER_UNAVAILABLE error.
func (p *Parser) Parse(ctx context.Context, path string, source []byte) (*pyast.Tree, error) {
	return nil, errors.New(errors.ParserUnavailable, "python parsing requires CGO (tree-sitter)", nil).WithPath(path)
}

// Parse returns a PARSER_UNAVAILABLE error.
func Parse(ctx context.Context, path string, source []byte) (*pyast.Tree, error) {
	return NewParser().Parse(ctx, path, source)
}

// IsAvailable returns false when CGO is disabled.
func IsAvailable() bool {
	return false
}
