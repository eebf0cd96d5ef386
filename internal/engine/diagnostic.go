package engine

import (
	"cmp"
	"slices"
)

// Code is a diagnostic code such as "B023".
type Code string

// Diagnostic is one finding. Line is 1-based and Column is a 0-based byte
// offset. Args fill the placeholders of the code's message template.
type Diagnostic struct {
	Code   Code     `json:"code" yaml:"code" msgpack:"code"`
	Line   uint32   `json:"line" yaml:"line" msgpack:"line"`
	Column uint32   `json:"column" yaml:"column" msgpack:"column"`
	Args   []string `json:"args,omitempty" yaml:"args,omitempty" msgpack:"args,omitempty"`
}

// Compare orders diagnostics by line, column, code and then arguments.
func Compare(a, b Diagnostic) int {
	if c := cmp.Compare(a.Line, b.Line); c != 0 {
		return c
	}
	if c := cmp.Compare(a.Column, b.Column); c != 0 {
		return c
	}
	if c := cmp.Compare(a.Code, b.Code); c != 0 {
		return c
	}
	return slices.Compare(a.Args, b.Args)
}

// Sort orders diagnostics in place with Compare. The sort is stable so
// identical entries keep emission order.
func Sort(ds []Diagnostic) {
	slices.SortStableFunc(ds, Compare)
}
