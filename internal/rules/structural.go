package rules

import (
	"bugbear/internal/engine"
	"bugbear/internal/pyast"
)

var unaryPlusRule = engine.Rule{
	Name:  "unary-prefix-increment",
	Codes: []engine.Code{UnaryPrefixIncrement},
	Kinds: []pyast.Kind{pyast.KindUnaryOp},
	New:   func() engine.Checker { return engine.CheckerFunc(checkUnaryPlus) },
}

// checkUnaryPlus reports `++n`: a unary plus entered right after another one.
func checkUnaryPlus(c *engine.Context, n pyast.Node) {
	if !isUnaryPlus(n) {
		return
	}
	if prev := c.Recent(1); isUnaryPlus(prev) {
		c.Report(UnaryPrefixIncrement, prev)
	}
}

func isUnaryPlus(n pyast.Node) bool {
	op, ok := n.(*pyast.UnaryOp)
	return ok && op.Op == "+"
}

var uselessExpressionRule = engine.Rule{
	Name:  "useless-expression",
	Codes: []engine.Code{UselessExpression},
	Kinds: []pyast.Kind{pyast.KindExprStmt},
	New:   func() engine.Checker { return uselessExpression{} },
}

// uselessExpression runs after the statement's subtree so its report follows
// every diagnostic raised inside the expression.
type uselessExpression struct{}

func (uselessExpression) Enter(*engine.Context, pyast.Node) {}

func (uselessExpression) Leave(c *engine.Context, n pyast.Node) {
	stmt := n.(*pyast.ExprStmt)
	switch v := stmt.Value.(type) {
	case *pyast.List, *pyast.Set, *pyast.Dict, *pyast.Tuple:
		c.Report(UselessExpression, stmt, v.Kind().String())
	case *pyast.Constant:
		switch v.ConstKind {
		case pyast.ConstStr, pyast.ConstEllipsis:
		default:
			c.Report(UselessExpression, stmt, "Constant")
		}
	}
}
