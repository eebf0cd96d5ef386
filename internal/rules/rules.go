// Package rules holds the analyzers run by the engine.
package rules

import (
	"bugbear/internal/engine"
	"bugbear/internal/pyast"
)

const (
	UnaryPrefixIncrement   engine.Code = "B002"
	RedundantOneTuple      engine.Code = "B013"
	RedundantExceptTypes   engine.Code = "B014"
	UselessExpression      engine.Code = "B018"
	LoopVariableCapture    engine.Code = "B023"
	DuplicateExceptName    engine.Code = "B025"
	EmptyExceptTuple       engine.Code = "B029"
	NonClassExceptHandler  engine.Code = "B030"
	GroupbyReuse           engine.Code = "B031"
	BaseExceptionSwallowed engine.Code = "B036"
	UnusedNotedException   engine.Code = "B040"
	LoopIterableMutation   engine.Code = "B909"
)

// All returns every rule in registration order.
func All() []engine.Rule {
	return []engine.Rule{
		unaryPlusRule,
		exceptHandlerRule,
		duplicateHandlerRule,
		uselessExpressionRule,
		lateBindingRule,
		groupbyRule,
		caughtScopeRule,
		noteCallRule,
		noteUsageRule,
		bareRaiseRule,
		iterationMutationRule,
	}
}

// Registry returns a registry holding All.
func Registry() *engine.Registry {
	return engine.NewRegistry(All()...)
}

// isFunctionLiteral reports whether n is a def or a lambda.
func isFunctionLiteral(n pyast.Node) bool {
	return n != nil && n.Kind().IsFunction()
}

// trystar returns "*" when the handler belongs to a try/except* statement.
func trystar(t *pyast.Try) string {
	if t != nil && t.Star {
		return "*"
	}
	return ""
}
