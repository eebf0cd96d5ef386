package pyast

// Kind tags every node type of the tree. Dispatch tables in the engine are
// indexed by Kind.
type Kind uint8

const (
	KindInvalid Kind = iota

	// scopes
	KindModule
	KindClassDef
	KindFunctionDef
	KindLambda
	KindListComp
	KindSetComp
	KindDictComp
	KindGeneratorExp

	// statements
	KindExprStmt
	KindAssign
	KindAugAssign
	KindAnnAssign
	KindReturn
	KindDelete
	KindRaise
	KindPass
	KindBreak
	KindContinue
	KindIf
	KindFor
	KindWhile
	KindTry
	KindExceptHandler
	KindWith
	KindWithItem
	KindAssert
	KindImport
	KindImportFrom
	KindGlobal
	KindNonlocal
	KindOtherStmt

	// expressions
	KindName
	KindAttribute
	KindSubscript
	KindSlice
	KindStarred
	KindCall
	KindKeyword
	KindTuple
	KindList
	KindSet
	KindDict
	KindConstant
	KindJoinedStr
	KindUnaryOp
	KindBinOp
	KindBoolOp
	KindCompare
	KindIfExp
	KindNamedExpr
	KindAwait
	KindYield
	KindYieldFrom
	KindOtherExpr

	// helpers
	KindArg
	KindComprehension

	kindCount
)

// NumKinds is the size of a table indexed by Kind.
const NumKinds = int(kindCount)

var kindNames = [...]string{
	KindInvalid:       "Invalid",
	KindModule:        "Module",
	KindClassDef:      "ClassDef",
	KindFunctionDef:   "FunctionDef",
	KindLambda:        "Lambda",
	KindListComp:      "ListComp",
	KindSetComp:       "SetComp",
	KindDictComp:      "DictComp",
	KindGeneratorExp:  "GeneratorExp",
	KindExprStmt:      "Expr",
	KindAssign:        "Assign",
	KindAugAssign:     "AugAssign",
	KindAnnAssign:     "AnnAssign",
	KindReturn:        "Return",
	KindDelete:        "Delete",
	KindRaise:         "Raise",
	KindPass:          "Pass",
	KindBreak:         "Break",
	KindContinue:      "Continue",
	KindIf:            "If",
	KindFor:           "For",
	KindWhile:         "While",
	KindTry:           "Try",
	KindExceptHandler: "ExceptHandler",
	KindWith:          "With",
	KindWithItem:      "withitem",
	KindAssert:        "Assert",
	KindImport:        "Import",
	KindImportFrom:    "ImportFrom",
	KindGlobal:        "Global",
	KindNonlocal:      "Nonlocal",
	KindOtherStmt:     "OtherStmt",
	KindName:          "Name",
	KindAttribute:     "Attribute",
	KindSubscript:     "Subscript",
	KindSlice:         "Slice",
	KindStarred:       "Starred",
	KindCall:          "Call",
	KindKeyword:       "keyword",
	KindTuple:         "Tuple",
	KindList:          "List",
	KindSet:           "Set",
	KindDict:          "Dict",
	KindConstant:      "Constant",
	KindJoinedStr:     "JoinedStr",
	KindUnaryOp:       "UnaryOp",
	KindBinOp:         "BinOp",
	KindBoolOp:        "BoolOp",
	KindCompare:       "Compare",
	KindIfExp:         "IfExp",
	KindNamedExpr:     "NamedExpr",
	KindAwait:         "Await",
	KindYield:         "Yield",
	KindYieldFrom:     "YieldFrom",
	KindOtherExpr:     "OtherExpr",
	KindArg:           "arg",
	KindComprehension: "comprehension",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) && kindNames[k] != "" {
		return kindNames[k]
	}
	return "Kind(?)"
}

// IsScope reports whether nodes of this kind open a new scope context.
func (k Kind) IsScope() bool {
	switch k {
	case KindModule, KindClassDef, KindFunctionDef, KindLambda,
		KindListComp, KindSetComp, KindDictComp, KindGeneratorExp:
		return true
	}
	return false
}

// IsFunction reports whether the kind is a function literal (def or lambda).
func (k Kind) IsFunction() bool {
	return k == KindFunctionDef || k == KindLambda
}

// IsComprehension reports whether the kind is one of the four comprehensions.
func (k Kind) IsComprehension() bool {
	switch k {
	case KindListComp, KindSetComp, KindDictComp, KindGeneratorExp:
		return true
	}
	return false
}

// IsLoop reports whether the kind re-executes its body: loops and comprehensions.
func (k Kind) IsLoop() bool {
	return k == KindFor || k == KindWhile || k.IsComprehension()
}
