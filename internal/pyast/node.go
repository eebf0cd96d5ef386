// Package pyast is the immutable syntax tree the analyzers walk.
//
// Every node type is a struct implementing Node. The set of node types is
// closed: Node carries an unexported method, so only this package can add
// cases, and type switches over Node are exhaustive by construction.
// Children are plain pointers; identity for stacks and sets is the NodeID
// assigned when the tree is frozen with NewTree.
package pyast

// NodeID identifies a node within its Tree. IDs are 1-based.
type NodeID uint32

// NoNode is the zero NodeID.
const NoNode NodeID = 0

func (id NodeID) IsValid() bool { return id != NoNode }

// Pos is a source position. Line is 1-based, Col is a 0-based byte offset.
type Pos struct {
	Line uint32
	Col  uint32
}

// At is shorthand for a NodeBase at the given position.
func At(line, col uint32) NodeBase {
	return NodeBase{Loc: Pos{Line: line, Col: col}}
}

// Node is implemented by every tree node.
type Node interface {
	ID() NodeID
	Pos() Pos
	Kind() Kind
	setID(NodeID)
}

// NodeBase is embedded by every node struct.
type NodeBase struct {
	Loc Pos
	id  NodeID
}

func (b *NodeBase) ID() NodeID       { return b.id }
func (b *NodeBase) Pos() Pos         { return b.Loc }
func (b *NodeBase) setID(id NodeID) { b.id = id }

// Ctx is the expression context of a name-like node.
type Ctx uint8

const (
	Load Ctx = iota
	Store
	Del
)

func (c Ctx) String() string {
	switch c {
	case Store:
		return "Store"
	case Del:
		return "Del"
	default:
		return "Load"
	}
}

// ParamKind distinguishes the parameter forms of a function signature.
type ParamKind uint8

const (
	ParamPositional ParamKind = iota
	ParamVarArgs
	ParamKwOnly
	ParamKwArgs
)

// ConstKind classifies literal constants.
type ConstKind uint8

const (
	ConstNone ConstKind = iota
	ConstBool
	ConstInt
	ConstFloat
	ConstComplex
	ConstStr
	ConstBytes
	ConstEllipsis
)

// ---------------------------------------------------------------------------
// Scopes

type Module struct {
	NodeBase
	Body []Node
}

type ClassDef struct {
	NodeBase
	Name       string
	Decorators []Node
	Bases      []Node
	Keywords   []*Keyword
	Body       []Node
}

type FunctionDef struct {
	NodeBase
	Name       string
	Async      bool
	Decorators []Node
	Params     []*Arg
	Returns    Node
	Body       []Node
}

type Lambda struct {
	NodeBase
	Params []*Arg
	Body   Node
}

// Arg is one formal parameter.
type Arg struct {
	NodeBase
	Name       string
	ParamKind  ParamKind
	Annotation Node
	Default    Node
}

type ListComp struct {
	NodeBase
	Elt        Node
	Generators []*Comprehension
}

type SetComp struct {
	NodeBase
	Elt        Node
	Generators []*Comprehension
}

type DictComp struct {
	NodeBase
	Key        Node
	Value      Node
	Generators []*Comprehension
}

type GeneratorExp struct {
	NodeBase
	Elt        Node
	Generators []*Comprehension
}

// Comprehension is one `for target in iter if cond` clause.
type Comprehension struct {
	NodeBase
	Target Node
	Iter   Node
	Ifs    []Node
	Async  bool
}

// ---------------------------------------------------------------------------
// Statements

type ExprStmt struct {
	NodeBase
	Value Node
}

// Assign holds every target of a chained assignment `a = b = value`.
type Assign struct {
	NodeBase
	Targets []Node
	Value   Node
}

type AugAssign struct {
	NodeBase
	Target Node
	Op     string
	Value  Node
}

type AnnAssign struct {
	NodeBase
	Target     Node
	Annotation Node
	Value      Node
}

type Return struct {
	NodeBase
	Value Node
}

type Delete struct {
	NodeBase
	Targets []Node
}

type Raise struct {
	NodeBase
	Exc   Node
	Cause Node
}

type Pass struct{ NodeBase }

type Break struct{ NodeBase }

type Continue struct{ NodeBase }

type If struct {
	NodeBase
	Test   Node
	Body   []Node
	Orelse []Node
}

type For struct {
	NodeBase
	Async  bool
	Target Node
	Iter   Node
	Body   []Node
	Orelse []Node
}

type While struct {
	NodeBase
	Test   Node
	Body   []Node
	Orelse []Node
}

// Try covers both `try/except` and `try/except*` (Star).
type Try struct {
	NodeBase
	Star      bool
	Body      []Node
	Handlers  []*ExceptHandler
	Orelse    []Node
	Finalbody []Node
}

// ExceptHandler is one except clause. Type is nil for a bare `except:` and
// Name is empty when the clause binds nothing.
type ExceptHandler struct {
	NodeBase
	Type Node
	Name string
	Body []Node
}

type With struct {
	NodeBase
	Async bool
	Items []*WithItem
	Body  []Node
}

type WithItem struct {
	NodeBase
	Context Node
	Vars    Node
}

type Assert struct {
	NodeBase
	Test Node
	Msg  Node
}

type Import struct {
	NodeBase
	Names []string
}

type ImportFrom struct {
	NodeBase
	Module string
	Names  []string
}

type Global struct {
	NodeBase
	Names []string
}

type Nonlocal struct {
	NodeBase
	Names []string
}

// OtherStmt stands for statements no analyzer inspects (match, type alias,
// print/exec of old grammars). Its children are still walked.
type OtherStmt struct {
	NodeBase
	Type     string
	Children []Node
}

// ---------------------------------------------------------------------------
// Expressions

type Name struct {
	NodeBase
	Ident string
	Ctx   Ctx
}

type Attribute struct {
	NodeBase
	Value Node
	Attr  string
	Ctx   Ctx
}

type Subscript struct {
	NodeBase
	Value Node
	Slice Node
	Ctx   Ctx
}

type Slice struct {
	NodeBase
	Lower Node
	Upper Node
	Step  Node
}

type Starred struct {
	NodeBase
	Value Node
	Ctx   Ctx
}

type Call struct {
	NodeBase
	Func     Node
	Args     []Node
	Keywords []*Keyword
}

// Keyword is `name=value` in a call or class header. Arg is empty for `**value`.
type Keyword struct {
	NodeBase
	Arg   string
	Value Node
}

type Tuple struct {
	NodeBase
	Elts          []Node
	Ctx           Ctx
	Parenthesized bool
}

type List struct {
	NodeBase
	Elts []Node
	Ctx  Ctx
}

type Set struct {
	NodeBase
	Elts []Node
}

// Dict keys are nil for `**mapping` entries.
type Dict struct {
	NodeBase
	Keys   []Node
	Values []Node
}

type Constant struct {
	NodeBase
	ConstKind ConstKind
	Value     string
}

// JoinedStr is an f-string; Values are the interpolated expressions.
type JoinedStr struct {
	NodeBase
	Values []Node
}

type UnaryOp struct {
	NodeBase
	Op      string
	Operand Node
}

type BinOp struct {
	NodeBase
	Left  Node
	Op    string
	Right Node
}

type BoolOp struct {
	NodeBase
	Op     string
	Values []Node
}

type Compare struct {
	NodeBase
	Left        Node
	Ops         []string
	Comparators []Node
}

type IfExp struct {
	NodeBase
	Test   Node
	Body   Node
	Orelse Node
}

type NamedExpr struct {
	NodeBase
	Target Node
	Value  Node
}

type Await struct {
	NodeBase
	Value Node
}

type Yield struct {
	NodeBase
	Value Node
}

type YieldFrom struct {
	NodeBase
	Value Node
}

// OtherExpr stands for expressions no analyzer inspects.
type OtherExpr struct {
	NodeBase
	Type     string
	Children []Node
}

func (*Module) Kind() Kind        { return KindModule }
func (*ClassDef) Kind() Kind      { return KindClassDef }
func (*FunctionDef) Kind() Kind   { return KindFunctionDef }
func (*Lambda) Kind() Kind        { return KindLambda }
func (*Arg) Kind() Kind           { return KindArg }
func (*ListComp) Kind() Kind      { return KindListComp }
func (*SetComp) Kind() Kind       { return KindSetComp }
func (*DictComp) Kind() Kind      { return KindDictComp }
func (*GeneratorExp) Kind() Kind  { return KindGeneratorExp }
func (*Comprehension) Kind() Kind { return KindComprehension }
func (*ExprStmt) Kind() Kind      { return KindExprStmt }
func (*Assign) Kind() Kind        { return KindAssign }
func (*AugAssign) Kind() Kind     { return KindAugAssign }
func (*AnnAssign) Kind() Kind     { return KindAnnAssign }
func (*Return) Kind() Kind        { return KindReturn }
func (*Delete) Kind() Kind        { return KindDelete }
func (*Raise) Kind() Kind         { return KindRaise }
func (*Pass) Kind() Kind          { return KindPass }
func (*Break) Kind() Kind         { return KindBreak }
func (*Continue) Kind() Kind      { return KindContinue }
func (*If) Kind() Kind            { return KindIf }
func (*For) Kind() Kind           { return KindFor }
func (*While) Kind() Kind         { return KindWhile }
func (*Try) Kind() Kind           { return KindTry }
func (*ExceptHandler) Kind() Kind { return KindExceptHandler }
func (*With) Kind() Kind          { return KindWith }
func (*WithItem) Kind() Kind      { return KindWithItem }
func (*Assert) Kind() Kind        { return KindAssert }
func (*Import) Kind() Kind        { return KindImport }
func (*ImportFrom) Kind() Kind    { return KindImportFrom }
func (*Global) Kind() Kind        { return KindGlobal }
func (*Nonlocal) Kind() Kind      { return KindNonlocal }
func (*OtherStmt) Kind() Kind     { return KindOtherStmt }
func (*Name) Kind() Kind          { return KindName }
func (*Attribute) Kind() Kind     { return KindAttribute }
func (*Subscript) Kind() Kind     { return KindSubscript }
func (*Slice) Kind() Kind         { return KindSlice }
func (*Starred) Kind() Kind       { return KindStarred }
func (*Call) Kind() Kind          { return KindCall }
func (*Keyword) Kind() Kind       { return KindKeyword }
func (*Tuple) Kind() Kind         { return KindTuple }
func (*List) Kind() Kind          { return KindList }
func (*Set) Kind() Kind           { return KindSet }
func (*Dict) Kind() Kind          { return KindDict }
func (*Constant) Kind() Kind      { return KindConstant }
func (*JoinedStr) Kind() Kind     { return KindJoinedStr }
func (*UnaryOp) Kind() Kind       { return KindUnaryOp }
func (*BinOp) Kind() Kind         { return KindBinOp }
func (*BoolOp) Kind() Kind        { return KindBoolOp }
func (*Compare) Kind() Kind       { return KindCompare }
func (*IfExp) Kind() Kind         { return KindIfExp }
func (*NamedExpr) Kind() Kind     { return KindNamedExpr }
func (*Await) Kind() Kind         { return KindAwait }
func (*Yield) Kind() Kind         { return KindYield }
func (*YieldFrom) Kind() Kind     { return KindYieldFrom }
func (*OtherExpr) Kind() Kind     { return KindOtherExpr }
