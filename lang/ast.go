package lang

import (
	"iter"
	"maps"
	"slices"

	"github.com/ardnew/re0/lang/syntax"
)

// NodeKind indicates the variant held by a [Node].
type NodeKind uint8

const (
	// KindNever is the zero kind: an explicitly empty node.
	KindNever NodeKind = iota

	// KindRoot is a program: an ordered list of declarations.
	KindRoot

	// KindIfStatement is a conditional chain.
	KindIfStatement

	// KindExpression is a binary expression.
	KindExpression

	// KindBlock is an ordered list of nodes.
	KindBlock

	// KindFunctionCall is a call with an ordered argument list.
	KindFunctionCall

	// KindDict maps literal keys to nodes.
	KindDict

	// KindValue is a literal.
	KindValue
)

// String returns the name of the node kind.
func (k NodeKind) String() string {
	switch k {
	case KindNever:
		return "Never"
	case KindRoot:
		return "Root"
	case KindIfStatement:
		return "IfStatement"
	case KindExpression:
		return "Expression"
	case KindBlock:
		return "Block"
	case KindFunctionCall:
		return "FunctionCall"
	case KindDict:
		return "Dict"
	case KindValue:
		return "Value"
	default:
		return "Unknown"
	}
}

// Node is an abstract syntax tree node. Trees are built bottom-up from the
// span tree and are not modified afterwards.
type Node struct {
	Kind NodeKind
	Span syntax.Span
	// Exactly one of these is set based on Kind.
	Root  []*DeclareStatement
	If    *IfStatement
	Expr  *BinaryExpression
	Block []Node
	Call  *FunctionCall
	Dict  map[Value]Node
	Value Value
}

// ValueNode returns a literal node.
func ValueNode(v Value) Node { return Node{Kind: KindValue, Value: v} }

// BlockNode returns a block node holding nodes.
func BlockNode(nodes ...Node) Node { return Node{Kind: KindBlock, Block: nodes} }

// DictNode returns a dictionary node.
func DictNode(entries map[Value]Node) Node { return Node{Kind: KindDict, Dict: entries} }

// IfBranch is one arm of an [IfStatement].
type IfBranch struct {
	Condition Node
	Body      Node
}

// IfStatement is a chain of conditional branches with a trailing
// otherwise body. Else-if arms are flattened into Cases.
type IfStatement struct {
	Cases     []IfBranch
	Otherwise Node
}

// Branches returns every branch in order, followed by one synthesized
// branch whose condition is the literal true and whose body is the
// otherwise block.
func (s *IfStatement) Branches() iter.Seq[IfBranch] {
	return func(yield func(IfBranch) bool) {
		for _, b := range s.Cases {
			if !yield(b) {
				return
			}
		}

		yield(IfBranch{Condition: ValueNode(Bool(true)), Body: s.Otherwise})
	}
}

// BinaryExpression applies an infix operator to two operands. Operator is
// always the ASCII spelling.
type BinaryExpression struct {
	Left     Node
	Right    Node
	Operator string
}

// FunctionCall is a call of Name with ordered arguments.
type FunctionCall struct {
	Name string
	Args []Node
}

// Operators maps every accepted infix spelling to its ASCII form.
var Operators = map[string]string{
	">": ">", "大于": ">",
	">=": ">=", "大于等于": ">=", "不小于": ">=",
	"<": "<", "小于": "<",
	"<=": "<=", "小于等于": "<=", "不大于": "<=",
	"==": "==", "等于": "==",
	"!=": "!=", "不等于": "!=",
	"+=": "+=",
	"-=": "-=",
}

// Equal reports whether a and b are structurally identical, ignoring
// source spans.
func Equal(a, b Node) bool {
	if a.Kind != b.Kind {
		return false
	}

	switch a.Kind {
	case KindRoot:
		return slices.EqualFunc(a.Root, b.Root, (*DeclareStatement).Equal)

	case KindIfStatement:
		return slices.EqualFunc(a.If.Cases, b.If.Cases, equalBranch) &&
			Equal(a.If.Otherwise, b.If.Otherwise)

	case KindExpression:
		return a.Expr.Operator == b.Expr.Operator &&
			Equal(a.Expr.Left, b.Expr.Left) &&
			Equal(a.Expr.Right, b.Expr.Right)

	case KindBlock:
		return slices.EqualFunc(a.Block, b.Block, Equal)

	case KindFunctionCall:
		return a.Call.Name == b.Call.Name &&
			slices.EqualFunc(a.Call.Args, b.Call.Args, Equal)

	case KindDict:
		return maps.EqualFunc(a.Dict, b.Dict, Equal)

	case KindValue:
		return a.Value == b.Value

	default:
		return true
	}
}

func equalBranch(a, b IfBranch) bool {
	return Equal(a.Condition, b.Condition) && Equal(a.Body, b.Body)
}

// Get follows a path of symbol keys through nested dictionaries.
func (n Node) Get(names ...string) (Node, bool) {
	for _, name := range names {
		if n.Kind != KindDict {
			return Node{}, false
		}

		next, ok := n.Dict[Symbol(name)]
		if !ok {
			return Node{}, false
		}

		n = next
	}

	return n, true
}

// Entries returns the dictionary entries of n in a deterministic key order.
func (n Node) Entries() iter.Seq2[Value, Node] {
	return func(yield func(Value, Node) bool) {
		for _, k := range slices.SortedFunc(maps.Keys(n.Dict), compareKeys) {
			if !yield(k, n.Dict[k]) {
				return
			}
		}
	}
}

// String returns n in native syntax.
func (n Node) String() string { return FormatNode(n) }
