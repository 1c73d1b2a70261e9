package lang

// Builder provides a programmatic API for constructing AST nodes without
// parsing source text. This is useful for generating formatted re0 files
// programmatically or for testing.
//
// Example:
//
//	b := lang.NewBuilder()
//	doc := b.Document(
//	    b.Declare("settings", "cli", nil,
//	        b.Entry("log_level", b.String("debug")),
//	        b.Entry("limits", b.Dict(
//	            b.Entry("size", b.Int(10, "mb")),
//	        )),
//	    ),
//	)
type Builder struct{}

// NewBuilder creates a new AST builder.
func NewBuilder() *Builder {
	return &Builder{}
}

// Entry is one key and value of a dictionary.
type Entry struct {
	Key   Value
	Value Node
}

// Document creates a [Document] holding decls.
func (b *Builder) Document(decls ...*DeclareStatement) *Document {
	return &Document{Root: Node{Kind: KindRoot, Root: decls}}
}

// Declare creates a declaration from symbol-keyed entries.
func (b *Builder) Declare(
	keyword, symbol string,
	modifiers []string,
	entries ...Entry,
) *DeclareStatement {
	decl, _ := NewDeclaration(keyword, symbol, modifiers, b.Dict(entries...))

	return decl
}

// Entry creates a dictionary entry keyed by the symbol name.
func (b *Builder) Entry(name string, value Node) Entry {
	return Entry{Key: Symbol(name), Value: value}
}

// Dict creates a dictionary node. A repeated key keeps the last value.
func (b *Builder) Dict(entries ...Entry) Node {
	dict := make(map[Value]Node, len(entries))
	for _, e := range entries {
		dict[e.Key] = e.Value
	}

	return DictNode(dict)
}

// List creates a list of literal values.
func (b *Builder) List(values ...Value) Node {
	items := make([]Node, len(values))
	for i, v := range values {
		items[i] = ValueNode(v)
	}

	return BlockNode(items...)
}

// Block creates a block of statements.
func (b *Builder) Block(stmts ...Node) Node {
	return BlockNode(stmts...)
}

// When creates one branch of a conditional.
func (b *Builder) When(cond Node, body ...Node) IfBranch {
	return IfBranch{Condition: cond, Body: BlockNode(body...)}
}

// If creates a conditional chain. The otherwise body may be empty.
func (b *Builder) If(otherwise []Node, cases ...IfBranch) Node {
	return Node{
		Kind: KindIfStatement,
		If:   &IfStatement{Cases: cases, Otherwise: BlockNode(otherwise...)},
	}
}

// Expr creates a binary expression. The operator may use any accepted
// spelling and is stored in its ASCII form.
func (b *Builder) Expr(left Node, op string, right Node) Node {
	if ascii, ok := Operators[op]; ok {
		op = ascii
	}

	return Node{
		Kind: KindExpression,
		Expr: &BinaryExpression{Left: left, Right: right, Operator: op},
	}
}

// Call creates a function call.
func (b *Builder) Call(name string, args ...Node) Node {
	return Node{Kind: KindFunctionCall, Call: &FunctionCall{Name: name, Args: args}}
}

// Symbol creates a symbol literal node.
func (b *Builder) Symbol(s string) Node { return ValueNode(Symbol(s)) }

// String creates a string literal node.
func (b *Builder) String(s string) Node { return ValueNode(String(s)) }

// Int creates an integer literal node with an optional unit suffix.
func (b *Builder) Int(i int64, suffix string) Node { return ValueNode(Integer(i, suffix)) }

// Decimal creates a decimal literal node with an optional unit suffix.
func (b *Builder) Decimal(f float64, suffix string) Node {
	return ValueNode(Decimal(f, suffix))
}

// Bool creates a boolean literal node.
func (b *Builder) Bool(v bool) Node { return ValueNode(Bool(v)) }

// Null creates the null literal node.
func (b *Builder) Null() Node { return ValueNode(Null()) }
