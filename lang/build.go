package lang

import (
	"context"
	"log/slog"
	"strings"

	"github.com/ardnew/re0/lang/syntax"
	"github.com/ardnew/re0/log"
)

// Option configures AST synthesis.
type Option func(*options)

type options struct {
	logger log.Logger
	strict bool
}

// WithLogger sets the structured logger for trace-level debugging and
// diagnostic warnings. If not provided, the logger is zero-valued and all
// logging is a no-op.
func WithLogger(logger log.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithStrict turns every diagnostic into an [ErrValidation] error instead
// of dropping the offending entry and continuing.
func WithStrict(strict bool) Option {
	return func(o *options) {
		o.strict = strict
	}
}

func makeOptions(opts ...Option) options {
	var o options
	for _, opt := range opts {
		opt(&o)
	}

	return o
}

// builder converts a span tree into AST nodes.
type builder struct {
	ctx context.Context
	options
	diags Diagnostics
}

// Build converts the span tree rooted at n into an AST node.
//
// Grammar and literal failures are fatal and returned as the error.
// Recoverable inconsistencies are returned as diagnostics alongside the
// node, unless [WithStrict] is set.
func Build(n *syntax.Node, opts ...Option) (Node, Diagnostics, error) {
	return buildContext(context.Background(), n, makeOptions(opts...))
}

func buildContext(
	ctx context.Context,
	n *syntax.Node,
	o options,
) (Node, Diagnostics, error) {
	b := &builder{ctx: ctx, options: o}

	b.logger.TraceContext(ctx, "build start",
		slog.String("rule", n.Rule.String()),
		slog.Int("source_length", n.Span.Len()))

	node, err := b.node(n)
	if err != nil {
		return Node{}, b.diags, err
	}

	for _, d := range b.diags {
		b.logger.WarnContext(ctx, "dropped inconsistent entry", slog.Any("diagnostic", d))
	}

	if b.strict && len(b.diags) > 0 {
		return node, b.diags, b.diags.Err()
	}

	b.logger.TraceContext(ctx, "build complete",
		slog.String("kind", node.Kind.String()),
		slog.Int("diagnostic_count", len(b.diags)))

	return node, b.diags, nil
}

func (b *builder) diagnose(span syntax.Span, msg string) {
	b.diags = append(b.diags, Diagnostic{Span: span, Message: msg})
}

func (b *builder) node(n *syntax.Node) (Node, error) {
	switch n.Rule {
	case syntax.RuleProgram:
		return b.program(n)

	case syntax.RuleDeclareStatement:
		decl, err := b.declaration(n)
		if err != nil {
			return Node{}, err
		}

		return Node{Kind: KindRoot, Span: n.Span, Root: []*DeclareStatement{decl}}, nil

	case syntax.RuleDeclareBlock:
		return b.dict(n)

	case syntax.RuleDeclarePair:
		key, value, err := b.pair(n)
		if err != nil {
			return Node{}, err
		}

		return Node{Kind: KindDict, Span: n.Span, Dict: map[Value]Node{key: value}}, nil

	case syntax.RuleListBlock:
		return b.list(n)

	case syntax.RuleBlock:
		return b.block(n)

	case syntax.RuleStatements:
		return b.statements(n)

	case syntax.RuleIfStatement:
		return b.ifStatement(n)

	case syntax.RuleElseStatement:
		return b.elseStatement(n)

	case syntax.RuleExpression:
		return b.expression(n)

	case syntax.RuleTerm:
		return b.term(n)

	case syntax.RuleCallSuffix:
		args, err := b.args(n)
		if err != nil {
			return Node{}, err
		}

		return Node{Kind: KindBlock, Span: n.Span, Block: args}, nil

	case syntax.RuleData, syntax.RuleSpecial, syntax.RuleNumber,
		syntax.RuleString, syntax.RuleStringNormal, syntax.RuleSymbol,
		syntax.RuleKey, syntax.RuleInteger:
		v, err := b.value(n)
		if err != nil {
			return Node{}, err
		}

		return Node{Kind: KindValue, Span: n.Span, Value: v}, nil

	default:
		return Node{}, ErrUnexpectedNode.With(nodeAttrs(n)...)
	}
}

// program builds the root. Doc comments ("///" or "、") directly before a
// declaration become its comment.
func (b *builder) program(n *syntax.Node) (Node, error) {
	root := Node{Kind: KindRoot, Span: n.Span}

	var doc []string

	for _, c := range n.Children {
		switch c.Rule {
		case syntax.RuleLineComment:
			doc = append(doc, docText(c.Text))

		case syntax.RuleDeclareStatement:
			decl, err := b.declaration(c)
			if err != nil {
				return Node{}, err
			}

			decl.Comment = strings.Join(doc, "\n")
			root.Root = append(root.Root, decl)
			doc = nil

		default:
			doc = nil
		}
	}

	return root, nil
}

func docText(s string) string {
	s = strings.TrimPrefix(s, "///")
	s = strings.TrimPrefix(s, "、")

	return strings.TrimSpace(s)
}

func (b *builder) declaration(n *syntax.Node) (*DeclareStatement, error) {
	var (
		names     []string
		modifiers []string
		body      Node
		err       error
	)

	for _, c := range n.Inner() {
		switch c.Rule {
		case syntax.RuleSymbol:
			names = append(names, c.Text)

		case syntax.RuleModifiers:
			for m := range c.All(syntax.RuleSymbol) {
				modifiers = append(modifiers, m.Text)
			}

		case syntax.RuleDeclareBlock:
			if body, err = b.dict(c); err != nil {
				return nil, err
			}
		}
	}

	if len(names) != 2 {
		return nil, ErrUnexpectedNode.With(nodeAttrs(n)...)
	}

	decl, diags := NewDeclaration(names[0], names[1], modifiers, body)
	decl.Span = n.Span
	b.diags = append(b.diags, diags...)

	b.logger.TraceContext(b.ctx, "declaration",
		slog.String("keyword", decl.Keyword),
		slog.String("symbol", decl.Symbol),
		slog.Int("property_count", len(decl.Property)))

	return decl, nil
}

// dict builds a dictionary from a declare_block. A repeated key keeps the
// last value.
func (b *builder) dict(n *syntax.Node) (Node, error) {
	dict := make(map[Value]Node)

	for c := range n.All(syntax.RuleDeclarePair) {
		key, value, err := b.pair(c)
		if err != nil {
			return Node{}, err
		}

		if _, dup := dict[key]; dup {
			b.diagnose(c.Span, "duplicate key "+key.String()+" replaces earlier value")
		}

		dict[key] = value
	}

	return Node{Kind: KindDict, Span: n.Span, Dict: dict}, nil
}

func (b *builder) pair(n *syntax.Node) (Value, Node, error) {
	var (
		key   Value
		value Node
		err   error
	)

	for _, c := range n.Inner() {
		switch c.Rule {
		case syntax.RuleKey:
			key, err = b.value(c)
		case syntax.RuleDeclareBlock:
			value, err = b.dict(c)
		case syntax.RuleListBlock:
			value, err = b.list(c)
		case syntax.RuleStatements:
			value, err = b.statements(c)
		}

		if err != nil {
			return Value{}, Node{}, err
		}
	}

	return key, value, nil
}

func (b *builder) list(n *syntax.Node) (Node, error) {
	var items []Node

	for c := range n.All(syntax.RuleData) {
		v, err := b.value(c)
		if err != nil {
			return Node{}, err
		}

		items = append(items, Node{Kind: KindValue, Span: c.Span, Value: v})
	}

	return Node{Kind: KindBlock, Span: n.Span, Block: items}, nil
}

func (b *builder) block(n *syntax.Node) (Node, error) {
	var stmts []Node

	for c := range n.All(syntax.RuleStatements) {
		s, err := b.statements(c)
		if err != nil {
			return Node{}, err
		}

		stmts = append(stmts, s)
	}

	return Node{Kind: KindBlock, Span: n.Span, Block: stmts}, nil
}

func (b *builder) statements(n *syntax.Node) (Node, error) {
	inner := n.Inner()
	if len(inner) != 1 {
		return Node{}, ErrUnexpectedNode.With(nodeAttrs(n)...)
	}

	return b.node(inner[0])
}

// ifStatement flattens an if / else-if / else chain into one statement.
func (b *builder) ifStatement(n *syntax.Node) (Node, error) {
	stmt := &IfStatement{
		Otherwise: Node{Kind: KindBlock, Span: syntax.Span{Start: n.Span.End, End: n.Span.End}},
	}

	var branch IfBranch

	for _, c := range n.Inner() {
		switch c.Rule {
		case syntax.RuleExpression:
			cond, err := b.expression(c)
			if err != nil {
				return Node{}, err
			}

			branch.Condition = cond

		case syntax.RuleBlock:
			body, err := b.block(c)
			if err != nil {
				return Node{}, err
			}

			branch.Body = body
			stmt.Cases = append(stmt.Cases, branch)

		case syntax.RuleElseStatement:
			rest, err := b.elseStatement(c)
			if err != nil {
				return Node{}, err
			}

			if rest.Kind == KindIfStatement {
				stmt.Cases = append(stmt.Cases, rest.If.Cases...)
				stmt.Otherwise = rest.If.Otherwise
			} else {
				stmt.Otherwise = rest
			}
		}
	}

	return Node{Kind: KindIfStatement, Span: n.Span, If: stmt}, nil
}

// elseStatement builds the block or chained if_statement after an else
// keyword.
func (b *builder) elseStatement(n *syntax.Node) (Node, error) {
	for _, c := range n.Inner() {
		switch c.Rule {
		case syntax.RuleBlock:
			return b.block(c)
		case syntax.RuleIfStatement:
			return b.ifStatement(c)
		}
	}

	return Node{}, ErrUnexpectedNode.With(nodeAttrs(n)...)
}

// expression folds term (op term)* left to right with a single precedence
// level: a > b == c is (a > b) == c.
func (b *builder) expression(n *syntax.Node) (Node, error) {
	inner := n.Inner()
	if len(inner) == 0 || len(inner)%2 == 0 {
		return Node{}, ErrUnexpectedNode.With(nodeAttrs(n)...)
	}

	acc, err := b.term(inner[0])
	if err != nil {
		return Node{}, err
	}

	for i := 1; i+1 < len(inner); i += 2 {
		op, ok := Operators[inner[i].Text]
		if !ok {
			return Node{}, ErrUnexpectedNode.With(nodeAttrs(inner[i])...)
		}

		right, err := b.term(inner[i+1])
		if err != nil {
			return Node{}, err
		}

		acc = Node{
			Kind: KindExpression,
			Span: syntax.Span{Start: acc.Span.Start, End: right.Span.End},
			Expr: &BinaryExpression{Left: acc, Right: right, Operator: op},
		}
	}

	return acc, nil
}

// term builds a literal, or a function call when a call suffix follows.
func (b *builder) term(n *syntax.Node) (Node, error) {
	data := n.Child(syntax.RuleData)
	if data == nil {
		return Node{}, ErrUnexpectedNode.With(nodeAttrs(n)...)
	}

	v, err := b.value(data)
	if err != nil {
		return Node{}, err
	}

	suffix := n.Child(syntax.RuleCallSuffix)
	if suffix == nil {
		return Node{Kind: KindValue, Span: data.Span, Value: v}, nil
	}

	args, err := b.args(suffix)
	if err != nil {
		return Node{}, err
	}

	return Node{
		Kind: KindFunctionCall,
		Span: syntax.Span{Start: data.Span.Start, End: suffix.Span.End},
		Call: &FunctionCall{Name: v.key(), Args: args},
	}, nil
}

func (b *builder) args(n *syntax.Node) ([]Node, error) {
	var args []Node

	for c := range n.All(syntax.RuleExpression) {
		arg, err := b.expression(c)
		if err != nil {
			return nil, err
		}

		args = append(args, arg)
	}

	return args, nil
}

// value interprets a literal node.
func (b *builder) value(n *syntax.Node) (Value, error) {
	switch n.Rule {
	case syntax.RuleData, syntax.RuleKey:
		inner := n.Inner()
		if len(inner) != 1 {
			return Value{}, ErrUnexpectedNode.With(nodeAttrs(n)...)
		}

		return b.value(inner[0])

	case syntax.RuleSpecial:
		switch n.Text {
		case "true":
			return Bool(true), nil
		case "false":
			return Bool(false), nil
		default:
			return Null(), nil
		}

	case syntax.RuleNumber:
		lit, err := parseNumber(n)
		if err != nil {
			return Value{}, err
		}

		return lit.Value(), nil

	case syntax.RuleInteger:
		i, err := parseInteger(n)
		if err != nil {
			return Value{}, err
		}

		return Integer(i, ""), nil

	case syntax.RuleString, syntax.RuleStringNormal:
		s, err := parseString(n)
		if err != nil {
			return Value{}, err
		}

		return String(s), nil

	case syntax.RuleSymbol:
		return Symbol(n.Text), nil

	default:
		return Value{}, ErrUnexpectedNode.With(nodeAttrs(n)...)
	}
}
