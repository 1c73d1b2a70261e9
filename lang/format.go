package lang

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/goccy/go-yaml"

	"github.com/ardnew/re0/lang/syntax"
)

// Format writes the document in native re0 syntax. A positive indent puts
// each entry on its own line; zero writes each declaration on one line.
func (d *Document) Format(_ context.Context, w io.Writer, indent int) error {
	p := &printer{w: w, indent: indent}

	for i, decl := range d.Root.Root {
		if i > 0 && indent > 0 {
			p.newline(0)
		}

		p.declaration(decl)
		p.print("\n")
	}

	return p.err
}

// FormatJSON writes the document as JSON.
func (d *Document) FormatJSON(_ context.Context, w io.Writer, indent int) error {
	var (
		jsonData []byte
		err      error
	)

	if indent > 0 {
		jsonData, err = json.MarshalIndent(d, "", strings.Repeat(" ", indent))
	} else {
		jsonData, err = json.Marshal(d)
	}

	if err != nil {
		return err
	}

	_, err = fmt.Fprintln(w, string(jsonData))

	return err
}

// FormatYAML writes the document as YAML.
func (d *Document) FormatYAML(ctx context.Context, w io.Writer, indent int) error {
	var opts []yaml.EncodeOption
	if indent > 0 {
		opts = append(opts, yaml.Indent(indent))
	} else {
		opts = append(opts, yaml.Flow(true))
	}

	yamlData, err := yaml.MarshalContext(ctx, d.ToMap(), opts...)
	if err != nil {
		return err
	}

	_, err = fmt.Fprint(w, string(yamlData))

	return err
}

// FormatNode returns n in native syntax on a single line.
func FormatNode(n Node) string {
	var sb strings.Builder

	p := &printer{w: &sb}
	p.node(n, 0)

	return sb.String()
}

// FormatDeclaration writes decl in native syntax.
func FormatDeclaration(w io.Writer, decl *DeclareStatement, indent int) error {
	p := &printer{w: w, indent: indent}
	p.declaration(decl)

	return p.err
}

// printer writes native syntax. The first write error is kept and all later
// writes are skipped.
type printer struct {
	w      io.Writer
	indent int
	err    error
}

func (p *printer) print(s ...string) {
	for _, str := range s {
		if p.err != nil {
			return
		}

		_, p.err = io.WriteString(p.w, str)
	}
}

func (p *printer) newline(depth int) {
	p.print("\n", strings.Repeat(" ", depth*p.indent))
}

func (p *printer) declaration(decl *DeclareStatement) {
	if decl.Comment != "" {
		for line := range strings.SplitSeq(decl.Comment, "\n") {
			p.print("/// ", line, "\n")
		}
	}

	p.print(decl.Keyword, " ", decl.Symbol)

	for _, m := range decl.Modifiers {
		p.print(" ", m)
	}

	p.print(" ")
	p.dict(decl.Body(), 0)
}

// dict writes a declare block.
func (p *printer) dict(n Node, depth int) {
	if len(n.Dict) == 0 {
		p.print("{}")

		return
	}

	p.print("{")

	first := true

	for key, value := range n.Entries() {
		if p.indent > 0 {
			p.newline(depth + 1)
		} else if first {
			p.print(" ")
		} else {
			p.print("; ")
		}

		first = false

		p.key(key)

		switch value.Kind {
		case KindDict:
			p.print(" ")
			p.dict(value, depth+1)

		case KindBlock:
			p.print(": ")
			p.list(value)

		default:
			p.print(": ")
			p.node(value, depth+1)
		}
	}

	if p.indent > 0 {
		p.newline(depth)
	} else {
		p.print(" ")
	}

	p.print("}")
}

func (p *printer) key(v Value) {
	switch {
	case v.Kind == ValueSymbol, v.Kind == ValueString,
		v.Kind == ValueInteger && v.Suffix == "" && v.Int >= 0:
		p.print(v.String())
	default:
		p.print(quote(v.String()))
	}
}

// list writes a list block on one line.
func (p *printer) list(n Node) {
	p.print("[")

	for i, item := range n.Block {
		if i > 0 {
			p.print(", ")
		}

		p.node(item, 0)
	}

	p.print("]")
}

// block writes the statements of a conditional body.
func (p *printer) block(n Node, depth int) {
	if len(n.Block) == 0 {
		p.print("{}")

		return
	}

	p.print("{")

	for _, stmt := range n.Block {
		if p.indent > 0 {
			p.newline(depth + 1)
		} else {
			p.print(" ")
		}

		p.node(stmt, depth+1)
	}

	if p.indent > 0 {
		p.newline(depth)
	} else {
		p.print(" ")
	}

	p.print("}")
}

func (p *printer) node(n Node, depth int) {
	switch n.Kind {
	case KindValue:
		p.print(n.Value.String())

	case KindExpression:
		p.node(n.Expr.Left, depth)
		p.print(" ", n.Expr.Operator, " ")
		p.node(n.Expr.Right, depth)

	case KindFunctionCall:
		name := n.Call.Name
		if !syntax.IsSymbol(name) {
			name = quote(name)
		}

		p.print(name, "(")

		for i, arg := range n.Call.Args {
			if i > 0 {
				p.print(", ")
			}

			p.node(arg, depth)
		}

		p.print(")")

	case KindIfStatement:
		p.ifStatement(n.If, depth)

	case KindBlock:
		p.block(n, depth)

	case KindDict:
		p.dict(n, depth)

	case KindRoot:
		for i, decl := range n.Root {
			if i > 0 {
				p.print("\n")
			}

			p.declaration(decl)
		}
	}
}

func (p *printer) ifStatement(s *IfStatement, depth int) {
	for i, b := range s.Cases {
		if i > 0 {
			p.print(" else ")
		}

		p.print("if ")
		p.node(b.Condition, depth)
		p.print(" ")
		p.block(b.Body, depth)
	}

	if len(s.Otherwise.Block) > 0 {
		p.print(" else ")
		p.block(s.Otherwise, depth)
	}
}

// Dump writes an indented outline of the node kinds under n.
func Dump(w io.Writer, n Node) error {
	d := &dumper{printer: printer{w: w, indent: 2}}
	d.node("", n, 0)
	d.print("\n")

	return d.err
}

type dumper struct {
	printer
	started bool
}

func (d *dumper) line(depth int, s ...string) {
	if d.started {
		d.newline(depth)
	} else {
		d.print(strings.Repeat(" ", depth*d.indent))
	}

	d.started = true
	d.print(s...)
}

func (d *dumper) node(label string, n Node, depth int) {
	head := n.Kind.String() + " " + n.Span.String()
	if label != "" {
		head = label + ": " + head
	}

	switch n.Kind {
	case KindValue:
		d.line(depth, head, " ", n.Value.Kind.String(), " ", n.Value.String())

	case KindExpression:
		d.line(depth, head, " ", n.Expr.Operator)
		d.node("left", n.Expr.Left, depth+1)
		d.node("right", n.Expr.Right, depth+1)

	case KindFunctionCall:
		d.line(depth, head, " ", n.Call.Name)

		for _, arg := range n.Call.Args {
			d.node("arg", arg, depth+1)
		}

	case KindIfStatement:
		d.line(depth, head)

		for b := range n.If.Branches() {
			d.node("when", b.Condition, depth+1)
			d.node("then", b.Body, depth+2)
		}

	case KindBlock:
		d.line(depth, head)

		for _, c := range n.Block {
			d.node("", c, depth+1)
		}

	case KindDict:
		d.line(depth, head)

		for k, v := range n.Entries() {
			d.node(k.String(), v, depth+1)
		}

	case KindRoot:
		d.line(depth, head)

		for _, decl := range n.Root {
			d.node(decl.Keyword+" "+decl.Symbol, decl.Body(), depth+1)
		}

	default:
		d.line(depth, head)
	}
}
