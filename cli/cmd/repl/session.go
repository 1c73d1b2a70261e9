package repl

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strings"

	"github.com/goccy/go-yaml"

	"github.com/ardnew/re0/lang"
	"github.com/ardnew/re0/lang/syntax"
	"github.com/ardnew/re0/log"
)

// View selects how parse results are shown.
type View int

const (
	ViewFormat View = iota // fmt
	ViewJSON               // json
	ViewYAML               // yaml
	ViewAST                // ast
	ViewTree               // tree
)

var viewNames = []string{"fmt", "json", "yaml", "ast", "tree"}

func (v View) String() string {
	if v < 0 || int(v) >= len(viewNames) {
		return fmt.Sprintf("View(%d)", int(v))
	}

	return viewNames[v]
}

// ParseView returns the view with the given name.
func ParseView(name string) (View, bool) {
	i := slices.Index(viewNames, strings.ToLower(strings.TrimSpace(name)))

	return View(i), i >= 0
}

// outputIndent is the indent width of multi-line results.
const outputIndent = 2

// Session is the state of an interactive parsing session: the declarations
// entered so far, the grammar rule that input is matched against, and the
// view used to show results.
//
// Declarations accumulate across inputs matched by the program rule. A
// declaration replaces an earlier one with the same symbol.
type Session struct {
	Rule   syntax.Rule
	View   View
	Strict bool

	logger log.Logger
	decls  []*lang.DeclareStatement
}

// NewSession returns an empty session matching whole programs.
func NewSession(logger log.Logger) *Session {
	return &Session{Rule: syntax.RuleProgram, View: ViewFormat, logger: logger}
}

func (s *Session) options() []lang.Option {
	return []lang.Option{lang.WithLogger(s.logger), lang.WithStrict(s.Strict)}
}

// Load replaces the declarations of s with those of the program src.
func (s *Session) Load(ctx context.Context, src string) error {
	doc, err := lang.ParseString(ctx, src, s.options()...)
	if err != nil {
		return err
	}

	s.setDocument(doc)

	return nil
}

func (s *Session) setDocument(doc *lang.Document) {
	s.decls = slices.Collect(doc.Declarations())
}

// Reset removes every declaration.
func (s *Session) Reset() { s.decls = nil }

// Declarations returns the declarations of s in input order.
func (s *Session) Declarations() []*lang.DeclareStatement {
	return slices.Clone(s.decls)
}

// Declaration returns the declaration with the given symbol.
func (s *Session) Declaration(symbol string) (*lang.DeclareStatement, bool) {
	i := slices.IndexFunc(s.decls, func(d *lang.DeclareStatement) bool {
		return d.Symbol == symbol
	})
	if i < 0 {
		return nil, false
	}

	return s.decls[i], true
}

// Document returns the declarations of s as one document.
func (s *Session) Document() *lang.Document {
	return lang.NewBuilder().Document(s.decls...)
}

func (s *Session) merge(decls ...*lang.DeclareStatement) {
	for _, d := range decls {
		i := slices.IndexFunc(s.decls, func(e *lang.DeclareStatement) bool {
			return e.Symbol == d.Symbol
		})
		if i < 0 {
			s.decls = append(s.decls, d)
		} else {
			s.decls[i] = d
		}
	}
}

// Eval matches input against the session rule and returns the result in
// the session view.
func (s *Session) Eval(ctx context.Context, input string) (string, error) {
	s.logger.TraceContext(ctx, "repl eval",
		slog.String("rule", s.Rule.String()),
		slog.String("view", s.View.String()))

	if s.Rule == syntax.RuleProgram {
		return s.evalProgram(ctx, input)
	}

	return s.evalRule(ctx, input)
}

func (s *Session) evalProgram(ctx context.Context, input string) (string, error) {
	doc, err := lang.ParseCached(ctx, input, s.options()...)
	if err != nil {
		return "", err
	}

	s.merge(slices.Collect(doc.Declarations())...)

	var buf bytes.Buffer

	switch s.View {
	case ViewJSON:
		err = doc.FormatJSON(ctx, &buf, outputIndent)
	case ViewYAML:
		err = doc.FormatYAML(ctx, &buf, outputIndent)
	case ViewAST:
		err = lang.Dump(&buf, doc.Root)
	case ViewTree:
		err = doc.Tree().Print(&buf)
	default:
		for decl := range doc.Declarations() {
			if buf.Len() > 0 {
				buf.WriteByte('\n')
			}

			if err = lang.FormatDeclaration(&buf, decl, outputIndent); err != nil {
				break
			}
		}
	}

	if err != nil {
		return "", err
	}

	for _, d := range doc.Diagnostics {
		fmt.Fprintf(&buf, "\ndropped %s", d)
	}

	return strings.TrimRight(buf.String(), "\n"), nil
}

func (s *Session) evalRule(ctx context.Context, input string) (string, error) {
	node, err := syntax.Parse(s.Rule, input)
	if err != nil {
		return "", lang.ErrParse.Wrap(err).With(slog.String("rule", s.Rule.String()))
	}

	var buf bytes.Buffer

	if s.View == ViewTree {
		err = node.Print(&buf)
	} else {
		err = s.renderNode(ctx, &buf, node)
	}

	if err != nil {
		return "", err
	}

	if node.Span.End < len(input) {
		fmt.Fprintf(&buf, "\nmatched %d of %d bytes", node.Span.End, len(input))
	}

	return strings.TrimRight(buf.String(), "\n"), nil
}

// renderNode builds the AST of a span tree and writes it in the session
// view. Rules with no AST form fall back to the span tree.
func (s *Session) renderNode(ctx context.Context, buf *bytes.Buffer, node *syntax.Node) error {
	n, diags, err := lang.Build(node, s.options()...)
	if errors.Is(err, lang.ErrUnexpectedNode) {
		s.logger.DebugContext(ctx, "rule has no AST form",
			slog.String("rule", node.Rule.String()))

		return node.Print(buf)
	}

	if err != nil {
		return err
	}

	switch s.View {
	case ViewJSON:
		b, err := json.MarshalIndent(n.ToNative(), "", strings.Repeat(" ", outputIndent))
		if err != nil {
			return err
		}

		buf.Write(b)

	case ViewYAML:
		b, err := yaml.MarshalContext(ctx, n.ToNative(), yaml.Indent(outputIndent))
		if err != nil {
			return err
		}

		buf.Write(b)

	case ViewAST:
		if err := lang.Dump(buf, n); err != nil {
			return err
		}

	default:
		buf.WriteString(lang.FormatNode(n))
	}

	for _, d := range diags {
		fmt.Fprintf(buf, "\ndropped %s", d)
	}

	return nil
}
