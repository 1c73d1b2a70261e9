package lang

import (
	"context"
	"errors"
	"io"
	"iter"
	"log/slog"
	"strconv"

	"github.com/klauspost/readahead"

	"github.com/ardnew/re0/lang/syntax"
)

// Document is a parsed re0 program.
type Document struct {
	// Root is the KindRoot node holding every top-level declaration.
	Root Node
	// Diagnostics lists the entries dropped while building Root.
	Diagnostics Diagnostics

	source string
	tree   *syntax.Node
}

// ParseReader parses a document from an io.Reader. The reader is drained
// through an asynchronous read-ahead buffer.
func ParseReader(
	ctx context.Context,
	r io.Reader,
	opts ...Option,
) (*Document, error) {
	ra := readahead.NewReader(r)
	defer ra.Close()

	data, err := io.ReadAll(ra)
	if err != nil {
		return nil, ErrReadInput.Wrap(err)
	}

	return ParseString(ctx, string(data), opts...)
}

// ParseString parses a document from a string.
//
// The context is checked once before matching starts; parsing itself is not
// interruptible, so callers bound the work by bounding the input.
func ParseString(ctx context.Context, s string, opts ...Option) (*Document, error) {
	o := makeOptions(opts...)

	o.logger.TraceContext(ctx, "parse start",
		slog.Int("source_length", len(s)))

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	tree, err := syntax.Parse(syntax.RuleProgram, s)
	if err != nil {
		perr := parseError(err)
		o.logger.DebugContext(ctx, "parse failed", slog.Any("error", perr))

		return nil, perr
	}

	root, diags, err := buildContext(ctx, tree, o)
	if err != nil {
		return nil, err
	}

	o.logger.TraceContext(ctx, "parse complete",
		slog.Int("declaration_count", len(root.Root)))

	return &Document{
		Root:        root,
		Diagnostics: diags,
		source:      s,
		tree:        tree,
	}, nil
}

// Source returns the text the document was parsed from.
func (d *Document) Source() string { return d.source }

// Tree returns the span tree the document was built from.
func (d *Document) Tree() *syntax.Node { return d.tree }

// Declarations returns an iterator over the top-level declarations in
// source order.
func (d *Document) Declarations() iter.Seq[*DeclareStatement] {
	return func(yield func(*DeclareStatement) bool) {
		for _, decl := range d.Root.Root {
			if !yield(decl) {
				return
			}
		}
	}
}

// Declaration returns the last top-level declaration named symbol.
func (d *Document) Declaration(symbol string) (*DeclareStatement, error) {
	for i := len(d.Root.Root) - 1; i >= 0; i-- {
		if decl := d.Root.Root[i]; decl.Symbol == symbol {
			return decl, nil
		}
	}

	return nil, ErrDeclarationNotFound.
		Wrap(errors.New(strconv.Quote(symbol))).
		With(slog.String("symbol", symbol))
}

// Keyword returns an iterator over the top-level declarations introduced by
// keyword.
func (d *Document) Keyword(keyword string) iter.Seq[*DeclareStatement] {
	return func(yield func(*DeclareStatement) bool) {
		for decl := range d.Declarations() {
			if decl.Keyword == keyword && !yield(decl) {
				return
			}
		}
	}
}
