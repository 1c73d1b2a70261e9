package cmd

import (
	"context"
	"io"
	"log/slog"

	"github.com/ardnew/re0/lang"
	"github.com/ardnew/re0/log"
)

// Fmt parses a document and writes it in the chosen format.
type Fmt struct {
	Native Native `cmd:"" default:"withargs" help:"Format as native re0 syntax (default)."`
	JSON   JSON   `cmd:""                    help:"Format as JSON."`
	YAML   YAML   `cmd:""                    help:"Format as YAML."`
	AST    AST    `cmd:""                    help:"Format as an abstract syntax tree."`
}

// Input names the sources of a document. Every distinct file is read once,
// in order, followed by stdin.
type Input struct {
	Source []string `arg:"" default:"-" help:"Source file(s), or '-' for stdin." name:"source" optional:""`
}

// parse reads and parses the sources of in as one document.
func (in Input) parse(ctx context.Context, format string) (*lang.Document, error) {
	name, text, err := readSources(ctx, in.Source)
	if err != nil {
		return nil, err
	}

	doc, err := lang.ParseString(ctx, text, lang.WithLogger(log.Default()))
	if err != nil {
		return nil, lang.WrapError(err).With(
			slog.String("source", name),
			slog.String("format", format),
		)
	}

	return doc, nil
}

// Native formats input as native re0 syntax.
type Native struct {
	Indent int `default:"2" help:"Indent width for formatted output." short:"i"`

	Input
}

// Run executes the fmt native command.
func (f *Native) Run(ctx context.Context) error {
	doc, err := f.parse(ctx, "native")
	if err != nil {
		return err
	}

	return doc.Format(ctx, streamsFrom(ctx).Out, f.Indent)
}

// JSON formats input as JSON.
type JSON struct {
	Indent int `default:"2" help:"Indent width for JSON output." short:"i"`

	Input
}

// Run executes the fmt json command.
func (j *JSON) Run(ctx context.Context) error {
	doc, err := j.parse(ctx, "json")
	if err != nil {
		return err
	}

	return doc.FormatJSON(ctx, streamsFrom(ctx).Out, j.Indent)
}

// YAML formats input as YAML.
type YAML struct {
	Indent int `default:"2" help:"Indent width for YAML output." short:"i"`

	Input
}

// Run executes the fmt yaml command.
func (y *YAML) Run(ctx context.Context) error {
	doc, err := y.parse(ctx, "yaml")
	if err != nil {
		return err
	}

	return doc.FormatYAML(ctx, streamsFrom(ctx).Out, y.Indent)
}

// AST prints the abstract syntax tree of the input.
type AST struct {
	Input
}

// Run executes the fmt ast command.
func (a *AST) Run(ctx context.Context) error {
	doc, err := a.parse(ctx, "ast")
	if err != nil {
		return err
	}

	return formatAST(streamsFrom(ctx).Out, doc)
}

func formatAST(w io.Writer, doc *lang.Document) error {
	return lang.Dump(w, doc.Root)
}
