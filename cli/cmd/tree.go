package cmd

import (
	"context"
	"log/slog"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"

	"github.com/ardnew/re0/cli/cmd/suggest"
	"github.com/ardnew/re0/lang"
	"github.com/ardnew/re0/lang/syntax"
	"github.com/ardnew/re0/log"
)

// Tree prints the span tree captured by matching a grammar rule against the
// input.
type Tree struct {
	Rule  string `default:"program" help:"Grammar rule to match."                placeholder:"RULE" short:"r"`
	Color bool   `help:"Color rule names even when output is not a terminal." negatable:""`

	Input
}

// Run executes the tree command.
func (t *Tree) Run(ctx context.Context) error {
	rule, err := suggest.Lookup(t.Rule)
	if err != nil {
		return err
	}

	name, text, err := readSources(ctx, t.Source)
	if err != nil {
		return err
	}

	log.TraceContext(ctx, "match rule",
		slog.String("rule", rule.String()),
		slog.String("source", name),
		slog.Int("source_length", len(text)),
	)

	node, err := syntax.Parse(rule, text)
	if err != nil {
		return lang.ErrParse.Wrap(err).With(
			slog.String("source", name),
			slog.String("rule", rule.String()),
		)
	}

	out := streamsFrom(ctx).Out

	ren := lipgloss.NewRenderer(out)
	if t.Color {
		ren.SetColorProfile(termenv.ANSI)
	}

	return node.PrintFunc(out, ruleStyles(ren))
}

// ruleStyles returns a label function coloring rule names by category.
func ruleStyles(ren *lipgloss.Renderer) func(syntax.Rule) string {
	structural := ren.NewStyle().Foreground(lipgloss.Color("4")).Bold(true)
	comment := ren.NewStyle().Foreground(lipgloss.Color("8")).Italic(true)
	lexical := ren.NewStyle().Foreground(lipgloss.Color("6"))

	return func(r syntax.Rule) string {
		switch {
		case r.IsComment():
			return comment.Render(r.String())
		case r.Structural():
			return structural.Render(r.String())
		default:
			return lexical.Render(r.String())
		}
	}
}
