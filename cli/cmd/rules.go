package cmd

import (
	"context"
	"fmt"

	"github.com/charmbracelet/lipgloss"

	"github.com/ardnew/re0/cli/cmd/suggest"
	"github.com/ardnew/re0/lang/syntax"
)

// Rules lists the grammar rules, optionally filtered by a fuzzy pattern.
type Rules struct {
	Silent  bool   `help:"Include rules that never appear in span trees."`
	Pattern string `arg:"" help:"Fuzzy pattern matched against rule names." optional:""`
}

// Run executes the rules command.
func (r *Rules) Run(ctx context.Context) error {
	out := streamsFrom(ctx).Out

	ren := lipgloss.NewRenderer(out)
	name := ren.NewStyle().Bold(true).Width(ruleNameWidth())
	kind := ren.NewStyle().Foreground(lipgloss.Color("8"))

	for _, rule := range suggest.Match(r.Pattern) {
		if rule.Silent() && !r.Silent {
			continue
		}

		if _, err := fmt.Fprintln(out, name.Render(rule.String())+kind.Render(ruleKind(rule))); err != nil {
			return err
		}
	}

	return nil
}

// ruleKind returns a short description of the category of rule.
func ruleKind(rule syntax.Rule) string {
	switch {
	case rule.Silent():
		return "silent"
	case rule.IsComment():
		return "comment"
	case rule.Structural():
		return "structural"
	default:
		return "lexical"
	}
}

// ruleNameWidth is the width of the longest rule name plus a gap.
func ruleNameWidth() int {
	width := 0
	for _, name := range syntax.RuleNames() {
		width = max(width, len(name))
	}

	return width + 2
}
