// Package suggest finds grammar rules by exact or approximate name.
package suggest

import (
	"strings"

	"github.com/sahilm/fuzzy"

	"github.com/ardnew/re0/lang/syntax"
	"github.com/ardnew/re0/pkg"
)

// MaxSuggestions limits the rule names offered for an unknown rule.
const MaxSuggestions = 3

// Normalize accepts hyphens and mixed case in rule names.
func Normalize(name string) string {
	return strings.ReplaceAll(strings.ToLower(strings.TrimSpace(name)), "-", "_")
}

// Match returns every rule when pattern is empty, or else the rules whose
// names fuzzy-match pattern, best match first.
func Match(pattern string) []syntax.Rule {
	var rules []syntax.Rule

	pattern = Normalize(pattern)
	if pattern == "" {
		for rule := range syntax.Rules() {
			rules = append(rules, rule)
		}

		return rules
	}

	// Rule names are listed in rule order, so a match index is a Rule.
	for _, m := range fuzzy.Find(pattern, syntax.RuleNames()) {
		rules = append(rules, syntax.Rule(m.Index))
	}

	return rules
}

// Lookup returns the rule with the given name. An unknown name yields
// [pkg.ErrUnknownRule] with the closest rule names as suggestions.
func Lookup(name string) (syntax.Rule, error) {
	if rule, ok := syntax.ParseRule(Normalize(name)); ok {
		return rule, nil
	}

	err := pkg.ErrUnknownRule.Wrapf("%q", name)

	var names []string

	for _, rule := range Match(name) {
		if len(names) == MaxSuggestions {
			break
		}

		names = append(names, rule.String())
	}

	if len(names) > 0 {
		err = err.Wrapf("did you mean %s?", strings.Join(names, ", "))
	}

	return 0, err
}
