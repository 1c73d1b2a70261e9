package syntax

import (
	"slices"
	"testing"
)

func TestRule_Names(t *testing.T) {
	seen := make(map[string]bool)

	for r := range Rules() {
		name := r.String()
		if name == "" || name == "unknown" {
			t.Errorf("rule %d has no name", r)
		}

		if seen[name] {
			t.Errorf("duplicate rule name %q", name)
		}

		seen[name] = true

		got, ok := ParseRule(name)
		if !ok || got != r {
			t.Errorf("ParseRule(%q) = %v, %v; want %v, true", name, got, ok, r)
		}
	}

	if len(RuleNames()) != int(ruleCount) {
		t.Errorf("RuleNames() has %d entries, want %d", len(RuleNames()), ruleCount)
	}

	if _, ok := ParseRule("no_such_rule"); ok {
		t.Error("ParseRule accepted an unknown name")
	}

	if got := Rule(250).String(); got != "unknown" {
		t.Errorf("Rule(250).String() = %q, want %q", got, "unknown")
	}
}

func TestRule_Silent(t *testing.T) {
	want := []Rule{
		RuleSOI, RuleEOI, RuleDeclareItem, RuleComment,
		RuleWhitespace, RuleOmitComment, RuleSeparator,
	}

	for r := range Rules() {
		if got := r.Silent(); got != slices.Contains(want, r) {
			t.Errorf("%v.Silent() = %v", r, got)
		}
	}
}

func TestRule_Classes(t *testing.T) {
	tests := []struct {
		rule       Rule
		structural bool
		comment    bool
	}{
		{RuleProgram, true, false},
		{RuleListBlock, true, false},
		{RuleKey, false, false},
		{RuleSymbol, false, false},
		{RuleLineComment, false, true},
		{RuleMultiLineComment, false, true},
		{RuleSOI, false, false},
	}

	for _, tt := range tests {
		t.Run(tt.rule.String(), func(t *testing.T) {
			if got := tt.rule.Structural(); got != tt.structural {
				t.Errorf("Structural() = %v, want %v", got, tt.structural)
			}

			if got := tt.rule.IsComment(); got != tt.comment {
				t.Errorf("IsComment() = %v, want %v", got, tt.comment)
			}
		})
	}
}

func TestRule_MarshalText(t *testing.T) {
	b, err := RuleDeclarePair.MarshalText()
	if err != nil {
		t.Fatal(err)
	}

	if string(b) != "declare_pair" {
		t.Errorf("MarshalText() = %q, want %q", b, "declare_pair")
	}
}

func TestKeywords(t *testing.T) {
	t.Parallel()

	for _, kw := range Keywords() {
		matched := false

		for _, r := range []Rule{RuleKwIf, RuleKwElse, RuleSpecial} {
			if n, err := Parse(r, kw); err == nil && n.Span.End == len(kw) {
				matched = true
			}
		}

		if !matched {
			t.Errorf("keyword %q is not matched by any keyword rule", kw)
		}
	}
}
