package syntax

import "iter"

// Rule identifies a grammar rule. Every captured [Node] is tagged with
// exactly one Rule.
type Rule uint8

const (
	RuleSOI Rule = iota
	RuleEOI

	// Structural rules.
	RuleProgram
	RuleStatements
	RuleDeclareStatement
	RuleDeclareBlock
	RuleDeclareItem
	RuleDeclarePair
	RuleIfStatement
	RuleElseStatement
	RuleBlock
	RuleExpression
	RuleTerm
	RuleCallSuffix
	RuleListBlock

	// Lexical rules.
	RuleKey
	RuleColon
	RuleKwIf
	RuleKwElse
	RuleOpInfix
	RuleData
	RuleSpecial
	RuleNumber
	RuleSignedNumber
	RuleDecimal
	RuleDecimalBad
	RuleInteger
	RuleSign
	RuleString
	RuleStringNormal
	RuleStringPart
	RuleSymbol
	RuleModifiers
	RuleDot
	RuleComment
	RuleWhitespace
	RuleLineComment
	RuleOmitComment
	RuleMultiLineComment
	RuleSeparator

	ruleCount
)

var ruleName = [ruleCount]string{
	RuleSOI:              "soi",
	RuleEOI:              "eoi",
	RuleProgram:          "program",
	RuleStatements:       "statements",
	RuleDeclareStatement: "declare_statement",
	RuleDeclareBlock:     "declare_block",
	RuleDeclareItem:      "declare_item",
	RuleDeclarePair:      "declare_pair",
	RuleIfStatement:      "if_statement",
	RuleElseStatement:    "else_statement",
	RuleBlock:            "block",
	RuleExpression:       "expression",
	RuleTerm:             "term",
	RuleCallSuffix:       "call_suffix",
	RuleListBlock:        "list_block",
	RuleKey:              "key",
	RuleColon:            "colon",
	RuleKwIf:             "kw_if",
	RuleKwElse:           "kw_else",
	RuleOpInfix:          "op_infix",
	RuleData:             "data",
	RuleSpecial:          "special",
	RuleNumber:           "number",
	RuleSignedNumber:     "signed_number",
	RuleDecimal:          "decimal",
	RuleDecimalBad:       "decimal_bad",
	RuleInteger:          "integer",
	RuleSign:             "sign",
	RuleString:           "string",
	RuleStringNormal:     "string_normal",
	RuleStringPart:       "string_part",
	RuleSymbol:           "symbol",
	RuleModifiers:        "modifiers",
	RuleDot:              "dot",
	RuleComment:          "comment",
	RuleWhitespace:       "whitespace",
	RuleLineComment:      "line_comment",
	RuleOmitComment:      "omit_comment",
	RuleMultiLineComment: "multi_line_comment",
	RuleSeparator:        "separator",
}

// silent rules match input but never produce a [Node].
var silent = [ruleCount]bool{
	RuleSOI:         true,
	RuleEOI:         true,
	RuleDeclareItem: true,
	RuleComment:     true,
	RuleWhitespace:  true,
	RuleOmitComment: true,
	RuleSeparator:   true,
}

// String returns the snake-case name of the rule.
func (r Rule) String() string {
	if r >= ruleCount {
		return "unknown"
	}

	return ruleName[r]
}

// Silent reports whether matches of r are never captured in the span tree.
func (r Rule) Silent() bool {
	return r < ruleCount && silent[r]
}

// Structural reports whether r belongs to the statement-level grammar
// rather than the lexical grammar.
func (r Rule) Structural() bool {
	return r >= RuleProgram && r <= RuleListBlock
}

// IsComment reports whether r is one of the comment rules.
func (r Rule) IsComment() bool {
	switch r {
	case RuleComment, RuleLineComment, RuleOmitComment, RuleMultiLineComment:
		return true
	default:
		return false
	}
}

// Rules returns an iterator over the rule catalog in declaration order.
func Rules() iter.Seq[Rule] {
	return func(yield func(Rule) bool) {
		for r := range ruleCount {
			if !yield(r) {
				return
			}
		}
	}
}

// RuleNames returns the names of all rules in declaration order.
func RuleNames() []string {
	names := make([]string, 0, ruleCount)
	for r := range Rules() {
		names = append(names, r.String())
	}

	return names
}

// ParseRule returns the rule with the given snake-case name.
func ParseRule(name string) (Rule, bool) {
	for r := range Rules() {
		if ruleName[r] == name {
			return r, true
		}
	}

	return 0, false
}

// MarshalText implements [encoding.TextMarshaler].
func (r Rule) MarshalText() ([]byte, error) {
	return []byte(r.String()), nil
}
