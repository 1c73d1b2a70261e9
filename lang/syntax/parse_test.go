package syntax

import (
	"errors"
	"slices"
	"strings"
	"testing"
)

func mustParse(t *testing.T, rule Rule, input string) *Node {
	t.Helper()

	n, err := Parse(rule, input)
	if err != nil {
		t.Fatalf("Parse(%v, %q): %v", rule, input, err)
	}

	return n
}

func TestParse_Number(t *testing.T) {
	tests := []struct {
		input  string
		text   string // matched text of the number node
		kind   Rule   // child of signed_number
		sign   string
		suffix string
	}{
		{input: "42", text: "42", kind: RuleInteger},
		{input: "1.5", text: "1.5", kind: RuleDecimal},
		{input: "1_000", text: "1_000", kind: RuleInteger},
		{input: "1_000.2_5", text: "1_000.2_5", kind: RuleDecimal},
		{input: "-3", text: "-3", kind: RuleInteger, sign: "-"},
		{input: "+0.25", text: "+0.25", kind: RuleDecimal, sign: "+"},
		{input: "1.", text: "1.", kind: RuleDecimalBad},
		{input: ".5", text: ".5", kind: RuleDecimalBad},
		{input: "10kg", text: "10kg", kind: RuleInteger, suffix: "kg"},
		{input: "2.5m", text: "2.5m", kind: RuleDecimal, suffix: "m"},
		{input: "3米", text: "3米", kind: RuleInteger, suffix: "米"},
		{input: "1 kg", text: "1", kind: RuleInteger},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			n := mustParse(t, RuleNumber, tt.input)

			if n.Rule != RuleNumber || n.Text != tt.text {
				t.Fatalf("got %v %q, want number %q", n.Rule, n.Text, tt.text)
			}

			signed := n.Child(RuleSignedNumber)
			if signed == nil {
				t.Fatal("missing signed_number")
			}

			if signed.Child(tt.kind) == nil {
				t.Errorf("signed_number children %v, want %v", rules(signed.Children), tt.kind)
			}

			if s := signed.Child(RuleSign); (s == nil) != (tt.sign == "") ||
				(s != nil && s.Text != tt.sign) {
				t.Errorf("sign = %v, want %q", s, tt.sign)
			}

			var suffix string
			if s := n.Child(RuleSymbol); s != nil {
				suffix = s.Text
			}

			if suffix != tt.suffix {
				t.Errorf("suffix = %q, want %q", suffix, tt.suffix)
			}
		})
	}
}

func TestParse_Decimal(t *testing.T) {
	n := mustParse(t, RuleNumber, "1.5")

	dec := n.Child(RuleSignedNumber).Child(RuleDecimal)
	if dec == nil {
		t.Fatal("1.5 did not parse as decimal")
	}

	if got := rules(dec.Children); !slices.Equal(got, []Rule{RuleInteger, RuleDot}) {
		t.Errorf("decimal children = %v", got)
	}
}

func TestParse_String(t *testing.T) {
	for _, input := range []string{`'abc'`, `"abc"`, `“abc”`, `‹abc›`, `«abc»`} {
		t.Run(input, func(t *testing.T) {
			n := mustParse(t, RuleString, input)

			normal := n.Child(RuleStringNormal)
			if normal == nil {
				t.Fatal("missing string_normal")
			}

			if len(normal.Children) != 1 || normal.Children[0].Text != "abc" {
				t.Errorf("string parts = %v", texts(normal.Children))
			}
		})
	}
}

func TestParse_StringPart(t *testing.T) {
	tests := []struct {
		input string
		parts []string
	}{
		{`""`, nil},
		{`"a\"b"`, []string{"a", `\"`, "b"}},
		{`'it"s'`, []string{`it"s`}},
		{`"éx"`, []string{`éx`}},
		{`"\u{1F600 20}"`, []string{`\u{1F600 20}`}},
		{`"tab\there"`, []string{"tab", `\t`, "here"}},
		{`“他说"好"”`, []string{`他说"好"`}},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			n := mustParse(t, RuleStringNormal, tt.input)

			if got := texts(n.Children); !slices.Equal(got, tt.parts) {
				t.Errorf("parts = %q, want %q", got, tt.parts)
			}
		})
	}
}

func TestParse_Data(t *testing.T) {
	tests := []struct {
		input string
		want  Rule
	}{
		{"true", RuleSpecial},
		{"false", RuleSpecial},
		{"null", RuleSpecial},
		{"nullable", RuleSymbol},
		{"trueish", RuleSymbol},
		{"12", RuleNumber},
		{"'x'", RuleString},
		{"名字", RuleSymbol},
		{"_private", RuleSymbol},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			n := mustParse(t, RuleData, tt.input)

			if len(n.Children) != 1 || n.Children[0].Rule != tt.want {
				t.Fatalf("data children = %v, want [%v]", rules(n.Children), tt.want)
			}

			if n.Children[0].Text != tt.input {
				t.Errorf("text = %q, want %q", n.Children[0].Text, tt.input)
			}
		})
	}
}

func TestParse_OpInfix(t *testing.T) {
	ops := []string{
		">=", "大于等于", "不小于", ">", "大于",
		"<=", "小于等于", "不大于", "<", "小于",
		"==", "等于", "!=", "不等于", "+=", "-=",
	}

	for _, op := range ops {
		t.Run(op, func(t *testing.T) {
			n := mustParse(t, RuleOpInfix, op)
			if n.Text != op {
				t.Errorf("matched %q, want %q", n.Text, op)
			}
		})
	}
}

func TestParse_Keywords(t *testing.T) {
	tests := []struct {
		rule  Rule
		input string
		ok    bool
	}{
		{RuleKwIf, "if", true},
		{RuleKwIf, "若", true},
		{RuleKwIf, "如果", true},
		{RuleKwIf, "iffy", false},
		{RuleKwElse, "else", true},
		{RuleKwElse, "否则", true},
		{RuleKwElse, "elsewhere", false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			_, err := Parse(tt.rule, tt.input)
			if (err == nil) != tt.ok {
				t.Errorf("Parse(%v, %q) error = %v, want ok=%v", tt.rule, tt.input, err, tt.ok)
			}
		})
	}
}

func TestParse_Expression(t *testing.T) {
	n := mustParse(t, RuleExpression, "a >= 1 不等于 b ")

	want := []Rule{RuleTerm, RuleOpInfix, RuleTerm, RuleOpInfix, RuleTerm}
	if got := rules(n.Children); !slices.Equal(got, want) {
		t.Fatalf("children = %v, want %v", got, want)
	}

	// A failed trailing optional leaves the skipped whitespace in the span.
	if n.Text != "a >= 1 不等于 b " {
		t.Errorf("text = %q", n.Text)
	}
}

func TestParse_Call(t *testing.T) {
	tests := []struct {
		input string
		args  int
	}{
		{"f()", 0},
		{"f(1)", 1},
		{"f(1, 'a'; b,)", 3},
		{"max(a，b)", 2},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			n := mustParse(t, RuleTerm, tt.input)

			call := n.Child(RuleCallSuffix)
			if call == nil {
				t.Fatal("missing call_suffix")
			}

			if got := len(call.Inner()); got != tt.args {
				t.Errorf("args = %d, want %d", got, tt.args)
			}
		})
	}
}

func TestParse_IfStatement(t *testing.T) {
	n := mustParse(t, RuleIfStatement, "if a { 1 } else if b { 2 } else { 3 }")

	want := []Rule{RuleKwIf, RuleExpression, RuleBlock, RuleElseStatement}
	if got := rules(n.Children); !slices.Equal(got, want) {
		t.Fatalf("children = %v, want %v", got, want)
	}

	elseIf := n.Child(RuleElseStatement).Child(RuleIfStatement)
	if elseIf == nil {
		t.Fatal("else branch is not an if_statement")
	}

	if elseIf.Child(RuleElseStatement).Child(RuleBlock) == nil {
		t.Error("final else has no block")
	}
}

func TestParse_ListBlock(t *testing.T) {
	for _, input := range []string{"[1, 2, 'x']", "【1，2，'x'】", "[1 2 'x']"} {
		t.Run(input, func(t *testing.T) {
			n := mustParse(t, RuleListBlock, input)
			if got := len(n.Inner()); got != 3 {
				t.Errorf("items = %d, want 3", got)
			}
		})
	}
}

func TestParse_Program(t *testing.T) {
	tests := []struct {
		name  string
		input string
		decls int
	}{
		{"empty", "", 0},
		{"whitespace", " \n\t　", 0},
		{"comments only", "// note\n/* a /* nested */ b */\n/// doc\n", 0},
		{"one", "config main { port: 8080 }", 1},
		{"modifiers", "config main public static { }", 1},
		{
			"several",
			`config a { x: 1 }
			 settings b {
			   nested { y: "z" }
			   list: [1, 2]
			   cond: if x > 1 { 'big' } else { 'small' }
			 }
			 配置 丙 { 键：值 }`,
			3,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			n := mustParse(t, RuleProgram, tt.input)

			if n.Rule != RuleProgram {
				t.Fatalf("root rule = %v", n.Rule)
			}

			got := 0
			for range n.All(RuleDeclareStatement) {
				got++
			}

			if got != tt.decls {
				t.Errorf("declarations = %d, want %d", got, tt.decls)
			}

			if got != len(n.Inner()) {
				t.Errorf("unexpected program children %v", rules(n.Children))
			}
		})
	}
}

func TestParse_DocComment(t *testing.T) {
	n := mustParse(t, RuleProgram, "/// the main config\n、第二行\nconfig main {}")

	want := []Rule{RuleLineComment, RuleLineComment, RuleDeclareStatement}
	if got := rules(n.Children); !slices.Equal(got, want) {
		t.Fatalf("children = %v, want %v", got, want)
	}

	if n.Children[0].Text != "/// the main config" {
		t.Errorf("comment text = %q", n.Children[0].Text)
	}
}

func TestParse_Atomicity(t *testing.T) {
	// symbol is atomic: no inner captures.
	if n := mustParse(t, RuleSymbol, "abc"); len(n.Children) != 0 {
		t.Errorf("symbol children = %v", rules(n.Children))
	}

	// number is compound-atomic: no whitespace between number and suffix.
	if n := mustParse(t, RuleNumber, "5 s"); n.Child(RuleSymbol) != nil {
		t.Error("suffix matched across whitespace")
	}

	// declare_item is silent: pairs appear directly under the block.
	n := mustParse(t, RuleDeclareBlock, "{ a: 1; b: 2 }")
	if got := rules(n.Children); !slices.Equal(got, []Rule{RuleDeclarePair, RuleDeclarePair}) {
		t.Errorf("block children = %v", got)
	}
}

func TestParse_Failure(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		offset int
		line   int
		column int
		expect []Rule
		tokens []string
	}{
		{
			name:   "missing value",
			input:  "cfg main { port: }",
			offset: 17,
			line:   1,
			column: 18,
			expect: []Rule{RuleNumber, RuleSymbol, RuleKwIf},
			tokens: []string{"{", "["},
		},
		{
			name:   "second line",
			input:  "a b {\n  x: }",
			offset: 11,
			line:   2,
			column: 6,
			expect: []Rule{RuleSymbol},
		},
		{
			name:   "unclosed block",
			input:  "a b { x: 1",
			offset: 10,
			line:   1,
			column: 11,
			tokens: []string{"}"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(RuleProgram, tt.input)

			var perr *Error
			if !errors.As(err, &perr) {
				t.Fatalf("error = %v, want *Error", err)
			}

			if perr.Offset != tt.offset || perr.Line != tt.line || perr.Column != tt.column {
				t.Errorf("position = %d (%d:%d), want %d (%d:%d)",
					perr.Offset, perr.Line, perr.Column, tt.offset, tt.line, tt.column)
			}

			for _, r := range tt.expect {
				if !slices.Contains(perr.Expected, r) {
					t.Errorf("expected set %v lacks %v", perr.Expected, r)
				}
			}

			for _, tok := range tt.tokens {
				if !slices.Contains(perr.Tokens, tok) {
					t.Errorf("tokens %q lack %q", perr.Tokens, tok)
				}
			}

			if !strings.HasPrefix(perr.Error(), "parse error at line ") {
				t.Errorf("message = %q", perr.Error())
			}

			if !strings.Contains(perr.Snippet(), "^") {
				t.Errorf("snippet = %q", perr.Snippet())
			}
		})
	}
}

// A rule retried by several alternatives at the failure offset must not be
// reported next to the sub-rules its first attempt already reported.
func TestParse_ErrorRetriedRule(t *testing.T) {
	_, err := Parse(RuleProgram, "a b { x: y -1 }")

	var perr *Error
	if !errors.As(err, &perr) {
		t.Fatalf("error = %v, want *Error", err)
	}

	if perr.Offset != strings.Index("a b { x: y -1 }", "-") {
		t.Errorf("offset = %d, want the sign", perr.Offset)
	}

	if slices.Contains(perr.Expected, RuleKey) {
		t.Errorf("expected set %v contains %v", perr.Expected, RuleKey)
	}

	for _, r := range []Rule{RuleStringNormal, RuleSymbol, RuleInteger} {
		if !slices.Contains(perr.Expected, r) {
			t.Errorf("expected set %v lacks %v", perr.Expected, r)
		}
	}

	seen := make(map[Rule]bool, len(perr.Expected))
	for _, r := range perr.Expected {
		if seen[r] {
			t.Errorf("expected set %v repeats %v", perr.Expected, r)
		}

		seen[r] = true
	}
}

func TestParse_UnknownRule(t *testing.T) {
	if _, err := Parse(ruleCount, "x"); !errors.Is(err, ErrUnknownRule) {
		t.Errorf("error = %v, want ErrUnknownRule", err)
	}
}

func TestLineCol(t *testing.T) {
	tests := []struct {
		src       string
		offset    int
		line, col int
	}{
		{"abc", 0, 1, 1},
		{"abc", 3, 1, 4},
		{"ab\ncd", 3, 2, 1},
		{"ab\n若x", 6, 2, 2},
		{"x", 99, 1, 2},
	}

	for _, tt := range tests {
		line, col := lineCol(tt.src, tt.offset)
		if line != tt.line || col != tt.col {
			t.Errorf("lineCol(%q, %d) = %d:%d, want %d:%d",
				tt.src, tt.offset, line, col, tt.line, tt.col)
		}
	}
}

func TestNode_Print(t *testing.T) {
	var sb strings.Builder

	if err := mustParse(t, RuleNumber, "10kg").Print(&sb); err != nil {
		t.Fatal(err)
	}

	want := `- number 0..4
  - signed_number 0..2
    - integer 0..2: "10"
  - symbol 2..4: "kg"
`
	if sb.String() != want {
		t.Errorf("Print() =\n%s\nwant\n%s", sb.String(), want)
	}
}

func TestNode_Walk(t *testing.T) {
	n := mustParse(t, RuleProgram, "a b { c { d: 1 } }")

	var pairs int

	n.Walk(func(n *Node) bool {
		if n.Rule == RuleDeclarePair {
			pairs++
		}

		return true
	})

	if pairs != 2 {
		t.Errorf("declare_pair count = %d, want 2", pairs)
	}
}

func rules(ns []*Node) []Rule {
	out := make([]Rule, len(ns))
	for i, n := range ns {
		out[i] = n.Rule
	}

	return out
}

func texts(ns []*Node) []string {
	var out []string
	for _, n := range ns {
		out = append(out, n.Text)
	}

	return out
}
