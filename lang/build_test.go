package lang

import (
	"bytes"
	"context"
	"errors"
	"slices"
	"strings"
	"testing"

	"github.com/ardnew/re0/lang/syntax"
	"github.com/ardnew/re0/log"
)

func mustParse(t *testing.T, src string, opts ...Option) *Document {
	t.Helper()

	doc, err := ParseString(context.Background(), src, opts...)
	if err != nil {
		t.Fatalf("ParseString(%q) error = %v", src, err)
	}

	return doc
}

// property returns the node at path in the only declaration of src.
func property(t *testing.T, src string, path ...string) Node {
	t.Helper()

	doc := mustParse(t, src)
	if len(doc.Root.Root) != 1 {
		t.Fatalf("ParseString(%q) has %d declarations, want 1", src, len(doc.Root.Root))
	}

	n, ok := doc.Root.Root[0].Get(path...)
	if !ok {
		t.Fatalf("ParseString(%q) has no property %v", src, path)
	}

	return n
}

func TestBuild_Declarations(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
		want  int
	}{
		{"empty", "", 0},
		{"whitespace", " \n\t ", 0},
		{"one", "config main {}", 1},
		{"two", "config a {}\nconfig b { x: 1 }", 2},
		{"same_symbol", "c x {} c x {}", 2},
		{"chinese", "配置 甲 {}\n配置 乙 { 值： 1 }", 2},
		{"comments", "// note\nconfig a {} /* more */ config b {}", 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			doc := mustParse(t, tt.input)
			if got := len(doc.Root.Root); got != tt.want {
				t.Errorf("declarations = %d, want %d", got, tt.want)
			}

			if doc.Root.Kind != KindRoot {
				t.Errorf("Root.Kind = %v, want Root", doc.Root.Kind)
			}
		})
	}
}

func TestBuild_Declaration(t *testing.T) {
	t.Parallel()

	doc := mustParse(t, "config main public beta { port: 8080 }")
	decl := doc.Root.Root[0]

	if decl.Keyword != "config" || decl.Symbol != "main" {
		t.Errorf("declaration = %s %s, want config main", decl.Keyword, decl.Symbol)
	}

	if !slices.Equal(decl.Modifiers, []string{"public", "beta"}) {
		t.Errorf("Modifiers = %v, want [public beta]", decl.Modifiers)
	}

	if got, want := decl.Property["port"], ValueNode(Integer(8080, "")); !Equal(got, want) {
		t.Errorf("port = %v, want %v", got, want)
	}
}

func TestBuild_Values(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
		want  Value
	}{
		{"integer", "c x { v: 42 }", Integer(42, "")},
		{"decimal", "c x { v: 1.5 }", Decimal(1.5, "")},
		{"suffix", "c x { v: 10kg }", Integer(10, "kg")},
		{"negative", "c x { v: -2.5s }", Decimal(-2.5, "s")},
		{"true", "c x { v: true }", Bool(true)},
		{"false", "c x { v: false }", Bool(false)},
		{"null", "c x { v: null }", Null()},
		{"symbol", "c x { v: trueish }", Symbol("trueish")},
		{"string", `c x { v: "s" }`, String("s")},
		{"single", "c x { v: 's' }", String("s")},
		{"curly", "c x { v: “s” }", String("s")},
		{"angle", "c x { v: ‹s› }", String("s")},
		{"guillemet", "c x { v: «s» }", String("s")},
		{"fullwidth_colon", "c x { v： 1 }", Integer(1, "")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := property(t, tt.input, "v")
			if got.Kind != KindValue || got.Value != tt.want {
				t.Errorf("v = %#v, want %#v", got.Value, tt.want)
			}
		})
	}
}

func TestBuild_LiteralErrors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		input   string
		wantErr error
	}{
		{"trailing_dot", "c x { v: 1. }", ErrMalformedDecimal},
		{"leading_dot", "c x { v: .5 }", ErrMalformedDecimal},
		{"in_list", "c x { v: [1, 2.] }", ErrMalformedDecimal},
		{"overflow", "c x { v: 99999999999999999999 }", ErrLiteral},
		{"key_overflow", "c x { m { 99999999999999999999: 1 } }", ErrLiteral},
		{"code_point", `c x { v: "\u{110000}" }`, ErrLiteral},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := ParseString(context.Background(), tt.input)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("ParseString() error = %v, want %v", err, tt.wantErr)
			}

			if errors.Is(err, ErrParse) {
				t.Errorf("ParseString() error = %v, want no ErrParse", err)
			}
		})
	}
}

func TestBuild_IfBranches(t *testing.T) {
	t.Parallel()

	b := NewBuilder()
	n := property(t, "c x { v: if a { 1 } else { 2 3 } }", "v")

	if n.Kind != KindIfStatement {
		t.Fatalf("v.Kind = %v, want IfStatement", n.Kind)
	}

	branches := slices.Collect(n.If.Branches())
	if len(branches) != 2 {
		t.Fatalf("branches = %d, want 2", len(branches))
	}

	if !Equal(branches[0].Condition, b.Symbol("a")) {
		t.Errorf("branch 0 condition = %v, want a", branches[0].Condition)
	}

	if !Equal(branches[1].Condition, b.Bool(true)) {
		t.Errorf("branch 1 condition = %v, want true", branches[1].Condition)
	}

	if want := b.Block(b.Int(2, ""), b.Int(3, "")); !Equal(branches[1].Body, want) {
		t.Errorf("branch 1 body = %v, want %v", branches[1].Body, want)
	}
}

func TestBuild_IfWithoutElse(t *testing.T) {
	t.Parallel()

	n := property(t, "c x { v: if a { 1 } }", "v")

	branches := slices.Collect(n.If.Branches())
	if len(branches) != 2 {
		t.Fatalf("branches = %d, want 2", len(branches))
	}

	if body := branches[1].Body; body.Kind != KindBlock || len(body.Block) != 0 {
		t.Errorf("otherwise = %v, want empty block", body)
	}
}

func TestBuild_ElseIfChain(t *testing.T) {
	t.Parallel()

	b := NewBuilder()
	got := property(t, "c x { v: if a { 1 } else if b { 2 } else { 3 } }", "v")
	want := b.If(
		[]Node{b.Int(3, "")},
		b.When(b.Symbol("a"), b.Int(1, "")),
		b.When(b.Symbol("b"), b.Int(2, "")),
	)

	if !Equal(got, want) {
		t.Errorf("v = %v, want %v", got, want)
	}

	if n := len(slices.Collect(got.If.Branches())); n != 3 {
		t.Errorf("branches = %d, want 3", n)
	}
}

func TestBuild_Bilingual(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		chinese string
		latin   string
	}{
		{
			name:    "if",
			chinese: "c x { v: 若 x { } }",
			latin:   "c x { v: if x { } }",
		},
		{
			name:    "if_else",
			chinese: "c x { v: 如果 a 大于 1 { 'y' } 否则 { 'n' } }",
			latin:   "c x { v: if a > 1 { 'y' } else { 'n' } }",
		},
		{
			name:    "operators",
			chinese: "c x { v: a 不小于 1 不等于 b 小于等于 c }",
			latin:   "c x { v: a >= 1 != b <= c }",
		},
		{
			name:    "separators",
			chinese: "c x { a： 1； b： [1， 2] }",
			latin:   "c x { a: 1; b: [1, 2] }",
		},
		{
			name:    "list_brackets",
			chinese: "c x { v: 【1, 2】 }",
			latin:   "c x { v: [1, 2] }",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			zh := mustParse(t, tt.chinese)
			en := mustParse(t, tt.latin)

			if !Equal(zh.Root, en.Root) {
				t.Errorf("%q and %q differ:\n%v\n%v", tt.chinese, tt.latin, zh.Root, en.Root)
			}
		})
	}
}

func TestBuild_ExpressionFold(t *testing.T) {
	t.Parallel()

	b := NewBuilder()
	got := property(t, "c x { v: a > 1 == b }", "v")
	want := b.Expr(b.Expr(b.Symbol("a"), ">", b.Int(1, "")), "==", b.Symbol("b"))

	if !Equal(got, want) {
		t.Errorf("v = %v, want %v", got, want)
	}

	if got.Expr.Left.Kind != KindExpression {
		t.Errorf("left operand kind = %v, want Expression", got.Expr.Left.Kind)
	}
}

func TestBuild_FunctionCall(t *testing.T) {
	t.Parallel()

	b := NewBuilder()

	tests := []struct {
		name  string
		input string
		want  Node
	}{
		{
			name:  "no_args",
			input: "c x { v: now() }",
			want:  b.Call("now"),
		},
		{
			name:  "trailing_separator",
			input: "c x { v: max(1, b, 'c',) }",
			want:  b.Call("max", b.Int(1, ""), b.Symbol("b"), b.String("c")),
		},
		{
			name:  "nested",
			input: "c x { v: f(g(1), a > b) }",
			want: b.Call("f",
				b.Call("g", b.Int(1, "")),
				b.Expr(b.Symbol("a"), ">", b.Symbol("b"))),
		},
		{
			name:  "string_name",
			input: `c x { v: "f"(1) }`,
			want:  b.Call("f", b.Int(1, "")),
		},
		{
			name:  "operand",
			input: "c x { v: len(a) >= 2 }",
			want:  b.Expr(b.Call("len", b.Symbol("a")), ">=", b.Int(2, "")),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := property(t, tt.input, "v"); !Equal(got, tt.want) {
				t.Errorf("v = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestBuild_Containers(t *testing.T) {
	t.Parallel()

	b := NewBuilder()

	tests := []struct {
		name  string
		input string
		path  []string
		want  Node
	}{
		{
			name:  "list",
			input: `c x { v: [1, "two", three, 4.0kg] }`,
			path:  []string{"v"},
			want: b.List(Integer(1, ""), String("two"), Symbol("three"),
				Decimal(4, "kg")),
		},
		{
			name:  "list_without_colon",
			input: "c x { v [1 2] }",
			path:  []string{"v"},
			want:  b.List(Integer(1, ""), Integer(2, "")),
		},
		{
			name:  "empty_list",
			input: "c x { v: [] }",
			path:  []string{"v"},
			want:  b.List(),
		},
		{
			name:  "nested_dict",
			input: "c x { outer { inner: 1 } }",
			path:  []string{"outer", "inner"},
			want:  b.Int(1, ""),
		},
		{
			name:  "nested_dict_with_colon",
			input: "c x { outer: { inner { deep: true } } }",
			path:  []string{"outer", "inner", "deep"},
			want:  b.Bool(true),
		},
		{
			name:  "mixed_keys",
			input: `c x { m { 1: a; "k": b; s: c } }`,
			path:  []string{"m"},
			want: DictNode(map[Value]Node{
				Integer(1, ""): b.Symbol("a"),
				String("k"):    b.Symbol("b"),
				Symbol("s"):    b.Symbol("c"),
			}),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := property(t, tt.input, tt.path...); !Equal(got, tt.want) {
				t.Errorf("%v = %v, want %v", tt.path, got, tt.want)
			}
		})
	}
}

func TestBuild_Diagnostics(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		input     string
		wantNames []string
		wantDiags int
		wantMsg   string
	}{
		{
			name:      "clean",
			input:     "c x { a: 1; b: 2 }",
			wantNames: []string{"a", "b"},
		},
		{
			name:      "integer_key",
			input:     "c x { 1: a; ok: b }",
			wantNames: []string{"ok"},
			wantDiags: 1,
			wantMsg:   "dropping Integer key 1",
		},
		{
			name:      "string_key",
			input:     `c x { "s": a }`,
			wantNames: []string{},
			wantDiags: 1,
			wantMsg:   `dropping String key "s"`,
		},
		{
			name:      "duplicate_key",
			input:     "c x { a: 1; a: 2 }",
			wantNames: []string{"a"},
			wantDiags: 1,
			wantMsg:   "duplicate key a",
		},
		{
			name:      "nested_duplicate",
			input:     "c x { m { k: 1; k: 2 } }",
			wantNames: []string{"m"},
			wantDiags: 1,
			wantMsg:   "duplicate key k",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			doc := mustParse(t, tt.input)
			decl := doc.Root.Root[0]

			if got := decl.Names(); !slices.Equal(got, tt.wantNames) {
				t.Errorf("Names() = %v, want %v", got, tt.wantNames)
			}

			if got := len(doc.Diagnostics); got != tt.wantDiags {
				t.Fatalf("diagnostics = %d, want %d: %v", got, tt.wantDiags, doc.Diagnostics)
			}

			if tt.wantDiags > 0 && !strings.Contains(doc.Diagnostics[0].Message, tt.wantMsg) {
				t.Errorf("diagnostic = %q, want it to contain %q",
					doc.Diagnostics[0].Message, tt.wantMsg)
			}

			_, err := ParseString(context.Background(), tt.input, WithStrict(true))
			if got := errors.Is(err, ErrValidation); got != (tt.wantDiags > 0) {
				t.Errorf("strict error = %v, want ErrValidation %v", err, tt.wantDiags > 0)
			}
		})
	}
}

func TestBuild_DuplicateKeepsLast(t *testing.T) {
	t.Parallel()

	if got := property(t, "c x { a: 1; a: 2 }", "a"); !Equal(got, ValueNode(Integer(2, ""))) {
		t.Errorf("a = %v, want 2", got)
	}
}

func TestBuild_DocComments(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
		want  []string
	}{
		{
			name:  "lines",
			input: "/// first\n/// second\nconfig main {}\n// plain\nconfig other {}",
			want:  []string{"first\nsecond", ""},
		},
		{
			name:  "chinese",
			input: "、注释\n配置 甲 {}",
			want:  []string{"注释"},
		},
		{
			name:  "interrupted",
			input: "/// a\n/* b */\nc x {}",
			want:  []string{""},
		},
		{
			name:  "between",
			input: "c x {}\n/// y\nc y {}",
			want:  []string{"", "y"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			doc := mustParse(t, tt.input)

			var got []string
			for decl := range doc.Declarations() {
				got = append(got, decl.Comment)
			}

			if !slices.Equal(got, tt.want) {
				t.Errorf("comments = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestBuild_CommentsInside(t *testing.T) {
	t.Parallel()

	src := "c x { /* a */ k /* b */ : /* c */ 1 // d\n /// e\n j: [1, /* f */ 2] }"

	if got := property(t, src, "k"); !Equal(got, ValueNode(Integer(1, ""))) {
		t.Errorf("k = %v, want 1", got)
	}

	want := NewBuilder().List(Integer(1, ""), Integer(2, ""))
	if got := property(t, src, "j"); !Equal(got, want) {
		t.Errorf("j = %v, want %v", got, want)
	}
}

func TestBuild_Rules(t *testing.T) {
	t.Parallel()

	tests := []struct {
		rule  syntax.Rule
		input string
		want  NodeKind
	}{
		{syntax.RuleProgram, "c x {}", KindRoot},
		{syntax.RuleDeclareStatement, "c x {}", KindRoot},
		{syntax.RuleDeclareBlock, "{ a: 1 }", KindDict},
		{syntax.RuleStatements, "若 x {}", KindIfStatement},
		{syntax.RuleExpression, "a >= b", KindExpression},
		{syntax.RuleExpression, "a", KindValue},
		{syntax.RuleTerm, "f(1)", KindFunctionCall},
		{syntax.RuleListBlock, "[1]", KindBlock},
		{syntax.RuleData, "1kg", KindValue},
	}

	for _, tt := range tests {
		t.Run(tt.rule.String(), func(t *testing.T) {
			t.Parallel()

			n, err := syntax.Parse(tt.rule, tt.input)
			if err != nil {
				t.Fatalf("syntax.Parse() error = %v", err)
			}

			got, _, err := Build(n)
			if err != nil {
				t.Fatalf("Build() error = %v", err)
			}

			if got.Kind != tt.want {
				t.Errorf("Build().Kind = %v, want %v", got.Kind, tt.want)
			}
		})
	}
}

func TestBuild_UnexpectedNode(t *testing.T) {
	t.Parallel()

	n, err := syntax.Parse(syntax.RuleLineComment, "/// x")
	if err != nil {
		t.Fatalf("syntax.Parse() error = %v", err)
	}

	if _, _, err := Build(n); !errors.Is(err, ErrUnexpectedNode) {
		t.Errorf("Build() error = %v, want ErrUnexpectedNode", err)
	}
}

func TestBuild_Logging(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer

	logger := log.Make(&buf,
		log.WithLevel(log.LevelTrace),
		log.WithFormat(log.FormatJSON),
		log.WithPretty(false))

	mustParse(t, "c x { a: 1; a: 2 }", WithLogger(logger))

	out := buf.String()
	for _, msg := range []string{"parse start", "declaration", "dropped inconsistent entry", "parse complete"} {
		if !strings.Contains(out, msg) {
			t.Errorf("log output missing %q:\n%s", msg, out)
		}
	}
}
