package syntax

import (
	"errors"
	"slices"
	"strings"
	"unicode/utf8"
)

// ErrUnknownRule is returned by [Parse] for a rule outside the catalog.
var ErrUnknownRule = errors.New("unknown grammar rule")

// atomicity controls implicit whitespace and comment skipping.
type atomicity uint8

const (
	// nonAtomic skips whitespace and comments between sequence elements.
	nonAtomic atomicity = iota
	// compoundAtomic disables skipping but still captures inner rules.
	compoundAtomic
	// atomic disables skipping and captures no inner rules.
	atomic
	// inherit keeps the caller's atomicity.
	inherit
)

// matcher attempts a match at the current cursor. A matcher that fails
// must leave the cursor and the captured-node stack where it found them.
type matcher func() bool

// state is the per-parse matching context.
type state struct {
	input     string
	pos       int
	atomicity atomicity
	lookahead int
	nodes     []*Node

	// Furthest failure.
	failPos  int
	expected []Rule
	tokens   []string
	tried    []Rule // rules that failed at failPos, reported or not
}

// Parse matches input starting with rule and returns the captured span
// tree. The returned node is tagged with rule; if rule is silent or does
// not capture, a synthetic node spanning the match holds the captured
// children.
//
// Only the program rule requires the whole input to be consumed.
func Parse(rule Rule, input string) (*Node, error) {
	if rule >= ruleCount {
		return nil, ErrUnknownRule
	}

	s := &state{input: input, failPos: -1}

	if !s.entry(rule)() {
		return nil, s.failure(rule)
	}

	if len(s.nodes) == 1 && s.nodes[0].Rule == rule {
		return s.nodes[0], nil
	}

	return &Node{
		Rule:     rule,
		Span:     Span{0, s.pos},
		Text:     input[:s.pos],
		Children: s.nodes,
	}, nil
}

// IsIdentRune reports whether r may appear in an identifier after its first
// rune.
func IsIdentRune(r rune) bool { return isIdentContinue(r) }

// IsSymbol reports whether s is exactly one identifier.
func IsSymbol(s string) bool {
	n, err := Parse(RuleSymbol, s)

	return err == nil && n.Span.End == len(s)
}

func (s *state) failure(rule Rule) *Error {
	if s.failPos < 0 {
		return newError(s.input, 0, []Rule{rule}, nil)
	}

	return newError(s.input, s.failPos, s.expected, s.tokens)
}

// rule runs m as the body of r under the given atomicity, capturing a
// node on success and recording the attempt on failure.
func (s *state) rule(r Rule, mode atomicity, m matcher) bool {
	start, mark := s.pos, len(s.nodes)
	caller := s.atomicity

	effective := caller
	if mode == nonAtomic || mode == compoundAtomic {
		effective = mode
	}

	failPos, attempts := s.failPos, s.attempts()

	if mode != inherit {
		s.atomicity = mode
	}

	ok := m()
	s.atomicity = caller

	if !ok {
		s.pos = start
		s.nodes = s.nodes[:mark]

		if s.lookahead == 0 && caller == nonAtomic {
			s.track(r, start, failPos, attempts)
		}

		return false
	}

	if r.Silent() || effective == atomic || s.lookahead > 0 {
		return true
	}

	node := &Node{
		Rule:     r,
		Span:     Span{start, s.pos},
		Text:     s.input[start:s.pos],
		Children: slices.Clone(s.nodes[mark:]),
	}
	s.nodes = append(s.nodes[:mark], node)

	return true
}

func (s *state) attempts() int { return len(s.expected) + len(s.tokens) }

// track records a failed attempt of r at pos. Nested attempts that already
// reported at pos are more specific than r and take precedence, and a rule
// retried at pos reports only what its first attempt did.
func (s *state) track(r Rule, pos, failPos, attempts int) {
	switch {
	case pos > s.failPos:
		s.failPos = pos
		s.expected = []Rule{r}
		s.tokens = nil
		s.tried = []Rule{r}

	case pos == s.failPos:
		if slices.Contains(s.tried, r) {
			return
		}

		s.tried = append(s.tried, r)

		if failPos < pos || s.attempts() > attempts {
			return
		}

		s.expected = append(s.expected, r)
	}
}

// expect records a failed literal match at the cursor.
func (s *state) expect(t string) {
	if s.lookahead > 0 || s.atomicity != nonAtomic {
		return
	}

	switch {
	case s.pos > s.failPos:
		s.failPos = s.pos
		s.expected = nil
		s.tokens = []string{t}
		s.tried = nil

	case s.pos == s.failPos:
		if !slices.Contains(s.tokens, t) {
			s.tokens = append(s.tokens, t)
		}
	}
}

// silent runs m under the given atomicity without capturing or tracking.
func (s *state) silent(mode atomicity, m matcher) bool {
	caller := s.atomicity
	s.atomicity = mode
	ok := m()
	s.atomicity = caller

	return ok
}

// skip consumes whitespace and comments in non-atomic mode.
func (s *state) skip() {
	if s.atomicity != nonAtomic {
		return
	}

	for s.whitespace() {
	}

	for {
		pos, mark := s.pos, len(s.nodes)
		if !s.comment() {
			return
		}

		for s.whitespace() {
		}

		if s.pos == pos {
			s.nodes = s.nodes[:mark]

			return
		}
	}
}

func (s *state) restore(pos, mark int) {
	s.pos = pos
	s.nodes = s.nodes[:mark]
}

// Combinators.

func (s *state) seq(ms ...matcher) matcher {
	return func() bool {
		pos, mark := s.pos, len(s.nodes)

		for i, m := range ms {
			if i > 0 {
				s.skip()
			}

			if !m() {
				s.restore(pos, mark)

				return false
			}
		}

		return true
	}
}

func (s *state) choice(ms ...matcher) matcher {
	return func() bool {
		for _, m := range ms {
			if m() {
				return true
			}
		}

		return false
	}
}

func (s *state) optional(m matcher) matcher {
	return func() bool {
		m()

		return true
	}
}

// repeat matches m zero or more times, skipping between repetitions.
func (s *state) repeat(m matcher) matcher {
	return func() bool {
		if m() {
			s.rest(m)
		}

		return true
	}
}

// repeat1 matches m one or more times, skipping between repetitions.
func (s *state) repeat1(m matcher) matcher {
	return func() bool {
		if !m() {
			return false
		}

		s.rest(m)

		return true
	}
}

// rest repeats m until it fails or stops making progress.
func (s *state) rest(m matcher) {
	for {
		pos, mark := s.pos, len(s.nodes)

		s.skip()

		if !m() || s.pos == pos {
			s.restore(pos, mark)

			return
		}
	}
}

// ahead succeeds iff m would succeed, without consuming input.
func (s *state) ahead(m matcher) matcher {
	return func() bool {
		pos, mark := s.pos, len(s.nodes)

		s.lookahead++
		ok := m()
		s.lookahead--

		s.restore(pos, mark)

		return ok
	}
}

// not succeeds iff m would fail, without consuming input.
func (s *state) not(m matcher) matcher {
	return func() bool {
		pos, mark := s.pos, len(s.nodes)

		s.lookahead++
		ok := m()
		s.lookahead--

		s.restore(pos, mark)

		return !ok
	}
}

// Terminals.

func (s *state) str(t string) matcher {
	return func() bool {
		if strings.HasPrefix(s.input[s.pos:], t) {
			s.pos += len(t)

			return true
		}

		s.expect(t)

		return false
	}
}

// strs matches the first of ts that matches; callers order ts
// longest-first where prefixes overlap.
func (s *state) strs(ts ...string) matcher {
	ms := make([]matcher, len(ts))
	for i, t := range ts {
		ms[i] = s.str(t)
	}

	return s.choice(ms...)
}

func (s *state) char(pred func(rune) bool) matcher {
	return func() bool {
		if s.pos >= len(s.input) {
			return false
		}

		r, size := utf8.DecodeRuneInString(s.input[s.pos:])
		if !pred(r) {
			return false
		}

		s.pos += size

		return true
	}
}

func (s *state) any() bool {
	if s.pos >= len(s.input) {
		return false
	}

	_, size := utf8.DecodeRuneInString(s.input[s.pos:])
	s.pos += size

	return true
}

func (s *state) soi() bool {
	return s.rule(RuleSOI, inherit, func() bool { return s.pos == 0 })
}

func (s *state) eoi() bool {
	return s.rule(RuleEOI, inherit, func() bool { return s.pos == len(s.input) })
}

// Keywords returns every reserved word, in both spellings where the
// grammar accepts two.
func Keywords() []string {
	return []string{"if", "若", "如果", "else", "否则", "true", "false", "null"}
}
