package repl

import (
	"maps"
	"slices"
	"strings"
	"unicode/utf8"

	"github.com/charmbracelet/lipgloss"
	"github.com/sahilm/fuzzy"

	"github.com/ardnew/re0/lang"
	"github.com/ardnew/re0/lang/syntax"
)

// isWordRune reports whether r belongs to a completable word. Dots separate
// the segments of a property path.
func isWordRune(r rune) bool {
	return r != '.' && syntax.IsIdentRune(r)
}

// wordBounds returns the word at the cursor position and its byte bounds
// within input. The word is empty when the cursor does not touch one.
func wordBounds(input string, cursor int) (word string, start, end int) {
	cursor = min(max(cursor, 0), len(input))

	start = cursor
	for start > 0 {
		r, size := utf8.DecodeLastRuneInString(input[:start])
		if !isWordRune(r) {
			break
		}

		start -= size
	}

	end = cursor
	for end < len(input) {
		r, size := utf8.DecodeRuneInString(input[end:])
		if !isWordRune(r) {
			break
		}

		end += size
	}

	return input[start:end], start, end
}

// parentPath returns the dotted path leading up to the word starting at
// wordStart. For "x == server.http.ho" and the word "ho" it is
// "server.http"; for a word not preceded by a dot it is empty.
func parentPath(input string, wordStart int) string {
	prefix := input[:wordStart]
	if !strings.HasSuffix(prefix, ".") {
		return ""
	}

	prefix = strings.TrimRight(prefix, ".")

	pos := len(prefix)
	for pos > 0 {
		r, size := utf8.DecodeLastRuneInString(prefix[:pos])
		if r != '.' && !isWordRune(r) {
			break
		}

		pos -= size
	}

	return strings.Trim(prefix[pos:], ".")
}

// operatorWords returns the infix operators spelled as words.
func operatorWords() []string {
	var words []string

	for op, ascii := range lang.Operators {
		if op != ascii {
			words = append(words, op)
		}
	}

	slices.Sort(words)

	return words
}

// parseCandidates returns the completions for a word following parent in
// parse mode.
func (s *Session) parseCandidates(parent string) []string {
	if parent == "" {
		var names []string

		for _, d := range s.decls {
			names = append(names, d.Symbol, d.Keyword)
		}

		slices.Sort(names)
		names = slices.Compact(names)

		names = append(names, syntax.Keywords()...)

		return append(names, operatorWords()...)
	}

	path := strings.Split(parent, ".")

	d, ok := s.Declaration(path[0])
	if !ok {
		return nil
	}

	if len(path) == 1 {
		return d.Names()
	}

	n, ok := d.Get(path[1:]...)
	if !ok || n.Kind != lang.KindDict {
		return nil
	}

	var names []string

	for k := range n.Entries() {
		if k.Kind == lang.ValueSymbol {
			names = append(names, k.Text)
		}
	}

	return names
}

// ctrlCandidates returns the completions for argument number arg (0 for the
// command name itself) of the command named name.
func (s *Session) ctrlCandidates(name string, arg int) []string {
	if arg == 0 {
		return commandNames()
	}

	if arg > 1 {
		return nil
	}

	c, ok := findCommand(name)
	if !ok {
		return nil
	}

	switch c.name {
	case "rule":
		return syntax.RuleNames()
	case "view":
		return viewNames
	case "strict":
		return []string{"on", "off"}
	case "show":
		return slices.Sorted(maps.Keys(s.symbols()))
	default:
		return nil
	}
}

func (s *Session) symbols() map[string]struct{} {
	set := make(map[string]struct{}, len(s.decls))
	for _, d := range s.decls {
		set[d.Symbol] = struct{}{}
	}

	return set
}

// completion is the result of matching the word at the cursor.
type completion struct {
	matches    fuzzy.Matches
	start, end int
}

// complete matches the word at cursor in input against the candidates for
// mode. Matches are ranked best first.
func (s *Session) complete(mode inputMode, input string, cursor int) completion {
	word, start, end := wordBounds(input, cursor)
	c := completion{start: start, end: end}

	var candidates []string

	if mode == modeCtrl {
		fields := strings.Fields(input[:start])
		if len(fields) == 0 {
			candidates = s.ctrlCandidates("", 0)
		} else {
			candidates = s.ctrlCandidates(fields[0], len(fields))
		}
	} else {
		parent := parentPath(input, start)
		candidates = s.parseCandidates(parent)

		// Members are listed as soon as a dot is typed.
		if word == "" && parent != "" {
			c.matches = make(fuzzy.Matches, len(candidates))
			for i, name := range candidates {
				c.matches[i] = fuzzy.Match{Str: name, Index: i}
			}

			return c
		}
	}

	if word == "" || len(candidates) == 0 {
		return c
	}

	c.matches = fuzzy.Find(word, candidates)

	return c
}

// renderCandidateBar builds the single-line completion bar, truncated with
// an ellipsis to fit width. The candidate at index sel is highlighted when
// tabActive is set.
func renderCandidateBar(
	matches fuzzy.Matches,
	sel int,
	tabActive bool,
	width int,
) string {
	if len(matches) == 0 || width <= 0 {
		return ""
	}

	const sep = "  "

	sepWidth := lipgloss.Width(sep)
	ellipsis := hintStyle.Render("...")
	ellipsisWidth := lipgloss.Width(ellipsis)

	var b strings.Builder

	used := 0

	for i, match := range matches {
		rendered := renderCandidate(match, tabActive && i == sel)

		entryWidth := lipgloss.Width(rendered)
		if i > 0 {
			entryWidth += sepWidth
		}

		last := i == len(matches)-1

		reserve := ellipsisWidth
		if last {
			reserve = 0
		}

		if i > 0 && used+entryWidth+reserve > width {
			b.WriteString(sep)
			b.WriteString(ellipsis)

			break
		}

		if i > 0 {
			b.WriteString(sep)
		}

		b.WriteString(rendered)

		used += entryWidth
	}

	return b.String()
}

// renderCandidate renders one candidate with its matched runes
// highlighted.
func renderCandidate(match fuzzy.Match, selected bool) string {
	base, highlight := suggestionStyle, matchStyle
	if selected {
		base, highlight = selectedStyle, selectedMatchStyle
	}

	matched := make(map[int]bool, len(match.MatchedIndexes))
	for _, i := range match.MatchedIndexes {
		matched[i] = true
	}

	var b strings.Builder

	for i, r := range match.Str {
		if matched[i] {
			b.WriteString(highlight.Render(string(r)))
		} else {
			b.WriteString(base.Render(string(r)))
		}
	}

	return b.String()
}
